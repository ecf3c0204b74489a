// Package auth implements the account credential and verification lifecycle
// for an email/password backend: registration, login, logout, email
// verification, and password reset.
//
// Account lifecycle:
//   - Accounts are created unverified with a single-use, time-limited
//     verification token (24h). Verifying the email clears the token for good.
//   - Password resets mint a single-use reset token (1h); a newer reset
//     request always replaces any outstanding token.
//   - Sessions are signed, time-limited JWTs bound to an account id, issued
//     on registration and login and validated on check-auth.
//
// Collaborators:
//   - The Credential Store is a Bun-backed repository (RepositoryManager);
//     all lifecycle mutations run as single-record read-modify-write
//     sequences inside RunInTx.
//   - The Notifier delivers outbound email. Registration and reset requests
//     treat a delivery failure as fatal even though the account mutation has
//     already been persisted; verification and reset-success email is
//     best-effort. That asymmetry is part of the documented contract.
package auth
