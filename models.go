package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Account is a persisted user identity with credentials and
// verification/reset state.
type Account struct {
	bun.BaseModel `bun:"table:accounts,alias:acct"`

	ID           uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email        string    `bun:"email,notnull,unique" json:"email,omitempty"`
	DisplayName  string    `bun:"display_name,notnull" json:"display_name,omitempty"`
	PasswordHash string    `bun:"password_hash,notnull" json:"-"`
	Verified     bool      `bun:"is_verified" json:"is_verified"`

	// Verification fields are present only while the account is unverified
	// and a token is outstanding; reset fields only during an active reset
	// flow. Tokens are single-use and never exposed over the wire.
	VerificationToken     *string    `bun:"verification_token,nullzero" json:"-"`
	VerificationExpiresAt *time.Time `bun:"verification_expires_at,nullzero" json:"-"`
	ResetToken            *string    `bun:"reset_token,nullzero" json:"-"`
	ResetExpiresAt        *time.Time `bun:"reset_expires_at,nullzero" json:"-"`

	LastLoginAt *time.Time `bun:"last_login_at,nullzero" json:"last_login_at,omitempty"`
	CreatedAt   *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt   *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// SetVerificationToken installs a fresh verification token. Only unverified
// accounts carry one.
func (a *Account) SetVerificationToken(token string, expiresAt time.Time) *Account {
	a.VerificationToken = &token
	a.VerificationExpiresAt = &expiresAt
	return a
}

// ClearVerificationToken drops the verification fields once the token has
// been consumed.
func (a *Account) ClearVerificationToken() *Account {
	a.VerificationToken = nil
	a.VerificationExpiresAt = nil
	return a
}

// SetResetToken installs a fresh reset token, replacing any outstanding one.
// The latest request wins; there is no token history.
func (a *Account) SetResetToken(token string, expiresAt time.Time) *Account {
	a.ResetToken = &token
	a.ResetExpiresAt = &expiresAt
	return a
}

// ClearResetToken drops the reset fields once the token has been consumed.
func (a *Account) ClearResetToken() *Account {
	a.ResetToken = nil
	a.ResetExpiresAt = nil
	return a
}

// VerificationTokenValidAt reports whether the verification token is
// outstanding at t. Tokens are valid strictly before their expiry.
func (a *Account) VerificationTokenValidAt(t time.Time) bool {
	return a.VerificationToken != nil &&
		a.VerificationExpiresAt != nil &&
		t.Before(*a.VerificationExpiresAt)
}

// ResetTokenValidAt reports whether the reset token is outstanding at t.
func (a *Account) ResetTokenValidAt(t time.Time) bool {
	return a.ResetToken != nil &&
		a.ResetExpiresAt != nil &&
		t.Before(*a.ResetExpiresAt)
}
