package auth

// AccountIdentity adapts an Account into the Identity interface for token
// generation.
type AccountIdentity struct {
	account *Account
}

// NewIdentityFromAccount returns an Identity adapter for the provided account.
func NewIdentityFromAccount(account *Account) Identity {
	if account == nil {
		return nil
	}
	return AccountIdentity{account: account}
}

// ID returns the account's ID as a string.
func (a AccountIdentity) ID() string {
	if a.account == nil {
		return ""
	}
	return a.account.ID.String()
}

// Email returns the account's email address.
func (a AccountIdentity) Email() string {
	if a.account == nil {
		return ""
	}
	return a.account.Email
}

// DisplayName returns the account's display name.
func (a AccountIdentity) DisplayName() string {
	if a.account == nil {
		return ""
	}
	return a.account.DisplayName
}

// Verified reports whether the account's email has been verified.
func (a AccountIdentity) Verified() bool {
	if a.account == nil {
		return false
	}
	return a.account.Verified
}
