package auth

import (
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes surfaced to API clients alongside structured errors.
const (
	TextCodeValidation         = "VALIDATION"
	TextCodeDuplicateAccount   = "DUPLICATE_ACCOUNT"
	TextCodeInvalidCreds       = "INVALID_CREDENTIALS"
	TextCodeTokenInvalid       = "TOKEN_INVALID"
	TextCodeTokenExpired       = "TOKEN_EXPIRED"
	TextCodeTokenMalformed     = "TOKEN_MALFORMED"
	TextCodeAccountNotFound    = "ACCOUNT_NOT_FOUND"
	TextCodeSessionNotFound    = "SESSION_NOT_FOUND"
	TextCodeSessionDecodeError = "SESSION_DECODE_ERROR"
	TextCodeSessionInvalid     = "SESSION_INVALID"
	TextCodeDataParseError     = "DATA_PARSE_ERROR"
	TextCodeEmptyPassword      = "EMPTY_PASSWORD"
	TextCodeDeliveryFailed     = "DELIVERY_FAILED"
)

// ErrAccountNotFound is returned when a lookup cannot resolve an account.
// Password reset requests surface it as-is; login paths must never leak it.
var ErrAccountNotFound = goerrors.New("account not found", goerrors.CategoryNotFound).
	WithTextCode(TextCodeAccountNotFound)

// ErrDuplicateAccount is returned when registering an email that is taken.
var ErrDuplicateAccount = goerrors.New("an account with that email already exists", goerrors.CategoryConflict).
	WithTextCode(TextCodeDuplicateAccount)

// ErrInvalidCredentials covers both unknown emails and mismatched passwords
// so the two cases are indistinguishable to the caller.
var ErrInvalidCredentials = goerrors.New("the credentials provided are invalid", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds)

// ErrTokenInvalidOrExpired covers wrong, already-used, and expired
// verification or reset tokens; callers cannot tell which one it was.
var ErrTokenInvalidOrExpired = goerrors.New("invalid or expired token", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenInvalid)

// ErrTokenExpired is returned for session credentials past their expiry.
var ErrTokenExpired = goerrors.New("token is expired", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired)

// ErrTokenMalformed is returned for session credentials that fail parsing
// or signature verification.
var ErrTokenMalformed = goerrors.New("token is malformed", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed)

// ErrInvalidSession is the uniform failure for checkSession: missing,
// malformed, or expired credentials, or a bound account that no longer exists.
var ErrInvalidSession = goerrors.New("invalid session", goerrors.CategoryAuth).
	WithTextCode(TextCodeSessionInvalid)

// ErrUnableToFindSession is the error when the request has no session cookie.
var ErrUnableToFindSession = goerrors.New("unable to find session", goerrors.CategoryAuth).
	WithTextCode(TextCodeSessionNotFound)

// ErrUnableToDecodeSession unable to decode the JWT from the session cookie.
var ErrUnableToDecodeSession = goerrors.New("unable to decode session", goerrors.CategoryAuth).
	WithTextCode(TextCodeSessionDecodeError)

// ErrUnableToParseData parse error.
var ErrUnableToParseData = goerrors.New("unable to parse data", goerrors.CategoryBadInput).
	WithTextCode(TextCodeDataParseError)

// ErrNoEmptyString rejects empty required values, passwords in particular.
var ErrNoEmptyString = goerrors.New("value cannot be empty", goerrors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
