package auth

import (
	"crypto/rand"
	"encoding/hex"

	goerrors "github.com/goliatone/go-errors"
)

// accountTokenBytes is the raw entropy per minted token; 20 bytes hex encoded
// gives 160 bits, comfortably past the unguessable threshold.
const accountTokenBytes = 20

// MintAccountToken returns a new single-use token for the email verification
// and password reset flows. Tokens are printable hex; callers own expiry.
func MintAccountToken() (string, error) {
	buf := make([]byte, accountTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to mint account token")
	}
	return hex.EncodeToString(buf), nil
}
