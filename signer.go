package tomselect

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

// Signer signs and verifies field identifiers so that the query view can
// trust the widget UUID a browser hands back. Tokens have the form
// base64(value).base64(signature).
type Signer struct {
	secret []byte
}

// NewSigner creates a Signer from a secret.
// Returns ErrBadSecret if the secret is shorter than 32 bytes.
func NewSigner(secret string) (*Signer, error) {
	if len(secret) < 32 {
		return nil, ErrBadSecret
	}
	return &Signer{secret: []byte(secret)}, nil
}

// Sign returns a tamper-proof token for the given value.
func (s *Signer) Sign(value string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(value))
	sig := mac.Sum(nil)

	return base64.RawURLEncoding.EncodeToString([]byte(value)) +
		"." + base64.RawURLEncoding.EncodeToString(sig)
}

// Verify checks a token and returns the original value.
// Returns ErrBadSignature if the token is malformed or the signature
// does not match.
func (s *Signer) Verify(token string) (string, error) {
	parts := strings.SplitN(token, ".", 2)
	if len(parts) != 2 {
		return "", ErrBadSignature
	}

	value, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return "", ErrBadSignature
	}

	sig, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return "", ErrBadSignature
	}

	mac := hmac.New(sha256.New, s.secret)
	mac.Write(value)
	expected := mac.Sum(nil)

	if !hmac.Equal(sig, expected) {
		return "", ErrBadSignature
	}

	return string(value), nil
}
