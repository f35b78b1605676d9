package pinata

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrMissingCredential = errors.New("pinata jwt is not configured")

// CredentialInfo describes the configured Pinata API token.
type CredentialInfo struct {
	Subject   string
	ExpiresAt time.Time // zero when the token carries no exp claim
}

func (c CredentialInfo) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// InspectCredential decodes the Pinata JWT without verifying its signature;
// only Pinata holds the key. It is used to warn about unusable tokens at startup.
func InspectCredential(token string) (CredentialInfo, error) {
	if token == "" {
		return CredentialInfo{}, ErrMissingCredential
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return CredentialInfo{}, fmt.Errorf("malformed pinata jwt: %w", err)
	}
	var info CredentialInfo
	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	return info, nil
}
