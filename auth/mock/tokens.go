package mock

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	useAccess  = "access"
	useRefresh = "refresh"
)

// tokenClaims are carried by every access and refresh token the service mints.
type tokenClaims struct {
	jwt.RegisteredClaims
	Scope string `json:"scope,omitempty"`
	Use   string `json:"use"`
}

// mint signs a token for use with the given lifetime. A negative ttl yields an
// already expired token.
func (m *AuthorizationService) mint(use string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        newID(),
			Issuer:    m.Issuer,
			Subject:   userID,
			Audience:  jwt.ClaimStrings{m.ClientID},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Scope: joinScopes(m.AuthorizedScopes),
		Use:   use,
	}
	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(m.PrivateKey)
}

// verify checks the signature, expiry and intended use of token.
func (m *AuthorizationService) verify(token, use string) error {
	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return &m.PrivateKey.PublicKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}), jwt.WithIssuer(m.Issuer))
	if err != nil {
		return err
	}
	if claims.Use != use {
		return fmt.Errorf("token minted for %v used as %v", claims.Use, use)
	}
	return nil
}

func isExpired(err error) bool {
	return errors.Is(err, jwt.ErrTokenExpired)
}

func newID() string {
	return uuid.NewString()
}
