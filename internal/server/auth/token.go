// Package auth implements the session issuer: minting and validating the
// signed identity tokens that are the only trusted identity channel on
// authenticated paths.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/skorolevs/clipvault/internal/common"
	"github.com/skorolevs/clipvault/internal/server/models"
)

// Claims carries the registered claims plus the optional account email.
// The token subject is the user id.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// Issue mints an HS256 session token for the given identity, valid for
// validityDuration from now.
func Issue(identity *models.Identity, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		Email: identity.Email,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Validate checks the token signature and expiry and returns the embedded
// identity. Expired tokens yield common.ErrTokenExpired; any other
// structural or signature problem yields common.ErrInvalidToken.
func Validate(tokenString string, secretKey []byte) (*models.Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrInvalidToken
		}
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return nil, common.ErrInvalidToken
	}

	return &models.Identity{UserID: claims.Subject, Email: claims.Email}, nil
}
