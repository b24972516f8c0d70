package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/skorolevs/clipvault/internal/common"
	"github.com/skorolevs/clipvault/internal/server/models"
)

func TestIssueAndValidate_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")
	identity := &models.Identity{UserID: "user-123", Email: "a@b.c"}

	tok, err := Issue(identity, secret, time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	got, err := Validate(tok, secret)
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if got.UserID != identity.UserID {
		t.Fatalf("userID mismatch: got %q want %q", got.UserID, identity.UserID)
	}
	if got.Email != identity.Email {
		t.Fatalf("email mismatch: got %q want %q", got.Email, identity.Email)
	}
}

func TestValidate_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	tok, err := Issue(&models.Identity{UserID: "u1"}, secret, -1*time.Second)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = Validate(tok, secret)
	if !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("expected common.ErrTokenExpired, got %v", err)
	}
}

func TestValidate_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := Issue(&models.Identity{UserID: "u2"}, []byte("right-secret"), time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = Validate(tok, []byte("wrong-secret"))
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestValidate_MalformedString(t *testing.T) {
	t.Parallel()

	_, err := Validate("not.a.jwt", []byte("k"))
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestValidate_MissingSubject(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	tok, err := token.SignedString(secret)
	if err != nil {
		t.Fatalf("sign error: %v", err)
	}

	_, err = Validate(tok, secret)
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken for empty subject, got %v", err)
	}
}

func TestValidate_WrongSigningMethod(t *testing.T) {
	t.Parallel()

	// alg=none style token is rejected before the claims are trusted.
	token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u3"},
	})
	tok, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign error: %v", err)
	}

	_, err = Validate(tok, []byte("k"))
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}
