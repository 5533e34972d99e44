package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/thenoetrevino/issueboard/internal/models"
)

func testUser() *models.User {
	return &models.User{ID: "user-123", Email: "ada@example.com", Role: models.RoleAdmin}
}

func TestBearerTokenSuccess(t *testing.T) {
	token, err := BearerToken("  Bearer header.payload.signature ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "header.payload.signature" {
		t.Fatalf("unexpected token content: %s", token)
	}
}

func TestBearerTokenMissing(t *testing.T) {
	if _, err := BearerToken("   "); !errors.Is(err, ErrMissingAuthorization) {
		t.Fatalf("expected missing header error, got %v", err)
	}
}

func TestBearerTokenMalformed(t *testing.T) {
	for _, raw := range []string{
		"Bearer ",
		"Basic a.b.c",
		"bearer a.b.c",
		"Bearer " + strings.Repeat(".", 1000),
		"Bearer onlyonesegment",
	} {
		if _, err := BearerToken(raw); !errors.Is(err, ErrBadAuthorization) {
			t.Errorf("%q: expected bad auth header error, got %v", raw, err)
		}
	}
}

func TestIssueAndVerify(t *testing.T) {
	issuer, err := NewIssuer("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewIssuer failed: %v", err)
	}

	signed, err := issuer.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	claims, err := issuer.VerifyHeader("Bearer " + signed)
	if err != nil {
		t.Fatalf("VerifyHeader failed: %v", err)
	}
	if claims.UserID() != "user-123" {
		t.Errorf("expected subject user-123, got %s", claims.UserID())
	}
	if claims.Email != "ada@example.com" || claims.Role != models.RoleAdmin {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != time.Hour {
		t.Errorf("expected one hour lifetime, got %v", got)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer, _ := NewIssuer("right", time.Hour)
	other, _ := NewIssuer("wrong", time.Hour)

	signed, err := other.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if _, err := issuer.Verify(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	issuer, _ := NewIssuer("secret", time.Minute)
	issuer.now = func() time.Time { return time.Now().Add(-time.Hour) }

	signed, err := issuer.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if _, err := issuer.Verify(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token to be rejected, got %v", err)
	}
}

func TestVerifyRejectsOtherAlgorithms(t *testing.T) {
	issuer, _ := NewIssuer("secret", time.Hour)
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:   "user-123",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	if _, err := issuer.Verify(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected HS512 token to be rejected, got %v", err)
	}
}

func TestNewIssuerRequiresSecret(t *testing.T) {
	if _, err := NewIssuer("", time.Hour); !errors.Is(err, ErrEmptySecret) {
		t.Fatalf("expected ErrEmptySecret, got %v", err)
	}
	issuer, err := NewIssuer("s", 0)
	if err != nil {
		t.Fatalf("NewIssuer failed: %v", err)
	}
	if issuer.ttl != DefaultTokenTTL {
		t.Errorf("expected default ttl, got %v", issuer.ttl)
	}
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "hunter2" {
		t.Fatal("hash must not equal the password")
	}
	if err := CheckPassword(hash, "hunter2"); err != nil {
		t.Errorf("expected match, got %v", err)
	}
	if err := CheckPassword(hash, "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}
