package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rl1809/nobabdine/internal/core/domain"
)

const testSecret = "kitchen-secret"

func TestIssueAndVerify(t *testing.T) {
	auth := NewAuthService(testSecret)

	token, expires, err := auth.Issue("eater@nobab.test")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if d := time.Until(expires); d < 4*time.Hour+59*time.Minute || d > 5*time.Hour {
		t.Errorf("expected ~5h expiry, got %v", d)
	}

	claims, err := VerifyToken(token, testSecret)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if claims.Email != "eater@nobab.test" {
		t.Errorf("expected email eater@nobab.test, got %s", claims.Email)
	}
}

func TestIssue_EmptyEmail(t *testing.T) {
	_, _, err := NewAuthService(testSecret).Issue("")
	if !errors.Is(err, ErrEmptyIdentity) {
		t.Errorf("expected ErrEmptyIdentity, got: %v", err)
	}
}

func TestVerifyToken_Rejects(t *testing.T) {
	valid, _, err := NewAuthService(testSecret).Issue("eater@nobab.test")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	expiredAuth := NewAuthService(testSecret)
	expiredAuth.now = func() time.Time { return time.Now().Add(-6 * time.Hour) }
	expired, _, err := expiredAuth.Issue("eater@nobab.test")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, domain.Claims{Email: "eater@nobab.test"}).
		SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	cases := map[string]struct {
		token  string
		secret string
	}{
		"empty":        {token: "", secret: testSecret},
		"garbage":      {token: "not-a-token", secret: testSecret},
		"wrong secret": {token: valid, secret: "other-secret"},
		"expired":      {token: expired, secret: testSecret},
		"no expiry":    {token: noExpiry, secret: testSecret},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := VerifyToken(tc.token, tc.secret); !errors.Is(err, domain.ErrUnauthorized) {
				t.Errorf("expected ErrUnauthorized, got: %v", err)
			}
		})
	}
}

func TestAuthorizeEmail(t *testing.T) {
	claims := &domain.Claims{Email: "eater@nobab.test"}

	if err := AuthorizeEmail(claims, "eater@nobab.test"); err != nil {
		t.Errorf("expected owner to be allowed, got: %v", err)
	}
	if err := AuthorizeEmail(claims, "other@nobab.test"); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got: %v", err)
	}
	if err := AuthorizeEmail(claims, ""); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden for empty email, got: %v", err)
	}
	if err := AuthorizeEmail(nil, "eater@nobab.test"); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden without claims, got: %v", err)
	}
}
