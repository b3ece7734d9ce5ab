package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rl1809/nobabdine/internal/core/domain"
)

// TokenTTL is the lifetime of an issued access token.
const TokenTTL = 5 * time.Hour

var ErrEmptyIdentity = errors.New("email is required")

type AuthService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewAuthService(secret string) *AuthService {
	return &AuthService{secret: []byte(secret), ttl: TokenTTL, now: time.Now}
}

// Issue signs a claim set for email and returns the token with its expiry.
func (s *AuthService) Issue(email string) (string, time.Time, error) {
	if email == "" {
		return "", time.Time{}, ErrEmptyIdentity
	}

	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.ttl)
	claims := domain.Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return token, expiresAt, nil
}

func (s *AuthService) Verify(token string) (*domain.Claims, error) {
	return VerifyToken(token, string(s.secret))
}

// VerifyToken checks the signature and expiry of token against secret.
// Every failure is reported as domain.ErrUnauthorized.
func VerifyToken(token, secret string) (*domain.Claims, error) {
	if token == "" {
		return nil, domain.ErrUnauthorized
	}

	claims := &domain.Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if !parsed.Valid {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}

// AuthorizeEmail allows access to email-scoped data only for its owner.
func AuthorizeEmail(claims *domain.Claims, email string) error {
	if claims == nil || claims.Email == "" || claims.Email != email {
		return domain.ErrForbidden
	}
	return nil
}
