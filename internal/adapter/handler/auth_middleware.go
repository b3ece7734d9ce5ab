package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/rl1809/nobabdine/internal/core/domain"
)

const tokenCookieName = "token"

type claimsKey struct{}

// TokenVerifier turns a raw token into a claim set.
type TokenVerifier interface {
	Verify(token string) (*domain.Claims, error)
}

// RequireAuth rejects requests without a valid token cookie with 401 and
// stores the verified claims in the request context otherwise.
func RequireAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(tokenCookieName)
			if err != nil || cookie.Value == "" {
				writeError(w, http.StatusUnauthorized, domain.ErrUnauthorized.Error())
				return
			}

			claims, err := verifier.Verify(cookie.Value)
			if err != nil {
				writeError(w, http.StatusUnauthorized, domain.ErrUnauthorized.Error())
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func ClaimsFromContext(ctx context.Context) *domain.Claims {
	claims, _ := ctx.Value(claimsKey{}).(*domain.Claims)
	return claims
}

// CookiePolicy holds the attributes shared by issuing and clearing the token cookie.
type CookiePolicy struct {
	Production bool
}

func (p CookiePolicy) sameSite() http.SameSite {
	if p.Production {
		return http.SameSiteNoneMode
	}
	return http.SameSiteStrictMode
}

func (p CookiePolicy) issue(value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     tokenCookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   p.Production,
		SameSite: p.sameSite(),
	}
}

func (p CookiePolicy) clear() *http.Cookie {
	return &http.Cookie{
		Name:     tokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   p.Production,
		SameSite: p.sameSite(),
	}
}
