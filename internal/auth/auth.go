// Package auth verifies bearer tokens issued by the identity backend and
// exposes the caller's identity on the request context. Tokens are HS256
// JWTs carrying email and user_type (admin or client) claims.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	RoleAdmin  = "admin"
	RoleClient = "client"
)

// Claims is the authenticated caller's identity. A nil *Claims means the
// request is anonymous.
type Claims struct {
	Subject  string
	Email    string
	UserType string
}

func (c *Claims) IsAdmin() bool {
	return c != nil && c.UserType == RoleAdmin
}

type contextKey string

const claimsKey contextKey = "claims"

// FromContext returns the caller's claims, or nil for anonymous requests.
func FromContext(ctx context.Context) *Claims {
	if c, ok := ctx.Value(claimsKey).(*Claims); ok {
		return c
	}
	return nil
}

// Middleware validates the Authorization header when present. Requests
// without a header pass through as anonymous; the handlers decide what
// anonymous callers may do.
func Middleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !strings.HasPrefix(header, "Bearer ") {
				unauthorized(w, "invalid authorization header")
				return
			}
			claims, err := ParseToken(secret, strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				unauthorized(w, "unauthorized")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	fmt.Fprintf(w, `{"success":false,"error":%q}`, msg)
}

// ParseToken validates an HS256 token and extracts the identity claims.
func ParseToken(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("token verification not configured")
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid claims type")
	}

	claims := &Claims{
		Subject:  getStringClaim(mapClaims, "sub"),
		Email:    getStringClaim(mapClaims, "email"),
		UserType: getStringClaim(mapClaims, "user_type"),
	}
	if claims.UserType != RoleAdmin && claims.UserType != RoleClient {
		return nil, fmt.Errorf("unknown user_type %q", claims.UserType)
	}
	return claims, nil
}

// IssueToken mints a token for local and test use; production tokens come
// from the identity backend sharing the same secret.
func IssueToken(secret, email, role string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt secret not configured")
	}
	if role != RoleAdmin && role != RoleClient {
		return "", fmt.Errorf("unknown role %q", role)
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":       email,
		"email":     email,
		"user_type": role,
		"jti":       uuid.NewString(),
		"iat":       now.Unix(),
		"exp":       now.Add(ttl).Unix(),
	})
	return token.SignedString([]byte(secret))
}

func getStringClaim(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
