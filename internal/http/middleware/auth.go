package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Key for storing the operator in context
type contextKey string

const (
	OperatorKey contextKey = "operator"
)

// OperatorClaims are the claims of an operator API token
type OperatorClaims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// AuthenticatedOperator is the caller of an operator endpoint
type AuthenticatedOperator struct {
	Subject string
	Role    string
}

// AuthConfig holds the configuration for the auth middleware
type AuthConfig struct {
	secret []byte
}

// NewAuthMiddleware creates a new auth middleware verifying HS256 tokens
func NewAuthMiddleware(secret string) *AuthConfig {
	return &AuthConfig{
		secret: []byte(secret),
	}
}

// RequireAuth creates a middleware that verifies the bearer token
func (ac *AuthConfig) RequireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(ac.secret) == 0 {
				writeAuthError(w, "Operator API is disabled", http.StatusServiceUnavailable)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeAuthError(w, "Authorization header is required", http.StatusUnauthorized)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				writeAuthError(w, "Invalid authorization header format", http.StatusUnauthorized)
				return
			}

			claims, err := ac.parse(parts[1])
			if err != nil {
				writeAuthError(w, fmt.Sprintf("Invalid token: %v", err), http.StatusUnauthorized)
				return
			}

			operator := &AuthenticatedOperator{
				Subject: claims.Subject,
				Role:    claims.Role,
			}
			ctx := context.WithValue(r.Context(), OperatorKey, operator)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (ac *AuthConfig) parse(tokenString string) (*OperatorClaims, error) {
	claims := &OperatorClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method to prevent algorithm confusion
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return ac.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("token is not valid")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("subject is required")
	}
	return claims, nil
}

// IssueOperatorToken signs a token for the operator API
func IssueOperatorToken(secret, subject, role string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("JWT secret is required")
	}
	now := time.Now()
	claims := OperatorClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// GetOperator returns the authenticated operator stored by RequireAuth
func GetOperator(ctx context.Context) (*AuthenticatedOperator, bool) {
	operator, ok := ctx.Value(OperatorKey).(*AuthenticatedOperator)
	return operator, ok
}

func writeAuthError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
