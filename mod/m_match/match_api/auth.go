package match_api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type jwtClaims struct {
	jwt.RegisteredClaims
}

type contextKey string

const jwtContextKey = contextKey("jwt_claims")

// -------- JWT Token Generation --------

// GenerateToken signs an HS256 token for subject valid for ttl.
func GenerateToken(secret, subject string, ttl time.Duration) (string, error) {
	claims := jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// -------- Middleware: JWT Token Validation --------

// JWTMiddleware rejects requests without a valid bearer token signed with
// secret.
func JWTMiddleware(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := extractToken(r)
			if tokenStr == "" {
				writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
				return
			}

			claims := &jwtClaims{}
			_, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
				return secret, nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized", "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), jwtContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// -------- Utility: Extract Token --------

func extractToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// SubjectFromContext returns the token subject of an authenticated request.
func SubjectFromContext(ctx context.Context) (string, bool) {
	claims, ok := ctx.Value(jwtContextKey).(*jwtClaims)
	if !ok {
		return "", false
	}
	return claims.Subject, true
}
