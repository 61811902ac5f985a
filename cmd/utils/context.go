package utils

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v4"
)

type contextKey string

const TenantIDKey contextKey = "tenantID"

func GetTenantIDFromContext(r *http.Request) (uint, error) {
	tenantID, ok := r.Context().Value(TenantIDKey).(uint)
	if !ok {
		return 0, errors.New("tenant ID not found in context")
	}
	return tenantID, nil
}

// AuthMiddleware validates the bearer token and keys the authenticated
// tenant into the request context.
func AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			WriteError(w, http.StatusUnauthorized, CodeValidation, "Authorization header required")
			return
		}

		tokenString := strings.Replace(authHeader, "Bearer ", "", 1)

		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(os.Getenv("SECRET_KEY")), nil
		})

		if err != nil || !token.Valid {
			WriteError(w, http.StatusUnauthorized, CodeValidation, "Invalid token")
			return
		}

		tenantID, err := strconv.ParseUint(claims.Subject, 10, 64)
		if err != nil {
			WriteError(w, http.StatusUnauthorized, CodeValidation, "Invalid tenant ID in token")
			return
		}

		ctx := context.WithValue(r.Context(), TenantIDKey, uint(tenantID))
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}
