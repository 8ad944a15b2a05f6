package utils

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"

	"github.com/nishirajsingh/AyurSutra/cmd/models"
)

type contextKey string

const UserKey contextKey = "user"

// CurrentUser returns the authenticated user placed in the request
// context by Auth.
func CurrentUser(r *http.Request) (*models.User, error) {
	user, ok := r.Context().Value(UserKey).(*models.User)
	if !ok || user == nil {
		return nil, errors.New("user not found in context")
	}
	return user, nil
}

// Auth wraps a handler with bearer-token authentication. The token subject
// is the user id; the user row is loaded so downstream handlers get the
// current role and active flag without re-querying.
func Auth(db *gorm.DB, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			WriteError(w, http.StatusUnauthorized, "Authorization header required")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(os.Getenv("SECRET_KEY")), nil
		})
		if err != nil || !token.Valid {
			WriteError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		userID, err := strconv.ParseUint(claims.Subject, 10, 64)
		if err != nil {
			WriteError(w, http.StatusUnauthorized, "Invalid token subject")
			return
		}

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			WriteError(w, http.StatusUnauthorized, "User not found")
			return
		}
		if !user.IsActive {
			WriteError(w, http.StatusUnauthorized, "Account is deactivated")
			return
		}

		ctx := context.WithValue(r.Context(), UserKey, &user)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// RequireRole wraps an authenticated handler and rejects callers whose
// role is not in the allowed set.
func RequireRole(next http.HandlerFunc, roles ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := CurrentUser(r)
		if err != nil {
			WriteError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		for _, role := range roles {
			if user.Role == role {
				next.ServeHTTP(w, r)
				return
			}
		}
		WriteError(w, http.StatusForbidden, "Access denied")
	}
}
