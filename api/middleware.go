package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shaj13/go-guardian/auth"
	"github.com/shaj13/go-guardian/auth/strategies/bearer"
	"github.com/shaj13/go-guardian/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/diulnf/lostfound-api/databases"
)

// MiddlewareDB is a struct that holds the database
type MiddlewareDB struct {
	ADB databases.AdminDatabase
}

var authenticator auth.Authenticator
var cache store.Cache

// Middleware authenticates the bearer credential issued by the external
// identity provider and stores the verified email on the request context
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		user, err := authenticator.Authenticate(r)
		if err != nil {
			zap.S().Errorw("unauthorized",
				"url", r.URL)
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error": "unauthorized"}`))
			return
		}
		zap.S().Debugf("User %s Authenticated\n", user.UserName())
		r = r.WithContext(ContextWithEmail(r.Context(), user.UserName()))
		next.ServeHTTP(w, r)
	})
}

// AdminMiddleware verifies the admin session JWT and requires the email to
// still resolve in the roster, so a roster deletion revokes access
func (m MiddlewareDB) AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		email, err := verifyAdminToken(r)
		if err != nil {
			zap.S().Errorw("admin unauthorized",
				"url", r.URL,
				"error", err)
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error": "unauthorized"}`))
			return
		}

		ctx, cancel := WithQueryTimeout(r.Context())
		defer cancel()
		_, err = m.ADB.FindOne(ctx, bson.M{"email": email})
		if err != nil {
			zap.S().Warnw("admin token holder not in roster", "email", email)
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error": "forbidden"}`))
			return
		}

		r = r.WithContext(ContextWithEmail(r.Context(), email))
		next.ServeHTTP(w, r)
	})
}

// SetupGoGuardian sets up the go-guardian middleware
func SetupGoGuardian() {
	authenticator = auth.New()
	cache = store.NewFIFO(context.Background(), time.Hour)
	tokenStrategy := bearer.New(verifyIdentityToken, cache)

	authenticator.EnableStrategy(bearer.CachedStrategyKey, tokenStrategy)
}

// verifyIdentityToken validates a token minted by the external identity
// provider and returns the verified email it carries
func verifyIdentityToken(ctx context.Context, r *http.Request, tokenString string) (auth.Info, error) {
	secret := []byte(os.Getenv("IDENTITY_JWT_SECRET"))
	if len(secret) == 0 {
		return nil, fmt.Errorf("identity secret not configured")
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid identity token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid identity token claims")
	}
	email, _ := claims["email"].(string)
	if email == "" {
		return nil, fmt.Errorf("identity token has no verified email")
	}

	return auth.NewDefaultUser(strings.ToLower(email), "", nil, nil), nil
}

// verifyAdminToken validates an admin session JWT issued by the login
// endpoint and returns the admin email
func verifyAdminToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", fmt.Errorf("missing bearer token")
	}
	tokenString := strings.TrimPrefix(header, "Bearer ")

	secret := []byte(os.Getenv("JWT_SECRET"))
	if len(secret) == 0 {
		return "", fmt.Errorf("jwt secret not configured")
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid admin token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid admin token claims")
	}
	if scope, _ := claims["scope"].(string); scope != "admin" {
		return "", fmt.Errorf("token missing admin scope")
	}
	email, _ := claims["email"].(string)
	if email == "" {
		return "", fmt.Errorf("admin token has no email")
	}
	return strings.ToLower(email), nil
}
