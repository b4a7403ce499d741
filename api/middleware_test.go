package api_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/diulnf/lostfound-api/api"
	"github.com/diulnf/lostfound-api/databases/mocks"
	"github.com/diulnf/lostfound-api/models"
)

func signAdminToken(t *testing.T, secret, email, scope string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":   "test",
		"email": email,
		"scope": scope,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	return signed
}

func TestAdminMiddleware_Success(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	mockAdminDB := &mocks.AdminDatabase{}
	mockAdminDB.On("FindOne", mock.Anything, bson.M{"email": "admin@diu.edu"}).
		Return(&models.Admin{Email: "admin@diu.edu"}, nil)

	m := api.MiddlewareDB{ADB: mockAdminDB}

	var gotEmail string
	handler := m.AdminMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotEmail = api.EmailFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/v1/admin/dashboard/stats", nil)
	req.Header.Set("Authorization", "Bearer "+signAdminToken(t, "test-secret", "admin@diu.edu", "admin"))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "admin@diu.edu", gotEmail)
	mockAdminDB.AssertExpectations(t)
}

func TestAdminMiddleware_MissingToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	m := api.MiddlewareDB{ADB: &mocks.AdminDatabase{}}
	handler := m.AdminMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest("GET", "/api/v1/admin/dashboard/stats", nil)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAdminMiddleware_WrongScope(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	m := api.MiddlewareDB{ADB: &mocks.AdminDatabase{}}
	handler := m.AdminMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest("GET", "/api/v1/admin/dashboard/stats", nil)
	req.Header.Set("Authorization", "Bearer "+signAdminToken(t, "test-secret", "user@diu.edu", "user"))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAdminMiddleware_WrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	m := api.MiddlewareDB{ADB: &mocks.AdminDatabase{}}
	handler := m.AdminMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest("GET", "/api/v1/admin/dashboard/stats", nil)
	req.Header.Set("Authorization", "Bearer "+signAdminToken(t, "other-secret", "admin@diu.edu", "admin"))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

// a valid token whose holder has been removed from the roster is refused
func TestAdminMiddleware_RemovedFromRoster(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	mockAdminDB := &mocks.AdminDatabase{}
	mockAdminDB.On("FindOne", mock.Anything, mock.Anything).Return(nil, mongo.ErrNoDocuments)

	m := api.MiddlewareDB{ADB: mockAdminDB}
	handler := m.AdminMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest("GET", "/api/v1/admin/dashboard/stats", nil)
	req.Header.Set("Authorization", "Bearer "+signAdminToken(t, "test-secret", "removed@diu.edu", "admin"))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestEmailFromContext_Unset(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	assert.Equal(t, "", api.EmailFromContext(req.Context()))
}
