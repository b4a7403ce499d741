package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/diulnf/lostfound-api/api"
	"github.com/diulnf/lostfound-api/config"
	"github.com/diulnf/lostfound-api/databases"
	"github.com/diulnf/lostfound-api/models"
)

// Admin represents the admin handler
type Admin struct {
	ADB databases.AdminDatabase
}

type adminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type adminLoginResponse struct {
	Token string `json:"token"`
	Admin struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	} `json:"admin"`
}

// AdminLoginHandler handles admin login via email/password and returns a JWT
func (h Admin) AdminLoginHandler(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Password == "" {
		config.ErrorStatus("email and password are required", http.StatusBadRequest, w, fmt.Errorf("missing credentials"))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	admin, err := h.ADB.FindOne(ctx, bson.M{"email": email})
	if err != nil {
		config.ErrorStatus("invalid credentials", http.StatusUnauthorized, w, fmt.Errorf("unknown admin"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		config.ErrorStatus("invalid credentials", http.StatusUnauthorized, w, fmt.Errorf("password mismatch"))
		return
	}

	jwtSecret := []byte(os.Getenv("JWT_SECRET"))
	if len(jwtSecret) == 0 {
		config.ErrorStatus("server misconfigured", http.StatusInternalServerError, w, fmt.Errorf("JWT_SECRET not set"))
		return
	}

	claims := jwt.MapClaims{
		"sub":   admin.ID.Hex(),
		"email": admin.Email,
		"scope": "admin",
		"jti":   uuid.New().String(),
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(jwtSecret)
	if err != nil {
		config.ErrorStatus("token generation failed", http.StatusInternalServerError, w, err)
		return
	}

	var resp adminLoginResponse
	resp.Token = signed
	resp.Admin.ID = admin.ID.Hex()
	resp.Admin.Email = admin.Email
	resp.Admin.Name = admin.Name

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

type adminCreateRequest struct {
	Email        string `json:"email"`
	Name         string `json:"name"`
	UniversityID string `json:"universityId"`
	Phone        string `json:"phone"`
	Password     string `json:"password"`
}

// CreateAdminHandler adds an admin to the roster
func (h Admin) CreateAdminHandler(w http.ResponseWriter, r *http.Request) {
	var req adminCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || strings.TrimSpace(req.Name) == "" || req.Password == "" {
		config.ErrorStatus("email, name and password are required", http.StatusBadRequest, w, fmt.Errorf("missing required fields"))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	count, err := h.ADB.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		config.ErrorStatus("failed to check roster", http.StatusInternalServerError, w, err)
		return
	}
	if count > 0 {
		config.ErrorStatus("admin already exists", http.StatusConflict, w, fmt.Errorf("duplicate email %s", email))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		config.ErrorStatus("failed to hash password", http.StatusInternalServerError, w, err)
		return
	}

	admin := models.Admin{
		ID:           primitive.NewObjectID(),
		Email:        email,
		Name:         req.Name,
		UniversityID: req.UniversityID,
		Phone:        req.Phone,
		Role:         "admin",
		PasswordHash: string(hash),
		CreatedAt:    primitive.NewDateTimeFromTime(time.Now()),
	}

	if _, err := h.ADB.InsertOne(ctx, admin); err != nil {
		config.ErrorStatus("failed to create admin", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(admin)
}

// ListAdminsHandler returns the full roster
func (h Admin) ListAdminsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	admins, err := h.ADB.Find(ctx, bson.D{}, findNewestFirst())
	if err != nil {
		config.ErrorStatus("failed to get admins", http.StatusInternalServerError, w, err)
		return
	}
	if len(admins) == 0 {
		admins = []models.Admin{}
	}

	b, err := json.Marshal(admins)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// AdminByEmailHandler returns one roster entry by email
func (h Admin) AdminByEmailHandler(w http.ResponseWriter, r *http.Request) {
	email := strings.ToLower(mux.Vars(r)["email"])

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	admin, err := h.ADB.FindOne(ctx, bson.M{"email": email})
	if err != nil {
		config.ErrorStatus("admin not found", http.StatusNotFound, w, err)
		return
	}

	b, err := json.Marshal(admin)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

type adminUpdateRequest struct {
	Name         string `json:"name"`
	UniversityID string `json:"universityId"`
	Phone        string `json:"phone"`
	Password     string `json:"password"`
}

// UpdateAdminHandler updates a roster entry's profile fields by email.
// The email itself is immutable; create a new entry instead.
func (h Admin) UpdateAdminHandler(w http.ResponseWriter, r *http.Request) {
	email := strings.ToLower(mux.Vars(r)["email"])

	var req adminUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	set := bson.M{}
	if strings.TrimSpace(req.Name) != "" {
		set["name"] = req.Name
	}
	if req.UniversityID != "" {
		set["universityId"] = req.UniversityID
	}
	if req.Phone != "" {
		set["phone"] = req.Phone
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			config.ErrorStatus("failed to hash password", http.StatusInternalServerError, w, err)
			return
		}
		set["passwordHash"] = string(hash)
	}
	if len(set) == 0 {
		config.ErrorStatus("no updatable fields provided", http.StatusBadRequest, w, fmt.Errorf("empty update"))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	res, err := h.ADB.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": set})
	if err != nil {
		config.ErrorStatus("failed to update admin", http.StatusInternalServerError, w, err)
		return
	}
	if res.MatchedCount == 0 {
		config.ErrorStatus("admin not found", http.StatusNotFound, w, mongo.ErrNoDocuments)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(models.SuccessResponse{Success: true})
}

// DeleteAdminHandler removes a roster entry by email
func (h Admin) DeleteAdminHandler(w http.ResponseWriter, r *http.Request) {
	email := strings.ToLower(mux.Vars(r)["email"])

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	deleted, err := h.ADB.DeleteOne(ctx, bson.M{"email": email})
	if err != nil {
		config.ErrorStatus("failed to delete admin", http.StatusInternalServerError, w, err)
		return
	}
	if deleted == 0 {
		config.ErrorStatus("admin not found", http.StatusNotFound, w, mongo.ErrNoDocuments)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(models.SuccessResponse{Success: true})
}
