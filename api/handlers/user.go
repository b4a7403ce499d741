package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/diulnf/lostfound-api/api"
	"github.com/diulnf/lostfound-api/config"
	"github.com/diulnf/lostfound-api/databases"
	"github.com/diulnf/lostfound-api/models"
)

// User exported for testing purposes
type User struct {
	DB databases.UserDatabase
}

// MeHandler returns the profile bound to the verified caller email
func (u User) MeHandler(w http.ResponseWriter, r *http.Request) {
	email := api.EmailFromContext(r.Context())

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	user, err := u.DB.FindOne(ctx, bson.M{"email": email})
	if err != nil {
		config.ErrorStatus("user not found", http.StatusNotFound, w, err)
		return
	}

	b, err := json.Marshal(user)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

type profileUpdateRequest struct {
	Name         string `json:"name"`
	UniversityID string `json:"universityId"`
	Phone        string `json:"phone"`
	Department   string `json:"department"`
	PhotoURL     string `json:"photoURL"`
}

// UpdateProfileHandler completes or updates the caller's profile, creating
// the record lazily when the verified email has none yet
func (u User) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	email := api.EmailFromContext(r.Context())

	var req profileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		config.ErrorStatus("name is required", http.StatusBadRequest, w, fmt.Errorf("missing name"))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	user, err := u.DB.ResolveOrCreate(ctx, email, models.UserProfile{
		Name:         req.Name,
		Email:        email,
		UniversityID: req.UniversityID,
		Phone:        req.Phone,
		Department:   req.Department,
	})
	if err != nil {
		config.ErrorStatus("failed to resolve user", http.StatusInternalServerError, w, err)
		return
	}

	set := bson.M{
		"name":         req.Name,
		"universityId": req.UniversityID,
		"phone":        req.Phone,
		"department":   req.Department,
		"updatedAt":    primitive.NewDateTimeFromTime(time.Now()),
	}
	if req.PhotoURL != "" {
		set["photoURL"] = req.PhotoURL
	}

	if err := u.DB.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": set}); err != nil {
		config.ErrorStatus("failed to update profile", http.StatusInternalServerError, w, err)
		return
	}

	updated, err := u.DB.FindOne(ctx, bson.M{"_id": user.ID})
	if err != nil {
		config.ErrorStatus("failed to load updated profile", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(updated)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
