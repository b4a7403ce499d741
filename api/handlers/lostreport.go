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

// LostReport exported for testing purposes
type LostReport struct {
	DB  databases.LostReportDatabase
	UDB databases.UserDatabase
	CDB databases.CounterDatabase
}

type lostReportRequest struct {
	ItemName     string `json:"itemName"`
	Description  string `json:"description"`
	Color        string `json:"color"`
	LostLocation string `json:"lost_location"`
	LostDate     string `json:"lost_date"`
	LostTime     string `json:"lost_time"`
	ImageURL     string `json:"imageUrl"`

	Name         string `json:"name"`
	UniversityID string `json:"universityId"`
	Phone        string `json:"phone"`
	Department   string `json:"department"`
}

func (req lostReportRequest) validate() error {
	if strings.TrimSpace(req.ItemName) == "" ||
		strings.TrimSpace(req.Description) == "" ||
		strings.TrimSpace(req.LostLocation) == "" ||
		strings.TrimSpace(req.LostDate) == "" {
		return fmt.Errorf("itemName, description, lost_location and lost_date are required")
	}
	if _, err := time.Parse("2006-01-02", req.LostDate); err != nil {
		return fmt.Errorf("lost_date must be YYYY-MM-DD: %v", err)
	}
	return nil
}

// CreateLostReportHandler submits a new lost report in open status
func (l LostReport) CreateLostReportHandler(w http.ResponseWriter, r *http.Request) {
	var req lostReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if err := req.validate(); err != nil {
		config.ErrorStatus("missing required fields", http.StatusBadRequest, w, err)
		return
	}

	email := api.EmailFromContext(r.Context())

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	reporter, err := l.UDB.ResolveOrCreate(ctx, email, models.UserProfile{
		Name:         req.Name,
		Email:        email,
		UniversityID: req.UniversityID,
		Phone:        req.Phone,
		Department:   req.Department,
	})
	if err != nil {
		config.ErrorStatus("failed to resolve reporting user", http.StatusNotFound, w, err)
		return
	}

	seq, err := l.CDB.Next(ctx, databases.LostCounter)
	if err != nil {
		config.ErrorStatus("failed to allocate report id", http.StatusInternalServerError, w, err)
		return
	}
	reportID := databases.FormatReportID("LST", seq)

	now := primitive.NewDateTimeFromTime(time.Now())
	report := models.LostReport{
		ID:              primitive.NewObjectID(),
		ReportID:        reportID,
		ItemName:        req.ItemName,
		Description:     req.Description,
		Color:           req.Color,
		LostLocation:    req.LostLocation,
		LostDate:        req.LostDate,
		LostTime:        req.LostTime,
		ImageURL:        req.ImageURL,
		ReportedBy:      reporter.ID,
		Status:          models.LostStatusOpen,
		StatusUpdatedAt: now,
		CreatedAt:       now,
	}

	if _, err := l.DB.InsertOne(ctx, report); err != nil {
		config.ErrorStatus("failed to create lost report", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(models.CreateReportResponse{Success: true, ReportID: reportID})
}

// OpenLostReportsHandler returns all open lost reports joined with their
// reporter profiles, newest first
func (l LostReport) OpenLostReportsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	pipeline := []bson.M{
		{"$match": bson.M{"status": models.LostStatusOpen}},
		{"$sort": bson.M{"createdAt": -1}},
	}
	pipeline = append(pipeline, reporterJoinStages()...)

	views, err := l.DB.AggregateViews(ctx, pipeline)
	if err != nil {
		config.ErrorStatus("failed to get lost reports", http.StatusInternalServerError, w, err)
		return
	}
	if len(views) == 0 {
		views = []models.LostReportView{}
	}

	b, err := json.Marshal(views)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
