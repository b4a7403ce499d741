package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/diulnf/lostfound-api/api"
	"github.com/diulnf/lostfound-api/config"
	"github.com/diulnf/lostfound-api/databases"
	"github.com/diulnf/lostfound-api/models"
	templates "github.com/diulnf/lostfound-api/templates/html"
)

// FoundReport exported for testing purposes
type FoundReport struct {
	DB  databases.FoundReportDatabase
	UDB databases.UserDatabase
	CDB databases.CounterDatabase
	Hub *Hub
}

type foundReportRequest struct {
	ItemName      string `json:"itemName"`
	Description   string `json:"description"`
	Color         string `json:"color"`
	FoundLocation string `json:"found_location"`
	FoundDate     string `json:"found_date"`
	FoundTime     string `json:"found_time"`
	ImageURL      string `json:"imageUrl"`

	// optional reporter profile fields used when the verified email has no
	// user record yet
	Name         string `json:"name"`
	UniversityID string `json:"universityId"`
	Phone        string `json:"phone"`
	Department   string `json:"department"`
}

func (req foundReportRequest) validate() error {
	if strings.TrimSpace(req.ItemName) == "" ||
		strings.TrimSpace(req.Description) == "" ||
		strings.TrimSpace(req.FoundLocation) == "" ||
		strings.TrimSpace(req.FoundDate) == "" {
		return fmt.Errorf("itemName, description, found_location and found_date are required")
	}
	day, err := time.Parse("2006-01-02", req.FoundDate)
	if err != nil {
		return fmt.Errorf("found_date must be YYYY-MM-DD: %v", err)
	}
	if day.After(time.Now()) {
		return fmt.Errorf("found_date cannot be in the future")
	}
	return nil
}

// CreateFoundReportHandler submits a new found report in reported status
func (f FoundReport) CreateFoundReportHandler(w http.ResponseWriter, r *http.Request) {
	var req foundReportRequest
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

	reporter, err := f.UDB.ResolveOrCreate(ctx, email, models.UserProfile{
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

	seq, err := f.CDB.Next(ctx, databases.FoundCounter)
	if err != nil {
		config.ErrorStatus("failed to allocate report id", http.StatusInternalServerError, w, err)
		return
	}
	reportID := databases.FormatReportID("FND", seq)

	now := primitive.NewDateTimeFromTime(time.Now())
	report := models.FoundReport{
		ID:              primitive.NewObjectID(),
		ReportID:        reportID,
		ItemName:        req.ItemName,
		Description:     req.Description,
		Color:           req.Color,
		FoundLocation:   req.FoundLocation,
		FoundDate:       req.FoundDate,
		FoundTime:       req.FoundTime,
		ImageURL:        req.ImageURL,
		ReportedBy:      reporter.ID,
		Status:          models.FoundStatusReported,
		Claims:          []models.ClaimEntry{},
		StatusUpdatedAt: now,
		CreatedAt:       now,
	}

	if _, err := f.DB.InsertOne(ctx, report); err != nil {
		config.ErrorStatus("failed to create found report", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(models.CreateReportResponse{Success: true, ReportID: reportID})
}

// StoreFoundReportHandler transitions a reported item to stored. The
// transition is idempotent-by-overwrite: re-storing refreshes storedBy and
// storedAt without error.
func (f FoundReport) StoreFoundReportHandler(w http.ResponseWriter, r *http.Request) {
	reportID := mux.Vars(r)["report_id"]

	var req struct {
		StoredBy string `json:"storedBy"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if strings.TrimSpace(req.StoredBy) == "" {
		config.ErrorStatus("storedBy is required", http.StatusBadRequest, w, fmt.Errorf("missing storedBy"))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	now := primitive.NewDateTimeFromTime(time.Now())
	res, err := f.DB.UpdateOne(ctx,
		bson.M{"reportId": reportID, "status": bson.M{"$ne": models.FoundStatusResolved}},
		bson.M{"$set": bson.M{
			"status":          models.FoundStatusStored,
			"storedBy":        strings.ToLower(req.StoredBy),
			"storedAt":        now,
			"statusUpdatedAt": now,
		}},
	)
	if err != nil {
		config.ErrorStatus("failed to store found report", http.StatusInternalServerError, w, err)
		return
	}
	if res.MatchedCount == 0 {
		config.ErrorStatus("found report not found", http.StatusNotFound, w, mongo.ErrNoDocuments)
		return
	}

	if f.Hub != nil {
		f.Hub.Broadcast(LiveEvent{Event: "stored", ReportID: reportID, Actor: req.StoredBy, At: time.Now()})
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(models.SuccessResponse{Success: true})
}

// ClaimFoundReportHandler appends a claim to a stored item. The dedup check
// lives inside the update filter so two racing claims from the same user
// cannot both land.
func (f FoundReport) ClaimFoundReportHandler(w http.ResponseWriter, r *http.Request) {
	reportID := mux.Vars(r)["report_id"]

	var req struct {
		UserID  string `json:"userId"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		config.ErrorStatus("userId is required", http.StatusBadRequest, w, fmt.Errorf("missing userId"))
		return
	}
	uID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	// claimant must already have a profile
	claimant, err := f.UDB.FindOne(ctx, bson.M{"_id": uID})
	if err != nil {
		config.ErrorStatus("claimant has no profile", http.StatusNotFound, w, err)
		return
	}

	entry := models.ClaimEntry{
		UserID:    uID,
		Message:   req.Message,
		ClaimedAt: primitive.NewDateTimeFromTime(time.Now()),
	}

	res, err := f.DB.UpdateOne(ctx,
		bson.M{
			"reportId": reportID,
			"status":   models.FoundStatusStored,
			"claims":   bson.M{"$not": bson.M{"$elemMatch": bson.M{"userId": uID}}},
		},
		bson.M{"$push": bson.M{"claims": entry}},
	)
	if err != nil {
		config.ErrorStatus("failed to claim found report", http.StatusInternalServerError, w, err)
		return
	}

	if res.MatchedCount == 0 {
		// distinguish "not claimable" from "already claimed"
		report, ferr := f.DB.FindOne(ctx, bson.M{"reportId": reportID, "status": models.FoundStatusStored})
		if ferr != nil || report == nil {
			config.ErrorStatus("item not found or not available for claiming", http.StatusNotFound, w, mongo.ErrNoDocuments)
			return
		}
		config.ErrorStatus("already claimed", http.StatusConflict, w, fmt.Errorf("user %s has an existing claim", req.UserID))
		return
	}

	if f.Hub != nil {
		f.Hub.Broadcast(LiveEvent{Event: "claimed", ReportID: reportID, Actor: claimant.Email, At: time.Now()})
	}

	go func(toEmail, toName, reportID string) {
		mailCtx, mailCancel := api.WithQueryTimeout(context.Background())
		defer mailCancel()
		report, err := f.DB.FindOne(mailCtx, bson.M{"reportId": reportID})
		itemName := ""
		if err == nil {
			itemName = report.ItemName
		}
		html := templates.RenderClaimReceivedEmail(toName, itemName, reportID)
		if err := sendEmail(toEmail, toName, "Claim received - Campus Lost & Found", html,
			"We received your claim and campus security will contact you to verify ownership."); err != nil {
			zap.S().Errorw("failed to send claim received email", "error", err, "to", toEmail)
		}
	}(claimant.Email, claimant.Name, reportID)

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(models.SuccessResponse{Success: true})
}

type handoverRequest struct {
	Receiver     models.UserProfile `json:"receiver"`
	HandedOverBy string             `json:"handedOverBy"`
}

// HandoverFoundReportHandler releases a stored item to a verified receiver.
// The update filter matches on reportId AND stored status, so two concurrent
// handover attempts resolve to exactly one success.
func (f FoundReport) HandoverFoundReportHandler(w http.ResponseWriter, r *http.Request) {
	reportID := mux.Vars(r)["report_id"]

	var req handoverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if strings.TrimSpace(req.HandedOverBy) == "" ||
		strings.TrimSpace(req.Receiver.Email) == "" ||
		strings.TrimSpace(req.Receiver.Name) == "" {
		config.ErrorStatus("receiver and handedOverBy are required", http.StatusBadRequest, w, fmt.Errorf("missing receiver or admin identity"))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	receiver, err := f.UDB.ResolveOrCreate(ctx, req.Receiver.Email, req.Receiver)
	if err != nil {
		config.ErrorStatus("failed to resolve receiver", http.StatusInternalServerError, w, err)
		return
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	res, err := f.DB.UpdateOne(ctx,
		bson.M{"reportId": reportID, "status": models.FoundStatusStored},
		bson.M{"$set": bson.M{
			"status":          models.FoundStatusResolved,
			"takenBy":         receiver.ID,
			"handedOverBy":    strings.ToLower(req.HandedOverBy),
			"handedOverAt":    now,
			"statusUpdatedAt": now,
		}},
	)
	if err != nil {
		config.ErrorStatus("failed to hand over found report", http.StatusInternalServerError, w, err)
		return
	}
	if res.MatchedCount == 0 {
		config.ErrorStatus("found report not in stored state", http.StatusNotFound, w, mongo.ErrNoDocuments)
		return
	}

	if f.Hub != nil {
		f.Hub.Broadcast(LiveEvent{Event: "resolved", ReportID: reportID, Actor: req.HandedOverBy, At: time.Now()})
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(models.SuccessResponse{Success: true})
}

type manualEntryRequest struct {
	foundReportRequest
	Founder models.UserProfile `json:"founder"`
}

// ManualEntryHandler lets an admin record a found item directly in stored
// status, binding the founder's identity. This bypasses reported entirely.
func (f FoundReport) ManualEntryHandler(w http.ResponseWriter, r *http.Request) {
	var req manualEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if err := req.validate(); err != nil {
		config.ErrorStatus("missing required fields", http.StatusBadRequest, w, err)
		return
	}
	if strings.TrimSpace(req.Founder.Email) == "" || strings.TrimSpace(req.Founder.Name) == "" {
		config.ErrorStatus("founder name and email are required", http.StatusBadRequest, w, fmt.Errorf("missing founder identity"))
		return
	}

	adminEmail := api.EmailFromContext(r.Context())

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	founder, err := f.UDB.ResolveOrCreate(ctx, req.Founder.Email, req.Founder)
	if err != nil {
		config.ErrorStatus("failed to resolve founder", http.StatusInternalServerError, w, err)
		return
	}

	seq, err := f.CDB.Next(ctx, databases.FoundCounter)
	if err != nil {
		config.ErrorStatus("failed to allocate report id", http.StatusInternalServerError, w, err)
		return
	}
	reportID := databases.FormatReportID("FND", seq)

	now := primitive.NewDateTimeFromTime(time.Now())
	report := models.FoundReport{
		ID:              primitive.NewObjectID(),
		ReportID:        reportID,
		ItemName:        req.ItemName,
		Description:     req.Description,
		Color:           req.Color,
		FoundLocation:   req.FoundLocation,
		FoundDate:       req.FoundDate,
		FoundTime:       req.FoundTime,
		ImageURL:        req.ImageURL,
		ReportedBy:      founder.ID,
		Status:          models.FoundStatusStored,
		Claims:          []models.ClaimEntry{},
		StoredBy:        adminEmail,
		StoredAt:        &now,
		StatusUpdatedAt: now,
		CreatedAt:       now,
	}

	if _, err := f.DB.InsertOne(ctx, report); err != nil {
		config.ErrorStatus("failed to create manual entry", http.StatusInternalServerError, w, err)
		return
	}

	if f.Hub != nil {
		f.Hub.Broadcast(LiveEvent{Event: "stored", ReportID: reportID, ItemName: req.ItemName, Actor: adminEmail, At: time.Now()})
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(models.CreateReportResponse{Success: true, ReportID: reportID})
}

// reporterJoinStages joins the reporter profile onto a found report pipeline
// and hides internal-only profile fields
func reporterJoinStages() []bson.M {
	return []bson.M{
		{"$lookup": bson.M{
			"from":         "users",
			"localField":   "reportedBy",
			"foreignField": "_id",
			"as":           "reporter",
		}},
		{"$unwind": bson.M{"path": "$reporter", "preserveNullAndEmptyArrays": true}},
		{"$project": bson.M{"reporter.role": 0, "reporter.createdAt": 0, "reporter.updatedAt": 0}},
	}
}

// FoundReportsByStatusHandler returns joined found reports in the status
// named by the route. For resolved items the receiver profile is joined too;
// the join tolerates records that predate receiver binding.
func (f FoundReport) FoundReportsByStatusHandler(status models.FoundStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := api.WithQueryTimeout(r.Context())
		defer cancel()

		pipeline := []bson.M{
			{"$match": bson.M{"status": status}},
			{"$sort": bson.M{"createdAt": -1}},
		}
		pipeline = append(pipeline, reporterJoinStages()...)
		if status == models.FoundStatusResolved {
			pipeline = append(pipeline,
				bson.M{"$lookup": bson.M{
					"from":         "users",
					"localField":   "takenBy",
					"foreignField": "_id",
					"as":           "receiver",
				}},
				bson.M{"$unwind": bson.M{"path": "$receiver", "preserveNullAndEmptyArrays": true}},
				bson.M{"$project": bson.M{"receiver.role": 0, "receiver.createdAt": 0, "receiver.updatedAt": 0}},
			)
		}

		curr, err := f.DB.Aggregate(ctx, pipeline)
		if err != nil {
			config.ErrorStatus("failed to get found reports", http.StatusInternalServerError, w, err)
			return
		}
		defer curr.Close(ctx)

		var views []models.FoundReportView
		if err := curr.All(ctx, &views); err != nil {
			config.ErrorStatus("failed to decode found reports", http.StatusInternalServerError, w, err)
			return
		}
		if len(views) == 0 {
			views = []models.FoundReportView{}
		}

		b, err := json.Marshal(views)
		if err != nil {
			config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write(b)
	}
}

// StoredForUsersHandler returns stored items with the derived claimedStatus
// flag so the UI can disable claim actions without a second request
func (f FoundReport) StoredForUsersHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	pipeline := []bson.M{
		{"$match": bson.M{"status": models.FoundStatusStored}},
		{"$sort": bson.M{"createdAt": -1}},
		{"$addFields": bson.M{"claimedStatus": claimedStatusExpr()}},
	}
	pipeline = append(pipeline, reporterJoinStages()...)

	f.writeSearchViews(ctx, w, pipeline)
}

// ClaimedFoundReportsHandler returns the summary list of stored items that
// have at least one claim. Claimant details are not joined here.
func (f FoundReport) ClaimedFoundReportsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := f.DB.Find(ctx,
		bson.M{"status": models.FoundStatusStored, "claims.0": bson.M{"$exists": true}},
		findNewestFirst(),
	)
	if err != nil {
		config.ErrorStatus("failed to get claimed items", http.StatusInternalServerError, w, err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.FoundReport{}
	}

	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// FoundReportDetailsHandler returns one report by internal id with every
// claim resolved to its claimant profile. A claimant lookup miss yields a
// null profile for that entry instead of failing the request.
func (f FoundReport) FoundReportDetailsHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	oID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	report, err := f.DB.FindOne(ctx, bson.M{"_id": oID})
	if err != nil {
		config.ErrorStatus("failed to get found report by ID", http.StatusNotFound, w, err)
		return
	}

	var reporter *models.User
	if rep, err := f.UDB.FindOne(ctx, bson.M{"_id": report.ReportedBy}); err == nil {
		reporter = rep
	}

	claimsWithUsers := make([]models.ClaimWithUser, 0, len(report.Claims))
	for _, claim := range report.Claims {
		var claimant *models.User
		if u, err := f.UDB.FindOne(ctx, bson.M{"_id": claim.UserID}); err == nil {
			claimant = u
		} else {
			zap.S().Warnw("failed to resolve claimant profile", "userId", claim.UserID.Hex(), "error", err)
		}
		claimsWithUsers = append(claimsWithUsers, models.ClaimWithUser{ClaimEntry: claim, Claimant: claimant})
	}

	detail := models.FoundReportDetail{
		FoundReport:           *report,
		Reporter:              reporter,
		ClaimsWithUserDetails: claimsWithUsers,
	}
	// the resolved list replaces the raw claims array
	detail.FoundReport.Claims = nil

	b, err := json.Marshal(detail)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// SearchFoundReportsHandler searches stored items with a case-insensitive
// substring match across itemName, description, color and found_location
func (f FoundReport) SearchFoundReportsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if strings.TrimSpace(q) == "" {
		config.ErrorStatus("q query parameter is required", http.StatusBadRequest, w, fmt.Errorf("missing q"))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	pattern := regexp.QuoteMeta(q)
	regex := bson.M{"$regex": pattern, "$options": "i"}
	pipeline := []bson.M{
		{"$match": bson.M{
			"status": models.FoundStatusStored,
			"$or": []bson.M{
				{"itemName": regex},
				{"description": regex},
				{"color": regex},
				{"found_location": regex},
			},
		}},
		{"$sort": bson.M{"createdAt": -1}},
		{"$addFields": bson.M{"claimedStatus": claimedStatusExpr()}},
	}
	pipeline = append(pipeline, reporterJoinStages()...)

	f.writeSearchViews(ctx, w, pipeline)
}

func (f FoundReport) writeSearchViews(ctx context.Context, w http.ResponseWriter, pipeline []bson.M) {
	curr, err := f.DB.Aggregate(ctx, pipeline)
	if err != nil {
		config.ErrorStatus("failed to get found reports", http.StatusInternalServerError, w, err)
		return
	}
	defer curr.Close(ctx)

	var views []models.SearchResultView
	if err := curr.All(ctx, &views); err != nil {
		config.ErrorStatus("failed to decode found reports", http.StatusInternalServerError, w, err)
		return
	}
	if len(views) == 0 {
		views = []models.SearchResultView{}
	}

	b, err := json.Marshal(views)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// claimedStatusExpr derives true iff the claims array is non-empty
func claimedStatusExpr() bson.M {
	return bson.M{"$gt": []interface{}{
		bson.M{"$size": bson.M{"$ifNull": []interface{}{"$claims", []interface{}{}}}},
		0,
	}}
}
