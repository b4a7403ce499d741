package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/diulnf/lostfound-api/api"
	"github.com/diulnf/lostfound-api/config"
	"github.com/diulnf/lostfound-api/databases"
	"github.com/diulnf/lostfound-api/models"
)

// Dashboard exported for testing purposes
type Dashboard struct {
	FDB databases.FoundReportDatabase
	LDB databases.LostReportDatabase
}

// StatsHandler returns the five dashboard counts. Stored items partition
// exactly into recovered (no claims) and claimed (some claims), so the
// counts are computed concurrently off independent filters.
func (d Dashboard) StatsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	type countResult struct {
		name  string
		count int64
		err   error
	}

	counts := map[string]func(context.Context) (int64, error){
		"lostReports": func(ctx context.Context) (int64, error) {
			return d.LDB.CountDocuments(ctx, bson.D{})
		},
		"foundReports": func(ctx context.Context) (int64, error) {
			return d.FDB.CountDocuments(ctx, bson.D{})
		},
		"recoveredItems": func(ctx context.Context) (int64, error) {
			return d.FDB.CountDocuments(ctx, bson.M{
				"status":   models.FoundStatusStored,
				"claims.0": bson.M{"$exists": false},
			})
		},
		"claimedItems": func(ctx context.Context) (int64, error) {
			return d.FDB.CountDocuments(ctx, bson.M{
				"status":   models.FoundStatusStored,
				"claims.0": bson.M{"$exists": true},
			})
		},
		"resolvedItems": func(ctx context.Context) (int64, error) {
			return d.FDB.CountDocuments(ctx, bson.M{"status": models.FoundStatusResolved})
		},
	}

	results := make(chan countResult, len(counts))
	for name, count := range counts {
		go func(name string, count func(context.Context) (int64, error)) {
			c, err := count(ctx)
			results <- countResult{name: name, count: c, err: err}
		}(name, count)
	}

	stats := models.DashboardStats{}
	for range counts {
		res := <-results
		if res.err != nil {
			config.ErrorStatus("failed to compute dashboard stats", http.StatusInternalServerError, w, res.err)
			return
		}
		switch res.name {
		case "lostReports":
			stats.LostReports = res.count
		case "foundReports":
			stats.FoundReports = res.count
		case "recoveredItems":
			stats.RecoveredItems = res.count
		case "claimedItems":
			stats.ClaimedItems = res.count
		case "resolvedItems":
			stats.ResolvedItems = res.count
		}
	}

	b, err := json.Marshal(stats)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// ActivityLogHandler returns the 10 most recently stored items with the
// acting admin's display name resolved from the roster, falling back to the
// raw email when the roster has no match
func (d Dashboard) ActivityLogHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	pipeline := []bson.M{
		{"$match": bson.M{"storedBy": bson.M{"$exists": true, "$ne": ""}}},
		{"$sort": bson.M{"storedAt": -1}},
		{"$limit": 10},
		{"$lookup": bson.M{
			"from":         "admins",
			"localField":   "storedBy",
			"foreignField": "email",
			"as":           "admin",
		}},
		{"$unwind": bson.M{"path": "$admin", "preserveNullAndEmptyArrays": true}},
		{"$project": bson.M{
			"reportId":  1,
			"itemName":  1,
			"storedBy":  1,
			"storedAt":  1,
			"status":    1,
			"adminName": bson.M{"$ifNull": []interface{}{"$admin.name", "$storedBy"}},
		}},
	}

	curr, err := d.FDB.Aggregate(ctx, pipeline)
	if err != nil {
		config.ErrorStatus("failed to get activity log", http.StatusInternalServerError, w, err)
		return
	}
	defer curr.Close(ctx)

	var entries []models.ActivityLogEntry
	if err := curr.All(ctx, &entries); err != nil {
		config.ErrorStatus("failed to decode activity log", http.StatusInternalServerError, w, err)
		return
	}
	if len(entries) == 0 {
		entries = []models.ActivityLogEntry{}
	}

	b, err := json.Marshal(entries)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// LeaderboardHandler returns the top 10 reporters by found report count
func (d Dashboard) LeaderboardHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	pipeline := []bson.M{
		{"$group": bson.M{
			"_id":         "$reportedBy",
			"reportCount": bson.M{"$sum": 1},
		}},
		{"$sort": bson.M{"reportCount": -1}},
		{"$limit": 10},
		{"$lookup": bson.M{
			"from":         "users",
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "reporter",
		}},
		{"$unwind": bson.M{"path": "$reporter", "preserveNullAndEmptyArrays": true}},
		{"$project": bson.M{"reporter.role": 0, "reporter.createdAt": 0, "reporter.updatedAt": 0}},
	}

	curr, err := d.FDB.Aggregate(ctx, pipeline)
	if err != nil {
		config.ErrorStatus("failed to get leaderboard", http.StatusInternalServerError, w, err)
		return
	}
	defer curr.Close(ctx)

	var entries []models.LeaderboardEntry
	if err := curr.All(ctx, &entries); err != nil {
		config.ErrorStatus("failed to decode leaderboard", http.StatusInternalServerError, w, err)
		return
	}
	if len(entries) == 0 {
		entries = []models.LeaderboardEntry{}
	}

	b, err := json.Marshal(entries)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
