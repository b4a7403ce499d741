package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/diulnf/lostfound-api/api"
	"github.com/diulnf/lostfound-api/api/handlers"
	"github.com/diulnf/lostfound-api/databases/mocks"
	"github.com/diulnf/lostfound-api/models"
)

func TestFoundReport_CreateFoundReportHandler_Success(t *testing.T) {
	reporterID := primitive.NewObjectID()

	requestBody := map[string]string{
		"itemName":       "Black Wallet",
		"description":    "Leather wallet with a student ID inside",
		"color":          "black",
		"found_location": "Library 2nd floor",
		"found_date":     "2024-01-15",
		"name":           "Jordan Rahman",
	}
	requestBodyBytes, _ := json.Marshal(requestBody)

	req, err := http.NewRequest("POST", "/api/v1/found-reports", strings.NewReader(string(requestBodyBytes)))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(api.ContextWithEmail(req.Context(), "jordan@diu.edu"))

	mockFoundDB := &mocks.FoundReportDatabase{}
	mockUserDB := &mocks.UserDatabase{}
	mockCounterDB := &mocks.CounterDatabase{}

	mockUserDB.On("ResolveOrCreate", mock.Anything, "jordan@diu.edu", mock.Anything).
		Return(&models.User{ID: reporterID, Email: "jordan@diu.edu", Name: "Jordan Rahman"}, nil)
	mockCounterDB.On("Next", mock.Anything, "foundlnf").Return(int64(7), nil)
	mockFoundDB.On("InsertOne", mock.Anything, mock.Anything).Return(&mocks.InsertOneResultHelper{}, nil)

	f := handlers.FoundReport{DB: mockFoundDB, UDB: mockUserDB, CDB: mockCounterDB}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(f.CreateFoundReportHandler)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), "FND000007")

	var resp models.CreateReportResponse
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	mockFoundDB.AssertExpectations(t)
	mockUserDB.AssertExpectations(t)
	mockCounterDB.AssertExpectations(t)
}

func TestFoundReport_CreateFoundReportHandler_MissingFields(t *testing.T) {
	requestBody := map[string]string{
		"itemName": "Black Wallet",
	}
	requestBodyBytes, _ := json.Marshal(requestBody)

	req, err := http.NewRequest("POST", "/api/v1/found-reports", strings.NewReader(string(requestBodyBytes)))
	if err != nil {
		t.Fatal(err)
	}

	f := handlers.FoundReport{DB: &mocks.FoundReportDatabase{}, UDB: &mocks.UserDatabase{}, CDB: &mocks.CounterDatabase{}}

	rr := httptest.NewRecorder()
	http.HandlerFunc(f.CreateFoundReportHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "missing required fields")
}

func TestFoundReport_CreateFoundReportHandler_FutureDateRejected(t *testing.T) {
	requestBody := map[string]string{
		"itemName":       "Black Wallet",
		"description":    "Leather wallet",
		"found_location": "Library",
		"found_date":     "2099-01-01",
	}
	requestBodyBytes, _ := json.Marshal(requestBody)

	req, err := http.NewRequest("POST", "/api/v1/found-reports", strings.NewReader(string(requestBodyBytes)))
	if err != nil {
		t.Fatal(err)
	}

	f := handlers.FoundReport{DB: &mocks.FoundReportDatabase{}, UDB: &mocks.UserDatabase{}, CDB: &mocks.CounterDatabase{}}

	rr := httptest.NewRecorder()
	http.HandlerFunc(f.CreateFoundReportHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "found_date cannot be in the future")
}

func TestFoundReport_StoreFoundReportHandler_Success(t *testing.T) {
	requestBody := map[string]string{"storedBy": "admin@diu.edu"}
	requestBodyBytes, _ := json.Marshal(requestBody)

	req, err := http.NewRequest("PATCH", "/api/v1/found-reports/FND000001/store", strings.NewReader(string(requestBodyBytes)))
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"report_id": "FND000001"})

	mockFoundDB := &mocks.FoundReportDatabase{}
	mockFoundDB.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)

	f := handlers.FoundReport{DB: mockFoundDB}

	rr := httptest.NewRecorder()
	http.HandlerFunc(f.StoreFoundReportHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"success":true`)
	mockFoundDB.AssertExpectations(t)
}

func TestFoundReport_StoreFoundReportHandler_NotFound(t *testing.T) {
	requestBody := map[string]string{"storedBy": "admin@diu.edu"}
	requestBodyBytes, _ := json.Marshal(requestBody)

	req, err := http.NewRequest("PATCH", "/api/v1/found-reports/FND999999/store", strings.NewReader(string(requestBodyBytes)))
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"report_id": "FND999999"})

	mockFoundDB := &mocks.FoundReportDatabase{}
	mockFoundDB.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 0}, nil)

	f := handlers.FoundReport{DB: mockFoundDB}

	rr := httptest.NewRecorder()
	http.HandlerFunc(f.StoreFoundReportHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)

	var errResp models.ErrorMessageResponse
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &errResp))
	assert.Contains(t, errResp.Response, "found report not found")
}

func TestFoundReport_StoreFoundReportHandler_MissingStoredBy(t *testing.T) {
	req, err := http.NewRequest("PATCH", "/api/v1/found-reports/FND000001/store", strings.NewReader(`{}`))
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"report_id": "FND000001"})

	f := handlers.FoundReport{DB: &mocks.FoundReportDatabase{}}

	rr := httptest.NewRecorder()
	http.HandlerFunc(f.StoreFoundReportHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "storedBy is required")
}

func TestFoundReport_ClaimFoundReportHandler_Success(t *testing.T) {
	claimantID := primitive.NewObjectID()

	requestBody := map[string]string{
		"userId":  claimantID.Hex(),
		"message": "It has my student ID inside",
	}
	requestBodyBytes, _ := json.Marshal(requestBody)

	req, err := http.NewRequest("PATCH", "/api/v1/found-reports/FND000001/claim", strings.NewReader(string(requestBodyBytes)))
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"report_id": "FND000001"})

	mockFoundDB := &mocks.FoundReportDatabase{}
	mockUserDB := &mocks.UserDatabase{}

	mockUserDB.On("FindOne", mock.Anything, mock.Anything).
		Return(&models.User{ID: claimantID, Email: "claimant@diu.edu", Name: "Sam"}, nil)
	mockFoundDB.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)
	// the async notification looks the report back up
	mockFoundDB.On("FindOne", mock.Anything, mock.Anything).
		Return(&models.FoundReport{ReportID: "FND000001", ItemName: "Black Wallet"}, nil).Maybe()

	f := handlers.FoundReport{DB: mockFoundDB, UDB: mockUserDB}

	rr := httptest.NewRecorder()
	http.HandlerFunc(f.ClaimFoundReportHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"success":true`)
	mockUserDB.AssertExpectations(t)
}

func TestFoundReport_ClaimFoundReportHandler_AlreadyClaimed(t *testing.T) {
	claimantID := primitive.NewObjectID()

	requestBody := map[string]string{"userId": claimantID.Hex()}
	requestBodyBytes, _ := json.Marshal(requestBody)

	req, err := http.NewRequest("PATCH", "/api/v1/found-reports/FND000001/claim", strings.NewReader(string(requestBodyBytes)))
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"report_id": "FND000001"})

	mockFoundDB := &mocks.FoundReportDatabase{}
	mockUserDB := &mocks.UserDatabase{}

	mockUserDB.On("FindOne", mock.Anything, mock.Anything).
		Return(&models.User{ID: claimantID}, nil)
	// guarded push matched nothing
	mockFoundDB.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 0}, nil)
	// but the item is still stored, so the only explanation is a prior claim
	mockFoundDB.On("FindOne", mock.Anything, mock.Anything).
		Return(&models.FoundReport{ReportID: "FND000001", Status: models.FoundStatusStored}, nil)

	f := handlers.FoundReport{DB: mockFoundDB, UDB: mockUserDB}

	rr := httptest.NewRecorder()
	http.HandlerFunc(f.ClaimFoundReportHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "already claimed")
	mockFoundDB.AssertExpectations(t)
	mockUserDB.AssertExpectations(t)
}

func TestFoundReport_ClaimFoundReportHandler_NotClaimable(t *testing.T) {
	claimantID := primitive.NewObjectID()

	requestBody := map[string]string{"userId": claimantID.Hex()}
	requestBodyBytes, _ := json.Marshal(requestBody)

	req, err := http.NewRequest("PATCH", "/api/v1/found-reports/FND000002/claim", strings.NewReader(string(requestBodyBytes)))
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"report_id": "FND000002"})

	mockFoundDB := &mocks.FoundReportDatabase{}
	mockUserDB := &mocks.UserDatabase{}

	mockUserDB.On("FindOne", mock.Anything, mock.Anything).
		Return(&models.User{ID: claimantID}, nil)
	mockFoundDB.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 0}, nil)
	// item is resolved (or missing), so it no longer matches the stored filter
	mockFoundDB.On("FindOne", mock.Anything, mock.Anything).
		Return(nil, mongo.ErrNoDocuments)

	f := handlers.FoundReport{DB: mockFoundDB, UDB: mockUserDB}

	rr := httptest.NewRecorder()
	http.HandlerFunc(f.ClaimFoundReportHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "not available for claiming")
}

func TestFoundReport_ClaimFoundReportHandler_UnknownClaimant(t *testing.T) {
	claimantID := primitive.NewObjectID()

	requestBody := map[string]string{"userId": claimantID.Hex()}
	requestBodyBytes, _ := json.Marshal(requestBody)

	req, err := http.NewRequest("PATCH", "/api/v1/found-reports/FND000001/claim", strings.NewReader(string(requestBodyBytes)))
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"report_id": "FND000001"})

	mockUserDB := &mocks.UserDatabase{}
	mockUserDB.On("FindOne", mock.Anything, mock.Anything).Return(nil, mongo.ErrNoDocuments)

	f := handlers.FoundReport{DB: &mocks.FoundReportDatabase{}, UDB: mockUserDB}

	rr := httptest.NewRecorder()
	http.HandlerFunc(f.ClaimFoundReportHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "claimant has no profile")
}

func TestFoundReport_ClaimFoundReportHandler_InvalidUserID(t *testing.T) {
	requestBody := map[string]string{"userId": "not-an-object-id"}
	requestBodyBytes, _ := json.Marshal(requestBody)

	req, err := http.NewRequest("PATCH", "/api/v1/found-reports/FND000001/claim", strings.NewReader(string(requestBodyBytes)))
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"report_id": "FND000001"})

	f := handlers.FoundReport{DB: &mocks.FoundReportDatabase{}, UDB: &mocks.UserDatabase{}}

	rr := httptest.NewRecorder()
	http.HandlerFunc(f.ClaimFoundReportHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "failed to get objectID from Hex")
}

func TestFoundReport_HandoverFoundReportHandler_Success(t *testing.T) {
	receiverID := primitive.NewObjectID()

	requestBody := map[string]interface{}{
		"receiver": map[string]string{
			"name":  "Alex Karim",
			"email": "alex@diu.edu",
		},
		"handedOverBy": "admin@diu.edu",
	}
	requestBodyBytes, _ := json.Marshal(requestBody)

	req, err := http.NewRequest("PATCH", "/api/v1/found-reports/FND000001/handover", strings.NewReader(string(requestBodyBytes)))
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"report_id": "FND000001"})

	mockFoundDB := &mocks.FoundReportDatabase{}
	mockUserDB := &mocks.UserDatabase{}

	mockUserDB.On("ResolveOrCreate", mock.Anything, "alex@diu.edu", mock.Anything).
		Return(&models.User{ID: receiverID, Email: "alex@diu.edu"}, nil)
	mockFoundDB.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)

	f := handlers.FoundReport{DB: mockFoundDB, UDB: mockUserDB}

	rr := httptest.NewRecorder()
	http.HandlerFunc(f.HandoverFoundReportHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"success":true`)
	mockFoundDB.AssertExpectations(t)
	mockUserDB.AssertExpectations(t)
}

func TestFoundReport_HandoverFoundReportHandler_NotStored(t *testing.T) {
	receiverID := primitive.NewObjectID()

	requestBody := map[string]interface{}{
		"receiver": map[string]string{
			"name":  "Alex Karim",
			"email": "alex@diu.edu",
		},
		"handedOverBy": "admin@diu.edu",
	}
	requestBodyBytes, _ := json.Marshal(requestBody)

	req, err := http.NewRequest("PATCH", "/api/v1/found-reports/FND000001/handover", strings.NewReader(string(requestBodyBytes)))
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"report_id": "FND000001"})

	mockFoundDB := &mocks.FoundReportDatabase{}
	mockUserDB := &mocks.UserDatabase{}

	mockUserDB.On("ResolveOrCreate", mock.Anything, "alex@diu.edu", mock.Anything).
		Return(&models.User{ID: receiverID}, nil)
	// a concurrent handover already resolved the item
	mockFoundDB.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 0}, nil)

	f := handlers.FoundReport{DB: mockFoundDB, UDB: mockUserDB}

	rr := httptest.NewRecorder()
	http.HandlerFunc(f.HandoverFoundReportHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "found report not in stored state")
}

func TestFoundReport_HandoverFoundReportHandler_MissingReceiver(t *testing.T) {
	requestBody := map[string]interface{}{"handedOverBy": "admin@diu.edu"}
	requestBodyBytes, _ := json.Marshal(requestBody)

	req, err := http.NewRequest("PATCH", "/api/v1/found-reports/FND000001/handover", strings.NewReader(string(requestBodyBytes)))
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"report_id": "FND000001"})

	f := handlers.FoundReport{DB: &mocks.FoundReportDatabase{}, UDB: &mocks.UserDatabase{}}

	rr := httptest.NewRecorder()
	http.HandlerFunc(f.HandoverFoundReportHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "receiver and handedOverBy are required")
}

func TestFoundReport_ManualEntryHandler_Success(t *testing.T) {
	founderID := primitive.NewObjectID()

	requestBody := map[string]interface{}{
		"itemName":       "Umbrella",
		"description":    "Blue folding umbrella",
		"found_location": "Cafeteria",
		"found_date":     "2024-02-10",
		"founder": map[string]string{
			"name":  "Guest Visitor",
			"email": "guest@example.com",
		},
	}
	requestBodyBytes, _ := json.Marshal(requestBody)

	req, err := http.NewRequest("POST", "/api/v1/found-reports/manual-entry", strings.NewReader(string(requestBodyBytes)))
	if err != nil {
		t.Fatal(err)
	}
	req = req.WithContext(api.ContextWithEmail(req.Context(), "admin@diu.edu"))

	mockFoundDB := &mocks.FoundReportDatabase{}
	mockUserDB := &mocks.UserDatabase{}
	mockCounterDB := &mocks.CounterDatabase{}

	mockUserDB.On("ResolveOrCreate", mock.Anything, "guest@example.com", mock.Anything).
		Return(&models.User{ID: founderID, Email: "guest@example.com"}, nil)
	mockCounterDB.On("Next", mock.Anything, "foundlnf").Return(int64(42), nil)
	mockFoundDB.On("InsertOne", mock.Anything, mock.MatchedBy(func(doc interface{}) bool {
		report, ok := doc.(models.FoundReport)
		return ok && report.Status == models.FoundStatusStored && report.StoredBy == "admin@diu.edu"
	})).Return(&mocks.InsertOneResultHelper{}, nil)

	f := handlers.FoundReport{DB: mockFoundDB, UDB: mockUserDB, CDB: mockCounterDB}

	rr := httptest.NewRecorder()
	http.HandlerFunc(f.ManualEntryHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), "FND000042")
	mockFoundDB.AssertExpectations(t)
}

func TestFoundReport_ManualEntryHandler_MissingFounder(t *testing.T) {
	requestBody := map[string]interface{}{
		"itemName":       "Umbrella",
		"description":    "Blue folding umbrella",
		"found_location": "Cafeteria",
		"found_date":     "2024-02-10",
	}
	requestBodyBytes, _ := json.Marshal(requestBody)

	req, err := http.NewRequest("POST", "/api/v1/found-reports/manual-entry", strings.NewReader(string(requestBodyBytes)))
	if err != nil {
		t.Fatal(err)
	}

	f := handlers.FoundReport{DB: &mocks.FoundReportDatabase{}, UDB: &mocks.UserDatabase{}, CDB: &mocks.CounterDatabase{}}

	rr := httptest.NewRecorder()
	http.HandlerFunc(f.ManualEntryHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "founder name and email are required")
}

func TestFoundReport_SearchFoundReportsHandler_MissingQuery(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/found-reports/search", nil)
	if err != nil {
		t.Fatal(err)
	}

	f := handlers.FoundReport{DB: &mocks.FoundReportDatabase{}}

	rr := httptest.NewRecorder()
	http.HandlerFunc(f.SearchFoundReportsHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "q query parameter is required")
}

func TestFoundReport_SearchFoundReportsHandler_Success(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/found-reports/search?q=wallet", nil)
	if err != nil {
		t.Fatal(err)
	}

	mockFoundDB := &mocks.FoundReportDatabase{}
	mockCursor := &mocks.CursorHelper{}

	mockFoundDB.On("Aggregate", mock.Anything, mock.Anything).Return(mockCursor, nil)
	mockCursor.On("All", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		views := args.Get(1).(*[]models.SearchResultView)
		*views = []models.SearchResultView{
			{FoundReport: models.FoundReport{ReportID: "FND000001", ItemName: "Black Wallet"}, ClaimedStatus: false},
		}
	}).Return(nil)
	mockCursor.On("Close", mock.Anything).Return(nil)

	f := handlers.FoundReport{DB: mockFoundDB}

	rr := httptest.NewRecorder()
	http.HandlerFunc(f.SearchFoundReportsHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "FND000001")
	assert.Contains(t, rr.Body.String(), `"claimedStatus":false`)
	mockFoundDB.AssertExpectations(t)
	mockCursor.AssertExpectations(t)
}

func TestFoundReport_ClaimedFoundReportsHandler_Empty(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/found-reports/claimed", nil)
	if err != nil {
		t.Fatal(err)
	}

	mockFoundDB := &mocks.FoundReportDatabase{}
	mockFoundDB.On("Find", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)

	f := handlers.FoundReport{DB: mockFoundDB}

	rr := httptest.NewRecorder()
	http.HandlerFunc(f.ClaimedFoundReportsHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rr.Body.String()))
}

func TestFoundReport_FoundReportDetailsHandler_ClaimantLookupMissTolerated(t *testing.T) {
	reportOID := primitive.NewObjectID()
	reporterID := primitive.NewObjectID()
	knownClaimant := primitive.NewObjectID()
	missingClaimant := primitive.NewObjectID()

	req, err := http.NewRequest("GET", "/api/v1/found-reports/details/"+reportOID.Hex(), nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"id": reportOID.Hex()})

	mockFoundDB := &mocks.FoundReportDatabase{}
	mockUserDB := &mocks.UserDatabase{}

	report := &models.FoundReport{
		ID:         reportOID,
		ReportID:   "FND000003",
		ItemName:   "Calculator",
		ReportedBy: reporterID,
		Status:     models.FoundStatusStored,
		Claims: []models.ClaimEntry{
			{UserID: knownClaimant, Message: "mine"},
			{UserID: missingClaimant, Message: "no, mine"},
		},
	}
	mockFoundDB.On("FindOne", mock.Anything, mock.Anything).Return(report, nil)

	mockUserDB.On("FindOne", mock.Anything, mock.MatchedBy(func(filter interface{}) bool {
		m, ok := filter.(bson.M)
		if !ok {
			return false
		}
		id, ok := m["_id"].(primitive.ObjectID)
		return ok && id == missingClaimant
	})).Return(nil, mongo.ErrNoDocuments)
	mockUserDB.On("FindOne", mock.Anything, mock.Anything).
		Return(&models.User{ID: knownClaimant, Name: "Sam"}, nil)

	f := handlers.FoundReport{DB: mockFoundDB, UDB: mockUserDB}

	rr := httptest.NewRecorder()
	http.HandlerFunc(f.FoundReportDetailsHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var detail models.FoundReportDetail
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &detail))
	assert.Len(t, detail.ClaimsWithUserDetails, 2)
}

func TestFoundReport_FoundReportsByStatusHandler_DBError(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/found-reports/stored", nil)
	if err != nil {
		t.Fatal(err)
	}

	mockFoundDB := &mocks.FoundReportDatabase{}
	mockFoundDB.On("Aggregate", mock.Anything, mock.Anything).Return(nil, errors.New("mocked-error"))

	f := handlers.FoundReport{DB: mockFoundDB}

	rr := httptest.NewRecorder()
	f.FoundReportsByStatusHandler(models.FoundStatusStored).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "failed to get found reports")
}
