package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/diulnf/lostfound-api/api"
	"github.com/diulnf/lostfound-api/api/handlers"
	"github.com/diulnf/lostfound-api/databases/mocks"
	"github.com/diulnf/lostfound-api/models"
)

func TestLostReport_CreateLostReportHandler_Success(t *testing.T) {
	reporterID := primitive.NewObjectID()

	requestBody := map[string]string{
		"itemName":      "Laptop Charger",
		"description":   "65W USB-C charger, white",
		"lost_location": "Room 401",
		"lost_date":     "2024-03-20",
		"name":          "Nadia Islam",
	}
	requestBodyBytes, _ := json.Marshal(requestBody)

	req, err := http.NewRequest("POST", "/api/v1/lost-reports", strings.NewReader(string(requestBodyBytes)))
	if err != nil {
		t.Fatal(err)
	}
	req = req.WithContext(api.ContextWithEmail(req.Context(), "nadia@diu.edu"))

	mockLostDB := &mocks.LostReportDatabase{}
	mockUserDB := &mocks.UserDatabase{}
	mockCounterDB := &mocks.CounterDatabase{}

	mockUserDB.On("ResolveOrCreate", mock.Anything, "nadia@diu.edu", mock.Anything).
		Return(&models.User{ID: reporterID, Email: "nadia@diu.edu"}, nil)
	mockCounterDB.On("Next", mock.Anything, "lostlnf").Return(int64(12), nil)
	mockLostDB.On("InsertOne", mock.Anything, mock.MatchedBy(func(doc interface{}) bool {
		report, ok := doc.(models.LostReport)
		return ok && report.Status == models.LostStatusOpen && report.ReportedBy == reporterID
	})).Return(&mocks.InsertOneResultHelper{}, nil)

	l := handlers.LostReport{DB: mockLostDB, UDB: mockUserDB, CDB: mockCounterDB}

	rr := httptest.NewRecorder()
	http.HandlerFunc(l.CreateLostReportHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), "LST000012")
	mockLostDB.AssertExpectations(t)
	mockUserDB.AssertExpectations(t)
	mockCounterDB.AssertExpectations(t)
}

func TestLostReport_CreateLostReportHandler_MissingFields(t *testing.T) {
	requestBody := map[string]string{"itemName": "Laptop Charger"}
	requestBodyBytes, _ := json.Marshal(requestBody)

	req, err := http.NewRequest("POST", "/api/v1/lost-reports", strings.NewReader(string(requestBodyBytes)))
	if err != nil {
		t.Fatal(err)
	}

	l := handlers.LostReport{DB: &mocks.LostReportDatabase{}, UDB: &mocks.UserDatabase{}, CDB: &mocks.CounterDatabase{}}

	rr := httptest.NewRecorder()
	http.HandlerFunc(l.CreateLostReportHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "missing required fields")
}

func TestLostReport_CreateLostReportHandler_BadDate(t *testing.T) {
	requestBody := map[string]string{
		"itemName":      "Laptop Charger",
		"description":   "65W USB-C charger",
		"lost_location": "Room 401",
		"lost_date":     "20-03-2024",
	}
	requestBodyBytes, _ := json.Marshal(requestBody)

	req, err := http.NewRequest("POST", "/api/v1/lost-reports", strings.NewReader(string(requestBodyBytes)))
	if err != nil {
		t.Fatal(err)
	}

	l := handlers.LostReport{DB: &mocks.LostReportDatabase{}, UDB: &mocks.UserDatabase{}, CDB: &mocks.CounterDatabase{}}

	rr := httptest.NewRecorder()
	http.HandlerFunc(l.CreateLostReportHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "lost_date must be YYYY-MM-DD")
}

func TestLostReport_OpenLostReportsHandler_Success(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/lost-reports/open", nil)
	if err != nil {
		t.Fatal(err)
	}

	mockLostDB := &mocks.LostReportDatabase{}
	mockLostDB.On("AggregateViews", mock.Anything, mock.Anything).Return([]models.LostReportView{
		{
			LostReport: models.LostReport{ReportID: "LST000001", ItemName: "Laptop Charger", Status: models.LostStatusOpen},
			Reporter:   &models.User{Name: "Nadia Islam"},
		},
	}, nil)

	l := handlers.LostReport{DB: mockLostDB}

	rr := httptest.NewRecorder()
	http.HandlerFunc(l.OpenLostReportsHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "LST000001")
	assert.Contains(t, rr.Body.String(), "Nadia Islam")
	mockLostDB.AssertExpectations(t)
}

func TestLostReport_OpenLostReportsHandler_Empty(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/lost-reports/open", nil)
	if err != nil {
		t.Fatal(err)
	}

	mockLostDB := &mocks.LostReportDatabase{}
	mockLostDB.On("AggregateViews", mock.Anything, mock.Anything).Return(nil, nil)

	l := handlers.LostReport{DB: mockLostDB}

	rr := httptest.NewRecorder()
	http.HandlerFunc(l.OpenLostReportsHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rr.Body.String()))
}

func TestLostReport_OpenLostReportsHandler_DBError(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/lost-reports/open", nil)
	if err != nil {
		t.Fatal(err)
	}

	mockLostDB := &mocks.LostReportDatabase{}
	mockLostDB.On("AggregateViews", mock.Anything, mock.Anything).Return(nil, errors.New("mocked-error"))

	l := handlers.LostReport{DB: mockLostDB}

	rr := httptest.NewRecorder()
	http.HandlerFunc(l.OpenLostReportsHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "failed to get lost reports")
}
