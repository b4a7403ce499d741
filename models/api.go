package models

// HealthCheckResponse returns the health check response, exciting stuff
type HealthCheckResponse struct {
	Alive bool `json:"alive"`
}

// CreateReportResponse is returned by the lost/found submission and
// manual-entry endpoints
type CreateReportResponse struct {
	Success  bool   `json:"success"`
	ReportID string `json:"reportId"`
}

// SuccessResponse is returned by the status-transition endpoints
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
