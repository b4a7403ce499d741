package models

// ErrorMessageResponse is the envelope written by config.ErrorStatus: the
// message and underlying error joined into a single response string
type ErrorMessageResponse struct {
	Response string `json:"response"`
}
