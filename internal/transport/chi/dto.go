package chi

// AskRequest is the body of POST /v1/ask.
type AskRequest struct {
	Text string `json:"text"`
}

// AskResponse is the reply to POST /v1/ask.
type AskResponse struct {
	Answer string `json:"answer"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// ErrorResponse is returned for rejected requests.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes.
const (
	ErrorCodeBadRequest    = "bad_request"
	ErrorCodeNotFound      = "not_found"
	ErrorCodeInternalError = "internal_error"
)
