// Package response holds the wire types shared by both services. Success
// bodies are the exact public contract (no envelope); errors carry a short
// machine-readable reason and nothing from the server internals.
package response

// ErrorInfo detailed error information
type ErrorInfo struct {
	Code    string `json:"code"`    // Business error code, e.g., "DUPLICATE_USERNAME"
	Message string `json:"message"` // Short human-readable reason
}

// ErrorBody is the uniform error response shape.
type ErrorBody struct {
	Error ErrorInfo `json:"error"`
}

// NewError builds an error body.
func NewError(code, message string) ErrorBody {
	return ErrorBody{Error: ErrorInfo{Code: code, Message: message}}
}

// RegisterOut is the body of a successful registration.
type RegisterOut struct {
	Username string `json:"username"`
}

// TokenOut is the body of a successful login.
type TokenOut struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// TaskOut is the external representation of a task.
type TaskOut struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	Owner     string `json:"owner"`
}

// HealthOut is the body of the health endpoint.
type HealthOut struct {
	Status string `json:"status"`
}

// InitDBOut is the body of a successful init-db call.
type InitDBOut struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
