package apihandlers

// APIError represents an error response.
type APIError struct {
	Message string `json:"message"`
}
