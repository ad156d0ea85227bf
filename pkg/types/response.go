package types

// APIError is the error body the backend returns on non-2xx responses. The
// storefront reads Error (or Message, older deployments) verbatim.
type APIError struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// Text returns whichever message field the backend populated.
func (e APIError) Text() string {
	if e.Error != "" {
		return e.Error
	}
	return e.Message
}
