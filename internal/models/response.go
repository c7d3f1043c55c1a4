package models

// uniform error responses
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse doubles as an error so request validators can return it
// directly.
func (e *ErrorResponse) Error() string {
	return e.Message
}
