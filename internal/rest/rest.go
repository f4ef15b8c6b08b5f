package rest

// ErrorResponse is the JSON body returned by handlers on failure.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// FieldErrorsResponse carries per-field validation messages for form
// submissions, keyed by the field name the frontend displays them under.
type FieldErrorsResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}
