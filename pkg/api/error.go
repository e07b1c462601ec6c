package api

// APIError is the single error shape the transport layer produces for any
// non-success response. Message is the server's "error" field or, when the
// body carried none, the HTTP status text.
type APIError struct {
	Message    string `json:"error"`
	Detail     string `json:"detail,omitempty"`
	StatusCode int    `json:"-"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return "request_failed"
	}
	if e.Detail != "" {
		return e.Message + " - " + e.Detail
	}
	return e.Message
}
