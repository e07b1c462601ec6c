package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
)

// ErrorResponse is the wire shape for every non-success status.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	res, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(res)
}

func WriteError(w http.ResponseWriter, status int, msg, detail string) {
	WriteJSON(w, status, &ErrorResponse{Error: msg, Detail: detail})
}

func writeValidationErrors(w http.ResponseWriter, errs []*FieldError) {
	details := make([]string, 0, len(errs))
	for _, e := range errs {
		details = append(details, e.Field+" "+e.Msg)
	}

	WriteError(w, http.StatusUnprocessableEntity, "validation_failed", strings.Join(details, "; "))
}
