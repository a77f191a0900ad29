package rest

import (
	"encoding/json"
	"net/http"
)

// Envelope — единый формат ответа API.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Errors  []string    `json:"errors"`
	Data    interface{} `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, status int, message string, data interface{}) {
	writeJSON(w, status, Envelope{
		Success: true,
		Message: message,
		Errors:  []string{},
		Data:    data,
	})
}

func writeError(w http.ResponseWriter, status int, message string, details []string) {
	if details == nil {
		details = []string{}
	}
	writeJSON(w, status, Envelope{
		Success: false,
		Message: message,
		Errors:  details,
	})
}

func errorStrings(errs []error) []string {
	out := make([]string, 0, len(errs))
	for _, err := range errs {
		out = append(out, err.Error())
	}
	return out
}
