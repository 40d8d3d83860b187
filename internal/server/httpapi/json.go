// Package httpapi exposes the LeadKeeper backend over JSON HTTP.
package httpapi

import (
	"encoding/json"
	"net/http"

	contracts "github.com/mvalens/leadkeeper/internal/contracts/v1"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, contracts.ErrorResponse{Error: msg})
}

func decodeJSON(r *http.Request, out any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(out)
}
