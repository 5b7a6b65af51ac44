package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MikeSquared-Agency/Hitchyard/internal/intake"
	"github.com/MikeSquared-Agency/Hitchyard/internal/notify"
	"github.com/MikeSquared-Agency/Hitchyard/internal/scoring"
	"github.com/MikeSquared-Agency/Hitchyard/internal/shipment"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto status codes. Bodies are always
// {"error": message}, plus "field" for validation failures.
func writeError(w http.ResponseWriter, err error) {
	var verr *shipment.ValidationError
	var cerr *notify.ConfigurationError
	var uerr *notify.UpstreamError
	var serr *intake.SubmissionError

	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": verr.Error(), "field": verr.Field})
	case errors.Is(err, scoring.ErrUnknownVariant):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.As(err, &cerr):
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": cerr.Error()})
	case errors.As(err, &uerr):
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": uerr.Body})
	case errors.As(err, &serr):
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": serr.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func decodeBody(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}
