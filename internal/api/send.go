package api

import (
	"net/http"
	"strings"

	"github.com/MikeSquared-Agency/Hitchyard/internal/intake"
)

type SendHandler struct {
	svc *intake.Service
}

func NewSendHandler(svc *intake.Service) *SendHandler {
	return &SendHandler{svc: svc}
}

type sendRequest struct {
	ZipCode string `json:"zip_code"`
}

// Send emails the advisor. A zip outside the service region answers 422.
// A missing API key answers 500 with
// {"error":"Missing RESEND_API_KEY"}; a provider rejection answers 500 with
// the provider's body.
func (h *SendHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.ZipCode) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "zip_code required"})
		return
	}
	if _, err := h.svc.SendAuditNotification(r.Context(), req.ZipCode); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
