package api

import (
	"net/http"
	"strconv"

	"github.com/MikeSquared-Agency/Hitchyard/internal/intake"
	"github.com/MikeSquared-Agency/Hitchyard/internal/store"
)

type AuditsHandler struct {
	svc   *intake.Service
	store store.Store
}

func NewAuditsHandler(svc *intake.Service, s store.Store) *AuditsHandler {
	return &AuditsHandler{svc: svc, store: s}
}

func (h *AuditsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req intake.AuditRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	audit, err := h.svc.RecordAudit(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, audit)
}

func (h *AuditsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		limit = n
	}
	audits, err := h.store.ListFreightAudits(r.Context(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if audits == nil {
		audits = []*store.FreightAudit{}
	}
	writeJSON(w, http.StatusOK, audits)
}
