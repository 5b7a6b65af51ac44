package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Hitchyard/internal/intake"
	"github.com/MikeSquared-Agency/Hitchyard/internal/store"
)

type LeadsHandler struct {
	svc   *intake.Service
	store store.Store
}

func NewLeadsHandler(svc *intake.Service, s store.Store) *LeadsHandler {
	return &LeadsHandler{svc: svc, store: s}
}

// Create runs Check My Load. A failed submission still answers 200 with the
// score and a submission_error notice.
func (h *LeadsHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := readShipment(w, r)
	if !ok {
		return
	}
	out, err := h.svc.CheckLoad(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	status := http.StatusOK
	if out.Submitted {
		status = http.StatusCreated
	}
	writeJSON(w, status, out)
}

func (h *LeadsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.LeadFilter{
		Variant: q.Get("variant"),
		Email:   q.Get("email"),
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		filter.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid offset"})
			return
		}
		filter.Offset = n
	}

	leads, err := h.store.ListLeads(r.Context(), filter)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if leads == nil {
		leads = []*store.Lead{}
	}
	writeJSON(w, http.StatusOK, leads)
}

func (h *LeadsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid lead id"})
		return
	}

	lead, err := h.store.GetLead(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if lead == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "lead not found"})
		return
	}
	writeJSON(w, http.StatusOK, lead)
}
