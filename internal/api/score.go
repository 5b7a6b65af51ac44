package api

import (
	"net/http"

	"github.com/MikeSquared-Agency/Hitchyard/internal/intake"
	"github.com/MikeSquared-Agency/Hitchyard/internal/scoring"
	"github.com/MikeSquared-Agency/Hitchyard/internal/shipment"
)

type ScoreHandler struct {
	svc *intake.Service
}

func NewScoreHandler(svc *intake.Service) *ScoreHandler {
	return &ScoreHandler{svc: svc}
}

// Score validates and scores a load without submitting it.
func (h *ScoreHandler) Score(w http.ResponseWriter, r *http.Request) {
	req, ok := readShipment(w, r)
	if !ok {
		return
	}
	result, err := h.svc.Score(req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type variantsResponse struct {
	Default  string             `json:"default"`
	Variants []*scoring.Variant `json:"variants"`
}

func (h *ScoreHandler) Variants(w http.ResponseWriter, r *http.Request) {
	reg := h.svc.Engine().Registry()
	writeJSON(w, http.StatusOK, variantsResponse{Default: reg.Default(), Variants: reg.List()})
}

// readShipment decodes the body; a ?variant= query parameter fills in an
// absent body variant.
func readShipment(w http.ResponseWriter, r *http.Request) (*shipment.Request, bool) {
	var req shipment.Request
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return nil, false
	}
	if req.Variant == "" {
		req.Variant = r.URL.Query().Get("variant")
	}
	return &req, true
}
