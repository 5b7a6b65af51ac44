package intake

import (
	"context"
	"fmt"
	"time"

	"github.com/MikeSquared-Agency/Hitchyard/internal/hermes"
	"github.com/MikeSquared-Agency/Hitchyard/internal/shipment"
	"github.com/MikeSquared-Agency/Hitchyard/internal/store"
)

// AuditRequest is the freight audit form. Every field is required.
type AuditRequest struct {
	ShipperEmail string             `json:"shipper_email"`
	PalletCount  *int               `json:"pallet_count"`
	ZipCode      string             `json:"zip_code"`
	Commodity    shipment.Commodity `json:"commodity"`
}

var auditFields = map[string]string{
	"email":      "shipper_email",
	"origin_zip": "zip_code",
}

// RecordAudit validates the form against the default variant's pallet and
// region rules and stores it. Failures other than validation are returned
// wrapped in *SubmissionError.
func (s *Service) RecordAudit(ctx context.Context, req *AuditRequest) (*store.FreightAudit, error) {
	validator, err := s.auditValidator()
	if err != nil {
		return nil, err
	}
	if verr := validateAudit(validator, req); verr != nil {
		s.metrics.ValidationRejected("freight-audit", verr.Reason)
		return nil, verr
	}

	audit := &store.FreightAudit{
		ShipperEmail: req.ShipperEmail,
		PalletCount:  *req.PalletCount,
		ZipCode:      req.ZipCode,
		Commodity:    string(req.Commodity),
	}
	if err := s.store.CreateFreightAudit(ctx, audit); err != nil {
		s.logger.Error("freight audit insert failed", "zip_code", req.ZipCode, "error", err)
		return nil, &SubmissionError{Err: fmt.Errorf("create freight audit: %w", err)}
	}

	s.metrics.AuditRecorded()
	s.logger.Info("freight audit recorded", "audit_id", audit.ID, "zip_code", audit.ZipCode)
	s.publish(ctx, hermes.SubjectAuditRecorded, hermes.AuditRecordedEvent{
		AuditID:     audit.ID.String(),
		ZipCode:     audit.ZipCode,
		PalletCount: audit.PalletCount,
		Commodity:   audit.Commodity,
		Timestamp:   time.Now().UTC(),
	})
	return audit, nil
}

func (s *Service) auditValidator() (*shipment.Validator, error) {
	_, def, err := s.engine.Registry().Get("")
	if err != nil {
		return nil, err
	}
	rules := def.Rules()
	rules.RequireDestination = false
	rules.RequireEmail = true
	rules.RequireCommodity = true
	return shipment.NewValidator(rules), nil
}

func validateAudit(validator *shipment.Validator, req *AuditRequest) *shipment.ValidationError {
	verr := validator.Validate(&shipment.Request{
		PalletCount: req.PalletCount,
		OriginZip:   req.ZipCode,
		Commodity:   req.Commodity,
		Email:       req.ShipperEmail,
	})
	if verr != nil {
		if name, ok := auditFields[verr.Field]; ok {
			verr.Field = name
		}
	}
	return verr
}
