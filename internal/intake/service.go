// Package intake runs a Check My Load submission end to end: score the load,
// store the lead when contact details were given, then announce it.
package intake

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/MikeSquared-Agency/Hitchyard/internal/hermes"
	"github.com/MikeSquared-Agency/Hitchyard/internal/metrics"
	"github.com/MikeSquared-Agency/Hitchyard/internal/notify"
	"github.com/MikeSquared-Agency/Hitchyard/internal/scoring"
	"github.com/MikeSquared-Agency/Hitchyard/internal/shipment"
	"github.com/MikeSquared-Agency/Hitchyard/internal/store"
)

// SubmissionFailedNotice is shown in place of the store error. The score the
// caller already has stays valid.
const SubmissionFailedNotice = "Submission failed. Please try again."

// SubmissionError wraps a lead sink failure.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string { return SubmissionFailedNotice }

func (e *SubmissionError) Unwrap() error { return e.Err }

// Outcome is the result of CheckLoad. Score is always set; SubmissionError
// is a notice, not a failure of the call.
type Outcome struct {
	Score           scoring.ScoreResult `json:"score"`
	Submitted       bool                `json:"submitted"`
	LeadID          *uuid.UUID          `json:"lead_id,omitempty"`
	SubmissionError string              `json:"submission_error,omitempty"`
	Notified        bool                `json:"notified"`
}

type Service struct {
	engine       *scoring.Engine
	store        store.Store
	hermes       hermes.Client
	notifier     notify.Client
	notifyOnLead bool
	metrics      *metrics.Metrics
	logger       *slog.Logger
}

// NewService wires the intake flow. hermes and notifier may be nil to
// disable events and advisor emails.
func NewService(engine *scoring.Engine, s store.Store, h hermes.Client, n notify.Client, notifyOnLead bool, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		engine:       engine,
		store:        s,
		hermes:       h,
		notifier:     n,
		notifyOnLead: notifyOnLead,
		metrics:      m,
		logger:       logger,
	}
}

func (s *Service) Engine() *scoring.Engine { return s.engine }

// Score validates and scores req without storing anything.
func (s *Service) Score(req *shipment.Request) (scoring.ScoreResult, error) {
	result, err := s.engine.ComputeScore(req)
	if err != nil {
		var verr *shipment.ValidationError
		if errors.As(err, &verr) {
			s.metrics.ValidationRejected(s.variantName(req), verr.Reason)
		}
		return result, err
	}
	s.metrics.ScoreComputed(result.Variant, result.Composite)
	return result, nil
}

// CheckLoad scores req and, when an email is present, stores the lead and
// fans out the lead event and advisor email. Only scoring errors are
// returned; submission trouble is reported on the Outcome.
func (s *Service) CheckLoad(ctx context.Context, req *shipment.Request) (*Outcome, error) {
	result, err := s.Score(req)
	if err != nil {
		return nil, err
	}
	out := &Outcome{Score: result}

	s.publish(ctx, hermes.SubjectScoreComputed, hermes.ScoreComputedEvent{
		Variant:    result.Variant,
		OriginZip:  req.OriginZip,
		Pallets:    req.Pallets(),
		Composite:  result.Composite,
		Subfactors: result.Subfactors(),
		Timestamp:  time.Now().UTC(),
	})

	if strings.TrimSpace(req.Email) == "" {
		return out, nil
	}

	lead := leadFromRequest(req, result)
	if err := s.store.CreateLead(ctx, lead); err != nil {
		serr := &SubmissionError{Err: err}
		s.logger.Error("lead submission failed", "variant", result.Variant, "origin_zip", req.OriginZip, "error", err)
		s.metrics.LeadSubmission(result.Variant, false)
		s.publish(ctx, hermes.SubjectLeadSubmissionFailed, hermes.LeadSubmissionFailedEvent{
			Variant:   result.Variant,
			OriginZip: req.OriginZip,
			Error:     err.Error(),
			Timestamp: time.Now().UTC(),
		})
		out.SubmissionError = serr.Error()
		return out, nil
	}

	s.metrics.LeadSubmission(result.Variant, true)
	s.logger.Info("lead submitted", "lead_id", lead.ID, "variant", lead.Variant, "score", lead.Score)
	out.Submitted = true
	out.LeadID = &lead.ID

	var g errgroup.Group
	g.Go(func() error {
		s.publish(ctx, hermes.SubjectLeadSubmitted(lead.ID.String()), hermes.LeadSubmittedEvent{
			LeadID:    lead.ID.String(),
			Variant:   lead.Variant,
			Email:     lead.Email,
			OriginZip: lead.OriginZip,
			Score:     lead.Score,
			Timestamp: lead.CreatedAt,
		})
		return nil
	})
	if s.notifyOnLead {
		g.Go(func() error {
			if _, err := s.SendAuditNotification(ctx, lead.OriginZip); err != nil {
				return err
			}
			out.Notified = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Warn("advisor notification failed", "lead_id", lead.ID, "error", err)
	}
	return out, nil
}

// SendAuditNotification emails the advisor about a new audit request for zip.
// The zip must be a regional postal code under the default variant; it ends
// up in the email subject and the event subject.
func (s *Service) SendAuditNotification(ctx context.Context, zip string) (*notify.SendResult, error) {
	_, def, err := s.engine.Registry().Get("")
	if err != nil {
		return nil, err
	}
	if verr := def.ValidatePostalCode("zip_code", zip); verr != nil {
		s.metrics.ValidationRejected("audit-notify", verr.Reason)
		return nil, verr
	}
	if s.notifier == nil {
		s.metrics.Notification("unconfigured")
		return nil, notify.ErrMissingCredential
	}
	res, err := s.notifier.SendAuditRequest(ctx, zip)
	if err != nil {
		var cerr *notify.ConfigurationError
		if errors.As(err, &cerr) {
			s.metrics.Notification("unconfigured")
		} else {
			s.metrics.Notification("failed")
		}
		return nil, err
	}
	s.metrics.Notification("sent")
	s.publish(ctx, hermes.SubjectNotifySent(zip), hermes.NotifySentEvent{
		ZipCode:   zip,
		MessageID: res.ID,
		Timestamp: time.Now().UTC(),
	})
	return res, nil
}

func (s *Service) publish(ctx context.Context, subject string, data interface{}) {
	if s.hermes == nil {
		return
	}
	if err := s.hermes.Publish(ctx, subject, data); err != nil {
		s.logger.Warn("event publish failed", "subject", subject, "error", err)
	}
}

func (s *Service) variantName(req *shipment.Request) string {
	if req.Variant != "" {
		return req.Variant
	}
	return s.engine.Registry().Default()
}

func leadFromRequest(req *shipment.Request, result scoring.ScoreResult) *store.Lead {
	return &store.Lead{
		Variant:             result.Variant,
		Email:               strings.TrimSpace(req.Email),
		CompanyName:         req.CompanyName,
		PalletCount:         req.Pallets(),
		OriginZip:           req.OriginZip,
		DestinationZip:      req.DestinationZip,
		Commodity:           string(req.Commodity),
		ReportedReliability: req.Reliability,
		WeightLbs:           req.WeightLbs,
		Payout:              req.Payout,
		Score:               result.Composite,
		LegacyHPS:           result.LegacyHPS,
	}
}
