package intake

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Hitchyard/internal/hermes"
	"github.com/MikeSquared-Agency/Hitchyard/internal/shipment"
	"github.com/MikeSquared-Agency/Hitchyard/internal/store"
)

func validAudit() *AuditRequest {
	return &AuditRequest{
		ShipperEmail: "dock@example.com",
		PalletCount:  intPtr(6),
		ZipCode:      "84404",
		Commodity:    shipment.CommodityIndustrial,
	}
}

func TestRecordAudit(t *testing.T) {
	ms := &MockStore{}
	mh := &MockHermes{}
	auditID := uuid.New()

	ms.On("CreateFreightAudit", mock.Anything, mock.MatchedBy(func(a *store.FreightAudit) bool {
		return a.ShipperEmail == "dock@example.com" && a.PalletCount == 6 &&
			a.ZipCode == "84404" && a.Commodity == "industrial"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*store.FreightAudit).ID = auditID
	}).Return(nil)
	mh.On("Publish", hermes.SubjectAuditRecorded, mock.Anything).Return(nil)

	svc := NewService(newEngine(t), ms, mh, nil, false, nil, discardLogger())
	audit, err := svc.RecordAudit(context.Background(), validAudit())

	require.NoError(t, err)
	assert.Equal(t, auditID, audit.ID)
	ms.AssertExpectations(t)
	mh.AssertExpectations(t)
}

func TestRecordAuditValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(a *AuditRequest)
		field  string
		reason string
	}{
		{"missing email", func(a *AuditRequest) { a.ShipperEmail = "" }, "shipper_email", shipment.ReasonMissingField},
		{"missing pallets", func(a *AuditRequest) { a.PalletCount = nil }, "pallet_count", shipment.ReasonMissingField},
		{"missing zip", func(a *AuditRequest) { a.ZipCode = "" }, "zip_code", shipment.ReasonMissingField},
		{"missing commodity", func(a *AuditRequest) { a.Commodity = "" }, "commodity", shipment.ReasonMissingField},
		{"zip outside region", func(a *AuditRequest) { a.ZipCode = "90210" }, "zip_code", shipment.ReasonInvalidPostalCode},
		{"too few pallets", func(a *AuditRequest) { a.PalletCount = intPtr(2) }, "pallet_count", shipment.ReasonTooFewPallets},
		{"unknown commodity", func(a *AuditRequest) { a.Commodity = "livestock" }, "commodity", shipment.ReasonUnsupportedCommodity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ms := &MockStore{}
			svc := NewService(newEngine(t), ms, nil, nil, false, nil, discardLogger())

			req := validAudit()
			tt.mutate(req)
			_, err := svc.RecordAudit(context.Background(), req)

			var verr *shipment.ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, tt.reason, verr.Reason)
			ms.AssertNotCalled(t, "CreateFreightAudit", mock.Anything, mock.Anything)
		})
	}
}

func TestRecordAuditStoreFailure(t *testing.T) {
	ms := &MockStore{}
	ms.On("CreateFreightAudit", mock.Anything, mock.Anything).Return(errors.New("timeout"))

	svc := NewService(newEngine(t), ms, nil, nil, false, nil, discardLogger())
	_, err := svc.RecordAudit(context.Background(), validAudit())

	var serr *SubmissionError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, SubmissionFailedNotice, err.Error())
}
