package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Hitchyard/internal/config"
)

func setupSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "leads.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { s.Close() })
	return s
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func TestLeadFilterDefaults(t *testing.T) {
	f := LeadFilter{}
	if f.limit() != 100 {
		t.Errorf("expected default limit 100, got %d", f.limit())
	}
	if (LeadFilter{Limit: 5}).limit() != 5 {
		t.Error("expected explicit limit kept")
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.DatabaseConfig{Driver: "mysql"})
	assert.Error(t, err)
}

func TestOpenSQLite(t *testing.T) {
	s, err := Open(context.Background(), config.DatabaseConfig{Driver: "sqlite", URL: ":memory:"})
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, s.Ping(context.Background()))
}

func TestNewSQLiteStoreEmptyPath(t *testing.T) {
	_, err := NewSQLiteStore("")
	assert.Error(t, err)
}

func TestMigrateIdempotent(t *testing.T) {
	s := setupSQLite(t)
	assert.NoError(t, s.Migrate(context.Background()))
}

func TestSQLiteCreateAndGetLead(t *testing.T) {
	s := setupSQLite(t)
	ctx := context.Background()

	payout := decimal.RequireFromString("1250.5")
	lead := &Lead{
		Variant:             "reliability-audit",
		Email:               "ops@wasatchsupply.com",
		CompanyName:         "Wasatch Supply",
		PalletCount:         6,
		OriginZip:           "84101",
		DestinationZip:      "84601",
		Commodity:           "building_materials",
		ReportedReliability: intPtr(92),
		WeightLbs:           floatPtr(2400),
		Payout:              &payout,
		Score:               83,
		LegacyHPS:           floatPtr(8.9),
	}
	require.NoError(t, s.CreateLead(ctx, lead))
	assert.NotEqual(t, uuid.Nil, lead.ID)
	assert.False(t, lead.CreatedAt.IsZero())

	got, err := s.GetLead(ctx, lead.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, lead.ID, got.ID)
	assert.Equal(t, "reliability-audit", got.Variant)
	assert.Equal(t, "ops@wasatchsupply.com", got.Email)
	assert.Equal(t, "Wasatch Supply", got.CompanyName)
	assert.Equal(t, 6, got.PalletCount)
	assert.Equal(t, "84601", got.DestinationZip)
	assert.Equal(t, 83, got.Score)
	require.NotNil(t, got.ReportedReliability)
	assert.Equal(t, 92, *got.ReportedReliability)
	require.NotNil(t, got.WeightLbs)
	assert.Equal(t, 2400.0, *got.WeightLbs)
	require.NotNil(t, got.LegacyHPS)
	assert.Equal(t, 8.9, *got.LegacyHPS)
	require.NotNil(t, got.Payout)
	assert.True(t, got.Payout.Equal(payout), "payout %s", got.Payout)
	assert.WithinDuration(t, lead.CreatedAt, got.CreatedAt, time.Microsecond)
}

func TestSQLiteLeadOptionalFieldsNull(t *testing.T) {
	s := setupSQLite(t)
	ctx := context.Background()

	lead := &Lead{Variant: "check-my-load", Email: "a@b.co", PalletCount: 4, OriginZip: "84101", Score: 80}
	require.NoError(t, s.CreateLead(ctx, lead))

	got, err := s.GetLead(ctx, lead.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.ReportedReliability)
	assert.Nil(t, got.WeightLbs)
	assert.Nil(t, got.Payout)
	assert.Nil(t, got.LegacyHPS)
}

func TestSQLiteGetLeadNotFound(t *testing.T) {
	s := setupSQLite(t)
	got, err := s.GetLead(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLiteListLeads(t *testing.T) {
	s := setupSQLite(t)
	ctx := context.Background()

	for i, v := range []string{"check-my-load", "check-my-load", "lane-match"} {
		lead := &Lead{Variant: v, Email: "shipper@example.com", PalletCount: 4 + i, OriginZip: "84101", Score: 80 + i}
		require.NoError(t, s.CreateLead(ctx, lead))
	}
	other := &Lead{Variant: "check-my-load", Email: "other@example.com", PalletCount: 5, OriginZip: "84601", Score: 82}
	require.NoError(t, s.CreateLead(ctx, other))

	all, err := s.ListLeads(ctx, LeadFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.Equal(t, other.ID, all[0].ID, "newest first")

	byVariant, err := s.ListLeads(ctx, LeadFilter{Variant: "check-my-load"})
	require.NoError(t, err)
	assert.Len(t, byVariant, 3)

	byEmail, err := s.ListLeads(ctx, LeadFilter{Email: "other@example.com"})
	require.NoError(t, err)
	require.Len(t, byEmail, 1)
	assert.Equal(t, "84601", byEmail[0].OriginZip)

	page, err := s.ListLeads(ctx, LeadFilter{Limit: 2, Offset: 3})
	require.NoError(t, err)
	assert.Len(t, page, 1)
}

func TestSQLiteFreightAudits(t *testing.T) {
	s := setupSQLite(t)
	ctx := context.Background()

	audit := &FreightAudit{ShipperEmail: "dock@example.com", PalletCount: 8, ZipCode: "84404", Commodity: "retail"}
	require.NoError(t, s.CreateFreightAudit(ctx, audit))
	assert.NotEqual(t, uuid.Nil, audit.ID)

	audits, err := s.ListFreightAudits(ctx, 0)
	require.NoError(t, err)
	require.Len(t, audits, 1)
	assert.Equal(t, audit.ID, audits[0].ID)
	assert.Equal(t, "84404", audits[0].ZipCode)
	assert.Equal(t, 8, audits[0].PalletCount)
	assert.Equal(t, "retail", audits[0].Commodity)
}

func TestDecimalText(t *testing.T) {
	assert.Nil(t, decimalText(nil))
	d := decimal.RequireFromString("12.5")
	assert.Equal(t, "12.5", *decimalText(&d))
	exact := decimal.RequireFromString("980.255")
	assert.Equal(t, "980.255", *decimalText(&exact))

	got, err := parseDecimal(nil)
	assert.NoError(t, err)
	assert.Nil(t, got)

	bad := "twelve"
	_, err = parseDecimal(&bad)
	assert.Error(t, err)
}
