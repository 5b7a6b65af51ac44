package store

import (
	"context"
	"embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MikeSquared-Agency/Hitchyard/internal/config"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// Lead is a scored load submitted with contact details.
type Lead struct {
	ID          uuid.UUID `json:"id"`
	Variant     string    `json:"variant"`
	Email       string    `json:"email"`
	CompanyName string    `json:"company_name,omitempty"`

	// Load
	PalletCount         int              `json:"pallet_count"`
	OriginZip           string           `json:"origin_zip"`
	DestinationZip      string           `json:"destination_zip,omitempty"`
	Commodity           string           `json:"commodity,omitempty"`
	ReportedReliability *int             `json:"reported_reliability,omitempty"`
	WeightLbs           *float64         `json:"weight_lbs,omitempty"`
	Payout              *decimal.Decimal `json:"payout,omitempty"`

	// Score
	Score     int      `json:"score"`
	LegacyHPS *float64 `json:"legacy_hps,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// FreightAudit is a performance audit request from a shipper.
type FreightAudit struct {
	ID           uuid.UUID `json:"id"`
	ShipperEmail string    `json:"shipper_email"`
	PalletCount  int       `json:"pallet_count"`
	ZipCode      string    `json:"zip_code"`
	Commodity    string    `json:"commodity"`
	CreatedAt    time.Time `json:"created_at"`
}

type LeadFilter struct {
	Variant string
	Email   string
	Limit   int
	Offset  int
}

func (f LeadFilter) limit() int {
	if f.Limit <= 0 {
		return 100
	}
	return f.Limit
}

// Store is the lead submission sink. Get methods return nil, nil when the
// record does not exist.
type Store interface {
	CreateLead(ctx context.Context, lead *Lead) error
	GetLead(ctx context.Context, id uuid.UUID) (*Lead, error)
	ListLeads(ctx context.Context, filter LeadFilter) ([]*Lead, error)

	CreateFreightAudit(ctx context.Context, audit *FreightAudit) error
	ListFreightAudits(ctx context.Context, limit int) ([]*FreightAudit, error)

	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// Open connects the store named by cfg.Driver. An empty driver means sqlite.
func Open(ctx context.Context, cfg config.DatabaseConfig) (Store, error) {
	switch cfg.Driver {
	case "postgres":
		return NewPostgresStore(ctx, cfg.URL)
	case "", "sqlite":
		return NewSQLiteStore(cfg.URL)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func readSchema(name string) (string, error) {
	b, err := schemaFS.ReadFile("schema/" + name)
	if err != nil {
		return "", fmt.Errorf("read schema %s: %w", name, err)
	}
	return string(b), nil
}

func decimalText(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

func parseDecimal(s *string) (*decimal.Decimal, error) {
	if s == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return nil, fmt.Errorf("parse payout %q: %w", *s, err)
	}
	return &d, nil
}
