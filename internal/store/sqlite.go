package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Fixed-width so created_at sorts correctly as text.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore keeps leads in a local file, or in memory when the path is
// ":memory:". Used for development and single-node deployments.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("sqlite path not specified")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	// Each pooled connection to ":memory:" would see its own empty database.
	db.SetMaxOpenConns(1)
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	ddl, err := readSchema("sqlite.sql")
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

const sqliteLeadColumns = `id, variant, email, company_name,
	pallet_count, origin_zip, destination_zip, commodity,
	reported_reliability, weight_lbs, payout,
	score, legacy_hps, created_at`

func (s *SQLiteStore) CreateLead(ctx context.Context, lead *Lead) error {
	id := uuid.New()
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leads (`+sqliteLeadColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id.String(), lead.Variant, lead.Email, lead.CompanyName,
		lead.PalletCount, lead.OriginZip, lead.DestinationZip, lead.Commodity,
		lead.ReportedReliability, lead.WeightLbs, decimalText(lead.Payout),
		lead.Score, lead.LegacyHPS, now.Format(sqliteTimeLayout),
	)
	if err != nil {
		return err
	}
	lead.ID = id
	lead.CreatedAt = now
	return nil
}

func (s *SQLiteStore) GetLead(ctx context.Context, id uuid.UUID) (*Lead, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+sqliteLeadColumns+` FROM leads WHERE id = ?`, id.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads, err := scanSQLiteLeads(rows)
	if err != nil {
		return nil, err
	}
	if len(leads) == 0 {
		return nil, nil
	}
	return leads[0], nil
}

func (s *SQLiteStore) ListLeads(ctx context.Context, filter LeadFilter) ([]*Lead, error) {
	query := `SELECT ` + sqliteLeadColumns + ` FROM leads WHERE 1=1`
	args := []interface{}{}

	if filter.Variant != "" {
		query += " AND variant = ?"
		args = append(args, filter.Variant)
	}
	if filter.Email != "" {
		query += " AND email = ?"
		args = append(args, filter.Email)
	}

	query += " ORDER BY created_at DESC, rowid DESC LIMIT ? OFFSET ?"
	args = append(args, filter.limit(), filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSQLiteLeads(rows)
}

func (s *SQLiteStore) CreateFreightAudit(ctx context.Context, audit *FreightAudit) error {
	id := uuid.New()
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO freight_audits (id, shipper_email, pallet_count, zip_code, commodity, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		id.String(), audit.ShipperEmail, audit.PalletCount, audit.ZipCode, audit.Commodity,
		now.Format(sqliteTimeLayout),
	)
	if err != nil {
		return err
	}
	audit.ID = id
	audit.CreatedAt = now
	return nil
}

func (s *SQLiteStore) ListFreightAudits(ctx context.Context, limit int) ([]*FreightAudit, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, shipper_email, pallet_count, zip_code, commodity, created_at
		FROM freight_audits ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var audits []*FreightAudit
	for rows.Next() {
		a := &FreightAudit{}
		var id, created string
		if err := rows.Scan(&id, &a.ShipperEmail, &a.PalletCount, &a.ZipCode, &a.Commodity, &created); err != nil {
			return nil, err
		}
		if a.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse audit id: %w", err)
		}
		if a.CreatedAt, err = time.Parse(sqliteTimeLayout, created); err != nil {
			return nil, fmt.Errorf("parse audit created_at: %w", err)
		}
		audits = append(audits, a)
	}
	return audits, rows.Err()
}

func scanSQLiteLeads(rows *sql.Rows) ([]*Lead, error) {
	var leads []*Lead
	for rows.Next() {
		l := &Lead{}
		var id, created string
		var reliability sql.NullInt64
		var weight, legacy sql.NullFloat64
		var payout sql.NullString
		if err := rows.Scan(
			&id, &l.Variant, &l.Email, &l.CompanyName,
			&l.PalletCount, &l.OriginZip, &l.DestinationZip, &l.Commodity,
			&reliability, &weight, &payout,
			&l.Score, &legacy, &created,
		); err != nil {
			return nil, err
		}

		var err error
		if l.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse lead id: %w", err)
		}
		if l.CreatedAt, err = time.Parse(sqliteTimeLayout, created); err != nil {
			return nil, fmt.Errorf("parse lead created_at: %w", err)
		}
		if reliability.Valid {
			r := int(reliability.Int64)
			l.ReportedReliability = &r
		}
		if weight.Valid {
			l.WeightLbs = &weight.Float64
		}
		if legacy.Valid {
			l.LegacyHPS = &legacy.Float64
		}
		if payout.Valid {
			if l.Payout, err = parseDecimal(&payout.String); err != nil {
				return nil, err
			}
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}
