package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	ddl, err := readSchema("postgres.sql")
	if err != nil {
		return err
	}
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

const leadColumns = `id, variant, email, company_name,
	pallet_count, origin_zip, destination_zip, commodity,
	reported_reliability, weight_lbs, payout::text,
	score, legacy_hps, created_at`

func (s *PostgresStore) CreateLead(ctx context.Context, lead *Lead) error {
	return s.pool.QueryRow(ctx, `
		INSERT INTO leads (variant, email, company_name,
			pallet_count, origin_zip, destination_zip, commodity,
			reported_reliability, weight_lbs, payout,
			score, legacy_hps)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::numeric, $11, $12)
		RETURNING id, created_at`,
		lead.Variant, lead.Email, lead.CompanyName,
		lead.PalletCount, lead.OriginZip, lead.DestinationZip, lead.Commodity,
		lead.ReportedReliability, lead.WeightLbs, decimalText(lead.Payout),
		lead.Score, lead.LegacyHPS,
	).Scan(&lead.ID, &lead.CreatedAt)
}

func (s *PostgresStore) GetLead(ctx context.Context, id uuid.UUID) (*Lead, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads, err := scanPgLeads(rows)
	if err != nil {
		return nil, err
	}
	if len(leads) == 0 {
		return nil, nil
	}
	return leads[0], nil
}

func (s *PostgresStore) ListLeads(ctx context.Context, filter LeadFilter) ([]*Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE 1=1`
	args := []interface{}{}
	n := 0

	if filter.Variant != "" {
		n++
		query += fmt.Sprintf(" AND variant = $%d", n)
		args = append(args, filter.Variant)
	}
	if filter.Email != "" {
		n++
		query += fmt.Sprintf(" AND email = $%d", n)
		args = append(args, filter.Email)
	}

	query += " ORDER BY created_at DESC"

	n++
	query += fmt.Sprintf(" LIMIT $%d", n)
	args = append(args, filter.limit())

	if filter.Offset > 0 {
		n++
		query += fmt.Sprintf(" OFFSET $%d", n)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPgLeads(rows)
}

func (s *PostgresStore) CreateFreightAudit(ctx context.Context, audit *FreightAudit) error {
	return s.pool.QueryRow(ctx, `
		INSERT INTO freight_audits (shipper_email, pallet_count, zip_code, commodity)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		audit.ShipperEmail, audit.PalletCount, audit.ZipCode, audit.Commodity,
	).Scan(&audit.ID, &audit.CreatedAt)
}

func (s *PostgresStore) ListFreightAudits(ctx context.Context, limit int) ([]*FreightAudit, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, shipper_email, pallet_count, zip_code, commodity, created_at
		FROM freight_audits ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var audits []*FreightAudit
	for rows.Next() {
		a := &FreightAudit{}
		if err := rows.Scan(&a.ID, &a.ShipperEmail, &a.PalletCount, &a.ZipCode, &a.Commodity, &a.CreatedAt); err != nil {
			return nil, err
		}
		audits = append(audits, a)
	}
	return audits, rows.Err()
}

func scanPgLeads(rows pgx.Rows) ([]*Lead, error) {
	var leads []*Lead
	for rows.Next() {
		l := &Lead{}
		var payout *string
		if err := rows.Scan(
			&l.ID, &l.Variant, &l.Email, &l.CompanyName,
			&l.PalletCount, &l.OriginZip, &l.DestinationZip, &l.Commodity,
			&l.ReportedReliability, &l.WeightLbs, &payout,
			&l.Score, &l.LegacyHPS, &l.CreatedAt,
		); err != nil {
			return nil, err
		}
		d, err := parseDecimal(payout)
		if err != nil {
			return nil, err
		}
		l.Payout = d
		leads = append(leads, l)
	}
	return leads, rows.Err()
}
