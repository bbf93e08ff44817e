package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"luxo-leads/errs"
	"luxo-leads/models"
)

// Postgres persists leads in PostgreSQL.
type Postgres struct {
	db *sql.DB
}

// NewPostgres opens a connection, runs schema migrations, and returns a
// ready-to-use store. Connectivity failure here is fatal to the caller.
func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	s := &Postgres{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}
	return s, nil
}

func (s *Postgres) migrate() error {
	_, err := s.db.Exec(`
		CREATE EXTENSION IF NOT EXISTS pgcrypto;

		CREATE TABLE IF NOT EXISTS leads (
			id                  UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			url                 TEXT UNIQUE NOT NULL,
			title               TEXT NOT NULL DEFAULT '',
			neighborhood        TEXT NOT NULL DEFAULT '',
			host_name           TEXT NOT NULL DEFAULT '',
			description         TEXT NOT NULL DEFAULT '',
			price_per_night     INTEGER NOT NULL DEFAULT 0,
			lux_score           NUMERIC(5,1) NOT NULL DEFAULT 0,
			badges              TEXT[] NOT NULL DEFAULT '{}',
			maintenance_items   TEXT[] NOT NULL DEFAULT '{}',
			cleanliness_gap     TEXT NOT NULL DEFAULT '',
			email               TEXT NOT NULL DEFAULT '',
			phone               TEXT NOT NULL DEFAULT '',
			instagram           TEXT NOT NULL DEFAULT '',
			website             TEXT NOT NULL DEFAULT '',
			host_portfolio_size INTEGER NOT NULL DEFAULT 1,
			status              TEXT NOT NULL DEFAULT 'pending',
			pitch               TEXT NOT NULL DEFAULT '',
			created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_leads_status    ON leads(status);
		CREATE INDEX IF NOT EXISTS idx_leads_lux_score ON leads(lux_score);
	`)
	return err
}

const leadColumns = `id, url, title, neighborhood, host_name, description,
	price_per_night, lux_score, badges, maintenance_items, cleanliness_gap,
	email, phone, instagram, website, host_portfolio_size, status, pitch,
	created_at, updated_at`

func scanLead(row interface{ Scan(...interface{}) error }) (*models.Lead, error) {
	l := &models.Lead{}
	err := row.Scan(
		&l.ID, &l.URL, &l.Title, &l.Neighborhood, &l.HostName, &l.Description,
		&l.PricePerNight, &l.LuxScore, pq.Array(&l.Badges), pq.Array(&l.MaintenanceItems),
		&l.CleanlinessGap, &l.Email, &l.Phone, &l.Instagram, &l.Website,
		&l.HostPortfolioSize, &l.Status, &l.Pitch, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// GetByURL returns the lead for a URL, or nil when unknown.
func (s *Postgres) GetByURL(ctx context.Context, url string) (*models.Lead, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE url = $1`, url)
	lead, err := scanLead(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Store("get-by-url", err)
	}
	return lead, nil
}

// Upsert checks existence before inserting, and treats a lost insert race as
// a merge update rather than a uniqueness violation.
func (s *Postgres) Upsert(ctx context.Context, url string, fields models.LeadUpdate) (*models.Lead, bool, error) {
	existing, err := s.GetByURL(ctx, url)
	if err != nil {
		return nil, false, err
	}

	if existing == nil {
		lead, inserted, err := s.insert(ctx, url, fields)
		if err != nil {
			return nil, false, err
		}
		if inserted {
			return lead, true, nil
		}
		// A concurrent discovery pass won the race; merge instead.
		if existing, err = s.GetByURL(ctx, url); err != nil {
			return nil, false, err
		}
		if existing == nil {
			return nil, false, errs.Store("upsert", fmt.Errorf("lead for %s vanished after conflict", url))
		}
	}

	lead, err := s.update(ctx, existing, fields)
	return lead, false, err
}

func (s *Postgres) insert(ctx context.Context, url string, fields models.LeadUpdate) (*models.Lead, bool, error) {
	fresh := &models.Lead{URL: url, Status: models.StatusPending, HostPortfolioSize: 1}
	fresh.Apply(fields)

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO leads (url, title, neighborhood, host_name, description,
			price_per_night, lux_score, badges, maintenance_items, cleanliness_gap,
			email, phone, instagram, website, host_portfolio_size, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
		ON CONFLICT (url) DO NOTHING
		RETURNING id, created_at, updated_at`,
		fresh.URL, fresh.Title, fresh.Neighborhood, fresh.HostName, fresh.Description,
		fresh.PricePerNight, fresh.LuxScore, pq.Array(fresh.Badges),
		pq.Array(fresh.MaintenanceItems), fresh.CleanlinessGap,
		fresh.Email, fresh.Phone, fresh.Instagram, fresh.Website,
		fresh.HostPortfolioSize, fresh.Status,
	)

	err := row.Scan(&fresh.ID, &fresh.CreatedAt, &fresh.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errs.Store("insert", err)
	}
	return fresh, true, nil
}

func (s *Postgres) update(ctx context.Context, existing *models.Lead, fields models.LeadUpdate) (*models.Lead, error) {
	// Badges never shrink: union with what is already stored.
	if len(fields.Badges) > 0 {
		fields.Badges = models.UnionBadges(existing.Badges, fields.Badges)
	}

	sets, args := buildUpdate(fields)
	if len(sets) == 0 {
		return existing, nil
	}

	sets = append(sets, "updated_at = NOW()")
	args = append(args, existing.ID)
	query := fmt.Sprintf("UPDATE leads SET %s WHERE id = $%d",
		strings.Join(sets, ", "), len(args))

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return nil, errs.Store("update", err)
	}
	return s.GetByURL(ctx, existing.URL)
}

// buildUpdate renders the set fields of a LeadUpdate as SET clauses with
// 1-based placeholders, leaving unset fields out of the statement entirely.
func buildUpdate(fields models.LeadUpdate) ([]string, []interface{}) {
	var sets []string
	var args []interface{}

	add := func(col string, val interface{}) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if fields.Title != nil {
		add("title", *fields.Title)
	}
	if fields.Neighborhood != nil {
		add("neighborhood", *fields.Neighborhood)
	}
	if fields.HostName != nil {
		add("host_name", *fields.HostName)
	}
	if fields.Description != nil {
		add("description", *fields.Description)
	}
	if fields.PricePerNight != nil {
		add("price_per_night", *fields.PricePerNight)
	}
	if fields.LuxScore != nil {
		add("lux_score", *fields.LuxScore)
	}
	if len(fields.Badges) > 0 {
		add("badges", pq.Array(fields.Badges))
	}
	if fields.MaintenanceItems != nil {
		add("maintenance_items", pq.Array(*fields.MaintenanceItems))
	}
	if fields.CleanlinessGap != nil {
		add("cleanliness_gap", *fields.CleanlinessGap)
	}
	if fields.Email != nil {
		add("email", *fields.Email)
	}
	if fields.Phone != nil {
		add("phone", *fields.Phone)
	}
	if fields.Instagram != nil {
		add("instagram", *fields.Instagram)
	}
	if fields.Website != nil {
		add("website", *fields.Website)
	}
	if fields.HostPortfolioSize != nil {
		add("host_portfolio_size", *fields.HostPortfolioSize)
	}

	return sets, args
}

// SetStatus transitions a lead unconditionally.
func (s *Postgres) SetStatus(ctx context.Context, id string, status models.Status) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE leads SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return errs.Store("set-status", err)
	}
	return nil
}

// SetPitch attaches a generated pitch to a lead.
func (s *Postgres) SetPitch(ctx context.Context, id string, pitch string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE leads SET pitch = $1, updated_at = NOW() WHERE id = $2`, pitch, id)
	if err != nil {
		return errs.Store("set-pitch", err)
	}
	return nil
}

// ListByStatus returns all leads with the given status, oldest first.
func (s *Postgres) ListByStatus(ctx context.Context, status models.Status) ([]*models.Lead, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE status = $1 ORDER BY created_at`, status)
	if err != nil {
		return nil, errs.Store("list-by-status", err)
	}
	defer rows.Close()

	var leads []*models.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, errs.Store("scan-lead", err)
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

func (s *Postgres) Close() error {
	return s.db.Close()
}
