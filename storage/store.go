package storage

import (
	"context"

	"luxo-leads/models"
)

// LeadStore is the interface any lead storage backend must satisfy.
type LeadStore interface {
	// Upsert looks up a lead by URL. If absent it creates one in pending
	// state with the given fields; if present it merges the fields into the
	// existing row (field-level overwrite, never whole-row replacement).
	// The bool result reports whether a new row was created.
	Upsert(ctx context.Context, url string, fields models.LeadUpdate) (*models.Lead, bool, error)

	// SetStatus transitions a lead unconditionally; callers guard ordering.
	SetStatus(ctx context.Context, id string, status models.Status) error

	// SetPitch attaches a generated pitch without touching enrichment fields.
	SetPitch(ctx context.Context, id string, pitch string) error

	// ListByStatus returns all leads with the given status for batch work.
	ListByStatus(ctx context.Context, status models.Status) ([]*models.Lead, error)

	// GetByURL returns the lead for a URL, or nil when unknown.
	GetByURL(ctx context.Context, url string) (*models.Lead, error)

	// Close releases the underlying connection.
	Close() error
}
