package models

import "time"

// Status drives which passes pick a lead up. Transitions within a pass are
// monotonic: pending → in_progress → ready|error.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusReady      Status = "ready"
	StatusError      Status = "error"
)

// Lead is one tracked listing. URL is the unique key; re-discovering a known
// URL merges fields into the existing row instead of creating a second one.
type Lead struct {
	ID                string
	URL               string
	Title             string
	Neighborhood      string
	HostName          string
	Description       string
	PricePerNight     int // 0 means unknown
	LuxScore          float64
	Badges            []string
	MaintenanceItems  []string
	CleanlinessGap    string
	Email             string
	Phone             string
	Instagram         string
	Website           string
	HostPortfolioSize int
	Status            Status
	Pitch             string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// LeadUpdate is a partial set of fields for a field-level merge. A nil
// pointer leaves the stored value untouched, so concurrent passes writing
// different fields do not clobber each other.
//
// Badges are an append-only union; MaintenanceItems replace the stored set
// when present (latest scrape wins).
type LeadUpdate struct {
	Title             *string
	Neighborhood      *string
	HostName          *string
	Description       *string
	PricePerNight     *int
	LuxScore          *float64
	Badges            []string
	MaintenanceItems  *[]string
	CleanlinessGap    *string
	Email             *string
	Phone             *string
	Instagram         *string
	Website           *string
	HostPortfolioSize *int
}

// Apply merges the update into the lead in place.
func (l *Lead) Apply(u LeadUpdate) {
	if u.Title != nil {
		l.Title = *u.Title
	}
	if u.Neighborhood != nil {
		l.Neighborhood = *u.Neighborhood
	}
	if u.HostName != nil {
		l.HostName = *u.HostName
	}
	if u.Description != nil {
		l.Description = *u.Description
	}
	if u.PricePerNight != nil {
		l.PricePerNight = *u.PricePerNight
	}
	if u.LuxScore != nil {
		l.LuxScore = *u.LuxScore
	}
	if len(u.Badges) > 0 {
		l.Badges = UnionBadges(l.Badges, u.Badges)
	}
	if u.MaintenanceItems != nil {
		l.MaintenanceItems = *u.MaintenanceItems
	}
	if u.CleanlinessGap != nil {
		l.CleanlinessGap = *u.CleanlinessGap
	}
	if u.Email != nil {
		l.Email = *u.Email
	}
	if u.Phone != nil {
		l.Phone = *u.Phone
	}
	if u.Instagram != nil {
		l.Instagram = *u.Instagram
	}
	if u.Website != nil {
		l.Website = *u.Website
	}
	if u.HostPortfolioSize != nil {
		l.HostPortfolioSize = *u.HostPortfolioSize
	}
}

// UnionBadges returns existing ∪ extra, preserving first-seen order.
func UnionBadges(existing, extra []string) []string {
	seen := make(map[string]struct{}, len(existing)+len(extra))
	out := make([]string, 0, len(existing)+len(extra))
	for _, b := range existing {
		if _, dup := seen[b]; !dup {
			seen[b] = struct{}{}
			out = append(out, b)
		}
	}
	for _, b := range extra {
		if _, dup := seen[b]; !dup {
			seen[b] = struct{}{}
			out = append(out, b)
		}
	}
	return out
}

// Pointer helpers for building LeadUpdate values.

func Str(s string) *string       { return &s }
func Int(n int) *int             { return &n }
func Float(f float64) *float64   { return &f }
func Strs(s []string) *[]string  { return &s }
