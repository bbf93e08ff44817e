package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"luxo-leads/models"
)

// Memory is an in-process LeadStore with the same merge semantics as the
// Postgres adapter. It backs tests and dry runs.
type Memory struct {
	mu     sync.Mutex
	byURL  map[string]*models.Lead
	nextID int
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{byURL: make(map[string]*models.Lead)}
}

func (s *Memory) Upsert(ctx context.Context, url string, fields models.LeadUpdate) (*models.Lead, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.byURL[url]; ok {
		existing.Apply(fields)
		existing.UpdatedAt = time.Now()
		return copyLead(existing), false, nil
	}

	s.nextID++
	lead := &models.Lead{
		ID:                fmt.Sprintf("lead-%d", s.nextID),
		URL:               url,
		Status:            models.StatusPending,
		HostPortfolioSize: 1,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}
	lead.Apply(fields)
	s.byURL[url] = lead
	return copyLead(lead), true, nil
}

func (s *Memory) SetStatus(ctx context.Context, id string, status models.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lead := s.findByID(id)
	if lead == nil {
		return fmt.Errorf("memory: no lead with id %s", id)
	}
	lead.Status = status
	lead.UpdatedAt = time.Now()
	return nil
}

func (s *Memory) SetPitch(ctx context.Context, id string, pitch string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lead := s.findByID(id)
	if lead == nil {
		return fmt.Errorf("memory: no lead with id %s", id)
	}
	lead.Pitch = pitch
	lead.UpdatedAt = time.Now()
	return nil
}

func (s *Memory) ListByStatus(ctx context.Context, status models.Status) ([]*models.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var leads []*models.Lead
	for _, lead := range s.byURL {
		if lead.Status == status {
			leads = append(leads, copyLead(lead))
		}
	}
	return leads, nil
}

func (s *Memory) GetByURL(ctx context.Context, url string) (*models.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lead, ok := s.byURL[url]
	if !ok {
		return nil, nil
	}
	return copyLead(lead), nil
}

func (s *Memory) Close() error { return nil }

func (s *Memory) findByID(id string) *models.Lead {
	for _, lead := range s.byURL {
		if lead.ID == id {
			return lead
		}
	}
	return nil
}

func copyLead(l *models.Lead) *models.Lead {
	dup := *l
	dup.Badges = append([]string(nil), l.Badges...)
	dup.MaintenanceItems = append([]string(nil), l.MaintenanceItems...)
	return &dup
}
