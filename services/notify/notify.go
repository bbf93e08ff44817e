package notify

import (
	"context"
	"encoding/base64"
	"encoding/json"

	"luxo-leads/models"
)

// Notifier announces leads that finished enrichment, so the outreach app
// sees results without polling the store.
type Notifier interface {
	// LeadReady publishes a lead that just transitioned to ready.
	LeadReady(ctx context.Context, lead *models.Lead) error

	// Close closes the underlying connection.
	Close() error
}

// Noop is used when no notifier backend is configured.
type Noop struct{}

func (Noop) LeadReady(context.Context, *models.Lead) error { return nil }
func (Noop) Close() error                                  { return nil }

// payload is the wire form of a ready-lead announcement.
type payload struct {
	ID            string   `json:"id"`
	URL           string   `json:"url"`
	Title         string   `json:"title"`
	Neighborhood  string   `json:"neighborhood,omitempty"`
	HostName      string   `json:"host_name,omitempty"`
	PricePerNight int      `json:"price_per_night"`
	LuxScore      float64  `json:"lux_score"`
	Badges        []string `json:"badges,omitempty"`
	Email         string   `json:"email,omitempty"`
	Phone         string   `json:"phone,omitempty"`
}

// Encode renders a lead as the base64 JSON published to the stream.
func Encode(lead *models.Lead) (string, error) {
	data, err := json.Marshal(payload{
		ID:            lead.ID,
		URL:           lead.URL,
		Title:         lead.Title,
		Neighborhood:  lead.Neighborhood,
		HostName:      lead.HostName,
		PricePerNight: lead.PricePerNight,
		LuxScore:      lead.LuxScore,
		Badges:        lead.Badges,
		Email:         lead.Email,
		Phone:         lead.Phone,
	})
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
