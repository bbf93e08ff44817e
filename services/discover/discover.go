package discover

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"luxo-leads/config"
	"luxo-leads/fetch"
	"luxo-leads/models"
	"luxo-leads/services/extract"
	"luxo-leads/services/score"
	"luxo-leads/storage"
	"luxo-leads/utils"
)

// Search cards carry no gallery, so discovery scores with an assumed
// photo count until enrichment measures the real one.
const provisionalPhotoCount = 30

// Card is one search-result entry: just enough to seed a lead.
type Card struct {
	Title     string
	PriceText string
	URL       string
}

// Runner walks the configured neighborhoods and seeds pending leads
// from search results.
type Runner struct {
	store   storage.LeadStore
	fetcher fetch.Fetcher
	cfg     *config.Config
	log     zerolog.Logger
	seen    *utils.URLSet
}

func NewRunner(store storage.LeadStore, fetcher fetch.Fetcher, cfg *config.Config, log zerolog.Logger) *Runner {
	return &Runner{
		store:   store,
		fetcher: fetcher,
		cfg:     cfg,
		log:     log,
		seen:    utils.NewURLSet(),
	}
}

// SearchURL builds the neighborhood search address with the configured
// price floor and stay window.
func SearchURL(neighborhood string, priceMin int, checkin, checkout time.Time) string {
	loc := url.PathEscape(strings.ReplaceAll(neighborhood, " ", "-"))
	return fmt.Sprintf(
		"https://www.airbnb.com.br/s/%s--Rio-de-Janeiro--RJ/homes?price_min=%d&room_types%%5B%%5D=Entire+home%%2Fapt&checkin=%s&checkout=%s",
		loc, priceMin,
		checkin.Format("2006-01-02"), checkout.Format("2006-01-02"))
}

// ParseCards extracts up to limit result cards from a search page.
// Cards without a link are skipped; query strings are stripped so the
// same listing always maps to one URL.
func ParseCards(p *extract.Page, limit int) []Card {
	var cards []Card
	p.Doc.Find(`div[data-testid="card-container"]`).EachWithBreak(
		func(_ int, s *goquery.Selection) bool {
			title := strings.TrimSpace(s.Find(`div[data-testid="listing-card-title"]`).First().Text())
			if title == "" {
				title = "Luxury Property"
			}

			priceText := strings.TrimSpace(s.Find(`div[data-testid="price-availability-row"] div`).First().Text())

			href, ok := s.Find("a[href]").First().Attr("href")
			if !ok || href == "" {
				return true
			}
			href = strings.SplitN(href, "?", 2)[0]
			if strings.HasPrefix(href, "/") {
				href = "https://www.airbnb.com.br" + href
			}

			cards = append(cards, Card{Title: title, PriceText: priceText, URL: href})
			return len(cards) < limit
		})
	return cards
}

// Run fetches every configured neighborhood sequentially and upserts the
// discovered cards as pending leads. A failed neighborhood is logged and
// skipped; the pass continues.
func (r *Runner) Run(ctx context.Context) error {
	checkin := time.Now().AddDate(0, 0, r.cfg.CheckinLead)
	checkout := checkin.AddDate(0, 0, r.cfg.StayNights)

	var discovered int
	for _, loc := range r.cfg.Neighborhoods {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := r.searchNeighborhood(ctx, loc, checkin, checkout)
		if err != nil {
			r.log.Error().Err(err).Str("neighborhood", loc).Msg("search failed")
			continue
		}
		discovered += n
		time.Sleep(time.Duration(r.cfg.RateLimitMs) * time.Millisecond)
	}

	r.log.Info().Int("new_leads", discovered).Msg("discovery pass complete")
	return nil
}

func (r *Runner) searchNeighborhood(ctx context.Context, loc string, checkin, checkout time.Time) (int, error) {
	searchURL := SearchURL(loc, r.cfg.SearchPriceMin, checkin, checkout)
	r.log.Info().Str("neighborhood", loc).Msg("searching")

	html, err := r.fetcher.Fetch(ctx, searchURL)
	if err != nil {
		return 0, err
	}
	page, err := extract.Parse(html)
	if err != nil {
		return 0, err
	}

	var created int
	for _, card := range ParseCards(page, r.cfg.CardsPerSearch) {
		if !r.seen.Add(card.URL) {
			continue
		}

		// Known URLs keep their enriched fields; only new listings are seeded.
		if existing, err := r.store.GetByURL(ctx, card.URL); err != nil {
			r.log.Error().Err(err).Str("url", card.URL).Msg("lookup failed")
			continue
		} else if existing != nil {
			continue
		}

		price := extract.NormalizePrice(card.PriceText, r.cfg.StayNights)
		if price == 0 {
			price = r.cfg.SearchPriceMin
		}
		lux := score.Luxury(price, card.Title, provisionalPhotoCount, nil)

		_, isNew, err := r.store.Upsert(ctx, card.URL, models.LeadUpdate{
			Title:         models.Str(card.Title),
			Neighborhood:  models.Str(loc),
			PricePerNight: models.Int(price),
			LuxScore:      models.Float(lux),
		})
		if err != nil {
			r.log.Error().Err(err).Str("url", card.URL).Msg("upsert failed")
			continue
		}
		if isNew {
			created++
			r.log.Info().Str("title", card.Title).Int("price", price).Msg("new lead")
		}
	}
	return created, nil
}
