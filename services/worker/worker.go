package worker

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"luxo-leads/config"
	"luxo-leads/fetch"
	"luxo-leads/models"
	"luxo-leads/services/contact"
	"luxo-leads/services/extract"
	"luxo-leads/services/notify"
	"luxo-leads/services/pitch"
	"luxo-leads/services/score"
	"luxo-leads/storage"
	"luxo-leads/utils"
)

// Worker drives the enrichment pass: it claims pending leads, scrapes
// and extracts everything about them, and moves each one to a terminal
// status. One lead's failure never stops the batch.
type Worker struct {
	store    storage.LeadStore
	fetcher  fetch.Fetcher
	notifier notify.Notifier
	searcher fetch.Fetcher // contact escalation, nil disables it
	cfg      *config.Config
	log      zerolog.Logger
}

func New(store storage.LeadStore, fetcher fetch.Fetcher, notifier notify.Notifier, cfg *config.Config, log zerolog.Logger) *Worker {
	w := &Worker{
		store:    store,
		fetcher:  fetcher,
		notifier: notifier,
		cfg:      cfg,
		log:      log,
	}
	if cfg.SearchEnrichment {
		w.searcher = fetcher
	}
	return w
}

// ProcessPending enriches every pending lead once, sequentially. Errors
// are isolated per lead.
func (w *Worker) ProcessPending(ctx context.Context) error {
	pending, err := w.store.ListByStatus(ctx, models.StatusPending)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		return nil
	}

	w.log.Info().Int("count", len(pending)).Msg("leads to enrich")
	for _, lead := range pending {
		if err := ctx.Err(); err != nil {
			return err
		}
		w.processLead(ctx, lead)
		time.Sleep(time.Duration(w.cfg.RateLimitMs) * time.Millisecond)
	}
	return nil
}

// Watch polls for pending leads until the context is cancelled.
func (w *Worker) Watch(ctx context.Context) error {
	w.log.Info().Dur("interval", w.cfg.PollInterval).Msg("watcher active")

	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		if err := w.ProcessPending(ctx); err != nil && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("batch failed")
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// processLead runs one lead to a terminal status.
func (w *Worker) processLead(ctx context.Context, lead *models.Lead) {
	log := w.log.With().Str("url", lead.URL).Logger()

	if err := w.store.SetStatus(ctx, lead.ID, models.StatusInProgress); err != nil {
		log.Error().Err(err).Msg("could not claim lead")
		return
	}

	update, err := w.enrich(ctx, lead)
	if err != nil {
		log.Error().Err(err).Msg("enrichment failed")
		if serr := w.store.SetStatus(ctx, lead.ID, models.StatusError); serr != nil {
			log.Error().Err(serr).Msg("could not mark error")
		}
		return
	}

	merged, _, err := w.store.Upsert(ctx, lead.URL, update)
	if err != nil {
		log.Error().Err(err).Msg("persist failed")
		if serr := w.store.SetStatus(ctx, lead.ID, models.StatusError); serr != nil {
			log.Error().Err(serr).Msg("could not mark error")
		}
		return
	}

	if err := w.store.SetStatus(ctx, lead.ID, models.StatusReady); err != nil {
		log.Error().Err(err).Msg("could not mark ready")
		return
	}
	merged.Status = models.StatusReady

	if err := w.notifier.LeadReady(ctx, merged); err != nil {
		log.Warn().Err(err).Msg("ready notification failed")
	}
	log.Info().Float64("lux_score", merged.LuxScore).Msg("lead ready")
}

// enrich fetches and extracts everything for a lead. The listing fetch
// is fatal for the lead; the host-profile and escalation fetches are
// tolerated failures that just leave their fields unset.
func (w *Worker) enrich(ctx context.Context, lead *models.Lead) (models.LeadUpdate, error) {
	html, err := w.fetcher.Fetch(ctx, lead.URL)
	if err != nil {
		return models.LeadUpdate{}, err
	}
	page, err := extract.Parse(html)
	if err != nil {
		return models.LeadUpdate{}, err
	}

	update := models.LeadUpdate{}

	description := extract.Description(page)
	update.Description = models.Str(description)

	maintenance := extract.Maintenance(page)
	update.MaintenanceItems = models.Strs(maintenance)

	if gap := extract.GapSummary(extract.Reviews(page)); gap != "" {
		update.CleanlinessGap = models.Str(gap)
	}

	title := extract.Title(page)
	if title != "" {
		update.Title = models.Str(title)
	} else {
		title = lead.Title
	}

	badges := extract.Badges(page)
	section := extract.HostSection(page)
	var hostName string
	if section != nil {
		if extract.Superhost(section.Text()) {
			badges = append(badges, "Superhost")
		}
		hostName = extract.HostName(section)
		if hostName != "" {
			update.HostName = models.Str(hostName)
		}
	}
	if len(badges) > 0 {
		update.Badges = badges
	}

	price := extract.Price(page, w.cfg.StayNights)
	if price == 0 {
		price = lead.PricePerNight
	} else {
		update.PricePerNight = models.Int(price)
	}

	photos := extract.PhotoCount(page)

	allBadges := models.UnionBadges(lead.Badges, badges)
	update.LuxScore = models.Float(score.Luxury(price, title, photos, allBadges))

	w.enrichFromHostProfile(ctx, page, description, hostName, &update)

	return update, nil
}

// enrichFromHostProfile follows the host's profile page for portfolio
// size and contact channels. Every failure here degrades, never aborts.
func (w *Worker) enrichFromHostProfile(ctx context.Context, page *extract.Page, description, hostName string, update *models.LeadUpdate) {
	log := w.log

	hostID := extract.HostID(page.HTML)
	if hostID == "" {
		// The listing page itself sometimes carries the count.
		update.HostPortfolioSize = models.Int(extract.PortfolioSize(page))
		return
	}

	profileHTML, err := w.fetcher.Fetch(ctx, extract.HostProfileURL(hostID))
	if err != nil {
		log.Warn().Err(err).Str("host_id", hostID).Msg("host profile unreachable")
		return
	}
	profile, err := extract.Parse(profileHTML)
	if err != nil {
		log.Warn().Err(err).Msg("host profile unparseable")
		return
	}

	update.HostPortfolioSize = models.Int(extract.PortfolioSize(profile))

	info := contact.Resolve(profile.Text+"\n"+description, extract.Links(profile))
	if info.Empty() && w.searcher != nil && hostName != "" {
		info = w.searchContacts(ctx, hostName)
	}
	applyContacts(update, info)
}

// searchContacts is the escalation tier: one web search for the host's
// name when the profile yields nothing.
func (w *Worker) searchContacts(ctx context.Context, hostName string) contact.Info {
	query := contact.SearchQuery(hostName)
	searchURL := "https://www.google.com/search?q=" + strings.ReplaceAll(query, " ", "+")

	html, err := w.searcher.Fetch(ctx, searchURL)
	if err != nil {
		w.log.Warn().Err(err).Str("host", hostName).Msg("contact search failed")
		return contact.Info{}
	}
	page, err := extract.Parse(html)
	if err != nil {
		return contact.Info{}
	}
	return contact.Resolve(page.Text, extract.Links(page))
}

func applyContacts(update *models.LeadUpdate, info contact.Info) {
	if info.Email != "" {
		update.Email = models.Str(info.Email)
	}
	if info.Phone != "" {
		update.Phone = models.Str(info.Phone)
	}
	if info.Instagram != "" {
		update.Instagram = models.Str(info.Instagram)
	}
	if info.Website != "" {
		update.Website = models.Str(info.Website)
	}
}

// RunPitches generates pitches for ready leads that have none, through
// the rate-limited pool.
func (w *Worker) RunPitches(ctx context.Context, gen *pitch.Generator) error {
	ready, err := w.store.ListByStatus(ctx, models.StatusReady)
	if err != nil {
		return err
	}

	pool := utils.NewPool(w.cfg.MaxConcurrency, time.Duration(w.cfg.RateLimitMs)*time.Millisecond)
	var updated atomic.Int64
	for _, lead := range ready {
		if lead.Pitch != "" {
			continue
		}
		lead := lead
		pool.Submit(func() {
			text := gen.Generate(ctx, lead)
			if text == "" {
				return
			}
			if err := w.store.SetPitch(ctx, lead.ID, text); err != nil {
				w.log.Error().Err(err).Str("url", lead.URL).Msg("pitch save failed")
				return
			}
			updated.Add(1)
			w.log.Info().Str("host", lead.HostName).Msg("pitch generated")
		})
	}
	pool.Wait()

	w.log.Info().Int64("updated", updated.Load()).Msg("pitch pass complete")
	return nil
}
