package worker

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"luxo-leads/config"
	"luxo-leads/errs"
	"luxo-leads/models"
	"luxo-leads/services/notify"
	"luxo-leads/services/pitch"
	"luxo-leads/storage"
)

const listingURL = "https://www.airbnb.com.br/rooms/111"

const listingHTML = `<html><body>
<h1>Cobertura de Luxo Vista Mar</h1>
<div data-section-id="DESCRIPTION_DEFAULT">Cobertura com piscina privativa,
bancadas de mármore e cafeteira nespresso.</div>
<span class="_1y74zjx">R$ 9.000 por 3 noites</span>
<div data-section-id="HOST_PROFILE_DEFAULT">Anfitrião: Maria Silva Superhost</div>
<a href="/users/profile/777?previous_page_name=PdpHomeMarketplace">perfil</a>
<div data-review-id="r1">
  <span aria-label="3 estrelas">★</span>
  <div data-testid="pdp-review-description">Muita poeira nos rodapés</div>
</div>
<img src="https://a0.muscache.com/im/1.jpg">
</body></html>`

const profileHTML = `<html><body>
<div>Ver os 12 anúncios de Maria</div>
<div>Reservas: maria.reservas@gmail.com ou (21) 99888-7766</div>
<a href="https://www.casasluxorj.com.br">site</a>
</body></html>`

type mapFetcher struct {
	pages map[string]string
	errs  map[string]error
	calls []string
}

func (f *mapFetcher) Fetch(_ context.Context, url string) (string, error) {
	f.calls = append(f.calls, url)
	if err, ok := f.errs[url]; ok {
		return "", err
	}
	if html, ok := f.pages[url]; ok {
		return html, nil
	}
	return "", errs.Fetch("get", errors.New("unknown url"))
}

type recordingNotifier struct {
	leads []*models.Lead
}

func (n *recordingNotifier) LeadReady(_ context.Context, lead *models.Lead) error {
	n.leads = append(n.leads, lead)
	return nil
}

func (n *recordingNotifier) Close() error { return nil }

func testConfig() *config.Config {
	return &config.Config{
		StayNights:     3,
		PollInterval:   10 * time.Millisecond,
		MaxConcurrency: 2,
	}
}

func profileURL() string {
	return "https://www.airbnb.com.br/users/profile/777?previous_page_name=PdpHomeMarketplace"
}

func seedPending(t *testing.T, store storage.LeadStore, url string) *models.Lead {
	t.Helper()
	lead, _, err := store.Upsert(context.Background(), url, models.LeadUpdate{
		Title:        models.Str("Luxury Property"),
		Neighborhood: models.Str("Ipanema"),
	})
	require.NoError(t, err)
	return lead
}

func TestProcessPendingEnrichesLead(t *testing.T) {
	store := storage.NewMemory()
	seedPending(t, store, listingURL)

	fetcher := &mapFetcher{pages: map[string]string{
		listingURL:   listingHTML,
		profileURL(): profileHTML,
	}}
	notifier := &recordingNotifier{}
	w := New(store, fetcher, notifier, testConfig(), zerolog.Nop())

	require.NoError(t, w.ProcessPending(context.Background()))

	lead, err := store.GetByURL(context.Background(), listingURL)
	require.NoError(t, err)

	assert.Equal(t, models.StatusReady, lead.Status)
	assert.Equal(t, "Cobertura de Luxo Vista Mar", lead.Title)
	assert.Equal(t, "Maria Silva", lead.HostName)
	assert.Equal(t, 3000, lead.PricePerNight)
	assert.Equal(t, []string{"Mármore/Vidro", "Piscina/Jacuzzi", "Café Premium"}, lead.MaintenanceItems)
	assert.Contains(t, lead.Badges, "Superhost")
	assert.Contains(t, lead.CleanlinessGap, "poeira")
	assert.Equal(t, 12, lead.HostPortfolioSize)
	assert.Equal(t, "maria.reservas@gmail.com", lead.Email)
	assert.Equal(t, "21998887766", lead.Phone)
	assert.Equal(t, "https://www.casasluxorj.com.br", lead.Website)
	assert.Greater(t, lead.LuxScore, 20.0)

	require.Len(t, notifier.leads, 1)
	assert.Equal(t, lead.URL, notifier.leads[0].URL)
}

func TestProcessPendingIsolatesFailures(t *testing.T) {
	store := storage.NewMemory()
	badURL := "https://www.airbnb.com.br/rooms/999"
	seedPending(t, store, badURL)
	seedPending(t, store, listingURL)

	fetcher := &mapFetcher{
		pages: map[string]string{
			listingURL:   listingHTML,
			profileURL(): profileHTML,
		},
		errs: map[string]error{
			badURL: errs.Fetch("get", errors.New("boom")),
		},
	}
	w := New(store, fetcher, &notify.Noop{}, testConfig(), zerolog.Nop())

	require.NoError(t, w.ProcessPending(context.Background()))

	bad, err := store.GetByURL(context.Background(), badURL)
	require.NoError(t, err)
	assert.Equal(t, models.StatusError, bad.Status)

	good, err := store.GetByURL(context.Background(), listingURL)
	require.NoError(t, err)
	assert.Equal(t, models.StatusReady, good.Status, "one failure never stops the batch")
}

func TestProcessPendingAlwaysTerminates(t *testing.T) {
	store := storage.NewMemory()
	ctx := context.Background()

	urls := []string{
		"https://www.airbnb.com.br/rooms/1",
		"https://www.airbnb.com.br/rooms/2",
		listingURL,
	}
	for _, u := range urls {
		seedPending(t, store, u)
	}

	fetcher := &mapFetcher{
		pages: map[string]string{
			listingURL:   listingHTML,
			profileURL(): profileHTML,
		},
		errs: map[string]error{
			urls[0]: errs.Fetch("get", errors.New("boom")),
			urls[1]: errs.RateLimit("get", errors.New("429")),
		},
	}
	w := New(store, fetcher, &notify.Noop{}, testConfig(), zerolog.Nop())
	require.NoError(t, w.ProcessPending(ctx))

	for _, u := range urls {
		lead, err := store.GetByURL(ctx, u)
		require.NoError(t, err)
		terminal := lead.Status == models.StatusReady || lead.Status == models.StatusError
		assert.True(t, terminal, "lead %s ended in %s", u, lead.Status)
	}
}

func TestProcessPendingTolerersHostProfileFailure(t *testing.T) {
	store := storage.NewMemory()
	seedPending(t, store, listingURL)

	fetcher := &mapFetcher{
		pages: map[string]string{listingURL: listingHTML},
		errs: map[string]error{
			profileURL(): errs.Fetch("get", errors.New("profile down")),
		},
	}
	w := New(store, fetcher, &notify.Noop{}, testConfig(), zerolog.Nop())

	require.NoError(t, w.ProcessPending(context.Background()))

	lead, err := store.GetByURL(context.Background(), listingURL)
	require.NoError(t, err)
	assert.Equal(t, models.StatusReady, lead.Status, "profile fetch failure is not fatal")
	assert.Equal(t, "Maria Silva", lead.HostName)
	assert.Empty(t, lead.Email)
}

func TestSearchEscalation(t *testing.T) {
	store := storage.NewMemory()
	seedPending(t, store, listingURL)

	emptyProfile := `<html><body><div>1 anúncio</div></body></html>`
	searchResult := `<html><body>contato: maria.luxo@gmail.com</body></html>`

	fetcher := &mapFetcher{pages: map[string]string{
		listingURL:   listingHTML,
		profileURL(): emptyProfile,
	}}
	cfg := testConfig()
	cfg.SearchEnrichment = true
	w := New(store, fetcher, &notify.Noop{}, cfg, zerolog.Nop())

	fetcher.pages[`https://www.google.com/search?q="Maria+Silva"+contato+email+telefone+instagram+rio+de+janeiro`] = searchResult

	require.NoError(t, w.ProcessPending(context.Background()))

	lead, err := store.GetByURL(context.Background(), listingURL)
	require.NoError(t, err)
	assert.Equal(t, "maria.luxo@gmail.com", lead.Email)

	var searched bool
	for _, u := range fetcher.calls {
		if strings.Contains(u, "google.com/search") {
			searched = true
		}
	}
	assert.True(t, searched)
}

func TestWatchStopsOnCancel(t *testing.T) {
	store := storage.NewMemory()
	fetcher := &mapFetcher{pages: map[string]string{}}
	w := New(store, fetcher, &notify.Noop{}, testConfig(), zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	err := w.Watch(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRunPitches(t *testing.T) {
	store := storage.NewMemory()
	ctx := context.Background()

	ready, _, err := store.Upsert(ctx, listingURL, models.LeadUpdate{
		Title:            models.Str("Cobertura Vista Mar"),
		HostName:         models.Str("Maria"),
		MaintenanceItems: models.Strs([]string{"Piscina/Jacuzzi"}),
	})
	require.NoError(t, err)
	require.NoError(t, store.SetStatus(ctx, ready.ID, models.StatusReady))

	pending := seedPending(t, store, "https://www.airbnb.com.br/rooms/2")

	w := New(store, &mapFetcher{}, &notify.Noop{}, testConfig(), zerolog.Nop())
	gen := pitch.NewGenerator(nil, 1, time.Millisecond, zerolog.Nop())
	require.NoError(t, w.RunPitches(ctx, gen))

	got, err := store.GetByURL(ctx, listingURL)
	require.NoError(t, err)
	assert.Contains(t, got.Pitch, "Olá Maria!")
	assert.Contains(t, got.Pitch, "piscina/jacuzzi")

	untouched, err := store.GetByURL(ctx, pending.URL)
	require.NoError(t, err)
	assert.Empty(t, untouched.Pitch, "pending leads are skipped")

	// A second pass leaves existing pitches alone.
	require.NoError(t, w.RunPitches(ctx, gen))
	again, err := store.GetByURL(ctx, listingURL)
	require.NoError(t, err)
	assert.Equal(t, got.Pitch, again.Pitch)
}
