package fetch

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"luxo-leads/errs"
	"luxo-leads/services/cache"
)

// Fetcher retrieves the rendered HTML of a page. Implementations are the
// browser-backed fetcher and the plain HTTP one.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (string, error)
}

// Guarded wraps a Fetcher with a per-host block cache. When a source
// rate-limits us, a block key is set with a TTL and every fetch against
// that host short-circuits until it expires.
type Guarded struct {
	inner    Fetcher
	cache    cache.Service
	blockTTL time.Duration
}

func NewGuarded(inner Fetcher, c cache.Service, blockTTL time.Duration) *Guarded {
	return &Guarded{inner: inner, cache: c, blockTTL: blockTTL}
}

func (g *Guarded) Fetch(ctx context.Context, pageURL string) (string, error) {
	key := blockKey(pageURL)
	if _, err := g.cache.Get(key); err == nil {
		return "", errs.RateLimit("fetch", fmt.Errorf("host blocked, waiting out cooldown"))
	}

	html, err := g.inner.Fetch(ctx, pageURL)
	if err != nil {
		if errs.IsRateLimit(err) {
			if serr := g.cache.Set(key, []byte("1"), g.blockTTL); serr != nil {
				return "", err
			}
		}
		return "", err
	}
	return html, nil
}

func blockKey(pageURL string) string {
	host := pageURL
	if u, err := url.Parse(pageURL); err == nil && u.Host != "" {
		host = u.Host
	}
	return "fetch_block:" + host
}
