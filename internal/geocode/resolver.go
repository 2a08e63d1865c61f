// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geocode

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/text/language"

	"github.com/wneessen/go-revgeo/internal/logger"
	"github.com/wneessen/go-revgeo/internal/metrics"
)

// ResolverConfig carries the resolution settings from the service configuration.
type ResolverConfig struct {
	// Timeout applies to every single provider call
	Timeout time.Duration
	// Cooldown is how long a rate-limited provider is skipped
	Cooldown time.Duration
	// Supported is the set of allowed response languages; Default is used for
	// empty, unparsable or unsupported language tags
	Supported []language.Tag
	Default   language.Tag
}

// Resolver implements the cache-aside reverse geocoding lookup with ordered
// provider fallback. It owns the only shared mutable state of the service: the
// address cache and the per-provider cooldown windows.
type Resolver struct {
	cache   *Cache
	chain   []Geocoder
	config  ResolverConfig
	matcher language.Matcher
	clock   clockwork.Clock
	logger  *logger.Logger
	metrics *metrics.Metrics

	cooldownMu    sync.Mutex
	cooldownUntil map[string]time.Time
}

// Outcome is the per-coordinate result of a batch resolution.
type Outcome struct {
	Coordinate Coordinate
	Address    Address
	Err        error
}

// NewResolver returns a new Resolver for the given cache and provider chain. The
// chain is attempted in slice order on every cache miss.
func NewResolver(cache *Cache, chain []Geocoder, conf ResolverConfig, log *logger.Logger, met *metrics.Metrics) *Resolver {
	return NewResolverWithClock(cache, chain, conf, log, met, clockwork.NewRealClock())
}

// NewResolverWithClock returns a new Resolver with an injectable clock for
// cooldown tests.
func NewResolverWithClock(cache *Cache, chain []Geocoder, conf ResolverConfig, log *logger.Logger,
	met *metrics.Metrics, clock clockwork.Clock,
) *Resolver {
	return &Resolver{
		cache:         cache,
		chain:         chain,
		config:        conf,
		matcher:       language.NewMatcher(conf.Supported),
		clock:         clock,
		logger:        log,
		metrics:       met,
		cooldownUntil: make(map[string]time.Time),
	}
}

// Chain returns the names of the active providers in attempt order.
func (r *Resolver) Chain() []string {
	names := make([]string, 0, len(r.chain))
	for _, coder := range r.chain {
		names = append(names, coder.Name())
	}
	return names
}

// Reverse resolves the given coordinates into an address. It validates the
// input, checks the cache and on a miss walks the provider chain in priority
// order until one provider succeeds. Successful resolutions are written back to
// the cache. If every provider fails, an *ExhaustedError carrying the ordered
// failure list is returned.
func (r *Resolver) Reverse(ctx context.Context, lat, lon float64, lang string) (Address, error) {
	if err := ValidateCoordinates(lat, lon); err != nil {
		r.metrics.Resolutions.WithLabelValues("validation_error").Inc()
		return Address{}, err
	}

	tag := NormalizeLanguage(lang, r.matcher, r.config.Supported, r.config.Default)
	langKey := tag.String()

	if addr, ok := r.cache.Get(lat, lon, langKey); ok {
		r.metrics.CacheLookups.WithLabelValues("hit").Inc()
		r.metrics.Resolutions.WithLabelValues("success").Inc()
		addr.CacheHit = true
		return addr, nil
	}
	r.metrics.CacheLookups.WithLabelValues("miss").Inc()

	failures := make([]*Failure, 0, len(r.chain))
	for _, coder := range r.chain {
		name := coder.Name()
		if until, cooling := r.onCooldown(name); cooling {
			r.metrics.ProviderRequests.WithLabelValues(name, "skipped").Inc()
			failures = append(failures, NewFailure(name, FailureRateLimited,
				fmt.Errorf("skipped: provider is cooling down until %s", until.Format(time.RFC3339))))
			continue
		}

		callCtx, cancel := context.WithTimeout(ctx, r.config.Timeout)
		start := r.clock.Now()
		addr, err := coder.Reverse(callCtx, lat, lon, tag)
		cancel()
		r.metrics.ProviderDuration.WithLabelValues(name).Observe(r.clock.Now().Sub(start).Seconds())

		if err != nil {
			failure := AsFailure(name, err)
			r.metrics.ProviderRequests.WithLabelValues(name, string(failure.Kind)).Inc()
			if failure.Kind == FailureRateLimited {
				r.startCooldown(name)
			}
			r.logger.Warn("geocoding provider failed", slog.String("provider", name),
				slog.String("kind", string(failure.Kind)), logger.Err(failure.Err))
			failures = append(failures, failure)
			continue
		}

		r.metrics.ProviderRequests.WithLabelValues(name, "success").Inc()
		r.metrics.Resolutions.WithLabelValues("success").Inc()
		r.cache.Put(lat, lon, langKey, addr)
		r.metrics.CacheEntries.Set(float64(r.cache.Len()))
		return addr, nil
	}

	r.metrics.Resolutions.WithLabelValues("exhausted").Inc()
	return Address{}, &ExhaustedError{Failures: failures}
}

// ReverseBatch resolves a sequence of coordinates independently. The result
// preserves input order and carries a per-coordinate outcome: one coordinate's
// failure never aborts the rest of the batch.
func (r *Resolver) ReverseBatch(ctx context.Context, coords []Coordinate, lang string) []Outcome {
	outcomes := make([]Outcome, 0, len(coords))
	for _, coord := range coords {
		addr, err := r.Reverse(ctx, coord.Latitude, coord.Longitude, lang)
		outcomes = append(outcomes, Outcome{Coordinate: coord, Address: addr, Err: err})
	}
	return outcomes
}

func (r *Resolver) onCooldown(name string) (time.Time, bool) {
	if r.config.Cooldown <= 0 {
		return time.Time{}, false
	}

	r.cooldownMu.Lock()
	defer r.cooldownMu.Unlock()

	until, ok := r.cooldownUntil[name]
	if !ok {
		return time.Time{}, false
	}
	if r.clock.Now().After(until) {
		delete(r.cooldownUntil, name)
		return time.Time{}, false
	}
	return until, true
}

func (r *Resolver) startCooldown(name string) {
	if r.config.Cooldown <= 0 {
		return
	}

	r.cooldownMu.Lock()
	defer r.cooldownMu.Unlock()
	r.cooldownUntil[name] = r.clock.Now().Add(r.config.Cooldown)
}
