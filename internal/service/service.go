// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package service wires the configuration, provider chain, cache, resolver and
// HTTP server together and owns their lifecycle.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	stdhttp "net/http"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/wneessen/go-revgeo/internal/api"
	"github.com/wneessen/go-revgeo/internal/config"
	"github.com/wneessen/go-revgeo/internal/geocode"
	"github.com/wneessen/go-revgeo/internal/geocode/provider/googlemaps"
	"github.com/wneessen/go-revgeo/internal/geocode/provider/mapbox"
	nominatim "github.com/wneessen/go-revgeo/internal/geocode/provider/osm-nominatim"
	"github.com/wneessen/go-revgeo/internal/http"
	"github.com/wneessen/go-revgeo/internal/logger"
	"github.com/wneessen/go-revgeo/internal/metrics"
)

type Service struct {
	config    *config.Config
	logger    *logger.Logger
	cache     *geocode.Cache
	resolver  *geocode.Resolver
	metrics   *metrics.Metrics
	server    *api.Server
	scheduler gocron.Scheduler
}

// New constructs the full service from the given configuration. The provider
// chain is fixed here: paid providers join only when their credential is
// configured, Nominatim is always the last resort.
func New(conf *config.Config, log *logger.Logger) (*Service, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	registry := prometheus.NewRegistry()
	met := metrics.New(registry)

	httpClient := http.New(log)
	chain := buildChain(conf, httpClient)
	met.ActiveProviders.Set(float64(len(chain)))

	cache := geocode.NewCache(conf.Cache.TTL, conf.Cache.MaxEntries, conf.Cache.Precision)
	resolver := geocode.NewResolver(cache, chain, geocode.ResolverConfig{
		Timeout:   conf.Providers.Timeout,
		Cooldown:  conf.Providers.Cooldown,
		Supported: conf.SupportedTags(),
		Default:   conf.DefaultTag(),
	}, log, met)

	service := &Service{
		config:    conf,
		logger:    log,
		cache:     cache,
		resolver:  resolver,
		metrics:   met,
		server:    api.NewServer(conf, resolver, cache, registry, log),
		scheduler: scheduler,
	}
	return service, nil
}

func buildChain(conf *config.Config, client *http.Client) []geocode.Geocoder {
	var chain []geocode.Geocoder
	if conf.Providers.GoogleMapsAPIKey != "" {
		chain = append(chain, googlemaps.New(client, conf.Providers.GoogleMapsAPIKey))
	}
	if conf.Providers.MapboxAccessToken != "" {
		chain = append(chain, mapbox.New(client, conf.Providers.MapboxAccessToken))
	}
	chain = append(chain, nominatim.New(client))
	return chain
}

// Run starts the cache sweep job and the HTTP server and blocks until the
// context is cancelled or the server fails.
func (s *Service) Run(ctx context.Context) error {
	if _, err := s.scheduler.NewJob(gocron.DurationJob(s.config.Cache.SweepInterval),
		gocron.NewTask(s.sweepCache),
		gocron.WithContext(ctx),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName("cache_sweep_job"),
	); err != nil {
		return fmt.Errorf("failed to create cache sweep job: %w", err)
	}
	s.scheduler.Start()

	s.logger.Info("starting reverse geocoding service",
		slog.String("listen", s.config.Listen),
		slog.Any("providers", s.resolver.Chain()))

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.Start(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		_ = s.scheduler.Shutdown()
		return fmt.Errorf("http server failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.HTTP.ShutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("failed to shut down http server", logger.Err(err))
	}
	return s.scheduler.Shutdown()
}

// ServeHTTP delegates to the API server, useful for testing.
func (s *Service) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	s.server.ServeHTTP(w, r)
}

func (s *Service) sweepCache(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	removed := s.cache.Sweep()
	s.metrics.CacheEntries.Set(float64(s.cache.Len()))
	if removed > 0 {
		s.logger.Debug("cache sweep completed", slog.Int("removed", removed),
			slog.Duration("duration", time.Since(start)))
	}
}
