// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package api exposes the inbound HTTP endpoints of the service.
package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wneessen/go-revgeo/internal/config"
	"github.com/wneessen/go-revgeo/internal/geocode"
	"github.com/wneessen/go-revgeo/internal/logger"
)

// Server wraps the gin router and the underlying HTTP server.
type Server struct {
	httpServer *http.Server
	resolver   *geocode.Resolver
	cache      *geocode.Cache
	batchMax   int
	logger     *logger.Logger
}

// NewServer creates the HTTP server with the reverse geocoding, health and
// metrics routes.
func NewServer(conf *config.Config, resolver *geocode.Resolver, cache *geocode.Cache,
	registry *prometheus.Registry, log *logger.Logger,
) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		resolver: resolver,
		cache:    cache,
		batchMax: conf.Batch.MaxSize,
		logger:   log,
	}

	v1 := router.Group("/api/v1/location")
	v1.POST("/reverse", s.handleReverse)
	v1.POST("/reverse/batch", s.handleReverseBatch)

	router.GET("/healthz", s.handleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	s.httpServer = &http.Server{
		Addr:         conf.Listen,
		Handler:      router,
		ReadTimeout:  conf.HTTP.ReadTimeout,
		WriteTimeout: conf.HTTP.WriteTimeout,
		IdleTimeout:  conf.HTTP.IdleTimeout,
	}

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
