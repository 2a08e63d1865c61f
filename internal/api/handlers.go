// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wneessen/go-revgeo/internal/geocode"
	"github.com/wneessen/go-revgeo/internal/logger"
)

type reverseRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
	Language  string   `json:"language"`
}

type batchLocation struct {
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
}

type batchRequest struct {
	Locations []batchLocation `json:"locations" binding:"required,dive"`
	Language  string          `json:"language"`
}

type locationResponse struct {
	Success     bool                `json:"success"`
	Data        *locationData       `json:"data,omitempty"`
	Error       *apiError           `json:"error,omitempty"`
	Coordinates *geocode.Coordinate `json:"coordinates,omitempty"`
	Timestamp   time.Time           `json:"timestamp"`
}

type locationData struct {
	Address  geocode.Address `json:"address"`
	Metadata metadata        `json:"metadata"`
}

type metadata struct {
	Source string `json:"source"`
	Cached bool   `json:"cached"`
}

type apiError struct {
	Code     string            `json:"code"`
	Message  string            `json:"message"`
	Failures []providerFailure `json:"failures,omitempty"`
}

type providerFailure struct {
	Provider string `json:"provider"`
	Kind     string `json:"kind"`
	Message  string `json:"message"`
}

type batchResponse struct {
	Success            bool               `json:"success"`
	TotalRequests      int                `json:"total_requests"`
	SuccessfulRequests int                `json:"successful_requests"`
	Results            []locationResponse `json:"results"`
	Timestamp          time.Time          `json:"timestamp"`
}

func (s *Server) handleReverse(c *gin.Context) {
	var req reverseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, locationResponse{
			Error:     &apiError{Code: "INVALID_REQUEST", Message: err.Error()},
			Timestamp: time.Now().UTC(),
		})
		return
	}

	coord := geocode.Coordinate{Latitude: *req.Latitude, Longitude: *req.Longitude}
	addr, err := s.resolver.Reverse(c.Request.Context(), coord.Latitude, coord.Longitude, req.Language)
	if err != nil {
		s.logger.Warn("reverse geocoding failed", "lat", coord.Latitude, "lon", coord.Longitude,
			logger.Err(err))
		status, resp := errorResponse(coord, err)
		c.JSON(status, resp)
		return
	}

	c.JSON(http.StatusOK, successResponse(coord, addr))
}

func (s *Server) handleReverseBatch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, locationResponse{
			Error:     &apiError{Code: "INVALID_REQUEST", Message: err.Error()},
			Timestamp: time.Now().UTC(),
		})
		return
	}
	if len(req.Locations) == 0 {
		c.JSON(http.StatusBadRequest, locationResponse{
			Error:     &apiError{Code: "INVALID_REQUEST", Message: "locations must not be empty"},
			Timestamp: time.Now().UTC(),
		})
		return
	}
	if len(req.Locations) > s.batchMax {
		c.JSON(http.StatusBadRequest, locationResponse{
			Error: &apiError{
				Code:    "BATCH_TOO_LARGE",
				Message: fmt.Sprintf("batch size cannot exceed %d locations", s.batchMax),
			},
			Timestamp: time.Now().UTC(),
		})
		return
	}

	coords := make([]geocode.Coordinate, 0, len(req.Locations))
	for _, loc := range req.Locations {
		coords = append(coords, geocode.Coordinate{Latitude: *loc.Latitude, Longitude: *loc.Longitude})
	}

	outcomes := s.resolver.ReverseBatch(c.Request.Context(), coords, req.Language)
	results := make([]locationResponse, 0, len(outcomes))
	successful := 0
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			_, resp := errorResponse(outcome.Coordinate, outcome.Err)
			results = append(results, resp)
			continue
		}
		successful++
		results = append(results, successResponse(outcome.Coordinate, outcome.Address))
	}

	c.JSON(http.StatusOK, batchResponse{
		Success:            true,
		TotalRequests:      len(req.Locations),
		SuccessfulRequests: successful,
		Results:            results,
		Timestamp:          time.Now().UTC(),
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"services": gin.H{
			"cache":     fmt.Sprintf("up (%d entries)", s.cache.Len()),
			"providers": s.resolver.Chain(),
		},
	})
}

func successResponse(coord geocode.Coordinate, addr geocode.Address) locationResponse {
	return locationResponse{
		Success: true,
		Data: &locationData{
			Address: addr,
			Metadata: metadata{
				Source: addr.Source,
				Cached: addr.CacheHit,
			},
		},
		Coordinates: &coord,
		Timestamp:   time.Now().UTC(),
	}
}

func errorResponse(coord geocode.Coordinate, err error) (int, locationResponse) {
	resp := locationResponse{
		Coordinates: &coord,
		Timestamp:   time.Now().UTC(),
	}

	var exhausted *geocode.ExhaustedError
	switch {
	case geocode.IsValidationError(err):
		resp.Error = &apiError{Code: "INVALID_COORDINATES", Message: err.Error()}
		return http.StatusBadRequest, resp
	case errors.As(err, &exhausted):
		failures := make([]providerFailure, 0, len(exhausted.Failures))
		for _, f := range exhausted.Failures {
			message := ""
			if f.Err != nil {
				message = f.Err.Error()
			}
			failures = append(failures, providerFailure{
				Provider: f.Provider,
				Kind:     string(f.Kind),
				Message:  message,
			})
		}
		resp.Error = &apiError{
			Code:     "GEOCODING_FAILED",
			Message:  "all geocoding services failed",
			Failures: failures,
		}
		return http.StatusBadGateway, resp
	default:
		resp.Error = &apiError{Code: "INTERNAL_ERROR", Message: "failed to process location request"}
		return http.StatusInternalServerError, resp
	}
}
