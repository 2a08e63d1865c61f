// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package geocode provides the reverse geocoding core: the shared address model,
// the provider contract, coordinate validation, the bounded TTL cache and the
// cache-aside resolver with ordered provider fallback.
package geocode

import (
	"context"

	"golang.org/x/text/language"
)

// Coordinate is a latitude/longitude pair as received from a client.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Address is the provider-independent reverse geocoding result.
type Address struct {
	FormattedAddress string  `json:"formattedAddress"`
	Street           string  `json:"street,omitempty"`
	HouseNumber      string  `json:"houseNumber,omitempty"`
	Suburb           string  `json:"suburb,omitempty"`
	City             string  `json:"city,omitempty"`
	State            string  `json:"state,omitempty"`
	Postcode         string  `json:"postcode,omitempty"`
	Country          string  `json:"country,omitempty"`
	CountryCode      string  `json:"countryCode,omitempty"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`

	// Source is the name of the provider that resolved the address
	Source string `json:"source"`
	// CacheHit is set when the address was served from the cache
	CacheHit bool `json:"-"`
}

// Geocoder is the uniform contract every provider adapter implements. Expected
// failure modes (timeout, rate limit, no result, malformed response, unreachable
// backend) are reported as *Failure values.
type Geocoder interface {
	Name() string
	Reverse(ctx context.Context, lat, lon float64, lang language.Tag) (Address, error)
}
