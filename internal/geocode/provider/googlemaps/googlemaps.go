// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package googlemaps implements the Google Maps Geocoding API provider adapter.
package googlemaps

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"

	"golang.org/x/text/language"

	"github.com/wneessen/go-revgeo/internal/geocode"
	"github.com/wneessen/go-revgeo/internal/http"
)

const (
	APIEndpoint = "https://maps.googleapis.com/maps/api/geocode/json"
	name        = "google-maps"
)

type GoogleMaps struct {
	apikey string
	http   *http.Client
}

type Response struct {
	Status       string   `json:"status"`
	ErrorMessage string   `json:"error_message"`
	Results      []Result `json:"results"`
}

type Result struct {
	FormattedAddress  string      `json:"formatted_address"`
	AddressComponents []Component `json:"address_components"`
	Geometry          Geometry    `json:"geometry"`
}

type Component struct {
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name"`
	Types     []string `json:"types"`
}

type Geometry struct {
	Location Location `json:"location"`
}

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func New(client *http.Client, apikey string) *GoogleMaps {
	return &GoogleMaps{
		apikey: apikey,
		http:   client,
	}
}

func (g *GoogleMaps) Name() string {
	return name
}

func (g *GoogleMaps) Reverse(ctx context.Context, lat, lon float64, lang language.Tag) (geocode.Address, error) {
	var response Response

	query := url.Values{}
	query.Set("latlng", fmt.Sprintf("%f,%f", lat, lon))
	query.Set("key", g.apikey)
	query.Set("language", lang.String())

	if _, err := g.http.Get(ctx, APIEndpoint, &response, query, nil); err != nil {
		return geocode.Address{}, geocode.FailureFromHTTP(name, err)
	}

	// Google reports API-level errors in the status field of a 200 response
	switch response.Status {
	case "OK":
	case "ZERO_RESULTS":
		return geocode.Address{}, geocode.NewFailure(name, geocode.FailureNotFound,
			errors.New("no address found for coordinates"))
	case "OVER_QUERY_LIMIT", "OVER_DAILY_LIMIT", "RESOURCE_EXHAUSTED":
		return geocode.Address{}, geocode.NewFailure(name, geocode.FailureRateLimited,
			fmt.Errorf("query limit exceeded: %s", response.ErrorMessage))
	case "UNKNOWN_ERROR":
		return geocode.Address{}, geocode.NewFailure(name, geocode.FailureUnreachable,
			fmt.Errorf("backend error: %s", response.ErrorMessage))
	default:
		return geocode.Address{}, geocode.NewFailure(name, geocode.FailureMalformedResponse,
			fmt.Errorf("unexpected API status %q: %s", response.Status, response.ErrorMessage))
	}
	if len(response.Results) == 0 {
		return geocode.Address{}, geocode.NewFailure(name, geocode.FailureMalformedResponse,
			errors.New("status OK but no results in response"))
	}

	// Fill the geocode.Address struct
	result := response.Results[0]
	address := geocode.Address{
		FormattedAddress: result.FormattedAddress,
		Latitude:         result.Geometry.Location.Lat,
		Longitude:        result.Geometry.Location.Lng,
		Source:           name,
	}
	for _, component := range result.AddressComponents {
		switch {
		case slices.Contains(component.Types, "street_number"):
			address.HouseNumber = component.LongName
		case slices.Contains(component.Types, "route"):
			address.Street = component.LongName
		case slices.Contains(component.Types, "sublocality_level_1"), slices.Contains(component.Types, "sublocality"):
			address.Suburb = component.LongName
		case slices.Contains(component.Types, "locality"):
			address.City = component.LongName
		case slices.Contains(component.Types, "administrative_area_level_1"):
			address.State = component.LongName
		case slices.Contains(component.Types, "country"):
			address.Country = component.LongName
			address.CountryCode = component.ShortName
		case slices.Contains(component.Types, "postal_code"):
			address.Postcode = component.LongName
		}
	}

	return address, nil
}
