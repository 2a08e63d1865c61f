// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package mapbox implements the Mapbox Geocoding API provider adapter.
package mapbox

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/language"

	"github.com/wneessen/go-revgeo/internal/geocode"
	"github.com/wneessen/go-revgeo/internal/http"
)

const (
	APIEndpoint = "https://api.mapbox.com/geocoding/v5/mapbox.places"
	name        = "mapbox"
)

type Mapbox struct {
	token string
	http  *http.Client
}

type Response struct {
	Features []Feature `json:"features"`
}

type Feature struct {
	PlaceName  string     `json:"place_name"`
	Center     []float64  `json:"center"` // [lon, lat]
	Properties Properties `json:"properties"`
	Context    []Context  `json:"context"`
}

type Properties struct {
	Address string `json:"address"`
}

type Context struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	ShortCode string `json:"short_code"`
}

func New(client *http.Client, token string) *Mapbox {
	return &Mapbox{
		token: token,
		http:  client,
	}
}

func (m *Mapbox) Name() string {
	return name
}

func (m *Mapbox) Reverse(ctx context.Context, lat, lon float64, lang language.Tag) (geocode.Address, error) {
	var response Response

	// Mapbox uses lon,lat order in the request path
	endpoint := fmt.Sprintf("%s/%.6f,%.6f.json", APIEndpoint, lon, lat)
	query := url.Values{}
	query.Set("access_token", m.token)
	query.Set("language", lang.String())
	query.Set("limit", "1")

	if _, err := m.http.Get(ctx, endpoint, &response, query, nil); err != nil {
		return geocode.Address{}, geocode.FailureFromHTTP(name, err)
	}
	if len(response.Features) == 0 {
		return geocode.Address{}, geocode.NewFailure(name, geocode.FailureNotFound,
			errors.New("no features found for coordinates"))
	}

	// Fill the geocode.Address struct. Mapbox carries the address hierarchy in
	// the context array of the first feature.
	feature := response.Features[0]
	address := geocode.Address{
		FormattedAddress: feature.PlaceName,
		Street:           feature.Properties.Address,
		Source:           name,
	}
	if len(feature.Center) == 2 {
		address.Longitude = feature.Center[0]
		address.Latitude = feature.Center[1]
	}
	for _, item := range feature.Context {
		switch {
		case strings.HasPrefix(item.ID, "neighborhood"):
			address.Suburb = item.Text
		case strings.HasPrefix(item.ID, "place"):
			address.City = item.Text
		case strings.HasPrefix(item.ID, "region"):
			address.State = item.Text
		case strings.HasPrefix(item.ID, "postcode"):
			address.Postcode = item.Text
		case strings.HasPrefix(item.ID, "country"):
			address.Country = item.Text
			address.CountryCode = strings.ToUpper(item.ShortCode)
		}
	}

	return address, nil
}
