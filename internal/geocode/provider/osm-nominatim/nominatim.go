// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package nominatim implements the OSM Nominatim provider adapter. Nominatim is
// the free fallback backend and is always the last element of the provider
// chain. Its usage policy allows at most one request per second, which the
// adapter enforces client-side.
package nominatim

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/time/rate"

	"github.com/wneessen/go-revgeo/internal/geocode"
	"github.com/wneessen/go-revgeo/internal/http"
)

const (
	APIReverseEndpoint = "https://nominatim.openstreetmap.org/reverse"
	name               = "osm-nominatim"
)

type Nominatim struct {
	http    *http.Client
	limiter *rate.Limiter
}

type ReverseResult struct {
	APIError    string  `json:"error"`
	APILat      string  `json:"lat"`
	APILon      string  `json:"lon"`
	DisplayName string  `json:"display_name"`
	Address     Address `json:"address"`
}

type Address struct {
	HouseNumber  string `json:"house_number"`
	Road         string `json:"road"`
	Suburb       string `json:"suburb"`
	Municipality string `json:"municipality"`
	CityDistrict string `json:"city_district"`
	City         string `json:"city"`
	Town         string `json:"town"`
	Village      string `json:"village"`
	State        string `json:"state"`
	Postcode     string `json:"postcode"`
	Country      string `json:"country"`
	CountryCode  string `json:"country_code"`
}

func New(client *http.Client) *Nominatim {
	return &Nominatim{
		http:    client,
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

func (n *Nominatim) Name() string {
	return name
}

func (n *Nominatim) Reverse(ctx context.Context, lat, lon float64, lang language.Tag) (geocode.Address, error) {
	if err := n.limiter.Wait(ctx); err != nil {
		return geocode.Address{}, geocode.NewFailure(name, geocode.FailureTimeout,
			fmt.Errorf("request rate limiter: %w", err))
	}

	var result ReverseResult

	query := url.Values{}
	query.Set("format", "jsonv2")
	query.Set("lat", fmt.Sprintf("%f", lat))
	query.Set("lon", fmt.Sprintf("%f", lon))
	query.Set("addressdetails", "1")
	query.Set("accept-language", lang.String())

	if _, err := n.http.Get(ctx, APIReverseEndpoint, &result, query, nil); err != nil {
		return geocode.Address{}, geocode.FailureFromHTTP(name, err)
	}
	// Nominatim reports "Unable to geocode" in a 200 response
	if result.APIError != "" {
		return geocode.Address{}, geocode.NewFailure(name, geocode.FailureNotFound,
			errors.New(result.APIError))
	}

	// Fill the geocode.Address struct
	address := geocode.Address{
		FormattedAddress: result.DisplayName,
		Street:           result.Address.Road,
		HouseNumber:      result.Address.HouseNumber,
		Suburb:           result.Address.Suburb,
		City:             result.Address.City,
		State:            result.Address.State,
		Postcode:         result.Address.Postcode,
		Country:          result.Address.Country,
		CountryCode:      strings.ToUpper(result.Address.CountryCode),
		Source:           name,
	}
	if result.Address.City == "" && result.Address.Town != "" {
		address.City = result.Address.Town
	}
	if result.Address.City == "" && result.Address.Town == "" && result.Address.Village != "" {
		address.City = result.Address.Village
	}

	var err error
	address.Latitude, err = strconv.ParseFloat(result.APILat, 64)
	if err != nil {
		return geocode.Address{}, geocode.NewFailure(name, geocode.FailureMalformedResponse,
			fmt.Errorf("failed to parse latitude from Nominatim API response: %w", err))
	}
	address.Longitude, err = strconv.ParseFloat(result.APILon, 64)
	if err != nil {
		return geocode.Address{}, geocode.NewFailure(name, geocode.FailureMalformedResponse,
			fmt.Errorf("failed to parse longitude from Nominatim API response: %w", err))
	}

	return address, nil
}
