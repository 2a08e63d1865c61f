// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geocode

import (
	"errors"
	"math"
	"testing"

	"golang.org/x/text/language"
)

func TestValidateCoordinates(t *testing.T) {
	t.Run("valid coordinates pass", func(t *testing.T) {
		tests := []struct {
			name string
			lat  float64
			lon  float64
		}{
			{"new york", 40.7128, -74.0060},
			{"null island", 0, 0},
			{"south pole", -90, 0},
			{"north pole", 90, 0},
			{"date line west", 0, -180},
			{"date line east", 0, 180},
		}
		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				if err := ValidateCoordinates(tc.lat, tc.lon); err != nil {
					t.Errorf("expected coordinates to be valid, got %s", err)
				}
			})
		}
	})
	t.Run("out of range latitude fails", func(t *testing.T) {
		if err := ValidateCoordinates(90.0001, 0); !errors.Is(err, ErrLatitudeRange) {
			t.Errorf("expected ErrLatitudeRange, got %s", err)
		}
		if err := ValidateCoordinates(-91, 0); !errors.Is(err, ErrLatitudeRange) {
			t.Errorf("expected ErrLatitudeRange, got %s", err)
		}
	})
	t.Run("out of range longitude fails", func(t *testing.T) {
		if err := ValidateCoordinates(0, 180.5); !errors.Is(err, ErrLongitudeRange) {
			t.Errorf("expected ErrLongitudeRange, got %s", err)
		}
		if err := ValidateCoordinates(0, -200); !errors.Is(err, ErrLongitudeRange) {
			t.Errorf("expected ErrLongitudeRange, got %s", err)
		}
	})
	t.Run("non-finite values fail", func(t *testing.T) {
		if err := ValidateCoordinates(math.NaN(), 0); !errors.Is(err, ErrNotFinite) {
			t.Errorf("expected ErrNotFinite, got %s", err)
		}
		if err := ValidateCoordinates(0, math.Inf(1)); !errors.Is(err, ErrNotFinite) {
			t.Errorf("expected ErrNotFinite, got %s", err)
		}
	})
	t.Run("validation errors are recognized", func(t *testing.T) {
		if !IsValidationError(ErrLatitudeRange) {
			t.Error("expected ErrLatitudeRange to be a validation error")
		}
		if IsValidationError(errors.New("some other error")) {
			t.Error("did not expect a generic error to be a validation error")
		}
	})
}

func TestNormalizeLanguage(t *testing.T) {
	supported := []language.Tag{language.English, language.German, language.French}
	matcher := language.NewMatcher(supported)

	tests := []struct {
		name string
		raw  string
		want language.Tag
	}{
		{"empty tag falls back to default", "", language.English},
		{"exact supported tag", "de", language.German},
		{"regional variant maps to base", "de-AT", language.German},
		{"unsupported tag falls back to default", "ja", language.English},
		{"unparsable tag falls back to default", "not a language!", language.English},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeLanguage(tc.raw, matcher, supported, language.English)
			if got != tc.want {
				t.Errorf("expected language to be %s, got %s", tc.want, got)
			}
		})
	}
}
