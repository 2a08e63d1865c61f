// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geocode

import (
	"errors"
	"math"

	"golang.org/x/text/language"
)

var (
	ErrNotFinite      = errors.New("coordinates must be finite numbers")
	ErrLatitudeRange  = errors.New("latitude must be between -90 and 90 degrees")
	ErrLongitudeRange = errors.New("longitude must be between -180 and 180 degrees")
)

// ValidateCoordinates checks that the given latitude/longitude pair is finite
// and within range. It has no side effects.
func ValidateCoordinates(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return ErrNotFinite
	}
	if lat < -90 || lat > 90 {
		return ErrLatitudeRange
	}
	if lon < -180 || lon > 180 {
		return ErrLongitudeRange
	}
	return nil
}

// IsValidationError reports whether err is a coordinate validation failure.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrNotFinite) || errors.Is(err, ErrLatitudeRange) || errors.Is(err, ErrLongitudeRange)
}

// NormalizeLanguage maps a raw language tag onto the closest supported tag. Empty,
// unparsable or unsupported tags fall back to the default tag.
func NormalizeLanguage(raw string, matcher language.Matcher, supported []language.Tag, fallback language.Tag) language.Tag {
	if raw == "" {
		return fallback
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return fallback
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return fallback
	}
	return supported[idx]
}
