package kernel

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const (
	// LatitudeMin is the smallest valid latitude in degrees.
	LatitudeMin = -90.0
	// LatitudeMax is the largest valid latitude in degrees.
	LatitudeMax = 90.0
	// LongitudeMin is the smallest valid longitude in degrees.
	LongitudeMin = -180.0
	// LongitudeMax is the largest valid longitude in degrees.
	LongitudeMax = 180.0
)

// ErrGeoPointIsNotConstructed is returned when a GeoPoint was not built with NewGeoPoint.
var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError("geo point must be created via NewGeoPoint constructor")

// GeoPoint is a (latitude, longitude) pair on the globe.
//
// Both coordinates keep the decimal text they were parsed from, because the
// routing service receives them exactly as the client sent them. The zero value
// is invalid; use NewGeoPoint.
//
// Example:
//
//	taipei, err := kernel.NewGeoPoint("25.0330", "121.5654")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(taipei) // 25.0330,121.5654
type GeoPoint struct { //nolint:recvcheck //using for validation
	latitude  string
	longitude string
	guard     guard.ConstructorGuard
}

// NewGeoPoint parses both coordinates and checks their ranges:
// latitude must lie in [LatitudeMin, LatitudeMax], longitude in [LongitudeMin, LongitudeMax].
// Surrounding whitespace is ignored. All violations are reported together.
func NewGeoPoint(latitude, longitude string) (GeoPoint, error) {
	p := GeoPoint{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(p.setLatitude(latitude), p.setLongitude(longitude)); err != nil {
		return GeoPoint{}, err
	}

	return p, nil
}

// Validate checks that the point was created through NewGeoPoint.
func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

// Latitude returns the latitude as it was supplied.
func (p GeoPoint) Latitude() string {
	return p.latitude
}

// Longitude returns the longitude as it was supplied.
func (p GeoPoint) Longitude() string {
	return p.longitude
}

// String returns "latitude,longitude", the form routing services accept.
func (p GeoPoint) String() string {
	return p.latitude + "," + p.longitude
}

// IsEqual reports whether both points carry the same coordinates.
// Both points must be valid.
func (p GeoPoint) IsEqual(other GeoPoint) (bool, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return false, err
	}

	return p.latitude == other.latitude && p.longitude == other.longitude, nil
}

func (p *GeoPoint) setLatitude(latitude string) error {
	value, err := parseDegrees("latitude", latitude, LatitudeMin, LatitudeMax)
	if err != nil {
		return err
	}

	p.latitude = value
	return nil
}

func (p *GeoPoint) setLongitude(longitude string) error {
	value, err := parseDegrees("longitude", longitude, LongitudeMin, LongitudeMax)
	if err != nil {
		return err
	}

	p.longitude = value
	return nil
}

var decimalPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// IsDecimal reports whether s is a plain base-10 number, optionally signed and
// with an exponent. Hex floats, digit separators, NaN and Inf are not decimals.
func IsDecimal(s string) bool {
	return decimalPattern.MatchString(s)
}

// parseDegrees returns the trimmed input if it is a finite decimal within [lowerBound, upperBound].
func parseDegrees(name, raw string, lowerBound, upperBound float64) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", errs.NewValueIsRequiredError(name)
	}

	if !IsDecimal(trimmed) {
		return "", errs.NewValueIsInvalidErrorWithCause(name, fmt.Errorf("%q is not a decimal number", raw))
	}
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return "", errs.NewValueIsInvalidErrorWithCause(name, fmt.Errorf("%q is not a decimal number", raw))
	}
	if math.IsNaN(value) || value < lowerBound || value > upperBound {
		return "", errs.NewValueIsOutOfRangeError(name, trimmed, lowerBound, upperBound)
	}

	return trimmed, nil
}
