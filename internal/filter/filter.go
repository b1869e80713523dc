// Package filter narrows a listing collection by the criteria of the
// listings search panel. Everything here is a pure function of its input.
package filter

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"realestatecrm/internal/common"
	"realestatecrm/internal/models"
)

// Spec holds the optional listing criteria. Criteria are ANDed; a zero
// value matches every listing.
type Spec struct {
	Search   string
	City     string
	MinPrice *float64
	MaxPrice *float64
	MinArea  *float64
	MaxArea  *float64
	Status   models.ListingStatus
}

// IsEmpty reports whether the spec has no criterion set.
func (s Spec) IsEmpty() bool {
	return strings.TrimSpace(s.Search) == "" &&
		strings.TrimSpace(s.City) == "" &&
		s.MinPrice == nil && s.MaxPrice == nil &&
		s.MinArea == nil && s.MaxArea == nil &&
		s.Status == ""
}

// Validate rejects negative bounds and inverted ranges.
func (s Spec) Validate() error {
	bounds := []struct {
		name string
		v    *float64
	}{
		{"minPrice", s.MinPrice},
		{"maxPrice", s.MaxPrice},
		{"minArea", s.MinArea},
		{"maxArea", s.MaxArea},
	}
	for _, b := range bounds {
		if b.v != nil && *b.v < 0 {
			return common.NewValidationError(b.name, "must not be negative")
		}
	}
	if s.MinPrice != nil && s.MaxPrice != nil && *s.MinPrice > *s.MaxPrice {
		return common.NewValidationError("minPrice", "must not exceed maxPrice")
	}
	if s.MinArea != nil && s.MaxArea != nil && *s.MinArea > *s.MaxArea {
		return common.NewValidationError("minArea", "must not exceed maxArea")
	}
	if s.Status != "" && !s.Status.Valid() {
		return common.NewValidationError("status", fmt.Sprintf("unknown listing status %q", s.Status))
	}
	return nil
}

// Match reports whether l satisfies every criterion of s.
func (s Spec) Match(l models.Listing) bool {
	if q := strings.ToLower(strings.TrimSpace(s.Search)); q != "" {
		if !strings.Contains(strings.ToLower(l.Title), q) && !strings.Contains(strings.ToLower(l.Street), q) {
			return false
		}
	}
	if city := strings.ToLower(strings.TrimSpace(s.City)); city != "" {
		if !strings.Contains(strings.ToLower(l.City), city) {
			return false
		}
	}
	if !inRange(l.Price, s.MinPrice, s.MaxPrice) || !inRange(l.Area, s.MinArea, s.MaxArea) {
		return false
	}
	return s.Status == "" || l.Status == s.Status
}

func inRange(v float64, lo, hi *float64) bool {
	if lo != nil && v < *lo {
		return false
	}
	if hi != nil && v > *hi {
		return false
	}
	return true
}

// Apply returns the listings matching spec in their input order. The input
// slice is never modified; an empty spec returns it as is.
func Apply(listings []models.Listing, spec Spec) []models.Listing {
	if spec.IsEmpty() {
		return listings
	}
	out := make([]models.Listing, 0, len(listings))
	for _, l := range listings {
		if spec.Match(l) {
			out = append(out, l)
		}
	}
	return out
}

// ParseSpec builds a Spec from query parameters. get returns "" for absent
// keys, which is how fiber's Ctx.Query behaves.
func ParseSpec(get func(key string) string) (Spec, error) {
	spec := Spec{
		Search: strings.TrimSpace(get("search")),
		City:   strings.TrimSpace(get("city")),
	}

	var err error
	if spec.MinPrice, err = parseBound(get, "minPrice"); err != nil {
		return Spec{}, err
	}
	if spec.MaxPrice, err = parseBound(get, "maxPrice"); err != nil {
		return Spec{}, err
	}
	if spec.MinArea, err = parseBound(get, "minArea"); err != nil {
		return Spec{}, err
	}
	if spec.MaxArea, err = parseBound(get, "maxArea"); err != nil {
		return Spec{}, err
	}

	if raw := strings.TrimSpace(get("status")); raw != "" {
		if spec.Status, err = models.ParseListingStatus(raw); err != nil {
			return Spec{}, err
		}
	}

	if err := spec.Validate(); err != nil {
		return Spec{}, err
	}
	return spec, nil
}

func parseBound(get func(string) string, key string) (*float64, error) {
	raw := strings.TrimSpace(get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, common.NewValidationError(key, "must be a number")
	}
	return &v, nil
}
