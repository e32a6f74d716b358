package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/yutaicat/internal/catalog"
)

// TimestampLayout is used for defaulted store timestamps.
const TimestampLayout = time.RFC3339Nano

var validate = validator.New(validator.WithRequiredStructEnabled())

// FieldError reports a field that could not be converted to its typed form.
type FieldError struct {
	Kind  string // "store"
	ID    string
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %q: invalid %s %q: %v", e.Kind, e.ID, e.Field, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Complete reports whether a raw record carries all its identifying fields.
func Complete(raw any) bool {
	return validate.Struct(raw) == nil
}

// SplitList splits a comma-joined column. The result is never nil.
func SplitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, Text(part))
	}
	return out
}

// Chain converts a raw chains row. An empty category becomes
// catalog.CategoryUncategorized.
func Chain(raw catalog.RawChain) (catalog.Chain, bool) {
	if !Complete(raw) {
		return catalog.Chain{}, false
	}

	category := Text(raw.Category)
	if category == "" {
		category = catalog.CategoryUncategorized
	}

	return catalog.Chain{
		ID:           Text(raw.ID),
		DisplayName:  Text(raw.DisplayName),
		Category:     category,
		CompanyIDs:   SplitList(raw.CompanyIDs),
		VoucherTypes: SplitList(raw.VoucherTypes),
		Tags:         SplitList(raw.Tags),
		URL:          catalog.OptionalString(Text(raw.URL)),
	}, true
}

// Company converts a raw companies row. chainIDs is the derived membership
// for this company; raw.ChainIDs is deliberately not consulted.
func Company(raw catalog.RawCompany, chainIDs []string) (catalog.Company, bool) {
	if !Complete(raw) {
		return catalog.Company{}, false
	}
	if chainIDs == nil {
		chainIDs = []string{}
	}

	return catalog.Company{
		ID:           Text(raw.ID),
		Name:         Text(raw.Name),
		Ticker:       catalog.OptionalString(Text(raw.Ticker)),
		ChainIDs:     chainIDs,
		VoucherTypes: SplitList(raw.VoucherTypes),
		Notes:        catalog.OptionalString(Text(raw.Notes)),
		URL:          catalog.OptionalString(Text(raw.URL)),
	}, true
}

// Store converts a raw stores row. Incomplete rows are skipped before any
// coordinate is parsed. A missing updatedAt defaults to now in UTC.
func Store(raw catalog.RawStore, now time.Time) (catalog.Store, bool, error) {
	if !Complete(raw) {
		return catalog.Store{}, false, nil
	}

	lat, err := parseCoordinate(raw, "lat", raw.Lat)
	if err != nil {
		return catalog.Store{}, false, err
	}
	lng, err := parseCoordinate(raw, "lng", raw.Lng)
	if err != nil {
		return catalog.Store{}, false, err
	}

	updatedAt := Text(raw.UpdatedAt)
	if updatedAt == "" {
		updatedAt = now.UTC().Format(TimestampLayout)
	}

	return catalog.Store{
		ID:        Text(raw.ID),
		ChainID:   Text(raw.ChainID),
		Name:      Text(raw.Name),
		Address:   Text(raw.Address),
		Lat:       lat,
		Lng:       lng,
		Tags:      SplitList(raw.Tags),
		UpdatedAt: updatedAt,
	}, true, nil
}

// parseCoordinate parses a latitude or longitude. NaN and infinities are
// rejected because they have no JSON representation.
func parseCoordinate(raw catalog.RawStore, field, value string) (catalog.Coordinate, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err == nil && (math.IsNaN(f) || math.IsInf(f, 0)) {
		err = fmt.Errorf("not a finite number")
	}
	if err != nil {
		return 0, &FieldError{Kind: "store", ID: raw.ID, Field: field, Value: value, Err: err}
	}
	return catalog.Coordinate(f), nil
}

// Text NFC-normalizes s.
func Text(s string) string {
	return norm.NFC.String(s)
}
