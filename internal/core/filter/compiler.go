// Package filter compiles flat field->value filter maps into the typed
// predicate tree the listing stores evaluate. Compilation fails fast on
// unknown fields, unparsable values and inverted ranges, so a bad filter
// never reaches the store and never silently widens a query.
package filter

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"listing-query-service/internal/core/domain"
)

// fieldKind drives how a raw string value is parsed for a field.
type fieldKind int

const (
	kindEnum fieldKind = iota
	kindString
	kindSubstring
	kindBool
	kindFloatRange
	kindIntRange
	kindTimeAfter
	kindTimeBefore
	kindBoundingBox
)

type fieldSpec struct {
	kind fieldKind

	// column is the canonical predicate field name; defaults to the map key.
	column string

	// allowed enumerates legal values for kindEnum fields.
	allowed []string
}

// knownFields is the full set of filterable listing attributes. Unknown map
// keys are rejected rather than ignored.
var knownFields = map[string]fieldSpec{
	"transactionType": {kind: kindEnum, allowed: []string{string(domain.TransactionSale), string(domain.TransactionRent)}},
	"propertyType":    {kind: kindString},
	"source":          {kind: kindEnum, allowed: []string{string(domain.SourceMLS), string(domain.SourceManual)}},
	"externalId":      {kind: kindString},
	"city":            {kind: kindString},
	"address":         {kind: kindSubstring},
	"featured":        {kind: kindBool},
	"disabled":        {kind: kindBool},
	"price":           {kind: kindFloatRange},
	"views":           {kind: kindIntRange},
	"updatedAfter":    {kind: kindTimeAfter, column: "updatedAt"},
	"updatedBefore":   {kind: kindTimeBefore, column: "updatedAt"},
	"boundingBox":     {kind: kindBoundingBox, column: "coordinates"},
}

// Compile turns a filter map into a predicate. The zero map compiles to an
// empty predicate. Any invalid entry aborts compilation with
// *domain.InvalidFilterError.
func Compile(filters map[string]string) (domain.Predicate, error) {
	if len(filters) == 0 {
		return domain.Predicate{}, nil
	}

	// Stable condition order keeps generated store queries deterministic.
	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pred := domain.Predicate{Conditions: make([]domain.Condition, 0, len(keys))}
	for _, key := range keys {
		spec, ok := knownFields[key]
		if !ok {
			return domain.Predicate{}, &domain.InvalidFilterError{Field: key, Reason: "unknown field"}
		}

		column := spec.column
		if column == "" {
			column = key
		}

		conds, err := compileField(key, column, spec, strings.TrimSpace(filters[key]))
		if err != nil {
			return domain.Predicate{}, err
		}
		pred.Conditions = append(pred.Conditions, conds...)
	}
	return pred, nil
}

func compileField(key, column string, spec fieldSpec, value string) ([]domain.Condition, error) {
	if value == "" {
		return nil, &domain.InvalidFilterError{Field: key, Reason: "empty value"}
	}

	switch spec.kind {
	case kindEnum:
		lowered := strings.ToLower(value)
		for _, a := range spec.allowed {
			if lowered == a {
				return []domain.Condition{{Field: column, Op: domain.OpEqual, Value: lowered}}, nil
			}
		}
		return nil, &domain.InvalidFilterError{
			Field:  key,
			Reason: "must be one of: " + strings.Join(spec.allowed, ", "),
		}

	case kindString:
		return []domain.Condition{{Field: column, Op: domain.OpEqualFold, Value: value}}, nil

	case kindSubstring:
		return []domain.Condition{{Field: column, Op: domain.OpContains, Value: value}}, nil

	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, &domain.InvalidFilterError{Field: key, Reason: "not a boolean: " + value}
		}
		return []domain.Condition{{Field: column, Op: domain.OpEqual, Value: b}}, nil

	case kindFloatRange:
		min, max, err := parseRange(key, value, parseFloat)
		if err != nil {
			return nil, err
		}
		return rangeConditions(column, min, max), nil

	case kindIntRange:
		min, max, err := parseRange(key, value, parseIntAsFloat)
		if err != nil {
			return nil, err
		}
		return rangeConditions(column, min, max), nil

	case kindTimeAfter, kindTimeBefore:
		ts, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return nil, &domain.InvalidFilterError{Field: key, Reason: "not an RFC3339 timestamp: " + value}
		}
		op := domain.OpGTE
		if spec.kind == kindTimeBefore {
			op = domain.OpLTE
		}
		return []domain.Condition{{Field: column, Op: op, Value: ts}}, nil

	case kindBoundingBox:
		box, err := parseBoundingBox(key, value)
		if err != nil {
			return nil, err
		}
		return []domain.Condition{{Field: column, Op: domain.OpWithinBox, Value: box}}, nil
	}

	return nil, &domain.InvalidFilterError{Field: key, Reason: "unsupported field kind"}
}

func rangeConditions(column string, min, max *float64) []domain.Condition {
	conds := make([]domain.Condition, 0, 2)
	if min != nil {
		conds = append(conds, domain.Condition{Field: column, Op: domain.OpGTE, Value: *min})
	}
	if max != nil {
		conds = append(conds, domain.Condition{Field: column, Op: domain.OpLTE, Value: *max})
	}
	return conds
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

func parseIntAsFloat(s string) (float64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	return float64(n), err
}

// parseRange accepts "min-max", "min-", "-max" or a single exact value.
func parseRange(key, value string, parse func(string) (float64, error)) (*float64, *float64, error) {
	sep := strings.Index(value, "-")
	if sep < 0 {
		v, err := parse(value)
		if err != nil {
			return nil, nil, &domain.InvalidFilterError{Field: key, Reason: "not a number: " + value}
		}
		return &v, &v, nil
	}

	var min, max *float64
	if lo := strings.TrimSpace(value[:sep]); lo != "" {
		v, err := parse(lo)
		if err != nil {
			return nil, nil, &domain.InvalidFilterError{Field: key, Reason: "bad range minimum: " + lo}
		}
		min = &v
	}
	if hi := strings.TrimSpace(value[sep+1:]); hi != "" {
		v, err := parse(hi)
		if err != nil {
			return nil, nil, &domain.InvalidFilterError{Field: key, Reason: "bad range maximum: " + hi}
		}
		max = &v
	}
	if min == nil && max == nil {
		return nil, nil, &domain.InvalidFilterError{Field: key, Reason: "empty range"}
	}
	if min != nil && max != nil && *min > *max {
		return nil, nil, &domain.InvalidFilterError{Field: key, Reason: "inverted range: min > max"}
	}
	return min, max, nil
}

func parseBoundingBox(key, value string) (domain.BoundingBox, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 4 {
		return domain.BoundingBox{}, &domain.InvalidFilterError{
			Field:  key,
			Reason: "expected minLat,minLng,maxLat,maxLng",
		}
	}

	nums := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return domain.BoundingBox{}, &domain.InvalidFilterError{Field: key, Reason: "not a number: " + p}
		}
		nums[i] = v
	}

	box := domain.BoundingBox{MinLat: nums[0], MinLng: nums[1], MaxLat: nums[2], MaxLng: nums[3]}
	if box.MinLat < -90 || box.MaxLat > 90 || box.MinLng < -180 || box.MaxLng > 180 {
		return domain.BoundingBox{}, &domain.InvalidFilterError{Field: key, Reason: "coordinates out of range"}
	}
	if box.MinLat > box.MaxLat || box.MinLng > box.MaxLng {
		return domain.BoundingBox{}, &domain.InvalidFilterError{Field: key, Reason: "inverted range: min > max"}
	}
	return box, nil
}
