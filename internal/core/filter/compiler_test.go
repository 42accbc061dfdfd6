package filter

import (
	"testing"
	"time"

	"listing-query-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileEmptyMap(t *testing.T) {
	pred, err := Compile(nil)
	require.NoError(t, err)
	assert.True(t, pred.IsEmpty())

	pred, err = Compile(map[string]string{})
	require.NoError(t, err)
	assert.True(t, pred.IsEmpty())
}

func TestCompileKnownFields(t *testing.T) {
	pred, err := Compile(map[string]string{
		"transactionType": "Sale",
		"city":            "Springfield",
		"address":         "Oak",
		"featured":        "true",
	})
	require.NoError(t, err)
	require.Len(t, pred.Conditions, 4)

	// Conditions come out in sorted key order.
	assert.Equal(t, domain.Condition{Field: "address", Op: domain.OpContains, Value: "Oak"}, pred.Conditions[0])
	assert.Equal(t, domain.Condition{Field: "city", Op: domain.OpEqualFold, Value: "Springfield"}, pred.Conditions[1])
	assert.Equal(t, domain.Condition{Field: "featured", Op: domain.OpEqual, Value: true}, pred.Conditions[2])
	assert.Equal(t, domain.Condition{Field: "transactionType", Op: domain.OpEqual, Value: "sale"}, pred.Conditions[3])
}

func TestCompilePriceRanges(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		wantOps  []domain.FilterOperator
		wantVals []float64
	}{
		{"closed range", "100000-250000", []domain.FilterOperator{domain.OpGTE, domain.OpLTE}, []float64{100000, 250000}},
		{"open max", "100000-", []domain.FilterOperator{domain.OpGTE}, []float64{100000}},
		{"open min", "-250000", []domain.FilterOperator{domain.OpLTE}, []float64{250000}},
		{"exact value", "175000", []domain.FilterOperator{domain.OpGTE, domain.OpLTE}, []float64{175000, 175000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred, err := Compile(map[string]string{"price": tt.value})
			require.NoError(t, err)
			require.Len(t, pred.Conditions, len(tt.wantOps))
			for i, op := range tt.wantOps {
				assert.Equal(t, "price", pred.Conditions[i].Field)
				assert.Equal(t, op, pred.Conditions[i].Op)
				assert.Equal(t, tt.wantVals[i], pred.Conditions[i].Value)
			}
		})
	}
}

func TestCompileTimestamps(t *testing.T) {
	pred, err := Compile(map[string]string{
		"updatedAfter": "2026-01-02T15:04:05Z",
	})
	require.NoError(t, err)
	require.Len(t, pred.Conditions, 1)
	assert.Equal(t, "updatedAt", pred.Conditions[0].Field)
	assert.Equal(t, domain.OpGTE, pred.Conditions[0].Op)
	assert.Equal(t, time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC), pred.Conditions[0].Value)
}

func TestCompileBoundingBox(t *testing.T) {
	pred, err := Compile(map[string]string{
		"boundingBox": "40.0,-75.0,41.0,-73.0",
	})
	require.NoError(t, err)
	require.Len(t, pred.Conditions, 1)
	assert.Equal(t, "coordinates", pred.Conditions[0].Field)
	assert.Equal(t, domain.OpWithinBox, pred.Conditions[0].Op)
	assert.Equal(t, domain.BoundingBox{MinLat: 40, MinLng: -75, MaxLat: 41, MaxLng: -73}, pred.Conditions[0].Value)
}

func TestCompileRejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		filters map[string]string
	}{
		{"unknown field", map[string]string{"bedrooms": "3"}},
		{"empty value", map[string]string{"city": "  "}},
		{"bad enum", map[string]string{"transactionType": "lease"}},
		{"bad bool", map[string]string{"featured": "yep"}},
		{"unparsable number", map[string]string{"price": "cheap"}},
		{"inverted range", map[string]string{"price": "200-100"}},
		{"bad timestamp", map[string]string{"updatedAfter": "yesterday"}},
		{"bbox wrong arity", map[string]string{"boundingBox": "1,2,3"}},
		{"bbox out of range", map[string]string{"boundingBox": "40,-75,95,-73"}},
		{"bbox inverted", map[string]string{"boundingBox": "41,-75,40,-73"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.filters)
			require.Error(t, err)
			assert.True(t, domain.IsInvalidFilter(err), "expected InvalidFilterError, got %v", err)
		})
	}
}

func TestCompileAbortsOnFirstBadEntry(t *testing.T) {
	_, err := Compile(map[string]string{
		"city":  "Springfield",
		"price": "not-a-number",
	})
	require.Error(t, err)
	assert.True(t, domain.IsInvalidFilter(err))
}
