package postgres

import (
	"testing"
	"time"

	"listing-query-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyPredicateEmpty(t *testing.T) {
	where, args, err := applyPredicate(domain.Predicate{})
	require.NoError(t, err)
	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestApplyPredicateOperators(t *testing.T) {
	ts := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	pred := domain.Predicate{}.And(
		domain.Condition{Field: "transactionType", Op: domain.OpEqual, Value: "sale"},
		domain.Condition{Field: "city", Op: domain.OpEqualFold, Value: "Springfield"},
		domain.Condition{Field: "address", Op: domain.OpContains, Value: "Oak"},
		domain.Condition{Field: "price", Op: domain.OpGTE, Value: 100000.0},
		domain.Condition{Field: "updatedAt", Op: domain.OpLTE, Value: ts},
	)

	where, args, err := applyPredicate(pred)
	require.NoError(t, err)

	assert.Equal(t,
		"WHERE l.transaction_type = $1 AND LOWER(l.city) = LOWER($2) AND "+
			"l.address ILIKE '%' || $3 || '%' AND l.price >= $4 AND l.updated_at <= $5",
		where)
	assert.Equal(t, []interface{}{"sale", "Springfield", "Oak", 100000.0, ts}, args)
}

func TestApplyPredicateBoundingBox(t *testing.T) {
	pred := domain.Predicate{}.And(domain.Condition{
		Field: "coordinates",
		Op:    domain.OpWithinBox,
		Value: domain.BoundingBox{MinLat: 40, MinLng: -75, MaxLat: 41, MaxLng: -73},
	})

	where, args, err := applyPredicate(pred)
	require.NoError(t, err)

	assert.Equal(t,
		"WHERE l.latitude >= $1 AND l.latitude <= $2 AND l.longitude >= $3 AND l.longitude <= $4",
		where)
	assert.Equal(t, []interface{}{40.0, 41.0, -75.0, -73.0}, args)
}

func TestApplyPredicateTextTokens(t *testing.T) {
	pred := domain.Predicate{TextTokens: []string{"sunny", "loft"}}

	where, args, err := applyPredicate(pred)
	require.NoError(t, err)

	assert.Contains(t, where, "l.title ILIKE '%' || $1 || '%'")
	assert.Contains(t, where, "l.city ILIKE '%' || $2 || '%'")
	assert.Contains(t, where, " OR ")
	assert.Equal(t, []interface{}{"sunny", "loft"}, args)
}

func TestApplyPredicateRejectsUnknownField(t *testing.T) {
	pred := domain.Predicate{}.And(domain.Condition{Field: "bedrooms", Op: domain.OpEqual, Value: 3})

	_, _, err := applyPredicate(pred)
	assert.Error(t, err)
}

func TestApplyPredicateRejectsBadBoxValue(t *testing.T) {
	pred := domain.Predicate{}.And(domain.Condition{Field: "coordinates", Op: domain.OpWithinBox, Value: "not-a-box"})

	_, _, err := applyPredicate(pred)
	assert.Error(t, err)
}

func TestOrderByClause(t *testing.T) {
	assert.Equal(t, "ORDER BY l.updated_at DESC, l.id ASC", orderByClause(domain.DefaultSort()))
	assert.Equal(t, "ORDER BY l.price ASC, l.id ASC", orderByClause(domain.Sort{Field: domain.SortByPrice}))
	assert.Equal(t, "ORDER BY l.views DESC, l.id ASC", orderByClause(domain.Sort{Field: domain.SortByViews, Descending: true}))
	// Unknown fields fall back to recency.
	assert.Equal(t, "ORDER BY l.updated_at ASC, l.id ASC", orderByClause(domain.Sort{Field: "bogus"}))
}
