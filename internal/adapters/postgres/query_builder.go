package postgres

import (
	"fmt"
	"strings"

	"listing-query-service/internal/core/domain"
)

// columnFor maps predicate field names to listing table columns.
var columnFor = map[string]string{
	"transactionType": "l.transaction_type",
	"propertyType":    "l.property_type",
	"source":          "l.source",
	"externalId":      "l.external_id",
	"city":            "l.city",
	"address":         "l.address",
	"featured":        "l.featured",
	"disabled":        "l.disabled",
	"price":           "l.price",
	"views":           "l.views",
	"updatedAt":       "l.updated_at",
}

var sortColumnFor = map[domain.SortField]string{
	domain.SortByUpdatedAt: "l.updated_at",
	domain.SortByPrice:     "l.price",
	domain.SortByViews:     "l.views",
}

type queryBuilder struct {
	conditions []string
	args       []interface{}
	argID      int
}

func newQueryBuilder() *queryBuilder {
	return &queryBuilder{argID: 1, args: make([]interface{}, 0)}
}

func (qb *queryBuilder) addCondition(format, column string, arg interface{}) {
	qb.conditions = append(qb.conditions, fmt.Sprintf(format, column, qb.argID))
	qb.args = append(qb.args, arg)
	qb.argID++
}

func (qb *queryBuilder) whereClause() string {
	if len(qb.conditions) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(qb.conditions, " AND ")
}

// applyPredicate translates the compiled predicate into a WHERE clause with
// numbered args, so the whole filter is evaluated by the database.
func applyPredicate(pred domain.Predicate) (string, []interface{}, error) {
	qb := newQueryBuilder()

	for _, cond := range pred.Conditions {
		if cond.Op == domain.OpWithinBox {
			box, ok := cond.Value.(domain.BoundingBox)
			if !ok {
				return "", nil, fmt.Errorf("bounding box condition on %q has value %T", cond.Field, cond.Value)
			}
			qb.addCondition("%s >= $%d", "l.latitude", box.MinLat)
			qb.addCondition("%s <= $%d", "l.latitude", box.MaxLat)
			qb.addCondition("%s >= $%d", "l.longitude", box.MinLng)
			qb.addCondition("%s <= $%d", "l.longitude", box.MaxLng)
			continue
		}

		column, ok := columnFor[cond.Field]
		if !ok {
			return "", nil, fmt.Errorf("no column mapping for predicate field %q", cond.Field)
		}

		switch cond.Op {
		case domain.OpEqual:
			qb.addCondition("%s = $%d", column, cond.Value)
		case domain.OpEqualFold:
			qb.addCondition("LOWER(%s) = LOWER($%d)", column, cond.Value)
		case domain.OpContains:
			qb.addCondition("%s ILIKE '%%' || $%d || '%%'", column, cond.Value)
		case domain.OpGTE:
			qb.addCondition("%s >= $%d", column, cond.Value)
		case domain.OpLTE:
			qb.addCondition("%s <= $%d", column, cond.Value)
		default:
			return "", nil, fmt.Errorf("unsupported operator %q on field %q", cond.Op, cond.Field)
		}
	}

	// Free text: OR across tokens and the indexed fields; one hit matches.
	if len(pred.TextTokens) > 0 {
		tokenConds := make([]string, 0, len(pred.TextTokens))
		for _, token := range pred.TextTokens {
			tokenConds = append(tokenConds, fmt.Sprintf(
				"(l.title ILIKE '%%' || $%d || '%%' OR l.description ILIKE '%%' || $%d || '%%' OR l.address ILIKE '%%' || $%d || '%%' OR l.city ILIKE '%%' || $%d || '%%')",
				qb.argID, qb.argID, qb.argID, qb.argID,
			))
			qb.args = append(qb.args, token)
			qb.argID++
		}
		qb.conditions = append(qb.conditions, "("+strings.Join(tokenConds, " OR ")+")")
	}

	return qb.whereClause(), qb.args, nil
}

// orderByClause builds the deterministic ordering: requested field first,
// internal id as tie-break so page boundaries stay stable under concurrent
// mutation.
func orderByClause(sortBy domain.Sort) string {
	column, ok := sortColumnFor[sortBy.Field]
	if !ok {
		column = sortColumnFor[domain.SortByUpdatedAt]
	}
	direction := "ASC"
	if sortBy.Descending {
		direction = "DESC"
	}
	return fmt.Sprintf("ORDER BY %s %s, l.id ASC", column, direction)
}
