package domain

// FilterOperator is the comparison a single condition applies to a field.
type FilterOperator string

const (
	// OpEqual matches the field value exactly.
	OpEqual FilterOperator = "eq"
	// OpEqualFold matches strings case-insensitively.
	OpEqualFold FilterOperator = "eq_fold"
	// OpContains matches a case-insensitive substring.
	OpContains FilterOperator = "contains"
	// OpGTE / OpLTE bound numeric and time fields.
	OpGTE FilterOperator = "gte"
	OpLTE FilterOperator = "lte"
	// OpWithinBox keeps listings whose coordinates fall inside a
	// bounding box. Listings without coordinates never match.
	OpWithinBox FilterOperator = "within_box"
)

// BoundingBox is a latitude/longitude rectangle. Min <= Max on both axes.
type BoundingBox struct {
	MinLat float64
	MinLng float64
	MaxLat float64
	MaxLng float64
}

// Contains reports whether the point lies inside the box (inclusive).
func (b BoundingBox) Contains(c Coordinates) bool {
	return c.Latitude >= b.MinLat && c.Latitude <= b.MaxLat &&
		c.Longitude >= b.MinLng && c.Longitude <= b.MaxLng
}

// Condition is one node of the compiled predicate: a field, an operator and
// an already-typed value (string, float64, bool, time.Time or BoundingBox).
type Condition struct {
	Field string
	Op    FilterOperator
	Value any
}

// Predicate is a store-evaluable conjunction of conditions, optionally
// combined with free-text tokens. A listing matches the predicate when it
// satisfies every condition AND at least one token matches at least one of
// the indexed text fields (title, description, address, city).
type Predicate struct {
	Conditions []Condition

	// TextTokens are lower-cased search tokens. Empty means no text match
	// is required.
	TextTokens []string
}

// And returns a predicate with the extra conditions appended.
func (p Predicate) And(conds ...Condition) Predicate {
	out := Predicate{
		Conditions: make([]Condition, 0, len(p.Conditions)+len(conds)),
		TextTokens: p.TextTokens,
	}
	out.Conditions = append(out.Conditions, p.Conditions...)
	out.Conditions = append(out.Conditions, conds...)
	return out
}

// IsEmpty reports whether the predicate constrains anything at all.
func (p Predicate) IsEmpty() bool {
	return len(p.Conditions) == 0 && len(p.TextTokens) == 0
}
