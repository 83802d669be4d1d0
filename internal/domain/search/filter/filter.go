// Package filter models the predicate tree a search query is constrained by:
// strict conjunction (must) for mandatory and scalar fields, soft disjunction
// (should) for full-text and multi-valued fields.
package filter

import "fmt"

// MaxConditionsPerGroup is the maximum number of conditions per filter group.
const MaxConditionsPerGroup = 32

// Expression is a structured filter with must/should boolean semantics.
// minimumShouldMatch is 0 or 1: 0 means should conditions are pure ranking
// preference and never exclude a record, 1 means at least one must match.
type Expression struct {
	must               []Condition
	should             []Condition
	minimumShouldMatch int
}

// NewExpression validates and creates a filter Expression.
func NewExpression(must, should []Condition, minimumShouldMatch int) (Expression, error) {
	if len(must) > MaxConditionsPerGroup {
		return Expression{}, fmt.Errorf("too many must conditions (max %d)", MaxConditionsPerGroup)
	}
	if len(should) > MaxConditionsPerGroup {
		return Expression{}, fmt.Errorf("too many should conditions (max %d)", MaxConditionsPerGroup)
	}
	if minimumShouldMatch < 0 || minimumShouldMatch > 1 {
		return Expression{}, fmt.Errorf("minimum_should_match must be 0 or 1, got %d", minimumShouldMatch)
	}
	return Expression{must: must, should: should, minimumShouldMatch: minimumShouldMatch}, nil
}

// Must returns the must conditions.
func (e Expression) Must() []Condition { return e.must }

// Should returns the should conditions.
func (e Expression) Should() []Condition { return e.should }

// MinimumShouldMatch returns how many should conditions must match (0 or 1).
func (e Expression) MinimumShouldMatch() int { return e.minimumShouldMatch }

// IsEmpty reports whether the expression has no conditions.
func (e Expression) IsEmpty() bool {
	return len(e.must) == 0 && len(e.should) == 0
}

// WithoutShould returns a copy of the expression with all soft conditions
// removed. Used by the empty-result fallback, which drops all soft filters
// at once.
func (e Expression) WithoutShould() Expression {
	return Expression{must: e.must, minimumShouldMatch: 0}
}

// Normalize canonicalizes a single condition or a slice of conditions into a
// uniform slice, so downstream merge logic never deals with the union shape.
func Normalize(conds ...Condition) []Condition {
	if len(conds) == 0 {
		return nil
	}
	out := make([]Condition, 0, len(conds))
	out = append(out, conds...)
	return out
}

// Condition is a single filter clause: an exact match, a set-membership
// match, a tokenized text match, or a numeric range.
type Condition struct {
	key       string
	match     string
	matchAny  []string
	matchText string
	rangeExpr *Range
}

// NewMatch creates an exact match condition (keyword and boolean fields).
func NewMatch(key, match string) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	if match == "" {
		return Condition{}, fmt.Errorf("match value is required for key %q", key)
	}
	return Condition{key: key, match: match}, nil
}

// NewMatchAny creates a set-membership condition: the record matches when the
// field holds any of the given values.
func NewMatchAny(key string, values []string) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	if len(values) == 0 {
		return Condition{}, fmt.Errorf("at least one value is required for key %q", key)
	}
	return Condition{key: key, matchAny: values}, nil
}

// NewMatchText creates a tokenized full-text match condition.
func NewMatchText(key, text string) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	if text == "" {
		return Condition{}, fmt.Errorf("text value is required for key %q", key)
	}
	return Condition{key: key, matchText: text}, nil
}

// NewRange creates a numeric range condition.
func NewRange(key string, r Range) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	return Condition{key: key, rangeExpr: &r}, nil
}

// Key returns the field name.
func (c Condition) Key() string { return c.key }

// Match returns the exact match value.
func (c Condition) Match() string { return c.match }

// MatchAny returns the set-membership values.
func (c Condition) MatchAny() []string { return c.matchAny }

// MatchText returns the full-text match value.
func (c Condition) MatchText() string { return c.matchText }

// Range returns the numeric range expression.
func (c Condition) Range() *Range { return c.rangeExpr }

// IsMatch reports whether this is an exact match condition.
func (c Condition) IsMatch() bool { return c.match != "" }

// IsMatchAny reports whether this is a set-membership condition.
func (c Condition) IsMatchAny() bool { return len(c.matchAny) > 0 }

// IsMatchText reports whether this is a full-text condition.
func (c Condition) IsMatchText() bool { return c.matchText != "" }

// IsRange reports whether this is a range condition.
func (c Condition) IsRange() bool { return c.rangeExpr != nil }

// Range is a numeric range with gt/gte/lt/lte boundaries.
type Range struct {
	gt  *float64
	gte *float64
	lt  *float64
	lte *float64
}

// NewRangeFilter validates and creates a Range.
// At least one boundary required. gt/gte and lt/lte are mutually exclusive.
func NewRangeFilter(gt, gte, lt, lte *float64) (Range, error) {
	if gt == nil && gte == nil && lt == nil && lte == nil {
		return Range{}, fmt.Errorf("at least one range boundary is required")
	}
	if gt != nil && gte != nil {
		return Range{}, fmt.Errorf("cannot specify both gt and gte")
	}
	if lt != nil && lte != nil {
		return Range{}, fmt.Errorf("cannot specify both lt and lte")
	}
	return Range{gt: gt, gte: gte, lt: lt, lte: lte}, nil
}

// Min creates a lower-inclusive range, the common "minimum value" filter.
func Min(v float64) Range {
	r, _ := NewRangeFilter(nil, &v, nil, nil)
	return r
}

// GT returns the lower exclusive bound.
func (r Range) GT() *float64 { return r.gt }

// GTE returns the lower inclusive bound.
func (r Range) GTE() *float64 { return r.gte }

// LT returns the upper exclusive bound.
func (r Range) LT() *float64 { return r.lt }

// LTE returns the upper inclusive bound.
func (r Range) LTE() *float64 { return r.lte }
