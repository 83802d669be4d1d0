package search

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/veldt-labs/scout/internal/domain"
	"github.com/veldt-labs/scout/internal/domain/schema"
	"github.com/veldt-labs/scout/internal/domain/search/filter"
	"github.com/veldt-labs/scout/internal/domain/search/request"
)

// BuildFilter translates a validated request into the predicate tree the
// store query is constrained by. The scope condition always leads the must
// group; remaining filters are applied in lexical key order so the same
// request always yields the same expression. Unknown filter keys are
// rejected, never ignored.
func BuildFilter(sch schema.Schema, req request.Request) (filter.Expression, error) {
	scope := sch.Scope()
	scopeCond, err := filter.NewMatch(scope.Name, req.ScopeID())
	if err != nil {
		return filter.Expression{}, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	must := filter.Normalize(scopeCond)
	var should []filter.Condition

	for _, key := range sortedKeys(req.Filters()) {
		raw := req.Filters()[key]
		if raw == "" {
			continue
		}
		if key == scope.Name {
			// The scope argument is authoritative; a duplicate filter
			// entry must not yield a second, possibly conflicting clause.
			continue
		}

		f, ok := sch.FieldByName(key)
		if !ok || !f.Exposed() {
			return filter.Expression{}, fmt.Errorf(
				"%w: unknown filter field %q for domain %q", domain.ErrValidation, key, sch.Domain(),
			)
		}

		conds, err := fieldConditions(f, raw)
		if err != nil {
			return filter.Expression{}, err
		}

		switch f.Bucket() {
		case schema.BucketShould:
			should = append(should, conds...)
		default:
			must = append(must, conds...)
		}
	}

	expr, err := filter.NewExpression(must, should, 0)
	if err != nil {
		return filter.Expression{}, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	return expr, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// fieldConditions converts one raw filter value into filter conditions
// according to the field's declared type and comparison.
func fieldConditions(f schema.Field, raw string) ([]filter.Condition, error) {
	if f.MultiValued() {
		return multiValuedConditions(f, raw)
	}

	switch f.Type {
	case schema.Text:
		cond, err := filter.NewMatchText(f.Name, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
		}
		return filter.Normalize(cond), nil

	case schema.Boolean:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf(
				"%w: field %q expects a boolean value, got %q", domain.ErrValidation, f.Name, raw,
			)
		}
		cond, err := filter.NewMatch(f.Name, strconv.FormatBool(b))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
		}
		return filter.Normalize(cond), nil

	case schema.Numeric:
		return numericConditions(f, raw)

	case schema.Keyword:
		// Schema construction guarantees exposed scalar keywords are Eq.
		cond, err := filter.NewMatch(f.Name, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
		}
		return filter.Normalize(cond), nil
	}

	return nil, fmt.Errorf("%w: field %q has unsupported type %q", domain.ErrConfiguration, f.Name, f.Type)
}

// multiValuedConditions parses a JSON-array-encoded string. Full-text fields
// expand to one soft condition per element so each term independently boosts
// preference; keyword fields collapse into a single set-membership clause.
func multiValuedConditions(f schema.Field, raw string) ([]filter.Condition, error) {
	values, err := ParseJSONList(f.Name, raw)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}

	if f.Type == schema.Text {
		conds := make([]filter.Condition, 0, len(values))
		for _, v := range values {
			cond, err := filter.NewMatchText(f.Name, v)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
			}
			conds = append(conds, cond)
		}
		return conds, nil
	}

	cond, err := filter.NewMatchAny(f.Name, values)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	return filter.Normalize(cond), nil
}

func numericConditions(f schema.Field, raw string) ([]filter.Condition, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf(
			"%w: field %q expects a numeric value, got %q", domain.ErrValidation, f.Name, raw,
		)
	}

	var r filter.Range
	switch f.Condition {
	case schema.Gte:
		r = filter.Min(v)
	case schema.Gt:
		r, err = filter.NewRangeFilter(&v, nil, nil, nil)
	case schema.Lt:
		r, err = filter.NewRangeFilter(nil, nil, &v, nil)
	case schema.Lte:
		r, err = filter.NewRangeFilter(nil, nil, nil, &v)
	case schema.Eq:
		r, err = filter.NewRangeFilter(nil, &v, nil, &v)
	default:
		return nil, fmt.Errorf(
			"%w: field %q declares unsupported comparison %q", domain.ErrConfiguration, f.Name, f.Condition,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	cond, err := filter.NewRange(f.Name, r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	return filter.Normalize(cond), nil
}

// ParseJSONList decodes a JSON-array-encoded string parameter. An empty
// string means the filter was not supplied. Malformed JSON and non-array
// JSON are rejected with the expected literal format in the message.
func ParseJSONList(field, raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}

	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf(
			`%w: invalid %s format: expected JSON array like '["value1", "value2"]', got %q`,
			domain.ErrValidation, field, raw,
		)
	}

	items, ok := parsed.([]any)
	if !ok {
		return nil, fmt.Errorf(
			`%w: %s must be a JSON array like '["value1", "value2"]', got %q`,
			domain.ErrValidation, field, raw,
		)
	}

	values := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf(
				"%w: %s[%d] must be a string, got %T", domain.ErrValidation, field, i, item,
			)
		}
		values = append(values, s)
	}
	return values, nil
}
