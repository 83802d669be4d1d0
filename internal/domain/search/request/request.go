// Package request models a validated search invocation: the mandatory scope
// id, the free-text query, and the optional named filters as supplied by the
// caller (uniformly string-typed).
package request

import (
	"fmt"

	"github.com/veldt-labs/scout/internal/domain"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 4096
	DefaultLimit   = 10
	MaxLimit       = 100
)

// Request is a validated search query. Filters values are raw strings;
// multi-valued parameters arrive as JSON-array-encoded strings and are parsed
// by the filter builder.
type Request struct {
	scopeID string
	query   string
	filters map[string]string
	limit   int
}

// New validates and normalizes search parameters.
// The scope id is mandatory; limit defaults to 10 and is capped at 100.
func New(scopeID, query string, filters map[string]string, limit int) (Request, error) {
	if scopeID == "" {
		return Request{}, fmt.Errorf("%w: scope id is required", domain.ErrValidation)
	}
	if query == "" {
		return Request{}, fmt.Errorf("%w: query is required", domain.ErrValidation)
	}
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrValidation, MaxQueryLength)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Request{scopeID: scopeID, query: query, filters: filters, limit: limit}, nil
}

// ScopeID returns the mandatory scope identifier.
func (r *Request) ScopeID() string { return r.scopeID }

// Query returns the free-text search query.
func (r *Request) Query() string { return r.query }

// Filters returns the raw named filter values.
func (r *Request) Filters() map[string]string { return r.filters }

// Limit returns the maximum results to return.
func (r *Request) Limit() int { return r.limit }
