// Package record models a stored searchable item: identifier, raw content,
// and the flat string payload it can later be filtered by.
package record

import (
	"fmt"
	"strings"

	"github.com/veldt-labs/scout/internal/domain"
)

// MaxContentLength is the maximum allowed record content length.
const MaxContentLength = 65536

// Record is a validated item to store.
type Record struct {
	id      string
	content string
	payload map[string]string
}

// New validates and creates a record. The id may be empty; storage assigns
// one. Payload keys must not use the reserved "__" prefix.
func New(id, content string, payload map[string]string) (Record, error) {
	if content == "" {
		return Record{}, fmt.Errorf("%w: content is required", domain.ErrValidation)
	}
	if len(content) > MaxContentLength {
		return Record{}, fmt.Errorf("%w: content too long (max %d bytes)", domain.ErrValidation, MaxContentLength)
	}
	for k, v := range payload {
		if strings.HasPrefix(k, "__") {
			return Record{}, fmt.Errorf("%w: payload key %q uses a reserved prefix", domain.ErrValidation, k)
		}
		if k == "" || v == "" {
			return Record{}, fmt.Errorf("%w: payload keys and values must be non-empty", domain.ErrValidation)
		}
	}
	return Record{id: id, content: content, payload: payload}, nil
}

// ID returns the record identifier, empty when storage should assign one.
func (r *Record) ID() string { return r.id }

// Content returns the raw content.
func (r *Record) Content() string { return r.content }

// Payload returns the filterable metadata.
func (r *Record) Payload() map[string]string { return r.payload }

// PayloadValue returns a metadata field and whether it is present.
func (r *Record) PayloadValue(key string) (string, bool) {
	v, ok := r.payload[key]
	return v, ok
}
