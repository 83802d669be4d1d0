// Package schema declares, per search domain, the set of filterable payload
// attributes, their types, and the single mandatory scope field every query
// must be constrained by. Schemas are built once at startup and read-only
// thereafter.
package schema

import (
	"fmt"

	"github.com/veldt-labs/scout/internal/domain"
)

// Domain selects one of the mutually exclusive schema configurations.
type Domain string

const (
	// DomainCode is repository-scoped code chunk search.
	DomainCode Domain = "code"
	// DomainMailbox is mailbox-scoped email search.
	DomainMailbox Domain = "mailbox"
)

// Schema is an immutable set of filterable fields for one domain.
type Schema struct {
	domain Domain
	fields []Field
	byName map[string]Field
	scope  Field
}

// New validates the field set and builds a schema. Exactly one field must be
// marked required; it becomes the mandatory scope key.
func New(d Domain, fields []Field) (Schema, error) {
	byName := make(map[string]Field, len(fields))
	var scope Field
	var scopeSeen bool

	for _, f := range fields {
		if f.Name == "" {
			return Schema{}, fmt.Errorf("%w: field with empty name in domain %q", domain.ErrConfiguration, d)
		}
		if _, dup := byName[f.Name]; dup {
			return Schema{}, fmt.Errorf("%w: duplicate field %q in domain %q", domain.ErrConfiguration, f.Name, d)
		}
		if !f.conditionSupported() {
			return Schema{}, fmt.Errorf(
				"%w: field %q: condition %q is not supported for %s fields",
				domain.ErrConfiguration, f.Name, f.Condition, f.Type,
			)
		}
		byName[f.Name] = f

		if f.Required {
			if scopeSeen {
				return Schema{}, fmt.Errorf(
					"%w: domain %q has more than one required field (%q and %q)",
					domain.ErrConfiguration, d, scope.Name, f.Name,
				)
			}
			if f.Type != Keyword {
				return Schema{}, fmt.Errorf(
					"%w: required field %q must be a keyword field", domain.ErrConfiguration, f.Name,
				)
			}
			scope = f
			scopeSeen = true
		}
	}

	if !scopeSeen {
		return Schema{}, fmt.Errorf("%w: domain %q has no required scope field", domain.ErrConfiguration, d)
	}

	return Schema{domain: d, fields: fields, byName: byName, scope: scope}, nil
}

// Get returns the schema for a domain selector.
func Get(d Domain) (Schema, error) {
	switch d {
	case DomainCode:
		return New(DomainCode, codeFields)
	case DomainMailbox:
		return New(DomainMailbox, mailboxFields)
	default:
		return Schema{}, fmt.Errorf("%w: unknown search domain %q", domain.ErrConfiguration, d)
	}
}

// Domain returns the domain selector this schema belongs to.
func (s Schema) Domain() Domain { return s.domain }

// Fields returns all declared fields in declaration order.
func (s Schema) Fields() []Field { return s.fields }

// FieldByName looks up a field by its payload name.
func (s Schema) FieldByName(name string) (Field, bool) {
	f, ok := s.byName[name]
	return f, ok
}

// Scope returns the single mandatory scope field.
func (s Schema) Scope() Field { return s.scope }

// Exposed returns the fields offered as tool parameters, in declaration order.
func (s Schema) Exposed() []Field {
	out := make([]Field, 0, len(s.fields))
	for _, f := range s.fields {
		if f.Exposed() {
			out = append(out, f)
		}
	}
	return out
}
