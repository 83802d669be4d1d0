// Package reconcile keeps the backing FT index in sync with the active field
// schema. Ensure is idempotent and concurrency-safe: create-if-absent for the
// index, add-if-missing per field, with "already exists" responses treated as
// success. This lets a live collection's schema evolve (e.g. adding full-text
// search to a previously keyword-only field) without manual migration.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/veldt-labs/scout/internal/db"
	"github.com/veldt-labs/scout/internal/domain"
	"github.com/veldt-labs/scout/internal/domain/schema"
)

// Options hold index construction parameters.
type Options struct {
	KeyPrefix   string // key namespace, e.g. "scout:"
	VectorDim   int
	HNSWM       int
	EFConstruct int
}

// Service reconciles one schema against one FT index.
type Service struct {
	store  IndexManager
	def    *db.IndexDefinition
	logger *zap.Logger
	ready  atomic.Bool
}

// New builds the index definition for the schema and creates the reconciler.
func New(store IndexManager, sch schema.Schema, opts Options, logger *zap.Logger) (*Service, error) {
	def, err := Definition(sch, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
	}
	return &Service{store: store, def: def, logger: logger}, nil
}

// IndexName returns the FT index name for a domain under a key prefix.
func IndexName(keyPrefix string, d schema.Domain) string {
	return fmt.Sprintf("%s%s:idx", keyPrefix, d)
}

// KeyPrefix returns the document key prefix for a domain.
func KeyPrefix(keyPrefix string, d schema.Domain) string {
	return fmt.Sprintf("%s%s:", keyPrefix, d)
}

// Definition maps schema field types onto FT index kinds: keyword and
// boolean fields become TAG, numeric become NUMERIC, text become TEXT. The
// embedding vector and raw content travel in reserved __vector/__content
// hash fields.
func Definition(sch schema.Schema, opts Options) (*db.IndexDefinition, error) {
	b := db.NewIndex(IndexName(opts.KeyPrefix, sch.Domain())).
		Prefix(KeyPrefix(opts.KeyPrefix, sch.Domain()))

	for _, f := range sch.Fields() {
		switch f.Type {
		case schema.Keyword, schema.Boolean:
			if f.MultiValued() {
				// List-valued payloads land comma-separated in one hash
				// field; the TAG separator must split them back apart.
				b.TagWithOpts(f.Name, ",", false)
			} else {
				b.Tag(f.Name)
			}
		case schema.Numeric:
			b.Numeric(f.Name)
		case schema.Text:
			b.Text(f.Name)
		default:
			return nil, fmt.Errorf("field %q has unsupported type %q", f.Name, f.Type)
		}
	}

	b.VectorHNSW(db.FieldVector, opts.VectorDim, db.DistanceCosine, opts.HNSWM, opts.EFConstruct)

	return b.Build()
}

// Ensure makes the index match the schema. Cheap no-op after the first
// success; safe to call concurrently from in-flight requests (duplicate
// create/alter attempts are rejected harmlessly by the store).
func (s *Service) Ensure(ctx context.Context) error {
	if s.ready.Load() {
		return nil
	}

	exists, err := s.store.IndexExists(ctx, s.def.Name)
	if err != nil {
		return fmt.Errorf("%w: probe index %q: %w", domain.ErrStorage, s.def.Name, err)
	}

	if !exists {
		err := s.store.CreateIndex(ctx, s.def)
		switch {
		case err == nil:
			s.logger.Info("created search index", zap.String("index", s.def.Name))
			s.ready.Store(true)
			return nil
		case errors.Is(err, db.ErrIndexExists):
			// Lost a create race; fall through to the alter pass.
		default:
			return fmt.Errorf("%w: create index %q: %w", domain.ErrStorage, s.def.Name, err)
		}
	}

	// Index already present: add any fields the schema gained since it was
	// created. Duplicate fields are success.
	for _, f := range s.def.Fields {
		err := s.store.AlterIndexAdd(ctx, s.def.Name, f)
		switch {
		case err == nil:
			s.logger.Info("added index field",
				zap.String("index", s.def.Name), zap.String("field", f.Name))
		case errors.Is(err, db.ErrFieldExists):
			// Already indexed.
		default:
			return fmt.Errorf("%w: alter index %q field %q: %w", domain.ErrStorage, s.def.Name, f.Name, err)
		}
	}

	s.ready.Store(true)
	return nil
}
