// Package store persists searchable records: each record is embedded and
// written as a hash under the domain's key prefix, where the FT index picks
// it up.
package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/veldt-labs/scout/internal/db"
	"github.com/veldt-labs/scout/internal/domain"
	"github.com/veldt-labs/scout/internal/domain/record"
	"github.com/veldt-labs/scout/internal/domain/schema"
	"github.com/veldt-labs/scout/internal/usecase/reconcile"
)

// Service stores records for one domain.
type Service struct {
	writer    DocumentWriter
	embedder  domain.Embedder
	indexes   IndexEnsurer
	sch       schema.Schema
	docPrefix string
	logger    *zap.Logger
}

// New creates a store service.
func New(
	writer DocumentWriter,
	embedder domain.Embedder,
	indexes IndexEnsurer,
	sch schema.Schema,
	keyPrefix string,
	logger *zap.Logger,
) *Service {
	return &Service{
		writer:    writer,
		embedder:  embedder,
		indexes:   indexes,
		sch:       sch,
		docPrefix: reconcile.KeyPrefix(keyPrefix, sch.Domain()),
		logger:    logger,
	}
}

// Store embeds and persists a single record. Returns the record id, either
// the caller's or a generated one. The record must carry the domain's scope
// field in its payload so later searches can reach it.
func (s *Service) Store(ctx context.Context, rec record.Record) (string, error) {
	if err := s.validateScope(rec); err != nil {
		return "", err
	}
	if err := s.indexes.Ensure(ctx); err != nil {
		return "", fmt.Errorf("ensure indexes: %w", err)
	}

	emb, err := s.embedder.Embed(ctx, rec.Content())
	if err != nil {
		return "", fmt.Errorf("embed record: %w", err)
	}

	id := rec.ID()
	if id == "" {
		id = uuid.NewString()
	}

	if err := s.writer.HSet(ctx, s.docPrefix+id, s.fields(rec, emb.Embedding)); err != nil {
		return "", fmt.Errorf("%w: store record: %w", domain.ErrStorage, err)
	}

	s.logger.Debug("record stored",
		zap.String("domain", string(s.sch.Domain())),
		zap.String("id", id),
		zap.Int("tokens", emb.TotalTokens),
	)
	return id, nil
}

// StoreBatch embeds and persists multiple records in one embedding call and
// one pipelined write. Returns the record ids in input order.
func (s *Service) StoreBatch(ctx context.Context, recs []record.Record) ([]string, error) {
	if len(recs) == 0 {
		return nil, nil
	}
	for i := range recs {
		if err := s.validateScope(recs[i]); err != nil {
			return nil, fmt.Errorf("record [%d]: %w", i, err)
		}
	}
	if err := s.indexes.Ensure(ctx); err != nil {
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}

	texts := make([]string, len(recs))
	for i := range recs {
		texts[i] = recs[i].Content()
	}

	var embs domain.BatchEmbeddingResult
	var err error
	if be, ok := s.embedder.(domain.BatchEmbedder); ok {
		embs, err = be.BatchEmbed(ctx, texts)
	} else {
		embs, err = domain.BatchFallback(ctx, s.embedder, texts)
	}
	if err != nil {
		return nil, fmt.Errorf("embed batch: %w", err)
	}
	if len(embs.Embeddings) != len(recs) {
		return nil, fmt.Errorf("%w: embedding count mismatch: got %d, want %d",
			domain.ErrEmbedding, len(embs.Embeddings), len(recs))
	}

	ids := make([]string, len(recs))
	items := make([]db.HashSetItem, len(recs))
	for i := range recs {
		id := recs[i].ID()
		if id == "" {
			id = uuid.NewString()
		}
		ids[i] = id
		items[i] = db.HashSetItem{
			Key:    s.docPrefix + id,
			Fields: s.fields(recs[i], embs.Embeddings[i]),
		}
	}

	if err := s.writer.HSetMulti(ctx, items); err != nil {
		return nil, fmt.Errorf("%w: store batch: %w", domain.ErrStorage, err)
	}

	s.logger.Debug("batch stored",
		zap.String("domain", string(s.sch.Domain())),
		zap.Int("count", len(ids)),
		zap.Int("tokens", embs.TotalTokens),
	)
	return ids, nil
}

func (s *Service) validateScope(rec record.Record) error {
	scope := s.sch.Scope().Name
	if _, ok := rec.PayloadValue(scope); !ok {
		return fmt.Errorf("%w: payload must carry the %q field", domain.ErrValidation, scope)
	}
	return nil
}

func (s *Service) fields(rec record.Record, vector []float32) map[string]string {
	fields := make(map[string]string, len(rec.Payload())+2)
	for k, v := range rec.Payload() {
		fields[k] = v
	}
	fields[db.FieldContent] = rec.Content()
	fields[db.FieldVector] = db.VectorBytes(vector)
	return fields
}
