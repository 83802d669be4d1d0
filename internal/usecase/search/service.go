// Package search turns validated requests into scoped vector store queries:
// it builds the predicate tree, embeds the query text, runs the KNN search,
// and retries once without soft filters when the constrained query comes
// back empty.
package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/veldt-labs/scout/internal/db"
	"github.com/veldt-labs/scout/internal/domain"
	"github.com/veldt-labs/scout/internal/domain/schema"
	"github.com/veldt-labs/scout/internal/domain/search/filter"
	"github.com/veldt-labs/scout/internal/domain/search/request"
	"github.com/veldt-labs/scout/internal/domain/search/result"
	"github.com/veldt-labs/scout/internal/metrics"
	"github.com/veldt-labs/scout/internal/usecase/reconcile"
)

// Service executes scoped similarity searches for one domain.
type Service struct {
	store        Searcher
	embedder     domain.Embedder
	indexes      IndexEnsurer
	sch          schema.Schema
	indexName    string
	docPrefix    string
	returnFields []string
	logger       *zap.Logger
}

// New creates a search service. keyPrefix is the global key namespace the
// domain's index and documents live under.
func New(
	store Searcher,
	embedder domain.Embedder,
	indexes IndexEnsurer,
	sch schema.Schema,
	keyPrefix string,
	logger *zap.Logger,
) *Service {
	fields := []string{db.FieldContent, db.FieldVectorScore}
	for _, f := range sch.Fields() {
		fields = append(fields, f.Name)
	}

	return &Service{
		store:        store,
		embedder:     embedder,
		indexes:      indexes,
		sch:          sch,
		indexName:    reconcile.IndexName(keyPrefix, sch.Domain()),
		docPrefix:    reconcile.KeyPrefix(keyPrefix, sch.Domain()),
		returnFields: fields,
		logger:       logger,
	}
}

// Search runs a KNN query constrained by the request's predicate tree.
// An empty result with soft conditions present triggers exactly one retry
// with the soft conditions dropped; storage errors are never retried.
func (s *Service) Search(ctx context.Context, req request.Request) ([]result.Match, error) {
	start := time.Now()
	dom := string(s.sch.Domain())

	matches, err := s.search(ctx, req)
	metrics.SearchDuration.WithLabelValues(dom).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SearchesTotal.WithLabelValues(dom, "error").Inc()
		return nil, err
	}

	metrics.SearchesTotal.WithLabelValues(dom, "ok").Inc()
	metrics.SearchResultsReturned.WithLabelValues(dom).Observe(float64(len(matches)))
	return matches, nil
}

func (s *Service) search(ctx context.Context, req request.Request) ([]result.Match, error) {
	if err := s.indexes.Ensure(ctx); err != nil {
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}

	expr, err := BuildFilter(s.sch, req)
	if err != nil {
		return nil, err
	}

	emb, err := s.embedder.Embed(ctx, req.Query())
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	res, err := s.query(ctx, expr, emb.Embedding, req.Limit())
	if err != nil {
		return nil, err
	}

	if len(res.Entries) == 0 && len(expr.Should()) > 0 {
		metrics.SearchFallbacksTotal.WithLabelValues(string(s.sch.Domain())).Inc()
		s.logger.Info("empty result, retrying without soft filters",
			zap.String("domain", string(s.sch.Domain())),
			zap.String("scope", req.ScopeID()),
			zap.Int("dropped_conditions", len(expr.Should())),
		)

		res, err = s.query(ctx, expr.WithoutShould(), emb.Embedding, req.Limit())
		if err != nil {
			return nil, err
		}
	}

	return s.toMatches(res), nil
}

func (s *Service) query(ctx context.Context, expr filter.Expression, vector []float32, limit int) (*db.SearchResult, error) {
	res, err := s.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    s.indexName,
		Filters:      expr,
		Vector:       vector,
		K:            limit,
		ReturnFields: s.returnFields,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: knn search: %w", domain.ErrStorage, err)
	}
	return res, nil
}

func (s *Service) toMatches(res *db.SearchResult) []result.Match {
	matches := make([]result.Match, 0, len(res.Entries))
	for _, entry := range res.Entries {
		content := entry.Fields[db.FieldContent]

		payload := make(map[string]string, len(entry.Fields))
		for k, v := range entry.Fields {
			if k == db.FieldContent || k == db.FieldVector {
				continue
			}
			payload[k] = v
		}

		id := strings.TrimPrefix(entry.Key, s.docPrefix)
		matches = append(matches, result.New(id, entry.Score, content, payload))
	}
	return matches
}
