// Package db defines the storage contracts the server consumes: an FT index
// lifecycle, KNN search, and hash-based document storage. Implementations
// live in subpackages (redis).
package db

import (
	"context"
	"time"
)

// Store is the main database facade combining all sub-interfaces.
// Consumers depend on the narrow sub-interfaces.
type Store interface {
	Pinger
	DocumentStore
	IndexManager
	Searcher
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HashSetItem holds a single key+fields pair for pipelined HSET.
type HashSetItem struct {
	Key    string
	Fields map[string]string
}

// DocumentStore provides hash-based document writes. Reads happen through
// the search index, so no read side is exposed here.
type DocumentStore interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetMulti(ctx context.Context, items []HashSetItem) error
}

// IndexManager provides FT index lifecycle operations. CreateIndex returns
// ErrIndexExists when the index is already present; AlterIndexAdd returns
// ErrFieldExists when the field is already part of the schema. Both are
// success conditions for an idempotent reconciler.
type IndexManager interface {
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	AlterIndexAdd(ctx context.Context, index string, field IndexField) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Searcher provides KNN search over FT indexes.
type Searcher interface {
	SearchKNN(ctx context.Context, q *KNNQuery) (*SearchResult, error)
}
