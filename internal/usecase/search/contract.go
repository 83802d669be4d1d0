package search

import (
	"context"

	"github.com/veldt-labs/scout/internal/db"
)

// Searcher is the vector store contract the executor consumes.
type Searcher interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// IndexEnsurer guards that the domain's index and fields exist before a
// query runs. Cheap after the first successful call.
type IndexEnsurer interface {
	Ensure(ctx context.Context) error
}
