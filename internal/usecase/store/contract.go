package store

import (
	"context"

	"github.com/veldt-labs/scout/internal/db"
)

// DocumentWriter is the hash storage contract the service consumes.
type DocumentWriter interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
}

// IndexEnsurer guards that the domain's index exists before documents land
// under its prefix.
type IndexEnsurer interface {
	Ensure(ctx context.Context) error
}
