package reconcile

import (
	"context"

	"github.com/veldt-labs/scout/internal/db"
)

// IndexManager is the storage contract the reconciler drives.
type IndexManager interface {
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	AlterIndexAdd(ctx context.Context, index string, field db.IndexField) error
	IndexExists(ctx context.Context, name string) (bool, error)
}
