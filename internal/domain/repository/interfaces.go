package repository

import (
	"context"
	"time"

	"VolDash/internal/domain/models"
)

// TableStore loads the precomputed source tables. Implementations read only;
// they never write the backing files.
type TableStore interface {
	Load(ctx context.Context, name models.TableName) (*models.Table, error)
	LoadAll(ctx context.Context) (*models.Tables, error)
}

type Metrics interface {
	RecordTableLoaded(table string, rows int, d time.Duration)
	RecordChartBuild(kind, outcome string)
	RecordSelectionRows(kind string, rows int)
	RecordCacheResult(kind string, hit bool)
	RecordError(kind string)
}
