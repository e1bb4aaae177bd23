package engine

import (
	"context"
	"time"
)

// Session is the store handle the engine is built on. Implementations must be
// safe for concurrent use; the engine never closes it.
type Session interface {
	// Prepare compiles query on the store. It is called once per statement
	// during engine construction.
	Prepare(ctx context.Context, query string) (Compiled, error)
	// Batch executes every statement of plan in one request, binding values[i]
	// to the i-th statement. len(values) always equals plan.Size().
	Batch(ctx context.Context, plan *BatchPlan, values [][]any) (BatchResult, error)
	// Exec runs stmt once without paging.
	Exec(ctx context.Context, stmt *PreparedStatement, values []any) error
	// Iter runs stmt and returns a paged row stream.
	Iter(ctx context.Context, stmt *PreparedStatement, values []any) (RowStream, error)
}

// BatchCompiler is implemented by sessions that build store-side state for a
// batch plan ahead of time. It is called once for every plan of every batch
// family during engine construction; the value it returns is kept by the plan
// and available through BatchPlan.Compiled.
type BatchCompiler interface {
	CompileBatch(ctx context.Context, plan *BatchPlan) (any, error)
}

// Compiled is the store-side handle of a prepared statement.
type Compiled interface {
	Query() string
}

type BatchResult struct {
	Attempts int
	Latency  time.Duration
}

// RowStream is a lazy, forward-only sequence of rows. Errors that occur while
// paging are reported by Err once Next returns false.
type RowStream interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// Row is one record to write or one set of query parameters.
type Row interface {
	Values() ([]any, error)
}

// Values adapts a plain parameter list to Row.
type Values []any

func (v Values) Values() ([]any, error) {
	return v, nil
}

// Ack acknowledges one chunk of a bulk write.
type Ack struct {
	Chunk    int
	Size     int
	Attempts int
	Latency  time.Duration
}
