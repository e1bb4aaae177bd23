package retrier

import (
	"context"
	"fmt"
	"sync"
	"testing"

	chproto "github.com/ClickHouse/ch-go/proto"
	"github.com/ClickHouse/clickhouse-go/v2/lib/proto"
	"github.com/agnosticeng/chain-index/internal/engine"
	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type compiled string

func (c compiled) Query() string { return string(c) }

type overloaded struct{}

func (overloaded) Error() string { return "overloaded" }
func (overloaded) Code() int { return gocql.ErrCodeOverloaded }
func (overloaded) Message() string { return "overloaded" }

// limitSession rejects every batch larger than limit with err, and the
// failAt-th batch whatever its size.
type limitSession struct {
	lock    sync.Mutex
	limit   int
	failAt  int
	err     error
	sizes   []int
	written int
}

func (s *limitSession) Prepare(ctx context.Context, query string) (engine.Compiled, error) {
	return compiled(query), nil
}

func (s *limitSession) Batch(ctx context.Context, plan *engine.BatchPlan, values [][]any) (engine.BatchResult, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.sizes = append(s.sizes, plan.Size())

	if plan.Size() > s.limit || len(s.sizes) == s.failAt {
		return engine.BatchResult{}, s.err
	}

	s.written += len(values)
	return engine.BatchResult{Attempts: 1}, nil
}

func (s *limitSession) Exec(ctx context.Context, stmt *engine.PreparedStatement, values []any) error {
	return nil
}

func (s *limitSession) Iter(ctx context.Context, stmt *engine.PreparedStatement, values []any) (engine.RowStream, error) {
	return nil, fmt.Errorf("not implemented")
}

func newEngine(t *testing.T, session engine.Session, conf engine.Config) *engine.Engine {
	t.Helper()

	var queries = make(engine.QuerySet)

	for _, name := range engine.KindNames() {
		queries[name] = "INSERT INTO " + name
	}

	eng, err := engine.New(context.Background(), session, queries, conf)
	require.NoError(t, err)
	return eng
}

func makeRows(n int) []engine.Row {
	var rows = make([]engine.Row, n)

	for i := range rows {
		rows[i] = engine.Values{i}
	}

	return rows
}

func TestExecuteShrinksBatchSize(t *testing.T) {
	for _, storeErr := range []error{
		gocql.ErrTimeoutNoResponse,
		overloaded{},
		&proto.Exception{Code: int32(chproto.ErrMemoryLimitExceeded), Message: "memory limit exceeded"},
	} {
		var (
			session = &limitSession{limit: 6, err: storeErr}
			eng     = newEngine(t, session, engine.Config{MaxBatchSize: 10})
		)

		require.NoError(t, Execute(context.Background(), eng, engine.TxiInsert, makeRows(25), RetryStrategy{}))

		// 10 is rejected, 8 is rejected, 6 goes through
		assert.Equal(t, []int{10, 8, 6, 6, 6, 6, 1}, session.sizes)
		assert.Equal(t, 25, session.written)
	}
}

func TestExecuteSkipsWrittenChunks(t *testing.T) {
	var (
		session = &limitSession{limit: 10, failAt: 2, err: gocql.ErrTimeoutNoResponse}
		eng     = newEngine(t, session, engine.Config{MaxBatchSize: 4})
	)

	require.NoError(t, Execute(context.Background(), eng, engine.TxiInsert, makeRows(10), RetryStrategy{MaxBatchSizeMultiplier: 0.5}))

	// the first chunk is not written twice
	assert.Equal(t, []int{4, 4, 2, 2, 2}, session.sizes)
	assert.Equal(t, 10, session.written)
}

func TestExecuteGivesUp(t *testing.T) {
	var (
		session = &limitSession{limit: 0, err: gocql.ErrTimeoutNoResponse}
		eng     = newEngine(t, session, engine.Config{MinBatchSize: 2, MaxBatchSize: 4})
	)

	var err = Execute(context.Background(), eng, engine.TxiInsert, makeRows(8), RetryStrategy{MaxBatchSizeMultiplier: 0.5})
	require.ErrorIs(t, err, gocql.ErrTimeoutNoResponse)
	assert.Equal(t, []int{4, 2}, session.sizes)
}

func TestExecuteDoesNotRetryOtherErrors(t *testing.T) {
	var (
		storeErr = fmt.Errorf("unconfigured table")
		session  = &limitSession{limit: 0, err: storeErr}
		eng      = newEngine(t, session, engine.Config{MaxBatchSize: 4})
	)

	var err = Execute(context.Background(), eng, engine.TxiInsert, makeRows(8), RetryStrategy{})
	require.ErrorIs(t, err, storeErr)
	assert.Equal(t, []int{4}, session.sizes)
}

func TestExecuteRejectsInvalidMultiplier(t *testing.T) {
	var eng = newEngine(t, &limitSession{limit: 10}, engine.Config{})

	require.Error(t, Execute(context.Background(), eng, engine.TxiInsert, makeRows(1), RetryStrategy{MaxBatchSizeMultiplier: 1.5}))
}

func TestExecuteRejectsUnknownKind(t *testing.T) {
	var (
		session = &limitSession{limit: 10}
		eng     = newEngine(t, session, engine.Config{})
	)

	var err = Execute(context.Background(), eng, engine.BulkInsertKind(42), makeRows(3), RetryStrategy{})
	require.EqualError(t, err, "unknown bulk insert kind 42")
	assert.Empty(t, session.sizes)
}

func TestIsOverload(t *testing.T) {
	assert.True(t, IsOverload(fmt.Errorf("batch: %w", gocql.ErrTimeoutNoResponse)))
	assert.True(t, IsOverload(overloaded{}))
	assert.False(t, IsOverload(gocql.ErrNotFound))
	assert.False(t, IsOverload(&proto.Exception{Code: 60}))
}
