package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber-go/tally/v4"
)

type badRow struct{}

func (badRow) Values() ([]any, error) { return nil, fmt.Errorf("cannot encode") }

func makeRows(n int) []Row {
	var rows = make([]Row, n)

	for i := range rows {
		rows[i] = Values{i, fmt.Sprintf("row-%d", i)}
	}

	return rows
}

func TestChunk(t *testing.T) {
	for n := 0; n <= 40; n++ {
		for size := 1; size <= 7; size++ {
			var (
				input  = make([]int, n)
				joined []int
			)

			for i := range input {
				input[i] = i
			}

			var chunks = Chunk(input, size)
			require.Len(t, chunks, (n+size-1)/size, "n=%d size=%d", n, size)

			for _, c := range chunks {
				require.NotEmpty(t, c)
				require.LessOrEqual(t, len(c), size)
				joined = append(joined, c...)
			}

			if n == 0 {
				require.Empty(t, joined)
			} else {
				require.Equal(t, input, joined)
			}
		}
	}
}

func TestExecuteEmptyIssuesNoRequest(t *testing.T) {
	var (
		session = newFakeSession()
		eng     = newTestEngine(t, session, Config{MaxBatchSize: 10})
	)

	acks, err := eng.Execute(context.Background(), TxiInsert, nil)
	require.NoError(t, err)
	require.NotNil(t, acks)
	require.Empty(t, acks)
	require.Empty(t, session.batches)
}

func TestExecuteUsesExactSizePlans(t *testing.T) {
	var (
		session = newFakeSession()
		eng     = newTestEngine(t, session, Config{MinBatchSize: 1, MaxBatchSize: 100})
		rows    = makeRows(250)
	)

	acks, err := eng.Execute(context.Background(), TxoAdaInsert, rows)
	require.NoError(t, err)
	require.Equal(t, []int{100, 100, 50}, session.batchSizes())
	require.Len(t, acks, 3)

	for i, size := range []int{100, 100, 50} {
		assert.Equal(t, i, acks[i].Chunk)
		assert.Equal(t, size, acks[i].Size)
		assert.Equal(t, 1, acks[i].Attempts)

		plan, _ := eng.BatchFamily(TxoAdaInsert).Plan(size)
		assert.Same(t, plan, session.batches[i].plan)
	}

	// rows reach the store in their original order
	var written = session.tables[TxoAdaInsert.String()]
	require.Len(t, written, 250)

	for i, v := range written {
		assert.Equal(t, i, v[0])
	}
}

func TestExecuteSmallRange(t *testing.T) {
	var (
		session = newFakeSession()
		eng     = newTestEngine(t, session, Config{MinBatchSize: 1, MaxBatchSize: 2})
	)

	_, err := eng.Execute(context.Background(), TxiInsert, makeRows(3))
	require.NoError(t, err)
	require.Equal(t, []int{2, 1}, session.batchSizes())
}

func TestExecuteChunkedBelowConfiguredMax(t *testing.T) {
	var (
		session = newFakeSession()
		eng     = newTestEngine(t, session, Config{MaxBatchSize: 10})
	)

	acks, err := eng.ExecuteChunked(context.Background(), TxiInsert, makeRows(7), 3)
	require.NoError(t, err)
	require.Len(t, acks, 3)
	require.Equal(t, []int{3, 3, 1}, session.batchSizes())

	_, err = eng.ExecuteChunked(context.Background(), TxiInsert, makeRows(7), 0)
	require.Error(t, err)
}

func TestExecuteStopsAtFailingChunk(t *testing.T) {
	var (
		session  = newFakeSession()
		eng      = newTestEngine(t, session, Config{MaxBatchSize: 4})
		rows     = makeRows(14)
		storeErr = fmt.Errorf("write timeout")
	)

	session.failOnBatch = 2
	session.batchErr = storeErr

	acks, err := eng.Execute(context.Background(), StakeRegistrationInsert, rows)
	require.Error(t, err)
	require.Nil(t, acks)
	require.ErrorIs(t, err, storeErr)

	var xerr *ExecutionError
	require.True(t, errors.As(err, &xerr))
	assert.Equal(t, "stake_registration_insert", xerr.Kind)
	assert.Equal(t, 1, xerr.Chunk)
	assert.Equal(t, rows[4:8], xerr.Rows)
	assert.Contains(t, err.Error(), "query=stake_registration_insert, chunk=1")

	// chunk 1 was written, chunk 2 was issued and failed, chunks 3 and 4 never left
	require.Len(t, session.batches, 2)
	assert.Len(t, session.tables[StakeRegistrationInsert.String()], 4)
}

func TestExecuteMissingPlanIsInvariantViolation(t *testing.T) {
	var (
		session = newFakeSession()
		eng     = newTestEngine(t, session, Config{MinBatchSize: 3, MaxBatchSize: 5})
	)

	_, err := eng.Execute(context.Background(), TxiInsert, makeRows(7))
	require.Error(t, err)

	var ierr *InvariantViolationError
	require.True(t, errors.As(err, &ierr))
	assert.Equal(t, "txi_insert", ierr.Kind)
	assert.Equal(t, 2, ierr.ChunkSize)
	assert.Equal(t, 3, ierr.Min)
	assert.Equal(t, 5, ierr.Max)
	assert.Contains(t, err.Error(), "no batch plan of size 2 for txi_insert")
	assert.Empty(t, session.batches)

	_, err = eng.ExecuteChunked(context.Background(), TxiInsert, makeRows(7), 6)
	require.True(t, errors.As(err, &ierr))
	assert.Equal(t, 6, ierr.ChunkSize)
}

func TestExecuteSerializationFailureWritesNothing(t *testing.T) {
	var (
		session = newFakeSession()
		eng     = newTestEngine(t, session, Config{MaxBatchSize: 2})
		rows    = append(makeRows(5), badRow{})
	)

	_, err := eng.Execute(context.Background(), Cip36RegistrationInsert, rows)
	require.Error(t, err)

	var serr *SerializationError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, 5, serr.Index)
	assert.Equal(t, "cip36_registration_insert", serr.Kind)
	assert.Empty(t, session.batches)
}

func TestExecuteCancelledContext(t *testing.T) {
	var (
		session     = newFakeSession()
		eng         = newTestEngine(t, session, Config{MaxBatchSize: 2})
		ctx, cancel = context.WithCancel(context.Background())
	)

	cancel()

	_, err := eng.Execute(ctx, TxiInsert, makeRows(3))
	require.ErrorIs(t, err, context.Canceled)

	var xerr *ExecutionError
	require.True(t, errors.As(err, &xerr))
	assert.Equal(t, 0, xerr.Chunk)
	assert.Empty(t, session.batches)
}

func TestExecuteKindsAreIsolated(t *testing.T) {
	var (
		session = newFakeSession()
		eng     = newTestEngine(t, session, Config{MaxBatchSize: 3})
	)

	_, err := eng.Execute(context.Background(), TxoAssetInsert, makeRows(7))
	require.NoError(t, err)

	for _, b := range session.batches {
		for i := 0; i < b.plan.Size(); i++ {
			assert.Equal(t, "INSERT INTO txo_asset_insert", b.plan.Statement(i).Query())
		}
	}

	assert.Len(t, session.tables, 1)
}

func TestExecuteConcurrentCallers(t *testing.T) {
	var (
		session = newFakeSession()
		eng     = newTestEngine(t, session, Config{MaxBatchSize: 4})
		wg      sync.WaitGroup
	)

	for _, kind := range BulkInsertKinds() {
		wg.Add(1)

		go func() {
			defer wg.Done()
			_, err := eng.Execute(context.Background(), kind, makeRows(9))
			assert.NoError(t, err)
		}()
	}

	wg.Wait()

	assert.Len(t, session.batches, int(numBulkInsertKinds)*3)

	for _, kind := range BulkInsertKinds() {
		assert.Len(t, session.tables[kind.String()], 9)
	}
}

func TestExecuteRows(t *testing.T) {
	var (
		session = newFakeSession()
		eng     = newTestEngine(t, session, Config{MaxBatchSize: 2})
	)

	acks, err := ExecuteRows(context.Background(), eng, TxiInsert, []Values{{1}, {2}, {3}})
	require.NoError(t, err)
	require.Len(t, acks, 2)
}

func TestExecuteMetrics(t *testing.T) {
	var (
		scope   = tally.NewTestScope("", nil)
		session = newFakeSession()
	)

	eng, err := New(context.Background(), session, testQueries(), Config{MaxBatchSize: 4}, WithMetrics(scope))
	require.NoError(t, err)

	_, err = eng.Execute(context.Background(), TxiInsert, makeRows(10))
	require.NoError(t, err)

	var chunks, rows int64

	for _, c := range scope.Snapshot().Counters() {
		if c.Tags()["kind"] != "txi_insert" {
			continue
		}

		switch c.Name() {
		case "batch.chunks":
			chunks = c.Value()
		case "batch.rows":
			rows = c.Value()
		}
	}

	assert.EqualValues(t, 3, chunks)
	assert.EqualValues(t, 10, rows)
}
