package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
	slogctx "github.com/veqryn/slog-context"
)

// Chunk splits rows into contiguous chunks of at most size elements, keeping
// their order. Empty input yields no chunk.
func Chunk[T any](rows []T, size int) [][]T {
	if len(rows) == 0 {
		return nil
	}

	return lo.Chunk(rows, size)
}

// Execute writes rows with the batch family of kind, in chunks of at most the
// configured max batch size.
func (eng *Engine) Execute(ctx context.Context, kind BulkInsertKind, rows []Row) ([]Ack, error) {
	return eng.ExecuteChunked(ctx, kind, rows, eng.conf.MaxBatchSize)
}

// ExecuteRows is Execute for a slice of a concrete row type.
func ExecuteRows[T Row](ctx context.Context, eng *Engine, kind BulkInsertKind, rows []T) ([]Ack, error) {
	return eng.Execute(ctx, kind, lo.Map(rows, func(row T, _ int) Row { return row }))
}

// ExecuteChunked writes rows in chunks of at most maxChunkSize rows. Chunks are
// sent one after the other; the first failing chunk stops the write and is
// reported in an *ExecutionError. Chunks written before the failure stay
// written.
func (eng *Engine) ExecuteChunked(
	ctx context.Context,
	kind BulkInsertKind,
	rows []Row,
	maxChunkSize int,
) ([]Ack, error) {
	if kind < 0 || kind >= numBulkInsertKinds {
		return nil, fmt.Errorf("unknown bulk insert kind %d", int(kind))
	}

	if maxChunkSize < 1 {
		return nil, fmt.Errorf("chunk size must be at least 1, got %d", maxChunkSize)
	}

	var acks = []Ack{}

	if len(rows) == 0 {
		return acks, nil
	}

	var (
		logger  = slogctx.FromCtx(ctx)
		fam     = eng.batches[kind]
		metrics = eng.metrics.Batches[kind]
		values  = make([][]any, len(rows))
	)

	for i, row := range rows {
		v, err := row.Values()

		if err != nil {
			return nil, &SerializationError{Kind: kind.String(), Index: i, Err: err}
		}

		values[i] = v
	}

	var (
		chunks = Chunk(values, maxChunkSize)
		plans  = make([]*BatchPlan, len(chunks))
	)

	for i, chunk := range chunks {
		plan, ok := fam.Plan(len(chunk))

		if !ok {
			var lower, upper = fam.Range()
			return nil, &InvariantViolationError{Kind: kind.String(), ChunkSize: len(chunk), Min: lower, Max: upper}
		}

		plans[i] = plan
	}

	for i, chunk := range chunks {
		var (
			start     = i * maxChunkSize
			chunkRows = rows[start : start+len(chunk)]
			t0        = time.Now()
		)

		if err := ctx.Err(); err != nil {
			return nil, &ExecutionError{Kind: kind.String(), Chunk: i, Rows: chunkRows, Err: err}
		}

		res, err := eng.session.Batch(ctx, plans[i], chunk)

		if err != nil {
			metrics.Errors.Inc(1)
			return nil, &ExecutionError{Kind: kind.String(), Chunk: i, Rows: chunkRows, Err: err}
		}

		metrics.Chunks.Inc(1)
		metrics.Rows.Inc(int64(len(chunk)))
		metrics.ChunkDuration.RecordDuration(time.Since(t0))

		logger.Debug(
			"chunk written",
			"kind", kind.String(),
			"chunk", i,
			"chunks", len(chunks),
			"size", len(chunk),
			"duration", time.Since(t0),
		)

		acks = append(acks, Ack{
			Chunk:    i,
			Size:     len(chunk),
			Attempts: res.Attempts,
			Latency:  res.Latency,
		})
	}

	return acks, nil
}
