package engine

import (
	"context"
	"fmt"
	"time"
)

// Select runs the prepared SELECT of kind and returns a lazy row stream. The
// caller must close the stream.
func (eng *Engine) Select(ctx context.Context, kind SelectKind, params Row) (RowStream, error) {
	if kind < 0 || kind >= numSelectKinds {
		return nil, fmt.Errorf("unknown select kind %d", int(kind))
	}

	var (
		stmt    = eng.selects[kind]
		metrics = eng.metrics.Selects[kind]
		t0      = time.Now()
	)

	values, err := params.Values()

	if err != nil {
		return nil, &SerializationError{Kind: kind.String(), Err: err}
	}

	stream, err := eng.session.Iter(ctx, stmt, values)

	if err != nil {
		metrics.Errors.Inc(1)
		return nil, &ExecutionError{Kind: kind.String(), Err: err}
	}

	metrics.Chunks.Inc(1)
	metrics.ChunkDuration.RecordDuration(time.Since(t0))
	return stream, nil
}

// Upsert runs the prepared single-row write of kind.
func (eng *Engine) Upsert(ctx context.Context, kind UpsertKind, params Row) error {
	if kind < 0 || kind >= numUpsertKinds {
		return fmt.Errorf("unknown upsert kind %d", int(kind))
	}

	var (
		stmt    = eng.upserts[kind]
		metrics = eng.metrics.Upserts[kind]
		t0      = time.Now()
	)

	values, err := params.Values()

	if err != nil {
		return &SerializationError{Kind: kind.String(), Err: err}
	}

	if err := eng.session.Exec(ctx, stmt, values); err != nil {
		metrics.Errors.Inc(1)
		return &ExecutionError{Kind: kind.String(), Err: err}
	}

	metrics.Chunks.Inc(1)
	metrics.Rows.Inc(1)
	metrics.ChunkDuration.RecordDuration(time.Since(t0))
	return nil
}

// Drain reads every remaining row of stream with scan and closes it.
func Drain[T any](stream RowStream, scan func(RowStream) (T, error)) ([]T, error) {
	var res []T

	for stream.Next() {
		row, err := scan(stream)

		if err != nil {
			stream.Close()
			return nil, err
		}

		res = append(res, row)
	}

	if err := stream.Err(); err != nil {
		stream.Close()
		return nil, err
	}

	if err := stream.Close(); err != nil {
		return nil, err
	}

	return res, nil
}
