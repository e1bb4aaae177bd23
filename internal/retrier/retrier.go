package retrier

import (
	"context"
	"errors"
	"fmt"

	chproto "github.com/ClickHouse/ch-go/proto"
	"github.com/ClickHouse/clickhouse-go/v2/lib/proto"
	"github.com/agnosticeng/chain-index/internal/engine"
	"github.com/gocql/gocql"
	"github.com/samber/lo"
	slogctx "github.com/veqryn/slog-context"
)

type RetryStrategy struct {
	MaxBatchSizeMultiplier float64
}

// Execute writes rows like engine.Execute. When a chunk fails because the
// store is overloaded, the rows from that chunk on are written again with a
// chunk size shrunk by MaxBatchSizeMultiplier, until the size cannot shrink
// anymore.
func Execute(
	ctx context.Context,
	eng *engine.Engine,
	kind engine.BulkInsertKind,
	rows []engine.Row,
	strat RetryStrategy,
) error {
	if strat.MaxBatchSizeMultiplier == 0 {
		strat.MaxBatchSizeMultiplier = 0.8
	}

	if !(strat.MaxBatchSizeMultiplier > 0 && strat.MaxBatchSizeMultiplier < 1) {
		return fmt.Errorf("invalid MaxBatchSizeMultiplier value: %f", strat.MaxBatchSizeMultiplier)
	}

	var fam = eng.BatchFamily(kind)

	if fam == nil {
		return fmt.Errorf("unknown bulk insert kind %d", int(kind))
	}

	var (
		logger       = slogctx.FromCtx(ctx)
		lower, _     = fam.Range()
		maxBatchSize = eng.Config().MaxBatchSize
	)

	for {
		_, err := eng.ExecuteChunked(ctx, kind, rows, maxBatchSize)

		if err == nil {
			return nil
		}

		xerr, ok := lo.ErrorsAs[*engine.ExecutionError](err)

		if !ok || !IsOverload(xerr.Err) {
			return err
		}

		var newMaxBatchSize = int(float64(maxBatchSize) * strat.MaxBatchSizeMultiplier)

		if newMaxBatchSize < lower || newMaxBatchSize >= maxBatchSize {
			return err
		}

		logger.Warn(
			"store overloaded, will retry with lower batch size",
			"kind", kind.String(),
			"chunk", xerr.Chunk,
			"current", maxBatchSize,
			"new", newMaxBatchSize,
			"error", xerr.Err.Error(),
		)

		rows = rows[xerr.Chunk*maxBatchSize:]
		maxBatchSize = newMaxBatchSize
	}
}

// IsOverload reports whether err means the store could not keep up with the
// size of a write.
func IsOverload(err error) bool {
	if errors.Is(err, gocql.ErrTimeoutNoResponse) {
		return true
	}

	if rerr, ok := lo.ErrorsAs[gocql.RequestError](err); ok {
		switch rerr.Code() {
		case gocql.ErrCodeWriteTimeout, gocql.ErrCodeOverloaded:
			return true
		}
	}

	if ex, ok := lo.ErrorsAs[*proto.Exception](err); ok {
		return chproto.Error(ex.Code) == chproto.ErrMemoryLimitExceeded
	}

	return false
}
