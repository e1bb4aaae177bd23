package clickhouse

import (
	"context"
	"log/slog"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
)

type QueryMetadata struct {
	Rows       uint64
	Bytes      uint64
	WroteRows  uint64
	WroteBytes uint64
	Elapsed    time.Duration
	Logs       int
}

func (md *QueryMetadata) progressHandler(p *clickhouse.Progress) {
	if p == nil {
		return
	}

	md.Rows += p.Rows
	md.Bytes += p.Bytes
	md.WroteRows += p.WroteRows
	md.WroteBytes += p.WroteBytes
	md.Elapsed += p.Elapsed
}

func (md *QueryMetadata) logHandler(*clickhouse.Log) {
	md.Logs++
}

// Context attaches progress and log handlers filling md to ctx.
func (md *QueryMetadata) Context(ctx context.Context) context.Context {
	return clickhouse.Context(
		ctx,
		clickhouse.WithProgress(md.progressHandler),
		clickhouse.WithLogs(md.logHandler),
	)
}

func LogQueryMetadata(ctx context.Context, logger *slog.Logger, level slog.Level, msg string, md *QueryMetadata) {
	if logger.Enabled(ctx, level) {
		logger.Log(
			ctx,
			level,
			msg,
			"rows", md.Rows,
			"bytes", md.Bytes,
			"wrote_rows", md.WroteRows,
			"wrote_bytes", md.WroteBytes,
			"elapsed", md.Elapsed,
			"logs", md.Logs,
		)
	}
}
