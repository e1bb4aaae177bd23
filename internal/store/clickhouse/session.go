package clickhouse

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/agnosticeng/chain-index/internal/engine"
	"github.com/agnosticeng/chain-index/internal/queries"
	"github.com/samber/lo"
	slogctx "github.com/veqryn/slog-context"
)

type statement string

func (s statement) Query() string { return string(s) }

// Session implements engine.Session on top of a ClickHouse connection pool.
// Every batch plan maps to one native INSERT block, so consistency levels and
// batch types are ignored.
type Session struct {
	conn driver.Conn
}

func NewSession(ctx context.Context, conf Config) (*Session, error) {
	opts, err := Options(conf.WithDefaults())

	if err != nil {
		return nil, err
	}

	conn, err := clickhouse.Open(opts)

	if err != nil {
		return nil, err
	}

	if err := conn.Ping(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping clickhouse: %w", err)
	}

	return &Session{conn: conn}, nil
}

func isInsert(query string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(query)), "INSERT")
}

// Prepare has the server check query: inserts open a batch which is then
// aborted, other statements describe their target table.
func (s *Session) Prepare(ctx context.Context, query string) (engine.Compiled, error) {
	if isInsert(query) {
		b, err := s.conn.PrepareBatch(ctx, query)

		if err != nil {
			return nil, err
		}

		if err := b.Abort(); err != nil {
			return nil, err
		}

		return statement(query), nil
	}

	keyspace, table, err := queries.TableRef(query)

	if err != nil {
		return nil, err
	}

	var ref = table

	if len(keyspace) > 0 {
		ref = keyspace + "." + table
	}

	rows, err := s.conn.Query(ctx, "DESCRIBE TABLE "+ref)

	if err != nil {
		return nil, err
	}

	if err := rows.Close(); err != nil {
		return nil, err
	}

	return statement(query), nil
}

func (s *Session) Batch(ctx context.Context, plan *engine.BatchPlan, values [][]any) (engine.BatchResult, error) {
	if len(values) != plan.Size() {
		return engine.BatchResult{}, fmt.Errorf("plan of size %d bound to %d rows", plan.Size(), len(values))
	}

	var (
		logger = slogctx.FromCtx(ctx)
		md     QueryMetadata
		t0     = time.Now()
	)

	b, err := s.conn.PrepareBatch(md.Context(ctx), plan.Statement(0).Query())

	if err != nil {
		return engine.BatchResult{}, err
	}

	for _, v := range values {
		if err := b.Append(bind(v)...); err != nil {
			b.Abort()
			return engine.BatchResult{}, err
		}
	}

	if err := b.Send(); err != nil {
		return engine.BatchResult{}, err
	}

	LogQueryMetadata(ctx, logger, slog.LevelDebug, "batch sent", &md)
	return engine.BatchResult{Attempts: 1, Latency: time.Since(t0)}, nil
}

func (s *Session) Exec(ctx context.Context, stmt *engine.PreparedStatement, values []any) error {
	var (
		logger = slogctx.FromCtx(ctx)
		md     QueryMetadata
	)

	var err = s.conn.Exec(md.Context(ctx), stmt.Query(), bind(values)...)
	LogQueryMetadata(ctx, logger, slog.LevelDebug, stmt.Name(), &md)
	return err
}

func (s *Session) Iter(ctx context.Context, stmt *engine.PreparedStatement, values []any) (engine.RowStream, error) {
	rows, err := s.conn.Query(ctx, stmt.Query(), bind(values)...)

	if err != nil {
		return nil, err
	}

	return &rowStream{rows: rows}, nil
}

func (s *Session) Close() error {
	return s.conn.Close()
}

// EnsureSchema runs every statement of the ClickHouse schema, in order.
func (s *Session) EnsureSchema(ctx context.Context, vars map[string]interface{}) error {
	var logger = slogctx.FromCtx(ctx)

	stmts, err := queries.Schema(queries.ClickHouse, vars)

	if err != nil {
		return err
	}

	for i, stmt := range stmts {
		var md QueryMetadata

		if err := s.conn.Exec(md.Context(ctx), stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement %d: %w", i, err)
		}

		LogQueryMetadata(ctx, logger, slog.LevelDebug, "schema statement executed", &md)
	}

	return nil
}

// bind sends byte strings as String values.
func bind(values []any) []any {
	return lo.Map(values, func(v any, _ int) any {
		switch v := v.(type) {
		case []byte:
			return string(v)
		case [][]byte:
			return lo.Map(v, func(b []byte, _ int) string { return string(b) })
		default:
			return v
		}
	})
}

type rowStream struct {
	rows driver.Rows
}

func (rs *rowStream) Next() bool { return rs.rows.Next() }
func (rs *rowStream) Err() error { return rs.rows.Err() }
func (rs *rowStream) Close() error { return rs.rows.Close() }

// Scan reads String columns into []byte destinations through a string.
func (rs *rowStream) Scan(dest ...any) error {
	var (
		args = make([]any, len(dest))
		strs = make(map[int]*string)
	)

	for i, d := range dest {
		if _, ok := d.(*[]byte); ok {
			var s string
			strs[i] = &s
			args[i] = &s
		} else {
			args[i] = d
		}
	}

	if err := rs.rows.Scan(args...); err != nil {
		return err
	}

	for i, s := range strs {
		*(dest[i].(*[]byte)) = []byte(*s)
	}

	return nil
}
