package cassandra

import (
	"context"
	"fmt"
	"time"

	"github.com/agnosticeng/chain-index/internal/engine"
	"github.com/agnosticeng/chain-index/internal/queries"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
	slogctx "github.com/veqryn/slog-context"
)

type statement string

func (s statement) Query() string { return string(s) }

// Session implements engine.Session on top of a gocql session. Statements are
// prepared lazily by the driver on first use and cached per connection.
type Session struct {
	conf    Config
	session *gocql.Session
}

func NewSession(ctx context.Context, conf Config) (*Session, error) {
	conf = conf.WithDefaults()

	cluster, err := ClusterConfig(conf)

	if err != nil {
		return nil, err
	}

	session, err := cluster.CreateSession()

	if err != nil {
		return nil, fmt.Errorf("failed to connect to %v: %w", conf.Hosts, err)
	}

	slogctx.FromCtx(ctx).Debug("cassandra session created", "hosts", conf.Hosts, "keyspace", conf.Keyspace)

	return &Session{conf: conf, session: session}, nil
}

// Prepare checks that the table targeted by query exists in the cluster schema.
func (s *Session) Prepare(ctx context.Context, query string) (engine.Compiled, error) {
	keyspace, table, err := queries.TableRef(query)

	if err != nil {
		return nil, err
	}

	if len(keyspace) == 0 {
		keyspace = s.conf.Keyspace
	}

	md, err := s.session.KeyspaceMetadata(keyspace)

	if err != nil {
		return nil, fmt.Errorf("failed to fetch metadata of keyspace %s: %w", keyspace, err)
	}

	if _, ok := md.Tables[table]; !ok {
		return nil, fmt.Errorf("table %s.%s does not exist", keyspace, table)
	}

	return statement(query), nil
}

// CompileBatch builds the driver batch entries of plan once. Batch copies them
// and binds the row values.
func (s *Session) CompileBatch(ctx context.Context, plan *engine.BatchPlan) (any, error) {
	return batchEntries(plan), nil
}

func (s *Session) Batch(ctx context.Context, plan *engine.BatchPlan, values [][]any) (engine.BatchResult, error) {
	if len(values) != plan.Size() {
		return engine.BatchResult{}, fmt.Errorf("plan of size %d bound to %d rows", plan.Size(), len(values))
	}

	tmpl, ok := plan.Compiled().([]gocql.BatchEntry)

	if !ok {
		tmpl = batchEntries(plan)
	}

	var (
		b  = s.session.NewBatch(plan.Type()).WithContext(ctx)
		t0 = time.Now()
	)

	b.SetConsistency(plan.Consistency())
	b.Entries = bindEntries(tmpl, values)

	if err := s.session.ExecuteBatch(b); err != nil {
		return engine.BatchResult{}, err
	}

	return engine.BatchResult{Attempts: b.Attempts(), Latency: time.Since(t0)}, nil
}

func (s *Session) Exec(ctx context.Context, stmt *engine.PreparedStatement, values []any) error {
	return s.query(ctx, stmt, values).Exec()
}

func (s *Session) Iter(ctx context.Context, stmt *engine.PreparedStatement, values []any) (engine.RowStream, error) {
	var iter = s.query(ctx, stmt, values).Iter()
	return &rowStream{iter: iter, scanner: iter.Scanner()}, nil
}

func (s *Session) query(ctx context.Context, stmt *engine.PreparedStatement, values []any) *gocql.Query {
	return s.session.Query(stmt.Query(), bind(values)...).
		WithContext(ctx).
		Consistency(stmt.Consistency()).
		Idempotent(stmt.Idempotent())
}

func (s *Session) Close() error {
	s.session.Close()
	return nil
}

// EnsureSchema runs every statement of the CQL schema, in order.
func (s *Session) EnsureSchema(ctx context.Context, vars map[string]interface{}) error {
	var logger = slogctx.FromCtx(ctx)

	stmts, err := queries.Schema(queries.CQL, vars)

	if err != nil {
		return err
	}

	for i, stmt := range stmts {
		if err := s.session.Query(stmt).WithContext(ctx).Consistency(gocql.All).Exec(); err != nil {
			return fmt.Errorf("failed to execute schema statement %d: %w", i, err)
		}

		logger.Debug("schema statement executed", "index", i)
	}

	return nil
}

func batchEntries(plan *engine.BatchPlan) []gocql.BatchEntry {
	var entries = make([]gocql.BatchEntry, plan.Size())

	for i := range entries {
		entries[i] = gocql.BatchEntry{
			Stmt:       plan.Statement(i).Query(),
			Idempotent: plan.Idempotent(),
		}
	}

	return entries
}

// bindEntries returns a copy of tmpl with values[i] bound to the i-th entry.
func bindEntries(tmpl []gocql.BatchEntry, values [][]any) []gocql.BatchEntry {
	var entries = make([]gocql.BatchEntry, len(tmpl))
	copy(entries, tmpl)

	for i, v := range values {
		entries[i].Args = bind(v)
	}

	return entries
}

// bind converts values to types gocql knows how to marshal.
func bind(values []any) []any {
	var res = make([]any, len(values))

	for i, v := range values {
		switch v := v.(type) {
		case uuid.UUID:
			res[i] = gocql.UUID(v)
		default:
			res[i] = v
		}
	}

	return res
}

type rowStream struct {
	iter    *gocql.Iter
	scanner gocql.Scanner
}

func (rs *rowStream) Next() bool { return rs.scanner.Next() }
func (rs *rowStream) Scan(dest ...any) error { return rs.scanner.Scan(dest...) }
func (rs *rowStream) Err() error { return rs.scanner.Err() }
func (rs *rowStream) Close() error { return rs.iter.Close() }
