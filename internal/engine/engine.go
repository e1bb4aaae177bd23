package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/agnosticeng/chain-index/internal/worker"
	"github.com/gocql/gocql"
	"github.com/uber-go/tally/v4"
	slogctx "github.com/veqryn/slog-context"
)

// QuerySet holds the query text of every statement, keyed by kind name.
type QuerySet map[string]string

type Option func(*options)

type options struct {
	scope              tally.Scope
	prepareParallelism int
}

// WithMetrics reports chunk and statement metrics to scope.
func WithMetrics(scope tally.Scope) Option {
	return func(o *options) { o.scope = scope }
}

// WithPrepareParallelism bounds the number of statements prepared at once.
func WithPrepareParallelism(n int) Option {
	return func(o *options) { o.prepareParallelism = n }
}

// Engine holds every prepared statement and batch family of a session. It is
// immutable once New returns and may be shared by any number of goroutines.
type Engine struct {
	session Session
	conf    Config
	metrics *Metrics
	batches [numBulkInsertKinds]*BatchFamily
	selects [numSelectKinds]*PreparedStatement
	upserts [numUpsertKinds]*PreparedStatement
}

// New prepares every statement and batch family on session. All preparations
// run concurrently and are all awaited; if any of them failed, every failure is
// returned and no Engine is built. The caller keeps ownership of session.
func New(
	ctx context.Context,
	session Session,
	queries QuerySet,
	conf Config,
	opts ...Option,
) (*Engine, error) {
	var o = options{scope: tally.NoopScope}

	for _, opt := range opts {
		opt(&o)
	}

	conf = conf.WithDefaults()

	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}

	var (
		logger = slogctx.FromCtx(ctx)
		eng    = &Engine{
			session: session,
			conf:    conf,
			metrics: NewMetrics(o.scope),
		}
		tasks []func(context.Context) error
		t0    = time.Now()
	)

	for _, kind := range BulkInsertKinds() {
		tasks = append(tasks, func(ctx context.Context) error {
			var (
				name = kind.String()
				s    = conf.settings(name, defaultInsertSettings)
			)

			query, err := lookupQuery(queries, name)

			if err != nil {
				return err
			}

			fam, err := PrepareBatchFamily(ctx, session, name, query, BatchConfig{
				MinSize:     conf.MinBatchSize,
				MaxSize:     conf.MaxBatchSize,
				Consistency: s.consistency,
				Idempotent:  s.idempotent,
				Type:        batchType(s.logged),
			})

			if err != nil {
				return err
			}

			eng.batches[kind] = fam
			return nil
		})
	}

	for _, kind := range SelectKinds() {
		tasks = append(tasks, func(ctx context.Context) error {
			stmt, err := prepareKind(ctx, session, queries, conf, kind.String(), defaultSelectSettings)

			if err != nil {
				return err
			}

			eng.selects[kind] = stmt
			return nil
		})
	}

	for _, kind := range UpsertKinds() {
		tasks = append(tasks, func(ctx context.Context) error {
			stmt, err := prepareKind(ctx, session, queries, conf, kind.String(), defaultUpsertSettings)

			if err != nil {
				return err
			}

			eng.upserts[kind] = stmt
			return nil
		})
	}

	var err = worker.RunAll(
		ctx,
		len(tasks),
		o.prepareParallelism,
		func(ctx context.Context, i int) func() error {
			return func() error { return tasks[i](ctx) }
		},
	)

	if err != nil {
		return nil, err
	}

	logger.Debug(
		"engine prepared",
		"statements", len(tasks),
		"min_batch_size", conf.MinBatchSize,
		"max_batch_size", conf.MaxBatchSize,
		"duration", time.Since(t0),
	)

	return eng, nil
}

func (eng *Engine) Config() Config {
	return eng.conf
}

// BatchFamily returns the batch family of kind, or nil for an unknown kind.
func (eng *Engine) BatchFamily(kind BulkInsertKind) *BatchFamily {
	if kind < 0 || kind >= numBulkInsertKinds {
		return nil
	}

	return eng.batches[kind]
}

func (eng *Engine) SelectStatement(kind SelectKind) *PreparedStatement {
	if kind < 0 || kind >= numSelectKinds {
		return nil
	}

	return eng.selects[kind]
}

func (eng *Engine) UpsertStatement(kind UpsertKind) *PreparedStatement {
	if kind < 0 || kind >= numUpsertKinds {
		return nil
	}

	return eng.upserts[kind]
}

func prepareKind(
	ctx context.Context,
	session Session,
	queries QuerySet,
	conf Config,
	name string,
	defaults statementSettings,
) (*PreparedStatement, error) {
	query, err := lookupQuery(queries, name)

	if err != nil {
		return nil, err
	}

	var s = conf.settings(name, defaults)
	return Prepare(ctx, session, name, query, s.consistency, s.idempotent)
}

func lookupQuery(queries QuerySet, name string) (string, error) {
	var query, ok = queries[name]

	if !ok || len(query) == 0 {
		return "", &PreparationError{Statement: name, Err: fmt.Errorf("no query text")}
	}

	return query, nil
}

func batchType(logged bool) gocql.BatchType {
	if logged {
		return gocql.LoggedBatch
	}

	return gocql.UnloggedBatch
}
