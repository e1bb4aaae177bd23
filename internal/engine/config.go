package engine

import (
	"fmt"

	"github.com/gocql/gocql"
	"github.com/hashicorp/go-multierror"
	"github.com/samber/lo"
)

const (
	DefaultMinBatchSize = 1
	DefaultMaxBatchSize = 30
)

// StatementConfig overrides the defaults of one statement kind. Consistency is
// a consistency level name such as "QUORUM" or "LOCAL_ONE".
type StatementConfig struct {
	Consistency string
	Idempotent  *bool
	Logged      *bool
}

type Config struct {
	MinBatchSize int
	MaxBatchSize int
	Statements   map[string]StatementConfig
}

func (conf Config) WithDefaults() Config {
	if conf.MinBatchSize <= 0 {
		conf.MinBatchSize = DefaultMinBatchSize
	}

	if conf.MaxBatchSize <= 0 {
		conf.MaxBatchSize = max(DefaultMaxBatchSize, conf.MinBatchSize)
	}

	return conf
}

func (conf Config) Validate() error {
	var res *multierror.Error

	if conf.MinBatchSize < 1 {
		res = multierror.Append(res, fmt.Errorf("min batch size must be at least 1, got %d", conf.MinBatchSize))
	}

	if conf.MaxBatchSize < conf.MinBatchSize {
		res = multierror.Append(
			res,
			fmt.Errorf("max batch size %d is lower than min batch size %d", conf.MaxBatchSize, conf.MinBatchSize),
		)
	}

	for name, stmt := range conf.Statements {
		if !isKnownKind(name) {
			res = multierror.Append(res, fmt.Errorf("unknown statement %q", name))
			continue
		}

		if len(stmt.Consistency) > 0 {
			if _, err := gocql.ParseConsistencyWrapper(stmt.Consistency); err != nil {
				res = multierror.Append(res, fmt.Errorf("statement %s: %w", name, err))
			}
		}

		if stmt.Logged != nil && !lo.Contains(bulkInsertKindNames[:], name) {
			res = multierror.Append(res, fmt.Errorf("statement %s: batch type only applies to bulk inserts", name))
		}
	}

	return res.ErrorOrNil()
}

type statementSettings struct {
	consistency gocql.Consistency
	idempotent  bool
	logged      bool
}

var (
	defaultInsertSettings = statementSettings{consistency: gocql.Any, idempotent: true}
	defaultSelectSettings = statementSettings{consistency: gocql.Quorum, idempotent: true}
	defaultUpsertSettings = statementSettings{consistency: gocql.All, idempotent: true}
)

// settings resolves the effective settings of a statement. Validate must have
// been called on conf.
func (conf Config) settings(name string, defaults statementSettings) statementSettings {
	var (
		res      = defaults
		stmt, ok = conf.Statements[name]
	)

	if !ok {
		return res
	}

	if len(stmt.Consistency) > 0 {
		res.consistency = gocql.ParseConsistency(stmt.Consistency)
	}

	if stmt.Idempotent != nil {
		res.idempotent = *stmt.Idempotent
	}

	if stmt.Logged != nil {
		res.logged = *stmt.Logged
	}

	return res
}
