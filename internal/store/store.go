package store

import (
	"context"
	"fmt"

	"github.com/agnosticeng/chain-index/internal/engine"
	"github.com/agnosticeng/chain-index/internal/queries"
	"github.com/agnosticeng/chain-index/internal/store/cassandra"
	"github.com/agnosticeng/chain-index/internal/store/clickhouse"
)

const (
	Cassandra  = "cassandra"
	ClickHouse = "clickhouse"
)

type Config struct {
	Backend    string
	Cassandra  cassandra.Config
	ClickHouse clickhouse.Config
}

func (conf Config) WithDefaults() Config {
	if len(conf.Backend) == 0 {
		conf.Backend = Cassandra
	}

	conf.Cassandra = conf.Cassandra.WithDefaults()
	conf.ClickHouse = conf.ClickHouse.WithDefaults()
	return conf
}

func (conf Config) Dialect() (queries.Dialect, error) {
	switch conf.Backend {
	case Cassandra:
		return queries.CQL, nil
	case ClickHouse:
		return queries.ClickHouse, nil
	default:
		return "", fmt.Errorf("unknown store backend %q", conf.Backend)
	}
}

// Store is a session the engine can run on, which can also bootstrap its own
// schema.
type Store interface {
	engine.Session
	EnsureSchema(ctx context.Context, vars map[string]interface{}) error
	Close() error
}

func Open(ctx context.Context, conf Config) (Store, error) {
	switch conf.Backend {
	case Cassandra:
		return cassandra.NewSession(ctx, conf.Cassandra)
	case ClickHouse:
		return clickhouse.NewSession(ctx, conf.ClickHouse)
	default:
		return nil, fmt.Errorf("unknown store backend %q", conf.Backend)
	}
}
