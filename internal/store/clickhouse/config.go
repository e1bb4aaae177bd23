package clickhouse

import (
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/iancoleman/strcase"
)

type Config struct {
	Dsn             string
	MaxOpenConns    int
	MaxConnLifetime time.Duration
	Settings        map[string]any
}

func (conf Config) WithDefaults() Config {
	if len(conf.Dsn) == 0 {
		conf.Dsn = "tcp://127.0.0.1:9000"
	}

	if conf.MaxOpenConns == 0 {
		conf.MaxOpenConns = 4
	}

	if conf.MaxConnLifetime == 0 {
		conf.MaxConnLifetime = time.Hour
	}

	return conf
}

func Options(conf Config) (*clickhouse.Options, error) {
	opts, err := clickhouse.ParseDSN(conf.Dsn)

	if err != nil {
		return nil, err
	}

	opts.MaxOpenConns = conf.MaxOpenConns
	opts.MaxIdleConns = conf.MaxOpenConns
	opts.ConnMaxLifetime = conf.MaxConnLifetime
	opts.Settings = NormalizeSettings(conf.Settings)
	return opts, nil
}

// NormalizeSettings converts setting keys to snake case, so that they can be
// written in any case in configuration files.
func NormalizeSettings(settings map[string]any) clickhouse.Settings {
	var m = make(clickhouse.Settings)

	for k, v := range settings {
		m[strcase.ToSnake(k)] = v
	}

	return m
}
