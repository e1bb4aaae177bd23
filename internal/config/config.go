package config

import (
	"fmt"
	"strings"

	"github.com/agnosticeng/chain-index/internal/engine"
	"github.com/agnosticeng/chain-index/internal/queries"
	"github.com/agnosticeng/chain-index/internal/store"
	"github.com/hashicorp/go-multierror"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/mitchellh/mapstructure"
)

const EnvPrefix = "CHAIN_INDEX_"

type Config struct {
	Keyspace    string
	Replication string
	Engine      engine.Config
	Store       store.Config
}

func (conf Config) WithDefaults() Config {
	if len(conf.Keyspace) == 0 {
		conf.Keyspace = "chain_index"
	}

	if len(conf.Store.Cassandra.Keyspace) == 0 {
		conf.Store.Cassandra.Keyspace = conf.Keyspace
	}

	conf.Engine = conf.Engine.WithDefaults()
	conf.Store = conf.Store.WithDefaults()
	return conf
}

func (conf Config) Validate() error {
	var res *multierror.Error

	if err := conf.Engine.Validate(); err != nil {
		res = multierror.Append(res, err)
	}

	if _, err := conf.Store.Dialect(); err != nil {
		res = multierror.Append(res, err)
	}

	return res.ErrorOrNil()
}

// Vars returns the variables query and schema templates are rendered with.
func (conf Config) Vars() map[string]interface{} {
	var vars = map[string]interface{}{"Keyspace": conf.Keyspace}

	if len(conf.Replication) > 0 {
		vars["Replication"] = conf.Replication
	}

	return vars
}

// Queries renders the query of every statement kind for the configured backend.
func (conf Config) Queries() (engine.QuerySet, error) {
	dialect, err := conf.Store.Dialect()

	if err != nil {
		return nil, err
	}

	return queries.Load(dialect, conf.Vars())
}

// Load reads the configuration from an optional YAML file, then from
// environment variables. Field names match in any case, with or without
// underscores: max_batch_size, maxBatchSize and MaxBatchSize all set
// MaxBatchSize. Variable names are the upper cased path of the field with "__"
// between levels: CHAIN_INDEX_ENGINE__MAX_BATCH_SIZE sets Engine.MaxBatchSize
// and CHAIN_INDEX_ENGINE__STATEMENTS__TXO_SPENT_UPDATE__CONSISTENCY overrides
// the consistency of txo_spent_update. List values are comma separated.
func Load(path string) (Config, error) {
	var (
		k   = koanf.New(".")
		cfg Config
	)

	if len(path) > 0 {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return cfg, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return cfg, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
				mapstructure.TextUnmarshallerHookFunc(),
			),
			MatchName:        matchName,
			WeaklyTypedInput: true,
			Result:           &cfg,
		},
	}); err != nil {
		return cfg, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg = cfg.WithDefaults()

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// envKey maps CHAIN_INDEX_A__B_C to a.b_c.
func envKey(s string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(s, EnvPrefix), "__", "."))
}

func matchName(key string, field string) bool {
	return strings.EqualFold(strings.ReplaceAll(key, "_", ""), field)
}
