package cassandra

import (
	"time"

	"github.com/gocql/gocql"
)

type Config struct {
	Hosts          []string
	Keyspace       string
	ProtoVersion   int
	Consistency    string
	Timeout        time.Duration
	ConnectTimeout time.Duration
	NumConns       int
	NumRetries     int
	Username       string
	Password       string
	Compression    bool
	LocalDC        string
}

func (conf Config) WithDefaults() Config {
	if len(conf.Hosts) == 0 {
		conf.Hosts = []string{"127.0.0.1:9042"}
	}

	if len(conf.Keyspace) == 0 {
		conf.Keyspace = "chain_index"
	}

	if conf.ProtoVersion == 0 {
		conf.ProtoVersion = 4
	}

	if len(conf.Consistency) == 0 {
		conf.Consistency = "QUORUM"
	}

	if conf.Timeout == 0 {
		conf.Timeout = 10 * time.Second
	}

	if conf.ConnectTimeout == 0 {
		conf.ConnectTimeout = 5 * time.Second
	}

	if conf.NumConns == 0 {
		conf.NumConns = 2
	}

	return conf
}

// ClusterConfig translates conf into a gocql cluster configuration. The
// keyspace is left unset so that the same cluster can bootstrap it.
func ClusterConfig(conf Config) (*gocql.ClusterConfig, error) {
	consistency, err := gocql.ParseConsistencyWrapper(conf.Consistency)

	if err != nil {
		return nil, err
	}

	var cluster = gocql.NewCluster(conf.Hosts...)

	cluster.ProtoVersion = conf.ProtoVersion
	cluster.Consistency = consistency
	cluster.Timeout = conf.Timeout
	cluster.ConnectTimeout = conf.ConnectTimeout
	cluster.NumConns = conf.NumConns

	if conf.NumRetries > 0 {
		cluster.RetryPolicy = &gocql.SimpleRetryPolicy{NumRetries: conf.NumRetries}
	}

	if len(conf.Username) > 0 {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: conf.Username,
			Password: conf.Password,
		}
	}

	if conf.Compression {
		cluster.Compressor = &gocql.SnappyCompressor{}
	}

	if len(conf.LocalDC) > 0 {
		cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(
			gocql.DCAwareRoundRobinPolicy(conf.LocalDC),
		)
	} else {
		cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(gocql.RoundRobinHostPolicy())
	}

	return cluster, nil
}
