package utils

import (
	"strings"

	"github.com/agnosticeng/chain-index/internal/config"
	"github.com/urfave/cli/v2"
)

var ConfigFlag = &cli.StringFlag{
	Name:    "config",
	Aliases: []string{"c"},
	Usage:   "path of a YAML configuration file",
	EnvVars: []string{config.EnvPrefix + "CONFIG"},
}

func ParseKeyValues(kvs []string, separator string) map[string]interface{} {
	var m = make(map[string]interface{})

	for _, kv := range kvs {
		var k, v, _ = strings.Cut(kv, separator)
		m[k] = v
	}

	return m
}
