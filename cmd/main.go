package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/agnosticeng/chain-index/cmd/check"
	"github.com/agnosticeng/chain-index/cmd/load"
	"github.com/agnosticeng/chain-index/cmd/lookup"
	"github.com/agnosticeng/chain-index/cmd/render"
	"github.com/agnosticeng/chain-index/cmd/schema"
	"github.com/agnosticeng/chain-index/cmd/syncstatus"
	"github.com/agnosticeng/panicsafe"
	"github.com/agnosticeng/slogcli"
	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.App{
		Name:   "chain-index",
		Flags:  slogcli.SlogFlags(),
		Before: slogcli.SlogBefore,
		Commands: []*cli.Command{
			render.Command(),
			schema.Command(),
			check.Command(),
			load.Command(),
			lookup.Command(),
			syncstatus.Command(),
		},
	}

	var err = panicsafe.Recover(func() error { return app.Run(os.Args) })

	if err != nil {
		slog.Error(fmt.Sprintf("%v", err))
		os.Exit(1)
	}
}
