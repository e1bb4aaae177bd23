package schema

import (
	"github.com/agnosticeng/chain-index/internal/config"
	"github.com/agnosticeng/chain-index/internal/store"
	"github.com/agnosticeng/chain-index/internal/utils"
	"github.com/urfave/cli/v2"
	slogctx "github.com/veqryn/slog-context"
)

var Flags = []cli.Flag{
	utils.ConfigFlag,
}

func Command() *cli.Command {
	return &cli.Command{
		Name:  "schema",
		Usage: "create the keyspace and tables of the configured store",
		Flags: Flags,
		Action: func(ctx *cli.Context) error {
			var logger = slogctx.FromCtx(ctx.Context)

			cfg, err := config.Load(ctx.String("config"))

			if err != nil {
				return err
			}

			st, err := store.Open(ctx.Context, cfg.Store)

			if err != nil {
				return err
			}

			defer st.Close()

			if err := st.EnsureSchema(ctx.Context, cfg.Vars()); err != nil {
				return err
			}

			logger.Info("schema ready", "backend", cfg.Store.Backend, "keyspace", cfg.Keyspace)
			return nil
		},
	}
}
