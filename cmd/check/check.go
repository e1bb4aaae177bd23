package check

import (
	"errors"
	"fmt"
	"time"

	"github.com/agnosticeng/chain-index/internal/config"
	"github.com/agnosticeng/chain-index/internal/engine"
	"github.com/agnosticeng/chain-index/internal/store"
	"github.com/agnosticeng/chain-index/internal/utils"
	"github.com/hashicorp/go-multierror"
	"github.com/urfave/cli/v2"
	slogctx "github.com/veqryn/slog-context"
)

var Flags = []cli.Flag{
	utils.ConfigFlag,
	&cli.IntFlag{Name: "parallelism", Value: 8},
}

func Command() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "prepare every statement against the configured store and report all failures",
		Flags: Flags,
		Action: func(ctx *cli.Context) error {
			var logger = slogctx.FromCtx(ctx.Context)

			cfg, err := config.Load(ctx.String("config"))

			if err != nil {
				return err
			}

			qs, err := cfg.Queries()

			if err != nil {
				return err
			}

			st, err := store.Open(ctx.Context, cfg.Store)

			if err != nil {
				return err
			}

			defer st.Close()

			var t0 = time.Now()

			eng, err := engine.New(
				ctx.Context,
				st,
				qs,
				cfg.Engine,
				engine.WithPrepareParallelism(ctx.Int("parallelism")),
			)

			if err != nil {
				var merr *multierror.Error

				if !errors.As(err, &merr) {
					return err
				}

				for _, e := range merr.Errors {
					fmt.Println(e.Error())
				}

				return fmt.Errorf("%d statements failed to prepare", len(merr.Errors))
			}

			var lower, upper = eng.Config().MinBatchSize, eng.Config().MaxBatchSize

			logger.Info(
				"all statements prepared",
				"backend", cfg.Store.Backend,
				"statements", len(qs),
				"batch_sizes", fmt.Sprintf("%d-%d", lower, upper),
				"duration", time.Since(t0),
			)

			return nil
		},
	}
}
