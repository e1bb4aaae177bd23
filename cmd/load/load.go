package load

import (
	"fmt"
	"io"
	"os"

	"github.com/agnosticeng/chain-index/internal/config"
	"github.com/agnosticeng/chain-index/internal/engine"
	"github.com/agnosticeng/chain-index/internal/retrier"
	"github.com/agnosticeng/chain-index/internal/rows"
	"github.com/agnosticeng/chain-index/internal/store"
	"github.com/agnosticeng/chain-index/internal/utils"
	"github.com/urfave/cli/v2"
	slogctx "github.com/veqryn/slog-context"
)

var Flags = []cli.Flag{
	utils.ConfigFlag,
	&cli.StringFlag{Name: "kind", Required: true},
	&cli.Float64Flag{Name: "max-batch-size-multiplier", Value: 0.8},
}

func Command() *cli.Command {
	return &cli.Command{
		Name:      "load",
		Usage:     "write rows of a bulk insert kind read as JSON lines from a file, or stdin with -",
		ArgsUsage: "PATH",
		Flags:     Flags,
		Action: func(ctx *cli.Context) error {
			var (
				logger = slogctx.FromCtx(ctx.Context)
				path   = ctx.Args().Get(0)
				r      io.Reader
			)

			if len(path) == 0 {
				return fmt.Errorf("a path must be specified")
			}

			kind, err := engine.ParseBulkInsertKind(ctx.String("kind"))

			if err != nil {
				return err
			}

			if path == "-" {
				r = os.Stdin
			} else {
				f, err := os.Open(path)

				if err != nil {
					return err
				}

				defer f.Close()
				r = f
			}

			rs, err := rows.DecodeLines(kind, r)

			if err != nil {
				return err
			}

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

			eng, err := engine.New(ctx.Context, st, qs, cfg.Engine)

			if err != nil {
				return err
			}

			if err := retrier.Execute(
				ctx.Context,
				eng,
				kind,
				rs,
				retrier.RetryStrategy{MaxBatchSizeMultiplier: ctx.Float64("max-batch-size-multiplier")},
			); err != nil {
				return err
			}

			logger.Info("rows written", "kind", kind.String(), "rows", len(rs))
			return nil
		},
	}
}
