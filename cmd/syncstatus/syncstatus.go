package syncstatus

import (
	"fmt"

	"github.com/agnosticeng/chain-index/internal/config"
	"github.com/agnosticeng/chain-index/internal/engine"
	"github.com/agnosticeng/chain-index/internal/rows"
	"github.com/agnosticeng/chain-index/internal/store"
	"github.com/agnosticeng/chain-index/internal/utils"
	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
	slogctx "github.com/veqryn/slog-context"
)

var Flags = []cli.Flag{
	utils.ConfigFlag,
	&cli.StringFlag{Name: "node-id"},
	&cli.Int64Flag{Name: "start-slot", Required: true},
	&cli.Int64Flag{Name: "end-slot", Required: true},
}

func Command() *cli.Command {
	return &cli.Command{
		Name:  "sync-status",
		Usage: "record that a slot range has been indexed",
		Flags: Flags,
		Action: func(ctx *cli.Context) error {
			var (
				logger = slogctx.FromCtx(ctx.Context)
				nodeID = uuid.New()
			)

			if s := ctx.String("node-id"); len(s) > 0 {
				id, err := uuid.Parse(s)

				if err != nil {
					return fmt.Errorf("invalid node id: %w", err)
				}

				nodeID = id
			}

			var status = rows.NewSyncStatus(nodeID, ctx.Int64("start-slot"), ctx.Int64("end-slot"))

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

			if err := eng.Upsert(ctx.Context, engine.SyncStatusInsert, status); err != nil {
				return err
			}

			logger.Info("sync status recorded", "node_id", nodeID, "start_slot", status.StartSlot, "end_slot", status.EndSlot)
			return nil
		},
	}
}
