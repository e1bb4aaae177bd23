package lookup

import (
	"encoding/hex"
	"fmt"

	"github.com/agnosticeng/chain-index/internal/config"
	"github.com/agnosticeng/chain-index/internal/engine"
	"github.com/agnosticeng/chain-index/internal/rows"
	"github.com/agnosticeng/chain-index/internal/store"
	"github.com/agnosticeng/chain-index/internal/utils"
	"github.com/goccy/go-json"
	"github.com/urfave/cli/v2"
)

var Flags = []cli.Flag{
	utils.ConfigFlag,
	&cli.StringFlag{Name: "kind", Required: true},
	&cli.StringSliceFlag{Name: "key", Usage: "hex encoded lookup key, repeatable for txi_by_transaction_hash"},
}

func Command() *cli.Command {
	return &cli.Command{
		Name:  "lookup",
		Usage: "run a select kind and print its rows as JSON",
		Flags: Flags,
		Action: func(ctx *cli.Context) error {
			kind, err := engine.ParseSelectKind(ctx.String("kind"))

			if err != nil {
				return err
			}

			var keys [][]byte

			for _, s := range ctx.StringSlice("key") {
				key, err := hex.DecodeString(s)

				if err != nil {
					return fmt.Errorf("invalid key %q: %w", s, err)
				}

				keys = append(keys, key)
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

			res, err := rows.Lookup(ctx.Context, eng, kind, keys)

			if err != nil {
				return err
			}

			js, err := json.MarshalIndent(res, "", "  ")

			if err != nil {
				return err
			}

			fmt.Println(string(js))
			return nil
		},
	}
}
