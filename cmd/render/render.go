package render

import (
	"fmt"

	"github.com/agnosticeng/chain-index/internal/engine"
	"github.com/agnosticeng/chain-index/internal/queries"
	"github.com/agnosticeng/chain-index/internal/utils"
	"github.com/urfave/cli/v2"
)

var Flags = []cli.Flag{
	&cli.StringFlag{Name: "dialect", Value: string(queries.CQL)},
	&cli.StringSliceFlag{Name: "var"},
	&cli.BoolFlag{Name: "schema"},
}

func Command() *cli.Command {
	return &cli.Command{
		Name:  "render",
		Usage: "print the queries of every statement kind, or the schema, for a dialect",
		Flags: Flags,
		Action: func(ctx *cli.Context) error {
			var (
				dialect = queries.Dialect(ctx.String("dialect"))
				vars    = utils.ParseKeyValues(ctx.StringSlice("var"), "=")
			)

			if _, ok := vars["Keyspace"]; !ok {
				vars["Keyspace"] = "chain_index"
			}

			if ctx.Bool("schema") {
				stmts, err := queries.Schema(dialect, vars)

				if err != nil {
					return err
				}

				for _, stmt := range stmts {
					fmt.Printf("%s;\n\n", stmt)
				}

				return nil
			}

			qs, err := queries.Load(dialect, vars)

			if err != nil {
				return err
			}

			for _, name := range engine.KindNames() {
				fmt.Println("--------------------------------------------------------------------------------")
				fmt.Println(name)
				fmt.Println("--------------------------------------------------------------------------------")
				fmt.Println(qs[name])
			}

			return nil
		},
	}
}
