package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/tos-network/dasnode/config"
	"github.com/tos-network/dasnode/store"
)

var commandInspect = &cli.Command{
	Name:      "inspect",
	Usage:     "print the stored header ranges and head of the configured store",
	ArgsUsage: " ",
	Description: `
Opens the configured header store and prints the head height, the
set of contiguous stored ranges, and the next height still awaiting a
sampling result.
`,
	Flags: []cli.Flag{
		dataDirFlag,
		backendFlag,
		fromFlag,
		toFlag,
	},
	Action: func(ctx *cli.Context) error {
		cfg, err := loadConfigOrDefault(ctx)
		if err != nil {
			fatalf("%v", err)
		}
		if v := ctx.String(dataDirFlag.Name); v != "" {
			cfg.Store.DataDir = v
		}
		if v := ctx.String(backendFlag.Name); v != "" {
			cfg.Store.Backend = config.StoreBackend(v)
		}

		s, closeStore, err := openStore(cfg.Store)
		if err != nil {
			fatalf("opening store: %v", err)
		}
		defer closeStore()

		return printInspection(context.Background(), s, ctx)
	},
}

func printInspection(ctx context.Context, s store.Store, cliCtx *cli.Context) error {
	head, err := s.HeadHeight(ctx)
	if err != nil {
		return fmt.Errorf("reading head height: %w", err)
	}
	fmt.Println("Head height:", head)

	ranges, err := s.GetStoredHeaderRanges(ctx)
	if err != nil {
		return fmt.Errorf("reading stored ranges: %w", err)
	}
	fmt.Println("Stored ranges:")
	for _, r := range ranges.Ranges() {
		fmt.Printf("  [%d, %d]\n", r.Start, r.End)
	}

	next, err := s.NextUnsampledHeight(ctx)
	if err != nil {
		return fmt.Errorf("reading next unsampled height: %w", err)
	}
	fmt.Println("Next unsampled height:", next)

	if from, to := cliCtx.Uint64(fromFlag.Name), cliCtx.Uint64(toFlag.Name); from != 0 && to != 0 {
		headers, err := s.GetRangeByHeight(ctx, from, to)
		if err != nil {
			return fmt.Errorf("reading range [%d, %d]: %w", from, to, err)
		}
		fmt.Printf("Headers in [%d, %d]: %d\n", from, to, len(headers))
	}
	return nil
}
