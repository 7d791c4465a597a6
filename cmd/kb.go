package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/comp-cli/internal/store"
)

var kbCmd = &cobra.Command{
	Use:   "kb",
	Short: "Manage the internal salary benchmark store",
}

// -- kb init --

var kbSeedPath string

var kbInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Migrate the store and load seed benchmarks",
	Long:  "Runs store migrations and loads benchmark rows from a YAML seed file. Seeding is skipped when benchmarks already exist.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		n, err := store.SeedBenchmarks(ctx, st, kbSeedPath)
		if err != nil {
			return eris.Wrap(err, "seed benchmarks")
		}

		zap.L().Info("benchmark store ready", zap.Int("rows", n))
		fmt.Printf("Benchmark store ready with %d row(s)\n", n)
		return nil
	},
}

// -- kb status --

var kbStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show benchmark store status",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		count, err := st.CountBenchmarks(ctx)
		if err != nil {
			return eris.Wrap(err, "count benchmarks")
		}

		fmt.Printf("Driver:     %s\n", cfg.Store.Driver)
		fmt.Printf("Benchmarks: %d\n", count)
		return nil
	},
}

func init() {
	kbInitCmd.Flags().StringVar(&kbSeedPath, "seed", "benchmarks.yaml", "path to the YAML seed file")

	kbCmd.AddCommand(kbInitCmd)
	kbCmd.AddCommand(kbStatusCmd)
	rootCmd.AddCommand(kbCmd)
}
