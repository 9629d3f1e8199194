package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kkteam/tripflow/internal/common"
	"github.com/kkteam/tripflow/internal/config"
	"github.com/kkteam/tripflow/internal/pipeline"
)

func ingestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <file.csv>",
		Short: "Ingest trip records from a CSV file",
		Long: `Read raw trip records from a header-bearing CSV file, validate them,
derive per-trip features, and store the valid trips in batches.

Records that fail validation are written to the data quality log with
the issue that rejected them.`,
		Args: cobra.ExactArgs(1),
		RunE: runIngest,
	}

	defaults := config.Default()
	cmd.Flags().Int("batch-size", defaults.Ingest.BatchSize, "trips per storage batch")
	cmd.Flags().Int("max-records", defaults.Ingest.MaxValidRecords, "stop after this many valid records")
	_ = viper.BindPFlag("ingest.batch_size", cmd.Flags().Lookup("batch-size"))
	_ = viper.BindPFlag("ingest.max_valid_records", cmd.Flags().Lookup("max-records"))

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	src, err := pipeline.OpenCSV(args[0])
	if err != nil {
		return common.NewUserError("could not read input file", err)
	}
	defer func() { _ = src.Close() }()

	p := pipeline.New(cfg, store)
	p.ProgressOutput = os.Stderr

	stats, err := p.Run(ctx, src)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	slog.Info("Run summary",
		"run_id", stats.RunID,
		"total", stats.Total,
		"valid", stats.Valid,
		"invalid", stats.Invalid,
		"duplicates", stats.Duplicates,
		"success_rate", fmt.Sprintf("%.1f%%", stats.SuccessRate))
	for _, kc := range stats.Issues {
		slog.Info("Issue", "type", kc.Kind, "count", kc.Count)
	}

	return nil
}
