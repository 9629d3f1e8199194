package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kkteam/tripflow/internal/analytics"
	"github.com/kkteam/tripflow/internal/config"
	"github.com/kkteam/tripflow/internal/server"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the trip analytics HTTP API",
		Long: `Start the JSON API over the stored trips: listings, statistics,
insights, hourly patterns, top routes, and outlier analysis.`,
		RunE: runServe,
	}

	defaults := config.Default()
	cmd.Flags().String("host", defaults.Server.Host, "listen host")
	cmd.Flags().Int("port", defaults.Server.Port, "listen port")
	_ = viper.BindPFlag("server.host", cmd.Flags().Lookup("host"))
	_ = viper.BindPFlag("server.port", cmd.Flags().Lookup("port"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	svc := analytics.NewService(store)
	return server.New(cfg.Server, svc).Start(ctx)
}
