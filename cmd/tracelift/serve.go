package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tracelift/internal/service"
	"tracelift/internal/toolchain/demo"
)

var serveCmd = &cobra.Command{
	Use:   "serve [flags]",
	Short: "Serve the compile-and-correlate pipeline over HTTP",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("config", "tracelift.toml", "path to the service manifest")
	serveCmd.Flags().String("listen", "", "listen address override")
}

func runServe(cmd *cobra.Command, args []string) error {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	listen, err := cmd.Flags().GetString("listen")
	if err != nil {
		return fmt.Errorf("failed to get listen flag: %w", err)
	}

	cfg, err := service.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if listen != "" {
		cfg.Listen = listen
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	quiet, _ := rootCmd.PersistentFlags().GetBool("quiet")
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "listening on %s\n", cfg.Listen)
	}
	return service.New(cfg, demo.New()).Run(ctx)
}
