package main

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yoocash/idbroker/internal/settings"
)

func newProvidersCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "providers",
		Short: "List registered providers and their configuration state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listProviders(cmd, configPath)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "configs/config.yaml", "Path to YAML config")
	return cmd
}

func listProviders(cmd *cobra.Command, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	ctx := context.Background()
	registry := buildRegistry()
	store := settings.NewFSStore(cfg.Settings.Root)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PROVIDER\tENABLED\tREADY")
	for _, name := range registry.Names() {
		enabled, ready := false, false
		pc, err := store.ProviderConfig(ctx, name)
		switch {
		case err == nil:
			enabled = true
			ready = pc.ClientKey != ""
		case !errors.Is(err, settings.ErrNotConfigured):
			return fmt.Errorf("read settings for %s: %w", name, err)
		}
		fmt.Fprintf(w, "%s\t%v\t%v\n", name, enabled, ready)
	}
	return w.Flush()
}
