package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ocalint/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE:  runConfig,
	}
	cmd.Flags().String("format", "toml", "encoding of the printed configuration (toml|yaml)")
	cmd.Flags().String("config", "", "configuration file to load instead of discovering one")
	cmd.Flags().Bool("no-config", false, "print the built-in defaults")
	return cmd
}

func runConfig(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return usageError(fmt.Errorf("failed to get format flag: %w", err))
	}
	opts := defaultCheckOptions()
	if opts.configPath, err = cmd.Flags().GetString("config"); err != nil {
		return usageError(fmt.Errorf("failed to get config flag: %w", err))
	}
	if opts.noConfig, err = cmd.Flags().GetBool("no-config"); err != nil {
		return usageError(fmt.Errorf("failed to get no-config flag: %w", err))
	}
	cfg, err := loadConfig(opts)
	if err != nil {
		return usageError(err)
	}
	data, err := config.Encode(cfg, strings.ToLower(format))
	if err != nil {
		return usageError(err)
	}

	out := cmd.OutOrStdout()
	source := cfg.Source
	if source == "" {
		source = "built-in defaults"
	}
	fmt.Fprintf(out, "# source: %s\n", source)
	_, err = out.Write(data)
	return err
}
