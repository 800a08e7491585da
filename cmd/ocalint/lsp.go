package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"ocalint/internal/config"
	"ocalint/internal/lsp"
)

func newLSPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Run the ocalint language server over stdio",
		Args:  cobra.NoArgs,
		RunE:  runLSP,
	}
	cmd.Flags().String("config", "", "configuration file to use instead of discovering one in the workspace")
	cmd.Flags().Bool("no-config", false, "use the built-in defaults")
	cmd.Flags().Duration("debounce", 0, "delay between the last edit and re-analysis (0 = server default)")
	return cmd
}

func runLSP(cmd *cobra.Command, _ []string) error {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return usageError(fmt.Errorf("failed to get config flag: %w", err))
	}
	noConfig, err := cmd.Flags().GetBool("no-config")
	if err != nil {
		return usageError(fmt.Errorf("failed to get no-config flag: %w", err))
	}
	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return usageError(fmt.Errorf("failed to get debounce flag: %w", err))
	}

	opts := lsp.ServerOptions{Debounce: debounce, Log: cmd.ErrOrStderr()}
	switch {
	case noConfig:
		opts.Config = config.Default()
	case configPath != "":
		if opts.Config, err = config.Load(configPath); err != nil {
			return usageError(err)
		}
	}

	server := lsp.NewServer(cmd.InOrStdin(), cmd.OutOrStdout(), opts)
	if err := server.Run(cmd.Context()); err != nil {
		if errors.Is(err, lsp.ErrExit) {
			return nil
		}
		if errors.Is(err, lsp.ErrExitWithoutShutdown) {
			return &exitError{code: 1, err: errors.New("lsp exit without shutdown")}
		}
		return err
	}
	return nil
}
