package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ocalint/internal/diagfmt"
	"ocalint/internal/pytree"
)

func newTreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree [flags] <file.py>",
		Short: "Print the syntax tree rules see for a Python file",
		Args:  cobra.ExactArgs(1),
		RunE:  runTree,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func runTree(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return usageError(fmt.Errorf("failed to get format flag: %w", err))
	}
	if format != "pretty" && format != "json" {
		return usageError(fmt.Errorf("unknown tree format %q (expected pretty|json)", format))
	}

	src, err := os.ReadFile(args[0])
	if err != nil {
		return &exitError{code: exitFindings, err: fmt.Errorf("read %s: %w", args[0], err)}
	}
	tree, err := pytree.Parse(cmd.Context(), src)
	if err != nil {
		return &exitError{code: exitFindings, err: fmt.Errorf("parsing failed: %w", err)}
	}
	defer tree.Close()

	root := diagfmt.BuildTree(tree.Root())
	if format == "json" {
		return diagfmt.FormatTreeJSON(cmd.OutOrStdout(), root)
	}
	return diagfmt.FormatTreePretty(cmd.OutOrStdout(), root)
}
