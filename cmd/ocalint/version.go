package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"ocalint/internal/diag"
	"ocalint/internal/version"
)

type versionPayload struct {
	Tool      string   `json:"tool"`
	Version   string   `json:"version"`
	GitCommit string   `json:"git_commit,omitempty"`
	BuildDate string   `json:"build_date,omitempty"`
	Rules     []string `json:"rules,omitempty"`
}

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show build information and the rule catalogue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := cmd.Flags().GetString("format")
			if err != nil {
				return usageError(fmt.Errorf("failed to get format flag: %w", err))
			}
			withRules, err := cmd.Flags().GetBool("rules")
			if err != nil {
				return usageError(fmt.Errorf("failed to get rules flag: %w", err))
			}
			switch strings.ToLower(format) {
			case "pretty":
				renderVersionPretty(cmd.OutOrStdout(), withRules)
				return nil
			case "json":
				return renderVersionJSON(cmd.OutOrStdout(), withRules)
			default:
				return usageError(fmt.Errorf("unsupported format %q (must be pretty or json)", format))
			}
		},
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	cmd.Flags().Bool("rules", false, "list every diagnostic code")
	return cmd
}

func renderVersionPretty(out io.Writer, withRules bool) {
	fmt.Fprintf(out, "ocalint %s\n", version.Colored())
	fmt.Fprintf(out, "commit: %s\n", valueOrUnknown(version.Commit()))
	fmt.Fprintf(out, "built:  %s\n", valueOrUnknown(version.BuildDate))
	if withRules {
		fmt.Fprintln(out)
		for _, c := range diag.Codes() {
			fmt.Fprintf(out, "  %s  %s\n", c.ID(), c.Title())
		}
	}
}

func renderVersionJSON(out io.Writer, withRules bool) error {
	payload := versionPayload{
		Tool:      "ocalint",
		Version:   version.Version,
		GitCommit: version.Commit(),
		BuildDate: version.BuildDate,
	}
	if withRules {
		for _, c := range diag.Codes() {
			payload.Rules = append(payload.Rules, c.ID()+" "+c.Title())
		}
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func valueOrUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
