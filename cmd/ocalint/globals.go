package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// autoSwitch is the value of an auto|on|off flag such as --color or --ui.
type autoSwitch string

const (
	switchAuto autoSwitch = "auto"
	switchOn   autoSwitch = "on"
	switchOff  autoSwitch = "off"
)

func parseAutoSwitch(flag, value string) (autoSwitch, error) {
	v := autoSwitch(strings.ToLower(strings.TrimSpace(value)))
	switch v {
	case "":
		return switchAuto, nil
	case switchAuto, switchOn, switchOff:
		return v, nil
	}
	return "", fmt.Errorf("invalid --%s value %q (expected auto|on|off)", flag, value)
}

// enabledFor resolves auto against the stream the feature writes to.
func (s autoSwitch) enabledFor(f *os.File) bool {
	switch s {
	case switchOn:
		return true
	case switchOff:
		return false
	}
	return isTerminal(f)
}

type globalOptions struct {
	color       autoSwitch
	jobs        int
	timings     bool
	ui          autoSwitch
	metricsFile string
}

func readGlobals(cmd *cobra.Command) (globalOptions, error) {
	pf := cmd.Root().PersistentFlags()
	var g globalOptions
	for _, sw := range []struct {
		flag string
		dst  *autoSwitch
	}{{"color", &g.color}, {"ui", &g.ui}} {
		raw, err := pf.GetString(sw.flag)
		if err != nil {
			return g, fmt.Errorf("failed to get %s flag: %w", sw.flag, err)
		}
		if *sw.dst, err = parseAutoSwitch(sw.flag, raw); err != nil {
			return g, err
		}
	}
	var err error
	if g.jobs, err = pf.GetInt("jobs"); err != nil {
		return g, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if g.jobs < 0 {
		return g, fmt.Errorf("--jobs must not be negative, got %d", g.jobs)
	}
	if g.timings, err = pf.GetBool("timings"); err != nil {
		return g, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if g.metricsFile, err = pf.GetString("metrics-file"); err != nil {
		return g, fmt.Errorf("failed to get metrics-file flag: %w", err)
	}
	return g, nil
}

// colorFor resolves --color against the stream output goes to.
func (g globalOptions) colorFor(f *os.File) bool { return g.color.enabledFor(f) }

// progressUI reports whether the progress view runs. It draws on stderr.
func (g globalOptions) progressUI() bool { return g.ui.enabledFor(os.Stderr) }
