package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"ocalint/internal/prof"
	"ocalint/internal/version"
)

// app owns the command tree and whatever its pre-run hook opened.
type app struct {
	root     *cobra.Command
	cleanup  func()
	profiler *prof.Session
}

// newApp builds the command tree. Bare `ocalint <path>...` behaves as
// `ocalint check <path>...`.
func newApp() *app {
	a := &app{}
	root := &cobra.Command{
		Use:           "ocalint [paths...]",
		Short:         "Lint Odoo addons against OCA conventions",
		Long:          `ocalint checks Python sources and __manifest__.py files of Odoo addons and reports OCA001-OCA014 findings in a Ruff-compatible format`,
		Version:       version.Version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			g, err := readGlobals(cmd)
			if err != nil {
				return usageError(err)
			}
			color.NoColor = !g.colorFor(os.Stdout)
			a.cleanup, err = setupTracing(cmd)
			if err != nil {
				return usageError(err)
			}
			a.profiler, err = startProfiling(cmd)
			if err != nil {
				return usageError(err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runCheck(cmd, args, defaultCheckOptions())
		},
	}
	root.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	// Глобальные флаги
	pf := root.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Int("jobs", 0, "max parallel workers (0=GOMAXPROCS, 1=sequential)")
	pf.Bool("timings", false, "print phase timings to stderr")
	pf.String("ui", "auto", "live progress on stderr (auto|on|off)")
	pf.String("metrics-file", "", "write Prometheus metrics to this textfile after the run")
	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|phase|file|debug)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	pf.String("trace-format", "auto", "trace encoding (auto|text|ndjson)")
	pf.Int("trace-ring-size", 4096, "events kept in ring mode")
	pf.Duration("trace-heartbeat", 0, "heartbeat interval (0 disables)")
	pf.String("cpuprofile", "", "write a CPU profile to this file")
	pf.String("memprofile", "", "write a heap profile to this file on exit")
	pf.String("runtime-trace", "", "write a Go runtime trace to this file")

	root.AddCommand(newCheckCmd(), newWatchCmd(), newConfigCmd(), newVersionCmd(), newLSPCmd(), newTreeCmd())
	a.root = root
	return a
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := newApp().execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// execute runs the command tree and maps the outcome to a process exit code.
func (a *app) execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a.root.SetArgs(args)
	a.root.SetOut(stdout)
	a.root.SetErr(stderr)
	err := a.root.ExecuteContext(ctx)
	if perr := a.profiler.Stop(); perr != nil {
		fmt.Fprintf(stderr, "warning: %v\n", perr)
	}
	if a.cleanup != nil {
		a.cleanup()
	}
	if err == nil {
		return exitClean
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", ee.err)
		}
		return ee.code
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return exitUsage
}

func startProfiling(cmd *cobra.Command) (*prof.Session, error) {
	pf := cmd.Root().PersistentFlags()
	var cfg prof.Config
	var err error
	if cfg.CPU, err = pf.GetString("cpuprofile"); err != nil {
		return nil, fmt.Errorf("failed to get cpuprofile flag: %w", err)
	}
	if cfg.Mem, err = pf.GetString("memprofile"); err != nil {
		return nil, fmt.Errorf("failed to get memprofile flag: %w", err)
	}
	if cfg.Trace, err = pf.GetString("runtime-trace"); err != nil {
		return nil, fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	if !cfg.Enabled() {
		return nil, nil
	}
	return prof.Start(cfg)
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
