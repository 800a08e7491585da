package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ocalint/internal/config"
	"ocalint/internal/diag"
	"ocalint/internal/diagfmt"
	"ocalint/internal/driver"
	"ocalint/internal/observ"
	"ocalint/internal/trace"
	"ocalint/internal/version"
)

const informationURI = "https://github.com/OCA/odoo-community.org"

type checkOptions struct {
	format      string // empty means the configured output-format
	configPath  string
	noConfig    bool
	pathMode    diagfmt.PathMode
	noRecursive bool
	showSource  bool
}

func defaultCheckOptions() checkOptions {
	return checkOptions{pathMode: diagfmt.PathModeAuto}
}

func addCheckFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", "", "output format (text|json|sarif|github|msgpack)")
	cmd.Flags().String("config", "", "configuration file (pyproject.toml, ocalint.toml or .ocalint.yaml)")
	cmd.Flags().Bool("no-config", false, "ignore configuration files")
	cmd.Flags().String("path-mode", "auto", "how paths are printed (auto|absolute|relative|basename)")
	cmd.Flags().Bool("no-recursive", false, "only check the top level of directories")
	cmd.Flags().Bool("show-source", false, "print the offending source line under each text diagnostic")
}

func readCheckFlags(cmd *cobra.Command) (checkOptions, error) {
	opts := defaultCheckOptions()
	var err error
	if opts.format, err = cmd.Flags().GetString("format"); err != nil {
		return opts, fmt.Errorf("failed to get format flag: %w", err)
	}
	if opts.configPath, err = cmd.Flags().GetString("config"); err != nil {
		return opts, fmt.Errorf("failed to get config flag: %w", err)
	}
	if opts.noConfig, err = cmd.Flags().GetBool("no-config"); err != nil {
		return opts, fmt.Errorf("failed to get no-config flag: %w", err)
	}
	if opts.noRecursive, err = cmd.Flags().GetBool("no-recursive"); err != nil {
		return opts, fmt.Errorf("failed to get no-recursive flag: %w", err)
	}
	if opts.showSource, err = cmd.Flags().GetBool("show-source"); err != nil {
		return opts, fmt.Errorf("failed to get show-source flag: %w", err)
	}
	modeStr, err := cmd.Flags().GetString("path-mode")
	if err != nil {
		return opts, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	mode, ok := diagfmt.ParsePathMode(modeStr)
	if !ok {
		return opts, fmt.Errorf("invalid --path-mode value %q (expected auto|absolute|relative|basename)", modeStr)
	}
	opts.pathMode = mode
	return opts, nil
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Check files or directories (default: current directory)",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := readCheckFlags(cmd)
			if err != nil {
				return usageError(err)
			}
			return runCheck(cmd, args, opts)
		},
	}
	addCheckFlags(cmd)
	return cmd
}

// loadConfig resolves --no-config, --config and discovery from the
// working directory, in that order.
func loadConfig(opts checkOptions) (*config.Config, error) {
	switch {
	case opts.noConfig:
		return config.Default(), nil
	case opts.configPath != "":
		return config.Load(opts.configPath)
	default:
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getwd: %w", err)
		}
		return config.Discover(wd)
	}
}

// checkRun is one resolved invocation, reused by watch.
type checkRun struct {
	paths     []string
	cfg       *config.Config
	formatter diagfmt.Formatter
	globals   globalOptions
	recursive bool
	useColor  bool
}

func prepareCheck(cmd *cobra.Command, args []string, opts checkOptions) (*checkRun, error) {
	g, err := readGlobals(cmd)
	if err != nil {
		return nil, usageError(err)
	}
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, usageError(err)
	}
	format := cfg.OutputFormat
	if opts.format != "" {
		format = opts.format
	}
	useColor := format == "text" && g.colorFor(os.Stdout)
	reg := diagfmt.NewRegistry(diagfmt.Options{
		Color:      useColor,
		PathMode:   opts.pathMode,
		ShowSource: opts.showSource,
		Sarif: diagfmt.SarifRunMeta{
			ToolName:       "ocalint",
			ToolVersion:    version.Version,
			InformationURI: informationURI,
			InvocationArgs: os.Args,
		},
	})
	formatter, err := reg.Get(format)
	if err != nil {
		return nil, usageError(err)
	}
	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}
	return &checkRun{
		paths:     paths,
		cfg:       cfg,
		formatter: formatter,
		globals:   g,
		recursive: !opts.noRecursive,
		useColor:  useColor,
	}, nil
}

func runCheck(cmd *cobra.Command, args []string, opts checkOptions) error {
	run, err := prepareCheck(cmd, args, opts)
	if err != nil {
		return err
	}
	return run.execute(cmd, run.globals.progressUI())
}

// execute analyzes, renders and returns an *exitError with code 1 when an
// error-severity diagnostic was found.
func (r *checkRun) execute(cmd *cobra.Command, withUI bool) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	tr := trace.FromContext(ctx)
	defer dumpTraceOnPanic(tr)

	span := trace.Begin(tr, trace.ScopeRun, "check", 0)
	ctx = trace.WithSpan(ctx, span)

	var timer *observ.Timer
	if r.globals.timings {
		timer = observ.NewTimer()
	}
	sess := driver.NewSession(r.cfg)
	sess.Jobs = r.globals.jobs
	sess.Recursive = r.recursive
	if r.globals.metricsFile != "" {
		sess.Metrics = driver.NewMetrics()
	}

	idx := timer.Begin("discover")
	discover := trace.Begin(tr, trace.ScopePhase, "discover", span.ID())
	var files []string
	for _, p := range r.paths {
		fs, err := sess.Files(p)
		if errors.Is(err, driver.ErrPathNotFound) {
			discover.End("missing path")
			span.End("missing path")
			return &exitError{code: exitFindings, err: fmt.Errorf("Path does not exist: %s", p)}
		}
		if err != nil {
			discover.End(err.Error())
			span.End("error")
			return err
		}
		files = append(files, fs...)
	}
	discover.End("")
	timer.End(idx, fmt.Sprintf("%d files", len(files)))

	idx = timer.Begin("analyze")
	var ds []diag.Diagnostic
	var err error
	if withUI && len(files) > 0 {
		ds, err = analyzeWithUI(ctx, sess, files)
	} else {
		ds, err = sess.AnalyzeFiles(ctx, files)
	}
	timer.End(idx, fmt.Sprintf("%d diagnostics", len(ds)))
	if err != nil {
		span.End("error")
		return err
	}

	idx = timer.Begin("render")
	render := trace.Begin(tr, trace.ScopePhase, "render", span.ID())
	err = r.formatter.Format(cmd.OutOrStdout(), ds)
	render.End("")
	timer.End(idx, "")
	if err != nil {
		span.End("error")
		return fmt.Errorf("render: %w", err)
	}

	if timer != nil {
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}
	if err := sess.Metrics.WriteTextfile(r.globals.metricsFile); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
	}

	bag := diag.NewBag(len(ds))
	bag.Extend(ds)
	span.WithExtra("diagnostics", fmt.Sprint(len(ds))).End("")
	if bag.HasErrors() {
		return &exitError{code: exitFindings}
	}
	return nil
}
