package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"ocalint/internal/config"
)

const watchDebounce = 300 * time.Millisecond

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Re-run check whenever a Python or config file changes",
		Args:  cobra.ArbitraryArgs,
		RunE:  runWatch,
	}
	addCheckFlags(cmd)
	cmd.Flags().Duration("debounce", watchDebounce, "quiet period before re-running")
	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	opts, err := readCheckFlags(cmd)
	if err != nil {
		return usageError(err)
	}
	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return usageError(fmt.Errorf("failed to get debounce flag: %w", err))
	}
	run, err := prepareCheck(cmd, args, opts)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()
	for _, p := range run.paths {
		if err := addWatches(w, p, run.cfg); err != nil {
			return err
		}
	}

	out := cmd.ErrOrStderr()
	rerun := func(reason string) {
		if reason != "" {
			fmt.Fprintf(out, "\n--- %s, re-running check ---\n", reason)
		}
		// изменения конфигурации подхватываются при каждом прогоне
		if next, err := prepareCheck(cmd, args, opts); err == nil {
			run = next
		} else {
			fmt.Fprintf(out, "Error: %v\n", err)
		}
		if err := run.execute(cmd, false); err != nil {
			var ee *exitError
			if !errors.As(err, &ee) || ee.err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
			}
		}
	}
	rerun("")

	ctx := cmd.Context()
	timer := time.NewTimer(debounce)
	timer.Stop()
	pending := map[string]bool{}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = addWatches(w, ev.Name, run.cfg)
				}
			}
			if !relevantChange(ev) {
				continue
			}
			pending[ev.Name] = true
			timer.Reset(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(out, "watch: %v\n", err)
		case <-timer.C:
			reason := fmt.Sprintf("%d file(s) changed", len(pending))
			clear(pending)
			rerun(reason)
		}
	}
}

// addWatches registers root and every non-excluded directory below it.
// A file path watches its parent directory.
func addWatches(w *fsnotify.Watcher, root string, cfg *config.Config) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	}
	if !info.IsDir() {
		return w.Add(filepath.Dir(root))
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && cfg.IsExcluded(path) {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

func relevantChange(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Base(ev.Name)
	if strings.HasSuffix(name, ".py") {
		return true
	}
	for _, c := range config.Candidates {
		if name == c {
			return true
		}
	}
	return false
}
