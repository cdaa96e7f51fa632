package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"atomedit/internal/engine"
	"atomedit/internal/watch"
)

var (
	watchOutXYZ  string
	watchOutYAML string
	watchDelay   time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch <base.xyz> <diff.toml>",
	Short: "Re-apply a diff whenever its inputs change",
	Long: `Watch applies the diff once, then monitors both files and re-applies
on every change until interrupted. Useful next to an editor that keeps
rewriting the diff document.`,
	Args: cobra.ExactArgs(2),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchOutXYZ, "out", "o", "",
		"Write the merged structure as XYZ after each apply")
	watchCmd.Flags().StringVar(&watchOutYAML, "yaml", "",
		"Write the merged structure as a YAML dump after each apply")
	watchCmd.Flags().DurationVar(&watchDelay, "debounce", watch.DefaultDebounce,
		"Coalescing window for file change events")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, tol, logger, err := setup()
	if err != nil {
		return err
	}

	basePath, diffPath := args[0], args[1]

	reapply := func() {
		base, err := loadBase(basePath, cfg)
		if err != nil {
			logger.Error("loading base failed", "path", basePath, "error", err)
			return
		}
		d, err := loadDiffFile(diffPath)
		if err != nil {
			logger.Error("loading diff failed", "path", diffPath, "error", err)
			return
		}
		res, err := engine.ApplyDiff(base, d, tol)
		if err != nil {
			logger.Error("apply failed", "error", err)
			return
		}
		printApply(res)
		comment := fmt.Sprintf("atomedit watch %s + %s", basePath, diffPath)
		if err := writeResult(res.Structure, watchOutXYZ, watchOutYAML, comment); err != nil {
			logger.Error("writing output failed", "error", err)
		}
	}

	reapply()

	w, err := watch.New(watch.WithDebounce(watchDelay))
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Watch(basePath); err != nil {
		return fmt.Errorf("watching %s: %w", basePath, err)
	}
	// The diff document may not exist yet; watch it once it does.
	if err := w.Watch(diffPath); err != nil && !errors.Is(err, watch.ErrPathNotExist) {
		return fmt.Errorf("watching %s: %w", diffPath, err)
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("watching for changes", "base", basePath, "diff", diffPath)
	for {
		select {
		case <-signals:
			return nil
		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			logger.Error("watcher error", "error", err)
		case ev, ok := <-w.Events():
			if !ok {
				return nil
			}
			logger.Info("change detected", "path", ev.Path)
			reapply()
		}
	}
}
