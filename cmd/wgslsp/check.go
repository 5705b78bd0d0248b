package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"wgslsp/internal/cache"
	"wgslsp/internal/check"
	"wgslsp/internal/config"
	"wgslsp/internal/diagfmt"
	"wgslsp/internal/observ"
	"wgslsp/internal/prof"
	"wgslsp/internal/ui"
)

var checkCmd = &cobra.Command{
	Use:   "check [dirs...]",
	Short: "Validate every shader module under the given directories",
	Long:  `Validate every shader module under the given directories (default: the current one) in dependency order and print the diagnostics. The exit status is 1 when any error was found.`,
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	checkCmd.Flags().String("path-mode", "auto", "how to print file paths (auto|absolute|relative|basename)")
	checkCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	checkCmd.Flags().Bool("cache", true, "reuse results of unchanged modules from the disk cache")
	checkCmd.Flags().Bool("clear-cache", false, "drop the disk cache before checking")
	checkCmd.Flags().Bool("timings", false, "print phase timings to stderr")
	checkCmd.Flags().Int8("context", 1, "source lines shown before each diagnostic")
	checkCmd.Flags().Bool("notes", true, "print related locations as notes")
	checkCmd.Flags().Int("max", 0, "maximum number of diagnostics in JSON output (0 = all)")
	checkCmd.Flags().String("cpuprofile", "", "write a CPU profile to this file")
	checkCmd.Flags().String("memprofile", "", "write a heap profile to this file")
	checkCmd.Flags().String("exectrace", "", "write a Go execution trace to this file")
}

func runCheck(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	format, _ := flags.GetString("format")
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
	pathModeStr, _ := flags.GetString("path-mode")
	pathMode, ok := diagfmt.ParsePathMode(pathModeStr)
	if !ok {
		return fmt.Errorf("invalid --path-mode %q", pathModeStr)
	}
	uiStr, _ := flags.GetString("ui")
	uiSwitch, err := parseSwitch("ui", uiStr)
	if err != nil {
		return err
	}
	useCache, _ := flags.GetBool("cache")
	clearCache, _ := flags.GetBool("clear-cache")
	showTimings, _ := flags.GetBool("timings")
	contextLines, _ := flags.GetInt8("context")
	showNotes, _ := flags.GetBool("notes")
	maxDiags, _ := flags.GetInt("max")
	colored, err := colorEnabled(cmd)
	if err != nil {
		return err
	}
	var profOpts prof.Options
	profOpts.CPU, _ = flags.GetString("cpuprofile")
	profOpts.Mem, _ = flags.GetString("memprofile")
	profOpts.Trace, _ = flags.GetString("exectrace")
	session, err := prof.Start(profOpts)
	if err != nil {
		return err
	}
	defer func() {
		if err := session.Stop(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "wgslsp: profile: %v\n", err)
		}
	}()

	dirs := args
	if len(dirs) == 0 {
		dirs = []string{"."}
	}
	base, err := filepath.Abs(dirs[0])
	if err != nil {
		return err
	}
	cfg, err := config.Load(base)
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd, cfg.Level())
	if err != nil {
		return err
	}
	defs, err := cfg.Defs()
	if err != nil {
		return err
	}
	tracer, cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	var roots []string
	for _, dir := range dirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return err
		}
		roots = append(roots, cfg.Roots(abs)...)
	}

	var dc *cache.DiskCache
	if useCache || clearCache {
		dc, err = cache.OpenDefault("wgslsp")
		if err != nil {
			logger.Warn("disk cache disabled", "err", err)
		}
	}
	if clearCache && dc != nil {
		if err := dc.DropAll(); err != nil {
			logger.Warn("clearing cache failed", "err", err)
		}
	}
	if !useCache {
		dc = nil
	}

	timer := observ.NewTimer()
	opts := check.Options{
		Roots:      roots,
		Extensions: cfg.Server.Extensions,
		ShaderDefs: defs,
		Cache:      dc,
		Timer:      timer,
		Tracer:     tracer,
		Logger:     logger,
	}

	var res check.Result
	if format == "pretty" && uiSwitch.resolve() {
		res, err = runCheckWithUI(cmd.Context(), opts)
	} else {
		res, err = check.Run(cmd.Context(), opts)
	}
	if err != nil {
		return err
	}
	logger.Debug("check finished", "files", res.Checked, "cache_hits", res.CacheHits)

	out := cmd.OutOrStdout()
	if format == "json" {
		err = diagfmt.JSON(out, res.Files, diagfmt.JSONOpts{
			PathMode:     pathMode,
			BaseDir:      base,
			Max:          maxDiags,
			IncludeNotes: showNotes,
		})
	} else {
		err = diagfmt.Pretty(out, res.Files, diagfmt.PrettyOpts{
			Color:     colored,
			Context:   contextLines,
			PathMode:  pathMode,
			BaseDir:   base,
			Encoding:  check.Encoding,
			ShowNotes: showNotes,
		})
		if err == nil {
			err = diagfmt.Summary(out, res.Files, res.Checked, colored)
		}
	}
	if err != nil {
		return err
	}
	if showTimings {
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}
	if res.Errors() > 0 {
		return errFindings
	}
	return nil
}

type checkOutcome struct {
	res check.Result
	err error
}

// runCheckWithUI runs the check in the background and renders progress
// until it is done.
func runCheckWithUI(ctx context.Context, opts check.Options) (check.Result, error) {
	files, err := check.Files(ctx, opts.Roots, opts.Extensions)
	if err != nil {
		return check.Result{}, err
	}
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}

	events := make(chan ui.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)
	// лог поверх TUI ломает отрисовку
	opts.Logger = log.New(os.Stderr)
	opts.Logger.SetLevel(log.ErrorLevel)
	opts.Progress = events
	go func() {
		res, err := check.Run(ctx, opts)
		outcomeCh <- checkOutcome{res: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel("checking shaders", paths, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	// программа могла выйти раньше (Ctrl+C): не блокируем проверку
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.res, uiErr
	}
	return outcome.res, outcome.err
}
