// Package main provides the CLI entrypoint for tuistrum.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/tuistrum/internal/catalog"
	"github.com/verte-zerg/tuistrum/internal/config"
	"github.com/verte-zerg/tuistrum/internal/generator"
	"github.com/verte-zerg/tuistrum/internal/logging"
	"github.com/verte-zerg/tuistrum/internal/midiexport"
	"github.com/verte-zerg/tuistrum/internal/model"
	"github.com/verte-zerg/tuistrum/internal/practice"
	"github.com/verte-zerg/tuistrum/internal/stats"
	"github.com/verte-zerg/tuistrum/internal/store"
	"github.com/verte-zerg/tuistrum/internal/tui"
)

const (
	defaultMinDistance = 20.0
	defaultRowScale    = 8.0
	defaultWeakFactor  = 2.0
	defaultRepeat      = 4
	defaultProgram     = 25
)

var (
	practicePattern     int
	practiceCatalog     string
	practiceMinDistance float64
	practiceRowScale    float64
	practiceRotated     bool
	practiceFocusWeak   bool
	practiceWeakFactor  float64

	logFile  string
	logDebug bool

	exportOut     string
	exportRepeat  int
	exportProgram int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tuistrum",
		Short:         "TUI guitar strumming trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.PersistentFlags().IntVar(&practicePattern, "pattern", 0, "pattern id to start with (default: first in catalog)")
	rootCmd.PersistentFlags().StringVar(&practiceCatalog, "catalog", "", "path to a YAML pattern catalog")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file")
	rootCmd.PersistentFlags().BoolVar(&logDebug, "debug", false, "log at debug level")
	rootCmd.Flags().Float64Var(&practiceMinDistance, "min-distance", defaultMinDistance, "minimum vertical drag distance for a strum")
	rootCmd.Flags().Float64Var(&practiceRowScale, "row-scale", defaultRowScale, "drag units per terminal row")
	rootCmd.Flags().BoolVar(&practiceRotated, "rotated", false, "draw the strings vertically and strum with sideways drags")
	rootCmd.Flags().BoolVar(&practiceFocusWeak, "focus-weak", false, "bias shuffle toward patterns with a low success rate")
	rootCmd.Flags().Float64Var(&practiceWeakFactor, "weak-factor", defaultWeakFactor, "extra shuffle weight for weak patterns")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newPatternsCmd())
	rootCmd.AddCommand(newDrillCmd())
	rootCmd.AddCommand(newExportCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("tuistrum needs an interactive terminal; use `tuistrum drill` to practice from a pipe")
	}

	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applySharedConfig(cmd, fileCfg)
	applyFloatConfig(cmd, "min-distance", &practiceMinDistance, fileCfg.Practice.MinDistance)
	applyFloatConfig(cmd, "row-scale", &practiceRowScale, fileCfg.Practice.RowScale)
	applyBoolConfig(cmd, "rotated", &practiceRotated, fileCfg.Practice.Rotated)
	applyBoolConfig(cmd, "focus-weak", &practiceFocusWeak, fileCfg.Practice.FocusWeak)
	applyFloatConfig(cmd, "weak-factor", &practiceWeakFactor, fileCfg.Practice.WeakFactor)

	cfg := model.Config{
		PatternID:   practicePattern,
		CatalogPath: practiceCatalog,
		MinDistance: practiceMinDistance,
		RowScale:    practiceRowScale,
		Rotated:     practiceRotated,
		FocusWeak:   practiceFocusWeak,
		WeakFactor:  practiceWeakFactor,
		Timing:      timingConfig(fileCfg.Timing),
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	cat, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return err
	}

	// Logs written to the terminal would corrupt the alt screen.
	logger, closeLog, err := newLogger(fileCfg, nil)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeLog(); cerr != nil {
			logErrf("failed to close log file: %v\n", cerr)
		}
	}()

	st, err := store.OpenMemory()
	if err != nil {
		return fmt.Errorf("failed to open attempt log: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close attempt log: %v\n", cerr)
		}
	}()

	m, err := tui.NewModel(tui.Options{
		Config:    cfg,
		Catalog:   cat,
		Store:     st,
		Generator: generator.New(),
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run tui: %w", err)
	}
	printRunSummary(context.Background(), os.Stdout, st)
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Open config file in $EDITOR",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newPatternsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "patterns",
		Short: "List strumming patterns in the catalog",
		Args:  cobra.NoArgs,
		RunE:  runPatternsCmd,
	}
}

func runPatternsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applySharedConfig(cmd, fileCfg)
	cat, err := loadCatalog(practiceCatalog)
	if err != nil {
		return err
	}
	return stats.RenderCatalog(cmd.OutOrStdout(), cat)
}

func newExportCmd() *cobra.Command {
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Render a pattern as a Standard MIDI File",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	exportCmd.Flags().StringVar(&exportOut, "out", "-", "output file, or - for stdout")
	exportCmd.Flags().IntVar(&exportRepeat, "repeat", defaultRepeat, "times the pattern is played")
	exportCmd.Flags().IntVar(&exportProgram, "program", defaultProgram, "General MIDI program, zero based (0-127)")
	return exportCmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	if exportRepeat <= 0 {
		return fmt.Errorf("--repeat must be > 0")
	}
	if exportProgram < 0 || exportProgram > 127 {
		return fmt.Errorf("--program must be between 0 and 127")
	}
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applySharedConfig(cmd, fileCfg)
	cat, err := loadCatalog(practiceCatalog)
	if err != nil {
		return err
	}
	p, err := selectPattern(cat, practicePattern)
	if err != nil {
		return err
	}

	program := uint8(exportProgram)
	opts := midiexport.Options{Repeat: exportRepeat, Program: &program}
	if exportOut == "" || exportOut == "-" {
		return midiexport.Write(cmd.OutOrStdout(), p, opts)
	}
	f, err := os.Create(exportOut)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", exportOut, err)
	}
	if err := midiexport.Write(f, p, opts); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", exportOut, err)
	}
	logErrf("wrote %s (%s, %d repeats)\n", exportOut, p.Name, exportRepeat)
	return nil
}

// applySharedConfig fills the persistent flags shared by every command.
func applySharedConfig(cmd *cobra.Command, fileCfg config.FileConfig) {
	applyIntConfig(cmd, "pattern", &practicePattern, fileCfg.Practice.Pattern)
	applyStringConfig(cmd, "catalog", &practiceCatalog, fileCfg.Practice.Catalog)
	applyStringConfig(cmd, "log-file", &logFile, fileCfg.Log.File)
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func timingConfig(t config.TimingConfig) model.TimingConfig {
	def := practice.DefaultTiming()
	return model.TimingConfig{
		Tick:         def.Tick,
		SuccessDelay: config.Millis(t.SuccessDelayMs, def.SuccessDelay),
		FailureDelay: config.Millis(t.FailureDelayMs, def.FailureDelay),
		TimeoutDelay: config.Millis(t.TimeoutDelayMs, def.TimeoutDelay),
	}
}

func practiceTiming(t model.TimingConfig) practice.Timing {
	return practice.Timing{
		Tick:         t.Tick,
		SuccessDelay: t.SuccessDelay,
		FailureDelay: t.FailureDelay,
		TimeoutDelay: t.TimeoutDelay,
	}
}

func defaultConfigTemplate() string {
	def := practice.DefaultTiming()
	return fmt.Sprintf(`# tuistrum configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# pattern = 1             # Pattern id to start with
# catalog = %q            # YAML pattern catalog (built-in when missing)
# min-distance = %.0f       # Minimum vertical drag distance for a strum
# row-scale = %.0f           # Drag units per terminal row
# rotated = false         # Draw the strings vertically, strum with sideways drags
# focus-weak = false      # Bias shuffle toward patterns with a low success rate
# weak-factor = %.1f       # Extra shuffle weight for weak patterns

[timing]
# success-delay-ms = %d   # Pause after a correct pattern
# failure-delay-ms = %d   # Pause after a wrong pattern
# timeout-delay-ms = %d   # Pause after the timer runs out

[log]
# file = %q               # Log file (logs are discarded in the TUI when unset)
# level = "warn"          # debug, info, warn or error
`,
		config.DefaultCatalogPath(),
		defaultMinDistance,
		defaultRowScale,
		defaultWeakFactor,
		def.SuccessDelay.Milliseconds(),
		def.FailureDelay.Milliseconds(),
		def.TimeoutDelay.Milliseconds(),
		config.DefaultLogPath(),
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.PatternID < 0 {
		return fmt.Errorf("--pattern must be >= 0")
	}
	if cfg.MinDistance < 0 {
		return fmt.Errorf("--min-distance must be >= 0")
	}
	if cfg.RowScale <= 0 {
		return fmt.Errorf("--row-scale must be > 0")
	}
	if cfg.WeakFactor < 0 {
		return fmt.Errorf("--weak-factor must be >= 0")
	}
	return nil
}

// loadCatalog reads an explicit catalog path, or the optional user catalog
// falling back to the built-in one.
func loadCatalog(path string) (*catalog.Catalog, error) {
	if path != "" {
		return catalog.Load(path)
	}
	cat, err := catalog.LoadOrDefault(config.DefaultCatalogPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return cat, nil
}

// selectPattern returns the pattern with id, or the first one for id 0.
func selectPattern(cat *catalog.Catalog, id int) (*catalog.Pattern, error) {
	if id == 0 {
		return cat.At(0), nil
	}
	p, ok := cat.ByID(id)
	if !ok {
		return nil, fmt.Errorf("pattern %d not found in catalog", id)
	}
	return p, nil
}

func newLogger(fileCfg config.FileConfig, fallback io.Writer) (*slog.Logger, func() error, error) {
	level := ""
	if fileCfg.Log.Level != nil {
		level = *fileCfg.Log.Level
	}
	logger, closeFn, err := logging.New(logging.Options{
		File:     logFile,
		Level:    level,
		Debug:    logDebug,
		Fallback: fallback,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	return logger, closeFn, nil
}

func printRunSummary(ctx context.Context, w io.Writer, st *store.Store) {
	aggs, err := st.PatternAggregates(ctx, store.Filter{})
	if err != nil {
		logErrf("failed to load pattern stats: %v\n", err)
		return
	}
	if len(aggs) == 0 {
		return
	}
	if err := stats.RenderSummary(w, stats.Summarize(aggs)); err != nil {
		logErrf("failed to print summary: %v\n", err)
		return
	}
	if err := stats.RenderPatternTable(w, aggs); err != nil {
		logErrf("failed to print pattern stats: %v\n", err)
	}
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
