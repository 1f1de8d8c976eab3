package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/tuistrum/internal/catalog"
	"github.com/verte-zerg/tuistrum/internal/config"
	"github.com/verte-zerg/tuistrum/internal/model"
	"github.com/verte-zerg/tuistrum/internal/practice"
	"github.com/verte-zerg/tuistrum/internal/store"
)

type drillOp int

const (
	drillStrum drillOp = iota
	drillStart
	drillStop
	drillReset
	drillWait
	drillQuit
)

type drillStep struct {
	op   drillOp
	dir  catalog.Direction
	wait time.Duration
}

func newDrillCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "drill",
		Short: "Practice from stdin without a terminal UI",
		Long: `Read practice commands from stdin, one or more per line:

  start        begin an attempt
  d, down      strum down
  u, up        strum up
  stop         end the attempt early
  reset        clear the attempt and return to idle
  wait <ms>    pause between strums
  quit         end the session`,
		Args: cobra.NoArgs,
		RunE: runDrillCmd,
	}
}

func runDrillCmd(cmd *cobra.Command, _ []string) error {
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

	logger, closeLog, err := newLogger(fileCfg, os.Stderr)
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

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	out := cmd.OutOrStdout()
	printer := &drillPrinter{w: out}
	runner, err := practice.NewRunner(p, practice.Options{
		Timing: practiceTiming(timingConfig(fileCfg.Timing)),
		Observer: practice.ObserverFunc(func(a model.Attempt) {
			if _, err := st.InsertAttempt(ctx, a); err != nil {
				logger.Warn("failed to save attempt", "pattern", a.PatternID, "err", err)
			}
		}),
		Logger: logger,
	}, printer.onChange)
	if err != nil {
		return err
	}

	runErr := make(chan error, 1)
	go func() { runErr <- runner.Run(ctx) }()

	printer.printf("%s  %s\n", p.Name, catalog.FormatSequence(p.Sequence))
	if err := runDrill(ctx, cmd.InOrStdin(), runner); err != nil {
		cancel()
		<-runErr
		return err
	}
	if err := runner.Do(ctx, func(e *practice.Engine) { e.Exit() }); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	cancel()
	<-runErr

	printer.mu.Lock()
	defer printer.mu.Unlock()
	printRunSummary(context.Background(), out, st)
	return nil
}

func runDrill(ctx context.Context, in io.Reader, runner *practice.Runner) error {
	scanner := bufio.NewScanner(in)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		steps, err := parseDrillLine(scanner.Text())
		if err != nil {
			logErrf("line %d: %v\n", lineNo, err)
			continue
		}
		for _, step := range steps {
			if step.op == drillQuit {
				return nil
			}
			if err := applyDrillStep(ctx, runner, step); err != nil {
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}

func applyDrillStep(ctx context.Context, runner *practice.Runner, step drillStep) error {
	if step.op == drillWait {
		select {
		case <-time.After(step.wait):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return runner.Do(ctx, func(e *practice.Engine) {
		switch step.op {
		case drillStart:
			if !e.StartRecording() {
				logErrln("start ignored: attempt already running")
			}
		case drillStrum:
			if !e.RecordStrum(step.dir, time.Now()) {
				logErrf("%s ignored: not recording\n", step.dir)
			}
		case drillStop:
			e.StopRecording()
		case drillReset:
			e.ResetPractice()
		}
	})
}

// parseDrillLine splits a line into steps. Blank lines and text after # are
// ignored.
func parseDrillLine(line string) ([]drillStep, error) {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	fields := strings.Fields(strings.ToLower(line))
	steps := make([]drillStep, 0, len(fields))
	for i := 0; i < len(fields); i++ {
		switch fields[i] {
		case "d", "down":
			steps = append(steps, drillStep{op: drillStrum, dir: catalog.Down})
		case "u", "up":
			steps = append(steps, drillStep{op: drillStrum, dir: catalog.Up})
		case "start":
			steps = append(steps, drillStep{op: drillStart})
		case "stop":
			steps = append(steps, drillStep{op: drillStop})
		case "reset":
			steps = append(steps, drillStep{op: drillReset})
		case "quit", "exit":
			steps = append(steps, drillStep{op: drillQuit})
		case "wait":
			if i+1 >= len(fields) {
				return nil, fmt.Errorf("wait needs a duration in milliseconds")
			}
			i++
			ms, err := strconv.Atoi(fields[i])
			if err != nil || ms < 0 {
				return nil, fmt.Errorf("invalid wait %q", fields[i])
			}
			steps = append(steps, drillStep{op: drillWait, wait: time.Duration(ms) * time.Millisecond})
		default:
			return nil, fmt.Errorf("unknown command %q", fields[i])
		}
	}
	return steps, nil
}

// drillPrinter reports phase changes. onChange runs on the runner goroutine.
type drillPrinter struct {
	mu    sync.Mutex
	w     io.Writer
	phase practice.Phase
}

func (d *drillPrinter) onChange(s practice.Snapshot) {
	d.mu.Lock()
	defer d.mu.Unlock()
	prev := d.phase
	d.phase = s.Phase
	if s.Phase == prev {
		return
	}
	switch s.Phase {
	case practice.PhaseRecording:
		d.writef("recording: %ds\n", s.Remaining)
	case practice.PhaseFeedback:
		if s.Feedback != nil {
			d.writef("%s (score %d)\n", describeFeedback(*s.Feedback), s.Score)
		}
	case practice.PhaseIdle:
		d.writef("idle\n")
	}
}

func (d *drillPrinter) printf(format string, args ...any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.writef(format, args...)
}

func (d *drillPrinter) writef(format string, args ...any) {
	if _, err := fmt.Fprintf(d.w, format, args...); err != nil {
		// Best-effort output.
		_ = err
	}
}

func describeFeedback(fb practice.Feedback) string {
	switch fb.Outcome {
	case practice.OutcomeSuccess:
		if fb.HasAverage {
			return fmt.Sprintf("success: +%d points, %s speed, %dms between strums", fb.Points, fb.Speed, fb.AverageInterval.Milliseconds())
		}
		return fmt.Sprintf("success: +%d points", fb.Points)
	case practice.OutcomeTimeout:
		return "timeout"
	default:
		return fmt.Sprintf("failure: %d/%d strums, first miss at %d (attempt %d)", fb.Captured, fb.Expected, fb.Mismatch+1, fb.Attempts)
	}
}
