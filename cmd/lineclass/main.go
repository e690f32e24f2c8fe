// lineclass classifies captured cargo-nextest output and summarizes the run.
//
// Usage:
//
//	cargo nextest run --color always 2>&1 | lineclass
//	lineclass --job check build.log
//	cargo nextest run --color always 2>&1 | lineclass --live
//
// Output modes (auto-detected):
//
//	terminal: styled Unicode output (default when TTY)
//	llm:      terse plain text for AI consumption (default when piped)
//	json:     structured JSON for automation
//
// Exit codes: 0 when nothing failed, 1 when a test failed or an error was
// reported, 2 on usage or configuration errors.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/dkoosis/lineclass/internal/config"
	"github.com/dkoosis/lineclass/internal/version"
	"github.com/dkoosis/lineclass/pkg/analysis"
	"github.com/dkoosis/lineclass/pkg/analysis/nextest"
	"github.com/dkoosis/lineclass/pkg/analysis/standard"
	"github.com/dkoosis/lineclass/pkg/live"
	"github.com/dkoosis/lineclass/pkg/render"
	"github.com/dkoosis/lineclass/pkg/report"
	"github.com/dkoosis/lineclass/pkg/styled"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// cliFlags holds parsed command-line flags.
type cliFlags struct {
	config  config.Args
	live    bool
	debug   bool
	workers int
	version bool
	input   string
}

func parseFlags(args []string, stderr io.Writer) (cliFlags, error) {
	var f cliFlags
	fs := flag.NewFlagSet("lineclass", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.config.Job, "job", "", "Job to use (default from config)")
	fs.BoolVar(&f.config.Summary, "summary", false, "Show counts only")
	fs.BoolVar(&f.config.NoSummary, "no-summary", false, "Show failure output and diagnostics")
	fs.BoolVar(&f.config.Wrap, "wrap", false, "Wrap long output lines")
	fs.BoolVar(&f.config.NoWrap, "no-wrap", false, "Truncate long output lines")
	fs.BoolVar(&f.config.Reverse, "reverse", false, "Show newest failures first")
	fs.BoolVar(&f.config.NoReverse, "no-reverse", false, "Show failures in arrival order")
	fs.StringVar(&f.config.Theme, "theme", "", "Theme: default, orca, mono")
	fs.StringVar(&f.config.Format, "format", "", "Output format: auto, terminal, llm, json")
	fs.BoolVar(&f.live, "live", false, "Show a live view while output streams in (TTY only)")
	fs.BoolVar(&f.debug, "debug", false, "Log configuration and classification details to stderr")
	fs.IntVar(&f.workers, "workers", 0, "Classification workers (0 = GOMAXPROCS)")
	fs.BoolVar(&f.version, "version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return f, err
	}
	switch fs.NArg() {
	case 0:
	case 1:
		f.input = fs.Arg(0)
	default:
		return f, fmt.Errorf("expected at most one input file, got %d", fs.NArg())
	}
	return f, nil
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	return runWith(args, config.DefaultSources(), stdin, stdout, stderr)
}

// runWith is run with the configuration sources supplied by the caller.
func runWith(args []string, src config.Sources, stdin io.Reader, stdout, stderr io.Writer) int {
	flags, err := parseFlags(args, stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(stderr, "lineclass: %v\n", err)
		}
		return config.ExitConfigError
	}
	if flags.version {
		fmt.Fprintln(stdout, version.String())
		return 0
	}

	logger := newLogger(flags.debug, stderr)
	defer func() { _ = logger.Sync() }()

	settings, err := config.Load(flags.config, src, logger)
	if err != nil {
		fmt.Fprintf(stderr, "lineclass: %v\n", err)
		var cfgErr *config.Error
		if errors.As(err, &cfgErr) {
			return cfgErr.ExitCode()
		}
		return config.ExitConfigError
	}

	job := settings.Job()
	analyzer := newRegistry().Get(job.Analyzer)
	if analyzer == nil {
		fmt.Fprintf(stderr, "lineclass: job %q: unknown analyzer %q\n", settings.JobName(), job.Analyzer)
		return config.ExitConfigError
	}
	ignored, err := settings.IgnoredPatterns()
	if err != nil {
		fmt.Fprintf(stderr, "lineclass: %v\n", err)
		return config.ExitConfigError
	}

	in := stdin
	if flags.input != "" {
		file, err := os.Open(flags.input)
		if err != nil {
			fmt.Fprintf(stderr, "lineclass: %v\n", err)
			return config.ExitConfigError
		}
		defer file.Close()
		in = file
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	width, _ := termSize(stdout)
	opts := render.Options{
		Label:   settings.JobName(),
		Summary: settings.Summary,
		Wrap:    settings.Wrap,
		Reverse: settings.Reverse,
		Width:   width,
	}
	theme := render.ThemeByName(settings.Theme)
	reportOpts := []report.Option{report.WithIgnoredLines(ignored)}

	logger.Debug("classifying",
		zap.String("job", settings.JobName()),
		zap.String("analyzer", job.Analyzer),
		zap.Strings("config_files", settings.ConfigFiles))

	var r report.Report
	if flags.live && isTTYWriter(stdout) {
		r, err = runLive(ctx, in, settings, analyzer, theme, opts, reportOpts)
	} else {
		r, err = runBatch(ctx, in, settings.MaxLineLength, analyzer, flags.workers, reportOpts, logger)
	}
	if err != nil {
		fmt.Fprintf(stderr, "lineclass: %v\n", err)
		return config.ExitConfigError
	}
	logger.Debug("report built",
		zap.Int("lines", r.Lines),
		zap.Int("tests", len(r.Tests)),
		zap.Int("failed", r.Failed()),
		zap.Int("garbage", r.Garbage),
		zap.Int("ignored", r.Ignored))

	mode := resolveFormat(settings.Format, stdout)
	fmt.Fprint(stdout, render.New(mode, theme, opts).Render(r))
	return exitCode(r)
}

// newRegistry returns the analyzers selectable by a job.
func newRegistry() *analysis.Registry {
	reg := analysis.NewRegistry()
	std := standard.New()
	reg.Register(std, "standard")
	reg.Register(nextest.New(std), "nextest", "cargo", "rust")
	return reg
}

// runBatch reads every line, classifies the batch concurrently and groups it.
func runBatch(ctx context.Context, in io.Reader, maxLine int, a analysis.Analyzer, workers int, opts []report.Option, logger *zap.Logger) (report.Report, error) {
	var lines []styled.Line
	sc := styled.NewScanner(in, maxLine)
	for sc.Scan() {
		lines = append(lines, sc.Line())
	}
	if err := sc.Err(); err != nil {
		return report.Report{}, err
	}
	results, err := analysis.ClassifyAll(ctx, a, lines, workers)
	if err != nil {
		return report.Report{}, fmt.Errorf("classifying output: %w", err)
	}
	logClassification(logger, lines, results)
	return report.Build(lines, results, opts...), nil
}

// logClassification traces the nextest shape and the analysis of every line.
func logClassification(logger *zap.Logger, lines []styled.Line, results []analysis.Analysis) {
	if !logger.Core().Enabled(zapcore.DebugLevel) {
		return
	}
	for i, line := range lines {
		logger.Debug("line classified",
			zap.Int("line", i+1),
			zap.String("shape", nextest.Shape(line)),
			zap.Reflect("analysis", results[i]))
	}
}

// runLive streams lines into the live view until the user quits.
func runLive(ctx context.Context, in io.Reader, s config.Settings, a analysis.Analyzer, theme render.Theme, opts render.Options, reportOpts []report.Option) (report.Report, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	// Close the input on cancel to unblock the reader goroutine.
	if c, ok := in.(io.Closer); ok {
		stopClose := context.AfterFunc(ctx, func() { _ = c.Close() })
		defer stopClose()
	}
	lines, errs := live.Lines(ctx, in, s.MaxLineLength)
	r, err := live.Run(ctx, lines, live.Config{
		Analyzer:    a,
		Theme:       theme,
		Options:     opts,
		Report:      reportOpts,
		GracePeriod: s.GracePeriod,
		HelpLine:    s.HelpLine,
	})
	if err != nil {
		return report.Report{}, err
	}
	// Quitting before EOF leaves the input unread; only a finished reader has an error to report.
	select {
	case werr := <-errs:
		if werr != nil && !errors.Is(werr, context.Canceled) {
			return r, werr
		}
	default:
	}
	return r, nil
}

// isTTYWriter reports whether w is a terminal.
func isTTYWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// termSize returns the terminal dimensions for w, defaulting to 80x24.
func termSize(w io.Writer) (width, height int) {
	width, height = 80, 24
	if f, ok := w.(*os.File); ok {
		if tw, th, err := term.GetSize(int(f.Fd())); err == nil {
			if tw > 0 {
				width = tw
			}
			if th > 0 {
				height = th
			}
		}
	}
	return width, height
}

func resolveFormat(format string, w io.Writer) string {
	if format != "auto" {
		return format
	}
	// Auto-detect: TTY = terminal, piped = llm
	if isTTYWriter(w) {
		return "terminal"
	}
	return "llm"
}

// exitCode returns 1 when a test failed or an error diagnostic was seen.
func exitCode(r report.Report) int {
	if r.Failed() > 0 || r.Errors() > 0 {
		return 1
	}
	return 0
}

// newLogger logs warnings to stderr, or everything with debug set.
func newLogger(debug bool, stderr io.Writer) *zap.Logger {
	level := zapcore.WarnLevel
	if debug {
		level = zapcore.DebugLevel
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(stderr), zap.NewAtomicLevelAt(level))
	return zap.New(core)
}
