package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/ironsheep/face-rotation/internal/batch"
	"github.com/ironsheep/face-rotation/internal/config"
	"github.com/ironsheep/face-rotation/internal/display"
	"github.com/ironsheep/face-rotation/internal/logging"
	"github.com/ironsheep/face-rotation/internal/orient"
	"github.com/ironsheep/face-rotation/internal/runner"
	"github.com/ironsheep/face-rotation/internal/server"
	"github.com/ironsheep/face-rotation/internal/store"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	if len(os.Args) < 2 {
		printHelp(os.Stderr)
		os.Exit(exitUsage)
	}

	switch os.Args[1] {
	case "--version", "-v", "version":
		fmt.Printf("face-rotation %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		return
	case "--help", "-h", "help":
		printHelp(os.Stdout)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1], os.Args[2:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "face-rotation - estimate how far a face photo is rotated from upright")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  face-rotation classify [flags] <image>")
	fmt.Fprintln(w, "  face-rotation batch [flags] <dir|image>...")
	fmt.Fprintln(w, "  face-rotation serve [flags]")
	fmt.Fprintln(w, "  face-rotation history -history <db> [-since 24h] [image]...")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  classify    Classify one image, optionally showing the preprocessed plane")
	fmt.Fprintln(w, "  batch       Classify every image in the given directories and files")
	fmt.Fprintln(w, "  serve       Run the MCP server over stdin/stdout")
	fmt.Fprintln(w, "  history     Show recorded classifications from the history database")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "The result is the clockwise rotation in degrees (0, 90, 180, 270) that")
	fmt.Fprintln(w, "makes the face upright. It is saved as <image>.json next to the image")
	fmt.Fprintln(w, "or in -output-dir.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  --version, -v    Print version information")
	fmt.Fprintln(w, "  --help, -h       Print this help message")
	fmt.Fprintln(w, "  Run 'face-rotation <command> -h' for command flags.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintln(w, "  FACE_ROTATION_CONFIG=<file>       YAML configuration file")
	fmt.Fprintln(w, "  FACE_ROTATION_LOG_LEVEL=debug     Enable debug logging")
	fmt.Fprintln(w, "  FACE_ROTATION_<SETTING>=<value>   Override any configuration setting")
}

// run executes one command and returns the process exit code.
func run(ctx context.Context, command string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	switch command {
	case "classify", "batch", "serve", "history":
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", command)
		printHelp(stderr)
		return exitUsage
	}

	cfg, extra, rest, err := loadConfig(command, args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return exitUsage
	}

	closeLog := logging.Setup(cfg.LogFile, cfg.Debug())
	defer closeLog()
	logging.Debugf("face-rotation %s (built %s, commit %s)", Version, BuildTime, GitCommit)

	opts, err := cfg.Options()
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return exitUsage
	}
	logging.Debugf("options: %+v", opts)

	if command == "history" && cfg.HistoryDB == "" {
		fmt.Fprintln(stderr, "Error: history needs a database (-history or history_db)")
		return exitUsage
	}

	var history *store.History
	if cfg.HistoryDB != "" {
		history, err = store.OpenHistory(cfg.HistoryDB)
		if err != nil {
			fmt.Fprintln(stderr, "Error:", err)
			return exitFailure
		}
		defer history.Close()
	}

	switch command {
	case "classify":
		if len(rest) != 1 {
			fmt.Fprintln(stderr, "Error: classify takes exactly one image path")
			return exitUsage
		}
		return classify(ctx, cfg, opts, history, rest[0], stdout, stderr)
	case "batch":
		if len(rest) == 0 {
			fmt.Fprintln(stderr, "Error: batch needs at least one directory or image")
			return exitUsage
		}
		return runBatch(ctx, cfg, opts, history, rest, stdout, stderr)
	case "history":
		return showHistory(history, rest, extra.since, stdout, stderr)
	default:
		if len(rest) != 0 {
			fmt.Fprintln(stderr, "Error: serve takes no arguments")
			return exitUsage
		}
		server.Version = Version
		srv := server.New(
			server.WithOptions(opts),
			server.WithOutputDir(cfg.OutputDir),
			server.WithHistory(history),
		)
		if err := srv.Serve(stdin, stdout); err != nil {
			logging.Printf("Server error: %v", err)
			return exitFailure
		}
		return exitOK
	}
}

// commandFlags are flags that configure one invocation rather than the classifier.
type commandFlags struct {
	configPath string
	since      time.Duration
}

// loadConfig resolves defaults, the YAML file, the environment, and flags, in
// that order, and validates the result. Flags are parsed twice: once to find
// -config and once on top of the loaded file.
func loadConfig(command string, args []string, stderr io.Writer) (config.Config, commandFlags, []string, error) {
	var extra commandFlags
	newFlagSet := func(cfg *config.Config) *flag.FlagSet {
		fs := flag.NewFlagSet("face-rotation "+command, flag.ContinueOnError)
		fs.SetOutput(stderr)
		fs.StringVar(&extra.configPath, "config", config.PathFromEnv(), "YAML configuration file")
		if command == "history" {
			fs.DurationVar(&extra.since, "since", 0, "Also list classifications recorded within this duration (e.g. 24h)")
		}
		cfg.RegisterFlags(fs)
		return fs
	}

	scratch := config.Default()
	if err := newFlagSet(&scratch).Parse(args); err != nil {
		return config.Config{}, extra, nil, err
	}

	cfg, err := config.Load(extra.configPath)
	if err != nil {
		return config.Config{}, extra, nil, err
	}
	fs := newFlagSet(&cfg)
	if err := fs.Parse(args); err != nil {
		return config.Config{}, extra, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, extra, nil, err
	}
	if extra.since < 0 {
		return config.Config{}, extra, nil, fmt.Errorf("invalid -since %s: must not be negative", extra.since)
	}
	return cfg, extra, fs.Args(), nil
}

func newRunner(cfg config.Config, opts orient.Options, history *store.History, stdout io.Writer) *runner.Runner {
	return &runner.Runner{
		Options:   opts,
		OutputDir: cfg.OutputDir,
		History:   history,
		Fix:       cfg.Fix,
		Stdout:    stdout,
	}
}

func classify(ctx context.Context, cfg config.Config, opts orient.Options, history *store.History, path string, stdout, stderr io.Writer) int {
	r := newRunner(cfg, opts, history, stdout)
	if cfg.ShowImage {
		r.Viewer = display.SystemViewer{}
	}

	if _, err := r.Run(ctx, path); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return exitFailure
	}
	return exitOK
}

// runBatch never opens a viewer; one window per image is not useful.
func runBatch(ctx context.Context, cfg config.Config, opts orient.Options, history *store.History, args []string, stdout, stderr io.Writer) int {
	paths, err := batch.ExpandPaths(args)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return exitFailure
	}
	logging.Debugf("batch of %d images with %d workers", len(paths), cfg.Workers)

	r := newRunner(cfg, opts, history, io.Discard)
	resultPath := func(p string) string { return store.ResultPath(p, cfg.OutputDir) }
	items, err := batch.Run(ctx, paths, cfg.Workers, resultPath, r.Run)

	for _, it := range items {
		switch {
		case it.Result != nil && it.Err == nil:
			fmt.Fprintf(stdout, "%s: %d degrees\n", it.Path, int(it.Result.RotationDegrees))
		case it.Result != nil:
			fmt.Fprintf(stdout, "%s: %d degrees (not saved)\n", it.Path, int(it.Result.RotationDegrees))
			fmt.Fprintf(stderr, "Error: %v\n", it.Err)
		default:
			fmt.Fprintf(stderr, "Error: %s: %v\n", it.Path, it.Err)
		}
	}

	s := batch.Summarize(items)
	fmt.Fprintf(stdout, "Classified %d of %d images (0: %d, 90: %d, 180: %d, 270: %d)\n",
		s.Total-s.Failed, s.Total,
		s.ByRotation[orient.Upright], s.ByRotation[orient.Rotate90],
		s.ByRotation[orient.Rotate180], s.ByRotation[orient.Rotate270])

	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return exitFailure
	}
	if s.Failed > 0 {
		return exitFailure
	}
	return exitOK
}

// showHistory prints the latest entry for each path, entries newer than since
// when it is positive, and the totals per rotation. A path that was never
// classified makes the command fail.
func showHistory(h *store.History, paths []string, since time.Duration, stdout, stderr io.Writer) int {
	code := exitOK
	for _, p := range paths {
		e, err := h.Latest(p)
		switch {
		case errors.Is(err, store.ErrNoHistory):
			fmt.Fprintf(stdout, "%s: never classified\n", p)
			code = exitFailure
		case err != nil:
			fmt.Fprintln(stderr, "Error:", err)
			return exitFailure
		default:
			printEntry(stdout, e)
		}
	}

	if since > 0 {
		entries, err := h.Since(time.Now().Add(-since))
		if err != nil {
			fmt.Fprintln(stderr, "Error:", err)
			return exitFailure
		}
		fmt.Fprintf(stdout, "Classified in the last %s: %d\n", since, len(entries))
		for i := range entries {
			printEntry(stdout, &entries[i])
		}
	}

	counts, err := h.Counts()
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return exitFailure
	}
	fmt.Fprintf(stdout, "Recorded (0: %d, 90: %d, 180: %d, 270: %d)\n",
		counts[orient.Upright], counts[orient.Rotate90], counts[orient.Rotate180], counts[orient.Rotate270])
	return code
}

func printEntry(w io.Writer, e *store.Entry) {
	fmt.Fprintf(w, "%s: %d degrees at %s (%s)\n",
		e.ImagePath, int(e.RotationDegrees), e.ClassifiedAt.Local().Format(time.RFC3339), e.ResultPath)
}
