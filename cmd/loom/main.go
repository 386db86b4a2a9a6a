// Package main is the entry point for the Loom editor.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/dshills/loom/internal/config"
	"github.com/dshills/loom/internal/view"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// options holds the parsed command line.
type options struct {
	configPath  string
	journalPath string
	tracePath   string
	dump        bool
	debug       bool
	file        string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	manager, err := config.NewManager(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load configuration: %v\n", err)
		return 1
	}
	defer manager.Close()

	cfg := manager.Config()
	if opts.journalPath != "" {
		cfg.Journal.Path = opts.journalPath
	}

	interactive := !opts.dump && term.IsTerminal(int(os.Stdout.Fd()))
	if interactive {
		// Terminal rows and columns are cells whatever the file says.
		cfg.Layout.Measurer = config.MeasurerCell
	}

	ed, err := newEditor(cfg, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer ed.Close()

	if !interactive {
		if err := view.Dump(os.Stdout, ed.engine); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	if err := runTerminal(ed, manager, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// runTerminal runs the interactive editor. The terminal is restored before
// it returns.
func runTerminal(ed *editor, manager *config.Manager, opts options) error {
	tui, err := view.NewTerminal()
	if err != nil {
		return fmt.Errorf("failed to create terminal: %w", err)
	}
	if err := tui.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	defer tui.Fini()

	v, err := ed.attach(tui, manager)
	if err != nil {
		return err
	}
	if opts.file != "" {
		v.SetName(filepath.Base(opts.file))
	}

	if err := manager.Watch(100 * time.Millisecond); err != nil {
		v.SetStatus("config watch: %v", err)
	}

	// Handle signals for graceful shutdown
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	done := make(chan struct{})
	defer close(done)
	go watchSignals(signals, v.Stop, done)

	return v.Run()
}

// watchSignals calls stop on the first signal. It returns early once done
// is closed.
func watchSignals(signals <-chan os.Signal, stop func(), done <-chan struct{}) {
	select {
	case <-signals:
		stop()
	case <-done:
	}
}

func parseFlags() options {
	var opts options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.journalPath, "journal", "", "Append applied transformations to this file")
	flag.StringVar(&opts.tracePath, "trace", "", "Write a dispatch trace to this file")
	flag.BoolVar(&opts.dump, "dump", false, "Print the layout instead of opening the editor")
	flag.BoolVar(&opts.debug, "debug", false, "Let command panics crash with a stack trace")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Loom - rich text layout and cursor engine\n\n")
		fmt.Fprintf(os.Stderr, "Usage: loom [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  loom                        Open an empty document\n")
		fmt.Fprintf(os.Stderr, "  loom notes.txt              Open a file\n")
		fmt.Fprintf(os.Stderr, "  loom -dump notes.txt        Print lines and rectangles\n")
		fmt.Fprintf(os.Stderr, "  loom -journal edits.jsonl   Record every edit\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("Loom %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch flag.NArg() {
	case 0:
	case 1:
		opts.file = flag.Arg(0)
	default:
		fmt.Fprintf(os.Stderr, "Error: expected at most one file, got %d\n", flag.NArg())
		os.Exit(1)
	}

	return opts
}
