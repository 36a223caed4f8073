//go:build linux

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/exepta/appscope/internal/actions"
	"github.com/exepta/appscope/internal/config"
	"github.com/exepta/appscope/internal/engine"
	"github.com/exepta/appscope/internal/launch"
	"github.com/exepta/appscope/internal/logging"
	"github.com/exepta/appscope/internal/output"
	"github.com/exepta/appscope/internal/snapshot"
	"github.com/exepta/appscope/internal/steam"
	"github.com/exepta/appscope/internal/tui"
)

var version = ""
var commit = ""
var buildDate = ""

func printHelp() {
	fmt.Println("Usage: appscope [--once] [--json] [--help] [--version]")
	fmt.Println("  --once            Print the current application list and exit")
	fmt.Println("  --json            With --once, output as JSON")
	fmt.Println("  --help            Show this help message")
	fmt.Println("  --version         Show version and exit")
	fmt.Println()
	fmt.Println("Environment: APPSCOPE_INTERVAL, APPSCOPE_DEBUG, APPSCOPE_DEBUG_STRIDE, APPSCOPE_LOG_FILE")
}

func main() {
	// Sanity check: fail build if version is not injected
	if version == "" {
		fmt.Fprintln(os.Stderr, "ERROR: version not set. Use -ldflags '-X main.version=...' when building.")
		os.Exit(2)
	}

	versionFlag := flag.Bool("version", false, "show version and exit")
	onceFlag := flag.Bool("once", false, "print the application list once and exit")
	jsonFlag := flag.Bool("json", false, "output as JSON")
	helpFlag := flag.Bool("help", false, "show help")
	flag.Parse()

	if *helpFlag {
		printHelp()
		return
	}
	if *versionFlag {
		fmt.Printf("appscope %s (commit %s, built %s)\n", version, commit, buildDate)
		return
	}
	// To embed version, commit, and build date, use:
	// go build -ldflags "-X main.version=v0.1.0 -X main.commit=$(git rev-parse --short HEAD) -X 'main.buildDate=$(date +%Y-%m-%d)'" -o appscope ./cmd/appscope

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, flush, err := logging.New(cfg.LogFile, cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer flush()

	resolver := steam.NewResolver(logger)
	collector := snapshot.NewCollector(logger)
	stride := 0
	if cfg.Debug {
		stride = cfg.DebugStride
	}
	eng := engine.New(logger, collector, resolver, stride)

	if *onceFlag {
		if err := printOnce(eng, *jsonFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := resolver.Watch(ctx); err != nil && ctx.Err() == nil {
			logger.Warn("steam manifest watch stopped", zap.Error(err))
		}
	}()

	launcher := launch.NewLauncher(logger)
	act := actions.New(logger, eng, launcher)

	if err := tui.Run(eng, act, logger, cfg.Interval); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printOnce(eng *engine.Engine, asJSON bool) error {
	if err := eng.Refresh(context.Background()); err != nil {
		return err
	}
	entries := eng.Entries()

	if asJSON {
		return output.PrintJSON(os.Stdout, entries)
	}
	return output.PrintTable(os.Stdout, entries)
}
