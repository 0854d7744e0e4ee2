package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/leaderrank/leaderrank/internal/loadtest"
)

// Default configuration constants.
const (
	defaultNumEvents   = 10000
	defaultRankSpan    = 50
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numEvents  = flag.Int("events", defaultNumEvents, "Number of delta events to generate and submit")
		rankSpan   = flag.Int("span", defaultRankSpan, "Width of the leaderboard band to fetch at the end")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile = flag.String("output", "", "Output file for generated events")
		logFile    = flag.String("log", "", "Log file for test output")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		loadtest.ShowHelp()
		return
	}

	if err := loadtest.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("failed to setup logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	config := &loadtest.Config{
		BaseURL:    *baseURL,
		NumEvents:  *numEvents,
		RankSpan:   *rankSpan,
		Workers:    *workers,
		Timeout:    *timeout,
		OutputFile: *outputFile,
		LogFile:    *logFile,
		Verbose:    *verbose,
	}

	if err := loadtest.Run(ctx, config); err != nil {
		os.Stderr.WriteString("load test failed: " + err.Error() + "\n")
		return
	}
}
