package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/mergington/rollcall/internal/smoke"
)

// Default configuration constants.
const (
	defaultNumStudents = 200
	defaultUnregister  = 50
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultChangesN    = 50
	defaultRunTimeout  = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:8000", "Base URL of the service")
		students   = flag.Int("students", defaultNumStudents, "Number of synthetic students to enroll")
		unregister = flag.Int("unregister", defaultUnregister, "How many enrolled students to unregister again")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		changesN   = flag.Int("changes", defaultChangesN, "Number of audit records to fetch at the end")
		logFile    = flag.String("log", "", "Log file for run output (default: smoke_log_TIMESTAMP.log)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		smoke.ShowHelp()
		return
	}

	// Setup logging
	if err := smoke.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	// Create run configuration
	config := &smoke.Config{
		BaseURL:     *baseURL,
		NumStudents: *students,
		Unregister:  *unregister,
		Workers:     *workers,
		Timeout:     *timeout,
		ChangesN:    *changesN,
		LogFile:     *logFile,
		Verbose:     *verbose,
	}

	// Run the smoke traffic
	if err := smoke.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Smoke run failed: " + err.Error() + "\n")
		return
	}
}
