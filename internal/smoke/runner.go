package smoke

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mergington/rollcall/pkg/logger"
)

// Run executes the complete signup smoke run.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting rollcall signup smoke run",
		logger.String("baseURL", config.BaseURL),
		logger.Int("students", config.NumStudents),
		logger.Int("unregister", config.Unregister),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Any("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Record the baseline rosters
	baseline, err := fetchActivities(ctx, config)
	if err != nil {
		return fmt.Errorf("baseline fetch failed: %w", err)
	}

	// Step 3: Generate synthetic enrollments
	enrollments, err := generateEnrollments(ctx, config, baseline)
	if err != nil {
		return fmt.Errorf("enrollment generation failed: %w", err)
	}
	stats.StudentsGenerated = len(enrollments)

	// Step 4: Sign everyone up concurrently
	logger.Get().Info(ctx, "submitting signups",
		logger.Int("count", len(enrollments)),
		logger.Int("workers", config.Workers))
	succ, rej, fail := submitEnrollments(ctx, config, http.MethodPost, enrollments)
	stats.SignupsSubmitted = len(enrollments)
	stats.SignupsSuccessful = succ
	stats.SignupsRejected = rej
	stats.SignupsFailed = fail
	if fail > 0 {
		return fmt.Errorf("%d signups failed outright", fail)
	}

	// Step 5: Unregister a slice of them again
	removed := enrollments[:min(config.Unregister, len(enrollments))]
	kept := enrollments[len(removed):]
	if len(removed) > 0 {
		logger.Get().Info(ctx, "submitting unregisters", logger.Int("count", len(removed)))
		uSucc, _, uFail := submitEnrollments(ctx, config, http.MethodDelete, removed)
		stats.UnregistersSubmitted = len(removed)
		stats.UnregistersSuccessful = uSucc
		stats.UnregistersFailed = uFail
		if uFail > 0 {
			return fmt.Errorf("%d unregisters failed outright", uFail)
		}
	}

	// Step 6: Verify final rosters against expectations
	if err := verifyRosters(ctx, config, baseline, kept, removed); err != nil {
		return fmt.Errorf("roster verification failed: %w", err)
	}

	// Step 7: Verify the audit feed saw the traffic
	if err := verifyChanges(ctx, config, stats); err != nil {
		return fmt.Errorf("audit verification failed: %w", err)
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "smoke run completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)

	resp, err := client.Get(config.BaseURL + "/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	// Any 200 counts as healthy; the endpoint serves Prometheus metrics.
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// displayFinalStats prints the final run statistics.
func displayFinalStats(stats *Stats) {
	var successRate, signupsPerSecond float64

	if stats.SignupsSubmitted > 0 {
		successRate = float64(stats.SignupsSuccessful) / float64(stats.SignupsSubmitted) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		signupsPerSecond = float64(stats.SignupsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("studentsGenerated", stats.StudentsGenerated),
		logger.Int("signupsSubmitted", stats.SignupsSubmitted),
		logger.Int("signupsSuccessful", stats.SignupsSuccessful),
		logger.Int("signupsRejected", stats.SignupsRejected),
		logger.Int("signupsFailed", stats.SignupsFailed),
		logger.Int("unregistersSubmitted", stats.UnregistersSubmitted),
		logger.Int("unregistersSuccessful", stats.UnregistersSuccessful),
		logger.Int("changesRetrieved", stats.ChangesRetrieved),
		logger.String("duration", stats.Duration.String()),
		logger.Any("successRate", successRate),
		logger.Any("signupsPerSecond", signupsPerSecond))
}
