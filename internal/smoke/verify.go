package smoke

import (
	"context"
	"fmt"

	"github.com/mergington/rollcall/pkg/logger"
)

// verifyRosters checks that every expected enrollment landed on a roster and
// every removed one is gone. The baseline rosters are untouched by the run,
// so any seeded participants must still be present.
func verifyRosters(ctx context.Context, config *Config, baseline map[string]Activity, kept, removed []Enrollment) error {
	final, err := fetchActivities(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to fetch final rosters: %w", err)
	}

	onRoster := make(map[string]map[string]bool, len(final))
	for name, activity := range final {
		members := make(map[string]bool, len(activity.Participants))
		for _, email := range activity.Participants {
			members[email] = true
		}
		onRoster[name] = members
	}

	var missing, lingering, lost int

	for _, e := range kept {
		if !onRoster[e.Activity][e.Email] {
			missing++
			if config.Verbose {
				logger.Get().Warn(ctx, "expected enrollment missing",
					logger.String("activity", e.Activity),
					logger.String("email", e.Email))
			}
		}
	}

	for _, e := range removed {
		if onRoster[e.Activity][e.Email] {
			lingering++
			if config.Verbose {
				logger.Get().Warn(ctx, "unregistered student still on roster",
					logger.String("activity", e.Activity),
					logger.String("email", e.Email))
			}
		}
	}

	for name, activity := range baseline {
		for _, email := range activity.Participants {
			if !onRoster[name][email] {
				lost++
			}
		}
	}

	if missing > 0 || lingering > 0 || lost > 0 {
		return fmt.Errorf("roster verification failed: %d missing, %d lingering, %d seeded lost",
			missing, lingering, lost)
	}

	logger.Get().Info(ctx, "rosters verified",
		logger.Int("kept", len(kept)),
		logger.Int("removed", len(removed)))
	return nil
}

// verifyChanges checks the audit feed reflects the run.
func verifyChanges(ctx context.Context, config *Config, stats *Stats) error {
	changes, err := fetchChanges(ctx, config, config.ChangesN)
	if err != nil {
		return fmt.Errorf("failed to fetch changes: %w", err)
	}

	stats.ChangesRetrieved = len(changes)
	if len(changes) == 0 {
		return fmt.Errorf("audit feed is empty after %d mutations", stats.SignupsSuccessful)
	}

	for i, c := range changes {
		if c.EventID == "" {
			return fmt.Errorf("change %d is missing an event id", i)
		}
		if c.Kind != "signup" && c.Kind != "unregister" {
			return fmt.Errorf("change %d has unexpected kind %q", i, c.Kind)
		}
	}

	logger.Get().Info(ctx, "audit feed verified", logger.Int("changes", len(changes)))
	return nil
}
