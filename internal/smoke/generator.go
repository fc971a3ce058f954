package smoke

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/mergington/rollcall/pkg/logger"
)

// generateEnrollments produces synthetic students spread round-robin across
// the activities the service currently exposes. Emails embed a uuid so
// repeated runs against the same process never collide with earlier ones.
func generateEnrollments(ctx context.Context, config *Config, activities map[string]Activity) ([]Enrollment, error) {
	if len(activities) == 0 {
		return nil, fmt.Errorf("service exposes no activities")
	}

	names := make([]string, 0, len(activities))
	for name := range activities {
		names = append(names, name)
	}
	// Deterministic assignment regardless of map iteration order.
	sort.Strings(names)

	enrollments := make([]Enrollment, 0, config.NumStudents)
	for i := 0; i < config.NumStudents; i++ {
		enrollments = append(enrollments, Enrollment{
			Activity: names[i%len(names)],
			Email:    fmt.Sprintf("smoke-%s@mergington.edu", uuid.NewString()),
		})
	}

	logger.Get().Info(ctx, "generated enrollments",
		logger.Int("students", len(enrollments)),
		logger.Int("activities", len(names)))
	return enrollments, nil
}
