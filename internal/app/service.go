// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	eventqueue "github.com/mergington/rollcall/internal/adapters/mq/queue"
	workerpool "github.com/mergington/rollcall/internal/adapters/mq/worker"
	repository "github.com/mergington/rollcall/internal/adapters/repository"
	"github.com/mergington/rollcall/internal/domain/dedupe"
	"github.com/mergington/rollcall/internal/domain/model"
	"github.com/mergington/rollcall/internal/domain/policy"
	"github.com/mergington/rollcall/internal/domain/types"
	"github.com/mergington/rollcall/pkg/logger"
	"github.com/mergington/rollcall/pkg/metrics"
)

// Service implements the API dependencies for the activities registry.
type Service struct {
	mu sync.RWMutex

	// Core components
	registry   repository.Registry
	trail      *repository.Trail
	deduper    dedupe.Deduper
	eventQueue eventqueue.Queue
	workerPool *workerpool.Pool

	// Configuration
	workerCount     int
	queueSize       int
	dedupeSize      int
	trailSize       int
	enforceCapacity bool
	seed            []model.NamedActivity

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of audit worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the change event queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithTrailSize bounds the audit trail.
func WithTrailSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.trailSize = size
		}
	}
}

// WithCapacityEnforcement toggles the max_participants check on signup.
func WithCapacityEnforcement(enabled bool) Option {
	return func(s *Service) {
		s.enforceCapacity = enabled
	}
}

// WithSeed replaces the built-in activity roster.
func WithSeed(seed []model.NamedActivity) Option {
	return func(s *Service) {
		if len(seed) > 0 {
			s.seed = seed
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: 2,
		queueSize:   10_000,
		dedupeSize:  50_000,
		trailSize:   1000,
		stopCh:      make(chan struct{}),
		logger:      nil, // resolved on Start
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting activities registry service...")

	seed := s.seed
	if seed == nil {
		seed = model.DefaultSeed()
	}

	admission := policy.New(policy.WithCapacityEnforcement(s.enforceCapacity))
	s.registry = repository.NewMemRegistry(seed, repository.WithAdmission(admission))
	s.trail = repository.NewTrail(s.trailSize)
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.eventQueue = eventqueue.NewInMemoryQueue(
		eventqueue.WithCapacity(s.queueSize),
	)

	s.workerPool = workerpool.NewPool(s.workerCount, s.eventQueue, s.trail)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "activities registry service started",
		logger.Int("activities", s.registry.Count(ctx)),
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Bool("enforceCapacity", s.enforceCapacity),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping activities registry service...")

	// Close the queue first so workers drain and exit
	if q, ok := s.eventQueue.(*eventqueue.InMemoryQueue); ok {
		_ = q.Close()
	}
	if s.workerPool != nil {
		s.workerPool.Stop()
	}

	select {
	case <-s.stopCh:
		// Channel already closed
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(context.Background(), "activities registry service stopped")
}

// Activities returns a deep-copied snapshot of all activities in seed order.
func (s *Service) Activities(ctx context.Context) []model.NamedActivity {
	return s.registry.Snapshot(ctx)
}

// Activity returns one activity record.
func (s *Service) Activity(ctx context.Context, name string) (model.Activity, error) {
	return s.registry.Get(ctx, name)
}

// Signup adds email to the named activity's roster and records the change.
func (s *Service) Signup(ctx context.Context, name, email string) error {
	if err := s.registry.Signup(ctx, name, email); err != nil {
		recordRejection(err)
		return err
	}

	metrics.RecordSignup()
	s.recordChange(ctx, model.KindSignup, name, email)
	s.logger.Debug(ctx, "signed up participant",
		logger.String("activity", name),
		logger.String("email", email),
	)
	return nil
}

// Unregister removes email from the named activity's roster and records the change.
func (s *Service) Unregister(ctx context.Context, name, email string) error {
	if err := s.registry.Unregister(ctx, name, email); err != nil {
		recordRejection(err)
		return err
	}

	metrics.RecordUnregister()
	s.recordChange(ctx, model.KindUnregister, name, email)
	s.logger.Debug(ctx, "unregistered participant",
		logger.String("activity", name),
		logger.String("email", email),
	)
	return nil
}

// RecentChanges returns up to n audit records, newest first.
func (s *Service) RecentChanges(ctx context.Context, n int) ([]types.Change, error) {
	events := s.trail.Recent(ctx, n)
	out := make([]types.Change, len(events))
	for i, ev := range events {
		out[i] = types.Change{
			EventID:  ev.EventID,
			Activity: ev.Activity,
			Email:    ev.Email,
			Kind:     string(ev.Kind),
			TS:       ev.TS.Format(time.RFC3339),
		}
	}
	return out, nil
}

// recordChange stamps and enqueues an audit event for a completed mutation.
// Backpressure never fails the mutation; the event is dropped with a warning.
func (s *Service) recordChange(ctx context.Context, kind model.ChangeKind, name, email string) {
	ev := model.ChangeEvent{
		EventID:  uuid.NewString(),
		Activity: name,
		Email:    email,
		Kind:     kind,
		TS:       time.Now().UTC(),
	}

	if s.deduper.SeenAndRecord(ctx, ev.EventID) {
		metrics.RecordAuditDuplicate()
		return
	}
	if !s.eventQueue.Enqueue(ctx, ev) {
		// Roll back the "seen" status so a retry of this id is possible
		s.deduper.Unrecord(ctx, ev.EventID)
		metrics.RecordAuditDrop()
		s.logger.Warn(ctx, "change event dropped on backpressure",
			logger.String("eventID", ev.EventID),
			logger.String("activity", name),
		)
	}
}

// recordRejection maps a mutation error to the rejection metric label.
func recordRejection(err error) {
	switch {
	case errors.Is(err, repository.ErrActivityNotFound):
		metrics.RecordRejection("not_found")
	case errors.Is(err, repository.ErrAlreadySignedUp):
		metrics.RecordRejection("already_signed_up")
	case errors.Is(err, repository.ErrNotRegistered):
		metrics.RecordRejection("not_registered")
	case errors.Is(err, policy.ErrAtCapacity):
		metrics.RecordRejection("at_capacity")
	default:
		metrics.RecordRejection("unknown")
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}

	if s.started {
		totalActivities := s.registry.Count(ctx)
		totalParticipants := s.registry.ParticipantCount(ctx)
		queueLen := s.eventQueue.Len(ctx)
		trailLen := s.trail.Len(ctx)

		stats["totalActivities"] = totalActivities
		stats["totalParticipants"] = totalParticipants
		stats["queueLength"] = queueLen
		stats["trailLength"] = trailLen

		// Update metrics
		metrics.UpdateActivityCount(totalActivities)
		metrics.UpdateParticipantCount(totalParticipants)
		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}
