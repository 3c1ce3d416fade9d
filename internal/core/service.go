package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"eventcore/internal/identity"
	"eventcore/internal/infra/persistence/memory"
	"eventcore/pkg/domain"
)

// Service executes the named mutator set against one persistence location.
// The same Service type serves both locations: a client instance wraps the
// local replica, a server instance wraps the durable store. Identity-provider
// side effects fire only on the server location.
type Service struct {
	store    PersistentStore
	location domain.Location
	logger   Logger
	clock    Clock
	audit    AuditRecorder
	metrics  MetricsRecorder
	tracer   Tracer
	provider identity.Provider

	// photoPrefix, when set, is the required prefix for photo path arguments.
	// Object upload/delete is performed by the caller, not the mutators.
	photoPrefix string
}

// Option configures a Service.
type Option func(*Service)

// WithLogger injects a structured logger.
func WithLogger(logger Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock injects the timestamp source used for row stamping and audit
// entries.
func WithClock(clock Clock) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithAuditRecorder injects an audit sink.
func WithAuditRecorder(recorder AuditRecorder) Option {
	return func(s *Service) {
		if recorder != nil {
			s.audit = recorder
		}
	}
}

// WithMetricsRecorder injects a metrics sink.
func WithMetricsRecorder(recorder MetricsRecorder) Option {
	return func(s *Service) {
		if recorder != nil {
			s.metrics = recorder
		}
	}
}

// WithTracer injects a tracer.
func WithTracer(tracer Tracer) Option {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithIdentityProvider injects the identity-provider collaborator. It is
// consulted by user mutators on the server location only.
func WithIdentityProvider(provider identity.Provider) Option {
	return func(s *Service) {
		if provider != nil {
			s.provider = provider
		}
	}
}

// WithPhotoPrefix sets the prefix photo path arguments must carry.
func WithPhotoPrefix(prefix string) Option {
	return func(s *Service) {
		s.photoPrefix = prefix
	}
}

// WithLocation sets the execution location. The default is server.
func WithLocation(location domain.Location) Option {
	return func(s *Service) {
		s.location = location
	}
}

// clockConfigurable is satisfied by the memory store and the durable stores
// that embed it; the service propagates its clock so row stamping and audit
// timestamps agree.
type clockConfigurable interface {
	SetNowFunc(func() time.Time)
}

// NewService constructs a service over the given store.
func NewService(store PersistentStore, opts ...Option) *Service {
	s := &Service{
		store:    store,
		location: domain.LocationServer,
		logger:   noopLogger{},
		clock:    utcClock{},
		audit:    noopAuditRecorder{},
		metrics:  noopMetricsRecorder{},
		tracer:   noopTracer{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if cs, ok := store.(clockConfigurable); ok {
		cs.SetNowFunc(s.clock.Now)
	}
	return s
}

// NewInMemoryService creates a service over a fresh in-memory store with the
// given rules engine (nil selects the default engine).
func NewInMemoryService(engine *RulesEngine, opts ...Option) *Service {
	if engine == nil {
		engine = NewDefaultRulesEngine()
	}
	return NewService(memory.NewStore(engine), opts...)
}

// Store returns the underlying persistence implementation.
func (s *Service) Store() PersistentStore {
	return s.store
}

// Location returns the execution location this service represents.
func (s *Service) Location() domain.Location {
	return s.location
}

// validatePhotoPath accepts an absent or empty path, or one carrying the
// configured prefix.
func (s *Service) validatePhotoPath(path *string) error {
	if path == nil || *path == "" || s.photoPrefix == "" {
		return nil
	}
	if !strings.HasPrefix(*path, s.photoPrefix) {
		return domain.ValidationError{Reason: fmt.Sprintf("photo path must start with %q", s.photoPrefix)}
	}
	return nil
}

// run wraps one mutator invocation with tracing, metrics, logging, and audit.
// entityID, when non-nil, is read after fn completes so handlers can fill it
// with the affected row.
func (s *Service) run(ctx context.Context, op string, actor *Actor, entityID *string, fn func(tx Transaction) error) (Result, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, op)
	res, err := s.store.RunInTransaction(ctx, fn)
	span.End(err)
	elapsed := time.Since(start)
	s.metrics.Observe(ctx, op, err == nil, elapsed)

	entry := AuditEntry{
		Operation:  op,
		Location:   string(s.location),
		Status:     AuditStatusSuccess,
		Duration:   elapsed,
		OccurredAt: s.clock.Now(),
	}
	if actor != nil {
		entry.ActorID = actor.SubjectID
	}
	if entityID != nil {
		entry.EntityID = *entityID
	}
	if err != nil {
		entry.Status = AuditStatusError
		entry.Error = err.Error()
		s.logger.Warn("mutation rejected", "operation", op, "location", s.location, "error", err)
	} else {
		s.logger.Debug("mutation applied", "operation", op, "location", s.location, "entity_id", entry.EntityID)
	}
	s.audit.Record(ctx, entry)
	return res, err
}
