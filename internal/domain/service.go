package domain

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"talio/internal/storage"
)

// Stats describes one finished session.
type Stats struct {
	Load      time.Duration
	Patch     time.Duration
	Observers int
}

// Service runs sessions against a store with one writer per board at a time.
type Service struct {
	repo      *Repository
	source    ObserverSource
	logger    *log.Logger
	tracer    trace.Tracer
	locks     *keyedMutex
	isolate   bool
	onFailure func(BoardObserver, error)
}

type ServiceOption func(*Service)

// WithIsolatedFailures keeps patches running when an observer fails. The
// failed observer is skipped for the rest of the session and handed to
// onFailure, which may be nil.
func WithIsolatedFailures(onFailure func(BoardObserver, error)) ServiceOption {
	return func(s *Service) {
		s.isolate = true
		s.onFailure = onFailure
	}
}

func WithTracer(t trace.Tracer) ServiceOption {
	return func(s *Service) { s.tracer = t }
}

func NewService(store storage.Store, source ObserverSource, logger *log.Logger, opts ...ServiceOption) *Service {
	if logger == nil {
		logger = log.StandardLogger()
	}
	s := &Service{
		repo:   NewRepository(store),
		source: source,
		logger: logger,
		tracer: otel.Tracer("talio/internal/domain"),
		locks:  newKeyedMutex(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Update runs fn inside a locked, observed session.
func (s *Service) Update(ctx context.Context, name string, fn func(*Session) error) (Stats, error) {
	return s.run(ctx, name, s.source, fn)
}

// View runs fn inside a locked session with no observers attached.
func (s *Service) View(ctx context.Context, name string, fn func(*Session) error) (Stats, error) {
	return s.run(ctx, name, nil, fn)
}

func (s *Service) run(ctx context.Context, name string, source ObserverSource, fn func(*Session) error) (Stats, error) {
	ctx, span := s.tracer.Start(ctx, "domain."+name)
	defer span.End()

	start := time.Now()
	sess := NewSession(ctx, s.repo, source, SessionOptions{
		IsolateFailures:   s.isolate,
		OnObserverFailure: s.observerFailed,
		Lock:              s.locks.Lock,
	})
	err := fn(sess)
	sess.Close()

	total := time.Since(start)
	stats := Stats{Load: sess.Loading(), Patch: total - sess.Loading(), Observers: sess.Notified()}
	span.SetAttributes(attribute.Int("talio.observers", stats.Observers))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return stats, fmt.Errorf("%s: %w", name, err)
	}
	return stats, nil
}

func (s *Service) observerFailed(o BoardObserver, err error) {
	s.logger.WithError(err).WithField("observer", fmt.Sprintf("%T", o)).Warn("observer detached after failure")
	if s.onFailure != nil {
		s.onFailure(o, err)
	}
}
