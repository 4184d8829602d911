package api

import (
	"context"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"talio/internal/domain"
)

const tracerName = "talio/internal/api"

// boardRequestMetrics collects the timings of one write request and emits a
// single board.request.metrics line when it finishes.
type boardRequestMetrics struct {
	logger     *log.Logger
	span       trace.Span
	route      string
	start      time.Time
	board      int64
	load       time.Duration
	patch      time.Duration
	observers  int
	errorStage string
}

func newBoardRequestMetrics(ctx context.Context, logger *log.Logger, route string) (*boardRequestMetrics, context.Context) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "board.request",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(attribute.String("http.route", route)),
	)
	return &boardRequestMetrics{logger: logger, span: span, route: route, start: time.Now()}, ctx
}

func (m *boardRequestMetrics) SetBoard(id int64) {
	if id > 0 {
		m.board = id
	}
}

func (m *boardRequestMetrics) ObserveStats(s domain.Stats) {
	m.load = s.Load
	m.patch = s.Patch
	m.observers = s.Observers
}

func (m *boardRequestMetrics) SetErrorStage(stage string) {
	if stage == "" || m.errorStage != "" {
		return
	}
	m.errorStage = stage
}

func (m *boardRequestMetrics) Log(status int, err error) {
	if m == nil {
		return
	}
	total := time.Since(m.start)
	m.span.SetAttributes(
		attribute.Int("http.status_code", status),
		attribute.Int64("talio.board", m.board),
		attribute.Int("talio.observers", m.observers),
	)
	switch {
	case err != nil:
		m.span.RecordError(err)
		m.span.SetStatus(codes.Error, err.Error())
	case status >= http.StatusInternalServerError:
		m.span.SetStatus(codes.Error, http.StatusText(status))
	default:
		m.span.SetStatus(codes.Ok, "")
	}
	if m.errorStage != "" {
		m.span.SetAttributes(attribute.String("talio.error_stage", m.errorStage))
	}
	m.span.End()

	if m.logger == nil {
		return
	}
	fields := log.Fields{
		"route":     m.route,
		"status":    status,
		"total_ms":  durationToMillis(total),
		"observers": m.observers,
	}
	if m.board > 0 {
		fields["board"] = m.board
	}
	if m.load > 0 {
		fields["load_ms"] = durationToMillis(m.load)
	}
	if m.patch > 0 {
		fields["patch_ms"] = durationToMillis(m.patch)
	}
	if m.errorStage != "" {
		fields["error_stage"] = m.errorStage
	}
	if err != nil {
		fields["error"] = err.Error()
	}

	entry := m.logger.WithFields(fields)
	if status >= http.StatusInternalServerError {
		entry.Error("board.request.metrics")
		return
	}
	entry.Info("board.request.metrics")
}

func durationToMillis(d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(d) / float64(time.Millisecond)
}
