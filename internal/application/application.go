// Package application holds the ports and the instrumentation shared by the use cases.
package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Zhima-Mochi/procurement-portal/internal/domain/identity"
	domoutbox "github.com/Zhima-Mochi/procurement-portal/internal/domain/outbox"
	"github.com/Zhima-Mochi/procurement-portal/internal/observability"
	"github.com/Zhima-Mochi/procurement-portal/internal/observability/logctx"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	SpanPrefix     = "UC."
	PublishPeer    = "outbox"
	PublishTimeout = 300 * time.Millisecond
)

// ErrValidation marks input the caller can fix. Domain errors are wrapped
// under it so callers can match either.
var ErrValidation = errors.New("validation")

// Invalid wraps err as a validation failure.
func Invalid(err error) error {
	return fmt.Errorf("%w: %w", ErrValidation, err)
}

// IDGenerator hands out time-based entity ids.
type IDGenerator interface {
	NewID() int64
}

// Transactor runs fn atomically; repository calls made with the ctx handed
// to fn join the transaction.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Instrument carries the RED metrics, tracer and base logger of one service.
type Instrument struct {
	service string
	tracer  observability.Tracer
	log     observability.Logger

	reqCounter   observability.Counter   // usecase_requests_total{use_case,outcome}
	durHistogram observability.Histogram // usecase_duration_seconds{use_case}
	extCounter   observability.Counter   // external_requests_total{peer,endpoint,outcome}
	extHistogram observability.Histogram // external_request_duration_seconds{peer,endpoint}
}

func NewInstrument(tel observability.Observability, service string) *Instrument {
	if tel == nil {
		tel = observability.Nop()
	}
	m := tel.Metrics()
	return &Instrument{
		tracer:       tel.Tracer(),
		service:      service,
		log:          tel.Logger().With(observability.F("service", service)),
		reqCounter:   m.Counter(observability.MUsecaseRequests),
		durHistogram: m.Histogram(observability.MUsecaseDuration),
		extCounter:   m.Counter(observability.MExternalRequests),
		extHistogram: m.Histogram(observability.MExternalRequestDuration),
	}
}

// Logger is the service logger, without request scope.
func (in *Instrument) Logger() observability.Logger { return in.log }

// Call tracks one use case execution until End.
type Call struct {
	in      *Instrument
	useCase string
	span    trace.Span
	start   time.Time
	ctx     context.Context
	logger  observability.Logger
	outcome string
	status  string
	fields  []observability.Field
}

// Start opens the span for useCase and binds a request-scoped logger to the returned ctx.
func (in *Instrument) Start(ctx context.Context, useCase, spanName string, attrs ...attribute.KeyValue) (context.Context, *Call) {
	attrs = append([]attribute.KeyValue{attribute.String("use_case", useCase)}, attrs...)
	ctx, span := in.tracer.Start(ctx, SpanPrefix+spanName, attrs...)
	// A request-scoped logger from the transport does not carry the service yet.
	fields := []observability.Field{observability.F("use_case", useCase)}
	if logctx.From(ctx) != nil {
		fields = append([]observability.Field{observability.F("service", in.service)}, fields...)
	}
	ctx, logger := logctx.Enrich(ctx, in.log, fields...)
	return ctx, &Call{
		in:      in,
		useCase: useCase,
		span:    span,
		start:   time.Now(),
		ctx:     ctx,
		logger:  logger,
		outcome: "success",
		status:  "OK",
	}
}

func (c *Call) Span() trace.Span { return c.span }

func (c *Call) Logger() observability.Logger { return c.logger }

// Fail records an error outcome with a stable, upper-case status code.
func (c *Call) Fail(status string) {
	c.outcome, c.status = "error", status
}

// Status overrides the status of a call that still succeeds.
func (c *Call) Status(status string) { c.status = status }

// Field adds a field to the closing log line.
func (c *Call) Field(key string, value any) {
	c.fields = append(c.fields, observability.F(key, value))
}

// End closes the span, records RED metrics and writes the use_case_done line.
func (c *Call) End(err error) {
	if err != nil && c.outcome == "success" {
		c.Fail("ERROR")
	}
	lat := time.Since(c.start).Seconds()

	if c.span != nil {
		if err != nil {
			c.span.RecordError(err)
			c.span.SetStatus(codes.Error, c.status)
		} else {
			c.span.SetStatus(codes.Ok, c.status)
		}
		c.span.End()
	}

	c.in.reqCounter.Add(1,
		observability.L("use_case", c.useCase),
		observability.L("outcome", c.outcome),
	)
	c.in.durHistogram.Observe(lat, observability.L("use_case", c.useCase))

	fields := []observability.Field{
		observability.F("outcome", c.outcome),
		observability.F("status", c.status),
		observability.F("latency_seconds", lat),
	}
	if sc := trace.SpanContextFromContext(c.ctx); sc.IsValid() {
		fields = append(fields,
			observability.F("trace_id", sc.TraceID().String()),
			observability.F("span_id", sc.SpanID().String()),
		)
	}
	fields = append(fields, c.fields...)
	if err != nil {
		fields = append(fields, observability.F("error", err.Error()))
	}
	c.logger.Info("use_case_done", fields...)
}

// Publish hands e to publisher with a short timeout. Failures are recorded on
// the call and returned, but the use case result stands.
func (c *Call) Publish(ctx context.Context, publisher domoutbox.Publisher, e domoutbox.Event) error {
	if publisher == nil || e == nil {
		return nil
	}
	endpoint := e.EventName()
	pubCtx, cancel := context.WithTimeout(ctx, PublishTimeout)
	defer cancel()

	start := time.Now()
	outcome := "success"
	err := publisher.Publish(pubCtx, e)
	switch {
	case err != nil && errors.Is(err, context.DeadlineExceeded):
		outcome = "canceled"
		c.status = "EVENT_PUBLISH_TIMEOUT"
	case err != nil:
		outcome = "error"
		c.status = "EVENT_PUBLISH_FAILED"
	}

	c.in.extCounter.Add(1,
		observability.L("peer", PublishPeer),
		observability.L("endpoint", endpoint),
		observability.L("outcome", outcome),
	)
	c.in.extHistogram.Observe(time.Since(start).Seconds(),
		observability.L("peer", PublishPeer),
		observability.L("endpoint", endpoint),
	)

	if err != nil {
		c.span.RecordError(err)
		c.Field("event_publish_error", err.Error())
		c.logger.Warn("event_publish_failed",
			observability.F("event", endpoint),
			observability.F("error", err.Error()),
		)
		return err
	}
	c.span.AddEvent(endpoint)
	return nil
}

// AuthStatus is the call status for a failed identity check.
func AuthStatus(err error) string {
	if errors.Is(err, identity.ErrForbidden) {
		return "FORBIDDEN"
	}
	return "UNAUTHENTICATED"
}
