package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/handlers"
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/session"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// DefaultMaxKeys bounds the number of keys accepted in one request.
const DefaultMaxKeys = 256

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

var errTooManyKeys = errors.New("too many keys")

// Handler serves the calculator endpoints on top of a session store.
type Handler struct {
	store   *session.Store
	maxKeys int
}

// NewHandler returns a Handler. A non-positive maxKeys means DefaultMaxKeys.
func NewHandler(store *session.Store, maxKeys int) *Handler {
	if maxKeys <= 0 {
		maxKeys = DefaultMaxKeys
	}
	return &Handler{store: store, maxKeys: maxKeys}
}

// ---------------------------------------------------------------------------
// Stateless evaluation
// ---------------------------------------------------------------------------

// Evaluate handles POST /calculator/evaluate. It replays a key sequence from a
// fresh calculator, creating a child span for every key.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.evaluate",
		trace.WithAttributes(
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	events, err := h.decodeKeys(r)
	if err != nil {
		h.recordKeyError(ctx, span, logger, "evaluate", err, w)
		return
	}

	span.SetAttributes(attribute.Int("calculator.keys_count", len(events)))

	start := time.Now()
	state, steps := replay(ctx, calculator.New(), events)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	recordResult(ctx, "evaluate", state, elapsed)

	span.AddEvent("evaluate.complete", trace.WithAttributes(
		attribute.String("display", state.Display),
		attribute.Int("total_keys", len(events)),
	))
	span.SetAttributes(attribute.String("calculator.display", state.Display))
	span.SetStatus(codes.Ok, "")

	logger.Info("key sequence evaluated",
		zap.Int("keys", len(events)),
		zap.String("display", state.Display),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	handlers.WriteJSON(w, http.StatusOK, EvaluateResponse{
		Display: state.Display,
		Steps:   steps,
	})
}

// replay applies events one at a time under a child span per key.
func replay(ctx context.Context, state calculator.State, events []calculator.Event) (calculator.State, []calculator.Step) {
	steps := make([]calculator.Step, 0, len(events))

	for i, e := range events {
		_, keySpan := tracer.Start(ctx, fmt.Sprintf("calculator.key.%d", i),
			trace.WithAttributes(
				attribute.Int("calculator.key.index", i),
				attribute.String("calculator.key.label", e.String()),
				attribute.String("calculator.key.kind", e.Kind.String()),
				attribute.String("calculator.key.input", state.Display),
			),
		)

		state = calculator.Reduce(state, e)
		steps = append(steps, calculator.Step{Key: e.String(), Display: state.Display})

		keysCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", e.Kind.String())))

		keySpan.SetAttributes(attribute.String("calculator.key.display", state.Display))
		keySpan.SetStatus(codes.Ok, "")
		keySpan.End()
	}

	return state, steps
}

// ---------------------------------------------------------------------------
// Sessions
// ---------------------------------------------------------------------------

// CreateSession handles POST /calculator/sessions.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.session.create",
		trace.WithAttributes(
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	sess := h.store.Create()
	sessionsCounter.Add(ctx, 1)

	span.SetAttributes(attribute.String("calculator.session.id", sess.ID))
	span.SetStatus(codes.Ok, "")

	logger.Info("calculator session created",
		zap.String("session_id", sess.ID),
		zap.Int("live_sessions", h.store.Len()),
		zap.String("request_id", requestID),
	)

	handlers.WriteJSON(w, http.StatusCreated, newSessionResponse(sess.Snapshot()))
}

// GetSession handles GET /calculator/sessions/{id}.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	id := chi.URLParam(r, "id")

	ctx, span := tracer.Start(ctx, "calculator.session.get",
		trace.WithAttributes(
			attribute.String("calculator.session.id", id),
			attribute.String("request.id", observability.RequestIDFromContext(ctx)),
		),
	)
	defer span.End()

	sess, err := h.store.Get(id)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "session.get", "session not found", err, http.StatusNotFound, w)
		return
	}

	span.SetStatus(codes.Ok, "")
	handlers.WriteJSON(w, http.StatusOK, newSessionResponse(sess.Snapshot()))
}

// PressKeys handles POST /calculator/sessions/{id}/keys.
func (h *Handler) PressKeys(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)
	id := chi.URLParam(r, "id")

	ctx, span := tracer.Start(ctx, "calculator.session.keys",
		trace.WithAttributes(
			attribute.String("calculator.session.id", id),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	events, err := h.decodeKeys(r)
	if err != nil {
		h.recordKeyError(ctx, span, logger, "session.keys", err, w)
		return
	}

	start := time.Now()
	snap, err := h.store.Press(id, events...)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0

	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "session.keys", "session not found", err, http.StatusNotFound, w)
		return
	}

	for i, step := range snap.Steps {
		span.AddEvent("key", trace.WithAttributes(
			attribute.Int("index", i),
			attribute.String("label", step.Key),
			attribute.String("display", step.Display),
		))
		keysCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", events[i].Kind.String())))
	}

	recordResult(ctx, "session.keys", snap.State, elapsed)

	span.SetAttributes(
		attribute.Int("calculator.keys_count", len(events)),
		attribute.String("calculator.display", snap.State.Display),
	)
	span.SetStatus(codes.Ok, "")

	logger.Info("session keys applied",
		zap.String("session_id", id),
		zap.Int("keys", len(events)),
		zap.String("display", snap.State.Display),
		zap.Int("presses", snap.Presses),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	handlers.WriteJSON(w, http.StatusOK, newSessionResponse(snap))
}

// DeleteSession handles DELETE /calculator/sessions/{id}.
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	id := chi.URLParam(r, "id")

	ctx, span := tracer.Start(ctx, "calculator.session.delete",
		trace.WithAttributes(
			attribute.String("calculator.session.id", id),
			attribute.String("request.id", observability.RequestIDFromContext(ctx)),
		),
	)
	defer span.End()

	if err := h.store.Delete(id); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "session.delete", "session not found", err, http.StatusNotFound, w)
		return
	}

	span.SetStatus(codes.Ok, "")
	logger.Info("calculator session deleted", zap.String("session_id", id))
	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// Binary operations
// ---------------------------------------------------------------------------

// binaryOp handles POST /calculator/{add,subtract,multiply,divide}. Division by
// zero is not an error; the result is rendered the way the display shows it.
func (h *Handler) binaryOp(op calculator.Operator) http.HandlerFunc {
	opName := op.Name()

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := observability.LoggerWithTrace(ctx)
		requestID := observability.RequestIDFromContext(ctx)

		ctx, span := tracer.Start(ctx, fmt.Sprintf("calculator.%s", opName),
			trace.WithAttributes(
				attribute.String("calculator.operation", opName),
				attribute.String("request.id", requestID),
			),
		)
		defer span.End()

		var req CalcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			observability.RecordError(ctx, span, logger, errorCounter, opName, "invalid request body", err, http.StatusBadRequest, w)
			return
		}

		span.SetAttributes(
			attribute.Float64("calculator.operand.a", req.A),
			attribute.Float64("calculator.operand.b", req.B),
		)

		start := time.Now()
		result := calculator.Calculate(req.A, req.B, op)
		elapsed := float64(time.Since(start).Microseconds()) / 1000.0

		attrs := metric.WithAttributes(attribute.String("operation", opName))
		opsHistogram.Record(ctx, elapsed, attrs)
		if !math.IsNaN(result) && !math.IsInf(result, 0) {
			resultGauge.Record(ctx, result, attrs)
		}

		display := calculator.FormatNumber(result)
		span.SetAttributes(attribute.String("calculator.result", display))
		span.SetStatus(codes.Ok, "")

		logger.Info("calculator operation completed",
			zap.String("operation", opName),
			zap.Float64("a", req.A),
			zap.Float64("b", req.B),
			zap.String("result", display),
			zap.String("request_id", requestID),
			zap.Float64("duration_ms", elapsed),
		)

		handlers.WriteJSON(w, http.StatusOK, CalcResponse{
			Operation: opName,
			A:         req.A,
			B:         req.B,
			Result:    display,
		})
	}
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func (h *Handler) decodeKeys(r *http.Request) ([]calculator.Event, error) {
	var req KeysRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}

	labels := req.Keys
	if len(labels) == 0 {
		labels = calculator.Tokenize(req.Input)
	}
	if len(labels) > h.maxKeys {
		return nil, fmt.Errorf("%w: %d > %d", errTooManyKeys, len(labels), h.maxKeys)
	}

	return calculator.ParseKeys(labels)
}

func (h *Handler) recordKeyError(ctx context.Context, span trace.Span, logger *zap.Logger, opName string, err error, w http.ResponseWriter) {
	msg := "invalid request body"
	switch {
	case errors.Is(err, calculator.ErrUnknownKey):
		msg = err.Error()
	case errors.Is(err, errTooManyKeys):
		msg = fmt.Sprintf("at most %d keys per request", h.maxKeys)
	}
	observability.RecordError(ctx, span, logger, errorCounter, opName, msg, err, http.StatusBadRequest, w)
}

func recordResult(ctx context.Context, opName string, state calculator.State, elapsedMS float64) {
	attrs := metric.WithAttributes(attribute.String("operation", opName))
	opsHistogram.Record(ctx, elapsedMS, attrs)

	value := state.Value()
	if !math.IsNaN(value) && !math.IsInf(value, 0) {
		resultGauge.Record(ctx, value, attrs)
	}
}
