package bus

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	pkgerrors "memebrowser/pkg/errors"

	"go.uber.org/zap"
)

// Query represents a read-only query
type Query interface {
	Validate() error
}

// QueryHandler handles a specific query type
type QueryHandler interface {
	Handle(ctx context.Context, query Query) (interface{}, error)
}

// QueryHandlerFunc is an adapter to allow functions to be used as handlers
type QueryHandlerFunc func(ctx context.Context, query Query) (interface{}, error)

// Handle implements QueryHandler
func (f QueryHandlerFunc) Handle(ctx context.Context, query Query) (interface{}, error) {
	return f(ctx, query)
}

// Middleware decorates handlers at registration time
type Middleware interface {
	Wrap(next QueryHandler) QueryHandler
}

// QueryBus dispatches queries to their handlers by concrete type
type QueryBus struct {
	handlers    map[reflect.Type]QueryHandler
	middlewares []Middleware
	mu          sync.RWMutex
}

// NewQueryBus creates a query bus. The first middleware is the outermost.
func NewQueryBus(middlewares ...Middleware) *QueryBus {
	return &QueryBus{
		handlers:    make(map[reflect.Type]QueryHandler),
		middlewares: middlewares,
	}
}

// Register registers a handler for the concrete type of queryType
func (b *QueryBus) Register(queryType Query, handler QueryHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	t := reflect.TypeOf(queryType)
	if _, exists := b.handlers[t]; exists {
		return fmt.Errorf("handler already registered for query type %s", t.Name())
	}

	for i := len(b.middlewares) - 1; i >= 0; i-- {
		handler = b.middlewares[i].Wrap(handler)
	}
	b.handlers[t] = handler
	return nil
}

// Ask validates a query and dispatches it to its handler
func (b *QueryBus) Ask(ctx context.Context, query Query) (interface{}, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("query validation failed: %w", err)
	}

	b.mu.RLock()
	handler, exists := b.handlers[reflect.TypeOf(query)]
	b.mu.RUnlock()
	if !exists {
		return nil, pkgerrors.NewInternalError(fmt.Sprintf("no handler registered for query type %T", query))
	}

	result, err := handler.Handle(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query handler failed: %w", err)
	}
	return result, nil
}

// RegisterFunc registers a typed handler function for queries of type Q
func RegisterFunc[Q Query, R any](b *QueryBus, handle func(context.Context, Q) (R, error)) error {
	var zero Q
	return b.Register(zero, QueryHandlerFunc(func(ctx context.Context, query Query) (interface{}, error) {
		typed, ok := query.(Q)
		if !ok {
			return nil, fmt.Errorf("handler for %T received %T", zero, query)
		}
		return handle(ctx, typed)
	}))
}

// AskFor dispatches query and asserts the result type
func AskFor[R any](ctx context.Context, b *QueryBus, query Query) (R, error) {
	var zero R
	result, err := b.Ask(ctx, query)
	if err != nil {
		return zero, err
	}
	typed, ok := result.(R)
	if !ok {
		return zero, pkgerrors.NewInternalError(fmt.Sprintf("query %T returned %T, want %T", query, result, zero))
	}
	return typed, nil
}

// MetricsMiddleware counts and times queries by type name
type MetricsMiddleware struct {
	metrics Metrics
}

// NewMetricsMiddleware creates a new metrics middleware
func NewMetricsMiddleware(metrics Metrics) *MetricsMiddleware {
	return &MetricsMiddleware{metrics: metrics}
}

// Wrap wraps a query handler with metrics
func (m *MetricsMiddleware) Wrap(next QueryHandler) QueryHandler {
	return QueryHandlerFunc(func(ctx context.Context, query Query) (interface{}, error) {
		queryType := reflect.TypeOf(query).Name()

		timer := m.metrics.StartTimer("query_duration", queryType)
		defer timer.Stop()
		m.metrics.Increment("query_count", queryType)

		result, err := next.Handle(ctx, query)
		if err != nil {
			m.metrics.Increment("query_errors", queryType)
			return nil, err
		}
		m.metrics.Increment("query_success", queryType)
		return result, nil
	})
}

// Metrics receives query counters and timers
type Metrics interface {
	StartTimer(metric, label string) Timer
	Increment(metric, label string)
}

// Timer is stopped when the timed query returns
type Timer interface {
	Stop()
}

// LoggingMiddleware logs every query at Debug and failed queries at Warn
type LoggingMiddleware struct {
	logger *zap.Logger
}

// NewLoggingMiddleware creates a new logging middleware
func NewLoggingMiddleware(logger *zap.Logger) *LoggingMiddleware {
	return &LoggingMiddleware{logger: logger}
}

// Wrap wraps a query handler with logging
func (m *LoggingMiddleware) Wrap(next QueryHandler) QueryHandler {
	return QueryHandlerFunc(func(ctx context.Context, query Query) (interface{}, error) {
		start := time.Now()
		result, err := next.Handle(ctx, query)

		fields := []zap.Field{
			zap.String("query", reflect.TypeOf(query).Name()),
			zap.Duration("duration", time.Since(start)),
		}
		if err != nil {
			m.logger.Warn("Query failed", append(fields, zap.Error(err))...)
			return nil, err
		}
		m.logger.Debug("Query handled", fields...)
		return result, nil
	})
}

// Tracer runs fn inside a named trace span
type Tracer interface {
	TraceFunction(ctx context.Context, name string, fn func(context.Context) error) error
}

// TracingMiddleware wraps each query in a span named "query.<TypeName>"
type TracingMiddleware struct {
	tracer Tracer
}

// NewTracingMiddleware creates a new tracing middleware
func NewTracingMiddleware(tracer Tracer) *TracingMiddleware {
	return &TracingMiddleware{tracer: tracer}
}

// Wrap wraps a query handler with a trace span
func (m *TracingMiddleware) Wrap(next QueryHandler) QueryHandler {
	return QueryHandlerFunc(func(ctx context.Context, query Query) (interface{}, error) {
		var result interface{}
		err := m.tracer.TraceFunction(ctx, "query."+reflect.TypeOf(query).Name(), func(ctx context.Context) error {
			var err error
			result, err = next.Handle(ctx, query)
			return err
		})
		if err != nil {
			return nil, err
		}
		return result, nil
	})
}

// QueryRecorder receives the outcome of every handled query
type QueryRecorder interface {
	RecordQuery(ctx context.Context, query string, duration time.Duration, err error)
}

// RecordingMiddleware reports each query's type name, duration and error to a recorder
type RecordingMiddleware struct {
	recorder QueryRecorder
}

// NewRecordingMiddleware creates a new recording middleware
func NewRecordingMiddleware(recorder QueryRecorder) *RecordingMiddleware {
	return &RecordingMiddleware{recorder: recorder}
}

// Wrap wraps a query handler with outcome recording
func (m *RecordingMiddleware) Wrap(next QueryHandler) QueryHandler {
	return QueryHandlerFunc(func(ctx context.Context, query Query) (interface{}, error) {
		start := time.Now()
		result, err := next.Handle(ctx, query)
		m.recorder.RecordQuery(ctx, reflect.TypeOf(query).Name(), time.Since(start), err)
		if err != nil {
			return nil, err
		}
		return result, nil
	})
}
