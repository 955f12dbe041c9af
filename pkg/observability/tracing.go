package observability

import (
	"context"
	"fmt"

	"github.com/aws/aws-xray-sdk-go/xray"
	"go.uber.org/zap"
)

// Tracer opens X-Ray subsegments under the segment carried by the request context
type Tracer struct {
	serviceName string
}

// NewTracer creates a new tracer
func NewTracer(serviceName string) *Tracer {
	return &Tracer{serviceName: serviceName}
}

// ConfigureTracing routes X-Ray "context missing" reports to logger at Debug.
// Requests served outside Lambda carry no segment and run untraced.
func ConfigureTracing(logger *zap.Logger) error {
	return xray.Configure(xray.Config{
		ContextMissingStrategy: contextMissingLogger{logger: logger},
	})
}

// TraceFunction runs fn inside a subsegment named name. The subsegment is
// annotated with the service name and closed with fn's error.
func (t *Tracer) TraceFunction(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, seg := xray.BeginSubsegment(ctx, name)
	if seg == nil {
		return fn(ctx)
	}
	_ = seg.AddAnnotation("service", t.serviceName)

	err := fn(ctx)
	if err != nil {
		_ = seg.AddError(err)
	}
	seg.Close(err)
	return err
}

type contextMissingLogger struct {
	logger *zap.Logger
}

func (c contextMissingLogger) ContextMissing(v interface{}) {
	c.logger.Debug("X-Ray segment missing from context", zap.String("detail", fmt.Sprint(v)))
}
