package operation

import (
	"context"
	"time"

	"github.com/Felixhuangsiling/front-pfee/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	pkgName = "internal/operation"
)

// Func is a data access call.
type Func[T any] func(ctx context.Context) (T, error)

// Op describes the operation being run.
type Op struct {
	// Name labels the operation in logs, spans and metrics.
	Name string

	Logger *logrus.Logger

	// ClearError resets the outcome error slot on success.
	ClearError bool
}

// Run executes fn under the outcome.
//
// The loading flag is set before fn is invoked and cleared once it returns,
// a failure is recorded in the outcome error slot and returned as a failed Result.
func Run[T any](ctx context.Context, o *Outcome, op Op, fn Func[T]) Result[T] {
	o.Begin()

	return execute(ctx, o, op, fn)
}

// TryRun is Run, except fn is not invoked when an operation is already in flight on the outcome,
// in which case the returned bool is false.
func TryRun[T any](ctx context.Context, o *Outcome, op Op, fn Func[T]) (Result[T], bool) {
	if !o.TryBegin() {
		if op.Logger != nil {
			op.Logger.WithField("operation", op.Name).Trace("operation in flight, skipped")
		}

		return Result[T]{}, false
	}

	return execute(ctx, o, op, fn), true
}

func execute[T any](ctx context.Context, o *Outcome, op Op, fn Func[T]) (result Result[T]) {
	ctx, span := otel.Tracer(pkgName).Start(
		ctx,
		op.Name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("operation", op.Name)),
	)
	startTS := time.Now()

	defer func() {
		state := "succeeded"

		if result.OK() {
			o.Succeed(op.ClearError)
		} else {
			state = "failed"
			o.Fail(result.Message)
			span.SetStatus(codes.Error, result.Message)
		}

		labels := prometheus.Labels{"operation": op.Name, "state": state}
		metrics.OperationCounter.With(labels).Inc()
		metrics.OperationRunTimeSummary.With(labels).Observe(time.Since(startTS).Seconds())

		span.End()
	}()

	data, err := fn(ctx)
	if err != nil {
		if op.Logger != nil {
			op.Logger.WithError(err).WithField("operation", op.Name).Warn("operation failed")
		}

		return Failure[T](err.Error())
	}

	return Success(data)
}
