package telemetry

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func TestTraceContextRoundTrip(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)

	ctx, parent := tp.Tracer("test").Start(context.Background(), "publish")
	attrs := InjectTraceContext(ctx)
	parent.End()
	require.Contains(t, attrs, "traceparent")

	msg := types.Message{
		MessageId:         aws.String("m-1"),
		Body:              aws.String(`{"requestId":"req-42","reportDate":"2026-10-14"}`),
		MessageAttributes: attrs,
	}
	ctx, span := StartSpanFromSQSMessage(context.Background(), msg)
	defer span.End()

	assert.Equal(t, parent.SpanContext().TraceID(), trace.SpanContextFromContext(ctx).TraceID())
	assert.Equal(t, "req-42", GetRequestIDFromContext(ctx))
}

func TestGetRequestIDFromContext_Missing(t *testing.T) {
	assert.Empty(t, GetRequestIDFromContext(context.Background()))
}
