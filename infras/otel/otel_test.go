package otel_test

import (
	"context"
	"errors"
	"hotel/config"
	"hotel/infras/otel"
	"hotel/shared/failure"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newRecorded(t *testing.T) (otel.Otel, *tracetest.SpanRecorder) {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	provider := trace.NewTracerProvider(trace.WithSpanProcessor(recorder))

	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	return otel.NewWithProvider(provider), recorder
}

func attributeValue(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}

	return attribute.Value{}, false
}

func TestScope_TraceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   int64
		wantStatus codes.Code
	}{
		{
			name:       "conflict stays unset",
			err:        failure.Conflict(failure.MessageRoomUnavailable),
			wantCode:   http.StatusConflict,
			wantStatus: codes.Unset,
		},
		{
			name:       "not found stays unset",
			err:        failure.NotFound("guest"),
			wantCode:   http.StatusNotFound,
			wantStatus: codes.Unset,
		},
		{
			name:       "infrastructure error marks span",
			err:        errors.New("connection reset"),
			wantCode:   http.StatusInternalServerError,
			wantStatus: codes.Error,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracer, recorder := newRecorded(t)

			_, scope := tracer.NewScope(context.Background(), "service", "service.CreateBooking")
			scope.TraceIfError(tt.err)
			scope.End()

			spans := recorder.Ended()
			require.Len(t, spans, 1)

			code, ok := attributeValue(spans[0].Attributes(), otel.AttributeFailureCode)
			require.True(t, ok)

			assert.Equal(t, "service.CreateBooking", spans[0].Name())
			assert.Equal(t, tt.wantCode, code.AsInt64())
			assert.Equal(t, tt.wantStatus, spans[0].Status().Code)
			assert.Len(t, spans[0].Events(), 1)
		})
	}
}

func TestScope_TraceIfErrorNil(t *testing.T) {
	tracer, recorder := newRecorded(t)

	_, scope := tracer.NewScope(context.Background(), "service", "service.GetRoom")
	scope.TraceIfError(nil)
	scope.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Empty(t, spans[0].Events())
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
}

func TestScope_SetAttributes(t *testing.T) {
	tracer, recorder := newRecorded(t)

	_, scope := tracer.NewScope(context.Background(), "repository", "repository.GetAll")
	scope.SetAttributes(map[string]any{
		"room_number": "101",
		"floor":       3,
		"rows":        int64(12),
		"rate":        99.5,
		"available":   true,
		"statuses":    []string{"pending", "confirmed"},
	})
	scope.End()

	attrs := recorder.Ended()[0].Attributes()

	value, _ := attributeValue(attrs, "room_number")
	assert.Equal(t, "101", value.AsString())

	value, _ = attributeValue(attrs, "floor")
	assert.Equal(t, int64(3), value.AsInt64())

	value, _ = attributeValue(attrs, "rows")
	assert.Equal(t, int64(12), value.AsInt64())

	value, _ = attributeValue(attrs, "rate")
	assert.InDelta(t, 99.5, value.AsFloat64(), 0.0001)

	value, _ = attributeValue(attrs, "available")
	assert.True(t, value.AsBool())

	value, _ = attributeValue(attrs, "statuses")
	assert.Equal(t, []string{"pending", "confirmed"}, value.AsStringSlice())
}

func TestSampler(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{ratio: 1, want: "AlwaysOnSampler"},
		{ratio: 2, want: "AlwaysOnSampler"},
		{ratio: 0, want: "AlwaysOffSampler"},
		{ratio: 0.25, want: "TraceIDRatioBased{0.25}"},
	}

	for _, tt := range tests {
		cfg := &config.Config{}
		cfg.External.Otel.SampleRatio = tt.ratio

		assert.Contains(t, otel.Sampler(cfg).Description(), tt.want)
	}
}
