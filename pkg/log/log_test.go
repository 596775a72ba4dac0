package log_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/kprof/pkg/log"
)

func TestGetLevel(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		"error":   {input: "error", want: slog.LevelError},
		"warn":    {input: "warn", want: slog.LevelWarn},
		"warning": {input: "WARNING", want: slog.LevelWarn},
		"info":    {input: " info ", want: slog.LevelInfo},
		"debug":   {input: "Debug", want: slog.LevelDebug},
		"unknown": {input: "trace", wantErr: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := log.GetLevel(tc.input)
			if tc.wantErr {
				require.ErrorIs(t, err, log.ErrUnknownLogLevel)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGetFormat(t *testing.T) {
	t.Parallel()

	for _, f := range log.AllFormats {
		got, err := log.GetFormat(f)
		require.NoError(t, err)
		assert.Equal(t, log.Format(f), got)
	}

	_, err := log.GetFormat("xml")
	require.ErrorIs(t, err, log.ErrUnknownLogFormat)
}

func TestCreateHandlerWithStrings(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		level   string
		format  string
		wantErr bool
	}{
		"json":           {level: "info", format: "json"},
		"logfmt":         {level: "debug", format: "logfmt"},
		"text":           {level: "warn", format: "text"},
		"bad level":      {level: "loud", format: "json", wantErr: true},
		"bad format":     {level: "info", format: "yaml", wantErr: true},
		"both arguments": {level: "", format: "", wantErr: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			h, err := log.CreateHandlerWithStrings(&bytes.Buffer{}, tc.level, tc.format)
			if tc.wantErr {
				require.ErrorIs(t, err, log.ErrInvalidArgument)
				assert.Nil(t, h)

				return
			}

			require.NoError(t, err)
			assert.NotNil(t, h)
		})
	}
}

func TestCreateHandler_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := slog.New(log.CreateHandler(&buf, slog.LevelInfo, log.FormatJSON))
	logger.Debug("hidden")
	logger.Info("resolved profile", slog.String("profile", "default"))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "resolved profile", record["msg"])
	assert.Equal(t, "default", record["profile"])
	assert.NotContains(t, record, "source")
}

func TestWithContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := slog.New(log.CreateHandler(&buf, slog.LevelInfo, log.FormatJSON))

	traceID, err := trace.TraceIDFromHex("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)

	spanID, err := trace.SpanIDFromHex("0123456789abcdef")
	require.NoError(t, err)

	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	}))

	log.WithContext(log.NewContext(ctx, logger)).InfoContext(ctx, "hello")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "01234567", record["trace_id"])

	buf.Reset()
	log.WithContext(log.NewContext(context.Background(), logger)).Info("no span")

	record = nil
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.NotContains(t, record, "trace_id")
}
