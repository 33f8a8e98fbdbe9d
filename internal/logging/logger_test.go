package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestInit_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "warn", Output: &buf})
	t.Cleanup(func() { Init(Config{}) })

	Info().Msg("hidden")
	Warn().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Expected info to be filtered, got %s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("Expected warn to be written, got %s", out)
	}
}

func TestCtx_AddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Output: &buf})
	t.Cleanup(func() { Init(Config{}) })

	ctx := ContextWithRequestID(context.Background(), "req-42")
	Ctx(ctx).Info().Msg("with id")

	if !strings.Contains(buf.String(), `"request_id":"req-42"`) {
		t.Errorf("Expected request_id in output, got %s", buf.String())
	}
	if RequestIDFromContext(context.Background()) != "" {
		t.Error("Expected empty id for bare context")
	}
}
