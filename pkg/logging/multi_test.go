package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestMultiHandler_WritesToAllHandlers(t *testing.T) {
	var a, b bytes.Buffer
	logger := slog.New(NewMultiHandler(
		slog.NewTextHandler(&a, nil),
		slog.NewJSONHandler(&b, nil),
	))

	logger.Info("fan out", "key", "value")

	if !strings.Contains(a.String(), "fan out") {
		t.Errorf("first handler missing record: %q", a.String())
	}
	if !strings.Contains(b.String(), "fan out") {
		t.Errorf("second handler missing record: %q", b.String())
	}
}

func TestMultiHandler_RespectsPerHandlerLevels(t *testing.T) {
	var debug, warn bytes.Buffer
	logger := slog.New(NewMultiHandler(
		slog.NewTextHandler(&debug, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&warn, &slog.HandlerOptions{Level: slog.LevelWarn}),
	))

	logger.Info("info record")

	if !strings.Contains(debug.String(), "info record") {
		t.Errorf("debug handler should receive info record: %q", debug.String())
	}
	if warn.String() != "" {
		t.Errorf("warn handler should filter info record: %q", warn.String())
	}
}

func TestMultiHandler_EnabledIfAnyHandlerEnabled(t *testing.T) {
	h := NewMultiHandler(
		slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}),
		slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelDebug}),
	)

	if !h.Enabled(t.Context(), slog.LevelInfo) {
		t.Error("expected Enabled to be true when any handler accepts the level")
	}
}

func TestMultiHandler_NoHandlers(t *testing.T) {
	h := NewMultiHandler()

	if h.Enabled(t.Context(), slog.LevelError) {
		t.Error("expected Enabled to be false with no handlers")
	}

	// Logging through an empty multi handler must not panic.
	logger := slog.New(h)
	logger.Info("dropped")
}

func TestMultiHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := NewMultiHandler(slog.NewTextHandler(&buf, nil))

	logger := slog.New(h).With("component", "overlay")
	logger.Info("attributed")

	out := buf.String()
	if !strings.Contains(out, "component=overlay") {
		t.Errorf("expected attribute in output, got %q", out)
	}
}

func TestMultiHandler_WithGroup(t *testing.T) {
	var buf bytes.Buffer
	h := NewMultiHandler(slog.NewTextHandler(&buf, nil))

	logger := slog.New(h).WithGroup("http")
	logger.Info("grouped", "status", 200)

	out := buf.String()
	if !strings.Contains(out, "http.status=200") {
		t.Errorf("expected grouped attribute in output, got %q", out)
	}
}
