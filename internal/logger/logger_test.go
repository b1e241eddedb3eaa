package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/oggyb/habesha-match/internal/config"
)

func initBuffered(t *testing.T, c Config) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	c.Output = &buf
	Init(&c)
	t.Cleanup(func() { Init(&Config{Level: "info", Format: FormatText}) })
	return &buf
}

func TestLogger_TextFormat(t *testing.T) {
	buf := initBuffered(t, Config{Level: "debug", Format: FormatText, Component: "test"})
	Info("hello habesha", "key", "value")

	out := buf.String()
	if !strings.Contains(out, "hello habesha") {
		t.Errorf("expected message, got: %s", out)
	}
	if !strings.Contains(out, "component=test") {
		t.Errorf("expected component field, got: %s", out)
	}
	if !strings.Contains(out, "key=value") {
		t.Errorf("expected structured field, got: %s", out)
	}
}

func TestLogger_JSONFormat(t *testing.T) {
	buf := initBuffered(t, Config{Level: "info", Format: FormatJSON, Component: "json_test"})
	Info("json log", "foo", "bar")

	out := buf.String()
	if !strings.Contains(out, `"msg":"json log"`) {
		t.Errorf("expected JSON message, got: %s", out)
	}
	if !strings.Contains(out, `"component":"json_test"`) {
		t.Errorf("expected component in JSON, got: %s", out)
	}
	if !strings.Contains(out, `"foo":"bar"`) {
		t.Errorf("expected structured field in JSON, got: %s", out)
	}
}

func TestLogger_LevelFilter(t *testing.T) {
	buf := initBuffered(t, Config{Level: "error", Format: FormatText})
	Info("should not appear")
	Error("should appear")

	out := buf.String()
	if strings.Contains(out, "should not appear") {
		t.Errorf("info log should not appear, got: %s", out)
	}
	if !strings.Contains(out, "should appear") {
		t.Errorf("error log should appear, got: %s", out)
	}
}

func TestLogger_WithAddsFields(t *testing.T) {
	buf := initBuffered(t, Config{Level: "debug", Format: FormatText})
	With("user", UserRef(42)).Info("processing event")

	if !strings.Contains(buf.String(), "user="+UserRef(42)) {
		t.Errorf("expected user field, got: %s", buf.String())
	}
}

func TestLogger_InitFromConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.Log.Level = "debug"
	cfg.Log.Format = "json"
	cfg.Log.Component = "cfg_test"

	InitFromConfig(cfg)
	t.Cleanup(func() { Init(&Config{Level: "info", Format: FormatText}) })

	if got := L(); got == nil {
		t.Fatal("expected non-nil logger")
	}
	if !L().Enabled(context.Background(), slog.LevelDebug) {
		t.Errorf("expected debug level to be enabled")
	}
}

func TestUserRef_StableAndOpaque(t *testing.T) {
	a := UserRef(1405012211)
	if a != UserRef(1405012211) {
		t.Fatalf("pseudonym must be stable")
	}
	if strings.Contains(a, "1405012211") {
		t.Errorf("pseudonym leaks raw id: %s", a)
	}
	if a == UserRef(1405012212) {
		t.Errorf("different ids should not collide")
	}
	if len(a) != len("u_")+12 {
		t.Errorf("unexpected pseudonym length: %s", a)
	}
}

func TestLogger_RedactsSensitiveAttrs(t *testing.T) {
	buf := initBuffered(t, Config{Level: "debug", Format: FormatJSON})
	Info("bio updated", "user", UserRef(7), "bio", "I love buna ceremonies", "lat", 9.03)

	out := buf.String()
	if strings.Contains(out, "buna") || strings.Contains(out, "9.03") {
		t.Errorf("sensitive value leaked: %s", out)
	}
	if !strings.Contains(out, `"bio":"[redacted]"`) {
		t.Errorf("expected redaction marker, got: %s", out)
	}
}

func TestLogger_SetLevel(t *testing.T) {
	buf := initBuffered(t, Config{Level: "error", Format: FormatText})
	Warn("quiet")
	SetLevel("debug")
	Debug("loud")

	out := buf.String()
	if strings.Contains(out, "quiet") || !strings.Contains(out, "loud") {
		t.Errorf("level change not applied, got: %s", out)
	}
}
