// Package logger owns the process-wide slog logger.
//
// Lines about a person never carry their raw messenger id (use UserRef) and
// never carry what they typed: attributes named in Sensitive are replaced
// by "[redacted]" whatever the handler.
package logger

import (
	"encoding/hex"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync/atomic"

	"golang.org/x/crypto/blake2b"

	"github.com/oggyb/habesha-match/internal/config"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

const textTimeLayout = "2006-01-02 15:04:05"

// Sensitive lists attribute keys whose values are never written.
var Sensitive = map[string]bool{
	"bio":      true,
	"text":     true,
	"name":     true,
	"photo_id": true,
	"reason":   true,
	"lat":      true,
	"lon":      true,
}

type Config struct {
	Level      string
	Format     Format
	Component  string
	WithSource bool
	Output     io.Writer // defaults to stdout
}

var (
	global atomic.Pointer[slog.Logger]
	level  = new(slog.LevelVar)
)

// InitFromConfig initializes global logger from app config.
func InitFromConfig(c *config.Config) {
	if c == nil {
		Init(nil)
		return
	}
	Init(&Config{
		Level:      c.Log.Level,
		Format:     Format(c.Log.Format),
		Component:  c.Log.Component,
		WithSource: c.Log.Source,
	})
}

// Init replaces the global logger. A nil config means info level, text, stdout.
func Init(c *Config) {
	if c == nil {
		c = &Config{Level: "info", Format: FormatText}
	}
	level.Set(parseLevel(c.Level))
	global.Store(build(*c, level))
}

// SetLevel changes the global logger's level in place.
func SetLevel(s string) { level.Set(parseLevel(s)) }

// New builds a standalone logger without touching the global one.
func New(c Config) *slog.Logger {
	return build(c, parseLevel(c.Level))
}

func build(c Config, lvl slog.Leveler) *slog.Logger {
	out := c.Output
	if out == nil {
		out = os.Stdout
	}
	asJSON := strings.EqualFold(string(c.Format), string(FormatJSON))

	opts := &slog.HandlerOptions{
		Level:     lvl,
		AddSource: c.WithSource,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			switch {
			case Sensitive[a.Key]:
				return slog.String(a.Key, "[redacted]")
			case len(groups) == 0 && a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime && !asJSON:
				return slog.String(slog.TimeKey, a.Value.Time().Format(textTimeLayout))
			}
			return a
		},
	}

	var handler slog.Handler = slog.NewTextHandler(out, opts)
	if asJSON {
		handler = slog.NewJSONHandler(out, opts)
	}

	base := slog.New(handler)
	if c.Component != "" {
		base = base.With("component", c.Component)
	}
	return base
}

// L returns the global logger, initializing defaults on first use.
func L() *slog.Logger {
	if l := global.Load(); l != nil {
		return l
	}
	global.CompareAndSwap(nil, build(Config{Format: FormatText}, level))
	return global.Load()
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// With creates a child logger with additional attributes.
func With(args ...any) *slog.Logger { return L().With(args...) }

func Debug(msg string, args ...any) { L().Debug(msg, args...) }
func Info(msg string, args ...any)  { L().Info(msg, args...) }
func Warn(msg string, args ...any)  { L().Warn(msg, args...) }
func Error(msg string, args ...any) { L().Error(msg, args...) }

// UserRef returns a stable 12-hex-digit pseudonym for an external user id.
func UserRef(externalID int64) string {
	sum := blake2b.Sum256([]byte(strconv.FormatInt(externalID, 10)))
	return "u_" + hex.EncodeToString(sum[:6])
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
