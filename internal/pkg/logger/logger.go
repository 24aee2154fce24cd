package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	MaxSize    = 100
	MaxBackups = 3
	MaxAge     = 28
)

type Options struct {
	Level slog.Level
	// FilePath enables the rotated JSON file sink. Empty disables it.
	FilePath string
	// JSONConsole writes JSON to the console instead of colored lines.
	JSONConsole bool
	// ReplaceAttr is applied to the JSON output, e.g. an httplog schema.
	ReplaceAttr func(groups []string, a slog.Attr) slog.Attr
	App         string
	Version     string
	Env         string
}

// Handler fans a record out to a JSON handler and a colored console line.
type Handler struct {
	json    slog.Handler
	console io.Writer
	attrs   []slog.Attr
	mu      *sync.Mutex
}

func NewHandler(console io.Writer, jsonWriter io.Writer, opts Options) *Handler {
	return &Handler{
		json: slog.NewJSONHandler(jsonWriter, &slog.HandlerOptions{
			Level:       opts.Level,
			ReplaceAttr: opts.ReplaceAttr,
		}),
		console: console,
		mu:      &sync.Mutex{},
	}
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.json.Enabled(ctx, level)
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.json.Handle(ctx, r); err != nil {
		return err
	}
	if h.console == nil {
		return nil
	}

	var colorFn func(format string, args ...interface{}) string
	switch {
	case r.Level >= slog.LevelError:
		colorFn = color.New(color.FgRed).Sprintf
	case r.Level >= slog.LevelWarn:
		colorFn = color.New(color.FgYellow).Sprintf
	case r.Level >= slog.LevelInfo:
		colorFn = color.New(color.FgGreen).Sprintf
	default:
		colorFn = color.New(color.FgCyan).Sprintf
	}

	var attrs []string
	for _, a := range h.attrs {
		attrs = append(attrs, fmt.Sprintf("%s=%v", a.Key, a.Value))
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, fmt.Sprintf("%s=%v", a.Key, a.Value))
		return true
	})

	message := r.Message
	if len(attrs) > 0 {
		message = message + " " + strings.Join(attrs, " ")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintf(h.console, "%s %s %s\n",
		color.New(color.FgBlue).Sprintf("%s", r.Time.Format("2006-01-02 15:04:05.000")),
		colorFn("%-5s", r.Level.String()),
		message,
	)
	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &Handler{json: h.json.WithAttrs(attrs), console: h.console, attrs: merged, mu: h.mu}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{json: h.json.WithGroup(name), console: h.console, attrs: h.attrs, mu: h.mu}
}

// New builds the application logger. With a file path, JSON goes to a
// lumberjack-rotated file and the console gets colored lines; without one,
// JSON goes to stdout.
func New(opts Options) *slog.Logger {
	var handler slog.Handler
	switch {
	case opts.FilePath != "" && !opts.JSONConsole:
		handler = NewHandler(os.Stdout, newRotatingFile(opts.FilePath), opts)
	case opts.FilePath != "":
		handler = NewHandler(nil, io.MultiWriter(os.Stdout, newRotatingFile(opts.FilePath)), opts)
	default:
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:       opts.Level,
			ReplaceAttr: opts.ReplaceAttr,
		})
	}

	logger := slog.New(handler)
	if opts.App != "" {
		logger = logger.With(
			slog.String("app", opts.App),
			slog.String("version", opts.Version),
			slog.String("env", opts.Env),
		)
	}
	return logger
}

func newRotatingFile(path string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    MaxSize,
		MaxBackups: MaxBackups,
		MaxAge:     MaxAge,
		Compress:   true,
	}
}

// ParseLevel maps debug/info/warn/error to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}
