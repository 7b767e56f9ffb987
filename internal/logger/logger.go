// Package logger wraps zerolog for the rest of the module.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/opsxjacky/Momentum-backtest/pkg/types"
)

// Options selects level, format and destination.
type Options struct {
	Level  string    // debug, info, warn, error
	Format string    // console or json
	Out    io.Writer // defaults to stdout
}

// Logger is a structured logger wrapper around zerolog.
type Logger struct {
	zlog zerolog.Logger
}

// New creates a Logger. Unknown levels fall back to info.
func New(opts Options) *Logger {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	if opts.Format == "console" || opts.Format == "pretty" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	zlog := zerolog.New(out).
		With().
		Timestamp().
		Logger().
		Level(ParseLevel(opts.Level))

	return &Logger{zlog: zlog}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zlog: zerolog.Nop()}
}

// ParseLevel converts a level name, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Level returns the active level.
func (l *Logger) Level() zerolog.Level {
	return l.zlog.GetLevel()
}

func (l *Logger) Debug(msg string) { l.zlog.Debug().Msg(msg) }
func (l *Logger) Info(msg string)  { l.zlog.Info().Msg(msg) }
func (l *Logger) Warn(msg string)  { l.zlog.Warn().Msg(msg) }
func (l *Logger) Error(msg string) { l.zlog.Error().Msg(msg) }

func (l *Logger) Debugf(format string, args ...interface{}) { l.zlog.Debug().Msgf(format, args...) }
func (l *Logger) Infof(format string, args ...interface{})  { l.zlog.Info().Msgf(format, args...) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.zlog.Warn().Msgf(format, args...) }

// WithField returns a new logger with an additional field.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{zlog: l.zlog.With().Interface(key, value).Logger()}
}

// WithFields returns a new logger with multiple fields.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	ctx := l.zlog.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &Logger{zlog: ctx.Logger()}
}

// WithError returns a new logger with an error field.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{zlog: l.zlog.With().Err(err).Logger()}
}

// Day logs the per-day balance line of a simulation.
func (l *Logger) Day(date time.Time, cash, total float64) {
	l.zlog.Debug().
		Str("date", date.Format("2006-01-02")).
		Float64("cash", cash).
		Float64("total", total).
		Msg("day")
}

// OnEvent logs a simulator event. Trades go to info, faults and skips to warn.
func (l *Logger) OnEvent(e types.Event) {
	var ev *zerolog.Event
	switch e.Kind {
	case types.EventBuy, types.EventSell:
		ev = l.zlog.Info()
	default:
		ev = l.zlog.Warn()
	}
	ev = ev.Str("date", e.Date.Format("2006-01-02")).
		Str("kind", string(e.Kind)).
		Float64("cash", e.Cash)
	if e.Symbol != "" {
		ev = ev.Str("symbol", e.Symbol)
	}
	if e.Shares != 0 {
		ev = ev.Int64("shares", e.Shares).Float64("price", e.Price)
	}
	if e.Message != "" {
		ev = ev.Str("detail", e.Message)
	}
	ev.Msg(string(e.Kind))
}

// Zerolog returns the underlying zerolog.Logger.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.zlog
}
