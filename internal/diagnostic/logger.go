package diagnostic

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// TraceLevel sits below zap's debug level and carries per-step fixpoint output.
const TraceLevel = zapcore.DebugLevel - 1

// Logger is the diagnostics sink used by the resolver. It consumes format
// strings with positional arguments and forwards them to a zap core.
type Logger struct {
	z *zap.Logger
}

// NewLogger builds a console logger writing to stderr at the given level.
// Levels are colored only when stderr is a terminal.
func NewLogger(level zapcore.Level) *Logger {
	fd := os.Stderr.Fd()
	color := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeLevel = levelEncoder(color)
	encCfg.TimeKey = ""

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(os.Stderr),
		zap.NewAtomicLevelAt(level),
	)

	return &Logger{z: zap.New(core)}
}

// NewLoggerFromZap wraps an existing zap logger.
func NewLoggerFromZap(z *zap.Logger) *Logger {
	if z == nil {
		return NopLogger()
	}

	return &Logger{z: z}
}

// NopLogger returns a logger that discards everything.
func NopLogger() *Logger {
	return &Logger{z: zap.NewNop()}
}

// ParseLevel maps a level name to a zap level. "trace" is accepted in
// addition to zap's own names.
func ParseLevel(name string) (zapcore.Level, error) {
	if strings.EqualFold(name, "trace") {
		return TraceLevel, nil
	}

	lvl, err := zapcore.ParseLevel(name)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q: %w", name, err)
	}

	return lvl, nil
}

// With returns a child logger carrying the given fields on every entry.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{z: l.z.With(fields...)}
}

// Zap exposes the underlying zap logger.
func (l *Logger) Zap() *zap.Logger {
	return l.z
}

// Tracef logs at TraceLevel.
func (l *Logger) Tracef(format string, args ...any) {
	l.logf(TraceLevel, format, args...)
}

// Debugf logs at debug level.
func (l *Logger) Debugf(format string, args ...any) {
	l.logf(zapcore.DebugLevel, format, args...)
}

// Infof logs at info level.
func (l *Logger) Infof(format string, args ...any) {
	l.logf(zapcore.InfoLevel, format, args...)
}

// Errorf logs at error level.
func (l *Logger) Errorf(format string, args ...any) {
	l.logf(zapcore.ErrorLevel, format, args...)
}

// logf formats lazily: arguments are only rendered when the level is enabled.
func (l *Logger) logf(lvl zapcore.Level, format string, args ...any) {
	ce := l.z.Check(lvl, format)
	if ce == nil {
		return
	}

	if len(args) > 0 {
		ce.Message = fmt.Sprintf(format, args...)
	}

	ce.Write()
}

func levelEncoder(color bool) zapcore.LevelEncoder {
	base := zapcore.CapitalLevelEncoder
	if color {
		base = zapcore.CapitalColorLevelEncoder
	}

	return func(lvl zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		if lvl == TraceLevel {
			enc.AppendString("TRACE")
			return
		}

		base(lvl, enc)
	}
}
