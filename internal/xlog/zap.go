package xlog

import "go.uber.org/zap"

// ZapLogger adapts a *zap.Logger to Logger, for callers who already run zap
// elsewhere in their process and want this module's logs folded in.
type ZapLogger struct {
	z     *zap.Logger
	level Level
}

// NewZapLogger wraps z, emitting entries at or above level.
func NewZapLogger(z *zap.Logger, level Level) *ZapLogger {
	return &ZapLogger{z: z, level: level}
}

func (l *ZapLogger) IsEnabled(level Level) bool { return level >= l.level }

func (l *ZapLogger) Log(e Entry) {
	if !l.IsEnabled(e.Level) {
		return
	}
	fields := make([]zap.Field, 0, len(e.Fields)+2)
	fields = append(fields, zap.String("category", e.Category))
	if e.Err != nil {
		fields = append(fields, zap.Error(e.Err))
	}
	for k, v := range e.Fields {
		fields = append(fields, zap.Any(k, v))
	}

	switch e.Level {
	case LevelDebug:
		l.z.Debug(e.Message, fields...)
	case LevelWarn:
		l.z.Warn(e.Message, fields...)
	case LevelError:
		l.z.Error(e.Message, fields...)
	default:
		l.z.Info(e.Message, fields...)
	}
}
