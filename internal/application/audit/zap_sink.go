package audit

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapSink escreve as entradas no logger do processo.
type ZapSink struct {
	log *zap.Logger
}

func NewZapSink(log *zap.Logger) *ZapSink {
	if log == nil {
		log = zap.L()
	}
	return &ZapSink{log: log}
}

func (s *ZapSink) Log(_ context.Context, e Entry) {
	fields := []zap.Field{
		zap.String("source", e.Source),
		zap.String("session_id", e.SessionID),
	}
	if len(e.Data) > 0 {
		fields = append(fields, zap.Any("data", e.Data))
	}
	s.log.Log(zapLevel(e.Level), e.Message, fields...)
}

func zapLevel(l Level) zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
