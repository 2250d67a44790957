package logger

import (
	"go.uber.org/zap"

	"bro/internal/application/port/output"
)

var _ output.LoggerPort = (*ZapAdapter)(nil)

// ZapAdapter backs the LoggerPort with a zap sugared logger.
type ZapAdapter struct {
	sugar *zap.SugaredLogger
}

func NewZapAdapter(environment string) (*ZapAdapter, error) {
	var cfg zap.Config
	if environment == "development" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	return &ZapAdapter{sugar: l.Sugar()}, nil
}

func (z *ZapAdapter) Debug(msg string, args ...any) { z.sugar.Debugw(msg, args...) }
func (z *ZapAdapter) Info(msg string, args ...any)  { z.sugar.Infow(msg, args...) }
func (z *ZapAdapter) Warn(msg string, args ...any)  { z.sugar.Warnw(msg, args...) }
func (z *ZapAdapter) Error(msg string, args ...any) { z.sugar.Errorw(msg, args...) }

func (z *ZapAdapter) WithField(key string, value any) output.LoggerPort {
	return &ZapAdapter{sugar: z.sugar.With(key, value)}
}

func (z *ZapAdapter) WithFields(fields map[string]any) output.LoggerPort {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return &ZapAdapter{sugar: z.sugar.With(args...)}
}

func (z *ZapAdapter) Close() error {
	// Sync flushes buffered entries; on stderr it may return EINVAL,
	// which is harmless on shutdown.
	_ = z.sugar.Sync()
	return nil
}
