package logger

import (
	"go.uber.org/zap"
)

// ZapLogger routes application logs through a zap sugared logger.
// Selected with ASKAI_LOG=zap for structured output during debugging.
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZap builds a ZapLogger. Development config when verbose, production otherwise.
func NewZap(verbose bool) (*ZapLogger, error) {
	var base *zap.Logger
	var err error
	if verbose {
		base, err = zap.NewDevelopment()
	} else {
		base, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return &ZapLogger{sugar: base.Sugar()}, nil
}

func (l *ZapLogger) Debug(msg string, fields map[string]interface{}) {
	l.sugar.Debugw(msg, flatten(fields)...)
}

func (l *ZapLogger) Info(msg string, fields map[string]interface{}) {
	l.sugar.Infow(msg, flatten(fields)...)
}

func (l *ZapLogger) Warn(msg string, fields map[string]interface{}) {
	l.sugar.Warnw(msg, flatten(fields)...)
}

func (l *ZapLogger) Error(msg string, err error, fields map[string]interface{}) {
	args := flatten(fields)
	if err != nil {
		args = append(args, "error", err.Error())
	}
	l.sugar.Errorw(msg, args...)
}

// Sync flushes buffered log entries.
func (l *ZapLogger) Sync() {
	_ = l.sugar.Sync()
}

func flatten(fields map[string]interface{}) []interface{} {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return args
}
