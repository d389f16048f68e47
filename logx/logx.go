// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package logx provides the logging capability: structured log emission as
// effects over a zap logger carried by the environment.
package logx

import (
	"go.uber.org/zap"

	"code.hybscloud.com/effect"
)

// HasLogger is satisfied by environments that carry a logger.
type HasLogger interface {
	Logger() *zap.Logger
}

func emit(log func(l *zap.Logger)) effect.Effect[struct{}] {
	return effect.AndThen(effect.Depend[HasLogger](), func(env HasLogger) effect.Effect[struct{}] {
		return effect.Suspend(func() (struct{}, error) {
			log(env.Logger())
			return struct{}{}, nil
		})
	})
}

// Debug logs at debug level.
func Debug(msg string, fields ...zap.Field) effect.Effect[struct{}] {
	return emit(func(l *zap.Logger) { l.Debug(msg, fields...) })
}

// Info logs at info level.
func Info(msg string, fields ...zap.Field) effect.Effect[struct{}] {
	return emit(func(l *zap.Logger) { l.Info(msg, fields...) })
}

// Warn logs at warn level.
func Warn(msg string, fields ...zap.Field) effect.Effect[struct{}] {
	return emit(func(l *zap.Logger) { l.Warn(msg, fields...) })
}

// Error logs at error level.
func Error(msg string, fields ...zap.Field) effect.Effect[struct{}] {
	return emit(func(l *zap.Logger) { l.Error(msg, fields...) })
}

// Logged wraps e so its failure, if any, is logged at error level before
// propagating. The value and the error channel are untouched.
func Logged[A any](msg string, e effect.Effect[A]) effect.Effect[A] {
	return e.Recover(func(err error) effect.Effect[A] {
		return effect.DiscardAndThen(
			Error(msg, zap.Error(err)),
			effect.Throw[A](err),
		)
	})
}

// Env is a ready-made single-capability environment for graphs that only
// log.
type Env struct {
	L *zap.Logger
}

// Logger implements HasLogger.
func (e Env) Logger() *zap.Logger { return e.L }
