/*
 * MIT License
 *
 * Copyright (c) 2022-2025 Arsene Tochemey Gandote
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package log

import (
	"io"
	"os"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// DebugLogger writes debug level and above to os.Stdout.
	DebugLogger = NewZap(DebugLevel, os.Stdout)

	// DiscardLogger is a no-op logger that discards all log messages.
	DiscardLogger Logger = discardLogger{}

	// DefaultLogger writes info level and above to os.Stdout.
	DefaultLogger = NewZap(InfoLevel, os.Stdout)
)

// zapLevels maps every valid Level onto its zap counterpart
var zapLevels = [numLogLevels]zapcore.Level{
	InfoLevel:    zapcore.InfoLevel,
	WarningLevel: zapcore.WarnLevel,
	ErrorLevel:   zapcore.ErrorLevel,
	FatalLevel:   zapcore.FatalLevel,
	PanicLevel:   zapcore.PanicLevel,
	DebugLevel:   zapcore.DebugLevel,
}

// Zap is a Logger writing JSON entries through zap.
// The leveled methods are the sugared logger's own, so the
// reported caller is the line that logged.
type Zap struct {
	*zap.SugaredLogger
	outputs []io.Writer
}

var _ Logger = (*Zap)(nil)

// NewZap creates a zap backed Logger writing to the given writers.
// An unknown level falls back to DebugLevel.
func NewZap(level Level, writers ...io.Writer) *Zap {
	syncers := make([]zapcore.WriteSyncer, len(writers))
	for i, writer := range writers {
		syncers[i] = zapcore.AddSync(writer)
	}

	encoder := zapcore.NewJSONEncoder(zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	})

	core := zapcore.NewCore(encoder, zap.CombineWriteSyncers(syncers...), toZapLevel(level))
	logger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	return &Zap{SugaredLogger: logger.Sugar(), outputs: writers}
}

// Enabled reports whether entries at level are written
func (z *Zap) Enabled(level Level) bool {
	return z.Desugar().Core().Enabled(toZapLevel(level))
}

// With returns a Logger that adds the given key-value pairs to every entry.
// Non-string keys are skipped and a trailing value without key is logged under "_".
func (z *Zap) With(keyValues ...any) Logger {
	var fields []zap.Field
	for i := 0; i < len(keyValues); i += 2 {
		if i == len(keyValues)-1 {
			fields = append(fields, field("_", keyValues[i]))
			break
		}
		if key, ok := keyValues[i].(string); ok {
			fields = append(fields, field(key, keyValues[i+1]))
		}
	}

	if len(fields) == 0 {
		return z
	}
	return &Zap{
		SugaredLogger: z.Desugar().With(fields...).Sugar(),
		outputs:       z.outputs,
	}
}

// LogLevel returns the minimum level written
func (z *Zap) LogLevel() Level {
	current := z.Level()
	for level, zapLevel := range zapLevels {
		if zapLevel == current {
			return Level(level)
		}
	}
	return InvalidLevel
}

// LogOutput returns the writers the logger writes to
func (z *Zap) LogOutput() []io.Writer {
	return z.outputs
}

// Flush syncs the file outputs. Standard streams are skipped since
// syncing a terminal fails on most platforms.
func (z *Zap) Flush() error {
	var err error
	for _, output := range z.outputs {
		if file, ok := output.(*os.File); ok && !isStdStream(file) {
			err = multierr.Append(err, file.Sync())
		}
	}
	return err
}

func field(key string, value any) zap.Field {
	switch v := value.(type) {
	case error:
		return zap.NamedError(key, v)
	case time.Duration:
		return zap.Duration(key, v)
	default:
		return zap.Any(key, value)
	}
}

func isStdStream(file *os.File) bool {
	fd := file.Fd()
	return fd == os.Stdout.Fd() || fd == os.Stderr.Fd()
}

func toZapLevel(level Level) zapcore.Level {
	if level < 0 || level >= numLogLevels {
		return zapcore.DebugLevel
	}
	return zapLevels[level]
}
