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
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZap(t *testing.T) {
	t.Run("With unknown level falls back to debug", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(7, buffer)
		require.Equal(t, DebugLevel, logger.LogLevel())

		logger.Debug("test debug")
		msg, lvl := decode(t, buffer.Bytes())
		assert.Equal(t, "test debug", msg)
		assert.Equal(t, DebugLevel.String(), lvl)
	})

	t.Run("With info level", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(InfoLevel, buffer)
		require.Equal(t, InfoLevel, logger.LogLevel())
		require.False(t, logger.Enabled(DebugLevel))
		require.True(t, logger.Enabled(ErrorLevel))

		logger.Debug("hidden")
		assert.Empty(t, buffer.String())

		logger.Infof("hello %s", "world")
		msg, lvl := decode(t, buffer.Bytes())
		assert.Equal(t, "hello world", msg)
		assert.Equal(t, InfoLevel.String(), lvl)
	})

	t.Run("With warn and error levels", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(WarningLevel, buffer)
		require.Equal(t, WarningLevel, logger.LogLevel())

		logger.Warnf("dropped %d", 1)
		msg, lvl := decode(t, buffer.Bytes())
		assert.Equal(t, "dropped 1", msg)
		assert.Equal(t, WarningLevel.String(), lvl)

		buffer.Reset()
		logger.Error("boom")
		msg, lvl = decode(t, buffer.Bytes())
		assert.Equal(t, "boom", msg)
		assert.Equal(t, ErrorLevel.String(), lvl)
	})

	t.Run("With panic", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(InfoLevel, buffer)
		assert.Panics(t, func() { logger.Panicf("oops %d", 1) })
		msg, lvl := decode(t, buffer.Bytes())
		assert.Equal(t, "oops 1", msg)
		assert.Equal(t, PanicLevel.String(), lvl)
	})

	t.Run("With structured fields", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(InfoLevel, buffer)
		logger.With("dispatcher", "feed", "items", 3, "grace", time.Second, "err", errors.New("x"), 42, "skipped", "orphan").
			Info("started")

		var m map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(buffer.Bytes(), &m))
		assert.Contains(t, m, "dispatcher")
		assert.Contains(t, m, "items")
		assert.Contains(t, m, "grace")
		assert.Contains(t, m, "err")
		assert.Contains(t, m, "_")
	})

	t.Run("With no fields returns the same logger", func(t *testing.T) {
		logger := NewZap(InfoLevel, new(bytes.Buffer))
		assert.Equal(t, logger, logger.With())
		assert.Equal(t, logger, logger.With(1, 2))
	})

	t.Run("With the logging line reported as caller", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(InfoLevel, buffer).With("item", "a")
		logger.Info("where")

		var m map[string]any
		require.NoError(t, json.Unmarshal(buffer.Bytes(), &m))
		assert.Contains(t, m["caller"], "log/zap_test.go")
	})

	t.Run("With file output flush", func(t *testing.T) {
		file, err := os.Create(filepath.Join(t.TempDir(), "out.log"))
		require.NoError(t, err)
		t.Cleanup(func() { _ = file.Close() })

		buffer := new(bytes.Buffer)
		logger := NewZap(InfoLevel, file, buffer, os.Stdout)
		assert.Len(t, logger.LogOutput(), 3)
		logger.Info("persisted")
		require.NoError(t, logger.Flush())

		content, err := os.ReadFile(file.Name())
		require.NoError(t, err)
		assert.Contains(t, string(content), "persisted")
	})
}

func TestDiscardLogger(t *testing.T) {
	logger := DiscardLogger
	logger.Debug("a")
	logger.Debugf("%s", "a")
	logger.Info("a")
	logger.Infof("%s", "a")
	logger.Warn("a")
	logger.Warnf("%s", "a")
	logger.Error("a")
	logger.Errorf("%s", "a")

	assert.Equal(t, DiscardLogger, logger.With("k", "v"))
	assert.False(t, logger.Enabled(ErrorLevel))
	assert.True(t, logger.Enabled(PanicLevel))
	assert.Equal(t, InfoLevel, logger.LogLevel())
	assert.Len(t, logger.LogOutput(), 1)
	assert.NoError(t, logger.Flush())
	assert.Panics(t, func() { logger.Panic("boom") })
	assert.Panics(t, func() { logger.Panicf("%s", "boom") })
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "info", InfoLevel.String())
	assert.Equal(t, "warn", WarningLevel.String())
	assert.Equal(t, "debug", DebugLevel.String())
	assert.Empty(t, InvalidLevel.String())
	assert.Empty(t, Level(-1).String())
}

func decode(t *testing.T, line []byte) (msg, level string) {
	t.Helper()
	var entry struct {
		Msg   string `json:"msg"`
		Level string `json:"level"`
	}
	require.NoError(t, json.Unmarshal(line, &entry))
	return entry.Msg, entry.Level
}
