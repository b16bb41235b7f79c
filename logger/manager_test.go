package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestDefaultManagerConfig(t *testing.T) {
	cfg := DefaultManagerConfig()

	assert.Equal(t, "zenify", cfg.LoggerName)
	assert.Equal(t, "info", cfg.Level)
	assert.True(t, cfg.EnableConsole)
	assert.False(t, cfg.EnableFile, "a library defaults to console only")
}

func TestApplyDefaults(t *testing.T) {
	cfg := ManagerConfig{Level: "debug"}
	cfg.ApplyDefaults()

	assert.Equal(t, "debug", cfg.Level, "explicit values survive")
	assert.Equal(t, "logs", cfg.BaseLogDir)
	assert.Equal(t, "zenify", cfg.LoggerName)
	assert.Equal(t, 100, cfg.MaxSize)
	assert.Equal(t, 3, cfg.MaxBackups)
	assert.Equal(t, 28, cfg.MaxAge)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("info"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.FatalLevel, ParseLevel("fatal"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("nonsense"))
}

func TestManager_GetLoggerCaches(t *testing.T) {
	m := NewManager(DefaultManagerConfig())
	defer m.CloseAll()

	first := m.GetLogger("scope")
	second := m.GetLogger("scope")
	other := m.GetLogger("bus")

	assert.Same(t, first, second)
	assert.NotSame(t, first, other)
	assert.Equal(t, "scope", first.Module())
	assert.Equal(t, "bus", other.Module())
}

func TestPackageGetLogger_LazyGlobal(t *testing.T) {
	log := GetLogger("test-module")
	require.NotNil(t, log)
	assert.Same(t, log, GetLogger("test-module"))
}

func TestCtxZapLogger_With(t *testing.T) {
	m := NewManager(DefaultManagerConfig())
	defer m.CloseAll()

	base := m.GetLogger("scope")
	child := base.With(zap.String("scope_id", "abc"))

	require.NotNil(t, child)
	assert.NotSame(t, base, child)
	assert.Equal(t, "scope", child.Module())
}

func TestCtxZapLogger_TraceID(t *testing.T) {
	m := NewManager(DefaultManagerConfig())
	defer m.CloseAll()

	log := m.GetLogger("scope")

	// Context variants never panic, with or without a trace id
	ctx := WithTraceID(context.Background(), "trace-123")
	log.InfoCtx(ctx, "带跟踪标识的消息")
	log.DebugCtx(context.Background(), "无跟踪标识的消息")
}

func TestFileLoggingPath(t *testing.T) {
	cfg := DefaultManagerConfig()
	cfg.EnableFile = true
	cfg.EnableConsole = false
	cfg.BaseLogDir = t.TempDir()

	m := NewManager(cfg)
	defer m.CloseAll()

	log := m.GetLogger("sweeper")
	log.Info("写入文件的消息")
	log.Warn("警告消息", zap.Int("count", 3))
}
