package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Manager Logger 管理器（管理多个模块的 Logger 实例）
type Manager struct {
	baseConfig ManagerConfig
	loggers    map[string]*CtxZapLogger      // 模块名 -> CtxZapLogger 实例
	writers    map[string]*lumberjack.Logger // 模块名 -> 文件写入器（用于关闭）
	mu         sync.RWMutex
}

var (
	globalManager *Manager
	managerOnce   sync.Once
)

// NewManager 创建独立的 Manager 实例
// cfg 中的零值字段会自动填充为默认值
func NewManager(cfg ManagerConfig) *Manager {
	cfg.ApplyDefaults()
	return &Manager{
		baseConfig: cfg,
		loggers:    make(map[string]*CtxZapLogger),
		writers:    make(map[string]*lumberjack.Logger),
	}
}

// InitManager 初始化全局 Logger 管理器（只生效一次）
func InitManager(cfg ManagerConfig) {
	managerOnce.Do(func() {
		globalManager = NewManager(cfg)
	})
}

// GetLogger 获取指定模块的 CtxZapLogger（线程安全，按需创建）
// 返回的 Logger 已自动包含 module 字段
func (m *Manager) GetLogger(moduleName string) *CtxZapLogger {
	// 先尝试读锁（快速路径）
	m.mu.RLock()
	if l, exists := m.loggers[moduleName]; exists {
		m.mu.RUnlock()
		return l
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// 双重检查（避免并发创建）
	if l, exists := m.loggers[moduleName]; exists {
		return l
	}

	cfg := m.buildModuleConfig(moduleName)
	zapLogger := m.createLogger(cfg)
	zapLogger = zapLogger.With(zap.String("module", moduleName))
	if m.baseConfig.AppName != "" {
		zapLogger = zapLogger.With(zap.String("app", m.baseConfig.AppName))
	}

	ctxLogger := &CtxZapLogger{
		base:   zapLogger.WithOptions(zap.AddCallerSkip(1)),
		module: moduleName,
	}
	m.loggers[moduleName] = ctxLogger
	return ctxLogger
}

// buildModuleConfig 为指定模块构建配置
func (m *Manager) buildModuleConfig(moduleName string) Config {
	return Config{
		Level:         m.baseConfig.Level,
		Encoding:      m.baseConfig.Encoding,
		moduleName:    moduleName,
		logDir:        m.baseConfig.BaseLogDir,
		EnableFile:    m.baseConfig.EnableFile,
		EnableConsole: m.baseConfig.EnableConsole,
		MaxSize:       m.baseConfig.MaxSize,
		MaxBackups:    m.baseConfig.MaxBackups,
		MaxAge:        m.baseConfig.MaxAge,
		Compress:      m.baseConfig.Compress,
		EnableCaller:  m.baseConfig.EnableCaller,
	}
}

// createLogger 创建底层 zap.Logger
func (m *Manager) createLogger(cfg Config) *zap.Logger {
	level := ParseLevel(cfg.Level)
	encoder := createEncoder(cfg)

	var cores []zapcore.Core
	if cfg.EnableConsole {
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level))
	}
	if cfg.EnableFile {
		writer := &lumberjack.Logger{
			Filename:   cfg.filePath(),
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
		m.writers[cfg.moduleName] = writer
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(writer), level))
	}
	if len(cores) == 0 {
		return zap.NewNop()
	}

	var opts []zap.Option
	if cfg.EnableCaller {
		opts = append(opts, zap.AddCaller())
	}
	return zap.New(zapcore.NewTee(cores...), opts...)
}

// createEncoder 按配置创建编码器
func createEncoder(cfg Config) zapcore.Encoder {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	if cfg.Encoding == "console" {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		return zapcore.NewConsoleEncoder(encCfg)
	}
	return zapcore.NewJSONEncoder(encCfg)
}

// CloseAll 关闭所有文件写入器
func (m *Manager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range m.writers {
		_ = w.Close()
	}
	m.writers = make(map[string]*lumberjack.Logger)
}

// ============================================
// 包级别便捷函数（基于全局 Manager）
// ============================================

// GetLogger 获取指定模块的 Logger（全局 Manager 未初始化时使用默认配置）
func GetLogger(moduleName string) *CtxZapLogger {
	InitManager(DefaultManagerConfig())
	return globalManager.GetLogger(moduleName)
}

// CloseAll 关闭全局 Manager 的所有文件写入器
func CloseAll() {
	if globalManager != nil {
		globalManager.CloseAll()
	}
}
