package logger

import (
	"context"

	"go.uber.org/zap"
)

// traceIDKey context key carrying the trace id
type traceIDKey struct{}

// WithTraceID returns a context carrying the given trace id
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

// CtxZapLogger Context-Aware 的 Zap Logger 包装器
// 设计思路：module 在创建时绑定，使用时只需传递 ctx
// 统一通过 GetLogger() 获取，不直接构造
type CtxZapLogger struct {
	base   *zap.Logger
	module string
}

// Module 返回绑定的模块名
func (l *CtxZapLogger) Module() string {
	return l.module
}

// With 返回携带额外字段的 Logger 副本
func (l *CtxZapLogger) With(fields ...zap.Field) *CtxZapLogger {
	return &CtxZapLogger{base: l.base.With(fields...), module: l.module}
}

// InfoCtx 记录 Info 级别日志（自动提取 TraceID）
func (l *CtxZapLogger) InfoCtx(ctx context.Context, msg string, fields ...zap.Field) {
	l.base.Info(msg, l.enrichFields(ctx, fields)...)
}

// Info 记录 Info 级别日志（不需要 context 的便捷方法）
func (l *CtxZapLogger) Info(msg string, fields ...zap.Field) {
	l.InfoCtx(context.Background(), msg, fields...)
}

// DebugCtx 记录 Debug 级别日志（自动提取 TraceID）
func (l *CtxZapLogger) DebugCtx(ctx context.Context, msg string, fields ...zap.Field) {
	l.base.Debug(msg, l.enrichFields(ctx, fields)...)
}

// Debug 记录 Debug 级别日志
func (l *CtxZapLogger) Debug(msg string, fields ...zap.Field) {
	l.DebugCtx(context.Background(), msg, fields...)
}

// WarnCtx 记录 Warn 级别日志（自动提取 TraceID）
func (l *CtxZapLogger) WarnCtx(ctx context.Context, msg string, fields ...zap.Field) {
	l.base.Warn(msg, l.enrichFields(ctx, fields)...)
}

// Warn 记录 Warn 级别日志
func (l *CtxZapLogger) Warn(msg string, fields ...zap.Field) {
	l.WarnCtx(context.Background(), msg, fields...)
}

// ErrorCtx 记录 Error 级别日志（自动提取 TraceID）
func (l *CtxZapLogger) ErrorCtx(ctx context.Context, msg string, fields ...zap.Field) {
	l.base.Error(msg, l.enrichFields(ctx, fields)...)
}

// Error 记录 Error 级别日志
func (l *CtxZapLogger) Error(msg string, fields ...zap.Field) {
	l.ErrorCtx(context.Background(), msg, fields...)
}

// enrichFields 从 ctx 中提取 trace_id 附加到日志字段
func (l *CtxZapLogger) enrichFields(ctx context.Context, fields []zap.Field) []zap.Field {
	if ctx == nil {
		return fields
	}
	if traceID, ok := ctx.Value(traceIDKey{}).(string); ok && traceID != "" {
		return append(fields, zap.String("trace_id", traceID))
	}
	return fields
}
