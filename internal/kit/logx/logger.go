package logx

import (
	"context"

	"go.uber.org/zap"
)

// Logger 是跨模块可复用的最小日志接口。
//
// 约束：
// - API 保持极简，只承载结构化字段 + ctx 透传（trace 等）
// - 不做日志框架的二次封装
type Logger interface {
	Info(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	Debug(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	WithContext(ctx context.Context) Logger
}
