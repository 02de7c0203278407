// Package api_router 提供 HTTP API 路由处理器
package api_router

import (
	"context"

	"github.com/haierkeys/versioned-notes-service/internal/app"
	"github.com/haierkeys/versioned-notes-service/internal/middleware"
	pkgapp "github.com/haierkeys/versioned-notes-service/pkg/app"
	"github.com/haierkeys/versioned-notes-service/pkg/code"
	"github.com/haierkeys/versioned-notes-service/pkg/convert"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 基础 Handler 结构体，封装 App Container
// 所有 API Handler 都应该嵌入此结构体以获得依赖注入能力
type Handler struct {
	App *app.App
}

// NewHandler 创建基础 Handler 实例
func NewHandler(a *app.App) *Handler {
	return &Handler{App: a}
}

// logError 记录错误日志，包含 Trace ID
func (h *Handler) logError(ctx context.Context, method string, err error) {
	traceID := middleware.GetTraceID(ctx)
	h.App.Logger().Error(method,
		zap.Error(err),
		zap.String("traceId", traceID),
	)
}

// respondError 将 Service 层错误映射为 HTTP 响应
// Service 层返回的错误均为 *code.Code，其余错误按内部错误处理
func (h *Handler) respondError(c *gin.Context, method string, err error) {
	h.logError(c.Request.Context(), method, err)
	if codeErr, ok := err.(*code.Code); ok {
		pkgapp.NewResponse(c).ToResponse(codeErr)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.ErrorServerInternal)
}

// respondInvalidParams 响应参数校验失败
func (h *Handler) respondInvalidParams(c *gin.Context, method string, errs pkgapp.ValidErrors) {
	h.App.Logger().Error(method+".BindAndValid errs", zap.Error(errs))
	pkgapp.NewResponse(c).ToResponse(
		code.ErrorInvalidParams.Clone().WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
}

// paramID 解析路径参数中的数值 ID，非法值返回 0
func paramID(c *gin.Context, name string) int64 {
	id, err := convert.StrTo(c.Param(name)).Int64()
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

// pageSize 按配置约束的分页大小
func (h *Handler) pageSize(c *gin.Context) int {
	cfg := h.App.Config()
	return pkgapp.GetPageSizeWithConfig(c, pkgapp.PaginationConfig{
		DefaultPageSize: cfg.App.DefaultPageSize,
		MaxPageSize:     cfg.App.MaxPageSize,
	})
}
