// Package service implements the business logic layer
// Package service 实现业务逻辑层
package service

import "time"

// ServiceConfig service layer configuration
// ServiceConfig 服务层配置
type ServiceConfig struct {
	User     UserServiceConfig     // User related config // 用户相关配置
	App      AppServiceConfig      // App related config // 应用相关配置
	Security SecurityServiceConfig // Security related config // 安全相关配置
}

// UserServiceConfig user service configuration
// UserServiceConfig 用户服务配置
type UserServiceConfig struct {
	RegisterIsEnable bool // Whether registration is enabled // 注册是否启用
}

// AppServiceConfig app service configuration
// AppServiceConfig 应用服务配置
type AppServiceConfig struct {
	DefaultPageSize         int      // Default page size // 默认分页大小
	SoftDeleteRetentionTime string   // Soft delete retention time (e.g., 7d, 24h, 30m, 0/empty for no cleanup) // 软删除保留时间（支持格式：7d、24h、30m，0 或空表示不自动清理）
	UploadMaxSize           int64    // Max attachment size in bytes // 附件大小上限（字节）
	UploadAllowedTypes      []string // Allowed attachment MIME types // 允许的附件 MIME 类型
}

// SecurityServiceConfig security service configuration
// SecurityServiceConfig 安全服务配置
type SecurityServiceConfig struct {
	TokenExpiry        time.Duration // Access token expiry // 访问令牌过期时间
	RefreshTokenExpiry time.Duration // Refresh token expiry // 刷新令牌过期时间
}
