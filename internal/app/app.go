// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/haierkeys/versioned-notes-service/internal/cache"
	"github.com/haierkeys/versioned-notes-service/internal/dao"
	"github.com/haierkeys/versioned-notes-service/internal/service"
	pkgapp "github.com/haierkeys/versioned-notes-service/pkg/app"
	"github.com/haierkeys/versioned-notes-service/pkg/storage/local_fs"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// App 应用容器，封装所有依赖和服务
type App struct {
	// 基础设施（注入的依赖）
	config *AppConfig
	logger *zap.Logger
	DB     *gorm.DB
	Dao    *dao.Dao

	// 缓存与存储
	Cache   *cache.NoteCache
	Storage *local_fs.LocalFS

	// 基础设施组件
	TokenManager pkgapp.TokenManager

	// 服务层共享依赖
	svcOptions *service.Options

	// 启动时间
	StartTime time.Time
}

// NewApp 创建应用容器实例
// 初始化所有依赖并进行依赖注入
// cfg: 应用配置（必须）
// logger: zap 日志器（必须）
// db: 数据库连接（必须）
func NewApp(cfg *AppConfig, logger *zap.Logger, db *gorm.DB) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	a := &App{
		config:    cfg,
		logger:    logger,
		DB:        db,
		StartTime: time.Now(),
	}

	a.Dao = dao.NewWithLogger(db, context.Background(), logger)

	// 初始化缓存（可选组件，未启用时读写直达数据库）
	if cfg.Cache.Enabled {
		noteCache, err := cache.New(&cfg.Cache, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to init cache: %w", err)
		}
		a.Cache = noteCache
	}

	// 初始化附件存储
	storage, err := local_fs.NewClient(&cfg.LocalFS)
	if err != nil {
		return nil, fmt.Errorf("failed to init attachment storage: %w", err)
	}
	a.Storage = storage

	// 初始化 TokenManager
	a.TokenManager = pkgapp.NewTokenManager(pkgapp.TokenConfig{
		SecretKey: cfg.Security.AuthTokenKey,
		Issuer:    "versioned-notes-service",
		Expiry:    cfg.GetTokenExpiry(),
	})

	// 创建 ServiceConfig（从 AppConfig 提取 Service 层需要的配置）
	svcConfig := &service.ServiceConfig{
		User: service.UserServiceConfig{
			RegisterIsEnable: cfg.User.RegisterIsEnable,
		},
		App: service.AppServiceConfig{
			DefaultPageSize:         cfg.App.DefaultPageSize,
			SoftDeleteRetentionTime: cfg.App.SoftDeleteRetentionTime,
			UploadMaxSize:           cfg.GetUploadMaxSize(),
			UploadAllowedTypes:      cfg.App.UploadAllowedTypes,
		},
		Security: service.SecurityServiceConfig{
			TokenExpiry:        cfg.GetTokenExpiry(),
			RefreshTokenExpiry: cfg.GetRefreshTokenExpiry(),
		},
	}

	a.svcOptions = &service.Options{
		DB:           db,
		Cache:        a.Cache,
		Storage:      a.Storage,
		TokenManager: a.TokenManager,
		Config:       svcConfig,
		Logger:       logger,
		SF:           &singleflight.Group{},
	}

	logger.Info("App container initialized successfully",
		zap.Bool("cacheEnabled", cfg.Cache.Enabled),
		zap.String("databaseType", cfg.Database.Type))

	return a, nil
}

// Service 创建绑定到请求上下文的服务层实例
func (a *App) Service(ctx context.Context) *service.Service {
	return service.New(ctx, a.svcOptions)
}

// ServiceOptions 暴露服务层共享依赖，供后台任务使用
func (a *App) ServiceOptions() *service.Options {
	return a.svcOptions
}

// Close 释放应用容器持有的资源
func (a *App) Close() error {
	if a.Cache != nil {
		if err := a.Cache.Close(); err != nil {
			a.logger.Warn("failed to close cache", zap.Error(err))
		}
	}

	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err != nil {
			return fmt.Errorf("failed to get sql.DB: %w", err)
		}
		if err := sqlDB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
		a.logger.Info("Database connection closed")
	}
	return nil
}

// Config 获取应用配置
func (a *App) Config() *AppConfig {
	return a.config
}

// Logger 获取日志器
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Version 获取版本信息
func (a *App) Version() pkgapp.VersionInfo {
	return pkgapp.VersionInfo{
		Version:   Version,
		GitTag:    GitTag,
		BuildTime: BuildTime,
	}
}
