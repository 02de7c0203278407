package service

import (
	"context"

	"github.com/haierkeys/versioned-notes-service/internal/cache"
	"github.com/haierkeys/versioned-notes-service/internal/dao"
	"github.com/haierkeys/versioned-notes-service/pkg/app"
	"github.com/haierkeys/versioned-notes-service/pkg/storage/local_fs"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// Options 服务层共享依赖，由应用容器在启动时装配，请求间复用
type Options struct {
	DB           *gorm.DB
	Cache        *cache.NoteCache
	Storage      *local_fs.LocalFS
	TokenManager app.TokenManager
	Config       *ServiceConfig
	Logger       *zap.Logger
	SF           *singleflight.Group
}

type Service struct {
	ctx          context.Context
	dao          *dao.Dao
	cache        *cache.NoteCache
	storage      *local_fs.LocalFS
	tokenManager app.TokenManager
	config       *ServiceConfig
	logger       *zap.Logger
	SF           *singleflight.Group
}

func New(ctx context.Context, opt *Options) *Service {
	lg := opt.Logger
	if lg == nil {
		lg = zap.NewNop()
	}

	return &Service{
		ctx:          ctx,
		dao:          dao.NewWithLogger(opt.DB, ctx, lg),
		cache:        opt.Cache,
		storage:      opt.Storage,
		tokenManager: opt.TokenManager,
		config:       opt.Config,
		logger:       lg,
		SF:           opt.SF,
	}
}

// Dao 暴露数据访问层，供后台任务使用
func (svc *Service) Dao() *dao.Dao {
	return svc.dao
}

// cacheEnabled 缓存是否可用
func (svc *Service) cacheEnabled() bool {
	return svc.cache != nil
}
