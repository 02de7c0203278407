package task

import (
	"context"

	"github.com/haierkeys/versioned-notes-service/internal/service"

	"go.uber.org/zap"
)

func init() {
	Register(NewTokenCleanupTask)
}

// TokenCleanupTask 清理已过期的刷新令牌
type TokenCleanupTask struct {
	deps *Deps
}

func NewTokenCleanupTask(deps *Deps) (Task, error) {
	return &TokenCleanupTask{deps: deps}, nil
}

func (t *TokenCleanupTask) Name() string {
	return "TokenCleanupTask"
}

func (t *TokenCleanupTask) Run(ctx context.Context) error {
	svc := service.New(ctx, t.deps.ServiceOptions)
	purged, err := svc.Dao().RefreshTokenPurgeExpired()
	if err != nil {
		return err
	}
	if purged > 0 {
		t.deps.Logger.Info("purged expired refresh tokens", zap.Int64("count", purged))
	}
	return nil
}

// CronSpec 每小时执行一次
func (t *TokenCleanupTask) CronSpec() string {
	return "0 * * * *"
}

func (t *TokenCleanupTask) IsStartupRun() bool {
	return false
}
