package task

import (
	"context"

	"github.com/haierkeys/versioned-notes-service/internal/service"
	"github.com/haierkeys/versioned-notes-service/pkg/util"
)

// init 自动注册清理任务
func init() {
	Register(NewNoteCleanupTask)
}

// NoteCleanupTask 清理超过保留期的软删除笔记
type NoteCleanupTask struct {
	deps *Deps
}

// NewNoteCleanupTask 创建清理任务
// 保留期未配置或为 0 时任务被禁用
func NewNoteCleanupTask(deps *Deps) (Task, error) {
	retentionTimeStr := deps.ServiceOptions.Config.App.SoftDeleteRetentionTime
	if retentionTimeStr == "" {
		return nil, nil
	}
	duration, err := util.ParseDuration(retentionTimeStr)
	if err != nil {
		return nil, err
	}
	if duration <= 0 {
		return nil, nil
	}

	return &NoteCleanupTask{deps: deps}, nil
}

// Name 返回任务名称
func (t *NoteCleanupTask) Name() string {
	return "NoteCleanupTask"
}

// Run 执行清理任务
func (t *NoteCleanupTask) Run(ctx context.Context) error {
	svc := service.New(ctx, t.deps.ServiceOptions)
	_, err := svc.NoteCleanup()
	return err
}

// CronSpec 每 10 分钟执行一次
func (t *NoteCleanupTask) CronSpec() string {
	return "*/10 * * * *"
}

// IsStartupRun 是否立即执行一次
func (t *NoteCleanupTask) IsStartupRun() bool {
	return true
}
