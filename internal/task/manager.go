package task

import (
	"github.com/haierkeys/versioned-notes-service/pkg/safe_close"

	"go.uber.org/zap"
)

// Manager 任务管理器,负责创建和管理所有任务
type Manager struct {
	scheduler *Scheduler
	deps      *Deps
	logger    *zap.Logger
}

// NewManager 创建任务管理器
func NewManager(deps *Deps, sc *safe_close.SafeClose) *Manager {
	return &Manager{
		scheduler: NewScheduler(deps.Logger, sc),
		deps:      deps,
		logger:    deps.Logger,
	}
}

// RegisterTasks 通过注册表创建并注册所有任务
func (m *Manager) RegisterTasks() error {
	for _, factory := range GetFactories() {
		t, err := factory(m.deps)
		if err != nil {
			m.logger.Warn("failed to create task", zap.Error(err))
			return err
		}
		if t == nil {
			continue
		}
		m.scheduler.AddTask(t)
		m.logger.Info("task registered", zap.String("name", t.Name()), zap.String("spec", t.CronSpec()))
	}
	return nil
}

// Start 启动所有已注册的任务
func (m *Manager) Start() {
	m.scheduler.Start()
}
