package task

import (
	"context"

	"github.com/haierkeys/versioned-notes-service/internal/service"
	"github.com/haierkeys/versioned-notes-service/pkg/safe_close"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Deps 任务依赖，由应用容器注入
type Deps struct {
	ServiceOptions *service.Options
	Logger         *zap.Logger
}

// Task 定义任务接口
type Task interface {
	Name() string                  // 任务名称
	Run(ctx context.Context) error // 执行任务
	CronSpec() string              // cron 表达式
	IsStartupRun() bool            // 是否立即执行一次
}

// Scheduler 任务调度器，基于 cron 表达式触发
type Scheduler struct {
	logger *zap.Logger
	cron   *cron.Cron
	tasks  []Task
	sc     *safe_close.SafeClose
}

// NewScheduler 创建任务调度器
func NewScheduler(logger *zap.Logger, sc *safe_close.SafeClose) *Scheduler {
	return &Scheduler{
		logger: logger,
		cron:   cron.New(),
		tasks:  make([]Task, 0),
		sc:     sc,
	}
}

// AddTask 添加任务
func (s *Scheduler) AddTask(task Task) {
	s.tasks = append(s.tasks, task)
}

// Start 启动所有任务
func (s *Scheduler) Start() {
	if len(s.tasks) == 0 {
		s.logger.Info("no tasks to schedule")
		return
	}

	s.logger.Info("tasks starting", zap.Int("count", len(s.tasks)))

	for _, task := range s.tasks {
		s.scheduleTask(task)
	}

	s.cron.Start()

	s.sc.Attach(func(done func(), closeSignal <-chan struct{}) {
		defer done()
		<-closeSignal

		// 等待在途任务执行完毕
		stopCtx := s.cron.Stop()
		<-stopCtx.Done()
		s.logger.Info("task scheduler stopped")
	})
}

// scheduleTask 注册单个任务到 cron
func (s *Scheduler) scheduleTask(task Task) {
	run := func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("task run panic",
					zap.String("name", task.Name()),
					zap.Any("panic", r),
					zap.Stack("stack"))
			}
		}()

		s.logger.Info("task running", zap.String("name", task.Name()))
		if err := task.Run(context.Background()); err != nil {
			s.logger.Error("task running error",
				zap.String("name", task.Name()),
				zap.Error(err))
		}
	}

	if task.IsStartupRun() {
		go run()
	}

	if _, err := s.cron.AddFunc(task.CronSpec(), run); err != nil {
		s.logger.Error("task schedule failed",
			zap.String("name", task.Name()),
			zap.String("spec", task.CronSpec()),
			zap.Error(err))
	}
}
