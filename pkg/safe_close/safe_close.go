// Package safe_close 提供带信号传播的优雅关闭协调器
package safe_close

import (
	"sync"
)

// SafeClose coordinates a group of goroutines that must shut down together.
// SafeClose 协调一组需要同时关闭的 goroutine。
type SafeClose struct {
	mu          sync.Mutex
	closeSignal chan struct{}
	closed      bool
	closeErr    error
	wg          sync.WaitGroup
}

func NewSafeClose() *SafeClose {
	return &SafeClose{
		closeSignal: make(chan struct{}),
	}
}

// Attach registers a worker. The worker must call done() when fully stopped
// and should begin shutting down once closeSignal is closed.
// Attach 注册一个工作协程，收到 closeSignal 后开始关闭，完成后必须调用 done()。
func (s *SafeClose) Attach(f func(done func(), closeSignal <-chan struct{})) {
	s.wg.Add(1)
	go f(s.wg.Done, s.closeSignal)
}

// SendCloseSignal broadcasts the close signal. The first error wins; later
// calls are no-ops.
// SendCloseSignal 广播关闭信号，只有第一次调用的错误会被记录。
func (s *SafeClose) SendCloseSignal(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.closeErr = err
	close(s.closeSignal)
}

// WaitClosed blocks until every attached worker has called done(), then
// returns the error passed to the first SendCloseSignal, if any.
// WaitClosed 阻塞直到所有已注册协程退出，返回首个关闭错误。
func (s *SafeClose) WaitClosed() error {
	s.wg.Wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeErr
}
