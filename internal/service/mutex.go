package service

import "sync"

// noteKeyedMutex 按笔记ID串行化写入
// sqlite 不支持 SELECT ... FOR UPDATE，同一笔记的并发写通过进程内互斥锁排队，
// 保证版本校验与版本追加之间不会插入其他写入
type noteKeyedMutex struct {
	mu    sync.Mutex
	locks map[int64]*noteLockEntry
}

type noteLockEntry struct {
	mu   sync.Mutex
	refs int
}

var noteLocks = &noteKeyedMutex{locks: make(map[int64]*noteLockEntry)}

func (m *noteKeyedMutex) Lock(id int64) {
	m.mu.Lock()
	entry, ok := m.locks[id]
	if !ok {
		entry = &noteLockEntry{}
		m.locks[id] = entry
	}
	entry.refs++
	m.mu.Unlock()

	entry.mu.Lock()
}

func (m *noteKeyedMutex) Unlock(id int64) {
	m.mu.Lock()
	entry, ok := m.locks[id]
	if ok {
		entry.refs--
		if entry.refs == 0 {
			delete(m.locks, id)
		}
	}
	m.mu.Unlock()

	if ok {
		entry.mu.Unlock()
	}
}
