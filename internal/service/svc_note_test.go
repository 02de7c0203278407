package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/haierkeys/versioned-notes-service/internal/cache"
	"github.com/haierkeys/versioned-notes-service/internal/dao"
	"github.com/haierkeys/versioned-notes-service/pkg/app"
	"github.com/haierkeys/versioned-notes-service/pkg/code"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var testDBSeq int64

func newTestService(t *testing.T) (*Service, *miniredis.Miniredis) {
	t.Helper()

	// 每个用例独立的命名内存库，固定单连接保证库在用例期间存活
	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := dao.NewDBEngineWithConfig(dao.DatabaseConfig{
		Type:         "sqlite",
		Path:         fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, atomic.AddInt64(&testDBSeq, 1)),
		AutoMigrate:  true,
		MaxIdleConns: 1,
		MaxOpenConns: 1,
	}, nil)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	mr := miniredis.RunT(t)
	noteCache, err := cache.New(&cache.Config{
		Enabled: true,
		Addr:    mr.Addr(),
		TTL:     "5m",
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { noteCache.Close() })

	opts := &Options{
		DB:           db,
		Cache:        noteCache,
		TokenManager: app.NewTokenManager(app.TokenConfig{SecretKey: "test-secret"}),
		Config: &ServiceConfig{
			User: UserServiceConfig{RegisterIsEnable: true},
			App: AppServiceConfig{
				DefaultPageSize:         20,
				SoftDeleteRetentionTime: "7d",
			},
			Security: SecurityServiceConfig{
				TokenExpiry:        time.Hour,
				RefreshTokenExpiry: 24 * time.Hour,
			},
		},
		Logger: zap.NewNop(),
		SF:     &singleflight.Group{},
	}

	return New(context.Background(), opts), mr
}

func strPtr(s string) *string { return &s }

func TestNoteGetReadThrough(t *testing.T) {
	svc, mr := newTestService(t)
	uid := int64(1)

	note, err := svc.NoteCreate(uid, &NoteCreateRequestParams{Title: "a", Content: "hello"})
	require.NoError(t, err)

	// 首次读取回源并写缓存
	got, err := svc.NoteGet(uid, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Content)
	assert.True(t, mr.Exists(cache.NoteKey(note.ID)))

	// 缓存命中后数据库中的直接改动不可见，证明走了缓存
	require.NoError(t, svc.dao.DB().Exec("UPDATE note SET content = 'dirty' WHERE id = ?", note.ID).Error)
	got, err = svc.NoteGet(uid, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Content)
}

func TestNoteGetCacheOwnership(t *testing.T) {
	svc, _ := newTestService(t)

	note, err := svc.NoteCreate(1, &NoteCreateRequestParams{Title: "mine", Content: "secret"})
	require.NoError(t, err)

	_, err = svc.NoteGet(1, note.ID)
	require.NoError(t, err)

	// 缓存命中也不得泄露给其他用户
	_, err = svc.NoteGet(2, note.ID)
	assert.True(t, code.ErrorNoteNotFound.Is(err))
}

// 回源在途时其他用户的并发读取不得共享同一次结果
func TestNoteGetSourceOwnership(t *testing.T) {
	svc, mr := newTestService(t)

	note, err := svc.NoteCreate(1, &NoteCreateRequestParams{Title: "mine", Content: "secret"})
	require.NoError(t, err)
	mr.FlushAll()

	// 占住 uid=1 的回源，模拟归属用户的读取正在进行中
	inflight := make(chan struct{})
	release := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		svc.SF.Do(fmt.Sprintf("note_%d_u%d", note.ID, int64(1)), func() (any, error) {
			close(inflight)
			<-release
			return nil, nil
		})
	}()
	<-inflight

	// 非归属用户走自己的回源，拿到 404 而不是他人的笔记
	_, err = svc.NoteGet(2, note.ID)
	assert.True(t, code.ErrorNoteNotFound.Is(err))

	close(release)
	wg.Wait()

	got, err := svc.NoteGet(1, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "secret", got.Content)
}

// 详情读返回完整快照：版本历史降序与附件元数据一并返回并被缓存
func TestNoteGetIncludesHistory(t *testing.T) {
	svc, mr := newTestService(t)
	uid := int64(1)

	note, err := svc.NoteCreate(uid, &NoteCreateRequestParams{Title: "a", Content: "v1"})
	require.NoError(t, err)
	_, err = svc.NoteUpdate(uid, note.ID, &NoteUpdateRequestParams{Content: strPtr("v2"), Version: 1})
	require.NoError(t, err)

	got, err := svc.NoteGet(uid, note.ID)
	require.NoError(t, err)
	require.Len(t, got.Versions, 2)
	assert.Equal(t, int64(2), got.Versions[0].Version)
	assert.Equal(t, "v1", got.Versions[1].Content)

	// 缓存命中的快照同样携带历史
	require.True(t, mr.Exists(cache.NoteKey(note.ID)))
	got, err = svc.NoteGet(uid, note.ID)
	require.NoError(t, err)
	require.Len(t, got.Versions, 2)
	assert.Equal(t, int64(2), got.Versions[0].Version)
}

func TestNoteUpdateInvalidatesCache(t *testing.T) {
	svc, mr := newTestService(t)
	uid := int64(1)

	note, err := svc.NoteCreate(uid, &NoteCreateRequestParams{Title: "a", Content: "v1"})
	require.NoError(t, err)

	_, err = svc.NoteGet(uid, note.ID)
	require.NoError(t, err)
	_, _, err = svc.NoteList(uid, 1, 20)
	require.NoError(t, err)
	require.True(t, mr.Exists(cache.NoteKey(note.ID)))
	require.True(t, mr.Exists(cache.UserNotesKey(uid)))

	_, err = svc.NoteUpdate(uid, note.ID, &NoteUpdateRequestParams{Title: strPtr("a"), Content: strPtr("v2"), Version: 1})
	require.NoError(t, err)

	// 写入提交后两个键都被失效
	assert.False(t, mr.Exists(cache.NoteKey(note.ID)))
	assert.False(t, mr.Exists(cache.UserNotesKey(uid)))

	got, err := svc.NoteGet(uid, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Content)
	assert.Equal(t, int64(2), got.Version)
}

func TestNoteUpdateConflict(t *testing.T) {
	svc, _ := newTestService(t)
	uid := int64(1)

	note, err := svc.NoteCreate(uid, &NoteCreateRequestParams{Title: "a", Content: "v1"})
	require.NoError(t, err)

	_, err = svc.NoteUpdate(uid, note.ID, &NoteUpdateRequestParams{Title: strPtr("a"), Content: strPtr("v2"), Version: 1})
	require.NoError(t, err)

	// 过期版本号冲突，响应携带当前版本号
	_, err = svc.NoteUpdate(uid, note.ID, &NoteUpdateRequestParams{Title: strPtr("a"), Content: strPtr("lost"), Version: 1})
	require.True(t, code.ErrorNoteVersionConflict.Is(err))

	cerr := err.(*code.Code)
	data, ok := cerr.Data().(map[string]int64)
	require.True(t, ok)
	assert.Equal(t, int64(2), data["currentVersion"])
}

// 并发携带同一基准版本号更新时只有一个成功，其余全部冲突
func TestNoteUpdateConcurrent(t *testing.T) {
	svc, _ := newTestService(t)
	uid := int64(1)

	note, err := svc.NoteCreate(uid, &NoteCreateRequestParams{Title: "a", Content: "v1"})
	require.NoError(t, err)

	const workers = 8
	var wg sync.WaitGroup
	results := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.NoteUpdate(uid, note.ID, &NoteUpdateRequestParams{
				Title:   strPtr("a"),
				Content: strPtr("contested"),
				Version: 1,
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, conflicted int
	for err := range results {
		if err == nil {
			succeeded++
		} else if code.ErrorNoteVersionConflict.Is(err) {
			conflicted++
		} else {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, conflicted)

	got, err := svc.NoteGet(uid, note.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Version)

	// 冲突不产生新版本
	_, total, err := svc.NoteVersionList(uid, note.ID, 1, 50)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestNoteRevertFlow(t *testing.T) {
	svc, _ := newTestService(t)
	uid := int64(1)

	note, err := svc.NoteCreate(uid, &NoteCreateRequestParams{Title: "t1", Content: "v1"})
	require.NoError(t, err)
	_, err = svc.NoteUpdate(uid, note.ID, &NoteUpdateRequestParams{Title: strPtr("t2"), Content: strPtr("v2"), Version: 1})
	require.NoError(t, err)

	reverted, err := svc.NoteRevert(uid, note.ID, &NoteRevertRequestParams{Version: 1, ExpectedVersion: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), reverted.Version)
	assert.Equal(t, "t1", reverted.Title)
	assert.Equal(t, "v1", reverted.Content)

	// 回退后的笔记可以再次回退
	reverted, err = svc.NoteRevert(uid, note.ID, &NoteRevertRequestParams{Version: 2, ExpectedVersion: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(4), reverted.Version)
	assert.Equal(t, "v2", reverted.Content)

	_, err = svc.NoteRevert(uid, note.ID, &NoteRevertRequestParams{Version: 99, ExpectedVersion: 4})
	assert.True(t, code.ErrorVersionNotFound.Is(err))

	// 携带过期版本号回退必须冲突并带回当前版本号
	_, err = svc.NoteRevert(uid, note.ID, &NoteRevertRequestParams{Version: 1, ExpectedVersion: 3})
	require.True(t, code.ErrorNoteVersionConflict.Is(err))
	data, ok := err.(*code.Code).Data().(map[string]int64)
	require.True(t, ok)
	assert.Equal(t, int64(4), data["currentVersion"])
}

func TestNoteRevertDeletedNote(t *testing.T) {
	svc, _ := newTestService(t)
	uid := int64(1)

	note, err := svc.NoteCreate(uid, &NoteCreateRequestParams{Title: "t", Content: "v1"})
	require.NoError(t, err)
	_, err = svc.NoteUpdate(uid, note.ID, &NoteUpdateRequestParams{Content: strPtr("v2"), Version: 1})
	require.NoError(t, err)
	require.NoError(t, svc.NoteDelete(uid, note.ID))

	// 已删除笔记的回退报笔记 404，而不是版本 404
	_, err = svc.NoteRevert(uid, note.ID, &NoteRevertRequestParams{Version: 1, ExpectedVersion: 2})
	assert.True(t, code.ErrorNoteNotFound.Is(err))
	assert.False(t, code.ErrorVersionNotFound.Is(err))
}

func TestNoteVersionDiff(t *testing.T) {
	svc, _ := newTestService(t)
	uid := int64(1)

	note, err := svc.NoteCreate(uid, &NoteCreateRequestParams{Title: "t", Content: "hello world"})
	require.NoError(t, err)
	_, err = svc.NoteUpdate(uid, note.ID, &NoteUpdateRequestParams{Title: strPtr("t"), Content: strPtr("hello brave world"), Version: 1})
	require.NoError(t, err)

	d, err := svc.NoteVersionDiff(uid, note.ID, &VersionDiffRequestParams{From: 1, To: 2})
	require.NoError(t, err)
	assert.NotEmpty(t, d.Patch)
	assert.Greater(t, d.Inserted, 0)
	assert.Equal(t, 0, d.Deleted)
}

func TestNoteDeleteAndCleanup(t *testing.T) {
	svc, mr := newTestService(t)
	uid := int64(1)

	note, err := svc.NoteCreate(uid, &NoteCreateRequestParams{Title: "tmp", Content: "x"})
	require.NoError(t, err)
	_, err = svc.NoteGet(uid, note.ID)
	require.NoError(t, err)

	require.NoError(t, svc.NoteDelete(uid, note.ID))
	assert.False(t, mr.Exists(cache.NoteKey(note.ID)))

	_, err = svc.NoteGet(uid, note.ID)
	assert.True(t, code.ErrorNoteNotFound.Is(err))

	// 保留期内不清理
	purged, err := svc.NoteCleanup()
	require.NoError(t, err)
	assert.Equal(t, 0, purged)

	// 把删除时间回拨到保留期之外后清理
	backdated := time.Now().Add(-8 * 24 * time.Hour)
	require.NoError(t, svc.dao.DB().Exec("UPDATE note SET deleted_at = ? WHERE id = ?", backdated, note.ID).Error)
	purged, err = svc.NoteCleanup()
	require.NoError(t, err)
	assert.Equal(t, 1, purged)
}

func TestNoteSearchExcludesDeleted(t *testing.T) {
	svc, _ := newTestService(t)
	uid := int64(1)

	kept, err := svc.NoteCreate(uid, &NoteCreateRequestParams{Title: "groceries", Content: "milk"})
	require.NoError(t, err)
	gone, err := svc.NoteCreate(uid, &NoteCreateRequestParams{Title: "groceries old", Content: "milk"})
	require.NoError(t, err)
	require.NoError(t, svc.NoteDelete(uid, gone.ID))

	list, total, err := svc.NoteSearch(uid, "milk", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, kept.ID, list[0].ID)
}
