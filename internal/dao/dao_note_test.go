package dao

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/haierkeys/versioned-notes-service/internal/model"
	"github.com/haierkeys/versioned-notes-service/pkg/timex"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDBSeq int64

// newTestDao 每个用例独立的命名内存库
// 固定单连接，连接被回收时共享内存库会随之消失
func newTestDao(t *testing.T) *Dao {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := NewDBEngineWithConfig(DatabaseConfig{
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

	return New(db, context.Background())
}

func strPtr(s string) *string { return &s }

func TestNoteCreateAndGet(t *testing.T) {
	d := newTestDao(t)
	uid := int64(1)

	note, err := d.NoteCreate(&NoteSet{Title: "first", Content: "hello"}, uid)
	require.NoError(t, err)
	assert.Equal(t, "first", note.Title)
	assert.Equal(t, "hello", note.Content)
	assert.Equal(t, int64(1), note.Version)

	got, err := d.NoteGet(note.ID, uid)
	require.NoError(t, err)
	assert.Equal(t, note.ID, got.ID)
	assert.Equal(t, int64(1), got.Version)

	// 其他用户不可见
	_, err = d.NoteGet(note.ID, uid+1)
	assert.True(t, IsNotFound(err))
}

func TestNoteUpdateVersionCheck(t *testing.T) {
	d := newTestDao(t)
	uid := int64(1)

	note, err := d.NoteCreate(&NoteSet{Title: "t", Content: "v1"}, uid)
	require.NoError(t, err)

	updated, _, err := d.NoteUpdate(&NoteUpdateSet{Content: strPtr("v2")}, note.ID, uid, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.Version)
	assert.Equal(t, "v2", updated.Content)
	// 省略的字段保留现值
	assert.Equal(t, "t", updated.Title)

	// 基于过期版本号的更新必须失败，且返回当前版本号
	_, _, err = d.NoteUpdate(&NoteUpdateSet{Content: strPtr("v2-lost")}, note.ID, uid, 1)
	current, ok := IsVersionConflict(err)
	require.True(t, ok)
	assert.Equal(t, int64(2), current)

	// 冲突不产生新版本
	versions, total, err := d.NoteVersionList(note.ID, uid, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, int64(2), versions[0].Version)
	assert.Equal(t, int64(1), versions[1].Version)
}

func TestNoteRevert(t *testing.T) {
	d := newTestDao(t)
	uid := int64(1)

	note, err := d.NoteCreate(&NoteSet{Title: "a", Content: "v1"}, uid)
	require.NoError(t, err)

	_, _, err = d.NoteUpdate(&NoteUpdateSet{Title: strPtr("b"), Content: strPtr("v2")}, note.ID, uid, 1)
	require.NoError(t, err)

	// 回退到 v1 铸造新版本 v3，历史不被改写
	reverted, err := d.NoteRevert(note.ID, uid, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), reverted.Version)
	assert.Equal(t, "a", reverted.Title)
	assert.Equal(t, "v1", reverted.Content)

	v2, err := d.NoteVersionGet(note.ID, 2, uid)
	require.NoError(t, err)
	assert.Equal(t, "v2", v2.Content)

	// 不存在的目标版本优先于版本冲突
	_, err = d.NoteRevert(note.ID, uid, 99, 1)
	require.ErrorIs(t, err, ErrVersionNotFound)

	// 笔记不存在与版本不存在区分报告
	_, err = d.NoteRevert(9999, uid, 1, 1)
	assert.True(t, IsNotFound(err))
	assert.NotErrorIs(t, err, ErrVersionNotFound)

	// 过期的 expectedVersion 返回冲突
	_, err = d.NoteRevert(note.ID, uid, 1, 2)
	current, ok := IsVersionConflict(err)
	require.True(t, ok)
	assert.Equal(t, int64(3), current)
}

func TestNoteUpdateAttachmentsToDelete(t *testing.T) {
	d := newTestDao(t)
	uid := int64(1)

	note, err := d.NoteCreate(&NoteSet{Title: "t", Content: "v1"}, uid)
	require.NoError(t, err)

	att, err := d.AttachmentCreate(&AttachmentSet{
		NoteID:     note.ID,
		FileName:   "a.png",
		StoredName: "stored-a.png",
		MimeType:   "image/png",
		Size:       10,
	}, uid)
	require.NoError(t, err)

	// 附件随更新在同一事务内删除，返回存储文件名供磁盘清理
	updated, storedNames, err := d.NoteUpdate(&NoteUpdateSet{
		Content:             strPtr("v2"),
		AttachmentsToDelete: []int64{att.ID},
	}, note.ID, uid, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.Version)
	assert.Equal(t, []string{"stored-a.png"}, storedNames)

	remaining, err := d.AttachmentList(note.ID, uid)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	// 删除是软删除，物理行保留到清理任务
	var kept int64
	require.NoError(t, d.DB().Unscoped().Model(&model.Attachment{}).
		Where("note_id = ?", note.ID).Count(&kept).Error)
	assert.Equal(t, int64(1), kept)

	// 非法附件ID导致整个事务回滚，不留下孤儿版本记录
	_, _, err = d.NoteUpdate(&NoteUpdateSet{
		Content:             strPtr("v3-lost"),
		AttachmentsToDelete: []int64{9999},
	}, note.ID, uid, 2)
	require.ErrorIs(t, err, ErrAttachmentNotFound)

	got, err := d.NoteGet(note.ID, uid)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Version)
	assert.Equal(t, "v2", got.Content)

	_, total, err := d.NoteVersionList(note.ID, uid, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestNoteSearch(t *testing.T) {
	d := newTestDao(t)
	uid := int64(1)

	_, err := d.NoteCreate(&NoteSet{Title: "shopping list", Content: "milk and eggs"}, uid)
	require.NoError(t, err)
	_, err = d.NoteCreate(&NoteSet{Title: "meeting", Content: "quarterly review"}, uid)
	require.NoError(t, err)
	_, err = d.NoteCreate(&NoteSet{Title: "other user", Content: "milk"}, uid+1)
	require.NoError(t, err)

	list, total, err := d.NoteSearch(uid, "milk", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "shopping list", list[0].Title)

	list, total, err = d.NoteSearch(uid, "meeting", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "meeting", list[0].Title)
}

func TestNoteSoftDeleteAndPurge(t *testing.T) {
	d := newTestDao(t)
	uid := int64(1)

	note, err := d.NoteCreate(&NoteSet{Title: "tmp", Content: "x"}, uid)
	require.NoError(t, err)

	att, err := d.AttachmentCreate(&AttachmentSet{
		NoteID:     note.ID,
		FileName:   "a.png",
		StoredName: "stored-a.png",
		MimeType:   "image/png",
		Size:       10,
	}, uid)
	require.NoError(t, err)
	_, err = d.AttachmentDelete(att.ID, note.ID, uid)
	require.NoError(t, err)

	require.NoError(t, d.NoteSoftDelete(note.ID, uid))

	// 软删除后不可见
	_, err = d.NoteGet(note.ID, uid)
	assert.True(t, IsNotFound(err))

	// 重复删除返回不存在
	err = d.NoteSoftDelete(note.ID, uid)
	assert.True(t, IsNotFound(err))

	// 清理保留期之前的软删除笔记，连同软删除过的附件物理行
	purged, storedNames, err := d.NotePurgeDeletedBefore(timex.Time(time.Now().Add(time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, 1, purged)
	assert.Contains(t, storedNames, "stored-a.png")

	_, _, err = d.NoteVersionList(note.ID, uid, 1, 10)
	assert.True(t, IsNotFound(err))

	var kept int64
	require.NoError(t, d.DB().Unscoped().Model(&model.Attachment{}).
		Where("note_id = ?", note.ID).Count(&kept).Error)
	assert.Equal(t, int64(0), kept)
}

func TestNoteGetWithHistory(t *testing.T) {
	d := newTestDao(t)
	uid := int64(1)

	note, err := d.NoteCreate(&NoteSet{Title: "a", Content: "v1"}, uid)
	require.NoError(t, err)
	_, _, err = d.NoteUpdate(&NoteUpdateSet{Content: strPtr("v2")}, note.ID, uid, 1)
	require.NoError(t, err)
	_, err = d.AttachmentCreate(&AttachmentSet{
		NoteID:     note.ID,
		FileName:   "a.png",
		StoredName: "stored-a.png",
		MimeType:   "image/png",
		Size:       10,
	}, uid)
	require.NoError(t, err)

	got, err := d.NoteGetWithHistory(note.ID, uid)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Version)

	// 版本历史按版本号降序，附件元数据一并返回
	require.Len(t, got.Versions, 2)
	assert.Equal(t, int64(2), got.Versions[0].Version)
	assert.Equal(t, int64(1), got.Versions[1].Version)
	assert.Equal(t, "v1", got.Versions[1].Content)
	require.Len(t, got.Attachments, 1)
	assert.Equal(t, "a.png", got.Attachments[0].FileName)

	// 其他用户不可见
	_, err = d.NoteGetWithHistory(note.ID, uid+1)
	assert.True(t, IsNotFound(err))
}

func TestNoteList(t *testing.T) {
	d := newTestDao(t)
	uid := int64(1)

	for i := 0; i < 5; i++ {
		_, err := d.NoteCreate(&NoteSet{Title: "n", Content: "c"}, uid)
		require.NoError(t, err)
	}

	list, total, err := d.NoteList(uid, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Len(t, list, 3)

	list, _, err = d.NoteList(uid, 2, 3)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestRefreshTokenRotate(t *testing.T) {
	d := newTestDao(t)
	uid := int64(1)

	old, err := d.RefreshTokenCreate(uid, "token-a", time.Hour)
	require.NoError(t, err)

	rotated, err := d.RefreshTokenRotate(old.Token, uid, "token-b", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "token-b", rotated.Token)

	// 旧令牌轮换后立即作废
	_, err = d.RefreshTokenRotate(old.Token, uid, "token-c", time.Hour)
	assert.True(t, IsNotFound(err))

	got, err := d.RefreshTokenGet("token-b")
	require.NoError(t, err)
	assert.Equal(t, uid, got.UID)
}
