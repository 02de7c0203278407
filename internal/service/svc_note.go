package service

import (
	"fmt"

	"github.com/haierkeys/versioned-notes-service/internal/cache"
	"github.com/haierkeys/versioned-notes-service/internal/dao"
	"github.com/haierkeys/versioned-notes-service/pkg/code"
	"github.com/haierkeys/versioned-notes-service/pkg/convert"
	"github.com/haierkeys/versioned-notes-service/pkg/logger"
	"github.com/haierkeys/versioned-notes-service/pkg/timex"
	"github.com/haierkeys/versioned-notes-service/pkg/util"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Note struct {
	ID        int64      `json:"id" form:"id"`               // 主键ID
	UID       int64      `json:"uid" form:"uid"`             // 用户ID
	Title     string     `json:"title" form:"title"`         // 标题
	Content   string     `json:"content" form:"content"`     // 内容详情
	Version   int64      `json:"version" form:"version"`     // 当前版本号
	CreatedAt timex.Time `json:"createdAt"`                  // 创建时间字段
	UpdatedAt timex.Time `json:"updatedAt"`                  // 更新时间字段

	Versions    []*NoteVersion `json:"versions,omitempty"`    // 版本历史，版本号降序，仅详情读返回
	Attachments []*Attachment  `json:"attachments,omitempty"` // 附件元数据，仅详情读返回
}

type NoteNoContent struct {
	ID        int64      `json:"id" form:"id"`           // 主键ID
	Title     string     `json:"title" form:"title"`     // 标题
	Version   int64      `json:"version" form:"version"` // 当前版本号
	CreatedAt timex.Time `json:"createdAt"`              // 创建时间字段
	UpdatedAt timex.Time `json:"updatedAt"`              // 更新时间字段
}

type NoteCreateRequestParams struct {
	Title   string `json:"title" form:"title" binding:"required,max=255"`
	Content string `json:"content" form:"content" binding:""` // 内容详情
}

type NoteUpdateRequestParams struct {
	Title               *string `json:"title" form:"title" binding:"omitempty,max=255"`       // 省略则保留现值
	Content             *string `json:"content" form:"content" binding:"omitempty"`           // 省略则保留现值
	Version             int64   `json:"version" form:"version" binding:"required,min=1"`      // 客户端持有的版本号
	AttachmentsToDelete []int64 `json:"attachmentsToDelete" form:"attachmentsToDelete" binding:"omitempty,dive,min=1"` // 随本次更新一并删除的附件ID
}

type NoteSearchRequestParams struct {
	Q string `json:"q" form:"q" binding:"required,min=1"` // 搜索关键字
}

// noteListCacheEntry 用户笔记列表首页缓存快照
type noteListCacheEntry struct {
	List     []*NoteNoContent `json:"list"`
	Total    int              `json:"total"`
	PageSize int              `json:"pageSize"`
}

// NoteCreate 创建笔记，初始版本号为 1
func (svc *Service) NoteCreate(uid int64, params *NoteCreateRequestParams) (*Note, error) {
	note, err := svc.dao.NoteCreate(&dao.NoteSet{
		Title:   params.Title,
		Content: params.Content,
	}, uid)
	if err != nil {
		return nil, err
	}

	svc.invalidateNoteCache(0, uid)

	return convert.StructAssign(note, &Note{}).(*Note), nil
}

// NoteGet 获取笔记详情快照（含版本历史与附件元数据），读穿缓存
// 缓存命中仍校验归属用户，防止跨用户读取
func (svc *Service) NoteGet(uid int64, id int64) (*Note, error) {
	if svc.cacheEnabled() {
		var cached Note
		if svc.cache.Get(svc.ctx, cache.NoteKey(id), &cached) {
			if cached.UID != uid {
				return nil, code.ErrorNoteNotFound
			}
			return &cached, nil
		}
	}

	// 单例模式回源，避免缓存失效后的并发击穿
	// key 必须带上 uid：回源查询按用户过滤，不同用户不能共享同一次在途结果
	v, err, _ := svc.SF.Do(fmt.Sprintf("note_%d_u%d", id, uid), func() (any, error) {
		note, err := svc.dao.NoteGetWithHistory(id, uid)
		if err != nil {
			return nil, err
		}
		res := convert.StructAssign(note, &Note{}).(*Note)
		if svc.cacheEnabled() {
			svc.cache.Set(svc.ctx, cache.NoteKey(id), res)
		}
		return res, nil
	})
	if err != nil {
		if dao.IsNotFound(err) {
			return nil, code.ErrorNoteNotFound
		}
		return nil, err
	}

	return v.(*Note), nil
}

// NoteList 分页获取笔记列表，首页走缓存
func (svc *Service) NoteList(uid int64, page int, pageSize int) ([]*NoteNoContent, int, error) {
	if svc.cacheEnabled() && page == 1 {
		var entry noteListCacheEntry
		if svc.cache.Get(svc.ctx, cache.UserNotesKey(uid), &entry) && entry.PageSize == pageSize {
			return entry.List, entry.Total, nil
		}
	}

	list, total, err := svc.dao.NoteList(uid, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	var res []*NoteNoContent
	for _, n := range list {
		res = append(res, convert.StructAssign(n, &NoteNoContent{}).(*NoteNoContent))
	}

	if svc.cacheEnabled() && page == 1 {
		svc.cache.Set(svc.ctx, cache.UserNotesKey(uid), &noteListCacheEntry{
			List:     res,
			Total:    total,
			PageSize: pageSize,
		})
	}

	return res, total, nil
}

// NoteUpdate 乐观并发更新笔记
// 客户端必须携带其读取时的版本号，版本不一致返回冲突与当前版本号，不产生新版本
func (svc *Service) NoteUpdate(uid int64, id int64, params *NoteUpdateRequestParams) (*Note, error) {
	if !svc.dao.SupportsRowLock() {
		noteLocks.Lock(id)
		defer noteLocks.Unlock(id)
	}

	note, storedNames, err := svc.dao.NoteUpdate(&dao.NoteUpdateSet{
		Title:               params.Title,
		Content:             params.Content,
		AttachmentsToDelete: params.AttachmentsToDelete,
	}, id, uid, params.Version)
	if err != nil {
		if current, ok := dao.IsVersionConflict(err); ok {
			svc.logger.Info("note update version conflict",
				zap.Int64(logger.FieldUID, uid),
				zap.Int64(logger.FieldNoteID, id),
				zap.Int64(logger.FieldVersion, current))
			return nil, code.ErrorNoteVersionConflict.Clone().WithData(map[string]int64{"currentVersion": current})
		}
		if errors.Is(err, dao.ErrAttachmentNotFound) {
			return nil, code.ErrorAttachmentNotFound
		}
		if dao.IsNotFound(err) {
			return nil, code.ErrorNoteNotFound
		}
		return nil, err
	}

	// 失效必须在事务提交后执行
	svc.invalidateNoteCache(id, uid)

	// 事务内删除的附件记录提交后再清理磁盘文件，失败仅告警
	for _, storedName := range storedNames {
		if svc.storage == nil {
			break
		}
		if err := svc.storage.Delete(storedName); err != nil {
			svc.logger.Warn("failed to delete attachment file",
				zap.Int64(logger.FieldNoteID, id),
				zap.String(logger.FieldPath, storedName),
				zap.Error(err))
		}
	}

	return convert.StructAssign(note, &Note{}).(*Note), nil
}

// NoteDelete 软删除笔记，历史版本保留到清理任务执行
func (svc *Service) NoteDelete(uid int64, id int64) error {
	if err := svc.dao.NoteSoftDelete(id, uid); err != nil {
		if dao.IsNotFound(err) {
			return code.ErrorNoteNotFound
		}
		return err
	}

	svc.invalidateNoteCache(id, uid)
	return nil
}

// NoteSearch 按关键字搜索笔记，搜索结果不走缓存
func (svc *Service) NoteSearch(uid int64, keyword string, page int, pageSize int) ([]*NoteNoContent, int, error) {
	list, total, err := svc.dao.NoteSearch(uid, keyword, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	var res []*NoteNoContent
	for _, n := range list {
		res = append(res, convert.StructAssign(n, &NoteNoContent{}).(*NoteNoContent))
	}
	return res, total, nil
}

// NoteCleanup 清理超过保留期的软删除笔记及其附件文件
// 由定时任务调用
func (svc *Service) NoteCleanup() (int, error) {
	retention, err := util.ParseDuration(svc.config.App.SoftDeleteRetentionTime)
	if err != nil || retention <= 0 {
		return 0, nil
	}

	cutoff := timex.Time(timex.Now().Time().Add(-retention))
	purged, storedNames, err := svc.dao.NotePurgeDeletedBefore(cutoff)
	if err != nil {
		return 0, err
	}

	for _, name := range storedNames {
		if svc.storage == nil {
			break
		}
		if err := svc.storage.Delete(name); err != nil {
			svc.logger.Warn("cleanup attachment file failed",
				zap.String(logger.FieldPath, name), zap.Error(err))
		}
	}

	if purged > 0 {
		svc.logger.Info("purged soft deleted notes",
			zap.Int("count", purged),
			zap.Int("attachments", len(storedNames)))
	}
	return purged, nil
}

// invalidateNoteCache 写入提交后失效相关缓存键
// id 为 0 时仅失效用户列表键
func (svc *Service) invalidateNoteCache(id int64, uid int64) {
	if !svc.cacheEnabled() {
		return
	}
	keys := []string{cache.UserNotesKey(uid)}
	if id != 0 {
		keys = append(keys, cache.NoteKey(id))
	}
	svc.cache.Invalidate(svc.ctx, keys...)
}
