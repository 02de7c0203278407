package service

import (
	"github.com/haierkeys/versioned-notes-service/internal/dao"
	"github.com/haierkeys/versioned-notes-service/pkg/code"
	"github.com/haierkeys/versioned-notes-service/pkg/convert"
	"github.com/haierkeys/versioned-notes-service/pkg/logger"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type NoteRevertRequestParams struct {
	Version         int64 `json:"version" form:"version" binding:"required,min=1"`                 // 回退目标版本号
	ExpectedVersion int64 `json:"expectedVersion" form:"expectedVersion" binding:"required,min=1"` // 客户端持有的当前版本号
}

// NoteRevert 回退笔记到指定历史版本
// 回退以目标版本内容铸造一个新版本，历史版本链保持完整，
// 回退后再次回退同样可行。回退与更新走同一套版本校验，
// expectedVersion 与当前版本不一致时返回冲突
func (svc *Service) NoteRevert(uid int64, id int64, params *NoteRevertRequestParams) (*Note, error) {
	if !svc.dao.SupportsRowLock() {
		noteLocks.Lock(id)
		defer noteLocks.Unlock(id)
	}

	note, err := svc.dao.NoteRevert(id, uid, params.Version, params.ExpectedVersion)
	if err != nil {
		if current, ok := dao.IsVersionConflict(err); ok {
			svc.logger.Info("note revert version conflict",
				zap.Int64(logger.FieldUID, uid),
				zap.Int64(logger.FieldNoteID, id),
				zap.Int64(logger.FieldVersion, current))
			return nil, code.ErrorNoteVersionConflict.Clone().WithData(map[string]int64{"currentVersion": current})
		}
		// 笔记与版本各报各的 404，事务内区分避免锁前探测的竞态
		if errors.Is(err, dao.ErrVersionNotFound) {
			return nil, code.ErrorVersionNotFound
		}
		if dao.IsNotFound(err) {
			return nil, code.ErrorNoteNotFound
		}
		return nil, err
	}

	svc.invalidateNoteCache(id, uid)

	svc.logger.Info("note reverted",
		zap.Int64(logger.FieldUID, uid),
		zap.Int64(logger.FieldNoteID, id),
		zap.Int64("targetVersion", params.Version),
		zap.Int64(logger.FieldVersion, note.Version))

	return convert.StructAssign(note, &Note{}).(*Note), nil
}
