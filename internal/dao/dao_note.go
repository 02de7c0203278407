package dao

import (
	"fmt"

	"github.com/haierkeys/versioned-notes-service/internal/model"
	"github.com/haierkeys/versioned-notes-service/pkg/convert"
	"github.com/haierkeys/versioned-notes-service/pkg/timex"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Note struct {
	ID        int64      `json:"id" form:"id"`               // ID
	UID       int64      `json:"uid" form:"uid"`             // 用户ID
	Title     string     `json:"title" form:"title"`         // 标题
	Content   string     `json:"content" form:"content"`     // 内容
	Version   int64      `json:"version" form:"version"`     // 当前版本号
	CreatedAt timex.Time `json:"createdAt" form:"createdAt"` // 创建时间
	UpdatedAt timex.Time `json:"updatedAt" form:"updatedAt"` // 更新时间

	Versions    []*NoteVersion `json:"versions,omitempty"`    // 版本历史，版本号降序，仅详情读填充
	Attachments []*Attachment  `json:"attachments,omitempty"` // 附件元数据，仅详情读填充
}

type NoteSet struct {
	Title   string `json:"title" form:"title"`     // 标题
	Content string `json:"content" form:"content"` // 内容
}

// NoteUpdateSet 更新参数，nil 字段表示保留当前值
type NoteUpdateSet struct {
	Title               *string // 标题
	Content             *string // 内容
	AttachmentsToDelete []int64 // 同事务内删除的附件ID列表
}

// VersionConflictError 版本号不匹配时返回，携带当前版本号
type VersionConflictError struct {
	CurrentVersion int64
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("version conflict, current version is %d", e.CurrentVersion)
}

// NoteCreate 创建笔记记录
// 函数名: NoteCreate
// 函数使用说明: 在事务中创建笔记及其第 1 个版本记录。
// 参数说明:
//   - params *NoteSet: 笔记创建参数
//   - uid int64: 用户ID
//
// 返回值说明:
//   - *Note: 创建后的笔记数据
//   - error: 出错时返回错误
func (d *Dao) NoteCreate(params *NoteSet, uid int64) (*Note, error) {
	m := convert.StructAssign(params, &model.Note{}).(*model.Note)
	m.UID = uid
	m.Version = 1
	m.CreatedAt = timex.Now()
	m.UpdatedAt = timex.Now()

	err := d.Transaction(func(tx *Dao) error {
		if err := tx.db.WithContext(tx.ctx).Create(m).Error; err != nil {
			return err
		}
		return tx.versionAppend(m.ID, 1, params.Title, params.Content)
	})
	if err != nil {
		return nil, err
	}

	return convert.StructAssign(m, &Note{}).(*Note), nil
}

// NoteGet 根据ID获取笔记（校验归属用户）
func (d *Dao) NoteGet(id int64, uid int64) (*Note, error) {
	var m model.Note
	err := d.db.WithContext(d.ctx).
		Where("id = ? AND uid = ?", id, uid).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return convert.StructAssign(&m, &Note{}).(*Note), nil
}

// NoteGetWithHistory 获取笔记详情快照：笔记本体、全部版本（版本号降序）与附件元数据
func (d *Dao) NoteGetWithHistory(id int64, uid int64) (*Note, error) {
	var m model.Note
	err := d.db.WithContext(d.ctx).
		Preload("Versions", func(db *gorm.DB) *gorm.DB {
			return db.Order("version DESC")
		}).
		Preload("Attachments").
		Where("id = ? AND uid = ?", id, uid).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return convert.StructAssign(&m, &Note{}).(*Note), nil
}

// noteGetForUpdate 在事务内加行锁获取笔记
// 仅在数据库支持 FOR UPDATE 时加锁
func (tx *Dao) noteGetForUpdate(id int64, uid int64) (*model.Note, error) {
	var m model.Note
	q := tx.db.WithContext(tx.ctx)
	if tx.SupportsRowLock() {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := q.Where("id = ? AND uid = ?", id, uid).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// NoteUpdate 更新笔记记录
// 函数名: NoteUpdate
// 函数使用说明: 乐观并发更新。事务内锁定笔记行，校验 baseVersion 与当前版本一致，
// 一致则追加新版本记录并同步笔记当前内容，不一致返回 VersionConflictError。
// nil 的 Title/Content 保留锁定行的当前值；AttachmentsToDelete 在同一事务内删除，
// 任一附件ID不属于该笔记则整个事务回滚。
// 参数说明:
//   - params *NoteUpdateSet: 笔记更新参数
//   - id int64: 笔记ID
//   - uid int64: 用户ID
//   - baseVersion int64: 客户端持有的版本号
//
// 返回值说明:
//   - *Note: 更新后的笔记数据
//   - []string: 被删除附件的存储文件名，供调用方清理磁盘文件
//   - error: 版本冲突时返回 *VersionConflictError
func (d *Dao) NoteUpdate(params *NoteUpdateSet, id int64, uid int64, baseVersion int64) (*Note, []string, error) {
	var m *model.Note
	var storedNames []string

	err := d.Transaction(func(tx *Dao) error {
		var err error
		m, err = tx.noteGetForUpdate(id, uid)
		if err != nil {
			return err
		}
		if m.Version != baseVersion {
			return &VersionConflictError{CurrentVersion: m.Version}
		}

		newTitle := m.Title
		newContent := m.Content
		if params.Title != nil {
			newTitle = *params.Title
		}
		if params.Content != nil {
			newContent = *params.Content
		}

		for _, attID := range params.AttachmentsToDelete {
			var att model.Attachment
			if err := tx.db.WithContext(tx.ctx).
				Where("id = ? AND note_id = ?", attID, id).
				First(&att).Error; err != nil {
				if IsNotFound(err) {
					return ErrAttachmentNotFound
				}
				return err
			}
			if err := tx.db.WithContext(tx.ctx).Delete(&att).Error; err != nil {
				return err
			}
			storedNames = append(storedNames, att.StoredName)
		}

		nextVersion := m.Version + 1
		if err := tx.versionAppend(m.ID, nextVersion, newTitle, newContent); err != nil {
			return err
		}

		m.Title = newTitle
		m.Content = newContent
		m.Version = nextVersion
		m.UpdatedAt = timex.Now()
		return tx.db.WithContext(tx.ctx).
			Model(&model.Note{}).
			Where("id = ?", m.ID).
			Updates(map[string]interface{}{
				"title":      m.Title,
				"content":    m.Content,
				"version":    m.Version,
				"updated_at": m.UpdatedAt,
			}).Error
	})
	if err != nil {
		return nil, nil, err
	}

	return convert.StructAssign(m, &Note{}).(*Note), storedNames, nil
}

// NoteRevert 回退笔记到指定历史版本
// 回退不是删除历史，而是以目标版本内容铸造一个新版本。
// 回退同样走乐观并发校验：baseVersion 与当前版本不一致时返回 VersionConflictError，
// 目标版本不存在优先于版本冲突报告
func (d *Dao) NoteRevert(id int64, uid int64, targetVersion int64, baseVersion int64) (*Note, error) {
	var m *model.Note

	err := d.Transaction(func(tx *Dao) error {
		var err error
		m, err = tx.noteGetForUpdate(id, uid)
		if err != nil {
			return err
		}

		var target model.NoteVersion
		err = tx.db.WithContext(tx.ctx).
			Where("note_id = ? AND version = ?", id, targetVersion).
			First(&target).Error
		if err != nil {
			// 与笔记不存在区分开，上层各报各的 404
			if IsNotFound(err) {
				return ErrVersionNotFound
			}
			return err
		}

		if m.Version != baseVersion {
			return &VersionConflictError{CurrentVersion: m.Version}
		}

		nextVersion := m.Version + 1
		if err := tx.versionAppend(m.ID, nextVersion, target.Title, target.Content); err != nil {
			return err
		}

		m.Title = target.Title
		m.Content = target.Content
		m.Version = nextVersion
		m.UpdatedAt = timex.Now()
		return tx.db.WithContext(tx.ctx).
			Model(&model.Note{}).
			Where("id = ?", m.ID).
			Updates(map[string]interface{}{
				"title":      m.Title,
				"content":    m.Content,
				"version":    m.Version,
				"updated_at": m.UpdatedAt,
			}).Error
	})
	if err != nil {
		return nil, err
	}

	return convert.StructAssign(m, &Note{}).(*Note), nil
}

// NoteList 分页获取用户笔记列表
func (d *Dao) NoteList(uid int64, page int, pageSize int) ([]*Note, int, error) {
	var count int64
	q := d.db.WithContext(d.ctx).Model(&model.Note{}).Where("uid = ?", uid)
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var list []*model.Note
	err := q.Order("updated_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&list).Error
	if err != nil {
		return nil, 0, err
	}

	var res []*Note
	for _, m := range list {
		res = append(res, convert.StructAssign(m, &Note{}).(*Note))
	}
	return res, int(count), nil
}

// NoteSearch 按关键字搜索用户笔记（标题或内容模糊匹配）
func (d *Dao) NoteSearch(uid int64, keyword string, page int, pageSize int) ([]*Note, int, error) {
	like := "%" + keyword + "%"
	q := d.db.WithContext(d.ctx).Model(&model.Note{}).
		Where("uid = ?", uid).
		Where("title LIKE ? OR content LIKE ?", like, like)

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var list []*model.Note
	err := q.Order("updated_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&list).Error
	if err != nil {
		return nil, 0, err
	}

	var res []*Note
	for _, m := range list {
		res = append(res, convert.StructAssign(m, &Note{}).(*Note))
	}
	return res, int(count), nil
}

// NoteSoftDelete 软删除笔记，历史版本保留到清理任务执行
func (d *Dao) NoteSoftDelete(id int64, uid int64) error {
	res := d.db.WithContext(d.ctx).
		Where("id = ? AND uid = ?", id, uid).
		Delete(&model.Note{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// NotePurgeDeletedBefore 物理删除软删除时间早于 t 的笔记及其版本与附件元数据
// 返回被清理的笔记数量与附件存储路径（由调用方删除文件）
func (d *Dao) NotePurgeDeletedBefore(t timex.Time) (int, []string, error) {
	var ids []int64
	err := d.db.WithContext(d.ctx).Unscoped().
		Model(&model.Note{}).
		Where("deleted_at IS NOT NULL AND deleted_at < ?", t.Time()).
		Pluck("id", &ids).Error
	if err != nil {
		return 0, nil, err
	}
	if len(ids) == 0 {
		return 0, nil, nil
	}

	var storedNames []string
	err = d.Transaction(func(tx *Dao) error {
		// 清理任务是唯一的物理删除入口，软删除过的行一并带走
		if err := tx.db.WithContext(tx.ctx).Unscoped().
			Model(&model.Attachment{}).
			Where("note_id IN ?", ids).
			Pluck("stored_name", &storedNames).Error; err != nil {
			return err
		}
		if err := tx.db.WithContext(tx.ctx).Unscoped().
			Where("note_id IN ?", ids).
			Delete(&model.Attachment{}).Error; err != nil {
			return err
		}
		if err := tx.db.WithContext(tx.ctx).Unscoped().
			Where("note_id IN ?", ids).
			Delete(&model.NoteVersion{}).Error; err != nil {
			return err
		}
		return tx.db.WithContext(tx.ctx).Unscoped().
			Where("id IN ?", ids).
			Delete(&model.Note{}).Error
	})
	if err != nil {
		return 0, nil, err
	}
	return len(ids), storedNames, nil
}
