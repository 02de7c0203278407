package dao

import (
	"github.com/haierkeys/versioned-notes-service/internal/model"
	"github.com/haierkeys/versioned-notes-service/pkg/convert"
	"github.com/haierkeys/versioned-notes-service/pkg/timex"
)

type NoteVersion struct {
	ID        int64      `json:"id" form:"id"`               // ID
	NoteID    int64      `json:"noteId" form:"noteId"`       // 笔记ID
	Version   int64      `json:"version" form:"version"`     // 版本号
	Title     string     `json:"title" form:"title"`         // 标题
	Content   string     `json:"content" form:"content"`     // 内容
	CreatedAt timex.Time `json:"createdAt" form:"createdAt"` // 创建时间
}

// versionAppend 追加一条版本记录，仅在事务内调用
func (tx *Dao) versionAppend(noteID int64, version int64, title string, content string) error {
	v := &model.NoteVersion{
		NoteID:    noteID,
		Version:   version,
		Title:     title,
		Content:   content,
		CreatedAt: timex.Now(),
	}
	return tx.db.WithContext(tx.ctx).Create(v).Error
}

// NoteVersionList 分页获取笔记的历史版本，按版本号倒序
func (d *Dao) NoteVersionList(noteID int64, uid int64, page int, pageSize int) ([]*NoteVersion, int, error) {
	if _, err := d.NoteGet(noteID, uid); err != nil {
		return nil, 0, err
	}

	q := d.db.WithContext(d.ctx).Model(&model.NoteVersion{}).Where("note_id = ?", noteID)

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var list []*model.NoteVersion
	err := q.Order("version DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&list).Error
	if err != nil {
		return nil, 0, err
	}

	var res []*NoteVersion
	for _, m := range list {
		res = append(res, convert.StructAssign(m, &NoteVersion{}).(*NoteVersion))
	}
	return res, int(count), nil
}

// NoteVersionGet 获取笔记的指定版本
func (d *Dao) NoteVersionGet(noteID int64, version int64, uid int64) (*NoteVersion, error) {
	if _, err := d.NoteGet(noteID, uid); err != nil {
		return nil, err
	}

	var m model.NoteVersion
	err := d.db.WithContext(d.ctx).
		Where("note_id = ? AND version = ?", noteID, version).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return convert.StructAssign(&m, &NoteVersion{}).(*NoteVersion), nil
}
