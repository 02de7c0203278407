package dao

import (
	"github.com/haierkeys/versioned-notes-service/internal/model"
	"github.com/haierkeys/versioned-notes-service/pkg/convert"
	"github.com/haierkeys/versioned-notes-service/pkg/timex"
)

type Attachment struct {
	ID         int64      `json:"id" form:"id"`               // ID
	NoteID     int64      `json:"noteId" form:"noteId"`       // 笔记ID
	UID        int64      `json:"uid" form:"uid"`             // 用户ID
	FileName   string     `json:"fileName" form:"fileName"`   // 原始文件名
	StoredName string     `json:"-" form:"-"`                 // 存储文件名
	MimeType   string     `json:"mimeType" form:"mimeType"`   // MIME 类型
	Size       int64      `json:"size" form:"size"`           // 大小（字节）
	CreatedAt  timex.Time `json:"createdAt" form:"createdAt"` // 创建时间
}

type AttachmentSet struct {
	NoteID     int64  `json:"noteId" form:"noteId"`     // 笔记ID
	FileName   string `json:"fileName" form:"fileName"` // 原始文件名
	StoredName string `json:"storedName"`               // 存储文件名
	MimeType   string `json:"mimeType" form:"mimeType"` // MIME 类型
	Size       int64  `json:"size" form:"size"`         // 大小（字节）
}

// AttachmentCreate 创建附件元数据记录
func (d *Dao) AttachmentCreate(params *AttachmentSet, uid int64) (*Attachment, error) {
	m := convert.StructAssign(params, &model.Attachment{}).(*model.Attachment)
	m.UID = uid
	m.CreatedAt = timex.Now()

	if err := d.db.WithContext(d.ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return convert.StructAssign(m, &Attachment{}).(*Attachment), nil
}

// AttachmentGet 获取附件元数据（校验归属笔记与用户）
func (d *Dao) AttachmentGet(id int64, noteID int64, uid int64) (*Attachment, error) {
	var m model.Attachment
	err := d.db.WithContext(d.ctx).
		Where("id = ? AND note_id = ? AND uid = ?", id, noteID, uid).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return convert.StructAssign(&m, &Attachment{}).(*Attachment), nil
}

// AttachmentList 获取笔记的附件列表
func (d *Dao) AttachmentList(noteID int64, uid int64) ([]*Attachment, error) {
	var list []*model.Attachment
	err := d.db.WithContext(d.ctx).
		Where("note_id = ? AND uid = ?", noteID, uid).
		Order("id ASC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}

	var res []*Attachment
	for _, m := range list {
		res = append(res, convert.StructAssign(m, &Attachment{}).(*Attachment))
	}
	return res, nil
}

// AttachmentDelete 软删除附件元数据，物理删除由清理任务完成
// 返回存储文件名供调用方删除文件
func (d *Dao) AttachmentDelete(id int64, noteID int64, uid int64) (string, error) {
	a, err := d.AttachmentGet(id, noteID, uid)
	if err != nil {
		return "", err
	}

	res := d.db.WithContext(d.ctx).
		Where("id = ? AND note_id = ? AND uid = ?", id, noteID, uid).
		Delete(&model.Attachment{})
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected == 0 {
		return "", ErrNotFound
	}
	return a.StoredName, nil
}
