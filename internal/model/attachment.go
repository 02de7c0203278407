package model

import (
	"github.com/haierkeys/versioned-notes-service/pkg/timex"

	"gorm.io/gorm"
)

const TableNameAttachment = "attachment"

// Attachment mapped from table <attachment>
type Attachment struct {
	ID         int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id" form:"id"`
	NoteID     int64      `gorm:"column:note_id;not null;index:idx_attachment_note" json:"noteId" form:"noteId"`
	UID        int64      `gorm:"column:uid;not null;index:idx_attachment_uid" json:"uid" form:"uid"`
	FileName   string     `gorm:"column:file_name;not null" json:"fileName" form:"fileName"`
	StoredName string     `gorm:"column:stored_name;not null" json:"-" form:"-"`
	MimeType   string     `gorm:"column:mime_type;not null" json:"mimeType" form:"mimeType"`
	Size       int64      `gorm:"column:size;not null" json:"size" form:"size"`
	CreatedAt  timex.Time     `gorm:"column:created_at;type:datetime;default:NULL;autoCreateTime:false" json:"createdAt" form:"createdAt"`
	DeletedAt  gorm.DeletedAt `gorm:"column:deleted_at;index:idx_attachment_deleted" json:"-" form:"-"`
}

// TableName Attachment's table name
func (*Attachment) TableName() string {
	return TableNameAttachment
}
