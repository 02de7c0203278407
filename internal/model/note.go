package model

import (
	"github.com/haierkeys/versioned-notes-service/pkg/timex"

	"gorm.io/gorm"
)

const TableNameNote = "note"

// Note mapped from table <note>
// Title 与 Content 始终等于最新 NoteVersion 的内容，Version 为当前版本号
type Note struct {
	ID        int64          `gorm:"column:id;primaryKey;autoIncrement" json:"id" form:"id"`
	UID       int64          `gorm:"column:uid;not null;index:idx_note_uid" json:"uid" form:"uid"`
	Title     string         `gorm:"column:title;not null" json:"title" form:"title"`
	Content   string         `gorm:"column:content;type:text" json:"content" form:"content"`
	Version   int64          `gorm:"column:version;not null;default:1" json:"version" form:"version"`
	CreatedAt timex.Time     `gorm:"column:created_at;type:datetime;default:NULL;autoCreateTime:false" json:"createdAt" form:"createdAt"`
	UpdatedAt timex.Time     `gorm:"column:updated_at;type:datetime;default:NULL;autoUpdateTime:false" json:"updatedAt" form:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index:idx_note_deleted" json:"-" form:"-"`

	Versions    []NoteVersion `gorm:"foreignKey:NoteID;constraint:OnDelete:CASCADE" json:"-"`
	Attachments []Attachment  `gorm:"foreignKey:NoteID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName Note's table name
func (*Note) TableName() string {
	return TableNameNote
}
