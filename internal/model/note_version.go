package model

import (
	"github.com/haierkeys/versioned-notes-service/pkg/timex"

	"gorm.io/gorm"
)

const TableNameNoteVersion = "note_version"

// NoteVersion mapped from table <note_version>
// 版本行只增不改，(note_id, version) 唯一
type NoteVersion struct {
	ID        int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id" form:"id"`
	NoteID    int64      `gorm:"column:note_id;not null;uniqueIndex:idx_note_version,priority:1" json:"noteId" form:"noteId"`
	Version   int64      `gorm:"column:version;not null;uniqueIndex:idx_note_version,priority:2" json:"version" form:"version"`
	Title     string     `gorm:"column:title;not null" json:"title" form:"title"`
	Content   string     `gorm:"column:content;type:text" json:"content" form:"content"`
	CreatedAt timex.Time     `gorm:"column:created_at;type:datetime;default:NULL;autoCreateTime:false" json:"createdAt" form:"createdAt"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index:idx_note_version_deleted" json:"-" form:"-"`
}

// TableName NoteVersion's table name
func (*NoteVersion) TableName() string {
	return TableNameNoteVersion
}
