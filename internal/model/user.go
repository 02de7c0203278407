package model

import (
	"github.com/haierkeys/versioned-notes-service/pkg/timex"

	"gorm.io/gorm"
)

const TableNameUser = "user"

// User mapped from table <user>
type User struct {
	UID       int64          `gorm:"column:uid;primaryKey;autoIncrement" json:"uid" form:"uid"`
	Email     string         `gorm:"column:email;not null;uniqueIndex:idx_email" json:"email" form:"email"`
	Password  string         `gorm:"column:password;not null" json:"-" form:"-"`
	Nickname  string         `gorm:"column:nickname" json:"nickname" form:"nickname"`
	CreatedAt timex.Time     `gorm:"column:created_at;type:datetime;default:NULL;autoCreateTime:false" json:"createdAt" form:"createdAt"`
	UpdatedAt timex.Time     `gorm:"column:updated_at;type:datetime;default:NULL;autoUpdateTime:false" json:"updatedAt" form:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index:idx_user_deleted" json:"-" form:"-"`
}

// TableName User's table name
func (*User) TableName() string {
	return TableNameUser
}
