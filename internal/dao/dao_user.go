package dao

import (
	"github.com/haierkeys/versioned-notes-service/internal/model"
	"github.com/haierkeys/versioned-notes-service/pkg/convert"
	"github.com/haierkeys/versioned-notes-service/pkg/timex"
)

type User struct {
	UID       int64      `json:"uid" form:"uid"`             // 用户ID
	Email     string     `json:"email" form:"email"`         // 邮箱
	Password  string     `json:"-" form:"-"`                 // 密码哈希
	Nickname  string     `json:"nickname" form:"nickname"`   // 昵称
	CreatedAt timex.Time `json:"createdAt" form:"createdAt"` // 创建时间
	UpdatedAt timex.Time `json:"updatedAt" form:"updatedAt"` // 更新时间
}

type UserSet struct {
	Email    string `json:"email" form:"email"`       // 邮箱
	Password string `json:"password" form:"password"` // 密码哈希
	Nickname string `json:"nickname" form:"nickname"` // 昵称
}

// UserCreate 创建用户
func (d *Dao) UserCreate(params *UserSet) (*User, error) {
	m := convert.StructAssign(params, &model.User{}).(*model.User)
	m.CreatedAt = timex.Now()
	m.UpdatedAt = timex.Now()

	if err := d.db.WithContext(d.ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return convert.StructAssign(m, &User{}).(*User), nil
}

// UserGetByEmail 根据邮箱获取用户
func (d *Dao) UserGetByEmail(email string) (*User, error) {
	var m model.User
	err := d.db.WithContext(d.ctx).Where("email = ?", email).First(&m).Error
	if err != nil {
		return nil, err
	}
	return convert.StructAssign(&m, &User{}).(*User), nil
}

// UserGetByUID 根据用户ID获取用户
func (d *Dao) UserGetByUID(uid int64) (*User, error) {
	var m model.User
	err := d.db.WithContext(d.ctx).Where("uid = ?", uid).First(&m).Error
	if err != nil {
		return nil, err
	}
	return convert.StructAssign(&m, &User{}).(*User), nil
}
