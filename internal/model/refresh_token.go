package model

import (
	"github.com/haierkeys/versioned-notes-service/pkg/timex"
)

const TableNameRefreshToken = "refresh_token"

// RefreshToken mapped from table <refresh_token>
// 刷新令牌每次使用后轮换，旧令牌立即作废
type RefreshToken struct {
	ID        int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id" form:"id"`
	UID       int64      `gorm:"column:uid;not null;index:idx_refresh_uid" json:"uid" form:"uid"`
	Token     string     `gorm:"column:token;not null;uniqueIndex:idx_refresh_token" json:"token" form:"token"`
	ExpiredAt timex.Time `gorm:"column:expired_at;type:datetime;default:NULL" json:"expiredAt" form:"expiredAt"`
	CreatedAt timex.Time `gorm:"column:created_at;type:datetime;default:NULL;autoCreateTime:false" json:"createdAt" form:"createdAt"`
}

// TableName RefreshToken's table name
func (*RefreshToken) TableName() string {
	return TableNameRefreshToken
}
