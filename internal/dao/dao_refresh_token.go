package dao

import (
	"time"

	"github.com/haierkeys/versioned-notes-service/internal/model"
	"github.com/haierkeys/versioned-notes-service/pkg/convert"
	"github.com/haierkeys/versioned-notes-service/pkg/timex"
)

type RefreshToken struct {
	ID        int64      `json:"id" form:"id"`               // ID
	UID       int64      `json:"uid" form:"uid"`             // 用户ID
	Token     string     `json:"token" form:"token"`         // 令牌
	ExpiredAt timex.Time `json:"expiredAt" form:"expiredAt"` // 过期时间
	CreatedAt timex.Time `json:"createdAt" form:"createdAt"` // 创建时间
}

// RefreshTokenCreate 签发刷新令牌
func (d *Dao) RefreshTokenCreate(uid int64, token string, expiry time.Duration) (*RefreshToken, error) {
	m := &model.RefreshToken{
		UID:       uid,
		Token:     token,
		ExpiredAt: timex.Time(time.Now().Add(expiry)),
		CreatedAt: timex.Now(),
	}
	if err := d.db.WithContext(d.ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return convert.StructAssign(m, &RefreshToken{}).(*RefreshToken), nil
}

// RefreshTokenGet 根据令牌值获取刷新令牌
func (d *Dao) RefreshTokenGet(token string) (*RefreshToken, error) {
	var m model.RefreshToken
	err := d.db.WithContext(d.ctx).Where("token = ?", token).First(&m).Error
	if err != nil {
		return nil, err
	}
	return convert.StructAssign(&m, &RefreshToken{}).(*RefreshToken), nil
}

// RefreshTokenRotate 轮换刷新令牌
// 函数使用说明: 事务内删除旧令牌并签发新令牌，旧令牌删除失败则整体回滚，
// 防止同一旧令牌被并发使用两次。
func (d *Dao) RefreshTokenRotate(oldToken string, uid int64, newToken string, expiry time.Duration) (*RefreshToken, error) {
	var res *RefreshToken

	err := d.Transaction(func(tx *Dao) error {
		del := tx.db.WithContext(tx.ctx).
			Where("token = ? AND uid = ?", oldToken, uid).
			Delete(&model.RefreshToken{})
		if del.Error != nil {
			return del.Error
		}
		if del.RowsAffected == 0 {
			return ErrNotFound
		}

		m := &model.RefreshToken{
			UID:       uid,
			Token:     newToken,
			ExpiredAt: timex.Time(time.Now().Add(expiry)),
			CreatedAt: timex.Now(),
		}
		if err := tx.db.WithContext(tx.ctx).Create(m).Error; err != nil {
			return err
		}
		res = convert.StructAssign(m, &RefreshToken{}).(*RefreshToken)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// RefreshTokenDeleteByUID 删除用户的全部刷新令牌（登出）
func (d *Dao) RefreshTokenDeleteByUID(uid int64) error {
	return d.db.WithContext(d.ctx).
		Where("uid = ?", uid).
		Delete(&model.RefreshToken{}).Error
}

// RefreshTokenPurgeExpired 清理已过期的刷新令牌，返回清理数量
func (d *Dao) RefreshTokenPurgeExpired() (int64, error) {
	res := d.db.WithContext(d.ctx).
		Where("expired_at < ?", time.Now()).
		Delete(&model.RefreshToken{})
	return res.RowsAffected, res.Error
}
