package service

import (
	"time"

	"github.com/haierkeys/versioned-notes-service/internal/dao"
	"github.com/haierkeys/versioned-notes-service/pkg/code"
	"github.com/haierkeys/versioned-notes-service/pkg/convert"
	"github.com/haierkeys/versioned-notes-service/pkg/logger"
	"github.com/haierkeys/versioned-notes-service/pkg/timex"
	"github.com/haierkeys/versioned-notes-service/pkg/util"

	"go.uber.org/zap"
)

type User struct {
	UID       int64      `json:"uid" form:"uid"`           // 用户ID
	Email     string     `json:"email" form:"email"`       // 邮箱
	Nickname  string     `json:"nickname" form:"nickname"` // 昵称
	CreatedAt timex.Time `json:"createdAt"`                // 创建时间
}

// UserWithToken 登录 / 注册 / 刷新成功后的凭证响应
type UserWithToken struct {
	User         *User  `json:"user"`         // 用户信息
	Token        string `json:"token"`        // 访问令牌
	RefreshToken string `json:"refreshToken"` // 刷新令牌
}

type UserRegisterRequestParams struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,min=8,max=72"`
	Nickname string `json:"nickname" form:"nickname" binding:"max=64"`
}

type UserLoginRequestParams struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

type UserRefreshRequestParams struct {
	RefreshToken string `json:"refreshToken" form:"refreshToken" binding:"required"`
}

// UserRegister 注册新用户并签发令牌
func (svc *Service) UserRegister(params *UserRegisterRequestParams, ip string) (*UserWithToken, error) {
	if !svc.config.User.RegisterIsEnable {
		return nil, code.ErrorUserRegisterFailed
	}

	if _, err := svc.dao.UserGetByEmail(params.Email); err == nil {
		return nil, code.ErrorUserAlreadyExists
	} else if !dao.IsNotFound(err) {
		return nil, err
	}

	hash, err := util.GeneratePasswordHash(params.Password)
	if err != nil {
		return nil, err
	}

	user, err := svc.dao.UserCreate(&dao.UserSet{
		Email:    params.Email,
		Password: hash,
		Nickname: params.Nickname,
	})
	if err != nil {
		return nil, err
	}

	svc.logger.Info("user registered", zap.Int64(logger.FieldUID, user.UID))

	return svc.issueTokens(user, ip)
}

// UserLogin 校验邮箱密码并签发令牌
func (svc *Service) UserLogin(params *UserLoginRequestParams, ip string) (*UserWithToken, error) {
	user, err := svc.dao.UserGetByEmail(params.Email)
	if err != nil {
		if dao.IsNotFound(err) {
			return nil, code.ErrorUserNotFound
		}
		return nil, err
	}

	if !util.CheckPasswordHash(params.Password, user.Password) {
		return nil, code.ErrorUserPasswordIncorrect
	}

	return svc.issueTokens(user, ip)
}

// UserTokenRefresh 刷新访问令牌
// 刷新令牌一次性使用：校验通过后在事务中轮换，旧令牌立即作废
func (svc *Service) UserTokenRefresh(params *UserRefreshRequestParams, ip string) (*UserWithToken, error) {
	rt, err := svc.dao.RefreshTokenGet(params.RefreshToken)
	if err != nil {
		if dao.IsNotFound(err) {
			return nil, code.ErrorRefreshTokenInvalid
		}
		return nil, err
	}

	if rt.ExpiredAt.Time().Before(time.Now()) {
		_ = svc.dao.RefreshTokenDeleteByUID(rt.UID)
		return nil, code.ErrorRefreshTokenInvalid
	}

	user, err := svc.dao.UserGetByUID(rt.UID)
	if err != nil {
		return nil, code.ErrorRefreshTokenInvalid
	}

	newRefresh := util.GetRandomString(64)
	if _, err := svc.dao.RefreshTokenRotate(rt.Token, rt.UID, newRefresh, svc.config.Security.RefreshTokenExpiry); err != nil {
		// 并发使用同一刷新令牌时只有一个成功
		if dao.IsNotFound(err) {
			return nil, code.ErrorRefreshTokenInvalid
		}
		return nil, err
	}

	token, err := svc.tokenManager.Generate(user.UID, user.Email, ip)
	if err != nil {
		return nil, err
	}

	return &UserWithToken{
		User:         convert.StructAssign(user, &User{}).(*User),
		Token:        token,
		RefreshToken: newRefresh,
	}, nil
}

// UserLogout 登出，作废用户全部刷新令牌
func (svc *Service) UserLogout(uid int64) error {
	return svc.dao.RefreshTokenDeleteByUID(uid)
}

// UserInfo 获取当前用户信息
func (svc *Service) UserInfo(uid int64) (*User, error) {
	user, err := svc.dao.UserGetByUID(uid)
	if err != nil {
		if dao.IsNotFound(err) {
			return nil, code.ErrorUserNotFound
		}
		return nil, err
	}
	return convert.StructAssign(user, &User{}).(*User), nil
}

// issueTokens 签发访问令牌与刷新令牌
func (svc *Service) issueTokens(user *dao.User, ip string) (*UserWithToken, error) {
	token, err := svc.tokenManager.Generate(user.UID, user.Email, ip)
	if err != nil {
		return nil, err
	}

	refresh := util.GetRandomString(64)
	if _, err := svc.dao.RefreshTokenCreate(user.UID, refresh, svc.config.Security.RefreshTokenExpiry); err != nil {
		return nil, err
	}

	return &UserWithToken{
		User:         convert.StructAssign(user, &User{}).(*User),
		Token:        token,
		RefreshToken: refresh,
	}, nil
}
