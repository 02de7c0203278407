package service

import (
	"testing"

	"github.com/haierkeys/versioned-notes-service/pkg/code"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRegisterAndLogin(t *testing.T) {
	svc, _ := newTestService(t)

	params := &UserRegisterRequestParams{
		Email:    "user@example.com",
		Password: "password123",
		Nickname: "tester",
	}

	res, err := svc.UserRegister(params, "127.0.0.1")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.NotEmpty(t, res.RefreshToken)
	assert.Equal(t, params.Email, res.User.Email)

	// 重复注册
	_, err = svc.UserRegister(params, "127.0.0.1")
	assert.True(t, code.ErrorUserAlreadyExists.Is(err))

	// 正确密码登录
	login, err := svc.UserLogin(&UserLoginRequestParams{Email: params.Email, Password: params.Password}, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, res.User.UID, login.User.UID)

	// 错误密码
	_, err = svc.UserLogin(&UserLoginRequestParams{Email: params.Email, Password: "wrong-password"}, "127.0.0.1")
	assert.True(t, code.ErrorUserPasswordIncorrect.Is(err))

	// 不存在的用户
	_, err = svc.UserLogin(&UserLoginRequestParams{Email: "nobody@example.com", Password: "x"}, "127.0.0.1")
	assert.True(t, code.ErrorUserNotFound.Is(err))
}

func TestUserRegisterDisabled(t *testing.T) {
	svc, _ := newTestService(t)
	svc.config.User.RegisterIsEnable = false

	_, err := svc.UserRegister(&UserRegisterRequestParams{
		Email:    "user@example.com",
		Password: "password123",
	}, "127.0.0.1")
	assert.True(t, code.ErrorUserRegisterFailed.Is(err))
}

func TestUserTokenRefreshRotation(t *testing.T) {
	svc, _ := newTestService(t)

	res, err := svc.UserRegister(&UserRegisterRequestParams{
		Email:    "user@example.com",
		Password: "password123",
	}, "127.0.0.1")
	require.NoError(t, err)

	refreshed, err := svc.UserTokenRefresh(&UserRefreshRequestParams{RefreshToken: res.RefreshToken}, "127.0.0.1")
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.Token)
	assert.NotEqual(t, res.RefreshToken, refreshed.RefreshToken)

	// 旧刷新令牌轮换后立即作废
	_, err = svc.UserTokenRefresh(&UserRefreshRequestParams{RefreshToken: res.RefreshToken}, "127.0.0.1")
	assert.True(t, code.ErrorRefreshTokenInvalid.Is(err))

	// 新令牌可用
	_, err = svc.UserTokenRefresh(&UserRefreshRequestParams{RefreshToken: refreshed.RefreshToken}, "127.0.0.1")
	require.NoError(t, err)
}

func TestUserLogoutInvalidatesRefreshTokens(t *testing.T) {
	svc, _ := newTestService(t)

	res, err := svc.UserRegister(&UserRegisterRequestParams{
		Email:    "user@example.com",
		Password: "password123",
	}, "127.0.0.1")
	require.NoError(t, err)

	require.NoError(t, svc.UserLogout(res.User.UID))

	_, err = svc.UserTokenRefresh(&UserRefreshRequestParams{RefreshToken: res.RefreshToken}, "127.0.0.1")
	assert.True(t, code.ErrorRefreshTokenInvalid.Is(err))
}
