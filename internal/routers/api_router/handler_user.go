package api_router

import (
	"github.com/haierkeys/versioned-notes-service/internal/app"
	"github.com/haierkeys/versioned-notes-service/internal/service"
	pkgapp "github.com/haierkeys/versioned-notes-service/pkg/app"
	"github.com/haierkeys/versioned-notes-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// UserHandler 用户 API 路由处理器
// 使用 App Container 注入依赖，支持统一错误处理
type UserHandler struct {
	*Handler
}

// NewUserHandler 创建 UserHandler 实例
func NewUserHandler(a *app.App) *UserHandler {
	return &UserHandler{Handler: NewHandler(a)}
}

// Register user registration
// @Summary User registration
// @Description 处理用户注册 HTTP 请求，验证参数并调用 UserService。注册功能可能在服务器设置中被禁用。
// @Tags User
// @Accept json
// @Produce json
// @Param params body service.UserRegisterRequestParams true "Register Parameters"
// @Success 200 {object} pkgapp.Res{data=service.UserWithToken} "Success"
// @Failure 400 {object} pkgapp.Res "Invalid Parameters / Registration Disabled / User Already Exists"
// @Router /api/user/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &service.UserRegisterRequestParams{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.respondInvalidParams(c, "UserHandler.Register", errs)
		return
	}

	svc := h.App.Service(c.Request.Context())
	result, err := svc.UserRegister(params, pkgapp.GetRequestIP(c))
	if err != nil {
		h.respondError(c, "UserHandler.Register", err)
		return
	}

	response.ToResponse(code.SuccessCreated.Clone().WithData(result))
}

// Login user login
// @Summary User login
// @Description 处理用户登录 HTTP 请求，验证参数并返回认证 Token 与刷新 Token。
// @Tags User
// @Accept json
// @Produce json
// @Param params body service.UserLoginRequestParams true "Login Parameters"
// @Success 200 {object} pkgapp.Res{data=service.UserWithToken} "Success"
// @Failure 400 {object} pkgapp.Res "Invalid Parameters / User Not Found / Password Incorrect"
// @Router /api/user/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &service.UserLoginRequestParams{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.respondInvalidParams(c, "UserHandler.Login", errs)
		return
	}

	svc := h.App.Service(c.Request.Context())
	result, err := svc.UserLogin(params, pkgapp.GetRequestIP(c))
	if err != nil {
		h.respondError(c, "UserHandler.Login", err)
		return
	}

	response.ToResponse(code.Success.Clone().WithData(result))
}

// Refresh exchanges a refresh token for a new token pair
// @Summary Refresh auth token
// @Description 使用一次性刷新 Token 换取新的认证 Token，旧刷新 Token 立即失效。
// @Tags User
// @Accept json
// @Produce json
// @Param params body service.UserRefreshRequestParams true "Refresh Parameters"
// @Success 200 {object} pkgapp.Res{data=service.UserWithToken} "Success"
// @Failure 401 {object} pkgapp.Res "Refresh Token Invalid"
// @Router /api/user/refresh [post]
func (h *UserHandler) Refresh(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &service.UserRefreshRequestParams{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.respondInvalidParams(c, "UserHandler.Refresh", errs)
		return
	}

	svc := h.App.Service(c.Request.Context())
	result, err := svc.UserTokenRefresh(params, pkgapp.GetRequestIP(c))
	if err != nil {
		h.respondError(c, "UserHandler.Refresh", err)
		return
	}

	response.ToResponse(code.Success.Clone().WithData(result))
}

// Logout revokes all refresh tokens of the current user
// @Summary User logout
// @Tags User
// @Produce json
// @Security ApiKeyAuth
// @Success 204 {object} pkgapp.Res "Success"
// @Router /api/user/logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	svc := h.App.Service(c.Request.Context())
	if err := svc.UserLogout(pkgapp.GetUID(c)); err != nil {
		h.respondError(c, "UserHandler.Logout", err)
		return
	}

	response.ToResponse(code.SuccessNoContent)
}

// Info returns the current user profile
// @Summary Current user info
// @Tags User
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} pkgapp.Res{data=service.User} "Success"
// @Router /api/user/info [get]
func (h *UserHandler) Info(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	svc := h.App.Service(c.Request.Context())
	user, err := svc.UserInfo(pkgapp.GetUID(c))
	if err != nil {
		h.respondError(c, "UserHandler.Info", err)
		return
	}

	response.ToResponse(code.Success.Clone().WithData(user))
}
