package code

import "net/http"

// 成功码
var (
	Success = NewSuss(0, lang{
		en:    "Success",
		zh_cn: "成功",
	})
	SuccessCreated = NewSuss(1, lang{
		en:    "Created",
		zh_cn: "创建成功",
	}).WithStatusCode(http.StatusCreated)
	SuccessNoContent = NewSuss(2, lang{
		en:    "No Content",
		zh_cn: "无内容",
	}).WithStatusCode(http.StatusNoContent)
)

// 通用错误码
var (
	Failed = NewError(10000000, lang{
		en:    "Failed",
		zh_cn: "失败",
	}).WithStatusCode(http.StatusInternalServerError)
	ErrorServerInternal = NewError(10000001, lang{
		en:    "Internal server error",
		zh_cn: "服务内部错误",
	}).WithStatusCode(http.StatusInternalServerError)
	ErrorInvalidParams = NewError(10000002, lang{
		en:    "Invalid request parameters",
		zh_cn: "请求参数错误",
	}).WithStatusCode(http.StatusBadRequest)
	ErrorNotFoundAPI = NewError(10000003, lang{
		en:    "API not found",
		zh_cn: "接口不存在",
	}).WithStatusCode(http.StatusNotFound)
	ErrorTooManyRequests = NewError(10000004, lang{
		en:    "Too many requests",
		zh_cn: "请求过多",
	}).WithStatusCode(http.StatusTooManyRequests)
	ErrorNotUserAuthToken = NewError(10000005, lang{
		en:    "Auth token is missing",
		zh_cn: "缺少鉴权令牌",
	}).WithStatusCode(http.StatusUnauthorized)
	ErrorInvalidUserAuthToken = NewError(10000006, lang{
		en:    "Auth token is invalid",
		zh_cn: "鉴权令牌无效",
	}).WithStatusCode(http.StatusUnauthorized)
	ErrorStoreUnavailable = NewError(10000007, lang{
		en:    "Datastore temporarily unavailable",
		zh_cn: "数据存储暂时不可用",
	}).WithStatusCode(http.StatusServiceUnavailable)
)

// 用户模块错误码
var (
	ErrorUserRegisterFailed = NewError(20010001, lang{
		en:    "User registration failed",
		zh_cn: "用户注册失败",
	}).WithStatusCode(http.StatusBadRequest)
	ErrorUserAlreadyExists = NewError(20010002, lang{
		en:    "User already registered",
		zh_cn: "用户已注册",
	}).WithStatusCode(http.StatusBadRequest)
	ErrorUserNotFound = NewError(20010003, lang{
		en:    "User not found",
		zh_cn: "用户不存在",
	}).WithStatusCode(http.StatusNotFound)
	ErrorUserPasswordIncorrect = NewError(20010004, lang{
		en:    "Password incorrect",
		zh_cn: "密码错误",
	}).WithStatusCode(http.StatusBadRequest)
	ErrorUserLoginFailed = NewError(20010005, lang{
		en:    "Login failed",
		zh_cn: "登录失败",
	}).WithStatusCode(http.StatusInternalServerError)
	ErrorRefreshTokenInvalid = NewError(20010006, lang{
		en:    "Refresh token is invalid or expired",
		zh_cn: "刷新令牌无效或已过期",
	}).WithStatusCode(http.StatusUnauthorized)
)

// 笔记模块错误码
var (
	ErrorNoteCreateFailed = NewError(20020001, lang{
		en:    "Failed to create note",
		zh_cn: "创建笔记失败",
	}).WithStatusCode(http.StatusInternalServerError)
	ErrorNoteGetFailed = NewError(20020002, lang{
		en:    "Failed to fetch note",
		zh_cn: "获取笔记失败",
	}).WithStatusCode(http.StatusInternalServerError)
	ErrorNoteListFailed = NewError(20020003, lang{
		en:    "Failed to fetch notes",
		zh_cn: "获取笔记列表失败",
	}).WithStatusCode(http.StatusInternalServerError)
	ErrorNoteNotFound = NewError(20020004, lang{
		en:    "Note not found",
		zh_cn: "笔记不存在",
	}).WithStatusCode(http.StatusNotFound)
	ErrorNoteVersionConflict = NewError(20020005, lang{
		en:    "Conflict: note was modified since it was last read",
		zh_cn: "冲突：笔记已被其他请求修改",
	}).WithStatusCode(http.StatusConflict)
	ErrorNoteUpdateFailed = NewError(20020006, lang{
		en:    "Failed to update note",
		zh_cn: "更新笔记失败",
	}).WithStatusCode(http.StatusInternalServerError)
	ErrorNoteDeleteFailed = NewError(20020007, lang{
		en:    "Failed to delete note",
		zh_cn: "删除笔记失败",
	}).WithStatusCode(http.StatusInternalServerError)
	ErrorNoteSearchFailed = NewError(20020008, lang{
		en:    "Search failed",
		zh_cn: "搜索失败",
	}).WithStatusCode(http.StatusInternalServerError)
)

// 版本历史模块错误码
var (
	ErrorVersionNotFound = NewError(20030001, lang{
		en:    "Target version not found",
		zh_cn: "目标版本不存在",
	}).WithStatusCode(http.StatusNotFound)
	ErrorNoteRevertFailed = NewError(20030002, lang{
		en:    "Failed to revert note",
		zh_cn: "回退笔记失败",
	}).WithStatusCode(http.StatusInternalServerError)
	ErrorVersionDiffFailed = NewError(20030003, lang{
		en:    "Failed to build version diff",
		zh_cn: "生成版本差异失败",
	}).WithStatusCode(http.StatusInternalServerError)
)

// 附件模块错误码
var (
	ErrorAttachmentNotFound = NewError(20040001, lang{
		en:    "Attachment not found",
		zh_cn: "附件不存在",
	}).WithStatusCode(http.StatusNotFound)
	ErrorAttachmentUploadFailed = NewError(20040002, lang{
		en:    "Failed to upload attachment",
		zh_cn: "上传附件失败",
	}).WithStatusCode(http.StatusInternalServerError)
	ErrorAttachmentDeleteFailed = NewError(20040003, lang{
		en:    "Failed to delete attachment",
		zh_cn: "删除附件失败",
	}).WithStatusCode(http.StatusInternalServerError)
	ErrorAttachmentTypeNotAllowed = NewError(20040004, lang{
		en:    "Attachment type not allowed",
		zh_cn: "附件类型不允许",
	}).WithStatusCode(http.StatusBadRequest)
)
