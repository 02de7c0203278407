package api_router

import (
	"github.com/haierkeys/versioned-notes-service/internal/app"
	"github.com/haierkeys/versioned-notes-service/internal/service"
	pkgapp "github.com/haierkeys/versioned-notes-service/pkg/app"
	"github.com/haierkeys/versioned-notes-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// NoteHandler 笔记 API 路由处理器
type NoteHandler struct {
	*Handler
}

// NewNoteHandler 创建 NoteHandler 实例
func NewNoteHandler(a *app.App) *NoteHandler {
	return &NoteHandler{Handler: NewHandler(a)}
}

// Create creates a note with an initial version
// @Summary Create note
// @Description 创建笔记并生成初始版本 (version 1)。
// @Tags Note
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param params body service.NoteCreateRequestParams true "Note Parameters"
// @Success 201 {object} pkgapp.Res{data=service.Note} "Created"
// @Failure 400 {object} pkgapp.Res "Invalid Parameters"
// @Router /api/notes [post]
func (h *NoteHandler) Create(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &service.NoteCreateRequestParams{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.respondInvalidParams(c, "NoteHandler.Create", errs)
		return
	}

	svc := h.App.Service(c.Request.Context())
	note, err := svc.NoteCreate(pkgapp.GetUID(c), params)
	if err != nil {
		h.respondError(c, "NoteHandler.Create", err)
		return
	}

	response.ToResponse(code.SuccessCreated.Clone().WithData(note))
}

// Get returns a single note with content
// @Summary Get note
// @Tags Note
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Note ID"
// @Success 200 {object} pkgapp.Res{data=service.Note} "Success"
// @Failure 404 {object} pkgapp.Res "Note Not Found"
// @Router /api/notes/{id} [get]
func (h *NoteHandler) Get(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	id := paramID(c, "id")
	if id == 0 {
		response.ToResponse(code.ErrorNoteNotFound)
		return
	}

	svc := h.App.Service(c.Request.Context())
	note, err := svc.NoteGet(pkgapp.GetUID(c), id)
	if err != nil {
		h.respondError(c, "NoteHandler.Get", err)
		return
	}

	response.ToResponse(code.Success.Clone().WithData(note))
}

// List returns the user's notes, newest first, without content
// @Summary List notes
// @Tags Note
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "Page"
// @Param page_size query int false "Page Size"
// @Success 200 {object} pkgapp.ListRes{list=[]service.NoteNoContent} "Success"
// @Router /api/notes [get]
func (h *NoteHandler) List(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	svc := h.App.Service(c.Request.Context())
	list, total, err := svc.NoteList(pkgapp.GetUID(c), pkgapp.GetPage(c), h.pageSize(c))
	if err != nil {
		h.respondError(c, "NoteHandler.List", err)
		return
	}

	response.ToResponseList(code.Success, list, total)
}

// Update updates a note content under optimistic concurrency control
// @Summary Update note
// @Description 更新笔记，携带的 version 必须等于当前版本，否则返回冲突及服务端当前版本号。
// @Tags Note
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Note ID"
// @Param params body service.NoteUpdateRequestParams true "Update Parameters"
// @Success 200 {object} pkgapp.Res{data=service.Note} "Success"
// @Failure 404 {object} pkgapp.Res "Note Not Found"
// @Failure 409 {object} pkgapp.Res "Version Conflict"
// @Router /api/notes/{id} [put]
func (h *NoteHandler) Update(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &service.NoteUpdateRequestParams{}

	id := paramID(c, "id")
	if id == 0 {
		response.ToResponse(code.ErrorNoteNotFound)
		return
	}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.respondInvalidParams(c, "NoteHandler.Update", errs)
		return
	}

	svc := h.App.Service(c.Request.Context())
	note, err := svc.NoteUpdate(pkgapp.GetUID(c), id, params)
	if err != nil {
		h.respondError(c, "NoteHandler.Update", err)
		return
	}

	response.ToResponse(code.Success.Clone().WithData(note))
}

// Delete soft-deletes a note
// @Summary Delete note
// @Tags Note
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Note ID"
// @Success 204 {object} pkgapp.Res "Success"
// @Failure 404 {object} pkgapp.Res "Note Not Found"
// @Router /api/notes/{id} [delete]
func (h *NoteHandler) Delete(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	id := paramID(c, "id")
	if id == 0 {
		response.ToResponse(code.ErrorNoteNotFound)
		return
	}

	svc := h.App.Service(c.Request.Context())
	if err := svc.NoteDelete(pkgapp.GetUID(c), id); err != nil {
		h.respondError(c, "NoteHandler.Delete", err)
		return
	}

	response.ToResponse(code.SuccessNoContent)
}

// Search searches title and content of the user's notes
// @Summary Search notes
// @Tags Note
// @Produce json
// @Security ApiKeyAuth
// @Param q query string true "Keyword"
// @Param page query int false "Page"
// @Param page_size query int false "Page Size"
// @Success 200 {object} pkgapp.ListRes{list=[]service.NoteNoContent} "Success"
// @Router /api/notes/search [get]
func (h *NoteHandler) Search(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &service.NoteSearchRequestParams{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.respondInvalidParams(c, "NoteHandler.Search", errs)
		return
	}

	svc := h.App.Service(c.Request.Context())
	list, total, err := svc.NoteSearch(pkgapp.GetUID(c), params.Q, pkgapp.GetPage(c), h.pageSize(c))
	if err != nil {
		h.respondError(c, "NoteHandler.Search", err)
		return
	}

	response.ToResponseList(code.Success, list, total)
}

// Revert mints a new version from a historical version's content
// @Summary Revert note
// @Description 回滚到历史版本：以目标版本内容生成一个新版本，历史不被改写。
// @Tags Note
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Note ID"
// @Param params body service.NoteRevertRequestParams true "Revert Parameters"
// @Success 200 {object} pkgapp.Res{data=service.Note} "Success"
// @Failure 404 {object} pkgapp.Res "Note Not Found / Version Not Found"
// @Failure 409 {object} pkgapp.Res "Version Conflict"
// @Router /api/notes/{id}/revert [post]
func (h *NoteHandler) Revert(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &service.NoteRevertRequestParams{}

	id := paramID(c, "id")
	if id == 0 {
		response.ToResponse(code.ErrorNoteNotFound)
		return
	}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.respondInvalidParams(c, "NoteHandler.Revert", errs)
		return
	}

	svc := h.App.Service(c.Request.Context())
	note, err := svc.NoteRevert(pkgapp.GetUID(c), id, params)
	if err != nil {
		h.respondError(c, "NoteHandler.Revert", err)
		return
	}

	response.ToResponse(code.Success.Clone().WithData(note))
}
