package api_router

import (
	"github.com/haierkeys/versioned-notes-service/internal/app"
	"github.com/haierkeys/versioned-notes-service/internal/service"
	pkgapp "github.com/haierkeys/versioned-notes-service/pkg/app"
	"github.com/haierkeys/versioned-notes-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// VersionHandler 笔记版本历史 API 路由处理器
type VersionHandler struct {
	*Handler
}

// NewVersionHandler 创建 VersionHandler 实例
func NewVersionHandler(a *app.App) *VersionHandler {
	return &VersionHandler{Handler: NewHandler(a)}
}

// List returns the version history of a note, newest first, without content
// @Summary List note versions
// @Tags Version
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Note ID"
// @Param page query int false "Page"
// @Param page_size query int false "Page Size"
// @Success 200 {object} pkgapp.ListRes{list=[]service.NoteVersionNoContent} "Success"
// @Failure 404 {object} pkgapp.Res "Note Not Found"
// @Router /api/notes/{id}/versions [get]
func (h *VersionHandler) List(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	id := paramID(c, "id")
	if id == 0 {
		response.ToResponse(code.ErrorNoteNotFound)
		return
	}

	svc := h.App.Service(c.Request.Context())
	list, total, err := svc.NoteVersionList(pkgapp.GetUID(c), id, pkgapp.GetPage(c), h.pageSize(c))
	if err != nil {
		h.respondError(c, "VersionHandler.List", err)
		return
	}

	response.ToResponseList(code.Success, list, total)
}

// Get returns a single historical version with content
// @Summary Get note version
// @Tags Version
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Note ID"
// @Param version path int true "Version Number"
// @Success 200 {object} pkgapp.Res{data=service.NoteVersion} "Success"
// @Failure 404 {object} pkgapp.Res "Note Not Found / Version Not Found"
// @Router /api/notes/{id}/versions/{version} [get]
func (h *VersionHandler) Get(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	id := paramID(c, "id")
	version := paramID(c, "version")
	if id == 0 {
		response.ToResponse(code.ErrorNoteNotFound)
		return
	}
	if version == 0 {
		response.ToResponse(code.ErrorVersionNotFound)
		return
	}

	svc := h.App.Service(c.Request.Context())
	nv, err := svc.NoteVersionGet(pkgapp.GetUID(c), id, version)
	if err != nil {
		h.respondError(c, "VersionHandler.Get", err)
		return
	}

	response.ToResponse(code.Success.Clone().WithData(nv))
}

// Diff returns a line based diff between two versions of a note
// @Summary Diff note versions
// @Description 比较同一笔记的两个历史版本，返回补丁文本及增删行数统计。
// @Tags Version
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Note ID"
// @Param from query int true "From Version"
// @Param to query int true "To Version"
// @Success 200 {object} pkgapp.Res{data=service.VersionDiff} "Success"
// @Failure 404 {object} pkgapp.Res "Note Not Found / Version Not Found"
// @Router /api/notes/{id}/versions/diff [get]
func (h *VersionHandler) Diff(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &service.VersionDiffRequestParams{}

	id := paramID(c, "id")
	if id == 0 {
		response.ToResponse(code.ErrorNoteNotFound)
		return
	}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.respondInvalidParams(c, "VersionHandler.Diff", errs)
		return
	}

	svc := h.App.Service(c.Request.Context())
	diff, err := svc.NoteVersionDiff(pkgapp.GetUID(c), id, params)
	if err != nil {
		h.respondError(c, "VersionHandler.Diff", err)
		return
	}

	response.ToResponse(code.Success.Clone().WithData(diff))
}
