package api_router

import (
	"fmt"
	"io"
	"net/http"

	"github.com/haierkeys/versioned-notes-service/internal/app"
	pkgapp "github.com/haierkeys/versioned-notes-service/pkg/app"
	"github.com/haierkeys/versioned-notes-service/pkg/code"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AttachmentHandler 附件 API 路由处理器
type AttachmentHandler struct {
	*Handler
}

// NewAttachmentHandler 创建 AttachmentHandler 实例
func NewAttachmentHandler(a *app.App) *AttachmentHandler {
	return &AttachmentHandler{Handler: NewHandler(a)}
}

// Upload uploads a file as multipart/form-data field "file"
// @Summary Upload attachment
// @Description 上传附件，受大小与 MIME 类型白名单限制，绑定到指定笔记。
// @Tags Attachment
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Note ID"
// @Param file formData file true "Attachment File"
// @Success 201 {object} pkgapp.Res{data=service.Attachment} "Created"
// @Failure 400 {object} pkgapp.Res "Upload Failed / Type Not Allowed"
// @Failure 404 {object} pkgapp.Res "Note Not Found"
// @Router /api/notes/{id}/attachments [post]
func (h *AttachmentHandler) Upload(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	noteID := paramID(c, "id")
	if noteID == 0 {
		response.ToResponse(code.ErrorNoteNotFound)
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		h.App.Logger().Error("AttachmentHandler.Upload.FormFile", zap.Error(err))
		response.ToResponse(code.ErrorInvalidParams.Clone().WithDetails("missing form file field"))
		return
	}

	svc := h.App.Service(c.Request.Context())
	attachment, err := svc.AttachmentUpload(pkgapp.GetUID(c), noteID, fh)
	if err != nil {
		h.respondError(c, "AttachmentHandler.Upload", err)
		return
	}

	response.ToResponse(code.SuccessCreated.Clone().WithData(attachment))
}

// List lists the attachments of a note
// @Summary List attachments
// @Tags Attachment
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Note ID"
// @Success 200 {object} pkgapp.Res{data=[]service.Attachment} "Success"
// @Failure 404 {object} pkgapp.Res "Note Not Found"
// @Router /api/notes/{id}/attachments [get]
func (h *AttachmentHandler) List(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	noteID := paramID(c, "id")
	if noteID == 0 {
		response.ToResponse(code.ErrorNoteNotFound)
		return
	}

	svc := h.App.Service(c.Request.Context())
	list, err := svc.AttachmentList(pkgapp.GetUID(c), noteID)
	if err != nil {
		h.respondError(c, "AttachmentHandler.List", err)
		return
	}

	response.ToResponse(code.Success.Clone().WithData(list))
}

// Download streams the attachment file back with its original filename
// @Summary Download attachment
// @Tags Attachment
// @Produce octet-stream
// @Security ApiKeyAuth
// @Param id path int true "Note ID"
// @Param attachment_id path int true "Attachment ID"
// @Success 200 {file} binary "Attachment Content"
// @Failure 404 {object} pkgapp.Res "Attachment Not Found"
// @Router /api/notes/{id}/attachments/{attachment_id} [get]
func (h *AttachmentHandler) Download(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	noteID := paramID(c, "id")
	attachmentID := paramID(c, "attachment_id")
	if noteID == 0 || attachmentID == 0 {
		response.ToResponse(code.ErrorAttachmentNotFound)
		return
	}

	svc := h.App.Service(c.Request.Context())
	attachment, file, err := svc.AttachmentDownload(pkgapp.GetUID(c), noteID, attachmentID)
	if err != nil {
		h.respondError(c, "AttachmentHandler.Download", err)
		return
	}
	defer file.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", attachment.FileName))
	c.Header("Content-Type", attachment.MimeType)
	c.Header("Content-Length", fmt.Sprintf("%d", attachment.Size))
	c.Status(http.StatusOK)

	if _, err := io.Copy(c.Writer, file); err != nil {
		h.logError(c.Request.Context(), "AttachmentHandler.Download.Copy", err)
	}
}

// Delete removes an attachment and its stored file
// @Summary Delete attachment
// @Tags Attachment
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Note ID"
// @Param attachment_id path int true "Attachment ID"
// @Success 204 {object} pkgapp.Res "Success"
// @Failure 404 {object} pkgapp.Res "Attachment Not Found"
// @Router /api/notes/{id}/attachments/{attachment_id} [delete]
func (h *AttachmentHandler) Delete(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	noteID := paramID(c, "id")
	attachmentID := paramID(c, "attachment_id")
	if noteID == 0 || attachmentID == 0 {
		response.ToResponse(code.ErrorAttachmentNotFound)
		return
	}

	svc := h.App.Service(c.Request.Context())
	if err := svc.AttachmentDelete(pkgapp.GetUID(c), noteID, attachmentID); err != nil {
		h.respondError(c, "AttachmentHandler.Delete", err)
		return
	}

	response.ToResponse(code.SuccessNoContent)
}
