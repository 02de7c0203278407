package service

import (
	"mime/multipart"
	"os"

	"github.com/haierkeys/versioned-notes-service/internal/dao"
	"github.com/haierkeys/versioned-notes-service/pkg/code"
	"github.com/haierkeys/versioned-notes-service/pkg/convert"
	"github.com/haierkeys/versioned-notes-service/pkg/fileurl"
	"github.com/haierkeys/versioned-notes-service/pkg/logger"
	"github.com/haierkeys/versioned-notes-service/pkg/timex"

	"go.uber.org/zap"
)

type Attachment struct {
	ID        int64      `json:"id" form:"id"`             // ID
	NoteID    int64      `json:"noteId" form:"noteId"`     // 笔记ID
	FileName  string     `json:"fileName" form:"fileName"` // 原始文件名
	MimeType  string     `json:"mimeType" form:"mimeType"` // MIME 类型
	Size      int64      `json:"size" form:"size"`         // 大小（字节）
	CreatedAt timex.Time `json:"createdAt"`                // 创建时间
}

// AttachmentUpload 上传附件
// 文件先落盘再写元数据：元数据写入失败时删除已落盘文件，
// 避免数据库里出现指向不存在文件的记录
func (svc *Service) AttachmentUpload(uid int64, noteID int64, fh *multipart.FileHeader) (*Attachment, error) {
	if _, err := svc.dao.NoteGet(noteID, uid); err != nil {
		if dao.IsNotFound(err) {
			return nil, code.ErrorNoteNotFound
		}
		return nil, err
	}

	if svc.config.App.UploadMaxSize > 0 && fh.Size > svc.config.App.UploadMaxSize {
		return nil, code.ErrorAttachmentUploadFailed
	}

	mimeType := fh.Header.Get("Content-Type")
	if !svc.attachmentTypeAllowed(mimeType) {
		return nil, code.ErrorAttachmentTypeNotAllowed
	}

	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	storedName := fileurl.GetRandomFileName(fh.Filename)
	if _, err := svc.storage.Save(storedName, src); err != nil {
		return nil, err
	}

	meta, err := svc.dao.AttachmentCreate(&dao.AttachmentSet{
		NoteID:     noteID,
		FileName:   fh.Filename,
		StoredName: storedName,
		MimeType:   mimeType,
		Size:       fh.Size,
	}, uid)
	if err != nil {
		if derr := svc.storage.Delete(storedName); derr != nil {
			svc.logger.Warn("orphan attachment file cleanup failed",
				zap.String(logger.FieldPath, storedName), zap.Error(derr))
		}
		return nil, err
	}

	svc.invalidateNoteCache(noteID, uid)

	svc.logger.Info("attachment uploaded",
		zap.Int64(logger.FieldUID, uid),
		zap.Int64(logger.FieldNoteID, noteID),
		zap.Int64(logger.FieldAttachmentID, meta.ID),
		zap.Int64(logger.FieldSize, fh.Size))

	return convert.StructAssign(meta, &Attachment{}).(*Attachment), nil
}

// AttachmentList 获取笔记的附件列表
func (svc *Service) AttachmentList(uid int64, noteID int64) ([]*Attachment, error) {
	if _, err := svc.dao.NoteGet(noteID, uid); err != nil {
		if dao.IsNotFound(err) {
			return nil, code.ErrorNoteNotFound
		}
		return nil, err
	}

	list, err := svc.dao.AttachmentList(noteID, uid)
	if err != nil {
		return nil, err
	}

	var res []*Attachment
	for _, a := range list {
		res = append(res, convert.StructAssign(a, &Attachment{}).(*Attachment))
	}
	return res, nil
}

// AttachmentDownload 打开附件内容用于下载，调用方负责关闭文件
func (svc *Service) AttachmentDownload(uid int64, noteID int64, id int64) (*Attachment, *os.File, error) {
	meta, err := svc.dao.AttachmentGet(id, noteID, uid)
	if err != nil {
		if dao.IsNotFound(err) {
			return nil, nil, code.ErrorAttachmentNotFound
		}
		return nil, nil, err
	}

	f, err := svc.storage.Open(meta.StoredName)
	if err != nil {
		return nil, nil, code.ErrorAttachmentNotFound
	}

	return convert.StructAssign(meta, &Attachment{}).(*Attachment), f, nil
}

// AttachmentDelete 删除附件元数据与文件
// 元数据删除后文件删除失败只告警，文件可由清理任务兜底
func (svc *Service) AttachmentDelete(uid int64, noteID int64, id int64) error {
	storedName, err := svc.dao.AttachmentDelete(id, noteID, uid)
	if err != nil {
		if dao.IsNotFound(err) {
			return code.ErrorAttachmentNotFound
		}
		return err
	}

	svc.invalidateNoteCache(noteID, uid)

	if err := svc.storage.Delete(storedName); err != nil {
		svc.logger.Warn("attachment file delete failed",
			zap.String(logger.FieldPath, storedName), zap.Error(err))
	}
	return nil
}

func (svc *Service) attachmentTypeAllowed(mimeType string) bool {
	if len(svc.config.App.UploadAllowedTypes) == 0 {
		return true
	}
	for _, t := range svc.config.App.UploadAllowedTypes {
		if t == mimeType {
			return true
		}
	}
	return false
}
