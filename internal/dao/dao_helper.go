package dao

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ErrNotFound 统一的记录不存在错误
var ErrNotFound = gorm.ErrRecordNotFound

// ErrAttachmentNotFound 附件不存在或不属于目标笔记
var ErrAttachmentNotFound = errors.New("attachment not found")

// ErrVersionNotFound 目标版本不存在（笔记本身存在）
var ErrVersionNotFound = errors.New("note version not found")

// IsNotFound 判断是否为记录不存在错误
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsVersionConflict 判断是否为版本冲突错误，并返回当前版本号
func IsVersionConflict(err error) (int64, bool) {
	var vce *VersionConflictError
	if errors.As(err, &vce) {
		return vce.CurrentVersion, true
	}
	return 0, false
}
