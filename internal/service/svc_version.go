package service

import (
	"github.com/haierkeys/versioned-notes-service/internal/dao"
	"github.com/haierkeys/versioned-notes-service/pkg/code"
	"github.com/haierkeys/versioned-notes-service/pkg/convert"
	"github.com/haierkeys/versioned-notes-service/pkg/diff"
	"github.com/haierkeys/versioned-notes-service/pkg/timex"
)

type NoteVersion struct {
	NoteID    int64      `json:"noteId" form:"noteId"`   // 笔记ID
	Version   int64      `json:"version" form:"version"` // 版本号
	Title     string     `json:"title" form:"title"`     // 标题
	Content   string     `json:"content" form:"content"` // 内容
	CreatedAt timex.Time `json:"createdAt"`              // 创建时间
}

type NoteVersionNoContent struct {
	NoteID    int64      `json:"noteId" form:"noteId"`   // 笔记ID
	Version   int64      `json:"version" form:"version"` // 版本号
	Title     string     `json:"title" form:"title"`     // 标题
	CreatedAt timex.Time `json:"createdAt"`              // 创建时间
}

type VersionDiffRequestParams struct {
	From int64 `json:"from" form:"from" binding:"required,min=1"` // 对比起始版本
	To   int64 `json:"to" form:"to" binding:"required,min=1"`     // 对比目标版本
}

// VersionDiff 两个历史版本之间的内容差异
type VersionDiff struct {
	NoteID   int64  `json:"noteId"`   // 笔记ID
	From     int64  `json:"from"`     // 起始版本
	To       int64  `json:"to"`       // 目标版本
	Patch    string `json:"patch"`    // 统一格式补丁文本
	Pretty   string `json:"pretty"`   // 可读差异文本
	Inserted int    `json:"inserted"` // 新增字符数
	Deleted  int    `json:"deleted"`  // 删除字符数
}

// NoteVersionList 分页获取笔记的历史版本列表，按版本号倒序，不含内容
func (svc *Service) NoteVersionList(uid int64, noteID int64, page int, pageSize int) ([]*NoteVersionNoContent, int, error) {
	list, total, err := svc.dao.NoteVersionList(noteID, uid, page, pageSize)
	if err != nil {
		if dao.IsNotFound(err) {
			return nil, 0, code.ErrorNoteNotFound
		}
		return nil, 0, err
	}

	var res []*NoteVersionNoContent
	for _, v := range list {
		res = append(res, convert.StructAssign(v, &NoteVersionNoContent{}).(*NoteVersionNoContent))
	}
	return res, total, nil
}

// NoteVersionGet 获取笔记的指定历史版本，含完整内容
func (svc *Service) NoteVersionGet(uid int64, noteID int64, version int64) (*NoteVersion, error) {
	v, err := svc.dao.NoteVersionGet(noteID, version, uid)
	if err != nil {
		if dao.IsNotFound(err) {
			// 笔记本身不存在与版本不存在都归入版本不存在之前先区分
			if _, nerr := svc.dao.NoteGet(noteID, uid); nerr != nil {
				return nil, code.ErrorNoteNotFound
			}
			return nil, code.ErrorVersionNotFound
		}
		return nil, err
	}
	return convert.StructAssign(v, &NoteVersion{}).(*NoteVersion), nil
}

// NoteVersionDiff 计算两个历史版本之间的内容差异
func (svc *Service) NoteVersionDiff(uid int64, noteID int64, params *VersionDiffRequestParams) (*VersionDiff, error) {
	from, err := svc.NoteVersionGet(uid, noteID, params.From)
	if err != nil {
		return nil, err
	}
	to, err := svc.NoteVersionGet(uid, noteID, params.To)
	if err != nil {
		return nil, err
	}

	inserted, deleted := diff.Counts(from.Content, to.Content)

	return &VersionDiff{
		NoteID:   noteID,
		From:     params.From,
		To:       params.To,
		Patch:    diff.BuildPatch(from.Content, to.Content),
		Pretty:   diff.PrettyText(from.Content, to.Content),
		Inserted: inserted,
		Deleted:  deleted,
	}, nil
}
