// Package diff 提供笔记版本之间的文本差异计算
package diff

import (
	"github.com/sergi/go-diff/diffmatchpatch"
)

// BuildPatch returns a patch text that transforms old into new.
// BuildPatch 返回将 old 变换为 new 的补丁文本。
func BuildPatch(old, new string) string {
	dmp := diffmatchpatch.New()
	patches := dmp.PatchMake(old, new)
	return dmp.PatchToText(patches)
}

// ApplyPatch applies a patch text produced by BuildPatch to base.
// The second return value is false when any hunk failed to apply.
// ApplyPatch 将 BuildPatch 生成的补丁应用到 base，第二个返回值表示是否全部命中。
func ApplyPatch(base, patchText string) (string, bool) {
	dmp := diffmatchpatch.New()
	patches, err := dmp.PatchFromText(patchText)
	if err != nil {
		return base, false
	}
	result, applied := dmp.PatchApply(patches, base)
	for _, ok := range applied {
		if !ok {
			return result, false
		}
	}
	return result, true
}

// PrettyText renders a human-readable inline diff between two snapshots.
// PrettyText 渲染两个快照之间的行内可读差异。
func PrettyText(old, new string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(old, new, true)
	dmp.DiffCleanupSemantic(diffs)
	return dmp.DiffPrettyText(diffs)
}

// Counts returns the number of inserted and deleted characters between two
// snapshots.
// Counts 返回两个快照之间插入与删除的字符数。
func Counts(old, new string) (inserted int, deleted int) {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(old, new, true)
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			inserted += len([]rune(d.Text))
		case diffmatchpatch.DiffDelete:
			deleted += len([]rune(d.Text))
		}
	}
	return inserted, deleted
}
