package service

import (
	"fmt"
	"testing"

	"github.com/haierkeys/versioned-notes-service/pkg/code"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// 任意合法与非法写入序列下的版本链不变量：
// 版本号单调递增且连续，成功的写入数加 1 等于当前版本号，
// 历史版本一旦写入内容不再改变
func TestNoteVersionChainProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30

	properties := gopter.NewProperties(parameters)

	properties.Property("version chain stays contiguous and immutable", prop.ForAll(
		func(ops []int) bool {
			svc, _ := newTestService(t)
			uid := int64(1)

			note, err := svc.NoteCreate(uid, &NoteCreateRequestParams{Title: "p", Content: "c0"})
			if err != nil {
				return false
			}

			current := int64(1)
			written := map[int64]string{1: "c0"}

			for i, op := range ops {
				switch op % 3 {
				case 0: // 正确版本号更新
					content := fmt.Sprintf("c%d", i+1)
					res, err := svc.NoteUpdate(uid, note.ID, &NoteUpdateRequestParams{
						Title: strPtr("p"), Content: strPtr(content), Version: current,
					})
					if err != nil {
						return false
					}
					current = res.Version
					written[current] = content
				case 1: // 过期版本号更新必须冲突
					if current < 2 {
						continue
					}
					_, err := svc.NoteUpdate(uid, note.ID, &NoteUpdateRequestParams{
						Title: strPtr("p"), Content: strPtr("stale"), Version: current - 1,
					})
					if !code.ErrorNoteVersionConflict.Is(err) {
						return false
					}
				case 2: // 回退到任一历史版本
					target := int64(op%int(current)) + 1
					res, err := svc.NoteRevert(uid, note.ID, &NoteRevertRequestParams{Version: target, ExpectedVersion: current})
					if err != nil {
						return false
					}
					current = res.Version
					written[current] = written[target]
				}
			}

			// 当前版本与历史链一致
			got, err := svc.NoteGet(uid, note.ID)
			if err != nil || got.Version != current {
				return false
			}

			// 历史版本连续且内容与写入时一致
			for v := int64(1); v <= current; v++ {
				hv, err := svc.NoteVersionGet(uid, note.ID, v)
				if err != nil {
					return false
				}
				if hv.Content != written[v] {
					return false
				}
			}

			// 不存在超出当前版本的记录
			_, err = svc.NoteVersionGet(uid, note.ID, current+1)
			return code.ErrorVersionNotFound.Is(err)
		},
		gen.SliceOf(gen.IntRange(0, 29)),
	))

	properties.TestingRun(t)
}
