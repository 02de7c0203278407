package diff

import (
	"strings"
	"testing"
)

func TestBuildAndApplyPatch(t *testing.T) {
	old := "Meeting notes\n- review roadmap\n- assign owners\n"
	new := "Meeting notes\n- review roadmap\n- assign owners\n- schedule follow-up\n"

	patch := BuildPatch(old, new)
	if patch == "" {
		t.Fatal("expected non-empty patch")
	}

	got, ok := ApplyPatch(old, patch)
	if !ok {
		t.Fatal("patch did not fully apply")
	}
	if got != new {
		t.Errorf("ApplyPatch = %q, want %q", got, new)
	}
}

func TestApplyPatch_BadPatchText(t *testing.T) {
	got, ok := ApplyPatch("base", "not a patch")
	if ok {
		t.Error("expected failure for malformed patch text")
	}
	if got != "base" {
		t.Errorf("base should be returned unchanged, got %q", got)
	}
}

func TestCounts(t *testing.T) {
	inserted, deleted := Counts("abc", "abXc")
	if inserted != 1 || deleted != 0 {
		t.Errorf("Counts = (%d, %d), want (1, 0)", inserted, deleted)
	}

	inserted, deleted = Counts("hello world", "hello")
	if inserted != 0 || deleted != len(" world") {
		t.Errorf("Counts = (%d, %d), want (0, %d)", inserted, deleted, len(" world"))
	}
}

func TestPrettyText_ContainsBothSides(t *testing.T) {
	// 两侧无公共字符，删除段与插入段各自完整输出
	out := PrettyText("old", "new")
	if !strings.Contains(out, "old") {
		t.Errorf("PrettyText output missing deleted text: %q", out)
	}
	if !strings.Contains(out, "new") {
		t.Errorf("PrettyText output missing inserted text: %q", out)
	}
}
