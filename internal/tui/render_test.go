package tui

import (
	"strings"
	"testing"
)

func TestRenderMarkdown(t *testing.T) {
	if got := RenderMarkdown("", 80); got != "" {
		t.Fatalf("empty input must render empty, got %q", got)
	}
	if got := RenderMarkdown("   \n", 80); got != "" {
		t.Fatalf("blank input must render empty, got %q", got)
	}
	if got := RenderMarkdown("**bold** text", 80); !strings.Contains(got, "bold") {
		t.Fatalf("content lost: %q", got)
	}
}

func TestRenderProgressBar(t *testing.T) {
	full := renderProgressBar(100, 10)
	if strings.Contains(full, "░") {
		t.Fatalf("full bar must have no empty cells: %q", full)
	}
	empty := renderProgressBar(0, 10)
	if strings.Contains(empty, "█") {
		t.Fatalf("empty bar must have no filled cells: %q", empty)
	}
	half := renderProgressBar(50, 10)
	if strings.Count(half, "█") != 5 {
		t.Fatalf("half bar: %q", half)
	}
	// 越界值收敛到边界 / out-of-range values clamp
	if renderProgressBar(150, 10) != full {
		t.Fatal("percent above 100 must clamp")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("hello", 10); got != "hello" {
		t.Fatalf("short string changed: %q", got)
	}
	if got := truncate("hello world", 6); got != "hello…" {
		t.Fatalf("truncated: %q", got)
	}
	if got := truncate("多字节标题测试", 4); got != "多字节…" {
		t.Fatalf("multibyte truncate: %q", got)
	}
	if got := truncate("x", 0); got != "" {
		t.Fatalf("zero width: %q", got)
	}
}
