package naming

import (
	"testing"
	"time"
)

func TestSuggested(t *testing.T) {
	now := time.Date(2026, 3, 7, 9, 5, 1, 0, time.UTC)
	if got := Suggested(now, "pdf"); got != "stencil_20260307_090501.pdf" {
		t.Fatalf("Suggested = %q", got)
	}
	if got := Suggested(now, ".pdf"); got != "stencil_20260307_090501.pdf" {
		t.Fatalf("带点扩展名 Suggested = %q", got)
	}
}

func TestExpand(t *testing.T) {
	vars := map[string]string{"filename": "stencil_x.pdf", "cols": "2", "rows": "3"}
	cases := map[string]string{
		"out/${filename}":            "out/stencil_x.pdf",
		"grid_${cols}x${ rows }.pdf": "grid_2x3.pdf",
		"keep_${missing}.pdf":        "keep_${missing}.pdf",
		"plain.pdf":                  "plain.pdf",
	}
	for in, want := range cases {
		if got := Expand(in, vars); got != want {
			t.Fatalf("Expand(%q) = %q, want %q", in, got, want)
		}
	}
	if got := Expand("${a}", nil); got != "${a}" {
		t.Fatalf("无变量时应原样返回，实际 %q", got)
	}
}
