package dsl_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ByLCY/stencil/dsl"
	"github.com/ByLCY/stencil/layout"
)

const sampleJob = `
// kitchen wall
stencil mural {
  title: "Kitchen mural"
  size 42cm x 59.4cm
  page A4 landscape
  filter outline
  dpi 150; margin 1cm 5mm
  # inline comment
  output: "out/${filename}"
  strict-filter
}
`

func TestParseJob(t *testing.T) {
	file, err := dsl.ParseString(sampleJob)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(file.Jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(file.Jobs))
	}
	job := file.Jobs[0]
	if job.Name != "mural" {
		t.Fatalf("expected job name mural, got %q", job.Name)
	}
	if len(job.Block.Statements) != 8 {
		t.Fatalf("expected 8 statements, got %d", len(job.Block.Statements))
	}
	title := job.Block.Statements[0].Assignment
	if title == nil || title.Key != "title" || title.Value.Text() != "Kitchen mural" {
		t.Fatalf("expected title assignment, got %+v", job.Block.Statements[0])
	}
	size := job.Block.Statements[1].Command
	if size == nil || size.Name != "size" || len(size.Args) != 3 || size.Args[1].Value != "x" {
		t.Fatalf("unexpected size command: %+v", job.Block.Statements[1])
	}

	got, err := job.Settings()
	if err != nil {
		t.Fatalf("Settings: %v", err)
	}
	want := dsl.Settings{
		Name:         "mural",
		Title:        "Kitchen mural",
		Output:       "out/${filename}",
		Width:        layout.Length{Value: 42, Unit: layout.UnitCM},
		Height:       layout.Length{Value: 59.4, Unit: layout.UnitCM},
		Page:         "A4",
		Orientation:  "landscape",
		Filter:       "outline",
		StrictFilter: true,
		DPI:          150,
		MarginX:      layout.Length{Value: 1, Unit: layout.UnitCM},
		MarginY:      layout.Length{Value: 5, Unit: layout.UnitMM},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("settings mismatch (-want +got):\n%s", diff)
	}
}

func TestParseMultipleJobsAndAnonymous(t *testing.T) {
	file, err := dsl.Parse(strings.NewReader("stencil { width: 3ft\n height: 2ft }\nstencil b { size 10 10 }\n"))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(file.Jobs) != 2 || file.Jobs[0].Name != "" || file.Jobs[1].Name != "b" {
		t.Fatalf("unexpected jobs: %+v", file.Jobs)
	}
	s, err := file.Jobs[0].Settings()
	if err != nil {
		t.Fatalf("Settings: %v", err)
	}
	if s.Width.Unit != layout.UnitFT || s.Height.Value != 2 {
		t.Fatalf("unexpected settings: %+v", s)
	}
	s, err = file.Jobs[1].Settings()
	if err != nil {
		t.Fatalf("Settings: %v", err)
	}
	if s.Width.CM() != 10 || s.Height.CM() != 10 {
		t.Fatalf("bare numbers should be centimeters: %+v", s)
	}
}

func TestSettingsErrors(t *testing.T) {
	bad := []string{
		"stencil { size 10cm }",
		"stencil { bogus 1 }",
		"stencil { dpi high }",
		"stencil { width abc }",
		"stencil { margin 1 2 3 }",
	}
	for _, src := range bad {
		file, err := dsl.ParseString(src)
		if err != nil {
			t.Fatalf("parse %q failed: %v", src, err)
		}
		if _, err := file.Jobs[0].Settings(); err == nil {
			t.Fatalf("expected settings error for %q", src)
		}
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	for _, src := range []string{"", "stencil {", "page A4 {}"} {
		if _, err := dsl.ParseString(src); err == nil {
			t.Fatalf("expected parse error for %q", src)
		}
	}
}
