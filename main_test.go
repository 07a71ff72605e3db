package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	yaml "gopkg.in/yaml.v3"

	"github.com/ByLCY/folio/layout"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestRunCellsWithYAMLDump(t *testing.T) {
	dir := t.TempDir()
	profile := writeFile(t, dir, "night.profile", `
profile Night v1 {
  text {
    size: 16
    paragraph-spacing: 4
  }
  page {
    padding 8
  }
}
`)
	ch1 := writeFile(t, dir, "01.txt", "第一章\n"+strings.Repeat("　　天地玄黄，宇宙洪荒。日月盈昃，辰宿列张。\n", 20))
	ch2 := writeFile(t, dir, "02.txt", "Chapter 2\r\nshort body\r\n")
	dump := filepath.Join(dir, "out", "dump.yaml")

	var stdout, stderr bytes.Buffer
	err := newApp(&stdout, &stderr).Run(context.Background(), []string{
		"folio", "--profile", profile, "--typesetter", "cells",
		"--width", "360", "--height", "640", "--density", "2",
		"--debug", dump, "--debug-format", "yaml", "--log-level", "none",
		ch1, ch2,
	})
	if err != nil {
		t.Fatalf("run: %v (stderr: %s)", err, stderr.String())
	}

	data, err := os.ReadFile(dump)
	if err != nil {
		t.Fatalf("read dump: %v", err)
	}
	var res layout.Result
	if err := yaml.Unmarshal(data, &res); err != nil {
		t.Fatalf("decode dump: %v", err)
	}
	if len(res.Chapters) != 2 {
		t.Fatalf("expected 2 chapters, got %d", len(res.Chapters))
	}
	if res.Style.BodySize != 32 || res.Style.Padding.Left != 16 {
		t.Fatalf("profile not applied: %+v", res.Style)
	}
	first, second := res.Chapters[0], res.Chapters[1]
	if first.Index != 0 || first.Title != "第一章" || first.SourceID != ch1 || first.ChapterSize != 2 {
		t.Fatalf("unexpected first chapter meta: %+v", first)
	}
	if first.PageSize() < 2 {
		t.Fatalf("expected first chapter to span pages, got %d", first.PageSize())
	}
	if second.Index != 1 || second.Title != "Chapter 2" || second.PageSize() != 1 {
		t.Fatalf("unexpected second chapter: index=%d title=%q pages=%d", second.Index, second.Title, second.PageSize())
	}
}

func TestRunCanvasWritesPDF(t *testing.T) {
	dir := t.TempDir()
	ch := writeFile(t, dir, "01.txt", "Prologue\nIt was a dark and stormy night; the rain fell in torrents.\n")
	out := filepath.Join(dir, "book.pdf")

	var stdout, stderr bytes.Buffer
	err := newApp(&stdout, &stderr).Run(context.Background(), []string{
		"folio", "--width", "540", "--height", "960", "--density", "1.5", "--out", out, ch,
	})
	if err != nil {
		t.Fatalf("run: %v (stderr: %s)", err, stderr.String())
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output is not a PDF")
	}
	if !strings.Contains(stdout.String(), "PDF written") {
		t.Fatalf("expected info log on stdout, got %q", stdout.String())
	}
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()
	ch := writeFile(t, dir, "01.txt", "T\nbody\n")
	bad := writeFile(t, dir, "bad.profile", "profile Bad v1 {\n  text {\n    size: 12px\n  }\n}\n")
	cases := []struct {
		name string
		args []string
		want string
	}{
		{"no chapters", []string{"--typesetter", "cells"}, "章节"},
		{"unknown typesetter", []string{"--typesetter", "knuth", ch}, "knuth"},
		{"bad profile", []string{"--profile", bad, "--typesetter", "cells", ch}, "text.size"},
		{"viewport", []string{"--typesetter", "cells", "--width", "10", ch}, "可见区域"},
		{"missing chapter", []string{"--typesetter", "cells", filepath.Join(dir, "nope.txt")}, "nope.txt"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			args := append([]string{"folio", "--log-level", "none"}, tc.args...)
			err := newApp(&stdout, &stderr).Run(context.Background(), args)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestChapterTitle(t *testing.T) {
	for in, want := range map[string]string{"A\nb": "A", "A\r\nb": "A", "only": "only", "": ""} {
		if got := chapterTitle(in); got != want {
			t.Fatalf("chapterTitle(%q) = %q, want %q", in, got, want)
		}
	}
}
