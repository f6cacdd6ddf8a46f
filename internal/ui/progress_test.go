package ui

import (
	"strings"
	"testing"

	"quill/internal/driver"
)

func TestApplyEventTracksFinalStates(t *testing.T) {
	m := newProgressModel("check", []string{"a.ql", "b.ql", "c.ql"}, nil)

	m.applyEvent(driver.Event{File: "a.ql", Stage: driver.StageLex, Status: driver.ProgressWorking})
	if got := m.items[0].status; got != "lexing" {
		t.Fatalf("status = %q, want lexing", got)
	}
	m.applyEvent(driver.Event{File: "a.ql", Stage: driver.StageParse, Status: driver.ProgressDone})
	m.applyEvent(driver.Event{File: "b.ql", Stage: driver.StageLex, Status: driver.ProgressError})
	m.applyEvent(driver.Event{File: "c.ql", Stage: driver.StageCache, Status: driver.ProgressDone})
	// события после завершения игнорируются
	m.applyEvent(driver.Event{File: "b.ql", Stage: driver.StageParse, Status: driver.ProgressWorking})
	m.applyEvent(driver.Event{File: "unknown.ql", Stage: driver.StageLex, Status: driver.ProgressError})

	want := []string{"ok", "error", "cached"}
	for i, w := range want {
		if m.items[i].status != w {
			t.Fatalf("item %d status = %q, want %q", i, m.items[i].status, w)
		}
	}
	if m.finished() != 3 || m.failed != 1 {
		t.Fatalf("finished=%d failed=%d", m.finished(), m.failed)
	}

	m.done = true
	view := m.View()
	if !strings.Contains(view, "done: check (3/3), 1 failed") {
		t.Fatalf("unexpected header:\n%s", view)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short.ql", 20, "short.ql"},
		{"very/long/path/file.ql", 10, "very/lo..."},
		{"abcdef", 3, "abc"},
		{"日本語.ql", 5, "日..."},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
