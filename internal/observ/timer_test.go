package observ

import (
	"bytes"
	"strings"
	"testing"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	lex := tm.Begin("lex")
	tm.End(lex, "12 tokens")
	parse := tm.Begin("parse")
	tm.End(parse, "")
	tm.End(99, "ignored")

	r := tm.Report()
	if len(r.Phases) != 2 || r.Phases[0].Name != "lex" || r.Phases[0].Note != "12 tokens" {
		t.Fatalf("unexpected report: %+v", r)
	}
	if !strings.Contains(tm.Summary(), "total") {
		t.Fatalf("summary without total:\n%s", tm.Summary())
	}
}

func TestNilTimerIsInert(t *testing.T) {
	var tm *Timer
	idx := tm.Begin("lex")
	tm.End(idx, "")
	if r := tm.Report(); len(r.Phases) != 0 {
		t.Fatalf("nil timer produced phases")
	}
}

func TestReportAddAndTable(t *testing.T) {
	a := Report{TotalMS: 2, Phases: []PhaseReport{{Name: "lex", DurationMS: 1}, {Name: "parse", DurationMS: 1}}}
	a.Add(Report{TotalMS: 3, Phases: []PhaseReport{{Name: "parse", DurationMS: 2}, {Name: "render", DurationMS: 1}}})

	if a.TotalMS != 5 || len(a.Phases) != 3 || a.Phases[1].DurationMS != 3 {
		t.Fatalf("unexpected sum: %+v", a)
	}

	var buf bytes.Buffer
	a.WriteTable(&buf, "check")
	out := buf.String()
	for _, want := range []string{"phase", "lex", "parse", "render", "total", "5.00"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table misses %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "TOTAL") || strings.Contains(out, "PHASE") {
		t.Fatalf("header and footer must keep their case:\n%s", out)
	}
}
