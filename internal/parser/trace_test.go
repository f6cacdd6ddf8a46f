package parser

import (
	"testing"

	"quill/internal/trace"
)

func ruleEnds(events []trace.Event) (ends []string, parseID uint64) {
	for _, ev := range events {
		if ev.Kind == trace.KindSpanBegin && ev.Name == "parse" {
			parseID = ev.SpanID
		}
		if ev.Kind == trace.KindSpanEnd && ev.Scope == trace.ScopeRule {
			ends = append(ends, ev.Detail)
		}
	}
	return ends, parseID
}

func TestRuleLevelTracesStatements(t *testing.T) {
	ring := trace.NewRingTracer(256, trace.LevelRule)
	if _, errs := Parse(lex(t, "let x = 1; { y; }"), Options{Tracer: ring}); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	events := ring.Snapshot()
	ends, parseID := ruleEnds(events)
	if parseID == 0 {
		t.Fatal("no parse span")
	}
	seen := map[string]int{}
	for _, d := range ends {
		seen[d]++
	}
	for _, name := range []string{"Let", "Block", "ExprStmt"} {
		if seen[name] != 1 {
			t.Errorf("stmt spans ending in %q = %d, want 1 (all: %v)", name, seen[name], ends)
		}
	}
	// many останавливается на `}` внутри блока и на EOF снаружи
	if seen["fail"] != 2 {
		t.Errorf("failed stmt attempts = %d, want 2 (all: %v)", seen["fail"], ends)
	}
	for _, ev := range events {
		if ev.Scope == trace.ScopeRule && ev.ParentID != parseID {
			t.Fatalf("rule event %q has parent %d, want parse span %d", ev.Name, ev.ParentID, parseID)
		}
		if ev.Kind == trace.KindSpanEnd && ev.Detail == "Let" && ev.Extra["at"] != "0" {
			t.Errorf("Let span at = %q, want 0", ev.Extra["at"])
		}
	}
}

func TestRuleLevelRecordsFurthestFailure(t *testing.T) {
	ring := trace.NewRingTracer(256, trace.LevelRule)
	if _, errs := Parse(lex(t, "let = 1;"), Options{Tracer: ring}); len(errs) != 1 {
		t.Fatalf("errors = %v, want one", errs)
	}
	var points int
	for _, ev := range ring.Snapshot() {
		if ev.Kind == trace.KindPoint && ev.Name == "furthest" {
			points++
			if ev.Detail == "" {
				t.Error("furthest point without detail")
			}
		}
	}
	if points != 1 {
		t.Fatalf("furthest points = %d, want 1", points)
	}
}

func TestPhaseLevelSkipsRules(t *testing.T) {
	ring := trace.NewRingTracer(256, trace.LevelPhase)
	Parse(lex(t, "let x = 1; let = 2;"), Options{Tracer: ring})
	for _, ev := range ring.Snapshot() {
		if ev.Scope == trace.ScopeRule {
			t.Fatalf("rule event %q recorded at phase level", ev.Name)
		}
	}
	if ends, _ := ruleEnds(ring.Snapshot()); len(ends) != 0 {
		t.Fatalf("rule spans = %v", ends)
	}
}
