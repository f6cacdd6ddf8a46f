// Package trace records what the quill front end does while it runs.
//
// The driver opens one span per command, one per pass (lex, parse, render)
// and, under check, one per file. At LevelRule the parser adds a span for
// every statement it attempts and a point at the furthest failure, which is
// usually enough to see why an input was rejected.
//
//	quill check --trace=- --trace-level=file ./scripts
//	quill parse --trace=out.ndjson --trace-level=rule broken.ql
//
// Events go to a StreamTracer, to a RingTracer that is dumped when the
// command exits, or to both through a Fanout. Code that only needs to
// trace takes a Tracer from the context:
//
//	ctx, span := trace.StartSpan(ctx, trace.ScopePass, "render")
//	defer span.End("")
//
// A nil *Span is valid, so callers never check whether tracing is on.
package trace
