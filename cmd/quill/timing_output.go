package main

import (
	"io"

	"quill/internal/observ"
)

// printTimings renders phase timings when --timings is set.
func printTimings(out io.Writer, st settings, title string, report observ.Report) {
	if out == nil || !st.timings || len(report.Phases) == 0 {
		return
	}
	report.WriteTable(out, title)
}
