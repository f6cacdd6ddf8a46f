package diag

import "quill/internal/source"

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func (d Diagnostic) WithLabel(sp source.Span, msg string, style LabelStyle) Diagnostic {
	d.Labels = append(d.Labels, Label{Span: sp, Msg: msg, Style: style})
	return d
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

func (d Diagnostic) WithFix(title string, edits ...FixEdit) Diagnostic {
	d.Fixes = append(d.Fixes, Fix{Title: title, Edits: edits})
	return d
}

// PrimaryLabel returns the first primary label, if any.
func (d Diagnostic) PrimaryLabel() (Label, bool) {
	for _, l := range d.Labels {
		if l.Style == LabelPrimary {
			return l, true
		}
	}
	return Label{}, false
}
