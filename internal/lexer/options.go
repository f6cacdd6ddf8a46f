package lexer

import (
	"quill/internal/diag"
	"quill/internal/source"
)

type Options struct {
	// MaxErrors ограничивает число сохраняемых ошибок (0 — без ограничения).
	// Сканирование продолжается до конца в любом случае.
	MaxErrors int
}

// errLex только записывает ошибку; форматирует её внешний слой.
func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.MaxErrors > 0 && len(lx.errs) >= lx.opts.MaxErrors {
		lx.dropped++
		return
	}
	lx.errs = append(lx.errs, Error{Code: code, Span: sp, Found: lx.file.Slice(sp), Message: msg})
}
