// Package fuzztests houses Go fuzz harnesses for the quill front end
// (source -> lexer -> parser -> diagnostics). They guard against panics,
// hangs and broken span invariants on arbitrary input.
//
// Назначение: прогонять произвольные байты через FileSet, лексер, парсер и
// рендер диагностик.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.

package fuzztests
