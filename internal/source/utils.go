package source

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// normalizeCRLF заменяет все \r\n на \n, не трогая одиночные \r.
// Возвращает новый слайс и флаг: были ли замены (true, если хотя бы одна).
func normalizeCRLF(content []byte) ([]byte, bool) {
	// Быстрый путь: если нет \r, возвращаем как есть.
	if !slices.Contains(content, '\r') {
		return content, false
	}

	// Новый слайс для результата (максимум такой же длины, может быть короче).
	out := make([]byte, 0, len(content))
	changed := false

	i := 0
	for i < len(content) {
		// Если встретили \r\n — заменяем на \n.
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			out = append(out, '\n')
			i += 2
			changed = true
		} else {
			out = append(out, content[i])
			i++
		}
	}
	return out, changed
}

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) < 3 {
		return content, false
	}

	if content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}

	return content, false
}

// normalizeNFC приводит текст к канонической композиции Unicode (NFC).
func normalizeNFC(content []byte) ([]byte, bool) {
	if norm.NFC.IsNormal(content) {
		return content, false
	}
	return norm.NFC.Bytes(content), true
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, len(content))
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i))
		}
	}
	return out
}

func toLineCol(lineIdx []uint32, off uint32) LineCol {
	// Если LineIdx пустой, то весь файл - одна строка
	if len(lineIdx) == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}

	// число переводов строки строго до off; сам '\n' относится к своей строке
	before, _ := slices.BinarySearch(lineIdx, off)

	var startOff uint32
	if before > 0 {
		startOff = lineIdx[before-1] + 1
	}
	return LineCol{Line: uint32(before + 1), Col: off - startOff + 1} // #nosec G115 -- before <= len(lineIdx)
}

// lineBounds возвращает [start, end) строки lineNum (1-based) без '\n'.
func lineBounds(lineIdx []uint32, contentLen uint32, lineNum uint32) (start, end uint32, ok bool) {
	if lineNum == 0 {
		return 0, 0, false
	}
	n := uint32(len(lineIdx)) // #nosec G115 -- len(lineIdx) <= len(content) <= MaxUint32
	switch {
	case lineNum == 1:
		start = 0
	case lineNum-2 < n:
		start = lineIdx[lineNum-2] + 1
	default:
		return 0, 0, false
	}
	if lineNum-1 < n {
		end = lineIdx[lineNum-1]
	} else {
		end = contentLen
	}
	if start > contentLen {
		return 0, 0, false
	}
	return start, min(end, contentLen), true
}

func normalizePath(p string) string {
	// единый вид в кроссплатформенных дифах
	return filepath.ToSlash(filepath.Clean(p))
}

// AbsolutePath возвращает абсолютный нормализованный путь.
func AbsolutePath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return normalizePath(abs), nil
}

// RelativePath возвращает путь относительно baseDir.
// Если файл лежит вне baseDir, возвращается абсолютный путь.
func RelativePath(p, baseDir string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	base, err := filepath.Abs(baseDir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(base, abs)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return normalizePath(abs), nil
	}
	return normalizePath(rel), nil
}

// BaseName возвращает имя файла без директорий.
func BaseName(p string) string {
	return filepath.Base(p)
}
