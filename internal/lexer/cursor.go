package lexer

import (
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"

	"quill/internal/source"
)

// Cursor walks the bytes of one file. Offsets are uint32 like source.Span.
type Cursor struct {
	src  []byte
	file source.FileID
	Off  uint32
}

// NewCursor starts at offset 0 of f. Files longer than 4 GiB are rejected
// when loaded, so the conversion below only fails on a broken FileSet.
func NewCursor(f *source.File) Cursor {
	if _, err := safecast.Conv[uint32](len(f.Content)); err != nil {
		panic(fmt.Errorf("file %s too large for a cursor: %w", f.Path, err))
	}
	return Cursor{src: f.Content, file: f.ID}
}

// EOF сообщает, что байты кончились
func (c *Cursor) EOF() bool {
	return int(c.Off) >= len(c.src)
}

// Peek возвращает текущий байт или 0 в конце
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.src[c.Off]
}

// Peek2 returns the current and the next byte; ok is false when fewer than
// two remain.
func (c *Cursor) Peek2() (b0, b1 byte, ok bool) {
	if int(c.Off)+1 >= len(c.src) {
		return 0, 0, false
	}
	return c.src[c.Off], c.src[c.Off+1], true
}

// Bump съедает байт и возвращает его (0 в конце)
func (c *Cursor) Bump() byte {
	b := c.Peek()
	if !c.EOF() {
		c.Off++
	}
	return b
}

// PeekRune decodes the rune at the cursor; size is 0 at the end and 1 for
// a byte that starts no valid sequence.
func (c *Cursor) PeekRune() (r rune, size int) {
	if c.EOF() {
		return utf8.RuneError, 0
	}
	if b := c.src[c.Off]; b < utf8.RuneSelf {
		return rune(b), 1
	}
	return utf8.DecodeRune(c.src[c.Off:])
}

// BumpRune съедает руну целиком
func (c *Cursor) BumpRune() rune {
	r, size := c.PeekRune()
	n, err := safecast.Conv[uint32](size)
	if err != nil {
		panic(fmt.Errorf("rune size overflow: %w", err))
	}
	c.Off += n
	return r
}

// Eat consumes b if it is next.
func (c *Cursor) Eat(b byte) bool {
	if c.Peek() != b || c.EOF() {
		return false
	}
	c.Off++
	return true
}

// EatWhile consumes the longest run of bytes satisfying pred and returns
// its length.
func (c *Cursor) EatWhile(pred func(byte) bool) int {
	from := c.Off
	for !c.EOF() && pred(c.src[c.Off]) {
		c.Off++
	}
	return int(c.Off - from)
}

// Mark — сохранённая позиция для SpanFrom и Reset
type Mark uint32

func (c *Cursor) Mark() Mark { return Mark(c.Off) }

// Reset возвращает курсор к метке
func (c *Cursor) Reset(m Mark) { c.Off = uint32(m) }

// SpanFrom covers the bytes consumed since m.
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{File: c.file, Start: uint32(m), End: c.Off}
}
