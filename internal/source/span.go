package source

import (
	"fmt"
)

// Span is a half-open byte range [Start, End) inside a single file.
type Span struct {
	File  FileID
	Start uint32 // в байтах включительно
	End   uint32 // в байтах не включительно
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover returns the smallest span containing both s and other.
// Spans from different files are not merged.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// Contains reports whether other lies entirely inside s.
func (s Span) Contains(other Span) bool {
	return s.File == other.File && s.Start <= other.Start && other.End <= s.End
}

// Before reports whether s ends no later than other starts.
func (s Span) Before(other Span) bool {
	return s.End <= other.Start
}

// ShiftLeft сдвигает спан влево на n байт; если n > Start, спан не меняется.
func (s Span) ShiftLeft(n uint32) Span {
	if n > s.Start {
		return s
	}
	return Span{File: s.File, Start: s.Start - n, End: s.End - n}
}

// ShiftRight сдвигает спан вправо на n байт, но не дальше его длины.
func (s Span) ShiftRight(n uint32) Span {
	if n > s.Len() {
		return s
	}
	return Span{File: s.File, Start: s.Start + n, End: s.End + n}
}

// ZeroideToStart возвращает пустой спан в начале s.
func (s Span) ZeroideToStart() Span {
	return Span{File: s.File, Start: s.Start, End: s.Start}
}

// ZeroideToEnd возвращает пустой спан в конце s.
func (s Span) ZeroideToEnd() Span {
	return Span{File: s.File, Start: s.End, End: s.End}
}
