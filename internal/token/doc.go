// Package token defines lexical token kinds, literal payloads and trivia for quill.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - Token.Span matches Text exactly (Start..End); string literals include quotes.
//   - Literal tokens (IntLit, FloatLit, StringLit, KwTrue, KwFalse, KwNil) carry a
//     decoded Literal payload; every other token has a zero Literal.
//   - Comments and whitespace are represented as leading Trivia and never appear
//     in the main token stream.
//   - A successful token sequence ends with exactly one EOF token whose span is
//     empty and sits at the end of the buffer.
package token
