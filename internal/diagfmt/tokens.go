package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"quill/internal/source"
	"quill/internal/token"
)

type TokenOutput struct {
	Kind    string      `json:"kind"`
	Text    string      `json:"text,omitempty"`
	Value   string      `json:"value,omitempty"`
	Span    source.Span `json:"span"`
	Leading []string    `json:"leading,omitempty"`
}

func leadingKinds(tok token.Token) []string {
	var leading []string
	for _, trivia := range tok.Leading {
		leading = append(leading, trivia.Kind.String())
	}
	return leading
}

func tokenValue(tok token.Token) string {
	if tok.Lit.Kind == token.LitNone {
		return ""
	}
	return tok.Lit.String()
}

// FormatTokensPretty выводит токены в человекочитаемом формате
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	var sb strings.Builder
	for i, tok := range tokens {
		fmt.Fprintf(&sb, "%3d: %-15s", i+1, tok.Kind.String())

		if tok.Text != "" {
			fmt.Fprintf(&sb, " %q", tok.Text)
		}
		if v := tokenValue(tok); v != "" && tok.Kind == token.StringLit {
			fmt.Fprintf(&sb, " = %q", v)
		} else if v != "" && v != tok.Text {
			fmt.Fprintf(&sb, " = %s", v)
		}

		if fs != nil && int(tok.Span.File) < fs.Len() {
			startPos, endPos := fs.Resolve(tok.Span)
			fmt.Fprintf(&sb, " at %d:%d-%d:%d", startPos.Line, startPos.Col, endPos.Line, endPos.Col)
		} else {
			fmt.Fprintf(&sb, " at %d..%d", tok.Span.Start, tok.Span.End)
		}

		if leading := leadingKinds(tok); len(leading) > 0 {
			fmt.Fprintf(&sb, " (leading: %s)", strings.Join(leading, ", "))
		}
		sb.WriteByte('\n')

		if tok.Kind == token.EOF {
			break
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		output = append(output, TokenOutput{
			Kind:    tok.Kind.String(),
			Text:    tok.Text,
			Value:   tokenValue(tok),
			Span:    tok.Span,
			Leading: leadingKinds(tok),
		})
		if tok.Kind == token.EOF {
			break
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
