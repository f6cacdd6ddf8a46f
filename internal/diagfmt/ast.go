package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"quill/internal/ast"
	"quill/internal/source"
)

type ASTNodeOutput struct {
	Type     string            `json:"type"`
	Span     source.Span       `json:"span"`
	Fields   map[string]string `json:"fields,omitempty"`
	Children []ASTNodeOutput   `json:"children,omitempty"`
}

// nodeFields возвращает атрибуты узла, которые не являются детьми.
func nodeFields(n ast.Node) map[string]string {
	switch n := n.(type) {
	case *ast.IdentExpr:
		return map[string]string{"name": n.Name}
	case *ast.LiteralExpr:
		return map[string]string{"kind": n.Value.Kind.String(), "value": n.Value.String()}
	case *ast.UnaryExpr:
		return map[string]string{"op": n.Op.Text()}
	case *ast.BinaryExpr:
		return map[string]string{"op": n.Op.Text()}
	case *ast.AssignExpr:
		return map[string]string{"op": n.Op.Text()}
	case *ast.MemberExpr:
		return map[string]string{"name": n.Name.Name}
	case *ast.CallExpr:
		return map[string]string{"args": strconv.Itoa(len(n.Args))}
	case *ast.FnExpr:
		return map[string]string{"params": joinIdents(n.Params)}
	case *ast.LetStmt:
		return map[string]string{"name": n.Name.Name}
	case *ast.FnStmt:
		return map[string]string{"name": n.Name.Name, "params": joinIdents(n.Params)}
	case *ast.ForStmt:
		return map[string]string{"var": n.Var.Name}
	default:
		return nil
	}
}

func joinIdents(ids []ast.Ident) string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, id.Name)
	}
	return strings.Join(names, ", ")
}

// nodeLabel — однострочное описание узла для дерева.
func nodeLabel(n ast.Node, fs *source.FileSet) string {
	var sb strings.Builder
	sb.WriteString(ast.NodeName(n))
	switch n := n.(type) {
	case *ast.IdentExpr:
		fmt.Fprintf(&sb, " %s", n.Name)
	case *ast.LiteralExpr:
		fmt.Fprintf(&sb, " %s(%s)", n.Value.Kind, n.Value)
	case *ast.UnaryExpr:
		fmt.Fprintf(&sb, " %s", n.Op.Text())
	case *ast.BinaryExpr:
		fmt.Fprintf(&sb, " %s", n.Op.Text())
	case *ast.AssignExpr:
		fmt.Fprintf(&sb, " %s", n.Op.Text())
	case *ast.MemberExpr:
		fmt.Fprintf(&sb, " .%s", n.Name.Name)
	case *ast.FnExpr:
		fmt.Fprintf(&sb, " (%s)", joinIdents(n.Params))
	case *ast.LetStmt:
		fmt.Fprintf(&sb, " %s", n.Name.Name)
	case *ast.FnStmt:
		fmt.Fprintf(&sb, " %s(%s)", n.Name.Name, joinIdents(n.Params))
	case *ast.ForStmt:
		fmt.Fprintf(&sb, " %s", n.Var.Name)
	}
	fmt.Fprintf(&sb, " (span: %s)", formatSpan(n.GetSpan(), fs))
	return sb.String()
}

// formatSpan formats a source.Span into "startLine:startCol-endLine:endCol",
// or "span(start-end)" without a FileSet.
func formatSpan(span source.Span, fs *source.FileSet) string {
	if fs != nil && int(span.File) < fs.Len() {
		start, end := fs.Resolve(span)
		return fmt.Sprintf("%d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
	}
	return fmt.Sprintf("span(%d-%d)", span.Start, span.End)
}

// FormatASTTree prints the tree with box-drawing connectors, one node per line.
func FormatASTTree(w io.Writer, file *ast.File, fs *source.FileSet) error {
	if file == nil {
		return fmt.Errorf("nil file")
	}
	var sb strings.Builder
	header := "File"
	if f := fileOf(fs, file.Span); f != nil {
		header = f.FormatPath("auto", fs.BaseDir())
	}
	fmt.Fprintf(&sb, "%s (span: %s)\n", header, formatSpan(file.Span, fs))
	writeChildren(&sb, file, fs, "")
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeChildren(sb *strings.Builder, n ast.Node, fs *source.FileSet, prefix string) {
	children := ast.Children(n)
	for i, c := range children {
		connector, next := "├─ ", "│  "
		if i == len(children)-1 {
			connector, next = "└─ ", "   "
		}
		sb.WriteString(prefix)
		sb.WriteString(connector)
		sb.WriteString(nodeLabel(c, fs))
		sb.WriteByte('\n')
		writeChildren(sb, c, fs, prefix+next)
	}
}

func buildASTNode(n ast.Node) ASTNodeOutput {
	out := ASTNodeOutput{
		Type:   ast.NodeName(n),
		Span:   n.GetSpan(),
		Fields: nodeFields(n),
	}
	for _, c := range ast.Children(n) {
		out.Children = append(out.Children, buildASTNode(c))
	}
	return out
}

// FormatASTJSON writes the tree as nested JSON objects.
func FormatASTJSON(w io.Writer, file *ast.File) error {
	if file == nil {
		return fmt.Errorf("nil file")
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildASTNode(file))
}
