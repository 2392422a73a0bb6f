package diagfmt

import (
	"fmt"
	"io"

	"strata/internal/ast"
	"strata/internal/source"
)

// FormatTree prints a parse tree as an indented outline, one node per
// line. Error nodes carry their recovery message.
func FormatTree(w io.Writer, tree *ast.Tree, file *source.File) error {
	if tree == nil || tree.Root() == ast.NoNodeID {
		fmt.Fprintln(w, "<empty tree>")
		return nil
	}
	writeNode(w, tree, tree.Root(), file, 0)
	return nil
}

func writeNode(w io.Writer, tree *ast.Tree, id ast.NodeID, file *source.File, depth int) {
	n := tree.Get(id)
	if n == nil {
		return
	}
	for i := 0; i < depth; i++ {
		io.WriteString(w, "  ")
	}

	start, end := file.Resolve(n.Span)
	pos := fmt.Sprintf("%d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)

	switch n.Kind {
	case ast.NodeValue:
		fmt.Fprintf(w, "Value(%s) %q %s\n", n.Token.String(), n.Text, pos)
	case ast.NodeContainer:
		fmt.Fprintf(w, "Container(%s) %s\n", n.Tag.String(), pos)
	case ast.NodeField:
		fmt.Fprintf(w, "Field %s\n", pos)
	case ast.NodeError:
		fmt.Fprintf(w, "Error %q %s\n", n.Msg, pos)
	default:
		fmt.Fprintf(w, "%s %s\n", n.Kind.String(), pos)
	}

	for _, child := range n.Children {
		writeNode(w, tree, child, file, depth+1)
	}
}
