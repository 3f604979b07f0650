package mlogfmt

import (
	"bytes"
	"fmt"
	"io"

	"github.com/dhamidi/mproc/syntaxtree"
)

// TreeEncoder renders a tree as an indented textual dump, one node per
// line, e.g. for "x = 2":
//
//	Root (1:1)
//	  body[0]: Assignment (1:1)
//	    lhs: Token x (1:1)
//	    rhs: NumericLiteral 2 (1:5)
type TreeEncoder struct {
	w    io.Writer
	root *syntaxtree.Root
}

func NewTreeEncoder(w io.Writer) *TreeEncoder {
	return &TreeEncoder{w: w}
}

func (e *TreeEncoder) Encode(root *syntaxtree.Root) error {
	e.root = root
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TreeEncoder) MarshalText() ([]byte, error) {
	var buf bytes.Buffer
	writeTree(&buf, nodeToGeneric(e.root), 0)
	return buf.Bytes(), nil
}

func writeTree(buf *bytes.Buffer, g *genericNode, depth int) {
	for i := 0; i < depth; i++ {
		buf.WriteString("  ")
	}
	if g.Role != "" {
		fmt.Fprintf(buf, "%s: ", g.Role)
	}
	fmt.Fprintf(buf, "%s", g.Kind)
	if g.Label != "" {
		fmt.Fprintf(buf, " %s", g.Label)
	}
	fmt.Fprintf(buf, " (%d:%d)\n", g.Line, g.Symbol)

	for _, c := range g.Children {
		writeTree(buf, c, depth+1)
	}
}
