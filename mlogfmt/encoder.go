// Package mlogfmt renders a parsed syntaxtree.Root as either JSON or an
// indented textual dump, both built from the same generic node shape so
// a new output format only needs a new renderer, not a new AST walk.
package mlogfmt

import (
	"encoding"
	"fmt"
	"strconv"

	"github.com/dhamidi/mproc/syntaxtree"
)

// Encoder writes a parsed tree to an underlying writer.
type Encoder interface {
	encoding.TextMarshaler
	Encode(root *syntaxtree.Root) error
}

// genericNode is the homogeneous shape every concrete node type is
// flattened into before rendering; role labels a child's field within its
// parent (e.g. "lhs", "body2") since, unlike a CST, MProc's node types
// each carry their own differently-named fields rather than one uniform
// children slice.
type genericNode struct {
	Role     string
	Kind     string
	Line     int
	Symbol   int
	Label    string
	Children []*genericNode
}

func child(role string, n syntaxtree.Node) *genericNode {
	if n == nil {
		return nil
	}
	g := nodeToGeneric(n)
	g.Role = role
	return g
}

func childList(role string, nodes []syntaxtree.Node) []*genericNode {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]*genericNode, 0, len(nodes))
	for i, n := range nodes {
		g := nodeToGeneric(n)
		g.Role = fmt.Sprintf("%s[%d]", role, i)
		out = append(out, g)
	}
	return out
}

func appendNonNil(children []*genericNode, nodes ...*genericNode) []*genericNode {
	for _, n := range nodes {
		if n != nil {
			children = append(children, n)
		}
	}
	return children
}

func nodeToGeneric(n syntaxtree.Node) *genericNode {
	pos := n.Pos()
	g := &genericNode{Line: pos.Line, Symbol: pos.Symbol}

	switch v := n.(type) {
	case *syntaxtree.Root:
		g.Kind = "Root"
		g.Children = childList("body", v.Body)

	case *syntaxtree.Token:
		g.Kind = "Token"
		g.Label = v.Name

	case *syntaxtree.NumericLiteral:
		g.Kind = "NumericLiteral"
		if v.IsFloat {
			g.Label = strconv.FormatFloat(v.FloatValue, 'g', -1, 64)
		} else {
			g.Label = strconv.FormatInt(v.IntValue, 10)
		}

	case *syntaxtree.StringLiteral:
		g.Kind = "StringLiteral"
		g.Label = strconv.Quote(v.Value)

	case *syntaxtree.Assignment:
		g.Kind = "Assignment"
		g.Children = appendNonNil(g.Children, child("lhs", v.Lhs), child("rhs", v.Rhs))

	case *syntaxtree.List:
		g.Kind = "List"
		g.Children = childList("expressions", v.Expressions)

	case *syntaxtree.Call:
		g.Kind = "Call"
		g.Children = appendNonNil(g.Children, child("called", v.Called), child("arguments", v.Arguments))

	case *syntaxtree.FunctionDefinition:
		g.Kind = "FunctionDefinition"
		g.Children = appendNonNil(g.Children, child("call", v.Call), child("returns", v.Returns))

	case *syntaxtree.Break:
		g.Kind = "Break"
	case *syntaxtree.Continue:
		g.Kind = "Continue"
	case *syntaxtree.End:
		g.Kind = "End"
	case *syntaxtree.Stop:
		g.Kind = "Stop"

	case *syntaxtree.Import:
		g.Kind = "Import"
		g.Children = appendNonNil(g.Children, child("expression", v.Expression))
	case *syntaxtree.Wait:
		g.Kind = "Wait"
		g.Children = appendNonNil(g.Children, child("expression", v.Expression))
	case *syntaxtree.Using:
		g.Kind = "Using"
		g.Children = appendNonNil(g.Children, child("expression", v.Expression))
	case *syntaxtree.Var:
		g.Kind = "Var"
		g.Children = appendNonNil(g.Children, child("expression", v.Expression))
	case *syntaxtree.Return:
		g.Kind = "Return"
		g.Children = appendNonNil(g.Children, child("expression", v.Expression))

	case *syntaxtree.Def:
		g.Kind = "Def"
		g.Children = childList("body", v.Body)
	case *syntaxtree.Init:
		g.Kind = "Init"
		g.Children = childList("body", v.Body)
	case *syntaxtree.Prog:
		g.Kind = "Prog"
		g.Children = childList("body", v.Body)
	case *syntaxtree.Link:
		g.Kind = "Link"
		g.Children = childList("body", v.Body)

	case *syntaxtree.If:
		g.Kind = "If"
		g.Children = appendNonNil(g.Children, child("expression", v.Expression))
		g.Children = append(g.Children, childList("body", v.Body)...)
		g.Children = append(g.Children, childList("body2", v.Body2)...)
	case *syntaxtree.Loop:
		g.Kind = "Loop"
		g.Children = appendNonNil(g.Children, child("expression", v.Expression))
		g.Children = append(g.Children, childList("body", v.Body)...)
		g.Children = append(g.Children, childList("body2", v.Body2)...)

	case *syntaxtree.Func:
		g.Kind = "Func"
		g.Children = appendNonNil(g.Children, child("definition", v.Definition))
		g.Children = append(g.Children, childList("body", v.Body)...)
	case *syntaxtree.Enum:
		g.Kind = "Enum"
		g.Children = appendNonNil(g.Children, child("definition", v.Definition))
		g.Children = append(g.Children, childList("body", v.Body)...)

	case *syntaxtree.RawFunc:
		g.Kind = "RawFunc"
		g.Label = v.Body
		g.Children = appendNonNil(g.Children, child("definition", v.Definition))

	case *syntaxtree.MLog:
		g.Kind = "MLog"
		g.Label = v.Body

	default:
		g.Kind = fmt.Sprintf("Unknown(%T)", v)
	}

	return g
}
