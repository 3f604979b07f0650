package mlogfmt

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/mproc/syntaxtree"
)

// JSONEncoder renders a tree as indented JSON.
type JSONEncoder struct {
	w    io.Writer
	root *syntaxtree.Root
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(root *syntaxtree.Root) error {
	e.root = root
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	return json.MarshalIndent(jsonify(nodeToGeneric(e.root)), "", "  ")
}

type jsonNode struct {
	Role     string      `json:"role,omitempty"`
	Kind     string      `json:"kind"`
	Line     int         `json:"line"`
	Symbol   int         `json:"symbol"`
	Label    string      `json:"label,omitempty"`
	Children []*jsonNode `json:"children,omitempty"`
}

func jsonify(g *genericNode) *jsonNode {
	if g == nil {
		return nil
	}
	jn := &jsonNode{
		Role:   g.Role,
		Kind:   g.Kind,
		Line:   g.Line,
		Symbol: g.Symbol,
		Label:  g.Label,
	}
	if len(g.Children) > 0 {
		jn.Children = make([]*jsonNode, len(g.Children))
		for i, c := range g.Children {
			jn.Children[i] = jsonify(c)
		}
	}
	return jn
}
