package parser

import (
	"github.com/dhamidi/mproc/lexer"
	"github.com/dhamidi/mproc/syntaxtree"
)

// rootContext is the permanent bottom frame; it accumulates top-level
// statements into root until EOF.
type rootContext struct {
	root *syntaxtree.Root
}

func newRootContext() *rootContext {
	return &rootContext{root: &syntaxtree.Root{Base: syntaxtree.At(1, 1)}}
}

func (c *rootContext) params() lexer.Params { return defaultParams() }

func (c *rootContext) handlePiece(p *Parser, piece lexer.Piece) error {
	if piece.DelimEOF && piece.Text == "" {
		p.pop()
		return nil
	}

	selc := newSkipEmptyLinesContext()
	p.push(selc)
	return selc.handlePiece(p, piece)
}

func (c *rootContext) handleChildContent(p *Parser, node syntaxtree.Node, cd ChildDelimiter) error {
	c.root.Body = append(c.root.Body, node)
	if !cd.EOF {
		p.push(newSkipEmptyLinesContext())
		return nil
	}
	p.pop()
	return nil
}

// skipEmptyLinesContext consumes runs of blank lines before a new statement.
type skipEmptyLinesContext struct{}

func newSkipEmptyLinesContext() *skipEmptyLinesContext { return &skipEmptyLinesContext{} }

func (c *skipEmptyLinesContext) params() lexer.Params { return defaultParams() }

func (c *skipEmptyLinesContext) handlePiece(p *Parser, piece lexer.Piece) error {
	somethingWasMet := piece.Text != "" || (!piece.DelimEOF && piece.Delim != '\n')
	if somethingWasMet {
		p.pop()
		nsc := newNewStatementContext()
		p.push(nsc)
		return nsc.handlePiece(p, piece)
	}
	if piece.DelimEOF {
		p.pop()
	}
	return nil
}

func (c *skipEmptyLinesContext) handleChildContent(*Parser, syntaxtree.Node, ChildDelimiter) error {
	return nil
}
