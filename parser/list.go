package parser

import (
	"github.com/dhamidi/mproc/lexer"
	"github.com/dhamidi/mproc/syntaxtree"
)

// listContext accumulates a comma-separated sequence of expressions. The
// same struct backs both a plain list and an argument list (built via
// newArgumentListContext), which differ only in how a child is appended
// (argument lists flatten a nested List produced by a named-argument
// continuation) and in what "=" does (plain lists close and become the
// target of a tuple assignment; argument lists open a named-argument
// value instead).
type listContext struct {
	content          *syntaxtree.List
	appendChild      func(syntaxtree.Node)
	createAssignment func(p *Parser, token syntaxtree.Node) error
}

func newListContext(first syntaxtree.Node) *listContext {
	pos := first.Pos()
	content := &syntaxtree.List{
		Base:        syntaxtree.At(pos.Line, pos.Symbol),
		Expressions: []syntaxtree.Node{first},
	}
	lc := &listContext{content: content}
	lc.appendChild = func(n syntaxtree.Node) {
		if n != nil {
			content.Expressions = append(content.Expressions, n)
		}
	}
	lc.createAssignment = func(p *Parser, token syntaxtree.Node) error {
		lc.appendChild(token)
		p.pop()
		return p.createAssignment(content)
	}
	return lc
}

func newArgumentListContext(first syntaxtree.Node) *listContext {
	lc := newListContext(first)
	content := lc.content
	lc.appendChild = func(n syntaxtree.Node) {
		if nested, ok := n.(*syntaxtree.List); ok {
			content.Expressions = append(content.Expressions, nested.Expressions...)
			return
		}
		if n != nil {
			content.Expressions = append(content.Expressions, n)
		}
	}
	lc.createAssignment = func(p *Parser, token syntaxtree.Node) error {
		p.push(newNamedArgumentRightHandSideContext(token))
		return nil
	}
	return lc
}

func (c *listContext) params() lexer.Params {
	return lexer.Params{Delimiters: defaultDelimiters(), AllowSpaces: true, EndlAsWhitespace: true}
}

func (c *listContext) finish(p *Parser, token syntaxtree.Node, cd ChildDelimiter) error {
	c.appendChild(token)
	return p.saveStatement(c.content, cd)
}

func (c *listContext) enterSkipSpaces(p *Parser, token syntaxtree.Node, endlAsWhitespace bool) {
	c.appendChild(token)
	p.skipSpaces(nil, endlAsWhitespace)
}

func (c *listContext) handlePiece(p *Parser, piece lexer.Piece) error {
	token, err := p.parseTokenOrNil(piece.Text)
	if err != nil {
		return err
	}

	switch {
	case piece.DelimEOF || piece.Delim == '\n' || piece.Delim == ')':
		return c.finish(p, token, pieceDelim(piece))

	case !piece.DelimEOF && isWhitespaceByte(piece.Delim):
		c.enterSkipSpaces(p, token, false)
		return nil

	case !piece.DelimEOF && piece.Delim == ',':
		c.appendChild(token)
		return nil

	case !piece.DelimEOF && piece.Delim == '#':
		return p.errEnd(kindStructure)

	case !piece.DelimEOF && piece.Delim == '(':
		return p.createCall(token)

	case !piece.DelimEOF && piece.Delim == '=':
		return c.createAssignment(p, token)
	}
	return nil
}

func (c *listContext) handleChildContent(p *Parser, node syntaxtree.Node, cd ChildDelimiter) error {
	switch {
	case cd.None:
		c.enterSkipSpaces(p, node, false)
		return nil

	case cd.EOF || cd.Byte == ')' || cd.Byte == '\n':
		return c.finish(p, node, cd)

	case cd.Byte == ',':
		c.appendChild(node)
		return nil

	case cd.Byte == '(':
		return p.createCall(node)

	case cd.Byte == '=':
		return c.createAssignment(p, node)
	}
	return nil
}

// callContext parses the argument list of "caller(...)".
type callContext struct {
	caller syntaxtree.Node
}

func newCallContext(caller syntaxtree.Node) *callContext { return &callContext{caller: caller} }

func (c *callContext) params() lexer.Params {
	return lexer.Params{Delimiters: defaultDelimiters(), AllowSpaces: true, EndlAsWhitespace: true}
}

// finish always reports the completed call with the soft "no delimiter
// yet" sentinel: the ')' just consumed belongs to the call's own syntax,
// not to whatever real delimiter terminates the enclosing construct, which
// must still be discovered by reading on.
func (c *callContext) finish(p *Parser, args syntaxtree.Node) error {
	pos := c.caller.Pos()
	content := &syntaxtree.Call{
		Base:      syntaxtree.At(pos.Line, pos.Symbol),
		Called:    c.caller,
		Arguments: args,
	}
	return p.saveStatement(content, delimNone())
}

func (c *callContext) createAssignment(p *Parser, token syntaxtree.Node) error {
	if token == nil {
		return p.errStart(kindTokenExpected)
	}
	p.push(newNamedArgumentRightHandSideContext(token))
	return nil
}

func (c *callContext) createList(p *Parser, token syntaxtree.Node) error {
	if token == nil {
		return p.errStart(kindTokenExpected)
	}
	p.push(newArgumentListContext(token))
	return nil
}

func (c *callContext) handlePiece(p *Parser, piece lexer.Piece) error {
	token, err := p.parseTokenOrNil(piece.Text)
	if err != nil {
		return err
	}

	switch {
	case !piece.DelimEOF && piece.Delim == ')':
		return c.finish(p, token)

	case !piece.DelimEOF && (isWhitespaceByte(piece.Delim) || piece.Delim == '\n'):
		p.push(newSkipSpacesContext(token, true))
		return nil

	case !piece.DelimEOF && piece.Delim == '#':
		return p.errEnd(kindStructure)

	case !piece.DelimEOF && piece.Delim == '=':
		return c.createAssignment(p, token)

	case !piece.DelimEOF && piece.Delim == ',':
		return c.createList(p, token)

	case !piece.DelimEOF && piece.Delim == '(':
		return p.createCall(token)

	case piece.DelimEOF:
		return p.errStart(kindEOF)
	}
	return nil
}

func (c *callContext) handleChildContent(p *Parser, node syntaxtree.Node, cd ChildDelimiter) error {
	switch {
	case cd.None:
		p.push(newSkipSpacesContext(node, true))
		return nil

	case cd.EOF:
		return p.errStart(kindEOF)

	case cd.Byte == ')':
		return c.finish(p, node)

	case cd.Byte == '#':
		return p.errEnd(kindStructure)

	case cd.Byte == '\n':
		p.push(newSkipSpacesContext(node, true))
		return nil

	case cd.Byte == '=':
		return c.createAssignment(p, node)

	case cd.Byte == ',':
		return c.createList(p, node)

	case cd.Byte == '(':
		return p.createCall(node)
	}
	return nil
}
