package parser

import (
	"github.com/dhamidi/mproc/lexer"
	"github.com/dhamidi/mproc/syntaxtree"
)

// newStatementContext begins exactly one statement.
type newStatementContext struct{}

func newNewStatementContext() *newStatementContext { return &newStatementContext{} }

func (c *newStatementContext) params() lexer.Params { return defaultParams() }

func (c *newStatementContext) handlePiece(p *Parser, piece lexer.Piece) error {
	if !piece.DelimEOF && piece.Delim == '#' {
		if piece.Text != "" {
			return p.errStart(kindStructure)
		}
		p.createFlowOperator()
		return nil
	}

	token, err := p.parseTokenOrNil(piece.Text)
	if err != nil {
		return err
	}

	switch {
	case piece.DelimEOF || piece.Delim == '\n':
		return p.saveStatement(token, normalizeLineEnd(pieceDelim(piece)))

	case !piece.DelimEOF && isWhitespaceByte(piece.Delim):
		p.skipSpaces(token, false)
		return nil

	case !piece.DelimEOF && piece.Delim == '=':
		return p.createAssignment(token)

	case !piece.DelimEOF && piece.Delim == ')':
		return p.wrongDelimiter(piece.Delim)

	case !piece.DelimEOF && piece.Delim == ',':
		return p.createList(token)

	case !piece.DelimEOF && piece.Delim == '(':
		return p.createCall(token)
	}
	return nil
}

func (c *newStatementContext) handleChildContent(p *Parser, node syntaxtree.Node, cd ChildDelimiter) error {
	switch {
	case cd.None:
		p.skipSpaces(node, false)
		return nil
	case cd.EOF || cd.Byte == '\n':
		return p.saveStatement(node, normalizeLineEnd(cd))
	case cd.Byte == '=':
		return p.createAssignment(node)
	case cd.Byte == ',':
		return p.createList(node)
	case cd.Byte == ')':
		return p.wrongDelimiter(cd.Byte)
	case cd.Byte == '(':
		return p.createCall(node)
	}
	return nil
}

// skipSpacesContext holds a carried token while consuming whitespace; the
// next delivered pair must have at most one of {carried token, new piece}.
type skipSpacesContext struct {
	token            syntaxtree.Node
	endlAsWhitespace bool
}

func newSkipSpacesContext(token syntaxtree.Node, endlAsWhitespace bool) *skipSpacesContext {
	return &skipSpacesContext{token: token, endlAsWhitespace: endlAsWhitespace}
}

func (c *skipSpacesContext) params() lexer.Params {
	return lexer.Params{Delimiters: defaultDelimiters(), AllowSpaces: true, EndlAsWhitespace: c.endlAsWhitespace}
}

func (c *skipSpacesContext) handlePiece(p *Parser, piece lexer.Piece) error {
	if piece.Text != "" && c.token != nil {
		return p.errfStart(kindUnexpected, piece.Text)
	}
	if !piece.DelimEOF && piece.Delim == '#' {
		return p.errEnd(kindStructure)
	}

	p.pop()
	token, err := p.parseTokenOrNil(piece.Text)
	if err != nil {
		return err
	}
	final := c.token
	if final == nil {
		final = token
	}
	return p.top().handleChildContent(p, final, pieceDelim(piece))
}

func (c *skipSpacesContext) handleChildContent(*Parser, syntaxtree.Node, ChildDelimiter) error {
	panic("skipSpacesContext may not have children")
}

// rightHandSideContext parses the right-hand side of an assignment.
type rightHandSideContext struct {
	lhs syntaxtree.Node
}

func newRightHandSideContext(lhs syntaxtree.Node) *rightHandSideContext {
	return &rightHandSideContext{lhs: lhs}
}

func (c *rightHandSideContext) params() lexer.Params {
	return lexer.Params{Delimiters: defaultDelimiters(), AllowSpaces: true, EndlAsWhitespace: true}
}

func (c *rightHandSideContext) finish(p *Parser, rhs syntaxtree.Node, cd ChildDelimiter) error {
	if rhs == nil {
		return p.errStart(kindTokenExpected)
	}
	lhsPos := c.lhs.Pos()
	node := &syntaxtree.Assignment{
		Base: syntaxtree.At(lhsPos.Line, lhsPos.Symbol),
		Lhs:  c.lhs,
		Rhs:  rhs,
	}
	return p.saveStatement(node, cd)
}

func (c *rightHandSideContext) createList(p *Parser, token syntaxtree.Node) error {
	if token == nil {
		return p.errStart(kindTokenExpected)
	}
	return p.createList(token)
}

func (c *rightHandSideContext) handlePiece(p *Parser, piece lexer.Piece) error {
	token, err := p.parseTokenOrNil(piece.Text)
	if err != nil {
		return err
	}

	switch {
	case piece.DelimEOF || piece.Delim == '\n' || piece.Delim == ')':
		return c.finish(p, token, pieceDelim(piece))

	case !piece.DelimEOF && isWhitespaceByte(piece.Delim):
		p.skipSpaces(token, false)
		return nil

	case !piece.DelimEOF && piece.Delim == '#':
		return p.errEnd(kindStructure)

	case !piece.DelimEOF && piece.Delim == '=':
		return p.wrongDelimiter(piece.Delim)

	case !piece.DelimEOF && piece.Delim == ',':
		return c.createList(p, token)

	case !piece.DelimEOF && piece.Delim == '(':
		return p.createCall(token)
	}
	return nil
}

func (c *rightHandSideContext) handleChildContent(p *Parser, node syntaxtree.Node, cd ChildDelimiter) error {
	switch {
	case cd.None:
		p.skipSpaces(node, false)
		return nil

	case cd.EOF || cd.Byte == '\n':
		if cd.Byte == '\n' && node == nil {
			// nothing read yet on this line: keep searching on the next one,
			// which is how multi-line assignments ("x =\n  value") work.
			p.skipSpaces(nil, true)
			return nil
		}
		return c.finish(p, node, cd)

	case cd.Byte == '=' || cd.Byte == ')':
		return p.wrongDelimiter(cd.Byte)

	case cd.Byte == ',':
		return c.createList(p, node)

	case cd.Byte == '(':
		return p.createCall(node)
	}
	return nil
}

// namedArgumentRightHandSideContext parses a named argument's value inside a
// call (e.g. f(a=3)); a comma afterwards builds an argumentListContext
// instead of the plain listContext RightHandSideContext would build.
type namedArgumentRightHandSideContext struct {
	rightHandSideContext
}

func newNamedArgumentRightHandSideContext(lhs syntaxtree.Node) *namedArgumentRightHandSideContext {
	return &namedArgumentRightHandSideContext{rightHandSideContext{lhs: lhs}}
}

func (c *namedArgumentRightHandSideContext) createList(p *Parser, token syntaxtree.Node) error {
	lhsPos := c.lhs.Pos()
	content := &syntaxtree.Assignment{
		Base: syntaxtree.At(lhsPos.Line, lhsPos.Symbol),
		Lhs:  c.lhs,
		Rhs:  token,
	}
	p.pop()
	p.push(newArgumentListContext(content))
	return nil
}

func (c *namedArgumentRightHandSideContext) handlePiece(p *Parser, piece lexer.Piece) error {
	token, err := p.parseTokenOrNil(piece.Text)
	if err != nil {
		return err
	}

	switch {
	case piece.DelimEOF || piece.Delim == '\n' || piece.Delim == ')':
		return c.finish(p, token, pieceDelim(piece))

	case !piece.DelimEOF && isWhitespaceByte(piece.Delim):
		p.skipSpaces(token, false)
		return nil

	case !piece.DelimEOF && piece.Delim == '#':
		return p.errEnd(kindStructure)

	case !piece.DelimEOF && piece.Delim == '=':
		return p.wrongDelimiter(piece.Delim)

	case !piece.DelimEOF && piece.Delim == ',':
		return c.createList(p, token)

	case !piece.DelimEOF && piece.Delim == '(':
		return p.createCall(token)
	}
	return nil
}

func (c *namedArgumentRightHandSideContext) handleChildContent(p *Parser, node syntaxtree.Node, cd ChildDelimiter) error {
	switch {
	case cd.None:
		p.skipSpaces(node, false)
		return nil

	case cd.EOF || cd.Byte == '\n':
		if cd.Byte == '\n' && node == nil {
			p.skipSpaces(nil, true)
			return nil
		}
		return c.finish(p, node, cd)

	case cd.Byte == '=' || cd.Byte == ')':
		return p.wrongDelimiter(cd.Byte)

	case cd.Byte == ',':
		return c.createList(p, node)

	case cd.Byte == '(':
		return p.createCall(node)
	}
	return nil
}
