// Package parser implements the context stack (spec §4.3): a LIFO stack of
// parse contexts, each supplying lexer parameters and reacting to
// (piece, delimiter) pairs by pushing children, popping back to its parent
// with a synthesized tree node, or reporting a position-tagged diagnostic.
//
// There is no error recovery: the first diagnostic aborts the parse and no
// partial tree is returned.
package parser

import (
	"io"

	"github.com/dhamidi/mproc/diagnostics"
	"github.com/dhamidi/mproc/lexer"
	"github.com/dhamidi/mproc/source"
	"github.com/dhamidi/mproc/syntaxtree"
)

// ChildDelimiter describes the terminator that completed a child context,
// as handed to the parent's handleChildContent.
type ChildDelimiter struct {
	// None is the sentinel meaning "the child completed but the line has
	// not ended yet" (no piece delimiter was consumed for this event).
	None bool
	EOF  bool
	Byte byte
}

func delimNone() ChildDelimiter        { return ChildDelimiter{None: true} }
func delimEOF() ChildDelimiter         { return ChildDelimiter{EOF: true} }
func delimByte(b byte) ChildDelimiter  { return ChildDelimiter{Byte: b} }
func pieceDelim(p lexer.Piece) ChildDelimiter {
	if p.DelimEOF {
		return delimEOF()
	}
	return delimByte(p.Delim)
}

// context is a frame on the parse stack.
type context interface {
	params() lexer.Params
	handlePiece(p *Parser, piece lexer.Piece) error
	handleChildContent(p *Parser, node syntaxtree.Node, cd ChildDelimiter) error
}

// noChildren is embedded by contexts that may never receive a child; spec
// treats this as an invariant violation, matching the teacher's asserts.
type noChildren struct{ what string }

func (n noChildren) handleChildContent(*Parser, syntaxtree.Node, ChildDelimiter) error {
	panic(n.what + " may not have children")
}

// Parser drives the context stack to completion over one source file.
type Parser struct {
	file  string
	lex   *lexer.Lexer
	stack []context
}

// Parse reads r to completion and returns the resulting tree, or the first
// diagnostic raised while parsing. filename is used only to attribute
// diagnostics and need not refer to a real path.
func Parse(r io.Reader, filename string) (*syntaxtree.Root, error) {
	src := source.New(r)
	lex := lexer.New(src, filename)
	root := newRootContext()
	p := &Parser{
		file:  filename,
		lex:   lex,
		stack: []context{root},
	}

	for len(p.stack) > 0 {
		top := p.stack[len(p.stack)-1]
		piece, err := lex.ReadPiece(top.params())
		if err != nil {
			return nil, err
		}
		if err := top.handlePiece(p, piece); err != nil {
			return nil, err
		}
	}

	return root.root, nil
}

func (p *Parser) push(c context) { p.stack = append(p.stack, c) }

func (p *Parser) pop() context {
	n := len(p.stack)
	top := p.stack[n-1]
	p.stack = p.stack[:n-1]
	return top
}

func (p *Parser) top() context { return p.stack[len(p.stack)-1] }

// saveStatement pops the calling context and delivers node to whatever is
// now on top, mirroring Context.save_statement's default implementation.
func (p *Parser) saveStatement(node syntaxtree.Node, cd ChildDelimiter) error {
	p.pop()
	return p.top().handleChildContent(p, node, cd)
}

func (p *Parser) errAt(line, symbol int, kind diagnostics.Kind) error {
	return diagnostics.New(p.file, line, symbol, kind)
}

func (p *Parser) errfAt(line, symbol int, kind diagnostics.Kind, detail string) error {
	return diagnostics.Newf(p.file, line, symbol, kind, detail)
}

// errStart locates a diagnostic at the start of the most recently read piece.
func (p *Parser) errStart(kind diagnostics.Kind) error {
	pos := p.lex.StartPosition()
	return p.errAt(pos.Line, pos.Symbol, kind)
}

func (p *Parser) errfStart(kind diagnostics.Kind, detail string) error {
	pos := p.lex.StartPosition()
	return p.errfAt(pos.Line, pos.Symbol, kind, detail)
}

// errEnd locates a diagnostic at the position just after the most recently
// consumed character — used for structural errors raised by the terminating
// delimiter itself (a stray '#' or ')').
func (p *Parser) errEnd(kind diagnostics.Kind) error {
	pos := p.lex.EndPosition()
	return p.errAt(pos.Line, pos.Symbol, kind)
}

func (p *Parser) errfEnd(kind diagnostics.Kind, detail string) error {
	pos := p.lex.EndPosition()
	return p.errfAt(pos.Line, pos.Symbol, kind, detail)
}

func (p *Parser) wrongDelimiter(b byte) error {
	return p.errfEnd(diagnostics.UnexpectedSymbol, string(b))
}

// kind* are short local names for the diagnostics.Kind values the context
// family raises most often.
const (
	kindUnexpected          = diagnostics.UnexpectedSymbol
	kindStructure           = diagnostics.UnexpectedFlowOperator
	kindInvalidFlowOperator = diagnostics.InvalidFlowOperator
	kindTokenExpected       = diagnostics.TokenExpected
	kindEOF                 = diagnostics.UnexpectedEOF
	kindInvalidString       = diagnostics.InvalidStringLiteral
)

func (p *Parser) parseToken(piece string) (syntaxtree.Node, error) {
	return p.lex.ParseToken(piece)
}

// parseTokenOrNil classifies piece unless it is empty, in which case it
// returns (nil, nil) instead of a TokenExpected diagnostic — used wherever
// an empty piece legitimately means "no token was read here".
func (p *Parser) parseTokenOrNil(piece string) (syntaxtree.Node, error) {
	if piece == "" {
		return nil, nil
	}
	return p.parseToken(piece)
}

// --- shared delimiter vocabulary -------------------------------------------------

var whitespaceBytes = []byte{' ', '\t', '\r', '\v', '\f'}

func isWhitespaceByte(b byte) bool {
	for _, w := range whitespaceBytes {
		if b == w {
			return true
		}
	}
	return false
}

// defaultDelimiters is Context.delimiters: whitespace, '#', '\n', '=', ',',
// '(', ')' (EOF is always implicitly a member, per the lexer).
func defaultDelimiters() lexer.DelimiterSet {
	return lexer.NewDelimiterSet(append(append([]byte{}, whitespaceBytes...), '#', '\n', '=', ',', '(', ')')...)
}

func defaultParams() lexer.Params {
	return lexer.Params{Delimiters: defaultDelimiters(), AllowSpaces: true}
}

// newlineOnlyDelimiters is the {'\n'} (+EOF) set used by contexts that
// expect nothing else on their line (SelfSufficient, SimpleBlock header,
// BlockEnd, BodySwitch).
func newlineOnlyDelimiters() lexer.DelimiterSet {
	return lexer.NewDelimiterSet('\n')
}

// --- shared push helpers (Context's create_* / skip_spaces) ----------------------

func (p *Parser) createAssignment(token syntaxtree.Node) error {
	if token == nil {
		return p.errStart(diagnostics.TokenExpected)
	}
	p.push(newRightHandSideContext(token))
	return nil
}

func (p *Parser) createList(token syntaxtree.Node) error {
	if token == nil {
		return p.errStart(diagnostics.TokenExpected)
	}
	p.push(newListContext(token))
	return nil
}

func (p *Parser) createCall(callee syntaxtree.Node) error {
	if callee == nil {
		return p.errStart(diagnostics.TokenExpected)
	}
	p.push(newCallContext(callee))
	return nil
}

func (p *Parser) createFlowOperator() {
	p.push(newExpectedFlowOperatorContext())
}

func (p *Parser) skipSpaces(token syntaxtree.Node, endlAsWhitespace bool) {
	p.push(newSkipSpacesContext(token, endlAsWhitespace))
}

// normalizeLineEnd mirrors newStatementContext's own save-statement calls:
// a statement ending on a real newline is reported to the enclosing block
// as the soft "no delimiter yet" sentinel, so the block knows to keep
// reading more statements; EOF is passed through so the block can tell the
// file truly ended here.
func normalizeLineEnd(cd ChildDelimiter) ChildDelimiter {
	if cd.EOF {
		return cd
	}
	return delimNone()
}
