package parser

import (
	"strings"

	"github.com/dhamidi/mproc/lexer"
	"github.com/dhamidi/mproc/syntaxtree"
)

// definerBlock is satisfied by the node types that open a #func/#enum
// block: a statement body plus a signature attached once the header line
// (including any arrow clause) has been parsed.
type definerBlock interface {
	syntaxtree.Block
	syntaxtree.Definer
}

// blockHolder is implemented by every flow-operator context that owns a
// block-shaped node and can be matched against a closing "#end..." keyword.
type blockHolder interface {
	context
	blockNode() syntaxtree.Node
}

// rawAppender is implemented by contexts whose block accumulates raw text
// (#mlog, #rawfunc) rather than parsed statements.
type rawAppender interface {
	appendRaw(string)
}

func addDelimiter(set lexer.DelimiterSet, b byte) lexer.DelimiterSet {
	out := make(lexer.DelimiterSet, len(set)+1)
	for k := range set {
		out[k] = true
	}
	out[b] = true
	return out
}

// --- keyword tables ----------------------------------------------------------------

var selfSufficientOperators = map[string]func(syntaxtree.Base) syntaxtree.Node{
	"break":    func(b syntaxtree.Base) syntaxtree.Node { return &syntaxtree.Break{Base: b} },
	"continue": func(b syntaxtree.Base) syntaxtree.Node { return &syntaxtree.Continue{Base: b} },
	"end":      func(b syntaxtree.Base) syntaxtree.Node { return &syntaxtree.End{Base: b} },
	"stop":     func(b syntaxtree.Base) syntaxtree.Node { return &syntaxtree.Stop{Base: b} },
}

var expressionRequiredOperators = map[string]func(syntaxtree.Base) syntaxtree.ExpressionHolder{
	"import": func(b syntaxtree.Base) syntaxtree.ExpressionHolder { return &syntaxtree.Import{Base: b} },
	"wait":   func(b syntaxtree.Base) syntaxtree.ExpressionHolder { return &syntaxtree.Wait{Base: b} },
	"using":  func(b syntaxtree.Base) syntaxtree.ExpressionHolder { return &syntaxtree.Using{Base: b} },
	"var":    func(b syntaxtree.Base) syntaxtree.ExpressionHolder { return &syntaxtree.Var{Base: b} },
}

var expressionAllowedOperators = map[string]func(syntaxtree.Base) syntaxtree.ExpressionHolder{
	"return": func(b syntaxtree.Base) syntaxtree.ExpressionHolder { return &syntaxtree.Return{Base: b} },
}

var simpleBlockOperators = map[string]func(syntaxtree.Base) syntaxtree.Block{
	"def":  func(b syntaxtree.Base) syntaxtree.Block { return &syntaxtree.Def{Base: b} },
	"init": func(b syntaxtree.Base) syntaxtree.Block { return &syntaxtree.Init{Base: b} },
	"prog": func(b syntaxtree.Base) syntaxtree.Block { return &syntaxtree.Prog{Base: b} },
	"link": func(b syntaxtree.Base) syntaxtree.Block { return &syntaxtree.Link{Base: b} },
}

var blockEndOperators = map[string]func(syntaxtree.Node) bool{
	"endprog":    func(n syntaxtree.Node) bool { _, ok := n.(*syntaxtree.Prog); return ok },
	"endfunc":    func(n syntaxtree.Node) bool { _, ok := n.(*syntaxtree.Func); return ok },
	"endrawfunc": func(n syntaxtree.Node) bool { _, ok := n.(*syntaxtree.RawFunc); return ok },
	"endif":      func(n syntaxtree.Node) bool { _, ok := n.(*syntaxtree.If); return ok },
	"endloop":    func(n syntaxtree.Node) bool { _, ok := n.(*syntaxtree.Loop); return ok },
	"enddef":     func(n syntaxtree.Node) bool { _, ok := n.(*syntaxtree.Def); return ok },
	"endinit":    func(n syntaxtree.Node) bool { _, ok := n.(*syntaxtree.Init); return ok },
	"endmlog":    func(n syntaxtree.Node) bool { _, ok := n.(*syntaxtree.MLog); return ok },
	"endenum":    func(n syntaxtree.Node) bool { _, ok := n.(*syntaxtree.Enum); return ok },
	"endlink":    func(n syntaxtree.Node) bool { _, ok := n.(*syntaxtree.Link); return ok },
}

var blockWithExpressionOperators = map[string]func(syntaxtree.Base) syntaxtree.ExprBlock{
	"if":   func(b syntaxtree.Base) syntaxtree.ExprBlock { return &syntaxtree.If{Base: b} },
	"loop": func(b syntaxtree.Base) syntaxtree.ExprBlock { return &syntaxtree.Loop{Base: b} },
}

var bodySwitchOperators = map[string]func(syntaxtree.Node) bool{
	"else":  func(n syntaxtree.Node) bool { _, ok := n.(*syntaxtree.If); return ok },
	"after": func(n syntaxtree.Node) bool { _, ok := n.(*syntaxtree.Loop); return ok },
}

var functionOperators = map[string]func(syntaxtree.Base) definerBlock{
	"func": func(b syntaxtree.Base) definerBlock { return &syntaxtree.Func{Base: b} },
	"enum": func(b syntaxtree.Base) definerBlock { return &syntaxtree.Enum{Base: b} },
}

var rawFuncOperators = map[string]func(syntaxtree.Base) *syntaxtree.RawFunc{
	"rawfunc": func(b syntaxtree.Base) *syntaxtree.RawFunc { return &syntaxtree.RawFunc{Base: b} },
}

var mlogOperators = map[string]func(syntaxtree.Base) *syntaxtree.MLog{
	"mlog": func(b syntaxtree.Base) *syntaxtree.MLog { return &syntaxtree.MLog{Base: b} },
}

// --- ExpectedFlowOperatorContext ---------------------------------------------------

// expectedFlowOperatorContext reads the bare word after '#' and replaces
// itself with whichever context understands that keyword.
type expectedFlowOperatorContext struct{ noChildren }

func newExpectedFlowOperatorContext() *expectedFlowOperatorContext {
	return &expectedFlowOperatorContext{noChildren{"expectedFlowOperatorContext"}}
}

func (c *expectedFlowOperatorContext) params() lexer.Params {
	return lexer.Params{Delimiters: defaultDelimiters(), AllowSpaces: false}
}

func (c *expectedFlowOperatorContext) handlePiece(p *Parser, piece lexer.Piece) error {
	if !piece.DelimEOF && !isWhitespaceByte(piece.Delim) && piece.Delim != '\n' {
		return p.wrongDelimiter(piece.Delim)
	}

	startPos := p.lex.StartPosition()
	base := syntaxtree.At(startPos.Line, startPos.Symbol-1)

	var next context
	switch {
	case selfSufficientOperators[piece.Text] != nil:
		next = newSelfSufficientFlowOperatorContext(selfSufficientOperators[piece.Text](base))

	case expressionRequiredOperators[piece.Text] != nil:
		next = newExpressionAllowedFlowOperatorContext(expressionRequiredOperators[piece.Text](base), true)

	case expressionAllowedOperators[piece.Text] != nil:
		next = newExpressionAllowedFlowOperatorContext(expressionAllowedOperators[piece.Text](base), false)

	case simpleBlockOperators[piece.Text] != nil:
		next = newSimpleBlockFlowOperatorContext(simpleBlockOperators[piece.Text](base))

	case blockEndOperators[piece.Text] != nil:
		next = newBlockEndFlowOperatorContext(blockEndOperators[piece.Text], piece.Text)

	case blockWithExpressionOperators[piece.Text] != nil:
		next = newBlockWithExpressionFlowOperatorContext(blockWithExpressionOperators[piece.Text](base))

	case bodySwitchOperators[piece.Text] != nil:
		next = newBodySwitchFlowOperatorContext(bodySwitchOperators[piece.Text], piece.Text)

	case functionOperators[piece.Text] != nil:
		node := functionOperators[piece.Text](base)
		next = newFunctionFlowOperatorContext(node, node.AppendBody)

	case rawFuncOperators[piece.Text] != nil:
		next = newRawFunctionFlowOperatorContext(rawFuncOperators[piece.Text](base))

	case mlogOperators[piece.Text] != nil:
		next = newMLogBlockFlowOperatorContext(mlogOperators[piece.Text](base))

	default:
		return p.errfStart(kindInvalidFlowOperator, piece.Text)
	}

	p.pop()
	p.push(next)

	if piece.DelimEOF || piece.Delim == '\n' {
		return next.handlePiece(p, lexer.Piece{DelimEOF: piece.DelimEOF, Delim: piece.Delim})
	}
	return nil
}

// --- SelfSufficientFlowOperatorContext ----------------------------------------------

// selfSufficientFlowOperatorContext handles #break/#continue/#end/#stop:
// nothing may follow on the same line.
type selfSufficientFlowOperatorContext struct {
	noChildren
	content syntaxtree.Node
}

func newSelfSufficientFlowOperatorContext(content syntaxtree.Node) *selfSufficientFlowOperatorContext {
	return &selfSufficientFlowOperatorContext{noChildren{"selfSufficientFlowOperatorContext"}, content}
}

func (c *selfSufficientFlowOperatorContext) params() lexer.Params {
	return lexer.Params{Delimiters: newlineOnlyDelimiters(), AllowSpaces: true}
}

func (c *selfSufficientFlowOperatorContext) handlePiece(p *Parser, piece lexer.Piece) error {
	if piece.Text != "" {
		return p.errfStart(kindUnexpected, piece.Text)
	}
	return p.saveStatement(c.content, pieceDelim(piece))
}

// --- ExpressionAllowedFlowOperatorContext -------------------------------------------

// expressionAllowedFlowOperatorContext handles #import/#wait/#using/#var
// (expression required) and #return (expression optional).
type expressionAllowedFlowOperatorContext struct {
	content  syntaxtree.ExpressionHolder
	required bool
}

func newExpressionAllowedFlowOperatorContext(content syntaxtree.ExpressionHolder, required bool) *expressionAllowedFlowOperatorContext {
	return &expressionAllowedFlowOperatorContext{content: content, required: required}
}

func (c *expressionAllowedFlowOperatorContext) params() lexer.Params { return defaultParams() }

func (c *expressionAllowedFlowOperatorContext) finish(p *Parser, token syntaxtree.Node, cd ChildDelimiter) error {
	c.content.SetExpression(token)
	return p.saveStatement(c.content, cd)
}

func (c *expressionAllowedFlowOperatorContext) handlePiece(p *Parser, piece lexer.Piece) error {
	token, err := p.parseTokenOrNil(piece.Text)
	if err != nil {
		return err
	}
	if token == nil && c.required {
		return p.errStart(kindTokenExpected)
	}

	switch {
	case piece.DelimEOF || piece.Delim == '\n':
		return c.finish(p, token, pieceDelim(piece))

	case !piece.DelimEOF && isWhitespaceByte(piece.Delim):
		p.skipSpaces(token, false)
		return nil

	case !piece.DelimEOF && (piece.Delim == ')' || piece.Delim == '#'):
		return p.wrongDelimiter(piece.Delim)

	case !piece.DelimEOF && piece.Delim == '=':
		return p.createAssignment(token)

	case !piece.DelimEOF && piece.Delim == ',':
		return p.createList(token)

	case !piece.DelimEOF && piece.Delim == '(':
		return p.createCall(token)
	}
	return nil
}

func (c *expressionAllowedFlowOperatorContext) handleChildContent(p *Parser, node syntaxtree.Node, cd ChildDelimiter) error {
	switch {
	case cd.None:
		p.skipSpaces(node, false)
		return nil
	case cd.EOF || cd.Byte == '\n':
		return c.finish(p, node, cd)
	case cd.Byte == ')':
		return p.wrongDelimiter(cd.Byte)
	case cd.Byte == '=':
		return p.createAssignment(node)
	case cd.Byte == ',':
		return p.createList(node)
	case cd.Byte == '(':
		return p.createCall(node)
	}
	return nil
}

// --- SimpleBlockFlowOperatorContext / MLogBlockFlowOperatorContext ------------------

// simpleBlockFlowOperatorContext accumulates a sequence of child statements
// into content's body until its closing "#end..." keyword is seen. The
// mlog variant (constructed by newMLogBlockFlowOperatorContext) instead
// reads a single run of raw text via mlogContext.
type simpleBlockFlowOperatorContext struct {
	content     syntaxtree.Node
	appendChild func(syntaxtree.Node)
	pushNext    func(p *Parser)
}

func newSimpleBlockFlowOperatorContext(content syntaxtree.Block) *simpleBlockFlowOperatorContext {
	return &simpleBlockFlowOperatorContext{
		content:     content,
		appendChild: content.AppendBody,
		pushNext:    func(p *Parser) { p.push(newSkipEmptyLinesContext()) },
	}
}

func newMLogBlockFlowOperatorContext(content *syntaxtree.MLog) *simpleBlockFlowOperatorContext {
	return &simpleBlockFlowOperatorContext{
		content: content,
		appendChild: func(syntaxtree.Node) {
			panic("mlog body is accumulated as raw text, not statements")
		},
		pushNext: func(p *Parser) { p.push(newMLogContext()) },
	}
}

func (c *simpleBlockFlowOperatorContext) params() lexer.Params {
	return lexer.Params{Delimiters: newlineOnlyDelimiters(), AllowSpaces: true}
}

func (c *simpleBlockFlowOperatorContext) blockNode() syntaxtree.Node { return c.content }

func (c *simpleBlockFlowOperatorContext) appendRaw(s string) {
	c.content.(syntaxtree.RawBody).AppendRaw(s)
}

func (c *simpleBlockFlowOperatorContext) handlePiece(p *Parser, piece lexer.Piece) error {
	if piece.Text != "" {
		return p.errfStart(kindUnexpected, piece.Text)
	}
	if piece.DelimEOF {
		return p.errStart(kindEOF)
	}
	c.pushNext(p)
	return nil
}

func (c *simpleBlockFlowOperatorContext) handleChildContent(p *Parser, node syntaxtree.Node, cd ChildDelimiter) error {
	switch {
	case cd.None:
		c.appendChild(node)
		c.pushNext(p)
		return nil
	case cd.EOF:
		return p.errStart(kindEOF)
	default:
		c.pushNext(p)
		return nil
	}
}

// --- BlockEndFlowOperatorContext -----------------------------------------------------

// blockEndFlowOperatorContext handles any "#end..." keyword: it closes the
// block two frames below it (itself and the NewStatementContext that read
// the keyword) and hands the finished node to whatever opened the block.
type blockEndFlowOperatorContext struct {
	noChildren
	isContent func(syntaxtree.Node) bool
	name      string
}

func newBlockEndFlowOperatorContext(isContent func(syntaxtree.Node) bool, name string) *blockEndFlowOperatorContext {
	return &blockEndFlowOperatorContext{noChildren{"blockEndFlowOperatorContext"}, isContent, name}
}

func (c *blockEndFlowOperatorContext) params() lexer.Params {
	return lexer.Params{Delimiters: newlineOnlyDelimiters(), AllowSpaces: true}
}

func (c *blockEndFlowOperatorContext) handlePiece(p *Parser, piece lexer.Piece) error {
	if piece.Text != "" {
		return p.errfStart(kindUnexpected, piece.Text)
	}

	p.pop()
	p.pop()

	top, ok := p.top().(blockHolder)
	if !ok || !c.isContent(top.blockNode()) {
		return p.errfStart(kindUnexpected, "#"+c.name)
	}
	return p.saveStatement(top.blockNode(), pieceDelim(piece))
}

// --- BodySwitchFlowOperatorContext ---------------------------------------------------

// bodySwitchFlowOperatorContext handles #else/#after: it toggles the
// enclosing BlockWithExpressionFlowOperatorContext into its second body.
type bodySwitchFlowOperatorContext struct {
	noChildren
	isContent func(syntaxtree.Node) bool
	name      string
}

func newBodySwitchFlowOperatorContext(isContent func(syntaxtree.Node) bool, name string) *bodySwitchFlowOperatorContext {
	return &bodySwitchFlowOperatorContext{noChildren{"bodySwitchFlowOperatorContext"}, isContent, name}
}

func (c *bodySwitchFlowOperatorContext) params() lexer.Params {
	return lexer.Params{Delimiters: newlineOnlyDelimiters(), AllowSpaces: true}
}

func (c *bodySwitchFlowOperatorContext) handlePiece(p *Parser, piece lexer.Piece) error {
	if piece.Text != "" {
		return p.errfStart(kindUnexpected, piece.Text)
	}

	p.pop()
	p.pop()

	bs, ok := p.top().(*blockWithExpressionFlowOperatorContext)
	if !ok || !c.isContent(bs.content) || bs.body2 {
		return p.errfStart(kindUnexpected, "#"+c.name)
	}
	bs.body2 = true
	return bs.handleChildContent(p, nil, delimNone())
}

// --- BlockWithExpressionFlowOperatorContext -----------------------------------------

// blockWithExpressionFlowOperatorContext handles #if/#loop: a guard
// expression, a primary body, and (after #else/#after) a second body.
type blockWithExpressionFlowOperatorContext struct {
	content           syntaxtree.ExprBlock
	body2             bool
	readingExpression bool
}

func newBlockWithExpressionFlowOperatorContext(content syntaxtree.ExprBlock) *blockWithExpressionFlowOperatorContext {
	return &blockWithExpressionFlowOperatorContext{content: content, readingExpression: true}
}

func (c *blockWithExpressionFlowOperatorContext) params() lexer.Params { return defaultParams() }

func (c *blockWithExpressionFlowOperatorContext) blockNode() syntaxtree.Node { return c.content }

func (c *blockWithExpressionFlowOperatorContext) appendChild(node syntaxtree.Node) {
	if node == nil {
		return
	}
	if c.body2 {
		c.content.AppendBody2(node)
	} else {
		c.content.AppendBody(node)
	}
}

func (c *blockWithExpressionFlowOperatorContext) handlePiece(p *Parser, piece lexer.Piece) error {
	token, err := p.parseToken(piece.Text)
	if err != nil {
		return err
	}

	switch {
	case piece.DelimEOF:
		return p.errStart(kindEOF)

	case piece.Delim == '\n':
		c.content.SetExpression(token)
		c.readingExpression = false
		p.push(newSkipEmptyLinesContext())
		return nil

	case piece.Delim == '#':
		return p.errEnd(kindStructure)

	case piece.Delim == '=' || piece.Delim == ')':
		return p.wrongDelimiter(piece.Delim)

	case piece.Delim == ',':
		return p.createList(token)

	case piece.Delim == '(':
		return p.createCall(token)

	case isWhitespaceByte(piece.Delim):
		p.skipSpaces(token, false)
		return nil
	}
	return nil
}

func (c *blockWithExpressionFlowOperatorContext) handleChildContent(p *Parser, node syntaxtree.Node, cd ChildDelimiter) error {
	switch {
	case cd.None:
		if c.readingExpression {
			p.skipSpaces(node, false)
			return nil
		}
		c.appendChild(node)
		p.push(newSkipEmptyLinesContext())
		return nil

	case cd.EOF:
		return p.errStart(kindEOF)

	case cd.Byte == '\n':
		c.content.SetExpression(node)
		c.readingExpression = false
		p.push(newSkipEmptyLinesContext())
		return nil

	case cd.Byte == '=' || cd.Byte == ')':
		return p.wrongDelimiter(cd.Byte)

	case cd.Byte == ',':
		return p.createList(node)

	case cd.Byte == '(':
		return p.createCall(node)
	}
	return nil
}

// --- FunctionFlowOperatorContext / RawFunctionFlowOperatorContext -------------------

// functionFlowOperatorContext handles #func/#enum (and, via the raw
// constructor, #rawfunc): first a signature, optionally followed by
// "->returns", is read, then a body. The raw variant reads its body as one run of text via
// mlogContext instead of parsed statements.
type functionFlowOperatorContext struct {
	content           syntaxtree.Node
	setDefinition     func(syntaxtree.Node)
	appendChild       func(syntaxtree.Node)
	pushNext          func(p *Parser)
	readingDefinition bool
}

func newFunctionFlowOperatorContext(content definerBlock, appendChild func(syntaxtree.Node)) *functionFlowOperatorContext {
	return &functionFlowOperatorContext{
		content:           content,
		setDefinition:     content.SetDefinition,
		appendChild:       appendChild,
		pushNext:          func(p *Parser) { p.push(newSkipEmptyLinesContext()) },
		readingDefinition: true,
	}
}

func newRawFunctionFlowOperatorContext(content *syntaxtree.RawFunc) *functionFlowOperatorContext {
	return &functionFlowOperatorContext{
		content:       content,
		setDefinition: content.SetDefinition,
		appendChild: func(syntaxtree.Node) {
			panic("rawfunc body is accumulated as raw text, not statements")
		},
		pushNext:          func(p *Parser) { p.push(newMLogContext()) },
		readingDefinition: true,
	}
}

func (c *functionFlowOperatorContext) params() lexer.Params { return defaultParams() }

func (c *functionFlowOperatorContext) blockNode() syntaxtree.Node { return c.content }

func (c *functionFlowOperatorContext) appendRaw(s string) {
	c.content.(syntaxtree.RawBody).AppendRaw(s)
}

func (c *functionFlowOperatorContext) handlePiece(p *Parser, piece lexer.Piece) error {
	token, err := p.parseToken(piece.Text)
	if err != nil {
		return err
	}

	switch {
	case piece.DelimEOF:
		return p.errStart(kindEOF)

	case piece.Delim == '\n':
		c.readingDefinition = false
		c.setDefinition(token)
		c.pushNext(p)
		return nil

	case piece.Delim == '#':
		return p.errEnd(kindStructure)

	case piece.Delim == '=' || piece.Delim == ')':
		return p.wrongDelimiter(piece.Delim)

	case piece.Delim == ',':
		return p.createList(token)

	case piece.Delim == '(':
		return p.createCall(token)

	case isWhitespaceByte(piece.Delim):
		p.skipSpaces(token, false)
		return nil
	}
	return nil
}

func (c *functionFlowOperatorContext) handleChildContent(p *Parser, node syntaxtree.Node, cd ChildDelimiter) error {
	switch {
	case cd.None:
		if c.readingDefinition {
			p.push(newSearchForReturnContext(node))
			return nil
		}
		c.appendChild(node)
		c.pushNext(p)
		return nil

	case cd.EOF:
		return p.errStart(kindEOF)

	case cd.Byte == '\n':
		c.readingDefinition = false
		c.setDefinition(node)
		c.pushNext(p)
		return nil

	case cd.Byte == '=' || cd.Byte == ')':
		return p.wrongDelimiter(cd.Byte)

	case cd.Byte == ',':
		return p.createList(node)

	case cd.Byte == '(':
		return p.createCall(node)
	}
	return nil
}

// --- SearchForReturnContext / MustBeArrowContext / FunctionDefinitionContext -------

// searchForReturnContext is a skipSpacesContext that additionally watches
// for '-', the first half of the "->" arrow introducing a function's
// return signature.
type searchForReturnContext struct {
	skipSpacesContext
}

func newSearchForReturnContext(token syntaxtree.Node) *searchForReturnContext {
	return &searchForReturnContext{skipSpacesContext{token: token}}
}

func (c *searchForReturnContext) params() lexer.Params {
	p := c.skipSpacesContext.params()
	p.Delimiters = addDelimiter(p.Delimiters, '-')
	return p
}

func (c *searchForReturnContext) handlePiece(p *Parser, piece lexer.Piece) error {
	if !piece.DelimEOF && piece.Delim == '-' {
		if piece.Text != "" {
			return p.errfStart(kindUnexpected, piece.Text)
		}
		p.pop()
		p.push(newMustBeArrowContext(c.token))
		return nil
	}
	return c.skipSpacesContext.handlePiece(p, piece)
}

// mustBeArrowContext reads exactly one symbol and requires it to be '>',
// completing the "->" arrow.
type mustBeArrowContext struct {
	noChildren
	content syntaxtree.Node
}

func newMustBeArrowContext(content syntaxtree.Node) *mustBeArrowContext {
	return &mustBeArrowContext{noChildren{"mustBeArrowContext"}, content}
}

func (c *mustBeArrowContext) params() lexer.Params { return lexer.Params{ExactSymbols: 1} }

func (c *mustBeArrowContext) handlePiece(p *Parser, piece lexer.Piece) error {
	if piece.Text != ">" {
		return p.errfStart(kindUnexpected, "-"+piece.Text)
	}
	p.pop()
	p.push(newFunctionDefinitionContext(c.content))
	return nil
}

// functionDefinitionContext reads the return value following "->".
type functionDefinitionContext struct {
	content syntaxtree.Node
}

func newFunctionDefinitionContext(content syntaxtree.Node) *functionDefinitionContext {
	return &functionDefinitionContext{content: content}
}

func (c *functionDefinitionContext) params() lexer.Params {
	return lexer.Params{Delimiters: defaultDelimiters(), AllowSpaces: true, EndlAsWhitespace: true}
}

func (c *functionDefinitionContext) finish(p *Parser, returns syntaxtree.Node, cd ChildDelimiter) error {
	pos := c.content.Pos()
	node := &syntaxtree.FunctionDefinition{
		Base:    syntaxtree.At(pos.Line, pos.Symbol),
		Call:    c.content,
		Returns: returns,
	}
	return p.saveStatement(node, cd)
}

func (c *functionDefinitionContext) handlePiece(p *Parser, piece lexer.Piece) error {
	token, err := p.parseToken(piece.Text)
	if err != nil {
		return err
	}

	switch {
	case piece.DelimEOF || piece.Delim == '\n':
		return c.finish(p, token, pieceDelim(piece))

	case !piece.DelimEOF && piece.Delim == '#':
		return p.errEnd(kindStructure)

	case !piece.DelimEOF && (piece.Delim == '=' || piece.Delim == ')'):
		return p.wrongDelimiter(piece.Delim)

	case !piece.DelimEOF && piece.Delim == ',':
		return p.createList(token)

	case !piece.DelimEOF && piece.Delim == '(':
		return p.createCall(token)

	case !piece.DelimEOF && isWhitespaceByte(piece.Delim):
		p.skipSpaces(token, false)
		return nil
	}
	return nil
}

func (c *functionDefinitionContext) handleChildContent(p *Parser, node syntaxtree.Node, cd ChildDelimiter) error {
	if cd.None {
		p.skipSpaces(node, false)
		return nil
	}

	switch {
	case cd.EOF || cd.Byte == '\n':
		return c.finish(p, node, cd)
	case cd.Byte == '=' || cd.Byte == ')':
		return p.wrongDelimiter(cd.Byte)
	case cd.Byte == ',':
		return p.createList(node)
	case cd.Byte == '(':
		return p.createCall(node)
	}
	return nil
}

// --- MLogContext / MLogEndContext / BlockEndOnlyContext -----------------------------

// mlogContext reads one run of raw text up to the next '#', handing it
// straight to whichever context opened the raw block, then searches for
// the closing "#end..." keyword.
type mlogContext struct{ noChildren }

func newMLogContext() *mlogContext { return &mlogContext{noChildren{"mlogContext"}} }

func (c *mlogContext) params() lexer.Params {
	return lexer.Params{Delimiters: lexer.NewDelimiterSet('#'), AllowSpaces: false}
}

func (c *mlogContext) handlePiece(p *Parser, piece lexer.Piece) error {
	if piece.DelimEOF {
		return p.errStart(kindEOF)
	}

	lastLine := piece.Text
	if idx := strings.LastIndexByte(piece.Text, '\n'); idx >= 0 {
		lastLine = piece.Text[idx+1:]
	}
	if strings.TrimSpace(lastLine) != "" {
		return p.errEnd(kindStructure)
	}

	p.pop()
	parent, ok := p.top().(rawAppender)
	if !ok {
		panic("mlogContext's parent must accept raw text")
	}
	parent.appendRaw(piece.Text)

	mlec := newMLogEndContext()
	p.push(mlec)
	return mlec.handlePiece(p, lexer.Piece{Delim: '#'})
}

// mlogEndContext looks for the '#' that must follow a raw text block and
// hands control to blockEndOnlyContext to read the closing keyword.
type mlogEndContext struct {
	newStatementContext
}

func newMLogEndContext() *mlogEndContext { return &mlogEndContext{} }

func (c *mlogEndContext) handlePiece(p *Parser, piece lexer.Piece) error {
	p.push(newBlockEndOnlyContext())
	return nil
}

// blockEndOnlyContext is an expectedFlowOperatorContext restricted to
// "#end..." keywords, used right after a raw text block.
type blockEndOnlyContext struct {
	expectedFlowOperatorContext
}

func newBlockEndOnlyContext() *blockEndOnlyContext {
	return &blockEndOnlyContext{*newExpectedFlowOperatorContext()}
}

func (c *blockEndOnlyContext) handlePiece(p *Parser, piece lexer.Piece) error {
	if _, ok := blockEndOperators[piece.Text]; !ok {
		return p.errfStart(kindUnexpected, "#"+piece.Text)
	}
	return c.expectedFlowOperatorContext.handlePiece(p, piece)
}
