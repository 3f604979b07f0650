// Package syntaxtree defines the closed set of node types produced by
// mproc/parser. Every node carries the (line, symbol) position where the
// construct began.
package syntaxtree

import "github.com/dhamidi/mproc/position"

// Position is a 1-based (line, symbol) pair.
type Position = position.Position

// Node is implemented only by the node types declared in this package.
type Node interface {
	Pos() Position
	isNode()
}

type Base struct {
	Position Position
}

func (b Base) Pos() Position { return b.Position }
func (Base) isNode()         {}

// At builds a Base anchored at (line, symbol).
func At(line, symbol int) Base {
	return Base{Position: Position{Line: line, Symbol: symbol}}
}

// Root is the whole parsed file.
type Root struct {
	Base
	Body []Node
}

// Token is an identifier.
type Token struct {
	Base
	Name string
}

// NumericLiteral is an integer (base 10/16/2) or float value.
type NumericLiteral struct {
	Base
	IsFloat    bool
	IntValue   int64
	FloatValue float64
}

// StringLiteral is a quoted string with the quotes stripped.
type StringLiteral struct {
	Base
	Value string
}

// Assignment is "lhs = rhs". Lhs may be a *List for tuple assignment.
type Assignment struct {
	Base
	Lhs Node
	Rhs Node
}

// List is a comma-separated sequence of expressions.
type List struct {
	Base
	Expressions []Node
}

// Call is "called(arguments)".
type Call struct {
	Base
	Called    Node
	Arguments Node
}

// FunctionDefinition is "signature -> returns".
type FunctionDefinition struct {
	Base
	Call    Node
	Returns Node
}

// Break is the #break statement.
type Break struct{ Base }

// Continue is the #continue statement.
type Continue struct{ Base }

// End is the #end statement.
type End struct{ Base }

// Stop is the #stop statement.
type Stop struct{ Base }

// Import is "#import expr".
type Import struct {
	Base
	Expression Node
}

// Wait is "#wait expr".
type Wait struct {
	Base
	Expression Node
}

// Using is "#using expr".
type Using struct {
	Base
	Expression Node
}

// Var is "#var expr".
type Var struct {
	Base
	Expression Node
}

// Return is "#return [expr]"; Expression is nil when omitted.
type Return struct {
	Base
	Expression Node
}

// Def is a "#def ... #enddef" block.
type Def struct {
	Base
	Body []Node
}

// Init is a "#init ... #endinit" block.
type Init struct {
	Base
	Body []Node
}

// Prog is a "#prog ... #endprog" block.
type Prog struct {
	Base
	Body []Node
}

// Link is a "#link ... #endlink" block.
type Link struct {
	Base
	Body []Node
}

// If is a "#if expr ... [#else ...] #endif" block.
type If struct {
	Base
	Expression Node
	Body       []Node
	Body2      []Node
}

// Loop is a "#loop expr ... [#after ...] #endloop" block.
type Loop struct {
	Base
	Expression Node
	Body       []Node
	Body2      []Node
}

// Func is a "#func ... #endfunc" block.
type Func struct {
	Base
	Definition Node
	Body       []Node
}

// Enum is a "#enum ... #endenum" block.
type Enum struct {
	Base
	Definition Node
	Body       []Node
}

// RawFunc is a "#rawfunc ... #endrawfunc" block with a raw-text body.
type RawFunc struct {
	Base
	Definition Node
	Body       string
}

// MLog is a "#mlog ... #endmlog" block with a raw-text body.
type MLog struct {
	Base
	Body string
}

// Block is implemented by node types that accumulate a body of statements.
type Block interface {
	Node
	AppendBody(Node)
}

func (n *Def) AppendBody(c Node)  { n.Body = append(n.Body, c) }
func (n *Init) AppendBody(c Node) { n.Body = append(n.Body, c) }
func (n *Prog) AppendBody(c Node) { n.Body = append(n.Body, c) }
func (n *Link) AppendBody(c Node) { n.Body = append(n.Body, c) }
func (n *Func) AppendBody(c Node) { n.Body = append(n.Body, c) }
func (n *Enum) AppendBody(c Node) { n.Body = append(n.Body, c) }
func (n *If) AppendBody(c Node)   { n.Body = append(n.Body, c) }
func (n *Loop) AppendBody(c Node) { n.Body = append(n.Body, c) }

// ExprBlock is implemented by block node types that also carry a guard
// expression and an alternate body reached via #else/#after.
type ExprBlock interface {
	Block
	SetExpression(Node)
	AppendBody2(Node)
}

func (n *If) SetExpression(e Node) { n.Expression = e }
func (n *If) AppendBody2(c Node)   { n.Body2 = append(n.Body2, c) }

func (n *Loop) SetExpression(e Node) { n.Expression = e }
func (n *Loop) AppendBody2(c Node)   { n.Body2 = append(n.Body2, c) }

// Definer is implemented by node types whose signature is attached after
// the block header has been read (#func, #enum, #rawfunc).
type Definer interface {
	Node
	SetDefinition(Node)
}

func (n *Func) SetDefinition(d Node)    { n.Definition = d }
func (n *Enum) SetDefinition(d Node)    { n.Definition = d }
func (n *RawFunc) SetDefinition(d Node) { n.Definition = d }

// RawBody is implemented by node types whose body is accumulated as raw
// text rather than parsed statements (#mlog, #rawfunc).
type RawBody interface {
	Node
	AppendRaw(string)
}

func (n *MLog) AppendRaw(s string)    { n.Body += s }
func (n *RawFunc) AppendRaw(s string) { n.Body += s }

// ExpressionHolder is implemented by flow-operator node types carrying a
// single, possibly-deferred expression (#import, #wait, #using, #var,
// #return).
type ExpressionHolder interface {
	Node
	SetExpression(Node)
}

func (n *Import) SetExpression(e Node) { n.Expression = e }
func (n *Wait) SetExpression(e Node)   { n.Expression = e }
func (n *Using) SetExpression(e Node)  { n.Expression = e }
func (n *Var) SetExpression(e Node)    { n.Expression = e }
func (n *Return) SetExpression(e Node) { n.Expression = e }
