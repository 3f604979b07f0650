// Package lexer implements the piece lexer (spec §4.2): a single routine,
// parameter-driven by the current parse context, that reads one "piece" of
// raw characters (or exactly N characters in fixed-length mode) terminated
// by a delimiter, while also handling inline comment and string sub-modes.
package lexer

import (
	"github.com/dhamidi/mproc/diagnostics"
	"github.com/dhamidi/mproc/position"
	"github.com/dhamidi/mproc/source"
)

// DelimiterSet is the set of bytes that terminate a piece. The EOF marker
// is a member of every delimiter set, regardless of whether it is listed
// here.
type DelimiterSet map[byte]bool

// NewDelimiterSet builds a DelimiterSet from the given bytes.
func NewDelimiterSet(bytes ...byte) DelimiterSet {
	s := make(DelimiterSet, len(bytes))
	for _, b := range bytes {
		s[b] = true
	}
	return s
}

// Params are the lexer knobs supplied by the current parse context.
type Params struct {
	Delimiters       DelimiterSet
	AllowSpaces      bool
	EndlAsWhitespace bool
	ExactSymbols     int
}

// isHeadWhitespace reports whitespace skipped by AllowSpaces, excluding
// newline unless EndlAsWhitespace requests otherwise.
func isHeadWhitespace(b byte, isEOF bool, endlAsWhitespace bool) bool {
	if isEOF {
		return false
	}
	switch b {
	case ' ', '\t', '\r', '\v', '\f':
		return true
	case '\n':
		return endlAsWhitespace
	default:
		return false
	}
}

// Piece is the result of one ReadPiece call: the accumulated text and the
// delimiter that stopped accumulation.
type Piece struct {
	Text string

	// DelimEOF is true when the piece was stopped by end of file.
	DelimEOF bool
	// DelimNone is true when ExactSymbols mode was used: there is no
	// terminating delimiter character.
	DelimNone bool
	// Delim is the terminating character; valid only when DelimEOF and
	// DelimNone are both false.
	Delim byte
}

// Lexer reads pieces from a source.Reader.
type Lexer struct {
	r    *source.Reader
	file string

	startPos position.Position
}

// New creates a Lexer reading from r, attributing diagnostics to file.
func New(r *source.Reader, file string) *Lexer {
	return &Lexer{r: r, file: file}
}

// StartPosition is the position of the first character of the
// most-recently-read piece.
func (l *Lexer) StartPosition() position.Position { return l.startPos }

// EndPosition is the position just after the most recently consumed
// character.
func (l *Lexer) EndPosition() position.Position { return l.r.EndPosition() }

func (l *Lexer) errAt(pos position.Position, kind diagnostics.Kind) *diagnostics.Diagnostic {
	return diagnostics.New(l.file, pos.Line, pos.Symbol, kind)
}

func (l *Lexer) errfAt(pos position.Position, kind diagnostics.Kind, detail string) *diagnostics.Diagnostic {
	return diagnostics.Newf(l.file, pos.Line, pos.Symbol, kind, detail)
}

func in(set DelimiterSet, b byte, isEOF bool) bool {
	if isEOF {
		return true
	}
	return set[b]
}

// read pulls the next symbol off the reader, reporting whether it was EOF.
func (l *Lexer) read() (byte, bool) {
	b := l.r.ReadSymbol()
	return b, b == source.EOF
}

// skipHeadSpaces consumes whitespace, updating startPos after each skipped
// character, and returns the first non-whitespace symbol read (or EOF).
func (l *Lexer) skipHeadSpaces(endlAsWhitespace bool) (byte, bool) {
	for {
		b, isEOF := l.read()
		l.startPos = l.r.EndPosition()
		if !isHeadWhitespace(b, isEOF, endlAsWhitespace) {
			return b, isEOF
		}
	}
}

// ReadPiece reads the next piece of code per the given Params.
func (l *Lexer) ReadPiece(p Params) (Piece, error) {
	l.startPos = l.r.NextPosition()

	if p.ExactSymbols > 0 {
		text := make([]byte, 0, p.ExactSymbols)
		for i := 0; i < p.ExactSymbols; i++ {
			b, isEOF := l.read()
			if !isEOF {
				text = append(text, b)
			}
		}
		return Piece{Text: string(text), DelimNone: true}, nil
	}

	var c byte
	var isEOF bool
	if p.AllowSpaces {
		c, isEOF = l.skipHeadSpaces(p.EndlAsWhitespace)
	} else {
		c, isEOF = l.read()
	}

	var piece []byte
	isStringLiteral := false
	firstTime := false
	oldDelimiters := p.Delimiters
	delimiters := p.Delimiters

	if !isEOF && c == '"' {
		delimiters = NewDelimiterSet('\n', '"')
		isStringLiteral = true
		firstTime = true
	}

	isComment := false
	emptyDelimiters := DelimiterSet{}

	for firstTime || !in(delimiters, c, isEOF) {
		firstTime = false

		switch {
		case !isEOF && c == '/' && !isStringLiteral:
			isComment = true
			delimiters = emptyDelimiters // only EOF stops comment accumulation

		case isComment && !isEOF && c == '\n':
			if in(oldDelimiters, c, false) && (!p.EndlAsWhitespace || len(piece) > 0) {
				return Piece{Text: string(piece), Delim: c}, nil
			}
			delimiters = oldDelimiters
			isComment = false
			if p.AllowSpaces {
				c, isEOF = l.skipHeadSpaces(p.EndlAsWhitespace)
			}
			continue
		}

		if !isComment {
			piece = append(piece, c)
		}
		c, isEOF = l.read()
	}

	if isStringLiteral && !(c == '"') {
		return Piece{}, l.errAt(l.startPos, diagnostics.UnexpectedEOF)
	}

	if isStringLiteral {
		piece = append(piece, c)
		c, isEOF = l.read()
		if !in(oldDelimiters, c, isEOF) {
			piece = append(piece, c)
			return Piece{}, l.errfAt(l.startPos, diagnostics.InvalidStringLiteral, string(piece))
		}
		return Piece{Text: string(piece), Delim: c, DelimEOF: isEOF}, nil
	}

	return Piece{Text: string(piece), Delim: c, DelimEOF: isEOF}, nil
}
