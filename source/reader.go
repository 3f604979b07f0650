// Package source implements the single-character stream with position
// tracking that the piece lexer reads from (spec §4.1).
package source

import (
	"bufio"
	"io"

	"github.com/dhamidi/mproc/position"
)

// EOF is the symbol returned once the underlying reader is exhausted.
// Reading past EOF is idempotent.
const EOF = 0

// Reader tracks a one-past-read cursor (LineEnd, SymbolEnd) over an
// io.Reader, advancing LineEnd lazily: the increment happens on the read
// that follows a newline, not on the newline itself.
type Reader struct {
	file *bufio.Reader

	LineEnd   int
	SymbolEnd int

	lastWasNewline bool
	atEOF          bool
}

// New wraps r for character-at-a-time reading with line/column tracking.
func New(r io.Reader) *Reader {
	return &Reader{
		file:      bufio.NewReader(r),
		LineEnd:   1,
		SymbolEnd: 0,
	}
}

// ReadSymbol yields the next byte, or EOF once the stream is exhausted.
// EOF characters never advance the column, and reading past EOF always
// returns EOF again.
func (r *Reader) ReadSymbol() byte {
	var b byte
	ok := false
	if !r.atEOF {
		var err error
		b, err = r.file.ReadByte()
		if err != nil {
			r.atEOF = true
		} else {
			ok = true
		}
	}

	if r.lastWasNewline {
		r.LineEnd++
		r.SymbolEnd = 0
	}

	if ok {
		r.SymbolEnd++
	}

	r.lastWasNewline = ok && b == '\n'

	if !ok {
		return EOF
	}
	return b
}

// NextPosition reports where the next-read character will land, without
// consuming it: one past the previous End, or (LineEnd+1, 1) if the last
// character read was a newline.
func (r *Reader) NextPosition() position.Position {
	if r.lastWasNewline {
		return position.Position{Line: r.LineEnd + 1, Symbol: 1}
	}
	return position.Position{Line: r.LineEnd, Symbol: r.SymbolEnd + 1}
}

// EndPosition reports the position just after the most recently read
// character.
func (r *Reader) EndPosition() position.Position {
	return position.Position{Line: r.LineEnd, Symbol: r.SymbolEnd}
}
