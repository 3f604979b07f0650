package lexer

import (
	"strconv"
	"strings"

	"github.com/dhamidi/mproc/diagnostics"
	"github.com/dhamidi/mproc/syntaxtree"
)

// ParseToken classifies a non-empty piece into a StringLiteral,
// NumericLiteral or Token node (spec §4.4), positioned at the start of the
// most-recently-read piece. An empty piece is a TokenExpected diagnostic.
func (l *Lexer) ParseToken(piece string) (syntaxtree.Node, error) {
	pos := l.startPos

	if piece == "" {
		return nil, l.errAt(pos, diagnostics.TokenExpected)
	}

	base := syntaxtree.At(pos.Line, pos.Symbol)

	if len(piece) >= 2 && strings.HasPrefix(piece, `"`) && strings.HasSuffix(piece, `"`) {
		return &syntaxtree.StringLiteral{Base: base, Value: piece[1 : len(piece)-1]}, nil
	}

	if v, ok := parseInt(piece); ok {
		return &syntaxtree.NumericLiteral{Base: base, IntValue: v}, nil
	}

	if f, ok := parseFloat(piece); ok {
		return &syntaxtree.NumericLiteral{Base: base, IsFloat: true, FloatValue: f}, nil
	}

	return &syntaxtree.Token{Base: base, Name: piece}, nil
}

func parseInt(piece string) (int64, bool) {
	base := 10
	digits := piece
	switch {
	case strings.HasPrefix(piece, "0x"):
		base = 16
		digits = piece[2:]
	case strings.HasPrefix(piece, "0b"):
		base = 2
		digits = piece[2:]
	}
	if digits == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(digits, base, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseFloat(piece string) (float64, bool) {
	text := piece
	if strings.HasSuffix(text, ".") {
		text = text[:len(text)-1]
	}
	if text == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
