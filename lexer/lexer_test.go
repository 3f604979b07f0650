package lexer

import (
	"strings"
	"testing"

	"github.com/dhamidi/mproc/source"
)

func newLexer(t *testing.T, input string) *Lexer {
	t.Helper()
	return New(source.New(strings.NewReader(input)), "test.mproc")
}

func defaultDelims() DelimiterSet {
	return NewDelimiterSet(' ', '\t', '#', '\n', '=', ',', '(', ')')
}

func TestReadPieceAccumulatesUntilDelimiter(t *testing.T) {
	l := newLexer(t, "hello=world")
	piece, err := l.ReadPiece(Params{Delimiters: defaultDelims(), AllowSpaces: true})
	if err != nil {
		t.Fatalf("ReadPiece: %v", err)
	}
	if piece.Text != "hello" || piece.Delim != '=' || piece.DelimEOF {
		t.Fatalf("piece = %#v, want {hello, '='}", piece)
	}
}

func TestReadPieceSkipsLeadingSpaces(t *testing.T) {
	l := newLexer(t, "   value\n")
	piece, err := l.ReadPiece(Params{Delimiters: defaultDelims(), AllowSpaces: true})
	if err != nil {
		t.Fatalf("ReadPiece: %v", err)
	}
	if piece.Text != "value" || piece.Delim != '\n' {
		t.Fatalf("piece = %#v, want {value, '\\n'}", piece)
	}
}

func TestReadPieceReportsEOF(t *testing.T) {
	l := newLexer(t, "tail")
	piece, err := l.ReadPiece(Params{Delimiters: defaultDelims(), AllowSpaces: true})
	if err != nil {
		t.Fatalf("ReadPiece: %v", err)
	}
	if piece.Text != "tail" || !piece.DelimEOF {
		t.Fatalf("piece = %#v, want {tail, EOF}", piece)
	}
}

func TestReadPieceStringLiteral(t *testing.T) {
	l := newLexer(t, `"hello world",`)
	piece, err := l.ReadPiece(Params{Delimiters: defaultDelims(), AllowSpaces: true})
	if err != nil {
		t.Fatalf("ReadPiece: %v", err)
	}
	if piece.Text != `"hello world"` || piece.Delim != ',' {
		t.Fatalf("piece = %#v, want {\"hello world\", ','}", piece)
	}
}

func TestReadPieceUnterminatedStringIsEOFError(t *testing.T) {
	l := newLexer(t, `"hello`)
	_, err := l.ReadPiece(Params{Delimiters: defaultDelims(), AllowSpaces: true})
	if err == nil {
		t.Fatal("ReadPiece() = nil error, want UnexpectedEOF")
	}
}

func TestReadPieceSkipsLineComment(t *testing.T) {
	l := newLexer(t, "/ comment line\nvalue\n")

	// The comment's own trailing newline is itself a delimiter, so it ends
	// the (empty) piece that precedes "value".
	piece, err := l.ReadPiece(Params{Delimiters: defaultDelims(), AllowSpaces: true})
	if err != nil {
		t.Fatalf("ReadPiece: %v", err)
	}
	if piece.Text != "" || piece.Delim != '\n' {
		t.Fatalf("piece = %#v, want {'', '\\n'} (comment consumed)", piece)
	}

	piece, err = l.ReadPiece(Params{Delimiters: defaultDelims(), AllowSpaces: true})
	if err != nil {
		t.Fatalf("ReadPiece: %v", err)
	}
	if piece.Text != "value" || piece.Delim != '\n' {
		t.Fatalf("piece = %#v, want {value, '\\n'}", piece)
	}
}

func TestReadPieceExactSymbols(t *testing.T) {
	l := newLexer(t, ">rest")
	piece, err := l.ReadPiece(Params{ExactSymbols: 1})
	if err != nil {
		t.Fatalf("ReadPiece: %v", err)
	}
	if piece.Text != ">" || !piece.DelimNone {
		t.Fatalf("piece = %#v, want {>, DelimNone}", piece)
	}

	piece, err = l.ReadPiece(Params{Delimiters: defaultDelims(), AllowSpaces: true})
	if err != nil {
		t.Fatalf("ReadPiece: %v", err)
	}
	if piece.Text != "rest" || !piece.DelimEOF {
		t.Fatalf("piece = %#v, want {rest, EOF}", piece)
	}
}

func TestReadPieceEndlAsWhitespace(t *testing.T) {
	l := newLexer(t, "a\n\n  = 1\n")
	piece, err := l.ReadPiece(Params{Delimiters: defaultDelims(), AllowSpaces: true})
	if err != nil {
		t.Fatalf("ReadPiece: %v", err)
	}
	if piece.Text != "a" || piece.Delim != '\n' {
		t.Fatalf("piece = %#v, want {a, '\\n'}", piece)
	}

	piece, err = l.ReadPiece(Params{Delimiters: defaultDelims(), AllowSpaces: true, EndlAsWhitespace: true})
	if err != nil {
		t.Fatalf("ReadPiece: %v", err)
	}
	if piece.Text != "" || piece.Delim != '=' {
		t.Fatalf("piece = %#v, want {'', '='} (newline treated as whitespace)", piece)
	}
}
