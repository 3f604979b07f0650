package source

import (
	"strings"
	"testing"
)

type readerStep struct {
	sym  byte
	line int
	col  int
}

func TestReaderPositionTracking(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []readerStep
	}{
		{
			name:  "single line",
			input: "ab",
			want: []readerStep{
				{'a', 1, 1},
				{'b', 1, 2},
				{EOF, 1, 2},
			},
		},
		{
			name:  "newline resets column",
			input: "a\nb",
			want: []readerStep{
				{'a', 1, 1},
				{'\n', 1, 2},
				{'b', 2, 1},
				{EOF, 2, 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(strings.NewReader(tt.input))
			for i, w := range tt.want {
				got := r.ReadSymbol()
				if got != w.sym {
					t.Fatalf("step %d: ReadSymbol() = %q, want %q", i, got, w.sym)
				}
				if r.LineEnd != w.line || r.SymbolEnd != w.col {
					t.Fatalf("step %d: position = (%d,%d), want (%d,%d)", i, r.LineEnd, r.SymbolEnd, w.line, w.col)
				}
			}
		})
	}
}

func TestReaderEOFIdempotent(t *testing.T) {
	r := New(strings.NewReader(""))
	for i := 0; i < 3; i++ {
		if got := r.ReadSymbol(); got != EOF {
			t.Fatalf("read %d: got %q, want EOF", i, got)
		}
	}
}
