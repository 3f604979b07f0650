package diagnostics

import "testing"

func TestDiagnosticErrorWithoutDetail(t *testing.T) {
	d := New("main.mproc", 3, 7, UnexpectedEOF)
	want := `SyntaxError in main.mproc:3:7: unexpected end of file`
	if got := d.Error(); got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestDiagnosticErrorWithDetail(t *testing.T) {
	d := Newf("main.mproc", 1, 1, InvalidFlowOperator, "nope")
	want := `SyntaxError in main.mproc:1:1: invalid flow operator: "nope"`
	if got := d.Error(); got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestKindStringCoversAllKinds(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{UnexpectedSymbol, "unexpected symbol"},
		{UnexpectedFlowOperator, "unexpected flow operator"},
		{InvalidFlowOperator, "invalid flow operator"},
		{TokenExpected, "token expected"},
		{UnexpectedEOF, "unexpected end of file"},
		{InvalidStringLiteral, "invalid string literal"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("%v.String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
