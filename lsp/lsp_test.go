package lsp

import (
	"testing"

	"github.com/dhamidi/mproc/diagnostics"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func TestURIToPath(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"file:///home/user/main.mproc", "/home/user/main.mproc"},
		{"main.mproc", "main.mproc"},
	}
	for _, tt := range tests {
		got, err := uriToPath(tt.uri)
		if err != nil {
			t.Fatalf("uriToPath(%q): %v", tt.uri, err)
		}
		if got != tt.want {
			t.Errorf("uriToPath(%q) = %q, want %q", tt.uri, got, tt.want)
		}
	}
}

func TestToProtocolDiagnosticConvertsToZeroBasedRange(t *testing.T) {
	d := diagnostics.Newf("main.mproc", 3, 5, diagnostics.InvalidFlowOperator, "nope")
	pd := toProtocolDiagnostic(d)

	if pd.Range.Start.Line != 2 || pd.Range.Start.Character != 4 {
		t.Fatalf("Start = %#v, want (2,4)", pd.Range.Start)
	}
	if pd.Severity == nil || *pd.Severity != protocol.DiagnosticSeverityError {
		t.Fatalf("Severity = %#v, want Error", pd.Severity)
	}
	want := `invalid flow operator: "nope"`
	if pd.Message != want {
		t.Fatalf("Message = %q, want %q", pd.Message, want)
	}
}
