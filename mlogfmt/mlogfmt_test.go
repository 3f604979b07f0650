package mlogfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/dhamidi/mproc/parser"
)

func TestJSONEncoderRoundTripsShape(t *testing.T) {
	root, err := parser.Parse(strings.NewReader("a = 1\n"), "test.mproc")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	var buf bytes.Buffer
	if err := NewJSONEncoder(&buf).Encode(root); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var decoded jsonNode
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v (output: %s)", err, buf.String())
	}
	if decoded.Kind != "Root" {
		t.Fatalf("Kind = %q, want Root", decoded.Kind)
	}
	if len(decoded.Children) != 1 {
		t.Fatalf("Children = %#v, want 1 entry", decoded.Children)
	}
	assignment := decoded.Children[0]
	if assignment.Kind != "Assignment" {
		t.Fatalf("Children[0].Kind = %q, want Assignment", assignment.Kind)
	}
	if len(assignment.Children) != 2 {
		t.Fatalf("Assignment.Children = %#v, want lhs+rhs", assignment.Children)
	}
	if assignment.Children[0].Role != "lhs" || assignment.Children[0].Kind != "Token" {
		t.Fatalf("Children[0] = %#v, want lhs Token", assignment.Children[0])
	}
	if assignment.Children[1].Role != "rhs" || assignment.Children[1].Kind != "NumericLiteral" {
		t.Fatalf("Children[1] = %#v, want rhs NumericLiteral", assignment.Children[1])
	}
}

func TestTreeEncoderIndentsByDepth(t *testing.T) {
	root, err := parser.Parse(strings.NewReader("a = 1\n"), "test.mproc")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	var buf bytes.Buffer
	if err := NewTreeEncoder(&buf).Encode(root); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("lines = %#v, want 4 (Root, body[0]:Assignment, lhs, rhs)", lines)
	}
	if !strings.HasPrefix(lines[0], "Root ") {
		t.Fatalf("line 0 = %q, want Root prefix", lines[0])
	}
	if !strings.HasPrefix(lines[1], "  body[0]: Assignment ") {
		t.Fatalf("line 1 = %q, want indented Assignment under body[0]", lines[1])
	}
	if !strings.HasPrefix(lines[2], "    lhs: Token a ") {
		t.Fatalf("line 2 = %q, want doubly-indented lhs Token", lines[2])
	}
	if !strings.HasPrefix(lines[3], "    rhs: NumericLiteral 1 ") {
		t.Fatalf("line 3 = %q, want doubly-indented rhs NumericLiteral", lines[3])
	}
}

func TestTreeEncoderRendersMLogLabel(t *testing.T) {
	root, err := parser.Parse(strings.NewReader("#mlog\nset x 1\n#endmlog\n"), "test.mproc")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	var buf bytes.Buffer
	if err := NewTreeEncoder(&buf).Encode(root); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(buf.String(), "MLog set x 1\n") {
		t.Fatalf("output = %q, want it to contain the raw body as a label", buf.String())
	}
}
