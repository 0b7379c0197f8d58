package diag

import (
	"reflect"
	"testing"
)

func TestParse_ColonForm(t *testing.T) {
	got := Parse("/p/f.swift:10:5: error: bad thing")

	want := []Diagnostic{{
		FilePath: "/p/f.swift",
		Line:     10,
		Column:   5,
		Severity: SeverityError,
		Message:  "bad thing",
	}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse() = %+v, want %+v", got, want)
	}
}

func TestParse_ColonFormWithoutColumn(t *testing.T) {
	got := Parse("main.c:42: warning: unused variable 'x'")

	if len(got) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(got))
	}
	d := got[0]
	if d.FilePath != "main.c" || d.Line != 42 || d.Column != 0 {
		t.Errorf("location = %s:%d:%d, want main.c:42:0", d.FilePath, d.Line, d.Column)
	}
	if d.Severity != SeverityWarning {
		t.Errorf("severity = %v, want warning", d.Severity)
	}
}

func TestParse_TypeScriptForm(t *testing.T) {
	got := Parse("src/app.ts(10,5): error TS2322: Type 'string' is not assignable to type 'number'.")

	if len(got) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(got))
	}
	d := got[0]
	if d.FilePath != "src/app.ts" || d.Line != 10 || d.Column != 5 {
		t.Errorf("location = %s:%d:%d, want src/app.ts:10:5", d.FilePath, d.Line, d.Column)
	}
	if d.Message != "Type 'string' is not assignable to type 'number'." {
		t.Errorf("message = %q", d.Message)
	}
}

func TestParse_RustTwoLineForm(t *testing.T) {
	got := Parse("error[E0308]: mismatched types\n --> src/main.rs:10:5")

	if len(got) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(got))
	}
	d := got[0]
	if d.FilePath != "src/main.rs" || d.Line != 10 || d.Column != 5 {
		t.Errorf("location = %s:%d:%d, want src/main.rs:10:5", d.FilePath, d.Line, d.Column)
	}
	if d.Severity != SeverityError {
		t.Errorf("severity = %v, want error", d.Severity)
	}
	if d.Message != "mismatched types" {
		t.Errorf("message = %q, want %q", d.Message, "mismatched types")
	}
}

func TestParse_RustHeaderDiscardedByInterveningLine(t *testing.T) {
	got := Parse("error[E0308]: mismatched types\nsome unrelated output\n --> src/main.rs:10:5")

	if len(got) != 0 {
		t.Errorf("expected no diagnostics, got %+v", got)
	}
}

func TestParse_RustHeaderSurvivesBlankAndContinuationLines(t *testing.T) {
	input := "warning: unused import\n\n= note: disable with #[allow(unused)]\n --> src/lib.rs:3:1"
	got := Parse(input)

	if len(got) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(got))
	}
	if got[0].Severity != SeverityWarning {
		t.Errorf("severity = %v, want warning", got[0].Severity)
	}
	if got[0].Line != 3 || got[0].Column != 1 {
		t.Errorf("location = %d:%d, want 3:1", got[0].Line, got[0].Column)
	}
}

func TestParse_UnknownSeverityDefaultsToError(t *testing.T) {
	got := Parse("/p/f.c:1:1: catastrophe: it broke")

	if len(got) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(got))
	}
	if got[0].Severity != SeverityError {
		t.Errorf("severity = %v, want error", got[0].Severity)
	}
}

func TestParse_MultipleDiagnostics(t *testing.T) {
	input := `compiling...
/a/b.swift:1:2: error: first
/a/b.swift:3:4: warning: second
done
`
	got := Parse(input)

	if len(got) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", len(got))
	}
	if got[0].Message != "first" || got[1].Message != "second" {
		t.Errorf("messages = %q, %q", got[0].Message, got[1].Message)
	}
	if got[1].Severity != SeverityWarning {
		t.Errorf("second severity = %v, want warning", got[1].Severity)
	}
}

func TestParse_UnrecognizedOutputYieldsNothing(t *testing.T) {
	inputs := []string{
		"",
		"Build succeeded.\nAll good.",
		"12:30:05 starting build",
	}
	for _, input := range inputs {
		if got := Parse(input); len(got) != 0 {
			t.Errorf("Parse(%q) = %+v, want empty", input, got)
		}
	}
}

func TestParse_ZeroLineRejected(t *testing.T) {
	if got := Parse("/p/f.c:0:1: error: nope"); len(got) != 0 {
		t.Errorf("line 0 should reject the line, got %+v", got)
	}
}

func TestParse_Pure(t *testing.T) {
	input := "/p/f.swift:10:5: error: bad thing\nerror[E0308]: x\n --> a.rs:1:1"
	first := Parse(input)
	second := Parse(input)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Parse is not pure: %+v vs %+v", first, second)
	}
}

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		token string
		want  Severity
	}{
		{"error", SeverityError},
		{"Error", SeverityError},
		{"warning", SeverityWarning},
		{"WARNING", SeverityWarning},
		{"note", SeverityNote},
		{"remark", SeverityNote},
		{"banana", SeverityError},
		{"", SeverityError},
	}

	for _, tc := range tests {
		if got := ParseSeverity(tc.token); got != tc.want {
			t.Errorf("ParseSeverity(%q) = %v, want %v", tc.token, got, tc.want)
		}
	}
}
