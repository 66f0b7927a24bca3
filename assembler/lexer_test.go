package assembler

import "testing"

func TestScanPreservesLineNumbers(t *testing.T) {
	src := "function main():\n  // a comment\nsetreg [1] [2] []\n\n#memory boot:\n"
	lines := Scan(src)
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d", len(lines))
	}
	if lines[1].Text != "" {
		t.Errorf("line 2 should be blank after comment strip, got %q", lines[1].Text)
	}
	if lines[2].Number != 3 {
		t.Errorf("expected line number 3, got %d", lines[2].Number)
	}
}

func TestClassifyHeaders(t *testing.T) {
	cases := []struct {
		text string
		kind lineKind
		name string
	}{
		{"function main():", lineFunctionHeader, "main"},
		{"#memory boot:", lineMemoryHeader, "boot"},
		{"#macro SIZE 0x10", lineMacroDecl, ""},
		{"setreg [1] [2] []", lineContent, ""},
		{"", lineBlank, ""},
	}
	for _, c := range cases {
		cl := classify(SourceLine{Number: 1, Text: c.text})
		if cl.kind != c.kind {
			t.Errorf("classify(%q) kind = %v, want %v", c.text, cl.kind, c.kind)
		}
		if c.name != "" && cl.blockName != c.name {
			t.Errorf("classify(%q) blockName = %q, want %q", c.text, cl.blockName, c.name)
		}
	}
}

func TestSplitAlias(t *testing.T) {
	body, alias := splitAlias(`setreg [1] [2] [] #alias entry`)
	if body != "setreg [1] [2] []" {
		t.Errorf("body = %q", body)
	}
	if alias != "entry" {
		t.Errorf("alias = %q", alias)
	}

	body, alias = splitAlias(`setreg [1] [2] []`)
	if alias != "" {
		t.Errorf("expected no alias, got %q", alias)
	}
	if body != "setreg [1] [2] []" {
		t.Errorf("body = %q", body)
	}
}
