package assembler

import "testing"

func TestParseBlocksFunctionAndMemory(t *testing.T) {
	src := `function main():
setreg [1] [2] [] #alias entry
add [1] [2] [3]

#memory boot:
"0x18", "0x23", "0x12", "0x11" #alias bootrow
`
	diags := &Diagnostics{}
	lines := Scan(src)
	blocks := ParseBlocks(lines, diags)
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.Items())
	}
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	fn := blocks[0]
	if fn.Kind != BlockFunction || fn.Name != "main" || len(fn.Instructions) != 2 {
		t.Fatalf("unexpected function block: %+v", fn)
	}
	if fn.Instructions[0].Alias != "entry" {
		t.Errorf("expected alias 'entry', got %q", fn.Instructions[0].Alias)
	}

	mem := blocks[1]
	if mem.Kind != BlockMemory || mem.Name != "boot" || len(mem.Rows) != 1 {
		t.Fatalf("unexpected memory block: %+v", mem)
	}
	if mem.Rows[0].Alias != "bootrow" {
		t.Errorf("expected alias 'bootrow', got %q", mem.Rows[0].Alias)
	}
}

func TestParseBlocksDuplicateFunctionReportsParseError(t *testing.T) {
	src := `function main():
setreg [] [] []

function main():
add [] [] []
`
	diags := &Diagnostics{}
	blocks := ParseBlocks(Scan(src), diags)
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks despite duplicate name, got %d", len(blocks))
	}
	found := false
	for _, d := range diags.Items() {
		if d.Kind == DiagParseError {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a parse_error diagnostic for duplicate function name")
	}
}

func TestParseBlocksStatementOutsideBlock(t *testing.T) {
	src := "setreg [] [] []\n"
	diags := &Diagnostics{}
	ParseBlocks(Scan(src), diags)
	if !diags.HasErrors() {
		t.Errorf("expected a parse_error for statement outside any block")
	}
}
