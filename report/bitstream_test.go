package report_test

import (
	"strings"
	"testing"

	"github.com/polyasm-dev/polyasm/assembler"
	"github.com/polyasm-dev/polyasm/report"
)

func TestBitstringFormatsNibbleGroups(t *testing.T) {
	src := `function main():
setreg [1] [2] []
`
	res, diags := assembler.Assemble(src, assembler.DefaultConfig())
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.Items())
	}
	out := report.Bitstring(res)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %q", len(lines), out)
	}
	groups := strings.Split(lines[0], " ")
	if len(groups) != 8 {
		t.Fatalf("expected 8 nibble groups, got %d", len(groups))
	}
	for _, g := range groups {
		if len(g) != 4 {
			t.Errorf("nibble group %q should be 4 characters", g)
		}
	}
}

func TestBitstringAscendingAddressOrder(t *testing.T) {
	src := `function a():
setreg [] [] []

function b():
add [] [] []

#memory m:
"0x01", "0x02", "0x03", "0x04"
`
	cfg := assembler.DefaultConfig()
	res, diags := assembler.Assemble(src, cfg)
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.Items())
	}
	out := report.Bitstring(res)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	want := []string{
		"0000 0010 0000 0000 0000 0000 0000 0000", // setreg at address 0
		"0000 0100 0000 0000 0000 0000 0000 0000", // add at address 1
		"0000 0001 0000 0010 0000 0011 0000 0100", // data row at address 0x50
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}
