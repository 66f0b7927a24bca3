package assembler

import (
	"fmt"
	"strings"
)

// BlockKind distinguishes the two block forms a program is built from.
type BlockKind int

const (
	BlockFunction BlockKind = iota
	BlockMemory
)

// InstructionStmt is one instruction line inside a function block: an
// opcode mnemonic and its three raw parameter cells, not yet parsed into
// expression trees.
type InstructionStmt struct {
	Line      uint32
	Opcode    string
	RawParams [3]string
	Alias     string
}

// DataRow is one data line inside a memory block: four raw cells, not yet
// parsed into expression trees.
type DataRow struct {
	Line     uint32
	RawCells [4]string
	Alias    string
}

// Block is the tagged union over §4.2's two block forms. Kind selects which
// of Instructions/Rows is populated.
type Block struct {
	Kind         BlockKind
	Name         string
	HeaderLine   uint32
	Instructions []InstructionStmt
	Rows         []DataRow
}

// ParseBlocks walks classified lines top to bottom, opening a new Block at
// each header and closing it at the next header, a blank line, or EOF, and
// raising parse_error diagnostics for content outside any block or content
// that doesn't match the shape its enclosing block expects.
func ParseBlocks(lines []SourceLine, diags *Diagnostics) []Block {
	var blocks []Block
	var cur *Block
	seenFunction := map[string]uint32{}
	seenMemory := map[string]uint32{}

	closeCur := func() {
		if cur != nil {
			blocks = append(blocks, *cur)
			cur = nil
		}
	}

	for _, sl := range lines {
		cl := classify(sl)

		switch cl.kind {
		case lineBlank:
			closeCur()

		case lineMacroDecl:
			closeCur()
			// Macro declarations are collected directly by the symbol table
			// builder from the original line list; ParseBlocks only needs to
			// make sure they don't get swallowed as block content.

		case lineFunctionHeader:
			closeCur()
			if cl.blockName == "" {
				diags.Add(DiagParseError, SevError, sl.Number, "malformed function header %q", sl.Text)
				continue
			}
			if prev, dup := seenFunction[cl.blockName]; dup {
				diags.Add(DiagParseError, SevError, sl.Number, "duplicate function %q (first declared line %d)", cl.blockName, prev)
			}
			seenFunction[cl.blockName] = sl.Number
			b := Block{Kind: BlockFunction, Name: cl.blockName, HeaderLine: sl.Number}
			cur = &b

		case lineMemoryHeader:
			closeCur()
			if cl.blockName == "" {
				diags.Add(DiagParseError, SevError, sl.Number, "malformed memory header %q", sl.Text)
				continue
			}
			if prev, dup := seenMemory[cl.blockName]; dup {
				diags.Add(DiagParseError, SevError, sl.Number, "duplicate memory block %q (first declared line %d)", cl.blockName, prev)
			}
			seenMemory[cl.blockName] = sl.Number
			b := Block{Kind: BlockMemory, Name: cl.blockName, HeaderLine: sl.Number}
			cur = &b

		case lineContent:
			if cur == nil {
				diags.Add(DiagParseError, SevError, sl.Number, "statement outside any function or memory block: %q", sl.Text)
				continue
			}
			switch cur.Kind {
			case BlockFunction:
				stmt, err := parseInstructionLine(cl)
				if err != nil {
					diags.Add(DiagParseError, SevError, sl.Number, "%s", err.Error())
					continue
				}
				cur.Instructions = append(cur.Instructions, stmt)
			case BlockMemory:
				row, err := parseDataRowLine(cl)
				if err != nil {
					diags.Add(DiagParseError, SevError, sl.Number, "%s", err.Error())
					continue
				}
				cur.Rows = append(cur.Rows, row)
			}
		}
	}
	closeCur()
	return blocks
}

// parseInstructionLine splits a function-block content line into its
// opcode mnemonic and up to three whitespace-separated bracket cells, per
// §4.1's "<opcode> [<cell>] [<cell>] [<cell>]" instruction syntax.
func parseInstructionLine(cl classifiedLine) (InstructionStmt, error) {
	fields := strings.Fields(cl.body)
	if len(fields) == 0 {
		return InstructionStmt{}, fmt.Errorf("malformed instruction %q", cl.body)
	}
	opcode := fields[0]
	cells := fields[1:]
	if len(cells) > 3 {
		return InstructionStmt{}, fmt.Errorf("instruction %q has more than 3 parameter cells", cl.body)
	}
	for _, c := range cells {
		if !strings.HasPrefix(c, "[") || !strings.HasSuffix(c, "]") {
			return InstructionStmt{}, fmt.Errorf("malformed cell %q in instruction %q", c, cl.body)
		}
	}
	stmt := InstructionStmt{Line: cl.source.Number, Opcode: opcode, Alias: cl.alias}
	for i := 0; i < 3 && i < len(cells); i++ {
		stmt.RawParams[i] = cells[i]
	}
	for i := len(cells); i < 3; i++ {
		stmt.RawParams[i] = "[]"
	}
	return stmt, nil
}

// parseDataRowLine splits a memory-block content line into its four cells,
// comma-separated per §4.1's data row syntax.
func parseDataRowLine(cl classifiedLine) (DataRow, error) {
	parts := splitTopLevel(cl.body, ',')
	if len(parts) != 4 {
		return DataRow{}, fmt.Errorf("data row must have 4 cells, got %d: %q", len(parts), cl.body)
	}
	row := DataRow{Line: cl.source.Number, Alias: cl.alias}
	for i := 0; i < 4; i++ {
		row.RawCells[i] = strings.TrimSpace(parts[i])
	}
	return row, nil
}

// splitTopLevel splits s on sep, ignoring separators found inside double
// quotes so a quoted arithmetic cell can safely contain commas in its
// source text (it never does per §4.5, but this keeps the split honest).
func splitTopLevel(s string, sep rune) []string {
	var parts []string
	var cur strings.Builder
	inQuotes := false
	for _, r := range s {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			cur.WriteRune(r)
		case r == sep && !inQuotes:
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	parts = append(parts, cur.String())
	return parts
}
