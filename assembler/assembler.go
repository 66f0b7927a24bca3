// Package assembler implements the PolyAsm assembly pipeline: lexing,
// block parsing, symbol resolution, address layout, multi-pass cell
// resolution, and bit-field encoding.
package assembler

// Result is everything the report package needs to render bitstring,
// readable, log, and summary output. It is produced once per run and never
// mutated afterward.
type Result struct {
	CodeWords []EncodedInstruction
	DataWords []EncodedRow

	Functions map[string]*FunctionEntry
	Memories  map[string]*MemoryEntry
	Macros    map[string]MacroEntry
	Aliases   map[string]*AliasEntry

	AliasesByAddress map[uint32][]string

	CodeStart uint32
	CodeSize  uint32
	DataStart uint32
	DataSize  uint32
}

// Assemble runs the full pipeline on source text under cfg: a pure
// function from (source, config) to (result, diagnostics), per §5. No
// component here performs I/O; the caller reads the input and writes
// outputs at the process boundary.
func Assemble(source string, cfg Config) (*Result, *Diagnostics) {
	diags := &Diagnostics{}

	if err := cfg.Validate(); err != nil {
		diags.Add(DiagWidthConfig, SevError, 0, "%s", err.Error())
		diags.Sort()
		return nil, diags
	}

	lines := Scan(source)
	blocks := ParseBlocks(lines, diags)
	st := BuildSymbolTable(lines, blocks, diags)
	AllocateLayout(blocks, cfg, st, diags)

	instrs, rows := Resolve(blocks, st, diags)
	encInstrs, encRows := Encode(blocks, instrs, rows, cfg, diags)

	result := &Result{
		CodeWords: encInstrs,
		DataWords: encRows,
		Functions: st.Functions,
		Memories:  st.Memories,
		Macros:    st.Macros,
		Aliases:   st.Aliases,
		CodeStart: cfg.CodeOffset,
		DataStart: cfg.DataOffset,
	}
	for _, fe := range st.Functions {
		result.CodeSize += fe.Size
	}
	for _, me := range st.Memories {
		result.DataSize += me.Size
	}

	result.AliasesByAddress = map[uint32][]string{}
	for name, ae := range st.Aliases {
		if ae.HasAddr {
			result.AliasesByAddress[ae.Address] = append(result.AliasesByAddress[ae.Address], name)
		}
	}

	diags.Sort()
	return result, diags
}
