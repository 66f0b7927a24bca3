package assembler

// LayoutEntry records the address range assigned to one block, used both
// for the allocator's own overlap pass and for publishing function/memory
// addresses into the symbol table.
type LayoutEntry struct {
	Name   string
	Line   uint32
	Start  uint32
	Length uint32
}

func (e LayoutEntry) end() uint32 { return e.Start + e.Length }

// AllocateLayout runs the address allocator of §4.4: it partitions blocks
// into code and data partitions preserving source order, assigns each a
// sequential start address from the matching section offset, and checks
// for overlap within each partition. It populates st.Functions/st.Memories
// with their resolved addresses and publishes alias addresses for every
// instruction/row that declared one.
func AllocateLayout(blocks []Block, cfg Config, st *SymbolTable, diags *Diagnostics) {
	var code, data []LayoutEntry

	codeCursor := cfg.CodeOffset
	dataCursor := cfg.DataOffset

	for _, b := range blocks {
		switch b.Kind {
		case BlockFunction:
			length := uint32(len(b.Instructions))
			entry := LayoutEntry{Name: b.Name, Line: b.HeaderLine, Start: codeCursor, Length: length}
			code = append(code, entry)
			if fe, ok := st.Functions[b.Name]; ok {
				fe.StartAddr = entry.Start
				fe.Size = length
			}
			for i, stmt := range b.Instructions {
				if stmt.Alias != "" {
					publishAlias(st, stmt.Alias, entry.Start+uint32(i))
				}
			}
			codeCursor += length

		case BlockMemory:
			length := uint32(len(b.Rows))
			entry := LayoutEntry{Name: b.Name, Line: b.HeaderLine, Start: dataCursor, Length: length}
			data = append(data, entry)
			if me, ok := st.Memories[b.Name]; ok {
				me.StartAddr = entry.Start
				me.Size = length
			}
			for i, row := range b.Rows {
				if row.Alias != "" {
					publishAlias(st, row.Alias, entry.Start+uint32(i))
				}
			}
			dataCursor += length
		}
	}

	checkOverlap(code, diags)
	checkOverlap(data, diags)
}

// publishAlias records the resolved address for an alias that was already
// registered by BuildSymbolTable. It is a no-op if the name is unknown,
// which cannot happen given the two passes always run in order.
func publishAlias(st *SymbolTable, name string, addr uint32) {
	if ae, ok := st.Aliases[name]; ok {
		ae.Address = addr
		ae.HasAddr = true
	}
}

// checkOverlap reports an overlap diagnostic for every pair of entries
// whose half-open [start, start+length) ranges intersect (§4.4, point 4).
// This is exercised directly by tests with synthetic entries as well as
// through the pipeline: sequential allocation alone can never produce an
// overlapping pair, since each cursor only ever advances, so this check
// guards the invariant rather than reacting to a reachable pipeline state.
func checkOverlap(entries []LayoutEntry, diags *Diagnostics) {
	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			a, b := entries[i], entries[j]
			if a.Start < b.end() && b.Start < a.end() {
				diags.Add(DiagOverlap, SevError, a.Line,
					"%q (line %d) overlaps %q (line %d): [%d,%d) vs [%d,%d)",
					a.Name, a.Line, b.Name, b.Line, a.Start, a.end(), b.Start, b.end())
			}
		}
	}
}
