package assembler

// EncodedInstruction is one instruction's final 32-bit word together with
// the decoded field values, kept around for the readable report.
type EncodedInstruction struct {
	Address  uint32
	Word     uint32
	Line     uint32
	Opcode   string
	FuncName string
	P, C     uint32
	P1, P2, P3 uint32
	Alias    string
}

// EncodedRow is one memory row's final 32-bit word, its four byte values,
// and the memory block it belongs to.
type EncodedRow struct {
	Address uint32
	Word    uint32
	Line    uint32
	MemName string
	Bytes   [4]uint8
	Alias   string
}

// Encode packs every resolved instruction and row into its final word per
// §4.6: instructions as p|c|opcode|p3|p2|p1 from MSB to LSB, rows as four
// 8-bit cells packed MSB-first.
func Encode(blocks []Block, instrs []ResolvedInstruction, rows []ResolvedRow, cfg Config, diags *Diagnostics) ([]EncodedInstruction, []EncodedRow) {
	shiftP1 := uint32(0)
	shiftP2 := cfg.Param1Width
	shiftP3 := cfg.Param1Width + cfg.Param2Width
	shiftOpcode := cfg.Param1Width + cfg.Param2Width + cfg.Param3Width
	shiftC := shiftOpcode + cfg.OpcodeWidth
	shiftP := shiftC + 1

	maskOp := fieldMask(cfg.OpcodeWidth)
	maskP1 := fieldMask(cfg.Param1Width)
	maskP2 := fieldMask(cfg.Param2Width)
	maskP3 := fieldMask(cfg.Param3Width)

	funcNameByLine := map[uint32]string{}
	for _, b := range blocks {
		if b.Kind != BlockFunction {
			continue
		}
		for _, stmt := range b.Instructions {
			funcNameByLine[stmt.Line] = b.Name
		}
	}
	memNameByLine := map[uint32]string{}
	for _, b := range blocks {
		if b.Kind != BlockMemory {
			continue
		}
		for _, row := range b.Rows {
			memNameByLine[row.Line] = b.Name
		}
	}

	var encInstrs []EncodedInstruction
	for _, ri := range instrs {
		def, ok := Lookup(ri.Opcode)
		if !ok {
			diags.Add(DiagUnknownOpcode, SevError, ri.Line, "unknown opcode %q", ri.Opcode)
			continue
		}
		p1 := fieldValue(ri.Params[0], def.UsesP1, maskP1, cfg.Param1Width, "param1", ri.Line, diags)
		p2 := fieldValue(ri.Params[1], def.UsesP2, maskP2, cfg.Param2Width, "param2", ri.Line, diags)
		p3 := fieldValue(ri.Params[2], def.UsesP3, maskP3, cfg.Param3Width, "param3", ri.Line, diags)

		word := boolBit(def.PFlag)<<shiftP | boolBit(def.CFlag)<<shiftC |
			(def.Opcode&maskOp)<<shiftOpcode | (p3&maskP3)<<shiftP3 |
			(p2&maskP2)<<shiftP2 | (p1&maskP1)<<shiftP1

		encInstrs = append(encInstrs, EncodedInstruction{
			Address:  ri.Address,
			Word:     word,
			Line:     ri.Line,
			Opcode:   ri.Opcode,
			FuncName: funcNameByLine[ri.Line],
			P:        boolBit(def.PFlag),
			C:        boolBit(def.CFlag),
			P1:       p1,
			P2:       p2,
			P3:       p3,
			Alias:    ri.Alias,
		})
	}

	var encRows []EncodedRow
	for _, rr := range rows {
		var bytes [4]uint8
		var word uint32
		for i := 0; i < 4; i++ {
			v := uint32(0)
			if rr.Cells[i] != nil && rr.Cells[i].IsResolved() {
				v = uint32(rr.Cells[i].Value) & 0xFF
			}
			bytes[i] = uint8(v)
			word = word<<8 | v
		}
		encRows = append(encRows, EncodedRow{
			Address: rr.Address,
			Word:    word,
			Line:    rr.Line,
			MemName: memNameByLine[rr.Line],
			Bytes:   bytes,
			Alias:   rr.Alias,
		})
	}

	return encInstrs, encRows
}

func fieldMask(width uint32) uint32 {
	if width >= 32 {
		return 0xFFFFFFFF
	}
	return (uint32(1) << width) - 1
}

func boolBit(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// fieldValue extracts a parameter's final masked value, reporting
// field_overflow when the resolved value doesn't fit unsigned into width
// bits. Unused parameter slots always encode as zero regardless of what
// was written, per §4.6's "empty cells encode as zero."
func fieldValue(e *Expr, used bool, mask, width uint32, label string, line uint32, diags *Diagnostics) uint32 {
	if !used || e == nil || !e.IsResolved() {
		return 0
	}
	v := e.Value
	max := int64(mask)
	if v < 0 || v > max {
		diags.Add(DiagFieldOverflow, SevError, line, "%s value %d exceeds %d-bit field (max %d)", label, v, width, max)
	}
	return uint32(v) & mask
}
