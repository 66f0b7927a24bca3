package assembler

// ResolvedInstruction is an instruction statement whose three cells have
// settled to literal values (or remain unresolved if the fixed point was
// reached without a value for them).
type ResolvedInstruction struct {
	Line    uint32
	Address uint32
	Opcode  string
	Params  [3]*Expr
	Alias   string
}

// ResolvedRow is a memory data row whose four cells have settled to literal
// values (or remain unresolved).
type ResolvedRow struct {
	Line    uint32
	Address uint32
	Cells   [4]*Expr
	Alias   string
}

// Resolve runs the multi-pass fixed-point substitution of §4.5 over every
// instruction's parameter cells and every data row's cells, using the
// addresses AllocateLayout already published and the macro values
// SymbolTable.ResolveMacro can fold.
func Resolve(blocks []Block, st *SymbolTable, diags *Diagnostics) ([]ResolvedInstruction, []ResolvedRow) {
	var instrs []ResolvedInstruction
	var rows []ResolvedRow

	for _, b := range blocks {
		switch b.Kind {
		case BlockFunction:
			fe := st.Functions[b.Name]
			for i, stmt := range b.Instructions {
				ri := ResolvedInstruction{Line: stmt.Line, Opcode: stmt.Opcode, Alias: stmt.Alias}
				if fe != nil {
					ri.Address = fe.StartAddr + uint32(i)
				}
				for p := 0; p < 3; p++ {
					expr, err := parseInstructionCell(stmt.RawParams[p], stmt.Line)
					if err != nil {
						diags.Add(DiagLexError, SevError, stmt.Line, "%s", err.Error())
						continue
					}
					ri.Params[p] = expr
				}
				instrs = append(instrs, ri)
			}
		case BlockMemory:
			me := st.Memories[b.Name]
			for i, row := range b.Rows {
				rr := ResolvedRow{Line: row.Line, Alias: row.Alias}
				if me != nil {
					rr.Address = me.StartAddr + uint32(i)
				}
				for c := 0; c < 4; c++ {
					expr, err := parseDataCell(row.RawCells[c], row.Line)
					if err != nil {
						diags.Add(DiagLexError, SevError, row.Line, "%s", err.Error())
						continue
					}
					rr.Cells[c] = expr
				}
				rows = append(rows, rr)
			}
		}
	}

	maxPasses := countCells(instrs, rows) + len(st.Macros) + 1
	for pass := 0; pass < maxPasses; pass++ {
		progressed := false
		for i := range instrs {
			for p := 0; p < 3; p++ {
				if instrs[i].Params[p] == nil || instrs[i].Params[p].IsResolved() {
					continue
				}
				folded, ok := foldCellExpr(instrs[i].Params[p], st, diags)
				instrs[i].Params[p] = folded
				if ok {
					progressed = true
				}
			}
		}
		for i := range rows {
			for c := 0; c < 4; c++ {
				if rows[i].Cells[c] == nil || rows[i].Cells[c].IsResolved() {
					continue
				}
				folded, ok := foldCellExpr(rows[i].Cells[c], st, diags)
				rows[i].Cells[c] = folded
				if ok {
					progressed = true
				}
			}
		}
		if !progressed {
			break
		}
	}

	reportUnresolved(instrs, rows, diags)
	return instrs, rows
}

func countCells(instrs []ResolvedInstruction, rows []ResolvedRow) int {
	return len(instrs)*3 + len(rows)*4
}

// foldCellExpr attempts to reduce one expression tree as far as the current
// symbol state allows, recursing into operator subtrees and substituting
// macro/alias/function references with their resolved values where
// available. It returns the (possibly still-unresolved) tree and
// whether anything new was resolved this call.
func foldCellExpr(e *Expr, st *SymbolTable, diags *Diagnostics) (*Expr, bool) {
	switch e.Kind {
	case ExprLiteral:
		return e, false

	case ExprMacroRef:
		resolved, ok := st.ResolveMacro(e.Name, diags)
		if !ok {
			return e, false
		}
		return resolved, true

	case ExprAliasRef:
		ae, ok := st.Aliases[e.Name]
		if !ok || !ae.HasAddr {
			return e, false
		}
		return litExpr(int64(ae.Address), e.Line), true

	case ExprFuncRef:
		fe, ok := st.Functions[e.Name]
		if !ok {
			return e, false
		}
		return litExpr(int64(fe.StartAddr), e.Line), true

	case ExprBinOp:
		left, lprog := foldSub(e.Left, st, diags)
		right, rprog := foldSub(e.Right, st, diags)
		if left.IsResolved() && right.IsResolved() {
			return litExpr(evalBinOp(e.Op, left.Value, right.Value), e.Line), true
		}
		progressed := lprog || rprog
		if left == e.Left && right == e.Right {
			return e, progressed
		}
		return &Expr{Kind: ExprBinOp, Op: e.Op, Left: left, Right: right, Line: e.Line}, progressed
	}
	return e, false
}

func foldSub(e *Expr, st *SymbolTable, diags *Diagnostics) (*Expr, bool) {
	if e == nil || e.IsResolved() {
		return e, false
	}
	return foldCellExpr(e, st, diags)
}

// reportUnresolved emits one unresolved_symbol diagnostic per cell still
// holding a reference after the resolver reached its fixed point.
func reportUnresolved(instrs []ResolvedInstruction, rows []ResolvedRow, diags *Diagnostics) {
	for _, ri := range instrs {
		for p, e := range ri.Params {
			if e != nil && !e.IsResolved() {
				diags.Add(DiagUnresolvedSymbol, SevError, ri.Line, "param%d of %q remains unresolved: %s", p+1, ri.Opcode, describeUnresolved(e))
			}
		}
	}
	for _, rr := range rows {
		for c, e := range rr.Cells {
			if e != nil && !e.IsResolved() {
				diags.Add(DiagUnresolvedSymbol, SevError, rr.Line, "cell%d remains unresolved: %s", c+1, describeUnresolved(e))
			}
		}
	}
}

// describeUnresolved renders the first unresolved leaf of e for a
// diagnostic message.
func describeUnresolved(e *Expr) string {
	switch e.Kind {
	case ExprMacroRef:
		return "#" + e.Name
	case ExprAliasRef:
		return "@" + e.Name
	case ExprFuncRef:
		return e.Name + "():"
	case ExprBinOp:
		if e.Left != nil && !e.Left.IsResolved() {
			return describeUnresolved(e.Left)
		}
		if e.Right != nil && !e.Right.IsResolved() {
			return describeUnresolved(e.Right)
		}
	}
	return "<unknown>"
}
