package assembler

// MacroEntry is one #macro declaration. Value is the raw, unresolved text
// following the macro name; it may itself reference other macros.
type MacroEntry struct {
	Name  string
	Value string
	Line  uint32
}

// AliasEntry binds a name to the address of the statement it was attached
// to. Address is populated by the layout pass, not by the symbol table
// builder itself (Design Notes, §9, "Alias timing").
type AliasEntry struct {
	Name    string
	Line    uint32
	Address uint32
	HasAddr bool
}

// FunctionEntry records a function block's identity for address resolution;
// StartAddr/Size are filled in by the layout pass.
type FunctionEntry struct {
	Name       string
	HeaderLine uint32
	StartAddr  uint32
	Size       uint32
}

// MemoryEntry records a memory block's identity; StartAddr/Size are filled
// in by the layout pass.
type MemoryEntry struct {
	Name       string
	HeaderLine uint32
	StartAddr  uint32
	Size       uint32
}

// SymbolTable holds the four independent namespaces of §4.3: macros,
// aliases, functions, memory blocks. Within a namespace, later declarations
// win and the earlier one is reported as a redefinition warning, never an
// error.
type SymbolTable struct {
	Macros    map[string]MacroEntry
	Aliases   map[string]*AliasEntry
	Functions map[string]*FunctionEntry
	Memories  map[string]*MemoryEntry

	// macroOrder preserves first-seen declaration order for deterministic
	// cycle-detection bounds.
	macroOrder []string
}

// NewSymbolTable returns an empty table ready for BuildSymbolTable to
// populate.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		Macros:    map[string]MacroEntry{},
		Aliases:   map[string]*AliasEntry{},
		Functions: map[string]*FunctionEntry{},
		Memories:  map[string]*MemoryEntry{},
	}
}

// BuildSymbolTable walks the classified source lines for macro
// declarations and the parsed blocks for functions, memory blocks, and
// aliases, applying last-wins redefinition semantics throughout.
func BuildSymbolTable(lines []SourceLine, blocks []Block, diags *Diagnostics) *SymbolTable {
	st := NewSymbolTable()

	for _, sl := range lines {
		cl := classify(sl)
		if cl.kind != lineMacroDecl || cl.macroName == "" {
			continue
		}
		if prev, dup := st.Macros[cl.macroName]; dup {
			diags.Add(DiagRedefinition, SevWarning, sl.Number, "macro %q redefined (previously line %d)", cl.macroName, prev.Line)
		} else {
			st.macroOrder = append(st.macroOrder, cl.macroName)
		}
		st.Macros[cl.macroName] = MacroEntry{Name: cl.macroName, Value: cl.macroValue, Line: sl.Number}
	}

	for _, b := range blocks {
		switch b.Kind {
		case BlockFunction:
			if prev, dup := st.Functions[b.Name]; dup {
				diags.Add(DiagRedefinition, SevWarning, b.HeaderLine, "function %q redefined (previously line %d)", b.Name, prev.HeaderLine)
			}
			st.Functions[b.Name] = &FunctionEntry{Name: b.Name, HeaderLine: b.HeaderLine}
			for _, stmt := range b.Instructions {
				if stmt.Alias != "" {
					st.addAlias(stmt.Alias, stmt.Line, diags)
				}
			}
		case BlockMemory:
			if prev, dup := st.Memories[b.Name]; dup {
				diags.Add(DiagRedefinition, SevWarning, b.HeaderLine, "memory block %q redefined (previously line %d)", b.Name, prev.HeaderLine)
			}
			st.Memories[b.Name] = &MemoryEntry{Name: b.Name, HeaderLine: b.HeaderLine}
			for _, row := range b.Rows {
				if row.Alias != "" {
					st.addAlias(row.Alias, row.Line, diags)
				}
			}
		}
	}

	return st
}

func (st *SymbolTable) addAlias(name string, line uint32, diags *Diagnostics) {
	if prev, dup := st.Aliases[name]; dup {
		diags.Add(DiagRedefinition, SevWarning, line, "alias %q redefined (previously line %d)", name, prev.Line)
	}
	st.Aliases[name] = &AliasEntry{Name: name, Line: line}
}

// ResolveMacro recursively expands a macro's value into a literal int64,
// substituting nested macro references, and reports a cycle diagnostic if
// expansion does not terminate within the number of declared macros.
func (st *SymbolTable) ResolveMacro(name string, diags *Diagnostics) (*Expr, bool) {
	visiting := map[string]bool{}
	return st.resolveMacroRec(name, visiting, diags, 0)
}

func (st *SymbolTable) resolveMacroRec(name string, visiting map[string]bool, diags *Diagnostics, depth int) (*Expr, bool) {
	entry, ok := st.Macros[name]
	if !ok {
		return nil, false
	}
	if visiting[name] || depth > len(st.macroOrder) {
		diags.Add(DiagCycle, SevError, entry.Line, "macro %q participates in a definition cycle", name)
		return nil, false
	}
	visiting[name] = true

	expr, err := parseMacroBodyCell(entry.Value, entry.Line)
	if err != nil {
		diags.Add(DiagParseError, SevError, entry.Line, "malformed macro value for %q: %s", name, err.Error())
		return nil, false
	}

	resolved, ok := st.foldExpr(expr, visiting, diags, depth+1)
	delete(visiting, name)
	return resolved, ok
}

// foldExpr substitutes macro references inside expr with their resolved
// values. Alias and function references are left unresolved here; only the
// layout-aware resolver can fold those.
func (st *SymbolTable) foldExpr(e *Expr, visiting map[string]bool, diags *Diagnostics, depth int) (*Expr, bool) {
	switch e.Kind {
	case ExprLiteral:
		return e, true
	case ExprMacroRef:
		return st.resolveMacroRec(e.Name, visiting, diags, depth)
	case ExprAliasRef, ExprFuncRef:
		return e, false
	case ExprBinOp:
		l, lok := st.foldExpr(e.Left, visiting, diags, depth)
		r, rok := st.foldExpr(e.Right, visiting, diags, depth)
		if !lok || !rok {
			return &Expr{Kind: ExprBinOp, Op: e.Op, Left: l, Right: r, Line: e.Line}, false
		}
		return litExpr(evalBinOp(e.Op, l.Value, r.Value), e.Line), true
	default:
		return e, false
	}
}
