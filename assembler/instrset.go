package assembler

// InstructionDef is one entry of the process-wide static InstructionSet of
// §3: the opcode's bit pattern, its fixed `p`/`c` flag bits, and which
// parameter fields it actually uses.
type InstructionDef struct {
	Opcode  uint32
	PFlag   bool
	CFlag   bool
	UsesP1  bool
	UsesP2  bool
	UsesP3  bool
}

// InstructionSet is closed and known at build time (§3). jump sets p=1 on
// its first (only) word; setreg and add leave both flags clear.
var InstructionSet = map[string]InstructionDef{
	"setreg": {Opcode: 0x01, PFlag: false, CFlag: false, UsesP1: true, UsesP2: true, UsesP3: false},
	"add":    {Opcode: 0x02, PFlag: false, CFlag: false, UsesP1: true, UsesP2: true, UsesP3: true},
	"jump":   {Opcode: 0x03, PFlag: true, CFlag: false, UsesP1: true, UsesP2: false, UsesP3: false},
}

// Lookup returns the instruction definition for a mnemonic, or false if the
// opcode is not part of the static set.
func Lookup(mnemonic string) (InstructionDef, bool) {
	def, ok := InstructionSet[mnemonic]
	return def, ok
}
