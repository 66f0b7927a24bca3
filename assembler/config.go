package assembler

import "fmt"

// Config holds the section offsets and instruction field widths a run of
// the pipeline is parameterized by. Zero value is not valid; use
// DefaultConfig and override individual fields.
type Config struct {
	CodeOffset uint32
	DataOffset uint32

	OpcodeWidth uint32
	Param1Width uint32
	Param2Width uint32
	Param3Width uint32
}

// DefaultConfig returns the widths and offsets the tool uses when no
// overrides are supplied on the command line.
func DefaultConfig() Config {
	return Config{
		CodeOffset:  0,
		DataOffset:  0x50,
		OpcodeWidth: 5,
		Param1Width: 14,
		Param2Width: 5,
		Param3Width: 6,
	}
}

// Validate checks the field-width invariant of §3: the four configurable
// widths plus the two fixed flag bits must total 32. A failing Config is
// fatal before parsing begins (width_config), so this returns a plain error
// rather than appending to a Diagnostics collector.
func (c Config) Validate() error {
	sum := c.OpcodeWidth + c.Param1Width + c.Param2Width + c.Param3Width
	if sum != 30 {
		return fmt.Errorf("width_config: opcode+param1+param2+param3 widths must sum to 30, got %d", sum)
	}
	return nil
}
