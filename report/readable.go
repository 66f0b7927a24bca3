package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/polyasm-dev/polyasm/assembler"
)

// ParamFormat selects the base parameter values render in, set by the `-f`
// flag; the flag defaults to "hex" (FormatHex).
type ParamFormat string

const (
	FormatHex ParamFormat = "hex"
	FormatDec ParamFormat = "dec"
	FormatBin ParamFormat = "bin"
)

// Readable renders the `-r` readable report: one line per instruction or
// memory row, in ascending address order, in the two literal formats of §6.
func Readable(res *assembler.Result, widths [3]uint32, format ParamFormat) string {
	type line struct {
		addr uint32
		text string
	}
	var lines []line

	for _, ci := range res.CodeWords {
		lines = append(lines, line{ci.Address, instructionLine(ci, widths, format, res)})
	}
	for _, dr := range res.DataWords {
		lines = append(lines, line{dr.Address, rowLine(dr, res)})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].addr < lines[j].addr })

	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l.text)
		b.WriteByte('\n')
	}
	return b.String()
}

func instructionLine(ci assembler.EncodedInstruction, widths [3]uint32, format ParamFormat, res *assembler.Result) string {
	p3bits := fmt.Sprintf("%0*b", widths[2], ci.P3)
	p2bits := fmt.Sprintf("%0*b", widths[1], ci.P2)
	p1bits := fmt.Sprintf("%0*b", widths[0], ci.P1)

	s := fmt.Sprintf("%05d | p=%d c=%d p3=%s p2=%s p1=%s | func=%s, opcode=%s, param1=%s, param2=%s, param3=%s",
		ci.Address, ci.P, ci.C, p3bits, p2bits, p1bits,
		ci.FuncName, ci.Opcode,
		formatValue(ci.P1, format), formatValue(ci.P2, format), formatValue(ci.P3, format))
	if alias := aliasSuffix(ci.Alias, res.AliasesByAddress[ci.Address]); alias != "" {
		s += alias
	}
	return s
}

func rowLine(dr assembler.EncodedRow, res *assembler.Result) string {
	s := fmt.Sprintf("%05d | %08b %08b %08b %08b | mem=%s, %02X %02X %02X %02X",
		dr.Address, dr.Bytes[0], dr.Bytes[1], dr.Bytes[2], dr.Bytes[3],
		dr.MemName, dr.Bytes[0], dr.Bytes[1], dr.Bytes[2], dr.Bytes[3])
	if alias := aliasSuffix(dr.Alias, res.AliasesByAddress[dr.Address]); alias != "" {
		s += alias
	}
	return s
}

// aliasSuffix renders the optional " <- alias: <name>" trailer. The direct
// alias on the statement (if any) takes precedence; otherwise the first
// alias published at this address is used.
func aliasSuffix(direct string, atAddress []string) string {
	name := direct
	if name == "" && len(atAddress) > 0 {
		name = atAddress[0]
	}
	if name == "" {
		return ""
	}
	return fmt.Sprintf(" <- alias: %s", name)
}

func formatValue(v uint32, format ParamFormat) string {
	switch format {
	case FormatDec:
		return fmt.Sprintf("%d", v)
	case FormatBin:
		return fmt.Sprintf("%b", v)
	default:
		return fmt.Sprintf("0x%X", v)
	}
}
