// Package report renders an assembler Result as the bitstring output file,
// the optional readable report, the optional diagnostic log, and the
// terminal summary panel. None of these are part of the core pipeline;
// they only consume its Result and Diagnostics values (§6).
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/polyasm-dev/polyasm/assembler"
)

// word is one output line's address and 32-bit value, merged across the
// code and data sections and sorted by address (§4.6 "output ordering").
type word struct {
	Address uint32
	Value   uint32
}

func mergedWords(res *assembler.Result) []word {
	words := make([]word, 0, len(res.CodeWords)+len(res.DataWords))
	for _, ci := range res.CodeWords {
		words = append(words, word{Address: ci.Address, Value: ci.Word})
	}
	for _, dr := range res.DataWords {
		words = append(words, word{Address: dr.Address, Value: dr.Word})
	}
	sort.Slice(words, func(i, j int) bool { return words[i].Address < words[j].Address })
	return words
}

// Bitstring renders the sparse bitstring file: one line per assigned
// address in ascending order, each a 32-character `0`/`1` string grouped by
// nibble with single spaces.
func Bitstring(res *assembler.Result) string {
	var b strings.Builder
	for _, w := range mergedWords(res) {
		b.WriteString(bitLine(w.Value))
		b.WriteByte('\n')
	}
	return b.String()
}

func bitLine(v uint32) string {
	var groups [8]string
	for i := 0; i < 8; i++ {
		shift := uint32(28 - i*4)
		nibble := (v >> shift) & 0xF
		groups[i] = fmt.Sprintf("%04b", nibble)
	}
	return strings.Join(groups[:], " ")
}
