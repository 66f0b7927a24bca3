package report

import (
	"fmt"
	"strings"

	"github.com/polyasm-dev/polyasm/assembler"
)

// LogFile renders the `-l` diagnostic log: one record per diagnostic in
// the collector's already-sorted order, severity first.
func LogFile(diags *assembler.Diagnostics) string {
	var b strings.Builder
	for _, d := range diags.Items() {
		fmt.Fprintf(&b, "[%s] line %d: %s (%s)\n", strings.ToUpper(d.Severity.String()), d.Line, d.Message, d.Kind)
	}
	return b.String()
}
