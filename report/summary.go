package report

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/polyasm-dev/polyasm/assembler"
)

// SummaryOptions controls how much detail PrintSummary includes, mirroring
// the original tool's verbose/debug-gated extra fields.
type SummaryOptions struct {
	InputPath  string
	OutputPath string
	ReadPath   string
	Verbose    bool
	Elapsed    time.Duration
}

// PrintSummary writes the colorized assembly summary panel to w: a plain
// line-by-line approximation of the original's rich Panel (a title line
// followed by labeled fields, with no box drawn), since no pack
// example exercises a full TUI table/panel library.
func PrintSummary(w io.Writer, res *assembler.Result, opts SummaryOptions) {
	title := color.New(color.FgBlue, color.Bold)
	label := color.New(color.FgWhite, color.Bold)
	value := color.New(color.FgBlue, color.Bold)
	ok := color.New(color.FgGreen, color.Bold)

	fmt.Fprintln(w)
	title.Fprintln(w, "== Assembly Summary ==")

	if opts.Verbose {
		label.Fprint(w, "Elapsed Time: ")
		ok.Fprintf(w, "%.4f seconds\n", opts.Elapsed.Seconds())
		label.Fprint(w, "Total Blocks: ")
		ok.Fprintf(w, "%d\n", len(res.Functions)+len(res.Memories))
		label.Fprint(w, "Total Functions: ")
		ok.Fprintf(w, "%d\n", len(res.Functions))
		label.Fprint(w, "Total Aliases: ")
		ok.Fprintf(w, "%d\n", len(res.Aliases))
		label.Fprint(w, "Total Macros: ")
		ok.Fprintf(w, "%d\n", len(res.Macros))
		fmt.Fprintln(w)
	}

	label.Fprint(w, "Total Used Memory Space: ")
	value.Fprintf(w, "%d\n\n", res.CodeSize+res.DataSize)

	label.Fprint(w, "Code section: ")
	if res.CodeSize > 0 {
		value.Fprintf(w, "0x%X - 0x%X\n", res.CodeStart, res.CodeStart+res.CodeSize-1)
	} else {
		value.Fprintln(w, "(empty)")
	}

	label.Fprint(w, "Data section: ")
	if res.DataSize > 0 {
		value.Fprintf(w, "0x%X - 0x%X\n", res.DataStart, res.DataStart+res.DataSize-1)
	} else {
		value.Fprintln(w, "(empty)")
	}
	fmt.Fprintln(w)

	label.Fprint(w, "Input File: ")
	color.New(color.FgMagenta, color.Bold).Fprintln(w, opts.InputPath)
	label.Fprint(w, "Binary File: ")
	color.New(color.FgMagenta, color.Bold).Fprintln(w, opts.OutputPath)
	if opts.ReadPath != "" {
		label.Fprint(w, "Readable File: ")
		color.New(color.FgMagenta, color.Bold).Fprintln(w, opts.ReadPath)
	}
}

// PrintFailure writes the colorized failure panel when the run produced at
// least one error diagnostic.
func PrintFailure(w io.Writer, diags *assembler.Diagnostics) {
	fail := color.New(color.FgRed, color.Bold)
	fmt.Fprintln(w)
	fail.Fprintln(w, "== Assembly Failed ==")
	for _, d := range diags.Items() {
		if d.Severity == assembler.SevError {
			fmt.Fprintf(w, "  line %d: %s\n", d.Line, d.Message)
		}
	}
}
