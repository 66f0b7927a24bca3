package assembler

import "strings"

// SourceLine is one line of input after comment stripping. Line numbers are
// 1-based and never shift, even for blank or comment-only lines.
type SourceLine struct {
	Number uint32
	Text   string
}

// Scan normalizes raw source text into SourceLines: `//`-to-end comments are
// stripped, but blank lines are preserved as positional markers so that
// later diagnostics can cite the original line number.
func Scan(source string) []SourceLine {
	normalized := strings.ReplaceAll(source, "\r\n", "\n")
	// A trailing newline ends the last line; it does not start another one.
	rawLines := strings.Split(strings.TrimSuffix(normalized, "\n"), "\n")
	lines := make([]SourceLine, 0, len(rawLines))
	for i, raw := range rawLines {
		text := raw
		if idx := strings.Index(text, "//"); idx >= 0 {
			text = text[:idx]
		}
		lines = append(lines, SourceLine{Number: uint32(i + 1), Text: strings.TrimSpace(text)})
	}
	return lines
}

// lineKind classifies a trimmed, comment-stripped source line by its
// syntactic category (§4.1). Content lines (instructions/data rows) are
// classified further by the block parser, which knows the current block's
// kind.
type lineKind int

const (
	lineBlank lineKind = iota
	lineMacroDecl
	lineMemoryHeader
	lineFunctionHeader
	lineContent
)

type classifiedLine struct {
	source SourceLine
	kind   lineKind

	// lineMacroDecl
	macroName  string
	macroValue string

	// lineMemoryHeader / lineFunctionHeader
	blockName string

	// lineContent: the line with any trailing "#alias NAME" stripped out.
	body  string
	alias string
}

// classify determines the syntactic category of one SourceLine.
func classify(sl SourceLine) classifiedLine {
	cl := classifiedLine{source: sl}
	text := sl.Text
	if text == "" {
		cl.kind = lineBlank
		return cl
	}

	switch {
	case strings.HasPrefix(text, "#macro"):
		cl.kind = lineMacroDecl
		fields := strings.Fields(text)
		if len(fields) >= 2 {
			cl.macroName = fields[1]
		}
		if len(fields) >= 3 {
			cl.macroValue = strings.Join(fields[2:], " ")
		}
		return cl

	case strings.HasPrefix(text, "#memory"):
		cl.kind = lineMemoryHeader
		rest := strings.TrimSpace(strings.TrimPrefix(text, "#memory"))
		cl.blockName = strings.TrimSuffix(rest, ":")
		return cl

	case strings.HasPrefix(text, "function"):
		cl.kind = lineFunctionHeader
		rest := strings.TrimSpace(strings.TrimPrefix(text, "function"))
		rest = strings.TrimSuffix(rest, ":")
		if idx := strings.Index(rest, "("); idx >= 0 {
			rest = rest[:idx]
		}
		cl.blockName = strings.TrimSpace(rest)
		return cl

	default:
		cl.kind = lineContent
		body, alias := splitAlias(text)
		cl.body = body
		cl.alias = alias
		return cl
	}
}

// splitAlias separates a trailing "#alias NAME" from the rest of the line.
func splitAlias(text string) (body, alias string) {
	idx := strings.Index(text, "#alias")
	if idx < 0 {
		return strings.TrimSpace(text), ""
	}
	body = strings.TrimSpace(text[:idx])
	rest := strings.TrimSpace(text[idx+len("#alias"):])
	if fields := strings.Fields(rest); len(fields) > 0 {
		alias = fields[0]
	}
	return body, alias
}
