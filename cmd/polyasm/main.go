// Command polyasm assembles a PolyAsm source file into a bitstring word
// stream, with optional readable, log, and debug output.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/polyasm-dev/polyasm/assembler"
	"github.com/polyasm-dev/polyasm/report"
)

var (
	flagInput    string
	flagOutput   string
	flagMap      string
	flagWidths   string
	flagReadable bool
	flagLog      bool
	flagVerbose  bool
	flagDebug    bool
	flagFormat   string
	flagEndian   string
)

var rootCmd = &cobra.Command{
	Use:   "polyasm",
	Short: "PolyAsm assembler for the 32-bit custom instruction set",
	Long: `Polyasm assembles a source program of function blocks, memory
blocks, macros, and aliases into a stream of 32-bit machine words laid
out at deterministic addresses across a code section and a data section.`,
	RunE: run,
}

func init() {
	rootCmd.Flags().StringVarP(&flagInput, "input", "i", "", "input assembly file (required)")
	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "output bitstring file (required)")
	rootCmd.Flags().StringVarP(&flagMap, "map", "m", "code=0,data=0x50", "section offsets: code=<N>,data=<N>")
	rootCmd.Flags().StringVarP(&flagWidths, "widths", "w", "opcode=5,param1=14,param2=5,param3=6", "field widths; must sum to 30")
	rootCmd.Flags().BoolVarP(&flagReadable, "readable", "r", false, "also emit <output>_readable.txt")
	rootCmd.Flags().BoolVarP(&flagLog, "log", "l", false, "also emit <output>.log")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "verbose diagnostics")
	rootCmd.Flags().BoolVarP(&flagDebug, "debug", "d", false, "same as -v: symbol-table counts in the summary; table contents are not printed")
	rootCmd.Flags().StringVarP(&flagFormat, "format", "f", "hex", "parameter display base in readable file: hex|dec|bin")
	rootCmd.Flags().StringVarP(&flagEndian, "endian", "e", "big", "accepted for compatibility; ignored")
	rootCmd.SilenceUsage = true
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if ce, ok := err.(*cliMisuseError); ok {
			fmt.Fprintln(os.Stderr, ce.Error())
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// cliMisuseError marks an error as CLI misuse (exit code 2) rather than a
// pipeline error (exit code 1), per §6's exit-code table.
type cliMisuseError struct{ msg string }

func (e *cliMisuseError) Error() string { return e.msg }

func run(cmd *cobra.Command, args []string) error {
	if flagInput == "" || flagOutput == "" {
		return &cliMisuseError{"both -i and -o are required"}
	}

	cfg := assembler.DefaultConfig()
	if err := applyMap(&cfg, flagMap); err != nil {
		return &cliMisuseError{err.Error()}
	}
	if err := applyWidths(&cfg, flagWidths); err != nil {
		return &cliMisuseError{err.Error()}
	}

	format := report.ParamFormat(flagFormat)
	switch format {
	case report.FormatHex, report.FormatDec, report.FormatBin:
	default:
		return &cliMisuseError{fmt.Sprintf("unknown -f format %q", flagFormat)}
	}

	start := time.Now()
	source, err := os.ReadFile(flagInput)
	if err != nil {
		return errors.Wrap(err, "reading input file")
	}

	result, diags := assembler.Assemble(string(source), cfg)

	if flagLog {
		logPath := flagOutput + ".log"
		if err := os.WriteFile(logPath, []byte(report.LogFile(diags)), 0o644); err != nil {
			return errors.Wrap(err, "writing log file")
		}
	}

	if diags.HasErrors() {
		report.PrintFailure(os.Stderr, diags)
		return fmt.Errorf("assembly failed with %d error(s)", countErrors(diags))
	}

	if err := os.WriteFile(flagOutput, []byte(report.Bitstring(result)), 0o644); err != nil {
		return errors.Wrap(err, "writing output file")
	}

	var readPath string
	if flagReadable {
		readPath = flagOutput + "_readable.txt"
		widths := [3]uint32{cfg.Param1Width, cfg.Param2Width, cfg.Param3Width}
		if err := os.WriteFile(readPath, []byte(report.Readable(result, widths, format)), 0o644); err != nil {
			return errors.Wrap(err, "writing readable file")
		}
	}

	report.PrintSummary(os.Stdout, result, report.SummaryOptions{
		InputPath:  flagInput,
		OutputPath: flagOutput,
		ReadPath:   readPath,
		Verbose:    flagVerbose || flagDebug,
		Elapsed:    time.Since(start),
	})

	return nil
}

func countErrors(diags *assembler.Diagnostics) int {
	n := 0
	for _, d := range diags.Items() {
		if d.Severity == assembler.SevError {
			n++
		}
	}
	return n
}

// applyMap parses "code=<N>,data=<N>" section offsets onto cfg.
func applyMap(cfg *assembler.Config, spec string) error {
	vals, err := parseKeyVals(spec)
	if err != nil {
		return err
	}
	if v, ok := vals["code"]; ok {
		n, err := parseOffset(v)
		if err != nil {
			return errors.Wrap(err, "-m code")
		}
		cfg.CodeOffset = n
	}
	if v, ok := vals["data"]; ok {
		n, err := parseOffset(v)
		if err != nil {
			return errors.Wrap(err, "-m data")
		}
		cfg.DataOffset = n
	}
	return nil
}

// applyWidths parses "opcode=<N>,param1=<N>,param2=<N>,param3=<N>" field
// widths onto cfg.
func applyWidths(cfg *assembler.Config, spec string) error {
	vals, err := parseKeyVals(spec)
	if err != nil {
		return err
	}
	fields := map[string]*uint32{
		"opcode": &cfg.OpcodeWidth,
		"param1": &cfg.Param1Width,
		"param2": &cfg.Param2Width,
		"param3": &cfg.Param3Width,
	}
	for key, dst := range fields {
		v, ok := vals[key]
		if !ok {
			continue
		}
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return errors.Wrapf(err, "-w %s", key)
		}
		*dst = uint32(n)
	}
	return nil
}

func parseKeyVals(spec string) (map[string]string, error) {
	out := map[string]string{}
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("malformed key=value pair %q", part)
		}
		out[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
	}
	return out, nil
}

func parseOffset(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(strings.ToLower(s), "0x") {
		n, err := strconv.ParseUint(s[2:], 16, 32)
		return uint32(n), err
	}
	n, err := strconv.ParseUint(s, 10, 32)
	return uint32(n), err
}
