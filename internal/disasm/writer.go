package disasm

import (
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/chip8go/internal/chip8"
	"github.com/retroenv/chip8go/internal/options"
)

// fileWriter writes the generated listing as retroasm compatible
// assembly.
type fileWriter struct {
	writer  io.Writer
	options options.Disassembler
}

func newFileWriter(writer io.Writer, opts options.Disassembler) *fileWriter {
	return &fileWriter{
		writer:  writer,
		options: opts,
	}
}

// write writes the header and all listing lines.
func (w *fileWriter) write(lines []Line) error {
	if err := w.writeHeader(); err != nil {
		return err
	}

	endIndex := w.endIndex(lines)
	for i := range endIndex {
		line := lines[i]

		if line.Label != "" {
			if _, err := fmt.Fprintf(w.writer, "%s:\n", line.Label); err != nil {
				return fmt.Errorf("writing label %s: %w", line.Label, err)
			}
		}

		switch {
		case line.Code != "":
			if err := w.writeLine("    "+line.Code, line.Comment); err != nil {
				return fmt.Errorf("writing code: %w", err)
			}

		case len(line.Data) > 0:
			if err := w.writeLine(dataDirective(line.Data), line.Comment); err != nil {
				return fmt.Errorf("writing data: %w", err)
			}
		}
	}

	return nil
}

// writeHeader writes the file comment header and the origin directive.
func (w *fileWriter) writeHeader() error {
	if _, err := fmt.Fprintf(w.writer, "; CHIP-8 ROM Disassembly\n"); err != nil {
		return fmt.Errorf("writing header comment: %w", err)
	}

	if _, err := fmt.Fprintf(w.writer, "; Code base address: $%04X\n", chip8.ProgramStart); err != nil {
		return fmt.Errorf("writing code base address: %w", err)
	}

	if _, err := fmt.Fprintf(w.writer, "; Execution starts at $%04X\n\n", w.options.StartAddress); err != nil {
		return fmt.Errorf("writing start address: %w", err)
	}

	if _, err := fmt.Fprintf(w.writer, ".org $200\n\n"); err != nil {
		return fmt.Errorf("writing org directive: %w", err)
	}

	return nil
}

// writeLine writes one line of assembly output with an optional
// comment.
func (w *fileWriter) writeLine(text, comment string) error {
	if comment == "" {
		_, err := fmt.Fprintf(w.writer, "%s\n", text)
		return err
	}

	_, err := fmt.Fprintf(w.writer, "%-32s ; %s\n", text, comment)
	return err
}

// dataDirective formats data bytes as a .byte directive.
func dataDirective(data []byte) string {
	var buf strings.Builder
	buf.WriteString(fmt.Sprintf("    .byte $%02X", data[0]))

	for _, b := range data[1:] {
		buf.WriteString(fmt.Sprintf(", $%02X", b))
	}

	return buf.String()
}

// endIndex returns the number of lines to write, skipping trailing
// lines that carry only zero data bytes.
func (w *fileWriter) endIndex(lines []Line) int {
	if w.options.ZeroBytes {
		return len(lines)
	}

	for i := len(lines) - 1; i >= 0; i-- {
		line := lines[i]
		if line.Label != "" || line.Code != "" {
			return i + 1
		}
		for _, b := range line.Data {
			if b != 0 {
				return i + 1
			}
		}
	}

	return 0
}
