package disasm

import (
	"fmt"
	"strings"

	"github.com/retroenv/chip8go/internal/chip8"
	"github.com/retroenv/chip8go/internal/isa"
)

// dataBytesPerLine is the maximum number of data bytes grouped into a
// single .byte directive.
const dataBytesPerLine = 8

// offsetType classifies a byte of the program image.
type offsetType uint8

const (
	offsetUnvisited offsetType = iota
	offsetCode
	offsetCodeParam
	offsetData
)

// offsetInfo describes one byte of the program image after tracing.
type offsetInfo struct {
	typ offsetType

	ins    *isa.Instruction // set for code offsets
	opcode uint16

	label string
}

// Line is one row of the generated assembly listing.
type Line struct {
	Label   string
	Code    string
	Data    []byte
	Comment string
}

// convertToListing converts the traced offsets into listing rows.
// Instructions become one row each, untraced bytes are grouped into
// data rows that end at labels and instruction starts.
func (dis *Disasm) convertToListing() []Line {
	var lines []Line

	for index := 0; index < len(dis.rom); {
		info := &dis.offsets[index]
		address := chip8.ProgramStart + uint16(index)

		if info.typ == offsetCode {
			line := Line{
				Label: info.label,
				Code:  dis.formatInstruction(info),
			}
			dis.setComment(&line, address, dis.rom[index:index+2])
			lines = append(lines, line)

			index += isa.OpcodeSize
			continue
		}

		start := index
		index++
		for index < len(dis.rom) && index-start < dataBytesPerLine {
			next := &dis.offsets[index]
			if next.typ == offsetCode || next.label != "" {
				break
			}
			index++
		}

		line := Line{
			Label: info.label,
			Data:  dis.rom[start:index],
		}
		dis.setComment(&line, address, dis.rom[start:index])
		lines = append(lines, line)
	}

	return lines
}

// formatInstruction formats a code offset, preferring label operands
// for statically known control flow and data targets.
func (dis *Disasm) formatInstruction(info *offsetInfo) string {
	switch info.ins {
	case isa.Jump, isa.Call:
		if label := dis.labelAt(isa.NNN(info.opcode)); label != "" {
			return fmt.Sprintf("%s %s", info.ins.Name, label)
		}

	case isa.LoadIndex:
		if label := dis.labelAt(isa.NNN(info.opcode)); label != "" {
			return fmt.Sprintf("%s I, %s", info.ins.Name, label)
		}
	}

	return info.ins.Format(info.opcode)
}

// setComment builds the line comment from the enabled comment options.
func (dis *Disasm) setComment(line *Line, address uint16, data []byte) {
	var comments []string

	if dis.options.OffsetComments {
		comments = append(comments, fmt.Sprintf("$%04X", address))
	}

	if dis.options.HexComments {
		buf := &strings.Builder{}
		for _, b := range data {
			buf.WriteString(fmt.Sprintf("%02X ", b))
		}
		comments = append(comments, strings.TrimRight(buf.String(), " "))
	}

	line.Comment = strings.Join(comments, "  ")
}
