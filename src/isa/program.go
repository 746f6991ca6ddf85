package isa

import (
	"strings"

	"github.com/samber/lo"
)

// Program is a complete assembly listing: the header lines that precede the
// programming block followed by the instruction stream.
type Program struct {
	Header       []string
	Instructions []Instruction
}

// Stats counts the instructions of each class in a program.
type Stats struct {
	Prog    int `json:"prog"`
	Read    int `json:"read"`
	Compute int `json:"compute"`
	Write   int `json:"write"`
}

// Executable returns the number of Read, Compute and Write instructions.
func (stats Stats) Executable() int {
	return stats.Read + stats.Compute + stats.Write
}

// String renders the program one line per header entry and instruction. The
// output is newline terminated.
func (program *Program) String() string {
	var builder strings.Builder
	for _, line := range program.Header {
		builder.WriteString(line)
		builder.WriteByte('\n')
	}
	for _, inst := range program.Instructions {
		builder.WriteString(inst.String())
		builder.WriteByte('\n')
	}
	return builder.String()
}

// ProgramBlock returns the leading ProgramCore records.
func (program *Program) ProgramBlock() []Instruction {
	end := 0
	for end < len(program.Instructions) && program.Instructions[end].Kind == KindProgramCore {
		end++
	}
	return program.Instructions[:end]
}

// ExecutableBlock returns the Read, Compute and Write records in order.
func (program *Program) ExecutableBlock() []Instruction {
	return lo.Filter(program.Instructions, func(inst Instruction, _ int) bool {
		return inst.Kind.Executable()
	})
}

// CoreIDs returns the ids declared by the programming block.
func (program *Program) CoreIDs() []int {
	return lo.Map(program.ProgramBlock(), func(inst Instruction, _ int) int {
		return inst.CoreID
	})
}

func (program *Program) Stats() Stats {
	count := func(kind Kind) int {
		return lo.CountBy(program.Instructions, func(inst Instruction) bool {
			return inst.Kind == kind
		})
	}
	return Stats{
		Prog:    count(KindProgramCore),
		Read:    count(KindRead),
		Compute: count(KindCompute),
		Write:   count(KindWrite),
	}
}
