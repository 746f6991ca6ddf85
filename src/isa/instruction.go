package isa

import (
	"fmt"
	"strings"
)

// LutSize is the number of entries in every core lookup table.
const LutSize = 8

// Lut is the lookup table programmed into a single core.
type Lut [LutSize]byte

func (lut Lut) String() string {
	var builder strings.Builder
	builder.WriteByte('[')
	for i, value := range lut {
		if i > 0 {
			builder.WriteString(", ")
		}
		fmt.Fprintf(&builder, "0x%02x", value)
	}
	builder.WriteByte(']')
	return builder.String()
}

// Address is an index into the symbolic row address pool.
type Address int

const addressPrefix = "RowAddress"

func (address Address) String() string {
	return fmt.Sprintf("%s%d", addressPrefix, int(address))
}

// Kind tags the variant held by an Instruction.
type Kind int

const (
	KindProgramCore Kind = iota
	KindRead
	KindCompute
	KindWrite
	KindEnd
)

func (kind Kind) String() string {
	switch kind {
	case KindProgramCore:
		return "PROG"
	case KindRead:
		return "READ"
	case KindCompute:
		return "COMPUTE"
	case KindWrite:
		return "WRITE"
	case KindEnd:
		return "END"
	default:
		return fmt.Sprintf("Kind(%d)", int(kind))
	}
}

// Executable reports whether kind belongs to the executable block.
func (kind Kind) Executable() bool {
	return kind == KindRead || kind == KindCompute || kind == KindWrite
}

// Instruction is one record of an instruction stream. Only the fields that
// belong to Kind are meaningful: CoreID/Class/Lut for ProgramCore, CoreID and
// Address for Compute, Address for Read and Write.
type Instruction struct {
	Kind    Kind
	CoreID  int
	Class   CoreClass
	Lut     Lut
	Address Address
}

func ProgramCore(coreID int, class CoreClass, lut Lut) Instruction {
	return Instruction{Kind: KindProgramCore, CoreID: coreID, Class: class, Lut: lut}
}

func Read(address Address) Instruction {
	return Instruction{Kind: KindRead, Address: address}
}

func Compute(coreID int, address Address) Instruction {
	return Instruction{Kind: KindCompute, CoreID: coreID, Address: address}
}

func Write(address Address) Instruction {
	return Instruction{Kind: KindWrite, Address: address}
}

func End() Instruction {
	return Instruction{Kind: KindEnd}
}

// String renders the instruction in the textual assembly grammar.
func (inst Instruction) String() string {
	switch inst.Kind {
	case KindProgramCore:
		return fmt.Sprintf("PROG Core%d %s %s", inst.CoreID, inst.Class, inst.Lut)
	case KindRead:
		return "EXE Read " + inst.Address.String()
	case KindCompute:
		return fmt.Sprintf("EXE CorePtr%d %s", inst.CoreID, inst.Address)
	case KindWrite:
		return "EXE Write " + inst.Address.String()
	case KindEnd:
		return "END"
	default:
		return "UNKNOWN"
	}
}
