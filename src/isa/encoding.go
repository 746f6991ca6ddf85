package isa

import "fmt"

// Opcode is the two-bit instruction class of an encoded word.
type Opcode uint32

const (
	OpcodeProg Opcode = 0
	OpcodeExe  Opcode = 1
	OpcodeEnd  Opcode = 2
)

// Word layout, 19 bits:
//
//	18-17   16-11            10   9    8-0
//	opcode  read/core ptr.   rd   wr   row address
const (
	opcodeShift  = 17
	pointerShift = 11
	readShift    = 10
	writeShift   = 9

	opcodeMask  = 0x3
	pointerMask = 0x3f
	rowMask     = 0x1ff

	MaxPointer = pointerMask
	MaxRow     = rowMask
)

// Word is the decoded form of an encoded instruction.
type Word struct {
	Opcode  Opcode
	Pointer int
	Read    bool
	Write   bool
	Row     int
}

// Encode packs inst into its binary word.
func Encode(inst Instruction) (uint32, error) {
	word := Word{}
	switch inst.Kind {
	case KindProgramCore:
		word.Opcode = OpcodeProg
		word.Pointer = inst.CoreID
	case KindRead:
		word.Opcode = OpcodeExe
		word.Read = true
		word.Row = int(inst.Address)
	case KindWrite:
		word.Opcode = OpcodeExe
		word.Write = true
		word.Row = int(inst.Address)
	case KindCompute:
		word.Opcode = OpcodeExe
		word.Pointer = inst.CoreID
		word.Row = int(inst.Address)
	case KindEnd:
		word.Opcode = OpcodeEnd
	default:
		return 0, fmt.Errorf("encode: unknown kind %d", int(inst.Kind))
	}

	if word.Pointer < 0 || word.Pointer > MaxPointer {
		return 0, fmt.Errorf("%w: pointer %d (must be 0-%d)", ErrOutOfRange, word.Pointer, MaxPointer)
	}
	if word.Row < 0 || word.Row > MaxRow {
		return 0, fmt.Errorf("%w: row address %d (must be 0-%d)", ErrOutOfRange, word.Row, MaxRow)
	}
	return word.Pack(), nil
}

// Pack assembles the bit fields without range checks.
func (word Word) Pack() uint32 {
	binary := (uint32(word.Opcode) & opcodeMask) << opcodeShift
	binary |= (uint32(word.Pointer) & pointerMask) << pointerShift
	if word.Read {
		binary |= 1 << readShift
	}
	if word.Write {
		binary |= 1 << writeShift
	}
	binary |= uint32(word.Row) & rowMask
	return binary
}

// Decode splits a binary word into its fields.
func Decode(binary uint32) Word {
	return Word{
		Opcode:  Opcode((binary >> opcodeShift) & opcodeMask),
		Pointer: int((binary >> pointerShift) & pointerMask),
		Read:    (binary>>readShift)&1 == 1,
		Write:   (binary>>writeShift)&1 == 1,
		Row:     int(binary & rowMask),
	}
}
