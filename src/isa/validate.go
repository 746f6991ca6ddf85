package isa

import "fmt"

// Validate checks the structural contract every instruction stream must hold
// regardless of how it was produced: a non-empty programming block first, an
// executable block using only declared cores, and a single END last.
func Validate(program *Program) error {
	if program == nil || len(program.Instructions) == 0 {
		return fmt.Errorf("%w: empty instruction stream", ErrInvalidProgram)
	}

	instructions := program.Instructions
	declared := make(map[int]CoreClass)

	index := 0
	for ; index < len(instructions) && instructions[index].Kind == KindProgramCore; index++ {
		inst := instructions[index]
		if !inst.Class.Valid() {
			return fmt.Errorf("%w: instruction %d: Core%d has unknown class %d", ErrInvalidProgram, index, inst.CoreID, int(inst.Class))
		}
		if inst.CoreID < 0 {
			return fmt.Errorf("%w: instruction %d: negative core id %d", ErrInvalidProgram, index, inst.CoreID)
		}
		if _, ok := declared[inst.CoreID]; ok {
			return fmt.Errorf("%w: instruction %d: Core%d programmed twice", ErrInvalidProgram, index, inst.CoreID)
		}
		declared[inst.CoreID] = inst.Class
	}
	if index == 0 {
		return fmt.Errorf("%w: programming block is empty", ErrInvalidProgram)
	}

	last := len(instructions) - 1
	for ; index < last; index++ {
		inst := instructions[index]
		switch inst.Kind {
		case KindRead, KindWrite:
		case KindCompute:
			if _, ok := declared[inst.CoreID]; !ok {
				return fmt.Errorf("%w: instruction %d: compute on undeclared Core%d", ErrInvalidProgram, index, inst.CoreID)
			}
		case KindProgramCore:
			return fmt.Errorf("%w: instruction %d: PROG after the executable block", ErrInvalidProgram, index)
		case KindEnd:
			return fmt.Errorf("%w: instruction %d: END before the last instruction", ErrInvalidProgram, index)
		default:
			return fmt.Errorf("%w: instruction %d: unknown kind %d", ErrInvalidProgram, index, int(inst.Kind))
		}
		if inst.Address < 0 {
			return fmt.Errorf("%w: instruction %d: negative address", ErrInvalidProgram, index)
		}
	}

	if instructions[last].Kind != KindEnd || index > last {
		return fmt.Errorf("%w: stream does not terminate with END", ErrInvalidProgram)
	}
	return nil
}
