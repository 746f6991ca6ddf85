package synthesizer

import (
	"fmt"

	"pPIMulator/src/allocator"
	"pPIMulator/src/isa"
)

// slotsPerCycle is the length of the read/read/compute/compute/write cycle.
const slotsPerCycle = 5

// Header returns the comment block written above a freshly generated program.
func Header(shape Shape) []string {
	return []string{
		"// pPIM Assembly generated by pPIM Compiler",
		"// Format: <Instruction> <Parameters>",
		shape.Annotation(),
		"",
	}
}

// Synthesize generates a program for shape from scratch.
func Synthesize(shape Shape) (*isa.Program, error) {
	return SynthesizeWith(shape, allocator.DefaultTables())
}

// SynthesizeWith generates a program whose core tables come from tables.
func SynthesizeWith(shape Shape, tables allocator.Tables) (*isa.Program, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}

	maxDim := shape.MaxDim()
	plan := allocator.AllocateWith(maxDim, tables)
	if cores := allocator.Cardinality(maxDim); cores != len(plan) {
		return nil, fmt.Errorf("synthesize %s: plan has %d cores, want %d", shape, len(plan), cores)
	}

	numOps := NumOps(shape)
	pool := NewAddressPool(PoolSize(shape))

	instructions := make([]isa.Instruction, 0, len(plan)+numOps+1)
	instructions = append(instructions, plan.Instructions()...)
	for i := 0; i < numOps; i++ {
		instructions = append(instructions, scheduleSlot(i, plan, pool))
	}
	instructions = append(instructions, isa.End())

	program := &isa.Program{
		Header:       Header(shape),
		Instructions: instructions,
	}
	if err := isa.Validate(program); err != nil {
		return nil, fmt.Errorf("synthesize %s: %w", shape, err)
	}
	return program, nil
}

// scheduleSlot emits instruction i of the executable block. Two reads feed two
// computes on neighbouring cores and a write retires the result; the second
// compute is offset by one core so consecutive cycles rotate through the plan.
func scheduleSlot(i int, plan allocator.Plan, pool AddressPool) isa.Instruction {
	cycle := i / slotsPerCycle
	switch i % slotsPerCycle {
	case 0:
		return isa.Read(pool.At(i))
	case 1:
		return isa.Read(pool.At(i + 1))
	case 2:
		return isa.Compute(plan[cycle%len(plan)].ID, pool.At(i))
	case 3:
		return isa.Compute(plan[(cycle+1)%len(plan)].ID, pool.At(i+1))
	default:
		return isa.Write(pool.At(i + 2))
	}
}
