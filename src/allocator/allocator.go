package allocator

import "pPIMulator/src/isa"

// Size thresholds on the largest problem dimension beyond which extra cores
// are programmed.
const (
	SecondPairThreshold = 5
	SecondMacThreshold  = 8
)

// CoreSpec is one programmed LUT core.
type CoreSpec struct {
	ID    int           `json:"id"`
	Class isa.CoreClass `json:"class"`
	Lut   isa.Lut       `json:"lut"`
}

// Instruction returns the PROG record that programs the core.
func (spec CoreSpec) Instruction() isa.Instruction {
	return isa.ProgramCore(spec.ID, spec.Class, spec.Lut)
}

// Plan is the ordered list of cores to program. It always starts with a
// MULTIPLIER, an ADDER and a MAC.
type Plan []CoreSpec

// Instructions returns the programming block for the plan.
func (plan Plan) Instructions() []isa.Instruction {
	instructions := make([]isa.Instruction, 0, len(plan))
	for _, spec := range plan {
		instructions = append(instructions, spec.Instruction())
	}
	return instructions
}

// Classes returns the core classes programmed for a given largest dimension.
func Classes(maxDim int) []isa.CoreClass {
	classes := []isa.CoreClass{isa.Multiplier, isa.Adder, isa.Mac}
	if maxDim > SecondPairThreshold {
		classes = append(classes, isa.Multiplier, isa.Adder)
	}
	if maxDim > SecondMacThreshold {
		classes = append(classes, isa.Mac)
	}
	return classes
}

// Cardinality returns the number of cores Allocate programs for maxDim.
func Cardinality(maxDim int) int {
	switch {
	case maxDim <= SecondPairThreshold:
		return 3
	case maxDim <= SecondMacThreshold:
		return 5
	default:
		return 6
	}
}

// Allocate builds the core plan for the largest of the three problem
// dimensions using the default filler tables.
func Allocate(maxDim int) Plan {
	return AllocateWith(maxDim, DefaultTables())
}

// AllocateWith builds the core plan with tables drawn from the given set.
func AllocateWith(maxDim int, tables Tables) Plan {
	classes := Classes(maxDim)
	plan := make(Plan, 0, len(classes))
	for id, class := range classes {
		plan = append(plan, CoreSpec{
			ID:    id,
			Class: class,
			Lut:   tables.Table(class, id),
		})
	}
	return plan
}
