package synthesizer

import (
	"fmt"
	"strings"

	"pPIMulator/src/allocator"
	"pPIMulator/src/isa"
)

// Adaptation is a prior program resized to a new shape.
type Adaptation struct {
	Program *isa.Program
	Shape   Shape

	// PriorShape is the shape recorded in the prior header, nil when the
	// header carries no annotation.
	PriorShape *Shape

	// CarriedOps is the executable block length of the prior program.
	CarriedOps int
	Extended   bool
	Truncated  bool

	// CoreDeficit is how many more cores fresh synthesis would program for
	// Shape than the carried programming block holds.
	CoreDeficit int
}

// Adapt parses prior and resizes it to shape.
func Adapt(prior string, shape Shape) (*Adaptation, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}

	program, err := isa.ParseProgram(prior)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedTemplate, err)
	}
	return AdaptProgram(program, shape)
}

// AdaptProgram resizes a parsed program to shape. The header annotation is
// rewritten, the programming block is kept as is, and the executable block is
// cyclically extended or truncated to NumOps(shape).
func AdaptProgram(prior *isa.Program, shape Shape) (*Adaptation, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if prior == nil {
		return nil, fmt.Errorf("%w: nil program", ErrMalformedTemplate)
	}
	if err := isa.Validate(prior); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedTemplate, err)
	}

	programming := prior.ProgramBlock()
	carried := prior.ExecutableBlock()
	if len(carried) == 0 {
		return nil, fmt.Errorf("%w: no executable lines to extend", ErrMalformedTemplate)
	}

	numOps := NumOps(shape)
	instructions := make([]isa.Instruction, 0, len(programming)+numOps+1)
	instructions = append(instructions, programming...)
	for i := 0; i < numOps; i++ {
		instructions = append(instructions, carried[i%len(carried)])
	}
	instructions = append(instructions, isa.End())

	program := &isa.Program{
		Header:       rewriteHeader(prior.Header, shape),
		Instructions: instructions,
	}
	if err := isa.Validate(program); err != nil {
		return nil, fmt.Errorf("adapt %s: %w", shape, err)
	}

	var priorShape *Shape
	if recorded, ok := ShapeFromHeader(prior.Header); ok {
		priorShape = &recorded
	}

	return &Adaptation{
		Program:     program,
		Shape:       shape,
		PriorShape:  priorShape,
		CarriedOps:  len(carried),
		Extended:    numOps > len(carried),
		Truncated:   numOps < len(carried),
		CoreDeficit: max(0, allocator.Cardinality(shape.MaxDim())-len(programming)),
	}, nil
}

// rewriteHeader replaces the dimension annotation, or appends one after the
// last comment line when the header has none.
func rewriteHeader(header []string, shape Shape) []string {
	rewritten := make([]string, len(header))
	copy(rewritten, header)

	for i, line := range rewritten {
		if annotationPattern.MatchString(line) {
			rewritten[i] = shape.Annotation()
			return rewritten
		}
	}

	at := 0
	for i, line := range rewritten {
		if strings.HasPrefix(line, "//") {
			at = i + 1
		}
	}
	rewritten = append(rewritten, "")
	copy(rewritten[at+1:], rewritten[at:])
	rewritten[at] = shape.Annotation()
	return rewritten
}
