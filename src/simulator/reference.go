package simulator

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"pPIMulator/src/isa"
	"pPIMulator/src/misc"
)

// Cycle costs and clock of the reference pPIM model.
const (
	ProgCycles    = 10
	ReadCycles    = 2
	WriteCycles   = 2
	ComputeCycles = 1
	EndCycles     = 1
	ClockRateMhz  = 500

	// bank parallelism saves a fifth of the sequential cycles
	parallelFactor = 0.8
)

// Cycles returns the cost of one instruction.
func Cycles(kind isa.Kind) int {
	switch kind {
	case isa.KindProgramCore:
		return ProgCycles
	case isa.KindRead:
		return ReadCycles
	case isa.KindWrite:
		return WriteCycles
	case isa.KindCompute:
		return ComputeCycles
	case isa.KindEnd:
		return EndCycles
	default:
		return 0
	}
}

// Estimate computes the report for program in-process.
func Estimate(file string, program *isa.Program) Report {
	stats := program.Stats()

	totalCycles := 0
	for _, inst := range program.Instructions {
		totalCycles += Cycles(inst.Kind)
	}
	sequential := float64(totalCycles) / ClockRateMhz

	return Report{
		File:              file,
		TotalInstructions: len(program.Instructions),
		Prog:              stats.Prog,
		Read:              stats.Read,
		Write:             stats.Write,
		Compute:           stats.Compute,
		TotalCycles:       totalCycles,
		SequentialTimeUs:  sequential,
		ParallelTimeUs:    sequential * parallelFactor,
	}
}

// ReferencePlatform evaluates programs with the built-in cycle model.
type ReferencePlatform struct {
	logger *slog.Logger
}

func (this *ReferencePlatform) Init(config *misc.Config, logger *slog.Logger) error {
	this.logger = logger
	return nil
}

func (this *ReferencePlatform) Run(ctx context.Context, paths []string) ([]Report, error) {
	reports := make([]Report, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reference simulator: %w", err)
		}
		program, err := isa.ParseProgram(string(data))
		if err != nil {
			return nil, fmt.Errorf("reference simulator %s: %w", path, err)
		}

		report := Estimate(path, program)
		this.logger.Debug("reference simulation finished", "file", path, "cycles", report.TotalCycles)
		reports = append(reports, report)
	}
	return reports, nil
}

func (this *ReferencePlatform) Fini() {}
