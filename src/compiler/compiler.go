package compiler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"pPIMulator/src/isa"
	"pPIMulator/src/matrix"
	"pPIMulator/src/misc"
	"pPIMulator/src/perfmodel"
	"pPIMulator/src/synthesizer"
)

// ManifestFilename is written into the bin directory by EmitProgramManifest.
const ManifestFilename = "program_manifest.json"

// Result describes one compiled program.
type Result struct {
	Shape      synthesizer.Shape
	Mode       misc.GenerationMode
	Program    *isa.Program
	OutputPath string

	// Adaptation is set when the program was adapted from a template.
	Adaptation *synthesizer.Adaptation

	Perf perfmodel.Result
}

type Compiler struct {
	config *misc.Config
	logger *slog.Logger

	bin_dirpath   string
	output_path   string
	template_path string
	mode          misc.GenerationMode

	perf   *perfmodel.Model
	result *Result
}

func (this *Compiler) Init(config *misc.Config, logger *slog.Logger) error {
	if config == nil {
		return errors.New("compiler: nil config")
	}
	if logger == nil {
		logger = misc.DiscardLogger()
	}

	this.config = config
	this.logger = logger.With("component", "compiler")

	this.bin_dirpath = config.BinDirpath
	this.output_path = config.OutputPath
	this.template_path = strings.TrimSpace(config.TemplatePath)

	if config.Mode == "" {
		this.mode = misc.RuntimeGenerationMode()
	} else {
		mode, ok := misc.GenerationModeFromString(config.Mode)
		if !ok {
			return fmt.Errorf("compiler: mode %s is not supported", config.Mode)
		}
		this.mode = mode
	}

	this.perf = perfmodel.NewModel(perfmodel.NewRandJitter(config.Seed))
	return nil
}

// Compile produces the program for the configured operands and writes it to
// the output path.
func (this *Compiler) Compile(ctx context.Context) (*Result, error) {
	if this.config == nil {
		return nil, errors.New("compiler: not initialized")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	shape, err := this.resolveShape()
	if err != nil {
		return nil, err
	}

	mode := this.resolveMode()
	this.logger.Debug("compiling", "shape", shape.String(), "mode", string(mode))

	result := &Result{Shape: shape, Mode: mode, OutputPath: this.output_path}
	switch mode {
	case misc.GenerationModeAdapt:
		adaptation, err := this.adapt(shape)
		if err != nil {
			return nil, err
		}
		result.Adaptation = adaptation
		result.Program = adaptation.Program
	default:
		program, err := synthesizer.Synthesize(shape)
		if err != nil {
			return nil, err
		}
		result.Program = program
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dumper := new(misc.FileDumper)
	dumper.Init(this.output_path)
	if err := dumper.WriteString(result.Program.String()); err != nil {
		return nil, fmt.Errorf("compiler: %w", err)
	}

	if result.Perf, err = this.perf.Estimate(shape); err != nil {
		return nil, err
	}

	stats := result.Program.Stats()
	this.logger.Info("program written",
		"path", dumper.Path(),
		"shape", shape.String(),
		"mode", string(mode),
		"cores", stats.Prog,
		"ops", stats.Executable())

	this.result = result
	return result, nil
}

func (this *Compiler) resolveShape() (synthesizer.Shape, error) {
	matrix_a := strings.TrimSpace(this.config.MatrixA)
	matrix_b := strings.TrimSpace(this.config.MatrixB)
	if matrix_a == "" && matrix_b == "" {
		return synthesizer.NewShape(this.config.N, this.config.M, this.config.P)
	}
	if matrix_a == "" || matrix_b == "" {
		return synthesizer.Shape{}, errors.New("compiler: matrix_a and matrix_b must be given together")
	}

	a, err := matrix.Load(matrix_a)
	if err != nil {
		return synthesizer.Shape{}, fmt.Errorf("compiler: %w", err)
	}
	b, err := matrix.Load(matrix_b)
	if err != nil {
		return synthesizer.Shape{}, fmt.Errorf("compiler: %w", err)
	}
	return matrix.ShapeOf(a, b)
}

// resolveMode turns auto into adapt when the template exists and into fresh
// otherwise.
func (this *Compiler) resolveMode() misc.GenerationMode {
	if this.mode != misc.GenerationModeAuto {
		return this.mode
	}
	if this.template_path == "" {
		return misc.GenerationModeFresh
	}
	if info, err := os.Stat(this.template_path); err != nil || info.IsDir() {
		return misc.GenerationModeFresh
	}
	return misc.GenerationModeAdapt
}

func (this *Compiler) adapt(shape synthesizer.Shape) (*synthesizer.Adaptation, error) {
	if this.template_path == "" {
		return nil, errors.New("compiler: mode adapt requires template_path")
	}
	data, err := os.ReadFile(this.template_path)
	if err != nil {
		return nil, fmt.Errorf("compiler: read template: %w", err)
	}

	adaptation, err := synthesizer.Adapt(string(data), shape)
	if err != nil {
		return nil, fmt.Errorf("compiler: adapt %s: %w", this.template_path, err)
	}
	if prior := adaptation.PriorShape; prior != nil && *prior != shape {
		this.logger.Info("resizing template",
			"template", this.template_path,
			"from", prior.String(),
			"to", shape.String())
	}
	if adaptation.CoreDeficit > 0 {
		this.logger.Warn("template programs fewer cores than fresh synthesis would",
			"template", this.template_path,
			"shape", shape.String(),
			"missing_cores", adaptation.CoreDeficit)
	}
	return adaptation, nil
}

// EmitProgramManifest writes a JSON summary of the last compiled program into
// the bin directory.
func (this *Compiler) EmitProgramManifest() error {
	if this.result == nil {
		return errors.New("compiler: nothing compiled")
	}
	if this.bin_dirpath == "" {
		return nil
	}
	if err := os.MkdirAll(this.bin_dirpath, 0o755); err != nil {
		return fmt.Errorf("compiler: %w", err)
	}

	type coreEntry struct {
		ID    int    `json:"id"`
		Class string `json:"class"`
		Lut   string `json:"lut"`
	}

	program := this.result.Program
	shape := this.result.Shape
	manifest := map[string]interface{}{
		"manifest_id": uuid.NewString(),
		"shape":       shape,
		"mode":        string(this.result.Mode),
		"output_path": this.result.OutputPath,
		"stats":       program.Stats(),
		"cores": lo.Map(program.ProgramBlock(), func(inst isa.Instruction, _ int) coreEntry {
			return coreEntry{ID: inst.CoreID, Class: inst.Class.String(), Lut: inst.Lut.String()}
		}),
		"num_ops":      synthesizer.NumOps(shape),
		"pool_size":    synthesizer.PoolSize(shape),
		"address_pool": synthesizer.NewAddressPool(synthesizer.PoolSize(shape)).Names(),
	}
	if adaptation := this.result.Adaptation; adaptation != nil {
		manifest["adaptation"] = map[string]interface{}{
			"prior_shape":  adaptation.PriorShape,
			"carried_ops":  adaptation.CarriedOps,
			"extended":     adaptation.Extended,
			"truncated":    adaptation.Truncated,
			"core_deficit": adaptation.CoreDeficit,
		}
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("compiler: %w", err)
	}

	path := filepath.Join(this.bin_dirpath, ManifestFilename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("compiler: %w", err)
	}
	this.logger.Info("wrote program manifest", "path", path)
	return nil
}
