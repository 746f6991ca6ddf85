package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"os"

	"github.com/spf13/cobra"

	"pPIMulator/src/assembler"
	"pPIMulator/src/compiler"
	"pPIMulator/src/isa"
	"pPIMulator/src/matrix"
	"pPIMulator/src/misc"
	"pPIMulator/src/perfmodel"
	"pPIMulator/src/simulator"
	"pPIMulator/src/synthesizer"
)

func (app *application) logger(cmd *cobra.Command) *slog.Logger {
	return misc.NewLogger(cmd.ErrOrStderr(), app.config.LogFormat, app.config.Verbose)
}

func (app *application) generateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Generate a program for the configured operands (mode fresh, adapt or auto)",
		Args:  cobra.NoArgs,
		RunE:  app.runCompile,
	}
}

func (app *application) adaptCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "adapt",
		Short:       "Resize the program at --template_path to the configured operands",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{modeAnnotation: string(misc.GenerationModeAdapt)},
		RunE:        app.runCompile,
	}
}

func (app *application) runCompile(cmd *cobra.Command, args []string) error {
	compiler_ := new(compiler.Compiler)
	if err := compiler_.Init(app.config, app.logger(cmd)); err != nil {
		return err
	}

	result, err := compiler_.Compile(cmd.Context())
	if err != nil {
		return err
	}
	if err := compiler_.EmitProgramManifest(); err != nil {
		return err
	}
	if err := app.dumpOptions(cmd.Flags()); err != nil {
		return err
	}

	stats := result.Program.Stats()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "generated %s (%s, %s): %d cores, %d executable instructions\n",
		result.OutputPath, result.Shape, result.Mode, stats.Prog, stats.Executable())
	fmt.Fprintf(out, "estimated cpu %.2f us, pim %.2f us, speedup %.2fx\n",
		result.Perf.CPUTime, result.Perf.PIMTime, result.Perf.Speedup)
	return nil
}

func (app *application) assembleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "assemble [program.asm]",
		Short: "Encode a program into program.bin and program.json under --bin_dirpath",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := app.config.OutputPath
			if len(args) == 1 {
				path = args[0]
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			program, err := isa.ParseProgram(string(data))
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			assembler_ := new(assembler.Assembler)
			assembler_.Init(app.config, app.logger(cmd))
			listing, err := assembler_.Assemble(program)
			if err != nil {
				return err
			}
			if err := assembler_.WriteListing(listing, app.config.BinDirpath); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "assembled %s: %d words\n", path, len(listing.Words))
			return nil
		},
	}
}

func (app *application) simulateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "simulate [program.asm...]",
		Short: "Run programs on the pPIM simulator (external binary when --simulator_binary is set)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{app.config.OutputPath}
			}

			simulator_ := new(simulator.Simulator)
			if err := simulator_.Init(app.config, app.logger(cmd)); err != nil {
				return err
			}
			defer simulator_.Fini()

			reports, err := simulator_.Run(cmd.Context(), args...)
			if err != nil {
				return err
			}
			for _, report := range reports {
				if err := report.Format(cmd.OutOrStdout()); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (app *application) perfCommand() *cobra.Command {
	var fallback bool

	command := &cobra.Command{
		Use:   "perf",
		Short: "Print the modelled CPU and pPIM timings for the configured operands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			model := perfmodel.NewModel(perfmodel.NewRandJitter(app.config.Seed))

			var result perfmodel.Result
			if fallback {
				result = model.Fallback()
			} else {
				shape, err := app.operandShape()
				if err != nil {
					return err
				}
				if result, err = model.Estimate(shape); err != nil {
					return err
				}
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(result)
		},
	}
	command.Flags().BoolVar(&fallback, "fallback", false, "print the estimate used when no operands are known")
	return command
}

func (app *application) randomCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "random <matrix_a_path> <matrix_b_path>",
		Short: "Write random n x m and m x p operand matrices",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rng := rand.New(rand.NewSource(app.config.Seed))
			a := matrix.Random(app.config.N, app.config.M, matrix.DefaultMin, matrix.DefaultMax, rng)
			b := matrix.Random(app.config.M, app.config.P, matrix.DefaultMin, matrix.DefaultMax, rng)

			if err := matrix.Save(args[0], a); err != nil {
				return err
			}
			if err := matrix.Save(args[1], b); err != nil {
				return err
			}

			product, err := matrix.Multiply(a, b)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "reference product:")
			if err := matrix.Write(cmd.OutOrStdout(), product); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
}

func (app *application) batchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "batch <spec.json>",
		Short: "Generate one program per shape of a batch spec into --bin_dirpath",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := compiler.LoadBatchSpec(args[0])
			if err != nil {
				return err
			}
			shapes, err := spec.Shapes()
			if err != nil {
				return err
			}

			compiler_ := new(compiler.Compiler)
			if err := compiler_.Init(app.config, app.logger(cmd)); err != nil {
				return err
			}
			results, err := compiler_.CompileBatch(cmd.Context(), spec.Name, shapes)
			if err != nil {
				return err
			}

			for _, result := range results {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s %d\n", result.Path, result.Shape, result.Stats.Executable())
			}
			return nil
		},
	}
}

func (app *application) operandShape() (synthesizer.Shape, error) {
	if app.config.MatrixA == "" {
		return synthesizer.NewShape(app.config.N, app.config.M, app.config.P)
	}

	a, err := matrix.Load(app.config.MatrixA)
	if err != nil {
		return synthesizer.Shape{}, err
	}
	b, err := matrix.Load(app.config.MatrixB)
	if err != nil {
		return synthesizer.Shape{}, err
	}
	return matrix.ShapeOf(a, b)
}
