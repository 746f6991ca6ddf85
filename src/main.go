package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"pPIMulator/src/misc"
)

// modeAnnotation pins the generation mode of a subcommand.
const modeAnnotation = "mode"

type application struct {
	config *misc.Config
	root   *cobra.Command
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := newApplication()
	if err := app.root.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApplication() *application {
	app := &application{config: misc.DefaultConfig()}

	root := &cobra.Command{
		Use:           "ppim",
		Short:         "pPIM assembly compiler, assembler and simulator driver",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// NOTE: verbose 0 prints results and warnings, verbose 1 adds debug
	// records of every stage
	misc.BindFlags(root.PersistentFlags(), app.config)

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if mode, ok := cmd.Annotations[modeAnnotation]; ok {
			app.config.Mode = mode
		}

		misc.ConfigureRuntime(app.config)

		command_line_validator := new(misc.CommandLineValidator)
		command_line_validator.Init(app.config)
		return command_line_validator.Validate()
	}

	root.AddCommand(
		app.generateCommand(),
		app.adaptCommand(),
		app.assembleCommand(),
		app.simulateCommand(),
		app.perfCommand(),
		app.randomCommand(),
		app.batchCommand(),
	)

	app.root = root
	return app
}

// dumpOptions records the effective option values next to the outputs.
func (app *application) dumpOptions(flags *pflag.FlagSet) error {
	if app.config.BinDirpath == "" {
		return nil
	}

	lines := make([]string, 0, 16)
	flags.VisitAll(func(flag *pflag.Flag) {
		lines = append(lines, fmt.Sprintf("--%s=%s", flag.Name, flag.Value.String()))
	})

	options_file_dumper := new(misc.FileDumper)
	options_file_dumper.Init(filepath.Join(app.config.BinDirpath, "options.txt"))
	return options_file_dumper.WriteLines([]string{strings.Join(lines, " ")})
}
