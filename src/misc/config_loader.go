package misc

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
)

// Config holds every command line option of the toolchain.
type Config struct {
	N int
	M int
	P int

	MatrixA      string
	MatrixB      string
	TemplatePath string
	OutputPath   string
	BinDirpath   string
	RootDirpath  string

	Mode string

	SimulatorBinary    string
	SimulatorTimeoutMs int

	Seed       int64
	NumWorkers int

	Verbose   int
	LogFormat string
}

// DefaultConfig returns the option defaults.
func DefaultConfig() *Config {
	return &Config{
		N:                  3,
		M:                  3,
		P:                  3,
		OutputPath:         "output.asm",
		BinDirpath:         "bin",
		Mode:               string(DefaultGenerationMode()),
		SimulatorTimeoutMs: 5000,
		Seed:               1,
		NumWorkers:         4,
		LogFormat:          "text",
	}
}

// BindFlags registers every option on flags, writing parsed values into config.
func BindFlags(flags *pflag.FlagSet, config *Config) {
	// NOTE: Explanation of verbose level
	// level 0: Only prints results and warnings
	// level 1: level 0 + debug records of every pipeline stage
	flags.IntVar(&config.Verbose, "verbose", config.Verbose, "verbosity of the toolchain")
	flags.StringVar(&config.LogFormat, "log_format", config.LogFormat, "log output format (text|json)")

	flags.IntVar(&config.N, "n", config.N, "rows of matrix A")
	flags.IntVar(&config.M, "m", config.M, "columns of matrix A / rows of matrix B")
	flags.IntVar(&config.P, "p", config.P, "columns of matrix B")

	flags.StringVar(&config.MatrixA, "matrix_a", config.MatrixA, "path to a matrix A text file (overrides n, m)")
	flags.StringVar(&config.MatrixB, "matrix_b", config.MatrixB, "path to a matrix B text file (overrides m, p)")

	flags.StringVar(&config.Mode, "mode", config.Mode, "program generation mode (fresh|adapt|auto)")
	flags.StringVar(&config.TemplatePath, "template_path", config.TemplatePath,
		"path to a previously generated program to adapt")
	flags.StringVar(&config.OutputPath, "output_path", config.OutputPath, "path of the generated program")

	flags.StringVar(&config.RootDirpath, "root_dirpath", config.RootDirpath,
		"path to the root directory used to resolve relative paths")
	flags.StringVar(&config.BinDirpath, "bin_dirpath", config.BinDirpath, "path to the bin directory")

	flags.StringVar(&config.SimulatorBinary, "simulator_binary", config.SimulatorBinary,
		"path to the pPIM simulator executable (optional)")
	flags.IntVar(&config.SimulatorTimeoutMs, "simulator_timeout_ms", config.SimulatorTimeoutMs,
		"simulator run timeout in milliseconds (<=0 disables the timeout)")

	flags.Int64Var(&config.Seed, "seed", config.Seed, "seed of the random source used for matrices and timing jitter")
	flags.IntVar(&config.NumWorkers, "num_workers", config.NumWorkers, "number of concurrent batch workers")
}

// ConfigureRuntime resolves relative paths against the root directory and
// publishes the generation mode. Inputs are searched for in the root directory
// and its parents, then in the working directory. Outputs and the simulator
// binary are anchored at the root directory.
func ConfigureRuntime(config *Config) {
	if config == nil {
		return
	}

	if mode, ok := GenerationModeFromString(config.Mode); ok {
		SetRuntimeGenerationMode(mode)
	}

	root_dirpath := strings.TrimSpace(config.RootDirpath)
	config.TemplatePath = locateInput(config.TemplatePath, root_dirpath)
	config.MatrixA = locateInput(config.MatrixA, root_dirpath)
	config.MatrixB = locateInput(config.MatrixB, root_dirpath)

	config.OutputPath = anchorAtRoot(config.OutputPath, root_dirpath)
	config.BinDirpath = anchorAtRoot(config.BinDirpath, root_dirpath)
	config.SimulatorBinary = anchorAtRoot(config.SimulatorBinary, root_dirpath)
}

// locateInput returns the first existing match of a relative input path, or
// the path unchanged when nothing matches.
func locateInput(path, root_dirpath string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}

	var bases []string
	if root_dirpath != "" {
		for dir := filepath.Clean(root_dirpath); ; dir = filepath.Dir(dir) {
			bases = append(bases, dir)
			if filepath.Dir(dir) == dir {
				break
			}
		}
	}
	if cwd, err := os.Getwd(); err == nil {
		bases = append(bases, cwd)
	}

	for _, base := range bases {
		candidate := filepath.Join(base, path)
		if _, err := os.Stat(candidate); err == nil {
			return absolute(candidate)
		}
	}
	return path
}

// anchorAtRoot joins a relative path onto the root directory. Without a root
// the path is left relative to the working directory.
func anchorAtRoot(path, root_dirpath string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	if root_dirpath == "" {
		return path
	}
	return absolute(filepath.Join(root_dirpath, path))
}

func absolute(path string) string {
	if resolved, err := filepath.Abs(path); err == nil {
		return resolved
	}
	return path
}
