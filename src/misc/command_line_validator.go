package misc

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

type CommandLineValidator struct {
	config *Config
}

func (this *CommandLineValidator) Init(config *Config) {
	this.config = config
}

func (this *CommandLineValidator) Validate() error {
	if this.config == nil {
		return errors.New("config is nil")
	}

	if this.config.Verbose < 0 {
		return errors.New("verbose < 0")
	}

	log_format := this.config.LogFormat
	if log_format != "text" && log_format != "json" {
		return fmt.Errorf("log_format %s is not supported", log_format)
	}

	mode, ok := GenerationModeFromString(this.config.Mode)
	if !ok {
		return fmt.Errorf("mode %s is not supported", this.config.Mode)
	}

	matrix_a := strings.TrimSpace(this.config.MatrixA)
	matrix_b := strings.TrimSpace(this.config.MatrixB)
	if (matrix_a == "") != (matrix_b == "") {
		return errors.New("matrix_a and matrix_b must be given together")
	}

	if matrix_a != "" {
		if _, stat_err := os.Stat(matrix_a); os.IsNotExist(stat_err) {
			return fmt.Errorf("matrix_a %s does not exist", matrix_a)
		}
		if _, stat_err := os.Stat(matrix_b); os.IsNotExist(stat_err) {
			return fmt.Errorf("matrix_b %s does not exist", matrix_b)
		}
	} else {
		if this.config.N <= 0 {
			return errors.New("n <= 0")
		}

		if this.config.M <= 0 {
			return errors.New("m <= 0")
		}

		if this.config.P <= 0 {
			return errors.New("p <= 0")
		}
	}

	template_path := strings.TrimSpace(this.config.TemplatePath)
	if mode == GenerationModeAdapt {
		if template_path == "" {
			return errors.New("mode adapt requires template_path")
		}
		if _, stat_err := os.Stat(template_path); os.IsNotExist(stat_err) {
			return fmt.Errorf("template_path %s does not exist", template_path)
		}
	}

	if strings.TrimSpace(this.config.OutputPath) == "" {
		return errors.New("output_path is empty")
	}

	if root_dirpath := strings.TrimSpace(this.config.RootDirpath); root_dirpath != "" {
		if _, stat_err := os.Stat(root_dirpath); os.IsNotExist(stat_err) {
			return fmt.Errorf("root_dirpath %s does not exist", root_dirpath)
		}
	}

	if simulator_binary := strings.TrimSpace(this.config.SimulatorBinary); simulator_binary != "" {
		if _, stat_err := os.Stat(simulator_binary); os.IsNotExist(stat_err) {
			return fmt.Errorf("simulator_binary %s does not exist", simulator_binary)
		}
	}

	if this.config.NumWorkers <= 0 {
		return errors.New("num_workers <= 0")
	}

	return nil
}
