package compiler

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pPIMulator/src/synthesizer"
)

// BatchSpec lists the shapes of a batch compilation. Each entry is compiled
// Repeat times; a missing repeat counts as one.
type BatchSpec struct {
	Name     string       `json:"name"`
	Sequence []BatchEntry `json:"sequence"`
}

type BatchEntry struct {
	N      int `json:"n"`
	M      int `json:"m"`
	P      int `json:"p"`
	Repeat int `json:"repeat,omitempty"`
}

// LoadBatchSpec reads a batch description from a JSON file.
func LoadBatchSpec(path string) (*BatchSpec, error) {
	if path == "" {
		return nil, errors.New("empty batch spec path")
	}

	clean := filepath.Clean(path)
	data, err := os.ReadFile(clean)
	if err != nil {
		return nil, fmt.Errorf("read batch spec: %w", err)
	}

	spec := new(BatchSpec)
	if err := json.Unmarshal(data, spec); err != nil {
		return nil, fmt.Errorf("parse batch spec %s: %w", clean, err)
	}
	if len(spec.Sequence) == 0 {
		return nil, fmt.Errorf("batch spec %s contains no shapes", clean)
	}
	if spec.Name == "" {
		spec.Name = "batch"
	}
	if err := validateBatchName(spec.Name); err != nil {
		return nil, fmt.Errorf("batch spec %s: %w", clean, err)
	}
	return spec, nil
}

// validateBatchName rejects names that would place batch programs outside
// the bin directory.
func validateBatchName(name string) error {
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) || name != filepath.Base(name) {
		return fmt.Errorf("batch name %q must not contain path elements", name)
	}
	return nil
}

// Shapes expands the sequence into one shape per compilation.
func (spec *BatchSpec) Shapes() ([]synthesizer.Shape, error) {
	if spec == nil {
		return nil, errors.New("nil batch spec")
	}

	shapes := make([]synthesizer.Shape, 0, len(spec.Sequence))
	for i, entry := range spec.Sequence {
		shape, err := synthesizer.NewShape(entry.N, entry.M, entry.P)
		if err != nil {
			return nil, fmt.Errorf("batch entry %d: %w", i, err)
		}
		if entry.Repeat < 0 {
			return nil, fmt.Errorf("batch entry %d: negative repeat %d", i, entry.Repeat)
		}
		for r := 0; r < max(1, entry.Repeat); r++ {
			shapes = append(shapes, shape)
		}
	}
	return shapes, nil
}
