package compiler

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"pPIMulator/src/isa"
	"pPIMulator/src/misc"
	"pPIMulator/src/synthesizer"
)

// BatchResult is one program of a batch compilation.
type BatchResult struct {
	Index int               `json:"index"`
	Shape synthesizer.Shape `json:"shape"`
	Path  string            `json:"path"`
	Stats isa.Stats         `json:"stats"`
}

// BatchFilename names the program of entry index in a batch.
func BatchFilename(name string, index int, shape synthesizer.Shape) string {
	return fmt.Sprintf("%s_%03d_%s.asm", name, index, shape)
}

// CompileBatch synthesizes every shape with at most num_workers programs in
// flight and writes each into the bin directory. Results keep the order of
// shapes. The first failure cancels the remaining work.
func (this *Compiler) CompileBatch(ctx context.Context, name string, shapes []synthesizer.Shape) ([]BatchResult, error) {
	if this.config == nil {
		return nil, errors.New("compiler: not initialized")
	}
	if len(shapes) == 0 {
		return nil, errors.New("compiler: empty batch")
	}
	if name == "" {
		name = "batch"
	}
	if err := validateBatchName(name); err != nil {
		return nil, fmt.Errorf("compiler: %w", err)
	}

	results := make([]BatchResult, len(shapes))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(max(1, this.config.NumWorkers))
	for i, shape := range shapes {
		i, shape := i, shape
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			program, err := synthesizer.Synthesize(shape)
			if err != nil {
				return fmt.Errorf("batch entry %d: %w", i, err)
			}

			path := filepath.Join(this.bin_dirpath, BatchFilename(name, i, shape))
			dumper := new(misc.FileDumper)
			dumper.Init(path)
			if err := dumper.WriteString(program.String()); err != nil {
				return fmt.Errorf("batch entry %d: %w", i, err)
			}

			results[i] = BatchResult{Index: i, Shape: shape, Path: path, Stats: program.Stats()}
			this.logger.Debug("batch entry written", "index", i, "shape", shape.String(), "path", path)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	this.logger.Info("batch compiled", "name", name, "programs", len(results), "workers", this.config.NumWorkers)
	return results, nil
}
