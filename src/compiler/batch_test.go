package compiler

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pPIMulator/src/isa"
	"pPIMulator/src/misc"
	"pPIMulator/src/synthesizer"
)

func writeBatchSpec(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "batch.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadBatchSpec(t *testing.T) {
	t.Parallel()

	path := writeBatchSpec(t, `{
  "name": "sweep",
  "sequence": [
    {"n": 2, "m": 2, "p": 2},
    {"n": 6, "m": 3, "p": 1, "repeat": 2}
  ]
}`)

	spec, err := LoadBatchSpec(path)
	require.NoError(t, err)
	assert.Equal(t, "sweep", spec.Name)

	shapes, err := spec.Shapes()
	require.NoError(t, err)
	assert.Equal(t, []synthesizer.Shape{
		{N: 2, M: 2, P: 2},
		{N: 6, M: 3, P: 1},
		{N: 6, M: 3, P: 1},
	}, shapes)
}

func TestLoadBatchSpecErrors(t *testing.T) {
	t.Parallel()

	_, err := LoadBatchSpec("")
	assert.Error(t, err)

	_, err = LoadBatchSpec(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)

	_, err = LoadBatchSpec(writeBatchSpec(t, `{"name": "x", "sequence": []}`))
	assert.Error(t, err)

	_, err = LoadBatchSpec(writeBatchSpec(t, `not json`))
	assert.Error(t, err)

	spec, err := LoadBatchSpec(writeBatchSpec(t, `{"sequence": [{"n": 0, "m": 1, "p": 1}]}`))
	require.NoError(t, err)
	assert.Equal(t, "batch", spec.Name)
	_, err = spec.Shapes()
	assert.ErrorIs(t, err, synthesizer.ErrInvalidShape)

	spec, err = LoadBatchSpec(writeBatchSpec(t, `{"sequence": [{"n": 1, "m": 1, "p": 1, "repeat": -1}]}`))
	require.NoError(t, err)
	_, err = spec.Shapes()
	assert.Error(t, err)
}

func TestBatchNameStaysInBinDirectory(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"../x", "a/b", `a\b`, "..", "."} {
		body := `{"name": ` + strconv.Quote(name) + `, "sequence": [{"n": 1, "m": 1, "p": 1}]}`
		_, err := LoadBatchSpec(writeBatchSpec(t, body))
		assert.Error(t, err, name)
	}

	config := newTestConfig(t, misc.GenerationModeFresh, 1, 1, 1)
	compiler := newTestCompiler(t, config)
	_, err := compiler.CompileBatch(context.Background(), "../escape", []synthesizer.Shape{{N: 1, M: 1, P: 1}})
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(filepath.Dir(config.BinDirpath), BatchFilename("escape", 0, synthesizer.Shape{N: 1, M: 1, P: 1})))
	assert.True(t, os.IsNotExist(statErr))
}

func TestCompileBatch(t *testing.T) {
	t.Parallel()

	config := newTestConfig(t, misc.GenerationModeFresh, 1, 1, 1)
	config.NumWorkers = 2
	compiler := newTestCompiler(t, config)

	shapes := []synthesizer.Shape{
		{N: 2, M: 2, P: 2},
		{N: 6, M: 3, P: 1},
		{N: 6, M: 3, P: 1},
		{N: 9, M: 1, P: 1},
		{N: 20, M: 20, P: 20},
	}
	results, err := compiler.CompileBatch(context.Background(), "sweep", shapes)
	require.NoError(t, err)
	require.Len(t, results, len(shapes))

	for i, result := range results {
		assert.Equal(t, i, result.Index)
		assert.Equal(t, shapes[i], result.Shape)
		assert.Equal(t, filepath.Join(config.BinDirpath, BatchFilename("sweep", i, shapes[i])), result.Path)

		data, err := os.ReadFile(result.Path)
		require.NoError(t, err)
		program, err := isa.ParseProgram(string(data))
		require.NoError(t, err)
		assert.Equal(t, result.Stats, program.Stats())
		assert.Equal(t, synthesizer.NumOps(shapes[i]), result.Stats.Executable())
	}

	assert.Equal(t, "sweep_001_6x3x1.asm", filepath.Base(results[1].Path))
	assert.NotEqual(t, results[1].Path, results[2].Path)
}

func TestCompileBatchRejectsInvalidShape(t *testing.T) {
	t.Parallel()

	config := newTestConfig(t, misc.GenerationModeFresh, 1, 1, 1)
	compiler := newTestCompiler(t, config)

	_, err := compiler.CompileBatch(context.Background(), "bad", []synthesizer.Shape{{N: 1, M: 1, P: 1}, {N: 0, M: 1, P: 1}})
	assert.ErrorIs(t, err, synthesizer.ErrInvalidShape)

	_, err = compiler.CompileBatch(context.Background(), "empty", nil)
	assert.Error(t, err)
}
