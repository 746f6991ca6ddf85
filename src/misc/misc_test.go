package misc

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindFlagsParsesOptions(t *testing.T) {
	config := DefaultConfig()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(flags, config)

	err := flags.Parse([]string{"--n", "7", "--m=2", "--p", "9", "--mode", "fresh", "--num_workers", "2"})
	require.NoError(t, err)

	assert.Equal(t, 7, config.N)
	assert.Equal(t, 2, config.M)
	assert.Equal(t, 9, config.P)
	assert.Equal(t, "fresh", config.Mode)
	assert.Equal(t, 2, config.NumWorkers)
	assert.Equal(t, "output.asm", config.OutputPath)
}

func TestGenerationModeFromString(t *testing.T) {
	for _, value := range []string{"fresh", "adapt", "auto"} {
		mode, ok := GenerationModeFromString(value)
		assert.True(t, ok)
		assert.Equal(t, value, string(mode))
	}
	_, ok := GenerationModeFromString("upmem")
	assert.False(t, ok)
}

func TestConfigureRuntimePublishesMode(t *testing.T) {
	defer SetRuntimeGenerationMode(DefaultGenerationMode())

	config := DefaultConfig()
	config.Mode = "fresh"
	ConfigureRuntime(config)
	assert.Equal(t, GenerationModeFresh, RuntimeGenerationMode())
}

func TestConfigureRuntimeResolvesTemplate(t *testing.T) {
	root := t.TempDir()
	template := filepath.Join(root, "output.asm")
	require.NoError(t, os.WriteFile(template, []byte("END\n"), 0o644))

	config := DefaultConfig()
	config.RootDirpath = root
	config.TemplatePath = "output.asm"
	ConfigureRuntime(config)

	assert.Equal(t, template, config.TemplatePath)
}

func TestConfigureRuntimeAnchorsOutputsAtRoot(t *testing.T) {
	root := t.TempDir()
	elsewhere := filepath.Join(t.TempDir(), "abs.asm")

	config := DefaultConfig()
	config.RootDirpath = root
	config.BinDirpath = "build/bin"
	config.SimulatorBinary = "sim/pim_simulator"
	ConfigureRuntime(config)

	assert.Equal(t, filepath.Join(root, "output.asm"), config.OutputPath)
	assert.Equal(t, filepath.Join(root, "build", "bin"), config.BinDirpath)
	assert.Equal(t, filepath.Join(root, "sim", "pim_simulator"), config.SimulatorBinary)

	config = DefaultConfig()
	config.OutputPath = elsewhere
	ConfigureRuntime(config)
	assert.Equal(t, elsewhere, config.OutputPath)
	assert.Equal(t, "bin", config.BinDirpath)
	assert.Equal(t, "", config.SimulatorBinary)
}

func TestCommandLineValidator(t *testing.T) {
	root := t.TempDir()
	template := filepath.Join(root, "template.asm")
	require.NoError(t, os.WriteFile(template, []byte("END\n"), 0o644))

	cases := []struct {
		name   string
		modify func(config *Config)
		ok     bool
	}{
		{"defaults", func(config *Config) {}, true},
		{"zero n", func(config *Config) { config.N = 0 }, false},
		{"negative p", func(config *Config) { config.P = -1 }, false},
		{"bad mode", func(config *Config) { config.Mode = "chiplet" }, false},
		{"bad log format", func(config *Config) { config.LogFormat = "xml" }, false},
		{"adapt without template", func(config *Config) { config.Mode = "adapt" }, false},
		{"adapt with template", func(config *Config) { config.Mode = "adapt"; config.TemplatePath = template }, true},
		{"missing template", func(config *Config) { config.Mode = "adapt"; config.TemplatePath = template + ".missing" }, false},
		{"one matrix", func(config *Config) { config.MatrixA = template }, false},
		{"zero workers", func(config *Config) { config.NumWorkers = 0 }, false},
		{"missing simulator", func(config *Config) { config.SimulatorBinary = filepath.Join(root, "nope") }, false},
	}

	for _, c := range cases {
		config := DefaultConfig()
		c.modify(config)

		validator := new(CommandLineValidator)
		validator.Init(config)
		err := validator.Validate()
		if c.ok {
			assert.NoError(t, err, c.name)
		} else {
			assert.Error(t, err, c.name)
		}
	}
}

func TestFileDumperCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "out.txt")

	dumper := new(FileDumper)
	dumper.Init(path)
	require.NoError(t, dumper.WriteLines([]string{"a", "b"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", string(data))

	require.NoError(t, dumper.WriteString("c"))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "c", string(data))
}

func TestNewLoggerJSON(t *testing.T) {
	var buffer bytes.Buffer
	logger := NewLogger(&buffer, "json", 1)
	logger.Debug("synthesized", "shape", "3x2x4")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buffer.Bytes(), &record))
	assert.Equal(t, "synthesized", record["msg"])
	assert.Equal(t, "3x2x4", record["shape"])

	buffer.Reset()
	NewLogger(&buffer, "text", 0).Debug("hidden")
	assert.Empty(t, buffer.String())
}
