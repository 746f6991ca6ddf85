package synthesizer

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pPIMulator/src/isa"
)

var grammar = []*regexp.Regexp{
	regexp.MustCompile(`^//`),
	regexp.MustCompile(`^$`),
	regexp.MustCompile(`^PROG Core\d+ (MULTIPLIER|ADDER|MAC) \[0x[0-9a-f]{2}(, 0x[0-9a-f]{2}){7}\]$`),
	regexp.MustCompile(`^EXE Read RowAddress\d+$`),
	regexp.MustCompile(`^EXE CorePtr\d+ RowAddress\d+$`),
	regexp.MustCompile(`^EXE Write RowAddress\d+$`),
	regexp.MustCompile(`^END$`),
}

func matchesGrammar(line string) bool {
	for _, pattern := range grammar {
		if pattern.MatchString(line) {
			return true
		}
	}
	return false
}

func mustShape(t *testing.T, n, m, p int) Shape {
	t.Helper()
	shape, err := NewShape(n, m, p)
	require.NoError(t, err)
	return shape
}

func TestSynthesizeSmallScenario(t *testing.T) {
	t.Parallel()

	program, err := Synthesize(mustShape(t, 3, 2, 4))
	require.NoError(t, err)

	stats := program.Stats()
	assert.Equal(t, 3, stats.Prog)
	assert.Equal(t, 24, stats.Executable())
	assert.Equal(t, 9, PoolSize(mustShape(t, 3, 2, 4)))

	executable := program.ExecutableBlock()
	assert.Equal(t, isa.Read(0), executable[0])
	assert.Equal(t, isa.Read(2), executable[1])
	assert.Equal(t, isa.Compute(0, 2), executable[2])
	assert.Equal(t, isa.Compute(1, 4), executable[3])
	assert.Equal(t, isa.Write(6), executable[4])

	// second cycle rotates the cores and wraps the nine-entry pool
	assert.Equal(t, isa.Compute(1, 7), executable[7])
	assert.Equal(t, isa.Compute(2, 0), executable[8])
	assert.Equal(t, isa.Write(2), executable[9])
}

func TestSynthesizeLargeScenario(t *testing.T) {
	t.Parallel()

	program, err := Synthesize(mustShape(t, 9, 9, 9))
	require.NoError(t, err)

	stats := program.Stats()
	assert.Equal(t, 6, stats.Prog)
	assert.Equal(t, 162, stats.Executable())
}

func TestSynthesizeHeader(t *testing.T) {
	t.Parallel()

	program, err := Synthesize(mustShape(t, 3, 2, 4))
	require.NoError(t, err)

	text := program.String()
	assert.True(t, strings.HasPrefix(text, "// pPIM Assembly generated by pPIM Compiler\n"+
		"// Format: <Instruction> <Parameters>\n"+
		"// Matrix A: 3x2, Matrix B: 2x4, Result: 3x4\n"+
		"\n"+
		"PROG Core0 MULTIPLIER [0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07]\n"))
	assert.True(t, strings.HasSuffix(text, "\nEND\n"))
}

func TestSynthesizeProperties(t *testing.T) {
	t.Parallel()

	for n := 1; n <= 50; n++ {
		for p := 1; p <= 50; p++ {
			for _, m := range []int{1, 4, 9, 50} {
				shape := mustShape(t, n, m, p)
				program, err := Synthesize(shape)
				require.NoError(t, err, shape.String())

				stats := program.Stats()
				require.Equal(t, NumOps(shape), stats.Executable(), shape.String())
				require.Equal(t, min(200, max(10, n*p*2)), NumOps(shape))

				instructions := program.Instructions
				require.Equal(t, isa.KindEnd, instructions[len(instructions)-1].Kind)
				for _, inst := range instructions[:len(instructions)-1] {
					require.NotEqual(t, isa.KindEnd, inst.Kind)
				}

				declared := program.CoreIDs()
				for _, inst := range program.ExecutableBlock() {
					if inst.Kind == isa.KindCompute {
						require.Contains(t, declared, inst.CoreID, shape.String())
					}
					require.Less(t, int(inst.Address), PoolSize(shape))
				}
			}
		}
	}
}

func TestSynthesizeGrammar(t *testing.T) {
	t.Parallel()

	for _, shape := range []Shape{{1, 1, 1}, {3, 2, 4}, {6, 6, 6}, {10, 10, 10}, {50, 3, 50}} {
		program, err := Synthesize(shape)
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSuffix(program.String(), "\n"), "\n")
		for _, line := range lines {
			assert.True(t, matchesGrammar(line), "line %q of %s", line, shape)
		}
	}
}

func TestSynthesizeRejectsInvalidShape(t *testing.T) {
	t.Parallel()

	for _, shape := range []Shape{{0, 1, 1}, {1, -2, 1}, {1, 1, 0}} {
		_, err := Synthesize(shape)
		assert.ErrorIs(t, err, ErrInvalidShape, shape.String())
	}
}

func TestSynthesizeClampsOutsideUsualBounds(t *testing.T) {
	t.Parallel()

	program, err := Synthesize(mustShape(t, 1000, 1, 1000))
	require.NoError(t, err)
	assert.Equal(t, MaxOps, program.Stats().Executable())
	assert.Equal(t, 6, program.Stats().Prog)
	assert.Equal(t, MaxPoolSize, PoolSize(mustShape(t, 1000, 1, 1000)))
}

func TestSynthesizeIsReproducible(t *testing.T) {
	t.Parallel()

	first, err := Synthesize(mustShape(t, 7, 3, 5))
	require.NoError(t, err)
	second, err := Synthesize(mustShape(t, 7, 3, 5))
	require.NoError(t, err)
	assert.Equal(t, first.String(), second.String())
}
