package matrix

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"pPIMulator/src/synthesizer"
)

// Default value range of generated operands.
const (
	DefaultMin = -10
	DefaultMax = 10

	// MaxCells bounds the size of a matrix read from a file.
	MaxCells = 1 << 24
)

// Random returns a rows x cols matrix of integers drawn uniformly from
// [lo, hi].
func Random(rows, cols, lo, hi int, rng *rand.Rand) *mat.Dense {
	if hi < lo {
		lo, hi = hi, lo
	}
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = float64(lo + rng.Intn(hi-lo+1))
	}
	return mat.NewDense(rows, cols, data)
}

// Write encodes m as a "rows cols" line followed by one line per row of
// space separated integers.
func Write(w io.Writer, m mat.Matrix) error {
	rows, cols := m.Dims()
	writer := bufio.NewWriter(w)
	fmt.Fprintf(writer, "%d %d\n", rows, cols)
	for i := 0; i < rows; i++ {
		cells := make([]string, cols)
		for j := 0; j < cols; j++ {
			cells[j] = strconv.FormatInt(int64(math.Round(m.At(i, j))), 10)
		}
		writer.WriteString(strings.Join(cells, " "))
		if i < rows-1 {
			writer.WriteByte('\n')
		}
	}
	return writer.Flush()
}

// Read decodes the format produced by Write.
func Read(r io.Reader) (*mat.Dense, error) {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)

	next := func(what string) (int, error) {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return 0, err
			}
			return 0, fmt.Errorf("read matrix: missing %s", what)
		}
		value, err := strconv.Atoi(scanner.Text())
		if err != nil {
			return 0, fmt.Errorf("read matrix: bad %s %q", what, scanner.Text())
		}
		return value, nil
	}

	rows, err := next("row count")
	if err != nil {
		return nil, err
	}
	cols, err := next("column count")
	if err != nil {
		return nil, err
	}
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: matrix is %dx%d", synthesizer.ErrInvalidShape, rows, cols)
	}

	if rows > MaxCells/cols {
		return nil, fmt.Errorf("%w: matrix is %dx%d, more than %d cells", synthesizer.ErrInvalidShape, rows, cols, MaxCells)
	}

	cells := rows * cols
	data := make([]float64, 0, min(cells, 4096))
	for i := 0; i < cells; i++ {
		value, err := next(fmt.Sprintf("cell %d", i))
		if err != nil {
			return nil, err
		}
		data = append(data, float64(value))
	}
	return mat.NewDense(rows, cols, data), nil
}

// Load reads a matrix file.
func Load(path string) (*mat.Dense, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load matrix: %w", err)
	}
	defer file.Close()

	m, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("load matrix %s: %w", path, err)
	}
	return m, nil
}

// Save writes a matrix file.
func Save(path string, m mat.Matrix) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save matrix: %w", err)
	}
	if err := Write(file, m); err != nil {
		file.Close()
		return fmt.Errorf("save matrix %s: %w", path, err)
	}
	return file.Close()
}

// ShapeOf returns the problem shape of a times b.
func ShapeOf(a, b mat.Matrix) (synthesizer.Shape, error) {
	aRows, aCols := a.Dims()
	bRows, bCols := b.Dims()
	return synthesizer.ShapeFromOperands(aRows, aCols, bRows, bCols)
}

// Multiply is the CPU reference product of a and b.
func Multiply(a, b mat.Matrix) (*mat.Dense, error) {
	if _, err := ShapeOf(a, b); err != nil {
		return nil, err
	}
	var product mat.Dense
	product.Mul(a, b)
	return &product, nil
}
