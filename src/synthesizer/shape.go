package synthesizer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Shape is the problem size of A (N x M) times B (M x P).
type Shape struct {
	N int `json:"n"`
	M int `json:"m"`
	P int `json:"p"`
}

// NewShape returns a validated shape.
func NewShape(n, m, p int) (Shape, error) {
	shape := Shape{N: n, M: m, P: p}
	if err := shape.Validate(); err != nil {
		return Shape{}, err
	}
	return shape, nil
}

// ShapeFromOperands derives the shape of A (aRows x aCols) times B
// (bRows x bCols).
func ShapeFromOperands(aRows, aCols, bRows, bCols int) (Shape, error) {
	if aCols != bRows {
		return Shape{}, fmt.Errorf("%w: inner dimensions differ (%dx%d * %dx%d)", ErrInvalidShape, aRows, aCols, bRows, bCols)
	}
	return NewShape(aRows, aCols, bCols)
}

// ParseShape parses the NxMxP notation.
func ParseShape(value string) (Shape, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(value)), "x")
	if len(parts) != 3 {
		return Shape{}, fmt.Errorf("%w: %q is not NxMxP", ErrInvalidShape, value)
	}

	dims := make([]int, 3)
	for i, part := range parts {
		dim, err := strconv.Atoi(part)
		if err != nil {
			return Shape{}, fmt.Errorf("%w: %q is not NxMxP", ErrInvalidShape, value)
		}
		dims[i] = dim
	}
	return NewShape(dims[0], dims[1], dims[2])
}

func (shape Shape) Validate() error {
	if shape.N <= 0 || shape.M <= 0 || shape.P <= 0 {
		return fmt.Errorf("%w: dimensions must be positive, got %s", ErrInvalidShape, shape)
	}
	return nil
}

// MaxDim returns the largest of the three dimensions.
func (shape Shape) MaxDim() int {
	return max(shape.N, shape.M, shape.P)
}

func (shape Shape) String() string {
	return fmt.Sprintf("%dx%dx%d", shape.N, shape.M, shape.P)
}

// Annotation returns the header comment that records the matrix dimensions.
func (shape Shape) Annotation() string {
	return fmt.Sprintf("// Matrix A: %dx%d, Matrix B: %dx%d, Result: %dx%d",
		shape.N, shape.M, shape.M, shape.P, shape.N, shape.P)
}

var annotationPattern = regexp.MustCompile(`Matrix A: (\d+)x(\d+), Matrix B: (\d+)x(\d+)`)

// ShapeFromHeader recovers the shape recorded in a program header.
func ShapeFromHeader(header []string) (Shape, bool) {
	for _, line := range header {
		match := annotationPattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		dims := make([]int, 4)
		for i := range dims {
			dims[i], _ = strconv.Atoi(match[i+1])
		}
		shape, err := ShapeFromOperands(dims[0], dims[1], dims[2], dims[3])
		if err != nil {
			return Shape{}, false
		}
		return shape, true
	}
	return Shape{}, false
}
