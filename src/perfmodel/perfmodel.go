// Package perfmodel produces the illustrative CPU and pPIM timing figures shown
// next to a generated program. The numbers are a linear model of the problem
// size and are not derived from the program itself.
package perfmodel

import (
	"math"
	"math/rand"
	"time"

	"pPIMulator/src/synthesizer"
)

// Linear coefficients in microseconds.
const (
	cpuPerMac  = 0.08
	cpuBase    = 20.0
	pimPerMac  = 0.02
	pimBase    = 10.0
	jitterLow  = 0.9
	jitterHigh = 1.1

	fallbackCPUTime = 120.5
	fallbackPIMTime = 32.8

	compileBase    = 0.5
	compilePerMac  = 0.001
	compileCeiling = 3.0
)

// Jitter scales a modelled time to make repeated runs look measured.
type Jitter interface {
	Factor() float64
}

// RandJitter draws factors uniformly from [0.9, 1.1).
type RandJitter struct {
	rng *rand.Rand
}

func NewRandJitter(seed int64) *RandJitter {
	return &RandJitter{rng: rand.New(rand.NewSource(seed))}
}

func (jitter *RandJitter) Factor() float64 {
	return jitterLow + (jitterHigh-jitterLow)*jitter.rng.Float64()
}

// NoJitter always returns 1.
type NoJitter struct{}

func (NoJitter) Factor() float64 { return 1 }

// Result is one performance estimate. Times are in microseconds.
type Result struct {
	Shape        *synthesizer.Shape `json:"shape,omitempty"`
	Complexity   int                `json:"complexity"`
	CPUTime      float64            `json:"cpu_time_us"`
	PIMTime      float64            `json:"pim_time_us"`
	Speedup      float64            `json:"speedup"`
	CompileTime  time.Duration      `json:"compile_time_ns"`
	HostFeatures []string           `json:"host_features"`
}

// Model evaluates the timing model. A Model is not safe for concurrent use
// when its Jitter is not.
type Model struct {
	jitter   Jitter
	features []string
}

func NewModel(jitter Jitter) *Model {
	if jitter == nil {
		jitter = NoJitter{}
	}
	return &Model{jitter: jitter, features: HostFeatures()}
}

// Estimate models a multiplication of the given shape.
func (model *Model) Estimate(shape synthesizer.Shape) (Result, error) {
	if err := shape.Validate(); err != nil {
		return Result{}, err
	}

	complexity := Complexity(shape)
	cpu := (float64(complexity)*cpuPerMac + cpuBase) * model.jitter.Factor()
	pim := (float64(complexity)*pimPerMac + pimBase) * model.jitter.Factor()

	compile := min(compileCeiling, compileBase+float64(complexity)*compilePerMac) * model.jitter.Factor()

	return Result{
		Shape:        &shape,
		Complexity:   complexity,
		CPUTime:      cpu,
		PIMTime:      pim,
		Speedup:      cpu / pim,
		CompileTime:  time.Duration(compile * float64(time.Second)),
		HostFeatures: model.features,
	}, nil
}

// Complexity returns n*m*p, saturating at math.MaxInt.
func Complexity(shape synthesizer.Shape) int {
	product := 1
	for _, dim := range []int{shape.N, shape.M, shape.P} {
		if dim > 0 && product > math.MaxInt/dim {
			return math.MaxInt
		}
		product *= dim
	}
	return product
}

// Fallback is the estimate shown when no operands are known.
func (model *Model) Fallback() Result {
	return Result{
		CPUTime:      fallbackCPUTime,
		PIMTime:      fallbackPIMTime,
		Speedup:      fallbackCPUTime / fallbackPIMTime,
		HostFeatures: model.features,
	}
}
