package synthesizer

import (
	"github.com/samber/lo"

	"pPIMulator/src/isa"
)

// Bounds of the executable block and of the address pool.
const (
	MinOps      = 10
	MaxOps      = 200
	MaxPoolSize = 20
)

// NumOps returns clamp(n*p*2, MinOps, MaxOps).
func NumOps(shape Shape) int {
	if shape.N > MaxOps || shape.P > MaxOps {
		return MaxOps
	}
	return lo.Clamp(shape.N*shape.P*2, MinOps, MaxOps)
}

// PoolSize returns min(MaxPoolSize, n+p+2).
func PoolSize(shape Shape) int {
	if shape.N >= MaxPoolSize || shape.P >= MaxPoolSize {
		return MaxPoolSize
	}
	return min(MaxPoolSize, shape.N+shape.P+2)
}

// AddressPool is the cyclic space of symbolic row addresses used by the
// executable block.
type AddressPool []isa.Address

func NewAddressPool(size int) AddressPool {
	pool := make(AddressPool, size)
	for i := range pool {
		pool[i] = isa.Address(i)
	}
	return pool
}

// At returns the address at index modulo the pool size.
func (pool AddressPool) At(index int) isa.Address {
	return pool[index%len(pool)]
}

func (pool AddressPool) Names() []string {
	return lo.Map(pool, func(address isa.Address, _ int) string {
		return address.String()
	})
}
