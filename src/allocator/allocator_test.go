package allocator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pPIMulator/src/isa"
)

func TestAllocateCounts(t *testing.T) {
	t.Parallel()

	for maxDim := 1; maxDim <= 20; maxDim++ {
		plan := Allocate(maxDim)

		want := 3
		switch {
		case maxDim > 8:
			want = 6
		case maxDim >= 6:
			want = 5
		}
		require.Len(t, plan, want, "maxDim=%d", maxDim)
		assert.Equal(t, want, Cardinality(maxDim), "maxDim=%d", maxDim)

		assert.Equal(t, isa.Multiplier, plan[0].Class)
		assert.Equal(t, isa.Adder, plan[1].Class)
		assert.Equal(t, isa.Mac, plan[2].Class)
		for id, spec := range plan {
			assert.Equal(t, id, spec.ID)
		}
	}
}

func TestAllocateExtensionClasses(t *testing.T) {
	t.Parallel()

	plan := Allocate(9)
	classes := make([]isa.CoreClass, 0, len(plan))
	for _, spec := range plan {
		classes = append(classes, spec.Class)
	}
	assert.Equal(t, []isa.CoreClass{isa.Multiplier, isa.Adder, isa.Mac, isa.Multiplier, isa.Adder, isa.Mac}, classes)
}

func TestAllocateFillerTables(t *testing.T) {
	t.Parallel()

	plan := Allocate(9)
	bases := []byte{0x00, 0x08, 0x10, 0x20, 0x28, 0x30}
	for i, spec := range plan {
		for j, value := range spec.Lut {
			assert.Equal(t, bases[i]+byte(j), value, "core %d entry %d", i, j)
		}
	}

	assert.Equal(t, "PROG Core1 ADDER [0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f]", plan[1].Instruction().String())
	assert.Equal(t, "PROG Core5 MAC [0x30, 0x31, 0x32, 0x33, 0x34, 0x35, 0x36, 0x37]", plan[5].Instruction().String())
}

func TestAllocateIsDeterministic(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Allocate(7), Allocate(7))
}

type constantTable struct {
	class isa.CoreClass
	value byte
}

func (table constantTable) Class() isa.CoreClass { return table.class }

func (table constantTable) Table(int) isa.Lut {
	var lut isa.Lut
	for i := range lut {
		lut[i] = table.value
	}
	return lut
}

func TestAllocateWithCustomTable(t *testing.T) {
	t.Parallel()

	tables := DefaultTables().With(constantTable{class: isa.Mac, value: 0xff})
	plan := AllocateWith(9, tables)

	assert.Equal(t, isa.Lut{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, plan[2].Lut)
	assert.Equal(t, isa.Lut{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, plan[5].Lut)
	assert.Equal(t, Allocate(9)[0], plan[0])

	// the default set is untouched
	assert.Equal(t, byte(0x10), DefaultTables().Table(isa.Mac, 2)[0])
}

func TestTablesFallbackToFiller(t *testing.T) {
	t.Parallel()

	tables := NewTables(MultiplierTable{})
	assert.Equal(t, byte(0x28), tables.Table(isa.Adder, 4)[0])
}
