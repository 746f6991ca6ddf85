package allocator

import "pPIMulator/src/isa"

// TableGenerator produces the lookup table for cores of one class.
type TableGenerator interface {
	Class() isa.CoreClass
	Table(coreID int) isa.Lut
}

// Tables maps each core class to the generator used for it.
type Tables map[isa.CoreClass]TableGenerator

// DefaultTables returns the placeholder filler generators.
func DefaultTables() Tables {
	return NewTables(MultiplierTable{}, AdderTable{}, MacTable{})
}

// NewTables builds a set from generators; a later generator for the same class
// replaces an earlier one.
func NewTables(generators ...TableGenerator) Tables {
	tables := make(Tables, len(generators))
	for _, generator := range generators {
		tables[generator.Class()] = generator
	}
	return tables
}

// With returns a copy of the set with generator installed for its class.
func (tables Tables) With(generator TableGenerator) Tables {
	copied := make(Tables, len(tables)+1)
	for class, existing := range tables {
		copied[class] = existing
	}
	copied[generator.Class()] = generator
	return copied
}

// Table returns the table for a core, falling back to the filler sequence
// when no generator is registered for class.
func (tables Tables) Table(class isa.CoreClass, coreID int) isa.Lut {
	if generator, ok := tables[class]; ok {
		return generator.Table(coreID)
	}
	return fillerTable(coreID)
}

// The filler tables are ascending byte runs, not truth tables. Cores of the
// baseline triad start at 8*id, extension cores start at 0x20.
func fillerBase(coreID int) int {
	if coreID < 3 {
		return 8 * coreID
	}
	return 0x20 + 8*(coreID-3)
}

func fillerTable(coreID int) isa.Lut {
	var lut isa.Lut
	base := fillerBase(coreID)
	for i := range lut {
		lut[i] = byte(base + i)
	}
	return lut
}

type MultiplierTable struct{}

func (MultiplierTable) Class() isa.CoreClass { return isa.Multiplier }

func (MultiplierTable) Table(coreID int) isa.Lut { return fillerTable(coreID) }

type AdderTable struct{}

func (AdderTable) Class() isa.CoreClass { return isa.Adder }

func (AdderTable) Table(coreID int) isa.Lut { return fillerTable(coreID) }

type MacTable struct{}

func (MacTable) Class() isa.CoreClass { return isa.Mac }

func (MacTable) Table(coreID int) isa.Lut { return fillerTable(coreID) }
