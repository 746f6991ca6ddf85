package isa

import "fmt"

// CoreClass is the function a LUT core is programmed to perform.
type CoreClass int

const (
	Multiplier CoreClass = iota
	Adder
	Mac
)

func (class CoreClass) String() string {
	switch class {
	case Multiplier:
		return "MULTIPLIER"
	case Adder:
		return "ADDER"
	case Mac:
		return "MAC"
	default:
		return fmt.Sprintf("CoreClass(%d)", int(class))
	}
}

// Valid reports whether class belongs to the closed set of core classes.
func (class CoreClass) Valid() bool {
	return class >= Multiplier && class <= Mac
}

// ParseCoreClass converts the textual class name used in PROG lines. When the
// provided value is unknown the bool return will be false.
func ParseCoreClass(value string) (CoreClass, bool) {
	switch value {
	case "MULTIPLIER":
		return Multiplier, true
	case "ADDER":
		return Adder, true
	case "MAC":
		return Mac, true
	default:
		return 0, false
	}
}

func (class CoreClass) MarshalText() ([]byte, error) {
	if !class.Valid() {
		return nil, fmt.Errorf("unknown core class %d", int(class))
	}
	return []byte(class.String()), nil
}

func (class *CoreClass) UnmarshalText(text []byte) error {
	parsed, ok := ParseCoreClass(string(text))
	if !ok {
		return fmt.Errorf("unknown core class %q", text)
	}
	*class = parsed
	return nil
}
