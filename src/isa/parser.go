package isa

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// LineKind is the structural class of one line of assembly text.
type LineKind int

const (
	LineComment LineKind = iota
	LineProg
	LineExe
	LineEnd
	LineUnknown
)

var (
	progPattern    = regexp.MustCompile(`^PROG\s+Core(\d+)\s+([A-Z_]+)\s+\[(.*)\]$`)
	bytePattern    = regexp.MustCompile(`^0x[0-9a-fA-F]{2}$`)
	corePtrPattern = regexp.MustCompile(`^CorePtr(\d+)$`)
	addressPattern = regexp.MustCompile(`^` + addressPrefix + `(\d+)$`)
)

// Classify assigns a trimmed line to its section by structural prefix.
func Classify(line string) LineKind {
	switch {
	case line == "" || strings.HasPrefix(line, "//"):
		return LineComment
	case line == "END":
		return LineEnd
	case strings.HasPrefix(line, "PROG"):
		return LineProg
	case strings.HasPrefix(line, "EXE"):
		return LineExe
	default:
		return LineUnknown
	}
}

// ParseLine parses a single PROG, EXE or END line.
func ParseLine(line string) (Instruction, error) {
	line = strings.TrimSpace(line)
	switch Classify(line) {
	case LineProg:
		return parseProg(line)
	case LineExe:
		return parseExe(line)
	case LineEnd:
		return End(), nil
	default:
		return Instruction{}, fmt.Errorf("%w: not an instruction: %q", ErrMalformedProgram, line)
	}
}

func parseProg(line string) (Instruction, error) {
	match := progPattern.FindStringSubmatch(line)
	if match == nil {
		return Instruction{}, fmt.Errorf("%w: bad PROG line: %q", ErrMalformedProgram, line)
	}

	coreID, err := strconv.Atoi(match[1])
	if err != nil {
		return Instruction{}, fmt.Errorf("%w: bad core id in %q: %v", ErrMalformedProgram, line, err)
	}

	class, ok := ParseCoreClass(match[2])
	if !ok {
		return Instruction{}, fmt.Errorf("%w: unknown core class %s", ErrMalformedProgram, match[2])
	}

	literals := strings.Split(match[3], ",")
	if len(literals) != LutSize {
		return Instruction{}, fmt.Errorf("%w: PROG Core%d carries %d byte literals, want %d",
			ErrMalformedProgram, coreID, len(literals), LutSize)
	}

	var lut Lut
	for i, literal := range literals {
		literal = strings.TrimSpace(literal)
		if !bytePattern.MatchString(literal) {
			return Instruction{}, fmt.Errorf("%w: bad byte literal %q in PROG Core%d", ErrMalformedProgram, literal, coreID)
		}
		value, err := strconv.ParseUint(literal[2:], 16, 8)
		if err != nil {
			return Instruction{}, fmt.Errorf("%w: bad byte literal %q: %v", ErrMalformedProgram, literal, err)
		}
		lut[i] = byte(value)
	}

	return ProgramCore(coreID, class, lut), nil
}

func parseExe(line string) (Instruction, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 || fields[0] != "EXE" {
		return Instruction{}, fmt.Errorf("%w: bad EXE line: %q", ErrMalformedProgram, line)
	}

	address, err := ParseAddress(fields[2])
	if err != nil {
		return Instruction{}, err
	}

	switch fields[1] {
	case "Read":
		return Read(address), nil
	case "Write":
		return Write(address), nil
	}

	match := corePtrPattern.FindStringSubmatch(fields[1])
	if match == nil {
		return Instruction{}, fmt.Errorf("%w: unknown EXE operand %q", ErrMalformedProgram, fields[1])
	}
	coreID, err := strconv.Atoi(match[1])
	if err != nil {
		return Instruction{}, fmt.Errorf("%w: bad core pointer %q: %v", ErrMalformedProgram, fields[1], err)
	}
	return Compute(coreID, address), nil
}

// ParseAddress parses a RowAddress<i> name.
func ParseAddress(name string) (Address, error) {
	match := addressPattern.FindStringSubmatch(name)
	if match == nil {
		return 0, fmt.Errorf("%w: bad address name %q", ErrMalformedProgram, name)
	}
	index, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, fmt.Errorf("%w: bad address name %q: %v", ErrMalformedProgram, name, err)
	}
	return Address(index), nil
}

type section int

const (
	sectionHeader section = iota
	sectionProgramming
	sectionExecutable
)

// ParseProgram splits assembly text into header, programming block and
// executable block. Every line before the first PROG line belongs to the
// header, except stray EXE and END lines, which are dropped. After that,
// comment and unrecognized lines are skipped. Parsing stops at END, and a
// missing END is treated as an implicit one at end of input.
func ParseProgram(text string) (*Program, error) {
	program := &Program{}
	current := sectionHeader
	terminated := false

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for number, raw := range lines {
		line := strings.TrimSpace(raw)
		kind := Classify(line)

		if current == sectionHeader {
			switch kind {
			case LineComment, LineUnknown:
				program.Header = append(program.Header, line)
				continue
			case LineExe, LineEnd:
				continue
			}
		}

		switch kind {
		case LineComment, LineUnknown:
			continue
		case LineProg:
			if current == sectionExecutable {
				return nil, fmt.Errorf("%w: line %d: PROG after the executable block", ErrMalformedProgram, number+1)
			}
			current = sectionProgramming
		case LineExe, LineEnd:
			current = sectionExecutable
		}

		inst, err := ParseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", number+1, err)
		}
		program.Instructions = append(program.Instructions, inst)
		if kind == LineEnd {
			terminated = true
			break
		}
	}

	if current == sectionHeader {
		return nil, fmt.Errorf("%w: no PROG lines", ErrMalformedProgram)
	}
	if !terminated {
		program.Instructions = append(program.Instructions, End())
	}
	return program, nil
}
