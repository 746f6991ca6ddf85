package misc

// GenerationMode selects how the compiler produces a program. Additional
// modes can be added as new synthesis strategies are integrated.
type GenerationMode string

const (
	// GenerationModeFresh synthesizes the program from scratch.
	GenerationModeFresh GenerationMode = "fresh"
	// GenerationModeAdapt resizes a previously generated template.
	GenerationModeAdapt GenerationMode = "adapt"
	// GenerationModeAuto adapts when the template exists and falls back to
	// fresh synthesis otherwise.
	GenerationModeAuto GenerationMode = "auto"
)

// DefaultGenerationMode returns the mode used when no explicit selection is made.
func DefaultGenerationMode() GenerationMode {
	return GenerationModeAuto
}

// GenerationModeFromString converts an arbitrary string into a GenerationMode.
// When the provided value is unknown the bool return will be false.
func GenerationModeFromString(value string) (GenerationMode, bool) {
	switch value {
	case string(GenerationModeFresh):
		return GenerationModeFresh, true
	case string(GenerationModeAdapt):
		return GenerationModeAdapt, true
	case string(GenerationModeAuto):
		return GenerationModeAuto, true
	default:
		return "", false
	}
}
