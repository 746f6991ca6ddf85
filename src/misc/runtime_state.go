package misc

import "sync"

var (
	runtimeGenerationMode     = DefaultGenerationMode()
	runtimeGenerationModeLock sync.RWMutex
)

// SetRuntimeGenerationMode updates the global runtime generation mode.
func SetRuntimeGenerationMode(mode GenerationMode) {
	runtimeGenerationModeLock.Lock()
	defer runtimeGenerationModeLock.Unlock()

	runtimeGenerationMode = mode
}

// RuntimeGenerationMode returns the currently configured generation mode.
func RuntimeGenerationMode() GenerationMode {
	runtimeGenerationModeLock.RLock()
	defer runtimeGenerationModeLock.RUnlock()

	return runtimeGenerationMode
}
