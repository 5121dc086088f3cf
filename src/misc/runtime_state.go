package misc

import "sync"

var (
	runtimePlatformMode = DefaultPlatformMode()
	runtimeOutputMode   = DefaultOutputMode()
	runtimeModeLock     sync.RWMutex
)

// SetRuntimePlatformMode updates the global runtime platform mode.
func SetRuntimePlatformMode(mode PlatformMode) {
	runtimeModeLock.Lock()
	defer runtimeModeLock.Unlock()

	runtimePlatformMode = mode
}

// RuntimePlatformMode returns the currently configured platform mode.
func RuntimePlatformMode() PlatformMode {
	runtimeModeLock.RLock()
	defer runtimeModeLock.RUnlock()

	return runtimePlatformMode
}

// SetRuntimeOutputMode updates the global output mode.
func SetRuntimeOutputMode(mode OutputMode) {
	runtimeModeLock.Lock()
	defer runtimeModeLock.Unlock()

	runtimeOutputMode = mode
}

// RuntimeOutputMode returns the currently configured output mode.
func RuntimeOutputMode() OutputMode {
	runtimeModeLock.RLock()
	defer runtimeModeLock.RUnlock()

	return runtimeOutputMode
}
