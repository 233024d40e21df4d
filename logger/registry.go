package logger

import (
	"sync"
)

// Component names used by the container's own loggers.
const (
	ComponentInjector  = "injector"
	ComponentCompiler  = "compiler"
	ComponentLifecycle = "lifecycle"
	ComponentApp       = "app"
)

// registry is the global named-logger registry.
var registry = &loggerRegistry{
	loggers: make(map[string]*Logger),
}

type loggerRegistry struct {
	mu      sync.RWMutex
	loggers map[string]*Logger
}

// Register stores a named logger in the registry.
func Register(name string, l *Logger) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.loggers[name] = l
}

// Get retrieves a named logger. If the name is not registered it returns the
// global logger tagged with the requested component name.
func Get(name string) *Logger {
	registry.mu.RLock()
	l, ok := registry.loggers[name]
	registry.mu.RUnlock()
	if ok {
		return l
	}
	return GetGlobalLogger().WithComponent(name)
}

// RegisterDefaults registers the container component loggers, plus any extra
// names, from the current global logger. Call this after Init().
func RegisterDefaults(names ...string) {
	all := append([]string{ComponentInjector, ComponentCompiler, ComponentLifecycle, ComponentApp}, names...)
	for _, name := range all {
		Register(name, GetGlobalLogger().WithComponent(name))
	}
}
