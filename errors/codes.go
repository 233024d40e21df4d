package errors

// ErrorCode represents a machine-readable container error code.
type ErrorCode string

// Resolution errors
const (
	// ErrCodeProviderNotFound indicates no provider exists for a required token
	// anywhere in the injector chain.
	ErrCodeProviderNotFound ErrorCode = "PROVIDER_NOT_FOUND"
	// ErrCodeInvalidProvider indicates a registered provider matches none of the
	// recognized shapes.
	ErrCodeInvalidProvider ErrorCode = "INVALID_PROVIDER"
	// ErrCodeCyclicDependency indicates a token reappeared on its own resolution path.
	ErrCodeCyclicDependency ErrorCode = "CYCLIC_DEPENDENCY"
	// ErrCodeResolutionFailed indicates a constructor or factory returned an error.
	ErrCodeResolutionFailed ErrorCode = "RESOLUTION_FAILED"
)

// Lifecycle errors
const (
	// ErrCodeHookFailure indicates a lifecycle hook returned an error or timed out.
	ErrCodeHookFailure ErrorCode = "HOOK_FAILURE"
	// ErrCodeInvalidState indicates an operation was attempted in the wrong application state.
	ErrCodeInvalidState ErrorCode = "INVALID_STATE"
)

// Composition errors
const (
	// ErrCodeInvalidModule indicates a module reference could not be compiled.
	ErrCodeInvalidModule ErrorCode = "INVALID_MODULE"
	// ErrCodeInvalidConfig indicates configuration failed validation.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
)

var fatalCodes = map[ErrorCode]bool{
	ErrCodeProviderNotFound: true,
	ErrCodeInvalidProvider:  true,
	ErrCodeCyclicDependency: true,
	ErrCodeInvalidModule:    true,
	ErrCodeInvalidConfig:    true,
	ErrCodeResolutionFailed: false,
	ErrCodeHookFailure:      false,
}

// IsFatalCode returns true if the code indicates a wiring mistake that
// cannot succeed on retry without changing the module graph.
func IsFatalCode(code ErrorCode) bool {
	return fatalCodes[code]
}
