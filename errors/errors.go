package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Error is the unified container error type.
type Error struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Fatal indicates the failure stems from the wiring itself and will recur.
	Fatal bool `json:"fatal"`
	// Token is the provider token involved, if any.
	Token string `json:"token,omitempty"`
	// Module is the name of the originating module, if known.
	Module string `json:"module,omitempty"`
	// Hook is the lifecycle hook name for hook failures.
	Hook string `json:"hook,omitempty"`
	// Path is the active resolution path for cyclic dependency failures.
	Path []string `json:"path,omitempty"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	if e.Module != "" {
		fmt.Fprintf(&b, " module=%q", e.Module)
	}
	if e.Token != "" {
		fmt.Fprintf(&b, " token=%q", e.Token)
	}
	if e.Hook != "" {
		fmt.Fprintf(&b, " hook=%s", e.Hook)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Cause != nil {
		fmt.Fprintf(&b, " (cause: %v)", e.Cause)
	}
	return b.String()
}

// Unwrap returns the underlying cause of the error.
func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if stderrors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithModule sets the originating module name and returns the receiver.
func (e *Error) WithModule(module string) *Error {
	e.Module = module
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new Error with automatic fatal detection.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Fatal:   IsFatalCode(code),
	}
}

// --- Constructors ---

// ProviderNotFound creates an error for a token with no provider in the injector chain.
func ProviderNotFound(token string) *Error {
	return &Error{
		Code: ErrCodeProviderNotFound, Message: fmt.Sprintf("no provider found for %s", token),
		Fatal: true, Token: token,
	}
}

// InvalidProvider creates an error for a provider matching none of the recognized shapes.
func InvalidProvider(token string) *Error {
	return &Error{
		Code: ErrCodeInvalidProvider, Message: fmt.Sprintf("invalid provider for %s", token),
		Fatal: true, Token: token,
	}
}

// CyclicDependency creates an error for a token that reappeared on its own resolution path.
// The path is expected to end with the repeated token.
func CyclicDependency(path []string) *Error {
	token := ""
	if len(path) > 0 {
		token = path[len(path)-1]
	}
	return &Error{
		Code: ErrCodeCyclicDependency, Message: "cyclic dependency: " + strings.Join(path, " -> "),
		Fatal: true, Token: token, Path: path,
	}
}

// ResolutionFailed creates an error for a constructor or factory that failed.
func ResolutionFailed(token string, cause error) *Error {
	return &Error{
		Code: ErrCodeResolutionFailed, Message: fmt.Sprintf("failed to construct %s", token),
		Token: token, Cause: cause,
	}
}

// HookFailure creates an error for a lifecycle hook that failed.
func HookFailure(hook, instance, module string, cause error) *Error {
	return &Error{
		Code: ErrCodeHookFailure, Message: fmt.Sprintf("%s failed on %s", hook, instance),
		Hook: hook, Module: module, Cause: cause,
		Details: map[string]any{"instance": instance},
	}
}

// InvalidState creates an error for an operation attempted in the wrong state.
func InvalidState(operation, state string) *Error {
	return &Error{
		Code: ErrCodeInvalidState, Message: fmt.Sprintf("cannot %s while %s", operation, state),
		Details: map[string]any{"operation": operation, "state": state},
	}
}

// InvalidModule creates an error for a module reference that cannot be compiled.
func InvalidModule(reason string) *Error {
	return &Error{
		Code: ErrCodeInvalidModule, Message: reason,
		Fatal: true,
	}
}

// InvalidConfig creates an error for configuration that failed validation.
func InvalidConfig(message string) *Error {
	return &Error{
		Code: ErrCodeInvalidConfig, Message: message,
		Fatal: true,
	}
}

// --- Inspection helpers ---

// As converts an error to an *Error if possible.
func As(err error) (*Error, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// HasCode reports whether err (or any error it wraps) is an *Error with the given code.
func HasCode(err error, code ErrorCode) bool {
	return stderrors.Is(err, &Error{Code: code})
}

// IsProviderNotFound reports whether err is a PROVIDER_NOT_FOUND error.
func IsProviderNotFound(err error) bool { return HasCode(err, ErrCodeProviderNotFound) }

// IsInvalidProvider reports whether err is an INVALID_PROVIDER error.
func IsInvalidProvider(err error) bool { return HasCode(err, ErrCodeInvalidProvider) }

// IsCyclicDependency reports whether err is a CYCLIC_DEPENDENCY error.
func IsCyclicDependency(err error) bool { return HasCode(err, ErrCodeCyclicDependency) }

// IsHookFailure reports whether err is a HOOK_FAILURE error.
func IsHookFailure(err error) bool { return HasCode(err, ErrCodeHookFailure) }

// IsInvalidState reports whether err is an INVALID_STATE error.
func IsInvalidState(err error) bool { return HasCode(err, ErrCodeInvalidState) }
