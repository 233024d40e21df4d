// Package errors provides the typed error model of the container.
//
// Every failure raised while compiling modules, resolving providers or running
// lifecycle hooks is an *Error carrying a machine-readable code plus the
// identity of what failed: the token being resolved, the originating module,
// the hook name and, for cycles, the resolution path.
//
//	if errors.IsProviderNotFound(err) { ... }
//
//	var e *errors.Error
//	if stderrors.As(err, &e) && e.Code == errors.ErrCodeHookFailure { ... }
package errors
