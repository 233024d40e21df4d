package bootstrap

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"

	"github.com/kbukum/modkit/errors"
)

// ShutdownListener is extra teardown work registered with OnShutdown.
// Listeners run concurrently after the shutdown hooks.
type ShutdownListener func(ctx context.Context) error

// OnShutdown registers a listener invoked by Close. Listeners added after
// Close has started are ignored.
func (a *App) OnShutdown(listeners ...ShutdownListener) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state == StateClosing || a.state == StateClosed {
		return
	}
	a.listeners = append(a.listeners, listeners...)
}

// runListeners starts every listener at once and waits for all of them.
func runListeners(ctx context.Context, listeners []ShutdownListener) error {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for i, l := range listeners {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := callListener(ctx, l); err != nil {
				mu.Lock()
				errs = append(errs, errors.HookFailure("OnShutdown", fmt.Sprintf("listener[%d]", i), "", err))
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return stderrors.Join(errs...)
}

func callListener(ctx context.Context, l ShutdownListener) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return l(ctx)
}
