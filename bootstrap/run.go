package bootstrap

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/kbukum/modkit/logger"
)

// Run initializes the application and blocks until it is closed by a signal
// or ctx is canceled, in which case it closes the application itself.
func (a *App) Run(ctx context.Context) error {
	if err := a.Init(ctx); err != nil {
		return err
	}

	a.log.Info("application ready, waiting for shutdown")
	select {
	case <-a.Done():
		return a.closeError()
	case <-ctx.Done():
		a.log.Info("context canceled, shutting down")
	}
	if err := a.Close(context.WithoutCancel(ctx), ""); err != nil {
		return err
	}
	<-a.Done()
	return a.closeError()
}

// RunTask initializes the application, runs a finite task and closes the
// application when the task returns. The task context is canceled as soon
// as the application starts closing, e.g. on SIGINT.
//
// Example:
//
//	app.RunTask(ctx, func(ctx context.Context) error {
//	    svc, err := di.ResolveType[*Importer](ctx, app)
//	    if err != nil {
//	        return err
//	    }
//	    return svc.Import(ctx)
//	})
func (a *App) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	if err := a.Init(ctx); err != nil {
		return err
	}

	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-a.closing:
			cancel()
		case <-taskCtx.Done():
		}
	}()

	taskErr := task(taskCtx)

	closeErr := a.Close(context.WithoutCancel(ctx), "")
	if closeErr == nil {
		<-a.Done()
		closeErr = a.closeError()
	}
	if taskErr != nil {
		return taskErr
	}
	return closeErr
}

// WaitForSignal blocks until SIGINT/SIGTERM or ctx cancellation. It returns
// the signal, or nil when ctx was canceled.
func (a *App) WaitForSignal(ctx context.Context) os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.log.Info("received shutdown signal", logger.Fields(logger.FieldSignal, signalName(sig)))
		return sig
	case <-ctx.Done():
		return nil
	}
}

// installSignals routes SIGINT and SIGTERM into Close. It runs at most once
// per App; Close stops the handler.
func (a *App) installSignals() {
	a.signalOnce.Do(func() {
		sigCh := make(chan os.Signal, 1)
		stop := make(chan struct{})
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		a.mu.Lock()
		if a.state != StateRunning {
			a.mu.Unlock()
			signal.Stop(sigCh)
			return
		}
		a.stopSignals = func() {
			signal.Stop(sigCh)
			close(stop)
		}
		a.mu.Unlock()

		go func() {
			select {
			case sig := <-sigCh:
				name := signalName(sig)
				a.log.Info("received shutdown signal, closing application", logger.Fields(logger.FieldSignal, name))
				if err := a.Close(context.Background(), name); err != nil {
					a.log.Error("close after signal failed", logger.MergeWithError(logger.Fields(logger.FieldSignal, name), err))
				}
			case <-stop:
			}
		}()
	})
}

func signalName(sig os.Signal) string {
	switch sig {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	default:
		return sig.String()
	}
}
