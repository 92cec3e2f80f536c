package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"gitlab.com/tinyland/lab/lumen/pkg/bridge"
)

// DefaultLoadTimeout bounds how long Load may take.
const DefaultLoadTimeout = 10 * time.Second

// state is the value published into the adapter's status slot.
type state struct {
	status Status
	err    error
}

// Adapter runs one engine for the session.
type Adapter struct {
	loader      Loader
	logger      *slog.Logger
	loadTimeout time.Duration
	onStatus    func(Status, error)

	startOnce sync.Once
	state     *bridge.Slot[state]
	done      chan struct{}
}

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithLogger sets the diagnostics logger.
func WithLogger(l *slog.Logger) AdapterOption {
	return func(a *Adapter) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithLoadTimeout bounds the load stage. Zero or negative disables the bound.
func WithLoadTimeout(d time.Duration) AdapterOption {
	return func(a *Adapter) { a.loadTimeout = d }
}

// WithStatusHook registers fn to be called from the engine goroutine on every
// status change. Start never calls fn, so fn may block until the consumer is
// ready, as (*tea.Program).Send does before Run.
func WithStatusHook(fn func(Status, error)) AdapterOption {
	return func(a *Adapter) { a.onStatus = fn }
}

// NewAdapter returns an idle adapter for loader.
func NewAdapter(loader Loader, opts ...AdapterOption) *Adapter {
	a := &Adapter{
		loader:      loader,
		logger:      slog.New(slog.DiscardHandler),
		loadTimeout: DefaultLoadTimeout,
		state:       bridge.NewSlot(&state{status: StatusIdle}),
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Start loads the engine and runs it with pull in a new goroutine. It returns
// immediately. Only argument errors are returned; everything that goes wrong
// later is reported through the logger, Status and Err. A start error is
// returned to the caller and not passed to the status hook.
func (a *Adapter) Start(ctx context.Context, pull bridge.PullFunc) error {
	if pull == nil {
		return &LoadError{Stage: StageStart, Err: ErrNilAccessor}
	}

	var startErr *LoadError
	launched := false
	a.startOnce.Do(func() {
		launched = true
		if a.loader == nil {
			startErr = &LoadError{Stage: StageStart, Err: ErrNoLoader}
			a.logger.Error("engine unavailable", "stage", string(startErr.Stage), "error", startErr.Err)
			a.state.Publish(&state{status: StatusFailed, err: startErr})
			close(a.done)
			return
		}
		a.state.Publish(&state{status: StatusLoading})
		go a.run(ctx, pull)
	})
	if !launched {
		return &LoadError{Stage: StageStart, Err: ErrAlreadyStarted}
	}
	if startErr != nil {
		return startErr
	}
	return nil
}

// Status returns the current lifecycle state.
func (a *Adapter) Status() Status {
	return a.state.Read().status
}

// Err returns the failure that stopped the engine, if any.
func (a *Adapter) Err() error {
	return a.state.Read().err
}

// Done is closed when the engine goroutine has exited.
func (a *Adapter) Done() <-chan struct{} {
	return a.done
}

func (a *Adapter) run(ctx context.Context, pull bridge.PullFunc) {
	defer close(a.done)

	a.notify(StatusLoading, nil)

	eng, err := a.load(ctx)
	if err != nil {
		a.fail(&LoadError{Stage: StageLoad, Err: err})
		return
	}
	if eng == nil {
		a.fail(&LoadError{Stage: StageLoad, Err: errors.New("loader returned no engine")})
		return
	}

	a.setStatus(StatusRunning, nil)
	a.logger.Info("engine running")

	if err := a.exec(ctx, eng, pull); err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			a.setStatus(StatusStopped, nil)
			a.logger.Info("engine stopped")
			return
		}
		a.fail(&LoadError{Stage: StageRun, Err: err})
		return
	}
	a.setStatus(StatusStopped, nil)
	a.logger.Info("engine loop ended")
}

// load runs the loader under the load timeout. A loader that ignores its
// context is abandoned when the timeout fires. Panics become errors.
func (a *Adapter) load(ctx context.Context) (Engine, error) {
	lctx := ctx
	if a.loadTimeout > 0 {
		var cancel context.CancelFunc
		lctx, cancel = context.WithTimeout(ctx, a.loadTimeout)
		defer cancel()
	}

	type result struct {
		eng Engine
		err error
	}
	ch := make(chan result, 1)

	start := time.Now()
	a.logger.Info("engine loading")
	go func() {
		defer func() {
			if r := recover(); r != nil {
				a.logger.Debug("engine load panic", "stack", string(debug.Stack()))
				ch <- result{err: fmt.Errorf("panic during load: %v", r)}
			}
		}()
		eng, err := a.loader.Load(lctx)
		ch <- result{eng: eng, err: err}
	}()

	select {
	case r := <-ch:
		if r.err == nil {
			a.logger.Info("engine loaded", "elapsed", time.Since(start).Round(time.Millisecond))
		}
		return r.eng, r.err
	case <-lctx.Done():
		return nil, fmt.Errorf("waiting for engine: %w", lctx.Err())
	}
}

// exec runs the engine loop and converts panics to errors.
func (a *Adapter) exec(ctx context.Context, eng Engine, pull bridge.PullFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in engine loop: %v", r)
			a.logger.Debug("engine loop panic", "stack", string(debug.Stack()))
		}
	}()
	return eng.Run(ctx, pull)
}

func (a *Adapter) fail(err *LoadError) {
	a.logger.Error("engine unavailable", "stage", string(err.Stage), "error", err.Err)
	a.setStatus(StatusFailed, err)
}

func (a *Adapter) setStatus(s Status, err error) {
	a.state.Publish(&state{status: s, err: err})
	a.notify(s, err)
}

// notify calls the status hook. It must only run on the engine goroutine.
func (a *Adapter) notify(s Status, err error) {
	if a.onStatus != nil {
		a.onStatus(s, err)
	}
}
