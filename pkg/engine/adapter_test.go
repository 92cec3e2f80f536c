package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gitlab.com/tinyland/lab/lumen/pkg/bridge"
	"gitlab.com/tinyland/lab/lumen/pkg/scene"
)

// engineFunc adapts a function to the Engine interface.
type engineFunc func(ctx context.Context, pull bridge.PullFunc) error

func (f engineFunc) Run(ctx context.Context, pull bridge.PullFunc) error { return f(ctx, pull) }

func loaderFor(e Engine) Loader {
	return LoaderFunc(func(context.Context) (Engine, error) { return e, nil })
}

func waitDone(t *testing.T, a *Adapter) {
	t.Helper()
	select {
	case <-a.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for engine goroutine")
	}
}

func requireLoadError(t *testing.T, err error, stage Stage) *LoadError {
	t.Helper()
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("expected *LoadError, got %T (%v)", err, err)
	}
	if le.Stage != stage {
		t.Errorf("expected stage %q, got %q", stage, le.Stage)
	}
	return le
}

func TestStartRunsEngineWithPull(t *testing.T) {
	b := bridge.New(nil)
	var seen []*scene.ApplicationConfig

	a := NewAdapter(loaderFor(engineFunc(func(_ context.Context, pull bridge.PullFunc) error {
		for i := 0; i < 3; i++ {
			seen = append(seen, pull())
		}
		return nil
	})))

	if err := a.Start(context.Background(), b.Pull()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	waitDone(t, a)

	if len(seen) != 3 {
		t.Fatalf("expected 3 pulls, got %d", len(seen))
	}
	if seen[0] != b.Read() {
		t.Error("expected pull to return the bridge's current config")
	}
	if a.Status() != StatusStopped {
		t.Errorf("expected status stopped, got %s", a.Status())
	}
	if a.Err() != nil {
		t.Errorf("expected no error, got %v", a.Err())
	}
}

func TestEngineObservesLaterPublishes(t *testing.T) {
	b := bridge.New(nil)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	running := make(chan struct{})
	var once sync.Once
	a := NewAdapter(loaderFor(engineFunc(func(ctx context.Context, pull bridge.PullFunc) error {
		for {
			once.Do(func() { close(running) })
			if pull().Camera.Aperture == 0.9 {
				return nil
			}
			select {
			case <-ctx.Done():
				return errors.New("never saw the published aperture")
			case <-time.After(time.Millisecond):
			}
		}
	})))

	if err := a.Start(ctx, b.Pull()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	<-running
	next, _ := b.Read().With(scene.FieldAperture, 0.9)
	b.Publish(next)

	waitDone(t, a)
	if a.Status() != StatusStopped {
		t.Errorf("expected engine to finish cleanly, got %s (%v)", a.Status(), a.Err())
	}
}

func TestLoadFailureIsReportedNotReturned(t *testing.T) {
	b := bridge.New(nil)
	boom := errors.New("wasm init failed")
	var statuses []Status
	var mu sync.Mutex

	a := NewAdapter(
		LoaderFunc(func(context.Context) (Engine, error) { return nil, boom }),
		WithStatusHook(func(s Status, _ error) {
			mu.Lock()
			statuses = append(statuses, s)
			mu.Unlock()
		}),
	)

	if err := a.Start(context.Background(), b.Pull()); err != nil {
		t.Fatalf("expected Start to return nil for async load failure, got %v", err)
	}
	waitDone(t, a)

	if a.Status() != StatusFailed {
		t.Errorf("expected status failed, got %s", a.Status())
	}
	le := requireLoadError(t, a.Err(), StageLoad)
	if !errors.Is(le, boom) {
		t.Errorf("expected wrapped load error, got %v", le.Err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(statuses) != 2 || statuses[0] != StatusLoading || statuses[1] != StatusFailed {
		t.Errorf("expected [loading failed], got %v", statuses)
	}
}

func TestLoadPanicIsContained(t *testing.T) {
	a := NewAdapter(LoaderFunc(func(context.Context) (Engine, error) { panic("bad module") }))
	if err := a.Start(context.Background(), bridge.New(nil).Pull()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	waitDone(t, a)
	requireLoadError(t, a.Err(), StageLoad)
}

func TestNilEngineIsLoadFailure(t *testing.T) {
	a := NewAdapter(LoaderFunc(func(context.Context) (Engine, error) { return nil, nil }))
	_ = a.Start(context.Background(), bridge.New(nil).Pull())
	waitDone(t, a)
	requireLoadError(t, a.Err(), StageLoad)
}

func TestRunPanicIsContained(t *testing.T) {
	a := NewAdapter(loaderFor(engineFunc(func(context.Context, bridge.PullFunc) error {
		panic("device lost")
	})))
	_ = a.Start(context.Background(), bridge.New(nil).Pull())
	waitDone(t, a)

	if a.Status() != StatusFailed {
		t.Errorf("expected status failed, got %s", a.Status())
	}
	requireLoadError(t, a.Err(), StageRun)
}

func TestLoadTimeout(t *testing.T) {
	block := make(chan struct{})
	defer close(block)

	a := NewAdapter(
		LoaderFunc(func(context.Context) (Engine, error) {
			<-block
			return nil, nil
		}),
		WithLoadTimeout(20*time.Millisecond),
	)
	_ = a.Start(context.Background(), bridge.New(nil).Pull())
	waitDone(t, a)

	le := requireLoadError(t, a.Err(), StageLoad)
	if !errors.Is(le, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", le.Err)
	}
}

func TestCancelStopsEngine(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	a := NewAdapter(loaderFor(engineFunc(func(ctx context.Context, _ bridge.PullFunc) error {
		<-ctx.Done()
		return ctx.Err()
	})))
	_ = a.Start(ctx, bridge.New(nil).Pull())
	cancel()
	waitDone(t, a)

	if a.Status() != StatusStopped {
		t.Errorf("expected status stopped after cancel, got %s (%v)", a.Status(), a.Err())
	}
}

func TestStartArgumentErrors(t *testing.T) {
	a := NewAdapter(loaderFor(engineFunc(func(context.Context, bridge.PullFunc) error { return nil })))

	requireLoadError(t, a.Start(context.Background(), nil), StageStart)
	if a.Status() != StatusIdle {
		t.Errorf("expected nil accessor to leave adapter idle, got %s", a.Status())
	}

	pull := bridge.New(nil).Pull()
	if err := a.Start(context.Background(), pull); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	err := a.Start(context.Background(), pull)
	if !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("expected ErrAlreadyStarted, got %v", err)
	}
	waitDone(t, a)
}

func TestNoLoader(t *testing.T) {
	a := NewAdapter(nil)
	err := a.Start(context.Background(), bridge.New(nil).Pull())
	if !errors.Is(err, ErrNoLoader) {
		t.Errorf("expected ErrNoLoader, got %v", err)
	}
	waitDone(t, a)
	if a.Status() != StatusFailed {
		t.Errorf("expected status failed, got %s", a.Status())
	}
}

func TestStatusString(t *testing.T) {
	if StatusRunning.String() != "running" {
		t.Errorf("expected running, got %q", StatusRunning.String())
	}
	if Status(99).String() != "unknown" {
		t.Errorf("expected unknown, got %q", Status(99).String())
	}
}

func TestStartDoesNotCallStatusHook(t *testing.T) {
	release := make(chan struct{})
	var calls []Status
	var mu sync.Mutex
	a := NewAdapter(
		LoaderFunc(func(context.Context) (Engine, error) { return nil, errors.New("no engine") }),
		WithStatusHook(func(s Status, _ error) {
			<-release
			mu.Lock()
			calls = append(calls, s)
			mu.Unlock()
		}),
	)

	started := make(chan error, 1)
	go func() { started <- a.Start(context.Background(), bridge.New(nil).Pull()) }()
	select {
	case err := <-started:
		if err != nil {
			t.Fatalf("expected nil from Start, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start waited on the status hook")
	}
	if a.Status() != StatusLoading {
		t.Errorf("expected status loading right after Start, got %s", a.Status())
	}

	close(release)
	waitDone(t, a)
	mu.Lock()
	defer mu.Unlock()
	if len(calls) != 2 || calls[0] != StatusLoading || calls[1] != StatusFailed {
		t.Errorf("expected [loading failed] from the engine goroutine, got %v", calls)
	}
}

func TestNoLoaderSkipsStatusHook(t *testing.T) {
	called := false
	a := NewAdapter(nil, WithStatusHook(func(Status, error) { called = true }))
	if err := a.Start(context.Background(), bridge.New(nil).Pull()); !errors.Is(err, ErrNoLoader) {
		t.Fatalf("expected ErrNoLoader, got %v", err)
	}
	if called {
		t.Error("expected start errors to be returned, not sent to the hook")
	}
}
