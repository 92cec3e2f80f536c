// Package engine loads an externally scheduled render engine and hands it the
// bridge's pull accessor.
//
// The adapter never lets an engine failure reach the host: load errors, start
// errors, run errors and panics are all converted into a *LoadError, logged,
// and exposed through Status and Err while the UI keeps running.
package engine

import (
	"context"
	"errors"
	"fmt"

	"gitlab.com/tinyland/lab/lumen/pkg/bridge"
)

// Engine is a loaded render engine. Run blocks for the lifetime of the engine
// loop and calls pull once per iteration.
type Engine interface {
	Run(ctx context.Context, pull bridge.PullFunc) error
}

// Loader initializes an engine. Load must complete before Run is invoked.
type Loader interface {
	Load(ctx context.Context) (Engine, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context) (Engine, error)

// Load calls f(ctx).
func (f LoaderFunc) Load(ctx context.Context) (Engine, error) { return f(ctx) }

// Stage identifies where an engine failure happened.
type Stage string

const (
	StageStart Stage = "start"
	StageLoad  Stage = "load"
	StageRun   Stage = "run"
)

// ErrAlreadyStarted is returned by a second call to Start.
var ErrAlreadyStarted = errors.New("engine: already started")

// ErrNoLoader is returned when the adapter has nothing to load.
var ErrNoLoader = errors.New("engine: no loader configured")

// ErrNilAccessor is returned when Start is given no pull accessor.
var ErrNilAccessor = errors.New("engine: pull accessor is nil")

// LoadError reports that the engine failed to initialize, start or keep
// running. The engine is unavailable for the rest of the session.
type LoadError struct {
	Stage Stage
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("engine %s failed: %v", e.Stage, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Status is the adapter lifecycle state.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusRunning
	StatusStopped
	StatusFailed
)

var statusNames = [...]string{
	StatusIdle:    "idle",
	StatusLoading: "loading",
	StatusRunning: "running",
	StatusStopped: "stopped",
	StatusFailed:  "failed",
}

// String returns the lowercase status name.
func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "unknown"
}
