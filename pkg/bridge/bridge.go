// Package bridge hands values between execution contexts that never
// coordinate: the bubbletea update loop on one side and an engine loop that
// runs on its own schedule on the other.
//
// A Slot holds exactly one value. Writers replace it with a single atomic
// pointer store and readers load that pointer, so neither side blocks and a
// reader never sees a partially written value. Readers may miss intermediate
// values; only the latest one matters.
package bridge

import (
	"sync/atomic"

	"gitlab.com/tinyland/lab/lumen/pkg/scene"
)

// Slot is a last-write-wins holder for an immutable *T.
type Slot[T any] struct {
	v       atomic.Pointer[T]
	version atomic.Uint64
}

// NewSlot returns a slot holding initial, which may be nil.
func NewSlot[T any](initial *T) *Slot[T] {
	s := &Slot[T]{}
	s.v.Store(initial)
	return s
}

// Publish replaces the held value. Nil is ignored so that a slot that once
// held a value never goes back to empty.
func (s *Slot[T]) Publish(v *T) {
	if v == nil {
		return
	}
	s.v.Store(v)
	s.version.Add(1)
}

// Read returns the most recently published value.
func (s *Slot[T]) Read() *T {
	return s.v.Load()
}

// Version returns the number of publishes so far.
func (s *Slot[T]) Version() uint64 {
	return s.version.Load()
}

// PullFunc is the accessor an engine calls once per iteration to obtain the
// current configuration. It never blocks and never panics.
type PullFunc func() *scene.ApplicationConfig

// StateBridge carries the latest ApplicationConfig from the control panel to
// the engine. There is one per session.
type StateBridge struct {
	slot *Slot[scene.ApplicationConfig]
}

// New returns a bridge holding initial, or scene.Default() if initial is nil.
func New(initial *scene.ApplicationConfig) *StateBridge {
	if initial == nil {
		initial = scene.Default()
	}
	return &StateBridge{slot: NewSlot(initial)}
}

// Publish makes cfg visible to subsequent reads.
func (b *StateBridge) Publish(cfg *scene.ApplicationConfig) {
	b.slot.Publish(cfg)
}

// Read returns the latest published config, or the initial one.
func (b *StateBridge) Read() *scene.ApplicationConfig {
	return b.slot.Read()
}

// Version returns the number of publishes so far.
func (b *StateBridge) Version() uint64 {
	return b.slot.Version()
}

// Pull returns the accessor for an engine. The returned function looks up the
// bridge's slot on every call; it does not capture the current value.
func (b *StateBridge) Pull() PullFunc {
	return b.Read
}
