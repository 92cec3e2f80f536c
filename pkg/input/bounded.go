// Package input shapes raw numeric input before it reaches the control panel.
//
// A BoundedInput quantizes raw values to a step, clamps them into a range and
// forwards only the resulting committed value. Out-of-range input is never
// rejected; it is clamped.
package input

import (
	"math"
	"strconv"
	"strings"
)

// Defaults used when the caller leaves bounds or step unspecified.
const (
	DefaultMin  = 0.0
	DefaultMax  = 2.0
	DefaultStep = 0.01
)

// BoundedInput is a single numeric control. The committed value is always
// within [Min, Max] and a multiple of Step (up to float rounding). The display
// text is a transient buffer that only affects the committed value through
// CommitDisplay.
type BoundedInput struct {
	min, max, step float64

	committed float64
	display   string

	onCommit func(float64)
}

// Option configures a BoundedInput.
type Option func(*BoundedInput)

// WithBounds sets the closed range. Reversed bounds are swapped.
func WithBounds(min, max float64) Option {
	return func(b *BoundedInput) {
		if math.IsNaN(min) || math.IsNaN(max) {
			return
		}
		if min > max {
			min, max = max, min
		}
		b.min, b.max = min, max
	}
}

// WithStep sets the quantization step. Non-positive steps are ignored.
func WithStep(step float64) Option {
	return func(b *BoundedInput) {
		if step > 0 && !math.IsInf(step, 0) {
			b.step = step
		}
	}
}

// WithInitial sets the starting committed value (normalized, not forwarded).
func WithInitial(v float64) Option {
	return func(b *BoundedInput) {
		b.committed = v
	}
}

// New returns a BoundedInput that forwards committed values to onCommit.
// onCommit may be nil.
func New(onCommit func(float64), opts ...Option) *BoundedInput {
	b := &BoundedInput{
		min:      DefaultMin,
		max:      DefaultMax,
		step:     DefaultStep,
		onCommit: onCommit,
	}
	for _, opt := range opts {
		opt(b)
	}
	if math.IsNaN(b.committed) {
		b.committed = b.min
	}
	b.committed = b.Normalize(b.committed)
	b.display = b.format(b.committed)
	return b
}

// Min returns the lower bound.
func (b *BoundedInput) Min() float64 { return b.min }

// Max returns the upper bound.
func (b *BoundedInput) Max() float64 { return b.max }

// Step returns the quantization step.
func (b *BoundedInput) Step() float64 { return b.step }

// Committed returns the last committed value.
func (b *BoundedInput) Committed() float64 { return b.committed }

// Ratio returns the committed value's position in the range as [0, 1].
func (b *BoundedInput) Ratio() float64 {
	if b.max == b.min {
		return 0
	}
	return (b.committed - b.min) / (b.max - b.min)
}

// Normalize quantizes raw to the step and clamps it into range.
func (b *BoundedInput) Normalize(raw float64) float64 {
	return Clamp(Quantize(raw, b.step), b.min, b.max)
}

// OnChange accepts an unvalidated value from the UI layer, commits the
// normalized value and forwards it. NaN is dropped.
func (b *BoundedInput) OnChange(raw float64) {
	if math.IsNaN(raw) {
		return
	}
	b.committed = b.Normalize(raw)
	b.display = b.format(b.committed)
	if b.onCommit != nil {
		b.onCommit(b.committed)
	}
}

// Nudge commits the value steps increments away from the committed value.
func (b *BoundedInput) Nudge(steps int) {
	b.OnChange(b.committed + float64(steps)*b.step)
}

// Set replaces the committed value without forwarding it. It is used to sync
// the control with a config that changed elsewhere.
func (b *BoundedInput) Set(v float64) {
	if math.IsNaN(v) {
		return
	}
	b.committed = b.Normalize(v)
	b.display = b.format(b.committed)
}

// SetDisplay replaces the transient display text.
func (b *BoundedInput) SetDisplay(s string) {
	b.display = s
}

// Display returns the transient display text.
func (b *BoundedInput) Display() string {
	return b.display
}

// CommitDisplay parses the display text and commits it. Unparsable text is
// discarded and the display reverts to the committed value; it reports
// whether a value was committed.
func (b *BoundedInput) CommitDisplay() bool {
	v, err := strconv.ParseFloat(strings.TrimSpace(b.display), 64)
	if err != nil || math.IsNaN(v) {
		b.display = b.format(b.committed)
		return false
	}
	b.OnChange(v)
	return true
}

// Format renders v with as many decimals as the step resolves.
func (b *BoundedInput) Format(v float64) string {
	return b.format(v)
}

func (b *BoundedInput) format(v float64) string {
	return strconv.FormatFloat(v, 'f', decimals(b.step), 64)
}

// Quantize rounds raw to the nearest multiple of step. Infinite input and
// non-positive steps are returned unchanged.
func Quantize(raw, step float64) float64 {
	if step <= 0 || math.IsInf(raw, 0) || math.IsNaN(raw) {
		return raw
	}
	q := math.Round(raw/step) * step
	// Trim the representation error of the multiplication so 0.29 does not
	// come back as 0.29000000000000004.
	r, err := strconv.ParseFloat(strconv.FormatFloat(q, 'f', decimals(step), 64), 64)
	if err != nil {
		return q
	}
	return r
}

// Clamp limits v to [min, max].
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// decimals returns the number of fractional digits needed to print step.
func decimals(step float64) int {
	if step <= 0 {
		return 0
	}
	s := strconv.FormatFloat(step, 'f', -1, 64)
	i := strings.IndexByte(s, '.')
	if i < 0 {
		return 0
	}
	return len(s) - i - 1
}
