// Package hint defines the size hint triple shared by every layer of the
// layout solver.
//
// A [SizeHint] carries the minimum, preferred and maximum extent of a cell
// or item along one axis. The [Unlimited] sentinel marks an extent without
// an upper bound; it is a finite value so hints survive JSON round trips.
package hint

import "math"

// Unlimited is the sentinel for an extent without an upper bound.
const Unlimited = math.MaxFloat32

// Which selects one component of a SizeHint.
type Which uint8

const (
	Minimum   Which = iota // smallest acceptable extent
	Preferred              // natural extent
	Maximum                // largest useful extent
)

// String returns the lowercase name of the component.
func (w Which) String() string {
	switch w {
	case Minimum:
		return "minimum"
	case Preferred:
		return "preferred"
	case Maximum:
		return "maximum"
	default:
		return "unknown"
	}
}

// ParseWhich maps "min", "minimum", "pref", "preferred", "max" or
// "maximum" to a Which. The second result is false for anything else.
func ParseWhich(s string) (Which, bool) {
	switch s {
	case "min", "minimum":
		return Minimum, true
	case "", "pref", "preferred":
		return Preferred, true
	case "max", "maximum":
		return Maximum, true
	}
	return Preferred, false
}

// SizeHint is the (minimum, preferred, maximum) triple along one axis.
// The zero value is (0, 0, 0); use [Default] for an unconstrained hint.
type SizeHint struct {
	Minimum   float64 `json:"minimum"`
	Preferred float64 `json:"preferred"`
	Maximum   float64 `json:"maximum"`
}

// New returns a normalized hint.
func New(minimum, preferred, maximum float64) SizeHint {
	h := SizeHint{Minimum: minimum, Preferred: preferred, Maximum: maximum}
	h.Normalize()
	return h
}

// Default returns (0, 0, Unlimited).
func Default() SizeHint {
	return SizeHint{Maximum: Unlimited}
}

// Fixed returns a hint whose three components equal size.
func Fixed(size float64) SizeHint {
	return New(size, size, size)
}

// Size returns the component selected by which.
func (h SizeHint) Size(which Which) float64 {
	switch which {
	case Minimum:
		return h.Minimum
	case Maximum:
		return h.Maximum
	default:
		return h.Preferred
	}
}

// SetSize replaces the component selected by which.
func (h *SizeHint) SetSize(which Which, size float64) {
	switch which {
	case Minimum:
		h.Minimum = size
	case Maximum:
		h.Maximum = size
	default:
		h.Preferred = size
	}
}

// Normalize restores minimum <= preferred <= maximum. Violations are
// resolved upward: a negative minimum becomes 0, preferred is raised to
// minimum and maximum is raised to preferred.
func (h *SizeHint) Normalize() {
	h.Minimum = max(h.Minimum, 0)
	h.Preferred = max(h.Preferred, h.Minimum)
	h.Maximum = max(h.Maximum, h.Preferred)
}

// IsDefault reports whether h equals [Default].
func (h SizeHint) IsDefault() bool {
	return h.Minimum == 0 && h.Preferred == 0 && h.Maximum == Unlimited
}

// IsUnlimited reports whether the maximum is the Unlimited sentinel.
func (h SizeHint) IsUnlimited() bool {
	return h.Maximum >= Unlimited
}

// Bound clamps length to [Minimum, Maximum].
func (h SizeHint) Bound(length float64) float64 {
	return max(h.Minimum, min(length, h.Maximum))
}
