/*
Copyright © 2026 the windmover authors.
This file is part of windmover.

windmover is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

windmover is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with windmover.  If not, see <http://www.gnu.org/licenses/>.
*/

package windmover

import "math"

// Velocity is a horizontal wind velocity in m/s. U is positive to the
// east and V is positive to the north.
type Velocity struct {
	U, V float64
}

// Norm returns the speed of v.
func (v Velocity) Norm() float64 {
	return math.Hypot(v.U, v.V)
}

// Scale returns v multiplied by f.
func (v Velocity) Scale(f float64) Velocity {
	return Velocity{U: v.U * f, V: v.V * f}
}

// A WindSource supplies wind velocities that vary in time.
type WindSource interface {
	// TimeValue returns the wind velocity at time t. If it returns an
	// error, the returned velocity is still used for the step.
	TimeValue(t Seconds) (Velocity, error)

	// CheckStartTime returns an error if the source cannot supply
	// values starting at time t.
	CheckStartTime(t Seconds) error
}

// WindField resolves the wind acting during a model step. It is either
// a constant value or samples a WindSource once per step and caches the
// result for every element moved during that step.
type WindField struct {
	constant bool
	value    Velocity
	source   WindSource
	current  Velocity
}

// NewConstantWind returns a field whose velocity is always v.
func NewConstantWind(v Velocity) *WindField {
	return &WindField{constant: true, value: v}
}

// NewWindField returns a field that samples src. src may be nil, in which
// case the wind is calm until a source is set.
func NewWindField(src WindSource) *WindField {
	return &WindField{source: src}
}

// IsConstant returns whether the field uses a constant value.
func (w *WindField) IsConstant() bool { return w.constant }

// SetConstant switches the field to the constant velocity v.
func (w *WindField) SetConstant(v Velocity) {
	w.constant = true
	w.value = v
}

// SetSource switches the field to sample src.
func (w *WindField) SetSource(src WindSource) {
	w.constant = false
	w.source = src
}

// Source returns the time-varying source, if any.
func (w *WindField) Source() WindSource { return w.source }

// ClearWindValues drops the time-varying source and zeroes the constant
// value.
func (w *WindField) ClearWindValues() {
	w.source = nil
	w.value = Velocity{}
}

// CurrentVelocity resolves the wind at time t and caches it. The cache is
// updated even when the source reports an error.
func (w *WindField) CurrentVelocity(t Seconds) (Velocity, error) {
	var (
		v   Velocity
		err error
	)
	switch {
	case w.constant:
		v = w.value
	case w.source != nil:
		v, err = w.source.TimeValue(t)
	}
	w.current = v
	return v, err
}

// Cached returns the velocity resolved by the last call to
// CurrentVelocity.
func (w *WindField) Cached() Velocity { return w.current }

// CheckStartTime returns ErrNotApplicable for constant winds and
// otherwise whatever the source reports for time t.
func (w *WindField) CheckStartTime(t Seconds) error {
	if w.constant {
		return ErrNotApplicable
	}
	if w.source == nil {
		return nil
	}
	return w.source.CheckStartTime(t)
}
