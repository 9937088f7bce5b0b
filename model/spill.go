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

package model

import (
	"fmt"

	"github.com/spatialmodel/windmover"
)

// Spill is an instantaneous point release of elements.
type Spill struct {
	Name        string
	NumElements int

	// ReleaseTime is the model time at which the elements are released.
	ReleaseTime windmover.Seconds

	// Position is in decimal degrees, with depth in metres.
	Position windmover.WorldPoint3D

	// Windages are drawn uniformly from WindageRange.
	WindageRange [2]float64

	// Seed seeds the windage draws.
	Seed int64

	released bool
}

// Validate checks that s can be released.
func (s *Spill) Validate() error {
	switch {
	case s.NumElements < 0:
		return fmt.Errorf("model: spill %q: NumElements=%d", s.Name, s.NumElements)
	case s.WindageRange[0] < 0 || s.WindageRange[1] < s.WindageRange[0]:
		return fmt.Errorf("model: spill %q: invalid windage range %v", s.Name, s.WindageRange)
	case s.ReleaseTime < 0:
		return fmt.Errorf("model: spill %q: negative release time %d", s.Name, s.ReleaseTime)
	}
	return nil
}

// Rewind makes the spill releasable again.
func (s *Spill) Rewind() { s.released = false }

// Released returns whether the spill's elements have been released.
func (s *Spill) Released() bool { return s.released }

// release returns the windages of the elements to release at modelTime,
// or nil if there are none. Every call after a rewind draws the same
// windages.
func (s *Spill) release(modelTime windmover.Seconds) []float64 {
	if s.released || modelTime < s.ReleaseTime {
		return nil
	}
	s.released = true
	rnd := windmover.NewRandom(s.Seed)
	w := make([]float64, s.NumElements)
	for i := range w {
		w[i] = rnd.Uniform(s.WindageRange[0], s.WindageRange[1])
	}
	return w
}
