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

import (
	"math"
	"testing"
)

func TestNewSpread(t *testing.T) {
	const testTolerance = 1.e-10
	if s := NewSpread(0, 2, 0.4); s != (Spread{}) {
		t.Errorf("t=0: %+v", s)
	}
	if s := NewSpread(-100, 2, 0.4); s != (Spread{}) {
		t.Errorf("t<0: %+v", s)
	}

	s := NewSpread(3600, 2, 0.4)
	speed := 2 * 0.315 * math.Pow(3600, 0.147)
	if different(s.SigmaSpeed2, speed*speed/2, testTolerance) {
		t.Errorf("SigmaSpeed2: %g", s.SigmaSpeed2)
	}
	if different(s.SigmaAngle, 0.4*2.73*math.Pow(3600, 0.25), testTolerance) {
		t.Errorf("SigmaAngle: %g", s.SigmaAngle)
	}

	// Spread never shrinks with time.
	prev := Spread{}
	for tt := Seconds(0); tt < 5*86400; tt += 900 {
		s := NewSpread(tt, 2, 0.4)
		if s.SigmaSpeed2 < prev.SigmaSpeed2 || s.SigmaAngle < prev.SigmaAngle || s.SigmaSpeed2 < 0 || s.SigmaAngle < 0 {
			t.Fatalf("t=%d: %+v after %+v", tt, s, prev)
		}
		prev = s
	}
}

func TestPerturb(t *testing.T) {
	const testTolerance = 1.e-10
	base := Velocity{U: 3, V: 4}

	t.Run("no spread", func(t *testing.T) {
		v := Perturb(base, UncertainRecord{RandCos: 1.3, RandSin: -0.7}, Spread{}, 0, nil)
		if absDifferent(v.U, base.U, testTolerance) || absDifferent(v.V, base.V, testTolerance) {
			t.Errorf("have %+v, want %+v", v, base)
		}
	})

	t.Run("speed", func(t *testing.T) {
		// A zero draw reduces the speed to sqrt(|v|²-σ²) without turning.
		s := Spread{SigmaSpeed2: 9}
		v := Perturb(base, UncertainRecord{}, s, 0, nil)
		want := math.Sqrt(25 - 9)
		if different(v.Norm(), want, testTolerance) {
			t.Errorf("speed: have %g, want %g", v.Norm(), want)
		}
		if different(math.Atan2(v.V, v.U), math.Atan2(base.V, base.U), testTolerance) {
			t.Errorf("direction changed: %+v", v)
		}
	})

	t.Run("variance larger than speed", func(t *testing.T) {
		s := Spread{SigmaSpeed2: 100}
		v := Perturb(base, UncertainRecord{RandCos: 1}, s, 0, nil)
		// x = sqrt(|v|), so the speed is unchanged.
		if different(v.Norm(), 5, testTolerance) {
			t.Errorf("speed: %g", v.Norm())
		}
	})

	t.Run("rotation", func(t *testing.T) {
		s := Spread{SigmaAngle: 20}
		rec := UncertainRecord{RandSin: 1.5}
		v := Perturb(base, rec, s, 0, nil)
		theta := 30 * math.Pi / 180
		if different(math.Atan2(v.V, v.U)-math.Atan2(base.V, base.U), theta, testTolerance) {
			t.Errorf("angle: have %g, want %g", math.Atan2(v.V, v.U)-math.Atan2(base.V, base.U), theta)
		}
		if different(v.Norm(), 5/math.Cos(theta), testTolerance) {
			t.Errorf("speed: have %g, want %g", v.Norm(), 5/math.Cos(theta))
		}
	})

	t.Run("right angle", func(t *testing.T) {
		s := Spread{SigmaAngle: 90}
		v := Perturb(base, UncertainRecord{RandSin: 1}, s, 0, nil)
		if math.IsInf(v.Norm(), 0) || math.IsNaN(v.Norm()) {
			t.Fatalf("not finite: %+v", v)
		}
		if different(v.Norm(), 5/minCosTheta, 1e-6) {
			t.Errorf("speed: %g", v.Norm())
		}
	})

	t.Run("near calm", func(t *testing.T) {
		calm := Velocity{U: 0.3, V: -0.2}
		const diffusion = 2.
		r1, r2 := NewRandom(11), NewRandom(11)
		v := Perturb(calm, UncertainRecord{RandCos: 5, RandSin: 5}, Spread{SigmaSpeed2: 4, SigmaAngle: 40}, diffusion, r1)
		want := Velocity{
			U: calm.U + diffusion*r2.Uniform(-1, 1),
			V: calm.V + diffusion*r2.Uniform(-1, 1),
		}
		if v != want {
			t.Errorf("have %+v, want %+v", v, want)
		}
		if math.Abs(v.U-calm.U) > diffusion || math.Abs(v.V-calm.V) > diffusion {
			t.Errorf("noise too large: %+v", v)
		}
	})
}
