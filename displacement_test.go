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

func TestDisplacement(t *testing.T) {
	const testTolerance = 1.e-10
	tests := []struct {
		name    string
		le      element
		vel     Velocity
		dt      Seconds
		dLon    float64 // degrees
		dLat    float64 // degrees
		zeroLat bool
	}{
		{
			name: "equator east",
			le:   element{windage: 1},
			vel:  Velocity{U: 5},
			dt:   3600,
			dLon: 5 * 3600 / MetersPerDegreeLat,
		},
		{
			name: "mid latitude east",
			le:   element{p: WorldPoint3D{Lat: 45e6}, windage: 1},
			vel:  Velocity{U: 5},
			dt:   3600,
			dLon: 5 * 3600 / MetersPerDegreeLat / math.Cos(math.Pi/4),
		},
		{
			name: "north with windage",
			le:   element{p: WorldPoint3D{Lat: -30e6}, windage: 0.03},
			vel:  Velocity{V: 10},
			dt:   900,
			dLat: 0.03 * 10 * 900 / MetersPerDegreeLat,
		},
		{
			name: "below surface",
			le:   element{p: WorldPoint3D{Z: 1}, windage: 1},
			vel:  Velocity{U: 5, V: 5},
			dt:   3600,
		},
		{
			name: "no windage",
			le:   element{windage: 0},
			vel:  Velocity{U: 5, V: 5},
			dt:   3600,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			d := displacement(test.le, test.vel, test.dt)
			if absDifferent(d.Lon/microDegrees, test.dLon, testTolerance) {
				t.Errorf("dLon: have %g, want %g", d.Lon/microDegrees, test.dLon)
			}
			if absDifferent(d.Lat/microDegrees, test.dLat, testTolerance) {
				t.Errorf("dLat: have %g, want %g", d.Lat/microDegrees, test.dLat)
			}
			if d.Z != 0 {
				t.Errorf("dZ: %g", d.Z)
			}
		})
	}
}

func TestLongToLatRatio(t *testing.T) {
	if r := LongToLatRatio(0); r != 1 {
		t.Errorf("equator: %g", r)
	}
	if r := LongToLatRatio(60e6); absDifferent(r, 0.5, 1e-12) {
		t.Errorf("60°: %g", r)
	}
	for _, lat := range []float64{90e6, -90e6} {
		r := LongToLatRatio(lat)
		if r != minLongToLatRatio {
			t.Errorf("%g: %g", lat, r)
		}
		d := displacement(element{p: WorldPoint3D{Lat: lat}, windage: 1}, Velocity{U: 1}, 1)
		if math.IsInf(d.Lon, 0) || math.IsNaN(d.Lon) {
			t.Errorf("pole displacement not finite: %g", d.Lon)
		}
	}
}
