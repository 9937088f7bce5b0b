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
	"math"

	"github.com/spatialmodel/windmover"
	"gonum.org/v1/gonum/stat"
)

// StepStats summarizes the distances moved by in-water elements of one
// spill container during a step.
type StepStats struct {
	N            int
	Mean, StdDev float64 // metres
	Max          float64 // metres
	MeanU, MeanV float64 // eastward and northward components, metres
}

// displacementStats computes StepStats from positions (decimal degrees)
// and the corresponding displacements.
func displacementStats(pos, delta []windmover.WorldPoint3D, status []windmover.Status) StepStats {
	var d, u, v []float64
	for i := range delta {
		if status[i] != windmover.StatusInWater {
			continue
		}
		dx := delta[i].Lon * windmover.MetersPerDegreeLat * windmover.LongToLatRatio(pos[i].Lat*1e6)
		dy := delta[i].Lat * windmover.MetersPerDegreeLat
		u = append(u, dx)
		v = append(v, dy)
		d = append(d, math.Hypot(dx, dy))
	}
	s := StepStats{N: len(d)}
	if s.N == 0 {
		return s
	}
	s.Mean = stat.Mean(d, nil)
	if s.N > 1 {
		s.StdDev = stat.StdDev(d, nil)
	}
	for _, x := range d {
		s.Max = math.Max(s.Max, x)
	}
	s.MeanU = stat.Mean(u, nil)
	s.MeanV = stat.Mean(v, nil)
	return s
}
