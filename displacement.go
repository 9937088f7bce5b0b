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

// MetersPerDegreeLat is the length of one degree of latitude.
const MetersPerDegreeLat = 111120.00024

// microDegrees is the fixed-point scale used for coordinates inside the
// mover.
const microDegrees = 1e6

// minLongToLatRatio keeps longitude displacements finite at the poles.
const minLongToLatRatio = 1e-6

// LongToLatRatio returns the length of a degree of longitude relative to
// a degree of latitude at the latitude latMicro, given in micro-degrees.
func LongToLatRatio(latMicro float64) float64 {
	return math.Max(math.Cos(latMicro/microDegrees*math.Pi/180), minLongToLatRatio)
}

// displacement returns the distance, in micro-degrees, that wind velocity
// vel moves le over dt seconds. Wind only acts at the surface, so elements
// below it do not move.
func displacement(le element, vel Velocity, dt Seconds) WorldPoint3D {
	if le.p.Z > 0 {
		return WorldPoint3D{}
	}
	vel = vel.Scale(le.windage)
	dLon := vel.U / MetersPerDegreeLat * float64(dt) / LongToLatRatio(le.p.Lat)
	dLat := vel.V / MetersPerDegreeLat * float64(dt)
	return WorldPoint3D{Lon: dLon * microDegrees, Lat: dLat * microDegrees}
}
