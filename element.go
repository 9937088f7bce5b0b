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

import "fmt"

// Seconds is a simulation time or duration in whole seconds.
type Seconds int64

// Status is the state of an element within the model.
type Status int16

// Element status codes.
const (
	StatusNotReleased Status = 0
	StatusInWater     Status = 2
	StatusOnLand      Status = 3
	StatusOffMaps     Status = 7
	StatusEvaporated  Status = 10
	StatusToBeRemoved Status = 12
)

func (s Status) String() string {
	switch s {
	case StatusNotReleased:
		return "not released"
	case StatusInWater:
		return "in water"
	case StatusOnLand:
		return "on land"
	case StatusOffMaps:
		return "off maps"
	case StatusEvaporated:
		return "evaporated"
	case StatusToBeRemoved:
		return "to be removed"
	default:
		return fmt.Sprintf("Status(%d)", int16(s))
	}
}

// LEType distinguishes the deterministic forecast elements from the
// elements that carry wind uncertainty.
type LEType int

// Spill types.
const (
	ForecastLE    LEType = 1
	UncertaintyLE LEType = 2
)

// Valid returns whether t is a known spill type.
func (t LEType) Valid() bool {
	return t >= ForecastLE && t <= UncertaintyLE
}

func (t LEType) String() string {
	switch t {
	case ForecastLE:
		return "forecast"
	case UncertaintyLE:
		return "uncertainty"
	default:
		return fmt.Sprintf("LEType(%d)", int(t))
	}
}

// WorldPoint3D is a geographic location or displacement. Lon and Lat are
// in decimal degrees at the GetMove boundary and in micro-degrees
// (degrees * 1e6) inside the mover. Z is depth in metres, positive down.
type WorldPoint3D struct {
	Lon, Lat, Z float64
}

// Add returns the sum of p and d.
func (p WorldPoint3D) Add(d WorldPoint3D) WorldPoint3D {
	return WorldPoint3D{Lon: p.Lon + d.Lon, Lat: p.Lat + d.Lat, Z: p.Z + d.Z}
}

// element is the working copy of an element used for a single move.
type element struct {
	p       WorldPoint3D // Lat in micro-degrees
	windage float64
}
