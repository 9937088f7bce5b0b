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

package timeseries

import (
	"fmt"
	"math"
	"strings"

	"github.com/spatialmodel/windmover"
)

// Units are wind speed units.
type Units string

// Supported units.
const (
	MetersPerSecond   Units = "m/s"
	Knots             Units = "knots"
	MilesPerHour      Units = "mph"
	KilometersPerHour Units = "km/h"
)

// ParseUnits returns the Units named by s. Common spellings are accepted
// and the empty string means MetersPerSecond.
func ParseUnits(s string) (Units, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "m/s", "mps", "meters per second":
		return MetersPerSecond, nil
	case "knots", "knot", "kts", "kt":
		return Knots, nil
	case "mph", "miles per hour":
		return MilesPerHour, nil
	case "km/h", "kph", "kilometers per hour":
		return KilometersPerHour, nil
	}
	return "", fmt.Errorf("timeseries: unknown speed units %q", s)
}

// ToMetersPerSecond returns the factor that converts a speed in u to m/s.
func (u Units) ToMetersPerSecond() (float64, error) {
	switch u {
	case MetersPerSecond, "":
		return 1, nil
	case Knots:
		return 1852. / 3600., nil
	case MilesPerHour:
		return 1609.344 / 3600., nil
	case KilometersPerHour:
		return 1000. / 3600., nil
	}
	return 0, fmt.Errorf("timeseries: unknown speed units %q", string(u))
}

// FromSpeedDirection returns the record for a wind of the given speed
// blowing from dirFrom degrees clockwise from north.
func FromSpeedDirection(t windmover.Seconds, speed, dirFrom float64, units Units) (Record, error) {
	f, err := units.ToMetersPerSecond()
	if err != nil {
		return Record{}, err
	}
	if speed < 0 {
		return Record{}, fmt.Errorf("timeseries: negative wind speed %g at time %d", speed, t)
	}
	speed *= f
	theta := dirFrom * math.Pi / 180
	return Record{
		Time:  t,
		Value: windmover.Velocity{U: -speed * math.Sin(theta), V: -speed * math.Cos(theta)},
	}, nil
}
