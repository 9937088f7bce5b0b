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

// Package timeseries provides wind velocities that vary in time, read from
// station-style time series of speed and direction.
package timeseries

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spatialmodel/windmover"
)

var (
	// ErrOutOfRange is returned when a value is requested for a time
	// outside the span of the series.
	ErrOutOfRange = errors.New("timeseries: time out of range")

	// ErrEmpty is returned when a series has no records.
	ErrEmpty = errors.New("timeseries: no records")

	// ErrDuplicateTime is returned when two records share a time.
	ErrDuplicateTime = errors.New("timeseries: duplicate time")
)

// Record is the wind velocity at a single time.
type Record struct {
	Time  windmover.Seconds
	Value windmover.Velocity
}

// Series is a wind time series. It implements windmover.WindSource.
type Series struct {
	// Records are sorted by increasing time.
	Records []Record

	// Extrapolate specifies that times outside the series take the value
	// of the nearest record instead of returning ErrOutOfRange.
	Extrapolate bool
}

var _ windmover.WindSource = (*Series)(nil)

// New returns a series holding a sorted copy of records.
func New(records []Record, extrapolate bool) (*Series, error) {
	if len(records) == 0 {
		return nil, ErrEmpty
	}
	r := append([]Record(nil), records...)
	sort.SliceStable(r, func(i, j int) bool { return r[i].Time < r[j].Time })
	for i := 1; i < len(r); i++ {
		if r[i].Time == r[i-1].Time {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateTime, r[i].Time)
		}
	}
	return &Series{Records: r, Extrapolate: extrapolate}, nil
}

// Span returns the times of the first and last records.
func (s *Series) Span() (first, last windmover.Seconds) {
	return s.Records[0].Time, s.Records[len(s.Records)-1].Time
}

// TimeValue returns the wind velocity at time t, interpolating linearly
// between records.
func (s *Series) TimeValue(t windmover.Seconds) (windmover.Velocity, error) {
	if len(s.Records) == 0 {
		return windmover.Velocity{}, ErrEmpty
	}
	if len(s.Records) == 1 {
		return s.Records[0].Value, nil
	}
	first, last := s.Span()
	switch {
	case t < first:
		if s.Extrapolate {
			return s.Records[0].Value, nil
		}
		return windmover.Velocity{}, fmt.Errorf("%w: %d is before %d", ErrOutOfRange, t, first)
	case t > last:
		if s.Extrapolate {
			return s.Records[len(s.Records)-1].Value, nil
		}
		return windmover.Velocity{}, fmt.Errorf("%w: %d is after %d", ErrOutOfRange, t, last)
	}
	// i is the first record at or after t.
	i := sort.Search(len(s.Records), func(i int) bool { return s.Records[i].Time >= t })
	if s.Records[i].Time == t {
		return s.Records[i].Value, nil
	}
	a, b := s.Records[i-1], s.Records[i]
	frac := float64(t-a.Time) / float64(b.Time-a.Time)
	return windmover.Velocity{
		U: a.Value.U + frac*(b.Value.U-a.Value.U),
		V: a.Value.V + frac*(b.Value.V-a.Value.V),
	}, nil
}

// CheckStartTime returns ErrOutOfRange if t is outside the span of the
// series. A single-record series is valid at all times.
func (s *Series) CheckStartTime(t windmover.Seconds) error {
	if len(s.Records) == 0 {
		return ErrEmpty
	}
	if len(s.Records) == 1 {
		return nil
	}
	first, last := s.Span()
	if t < first || t > last {
		return fmt.Errorf("%w: %d is outside [%d, %d]", ErrOutOfRange, t, first, last)
	}
	return nil
}
