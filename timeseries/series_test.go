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
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/spatialmodel/windmover"
)

const testTolerance = 1.e-10

func absDifferent(a, b float64) bool {
	return math.Abs(a-b) > testTolerance
}

func TestNew(t *testing.T) {
	s, err := New([]Record{
		{Time: 20, Value: windmover.Velocity{U: 2}},
		{Time: 0, Value: windmover.Velocity{U: 0}},
		{Time: 10, Value: windmover.Velocity{U: 1}},
	}, false)
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range []windmover.Seconds{0, 10, 20} {
		if s.Records[i].Time != want {
			t.Errorf("record %d time %d, want %d", i, s.Records[i].Time, want)
		}
	}
	if _, err := New(nil, false); !errors.Is(err, ErrEmpty) {
		t.Errorf("empty: %v", err)
	}
	if _, err := New([]Record{{Time: 5}, {Time: 5}}, false); !errors.Is(err, ErrDuplicateTime) {
		t.Errorf("duplicate: %v", err)
	}
}

func TestTimeValue(t *testing.T) {
	s, err := New([]Record{
		{Time: 0, Value: windmover.Velocity{U: 0, V: 10}},
		{Time: 100, Value: windmover.Velocity{U: 10, V: 0}},
		{Time: 300, Value: windmover.Velocity{U: 10, V: 20}},
	}, false)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		t    windmover.Seconds
		want windmover.Velocity
		err  error
	}{
		{t: 0, want: windmover.Velocity{U: 0, V: 10}},
		{t: 25, want: windmover.Velocity{U: 2.5, V: 7.5}},
		{t: 100, want: windmover.Velocity{U: 10, V: 0}},
		{t: 200, want: windmover.Velocity{U: 10, V: 10}},
		{t: 300, want: windmover.Velocity{U: 10, V: 20}},
		{t: -1, err: ErrOutOfRange},
		{t: 301, err: ErrOutOfRange},
	}
	for _, test := range tests {
		v, err := s.TimeValue(test.t)
		if !errors.Is(err, test.err) {
			t.Errorf("t=%d: error %v, want %v", test.t, err, test.err)
		}
		if absDifferent(v.U, test.want.U) || absDifferent(v.V, test.want.V) {
			t.Errorf("t=%d: have %+v, want %+v", test.t, v, test.want)
		}
	}

	s.Extrapolate = true
	if v, err := s.TimeValue(-50); err != nil || v != s.Records[0].Value {
		t.Errorf("extrapolate before: %+v, %v", v, err)
	}
	if v, err := s.TimeValue(1000); err != nil || v != s.Records[2].Value {
		t.Errorf("extrapolate after: %+v, %v", v, err)
	}
}

func TestSingleRecord(t *testing.T) {
	s, err := New([]Record{{Time: 50, Value: windmover.Velocity{U: 3}}}, false)
	if err != nil {
		t.Fatal(err)
	}
	for _, tt := range []windmover.Seconds{-1000, 50, 1000} {
		v, err := s.TimeValue(tt)
		if err != nil || v.U != 3 {
			t.Errorf("t=%d: %+v, %v", tt, v, err)
		}
		if err := s.CheckStartTime(tt); err != nil {
			t.Errorf("t=%d: %v", tt, err)
		}
	}
}

func TestCheckStartTime(t *testing.T) {
	s, err := New([]Record{{Time: 0}, {Time: 3600}}, true)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.CheckStartTime(1800); err != nil {
		t.Error(err)
	}
	if err := s.CheckStartTime(-1); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("before: %v", err)
	}
	if err := s.CheckStartTime(3601); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("after: %v", err)
	}
}

func TestFromSpeedDirection(t *testing.T) {
	tests := []struct {
		speed, dir float64
		units      Units
		want       windmover.Velocity
	}{
		{speed: 10, dir: 0, units: MetersPerSecond, want: windmover.Velocity{V: -10}},
		{speed: 10, dir: 90, units: MetersPerSecond, want: windmover.Velocity{U: -10}},
		{speed: 10, dir: 180, units: MetersPerSecond, want: windmover.Velocity{V: 10}},
		{speed: 10, dir: 270, units: MetersPerSecond, want: windmover.Velocity{U: 10}},
		{speed: 3600, dir: 270, units: Knots, want: windmover.Velocity{U: 1852}},
		{speed: 3600, dir: 270, units: KilometersPerHour, want: windmover.Velocity{U: 1000}},
		{speed: 3600, dir: 270, units: MilesPerHour, want: windmover.Velocity{U: 1609.344}},
	}
	for _, test := range tests {
		r, err := FromSpeedDirection(7, test.speed, test.dir, test.units)
		if err != nil {
			t.Fatal(err)
		}
		if r.Time != 7 {
			t.Errorf("time: %d", r.Time)
		}
		if math.Abs(r.Value.U-test.want.U) > 1e-9 || math.Abs(r.Value.V-test.want.V) > 1e-9 {
			t.Errorf("%g %s from %g: have %+v, want %+v", test.speed, test.units, test.dir, r.Value, test.want)
		}
	}
	if _, err := FromSpeedDirection(0, 1, 0, "furlongs"); err == nil {
		t.Error("expected error for unknown units")
	}
	if _, err := FromSpeedDirection(0, -1, 0, Knots); err == nil {
		t.Error("expected error for negative speed")
	}
}

func TestParseUnits(t *testing.T) {
	for s, want := range map[string]Units{
		"":      MetersPerSecond,
		"M/S":   MetersPerSecond,
		"kts":   Knots,
		" mph ": MilesPerHour,
		"kph":   KilometersPerHour,
	} {
		u, err := ParseUnits(s)
		if err != nil || u != want {
			t.Errorf("%q: %q, %v", s, u, err)
		}
	}
	if _, err := ParseUnits("parsecs"); err == nil {
		t.Error("expected error")
	}
}

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestReadCSV(t *testing.T) {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	const data = `time,speed,direction
# morning
2024-05-01T00:00:00Z, 10, 270
2024-05-01T01:00:00Z, 5, 0
7200, 0, 90
`
	s, err := ReadCSV(strings.NewReader(data), start, MetersPerSecond, true)
	if err != nil {
		t.Fatal(err)
	}
	want := []Record{
		{Time: 0, Value: windmover.Velocity{U: 10}},
		{Time: 3600, Value: windmover.Velocity{V: -5}},
		{Time: 7200},
	}
	if diff := cmp.Diff(want, s.Records, approx); diff != "" {
		t.Errorf("records (-want +got):\n%s", diff)
	}
	if !s.Extrapolate {
		t.Error("extrapolate not set")
	}

	if _, err := ReadCSV(strings.NewReader("0,1,2\nbad,1,2\n"), start, MetersPerSecond, false); err == nil {
		t.Error("expected error for invalid time")
	}
	if _, err := ReadCSV(strings.NewReader("0,1\n"), start, MetersPerSecond, false); err == nil {
		t.Error("expected error for short row")
	}
	if _, err := ReadCSV(strings.NewReader("time,speed,direction\n"), start, MetersPerSecond, false); !errors.Is(err, ErrEmpty) {
		t.Errorf("header only: %v", err)
	}
}

func TestReadCSVZeroPadded(t *testing.T) {
	s, err := ReadCSV(strings.NewReader("0000,5,270\n0600,5,270\n0900,5,270\n"), time.Time{}, MetersPerSecond, false)
	if err != nil {
		t.Fatal(err)
	}
	var have []windmover.Seconds
	for _, r := range s.Records {
		have = append(have, r.Time)
	}
	if diff := cmp.Diff([]windmover.Seconds{0, 600, 900}, have); diff != "" {
		t.Errorf("times (-want +got):\n%s", diff)
	}
}

func TestReadCSVShortHeader(t *testing.T) {
	s, err := ReadCSV(strings.NewReader("time\n0,5,270\n60,5,270\n"), time.Time{}, MetersPerSecond, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Records) != 2 {
		t.Errorf("have %d records, want 2", len(s.Records))
	}
	if _, err := ReadCSV(strings.NewReader("0,5,270\n60\n"), time.Time{}, MetersPerSecond, false); err == nil {
		t.Error("expected error for a short row after the first")
	}
}

func TestReadTOML(t *testing.T) {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	const data = `units = "knots"
extrapolate = true

[[record]]
time = 2024-05-01T00:30:00Z
speed = 3600
direction = 180

[[record]]
time = 0
speed = 0.0
direction = 0
`
	s, err := ReadTOML(strings.NewReader(data), start, MetersPerSecond)
	if err != nil {
		t.Fatal(err)
	}
	want := []Record{
		{Time: 0},
		{Time: 1800, Value: windmover.Velocity{V: 1852}},
	}
	if diff := cmp.Diff(want, s.Records, approx); diff != "" {
		t.Errorf("records (-want +got):\n%s", diff)
	}
	if !s.Extrapolate {
		t.Error("extrapolate not set")
	}

	if _, err := ReadTOML(strings.NewReader(`units = "parsecs"`), start, MetersPerSecond); err == nil {
		t.Error("expected error for unknown units")
	}
}
