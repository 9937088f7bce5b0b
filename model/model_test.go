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
	"context"
	"errors"
	"io"
	"math"
	"testing"
	"time"

	"github.com/ctessum/geom"
	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/windmover"
)

const testTolerance = 1.e-8

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testMover(t *testing.T, v windmover.Velocity, opts ...windmover.Option) WindAdapter {
	cfg := windmover.DefaultConfig()
	cfg.IsConstantWind = true
	cfg.ConstantValue = v
	opts = append([]windmover.Option{windmover.WithLogger(quietLogger())}, opts...)
	wm, err := windmover.New(cfg, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return WindAdapter{wm}
}

func testModel(t *testing.T, v windmover.Velocity, uncertain bool) *Model {
	return &Model{
		StartTime: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Duration:  6 * time.Hour,
		TimeStep:  3600,
		Uncertain: uncertain,
		Spills: []*Spill{{
			Name:         "test",
			NumElements:  10,
			ReleaseTime:  0,
			Position:     windmover.WorldPoint3D{Lon: -70, Lat: 42},
			WindageRange: [2]float64{0.01, 0.04},
			Seed:         1,
		}},
		Movers: []Mover{testMover(t, v)},
		Log:    quietLogger(),
	}
}

func TestStepSequence(t *testing.T) {
	m := testModel(t, windmover.Velocity{U: 10}, false)
	if m.NumTimeSteps() != 6 {
		t.Fatalf("NumTimeSteps: %d", m.NumTimeSteps())
	}
	m.Rewind()
	if m.CurrentTimeStep() != -1 {
		t.Fatalf("step after rewind: %d", m.CurrentTimeStep())
	}
	var steps []int
	for {
		ok, err := m.Step()
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			break
		}
		steps = append(steps, m.CurrentTimeStep())
		if m.ModelTime() != windmover.Seconds(m.CurrentTimeStep())*3600 {
			t.Errorf("step %d: model time %d", m.CurrentTimeStep(), m.ModelTime())
		}
	}
	if diff := cmp.Diff([]int{0, 1, 2, 3, 4, 5, 6}, steps); diff != "" {
		t.Errorf("steps (-want +got):\n%s", diff)
	}
	if want := m.StartTime.Add(6 * time.Hour); !m.Time().Equal(want) {
		t.Errorf("time: %v, want %v", m.Time(), want)
	}
}

func TestRunMovesEast(t *testing.T) {
	m := testModel(t, windmover.Velocity{U: 10}, false)
	if err := m.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	c := m.Containers()[0]
	if c.Len() != 10 {
		t.Fatalf("len: %d", c.Len())
	}
	for i, p := range c.Positions {
		// Released at step 0 and moved for six hours.
		wantLon := -70 + c.Windages[i]*10*6*3600/windmover.MetersPerDegreeLat/math.Cos(42*math.Pi/180)
		if math.Abs(p.Lon-wantLon) > testTolerance {
			t.Errorf("element %d lon %g, want %g", i, p.Lon, wantLon)
		}
		if math.Abs(p.Lat-42) > testTolerance {
			t.Errorf("element %d lat %g", i, p.Lat)
		}
		if c.Windages[i] < 0.01 || c.Windages[i] >= 0.04 {
			t.Errorf("element %d windage %g", i, c.Windages[i])
		}
	}
	s := m.StepStats()[0]
	if s.N != 10 || s.Mean <= 0 || s.Max < s.Mean {
		t.Errorf("stats: %+v", s)
	}
}

func TestLateRelease(t *testing.T) {
	m := testModel(t, windmover.Velocity{U: 10}, false)
	m.Spills[0].ReleaseTime = 3 * 3600
	m.Rewind()
	for i := 0; i < 3; i++ {
		if _, err := m.Step(); err != nil {
			t.Fatal(err)
		}
		if n := m.Containers()[0].Len(); n != 0 {
			t.Fatalf("step %d: %d elements before release", m.CurrentTimeStep(), n)
		}
	}
	if _, err := m.Step(); err != nil {
		t.Fatal(err)
	}
	c := m.Containers()[0]
	if c.Len() != 10 {
		t.Fatalf("elements after release: %d", c.Len())
	}
	for i, p := range c.Positions {
		if p != m.Spills[0].Position {
			t.Errorf("element %d moved at release: %+v", i, p)
		}
	}
}

func TestUncertainRun(t *testing.T) {
	m := testModel(t, windmover.Velocity{U: 10, V: 3}, true)
	m.Duration = 12 * time.Hour
	if err := m.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	cs := m.Containers()
	if len(cs) != 2 {
		t.Fatalf("containers: %d", len(cs))
	}
	f, u := cs[0], cs[1]
	if f.SpillType != windmover.ForecastLE || u.SpillType != windmover.UncertaintyLE {
		t.Fatalf("spill types: %v, %v", f.SpillType, u.SpillType)
	}
	if diff := cmp.Diff(f.Windages, u.Windages); diff != "" {
		t.Errorf("windages differ (-forecast +uncertain):\n%s", diff)
	}
	same := 0
	for i := range f.Positions {
		if f.Positions[i] == u.Positions[i] {
			same++
		}
	}
	if same == len(f.Positions) {
		t.Error("uncertainty elements followed the forecast exactly")
	}
	wm := m.Movers[0].(WindAdapter).WindMover
	if wm.Store().Len() != u.Len() {
		t.Errorf("store has %d records for %d elements", wm.Store().Len(), u.Len())
	}
}

func TestBoundsRemoval(t *testing.T) {
	m := testModel(t, windmover.Velocity{U: 10}, true)
	m.Spills[0].WindageRange = [2]float64{0.03, 0.03}
	m.Spills = append(m.Spills, &Spill{
		Name:         "still",
		NumElements:  5,
		Position:     windmover.WorldPoint3D{Lon: -70, Lat: 42},
		WindageRange: [2]float64{0, 0},
	})
	// 0.03*10 m/s moves about 0.013° of longitude per hour at 42°N.
	m.Bounds = &geom.Bounds{
		Min: geom.Point{X: -71, Y: 41},
		Max: geom.Point{X: -69.985, Y: 43},
	}
	if err := m.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	for _, c := range m.Containers() {
		if c.Len() != 5 {
			t.Errorf("%v: %d elements remain, want 5", c.SpillType, c.Len())
		}
		for i := range c.Positions {
			if m.Spills[c.Spill[i]].Name != "still" {
				t.Errorf("%v element %d from %q should have been removed", c.SpillType, i, m.Spills[c.Spill[i]].Name)
			}
		}
	}
	wm := m.Movers[0].(WindAdapter).WindMover
	if wm.Store().Len() != 5 {
		t.Errorf("store length %d", wm.Store().Len())
	}
}

type failingMover struct {
	WindAdapter
	err error
}

func (f failingMover) PrepareForModelStep(windmover.Seconds, windmover.Seconds, bool, []int) error {
	return f.err
}

func TestWindErrorsContinue(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := NewMetrics(reg)
	if err != nil {
		t.Fatal(err)
	}
	m := testModel(t, windmover.Velocity{U: 1}, false)
	m.Metrics = metrics
	m.Movers = []Mover{failingMover{
		WindAdapter: testMover(t, windmover.Velocity{U: 1}),
		err:         errors.Join(nil, windmover.ErrWindLookup),
	}}
	if err := m.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := testutil.ToFloat64(metrics.WindErrors); got != 6 {
		t.Errorf("wind errors = %v, want 6", got)
	}
	if got := testutil.ToFloat64(metrics.Steps); got != 7 {
		t.Errorf("steps = %v, want 7", got)
	}
	if got := testutil.ToFloat64(metrics.Elements.WithLabelValues("forecast")); got != 10 {
		t.Errorf("forecast elements = %v, want 10", got)
	}

	fatal := errors.New("boom")
	m.Movers = []Mover{failingMover{WindAdapter: testMover(t, windmover.Velocity{U: 1}), err: fatal}}
	if err := m.Run(context.Background()); !errors.Is(err, fatal) {
		t.Errorf("have %v, want %v", err, fatal)
	}
}

func TestRunCancelled(t *testing.T) {
	m := testModel(t, windmover.Velocity{U: 1}, false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := m.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("have %v", err)
	}
}

func TestValidate(t *testing.T) {
	for name, mod := range map[string]func(*Model){
		"time step": func(m *Model) { m.TimeStep = 0 },
		"duration":  func(m *Model) { m.Duration = -time.Second },
		"bounds":    func(m *Model) { m.Bounds = geom.NewBounds() },
		"windage":   func(m *Model) { m.Spills[0].WindageRange = [2]float64{0.05, 0.01} },
		"elements":  func(m *Model) { m.Spills[0].NumElements = -1 },
	} {
		m := testModel(t, windmover.Velocity{}, false)
		mod(m)
		if err := m.Run(context.Background()); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestWindOnly(t *testing.T) {
	wind := errors.Join(nil, windmover.ErrWindLookup)
	other := errors.Join(windmover.ErrInvalidState, windmover.ErrWindLookup)
	if !windOnly(wind) {
		t.Error("wind error should be non-fatal")
	}
	if windOnly(other) {
		t.Error("joined state error should be fatal")
	}
	if windOnly(nil) || windOnly(errors.New("x")) {
		t.Error("unexpected")
	}
}
