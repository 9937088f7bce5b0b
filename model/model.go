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

// Package model steps Lagrangian elements through time using a set of
// movers, releasing them from spills and writing their positions to
// outputters after every step.
package model

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ctessum/geom"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/windmover"
)

// An Outputter records the state of the model after each step.
type Outputter interface {
	// PrepareForModelRun is called at the start of Run.
	PrepareForModelRun(m *Model) error

	// WriteOutput is called after every step, including the initial
	// step, and sees the elements in their new positions.
	WriteOutput(m *Model) error

	// Close is called at the end of Run.
	Close() error
}

// Model holds the state of a simulation.
type Model struct {
	StartTime time.Time
	Duration  time.Duration
	TimeStep  windmover.Seconds

	// Uncertain specifies that an uncertainty container is moved
	// alongside the forecast.
	Uncertain bool

	// Bounds, if non-nil, is the longitude/latitude extent of the model.
	// Elements that leave it are removed.
	Bounds *geom.Bounds

	Spills     []*Spill
	Movers     []Mover
	Outputters []Outputter

	// RunID identifies the run in outputs.
	RunID string

	Log     logrus.FieldLogger
	Metrics *Metrics

	containers      []*SpillContainer
	currentTimeStep int
	stats           []StepStats
}

// Validate checks the model configuration.
func (m *Model) Validate() error {
	if m.TimeStep <= 0 {
		return fmt.Errorf("model: TimeStep=%d but should be > 0", m.TimeStep)
	}
	if m.Duration < 0 {
		return fmt.Errorf("model: negative Duration %v", m.Duration)
	}
	if m.Bounds != nil && m.Bounds.Empty() {
		return fmt.Errorf("model: empty bounds %+v", *m.Bounds)
	}
	for _, s := range m.Spills {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (m *Model) log() logrus.FieldLogger {
	if m.Log == nil {
		m.Log = logrus.StandardLogger()
	}
	return m.Log
}

// Rewind returns the model to before its first step, removing all
// elements.
func (m *Model) Rewind() {
	m.currentTimeStep = -1
	m.containers = m.containers[:0]
	m.containers = append(m.containers, NewSpillContainer(windmover.ForecastLE, 0))
	if m.Uncertain {
		m.containers = append(m.containers, NewSpillContainer(windmover.UncertaintyLE, 0))
	}
	for _, s := range m.Spills {
		s.Rewind()
	}
	m.stats = nil
}

// NumTimeSteps returns the number of steps after the initial step.
func (m *Model) NumTimeSteps() int {
	if m.TimeStep <= 0 {
		return 0
	}
	return int(windmover.Seconds(m.Duration/time.Second) / m.TimeStep)
}

// CurrentTimeStep returns the index of the last completed step, or -1
// before the first step.
func (m *Model) CurrentTimeStep() int { return m.currentTimeStep }

// ModelTime returns the number of seconds between StartTime and the
// current step.
func (m *Model) ModelTime() windmover.Seconds {
	if m.currentTimeStep < 0 {
		return 0
	}
	return windmover.Seconds(m.currentTimeStep) * m.TimeStep
}

// Time returns the wall-clock time of the current step.
func (m *Model) Time() time.Time {
	return m.StartTime.Add(time.Duration(m.ModelTime()) * time.Second)
}

// Containers returns the spill containers. The first holds the forecast
// elements and the second, if present, the uncertainty elements.
func (m *Model) Containers() []*SpillContainer { return m.containers }

// StepStats returns the displacement summary of each container for the
// last step, in the same order as Containers.
func (m *Model) StepStats() []StepStats { return m.stats }

// Step advances the model by one step. It returns false when the run is
// complete.
func (m *Model) Step() (bool, error) {
	if m.containers == nil {
		m.Rewind()
	}
	if m.currentTimeStep >= m.NumTimeSteps() {
		return false, nil
	}
	start := time.Now()
	if m.currentTimeStep == -1 {
		if err := m.setupModelRun(); err != nil {
			return false, err
		}
	} else {
		if err := m.setupTimeStep(); err != nil {
			return false, err
		}
		if err := m.moveElements(); err != nil {
			return false, err
		}
		if err := m.stepIsDone(); err != nil {
			return false, err
		}
	}
	m.currentTimeStep++

	// Elements are released after the step counter is incremented so that
	// they are present, but not yet moved, at their release time.
	m.releaseElements()

	m.Metrics.observeStep(start, m.containers)
	for _, o := range m.Outputters {
		if err := o.WriteOutput(m); err != nil {
			return false, fmt.Errorf("model: writing output for step %d: %w", m.currentTimeStep, err)
		}
	}
	return true, nil
}

// Run rewinds the model and steps it until the run is complete or ctx is
// cancelled.
func (m *Model) Run(ctx context.Context) (err error) {
	if err := m.Validate(); err != nil {
		return err
	}
	m.Rewind()
	for _, o := range m.Outputters {
		if err := o.PrepareForModelRun(m); err != nil {
			return err
		}
	}
	defer func() {
		for _, o := range m.Outputters {
			err = errors.Join(err, o.Close())
		}
	}()
	m.log().WithFields(logrus.Fields{
		"run_id":     m.RunID,
		"start_time": m.StartTime.Format(time.RFC3339),
		"steps":      m.NumTimeSteps(),
		"time_step":  int64(m.TimeStep),
		"uncertain":  m.Uncertain,
	}).Info("windmover: starting model run")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		ok, err := m.Step()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	m.log().WithField("run_id", m.RunID).Info("windmover: model run complete")
	return nil
}

func (m *Model) setupModelRun() error {
	for _, mv := range m.Movers {
		if err := mv.PrepareForModelRun(); err != nil {
			return fmt.Errorf("model: preparing for run: %w", err)
		}
	}
	for _, c := range m.containers {
		c.Rewind()
	}
	return nil
}

func (m *Model) setupTimeStep() error {
	var sizes []int
	total := 0
	for _, c := range m.containers {
		if c.SpillType == windmover.UncertaintyLE {
			sizes = append(sizes, c.Len())
			total += c.Len()
		}
	}
	uncertain := m.Uncertain && total > 0
	for _, mv := range m.Movers {
		err := mv.PrepareForModelStep(m.ModelTime(), m.TimeStep, uncertain, sizes)
		switch {
		case err == nil:
		case windOnly(err):
			m.Metrics.windError()
			m.log().WithFields(logrus.Fields{
				"step": m.currentTimeStep,
				"time": m.Time().Format(time.RFC3339),
			}).WithError(err).Warn("windmover: continuing without wind")
		default:
			return fmt.Errorf("model: preparing step %d: %w", m.currentTimeStep, err)
		}
	}
	return nil
}

func (m *Model) moveElements() error {
	m.stats = make([]StepStats, len(m.containers))
	for ci, c := range m.containers {
		if c.Len() == 0 {
			continue
		}
		delta := make([]windmover.WorldPoint3D, c.Len())
		for _, mv := range m.Movers {
			d, err := mv.GetMove(c, m.ModelTime(), m.TimeStep)
			if err != nil {
				return fmt.Errorf("model: moving %s elements in step %d: %w", c.SpillType, m.currentTimeStep, err)
			}
			for i := range delta {
				delta[i] = delta[i].Add(d[i])
			}
		}
		m.stats[ci] = displacementStats(c.Positions, delta, c.Status)
		for i := range c.Positions {
			c.Positions[i] = c.Positions[i].Add(delta[i])
		}
		if err := m.removeOutOfBounds(c); err != nil {
			return err
		}
		s := m.stats[ci]
		m.log().WithFields(logrus.Fields{
			"step":       m.currentTimeStep,
			"spill_type": c.SpillType.String(),
			"n":          s.N,
			"mean_m":     s.Mean,
			"stddev_m":   s.StdDev,
			"max_m":      s.Max,
		}).Info("windmover: step displacement")
	}
	return nil
}

// removeOutOfBounds flags elements outside the model bounds, notifies
// movers that keep per-element state, and drops the elements.
func (m *Model) removeOutOfBounds(c *SpillContainer) error {
	if m.Bounds == nil {
		return nil
	}
	flagged := false
	for i, p := range c.Positions {
		if !(geom.Point{X: p.Lon, Y: p.Lat}).Bounds().Overlaps(m.Bounds) {
			c.Status[i] = windmover.StatusToBeRemoved
			flagged = true
		}
	}
	if !flagged {
		return nil
	}
	status := append([]windmover.Status(nil), c.Status...)
	for _, mv := range m.Movers {
		if r, ok := mv.(ElementRemover); ok {
			if err := r.ElementsRemoved(c, status); err != nil {
				return fmt.Errorf("model: removing elements in step %d: %w", m.currentTimeStep, err)
			}
		}
	}
	n := c.removeFlagged()
	m.log().WithFields(logrus.Fields{
		"step":       m.currentTimeStep,
		"spill_type": c.SpillType.String(),
		"removed":    n,
	}).Debug("windmover: elements left the model bounds")
	return nil
}

func (m *Model) stepIsDone() error {
	for _, mv := range m.Movers {
		if err := mv.ModelStepIsDone(); err != nil {
			return fmt.Errorf("model: finishing step %d: %w", m.currentTimeStep, err)
		}
	}
	return nil
}

func (m *Model) releaseElements() {
	for si, s := range m.Spills {
		w := s.release(m.ModelTime())
		if w == nil {
			continue
		}
		for _, c := range m.containers {
			for _, windage := range w {
				c.add(s.Position, windage, si)
			}
		}
		m.log().WithFields(logrus.Fields{
			"spill": s.Name,
			"n":     len(w),
			"step":  m.currentTimeStep,
		}).Debug("windmover: released elements")
	}
}
