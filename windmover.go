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

// Package windmover moves Lagrangian elements, such as oil spill particles,
// under the influence of wind. Each model step the mover resolves the wind
// velocity, optionally perturbs it for elements that represent forecast
// uncertainty, scales it by each element's windage, and converts it to a
// longitude/latitude displacement.
//
// The uncertainty perturbation is driven by one random draw per element.
// Draws are kept between steps and redrawn when the persistence Duration
// elapses, while the spread of the perturbation grows with the time since
// uncertainty was switched on.
package windmover

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/sirupsen/logrus"
)

// Version gives the version number.
const Version = "0.3.0"

// eddyDiffusion is the horizontal eddy diffusivity [cm²/s] used to set
// the noise added to near-calm winds.
const eddyDiffusion = 1e6

// Config holds the parameters of a WindMover.
type Config struct {
	// SpeedScale and AngleScale scale the growth of the speed and angle
	// uncertainty.
	SpeedScale, AngleScale float64

	// MaxSpeed [m/s] is the largest wind speed considered when drawing
	// uncertainty. It is carried for compatibility with saved
	// configurations; the draw is bounded by MaxAngle only.
	MaxSpeed float64

	// MaxAngle [degrees] bounds the angular deviation of random draws.
	MaxAngle float64

	// UncertainStartTime is the time after the start of the model run at
	// which uncertainty is switched on.
	UncertainStartTime Seconds

	// Duration is how long random draws persist before they are redrawn.
	Duration Seconds

	// IsConstantWind specifies that ConstantValue should be used instead
	// of a time-varying wind source.
	IsConstantWind bool
	ConstantValue  Velocity

	// Seed seeds the random number generator.
	Seed int64

	// Workers is the number of goroutines GetMove uses. Values below 2
	// move elements sequentially.
	Workers int

	// MaxUncertaintyRecords limits the size of the uncertainty store.
	// Zero means DefaultMaxUncertaintyRecords.
	MaxUncertaintyRecords int
}

// DefaultConfig returns the standard wind uncertainty parameters.
func DefaultConfig() Config {
	return Config{
		SpeedScale: 2,
		AngleScale: 0.4,
		MaxSpeed:   30,
		MaxAngle:   60,
		Duration:   3 * 3600,
		Seed:       1,
	}
}

// Validate checks c for values that can never be valid.
func (c Config) Validate() error {
	switch {
	case c.SpeedScale < 0:
		return fmt.Errorf("%w: SpeedScale=%g but should be >= 0", ErrInvalidArgument, c.SpeedScale)
	case c.AngleScale < 0:
		return fmt.Errorf("%w: AngleScale=%g but should be >= 0", ErrInvalidArgument, c.AngleScale)
	case c.MaxSpeed < 0:
		return fmt.Errorf("%w: MaxSpeed=%g but should be >= 0", ErrInvalidArgument, c.MaxSpeed)
	case c.MaxAngle < 0:
		return fmt.Errorf("%w: MaxAngle=%g but should be >= 0", ErrInvalidArgument, c.MaxAngle)
	case c.UncertainStartTime < 0:
		return fmt.Errorf("%w: UncertainStartTime=%d but should be >= 0", ErrInvalidArgument, c.UncertainStartTime)
	case c.Duration <= 0:
		return fmt.Errorf("%w: Duration=%d but should be > 0", ErrInvalidArgument, c.Duration)
	case c.MaxUncertaintyRecords < 0:
		return fmt.Errorf("%w: MaxUncertaintyRecords=%d but should be >= 0", ErrInvalidArgument, c.MaxUncertaintyRecords)
	}
	return nil
}

// WindMover computes element displacements caused by wind.
// It is not safe for concurrent use.
type WindMover struct {
	Config

	// Log receives warnings and debugging messages.
	Log logrus.FieldLogger

	wind  *WindField
	store *UncertaintyStore
	rnd   *Random

	spread               Spread
	uncertaintyDiffusion float64

	isFirstStep    bool
	modelStartTime Seconds
}

// Option configures a WindMover.
type Option func(*WindMover) error

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(m *WindMover) error {
		m.Log = l
		return nil
	}
}

// WithWindSource sets the time-varying wind source. It has no effect when
// Config.IsConstantWind is true.
func WithWindSource(src WindSource) Option {
	return func(m *WindMover) error {
		if src == nil {
			return fmt.Errorf("%w: nil wind source", ErrInvalidArgument)
		}
		if !m.wind.IsConstant() {
			m.wind.SetSource(src)
		}
		return nil
	}
}

// New creates a WindMover with configuration cfg.
func New(cfg Config, opts ...Option) (*WindMover, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m := &WindMover{
		Config: cfg,
		Log:    logrus.StandardLogger(),
		rnd:    NewRandom(cfg.Seed),
	}
	m.store = NewUncertaintyStore(m.rnd, cfg.MaxUncertaintyRecords)
	if cfg.IsConstantWind {
		m.wind = NewConstantWind(cfg.ConstantValue)
	} else {
		m.wind = NewWindField(nil)
	}
	for _, o := range opts {
		if err := o(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Wind returns the wind field used by the mover.
func (m *WindMover) Wind() *WindField { return m.wind }

// Store returns the uncertainty store.
func (m *WindMover) Store() *UncertaintyStore { return m.store }

// Spread returns the uncertainty spread computed for the current step.
func (m *WindMover) Spread() Spread { return m.spread }

// UncertaintyDiffusion returns the noise amplitude [m/s] added to
// near-calm winds for uncertainty elements.
func (m *WindMover) UncertaintyDiffusion() float64 { return m.uncertaintyDiffusion }

// ModelStartTime returns the model time of the first step of the run.
func (m *WindMover) ModelStartTime() Seconds { return m.modelStartTime }

// CheckStartTime reports whether the wind can be evaluated from time t.
func (m *WindMover) CheckStartTime(t Seconds) error {
	return m.wind.CheckStartTime(t)
}

// PrepareForModelRun resets the mover at the start of a run. Any random
// draws from an earlier run are discarded.
func (m *WindMover) PrepareForModelRun() {
	m.isFirstStep = true
	m.store.Dispose()
}

// PrepareForModelStep readies the mover for the step starting at
// modelTime. If uncertain is true the uncertainty records are brought up
// to date with setSizes, the number of elements in each particle set.
//
// The wind is always resolved for the step. A failed wind lookup is
// logged and returned wrapped in ErrWindLookup, but the step can still be
// taken with the velocity the source supplied.
func (m *WindMover) PrepareForModelStep(modelTime, timeStep Seconds, uncertain bool, setSizes []int) error {
	if m.isFirstStep {
		m.modelStartTime = modelTime
	}
	var uncErr error
	if uncertain {
		if timeStep <= 0 {
			uncErr = fmt.Errorf("%w: time step %d", ErrInvalidArgument, timeStep)
		} else {
			uncErr = m.UpdateUncertainty(modelTime-m.modelStartTime, setSizes)
			m.uncertaintyDiffusion = uncertaintyDiffusion(timeStep)
		}
	}
	var windErr error
	if _, err := m.wind.CurrentVelocity(modelTime); err != nil {
		windErr = fmt.Errorf("%w: %v", ErrWindLookup, err)
		m.Log.WithFields(logrus.Fields{
			"model_time": int64(modelTime),
		}).WithError(err).Warn("windmover: error resolving wind for step")
	}
	return errors.Join(uncErr, windErr)
}

// uncertaintyDiffusion returns the near-calm noise amplitude [m/s]. It is
// divided by the time step because it is later multiplied by it.
func uncertaintyDiffusion(timeStep Seconds) float64 {
	return math.Sqrt(6 * (eddyDiffusion / 10000) / float64(timeStep))
}

// ModelStepIsDone is called after all elements have been moved for a step.
func (m *WindMover) ModelStepIsDone() {
	m.isFirstStep = false
}

// UpdateUncertainty brings the uncertainty records up to date with the
// particle population described by setSizes, elapsed seconds after the
// start of the run.
func (m *WindMover) UpdateUncertainty(elapsed Seconds, setSizes []int) error {
	if elapsed < m.UncertainStartTime {
		if m.store.Active() {
			m.store.Dispose()
		}
		return nil
	}

	needReinit := !m.store.Active() || elapsed < m.store.LastRefresh()
	var needReallocate bool
	if !needReinit {
		same, grew := m.store.matches(setSizes)
		switch {
		case grew:
			needReallocate = true
		case !same:
			needReinit = true
		}
	}

	m.spread = NewSpread(elapsed-m.UncertainStartTime, m.SpeedScale, m.AngleScale)

	if needReallocate {
		if len(setSizes) != 1 || m.store.NumSets() != 1 {
			return fmt.Errorf("%w: cannot grow %d particle sets in place", ErrInvalidState, len(setSizes))
		}
		if err := m.store.ReallocateAfterGrowth(setSizes[0], m.MaxAngle, m.spread.SigmaAngle); err != nil {
			return err
		}
	}

	if needReinit {
		m.Log.WithFields(logrus.Fields{
			"elapsed":   int64(elapsed),
			"set_sizes": setSizes,
		}).Debug("windmover: initializing uncertainty")
		if err := m.store.Allocate(setSizes); err != nil {
			return err
		}
		m.store.Refresh(elapsed, m.MaxAngle, m.spread.SigmaAngle)
	} else if elapsed >= m.store.LastRefresh()+m.Duration {
		m.store.Refresh(elapsed, m.MaxAngle, m.spread.SigmaAngle)
	}
	return nil
}

// ReallocateUncertainty drops the uncertainty records of elements whose
// status is StatusToBeRemoved. status must hold the status of every
// element before removal.
func (m *WindMover) ReallocateUncertainty(status []Status) error {
	return m.store.ReallocateAfterRemoval(status)
}

// MoveRequest holds the arguments to GetMove. Ref, Delta, Windages and
// Status are parallel arrays with at least N entries.
type MoveRequest struct {
	N         int
	ModelTime Seconds
	TimeStep  Seconds

	// Ref holds element positions in decimal degrees and depth in metres.
	Ref []WorldPoint3D

	// Delta receives element displacements in decimal degrees.
	Delta []WorldPoint3D

	Windages  []float64
	Status    []Status
	SpillType LEType

	// SpillID selects the particle set used to look up uncertainty
	// records.
	SpillID int
}

func (r *MoveRequest) validate() error {
	if r.N < 0 {
		return fmt.Errorf("%w: N=%d", ErrInvalidArgument, r.N)
	}
	if r.Ref == nil || r.Delta == nil || r.Windages == nil {
		return ErrMissingArray
	}
	if len(r.Ref) < r.N || len(r.Delta) < r.N || len(r.Windages) < r.N || len(r.Status) < r.N {
		return fmt.Errorf("%w: arrays shorter than %d elements", ErrMissingArray, r.N)
	}
	if !r.SpillType.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidSpillType, int(r.SpillType))
	}
	return nil
}

// GetMove computes the displacement of each of the first req.N elements
// over req.TimeStep and writes it to req.Delta. Elements that are not in
// the water are not moved. Nothing is written if the request is invalid.
func (m *WindMover) GetMove(req MoveRequest) error {
	if err := req.validate(); err != nil {
		return err
	}
	if m.Workers < 2 || req.N < 2 {
		m.moveRange(&req, 0, 1, m.rnd)
		return nil
	}

	nprocs := m.Workers
	if n := runtime.GOMAXPROCS(0); nprocs > n {
		nprocs = n
	}
	rnds := make([]*Random, nprocs)
	for i := range rnds {
		rnds[i] = NewRandom(m.rnd.Int63())
	}
	var wg sync.WaitGroup
	wg.Add(nprocs)
	for pp := 0; pp < nprocs; pp++ {
		go func(pp int) {
			m.moveRange(&req, pp, nprocs, rnds[pp])
			wg.Done()
		}(pp)
	}
	wg.Wait()
	return nil
}

// moveRange moves elements start, start+stride, start+2*stride, ...
func (m *WindMover) moveRange(req *MoveRequest, start, stride int, rnd *Random) {
	for i := start; i < req.N; i += stride {
		if req.Status[i] != StatusInWater {
			req.Delta[i] = WorldPoint3D{}
			continue
		}
		le := element{p: req.Ref[i], windage: req.Windages[i]}
		le.p.Lat *= microDegrees

		d := m.move(req.SpillID, i, le, req.SpillType, req.TimeStep, rnd)
		d.Lon /= microDegrees
		d.Lat /= microDegrees
		req.Delta[i] = d
	}
}

// move returns the displacement of a single element in micro-degrees.
func (m *WindMover) move(setIndex, leIndex int, le element, leType LEType, dt Seconds, rnd *Random) WorldPoint3D {
	if le.p.Z > 0 {
		return WorldPoint3D{}
	}
	vel := m.wind.Cached()
	if leType == UncertaintyLE {
		vel = m.addUncertainty(setIndex, leIndex, vel, rnd)
	}
	return displacement(le, vel, dt)
}

func (m *WindMover) addUncertainty(setIndex, leIndex int, vel Velocity, rnd *Random) Velocity {
	if !m.store.Active() {
		return vel
	}
	rec, ok := m.store.Record(setIndex, leIndex)
	if !ok && vel.Norm() >= 1 {
		return vel
	}
	return Perturb(vel, rec, m.spread, m.uncertaintyDiffusion, rnd)
}
