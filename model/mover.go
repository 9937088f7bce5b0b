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
	"errors"

	"github.com/spatialmodel/windmover"
)

// A Mover computes element displacements for each model step.
type Mover interface {
	// PrepareForModelRun is called once at the start of a run.
	PrepareForModelRun() error

	// PrepareForModelStep is called before elements are moved for the
	// step starting at modelTime. uncertainSizes holds the number of
	// elements in each uncertainty container.
	PrepareForModelStep(modelTime, timeStep windmover.Seconds, uncertain bool, uncertainSizes []int) error

	// GetMove returns the displacement, in decimal degrees, of every
	// element in c.
	GetMove(c *SpillContainer, modelTime, timeStep windmover.Seconds) ([]windmover.WorldPoint3D, error)

	// ModelStepIsDone is called after all elements have been moved.
	ModelStepIsDone() error
}

// An ElementRemover is a Mover that holds per-element state that must be
// updated when elements are removed from the model. status holds the
// status of every element in c before removal.
type ElementRemover interface {
	ElementsRemoved(c *SpillContainer, status []windmover.Status) error
}

// WindAdapter adapts a WindMover to the Mover interface.
type WindAdapter struct {
	*windmover.WindMover
}

var (
	_ Mover          = WindAdapter{}
	_ ElementRemover = WindAdapter{}
)

// PrepareForModelRun implements Mover.
func (w WindAdapter) PrepareForModelRun() error {
	w.WindMover.PrepareForModelRun()
	return nil
}

// GetMove implements Mover.
func (w WindAdapter) GetMove(c *SpillContainer, modelTime, timeStep windmover.Seconds) ([]windmover.WorldPoint3D, error) {
	delta := make([]windmover.WorldPoint3D, c.Len())
	err := w.WindMover.GetMove(windmover.MoveRequest{
		N:         c.Len(),
		ModelTime: modelTime,
		TimeStep:  timeStep,
		Ref:       c.Positions,
		Delta:     delta,
		Windages:  c.Windages,
		Status:    c.Status,
		SpillType: c.SpillType,
		SpillID:   c.SpillID,
	})
	return delta, err
}

// ModelStepIsDone implements Mover.
func (w WindAdapter) ModelStepIsDone() error {
	w.WindMover.ModelStepIsDone()
	return nil
}

// ElementsRemoved implements ElementRemover. Only the uncertainty
// container carries per-element state.
func (w WindAdapter) ElementsRemoved(c *SpillContainer, status []windmover.Status) error {
	if c.SpillType != windmover.UncertaintyLE || len(status) == 0 {
		return nil
	}
	return w.WindMover.ReallocateUncertainty(status)
}

// windOnly reports whether every error joined in err is a wind lookup
// failure, which does not stop the run.
func windOnly(err error) bool {
	if err == nil {
		return false
	}
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range j.Unwrap() {
			if !windOnly(e) {
				return false
			}
		}
		return true
	}
	return errors.Is(err, windmover.ErrWindLookup)
}
