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
	"github.com/spatialmodel/windmover"
)

// SpillContainer holds the elements of one kind (forecast or uncertainty)
// for every spill in the model. The element arrays are parallel.
type SpillContainer struct {
	SpillType windmover.LEType

	// SpillID identifies the particle set the container's elements
	// belong to when looking up uncertainty records.
	SpillID int

	// Positions are in decimal degrees; Z is depth in metres.
	Positions []windmover.WorldPoint3D
	Windages  []float64
	Status    []windmover.Status

	// Spill holds the index in Model.Spills of the spill each element
	// was released from.
	Spill []int
}

// NewSpillContainer returns an empty container.
func NewSpillContainer(t windmover.LEType, id int) *SpillContainer {
	return &SpillContainer{SpillType: t, SpillID: id}
}

// Len returns the number of elements in c.
func (c *SpillContainer) Len() int { return len(c.Positions) }

// Rewind removes all elements.
func (c *SpillContainer) Rewind() {
	c.Positions = c.Positions[:0]
	c.Windages = c.Windages[:0]
	c.Status = c.Status[:0]
	c.Spill = c.Spill[:0]
}

func (c *SpillContainer) add(p windmover.WorldPoint3D, windage float64, spill int) {
	c.Positions = append(c.Positions, p)
	c.Windages = append(c.Windages, windage)
	c.Status = append(c.Status, windmover.StatusInWater)
	c.Spill = append(c.Spill, spill)
}

// removeFlagged drops the elements whose status is StatusToBeRemoved and
// returns the number removed.
func (c *SpillContainer) removeFlagged() int {
	n := 0
	for i, s := range c.Status {
		if s == windmover.StatusToBeRemoved {
			continue
		}
		c.Positions[n] = c.Positions[i]
		c.Windages[n] = c.Windages[i]
		c.Status[n] = c.Status[i]
		c.Spill[n] = c.Spill[i]
		n++
	}
	removed := len(c.Status) - n
	c.Positions = c.Positions[:n]
	c.Windages = c.Windages[:n]
	c.Status = c.Status[:n]
	c.Spill = c.Spill[:n]
	return removed
}

// InWater returns the number of elements with StatusInWater.
func (c *SpillContainer) InWater() int {
	n := 0
	for _, s := range c.Status {
		if s == windmover.StatusInWater {
			n++
		}
	}
	return n
}
