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

import (
	"fmt"
	"math"
)

// DefaultMaxUncertaintyRecords is the default limit on the number of
// records an UncertaintyStore will hold.
const DefaultMaxUncertaintyRecords = math.MaxInt32

// UncertainRecord holds the random draw used to perturb the wind acting
// on a single element. The same draw is reused every step until the store
// is refreshed.
type UncertainRecord struct {
	RandCos, RandSin float64
}

// UncertaintyStore holds one UncertainRecord per element, partitioned into
// particle sets. Set i occupies records[offsets[i]:offsets[i+1]], and the
// last set runs to the end of the records. An empty store is inactive:
// no uncertainty is applied.
type UncertaintyStore struct {
	records []UncertainRecord
	offsets []int

	lastRefresh Seconds
	maxRecords  int
	rnd         *Random
}

// NewUncertaintyStore returns an empty store that draws from rnd and
// refuses to hold more than maxRecords records. If maxRecords < 1,
// DefaultMaxUncertaintyRecords is used.
func NewUncertaintyStore(rnd *Random, maxRecords int) *UncertaintyStore {
	if maxRecords < 1 {
		maxRecords = DefaultMaxUncertaintyRecords
	}
	return &UncertaintyStore{rnd: rnd, maxRecords: maxRecords}
}

// Active returns whether the store currently holds records.
func (s *UncertaintyStore) Active() bool {
	return len(s.records) > 0 && len(s.offsets) > 0
}

// Len returns the total number of records.
func (s *UncertaintyStore) Len() int { return len(s.records) }

// NumSets returns the number of particle sets.
func (s *UncertaintyStore) NumSets() int { return len(s.offsets) }

// LastRefresh returns the elapsed time at which the records were last drawn.
func (s *UncertaintyStore) LastRefresh() Seconds { return s.lastRefresh }

// Offsets returns a copy of the starting index of each set.
func (s *UncertaintyStore) Offsets() []int {
	return append([]int(nil), s.offsets...)
}

// SetSizes returns the number of records in each set.
func (s *UncertaintyStore) SetSizes() []int {
	sizes := make([]int, len(s.offsets))
	for i, o := range s.offsets {
		end := len(s.records)
		if i+1 < len(s.offsets) {
			end = s.offsets[i+1]
		}
		sizes[i] = end - o
	}
	return sizes
}

// Records returns a copy of all records in storage order.
func (s *UncertaintyStore) Records() []UncertainRecord {
	return append([]UncertainRecord(nil), s.records...)
}

// Record returns the record for element i of set. ok is false if the
// store is inactive or the index is out of range.
func (s *UncertaintyStore) Record(set, i int) (rec UncertainRecord, ok bool) {
	if set < 0 || set >= len(s.offsets) || i < 0 {
		return rec, false
	}
	j := s.offsets[set] + i
	if j >= len(s.records) {
		return rec, false
	}
	return s.records[j], true
}

// Dispose releases all records and sets, making the store inactive.
func (s *UncertaintyStore) Dispose() {
	s.records = nil
	s.offsets = nil
	s.lastRefresh = 0
}

// Allocate disposes of any existing records and allocates one zeroed
// record per element in setSizes. The records are not drawn until Refresh
// is called.
func (s *UncertaintyStore) Allocate(setSizes []int) error {
	s.Dispose()
	if len(setSizes) == 0 {
		return ErrNoSets
	}
	offsets := make([]int, len(setSizes))
	total := 0
	for i, n := range setSizes {
		if n < 0 {
			return fmt.Errorf("%w: set %d has negative size %d", ErrInvalidArgument, i, n)
		}
		offsets[i] = total
		total += n
		if total > s.maxRecords {
			return fmt.Errorf("%w: %d records requested, limit is %d", ErrOutOfMemory, total, s.maxRecords)
		}
	}
	if total == 0 {
		return ErrNoSets
	}
	s.offsets = offsets
	s.records = make([]UncertainRecord, total)
	return s.check()
}

// ReallocateAfterRemoval compacts the records after elements have been
// removed from the model. status holds the status of every element before
// removal; records of elements with StatusToBeRemoved are dropped and the
// rest keep their relative order. Only single-set stores are supported.
// If no records remain the store is disposed.
func (s *UncertaintyStore) ReallocateAfterRemoval(status []Status) error {
	if len(status) == 0 {
		return fmt.Errorf("%w: no status codes", ErrInvalidArgument)
	}
	if !s.Active() {
		return nil
	}
	if len(s.offsets) != 1 {
		return fmt.Errorf("%w: removal requires exactly one set, have %d", ErrInvalidState, len(s.offsets))
	}
	if len(s.records) != len(status) {
		return fmt.Errorf("%w: %d records for %d elements", ErrInvalidState, len(s.records), len(status))
	}
	n := 0
	for i, st := range status {
		if st == StatusToBeRemoved {
			continue
		}
		s.records[n] = s.records[i]
		n++
	}
	if n == 0 {
		s.Dispose()
		return nil
	}
	s.records = s.records[:n:n]
	return s.check()
}

// ReallocateAfterGrowth grows the store to n records, drawing new bounded
// records for the added slots only. Existing records are unchanged. Only
// single-set stores can grow in place.
func (s *UncertaintyStore) ReallocateAfterGrowth(n int, maxAngle, sigmaAngle float64) error {
	if len(s.offsets) != 1 {
		return fmt.Errorf("%w: growth requires exactly one set, have %d", ErrInvalidState, len(s.offsets))
	}
	if n < len(s.records) {
		return fmt.Errorf("%w: cannot grow %d records to %d", ErrInvalidArgument, len(s.records), n)
	}
	if n > s.maxRecords {
		s.Dispose()
		return fmt.Errorf("%w: %d records requested, limit is %d", ErrOutOfMemory, n, s.maxRecords)
	}
	for i := len(s.records); i < n; i++ {
		c, sn := s.rnd.DrawBounded(maxAngle, sigmaAngle, DefaultMaxAttempts)
		s.records = append(s.records, UncertainRecord{RandCos: c, RandSin: sn})
	}
	return s.check()
}

// Refresh draws new values for every record and records elapsed as the
// refresh time.
func (s *UncertaintyStore) Refresh(elapsed Seconds, maxAngle, sigmaAngle float64) {
	s.lastRefresh = elapsed
	for i := range s.records {
		c, sn := s.rnd.DrawBounded(maxAngle, sigmaAngle, DefaultMaxAttempts)
		s.records[i] = UncertainRecord{RandCos: c, RandSin: sn}
	}
}

// matches reports whether setSizes describes the same sets, with the same
// offsets, as the store. grew is true if the sets match except that the
// total number of elements is larger than the number of records.
func (s *UncertaintyStore) matches(setSizes []int) (same, grew bool) {
	if len(setSizes) != len(s.offsets) {
		return false, false
	}
	total := 0
	for i, n := range setSizes {
		if s.offsets[i] != total {
			return false, false
		}
		total += n
	}
	switch {
	case total == len(s.records):
		return true, false
	case total > len(s.records):
		return false, true
	default:
		return false, false
	}
}

// check verifies the store's invariants.
func (s *UncertaintyStore) check() error {
	if len(s.offsets) == 0 {
		return nil
	}
	if s.offsets[0] != 0 {
		return fmt.Errorf("%w: first offset is %d", ErrInvalidState, s.offsets[0])
	}
	sum := 0
	for i, n := range s.SetSizes() {
		if n < 0 {
			return fmt.Errorf("%w: offsets decrease at set %d", ErrInvalidState, i)
		}
		sum += n
	}
	if sum != len(s.records) {
		return fmt.Errorf("%w: set sizes sum to %d but there are %d records", ErrInvalidState, sum, len(s.records))
	}
	return nil
}
