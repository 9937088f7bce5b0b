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
	"errors"
	"fmt"
)

// Errors returned by the wind mover. Callers should compare with errors.Is,
// because most of these are returned wrapped with additional context.
var (
	// ErrInvalidArgument is returned when a call is made with arguments
	// that can never be valid, for example a population with no particle
	// sets. The call has no effect.
	ErrInvalidArgument = errors.New("windmover: invalid argument")

	// ErrMissingArray is returned by GetMove when one of the position,
	// displacement, windage, or status arrays is absent or too short.
	ErrMissingArray = fmt.Errorf("%w: missing element array", ErrInvalidArgument)

	// ErrInvalidSpillType is returned by GetMove when the spill type is
	// neither ForecastLE nor UncertaintyLE.
	ErrInvalidSpillType = fmt.Errorf("%w: invalid spill type", ErrInvalidArgument)

	// ErrNoSets is returned when the uncertainty store is asked to hold
	// zero particle sets or zero particles.
	ErrNoSets = fmt.Errorf("%w: no particle sets", ErrInvalidArgument)

	// ErrInvalidState is returned when the stored uncertainty records no
	// longer match the particle population in a way that the operation
	// cannot reconcile. Prior state is left untouched.
	ErrInvalidState = errors.New("windmover: invalid uncertainty state")

	// ErrOutOfMemory is returned when the uncertainty store would exceed its
	// record limit. Any partially built store is disposed.
	ErrOutOfMemory = errors.New("windmover: uncertainty allocation failed")

	// ErrWindLookup wraps errors returned by the wind source.
	ErrWindLookup = errors.New("windmover: wind lookup failed")

	// ErrNotApplicable is returned by CheckStartTime for constant winds,
	// whose value is the same at all times.
	ErrNotApplicable = errors.New("windmover: not applicable to constant wind")
)

// Return codes used by ReturnCode.
const (
	CodeOK               = 0
	CodeMissingArray     = 1
	CodeInvalidSpillType = 2
	CodeOther            = -1
)

// ReturnCode converts an error returned by GetMove into the numeric code
// used at the batch boundary: 0 on success, 1 when an element array is
// missing, 2 for an invalid spill type, and -1 for anything else.
func ReturnCode(err error) int {
	switch {
	case err == nil:
		return CodeOK
	case errors.Is(err, ErrMissingArray):
		return CodeMissingArray
	case errors.Is(err, ErrInvalidSpillType):
		return CodeInvalidSpillType
	default:
		return CodeOther
	}
}
