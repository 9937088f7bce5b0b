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
	"math"
	"math/rand"
)

// DefaultMaxAttempts is the number of redraws DrawBounded makes before it
// accepts whatever it has.
const DefaultMaxAttempts = 10

// Random produces the random numbers used by the uncertainty algorithm.
// It is not safe for concurrent use; each goroutine needs its own.
type Random struct {
	r *rand.Rand
}

// NewRandom returns a generator seeded with seed.
func NewRandom(seed int64) *Random {
	return &Random{r: rand.New(rand.NewSource(seed))}
}

// Int63 returns a non-negative pseudo-random 63-bit integer. It is used to
// seed child generators.
func (r *Random) Int63() int64 { return r.r.Int63() }

// Uniform returns a uniformly distributed value in [lo, hi).
func (r *Random) Uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*r.r.Float64()
}

// Draw returns two independent, approximately standard normal values
// using the Box-Muller transform. The radial uniform sample is kept
// inside [0.001, 0.999) so the logarithm is always finite.
func (r *Random) Draw() (cosTerm, sinTerm float64) {
	arg := 2 * math.Pi * r.Uniform(0, 1)
	srt := math.Sqrt(-2 * math.Log(r.Uniform(0.001, 0.999)))
	return srt * math.Cos(arg), srt * math.Sin(arg)
}

// DrawBounded draws until the angular deviation implied by sinTerm,
// |sigmaAngle*sinTerm|, is no more than maxAngle. After maxAttempts
// redraws the last draw is returned whether or not it is within bounds.
func (r *Random) DrawBounded(maxAngle, sigmaAngle float64, maxAttempts int) (cosTerm, sinTerm float64) {
	cosTerm, sinTerm = r.Draw()
	for i := 0; i < maxAttempts; i++ {
		if withinMaxAngle(sinTerm, maxAngle, sigmaAngle) {
			break
		}
		cosTerm, sinTerm = r.Draw()
	}
	return cosTerm, sinTerm
}

func withinMaxAngle(sinTerm, maxAngle, sigmaAngle float64) bool {
	return math.Abs(sigmaAngle*sinTerm) <= maxAngle
}
