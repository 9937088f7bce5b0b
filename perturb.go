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

import "math"

// Spread holds the parameters that control how far the perturbed wind
// may stray from the forecast. Both grow with the time that uncertainty
// has been active.
type Spread struct {
	SigmaSpeed2 float64 // speed variance, (m/s)²
	SigmaAngle  float64 // angle spread, degrees
}

// NewSpread returns the spread after uncertainty has been active for t
// seconds. Negative t is treated as zero.
func NewSpread(t Seconds, speedScale, angleScale float64) Spread {
	tt := math.Max(float64(t), 0)
	s := speedScale * 0.315 * math.Pow(tt, 0.147)
	return Spread{
		SigmaSpeed2: s * s / 2,
		SigmaAngle:  angleScale * 2.73 * math.Sqrt(math.Sqrt(tt)),
	}
}

// minCosTheta keeps the projection correction in Perturb finite.
const minCosTheta = 0.001

// Perturb returns base perturbed by the random draw rec.
//
// Winds slower than 1 m/s have no meaningful direction, so instead of the
// speed and angle perturbation they get independent noise of up to
// diffusion m/s added to each component.
func Perturb(base Velocity, rec UncertainRecord, s Spread, diffusion float64, rnd *Random) Velocity {
	norm := base.Norm()
	if norm < 1 {
		return Velocity{
			U: base.U + diffusion*rnd.Uniform(-1, 1),
			V: base.V + diffusion*rnd.Uniform(-1, 1),
		}
	}

	var sqs, m float64
	if d := norm*norm - s.SigmaSpeed2; d > 0 {
		sqs = math.Sqrt(d)
		m = math.Sqrt(sqs)
	}
	x := rec.RandCos*math.Sqrt(norm-sqs) + m
	w := x * x

	dtheta := rec.RandSin * s.SigmaAngle * math.Pi / 180
	costheta, sintheta := math.Cos(dtheta), math.Sin(dtheta)
	w /= math.Max(costheta, minCosTheta) // compensate for the projection

	v := base.Scale(w / norm)
	return Velocity{
		U: v.U*costheta - v.V*sintheta,
		V: v.V*costheta + v.U*sintheta,
	}
}
