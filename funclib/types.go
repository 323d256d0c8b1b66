// Value types and the fixed parameter-vector layout.

package funclib

import "math"

// NumParams is the length of the fit parameter vector.
// Any initializer producing a different length is a configuration error.
const NumParams = 14

// Offsets of the four kinematic objects inside the parameter vector.
const (
	// TagOffset is the first index of the tag-side four-momentum.
	TagOffset = 0
	// XSystemOffset is the first index of the X-system four-momentum.
	XSystemOffset = 4
	// LeptonOffset is the first index of the lepton three-momentum.
	LeptonOffset = 8
	// NeutrinoOffset is the first index of the neutrino three-momentum.
	NeutrinoOffset = 11
)

// AvgBMass is the average B-meson mass in GeV used by the pinned
// mass residuals.
const AvgBMass = 5.279

// FourMomentum is a particle four-momentum (px, py, pz, E) in GeV.
type FourMomentum [4]float64

// ThreeMomentum is a particle three-momentum (px, py, pz) in GeV.
type ThreeMomentum [3]float64

// Mass2 returns the invariant mass squared E² − |p|².
// The result may be negative for unphysical inputs.
func (p FourMomentum) Mass2() float64 {
	return p[3]*p[3] - (p[0]*p[0] + p[1]*p[1] + p[2]*p[2])
}

// Norm2 returns the squared magnitude |p|².
func (p ThreeMomentum) Norm2() float64 {
	return p[0]*p[0] + p[1]*p[1] + p[2]*p[2]
}

// Energy returns sqrt(|p|² + m²), the energy of a particle with
// three-momentum p and mass m. NaN if the radicand is negative.
func (p ThreeMomentum) Energy(mass float64) float64 {
	return math.Sqrt(p.Norm2() + mass*mass)
}
