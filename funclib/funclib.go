package funclib

import "math"

// MomentumResidualX returns the difference between the summed x-momentum
// of all four fit objects and the beam x-momentum.
func MomentumResidualX(x []float64, beam FourMomentum) float64 {
	return x[0] + x[4] + x[8] + x[11] - beam[0]
}

// MomentumResidualY returns the difference between the summed y-momentum
// of all four fit objects and the beam y-momentum.
func MomentumResidualY(x []float64, beam FourMomentum) float64 {
	return x[1] + x[5] + x[9] + x[12] - beam[1]
}

// MomentumResidualZ returns the difference between the summed z-momentum
// of all four fit objects and the beam z-momentum.
func MomentumResidualZ(x []float64, beam FourMomentum) float64 {
	return x[2] + x[6] + x[10] + x[13] - beam[2]
}

// LeptonEnergy returns the lepton energy sqrt(|p_lep|² + m_lep²) in GeV.
func LeptonEnergy(x []float64, leptonMass float64) float64 {
	return math.Sqrt(x[8]*x[8] + x[9]*x[9] + x[10]*x[10] + leptonMass*leptonMass)
}

// NeutrinoEnergy returns the neutrino energy |p_nu| in GeV.
// The neutrino is treated as massless.
func NeutrinoEnergy(x []float64) float64 {
	return math.Sqrt(x[11]*x[11] + x[12]*x[12] + x[13]*x[13])
}

// EnergyResidual returns the difference between the total energy of all
// four fit objects and the beam energy. Tag-side and X-system energies are
// free parameters; lepton and neutrino energies are recomputed from their
// three-momenta.
func EnergyResidual(x []float64, beam FourMomentum, leptonMass float64) float64 {
	return x[3] + x[7] + LeptonEnergy(x, leptonMass) + NeutrinoEnergy(x) - beam[3]
}

// TagMassSquared returns the invariant mass squared E² − |p|² of the
// tag-side B meson.
func TagMassSquared(x []float64) float64 {
	return x[3]*x[3] - (x[0]*x[0] + x[1]*x[1] + x[2]*x[2])
}

// SignalMomentumX returns the x component of the signal-side B meson
// three-momentum (X system + lepton + neutrino).
func SignalMomentumX(x []float64) float64 {
	return x[4] + x[8] + x[11]
}

// SignalMomentumY returns the y component of the signal-side B meson
// three-momentum.
func SignalMomentumY(x []float64) float64 {
	return x[5] + x[9] + x[12]
}

// SignalMomentumZ returns the z component of the signal-side B meson
// three-momentum.
func SignalMomentumZ(x []float64) float64 {
	return x[6] + x[10] + x[13]
}

// SignalMassSquared returns the invariant mass squared of the combined
// signal side (X system + lepton + neutrino).
func SignalMassSquared(x []float64, leptonMass float64) float64 {
	e := x[7] + LeptonEnergy(x, leptonMass) + NeutrinoEnergy(x)
	px := SignalMomentumX(x)
	py := SignalMomentumY(x)
	pz := SignalMomentumZ(x)

	return e*e - px*px - py*py - pz*pz
}

// EqualMassResidual returns the difference between the tag-side and
// signal-side invariant masses. Zero when both B mesons have the same
// mass; NaN when either mass squared is negative.
func EqualMassResidual(x []float64, leptonMass float64) float64 {
	return math.Sqrt(TagMassSquared(x)) - math.Sqrt(SignalMassSquared(x, leptonMass))
}

// TagMassResidual returns the difference between the tag-side invariant
// mass and the average B-meson mass.
func TagMassResidual(x []float64) float64 {
	return math.Sqrt(TagMassSquared(x)) - AvgBMass
}

// SignalMassResidual returns the difference between the signal-side
// invariant mass and the average B-meson mass.
func SignalMassResidual(x []float64, leptonMass float64) float64 {
	return math.Sqrt(SignalMassSquared(x, leptonMass)) - AvgBMass
}

// XSystemMassSquared returns the invariant mass squared E² − |p|² of the
// X system alone. Physical configurations require it to be non-negative.
func XSystemMassSquared(x []float64) float64 {
	return x[7]*x[7] - (x[4]*x[4] + x[5]*x[5] + x[6]*x[6])
}

// ChiSquare is the objective kernel of the kinematic fit: the sum of the
// three covariance-weighted quadratic forms over the measured quantities
//
//	(x_tag − tagMeas)ᵀ Σ⁻¹_tag (x_tag − tagMeas)
//	(x_X   − xMeas)ᵀ   Σ⁻¹_X   (x_X   − xMeas)
//	(x_lep − lepMeas)ᵀ Σ⁻¹_lep (x_lep − lepMeas)
//
// The neutrino is unmeasured and contributes no term. tagICov and xICov
// are flat row-major 4×4 inverse covariances, lepICov a flat row-major
// 3×3 one. The result is non-negative for positive-definite inverses.
func ChiSquare(
	x []float64,
	tagICov, lepICov, xICov []float64,
	tagMeas FourMomentum,
	lepMeas ThreeMomentum,
	xMeas FourMomentum,
) float64 {
	var rt, rx [4]float64
	var rl [3]float64

	for i := 0; i < 4; i++ {
		rt[i] = x[TagOffset+i] - tagMeas[i]
		rx[i] = x[XSystemOffset+i] - xMeas[i]
	}
	for i := 0; i < 3; i++ {
		rl[i] = x[LeptonOffset+i] - lepMeas[i]
	}

	return quadForm4(rt, tagICov) + quadForm3(rl, lepICov) + quadForm4(rx, xICov)
}

// quadForm4 computes rᵀ·M·r for a flat row-major 4×4 matrix M.
func quadForm4(r [4]float64, m []float64) float64 {
	var sum float64
	for i := 0; i < 4; i++ {
		row := m[4*i : 4*i+4]
		sum += r[i] * (row[0]*r[0] + row[1]*r[1] + row[2]*r[2] + row[3]*r[3])
	}

	return sum
}

// quadForm3 computes rᵀ·M·r for a flat row-major 3×3 matrix M.
func quadForm3(r [3]float64, m []float64) float64 {
	var sum float64
	for i := 0; i < 3; i++ {
		row := m[3*i : 3*i+3]
		sum += r[i] * (row[0]*r[0] + row[1]*r[1] + row[2]*r[2])
	}

	return sum
}
