package fit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/welschma/InclusiveKinematicFit/fit"
	"github.com/welschma/InclusiveKinematicFit/funclib"
)

const muonMass = 0.1056583745

// exactEvent builds momenta satisfying exact conservation against the
// returned beam: both B mesons carry the average B mass and opposite
// three-momenta in the beam rest frame.
func exactEvent() (tag, xsys funclib.FourMomentum, lep, nu funclib.ThreeMomentum, beam funclib.FourMomentum) {
	pTag := funclib.ThreeMomentum{0.1, 0.05, -0.2}
	eTag := pTag.Energy(funclib.AvgBMass)

	lep = funclib.ThreeMomentum{0.3, -0.2, 0.4}
	eLep := lep.Energy(muonMass)

	nu = funclib.ThreeMomentum{-0.1, 0.25, -0.15}
	eNu := nu.Energy(0)

	pX := funclib.ThreeMomentum{
		-pTag[0] - lep[0] - nu[0],
		-pTag[1] - lep[1] - nu[1],
		-pTag[2] - lep[2] - nu[2],
	}
	eX := eTag - eLep - eNu

	tag = funclib.FourMomentum{pTag[0], pTag[1], pTag[2], eTag}
	xsys = funclib.FourMomentum{pX[0], pX[1], pX[2], eX}
	beam = funclib.FourMomentum{0, 0, 0, 2 * eTag}

	return tag, xsys, lep, nu, beam
}

// diagSym builds a diagonal symmetric matrix with the given variances.
func diagSym(vars ...float64) *mat.SymDense {
	m := mat.NewSymDense(len(vars), nil)
	for i, v := range vars {
		m.SetSym(i, i, v)
	}

	return m
}

// exactRecords wraps the exact event into measurement records with
// well-conditioned diagonal covariances.
func exactRecords() (fit.MassiveParticleInfo, fit.MassConstrainedParticleInfo, fit.MassiveParticleInfo, fit.MasslessParticleInfo, funclib.FourMomentum) {
	tag, xsys, lep, nu, beam := exactEvent()

	tagInfo := fit.MassiveParticleInfo{
		Covariance:   diagSym(0.0025, 0.0025, 0.0025, 0.0025),
		FourMomentum: tag,
	}
	lepInfo := fit.MassConstrainedParticleInfo{
		Covariance:    diagSym(0.0025, 0.0025, 0.0025),
		ThreeMomentum: lep,
		Mass:          muonMass,
	}
	xInfo := fit.MassiveParticleInfo{
		Covariance:   diagSym(0.0025, 0.0025, 0.0025, 0.0025),
		FourMomentum: xsys,
	}
	missInfo := fit.MasslessParticleInfo{ThreeMomentum: nu}

	return tagInfo, lepInfo, xInfo, missInfo, beam
}

// TestNewCostFunction_SingularCovariance fails fast with the matrix and
// its eigenvalues in the message.
func TestNewCostFunction_SingularCovariance(t *testing.T) {
	tagInfo, lepInfo, xInfo, missInfo, beam := exactRecords()
	tagInfo.Covariance = mat.NewSymDense(4, nil) // all zero, singular

	_, err := fit.NewCostFunction(tagInfo, lepInfo, xInfo, missInfo, beam, fit.PinBothMasses)
	require.ErrorIs(t, err, fit.ErrSingularCovariance, "singular covariance is a configuration error")
	assert.Contains(t, err.Error(), "eigenvalues", "diagnostic must surface the eigenvalues")
	assert.Contains(t, err.Error(), "tag side", "diagnostic must name the record")
}

// TestNewCostFunction_CovarianceShape rejects nil and mis-sized
// covariances.
func TestNewCostFunction_CovarianceShape(t *testing.T) {
	tagInfo, lepInfo, xInfo, missInfo, beam := exactRecords()

	broken := tagInfo
	broken.Covariance = nil
	_, err := fit.NewCostFunction(broken, lepInfo, xInfo, missInfo, beam, fit.PinBothMasses)
	assert.ErrorIs(t, err, fit.ErrNilCovariance, "nil covariance must error")

	broken = tagInfo
	broken.Covariance = diagSym(1, 1, 1) // 3×3 where 4×4 is required
	_, err = fit.NewCostFunction(broken, lepInfo, xInfo, missInfo, beam, fit.PinBothMasses)
	assert.ErrorIs(t, err, fit.ErrCovarianceDim, "wrong covariance dimension must error")
}

// TestNewCostFunction_UnknownPolicy rejects policies outside the enum.
func TestNewCostFunction_UnknownPolicy(t *testing.T) {
	tagInfo, lepInfo, xInfo, missInfo, beam := exactRecords()

	_, err := fit.NewCostFunction(tagInfo, lepInfo, xInfo, missInfo, beam, fit.MassConstraintPolicy(7))
	assert.ErrorIs(t, err, fit.ErrUnknownPolicy, "policy must be one of the two variants")
}

// TestInitialParams_Layout verifies the concatenation order matches the
// funclib parameter-vector layout.
func TestInitialParams_Layout(t *testing.T) {
	tagInfo, lepInfo, xInfo, missInfo, beam := exactRecords()

	cf, err := fit.NewCostFunction(tagInfo, lepInfo, xInfo, missInfo, beam, fit.PinBothMasses)
	require.NoError(t, err)

	params, err := cf.InitialParams()
	require.NoError(t, err, "well-formed records must assemble")
	require.Len(t, params, funclib.NumParams, "always exactly 14 parameters")

	assert.Equal(t, tagInfo.FourMomentum[:], params[0:4], "tag-side slice")
	assert.Equal(t, xInfo.FourMomentum[:], params[4:8], "X-system slice")
	assert.Equal(t, lepInfo.ThreeMomentum[:], params[8:11], "lepton slice")
	assert.Equal(t, missInfo.ThreeMomentum[:], params[11:14], "neutrino seed slice")
}

// TestConstraints_PerPolicy checks the constraint lists of both
// policies and that every residual behaves on the exact event.
func TestConstraints_PerPolicy(t *testing.T) {
	tagInfo, lepInfo, xInfo, missInfo, beam := exactRecords()

	pinned, err := fit.NewCostFunction(tagInfo, lepInfo, xInfo, missInfo, beam, fit.PinBothMasses)
	require.NoError(t, err)
	positive, err := fit.NewCostFunction(tagInfo, lepInfo, xInfo, missInfo, beam, fit.PositiveXMass)
	require.NoError(t, err)

	pinnedCons := pinned.Constraints()
	require.Len(t, pinnedCons, 7, "conservation + equal-mass + two pins")
	for _, con := range pinnedCons {
		assert.Equal(t, fit.Equality, con.Kind, "pinned policy is all-equality (%s)", con.Name)
	}
	assert.Equal(t, "tag-mass", pinnedCons[5].Name, "pin order after the shared block")
	assert.Equal(t, "signal-mass", pinnedCons[6].Name, "pin order after the shared block")

	positiveCons := positive.Constraints()
	require.Len(t, positiveCons, 6, "conservation + equal-mass + positivity")
	last := positiveCons[5]
	assert.Equal(t, "x-mass-squared", last.Name, "positivity constraint present")
	assert.Equal(t, fit.Inequality, last.Kind, "positivity is an inequality")

	// On the exact event every equality vanishes and the inequality is
	// comfortably positive.
	x, err := pinned.InitialParams()
	require.NoError(t, err)
	for _, con := range pinnedCons {
		assert.InDelta(t, 0, con.Fn(x), 1e-9, "equality %q on the exact event", con.Name)
	}
	assert.Greater(t, last.Fn(x), 0.0, "X-system mass squared is physical")
}

// TestEvaluate_ChiSquare verifies the objective at and near the
// measured point.
func TestEvaluate_ChiSquare(t *testing.T) {
	tagInfo, lepInfo, xInfo, missInfo, beam := exactRecords()

	cf, err := fit.NewCostFunction(tagInfo, lepInfo, xInfo, missInfo, beam, fit.PositiveXMass)
	require.NoError(t, err)

	x, err := cf.InitialParams()
	require.NoError(t, err)
	assert.InDelta(t, 0, cf.Evaluate(x), 1e-12, "chi-square vanishes at the measured point")

	// Shift tag-side px by 0.2: with variance 0.0025 the inverse weight
	// is 400, so chi² = 400·0.04 = 16.
	x[0] += 0.2
	assert.InDelta(t, 16.0, cf.Evaluate(x), 1e-9, "single-component quadratic form")
}

// TestSetSolverSettings_Validation rejects unknown keys and wrong types
// without touching the current settings.
func TestSetSolverSettings_Validation(t *testing.T) {
	tagInfo, lepInfo, xInfo, missInfo, beam := exactRecords()

	cf, err := fit.NewCostFunction(tagInfo, lepInfo, xInfo, missInfo, beam, fit.PositiveXMass)
	require.NoError(t, err)
	before := cf.Settings()

	err = cf.SetSolverSettings(map[string]any{"bogus": 1.0})
	assert.ErrorIs(t, err, fit.ErrUnknownSetting, "unknown key must be rejected")
	assert.Equal(t, before, cf.Settings(), "failed validation must not change settings")

	err = cf.SetSolverSettings(map[string]any{"max-iterations": 1.5})
	assert.ErrorIs(t, err, fit.ErrSettingType, "non-integer iteration cap must be rejected")
	assert.Equal(t, before, cf.Settings(), "failed validation must not change settings")

	err = cf.SetSolverSettings(map[string]any{
		"tolerance":      1e-9,
		"max-iterations": 200,
		"verbose":        true,
	})
	require.NoError(t, err, "schema-conforming map must apply")
	assert.Equal(t, 1e-9, cf.Settings().Tolerance, "tolerance applied")
	assert.Equal(t, 200, cf.Settings().MaxIterations, "iteration cap applied")
	assert.True(t, cf.Settings().Verbose, "verbose applied")
	assert.Equal(t, before.PerturbationEpsilon, cf.Settings().PerturbationEpsilon,
		"unspecified keys keep their previous values")
}
