package control

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/slices"

	"github.com/swinglab/pendctl/internal/state"
)

func TestRegistryContainsAllBuiltinLaws(t *testing.T) {
	// GIVEN
	expected := []string{"cascaded", "energy-swingup", "lqr", "phase-swingup", "pid"}

	// WHEN
	descriptors := Descriptors()

	// THEN sorted by name, with a schema and constructor each
	assert.Len(t, descriptors, len(expected))
	for i, descriptor := range descriptors {
		assert.Equal(t, expected[i], descriptor.Name)
		assert.NotEmpty(t, descriptor.Parameters)
		assert.NotNil(t, descriptor.New)
	}
}

func TestRegistryKinds(t *testing.T) {
	// GIVEN
	swingUps := []string{"energy-swingup", "phase-swingup"}

	for _, descriptor := range Descriptors() {
		// THEN
		if slices.Contains(swingUps, descriptor.Name) {
			assert.Equal(t, KindSwingUp, descriptor.Kind)
		} else {
			assert.Equal(t, KindStabilizing, descriptor.Kind)
		}
	}
}

func TestNewLawUnknownName(t *testing.T) {
	// WHEN
	_, err := NewLaw("fuzzy-logic", state.New(), testDt, nil)

	// THEN
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no control law registered")
}

func TestNewLawAppliesDefaults(t *testing.T) {
	// WHEN building a law without explicit params
	law, err := NewLaw("lqr", state.New(), testDt, nil)

	// THEN the declared defaults are used
	assert.NoError(t, err)
	assert.Equal(t, LqrGains{Kx: 1.0, KxDot: 1.0, Ktheta: 20.0, KthetaDot: 1.5}, law.(*lqrLaw).gains)
}
