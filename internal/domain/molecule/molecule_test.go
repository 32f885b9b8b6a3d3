package molecule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benzenoid/nomenclator/pkg/errors"
)

func TestNew_Validation(t *testing.T) {
	_, err := New(nil, nil, nil)
	assert.True(t, errors.IsCode(err, errors.CodeMoleculeEmpty))

	atoms := []Atom{{Element: "C"}, {Element: "C"}}

	_, err = New(atoms, []Bond{{From: 0, To: 5}}, nil)
	assert.True(t, errors.IsCode(err, errors.CodeBondAtomOutOfRange))

	_, err = New(atoms, []Bond{{From: 0, To: 0}}, nil)
	assert.True(t, errors.IsCode(err, errors.CodeBondAtomOutOfRange))

	_, err = New(atoms, []Bond{{From: 0, To: 1}, {From: 1, To: 0}}, nil)
	assert.True(t, errors.IsCode(err, errors.CodeDuplicateBond))

	_, err = New([]Atom{{Element: "Xq"}}, nil, nil)
	assert.True(t, errors.IsCode(err, errors.CodeUnknownElement))

	_, err = New(atoms, []Bond{{From: 0, To: 1}}, [][]int{{0, 9}})
	assert.True(t, errors.IsCode(err, errors.CodeBondAtomOutOfRange))
}

func TestNew_DefaultsAndAdjacency(t *testing.T) {
	atoms := []Atom{{Element: "C"}, {Element: "O"}, {Element: "C"}}
	bonds := []Bond{{From: 2, To: 1}, {From: 0, To: 1}} // order 0 defaults to single

	m, err := New(atoms, bonds, nil)
	require.NoError(t, err)

	assert.Equal(t, []int{1}, m.Neighbors(0))
	assert.Equal(t, []int{0, 2}, m.Neighbors(1))
	order, ok := m.BondOrderBetween(1, 2)
	require.True(t, ok)
	assert.Equal(t, Single, order)
	assert.Equal(t, 2, m.CarbonCount())
	assert.Equal(t, []int{1}, m.Heteroatoms())
}

func TestAccessors_ReturnCopies(t *testing.T) {
	m, err := ParseSMILES("C1CCCCC1")
	require.NoError(t, err)

	atoms := m.Atoms()
	atoms[0].Element = "N"
	assert.Equal(t, "C", m.Atom(0).Element)

	rings := m.Rings()
	rings[0][0] = 99
	assert.Equal(t, 0, m.Rings()[0][0])

	nb := m.Neighbors(0)
	nb[0] = 99
	assert.NotEqual(t, 99, m.Neighbors(0)[0])
}

func TestPerceiveRings_Fused(t *testing.T) {
	// Decalin: two fused cyclohexanes.
	m, err := ParseSMILES("C1CCC2CCCCC2C1")
	require.NoError(t, err)
	rings := m.Rings()
	require.Len(t, rings, 2)
	assert.Len(t, rings[0], 6)
	assert.Len(t, rings[1], 6)
}

func TestAtomRef(t *testing.T) {
	r := RefByID(3)
	assert.True(t, r.Resolved())
	assert.Equal(t, 3, r.ID())
	assert.Nil(t, r.Inline())

	inline := RefInline(Atom{Element: "N"})
	assert.False(t, inline.Resolved())
	assert.Equal(t, -1, inline.ID())
	require.NotNil(t, inline.Inline())
	assert.Equal(t, "N", inline.Inline().Element)

	m, err := ParseSMILES("CCO")
	require.NoError(t, err)
	assert.Equal(t, 2, m.ResolveRef(RefByID(2)))
	assert.Equal(t, -1, m.ResolveRef(RefByID(9)))
	assert.Equal(t, -1, m.ResolveRef(inline))
}
