package locant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benzenoid/nomenclator/internal/domain/molecule"
	"github.com/benzenoid/nomenclator/internal/domain/structure"
	"github.com/benzenoid/nomenclator/pkg/errors"
)

func chainState(atoms []int) *structure.NamingState {
	return &structure.NamingState{
		Parent: &structure.ParentStructure{
			Kind:            structure.KindChain,
			Chain:           &structure.Chain{Atoms: atoms},
			FixedAnchorAtom: -1,
		},
	}
}

func ringState(atoms []int, hetero []int) *structure.NamingState {
	return &structure.NamingState{
		Parent: &structure.ParentStructure{
			Kind: structure.KindRing,
			Ring: &structure.RingSystem{
				Atoms:       atoms,
				Size:        len(atoms),
				Heteroatoms: hetero,
			},
			FixedAnchorAtom: -1,
		},
	}
}

func TestOptimize_NoParent(t *testing.T) {
	_, err := NewOptimizer(nil).Optimize(&structure.NamingState{})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNamingPrecondition))
}

func TestOptimize_PrincipalGroupLowest(t *testing.T) {
	// Ketone anchored at the second chain atom: forward numbering gives it
	// locant 2, reverse gives 3, forward must win.
	st := chainState([]int{0, 1, 3, 4})
	st.Groups = []structure.FunctionalGroup{
		{Type: "ketone", Suffix: "one", IsPrincipal: true, ParentAtoms: []int{1}},
	}

	a, err := NewOptimizer(nil).Optimize(st)
	require.NoError(t, err)
	assert.Equal(t, 2, a.AtomLocant[1])
	assert.Equal(t, []int{1, 2, 3, 4}, a.Locants)
	assert.Equal(t, 2, a.Schemes)
	assert.False(t, a.Tied)
}

func TestOptimize_CitationOrderBreaksTie(t *testing.T) {
	// Chloro and methyl on inner positions of a four-carbon chain: the locant
	// multiset {2,3} is direction-independent, so the first-cited prefix
	// (chloro, alphabetically) takes the lower locant.
	st := chainState([]int{10, 11, 12, 13})
	st.Parent.Substituents = []structure.Substituent{
		{Name: "chloro", AttachAtoms: []int{11}},
		{Name: "methyl", AttachAtoms: []int{12}},
	}

	a, err := NewOptimizer(nil).Optimize(st)
	require.NoError(t, err)
	assert.Equal(t, 2, a.AtomLocant[11])
	assert.Equal(t, 3, a.AtomLocant[12])
	assert.False(t, a.Tied)
}

func TestOptimize_SymmetrySwapIsNotATie(t *testing.T) {
	// 2,3-dimethylbutane: both directions give identical feature placements.
	st := chainState([]int{0, 1, 2, 3})
	st.Parent.Substituents = []structure.Substituent{
		{Name: "methyl", AttachAtoms: []int{1}},
		{Name: "methyl", AttachAtoms: []int{2}},
	}

	a, err := NewOptimizer(nil).Optimize(st)
	require.NoError(t, err)
	assert.False(t, a.Tied)
}

func TestOptimize_UnsaturationTieReported(t *testing.T) {
	// A double bond and a triple bond mirror-placed on the chain tie through
	// every comparison tier but name different structures: keep the first
	// scheme and report the ambiguity.
	st := chainState([]int{0, 1, 2, 3, 4})
	st.Parent.Chain.MultipleBonds = []structure.MultipleBond{
		{Position: 1, Order: molecule.Double},
		{Position: 4, Order: molecule.Triple},
	}

	a, err := NewOptimizer(nil).Optimize(st)
	require.NoError(t, err)
	assert.True(t, a.Tied)
	assert.Equal(t, 1, a.AtomLocant[0])
}

func TestOptimize_RingHeteroatomFirst(t *testing.T) {
	// Oxane-style ring: the heteroatom outranks everything and lands on 1.
	st := ringState([]int{0, 1, 2, 3, 4, 5}, []int{3})

	a, err := NewOptimizer(nil).Optimize(st)
	require.NoError(t, err)
	assert.Equal(t, 1, a.AtomLocant[3])
	assert.Equal(t, 12, a.Schemes)
}

func TestOptimize_FixedAnchorPinsStart(t *testing.T) {
	st := ringState([]int{0, 1, 2, 3, 4, 5}, nil)
	st.Parent.FixedAnchorAtom = 2

	a, err := NewOptimizer(nil).Optimize(st)
	require.NoError(t, err)
	assert.Equal(t, 1, a.AtomLocant[2])
	assert.Equal(t, 2, a.Schemes)
}

func TestOptimize_RingSubstituentLowest(t *testing.T) {
	st := ringState([]int{0, 1, 2, 3, 4, 5}, nil)
	st.Parent.Substituents = []structure.Substituent{
		{Name: "methyl", AttachAtoms: []int{4}},
	}

	a, err := NewOptimizer(nil).Optimize(st)
	require.NoError(t, err)
	assert.Equal(t, 1, a.AtomLocant[4])
	assert.False(t, a.Tied)
}

func TestOptimize_PolycyclicTwoSchemes(t *testing.T) {
	st := ringState([]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, nil)
	st.Parent.Ring.Polycyclic = true

	a, err := NewOptimizer(nil).Optimize(st)
	require.NoError(t, err)
	assert.Equal(t, 2, a.Schemes)
	assert.Len(t, a.AtomLocant, 10)
}

func TestOptimize_SingleAtomTrivial(t *testing.T) {
	st := chainState([]int{7})
	a, err := NewOptimizer(nil).Optimize(st)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, a.Locants)
	assert.Equal(t, 1, a.AtomLocant[7])
}
