package molecule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// carbonylPattern matches C=O with the carbonyl carbon as anchor.
func carbonylPattern() Pattern {
	return Pattern{
		Name:   "carbonyl",
		Atoms:  []PatternAtom{NewPatternAtom("C"), NewPatternAtom("O")},
		Bonds:  []PatternBond{{A: 0, B: 1, Order: Double}},
		Anchor: 0,
	}
}

func TestMatch_Carbonyl(t *testing.T) {
	m, err := ParseSMILES("CC(=O)CC")
	require.NoError(t, err)

	hits, err := m.Match(carbonylPattern())
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, []int{1, 2}, hits[0])
}

func TestMatch_KetoneSymmetryDeduped(t *testing.T) {
	// Both neighbor assignments of the flanking carbons map the same atom
	// set and anchor; exactly one embedding must be reported.
	ketone := Pattern{
		Name: "ketone",
		Atoms: []PatternAtom{
			NewPatternAtom("C"),
			NewPatternAtom("O"),
			NewPatternAtom("C"),
			NewPatternAtom("C"),
		},
		Bonds: []PatternBond{
			{A: 0, B: 1, Order: Double},
			{A: 0, B: 2, Order: Single},
			{A: 0, B: 3, Order: Single},
		},
		Anchor: 0,
	}
	m, err := ParseSMILES("CC(=O)CC")
	require.NoError(t, err)

	hits, err := m.Match(ketone)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestMatch_HydrogenConstraints(t *testing.T) {
	hydroxyl := Pattern{
		Name: "hydroxyl",
		Atoms: []PatternAtom{
			{Element: "O", MinHydrogens: 1, ExactHydrogens: -1, Aromatic: MustBeFalse},
			NewPatternAtom("C"),
		},
		Bonds:  []PatternBond{{A: 0, B: 1, Order: Single}},
		Anchor: 1,
	}

	m, err := ParseSMILES("CCO")
	require.NoError(t, err)
	hits, err := m.Match(hydroxyl)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, []int{2, 1}, hits[0])

	// Ether oxygen has no hydrogen: no match.
	m, err = ParseSMILES("COC")
	require.NoError(t, err)
	hits, err = m.Match(hydroxyl)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestMatch_AromaticConstraint(t *testing.T) {
	aromaticCarbon := Pattern{
		Name:   "aromatic-carbon",
		Atoms:  []PatternAtom{{Element: "C", Aromatic: MustBeTrue, ExactHydrogens: -1}},
		Anchor: 0,
	}
	m, err := ParseSMILES("c1ccccc1")
	require.NoError(t, err)
	hits, err := m.Match(aromaticCarbon)
	require.NoError(t, err)
	assert.Len(t, hits, 6)

	m, err = ParseSMILES("C1CCCCC1")
	require.NoError(t, err)
	hits, err = m.Match(aromaticCarbon)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestMatch_InvalidPattern(t *testing.T) {
	_, err := ParseSMILES("CCO")
	require.NoError(t, err)
	m, _ := ParseSMILES("CCO")

	_, err = m.Match(Pattern{Name: "empty"})
	assert.Error(t, err)

	_, err = m.Match(Pattern{
		Name:   "bad-bond",
		Atoms:  []PatternAtom{NewPatternAtom("C")},
		Bonds:  []PatternBond{{A: 0, B: 5, Order: Single}},
		Anchor: 0,
	})
	assert.Error(t, err)
}

func TestMatch_Deterministic(t *testing.T) {
	m, err := ParseSMILES("O=CC(=O)CC=O")
	require.NoError(t, err)
	first, err := m.Match(carbonylPattern())
	require.NoError(t, err)
	second, err := m.Match(carbonylPattern())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, first, 3)
}
