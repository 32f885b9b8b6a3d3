package groups

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benzenoid/nomenclator/internal/domain/molecule"
	"github.com/benzenoid/nomenclator/internal/domain/structure"
	"github.com/benzenoid/nomenclator/pkg/errors"
)

func mustParse(t *testing.T, smiles string) *molecule.Molecule {
	t.Helper()
	m, err := molecule.ParseSMILES(smiles)
	require.NoError(t, err)
	return m
}

func detect(t *testing.T, smiles string) []structure.FunctionalGroup {
	t.Helper()
	out, err := NewDetector(nil).Detect(mustParse(t, smiles), structure.DefaultTables())
	require.NoError(t, err)
	return out
}

func groupTypes(gs []structure.FunctionalGroup) []string {
	types := make([]string, len(gs))
	for i, g := range gs {
		types[i] = g.Type
	}
	return types
}

func TestDetect_SingleGroups(t *testing.T) {
	tests := []struct {
		name   string
		smiles string
		want   []string
	}{
		{"ethanol", "CCO", []string{"alcohol"}},
		{"butanone", "CC(=O)CC", []string{"ketone"}},
		{"propanal", "CCC=O", []string{"aldehyde"}},
		{"acetonitrile", "CC#N", []string{"nitrile"}},
		{"ethylamine", "CCN", []string{"amine"}},
		{"propane", "CCC", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, groupTypes(detect(t, tt.smiles)))
		})
	}
}

func TestDetect_SeniorSuppressesJunior(t *testing.T) {
	// The acid's hydroxyl and carbonyl must not surface as alcohol or ketone.
	assert.Equal(t, []string{"carboxylic_acid"}, groupTypes(detect(t, "CC(=O)O")))

	// Ester owns its bridging oxygen, so no ether match survives.
	assert.Equal(t, []string{"ester"}, groupTypes(detect(t, "CC(=O)OC")))

	// Amide nitrogen is not an amine.
	assert.Equal(t, []string{"amide"}, groupTypes(detect(t, "CC(=O)N")))
}

func TestDetect_DisjointInstancesSurvive(t *testing.T) {
	gs := detect(t, "OCCO")
	require.Equal(t, []string{"alcohol", "alcohol"}, groupTypes(gs))
	assert.NotEqual(t, gs[0].ParentAtoms, gs[1].ParentAtoms)
	for _, g := range gs {
		assert.Equal(t, 1, g.Multiplicity)
	}
}

func TestDetect_UnownedContextAtomsStayFree(t *testing.T) {
	// 3-hydroxybutan-2-one: the alcohol carbon flanks the carbonyl, but the
	// ketone does not own its flanking carbons, so both groups are reported.
	gs := detect(t, "CC(=O)C(O)C")
	assert.Equal(t, []string{"ketone", "alcohol"}, groupTypes(gs))
}

func TestDetect_RingHeteroatomsNotGroups(t *testing.T) {
	// Pyrrolidine's nitrogen and oxolane's oxygen belong to the ring name.
	assert.Empty(t, detect(t, "C1CCNC1"))
	assert.Empty(t, detect(t, "C1CCOC1"))

	// An exocyclic hydroxyl on a ring is still an alcohol.
	assert.Equal(t, []string{"alcohol"}, groupTypes(detect(t, "OC1CCCCC1")))
}

func TestDetect_SymmetricEtherOnce(t *testing.T) {
	gs := detect(t, "CCOCC")
	require.Len(t, gs, 1)
	assert.Equal(t, "ether", gs[0].Type)
	// The shared oxygen is the owned atom.
	require.Len(t, gs[0].Atoms, 1)
}

func TestDetect_AnchorCarriesLocantAtom(t *testing.T) {
	m := mustParse(t, "CC(=O)CC")
	gs, err := NewDetector(nil).Detect(m, structure.DefaultTables())
	require.NoError(t, err)
	require.Len(t, gs, 1)
	require.Len(t, gs[0].ParentAtoms, 1)
	assert.Equal(t, "C", m.Atom(gs[0].ParentAtoms[0]).Element)
	order, ok := m.BondOrderBetween(gs[0].ParentAtoms[0], gs[0].Atoms[1])
	assert.True(t, ok)
	assert.Equal(t, molecule.Double, order)
}

func TestDetect_UnknownPatternRef(t *testing.T) {
	tables := structure.DefaultTables()
	tables.Groups[0].PatternRef = "no_such_pattern"
	_, err := NewDetector(nil).Detect(mustParse(t, "CC(=O)O"), tables)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNamingTableInvalid))
}

func TestDetect_Deterministic(t *testing.T) {
	a := detect(t, "OC(C(=O)O)CC(=O)O")
	b := detect(t, "OC(C(=O)O)CC(=O)O")
	assert.Equal(t, a, b)
}
