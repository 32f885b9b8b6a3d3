package ruleengine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benzenoid/nomenclator/internal/domain/molecule"
	"github.com/benzenoid/nomenclator/internal/domain/structure"
	"github.com/benzenoid/nomenclator/pkg/errors"
	nomtypes "github.com/benzenoid/nomenclator/pkg/types/nomenclature"
)

func runEngine(t *testing.T, smiles string) *nomtypes.NamingResult {
	t.Helper()
	mol, err := molecule.ParseSMILES(smiles)
	require.NoError(t, err)
	res, err := New(Deps{}).Run(context.Background(), mol)
	require.NoError(t, err)
	return res
}

func TestRun_Names(t *testing.T) {
	tests := []struct {
		smiles string
		want   string
	}{
		{"CCO", "ethanol"},
		{"CC(=O)O", "acetic acid"},
		{"CC(=O)CC", "butan-2-one"},
		{"C1CCCCC1", "cyclohexane"},
		{"c1ccccc1", "benzene"},
		{"C1CCCCC1C", "methylcyclohexane"},
		{"C1CCC(C)C1C", "1,2-dimethylcyclopentane"},
		{"C", "methane"},
		{"CCCC", "butane"},
		{"CC(C)O", "propan-2-ol"},
		{"CCC=O", "propanal"},
		{"CCCC(=O)O", "butanoic acid"},
		{"CC#N", "ethanenitrile"},
		{"CC(=O)OC", "methyl ethanoate"},
		{"CC(=O)N", "ethanamide"},
		{"CCN", "ethanamine"},
		{"CC=CC", "but-2-ene"},
		{"C=CC=C", "buta-1,3-diene"},
		{"OCCO", "ethane-1,2-diol"},
		{"CC(=O)CC(C)=O", "pentane-2,4-dione"},
		{"ClCCl", "dichloromethane"},
		{"ClC1CCCCC1", "chlorocyclohexane"},
		{"c1ccncc1", "pyridine"},
		{"C1CCOC1", "oxolane"},
		{"C1CCNC1", "pyrrolidine"},
		{"O", "oxidane"},
		{"COC", "methoxymethane"},
		{"C1CCCCC1CCO", "2-cyclohexylethanol"},
		{"CC(C)CC", "2-methylbutane"},
		{"OC1CCCCC1", "cyclohexanol"},
		{"C1=CCCCC1", "cyclohexene"},
		{"C1=CCCC1", "cyclopentene"},
		{"CC1=CCCCC1", "1-methylcyclohex-1-ene"},
		{"C1=CC=CC=C1", "cyclohexa-1,3,5-triene"},
	}
	for _, tt := range tests {
		t.Run(tt.smiles, func(t *testing.T) {
			res := runEngine(t, tt.smiles)
			assert.Equal(t, tt.want, res.Name)
			assert.InDelta(t, 1.0, res.Confidence, 1e-9)
			assert.False(t, res.Degraded())
		})
	}
}

func TestRun_Deterministic(t *testing.T) {
	a := runEngine(t, "CC(C)CC(O)CC=O")
	b := runEngine(t, "CC(C)CC(O)CC=O")
	assert.Equal(t, a, b)
}

func TestRun_AuditTrail(t *testing.T) {
	res := runEngine(t, "CCO")
	require.NotEmpty(t, res.AuditLog)

	phaseOrder := map[nomtypes.Phase]int{
		nomtypes.PhaseParentStructure: 0,
		nomtypes.PhaseNumbering:       1,
		nomtypes.PhaseAssembly:        2,
	}
	last := -1
	for i, app := range res.AuditLog {
		assert.Equal(t, i, app.Ordinal)
		assert.GreaterOrEqual(t, phaseOrder[app.Phase], last)
		last = phaseOrder[app.Phase]
	}

	ids := map[string]bool{}
	for _, app := range res.AuditLog {
		ids[app.RuleID] = true
	}
	for _, want := range []string{"generate-candidates", "select-chain-parent", "optimize-locants", "assemble-name"} {
		assert.True(t, ids[want], "missing audit entry %s", want)
	}
}

func TestRun_SchemesSearched(t *testing.T) {
	assert.Equal(t, 2, runEngine(t, "CCO").SchemesSearched)
	assert.Equal(t, 12, runEngine(t, "C1CCCCC1").SchemesSearched)
}

func TestRun_FallbackFormula(t *testing.T) {
	// A lone chlorine has no hydride entry: the result degrades to a formula
	// with a structure-not-found conflict.
	res := runEngine(t, "Cl")
	assert.Equal(t, "HCl", res.Name)
	assert.True(t, res.Degraded())
	require.NotEmpty(t, res.Conflicts)
	assert.Equal(t, nomtypes.ConflictStructureNotFound, res.Conflicts[0].Type)
	assert.InDelta(t, 0.5, res.Confidence, 1e-9)
}

func TestRun_NilMolecule(t *testing.T) {
	_, err := New(Deps{}).Run(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
}

func TestRun_HeterocycleUnsaturationPenalized(t *testing.T) {
	// 2,5-dihydrofuran: the heterocyclic parent cannot express the double
	// bond, so the saturated name carries a rule conflict instead.
	res := runEngine(t, "C1=CCOC1")
	assert.Equal(t, "oxolane", res.Name)
	assert.True(t, res.Degraded())
	require.NotEmpty(t, res.Conflicts)
	assert.Equal(t, nomtypes.ConflictRuleConflict, res.Conflicts[0].Type)
	assert.InDelta(t, 0.9, res.Confidence, 1e-9)
}

func TestRun_AuditOmitsUnchangedRules(t *testing.T) {
	// Verification rules return their input untouched on a clean molecule;
	// that leaves no trail entry, same as a predicate that never held.
	res := runEngine(t, "CCO")
	for _, app := range res.AuditLog {
		assert.NotEqual(t, "verify-numbering", app.RuleID)
		assert.NotEqual(t, "validate-name", app.RuleID)
	}
}

func TestRun_AromaticityThreshold(t *testing.T) {
	mol, err := molecule.ParseSMILES("c1ccCCc1")
	require.NoError(t, err)

	// Four of six atoms carry the aromatic flag (0.667): over the default
	// threshold, under a stricter one.
	res, err := New(Deps{}).Run(context.Background(), mol)
	require.NoError(t, err)
	assert.Equal(t, "benzene", res.Name)

	res, err = New(Deps{AromaticityThreshold: 0.7}).Run(context.Background(), mol)
	require.NoError(t, err)
	assert.Equal(t, "cyclohexane", res.Name)
}

// finalState replays the catalogue the way Run does but keeps the state, so
// tests can inspect the numbering directly.
func finalState(t *testing.T, smiles string) *structure.NamingState {
	t.Helper()
	mol, err := molecule.ParseSMILES(smiles)
	require.NoError(t, err)
	e := New(Deps{})
	st := structure.NewState(mol)
	for _, phase := range nomtypes.Phases() {
		st.Phase = phase
		for _, r := range e.rules[phase] {
			if r.When != nil && !r.When(st) {
				continue
			}
			if next := r.Apply(st); next != nil && next != st {
				st = next
			}
		}
	}
	return st
}

func TestRun_LocantsArePermutation(t *testing.T) {
	smilesSet := []string{
		"CCO", "CC(C)CC(O)CC=O", "C1CCCCC1C", "CC1=CCCCC1",
		"C1CCOC1", "CC(=O)CC", "C1CCC(C)C1C", "CC(C)CC",
	}
	for _, smiles := range smilesSet {
		t.Run(smiles, func(t *testing.T) {
			st := finalState(t, smiles)
			require.NotNil(t, st.Parent)
			n := st.Parent.PositionCount()
			require.Len(t, st.Parent.AtomLocant, n)
			seen := make([]bool, n+1)
			for atom, loc := range st.Parent.AtomLocant {
				require.GreaterOrEqual(t, loc, 1, "atom %d", atom)
				require.LessOrEqual(t, loc, n, "atom %d", atom)
				assert.False(t, seen[loc], "locant %d assigned twice", loc)
				seen[loc] = true
			}
		})
	}
}

func TestRun_CanceledContext(t *testing.T) {
	mol, err := molecule.ParseSMILES("CCO")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = New(Deps{}).Run(ctx, mol)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeTimeout))
}
