package assembler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benzenoid/nomenclator/internal/domain/molecule"
	"github.com/benzenoid/nomenclator/internal/domain/structure"
	"github.com/benzenoid/nomenclator/pkg/errors"
)

func newAssembler() *Assembler {
	return NewAssembler(nil, structure.DefaultTables())
}

func chainParent(base string, atoms ...int) *structure.ParentStructure {
	p := &structure.ParentStructure{
		Kind:            structure.KindChain,
		Chain:           &structure.Chain{Atoms: atoms},
		BaseName:        base,
		AtomLocant:      map[int]int{},
		FixedAnchorAtom: -1,
	}
	for i, id := range atoms {
		p.AtomLocant[id] = i + 1
		p.Locants = append(p.Locants, i+1)
	}
	return p
}

func ringParent(base string, size int) *structure.ParentStructure {
	atoms := make([]int, size)
	for i := range atoms {
		atoms[i] = i
	}
	p := &structure.ParentStructure{
		Kind:            structure.KindRing,
		Ring:            &structure.RingSystem{Atoms: atoms, Size: size},
		BaseName:        base,
		AtomLocant:      map[int]int{},
		FixedAnchorAtom: -1,
	}
	for i, id := range atoms {
		p.AtomLocant[id] = i + 1
		p.Locants = append(p.Locants, i+1)
	}
	return p
}

func TestAssemble_RequiresParent(t *testing.T) {
	_, err := newAssembler().Assemble(&structure.NamingState{})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNamingPrecondition))
}

func TestAssemble_SuffixElisionAndLocant(t *testing.T) {
	st := &structure.NamingState{Parent: chainParent("butane", 0, 1, 2, 3)}
	st.Groups = []structure.FunctionalGroup{{
		Type: "ketone", Suffix: "one", IsPrincipal: true,
		Locants: []int{2}, Multiplicity: 1,
	}}
	name, err := newAssembler().Assemble(st)
	require.NoError(t, err)
	assert.Equal(t, "butan-2-one", name)
}

func TestAssemble_ShortChainOmitsLocant(t *testing.T) {
	st := &structure.NamingState{Parent: chainParent("ethane", 0, 1)}
	st.Groups = []structure.FunctionalGroup{{
		Type: "alcohol", Suffix: "ol", IsPrincipal: true,
		Locants: []int{1}, Multiplicity: 1,
	}}
	name, err := newAssembler().Assemble(st)
	require.NoError(t, err)
	assert.Equal(t, "ethanol", name)
}

func TestAssemble_RetainedAcid(t *testing.T) {
	st := &structure.NamingState{Parent: chainParent("ethane", 0, 1)}
	st.Groups = []structure.FunctionalGroup{{
		Type: "carboxylic_acid", Suffix: "oic acid", IsPrincipal: true,
		Locants: []int{1}, Multiplicity: 1, TerminalOnly: true,
	}}
	name, err := newAssembler().Assemble(st)
	require.NoError(t, err)
	assert.Equal(t, "acetic acid", name)
}

func TestAssemble_SystematicAcidBeyondRetained(t *testing.T) {
	st := &structure.NamingState{Parent: chainParent("butane", 0, 1, 2, 3)}
	st.Groups = []structure.FunctionalGroup{{
		Type: "carboxylic_acid", Suffix: "oic acid", IsPrincipal: true,
		Locants: []int{1}, Multiplicity: 1, TerminalOnly: true,
	}}
	name, err := newAssembler().Assemble(st)
	require.NoError(t, err)
	assert.Equal(t, "butanoic acid", name)
}

func TestAssemble_RetainedAcidBlockedByPrefix(t *testing.T) {
	st := &structure.NamingState{Parent: chainParent("ethane", 0, 1)}
	st.Parent.Substituents = []structure.Substituent{
		{Name: "chloro", Locants: []int{2}},
	}
	st.Groups = []structure.FunctionalGroup{{
		Type: "carboxylic_acid", Suffix: "oic acid", IsPrincipal: true,
		Locants: []int{1}, Multiplicity: 1, TerminalOnly: true,
	}}
	name, err := newAssembler().Assemble(st)
	require.NoError(t, err)
	assert.Equal(t, "2-chloroethanoic acid", name)
}

func TestAssemble_MultipliedSuffixKeepsE(t *testing.T) {
	st := &structure.NamingState{Parent: chainParent("pentane", 0, 1, 2, 3, 4)}
	st.Groups = []structure.FunctionalGroup{{
		Type: "ketone", Suffix: "one", IsPrincipal: true,
		Locants: []int{2, 4}, Multiplicity: 2,
	}}
	name, err := newAssembler().Assemble(st)
	require.NoError(t, err)
	assert.Equal(t, "pentane-2,4-dione", name)
}

func TestAssemble_DiolOnShortChainKeepsLocants(t *testing.T) {
	st := &structure.NamingState{Parent: chainParent("ethane", 0, 1)}
	st.Groups = []structure.FunctionalGroup{{
		Type: "alcohol", Suffix: "ol", IsPrincipal: true,
		Locants: []int{1, 2}, Multiplicity: 2,
	}}
	name, err := newAssembler().Assemble(st)
	require.NoError(t, err)
	assert.Equal(t, "ethane-1,2-diol", name)
}

func TestAssemble_SymmetricRingOmitsSoleLocant(t *testing.T) {
	st := &structure.NamingState{Parent: ringParent("cyclohexane", 6)}
	st.Parent.Substituents = []structure.Substituent{
		{Name: "methyl", Locants: []int{1}},
	}
	name, err := newAssembler().Assemble(st)
	require.NoError(t, err)
	assert.Equal(t, "methylcyclohexane", name)
}

func TestAssemble_TwoSubstituentsKeepLocants(t *testing.T) {
	st := &structure.NamingState{Parent: ringParent("cyclopentane", 5)}
	st.Parent.Substituents = []structure.Substituent{
		{Name: "methyl", Locants: []int{1}},
		{Name: "methyl", Locants: []int{2}},
	}
	name, err := newAssembler().Assemble(st)
	require.NoError(t, err)
	assert.Equal(t, "1,2-dimethylcyclopentane", name)
}

func TestAssemble_AlphabeticalPrefixOrder(t *testing.T) {
	st := &structure.NamingState{Parent: ringParent("cyclohexane", 6)}
	st.Parent.Substituents = []structure.Substituent{
		{Name: "methyl", Locants: []int{2}},
		{Name: "chloro", Locants: []int{1}},
	}
	name, err := newAssembler().Assemble(st)
	require.NoError(t, err)
	assert.Equal(t, "1-chloro-2-methylcyclohexane", name)
}

func TestAssemble_CompoundSubstituent(t *testing.T) {
	st := &structure.NamingState{Parent: ringParent("cyclohexane", 6)}
	st.Parent.Substituents = []structure.Substituent{
		{Name: "2-chloroethyl", Locants: []int{1, 3}, Compound: true},
	}
	name, err := newAssembler().Assemble(st)
	require.NoError(t, err)
	assert.Equal(t, "1,3-bis(2-chloroethyl)cyclohexane", name)
}

func TestAssemble_Unsaturation(t *testing.T) {
	tests := []struct {
		name  string
		base  string
		atoms []int
		bonds []structure.MultipleBond
		want  string
	}{
		{
			"interior double bond keeps locant",
			"butane", []int{0, 1, 2, 3},
			[]structure.MultipleBond{{Position: 2, Order: molecule.Double}},
			"but-2-ene",
		},
		{
			"short chain omits locant",
			"propane", []int{0, 1, 2},
			[]structure.MultipleBond{{Position: 1, Order: molecule.Double}},
			"propene",
		},
		{
			"diene inserts the a vowel",
			"butane", []int{0, 1, 2, 3},
			[]structure.MultipleBond{
				{Position: 1, Order: molecule.Double},
				{Position: 3, Order: molecule.Double},
			},
			"buta-1,3-diene",
		},
		{
			"mixed ene and yne",
			"pentane", []int{0, 1, 2, 3, 4},
			[]structure.MultipleBond{
				{Position: 1, Order: molecule.Double},
				{Position: 4, Order: molecule.Triple},
			},
			"pent-1-en-4-yne",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := chainParent(tt.base, tt.atoms...)
			p.Chain.MultipleBonds = tt.bonds
			name, err := newAssembler().Assemble(&structure.NamingState{Parent: p})
			require.NoError(t, err)
			assert.Equal(t, tt.want, name)
		})
	}
}

func TestAssemble_EsterNamesAlkylComponent(t *testing.T) {
	mol, err := molecule.ParseSMILES("CC(=O)OC")
	require.NoError(t, err)

	st := &structure.NamingState{
		Molecule: mol,
		Parent:   chainParent("ethane", 0, 1),
	}
	st.Groups = []structure.FunctionalGroup{{
		Type: "ester", Suffix: "oate", IsPrincipal: true,
		Atoms: []int{1, 2, 3}, ParentAtoms: []int{1},
		Locants: []int{2}, Multiplicity: 1, TerminalOnly: true,
	}}
	name, err := newAssembler().Assemble(st)
	require.NoError(t, err)
	assert.Equal(t, "methyl ethanoate", name)
}

func TestAssemble_BareParents(t *testing.T) {
	for _, tt := range []struct {
		parent *structure.ParentStructure
		want   string
	}{
		{chainParent("methane", 0), "methane"},
		{ringParent("benzene", 6), "benzene"},
		{ringParent("cyclohexane", 6), "cyclohexane"},
	} {
		name, err := newAssembler().Assemble(&structure.NamingState{Parent: tt.parent})
		require.NoError(t, err)
		assert.Equal(t, tt.want, name)
	}
}

func TestAssemble_RingUnsaturation(t *testing.T) {
	t.Run("lone ene omits the locant", func(t *testing.T) {
		p := ringParent("cyclohexane", 6)
		p.Ring.MultipleBonds = []structure.MultipleBond{{Position: 1, Order: molecule.Double}}
		name, err := newAssembler().Assemble(&structure.NamingState{Parent: p})
		require.NoError(t, err)
		assert.Equal(t, "cyclohexene", name)
	})

	t.Run("ene plus substituent keeps locants", func(t *testing.T) {
		p := ringParent("cyclohexane", 6)
		p.Ring.MultipleBonds = []structure.MultipleBond{{Position: 1, Order: molecule.Double}}
		p.Substituents = []structure.Substituent{{Name: "methyl", Locants: []int{1}}}
		name, err := newAssembler().Assemble(&structure.NamingState{Parent: p})
		require.NoError(t, err)
		assert.Equal(t, "1-methylcyclohex-1-ene", name)
	})

	t.Run("three enes multiply", func(t *testing.T) {
		p := ringParent("cyclohexane", 6)
		p.Ring.MultipleBonds = []structure.MultipleBond{
			{Position: 1, Order: molecule.Double},
			{Position: 3, Order: molecule.Double},
			{Position: 5, Order: molecule.Double},
		}
		name, err := newAssembler().Assemble(&structure.NamingState{Parent: p})
		require.NoError(t, err)
		assert.Equal(t, "cyclohexa-1,3,5-triene", name)
	})

	t.Run("closure bond resolves to locant one", func(t *testing.T) {
		p := ringParent("cyclopentane", 5)
		p.Ring.MultipleBonds = []structure.MultipleBond{{Position: 5, Order: molecule.Double}}
		name, err := newAssembler().Assemble(&structure.NamingState{Parent: p})
		require.NoError(t, err)
		assert.Equal(t, "cyclopentene", name)
	})
}

func TestAssemble_Idempotent(t *testing.T) {
	enol := ringParent("cyclohexane", 6)
	enol.Ring.MultipleBonds = []structure.MultipleBond{{Position: 1, Order: molecule.Double}}
	enol.Substituents = []structure.Substituent{{Name: "chloro", Locants: []int{4}}}

	diketone := &structure.NamingState{Parent: chainParent("pentane", 0, 1, 2, 3, 4)}
	diketone.Groups = []structure.FunctionalGroup{{
		Type: "ketone", Suffix: "one", IsPrincipal: true,
		Locants: []int{2, 4}, Multiplicity: 2,
	}}

	states := []*structure.NamingState{
		{Parent: enol},
		diketone,
		{Parent: ringParent("benzene", 6)},
	}
	a := newAssembler()
	for _, st := range states {
		first, err := a.Assemble(st)
		require.NoError(t, err)
		for i := 0; i < 3; i++ {
			again, err := a.Assemble(st)
			require.NoError(t, err)
			assert.Equal(t, first, again)
		}
	}
}
