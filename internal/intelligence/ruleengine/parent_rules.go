package ruleengine

import (
	"fmt"
	"sort"

	"github.com/benzenoid/nomenclator/internal/domain/molecule"
	"github.com/benzenoid/nomenclator/internal/domain/structure"
	nomtypes "github.com/benzenoid/nomenclator/pkg/types/nomenclature"
)

// parentRules selects the parent structure: candidate derivation, group
// detection, principal-group selection, then parent seniority in descending
// priority order so each selection rule sees the previous ones' work.
func parentRules(d Deps) []structure.Rule {
	return []structure.Rule{
		{
			ID:       "generate-candidates",
			Name:     "derive candidate chains and ring systems",
			Phase:    nomtypes.PhaseParentStructure,
			Priority: 100,
			When:     func(st *structure.NamingState) bool { return st.Molecule != nil },
			Apply: func(st *structure.NamingState) *structure.NamingState {
				next := st.Next()
				next.CandidateChains = d.Generator.Chains(st.Molecule)
				next.CandidateRings = d.Generator.RingSystems(st.Molecule)
				if len(next.CandidateChains) == 0 && len(next.CandidateRings) == 0 {
					return st
				}
				return next
			},
		},
		{
			ID:        "detect-functional-groups",
			Name:      "match the characteristic-group catalogue",
			Reference: "P-34",
			Phase:     nomtypes.PhaseParentStructure,
			Priority:  90,
			When:      func(st *structure.NamingState) bool { return st.Molecule != nil },
			Apply: func(st *structure.NamingState) *structure.NamingState {
				gs, err := d.Detector.Detect(st.Molecule, d.Tables)
				if err != nil {
					next := st.Next()
					next.AddConflict(nomtypes.Conflict{
						Type:    nomtypes.ConflictRuleConflict,
						Phase:   st.Phase,
						Message: "group detection failed: " + err.Error(),
						Penalty: 0.2,
					})
					return next
				}
				if len(gs) == 0 {
					return st
				}
				next := st.Next()
				next.Groups = gs
				return next
			},
		},
		{
			ID:        "select-principal-group",
			Name:      "choose and aggregate the principal characteristic group",
			Reference: "P-41",
			Phase:     nomtypes.PhaseParentStructure,
			Priority:  80,
			When:      func(st *structure.NamingState) bool { return len(st.Groups) > 0 },
			Apply: func(st *structure.NamingState) *structure.NamingState {
				next := st.Next()
				structure.SortGroups(next.Groups)

				idx := -1
				for i, g := range next.Groups {
					if g.Suffix != "" {
						idx = i
						break
					}
				}
				if idx < 0 {
					return st
				}

				principal := next.Groups[idx]
				principal.IsPrincipal = true
				rest := make([]structure.FunctionalGroup, 0, len(next.Groups))
				for i, g := range next.Groups {
					if i == idx {
						continue
					}
					if g.Type == principal.Type {
						principal.ParentAtoms = append(principal.ParentAtoms, g.ParentAtoms...)
						principal.Atoms = append(principal.Atoms, g.Atoms...)
						principal.Multiplicity++
						continue
					}
					rest = append(rest, g)
				}
				sort.Ints(principal.ParentAtoms)
				sort.Ints(principal.Atoms)

				next.Groups = append([]structure.FunctionalGroup{principal}, rest...)
				return next
			},
		},
		{
			ID:        "select-heteroatom-parent",
			Name:      "name a mononuclear heteroatom hydride",
			Reference: "P-21.1",
			Phase:     nomtypes.PhaseParentStructure,
			Priority:  70,
			When: func(st *structure.NamingState) bool {
				return st.Parent == nil && st.Molecule.AtomCount() == 1 && !st.Molecule.IsCarbon(0)
			},
			Apply: func(st *structure.NamingState) *structure.NamingState {
				name, ok := d.Tables.HeteroHydrides[st.Molecule.Atom(0).Element]
				if !ok {
					return st
				}
				next := st.Next()
				next.Parent = &structure.ParentStructure{
					Kind:            structure.KindHeteroatom,
					BaseName:        name,
					FixedAnchorAtom: -1,
				}
				return next
			},
		},
		{
			ID:        "select-ring-parent",
			Name:      "select the senior ring system as parent",
			Reference: "P-44.2",
			Phase:     nomtypes.PhaseParentStructure,
			Priority:  60,
			When: func(st *structure.NamingState) bool {
				return st.Parent == nil && len(st.CandidateRings) > 0 && ringOutranksChain(st)
			},
			Apply: func(st *structure.NamingState) *structure.NamingState {
				next := st.Next()
				ring := pickRing(next)
				name, ok := ringBaseName(d.Tables, next.Molecule, ring)
				if !ok {
					next.AddConflict(nomtypes.Conflict{
						Type:    nomtypes.ConflictStructureNotFound,
						Phase:   st.Phase,
						Message: "ring system has no name in the vocabulary",
						Penalty: 0.3,
					})
					return next
				}
				kept := ring.Clone()
				if len(kept.MultipleBonds) > 0 && (kept.Polycyclic || len(kept.Heteroatoms) > 0) {
					// Ene/yne infixes are rendered only for carbocyclic
					// monocycles; elsewhere the saturated name stands and
					// the omission is reported.
					kept.MultipleBonds = nil
					next.AddConflict(nomtypes.Conflict{
						Type:    nomtypes.ConflictRuleConflict,
						Phase:   st.Phase,
						Message: "ring unsaturation not expressed in the parent name",
						Penalty: 0.1,
					})
				}
				next.Parent = &structure.ParentStructure{
					Kind:            structure.KindRing,
					Ring:            kept,
					BaseName:        name,
					FixedAnchorAtom: -1,
				}
				return next
			},
		},
		{
			ID:        "select-chain-parent",
			Name:      "select the principal chain as parent",
			Reference: "P-44.3",
			Phase:     nomtypes.PhaseParentStructure,
			Priority:  50,
			When: func(st *structure.NamingState) bool {
				return st.Parent == nil && len(st.CandidateChains) > 0
			},
			Apply: func(st *structure.NamingState) *structure.NamingState {
				next := st.Next()
				chain := pickChain(next)
				stem, ok := d.Tables.AlkaneStems[chain.Length()]
				if !ok {
					next.AddConflict(nomtypes.Conflict{
						Type:    nomtypes.ConflictStructureNotFound,
						Phase:   st.Phase,
						Message: "chain length exceeds the hydride stem table",
						Penalty: 0.3,
					})
					return next
				}
				next.Parent = &structure.ParentStructure{
					Kind:            structure.KindChain,
					Chain:           chain.Clone(),
					BaseName:        stem + "ane",
					FixedAnchorAtom: -1,
				}
				return next
			},
		},
		{
			ID:       "parent-structure-missing",
			Name:     "record the absence of any parent structure",
			Phase:    nomtypes.PhaseParentStructure,
			Priority: 10,
			When:     func(st *structure.NamingState) bool { return st.Parent == nil },
			Apply: func(st *structure.NamingState) *structure.NamingState {
				next := st.Next()
				next.AddConflict(nomtypes.Conflict{
					Type:    nomtypes.ConflictStructureNotFound,
					Phase:   st.Phase,
					Message: "no parent structure could be derived",
					Penalty: 0.5,
				})
				return next
			},
		},
	}
}

// ringOutranksChain implements the ring/chain seniority decision: rings win
// unless the principal group anchors on a chain and on no ring.
func ringOutranksChain(st *structure.NamingState) bool {
	principal, ok := st.PrincipalGroup()
	if !ok {
		return true
	}
	onRing, onChain := false, false
	for _, anchor := range principal.ParentAtoms {
		for _, r := range st.CandidateRings {
			if r.Contains(anchor) {
				onRing = true
			}
		}
		for _, c := range st.CandidateChains {
			if c.Contains(anchor) {
				onChain = true
			}
		}
	}
	if onRing {
		return true
	}
	return !onChain
}

// pickRing prefers the ring system carrying principal-group anchors, then the
// candidate order (largest first).
func pickRing(st *structure.NamingState) *structure.RingSystem {
	if principal, ok := st.PrincipalGroup(); ok {
		for i := range st.CandidateRings {
			for _, anchor := range principal.ParentAtoms {
				if st.CandidateRings[i].Contains(anchor) {
					return &st.CandidateRings[i]
				}
			}
		}
	}
	return &st.CandidateRings[0]
}

// pickChain scores candidates by principal anchors covered, then length, then
// unsaturation count; the first candidate wins remaining ties.
func pickChain(st *structure.NamingState) *structure.Chain {
	principal, hasPrincipal := st.PrincipalGroup()
	best, bestScore := -1, [3]int{-1, -1, -1}
	for i := range st.CandidateChains {
		c := &st.CandidateChains[i]
		anchors := 0
		if hasPrincipal {
			for _, a := range principal.ParentAtoms {
				if c.Contains(a) {
					anchors++
				}
			}
		}
		score := [3]int{anchors, c.Length(), len(c.MultipleBonds)}
		if best < 0 || scoreAbove(score, bestScore) {
			best, bestScore = i, score
		}
	}
	return &st.CandidateChains[best]
}

func scoreAbove(a, b [3]int) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] > b[i]
		}
	}
	return false
}

// ringBaseName names a ring system from the vocabulary: benzene, cycloalkanes,
// single-heteroatom heterocycles and all-carbon bicyclics.  Anything richer
// is out of vocabulary and reported by the caller.
func ringBaseName(tables *structure.Tables, mol *molecule.Molecule, ring *structure.RingSystem) (string, bool) {
	if ring.Polycyclic {
		return bicycloName(tables, mol, ring)
	}

	switch len(ring.Heteroatoms) {
	case 0:
		if ring.Aromatic {
			if ring.Size == 6 {
				return "benzene", true
			}
			return "", false
		}
		stem, ok := tables.AlkaneStems[ring.Size]
		if !ok {
			return "", false
		}
		return "cyclo" + stem + "ane", true
	case 1:
		elem := mol.Atom(ring.Heteroatoms[0]).Element
		name, ok := tables.Heterocycles[structure.HeterocycleKey(ring.Size, elem, ring.Aromatic)]
		return name, ok
	}
	return "", false
}

// bicycloName builds the von Baeyer name of an all-carbon two-bridgehead
// system: bridge sizes descending in brackets, then the hydride stem for the
// total atom count (decalin is bicyclo[4.4.0]decane).
func bicycloName(tables *structure.Tables, mol *molecule.Molecule, ring *structure.RingSystem) (string, bool) {
	inSys := map[int]bool{}
	for _, id := range ring.Atoms {
		if !mol.IsCarbon(id) {
			return "", false
		}
		inSys[id] = true
	}

	var bridgeheads []int
	for _, id := range ring.Atoms {
		deg := 0
		for _, nb := range mol.Neighbors(id) {
			if inSys[nb] {
				deg++
			}
		}
		if deg >= 3 {
			bridgeheads = append(bridgeheads, id)
		}
	}
	if len(bridgeheads) != 2 {
		return "", false
	}

	isBridgehead := map[int]bool{bridgeheads[0]: true, bridgeheads[1]: true}
	seen := map[int]bool{}
	var bridges []int
	for _, id := range ring.Atoms {
		if seen[id] || isBridgehead[id] {
			continue
		}
		size := 0
		queue := []int{id}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			if seen[cur] || isBridgehead[cur] || !inSys[cur] {
				continue
			}
			seen[cur] = true
			size++
			queue = append(queue, mol.Neighbors(cur)...)
		}
		bridges = append(bridges, size)
	}

	if len(bridges) == 2 {
		for _, nb := range mol.Neighbors(bridgeheads[0]) {
			if nb == bridgeheads[1] {
				bridges = append(bridges, 0)
			}
		}
	}
	if len(bridges) != 3 {
		return "", false
	}
	sort.Sort(sort.Reverse(sort.IntSlice(bridges)))

	stem, ok := tables.AlkaneStems[ring.Size]
	if !ok {
		return "", false
	}
	return fmt.Sprintf("bicyclo[%d.%d.%d]%sane", bridges[0], bridges[1], bridges[2], stem), true
}
