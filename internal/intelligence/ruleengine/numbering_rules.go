package ruleengine

import (
	"fmt"
	"sort"

	"github.com/benzenoid/nomenclator/internal/domain/molecule"
	"github.com/benzenoid/nomenclator/internal/domain/structure"
	nomtypes "github.com/benzenoid/nomenclator/pkg/types/nomenclature"
)

func numberingRules(d Deps) []structure.Rule {
	return []structure.Rule{
		{
			ID:        "derive-substituents",
			Name:      "name the branches hanging off the parent",
			Reference: "P-29",
			Phase:     nomtypes.PhaseNumbering,
			Priority:  100,
			When: func(st *structure.NamingState) bool {
				return st.Parent != nil && st.Parent.Kind != structure.KindHeteroatom
			},
			Apply: func(st *structure.NamingState) *structure.NamingState {
				return deriveSubstituents(d, st)
			},
		},
		{
			ID:        "apply-fixed-locants",
			Name:      "pin locant 1 to the ring heteroatom",
			Reference: "P-31.1.4.2.4",
			Phase:     nomtypes.PhaseNumbering,
			Priority:  90,
			When: func(st *structure.NamingState) bool {
				p := st.Parent
				return p != nil && p.Kind == structure.KindRing && p.FixedAnchorAtom < 0 &&
					!p.Ring.Polycyclic && len(p.Ring.Heteroatoms) == 1
			},
			Apply: func(st *structure.NamingState) *structure.NamingState {
				next := st.Next()
				next.Parent.FixedAnchorAtom = next.Parent.Ring.Heteroatoms[0]
				return next
			},
		},
		{
			ID:        "optimize-locants",
			Name:      "choose the lowest-locant numbering scheme",
			Reference: "P-31.1",
			Phase:     nomtypes.PhaseNumbering,
			Priority:  80,
			When:      func(st *structure.NamingState) bool { return st.Parent != nil },
			Apply: func(st *structure.NamingState) *structure.NamingState {
				next := st.Next()
				a, err := d.Optimizer.Optimize(next)
				if err != nil {
					next.AddConflict(nomtypes.Conflict{
						Type:    nomtypes.ConflictRuleConflict,
						Phase:   st.Phase,
						Message: "numbering failed: " + err.Error(),
						Penalty: 0.2,
					})
					return next
				}

				next.Parent.AtomLocant = a.AtomLocant
				next.Parent.Locants = a.Locants
				next.SchemesSearched = a.Schemes

				for i := range next.Groups {
					next.Groups[i].Locants = resolveLocants(next.Groups[i].ParentAtoms, a.AtomLocant)
				}
				for i := range next.Parent.Substituents {
					next.Parent.Substituents[i].Locants = resolveLocants(next.Parent.Substituents[i].AttachAtoms, a.AtomLocant)
				}

				if a.Tied {
					next.AddConflict(nomtypes.Conflict{
						Type:    nomtypes.ConflictLocantAmbiguity,
						Phase:   st.Phase,
						Message: "multiple numbering schemes scored equal; first kept",
					})
				}
				return next
			},
		},
		{
			ID:       "verify-numbering",
			Name:     "check locants form a permutation and every feature resolved",
			Phase:    nomtypes.PhaseNumbering,
			Priority: 10,
			When: func(st *structure.NamingState) bool {
				return st.Parent != nil && st.Parent.AtomLocant != nil
			},
			Apply: func(st *structure.NamingState) *structure.NamingState {
				if msg := numberingDefect(st); msg != "" {
					next := st.Next()
					next.AddConflict(nomtypes.Conflict{
						Type:    nomtypes.ConflictRuleConflict,
						Phase:   st.Phase,
						Message: msg,
						Penalty: 0.15,
					})
					return next
				}
				return st
			},
		},
	}
}

func resolveLocants(atoms []int, atomLocant map[int]int) []int {
	var out []int
	for _, id := range atoms {
		if loc, ok := atomLocant[id]; ok {
			out = append(out, loc)
		}
	}
	sort.Ints(out)
	return out
}

// numberingDefect returns a description of the first inconsistency found, or
// empty when the numbering is sound.
func numberingDefect(st *structure.NamingState) string {
	p := st.Parent
	n := p.PositionCount()
	seen := make(map[int]bool, n)
	for _, loc := range p.AtomLocant {
		if loc < 1 || loc > n {
			return "locant outside the parent range"
		}
		if seen[loc] {
			return "duplicate locant assignment"
		}
		seen[loc] = true
	}
	if len(p.AtomLocant) != n && p.Kind != structure.KindHeteroatom {
		return "not every parent position received a locant"
	}

	for _, g := range st.Groups {
		if len(g.Locants) != len(g.ParentAtoms) {
			return "group anchored outside the parent structure"
		}
	}
	for _, s := range p.Substituents {
		if len(s.Locants) != len(s.AttachAtoms) {
			return "substituent attached outside the parent structure"
		}
	}
	return ""
}

// ─── substituent derivation ──────────────────────────────────────────────

func deriveSubstituents(d Deps, st *structure.NamingState) *structure.NamingState {
	next := st.Next()
	mol := next.Molecule

	parentSet := map[int]bool{}
	for _, id := range next.Parent.Atoms() {
		parentSet[id] = true
	}
	owned := map[int]bool{}
	for _, g := range next.Groups {
		for _, id := range g.Atoms {
			owned[id] = true
		}
	}

	var subs []structure.Substituent

	// Ethers become alkoxy substituents: the oxygen plus the carbons behind
	// it collapse into one prefix on the parent-side carbon.
	kept := next.Groups[:0]
	for _, g := range next.Groups {
		if g.IsPrincipal || g.Type != "ether" {
			kept = append(kept, g)
			continue
		}
		sub, ok := alkoxySubstituent(d, mol, parentSet, g)
		if !ok {
			kept = append(kept, g)
			continue
		}
		subs = append(subs, sub)
	}
	next.Groups = kept

	for _, pa := range next.Parent.Atoms() {
		for _, nb := range mol.Neighbors(pa) {
			if parentSet[nb] || owned[nb] {
				continue
			}
			sub, degraded, ok := nameBranch(d, mol, parentSet, owned, nb)
			if !ok {
				next.AddConflict(nomtypes.Conflict{
					Type:    nomtypes.ConflictRuleConflict,
					Phase:   st.Phase,
					Message: "branch could not be named as a substituent",
					Penalty: 0.1,
				})
				continue
			}
			if degraded {
				next.AddConflict(nomtypes.Conflict{
					Type:    nomtypes.ConflictRuleConflict,
					Phase:   st.Phase,
					Message: "branched substituent approximated by carbon count",
					Penalty: 0.1,
				})
			}
			sub.AttachAtoms = []int{pa}
			subs = append(subs, sub)
		}
	}

	if len(subs) == 0 && len(next.Groups) == len(st.Groups) && len(next.Conflicts) == len(st.Conflicts) {
		return st
	}
	next.Parent.Substituents = subs
	return next
}

// alkoxySubstituent names an ether group as <stem>oxy when its oxygen sits on
// a parent atom's branch and the far side is a plain alkyl.
func alkoxySubstituent(d Deps, mol *molecule.Molecule, parentSet map[int]bool, g structure.FunctionalGroup) (structure.Substituent, bool) {
	if len(g.Atoms) != 1 || len(g.ParentAtoms) != 1 || !parentSet[g.ParentAtoms[0]] {
		return structure.Substituent{}, false
	}
	oxygen := g.Atoms[0]

	carbons := 0
	seen := map[int]bool{oxygen: true}
	queue := []int{}
	for _, nb := range mol.Neighbors(oxygen) {
		if nb != g.ParentAtoms[0] {
			queue = append(queue, nb)
		}
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if seen[id] || parentSet[id] {
			continue
		}
		seen[id] = true
		if !mol.IsCarbon(id) {
			return structure.Substituent{}, false
		}
		carbons++
		queue = append(queue, mol.Neighbors(id)...)
	}

	stem, ok := d.Tables.AlkaneStems[carbons]
	if !ok {
		return structure.Substituent{}, false
	}
	return structure.Substituent{
		Name:        stem + "oxy",
		AttachAtoms: []int{g.ParentAtoms[0]},
	}, true
}

// nameBranch names the branch entered at atom start.  degraded is set when
// the branch was approximated rather than named exactly.
func nameBranch(d Deps, mol *molecule.Molecule, parentSet, owned map[int]bool, start int) (structure.Substituent, bool, bool) {
	a := mol.Atom(start)

	if name, ok := d.Tables.HalogenPrefixes[a.Element]; ok {
		return structure.Substituent{Name: name}, false, true
	}

	branch := collectBranch(mol, parentSet, owned, start)
	for _, id := range branch {
		if !mol.IsCarbon(id) {
			return structure.Substituent{}, false, false
		}
	}

	if a.InRing {
		return nameRingBranch(d, mol, branch)
	}
	return nameAlkylBranch(d, mol, branch, start)
}

func collectBranch(mol *molecule.Molecule, parentSet, owned map[int]bool, start int) []int {
	var branch []int
	seen := map[int]bool{}
	queue := []int{start}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if seen[id] || parentSet[id] || owned[id] {
			continue
		}
		seen[id] = true
		branch = append(branch, id)
		queue = append(queue, mol.Neighbors(id)...)
	}
	sort.Ints(branch)
	return branch
}

// nameRingBranch handles whole-ring substituents: phenyl and cycloalkyl.
func nameRingBranch(d Deps, mol *molecule.Molecule, branch []int) (structure.Substituent, bool, bool) {
	aromatic := true
	for _, id := range branch {
		a := mol.Atom(id)
		if !a.InRing {
			return structure.Substituent{}, false, false
		}
		if !a.Aromatic {
			aromatic = false
		}
	}
	if aromatic {
		if len(branch) == 6 {
			return structure.Substituent{Name: "phenyl"}, false, true
		}
		return structure.Substituent{}, false, false
	}
	stem, ok := d.Tables.AlkaneStems[len(branch)]
	if !ok {
		return structure.Substituent{}, false, false
	}
	return structure.Substituent{Name: "cyclo" + stem + "yl"}, false, true
}

// nameAlkylBranch names an acyclic carbon branch: unbranched chains attached
// at a terminus give plain alkyls, mid-chain attachment gives the compound
// alkan-k-yl form, anything bushier is approximated by carbon count.
func nameAlkylBranch(d Deps, mol *molecule.Molecule, branch []int, start int) (structure.Substituent, bool, bool) {
	stem, ok := d.Tables.AlkaneStems[len(branch)]
	if !ok {
		return structure.Substituent{}, false, false
	}

	inBranch := map[int]bool{}
	for _, id := range branch {
		inBranch[id] = true
	}
	linear := true
	ends := []int{}
	for _, id := range branch {
		deg := 0
		for _, nb := range mol.Neighbors(id) {
			if inBranch[nb] {
				deg++
			}
		}
		if deg > 2 {
			linear = false
		}
		if deg <= 1 {
			ends = append(ends, id)
		}
	}
	if !linear {
		return structure.Substituent{Name: stem + "yl"}, true, true
	}
	if len(branch) == 1 || start == ends[0] || (len(ends) > 1 && start == ends[1]) {
		return structure.Substituent{Name: stem + "yl"}, false, true
	}

	// Attached mid-chain: find the attachment position, numbering from the
	// end that gives it the lower locant.
	pos := branchPosition(mol, inBranch, ends[0], start)
	if mirror := len(branch) + 1 - pos; mirror < pos {
		pos = mirror
	}
	return structure.Substituent{
		Name:     fmt.Sprintf("%san-%d-yl", stem, pos),
		Compound: true,
	}, false, true
}

// branchPosition walks the linear branch from one end and returns the 1-based
// position of target.
func branchPosition(mol *molecule.Molecule, inBranch map[int]bool, end, target int) int {
	pos := 1
	prev, cur := -1, end
	for cur != target {
		next := -1
		for _, nb := range mol.Neighbors(cur) {
			if inBranch[nb] && nb != prev {
				next = nb
				break
			}
		}
		if next < 0 {
			break
		}
		prev, cur = cur, next
		pos++
	}
	return pos
}
