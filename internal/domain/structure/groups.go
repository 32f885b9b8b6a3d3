package structure

import "sort"

// FunctionalGroup is one detected characteristic-group instance.  Seniority
// is numeric: lower Priority is more senior.  Until the NUMBERING phase,
// positions are expressed as atom identities (ParentAtoms); Locants is filled
// exactly once, by the locant optimizer.
type FunctionalGroup struct {
	// Type is the catalogue key ("carboxylic_acid", "ketone", ...).
	Type string

	// Prefix is the substituent form ("hydroxy"), Suffix the principal form
	// ("ol").  A group with an empty Suffix can never be principal.
	Prefix string
	Suffix string

	// Priority orders seniority ascending (lower = more senior).
	Priority int

	// Atoms lists every participating atom ID.
	Atoms []int

	// ParentAtoms lists the atom IDs on the parent skeleton whose positions
	// carry this group's locants.  Usually one entry; an aggregated principal
	// group (a diol) carries one per instance.
	ParentAtoms []int

	// Locants is resolved from ParentAtoms by the numbering optimizer.
	Locants []int

	// IsPrincipal marks the (single, possibly aggregated) suffix-expressed
	// group.
	IsPrincipal bool

	// Multiplicity is the number of aggregated identical instances; 1 for a
	// plain group.
	Multiplicity int

	// TerminalOnly marks groups that sit on a chain terminus by construction
	// (carboxylic acid, aldehyde, nitrile, amide) and therefore omit their
	// locant on unbranched parents.
	TerminalOnly bool
}

// Clone deep-copies the group.
func (g FunctionalGroup) Clone() FunctionalGroup {
	clone := g
	clone.Atoms = append([]int(nil), g.Atoms...)
	clone.ParentAtoms = append([]int(nil), g.ParentAtoms...)
	clone.Locants = append([]int(nil), g.Locants...)
	return clone
}

// SharesAtoms reports whether the two groups have any participating atom in
// common; the detector uses it for priority deduplication.
func (g FunctionalGroup) SharesAtoms(other FunctionalGroup) bool {
	for _, a := range g.Atoms {
		for _, b := range other.Atoms {
			if a == b {
				return true
			}
		}
	}
	return false
}

// Substituent is a prefix-expressed attachment on the parent structure.
type Substituent struct {
	// Name is the substituent's base text ("methyl", "chloro", "methoxy").
	Name string

	// AttachAtoms lists the parent atom IDs the substituent hangs from.
	AttachAtoms []int

	// Locants is resolved by the numbering optimizer, sorted ascending.
	Locants []int

	// Compound marks substituents whose text nests brackets or is itself a
	// composed name; these alphabetize by their first constituent and take
	// bis/tris multiplicative prefixes.
	Compound bool
}

// Clone deep-copies the substituent.
func (s Substituent) Clone() Substituent {
	clone := s
	clone.AttachAtoms = append([]int(nil), s.AttachAtoms...)
	clone.Locants = append([]int(nil), s.Locants...)
	return clone
}

// SortGroups orders groups ascending by priority, then by first parent atom,
// then by type, giving the detector's documented deterministic output order.
func SortGroups(groups []FunctionalGroup) {
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Priority != groups[j].Priority {
			return groups[i].Priority < groups[j].Priority
		}
		ai, aj := firstAtom(groups[i]), firstAtom(groups[j])
		if ai != aj {
			return ai < aj
		}
		return groups[i].Type < groups[j].Type
	})
}

func firstAtom(g FunctionalGroup) int {
	if len(g.ParentAtoms) > 0 {
		return g.ParentAtoms[0]
	}
	if len(g.Atoms) > 0 {
		return g.Atoms[0]
	}
	return -1
}
