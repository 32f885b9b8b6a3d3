package molecule

import (
	"fmt"
	"sort"

	"github.com/benzenoid/nomenclator/pkg/errors"
)

// Molecule is the read-only molecular graph.  All fields are private; the
// accessor methods return copies or values so that no caller can alias the
// internal state.  The naming pipeline depends on this: its determinism
// contract assumes the graph cannot change between phases.
type Molecule struct {
	atoms []Atom
	bonds []Bond
	rings [][]int

	adjacency [][]int
	bondOrder map[[2]int]BondOrder
}

// New constructs a Molecule from atoms, bonds and optional pre-detected ring
// atom-index lists.  When rings is nil the rings are perceived from the bond
// graph.  Atom IDs are reassigned densely in input order; bonds referencing
// IDs outside [0, len(atoms)) are a precondition violation and produce an
// error (the only kind of error the naming boundary ever refuses a call for).
func New(atoms []Atom, bonds []Bond, rings [][]int) (*Molecule, error) {
	if len(atoms) == 0 {
		return nil, errors.New(errors.CodeMoleculeEmpty, "molecule has no atoms")
	}

	m := &Molecule{
		atoms:     make([]Atom, len(atoms)),
		bonds:     make([]Bond, 0, len(bonds)),
		bondOrder: make(map[[2]int]BondOrder, len(bonds)),
	}
	for i, a := range atoms {
		a.ID = i
		if _, ok := StandardValence(a.Element); !ok {
			return nil, errors.New(errors.CodeUnknownElement, "unsupported element").
				WithDetail(fmt.Sprintf("element=%q atom=%d", a.Element, i))
		}
		m.atoms[i] = a
	}

	m.adjacency = make([][]int, len(atoms))
	for _, b := range bonds {
		if b.From < 0 || b.From >= len(atoms) || b.To < 0 || b.To >= len(atoms) || b.From == b.To {
			return nil, errors.New(errors.CodeBondAtomOutOfRange, "bond references nonexistent atom").
				WithDetail(fmt.Sprintf("from=%d to=%d atoms=%d", b.From, b.To, len(atoms)))
		}
		if _, dup := m.bondOrder[bondKey(b.From, b.To)]; dup {
			return nil, errors.New(errors.CodeDuplicateBond, "duplicate bond").
				WithDetail(fmt.Sprintf("from=%d to=%d", b.From, b.To))
		}
		if b.Order == 0 {
			b.Order = Single
		}
		m.bonds = append(m.bonds, b)
		m.bondOrder[bondKey(b.From, b.To)] = b.Order
		m.adjacency[b.From] = append(m.adjacency[b.From], b.To)
		m.adjacency[b.To] = append(m.adjacency[b.To], b.From)
	}

	// Deterministic neighbor order regardless of bond input order.
	for i := range m.adjacency {
		sort.Ints(m.adjacency[i])
	}

	if rings == nil {
		m.rings = perceiveRings(len(m.atoms), m.adjacency, m.bondOrder)
	} else {
		m.rings = make([][]int, len(rings))
		for i, r := range rings {
			for _, id := range r {
				if id < 0 || id >= len(atoms) {
					return nil, errors.New(errors.CodeBondAtomOutOfRange, "ring references nonexistent atom").
						WithDetail(fmt.Sprintf("ring=%d atom=%d", i, id))
				}
			}
			m.rings[i] = append([]int(nil), r...)
		}
	}

	for _, ring := range m.rings {
		for _, id := range ring {
			m.atoms[id].InRing = true
		}
	}

	return m, nil
}

func bondKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

// AtomCount returns the number of atoms.
func (m *Molecule) AtomCount() int { return len(m.atoms) }

// Atom returns the atom with the given ID by value.
func (m *Molecule) Atom(id int) Atom { return m.atoms[id] }

// Atoms returns a copy of the atom list.
func (m *Molecule) Atoms() []Atom { return append([]Atom(nil), m.atoms...) }

// Bonds returns a copy of the bond list.
func (m *Molecule) Bonds() []Bond { return append([]Bond(nil), m.bonds...) }

// Rings returns a copy of the perceived (or supplied) ring atom-index lists,
// each in traversal order.
func (m *Molecule) Rings() [][]int {
	out := make([][]int, len(m.rings))
	for i, r := range m.rings {
		out[i] = append([]int(nil), r...)
	}
	return out
}

// Neighbors returns the IDs of atoms bonded to id, in ascending order.
func (m *Molecule) Neighbors(id int) []int {
	return append([]int(nil), m.adjacency[id]...)
}

// BondOrderBetween returns the order of the bond between a and b and whether
// such a bond exists.
func (m *Molecule) BondOrderBetween(a, b int) (BondOrder, bool) {
	o, ok := m.bondOrder[bondKey(a, b)]
	return o, ok
}

// IsCarbon reports whether atom id is carbon.
func (m *Molecule) IsCarbon(id int) bool { return m.atoms[id].Element == "C" }

// Heteroatoms returns the IDs of all non-carbon atoms, ascending.
func (m *Molecule) Heteroatoms() []int {
	var out []int
	for _, a := range m.atoms {
		if a.Element != "C" {
			out = append(out, a.ID)
		}
	}
	return out
}

// CarbonCount returns the number of carbon atoms.
func (m *Molecule) CarbonCount() int {
	n := 0
	for _, a := range m.atoms {
		if a.Element == "C" {
			n++
		}
	}
	return n
}

// Degree returns the number of explicit bonds at atom id.
func (m *Molecule) Degree(id int) int { return len(m.adjacency[id]) }

// ResolveRef resolves an AtomRef against this molecule, returning the
// canonical atom ID.  Inline references must be resolved during ingestion;
// passing one here is a programming error reported as -1.
func (m *Molecule) ResolveRef(r AtomRef) int {
	if !r.Resolved() {
		return -1
	}
	id := r.ID()
	if id < 0 || id >= len(m.atoms) {
		return -1
	}
	return id
}
