// Package structure defines the intermediate representation the naming rules
// transform: candidate parent skeletons, functional groups, substituents and
// the NamingState that threads through the rule engine.  Values here are
// replaced wholesale between phases, never mutated in place; Clone helpers
// exist so every rule can produce an independent snapshot.
package structure

import (
	"github.com/benzenoid/nomenclator/internal/domain/molecule"
)

// MultipleBond annotates an unsaturation along a chain.  Position is the
// 1-based index of the bond's first atom in chain order (before numbering is
// applied it is positional, the locant optimizer re-expresses it afterward).
type MultipleBond struct {
	Position int
	Order    molecule.BondOrder
}

// Chain is an ordered candidate parent chain of carbon atoms.
type Chain struct {
	// Atoms holds atom IDs in chain order.
	Atoms []int

	// MultipleBonds lists double/triple bonds along the chain, by position.
	MultipleBonds []MultipleBond
}

// Length returns the number of chain positions.
func (c *Chain) Length() int { return len(c.Atoms) }

// Clone deep-copies the chain.
func (c *Chain) Clone() *Chain {
	if c == nil {
		return nil
	}
	return &Chain{
		Atoms:         append([]int(nil), c.Atoms...),
		MultipleBonds: append([]MultipleBond(nil), c.MultipleBonds...),
	}
}

// Contains reports whether atom id is part of the chain.
func (c *Chain) Contains(id int) bool {
	for _, a := range c.Atoms {
		if a == id {
			return true
		}
	}
	return false
}

// RingSystem is a connected set of rings treated as one candidate parent.
// For a monocycle Atoms is the ring in traversal order; for fused or bridged
// aggregates Atoms is the deterministic union order and Polycyclic is set.
type RingSystem struct {
	Atoms      []int
	Size       int
	Aromatic   bool
	Polycyclic bool

	// Heteroatoms lists the non-carbon member atom IDs, ascending.
	Heteroatoms []int

	// MultipleBonds lists non-aromatic unsaturations between ring members.
	// Position indexes the bond's first atom in Atoms order (1-based); for a
	// monocycle position n is the closure bond back to position 1.  Aromatic
	// systems leave this empty, the ring name expresses the bonding.
	MultipleBonds []MultipleBond
}

// Clone deep-copies the ring system.
func (r *RingSystem) Clone() *RingSystem {
	if r == nil {
		return nil
	}
	return &RingSystem{
		Atoms:         append([]int(nil), r.Atoms...),
		Size:          r.Size,
		Aromatic:      r.Aromatic,
		Polycyclic:    r.Polycyclic,
		Heteroatoms:   append([]int(nil), r.Heteroatoms...),
		MultipleBonds: append([]MultipleBond(nil), r.MultipleBonds...),
	}
}

// Contains reports whether atom id belongs to the ring system.
func (r *RingSystem) Contains(id int) bool {
	for _, a := range r.Atoms {
		if a == id {
			return true
		}
	}
	return false
}

// ParentKind tags the variant a ParentStructure carries.
type ParentKind int

const (
	KindChain ParentKind = iota
	KindRing
	KindHeteroatom
)

func (k ParentKind) String() string {
	switch k {
	case KindChain:
		return "chain"
	case KindRing:
		return "ring"
	case KindHeteroatom:
		return "heteroatom"
	}
	return "unknown"
}

// ParentStructure is the senior skeleton a name is built around.  Exactly one
// exists per naming attempt.  Chain and Ring are a tagged union selected by
// Kind; KindHeteroatom uses neither.
type ParentStructure struct {
	Kind  ParentKind
	Chain *Chain
	Ring  *RingSystem

	// BaseName is the human-readable hydride name ("butane", "cyclohexane",
	// "benzene", "oxirane", "azane").  Populated at parent selection.
	BaseName string

	// Locants maps position index (0-based) to the locant of the atom at
	// that position; nil until the NUMBERING phase completes.
	Locants []int

	// AtomLocant maps atom ID to its locant; nil until NUMBERING completes.
	AtomLocant map[int]int

	// FixedAnchorAtom, when >= 0, pins the atom that must receive locant 1
	// (single-heteroatom rings, retained names with conventional numbering).
	FixedAnchorAtom int

	// Substituents lists the prefix-expressed attachments, populated during
	// NUMBERING.
	Substituents []Substituent

	// AssembledName is written only during the ASSEMBLY phase.
	AssembledName string
}

// PositionCount returns the number of numbered positions.
func (p *ParentStructure) PositionCount() int {
	switch p.Kind {
	case KindChain:
		if p.Chain != nil {
			return p.Chain.Length()
		}
	case KindRing:
		if p.Ring != nil {
			return p.Ring.Size
		}
	case KindHeteroatom:
		return 1
	}
	return 0
}

// Atoms returns the parent's atom IDs in position order.
func (p *ParentStructure) Atoms() []int {
	switch p.Kind {
	case KindChain:
		if p.Chain != nil {
			return append([]int(nil), p.Chain.Atoms...)
		}
	case KindRing:
		if p.Ring != nil {
			return append([]int(nil), p.Ring.Atoms...)
		}
	}
	return nil
}

// Contains reports whether atom id belongs to the parent skeleton.
func (p *ParentStructure) Contains(id int) bool {
	switch p.Kind {
	case KindChain:
		return p.Chain != nil && p.Chain.Contains(id)
	case KindRing:
		return p.Ring != nil && p.Ring.Contains(id)
	}
	return false
}

// Clone deep-copies the parent structure.
func (p *ParentStructure) Clone() *ParentStructure {
	if p == nil {
		return nil
	}
	clone := &ParentStructure{
		Kind:            p.Kind,
		Chain:           p.Chain.Clone(),
		Ring:            p.Ring.Clone(),
		BaseName:        p.BaseName,
		Locants:         append([]int(nil), p.Locants...),
		FixedAnchorAtom: p.FixedAnchorAtom,
		AssembledName:   p.AssembledName,
	}
	if p.AtomLocant != nil {
		clone.AtomLocant = make(map[int]int, len(p.AtomLocant))
		for k, v := range p.AtomLocant {
			clone.AtomLocant[k] = v
		}
	}
	for _, s := range p.Substituents {
		clone.Substituents = append(clone.Substituents, s.Clone())
	}
	return clone
}
