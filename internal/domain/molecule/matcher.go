package molecule

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/benzenoid/nomenclator/pkg/errors"
)

// The matcher is a small SMARTS-style subgraph search: patterns describe
// atoms by element, aromaticity and hydrogen-count constraints and bonds by
// order.  It exists for the functional group detector; it is not a general
// SMARTS implementation.

// TriState models an optional boolean constraint.
type TriState int

const (
	AnyState TriState = iota
	MustBeTrue
	MustBeFalse
)

// PatternAtom constrains one atom of a pattern.
type PatternAtom struct {
	// Element is the required element symbol; empty matches any element.
	Element string

	// Aromatic constrains the aromatic flag.
	Aromatic TriState

	// MinHydrogens is the minimum total hydrogen count (implicit).
	MinHydrogens int

	// ExactHydrogens, when >= 0, requires an exact hydrogen count and takes
	// precedence over MinHydrogens.
	ExactHydrogens int

	// MinDegree is the minimum number of explicit bonds.
	MinDegree int
}

// PatternBond constrains one edge of a pattern, referencing pattern atom
// indexes.
type PatternBond struct {
	A, B  int
	Order BondOrder

	// AnyOrder matches regardless of bond order.
	AnyOrder bool
}

// Pattern is a connected structural query.  Anchor designates the pattern
// atom whose image carries the group's locant.
type Pattern struct {
	Name   string
	Atoms  []PatternAtom
	Bonds  []PatternBond
	Anchor int
}

// Validate checks pattern indexes before matching.
func (p Pattern) Validate() error {
	if len(p.Atoms) == 0 {
		return errors.New(errors.CodePatternInvalid, "pattern has no atoms").WithDetail("name=" + p.Name)
	}
	if p.Anchor < 0 || p.Anchor >= len(p.Atoms) {
		return errors.New(errors.CodePatternInvalid, "pattern anchor out of range").
			WithDetail(fmt.Sprintf("name=%s anchor=%d", p.Name, p.Anchor))
	}
	for _, b := range p.Bonds {
		if b.A < 0 || b.A >= len(p.Atoms) || b.B < 0 || b.B >= len(p.Atoms) || b.A == b.B {
			return errors.New(errors.CodePatternInvalid, "pattern bond index out of range").
				WithDetail(fmt.Sprintf("name=%s a=%d b=%d", p.Name, b.A, b.B))
		}
	}
	return nil
}

// Match returns every embedding of the pattern in the molecule as a slice of
// atom IDs parallel to p.Atoms.  Embeddings that map the same anchor atom to
// the same participating atom set are reported once (two symmetric neighbor
// assignments of a ketone pattern are one group, not two).  Iteration is in
// ascending atom-ID order, so the result is deterministic.
func (m *Molecule) Match(p Pattern) ([][]int, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	assignment := make([]int, len(p.Atoms))
	for i := range assignment {
		assignment[i] = -1
	}
	used := make([]bool, m.AtomCount())

	var results [][]int
	seen := map[string]bool{}

	var backtrack func(idx int)
	backtrack = func(idx int) {
		if idx == len(p.Atoms) {
			key := embeddingKey(p.Anchor, assignment)
			if !seen[key] {
				seen[key] = true
				results = append(results, append([]int(nil), assignment...))
			}
			return
		}
		for id := 0; id < m.AtomCount(); id++ {
			if used[id] || !m.atomMatches(p.Atoms[idx], id) {
				continue
			}
			assignment[idx] = id
			if m.bondsConsistent(p, assignment, idx) {
				used[id] = true
				backtrack(idx + 1)
				used[id] = false
			}
			assignment[idx] = -1
		}
	}
	backtrack(0)
	return results, nil
}

func (m *Molecule) atomMatches(pa PatternAtom, id int) bool {
	a := m.atoms[id]
	if pa.Element != "" && a.Element != pa.Element {
		return false
	}
	switch pa.Aromatic {
	case MustBeTrue:
		if !a.Aromatic {
			return false
		}
	case MustBeFalse:
		if a.Aromatic {
			return false
		}
	}
	// ExactHydrogens uses -1 as the "unset" sentinel; see NewPatternAtom.
	if pa.ExactHydrogens >= 0 {
		if a.ImplicitH != pa.ExactHydrogens {
			return false
		}
	} else if a.ImplicitH < pa.MinHydrogens {
		return false
	}
	return m.Degree(id) >= pa.MinDegree
}

// bondsConsistent verifies every pattern bond whose endpoints are both
// assigned, after assigning pattern atom idx.
func (m *Molecule) bondsConsistent(p Pattern, assignment []int, idx int) bool {
	for _, b := range p.Bonds {
		if b.A != idx && b.B != idx {
			continue
		}
		ia, ib := assignment[b.A], assignment[b.B]
		if ia < 0 || ib < 0 {
			continue
		}
		order, ok := m.BondOrderBetween(ia, ib)
		if !ok {
			return false
		}
		if !b.AnyOrder && order != b.Order {
			return false
		}
	}
	return true
}

func embeddingKey(anchor int, assignment []int) string {
	ids := append([]int(nil), assignment...)
	sort.Ints(ids)
	parts := make([]string, 0, len(ids)+1)
	parts = append(parts, strconv.Itoa(assignment[anchor]))
	for _, id := range ids {
		parts = append(parts, strconv.Itoa(id))
	}
	return strings.Join(parts, "|")
}

// NewPatternAtom returns a PatternAtom with ExactHydrogens unset.  Literal
// struct construction must remember the -1 sentinel; this constructor is the
// safer default.
func NewPatternAtom(element string) PatternAtom {
	return PatternAtom{Element: element, ExactHydrogens: -1}
}
