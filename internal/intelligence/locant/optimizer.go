// Package locant numbers parent skeletons.  It enumerates every admissible
// numbering scheme for the selected parent and picks the one giving the
// lowest locant set, comparing seniority tiers in order: ring heteroatoms,
// then the principal characteristic group, then all prefixes and
// unsaturations together, then prefixes in citation (alphabetical) order.
package locant

import (
	"fmt"
	"sort"
	"strings"

	"github.com/benzenoid/nomenclator/internal/domain/structure"
	"github.com/benzenoid/nomenclator/internal/infrastructure/monitoring/logging"
	"github.com/benzenoid/nomenclator/pkg/errors"
)

// Assignment is the outcome of numbering one parent structure.
type Assignment struct {
	// AtomLocant maps parent atom ID to its 1-based locant.
	AtomLocant map[int]int

	// Locants holds the locant of each parent position in position order.
	Locants []int

	// Tied is set when two schemes score identically yet place a scored
	// atom at different locants; the first-enumerated scheme was kept.
	Tied bool

	// Schemes is the number of numbering schemes considered.
	Schemes int
}

// Optimizer numbers parent structures.  Stateless and safe for concurrent use.
type Optimizer struct {
	logger logging.Logger
}

func NewOptimizer(logger logging.Logger) *Optimizer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Optimizer{logger: logger.Named("locant")}
}

// Optimize numbers the parent in st and returns the winning assignment.  It
// never mutates st; the caller writes the assignment back onto its own state.
func (o *Optimizer) Optimize(st *structure.NamingState) (Assignment, error) {
	p := st.Parent
	if p == nil {
		return Assignment{}, errors.New(errors.CodeNamingPrecondition, "numbering requires a selected parent structure")
	}
	n := p.PositionCount()
	if n == 0 {
		return Assignment{}, errors.New(errors.CodeNamingPrecondition, "parent structure has no positions")
	}
	if p.Kind == structure.KindHeteroatom || n == 1 {
		a := Assignment{AtomLocant: map[int]int{}, Locants: []int{1}, Schemes: 1}
		for _, id := range p.Atoms() {
			a.AtomLocant[id] = 1
		}
		return a, nil
	}

	schemes := enumerateSchemes(p)
	if len(schemes) == 0 {
		return Assignment{}, errors.New(errors.CodeNamingPrecondition, "no numbering scheme admissible").
			WithDetail("kind=" + p.Kind.String())
	}

	tiers := collectTiers(st)

	best := -1
	var bestScore [][]int
	tied := false
	for i, scheme := range schemes {
		score := scoreScheme(scheme, tiers)
		switch {
		case best < 0, compareScores(score, bestScore) < 0:
			best, bestScore = i, score
			tied = false
		case compareScores(score, bestScore) == 0:
			if placementsDiffer(schemes[best], scheme, tiers) {
				tied = true
			}
		}
	}

	winner := schemes[best]
	a := Assignment{
		AtomLocant: make(map[int]int, len(winner)),
		Tied:       tied,
		Schemes:    len(schemes),
	}
	for loc0, id := range winner {
		a.AtomLocant[id] = loc0 + 1
	}
	for _, id := range p.Atoms() {
		a.Locants = append(a.Locants, a.AtomLocant[id])
	}

	o.logger.Debug("numbering selected",
		logging.Int("schemes", len(schemes)),
		logging.Bool("tied", tied))
	return a, nil
}

// enumerateSchemes lists candidate numberings as atom IDs in locant order.
// Chains have two (each end first).  Monocycles rotate through every start
// atom in both directions unless a fixed anchor pins the start.  Polycyclic
// aggregates keep their deterministic member order and only flip direction.
func enumerateSchemes(p *structure.ParentStructure) [][]int {
	atoms := p.Atoms()
	switch p.Kind {
	case structure.KindChain:
		return [][]int{atoms, reversed(atoms)}
	case structure.KindRing:
		if p.Ring.Polycyclic {
			return [][]int{atoms, reversed(atoms)}
		}
		var schemes [][]int
		n := len(atoms)
		for start := 0; start < n; start++ {
			if p.FixedAnchorAtom >= 0 && atoms[start] != p.FixedAnchorAtom {
				continue
			}
			schemes = append(schemes, rotation(atoms, start, 1), rotation(atoms, start, -1))
		}
		return schemes
	}
	return nil
}

func reversed(s []int) []int {
	out := make([]int, len(s))
	for i, v := range s {
		out[len(s)-1-i] = v
	}
	return out
}

func rotation(atoms []int, start, dir int) []int {
	n := len(atoms)
	out := make([]int, n)
	for k := 0; k < n; k++ {
		out[k] = atoms[((start+dir*k)%n+n)%n]
	}
	return out
}

// scoredItem is one locant-bearing feature.  Bond items carry two atoms and
// score as the lower of the pair.
type scoredItem struct {
	name  string
	atoms []int
	bond  bool
}

// tiers groups scored items by seniority.  Tier: 0 ring heteroatoms,
// 1 principal group, 2 all prefixes and unsaturations, 3 prefixes in
// alphabetical citation order (the final tie-break).
type tierSet struct {
	hetero    []scoredItem
	principal []scoredItem
	detach    []scoredItem
	cited     []scoredItem
}

func collectTiers(st *structure.NamingState) tierSet {
	var t tierSet
	p := st.Parent

	if p.Kind == structure.KindRing {
		for _, id := range p.Ring.Heteroatoms {
			t.hetero = append(t.hetero, scoredItem{atoms: []int{id}})
		}
	}

	for _, g := range st.Groups {
		if g.IsPrincipal {
			for _, id := range g.ParentAtoms {
				t.principal = append(t.principal, scoredItem{atoms: []int{id}})
			}
			continue
		}
		if g.Prefix == "" {
			continue
		}
		for _, id := range g.ParentAtoms {
			item := scoredItem{name: g.Prefix, atoms: []int{id}}
			t.detach = append(t.detach, item)
			t.cited = append(t.cited, item)
		}
	}

	for _, s := range p.Substituents {
		for _, id := range s.AttachAtoms {
			item := scoredItem{name: s.Name, atoms: []int{id}}
			t.detach = append(t.detach, item)
			t.cited = append(t.cited, item)
		}
	}

	if p.Kind == structure.KindChain && p.Chain != nil {
		for _, mb := range p.Chain.MultipleBonds {
			t.detach = append(t.detach, scoredItem{
				name:  mb.Order.String(),
				atoms: []int{p.Chain.Atoms[mb.Position-1], p.Chain.Atoms[mb.Position]},
				bond:  true,
			})
		}
	}

	if p.Kind == structure.KindRing && p.Ring != nil && !p.Ring.Polycyclic {
		for _, mb := range p.Ring.MultipleBonds {
			t.detach = append(t.detach, scoredItem{
				name:  mb.Order.String(),
				atoms: []int{p.Ring.Atoms[mb.Position-1], p.Ring.Atoms[mb.Position%p.Ring.Size]},
				bond:  true,
			})
		}
	}

	sort.SliceStable(t.cited, func(i, j int) bool { return t.cited[i].name < t.cited[j].name })
	return t
}

// scoreScheme produces the comparison vectors for one scheme.  Tiers 0-2 are
// sorted locant multisets; tier 3 keeps citation order.
func scoreScheme(scheme []int, t tierSet) [][]int {
	locantOf := make(map[int]int, len(scheme))
	for i, id := range scheme {
		locantOf[id] = i + 1
	}

	multiset := func(items []scoredItem) []int {
		var out []int
		for _, it := range items {
			if loc, ok := itemLocant(it, locantOf); ok {
				out = append(out, loc)
			}
		}
		sort.Ints(out)
		return out
	}

	var citation []int
	for _, it := range t.cited {
		if loc, ok := itemLocant(it, locantOf); ok {
			citation = append(citation, loc)
		}
	}

	return [][]int{multiset(t.hetero), multiset(t.principal), multiset(t.detach), citation}
}

// itemLocant resolves an item's locant under a scheme; items anchored off the
// parent are skipped here and reported by numbering verification instead.
func itemLocant(it scoredItem, locantOf map[int]int) (int, bool) {
	if it.bond {
		a, okA := locantOf[it.atoms[0]]
		b, okB := locantOf[it.atoms[1]]
		if !okA || !okB {
			return 0, false
		}
		if b < a {
			a = b
		}
		return a, true
	}
	loc, ok := locantOf[it.atoms[0]]
	return loc, ok
}

func compareScores(a, b [][]int) int {
	for tier := range a {
		if c := compareLocants(a[tier], b[tier]); c != 0 {
			return c
		}
	}
	return 0
}

// compareLocants orders two locant vectors: first point of difference wins,
// missing entries count low.
func compareLocants(a, b []int) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

// placementsDiffer reports whether two equally scored schemes name different
// structures: it compares the multiset of (feature, locant) pairs, so a pure
// symmetry swap of identical substituents does not count as ambiguity.
func placementsDiffer(a, b []int, t tierSet) bool {
	return placementSignature(a, t) != placementSignature(b, t)
}

func placementSignature(scheme []int, t tierSet) string {
	locantOf := make(map[int]int, len(scheme))
	for i, id := range scheme {
		locantOf[id] = i + 1
	}
	var pairs []string
	add := func(tier string, items []scoredItem) {
		for _, it := range items {
			if loc, ok := itemLocant(it, locantOf); ok {
				pairs = append(pairs, fmt.Sprintf("%s/%s@%d", tier, it.name, loc))
			}
		}
	}
	add("het", t.hetero)
	add("pri", t.principal)
	add("det", t.detach)
	sort.Strings(pairs)
	return strings.Join(pairs, "|")
}
