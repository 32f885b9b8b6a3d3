// Package candidates derives the parent-structure candidates the rule engine
// chooses between: the longest viable carbon chains and the connected ring
// systems of the molecule.
package candidates

import (
	"sort"

	"github.com/benzenoid/nomenclator/internal/domain/molecule"
	"github.com/benzenoid/nomenclator/internal/domain/structure"
	"github.com/benzenoid/nomenclator/internal/infrastructure/monitoring/logging"
)

// DefaultAromaticityThreshold is the fraction of aromatic-flagged atoms plus
// aromatic/double bonds a ring needs to classify as aromatic.  This is a
// deliberate approximation rather than a strict alternating-bond test: it
// tolerates imperfect aromaticity flags from the upstream parser.
const DefaultAromaticityThreshold = 0.6

// maxChainCandidates caps how many equal-length chains are kept; beyond this
// the extra candidates add no naming power, only work.
const maxChainCandidates = 32

// Generator produces candidate chains and ring systems.  It is stateless
// between calls and safe for concurrent use.
type Generator struct {
	logger    logging.Logger
	threshold float64
}

// New constructs a Generator.  threshold <= 0 selects the default.
func New(logger logging.Logger, threshold float64) *Generator {
	if logger == nil {
		logger = logging.NewNop()
	}
	if threshold <= 0 {
		threshold = DefaultAromaticityThreshold
	}
	return &Generator{logger: logger.Named("candidates"), threshold: threshold}
}

// Chains returns every longest simple path over acyclic carbon atoms,
// deduplicated (a path and its reversal are one candidate), annotated with
// multiple-bond positions.  Ring atoms are excluded: cyclic skeletons compete
// as ring systems, and a chain that wandered through a ring would shadow the
// ring-substituent decomposition.  Ties between equal-length chains are left
// for the NUMBERING phase to break.
func (g *Generator) Chains(mol *molecule.Molecule) []structure.Chain {
	var carbons []int
	for _, a := range mol.Atoms() {
		if a.Element == "C" && !a.Aromatic && !a.InRing {
			carbons = append(carbons, a.ID)
		}
	}
	if len(carbons) == 0 {
		return nil
	}

	longest := [][]int{}
	best := 0
	visited := make([]bool, mol.AtomCount())

	var dfs func(id int, path []int)
	dfs = func(id int, path []int) {
		visited[id] = true
		path = append(path, id)

		extended := false
		for _, nb := range mol.Neighbors(id) {
			a := mol.Atom(nb)
			if visited[nb] || a.Element != "C" || a.Aromatic || a.InRing {
				continue
			}
			extended = true
			dfs(nb, path)
		}
		if !extended {
			if len(path) > best {
				best = len(path)
				longest = longest[:0]
			}
			if len(path) == best && len(longest) < maxChainCandidates {
				longest = append(longest, append([]int(nil), path...))
			}
		}
		visited[id] = false
	}

	for _, start := range carbons {
		dfs(start, nil)
	}

	chains := make([]structure.Chain, 0, len(longest))
	seen := map[string]bool{}
	for _, path := range longest {
		key := pathKey(path)
		if seen[key] {
			continue
		}
		seen[key] = true
		chains = append(chains, structure.Chain{
			Atoms:         path,
			MultipleBonds: chainMultipleBonds(mol, path),
		})
	}

	g.logger.Debug("chain candidates derived",
		logging.Int("count", len(chains)),
		logging.Int("length", best))
	return chains
}

// pathKey canonicalizes a path against its own reversal.
func pathKey(path []int) string {
	n := len(path)
	forward := path
	if n > 1 && path[n-1] < path[0] {
		reversed := make([]int, n)
		for i, id := range path {
			reversed[n-1-i] = id
		}
		forward = reversed
	}
	key := make([]byte, 0, n*3)
	for _, id := range forward {
		key = append(key, byte(id), byte(id>>8), ',')
	}
	return string(key)
}

func chainMultipleBonds(mol *molecule.Molecule, path []int) []structure.MultipleBond {
	var out []structure.MultipleBond
	for i := 0; i+1 < len(path); i++ {
		order, ok := mol.BondOrderBetween(path[i], path[i+1])
		if ok && (order == molecule.Double || order == molecule.Triple) {
			out = append(out, structure.MultipleBond{Position: i + 1, Order: order})
		}
	}
	return out
}

// RingSystems groups the molecule's raw rings into connected systems:
// rings sharing at least one atom aggregate into one fused/bridged/spiro
// system.  Monocycles keep their ring traversal order; aggregates carry a
// deterministic union order and the Polycyclic flag.
func (g *Generator) RingSystems(mol *molecule.Molecule) []structure.RingSystem {
	rings := mol.Rings()
	if len(rings) == 0 {
		return nil
	}

	// Union-find over ring indexes by shared atoms.
	parent := make([]int, len(rings))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	union := func(a, b int) { parent[find(a)] = find(b) }

	atomRing := map[int]int{}
	for i, ring := range rings {
		for _, id := range ring {
			if j, ok := atomRing[id]; ok {
				union(i, j)
			} else {
				atomRing[id] = i
			}
		}
	}

	grouped := map[int][]int{}
	for i := range rings {
		root := find(i)
		grouped[root] = append(grouped[root], i)
	}

	roots := make([]int, 0, len(grouped))
	for root := range grouped {
		roots = append(roots, root)
	}
	sort.Ints(roots)

	var systems []structure.RingSystem
	for _, root := range roots {
		members := grouped[root]
		if len(members) == 1 {
			systems = append(systems, g.buildMonocycle(mol, rings[members[0]]))
			continue
		}
		systems = append(systems, g.buildPolycycle(mol, rings, members))
	}

	// Largest system first; the parent-selection rule prefers the head.
	sort.SliceStable(systems, func(i, j int) bool {
		return systems[i].Size > systems[j].Size
	})

	g.logger.Debug("ring systems derived", logging.Int("count", len(systems)))
	return systems
}

func (g *Generator) buildMonocycle(mol *molecule.Molecule, ring []int) structure.RingSystem {
	sys := structure.RingSystem{
		Atoms:    append([]int(nil), ring...),
		Size:     len(ring),
		Aromatic: g.classifyAromatic(mol, ring),
	}
	for _, id := range ring {
		if !mol.IsCarbon(id) {
			sys.Heteroatoms = append(sys.Heteroatoms, id)
		}
	}
	sort.Ints(sys.Heteroatoms)
	if !sys.Aromatic {
		sys.MultipleBonds = ringMultipleBonds(mol, ring)
	}
	return sys
}

// ringMultipleBonds walks the ring perimeter including the closure bond.
func ringMultipleBonds(mol *molecule.Molecule, ring []int) []structure.MultipleBond {
	var out []structure.MultipleBond
	n := len(ring)
	for i := 0; i < n; i++ {
		order, ok := mol.BondOrderBetween(ring[i], ring[(i+1)%n])
		if ok && (order == molecule.Double || order == molecule.Triple) {
			out = append(out, structure.MultipleBond{Position: i + 1, Order: order})
		}
	}
	return out
}

func (g *Generator) buildPolycycle(mol *molecule.Molecule, rings [][]int, members []int) structure.RingSystem {
	memberSet := map[int]bool{}
	for _, idx := range members {
		for _, id := range rings[idx] {
			memberSet[id] = true
		}
	}
	atoms := make([]int, 0, len(memberSet))
	for id := range memberSet {
		atoms = append(atoms, id)
	}
	sort.Ints(atoms)

	aromaticMembers := 0
	for _, idx := range members {
		if g.classifyAromatic(mol, rings[idx]) {
			aromaticMembers++
		}
	}

	sys := structure.RingSystem{
		Atoms:      atoms,
		Size:       len(atoms),
		Aromatic:   aromaticMembers == len(members),
		Polycyclic: true,
	}
	for _, id := range atoms {
		if !mol.IsCarbon(id) {
			sys.Heteroatoms = append(sys.Heteroatoms, id)
		}
	}
	// Positions index the sorted member list; polycyclic systems have no
	// perimeter order, so these mark presence rather than placement.
	if !sys.Aromatic {
		for i, id := range atoms {
			for j := i + 1; j < len(atoms); j++ {
				order, ok := mol.BondOrderBetween(id, atoms[j])
				if ok && (order == molecule.Double || order == molecule.Triple) {
					sys.MultipleBonds = append(sys.MultipleBonds, structure.MultipleBond{
						Position: i + 1,
						Order:    order,
					})
				}
			}
		}
	}
	return sys
}

// classifyAromatic applies the threshold heuristic: the fraction of
// aromatic-flagged atoms and aromatic/double ring bonds over the ring size.
func (g *Generator) classifyAromatic(mol *molecule.Molecule, ring []int) bool {
	n := len(ring)
	if n < 3 {
		return false
	}
	aromaticAtoms := 0
	for _, id := range ring {
		if mol.Atom(id).Aromatic {
			aromaticAtoms++
		}
	}
	unsaturated := 0
	for i := 0; i < n; i++ {
		order, ok := mol.BondOrderBetween(ring[i], ring[(i+1)%n])
		if ok && (order == molecule.Aromatic || order == molecule.Double) {
			unsaturated++
		}
	}
	atomFrac := float64(aromaticAtoms) / float64(n)
	bondFrac := float64(unsaturated) / float64(n)
	return atomFrac >= g.threshold || (atomFrac > 0 && bondFrac >= g.threshold)
}
