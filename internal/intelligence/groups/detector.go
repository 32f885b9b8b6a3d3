package groups

import (
	"sort"

	"github.com/benzenoid/nomenclator/internal/domain/molecule"
	"github.com/benzenoid/nomenclator/internal/domain/structure"
	"github.com/benzenoid/nomenclator/internal/infrastructure/monitoring/logging"
	"github.com/benzenoid/nomenclator/pkg/errors"
)

// Detector matches the group catalogue against molecules.  Stateless between
// calls and safe for concurrent use.
type Detector struct {
	logger   logging.Logger
	patterns map[string]groupPattern
}

// NewDetector constructs a Detector backed by the built-in pattern registry.
func NewDetector(logger logging.Logger) *Detector {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Detector{logger: logger.Named("groups"), patterns: builtinPatterns()}
}

// Detect returns every characteristic group found in the molecule, ordered by
// seniority then anchor position.  Overlap between groups is resolved in the
// catalogue's favor: when a junior group's owned atoms collide with a senior
// group already accepted, the junior match is discarded (an acid's hydroxyl
// never doubles as an alcohol).  Disjoint instances of the same type all
// survive, each with Multiplicity 1; aggregation into a single suffix happens
// during principal-group selection.
func (d *Detector) Detect(mol *molecule.Molecule, tables *structure.Tables) ([]structure.FunctionalGroup, error) {
	defs := append([]structure.GroupDef(nil), tables.Groups...)
	sort.SliceStable(defs, func(i, j int) bool { return defs[i].Priority < defs[j].Priority })

	var accepted []structure.FunctionalGroup
	for _, def := range defs {
		gp, ok := d.patterns[def.PatternRef]
		if !ok {
			return nil, errors.New(errors.CodeNamingTableInvalid, "group references unknown pattern").
				WithDetail("type=" + def.Type + " pattern=" + def.PatternRef)
		}
		embeddings, err := mol.Match(gp.pattern)
		if err != nil {
			return nil, err
		}
		for _, emb := range embeddings {
			g := buildGroup(def, gp, emb)
			// A heteroatom that is a ring member is expressed by the
			// heterocycle parent name, not as a group.
			if allInRing(mol, g.Atoms) {
				continue
			}
			if overlapsAny(g, accepted) {
				continue
			}
			accepted = append(accepted, g)
		}
	}

	structure.SortGroups(accepted)
	d.logger.Debug("groups detected", logging.Int("count", len(accepted)))
	return accepted, nil
}

func buildGroup(def structure.GroupDef, gp groupPattern, emb []int) structure.FunctionalGroup {
	owned := make([]int, 0, len(gp.owned))
	for _, idx := range gp.owned {
		owned = append(owned, emb[idx])
	}
	sort.Ints(owned)
	return structure.FunctionalGroup{
		Type:         def.Type,
		Prefix:       def.Prefix,
		Suffix:       def.Suffix,
		Priority:     def.Priority,
		Atoms:        owned,
		ParentAtoms:  []int{emb[gp.pattern.Anchor]},
		Multiplicity: 1,
		TerminalOnly: def.TerminalOnly,
	}
}

func allInRing(mol *molecule.Molecule, atoms []int) bool {
	for _, id := range atoms {
		if !mol.Atom(id).InRing {
			return false
		}
	}
	return true
}

func overlapsAny(g structure.FunctionalGroup, accepted []structure.FunctionalGroup) bool {
	for _, a := range accepted {
		if g.SharesAtoms(a) {
			return true
		}
	}
	return false
}
