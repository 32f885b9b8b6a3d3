package structure

import (
	"github.com/benzenoid/nomenclator/internal/domain/molecule"
	nomtypes "github.com/benzenoid/nomenclator/pkg/types/nomenclature"
)

// NamingState is the thread of truth through the rule engine.  A rule action
// receives one state and returns a new one; prior snapshots are never aliased:
// Next() deep-copies everything mutable, which is what makes replay and
// testing deterministic.
type NamingState struct {
	// Molecule is the read-only input graph, shared (it is itself immutable).
	Molecule *molecule.Molecule

	CandidateChains []Chain
	CandidateRings  []RingSystem

	Parent *ParentStructure
	Groups []FunctionalGroup

	Phase nomtypes.Phase

	Audit     []nomtypes.RuleApplication
	Conflicts []nomtypes.Conflict

	FinalName  string
	Confidence float64

	// SchemesSearched is filled by the numbering phase for observability.
	SchemesSearched int
}

// NewState constructs the initial state for one naming attempt.
func NewState(mol *molecule.Molecule) *NamingState {
	return &NamingState{
		Molecule:   mol,
		Phase:      nomtypes.PhaseParentStructure,
		Confidence: 1.0,
	}
}

// Next returns an independent copy for a rule to transform.  The molecule
// reference is shared; every other field is deep-copied.
func (s *NamingState) Next() *NamingState {
	clone := &NamingState{
		Molecule:        s.Molecule,
		Parent:          s.Parent.Clone(),
		Phase:           s.Phase,
		FinalName:       s.FinalName,
		Confidence:      s.Confidence,
		SchemesSearched: s.SchemesSearched,
		Audit:           append([]nomtypes.RuleApplication(nil), s.Audit...),
		Conflicts:       append([]nomtypes.Conflict(nil), s.Conflicts...),
	}
	for _, c := range s.CandidateChains {
		clone.CandidateChains = append(clone.CandidateChains, *c.Clone())
	}
	for _, r := range s.CandidateRings {
		clone.CandidateRings = append(clone.CandidateRings, *r.Clone())
	}
	for _, g := range s.Groups {
		clone.Groups = append(clone.Groups, g.Clone())
	}
	return clone
}

// PrincipalGroup returns the principal group and whether one exists.
func (s *NamingState) PrincipalGroup() (FunctionalGroup, bool) {
	for _, g := range s.Groups {
		if g.IsPrincipal {
			return g, true
		}
	}
	return FunctionalGroup{}, false
}

// AddConflict appends a conflict and applies its confidence penalty.
func (s *NamingState) AddConflict(c nomtypes.Conflict) {
	s.Conflicts = append(s.Conflicts, c)
	s.Confidence -= c.Penalty
	if s.Confidence < 0 {
		s.Confidence = 0
	}
}

// Rule is one guarded transformation.  When must be a pure predicate and
// Apply a pure transform: no I/O, no mutation of the input state.  Apply may
// return its input unchanged, which the engine treats identically to a
// predicate miss.
type Rule struct {
	// ID is the stable machine identifier ("select-chain-parent").
	ID string

	// Name is the human-readable description for the audit trail.
	Name string

	// Reference cites the nomenclature rule the transform implements
	// ("P-31.1.4.2.4"); empty for engine plumbing rules.
	Reference string

	// Phase assigns the rule to one engine phase.
	Phase nomtypes.Phase

	// Priority orders execution within the phase, descending.
	Priority int

	// When guards Apply; a false predicate is a no-op.
	When func(*NamingState) bool

	// Apply transforms the state.  It must tolerate missing data by
	// returning its input unchanged rather than failing.
	Apply func(*NamingState) *NamingState
}
