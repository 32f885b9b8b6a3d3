// Package nomenclature defines the public result types returned by the naming
// engine.  These are plain data-transfer values: no behaviour beyond
// formatting helpers, safe to serialize to JSON for the HTTP wrapper and the
// validation bridge.
package nomenclature

import (
	"fmt"
	"strings"
)

// Phase identifies one of the three ordered stages the rule engine executes.
type Phase string

const (
	PhaseParentStructure Phase = "PARENT_STRUCTURE"
	PhaseNumbering       Phase = "NUMBERING"
	PhaseAssembly        Phase = "ASSEMBLY"
)

// Phases lists the engine phases in execution order.
func Phases() []Phase {
	return []Phase{PhaseParentStructure, PhaseNumbering, PhaseAssembly}
}

// ConflictType classifies a non-fatal abnormality detected during naming.
type ConflictType string

const (
	// ConflictStructureNotFound: no candidate parent chain or ring could be
	// derived; the result name is a best-effort fragment.
	ConflictStructureNotFound ConflictType = "structure_not_found"

	// ConflictLocantAmbiguity: the numbering optimizer found several schemes
	// tied on every comparison vector; the first-encountered scheme was kept.
	// Informational: no confidence penalty.
	ConflictLocantAmbiguity ConflictType = "locant_ambiguity"

	// ConflictRuleConflict: a phase-completion check detected an inconsistent
	// state (duplicate locants, locant exceeding the parent size, assembly
	// reached with no parent structure).
	ConflictRuleConflict ConflictType = "rule_conflict"

	// ConflictValidationFailure: the final name failed a basic sanity check
	// (empty, no letters, implausible length).
	ConflictValidationFailure ConflictType = "validation_failure"
)

// Conflict records a non-fatal abnormality.  Conflicts lower the result
// confidence (except informational ones) but never abort a call.
type Conflict struct {
	Type    ConflictType `json:"type"`
	Phase   Phase        `json:"phase"`
	Message string       `json:"message"`

	// Penalty is the confidence deduction applied for this conflict, in
	// [0, 1].  Zero for informational entries.
	Penalty float64 `json:"penalty"`
}

func (c Conflict) String() string {
	return fmt.Sprintf("%s[%s]: %s", c.Type, c.Phase, c.Message)
}

// RuleApplication is one entry of the audit trail: a rule whose predicate
// held and whose transform changed the state.  A transform that returns its
// input unchanged leaves no record, same as a predicate that never held.
// Ordinal is the zero-based position in the overall application sequence;
// there are no timestamps so that two runs over the same molecule produce
// byte-identical audit logs.
type RuleApplication struct {
	Ordinal     int    `json:"ordinal"`
	RuleID      string `json:"rule_id"`
	Phase       Phase  `json:"phase"`
	Description string `json:"description"`
}

// NamingResult is the complete outcome of naming one molecule.
type NamingResult struct {
	// Name is the assembled systematic name.  Always populated, possibly with
	// a degraded best-effort value when Conflicts is non-empty.
	Name string `json:"name"`

	// Confidence is in [0, 1]; 1.0 means no conflict was recorded.
	Confidence float64 `json:"confidence"`

	Conflicts []Conflict        `json:"conflicts,omitempty"`
	AuditLog  []RuleApplication `json:"audit_log,omitempty"`

	// Input echoes the SMILES the result was computed from, when the call
	// entered through a text surface (CLI, HTTP).  Empty for direct graph
	// submissions.
	Input string `json:"input,omitempty"`

	// SchemesSearched is the number of numbering schemes the locant
	// optimizer enumerated; zero when numbering never ran.
	SchemesSearched int `json:"schemes_searched,omitempty"`
}

// Degraded reports whether any confidence-penalizing conflict was recorded.
func (r *NamingResult) Degraded() bool {
	for _, c := range r.Conflicts {
		if c.Penalty > 0 {
			return true
		}
	}
	return false
}

// AuditSummary renders the audit log as one line per application, for CLI
// verbose output and the validation bridge report.
func (r *NamingResult) AuditSummary() string {
	var sb strings.Builder
	for _, a := range r.AuditLog {
		fmt.Fprintf(&sb, "%3d %-17s %-28s %s\n", a.Ordinal, a.Phase, a.RuleID, a.Description)
	}
	return sb.String()
}
