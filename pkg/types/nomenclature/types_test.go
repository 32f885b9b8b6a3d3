package nomenclature

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhases_Order(t *testing.T) {
	assert.Equal(t, []Phase{PhaseParentStructure, PhaseNumbering, PhaseAssembly}, Phases())
}

func TestNamingResult_Degraded(t *testing.T) {
	r := &NamingResult{Name: "ethanol", Confidence: 1.0}
	assert.False(t, r.Degraded())

	r.Conflicts = append(r.Conflicts, Conflict{
		Type:  ConflictLocantAmbiguity,
		Phase: PhaseNumbering,
	})
	// Informational conflicts carry no penalty.
	assert.False(t, r.Degraded())

	r.Conflicts = append(r.Conflicts, Conflict{
		Type:    ConflictValidationFailure,
		Phase:   PhaseAssembly,
		Penalty: 0.2,
	})
	assert.True(t, r.Degraded())
}

func TestConflict_String(t *testing.T) {
	c := Conflict{Type: ConflictRuleConflict, Phase: PhaseNumbering, Message: "duplicate locants"}
	assert.Equal(t, "rule_conflict[NUMBERING]: duplicate locants", c.String())
}

func TestAuditSummary(t *testing.T) {
	r := &NamingResult{
		AuditLog: []RuleApplication{
			{Ordinal: 0, RuleID: "select-principal-group", Phase: PhaseParentStructure, Description: "alcohol as principal group"},
		},
	}
	s := r.AuditSummary()
	assert.Contains(t, s, "select-principal-group")
	assert.Contains(t, s, "PARENT_STRUCTURE")
}
