package ruleengine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/benzenoid/nomenclator/internal/domain/molecule"
	"github.com/benzenoid/nomenclator/internal/domain/structure"
	nomtypes "github.com/benzenoid/nomenclator/pkg/types/nomenclature"
)

func assemblyRules(d Deps) []structure.Rule {
	return []structure.Rule{
		{
			ID:        "assemble-name",
			Name:      "render prefixes, parent hydride and suffix",
			Reference: "P-14.4",
			Phase:     nomtypes.PhaseAssembly,
			Priority:  100,
			When: func(st *structure.NamingState) bool {
				return st.Parent != nil && st.Parent.BaseName != ""
			},
			Apply: func(st *structure.NamingState) *structure.NamingState {
				next := st.Next()
				name, err := d.Assembler.Assemble(next)
				if err != nil {
					next.AddConflict(nomtypes.Conflict{
						Type:    nomtypes.ConflictRuleConflict,
						Phase:   st.Phase,
						Message: "assembly failed: " + err.Error(),
						Penalty: 0.2,
					})
					return next
				}
				next.FinalName = name
				next.Parent.AssembledName = name
				return next
			},
		},
		{
			ID:       "fallback-fragment-name",
			Name:     "fall back to the molecular formula",
			Phase:    nomtypes.PhaseAssembly,
			Priority: 90,
			When:     func(st *structure.NamingState) bool { return st.FinalName == "" },
			Apply: func(st *structure.NamingState) *structure.NamingState {
				next := st.Next()
				next.FinalName = molecularFormula(st.Molecule)
				return next
			},
		},
		{
			ID:       "validate-name",
			Name:     "sanity-check the assembled name",
			Phase:    nomtypes.PhaseAssembly,
			Priority: 10,
			When:     func(st *structure.NamingState) bool { return true },
			Apply: func(st *structure.NamingState) *structure.NamingState {
				if msg := nameDefect(st.FinalName); msg != "" {
					next := st.Next()
					next.AddConflict(nomtypes.Conflict{
						Type:    nomtypes.ConflictValidationFailure,
						Phase:   st.Phase,
						Message: msg,
						Penalty: 0.2,
					})
					return next
				}
				return st
			},
		},
	}
}

// nameDefect returns a description of the first structural problem in the
// rendered name, or empty when it passes.
func nameDefect(name string) string {
	switch {
	case name == "":
		return "empty name"
	case len(name) > 500:
		return "implausibly long name"
	case strings.Contains(name, "--"):
		return "doubled hyphen"
	case strings.HasPrefix(name, "-") || strings.HasSuffix(name, "-"):
		return "dangling hyphen"
	}
	letters := false
	depth := 0
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
			letters = true
		case r == '(':
			depth++
		case r == ')':
			depth--
			if depth < 0 {
				return "unbalanced parentheses"
			}
		}
	}
	if depth != 0 {
		return "unbalanced parentheses"
	}
	if !letters {
		return "name contains no letters"
	}
	return ""
}

// molecularFormula renders the Hill-order formula (C first, H second, the
// rest alphabetical) as the degraded fallback identifier.
func molecularFormula(mol *molecule.Molecule) string {
	counts := map[string]int{}
	hydrogens := 0
	for _, a := range mol.Atoms() {
		counts[a.Element]++
		hydrogens += a.ImplicitH
	}

	var sb strings.Builder
	write := func(elem string, n int) {
		if n == 0 {
			return
		}
		sb.WriteString(elem)
		if n > 1 {
			fmt.Fprintf(&sb, "%d", n)
		}
	}

	write("C", counts["C"])
	delete(counts, "C")
	write("H", hydrogens)

	rest := make([]string, 0, len(counts))
	for elem := range counts {
		rest = append(rest, elem)
	}
	sort.Strings(rest)
	for _, elem := range rest {
		write(elem, counts[elem])
	}
	return sb.String()
}
