// Package assembler renders a numbered parent structure, its principal group
// and its prefixes into the final name string.
package assembler

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/benzenoid/nomenclator/internal/domain/molecule"
	"github.com/benzenoid/nomenclator/internal/domain/structure"
	"github.com/benzenoid/nomenclator/internal/infrastructure/monitoring/logging"
	"github.com/benzenoid/nomenclator/pkg/errors"
)

// Assembler renders names.  Stateless between calls and safe for concurrent
// use; the vocabulary tables are shared read-only.
type Assembler struct {
	logger logging.Logger
	tables *structure.Tables
}

func NewAssembler(logger logging.Logger, tables *structure.Tables) *Assembler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Assembler{logger: logger.Named("assembler"), tables: tables}
}

// Assemble renders the name for a fully numbered state.  The state is not
// mutated; the caller stores the returned name.
func (a *Assembler) Assemble(st *structure.NamingState) (string, error) {
	p := st.Parent
	if p == nil || p.BaseName == "" {
		return "", errors.New(errors.CodeNamingPrecondition, "assembly requires a named parent structure")
	}

	principal, hasPrincipal := st.PrincipalGroup()
	prefixes := a.collectPrefixes(st, principal, hasPrincipal)
	unsat := parentUnsaturations(p)

	features := len(unsat)
	for _, f := range prefixes {
		features += len(f.locants)
	}
	if hasPrincipal {
		features += principal.Multiplicity
	}

	omit := omitAllLocants(p, features)

	if hasPrincipal && principal.Type == "carboxylic_acid" {
		if name, ok := a.retainedAcid(p, principal, prefixes, unsat); ok {
			return name, nil
		}
	}

	parent, err := a.parentPart(p, principal, hasPrincipal, unsat, omit, features)
	if err != nil {
		return "", err
	}

	name := joinParts(append(a.renderPrefixes(prefixes, omit), parent)...)
	if hasPrincipal && principal.Type == "ester" {
		name = a.esterAlkylWord(st, principal) + name
	}
	name = tidy(name)

	a.logger.Debug("name assembled", logging.String("name", name))
	return name, nil
}

// ─── prefixes ────────────────────────────────────────────────────────────

// prefixEntry aggregates every occurrence of one prefix name.
type prefixEntry struct {
	name     string
	locants  []int
	compound bool
}

// collectPrefixes merges non-principal groups and substituents into one
// entry per distinct prefix name, locants sorted.
func (a *Assembler) collectPrefixes(st *structure.NamingState, principal structure.FunctionalGroup, hasPrincipal bool) []prefixEntry {
	byName := map[string]*prefixEntry{}
	add := func(name string, locants []int, compound bool) {
		if name == "" {
			return
		}
		e, ok := byName[name]
		if !ok {
			e = &prefixEntry{name: name, compound: compound}
			byName[name] = e
		}
		e.locants = append(e.locants, locants...)
	}

	for _, g := range st.Groups {
		if g.IsPrincipal {
			continue
		}
		add(g.Prefix, g.Locants, false)
	}
	for _, s := range st.Parent.Substituents {
		add(s.Name, s.Locants, s.Compound)
	}

	entries := make([]prefixEntry, 0, len(byName))
	for _, e := range byName {
		sort.Ints(e.locants)
		entries = append(entries, *e)
	}
	sort.Slice(entries, func(i, j int) bool {
		ki, kj := alphaKey(entries[i].name), alphaKey(entries[j].name)
		if ki != kj {
			return ki < kj
		}
		return entries[i].name < entries[j].name
	})
	return entries
}

func (a *Assembler) renderPrefixes(entries []prefixEntry, omit bool) []string {
	var parts []string
	for _, e := range entries {
		parts = append(parts, a.renderPrefix(e, omit))
	}
	return parts
}

func (a *Assembler) renderPrefix(e prefixEntry, omit bool) string {
	n := len(e.locants)
	mult := ""
	if n > 1 {
		if e.compound {
			mult = a.tables.CompoundPrefixes[n]
		} else {
			mult = a.tables.SimplePrefixes[n]
		}
		if mult == "" {
			mult = fmt.Sprintf("%d-", n)
		}
	}
	body := e.name
	if e.compound {
		body = "(" + body + ")"
	}
	if omit || n == 0 {
		return mult + body
	}
	return joinParts(locantList(e.locants), mult+body)
}

// alphaKey is the alphabetization key: letters only, ignoring locants,
// brackets and any multiplying prefix already embedded in a compound name.
func alphaKey(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ─── parent, unsaturation and suffix ─────────────────────────────────────

// unsaturation is one multiple bond with its resolved locant.
type unsaturation struct {
	locant int
	triple bool
}

func parentUnsaturations(p *structure.ParentStructure) []unsaturation {
	var out []unsaturation
	resolve := func(a, b int, order molecule.BondOrder) {
		la, lb := p.AtomLocant[a], p.AtomLocant[b]
		if lb < la {
			la = lb
		}
		out = append(out, unsaturation{locant: la, triple: order == molecule.Triple})
	}

	switch {
	case p.Kind == structure.KindChain && p.Chain != nil:
		for _, mb := range p.Chain.MultipleBonds {
			resolve(p.Chain.Atoms[mb.Position-1], p.Chain.Atoms[mb.Position], mb.Order)
		}
	case p.Kind == structure.KindRing && p.Ring != nil && !p.Ring.Polycyclic:
		for _, mb := range p.Ring.MultipleBonds {
			resolve(p.Ring.Atoms[mb.Position-1], p.Ring.Atoms[mb.Position%p.Ring.Size], mb.Order)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].locant < out[j].locant })
	return out
}

// parentPart renders hydride stem, unsaturation infixes and the principal
// suffix.
func (a *Assembler) parentPart(p *structure.ParentStructure, principal structure.FunctionalGroup, hasPrincipal bool, unsat []unsaturation, omit bool, features int) (string, error) {
	name := p.BaseName

	if len(unsat) > 0 {
		if !strings.HasSuffix(name, "ane") {
			return "", errors.New(errors.CodeNamingPrecondition, "unsaturation on a non-alkane parent").
				WithDetail("base=" + name)
		}
		stem := strings.TrimSuffix(name, "ane")
		omitUnsat := omit || (features == 1 && p.PositionCount() <= 3)
		name = a.unsaturatedStem(stem, unsat, omitUnsat)
	}

	if !hasPrincipal {
		return name, nil
	}

	suffix := principal.Suffix
	if principal.Multiplicity > 1 {
		mult := a.tables.SimplePrefixes[principal.Multiplicity]
		if mult == "" {
			return "", errors.New(errors.CodeNamingTableInvalid, "no multiplying prefix for suffix").
				WithDetail(fmt.Sprintf("multiplicity=%d", principal.Multiplicity))
		}
		suffix = mult + suffix
	}

	if startsWithVowel(suffix) {
		name = strings.TrimSuffix(name, "e")
	}

	omitSuffix := omit || principal.TerminalOnly ||
		(principal.Multiplicity == 1 && p.PositionCount() <= 2)
	if omitSuffix || len(principal.Locants) == 0 {
		return name + suffix, nil
	}
	return joinParts(name, locantList(principal.Locants), suffix), nil
}

// unsaturatedStem renders "but" + ene/yne infixes: but-2-ene, buta-1,3-diene,
// pent-1-en-4-yne.
func (a *Assembler) unsaturatedStem(stem string, unsat []unsaturation, omitLocants bool) string {
	var enes, ynes []int
	for _, u := range unsat {
		if u.triple {
			ynes = append(ynes, u.locant)
		} else {
			enes = append(enes, u.locant)
		}
	}

	render := func(base string, locs []int, tail string) string {
		if len(locs) > 1 {
			tail = a.tables.SimplePrefixes[len(locs)] + tail
			if !strings.HasSuffix(base, "a") {
				base += "a"
			}
		}
		if omitLocants {
			return base + tail
		}
		return joinParts(base, locantList(locs), tail)
	}

	name := stem
	if len(enes) > 0 {
		name = render(name, enes, "ene")
	}
	if len(ynes) > 0 {
		name = strings.TrimSuffix(name, "e")
		name = render(name, ynes, "yne")
	}
	return name
}

// retainedAcid substitutes a trivial acid name when the structure is the bare
// acid: a single carboxyl on an unbranched, saturated chain with a retained
// entry for its length.
func (a *Assembler) retainedAcid(p *structure.ParentStructure, principal structure.FunctionalGroup, prefixes []prefixEntry, unsat []unsaturation) (string, bool) {
	if p.Kind != structure.KindChain || principal.Multiplicity != 1 {
		return "", false
	}
	if len(prefixes) > 0 || len(unsat) > 0 {
		return "", false
	}
	name, ok := a.tables.RetainedAcids[p.PositionCount()]
	return name, ok
}

// esterAlkylWord names the O-alkyl component of an ester as a separate word
// ("methyl " in methyl ethanoate).  The component is sized by the carbon
// count of the branch behind the bridging oxygen; branched components fall
// back to the plain word-less form.
func (a *Assembler) esterAlkylWord(st *structure.NamingState, principal structure.FunctionalGroup) string {
	if principal.Multiplicity != 1 || st.Molecule == nil {
		return ""
	}
	owned := map[int]bool{}
	for _, id := range principal.Atoms {
		owned[id] = true
	}

	// The bridging oxygen is the owned O with a carbon neighbor outside the
	// group.
	start := -1
	for _, id := range principal.Atoms {
		if st.Molecule.Atom(id).Element != "O" {
			continue
		}
		for _, nb := range st.Molecule.Neighbors(id) {
			if !owned[nb] && st.Molecule.IsCarbon(nb) {
				start = nb
			}
		}
	}
	if start < 0 {
		return ""
	}

	carbons := 0
	seen := map[int]bool{}
	queue := []int{start}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if seen[id] || owned[id] {
			continue
		}
		seen[id] = true
		if st.Molecule.IsCarbon(id) {
			carbons++
		}
		queue = append(queue, st.Molecule.Neighbors(id)...)
	}
	stem, ok := a.tables.AlkaneStems[carbons]
	if !ok {
		return ""
	}
	return stem + "yl "
}

// ─── formatting helpers ──────────────────────────────────────────────────

// omitAllLocants decides whether locants add no information: single-position
// parents always, homogeneous monocycles and two-carbon chains when exactly
// one locant-bearing feature exists.
func omitAllLocants(p *structure.ParentStructure, features int) bool {
	if p.PositionCount() <= 1 {
		return true
	}
	if features != 1 {
		return false
	}
	switch p.Kind {
	case structure.KindChain:
		return p.PositionCount() <= 2
	case structure.KindRing:
		return !p.Ring.Polycyclic && len(p.Ring.Heteroatoms) == 0
	}
	return false
}

func locantList(locs []int) string {
	parts := make([]string, len(locs))
	for i, l := range locs {
		parts[i] = strconv.Itoa(l)
	}
	return strings.Join(parts, ",")
}

func startsWithVowel(s string) bool {
	if s == "" {
		return false
	}
	switch s[0] {
	case 'a', 'e', 'i', 'o', 'u', 'y':
		return true
	}
	return false
}

// joinParts concatenates name parts, inserting a hyphen wherever a digit
// meets a letter boundary (or two locant lists meet).
func joinParts(parts ...string) string {
	var b strings.Builder
	for _, part := range parts {
		if part == "" {
			continue
		}
		if b.Len() > 0 && needHyphen(lastByte(b.String()), part[0]) {
			b.WriteByte('-')
		}
		b.WriteString(part)
	}
	return b.String()
}

func needHyphen(prev, next byte) bool {
	return isDigit(prev) != isDigit(next) || (isDigit(prev) && isDigit(next))
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func lastByte(s string) byte { return s[len(s)-1] }

// tidy collapses accidental runs of hyphens and trims the edges.
func tidy(name string) string {
	for strings.Contains(name, "--") {
		name = strings.ReplaceAll(name, "--", "-")
	}
	return strings.Trim(name, "-")
}
