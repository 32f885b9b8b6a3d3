package molecule

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/benzenoid/nomenclator/pkg/errors"
)

// The parser covers the practical SMILES subset the naming engine needs:
// organic-subset atoms (B C N O P S F Cl Br I), aromatic lowercase forms,
// bracket atoms with charge and explicit hydrogen counts, bond symbols
// "- = # :", branches, and ring-closure digits including the %nn form.
// Stereo markers (/ \ @) are accepted and ignored; isotope labels inside
// brackets are skipped.

var validSMILESChars = regexp.MustCompile(`^[A-Za-z0-9@+\-\[\]()=#:/\\%]+$`)

// ParseSMILES tokenizes and parses a SMILES string into an immutable
// Molecule.  Validation failures return typed AppErrors; nothing about the
// input is guessed or repaired.
func ParseSMILES(input string) (*Molecule, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return nil, errors.New(errors.CodeSMILESEmpty, "SMILES string is empty")
	}
	if !validSMILESChars.MatchString(s) {
		return nil, errors.New(errors.CodeSMILESInvalidChar, "SMILES contains invalid characters").
			WithDetail("input=" + s)
	}
	if err := checkBrackets(s); err != nil {
		return nil, err
	}

	p := &smilesParser{input: s}
	if err := p.run(); err != nil {
		return nil, err
	}

	p.assignImplicitHydrogens()
	return New(p.atoms, p.bonds, nil)
}

// checkBrackets verifies () and [] nesting before parsing proper, so that
// bracket errors carry a dedicated code regardless of where parsing would
// have tripped.
func checkBrackets(s string) error {
	var stack []rune
	closers := map[rune]rune{')': '(', ']': '['}
	for _, ch := range s {
		switch ch {
		case '(', '[':
			stack = append(stack, ch)
		case ')', ']':
			if len(stack) == 0 || stack[len(stack)-1] != closers[ch] {
				return errors.New(errors.CodeSMILESUnbalanced, "unmatched bracket in SMILES").
					WithDetail("input=" + s)
			}
			stack = stack[:len(stack)-1]
		}
	}
	if len(stack) != 0 {
		return errors.New(errors.CodeSMILESUnbalanced, "unclosed bracket in SMILES").
			WithDetail("input=" + s)
	}
	return nil
}

type pendingClosure struct {
	atom  int
	order BondOrder
}

type smilesParser struct {
	input string
	pos   int

	atoms []Atom
	bonds []Bond

	// explicitH holds bracket-atom hydrogen counts; -1 means "derive from
	// standard valence" (non-bracket atoms).
	explicitH []int

	prev        int
	branchStack []int
	pendingBond BondOrder
	closures    map[int]pendingClosure
}

func (p *smilesParser) run() error {
	p.prev = -1
	p.pendingBond = 0
	p.closures = make(map[int]pendingClosure)

	for p.pos < len(p.input) {
		ch := p.input[p.pos]
		switch {
		case ch == '(':
			if p.prev < 0 {
				return p.fail("branch opened before any atom")
			}
			p.branchStack = append(p.branchStack, p.prev)
			p.pos++
		case ch == ')':
			if len(p.branchStack) == 0 {
				return p.fail("branch closed without opening")
			}
			p.prev = p.branchStack[len(p.branchStack)-1]
			p.branchStack = p.branchStack[:len(p.branchStack)-1]
			p.pos++
		case ch == '-':
			p.pendingBond = Single
			p.pos++
		case ch == '=':
			p.pendingBond = Double
			p.pos++
		case ch == '#':
			p.pendingBond = Triple
			p.pos++
		case ch == ':':
			p.pendingBond = Aromatic
			p.pos++
		case ch == '/' || ch == '\\':
			// Stereo bond markers: direction is ignored, bond is single.
			p.pendingBond = Single
			p.pos++
		case ch >= '0' && ch <= '9':
			if err := p.ringClosure(int(ch - '0')); err != nil {
				return err
			}
			p.pos++
		case ch == '%':
			if p.pos+2 >= len(p.input) || !isDigit(p.input[p.pos+1]) || !isDigit(p.input[p.pos+2]) {
				return p.fail("%% ring closure needs two digits")
			}
			num := int(p.input[p.pos+1]-'0')*10 + int(p.input[p.pos+2]-'0')
			if err := p.ringClosure(num); err != nil {
				return err
			}
			p.pos += 3
		case ch == '[':
			if err := p.bracketAtom(); err != nil {
				return err
			}
		default:
			if err := p.organicAtom(); err != nil {
				return err
			}
		}
	}

	if len(p.closures) != 0 {
		return errors.New(errors.CodeSMILESRingUnclosed, "ring bond never closed").
			WithDetail("input=" + p.input)
	}
	if len(p.atoms) == 0 {
		return errors.New(errors.CodeSMILESParseFailed, "SMILES contains no atoms").
			WithDetail("input=" + p.input)
	}
	return nil
}

func (p *smilesParser) fail(msg string) error {
	return errors.New(errors.CodeSMILESParseFailed, msg).
		WithDetail(fmt.Sprintf("offset=%d input=%s", p.pos, p.input))
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// organicAtom consumes a non-bracket atom symbol at the current position.
// Two-letter halogens are matched before single letters.
func (p *smilesParser) organicAtom() error {
	rest := p.input[p.pos:]

	var symbol string
	aromatic := false
	switch {
	case strings.HasPrefix(rest, "Cl"):
		symbol = "Cl"
	case strings.HasPrefix(rest, "Br"):
		symbol = "Br"
	case rest[0] == 'B' || rest[0] == 'C' || rest[0] == 'N' || rest[0] == 'O' ||
		rest[0] == 'P' || rest[0] == 'S' || rest[0] == 'F' || rest[0] == 'I':
		symbol = string(rest[0])
	case rest[0] == 'b' || rest[0] == 'c' || rest[0] == 'n' || rest[0] == 'o' ||
		rest[0] == 'p' || rest[0] == 's':
		symbol = strings.ToUpper(string(rest[0]))
		aromatic = true
	default:
		return p.fail(fmt.Sprintf("unexpected character %q", rest[0]))
	}

	p.pos += len(symbol)
	return p.addAtom(Atom{Element: symbol, Aromatic: aromatic}, -1)
}

// bracketAtom consumes "[...]" starting at '['.
func (p *smilesParser) bracketAtom() error {
	end := strings.IndexByte(p.input[p.pos:], ']')
	if end < 0 {
		return p.fail("unterminated bracket atom")
	}
	body := p.input[p.pos+1 : p.pos+end]
	start := p.pos
	p.pos += end + 1

	i := 0
	// Isotope label: leading digits, ignored.
	for i < len(body) && isDigit(body[i]) {
		i++
	}
	if i == len(body) {
		return errors.New(errors.CodeSMILESParseFailed, "bracket atom has no element").
			WithDetail(fmt.Sprintf("offset=%d input=%s", start, p.input))
	}

	// Element symbol: uppercase + optional lowercase, or a lone aromatic
	// lowercase letter.
	var symbol string
	aromatic := false
	c := body[i]
	switch {
	case c >= 'A' && c <= 'Z':
		symbol = string(c)
		i++
		if i < len(body) && body[i] >= 'a' && body[i] <= 'z' {
			two := symbol + string(body[i])
			if _, known := StandardValence(two); known {
				symbol = two
				i++
			}
		}
	case c >= 'a' && c <= 'z':
		symbol = strings.ToUpper(string(c))
		aromatic = true
		i++
	default:
		return errors.New(errors.CodeSMILESParseFailed, "bracket atom element malformed").
			WithDetail(fmt.Sprintf("offset=%d input=%s", start, p.input))
	}

	// Chirality markers, ignored.
	for i < len(body) && body[i] == '@' {
		i++
	}

	hCount := 0
	if i < len(body) && body[i] == 'H' {
		i++
		hCount = 1
		if i < len(body) && isDigit(body[i]) {
			hCount = int(body[i] - '0')
			i++
		}
	}

	charge := 0
	for i < len(body) && (body[i] == '+' || body[i] == '-') {
		sign := 1
		if body[i] == '-' {
			sign = -1
		}
		i++
		if i < len(body) && isDigit(body[i]) {
			charge += sign * int(body[i]-'0')
			i++
		} else {
			charge += sign
		}
	}

	if i != len(body) {
		return errors.New(errors.CodeSMILESParseFailed, "trailing content in bracket atom").
			WithDetail(fmt.Sprintf("body=%s input=%s", body, p.input))
	}

	return p.addAtom(Atom{Element: symbol, Aromatic: aromatic, Charge: charge}, hCount)
}

func (p *smilesParser) addAtom(a Atom, explicitH int) error {
	if p.prev < 0 && p.pendingBond != 0 {
		return p.fail("bond symbol precedes first atom")
	}
	id := len(p.atoms)
	a.ID = id
	p.atoms = append(p.atoms, a)
	p.explicitH = append(p.explicitH, explicitH)

	if p.prev >= 0 {
		p.bonds = append(p.bonds, Bond{From: p.prev, To: id, Order: p.takeBondOrder(p.prev, id)})
	}
	p.prev = id
	return nil
}

// takeBondOrder consumes the pending bond symbol, defaulting to aromatic
// between two aromatic atoms and single otherwise.
func (p *smilesParser) takeBondOrder(a, b int) BondOrder {
	order := p.pendingBond
	p.pendingBond = 0
	if order != 0 {
		return order
	}
	if p.atoms[a].Aromatic && p.atoms[b].Aromatic {
		return Aromatic
	}
	return Single
}

func (p *smilesParser) ringClosure(num int) error {
	if p.prev < 0 {
		return p.fail("ring closure before any atom")
	}
	if open, ok := p.closures[num]; ok {
		delete(p.closures, num)
		order := p.pendingBond
		p.pendingBond = 0
		if order == 0 {
			order = open.order
		}
		if order == 0 {
			if p.atoms[open.atom].Aromatic && p.atoms[p.prev].Aromatic {
				order = Aromatic
			} else {
				order = Single
			}
		}
		p.bonds = append(p.bonds, Bond{From: open.atom, To: p.prev, Order: order})
		return nil
	}
	p.closures[num] = pendingClosure{atom: p.prev, order: p.pendingBond}
	p.pendingBond = 0
	return nil
}

// assignImplicitHydrogens fills Atom.ImplicitH: bracket atoms use their
// explicit count; organic-subset atoms derive it from the standard valence
// minus the bond order sum.  Aromatic atoms count one extra unit for their
// delocalised ring bond, the usual approximation when no Kekulé structure is
// tracked.
func (p *smilesParser) assignImplicitHydrogens() {
	orderSum := make([]int, len(p.atoms))
	for _, b := range p.bonds {
		inc := int(b.Order)
		if b.Order == Aromatic {
			inc = 1
		}
		orderSum[b.From] += inc
		orderSum[b.To] += inc
	}

	for i := range p.atoms {
		if p.explicitH[i] >= 0 {
			p.atoms[i].ImplicitH = p.explicitH[i]
			continue
		}
		valence, _ := StandardValence(p.atoms[i].Element)
		sum := orderSum[i]
		if p.atoms[i].Aromatic {
			sum++
		}
		h := valence + p.atoms[i].Charge - sum
		if h < 0 {
			h = 0
		}
		p.atoms[i].ImplicitH = h
	}
}
