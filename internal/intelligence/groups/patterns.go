// Package groups detects characteristic groups on a molecular graph and
// resolves which of them is expressed as the principal suffix.
package groups

import "github.com/benzenoid/nomenclator/internal/domain/molecule"

// groupPattern pairs a structural query with the pattern atom indexes the
// group claims exclusively.  Owned atoms drive overlap suppression: a junior
// group whose owned atoms collide with a senior group's is discarded, while
// unowned context atoms (a ketone's flanking carbons) stay free for other
// matches.
type groupPattern struct {
	pattern molecule.Pattern
	owned   []int
}

// builtinPatterns returns the structural queries behind every pattern
// reference the default group catalogue uses.  Anchor atom 0 is the parent
// skeleton atom that carries the group's locant throughout.
func builtinPatterns() map[string]groupPattern {
	single := func(a, b int) molecule.PatternBond {
		return molecule.PatternBond{A: a, B: b, Order: molecule.Single}
	}
	double := func(a, b int) molecule.PatternBond {
		return molecule.PatternBond{A: a, B: b, Order: molecule.Double}
	}

	carbonylO := molecule.NewPatternAtom("O")

	hydroxylO := molecule.NewPatternAtom("O")
	hydroxylO.MinHydrogens = 1
	hydroxylO.Aromatic = molecule.MustBeFalse

	bareO := molecule.NewPatternAtom("O")
	bareO.ExactHydrogens = 0
	bareO.Aromatic = molecule.MustBeFalse

	aliphaticN := molecule.NewPatternAtom("N")
	aliphaticN.Aromatic = molecule.MustBeFalse

	aldehydeC := molecule.NewPatternAtom("C")
	aldehydeC.MinHydrogens = 1

	return map[string]groupPattern{
		"carboxylic_acid": {
			pattern: molecule.Pattern{
				Name:  "carboxylic_acid",
				Atoms: []molecule.PatternAtom{molecule.NewPatternAtom("C"), carbonylO, hydroxylO},
				Bonds: []molecule.PatternBond{double(0, 1), single(0, 2)},
			},
			owned: []int{0, 1, 2},
		},
		"ester": {
			pattern: molecule.Pattern{
				Name: "ester",
				Atoms: []molecule.PatternAtom{
					molecule.NewPatternAtom("C"), carbonylO, bareO, molecule.NewPatternAtom("C"),
				},
				Bonds: []molecule.PatternBond{double(0, 1), single(0, 2), single(2, 3)},
			},
			owned: []int{0, 1, 2},
		},
		"amide": {
			pattern: molecule.Pattern{
				Name:  "amide",
				Atoms: []molecule.PatternAtom{molecule.NewPatternAtom("C"), carbonylO, aliphaticN},
				Bonds: []molecule.PatternBond{double(0, 1), single(0, 2)},
			},
			owned: []int{0, 1, 2},
		},
		"nitrile": {
			pattern: molecule.Pattern{
				Name:  "nitrile",
				Atoms: []molecule.PatternAtom{molecule.NewPatternAtom("C"), aliphaticN},
				Bonds: []molecule.PatternBond{{A: 0, B: 1, Order: molecule.Triple}},
			},
			owned: []int{0, 1},
		},
		"aldehyde": {
			pattern: molecule.Pattern{
				Name:  "aldehyde",
				Atoms: []molecule.PatternAtom{aldehydeC, carbonylO},
				Bonds: []molecule.PatternBond{double(0, 1)},
			},
			owned: []int{0, 1},
		},
		"ketone": {
			pattern: molecule.Pattern{
				Name: "ketone",
				Atoms: []molecule.PatternAtom{
					molecule.NewPatternAtom("C"), carbonylO,
					molecule.NewPatternAtom("C"), molecule.NewPatternAtom("C"),
				},
				Bonds: []molecule.PatternBond{double(0, 1), single(0, 2), single(0, 3)},
			},
			owned: []int{0, 1},
		},
		"alcohol": {
			pattern: molecule.Pattern{
				Name:  "alcohol",
				Atoms: []molecule.PatternAtom{molecule.NewPatternAtom("C"), hydroxylO},
				Bonds: []molecule.PatternBond{single(0, 1)},
			},
			owned: []int{1},
		},
		"amine": {
			pattern: molecule.Pattern{
				Name:  "amine",
				Atoms: []molecule.PatternAtom{molecule.NewPatternAtom("C"), aliphaticN},
				Bonds: []molecule.PatternBond{single(0, 1)},
			},
			owned: []int{1},
		},
		"ether": {
			pattern: molecule.Pattern{
				Name: "ether",
				Atoms: []molecule.PatternAtom{
					molecule.NewPatternAtom("C"), bareO, molecule.NewPatternAtom("C"),
				},
				Bonds: []molecule.PatternBond{single(0, 1), single(1, 2)},
			},
			owned: []int{1},
		},
	}
}
