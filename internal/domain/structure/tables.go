package structure

import (
	"fmt"

	"github.com/benzenoid/nomenclator/pkg/errors"
)

// The naming tables are static rule data: the functional-group catalogue and
// the name vocabulary (hydride stems, multiplicative prefixes, heterocycle
// and retained names).  They are loaded once at process start from a YAML
// resource; when none is configured the built-in defaults below are used.
// Entries a deployment disagrees with (the classic azirane/aziridine split)
// are overridden in configuration, not in code.

// GroupDef is one functional-group catalogue entry.  PatternRef names a
// built-in structural pattern in the detector's registry; the table binds
// naming data and seniority to it.
type GroupDef struct {
	Type         string `yaml:"type"`
	PatternRef   string `yaml:"pattern"`
	Prefix       string `yaml:"prefix"`
	Suffix       string `yaml:"suffix"`
	Priority     int    `yaml:"priority"`
	TerminalOnly bool   `yaml:"terminal_only"`
}

// Tables bundles all static naming vocabulary.
type Tables struct {
	// Groups is the functional-group catalogue, seniority ascending.
	Groups []GroupDef `yaml:"groups"`

	// AlkaneStems maps chain length to the hydride stem ("meth", "eth", ...).
	AlkaneStems map[int]string `yaml:"alkane_stems"`

	// SimplePrefixes maps multiplicity to di/tri/tetra forms (index from 2).
	SimplePrefixes map[int]string `yaml:"simple_prefixes"`

	// CompoundPrefixes maps multiplicity to bis/tris forms.
	CompoundPrefixes map[int]string `yaml:"compound_prefixes"`

	// Heterocycles maps "<size>/<element>/<arom|sat>" to a ring name.
	Heterocycles map[string]string `yaml:"heterocycles"`

	// HeteroHydrides maps an element to its mononuclear parent hydride name.
	HeteroHydrides map[string]string `yaml:"hetero_hydrides"`

	// RetainedAcids maps carbon count to a retained acid name that replaces
	// the assembled parent+suffix outright.
	RetainedAcids map[int]string `yaml:"retained_acids"`

	// HalogenPrefixes maps a halogen element to its substituent prefix.
	HalogenPrefixes map[string]string `yaml:"halogen_prefixes"`
}

// HeterocycleKey builds the Heterocycles lookup key.
func HeterocycleKey(size int, element string, aromatic bool) string {
	state := "sat"
	if aromatic {
		state = "arom"
	}
	return fmt.Sprintf("%d/%s/%s", size, element, state)
}

// Validate rejects tables that would produce broken names.
func (t *Tables) Validate() error {
	if len(t.Groups) == 0 {
		return errors.New(errors.CodeNamingTableInvalid, "group catalogue is empty")
	}
	seen := map[string]bool{}
	for _, g := range t.Groups {
		if g.Type == "" || g.PatternRef == "" {
			return errors.New(errors.CodeNamingTableInvalid, "group entry missing type or pattern").
				WithDetail(fmt.Sprintf("type=%q pattern=%q", g.Type, g.PatternRef))
		}
		if g.Prefix == "" && g.Suffix == "" {
			return errors.New(errors.CodeNamingTableInvalid, "group entry has neither prefix nor suffix").
				WithDetail("type=" + g.Type)
		}
		if seen[g.Type] {
			return errors.New(errors.CodeNamingTableInvalid, "duplicate group type").
				WithDetail("type=" + g.Type)
		}
		seen[g.Type] = true
	}
	if t.AlkaneStems[1] == "" {
		return errors.New(errors.CodeNamingTableInvalid, "alkane stems missing entry for length 1")
	}
	return nil
}

// DefaultTables returns the built-in vocabulary covering the common groups
// and parents.  A configured table file replaces this wholesale.
func DefaultTables() *Tables {
	return &Tables{
		Groups: []GroupDef{
			{Type: "carboxylic_acid", PatternRef: "carboxylic_acid", Prefix: "carboxy", Suffix: "oic acid", Priority: 1, TerminalOnly: true},
			{Type: "ester", PatternRef: "ester", Prefix: "alkoxycarbonyl", Suffix: "oate", Priority: 2, TerminalOnly: true},
			{Type: "amide", PatternRef: "amide", Prefix: "carbamoyl", Suffix: "amide", Priority: 3, TerminalOnly: true},
			{Type: "nitrile", PatternRef: "nitrile", Prefix: "cyano", Suffix: "nitrile", Priority: 4, TerminalOnly: true},
			{Type: "aldehyde", PatternRef: "aldehyde", Prefix: "oxo", Suffix: "al", Priority: 5, TerminalOnly: true},
			{Type: "ketone", PatternRef: "ketone", Prefix: "oxo", Suffix: "one", Priority: 6},
			{Type: "alcohol", PatternRef: "alcohol", Prefix: "hydroxy", Suffix: "ol", Priority: 7},
			{Type: "amine", PatternRef: "amine", Prefix: "amino", Suffix: "amine", Priority: 8},
			{Type: "ether", PatternRef: "ether", Prefix: "oxy", Suffix: "", Priority: 9},
		},
		AlkaneStems: map[int]string{
			1: "meth", 2: "eth", 3: "prop", 4: "but", 5: "pent",
			6: "hex", 7: "hept", 8: "oct", 9: "non", 10: "dec",
			11: "undec", 12: "dodec", 13: "tridec", 14: "tetradec", 15: "pentadec",
			16: "hexadec", 17: "heptadec", 18: "octadec", 19: "nonadec", 20: "icos",
		},
		SimplePrefixes: map[int]string{
			2: "di", 3: "tri", 4: "tetra", 5: "penta", 6: "hexa",
			7: "hepta", 8: "octa", 9: "nona", 10: "deca",
		},
		CompoundPrefixes: map[int]string{
			2: "bis", 3: "tris", 4: "tetrakis", 5: "pentakis", 6: "hexakis",
		},
		Heterocycles: map[string]string{
			HeterocycleKey(3, "N", false): "aziridine",
			HeterocycleKey(3, "O", false): "oxirane",
			HeterocycleKey(3, "S", false): "thiirane",
			HeterocycleKey(4, "N", false): "azetidine",
			HeterocycleKey(4, "O", false): "oxetane",
			HeterocycleKey(4, "S", false): "thietane",
			HeterocycleKey(5, "N", false): "pyrrolidine",
			HeterocycleKey(5, "O", false): "oxolane",
			HeterocycleKey(5, "S", false): "thiolane",
			HeterocycleKey(5, "N", true):  "pyrrole",
			HeterocycleKey(5, "O", true):  "furan",
			HeterocycleKey(5, "S", true):  "thiophene",
			HeterocycleKey(6, "N", false): "piperidine",
			HeterocycleKey(6, "O", false): "oxane",
			HeterocycleKey(6, "S", false): "thiane",
			HeterocycleKey(6, "N", true):  "pyridine",
			HeterocycleKey(6, "O", true):  "pyran",
		},
		HeteroHydrides: map[string]string{
			"N": "azane",
			"O": "oxidane",
			"S": "sulfane",
			"P": "phosphane",
			"B": "borane",
		},
		RetainedAcids: map[int]string{
			1: "formic acid",
			2: "acetic acid",
			3: "propionic acid",
		},
		HalogenPrefixes: map[string]string{
			"F":  "fluoro",
			"Cl": "chloro",
			"Br": "bromo",
			"I":  "iodo",
		},
	}
}
