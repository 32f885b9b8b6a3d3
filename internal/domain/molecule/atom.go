// Package molecule provides the immutable molecular graph the naming engine
// operates on, plus the ingestion surfaces that produce it: a SMILES parser,
// ring perception, and a structural pattern matcher used by the functional
// group detector.
//
// A Molecule is constructed once and never altered; every downstream stage
// reads it through accessor methods and builds its own value trees.
package molecule

// BondOrder is the multiplicity of a bond.
type BondOrder int

const (
	Single   BondOrder = 1
	Double   BondOrder = 2
	Triple   BondOrder = 3
	Aromatic BondOrder = 4
)

func (o BondOrder) String() string {
	switch o {
	case Single:
		return "single"
	case Double:
		return "double"
	case Triple:
		return "triple"
	case Aromatic:
		return "aromatic"
	}
	return "unknown"
}

// Atom is one node of the molecular graph.  IDs are dense and stable: atom i
// of a molecule with n atoms has ID i in [0, n).
type Atom struct {
	ID        int    `json:"id"`
	Element   string `json:"element"`
	Aromatic  bool   `json:"aromatic"`
	ImplicitH int    `json:"implicit_h"`
	Charge    int    `json:"charge"`

	// InRing is set during molecule construction from the perceived rings.
	InRing bool `json:"in_ring"`
}

// Bond is one edge of the molecular graph, referencing atoms by ID.
type Bond struct {
	From  int       `json:"from"`
	To    int       `json:"to"`
	Order BondOrder `json:"order"`
}

// AtomRef is a tagged reference to an atom: either an ID into an existing
// Molecule or an inline Atom value awaiting ingestion.  References are
// resolved to canonical IDs exactly once, at the Molecule construction
// boundary; after that only IDs circulate.
type AtomRef struct {
	id     int
	inline *Atom
}

// RefByID constructs an AtomRef to an already-ingested atom.
func RefByID(id int) AtomRef { return AtomRef{id: id} }

// RefInline constructs an AtomRef carrying an atom value that has not been
// assigned an ID yet.
func RefInline(a Atom) AtomRef { return AtomRef{id: -1, inline: &a} }

// Resolved reports whether the reference already carries a canonical ID.
func (r AtomRef) Resolved() bool { return r.inline == nil }

// ID returns the canonical atom ID.  Calling ID on an unresolved inline
// reference returns -1.
func (r AtomRef) ID() int {
	if r.inline != nil {
		return -1
	}
	return r.id
}

// Inline returns the carried atom value for unresolved references, nil
// otherwise.
func (r AtomRef) Inline() *Atom { return r.inline }

// standardValences gives the default valence used to derive implicit
// hydrogen counts for organic-subset atoms.
var standardValences = map[string]int{
	"B":  3,
	"C":  4,
	"N":  3,
	"O":  2,
	"P":  3,
	"S":  2,
	"F":  1,
	"Cl": 1,
	"Br": 1,
	"I":  1,
}

// StandardValence returns the default valence for an element and whether the
// element is known to the engine.
func StandardValence(element string) (int, bool) {
	v, ok := standardValences[element]
	return v, ok
}
