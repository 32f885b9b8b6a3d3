// Package ruleengine drives the three-phase naming pipeline.  Rules are
// guarded transforms ordered by descending priority inside each phase; the
// engine runs a single pass per phase over an immutable state chain and
// records every application in the audit trail.
package ruleengine

import (
	"context"
	"sort"

	"github.com/benzenoid/nomenclator/internal/domain/molecule"
	"github.com/benzenoid/nomenclator/internal/domain/structure"
	"github.com/benzenoid/nomenclator/internal/infrastructure/monitoring/logging"
	"github.com/benzenoid/nomenclator/internal/intelligence/assembler"
	"github.com/benzenoid/nomenclator/internal/intelligence/candidates"
	"github.com/benzenoid/nomenclator/internal/intelligence/groups"
	"github.com/benzenoid/nomenclator/internal/intelligence/locant"
	"github.com/benzenoid/nomenclator/pkg/errors"
	nomtypes "github.com/benzenoid/nomenclator/pkg/types/nomenclature"
)

// Deps are the collaborators the rules close over.  Nil entries are replaced
// with defaults so tests can construct a bare engine.
type Deps struct {
	Logger    logging.Logger
	Tables    *structure.Tables
	Generator *candidates.Generator
	Detector  *groups.Detector
	Optimizer *locant.Optimizer
	Assembler *assembler.Assembler

	// AromaticityThreshold tunes the default Generator's ring
	// classification; zero selects the built-in default.  Ignored when an
	// explicit Generator is supplied.
	AromaticityThreshold float64
}

func (d *Deps) applyDefaults() {
	if d.Logger == nil {
		d.Logger = logging.NewNop()
	}
	if d.Tables == nil {
		d.Tables = structure.DefaultTables()
	}
	if d.Generator == nil {
		d.Generator = candidates.New(d.Logger, d.AromaticityThreshold)
	}
	if d.Detector == nil {
		d.Detector = groups.NewDetector(d.Logger)
	}
	if d.Optimizer == nil {
		d.Optimizer = locant.NewOptimizer(d.Logger)
	}
	if d.Assembler == nil {
		d.Assembler = assembler.NewAssembler(d.Logger, d.Tables)
	}
}

// Engine executes the rule catalogue.  Construct once and share; Run is safe
// for concurrent use.
type Engine struct {
	logger logging.Logger
	rules  map[nomtypes.Phase][]structure.Rule
}

// New builds an engine with the full rule catalogue registered.
func New(deps Deps) *Engine {
	deps.applyDefaults()
	e := &Engine{
		logger: deps.Logger.Named("engine"),
		rules:  map[nomtypes.Phase][]structure.Rule{},
	}
	e.register(parentRules(deps))
	e.register(numberingRules(deps))
	e.register(assemblyRules(deps))
	return e
}

func (e *Engine) register(rules []structure.Rule) {
	for _, r := range rules {
		e.rules[r.Phase] = append(e.rules[r.Phase], r)
	}
	for _, rs := range e.rules {
		sort.SliceStable(rs, func(i, j int) bool {
			if rs[i].Priority != rs[j].Priority {
				return rs[i].Priority > rs[j].Priority
			}
			return rs[i].ID < rs[j].ID
		})
	}
}

// Run names one molecule.  Rules never abort the pipeline; structural
// problems surface as conflicts on the result.  The only errors returned are
// a nil molecule and context cancellation.
func (e *Engine) Run(ctx context.Context, mol *molecule.Molecule) (*nomtypes.NamingResult, error) {
	if mol == nil {
		return nil, errors.InvalidParam("molecule is nil")
	}

	st := structure.NewState(mol)
	for _, phase := range nomtypes.Phases() {
		select {
		case <-ctx.Done():
			return nil, errors.Wrap(ctx.Err(), errors.CodeTimeout, "naming canceled")
		default:
		}

		st.Phase = phase
		for _, r := range e.rules[phase] {
			if r.When != nil && !r.When(st) {
				continue
			}
			next := r.Apply(st)
			if next == nil || next == st {
				// Declining to change state is the same as a false
				// predicate: no provenance record.
				continue
			}
			next.Audit = append(next.Audit, nomtypes.RuleApplication{
				Ordinal:     len(next.Audit),
				RuleID:      r.ID,
				Phase:       phase,
				Description: r.Name,
			})
			st = next
		}
	}

	e.logger.Debug("naming complete",
		logging.String("name", st.FinalName),
		logging.Float64("confidence", st.Confidence),
		logging.Int("conflicts", len(st.Conflicts)))

	return &nomtypes.NamingResult{
		Name:            st.FinalName,
		Confidence:      st.Confidence,
		Conflicts:       st.Conflicts,
		AuditLog:        st.Audit,
		SchemesSearched: st.SchemesSearched,
	}, nil
}
