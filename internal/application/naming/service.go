// Package naming is the application service: it parses input structures,
// runs the rule engine, and records the operational signals (logs, metrics,
// cache) the engine itself stays free of.
package naming

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/benzenoid/nomenclator/internal/domain/molecule"
	"github.com/benzenoid/nomenclator/internal/domain/structure"
	"github.com/benzenoid/nomenclator/internal/infrastructure/cache"
	"github.com/benzenoid/nomenclator/internal/infrastructure/monitoring/logging"
	"github.com/benzenoid/nomenclator/internal/infrastructure/monitoring/prometheus"
	"github.com/benzenoid/nomenclator/internal/intelligence/ruleengine"
	"github.com/benzenoid/nomenclator/pkg/errors"
	nomtypes "github.com/benzenoid/nomenclator/pkg/types/nomenclature"
)

// Options configures a Service.  Zero values select working defaults: nop
// logger, built-in tables, nop cache, unregistered metrics.
type Options struct {
	Logger  logging.Logger
	Tables  *structure.Tables
	Cache   cache.ResultCache
	Metrics *prometheus.Metrics

	// AromaticityThreshold is forwarded to the engine's ring classifier;
	// zero selects the built-in default.
	AromaticityThreshold float64
}

// Service names molecules from SMILES input.
type Service struct {
	logger    logging.Logger
	cache     cache.ResultCache
	metrics   *prometheus.Metrics
	threshold float64

	mu     sync.RWMutex
	engine *ruleengine.Engine
}

func NewService(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logger.Named("naming")

	c := opts.Cache
	if c == nil {
		c = cache.NewNop()
	}
	m := opts.Metrics
	if m == nil {
		m = prometheus.NewNop()
	}

	s := &Service{
		logger:    logger,
		cache:     c,
		metrics:   m,
		threshold: opts.AromaticityThreshold,
	}
	s.engine = ruleengine.New(ruleengine.Deps{
		Logger:               logger,
		Tables:               opts.Tables,
		AromaticityThreshold: opts.AromaticityThreshold,
	})
	return s
}

// ReloadTables swaps in a fresh vocabulary.  In-flight calls finish on the
// engine they started with.
func (s *Service) ReloadTables(tables *structure.Tables) {
	engine := ruleengine.New(ruleengine.Deps{
		Logger:               s.logger,
		Tables:               tables,
		AromaticityThreshold: s.threshold,
	})
	s.mu.Lock()
	s.engine = engine
	s.mu.Unlock()
	s.logger.Info("naming tables reloaded")
}

// Name parses smiles and produces its systematic name with audit trail.
func (s *Service) Name(ctx context.Context, smiles string) (*nomtypes.NamingResult, error) {
	requestID := uuid.NewString()
	logger := s.logger.With(logging.String("request_id", requestID))
	start := time.Now()

	if cached, err := s.cache.Get(ctx, smiles); err == nil {
		s.metrics.CacheHitsTotal.Inc()
		logger.Debug("cache hit", logging.String("smiles", smiles))
		return cached, nil
	}
	s.metrics.CacheMissesTotal.Inc()

	mol, err := molecule.ParseSMILES(smiles)
	if err != nil {
		s.metrics.NamesTotal.WithLabelValues("error").Inc()
		logger.Warn("parse failed",
			logging.String("smiles", smiles), logging.Err(err))
		return nil, err
	}

	s.mu.RLock()
	engine := s.engine
	s.mu.RUnlock()

	result, err := engine.Run(ctx, mol)
	if err != nil {
		s.metrics.NamesTotal.WithLabelValues("error").Inc()
		logger.Error("naming failed",
			logging.String("smiles", smiles), logging.Err(err))
		return nil, err
	}
	result.Input = smiles
	s.record(result, time.Since(start))

	logger.Info("molecule named",
		logging.String("smiles", smiles),
		logging.String("name", result.Name),
		logging.Float64("confidence", result.Confidence),
		logging.Int("rules_applied", len(result.AuditLog)),
		logging.Duration("elapsed", time.Since(start)))

	if err := s.cache.Set(ctx, smiles, result); err != nil {
		logger.Warn("cache store failed", logging.Err(err))
	}
	return result, nil
}

// BatchItem pairs one batch input with its outcome.
type BatchItem struct {
	Input  string                 `json:"input"`
	Result *nomtypes.NamingResult `json:"result,omitempty"`
	Error  string                 `json:"error,omitempty"`
}

// NameBatch names every input, one item per input in order.  Individual
// failures land in the item, not the returned error; only context
// cancellation aborts the batch.
func (s *Service) NameBatch(ctx context.Context, inputs []string) ([]BatchItem, error) {
	items := make([]BatchItem, 0, len(inputs))
	for _, in := range inputs {
		if err := ctx.Err(); err != nil {
			return items, errors.Wrap(err, errors.CodeTimeout, "batch canceled")
		}
		result, err := s.Name(ctx, in)
		item := BatchItem{Input: in}
		if err != nil {
			item.Error = err.Error()
		} else {
			item.Result = result
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *Service) record(result *nomtypes.NamingResult, elapsed time.Duration) {
	outcome := "ok"
	if result.Degraded() {
		outcome = "degraded"
	}
	s.metrics.NamesTotal.WithLabelValues(outcome).Inc()
	s.metrics.NamingDuration.WithLabelValues("total").Observe(elapsed.Seconds())
	s.metrics.SchemesSearched.Observe(float64(result.SchemesSearched))
	for _, app := range result.AuditLog {
		s.metrics.RuleApplicationsTotal.WithLabelValues(string(app.Phase), app.RuleID).Inc()
	}
	for _, c := range result.Conflicts {
		s.metrics.ConflictsTotal.WithLabelValues(string(c.Type)).Inc()
	}
}
