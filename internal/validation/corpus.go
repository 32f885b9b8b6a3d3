// Package validation replays a reference corpus of structures with known
// names through the naming service and reports agreement.
package validation

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/benzenoid/nomenclator/internal/application/naming"
	"github.com/benzenoid/nomenclator/internal/infrastructure/monitoring/logging"
	"github.com/benzenoid/nomenclator/pkg/errors"
)

// Entry is one corpus case: a structure and the name it should receive.
type Entry struct {
	SMILES   string `yaml:"smiles"`
	Expected string `yaml:"expected"`
}

// Corpus is a list of reference cases.
type Corpus struct {
	Entries []Entry `yaml:"entries"`
}

// LoadCorpus reads a YAML corpus file.
func LoadCorpus(path string) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeCorpusInvalid, "read corpus file")
	}
	corpus := &Corpus{}
	if err := yaml.Unmarshal(data, corpus); err != nil {
		return nil, errors.Wrap(err, errors.CodeCorpusInvalid, "parse corpus file")
	}
	if err := corpus.Validate(); err != nil {
		return nil, err
	}
	return corpus, nil
}

// Validate rejects corpora with unusable entries.
func (c *Corpus) Validate() error {
	if len(c.Entries) == 0 {
		return errors.New(errors.CodeCorpusInvalid, "corpus has no entries")
	}
	for i, e := range c.Entries {
		if e.SMILES == "" || e.Expected == "" {
			return errors.New(errors.CodeCorpusInvalid, "corpus entry missing smiles or expected name").
				WithDetail(fmt.Sprintf("entry %d", i))
		}
	}
	return nil
}

// Mismatch records one disagreement between produced and expected name.
type Mismatch struct {
	SMILES   string `json:"smiles"`
	Expected string `json:"expected"`
	Got      string `json:"got"`
	Error    string `json:"error,omitempty"`
}

// Report summarizes one corpus replay.
type Report struct {
	Total      int        `json:"total"`
	Agreed     int        `json:"agreed"`
	Degraded   int        `json:"degraded"`
	Mismatches []Mismatch `json:"mismatches,omitempty"`
}

// Agreement is the fraction of entries whose names matched, 0 for an empty
// replay.
func (r *Report) Agreement() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Agreed) / float64(r.Total)
}

// Replayer drives a corpus through the naming service.
type Replayer struct {
	svc    *naming.Service
	logger logging.Logger
}

func NewReplayer(svc *naming.Service, logger logging.Logger) *Replayer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Replayer{svc: svc, logger: logger.Named("validation")}
}

// Replay names every corpus entry and collects the disagreements.  Entry
// failures are reported as mismatches; only context cancellation aborts.
func (r *Replayer) Replay(ctx context.Context, corpus *Corpus) (*Report, error) {
	report := &Report{Total: len(corpus.Entries)}
	for _, entry := range corpus.Entries {
		if err := ctx.Err(); err != nil {
			return report, errors.Wrap(err, errors.CodeTimeout, "replay canceled")
		}

		result, err := r.svc.Name(ctx, entry.SMILES)
		if err != nil {
			report.Mismatches = append(report.Mismatches, Mismatch{
				SMILES:   entry.SMILES,
				Expected: entry.Expected,
				Error:    err.Error(),
			})
			continue
		}
		if result.Degraded() {
			report.Degraded++
		}
		if result.Name == entry.Expected {
			report.Agreed++
			continue
		}
		r.logger.Debug("name disagreement",
			logging.String("smiles", entry.SMILES),
			logging.String("expected", entry.Expected),
			logging.String("got", result.Name))
		report.Mismatches = append(report.Mismatches, Mismatch{
			SMILES:   entry.SMILES,
			Expected: entry.Expected,
			Got:      result.Name,
		})
	}
	return report, nil
}
