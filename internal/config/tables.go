package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/benzenoid/nomenclator/internal/domain/structure"
	"github.com/benzenoid/nomenclator/internal/infrastructure/monitoring/logging"
	"github.com/benzenoid/nomenclator/pkg/errors"
)

// LoadTables reads vocabulary tables from the YAML file at path. An empty
// path returns the built-in tables.
func LoadTables(path string) (*structure.Tables, error) {
	if path == "" {
		return structure.DefaultTables(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeNamingTableInvalid, "read tables file")
	}
	tables := &structure.Tables{}
	if err := yaml.Unmarshal(data, tables); err != nil {
		return nil, errors.Wrap(err, errors.CodeNamingTableInvalid, "parse tables file")
	}
	if err := tables.Validate(); err != nil {
		return nil, err
	}
	return tables, nil
}

// WatchTables reloads the tables file whenever it changes and passes each
// valid version to onChange. Invalid versions are logged and skipped, so the
// last good tables stay in effect. It blocks until ctx is canceled.
func WatchTables(ctx context.Context, path string, logger logging.Logger, onChange func(*structure.Tables)) error {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logger.Named("tables")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "create tables watcher")
	}
	defer watcher.Close()

	// Watch the directory: editors often replace the file rather than
	// writing it in place, which drops a watch on the file itself.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "watch tables directory")
	}
	target := filepath.Clean(path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			tables, err := LoadTables(path)
			if err != nil {
				logger.Warn("tables reload failed, keeping previous tables",
					logging.String("path", path), logging.Err(err))
				continue
			}
			logger.Info("tables reloaded", logging.String("path", path))
			onChange(tables)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("tables watcher error", logging.Err(err))
		}
	}
}
