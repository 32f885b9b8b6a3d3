// Package cli defines the nomenclator command tree.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/benzenoid/nomenclator/internal/application/naming"
	"github.com/benzenoid/nomenclator/internal/config"
	"github.com/benzenoid/nomenclator/internal/infrastructure/monitoring/logging"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// RootOptions holds the global flags shared by every subcommand.
type RootOptions struct {
	ConfigPath string
	LogLevel   string
	Verbose    bool
}

// newService builds the naming service from the resolved configuration.
// Subcommands call it lazily so `--help` never touches config files.
func (o *RootOptions) newService() (*naming.Service, error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return nil, err
	}
	if o.LogLevel != "" {
		cfg.Log.Level = o.LogLevel
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	tables, err := config.LoadTables(cfg.Tables.Path)
	if err != nil {
		return nil, err
	}

	return naming.NewService(naming.Options{
		Logger:               logger,
		Tables:               tables,
		AromaticityThreshold: cfg.Chemistry.AromaticityThreshold,
	}), nil
}

// NewRootCommand creates the root command with global flags and subcommands.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "nomenclator",
		Short:   "Systematic chemical nomenclature from molecular structures",
		Long:    "nomenclator derives systematic substitutive names for molecules\ngiven as SMILES strings, with a full audit trail of the rules applied.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),

		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path")
	pf.StringVar(&opts.LogLevel, "log-level", "", "override log level (debug, info, warn, error)")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "print the rule audit trail")

	cmd.AddCommand(
		newNameCmd(opts),
		newBatchCmd(opts),
		newServeCmd(opts),
	)
	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}
