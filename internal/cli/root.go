// Package cli implements fsctl, the FuelSync operations CLI.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/fuelsync/backend/internal/infrastructure/config"
	"github.com/fuelsync/backend/internal/infrastructure/logger"
	"github.com/fuelsync/backend/internal/infrastructure/persistence"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Verbose    bool
	Format     string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for fsctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "fsctl",
		Short: "FuelSync operations CLI",
		Long:  "Seed data, check the database and run alert evaluations outside the API server.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to config file (default: ./config.toml)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewCheckDBCommand(opts))
	cmd.AddCommand(NewValidateSchemaCommand(opts))
	cmd.AddCommand(NewAlertsCommand(opts))

	return cmd
}

// env is what a command needs to reach the database
type env struct {
	cfg *config.Config
	log *zap.Logger
	db  *persistence.Database
}

func openEnv(opts *RootOptions) (*env, error) {
	cfg, err := config.LoadFrom(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	level := "warn"
	if opts.Verbose {
		level = "debug"
	}
	log, err := logger.New(logger.Config{Level: level, Format: "console", Output: "stderr", Service: "fsctl"})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, logger.NewGormLogger(log, logger.GormLevel(level)))
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return &env{cfg: cfg, log: log, db: db}, nil
}

func (e *env) Close() {
	_ = e.db.Close()
	_ = e.log.Sync()
}

// printResult writes v as indented JSON, or text through the given printer
func printResult(w io.Writer, format string, v any, text func(io.Writer)) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(w)
	return nil
}
