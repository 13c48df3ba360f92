package cli

import (
	"fmt"
	"io"

	"github.com/fuelsync/backend/internal/infrastructure/migration"
	"github.com/spf13/cobra"
)

// CheckDBResult is the output of check-db
type CheckDBResult struct {
	migration.DBInfo
	Migrations migration.Status `json:"migrations"`
}

// NewCheckDBCommand creates the check-db command.
func NewCheckDBCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check-db",
		Short: "Check database connectivity and the applied schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(rootOpts)
			if err != nil {
				return err
			}
			defer e.Close()

			sqlDB, err := e.db.DB.DB()
			if err != nil {
				return err
			}
			info, err := migration.CheckConnection(cmd.Context(), sqlDB)
			if err != nil {
				return err
			}
			result := CheckDBResult{DBInfo: *info}

			m, err := migration.New(sqlDB, e.cfg.Database.MigrationsPath, e.log)
			if err != nil {
				return err
			}
			if result.Migrations, err = m.Status(); err != nil {
				return err
			}

			return printResult(cmd.OutOrStdout(), rootOpts.Format, result, func(w io.Writer) {
				fmt.Fprintf(w, "Database: %s\n", result.Database)
				fmt.Fprintf(w, "Server:   %s\n", result.ServerVersion)
				switch {
				case !result.Migrations.Applied:
					fmt.Fprintln(w, "Schema:   no migrations applied")
				case result.Migrations.Dirty:
					fmt.Fprintf(w, "Schema:   version %d (dirty)\n", result.Migrations.Version)
				default:
					fmt.Fprintf(w, "Schema:   version %d\n", result.Migrations.Version)
				}
			})
		},
	}
}

// NewValidateSchemaCommand creates the validate-schema command.
func NewValidateSchemaCommand(rootOpts *RootOptions) *cobra.Command {
	var schema string

	cmd := &cobra.Command{
		Use:   "validate-schema",
		Short: "Report tables and columns the application expects but the database lacks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(rootOpts)
			if err != nil {
				return err
			}
			defer e.Close()

			sqlDB, err := e.db.DB.DB()
			if err != nil {
				return err
			}
			issues, err := migration.ValidateSchema(cmd.Context(), sqlDB, schema)
			if err != nil {
				return err
			}
			if err := printResult(cmd.OutOrStdout(), rootOpts.Format, issues, func(w io.Writer) {
				if len(issues) == 0 {
					fmt.Fprintln(w, "Schema OK")
					return
				}
				for _, issue := range issues {
					fmt.Fprintln(w, "missing", issue.String())
				}
			}); err != nil {
				return err
			}
			if len(issues) > 0 {
				return fmt.Errorf("schema has %d issue(s)", len(issues))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&schema, "schema", "public", "database schema to inspect")
	return cmd
}
