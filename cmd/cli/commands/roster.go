package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/rail-roster/internal/config"
	"github.com/jakechorley/rail-roster/pkg/core/services"
	"github.com/jakechorley/rail-roster/pkg/core/timeutil"
	"github.com/jakechorley/rail-roster/pkg/db"
)

// ExpandRosterCmd creates the expandRoster command
func ExpandRosterCmd(app *AppContext) *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "expandRoster <from> <to>",
		Short: "Expand the configured roster rules into assignments",
		Long: `Expand the rosterRules in the config into assignments for every date
from <from> to <to> inclusive. Dates are YYYY-MM-DD.

With --save the assignments are written to the roster store. Assignments that
were saved by an earlier run are left alone.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := timeutil.ParseDate(args[0])
			if err != nil {
				return fmt.Errorf("invalid from date %q: %w", args[0], err)
			}
			to, err := timeutil.ParseDate(args[1])
			if err != nil {
				return fmt.Errorf("invalid to date %q: %w", args[1], err)
			}
			if to.Before(from) {
				return fmt.Errorf("to date %s is before from date %s", args[1], args[0])
			}

			app.Logger.Debug("expandRoster command",
				zap.String("from", args[0]),
				zap.String("to", args[1]),
				zap.Bool("save", save))

			if len(app.Cfg.RosterRules) == 0 {
				app.Logger.Warn("No roster rules configured")
			}

			var store db.AssignmentStore
			if save {
				rosterStore, err := app.Store()
				if err != nil {
					return err
				}
				store = rosterStore
			}

			result, err := services.ExpandRoster(app.Ctx, store, app.Logger, app.Cfg.RosterRules, from, to, save)
			if err != nil {
				return err
			}

			return app.render(result, func(w io.Writer) {
				renderExpansion(w, result)
			})
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "Write the expanded assignments to the roster store")

	return cmd
}

// ImportRosterCmd creates the importRoster command
func ImportRosterCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "importRoster <roster.yaml>",
		Short: "Load a roster file into the Postgres database",
		Long: `Load employees, shift patterns and assignments from a roster file into the
Postgres database. Requires rosterSource: postgres.

Employees and shift patterns are updated in place. Assignments that already
exist are skipped, so the same file can be imported again.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Cfg.RosterSource != config.SourcePostgres {
				return fmt.Errorf("importRoster requires rosterSource: %s, got: %s", config.SourcePostgres, app.Cfg.RosterSource)
			}

			app.Logger.Debug("importRoster command", zap.String("file", args[0]))

			source, err := readRosterFile(args[0])
			if err != nil {
				return err
			}

			database, err := app.Postgres()
			if err != nil {
				return err
			}

			result, err := services.ImportRoster(app.Ctx, database, app.Logger, source)
			if err != nil {
				return err
			}

			return app.render(result, func(w io.Writer) {
				renderImport(w, result)
			})
		},
	}

	return cmd
}

func readRosterFile(path string) (*db.Roster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open roster file: %w", err)
	}
	defer f.Close()

	roster, err := db.DecodeRoster(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster file %s: %w", path, err)
	}
	return roster, nil
}
