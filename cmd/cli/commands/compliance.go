package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/rail-roster/pkg/core/services"
)

// ErrAssignmentNotAllowed is returned by validateAssignment when the proposed
// assignment introduces an error-severity violation
var ErrAssignmentNotAllowed = errors.New("assignment would introduce compliance errors")

func (app *AppContext) assessOptions(includeFatigue bool) services.AssessOptions {
	return services.AssessOptions{
		IncludeFatigue: includeFatigue,
		Parameters:     app.Cfg.DefaultParameters,
	}
}

// CheckComplianceCmd creates the checkCompliance command
func CheckComplianceCmd(app *AppContext) *cobra.Command {
	var all bool
	var includeFatigue bool

	cmd := &cobra.Command{
		Use:   "checkCompliance [employee_id]",
		Short: "Check an employee's roster against working time rules",
		Long: `Check an employee's roster against working time rules.

Assignments on every project are checked together. Use --all to check every
employee with at least one assignment.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if all == (len(args) == 1) {
				return fmt.Errorf("provide either an employee_id or --all")
			}

			app.Logger.Debug("checkCompliance command",
				zap.Strings("args", args),
				zap.Bool("all", all),
				zap.Bool("fatigue", includeFatigue))

			store, err := app.Store()
			if err != nil {
				return err
			}
			opts := app.assessOptions(includeFatigue)

			var assessments []services.EmployeeAssessment
			if all {
				assessments, err = services.AssessAllEmployees(app.Ctx, store, app.Logger, opts)
				if err != nil {
					return err
				}
			} else {
				assessment, err := services.AssessEmployee(app.Ctx, store, app.Logger, args[0], opts)
				if err != nil {
					return err
				}
				assessments = []services.EmployeeAssessment{*assessment}
			}

			return app.render(assessments, func(w io.Writer) {
				renderAssessments(w, assessments)
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Check every employee with assignments")
	cmd.Flags().BoolVar(&includeFatigue, "fatigue", false, "Also flag shifts with a high Risk Index or Fatigue Index")

	return cmd
}

// CheckProjectCmd creates the checkProject command
func CheckProjectCmd(app *AppContext) *cobra.Command {
	var includeFatigue bool

	cmd := &cobra.Command{
		Use:   "checkProject <project_id>",
		Short: "Check every employee rostered on a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID := args[0]
			app.Logger.Debug("checkProject command",
				zap.String("project_id", projectID),
				zap.Bool("fatigue", includeFatigue))

			store, err := app.Store()
			if err != nil {
				return err
			}

			result, err := services.AssessProject(app.Ctx, store, app.Logger, projectID, app.assessOptions(includeFatigue))
			if err != nil {
				return err
			}

			return app.render(result, func(w io.Writer) {
				renderProject(w, result)
			})
		},
	}

	cmd.Flags().BoolVar(&includeFatigue, "fatigue", false, "Also flag shifts with a high Risk Index or Fatigue Index")

	return cmd
}

// ValidateAssignmentCmd creates the validateAssignment command
func ValidateAssignmentCmd(app *AppContext) *cobra.Command {
	var includeFatigue bool

	cmd := &cobra.Command{
		Use:   "validateAssignment <employee_id> <project_id> <shift_pattern_id> <date>",
		Short: "Check whether a proposed assignment keeps the employee compliant",
		Long: `Check whether a proposed assignment keeps the employee compliant.

Nothing is saved. Exits with an error if the assignment would introduce an
error-severity violation.`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := services.SimulationRequest{
				EmployeeID:     args[0],
				ProjectID:      args[1],
				ShiftPatternID: args[2],
				Date:           args[3],
			}

			app.Logger.Debug("validateAssignment command",
				zap.String("employee_id", req.EmployeeID),
				zap.String("project_id", req.ProjectID),
				zap.String("shift_pattern_id", req.ShiftPatternID),
				zap.String("date", req.Date))

			store, err := app.Store()
			if err != nil {
				return err
			}

			result, err := services.SimulateAssignment(app.Ctx, store, app.Logger, req, app.assessOptions(includeFatigue))
			if err != nil {
				return err
			}

			if err := app.render(result, func(w io.Writer) {
				renderSimulation(w, result)
			}); err != nil {
				return err
			}

			if !result.Allowed {
				return ErrAssignmentNotAllowed
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&includeFatigue, "fatigue", false, "Also flag shifts with a high Risk Index or Fatigue Index")

	return cmd
}
