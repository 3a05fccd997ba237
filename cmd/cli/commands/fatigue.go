package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/rail-roster/pkg/core/fatigue"
	"github.com/jakechorley/rail-roster/pkg/core/services"
)

// fatigueInput is the document read by computeFatigue
type fatigueInput struct {
	Parameters fatigue.Parameters        `yaml:"parameters"`
	Shifts     []fatigue.ShiftDefinition `yaml:"shifts"`
}

// loadFatigueInput reads a shift sequence. Parameters missing from the file keep the given defaults.
func loadFatigueInput(path string, defaults fatigue.Parameters) (*fatigueInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read shifts file: %w", err)
	}

	input := &fatigueInput{Parameters: defaults}
	if err := yaml.Unmarshal(data, input); err != nil {
		return nil, fmt.Errorf("failed to parse shifts file: %w", err)
	}

	return input, nil
}

// ComputeFatigueCmd creates the computeFatigue command
func ComputeFatigueCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "computeFatigue <shifts.yaml>",
		Short: "Score a shift sequence with the Risk Index and Fatigue Index",
		Long: `Score a shift sequence read from a YAML file.

The file holds a list of shifts and optionally a parameters block:

  parameters:
    commuteMinutes: 60
  shifts:
    - day: 0
      startTime: "08:00"
      endTime: "16:00"

Parameters not set in the file are taken from defaultParameters in the config.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Logger.Debug("computeFatigue command", zap.String("file", args[0]))

			input, err := loadFatigueInput(args[0], app.Cfg.DefaultParameters)
			if err != nil {
				return err
			}

			report, err := services.ComputeFatigue(input.Shifts, input.Parameters, app.Logger)
			if err != nil {
				return err
			}

			return app.render(report, func(w io.Writer) {
				renderFatigueReport(w, input.Shifts, report)
			})
		},
	}

	return cmd
}

// EmployeeFatigueCmd creates the employeeFatigue command
func EmployeeFatigueCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "employeeFatigue <employee_id>",
		Short: "Score every rostered shift of an employee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			employeeID := args[0]
			app.Logger.Debug("employeeFatigue command", zap.String("employee_id", employeeID))

			store, err := app.Store()
			if err != nil {
				return err
			}

			report, err := services.EmployeeFatigue(app.Ctx, store, app.Logger, app.Cfg.DefaultParameters, employeeID)
			if err != nil {
				return err
			}

			return app.render(report, func(w io.Writer) {
				renderEmployeeFatigue(w, report)
			})
		},
	}

	return cmd
}
