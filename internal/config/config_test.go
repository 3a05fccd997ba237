package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/rail-roster/pkg/core/fatigue"
	"github.com/jakechorley/rail-roster/pkg/core/roster"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func validRule() roster.Rule {
	return roster.Rule{
		RRule:          "FREQ=WEEKLY;BYDAY=MO,TU,WE,TH",
		EmployeeID:     "emp-1",
		ProjectID:      "proj-1",
		ShiftPatternID: "days",
	}
}

func TestValidate_DefaultConfig(t *testing.T) {
	cfg := Default()
	assert.NoError(t, Validate(&cfg))
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := Default()
	cfg.RosterRules = []roster.Rule{validRule()}
	cfg.MetricsFile = "/var/lib/node_exporter/rail_roster.prom"

	assert.NoError(t, Validate(&cfg))
}

func TestValidate_PostgresNeedsDatabaseURL(t *testing.T) {
	cfg := Default()
	cfg.RosterSource = SourcePostgres

	err := Validate(&cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")

	cfg.DatabaseURL = "postgres://localhost:5432/roster"
	assert.NoError(t, Validate(&cfg))
}

func TestValidate_UnknownSource(t *testing.T) {
	cfg := Default()
	cfg.RosterSource = "sheets"

	err := Validate(&cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidate_InvalidParameters(t *testing.T) {
	cfg := Default()
	cfg.DefaultParameters.Workload = 9

	assert.Error(t, Validate(&cfg))
}

func TestValidate_InvalidRRule(t *testing.T) {
	cfg := Default()
	bad := validRule()
	bad.RRule = "INVALID_RRULE_SYNTAX"
	cfg.RosterRules = []roster.Rule{validRule(), bad}

	err := Validate(&cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid rosterRules[1]")
	assert.Contains(t, err.Error(), "invalid rrule")
}

func TestValidate_EmptyRRule(t *testing.T) {
	cfg := Default()
	bad := validRule()
	bad.RRule = ""
	cfg.RosterRules = []roster.Rule{bad}

	err := Validate(&cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidate_ComplexValidRRule(t *testing.T) {
	cfg := Default()
	rule := validRule()
	rule.RRule = "FREQ=MONTHLY;BYDAY=1SU;BYMONTH=1,4,7,10"
	cfg.RosterRules = []roster.Rule{rule}

	assert.NoError(t, Validate(&cfg))
}

func TestLoadFromPath_ValidConfig(t *testing.T) {
	configPath := writeConfig(t, "roster_config.yaml", `
defaultParameters:
  commuteMinutes: 120
  workload: 3
rosterSource: file
rosterFile: data/roster.yaml
metricsFile: /tmp/rail_roster.prom
rosterRules:
  - name: Weekday days
    rrule: "FREQ=WEEKLY;BYDAY=MO,TU,WE,TH"
    employeeId: emp-1
    projectId: proj-1
    shiftPatternId: days
    exclude:
      - "2024-12-25"
`)

	cfg, err := LoadFromPath(configPath)
	require.NoError(t, err)

	// Set fields override, omitted ones keep their defaults
	defaults := fatigue.DefaultParameters()
	assert.Equal(t, 120, cfg.DefaultParameters.CommuteMinutes)
	assert.Equal(t, 3, cfg.DefaultParameters.Workload)
	assert.Equal(t, defaults.Attention, cfg.DefaultParameters.Attention)
	assert.Equal(t, defaults.BreakFrequency, cfg.DefaultParameters.BreakFrequency)

	assert.Equal(t, filepath.Join(filepath.Dir(configPath), "data", "roster.yaml"), cfg.RosterFile)
	assert.Equal(t, "/tmp/rail_roster.prom", cfg.MetricsFile)

	require.Len(t, cfg.RosterRules, 1)
	rule := cfg.RosterRules[0]
	assert.Equal(t, "Weekday days", rule.Name)
	assert.Equal(t, "days", rule.ShiftPatternID)
	assert.Equal(t, []string{"2024-12-25"}, rule.Exclude)
}

func TestLoadFromPath_MinimalConfig(t *testing.T) {
	configPath := writeConfig(t, "minimal.yaml", "rosterSource: file\n")

	cfg, err := LoadFromPath(configPath)
	require.NoError(t, err)

	assert.Equal(t, fatigue.DefaultParameters(), cfg.DefaultParameters)
	assert.Equal(t, filepath.Join(filepath.Dir(configPath), "roster.yaml"), cfg.RosterFile)
	assert.Empty(t, cfg.RosterRules)
	assert.Empty(t, cfg.MetricsFile)
}

func TestLoadFromPath_AbsoluteRosterFile(t *testing.T) {
	configPath := writeConfig(t, "abs.yaml", "rosterFile: /srv/roster.yaml\n")

	cfg, err := LoadFromPath(configPath)
	require.NoError(t, err)
	assert.Equal(t, "/srv/roster.yaml", cfg.RosterFile)
}

func TestLoadFromPath_Postgres(t *testing.T) {
	configPath := writeConfig(t, "pg.yaml", `
rosterSource: postgres
databaseURL: postgres://roster@localhost:5432/roster
`)

	cfg, err := LoadFromPath(configPath)
	require.NoError(t, err)
	assert.Equal(t, SourcePostgres, cfg.RosterSource)
	assert.Equal(t, "postgres://roster@localhost:5432/roster", cfg.DatabaseURL)
}

func TestLoadFromPath_InvalidRRule(t *testing.T) {
	configPath := writeConfig(t, "invalid_rrule.yaml", `
rosterRules:
  - rrule: "INVALID_RRULE_SYNTAX"
    employeeId: emp-1
    projectId: proj-1
    shiftPatternId: days
`)

	_, err := LoadFromPath(configPath)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid rrule")
}

func TestLoadFromPath_RuleWithoutEmployee(t *testing.T) {
	configPath := writeConfig(t, "invalid_rule.yaml", `
rosterRules:
  - rrule: "FREQ=DAILY"
    projectId: proj-1
    shiftPatternId: days
`)

	_, err := LoadFromPath(configPath)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoadFromPath_InvalidYAML(t *testing.T) {
	configPath := writeConfig(t, "invalid_yaml.yaml", `
rosterSource: file
  invalid indentation
rosterFile: roster.yaml
`)

	_, err := LoadFromPath(configPath)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadFromPath_FileNotFound(t *testing.T) {
	_, err := LoadFromPath("/nonexistent/path/config.yaml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadWithEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "roster_config_test.yaml"), []byte("rosterFile: test_roster.yaml\n"), 0644))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadWithEnv("test")
	require.NoError(t, err)
	assert.Equal(t, "test_roster.yaml", cfg.RosterFile)

	_, err = LoadWithEnv("prod")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "roster_config_prod.yaml not found")
}

func TestConfigFileName(t *testing.T) {
	assert.Equal(t, "roster_config.yaml", configFileName(""))
	assert.Equal(t, "roster_config_dev.yaml", configFileName("dev"))
}
