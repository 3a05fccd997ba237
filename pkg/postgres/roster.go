package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/rail-roster/pkg/core/model"
	"github.com/jakechorley/rail-roster/pkg/db"
)

var _ db.RosterStore = (*DB)(nil)

// GetEmployees retrieves all employee records
func (d *DB) GetEmployees(ctx context.Context) ([]model.Employee, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, first_name, last_name, role
		FROM employee
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var employees []model.Employee
	for rows.Next() {
		var e model.Employee
		if err := rows.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Role); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating employees: %w", err)
	}

	return employees, nil
}

// GetEmployee retrieves one employee, or db.ErrNotFound
func (d *DB) GetEmployee(ctx context.Context, id string) (*model.Employee, error) {
	var e model.Employee
	err := d.pool.QueryRow(ctx, `
		SELECT id, first_name, last_name, role
		FROM employee
		WHERE id = $1
	`, id).Scan(&e.ID, &e.FirstName, &e.LastName, &e.Role)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("employee %q: %w", id, db.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query employee: %w", err)
	}
	return &e, nil
}

// GetShiftPatterns retrieves all shift patterns
func (d *DB) GetShiftPatterns(ctx context.Context) ([]model.ShiftPattern, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, project_id, name, start_time, end_time, is_night, weekly_schedule,
			workload, attention, commute_in, commute_out, break_frequency, break_length
		FROM shift_pattern
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query shift patterns: %w", err)
	}
	defer rows.Close()

	var patterns []model.ShiftPattern
	for rows.Next() {
		var p model.ShiftPattern
		if err := rows.Scan(
			&p.ID, &p.ProjectID, &p.Name, &p.StartTime, &p.EndTime, &p.IsNight, &p.WeeklySchedule,
			&p.Workload, &p.Attention, &p.CommuteIn, &p.CommuteOut, &p.BreakFrequency, &p.BreakLength,
		); err != nil {
			return nil, fmt.Errorf("failed to scan shift pattern: %w", err)
		}
		patterns = append(patterns, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shift patterns: %w", err)
	}

	return patterns, nil
}

// GetAssignments retrieves all assignments ordered by date
func (d *DB) GetAssignments(ctx context.Context) ([]model.Assignment, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, employee_id, project_id, shift_pattern_id, date,
			custom_start_time, custom_end_time, notes
		FROM assignment
		ORDER BY date, employee_id, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	var assignments []model.Assignment
	for rows.Next() {
		var a model.Assignment
		var date time.Time
		var customStart, customEnd *string
		if err := rows.Scan(&a.ID, &a.EmployeeID, &a.ProjectID, &a.ShiftPatternID, &date,
			&customStart, &customEnd, &a.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		a.Date = date.Format("2006-01-02")
		if customStart != nil {
			a.CustomStartTime = *customStart
		}
		if customEnd != nil {
			a.CustomEndTime = *customEnd
		}
		assignments = append(assignments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assignments: %w", err)
	}

	return assignments, nil
}

// InsertAssignments inserts assignments in one transaction, skipping IDs that already exist
func (d *DB) InsertAssignments(ctx context.Context, assignments []model.Assignment) (int, error) {
	for _, a := range assignments {
		if a.ID == "" {
			return 0, fmt.Errorf("failed to insert assignment for %s on %s: missing id", a.EmployeeID, a.Date)
		}
		if err := model.ValidateAssignment(a); err != nil {
			return 0, fmt.Errorf("failed to insert assignment: %w", err)
		}
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	inserted := 0
	for _, a := range assignments {
		tag, err := tx.Exec(ctx, `
			INSERT INTO assignment (id, employee_id, project_id, shift_pattern_id, date,
				custom_start_time, custom_end_time, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id) DO NOTHING
		`, a.ID, a.EmployeeID, a.ProjectID, a.ShiftPatternID, a.Date,
			nullable(a.CustomStartTime), nullable(a.CustomEndTime), a.Notes)
		if err != nil {
			return 0, fmt.Errorf("failed to insert assignment %s: %w", a.ID, err)
		}
		inserted += int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit assignments: %w", err)
	}

	return inserted, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// UpsertEmployees inserts or updates employee records
func (d *DB) UpsertEmployees(ctx context.Context, employees []model.Employee) error {
	batch := &pgx.Batch{}
	for _, e := range employees {
		batch.Queue(`
			INSERT INTO employee (id, first_name, last_name, role)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE
			SET first_name = EXCLUDED.first_name, last_name = EXCLUDED.last_name, role = EXCLUDED.role
		`, e.ID, e.FirstName, e.LastName, e.Role)
	}

	if err := d.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to upsert employees: %w", err)
	}
	return nil
}

// UpsertShiftPatterns inserts or updates shift patterns
func (d *DB) UpsertShiftPatterns(ctx context.Context, patterns []model.ShiftPattern) error {
	batch := &pgx.Batch{}
	for _, p := range patterns {
		var schedule any
		if len(p.WeeklySchedule) > 0 {
			schedule = p.WeeklySchedule
		}
		batch.Queue(`
			INSERT INTO shift_pattern (id, project_id, name, start_time, end_time, is_night, weekly_schedule,
				workload, attention, commute_in, commute_out, break_frequency, break_length)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			ON CONFLICT (id) DO UPDATE
			SET project_id = EXCLUDED.project_id, name = EXCLUDED.name,
				start_time = EXCLUDED.start_time, end_time = EXCLUDED.end_time,
				is_night = EXCLUDED.is_night, weekly_schedule = EXCLUDED.weekly_schedule,
				workload = EXCLUDED.workload, attention = EXCLUDED.attention,
				commute_in = EXCLUDED.commute_in, commute_out = EXCLUDED.commute_out,
				break_frequency = EXCLUDED.break_frequency, break_length = EXCLUDED.break_length
		`, p.ID, p.ProjectID, p.Name, p.StartTime, p.EndTime, p.IsNight, schedule,
			p.Workload, p.Attention, p.CommuteIn, p.CommuteOut, p.BreakFrequency, p.BreakLength)
	}

	if err := d.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to upsert shift patterns: %w", err)
	}
	return nil
}
