package db

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/jakechorley/rail-roster/pkg/core/model"
)

// Roster is the YAML document a FileStore reads and writes
type Roster struct {
	Employees     []model.Employee     `yaml:"employees"`
	ShiftPatterns []model.ShiftPattern `yaml:"shiftPatterns"`
	Assignments   []model.Assignment   `yaml:"assignments"`
}

// Validate checks every record and that IDs are unique within each collection.
// References to unknown patterns or employees are allowed.
func (r *Roster) Validate() error {
	employeeIDs := make(map[string]bool, len(r.Employees))
	for i, e := range r.Employees {
		if err := model.ValidateEmployee(e); err != nil {
			return fmt.Errorf("employees[%d]: %w", i, err)
		}
		if employeeIDs[e.ID] {
			return fmt.Errorf("employees[%d]: duplicate id %q", i, e.ID)
		}
		employeeIDs[e.ID] = true
	}

	patternIDs := make(map[string]bool, len(r.ShiftPatterns))
	for i, p := range r.ShiftPatterns {
		if err := model.ValidateShiftPattern(p); err != nil {
			return fmt.Errorf("shiftPatterns[%d]: %w", i, err)
		}
		if patternIDs[p.ID] {
			return fmt.Errorf("shiftPatterns[%d]: duplicate id %q", i, p.ID)
		}
		patternIDs[p.ID] = true
	}

	assignmentIDs := make(map[string]bool, len(r.Assignments))
	for i, a := range r.Assignments {
		if err := model.ValidateAssignment(a); err != nil {
			return fmt.Errorf("assignments[%d]: %w", i, err)
		}
		if a.ID != "" && assignmentIDs[a.ID] {
			return fmt.Errorf("assignments[%d]: duplicate id %q", i, a.ID)
		}
		assignmentIDs[a.ID] = true
	}

	return nil
}

// DecodeRoster parses and validates a YAML roster
func DecodeRoster(r io.Reader) (*Roster, error) {
	var roster Roster
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&roster); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse roster: %w", err)
	}

	if err := roster.Validate(); err != nil {
		return nil, fmt.Errorf("roster validation failed: %w", err)
	}

	return &roster, nil
}

// FileStore is a RosterStore backed by a single YAML file.
// Reads are served from memory; inserts rewrite the whole file.
type FileStore struct {
	path string

	mu     sync.RWMutex
	roster Roster
}

// OpenFileStore loads the roster file at path
func OpenFileStore(path string) (*FileStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open roster file: %w", err)
	}
	defer f.Close()

	roster, err := DecodeRoster(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster file %s: %w", path, err)
	}

	return &FileStore{path: path, roster: *roster}, nil
}

// NewMemoryStore wraps an in-memory roster. Inserts are kept in memory only.
func NewMemoryStore(roster Roster) *FileStore {
	return &FileStore{roster: roster}
}

// GetEmployees returns all employees
func (s *FileStore) GetEmployees(ctx context.Context) ([]model.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Employee(nil), s.roster.Employees...), nil
}

// GetEmployee returns one employee or ErrNotFound
func (s *FileStore) GetEmployee(ctx context.Context, id string) (*model.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.roster.Employees {
		if e.ID == id {
			employee := e
			return &employee, nil
		}
	}
	return nil, fmt.Errorf("employee %q: %w", id, ErrNotFound)
}

// GetShiftPatterns returns all shift patterns
func (s *FileStore) GetShiftPatterns(ctx context.Context) ([]model.ShiftPattern, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.ShiftPattern(nil), s.roster.ShiftPatterns...), nil
}

// GetAssignments returns all assignments in file order
func (s *FileStore) GetAssignments(ctx context.Context) ([]model.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Assignment(nil), s.roster.Assignments...), nil
}

// InsertAssignments appends assignments whose IDs are not already present and
// rewrites the roster file
func (s *FileStore) InsertAssignments(ctx context.Context, assignments []model.Assignment) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := make(map[string]bool, len(s.roster.Assignments))
	for _, a := range s.roster.Assignments {
		existing[a.ID] = true
	}

	updated := s.roster
	updated.Assignments = append([]model.Assignment(nil), s.roster.Assignments...)
	inserted := 0
	for _, a := range assignments {
		if a.ID == "" {
			return 0, fmt.Errorf("failed to insert assignment for %s on %s: missing id", a.EmployeeID, a.Date)
		}
		if existing[a.ID] {
			continue
		}
		if err := model.ValidateAssignment(a); err != nil {
			return 0, fmt.Errorf("failed to insert assignment: %w", err)
		}
		existing[a.ID] = true
		updated.Assignments = append(updated.Assignments, a)
		inserted++
	}

	if inserted == 0 {
		return 0, nil
	}

	if s.path != "" {
		if err := writeRoster(s.path, &updated); err != nil {
			return 0, err
		}
	}
	s.roster = updated

	return inserted, nil
}

// writeRoster replaces the file at path via a temporary file in the same directory
func writeRoster(path string, roster *Roster) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".roster-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temporary roster file: %w", err)
	}
	defer os.Remove(tmp.Name())

	encoder := yaml.NewEncoder(tmp)
	encoder.SetIndent(2)
	if err := encoder.Encode(roster); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode roster: %w", err)
	}
	if err := encoder.Close(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode roster: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write roster: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace roster file: %w", err)
	}
	return nil
}
