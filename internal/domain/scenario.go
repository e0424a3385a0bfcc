package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the calendar-date format used for scenario bounds and
// entry months.
const DateLayout = "2006-01-02"

type Scenario struct {
	ID          string
	Name        string
	Description *string
	StartDate   time.Time
	EndDate     time.Time
	IsLocked    bool // closed for edits permanently
	IsCurrent   bool // the single scenario open for writes

	CreatedAt time.Time
	UpdatedAt time.Time
	CreatedBy string
	UpdatedBy string
	DeletedAt *time.Time
	DeletedBy *string
}

// NewScenario builds an unlocked, non-current scenario.
func NewScenario(name string, description *string, start, end time.Time, actor string) (*Scenario, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: scenario name cannot be empty", ErrValidation)
	}
	if start.After(end) {
		return nil, fmt.Errorf("%w: start date %s must not be after end date %s",
			ErrValidation, start.Format(DateLayout), end.Format(DateLayout))
	}
	now := time.Now().UTC()
	return &Scenario{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		StartDate:   start,
		EndDate:     end,
		CreatedAt:   now,
		UpdatedAt:   now,
		CreatedBy:   actor,
		UpdatedBy:   actor,
	}, nil
}

// Writable reports whether plan nodes and entries under s may be changed.
func (s *Scenario) Writable() bool {
	return s.IsCurrent && !s.IsLocked && s.DeletedAt == nil
}

// EnsureWritable returns ErrReadOnlyScenario when s is closed for edits.
func (s *Scenario) EnsureWritable() error {
	switch {
	case s.IsLocked:
		return fmt.Errorf("%w: scenario %q is locked", ErrReadOnlyScenario, s.Name)
	case !s.IsCurrent:
		return fmt.Errorf("%w: scenario %q is not the current scenario", ErrReadOnlyScenario, s.Name)
	case s.DeletedAt != nil:
		return fmt.Errorf("%w: scenario %q is deleted", ErrReadOnlyScenario, s.Name)
	}
	return nil
}

// RolloverDescription is the generated description of a scenario cloned
// from source.
func RolloverDescription(source *Scenario) string {
	return fmt.Sprintf("Rolled over from %s", source.Name)
}
