package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

type AccountItem struct {
	ID           string
	Name         string
	Code         string
	Description  *string
	AccountType  AccountType
	DisplayOrder int
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

func NewAccountItem(name, code string, description *string, accountType AccountType, displayOrder int) (*AccountItem, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: account item name cannot be empty", ErrValidation)
	}
	if strings.TrimSpace(code) == "" {
		return nil, fmt.Errorf("%w: account item code cannot be empty", ErrValidation)
	}
	if _, err := ParseAccountType(string(accountType)); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &AccountItem{
		ID:           uuid.New().String(),
		Name:         name,
		Code:         code,
		Description:  description,
		AccountType:  accountType,
		DisplayOrder: displayOrder,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Service is the business line an entity node is bound to.
type Service struct {
	ID           string
	Name         string
	Slug         string
	DisplayOrder int
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

// ValidateSlug checks the lowercase/digit/hyphen slug format.
func ValidateSlug(slug string) error {
	if !slugPattern.MatchString(slug) {
		return fmt.Errorf("%w: slug %q must contain only lowercase letters, numbers, and hyphens", ErrValidation, slug)
	}
	return nil
}

func NewService(name, slug string, displayOrder int) (*Service, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: service name cannot be empty", ErrValidation)
	}
	if err := ValidateSlug(slug); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Service{
		ID:           uuid.New().String(),
		Name:         name,
		Slug:         slug,
		DisplayOrder: displayOrder,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}
