package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/ghostledger/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const TestActor = "tester"

var testSlugCounter atomic.Int64

func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Scenario options
type ScenarioOption func(*domain.Scenario)

func WithCurrent() ScenarioOption {
	return func(s *domain.Scenario) {
		s.IsCurrent = true
	}
}

func WithDates(start, end time.Time) ScenarioOption {
	return func(s *domain.Scenario) {
		s.StartDate = start
		s.EndDate = end
	}
}

func NewTestScenario(name string, opts ...ScenarioOption) *domain.Scenario {
	now := time.Now().UTC()
	s := &domain.Scenario{
		ID:        uuid.New().String(),
		Name:      name,
		StartDate: Date(2025, 1, 1),
		EndDate:   Date(2025, 12, 31),
		CreatedAt: now,
		UpdatedAt: now,
		CreatedBy: TestActor,
		UpdatedBy: TestActor,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PlanNode options
type NodeOption func(*domain.PlanNode)

func WithParentID(id string) NodeOption {
	return func(n *domain.PlanNode) {
		n.ParentID = &id
	}
}

func WithServiceID(id string) NodeOption {
	return func(n *domain.PlanNode) {
		n.ServiceID = &id
	}
}

func WithDisplayOrder(order int) NodeOption {
	return func(n *domain.PlanNode) {
		n.DisplayOrder = order
	}
}

func NewTestNode(scenarioID, title string, nodeType domain.NodeType, opts ...NodeOption) *domain.PlanNode {
	now := time.Now().UTC()
	n := &domain.PlanNode{
		ID:         uuid.New().String(),
		ScenarioID: scenarioID,
		LineageID:  uuid.New().String(),
		Title:      title,
		NodeType:   nodeType,
		CreatedAt:  now,
		UpdatedAt:  now,
		CreatedBy:  TestActor,
		UpdatedBy:  TestActor,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func NewTestService(name string) *domain.Service {
	now := time.Now().UTC()
	return &domain.Service{
		ID:        uuid.New().String(),
		Name:      name,
		Slug:      fmt.Sprintf("svc-%d", testSlugCounter.Add(1)),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func NewTestAccountItem(code string, accountType domain.AccountType) *domain.AccountItem {
	now := time.Now().UTC()
	return &domain.AccountItem{
		ID:          uuid.New().String(),
		Name:        "Account " + code,
		Code:        code,
		AccountType: accountType,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func NewTestEntry(nodeID, accountItemID string, month time.Time, category domain.EntryCategory, amount string) *domain.PlEntry {
	now := time.Now().UTC()
	return &domain.PlEntry{
		ID:            uuid.New().String(),
		NodeID:        nodeID,
		AccountItemID: accountItemID,
		TargetMonth:   domain.FirstOfMonth(month),
		Category:      category,
		Amount:        decimal.RequireFromString(amount),
		CreatedAt:     now,
		UpdatedAt:     now,
		CreatedBy:     TestActor,
		UpdatedBy:     TestActor,
	}
}
