package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type PlanNode struct {
	ID           string
	ScenarioID   string
	ParentID     *string // nil only for root nodes
	LineageID    string  // same conceptual node across scenario generations
	Title        string
	Description  *string
	NodeType     NodeType
	DisplayOrder int
	ServiceID    *string // set iff NodeType.IsEntity()

	CreatedAt time.Time
	UpdatedAt time.Time
	CreatedBy string
	UpdatedBy string
	DeletedAt *time.Time
	DeletedBy *string
}

// NewPlanNodeParams carries the fields of a node about to be created.
// LineageID is empty for a brand-new conceptual node.
type NewPlanNodeParams struct {
	ScenarioID   string
	ParentID     *string
	LineageID    string
	Title        string
	Description  *string
	NodeType     NodeType
	DisplayOrder int
	ServiceID    *string
	Actor        string
}

// NewPlanNode validates the node-local invariants (title, root rule, service
// binding) and returns a node with fresh identity. Parent legality needs the
// parent row and is checked by the caller.
func NewPlanNode(p NewPlanNodeParams) (*PlanNode, error) {
	if strings.TrimSpace(p.Title) == "" {
		return nil, fmt.Errorf("%w: node title cannot be empty", ErrValidation)
	}
	if p.ParentID == nil && !p.NodeType.CanBeRoot() {
		return nil, fmt.Errorf("%w: only %s can be a root node, got %s",
			ErrInvalidHierarchy, NodeInitiative, p.NodeType)
	}
	if err := CheckServiceBinding(p.NodeType, p.ServiceID); err != nil {
		return nil, err
	}

	lineage := p.LineageID
	if lineage == "" {
		lineage = uuid.New().String()
	}
	now := time.Now().UTC()
	return &PlanNode{
		ID:           uuid.New().String(),
		ScenarioID:   p.ScenarioID,
		ParentID:     p.ParentID,
		LineageID:    lineage,
		Title:        p.Title,
		Description:  p.Description,
		NodeType:     p.NodeType,
		DisplayOrder: p.DisplayOrder,
		ServiceID:    p.ServiceID,
		CreatedAt:    now,
		UpdatedAt:    now,
		CreatedBy:    p.Actor,
		UpdatedBy:    p.Actor,
	}, nil
}

// CheckServiceBinding enforces that entity nodes carry a service and
// container nodes do not.
func CheckServiceBinding(t NodeType, serviceID *string) error {
	hasService := serviceID != nil && *serviceID != ""
	if t.IsEntity() && !hasService {
		return fmt.Errorf("%w: service ID is required for %s", ErrInvalidServiceBinding, t)
	}
	if !t.IsEntity() && hasService {
		return fmt.Errorf("%w: service ID must be empty for container node %s", ErrInvalidServiceBinding, t)
	}
	return nil
}

// CheckParent enforces parent legality for a child of type t placed under
// parent inside scenarioID.
func CheckParent(t NodeType, scenarioID string, parent *PlanNode) error {
	if parent.ScenarioID != scenarioID {
		return fmt.Errorf("%w: parent %s is in scenario %s, not %s",
			ErrCrossScenarioParent, parent.ID, parent.ScenarioID, scenarioID)
	}
	if !t.CanBeChildOf(parent.NodeType) {
		return fmt.Errorf("%w: node type %s cannot be a child of %s",
			ErrInvalidHierarchy, t, parent.NodeType)
	}
	return nil
}

// PlanNodePatch is a partial update; nil fields are left untouched.
type PlanNodePatch struct {
	Title        *string
	Description  *string
	DisplayOrder *int
}

// Apply copies the supplied fields onto n.
func (p PlanNodePatch) Apply(n *PlanNode, actor string, now time.Time) error {
	if p.Title != nil {
		if strings.TrimSpace(*p.Title) == "" {
			return fmt.Errorf("%w: node title cannot be empty", ErrValidation)
		}
		n.Title = *p.Title
	}
	if p.Description != nil {
		n.Description = p.Description
	}
	if p.DisplayOrder != nil {
		n.DisplayOrder = *p.DisplayOrder
	}
	n.UpdatedAt = now
	n.UpdatedBy = actor
	return nil
}

// Empty reports whether the patch changes nothing.
func (p PlanNodePatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.DisplayOrder == nil
}

// CloneInto copies n into scenarioID with a new id and re-pointed parent,
// keeping its lineage. Audit stamps are reset to now/actor.
func (n *PlanNode) CloneInto(scenarioID, newID string, parentID *string, actor string, now time.Time) *PlanNode {
	return &PlanNode{
		ID:           newID,
		ScenarioID:   scenarioID,
		ParentID:     parentID,
		LineageID:    n.LineageID,
		Title:        n.Title,
		Description:  CloneStrPtr(n.Description),
		NodeType:     n.NodeType,
		DisplayOrder: n.DisplayOrder,
		ServiceID:    CloneStrPtr(n.ServiceID),
		CreatedAt:    now,
		UpdatedAt:    now,
		CreatedBy:    actor,
		UpdatedBy:    actor,
	}
}
