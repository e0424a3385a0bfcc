package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/ghostledger/internal/domain"
	"github.com/alexanderramin/ghostledger/internal/repository"
)

type nodeService struct {
	store    Store
	observer UseCaseObserver
}

func NewNodeService(store Store, observers ...UseCaseObserver) NodeService {
	return &nodeService{store: store, observer: useCaseObserverOrNoop(observers)}
}

func (s *nodeService) Create(ctx context.Context, in CreateNodeInput, actor string) (node *domain.PlanNode, err error) {
	done := track(ctx, s.observer, "create-node", map[string]any{
		"scenario_id": in.ScenarioID,
		"node_type":   string(in.NodeType),
	})
	defer func() { done(err) }()

	err = s.store.withinTx(ctx, func(ctx context.Context, r repository.Repos) error {
		if err := ensureWritable(ctx, r, in.ScenarioID); err != nil {
			return err
		}

		n, err := domain.NewPlanNode(domain.NewPlanNodeParams{
			ScenarioID:   in.ScenarioID,
			ParentID:     in.ParentID,
			LineageID:    in.LineageID,
			Title:        in.Title,
			Description:  in.Description,
			NodeType:     in.NodeType,
			DisplayOrder: in.DisplayOrder,
			ServiceID:    in.ServiceID,
			Actor:        actor,
		})
		if err != nil {
			return err
		}

		if in.ParentID != nil {
			parent, err := r.Nodes.GetByID(ctx, *in.ParentID)
			if err != nil {
				return fmt.Errorf("loading parent %s: %w", *in.ParentID, err)
			}
			if err := domain.CheckParent(n.NodeType, in.ScenarioID, parent); err != nil {
				return err
			}
		}

		if n.ServiceID != nil {
			if _, err := r.Services.GetByID(ctx, *n.ServiceID); err != nil {
				return fmt.Errorf("loading service %s: %w", *n.ServiceID, err)
			}
		}

		if err := r.Nodes.Create(ctx, n); err != nil {
			return fmt.Errorf("creating node: %w", err)
		}
		node = n
		return nil
	})
	if err != nil {
		return nil, err
	}
	return node, nil
}

func (s *nodeService) Update(ctx context.Context, id string, patch domain.PlanNodePatch, actor string) (node *domain.PlanNode, err error) {
	done := track(ctx, s.observer, "update-node", map[string]any{"node_id": id})
	defer func() { done(err) }()

	err = s.store.withinTx(ctx, func(ctx context.Context, r repository.Repos) error {
		n, err := r.Nodes.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("loading node %s: %w", id, err)
		}
		if err := ensureWritable(ctx, r, n.ScenarioID); err != nil {
			return err
		}
		if err := patch.Apply(n, actor, time.Now().UTC()); err != nil {
			return err
		}
		if err := r.Nodes.Update(ctx, n); err != nil {
			return fmt.Errorf("updating node %s: %w", id, err)
		}
		node = n
		return nil
	})
	if err != nil {
		return nil, err
	}
	return node, nil
}

func (s *nodeService) Delete(ctx context.Context, id, actor string) (err error) {
	done := track(ctx, s.observer, "delete-node", map[string]any{"node_id": id})
	defer func() { done(err) }()

	return s.store.withinTx(ctx, func(ctx context.Context, r repository.Repos) error {
		n, err := r.Nodes.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("loading node %s: %w", id, err)
		}
		if err := ensureWritable(ctx, r, n.ScenarioID); err != nil {
			return err
		}

		children, err := r.Nodes.CountChildren(ctx, id)
		if err != nil {
			return err
		}
		if children > 0 {
			return fmt.Errorf("%w: %q has %d child nodes", domain.ErrNonEmptyNode, n.Title, children)
		}
		entries, err := r.Entries.CountByNode(ctx, id)
		if err != nil {
			return err
		}
		if entries > 0 {
			return fmt.Errorf("%w: %q has %d entries", domain.ErrNonEmptyNode, n.Title, entries)
		}

		return r.Nodes.SoftDelete(ctx, id, actor, time.Now().UTC())
	})
}

func (s *nodeService) GetByID(ctx context.Context, id string) (*domain.PlanNode, error) {
	return s.store.Reads.Nodes.GetByID(ctx, id)
}

func (s *nodeService) ListByScenario(ctx context.Context, scenarioID string) ([]*domain.PlanNode, error) {
	return s.store.Reads.Nodes.ListByScenario(ctx, scenarioID)
}

func (s *nodeService) ListRecent(ctx context.Context, limit int) ([]*domain.PlanNode, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.store.Reads.Nodes.ListRecent(ctx, limit)
}
