package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/ghostledger/internal/domain"
	"github.com/alexanderramin/ghostledger/internal/repository"
	"github.com/google/uuid"
)

type rolloverService struct {
	store    Store
	observer UseCaseObserver
}

func NewRolloverService(store Store, observers ...UseCaseObserver) RolloverService {
	return &rolloverService{store: store, observer: useCaseObserverOrNoop(observers)}
}

// Rollover clones the source scenario's tree and entries into a new
// scenario and makes it current. Every step shares one transaction.
func (s *rolloverService) Rollover(ctx context.Context, in RolloverInput, actor string) (result *RolloverResult, err error) {
	fields := map[string]any{"source_scenario_id": in.SourceScenarioID, "name": in.Name}
	done := track(ctx, s.observer, "rollover", fields)
	defer func() { done(err) }()

	err = s.store.withinTx(ctx, func(ctx context.Context, r repository.Repos) error {
		res, err := rollover(ctx, r, in, actor, time.Now().UTC())
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["scenario_id"] = result.Scenario.ID
	fields["node_count"] = result.NodeCount
	fields["entry_count"] = result.EntryCount
	return result, nil
}

func rollover(ctx context.Context, r repository.Repos, in RolloverInput, actor string, now time.Time) (*RolloverResult, error) {
	source, err := r.Scenarios.GetByID(ctx, in.SourceScenarioID)
	if err != nil {
		return nil, fmt.Errorf("loading source scenario %s: %w", in.SourceScenarioID, err)
	}

	desc := domain.RolloverDescription(source)
	target, err := createScenario(ctx, r, CreateScenarioInput{
		Name:        in.Name,
		Description: &desc,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
	}, actor)
	if err != nil {
		return nil, err
	}

	nodes, err := r.Nodes.ListByScenario(ctx, source.ID)
	if err != nil {
		return nil, fmt.Errorf("loading source nodes: %w", err)
	}

	// Mint every id before rewriting parents: a child may precede its parent.
	idMap := make(map[string]string, len(nodes))
	sourceIDs := make([]string, 0, len(nodes))
	for _, n := range nodes {
		idMap[n.ID] = uuid.New().String()
		sourceIDs = append(sourceIDs, n.ID)
	}

	clones := make([]*domain.PlanNode, 0, len(nodes))
	for _, n := range nodes {
		var parentID *string
		if n.ParentID != nil {
			if mapped, ok := idMap[*n.ParentID]; ok {
				parentID = &mapped
			}
		}
		clones = append(clones, n.CloneInto(target.ID, idMap[n.ID], parentID, actor, now))
	}
	if err := r.Nodes.CreateMany(ctx, clones); err != nil {
		return nil, fmt.Errorf("cloning nodes: %w", err)
	}

	entries, err := r.Entries.ListByNodeIDs(ctx, sourceIDs)
	if err != nil {
		return nil, fmt.Errorf("loading source entries: %w", err)
	}
	entryClones := make([]*domain.PlEntry, 0, len(entries))
	for _, e := range entries {
		nodeID, ok := idMap[e.NodeID]
		if !ok {
			continue
		}
		entryClones = append(entryClones, e.CloneOnto(nodeID, actor, now))
	}
	if err := r.Entries.CreateMany(ctx, entryClones); err != nil {
		return nil, fmt.Errorf("cloning entries: %w", err)
	}

	if err := activateScenario(ctx, r, target.ID, actor, now); err != nil {
		return nil, err
	}
	target.IsCurrent = true
	target.UpdatedAt = now

	return &RolloverResult{
		Scenario:   target,
		NodeCount:  len(clones),
		EntryCount: len(entryClones),
	}, nil
}
