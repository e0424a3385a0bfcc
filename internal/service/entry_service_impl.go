package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/ghostledger/internal/domain"
	"github.com/alexanderramin/ghostledger/internal/repository"
)

type entryService struct {
	store    Store
	source   string
	observer UseCaseObserver
}

// NewEntryService returns the ledger. source tags history rows written by
// SaveEntry; empty means domain.SourceAPI.
func NewEntryService(store Store, source string, observers ...UseCaseObserver) EntryService {
	if source == "" {
		source = domain.SourceAPI
	}
	return &entryService{store: store, source: source, observer: useCaseObserverOrNoop(observers)}
}

func (s *entryService) SaveEntry(ctx context.Context, in SaveEntryInput, actor string) (entry *domain.PlEntry, err error) {
	done := track(ctx, s.observer, "save-entry", map[string]any{
		"node_id": in.NodeID,
		"cell":    in.cell().String(),
	})
	defer func() { done(err) }()

	err = s.store.withinTx(ctx, func(ctx context.Context, r repository.Repos) error {
		entry, err = saveEntry(ctx, r, in, actor, s.source)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *entryService) SaveBulk(ctx context.Context, inputs []SaveEntryInput, actor, source string) (saved []*domain.PlEntry, err error) {
	if source == "" {
		source = domain.SourceBulk
	}
	done := track(ctx, s.observer, "save-bulk", map[string]any{"count": len(inputs), "source": source})
	defer func() { done(err) }()

	err = s.store.withinTx(ctx, func(ctx context.Context, r repository.Repos) error {
		out := make([]*domain.PlEntry, 0, len(inputs))
		for i, in := range inputs {
			e, err := saveEntry(ctx, r, in, actor, source)
			if err != nil {
				return fmt.Errorf("entry %d (%s): %w", i+1, in.cell(), err)
			}
			out = append(out, e)
		}
		saved = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *entryService) ListByNode(ctx context.Context, nodeID string, category *domain.EntryCategory) ([]*domain.PlEntry, error) {
	return s.store.Reads.Entries.ListByNode(ctx, nodeID, category)
}

func (s *entryService) ListByScenario(ctx context.Context, scenarioID string) ([]*domain.PlEntry, error) {
	return s.store.Reads.Entries.ListByScenario(ctx, scenarioID)
}

func (s *entryService) History(ctx context.Context, entryID string) ([]*domain.PlEntryHistory, error) {
	if _, err := s.store.Reads.Entries.GetByID(ctx, entryID); err != nil {
		return nil, err
	}
	return s.store.Reads.History.ListByEntry(ctx, entryID)
}

// saveEntry is the cell upsert. Identical rewrites return the stored entry
// without touching it or the history.
func saveEntry(ctx context.Context, r repository.Repos, in SaveEntryInput, actor, source string) (*domain.PlEntry, error) {
	node, err := r.Nodes.GetByID(ctx, in.NodeID)
	if err != nil {
		return nil, fmt.Errorf("loading node %s: %w", in.NodeID, err)
	}
	if !node.NodeType.IsEntity() {
		return nil, fmt.Errorf("%w: %q is a %s", domain.ErrContainerNode, node.Title, node.NodeType)
	}
	if err := ensureWritable(ctx, r, node.ScenarioID); err != nil {
		return nil, err
	}
	if _, err := r.AccountItems.GetByID(ctx, in.AccountItemID); err != nil {
		return nil, fmt.Errorf("loading account item %s: %w", in.AccountItemID, err)
	}

	existing, err := r.Entries.FindByCell(ctx, in.cell())
	switch {
	case errors.Is(err, domain.ErrNotFound):
		e, err := domain.NewPlEntry(in.cell(), in.Amount, in.Description, actor)
		if err != nil {
			return nil, err
		}
		if err := r.Entries.Create(ctx, e); err != nil {
			return nil, fmt.Errorf("creating entry: %w", err)
		}
		h := domain.NewPlEntryHistory(e.ID, domain.ChangeCreate, nil, e.Amount, actor, source)
		if err := r.History.Append(ctx, h); err != nil {
			return nil, err
		}
		return e, nil
	case err != nil:
		return nil, fmt.Errorf("looking up cell %s: %w", in.cell(), err)
	}

	if existing.Unchanged(in.Amount, in.Description) {
		return existing, nil
	}

	previous := existing.Amount
	existing.Amount = in.Amount
	existing.Description = in.Description
	existing.UpdatedAt = time.Now().UTC()
	existing.UpdatedBy = actor
	if err := r.Entries.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("updating entry %s: %w", existing.ID, err)
	}
	h := domain.NewPlEntryHistory(existing.ID, domain.ChangeUpdate, &previous, existing.Amount, actor, source)
	if err := r.History.Append(ctx, h); err != nil {
		return nil, err
	}
	return existing, nil
}
