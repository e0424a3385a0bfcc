package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/ghostledger/internal/domain"
	"github.com/alexanderramin/ghostledger/internal/repository"
)

type scenarioService struct {
	store    Store
	observer UseCaseObserver
}

func NewScenarioService(store Store, observers ...UseCaseObserver) ScenarioService {
	return &scenarioService{store: store, observer: useCaseObserverOrNoop(observers)}
}

func (s *scenarioService) Create(ctx context.Context, in CreateScenarioInput, actor string) (sc *domain.Scenario, err error) {
	done := track(ctx, s.observer, "create-scenario", map[string]any{"name": in.Name})
	defer func() { done(err) }()

	err = s.store.withinTx(ctx, func(ctx context.Context, r repository.Repos) error {
		sc, err = createScenario(ctx, r, in, actor)
		return err
	})
	if err != nil {
		return nil, err
	}
	return sc, nil
}

func (s *scenarioService) Activate(ctx context.Context, id, actor string) (err error) {
	done := track(ctx, s.observer, "activate-scenario", map[string]any{"scenario_id": id})
	defer func() { done(err) }()

	return s.store.withinTx(ctx, func(ctx context.Context, r repository.Repos) error {
		return activateScenario(ctx, r, id, actor, time.Now().UTC())
	})
}

func (s *scenarioService) EnsureWritable(ctx context.Context, id string) error {
	return ensureWritable(ctx, s.store.Reads, id)
}

func (s *scenarioService) Lock(ctx context.Context, id, actor string) (err error) {
	done := track(ctx, s.observer, "lock-scenario", map[string]any{"scenario_id": id})
	defer func() { done(err) }()

	return s.store.withinTx(ctx, func(ctx context.Context, r repository.Repos) error {
		if err := r.Scenarios.Lock(ctx, id, actor, time.Now().UTC()); err != nil {
			return fmt.Errorf("locking scenario %s: %w", id, err)
		}
		return nil
	})
}

func (s *scenarioService) GetByID(ctx context.Context, id string) (*domain.Scenario, error) {
	return s.store.Reads.Scenarios.GetByID(ctx, id)
}

func (s *scenarioService) Current(ctx context.Context) (*domain.Scenario, error) {
	return s.store.Reads.Scenarios.GetCurrent(ctx)
}

func (s *scenarioService) ListAll(ctx context.Context) ([]*domain.Scenario, error) {
	return s.store.Reads.Scenarios.ListAll(ctx)
}

// createScenario persists a new non-current scenario through r.
func createScenario(ctx context.Context, r repository.Repos, in CreateScenarioInput, actor string) (*domain.Scenario, error) {
	sc, err := domain.NewScenario(in.Name, in.Description, in.StartDate, in.EndDate, actor)
	if err != nil {
		return nil, err
	}
	if err := r.Scenarios.Create(ctx, sc); err != nil {
		return nil, fmt.Errorf("creating scenario: %w", err)
	}
	return sc, nil
}

// activateScenario demotes every scenario and promotes id. r must be
// transaction-scoped so the intermediate state is never committed.
func activateScenario(ctx context.Context, r repository.Repos, id, actor string, now time.Time) error {
	target, err := r.Scenarios.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("activating scenario %s: %w", id, err)
	}
	if target.IsLocked {
		return fmt.Errorf("activating scenario: %w: scenario %q is locked", domain.ErrReadOnlyScenario, target.Name)
	}
	if err := r.Scenarios.SetCurrent(ctx, id, actor, now); err != nil {
		return fmt.Errorf("activating scenario %s: %w", id, err)
	}
	return nil
}

// ensureWritable is the single write gate for nodes and entries.
func ensureWritable(ctx context.Context, r repository.Repos, scenarioID string) error {
	sc, err := r.Scenarios.GetByID(ctx, scenarioID)
	if err != nil {
		return fmt.Errorf("checking scenario %s: %w", scenarioID, err)
	}
	return sc.EnsureWritable()
}
