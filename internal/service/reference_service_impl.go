package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/ghostledger/internal/domain"
	"github.com/alexanderramin/ghostledger/internal/repository"
)

type accountItemService struct {
	store    Store
	observer UseCaseObserver
}

func NewAccountItemService(store Store, observers ...UseCaseObserver) AccountItemService {
	return &accountItemService{store: store, observer: useCaseObserverOrNoop(observers)}
}

func (s *accountItemService) Create(ctx context.Context, in CreateAccountItemInput) (_ *domain.AccountItem, err error) {
	done := track(ctx, s.observer, "create-account-item", map[string]any{"code": in.Code})
	defer func() { done(err) }()

	item, err := domain.NewAccountItem(in.Name, in.Code, in.Description, in.AccountType, in.DisplayOrder)
	if err != nil {
		return nil, err
	}
	err = s.store.withinTx(ctx, func(ctx context.Context, r repository.Repos) error {
		return r.AccountItems.Create(ctx, item)
	})
	if err != nil {
		return nil, fmt.Errorf("creating account item: %w", err)
	}
	return item, nil
}

func (s *accountItemService) ListAll(ctx context.Context) ([]*domain.AccountItem, error) {
	return s.store.Reads.AccountItems.ListAll(ctx)
}

type catalogService struct {
	store    Store
	observer UseCaseObserver
}

func NewCatalogService(store Store, observers ...UseCaseObserver) CatalogService {
	return &catalogService{store: store, observer: useCaseObserverOrNoop(observers)}
}

func (s *catalogService) Create(ctx context.Context, name, slug string, displayOrder int) (_ *domain.Service, err error) {
	done := track(ctx, s.observer, "create-service", map[string]any{"slug": slug})
	defer func() { done(err) }()

	svc, err := domain.NewService(name, slug, displayOrder)
	if err != nil {
		return nil, err
	}
	err = s.store.withinTx(ctx, func(ctx context.Context, r repository.Repos) error {
		_, err := r.Services.GetBySlug(ctx, slug)
		switch {
		case err == nil:
			return fmt.Errorf("%w: service slug %q already exists", domain.ErrConflict, slug)
		case !errors.Is(err, domain.ErrNotFound):
			return err
		}
		return r.Services.Create(ctx, svc)
	})
	if err != nil {
		return nil, fmt.Errorf("creating service: %w", err)
	}
	return svc, nil
}

func (s *catalogService) ListAll(ctx context.Context) ([]*domain.Service, error) {
	return s.store.Reads.Services.ListAll(ctx)
}
