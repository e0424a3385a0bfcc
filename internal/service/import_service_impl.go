package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/ghostledger/internal/domain"
	"github.com/alexanderramin/ghostledger/internal/importer"
)

type importService struct {
	store    Store
	entries  EntryService
	observer UseCaseObserver
}

func NewImportService(store Store, entries EntryService, observers ...UseCaseObserver) ImportService {
	return &importService{store: store, entries: entries, observer: useCaseObserverOrNoop(observers)}
}

func (s *importService) ImportEntries(ctx context.Context, filePath, actor string) (_ *ImportResult, err error) {
	done := track(ctx, s.observer, "import-entries", map[string]any{"path": filePath})
	defer func() { done(err) }()

	file, err := importer.LoadEntryFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.importFile(ctx, file, actor)
}

func (s *importService) ImportEntryFile(ctx context.Context, file *importer.EntryFile, actor string) (_ *ImportResult, err error) {
	done := track(ctx, s.observer, "import-entry-file", nil)
	defer func() { done(err) }()

	return s.importFile(ctx, file, actor)
}

func (s *importService) importFile(ctx context.Context, file *importer.EntryFile, actor string) (*ImportResult, error) {
	if errs := importer.ValidateEntryFile(file); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	items, err := s.store.Reads.AccountItems.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading account items: %w", err)
	}
	byCode := make(map[string]string, len(items))
	for _, it := range items {
		byCode[it.Code] = it.ID
	}

	rows, err := importer.Convert(file, func(code string) (string, bool) {
		id, ok := byCode[code]
		return id, ok
	})
	if err != nil {
		return nil, fmt.Errorf("converting import file: %w", err)
	}

	inputs := make([]SaveEntryInput, 0, len(rows))
	for _, row := range rows {
		inputs = append(inputs, SaveEntryInput{
			NodeID:        row.NodeID,
			AccountItemID: row.AccountItemID,
			TargetMonth:   row.TargetMonth,
			Category:      row.Category,
			Amount:        row.Amount,
			Description:   row.Description,
		})
	}

	saved, err := s.entries.SaveBulk(ctx, inputs, actor, domain.SourceImport)
	if err != nil {
		return nil, err
	}
	return &ImportResult{Entries: saved}, nil
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%w: %s", domain.ErrValidation, msg)
}
