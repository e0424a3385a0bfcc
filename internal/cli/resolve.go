package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/ghostledger/internal/domain"
)

const fullIDLen = 36

// matchPrefix returns the single id starting with input. Full-length ids
// pass through untouched.
func matchPrefix(kind, input string, ids []string) (string, error) {
	if len(input) == fullIDLen {
		return input, nil
	}
	var found []string
	for _, id := range ids {
		if strings.HasPrefix(id, input) {
			found = append(found, id)
		}
	}
	switch len(found) {
	case 0:
		return "", fmt.Errorf("%s %q: %w", kind, input, domain.ErrNotFound)
	case 1:
		return found[0], nil
	default:
		return "", fmt.Errorf("%w: %s prefix %q matches %d ids", domain.ErrValidation, kind, input, len(found))
	}
}

// resolveScenarioID resolves a scenario id or id prefix. An empty input
// means the current scenario.
func resolveScenarioID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		cur, err := app.Scenarios.Current(ctx)
		if err != nil {
			return "", fmt.Errorf("no current scenario (pass --scenario or activate one): %w", err)
		}
		return cur.ID, nil
	}
	list, err := app.Scenarios.ListAll(ctx)
	if err != nil {
		return "", err
	}
	ids := make([]string, len(list))
	for i, s := range list {
		ids[i] = s.ID
	}
	return matchPrefix("scenario", input, ids)
}

// resolveNodeID resolves a node id or a prefix within scenarioID.
func resolveNodeID(ctx context.Context, app *App, input, scenarioID string) (string, error) {
	if len(input) == fullIDLen {
		return input, nil
	}
	sid, err := resolveScenarioID(ctx, app, scenarioID)
	if err != nil {
		return "", err
	}
	nodes, err := app.Nodes.ListByScenario(ctx, sid)
	if err != nil {
		return "", err
	}
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return matchPrefix("node", input, ids)
}

// resolveEntryID resolves an entry id or a prefix within the current scenario.
func resolveEntryID(ctx context.Context, app *App, input string) (string, error) {
	if len(input) == fullIDLen {
		return input, nil
	}
	sid, err := resolveScenarioID(ctx, app, "")
	if err != nil {
		return "", err
	}
	entries, err := app.Entries.ListByScenario(ctx, sid)
	if err != nil {
		return "", err
	}
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return matchPrefix("entry", input, ids)
}

// resolveAccountID accepts an account code or id.
func resolveAccountID(ctx context.Context, app *App, input string) (string, error) {
	items, err := app.Accounts.ListAll(ctx)
	if err != nil {
		return "", err
	}
	for _, it := range items {
		if it.Code == input || it.ID == input {
			return it.ID, nil
		}
	}
	return "", fmt.Errorf("account %q: %w", input, domain.ErrNotFound)
}

// resolveServiceID accepts a service slug or id.
func resolveServiceID(ctx context.Context, app *App, input string) (string, error) {
	services, err := app.Catalog.ListAll(ctx)
	if err != nil {
		return "", err
	}
	for _, s := range services {
		if s.Slug == input || s.ID == input {
			return s.ID, nil
		}
	}
	return "", fmt.Errorf("service %q: %w", input, domain.ErrNotFound)
}

func accountCodes(ctx context.Context, app *App) (map[string]string, error) {
	items, err := app.Accounts.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	codes := make(map[string]string, len(items))
	for _, it := range items {
		codes[it.ID] = it.Code
	}
	return codes, nil
}
