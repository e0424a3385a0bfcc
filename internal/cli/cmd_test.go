package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/alexanderramin/ghostledger/internal/domain"
	"github.com/alexanderramin/ghostledger/internal/service"
	"github.com/alexanderramin/ghostledger/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
func testApp(t *testing.T) *App {
	t.Helper()
	store := service.NewStore(testutil.NewTestDB(t))
	entries := service.NewEntryService(store, "")
	return &App{
		Scenarios: service.NewScenarioService(store),
		Nodes:     service.NewNodeService(store),
		Entries:   entries,
		Rollover:  service.NewRolloverService(store),
		Accounts:  service.NewAccountItemService(store),
		Catalog:   service.NewCatalogService(store),
		Import:    service.NewImportService(store, entries),
		Actor:     testutil.TestActor,
	}
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

var idPattern = regexp.MustCompile(`\(([0-9a-f-]{36})\)`)

// mustRun executes args and returns the id printed in the output.
func mustRun(t *testing.T, app *App, args ...string) string {
	t.Helper()
	out, err := executeCmd(t, app, args...)
	require.NoError(t, err, out)
	if m := idPattern.FindStringSubmatch(out); m != nil {
		return m[1]
	}
	return ""
}

type seeded struct {
	scenario, initiative, project, job string
}

func seedLedger(t *testing.T, app *App) seeded {
	t.Helper()
	mustRun(t, app, "account", "add", "--name", "Sales", "--code", "4000", "--type", "Revenue")
	mustRun(t, app, "service", "add", "--name", "Consulting", "--slug", "consulting")

	var s seeded
	s.scenario = mustRun(t, app, "scenario", "add", "--name", "FY2025", "--start", "2025-01-01", "--end", "2025-12-31", "--activate")
	s.initiative = mustRun(t, app, "node", "add", "--title", "Growth", "--type", "Initiative")
	s.project = mustRun(t, app, "node", "add", "--title", "Expansion", "--type", "Project", "--parent", s.initiative[:8])
	s.job = mustRun(t, app, "node", "add", "--title", "Delivery", "--type", "Job", "--parent", s.project, "--service", "consulting")
	return s
}

func TestRootCmd_NoArgs_ShowsHelp(t *testing.T) {
	out, err := executeCmd(t, testApp(t))
	require.NoError(t, err)
	assert.Contains(t, out, "ghostledger")
	assert.Contains(t, out, "scenario")
}

func TestScenarioCmds(t *testing.T) {
	app := testApp(t)
	s := seedLedger(t, app)

	out, err := executeCmd(t, app, "scenario", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "FY2025")
	assert.Contains(t, out, "CURRENT")

	out, err = executeCmd(t, app, "scenario", "current")
	require.NoError(t, err)
	assert.Contains(t, out, s.scenario)

	next := mustRun(t, app, "scenario", "add", "--name", "FY2026", "--start", "2026-01-01", "--end", "2026-12-31")
	mustRun(t, app, "scenario", "activate", next[:8])
	cur, err := app.Scenarios.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, next, cur.ID)

	mustRun(t, app, "scenario", "lock", s.scenario)
	_, err = executeCmd(t, app, "scenario", "activate", s.scenario)
	assert.ErrorIs(t, err, domain.ErrReadOnlyScenario)
	assert.Equal(t, ExitReadOnly, ExitCode(err))
}

func TestScenarioAdd_Validation(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "scenario", "add", "--name", "X", "--start", "2025/01/01")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "--start must match YYYY-MM-DD")
	assert.Contains(t, err.Error(), "--end is required")
	assert.Equal(t, ExitInvalid, ExitCode(err))

	_, err = executeCmd(t, app, "scenario", "add", "--name", "X", "--start", "2025-12-31", "--end", "2025-01-01")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestNodeCmds(t *testing.T) {
	app := testApp(t)
	s := seedLedger(t, app)

	out, err := executeCmd(t, app, "node", "tree")
	require.NoError(t, err)
	assert.Contains(t, out, "Growth")
	assert.Contains(t, out, "└─ Delivery")
	assert.Contains(t, out, "[ consulting ]")

	_, err = executeCmd(t, app, "node", "update", s.project, "--description", "east coast")
	require.NoError(t, err)
	n, err := app.Nodes.GetByID(context.Background(), s.project)
	require.NoError(t, err)
	assert.Equal(t, "Expansion", n.Title)
	assert.Equal(t, "east coast", *n.Description)

	_, err = executeCmd(t, app, "node", "update", s.project)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = executeCmd(t, app, "node", "remove", s.project)
	assert.ErrorIs(t, err, domain.ErrNonEmptyNode)
	assert.Equal(t, ExitInvalid, ExitCode(err))

	_, err = executeCmd(t, app, "node", "add", "--title", "Bad", "--type", "Job", "--parent", s.initiative, "--service", "consulting")
	assert.ErrorIs(t, err, domain.ErrInvalidHierarchy)

	_, err = executeCmd(t, app, "node", "add", "--title", "Bad", "--type", "Task")
	assert.ErrorContains(t, err, "--type must be one of")

	mustRun(t, app, "node", "remove", s.job)
	_, err = app.Nodes.GetByID(context.Background(), s.job)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEntryCmds(t *testing.T) {
	app := testApp(t)
	s := seedLedger(t, app)

	entryID := mustRun(t, app, "entry", "save", "--node", s.job, "--account", "4000",
		"--month", "2025-03", "--category", "Plan", "--amount", "1200")
	require.NotEmpty(t, entryID)
	mustRun(t, app, "entry", "save", "--node", s.job, "--account", "4000",
		"--month", "2025-03", "--category", "Plan", "--amount", "1500.25", "--actor", "editor")

	out, err := executeCmd(t, app, "entry", "list", "--node", s.job)
	require.NoError(t, err)
	assert.Contains(t, out, "2025-03")
	assert.Contains(t, out, "1,500.25")

	out, err = executeCmd(t, app, "entry", "history", entryID[:8])
	require.NoError(t, err)
	assert.Contains(t, out, "Create")
	assert.Contains(t, out, "Update")
	assert.Contains(t, out, "editor")

	_, err = executeCmd(t, app, "entry", "save", "--node", s.project, "--account", "4000",
		"--month", "2025-03", "--category", "Plan", "--amount", "1")
	assert.ErrorIs(t, err, domain.ErrContainerNode)

	_, err = executeCmd(t, app, "entry", "save", "--node", s.job, "--account", "4000",
		"--month", "March", "--category", "Forecast", "--amount", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--month must match YYYY-MM")
	assert.Contains(t, err.Error(), "--category must be one of: Plan, Result")
	assert.Contains(t, err.Error(), "--amount must be a decimal number")

	_, err = executeCmd(t, app, "entry", "save", "--node", s.job, "--account", "9999",
		"--month", "2025-03", "--category", "Plan", "--amount", "1")
	assert.Equal(t, ExitNotFound, ExitCode(err))
}

func TestEntryImportCmd(t *testing.T) {
	app := testApp(t)
	s := seedLedger(t, app)

	path := filepath.Join(t.TempDir(), "entries.yaml")
	content := fmt.Sprintf("entries:\n  - node_id: %s\n    account_code: \"4000\"\n    month: 2025-05\n    category: Result\n    amount: \"42\"\n", s.job)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	out, err := executeCmd(t, app, "entry", "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 entries")

	entries, err := app.Entries.ListByNode(context.Background(), s.job, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	history, err := app.Entries.History(context.Background(), entries[0].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SourceImport, history[0].OperationSource)
}

func TestRolloverCmd(t *testing.T) {
	app := testApp(t)
	s := seedLedger(t, app)
	mustRun(t, app, "entry", "save", "--node", s.job, "--account", "4000",
		"--month", "2025-03", "--category", "Plan", "--amount", "100")

	out, err := executeCmd(t, app, "scenario", "rollover", "--name", "FY2026",
		"--start", "2026-01-01", "--end", "2026-12-31", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "ROLLOVER COMPLETE")
	assert.Contains(t, out, "FY2026")

	cur, err := app.Scenarios.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "FY2026", cur.Name)
	nodes, err := app.Nodes.ListByScenario(context.Background(), cur.ID)
	require.NoError(t, err)
	assert.Len(t, nodes, 3)
}

func TestRolloverCmd_Confirmation(t *testing.T) {
	app := testApp(t)
	seedLedger(t, app)

	var asked string
	app.IsInteractive = func() bool { return true }
	app.Confirm = func(title string) (bool, error) {
		asked = title
		return false, nil
	}

	_, err := executeCmd(t, app, "scenario", "rollover", "--name", "FY2026",
		"--start", "2026-01-01", "--end", "2026-12-31")
	assert.True(t, errors.Is(err, errAborted))
	assert.Contains(t, asked, `"FY2025"`)

	all, err := app.Scenarios.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestReferenceCmds(t *testing.T) {
	app := testApp(t)
	seedLedger(t, app)

	out, err := executeCmd(t, app, "account", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "4000")
	assert.Contains(t, out, "Revenue")

	out, err = executeCmd(t, app, "service", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "consulting")

	_, err = executeCmd(t, app, "service", "add", "--name", "Again", "--slug", "consulting")
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, ExitConflict, ExitCode(err))

	_, err = executeCmd(t, app, "account", "add", "--name", "X", "--code", "1", "--type", "Equity")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitOK, ExitCode(nil))
	assert.Equal(t, ExitFailure, ExitCode(errors.New("boom")))
	assert.Equal(t, ExitStorage, ExitCode(fmt.Errorf("x: %w", domain.ErrStorage)))
	assert.Equal(t, ExitInvalid, ExitCode(domain.ErrCrossScenarioParent))
}
