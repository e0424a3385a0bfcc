package cli

import (
	"github.com/alexanderramin/ghostledger/internal/domain"
)

// Process exit codes by error kind.
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitInvalid  = 2
	ExitNotFound = 3
	ExitReadOnly = 4
	ExitConflict = 5
	ExitStorage  = 6
)

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	switch domain.KindOf(err) {
	case "":
		return ExitOK
	case "validation", "invalid_hierarchy", "invalid_service_binding",
		"cross_scenario_parent", "non_empty_node", "container_node":
		return ExitInvalid
	case "not_found":
		return ExitNotFound
	case "read_only_scenario":
		return ExitReadOnly
	case "conflict":
		return ExitConflict
	case "storage":
		return ExitStorage
	default:
		return ExitFailure
	}
}
