package domain

import "errors"

// Error kinds returned by the planning core. Callers match them with
// errors.Is; the message of a wrapped error carries the detail.
var (
	ErrNotFound              = errors.New("not found")
	ErrReadOnlyScenario      = errors.New("read-only scenario")
	ErrInvalidHierarchy      = errors.New("invalid hierarchy")
	ErrInvalidServiceBinding = errors.New("invalid service binding")
	ErrCrossScenarioParent   = errors.New("parent node belongs to a different scenario")
	ErrNonEmptyNode          = errors.New("node is not empty")
	ErrContainerNode         = errors.New("cannot input entries to container nodes")
	ErrValidation            = errors.New("validation error")
	ErrConflict              = errors.New("conflict")
	ErrStorage               = errors.New("storage error")
)

var kindOrder = []struct {
	err  error
	name string
}{
	{ErrNotFound, "not_found"},
	{ErrReadOnlyScenario, "read_only_scenario"},
	{ErrInvalidHierarchy, "invalid_hierarchy"},
	{ErrInvalidServiceBinding, "invalid_service_binding"},
	{ErrCrossScenarioParent, "cross_scenario_parent"},
	{ErrNonEmptyNode, "non_empty_node"},
	{ErrContainerNode, "container_node"},
	{ErrValidation, "validation"},
	{ErrConflict, "conflict"},
	{ErrStorage, "storage"},
}

// KindOf returns a stable label for the first error kind found in err's
// chain, "unknown" for unclassified errors and "" for nil.
func KindOf(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kindOrder {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "unknown"
}
