package domain

// CanBeChildOf reports whether a node of type t may be placed directly under
// a node of type parent.
func (t NodeType) CanBeChildOf(parent NodeType) bool {
	switch parent {
	case NodeInitiative:
		return t == NodeProject
	case NodeProject, NodeSubProject:
		return t == NodeSubProject || t == NodeJob || t == NodeAdjustmentBuffer
	default:
		return false
	}
}

// CanBeRoot reports whether a node of type t may exist without a parent.
func (t NodeType) CanBeRoot() bool {
	return t == NodeInitiative
}

// IsEntity reports whether t holds entries directly. Entity nodes must be
// bound to a service; container nodes never are.
func (t NodeType) IsEntity() bool {
	return t == NodeJob || t == NodeAdjustmentBuffer
}
