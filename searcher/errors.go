package searcher

import "errors"

var (
	// ErrAdapterInconsistency means the environment broke its contract, e.g. it
	// rejected a move it reported legal. Search cannot recover from it.
	ErrAdapterInconsistency = errors.New("environment adapter inconsistency")

	ErrNoExpandableChild = errors.New("no expandable child")
	ErrEmptyRootChildren = errors.New("root has no children")
	ErrDeadlineOverrun   = errors.New("deadline overrun")
)
