// Package inspect implements the lookup-and-print engine behind the
// inspect command: validating the user's element selection, resolving it
// against the graph's collections, and rendering the results in a
// stable, greppable text format.
package inspect

import "errors"

// Selection errors. Messages returned to the user always name the
// offending index or name so the invocation can be corrected directly.
var (
	ErrConflictingSelectors  = errors.New("cannot set both --indices and --names")
	ErrSelectorWithoutTarget = errors.New("--indices and --names require --node or --tensor")
	ErrDetailWithoutSelector = errors.New("--detail requires --indices or --names")
	ErrIndexOutOfRange       = errors.New("index out of range")
	ErrNameNotFound          = errors.New("name not found")
)

// Options carries the raw inspect flags before validation.
type Options struct {
	Meta    bool
	Node    bool
	Tensor  bool
	Indices []int
	Names   []string
	Detail  bool
}

// Selector is the validated element-selection intent: an index list, a
// name list, or neither ("all"). Never both.
type Selector struct {
	Indices []int
	Names   []string
	Detail  bool
}

// NewSelector validates the raw flags and returns the normalized
// Selector. Pure: no side effects, first violated rule wins.
func NewSelector(opts Options) (Selector, error) {
	hasIndices := len(opts.Indices) > 0
	hasNames := len(opts.Names) > 0
	if hasIndices && hasNames {
		return Selector{}, ErrConflictingSelectors
	}
	if (hasIndices || hasNames) && !opts.Node && !opts.Tensor {
		return Selector{}, ErrSelectorWithoutTarget
	}
	if opts.Detail && !hasIndices && !hasNames {
		return Selector{}, ErrDetailWithoutSelector
	}
	return Selector{Indices: opts.Indices, Names: opts.Names, Detail: opts.Detail}, nil
}
