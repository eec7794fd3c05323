package fsm

import "errors"

var (
	// ErrNoFunctionColor means the definition picture has no pixel of the
	// resolved Function color, so the graph has no coordinate anchor.
	ErrNoFunctionColor = errors.New("no function color found in definition")

	// ErrRoleConflict is returned when a color is registered under a role that
	// contradicts an existing registration (e.g. the Function color as Input).
	ErrRoleConflict = errors.New("color role conflict")

	// ErrReservedColor is returned when registering White or a loop-marker color.
	ErrReservedColor = errors.New("reserved color")

	// ErrStepBudget is returned by Identify when the configured step budget is
	// exhausted before the search finishes.
	ErrStepBudget = errors.New("match step budget exhausted")

	// ErrInvalidGraph is returned by Validate for structurally broken graphs.
	ErrInvalidGraph = errors.New("invalid state graph")

	// ErrBuilderUsed is returned when Build is called twice on one Builder.
	ErrBuilderUsed = errors.New("builder already built")
)
