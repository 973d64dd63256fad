package agent

import "errors"

var (
	// ErrInvalidParameter indicates a non-positive duration, count or size,
	// or a negative clip ceiling.
	ErrInvalidParameter = errors.New("agent: invalid parameter")

	// ErrUnknownPolicy indicates a control policy name with no strategy.
	ErrUnknownPolicy = errors.New("agent: unknown control policy")
)
