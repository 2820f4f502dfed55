package delegation

import "errors"

var (
	ErrAgentNotFound      = errors.New("agent not found")
	ErrSelfReference      = errors.New("agent cannot delegate to itself")
	ErrDuplicateEdge      = errors.New("subagent relationship already exists")
	ErrCircularDependency = errors.New("circular delegation")
	ErrSubagentNotFound   = errors.New("subagent relationship not found")
)

// IsInvalid reports whether err was caused by a request that would violate a
// graph invariant.
func IsInvalid(err error) bool {
	return errors.Is(err, ErrSelfReference) ||
		errors.Is(err, ErrDuplicateEdge) ||
		errors.Is(err, ErrCircularDependency)
}

// IsNotFound reports whether err refers to a missing agent or edge.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrAgentNotFound) || errors.Is(err, ErrSubagentNotFound)
}
