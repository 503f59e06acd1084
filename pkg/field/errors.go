package field

import (
	"errors"
	"fmt"
)

var (
	// ErrNoChildren is returned when a group or wrapper without children is
	// evaluated.
	ErrNoChildren = errors.New("node has no children")

	// ErrNilNode is returned when a nil node is evaluated or found in a graph.
	ErrNilNode = errors.New("nil node")

	// ErrCycle is returned when a node is its own ancestor.
	ErrCycle = errors.New("node graph contains a cycle")

	// ErrInvalidParameter is returned for primitive or wrapper parameters that
	// cannot produce a meaningful field.
	ErrInvalidParameter = errors.New("invalid node parameter")

	// ErrAttachmentAbsent is returned by a strict attachment lookup when the
	// key is not set.
	ErrAttachmentAbsent = errors.New("attachment not set")

	// ErrAttachmentType is returned by a strict attachment lookup when the
	// stored value has a different type than requested.
	ErrAttachmentType = errors.New("attachment has unexpected type")
)

// NodeError ties a failure to the kind of node that caused it.
type NodeError struct {
	Kind Kind
	Err  error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("field: %s: %v", e.Kind, e.Err)
}

func (e *NodeError) Unwrap() error {
	return e.Err
}

// recoverNodeError converts a *NodeError panic raised during evaluation into
// an error stored in *err. Other panics are re-raised.
func recoverNodeError(err *error) {
	if r := recover(); r != nil {
		if ne, ok := r.(*NodeError); ok {
			*err = ne
			return
		}
		panic(r)
	}
}
