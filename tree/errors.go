package tree

import (
	"errors"
	"fmt"
)

// Sentinel errors for the Element Tree operations (spec.md §4.C).
var (
	// ErrChildNotValid is returned by Add/AddSegment/AddGroup/AddField
	// in Strict mode when a child's name is not schema-legal for its
	// intended parent.
	ErrChildNotValid = errors.New("tree: child not valid for parent")
	// ErrMaxChildLimitReached is returned in Strict mode when adding a
	// child would exceed the schema's cardinality maximum.
	ErrMaxChildLimitReached = errors.New("tree: maximum child cardinality reached")
	// ErrChildNotFound is returned by Get when name does not resolve
	// against the parent's schema at all (as opposed to resolving but
	// having zero occurrences, which is not an error).
	ErrChildNotFound = errors.New("tree: child not found")
	// ErrMaxLengthReached is returned when a scalar value exceeds its
	// data type's maximum length in Strict mode.
	ErrMaxLengthReached = errors.New("tree: value exceeds maximum length")
	// ErrInvalidValue is returned when a scalar value fails its data
	// type's regex or charset constraint in Strict mode.
	ErrInvalidValue = errors.New("tree: value invalid for data type")
	// ErrOperationNotAllowed is returned for operations that don't make
	// sense on a node's kind, e.g. setting children on a scalar node or
	// setting a value on a composite node.
	ErrOperationNotAllowed = errors.New("tree: operation not allowed")
	// ErrUnknownVersion is returned by New and NewDetached when no
	// schema registry is supplied (reg is nil).
	ErrUnknownVersion = errors.New("tree: unknown schema version")
)

// OpError carries the path and failing name alongside one of the
// sentinel errors above, so callers get both a stable error value (via
// Unwrap/errors.Is) and a precise location for logs and diagnostics.
type OpError struct {
	Op   string // e.g. "new", "add", "add_child", "add_segment", "get", "set"
	Path string // the node path the operation was attempted at
	Name string // the child/attribute name involved, if any
	Err  error
}

// Error implements the error interface.
func (e *OpError) Error() string {
	msg := fmt.Sprintf("tree: %s", e.Op)
	if e.Path != "" {
		msg = fmt.Sprintf("%s %s", msg, e.Path)
	}
	if e.Name != "" {
		msg = fmt.Sprintf("%s %q", msg, e.Name)
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

// Unwrap returns the underlying sentinel error.
func (e *OpError) Unwrap() error {
	return e.Err
}
