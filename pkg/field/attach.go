package field

import "fmt"

// Well-known attachment keys.
const (
	AttachName     = "name"
	AttachMaterial = "material"
)

// Attachments is a per-node side map of opaque values keyed by name.
// Evaluation never reads or writes attachments; they exist for consumers
// such as shading and export.
type Attachments map[string]any

// Attach stores value under key and returns the node for chaining.
// Attachments must be set before the graph is evaluated concurrently.
func (n *Node) Attach(key string, value any) *Node {
	if n.Attachments == nil {
		n.Attachments = make(Attachments)
	}
	n.Attachments[key] = value
	return n
}

// Attachment returns the raw value stored under key.
func (n *Node) Attachment(key string) (any, bool) {
	if n == nil || n.Attachments == nil {
		return nil, false
	}
	v, ok := n.Attachments[key]
	return v, ok
}

// Lookup returns the attachment stored under key as a T. It fails with
// ErrAttachmentAbsent if the key is unset and with ErrAttachmentType if the
// value is not a T.
func Lookup[T any](n *Node, key string) (T, error) {
	var zero T
	v, ok := n.Attachment(key)
	if !ok {
		return zero, fmt.Errorf("field: %q: %w", key, ErrAttachmentAbsent)
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("field: %q is %T, want %T: %w", key, v, zero, ErrAttachmentType)
	}
	return t, nil
}

// LookupOr returns the attachment stored under key as a T, or def if the key
// is unset or holds a value of another type.
func LookupOr[T any](n *Node, key string, def T) T {
	t, err := Lookup[T](n, key)
	if err != nil {
		return def
	}
	return t
}

// Name returns the node's name attachment or the empty string.
func (n *Node) Name() string {
	return LookupOr(n, AttachName, "")
}
