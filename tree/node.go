// Package tree implements the Element Tree (spec.md §4.C): the single
// six-kind node type (Message, Group, Segment, Field, Component,
// SubComponent) that holds a parsed or hand-built HL7 message, its
// schema-directed mutation operations, and ER7 serialisation.
//
// A single concrete [Node] type tagged with a schema.Kind stands in
// for what a deeper class hierarchy would otherwise need six of
// (spec.md §9): constructors return *Node for every kind, and kind-
// specific behavior (can this node hold a value, does this node
// repeat by field or by segment) is a handful of switches over Kind
// rather than six separate types.
package tree

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hl7bridge/hl7v2/delim"
	"github.com/hl7bridge/hl7v2/schema"
)

// Node is one element of the tree: a Message, Group, Segment, Field,
// Component or SubComponent. Every node is owned exclusively by its
// parent (spec.md §3.3); the root node (a Message from New, or the
// Segment/Field/Component from NewDetached) owns the registry,
// delimiter set and validation level every descendant inherits.
type Node struct {
	kind      schema.Kind
	name      string // schema key, e.g. "PID", "PID_5", "XPN_1"; the unknown name as given if anonymous
	longName  string
	dataType  string // Field/Component/SubComponent only
	value     string // scalar content; meaningful only when len(children) == 0
	anonymous bool

	parent   *Node
	children []*Node
	index    int // 0-based repetition index among same-named siblings

	// Root-only; reached through root() from any descendant.
	root     *Node
	registry schema.Registry
	delims   *delim.Set
	level    Level
	version  string
}

// New builds a root Message node for structureName (e.g. "ADT_A01")
// against reg. delims defaults to delim.Default() when nil. In Strict
// level an unknown structureName fails with ErrChildNotValid; in
// Lenient level the root is built anonymous and accepts any content.
func New(structureName string, reg schema.Registry, delims *delim.Set, level Level) (*Node, error) {
	if reg == nil {
		return nil, fmt.Errorf("%w: nil registry", ErrUnknownVersion)
	}
	if delims == nil {
		delims = delim.Default()
	}
	n := &Node{
		kind:     schema.Message,
		name:     structureName,
		level:    level,
		delims:   delims,
		registry: reg,
		version:  reg.Version(),
	}
	kind, _, _, ok := reg.LookupStructure(structureName)
	switch {
	case ok && kind == schema.Message:
		// legal, named root.
	case level == Strict:
		return nil, &OpError{Op: "new", Name: structureName, Err: ErrChildNotValid}
	default:
		n.anonymous = true
	}
	return n, nil
}

// NewDetached builds a standalone root node of kind (Segment, Field or
// Component) for name, used for sub-parsing a fragment outside any
// Message (spec.md §4.D's parse_segment/parse_field/parse_component).
// Its data type and schema children are resolved directly from reg
// when name is known; in Strict level an unknown name fails with
// ErrChildNotValid.
func NewDetached(kind schema.Kind, name string, reg schema.Registry, delims *delim.Set, level Level) (*Node, error) {
	if reg == nil {
		return nil, fmt.Errorf("%w: nil registry", ErrUnknownVersion)
	}
	if delims == nil {
		delims = delim.Default()
	}
	n := &Node{
		kind:     kind,
		name:     name,
		level:    level,
		delims:   delims,
		registry: reg,
		version:  reg.Version(),
	}
	resolvedKind, _, dataType, ok := reg.LookupStructure(name)
	switch {
	case ok && resolvedKind == kind:
		n.dataType = dataType
	case level == Strict:
		return nil, &OpError{Op: "new", Name: name, Err: ErrChildNotValid}
	default:
		n.anonymous = true
	}
	return n, nil
}

// root returns the node that owns this subtree's registry, delimiters
// and validation level.
func (n *Node) root() *Node {
	if n.root != nil {
		return n.root
	}
	return n
}

// Kind returns the node's tree kind.
func (n *Node) Kind() schema.Kind { return n.kind }

// Name returns the node's schema key, or for an anonymous node the
// unknown name it was created with.
func (n *Node) Name() string { return n.name }

// LongName returns the schema's human label for this node, or "" if none.
func (n *Node) LongName() string { return n.longName }

// DataType returns the data type code for a Field, Component or
// SubComponent; "" for Message, Group and Segment.
func (n *Node) DataType() string { return n.dataType }

// IsAnonymous reports whether this node's name was unknown to the
// schema at construction time (Lenient mode only).
func (n *Node) IsAnonymous() bool { return n.anonymous }

// Index returns the 0-based repetition index of this node among its
// same-named siblings.
func (n *Node) Index() int { return n.index }

// Parent returns the owning node, or nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Registry returns the schema registry governing this node's tree.
func (n *Node) Registry() schema.Registry { return n.root().registry }

// Delimiters returns the delimiter set governing this node's tree.
// Mutating the returned Set affects every node in the tree (spec.md
// §3.2, "reference to ... delimiters — inherited from the root").
func (n *Node) Delimiters() *delim.Set { return n.root().delims }

// Level returns the validation level governing this node's tree.
func (n *Node) Level() Level { return n.root().level }

// Version returns the HL7 schema version governing this node's tree.
func (n *Node) Version() string { return n.root().version }

// IsScalar reports whether this node holds a value directly rather
// than decomposing into children.
func (n *Node) IsScalar() bool {
	return !n.isComposite()
}

// Value returns the node's scalar content. For a composite node (one
// with children) the value is never stored separately; Value returns
// "" and ToER7 should be used to obtain the composed encoding.
func (n *Node) Value() string {
	if len(n.children) > 0 {
		return ""
	}
	return n.value
}

// Children returns the node's direct children in wire order, including
// repetitions. The returned slice is a copy; mutating it does not
// affect the tree.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// schemaKey is the name used to look up this node's schema children:
// its own schema name, or "" if anonymous (anonymous nodes have no
// known schema children).
func (n *Node) schemaKey() string {
	if n.anonymous {
		return ""
	}
	return n.name
}

// childDefs returns this node's ordered schema children, or (nil,
// false) if the node is anonymous or the registry has nothing for it.
func (n *Node) childDefs() ([]schema.ChildDef, bool) {
	key := n.schemaKey()
	if key == "" {
		return nil, false
	}
	return n.Registry().ChildrenOf(key)
}

// ChildDefs returns n's ordered schema children, or (nil, false) if n
// is anonymous or the registry has nothing for it. Exported for
// callers outside tree (e.g. validate) that audit schema legality
// without mutating the tree.
func (n *Node) ChildDefs() ([]schema.ChildDef, bool) {
	return n.childDefs()
}

// effectiveKind resolves the Component/SubComponent naming ambiguity
// the registry leaves to the tree layer (schema.Registry.LookupStructure
// doc comment): a schema child tagged Component is actually a
// SubComponent when its parent is itself a Component.
func effectiveKind(parent *Node, c schema.ChildDef) schema.Kind {
	if parent.kind == schema.Component && c.Kind == schema.Component {
		return schema.SubComponent
	}
	return c.Kind
}

// childrenNamed returns this node's existing children whose schema
// name equals canonical, in repetition order.
func (n *Node) childrenNamed(canonical string) []*Node {
	var out []*Node
	for _, c := range n.children {
		if c.name == canonical {
			out = append(out, c)
		}
	}
	return out
}

// fieldSeq extracts the trailing "_<n>" position from a field- or
// component-level schema name.
func fieldSeq(name string) (int, bool) {
	idx := strings.LastIndex(name, "_")
	if idx < 0 || idx == len(name)-1 {
		return 0, false
	}
	n, err := strconv.Atoi(name[idx+1:])
	if err != nil {
		return 0, false
	}
	return n, true
}
