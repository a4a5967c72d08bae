package tree

import (
	"github.com/hl7bridge/hl7v2/schema"
	"github.com/sirupsen/logrus"
)

// Add appends child to n's children. In Strict level, child's name
// must resolve as a schema-legal child of n and must not already be at
// its cardinality maximum; violations return ErrChildNotValid or
// ErrMaxChildLimitReached and child is not attached. In Lenient level,
// child is always attached.
func (n *Node) Add(child *Node) error {
	if child == nil {
		return &OpError{Op: "add", Path: n.Path(), Err: ErrOperationNotAllowed}
	}
	if n.Level() == Strict && !child.anonymous {
		defs, ok := n.childDefs()
		if !ok {
			return &OpError{Op: "add", Path: n.Path(), Name: child.name, Err: ErrChildNotValid}
		}
		def, found := findDef(defs, child.name)
		if !found {
			return &OpError{Op: "add", Path: n.Path(), Name: child.name, Err: ErrChildNotValid}
		}
		if existing := len(n.childrenNamed(child.name)); !def.Allows(existing) {
			return &OpError{Op: "add", Path: n.Path(), Name: child.name, Err: ErrMaxChildLimitReached}
		}
	}
	n.attach(child)
	return nil
}

// attach re-parents child under n at the end of n's children, setting
// its repetition index from the count of existing same-named siblings.
// Any previous parent loses ownership of child first (detach-and-
// reattach, spec.md §3.3).
func (n *Node) attach(child *Node) {
	if child.parent != nil {
		child.parent.detach(child)
	}
	child.parent = n
	child.root = n.root()
	child.index = len(n.childrenNamed(child.name))
	n.children = append(n.children, child)
}

// detach removes child from n's children without any cardinality
// check, then renumbers the remaining same-named siblings so
// repetition indices stay dense (spec.md §3.4 invariant 6).
func (n *Node) detach(child *Node) {
	idx := -1
	for i, c := range n.children {
		if c == child {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	n.children = append(n.children[:idx], n.children[idx+1:]...)
	child.parent = nil
	child.root = nil
	child.index = 0

	rep := 0
	for _, c := range n.children {
		if c.name == child.name {
			c.index = rep
			rep++
		}
	}
}

// Remove detaches child from n. No cardinality check is performed; a
// later Validate() call will catch an under-minimum occurrence count.
// Remove is a no-op if child is not a direct child of n.
func (n *Node) Remove(child *Node) {
	n.detach(child)
}

// RemoveNamed detaches the occurrence of nameOrLongName at index (0 if
// omitted) and reports whether a child was found and removed.
func (n *Node) RemoveNamed(nameOrLongName string, index int) bool {
	canonical, _, _, _, ok := n.resolve(nameOrLongName)
	if !ok {
		canonical = nameOrLongName
	}
	existing := n.childrenNamed(canonical)
	if index < 0 || index >= len(existing) {
		return false
	}
	n.detach(existing[index])
	return true
}

// addChild is the shared implementation behind AddSegment, AddGroup
// and AddField: resolve name against n's schema children restricted to
// wantKind, construct the node, and append it via Add.
func (n *Node) addChild(op string, wantKind schema.Kind, name string) (*Node, error) {
	defs, ok := n.childDefs()
	var def schema.ChildDef
	found := false
	if ok {
		def, found = findDef(defs, name)
	}

	child := &Node{name: name}
	switch {
	case found && effectiveKind(n, def) == wantKind:
		child.kind = wantKind
		child.longName = def.LongName
		child.dataType = def.DataType
	case n.Level() == Strict:
		return nil, &OpError{Op: op, Path: n.Path(), Name: name, Err: ErrChildNotValid}
	default:
		child.kind = wantKind
		child.anonymous = true
		Logger.WithFields(logrus.Fields{"op": op, "parent": n.Path(), "name": name}).
			Debug("tree: lenient mode accepted unknown name as an anonymous node")
	}

	if err := n.Add(child); err != nil {
		return nil, err
	}
	return child, nil
}

// AddSegment constructs and appends a Segment child named name.
func (n *Node) AddSegment(name string) (*Node, error) {
	return n.addChild("add_segment", schema.Segment, name)
}

// AddGroup constructs and appends a Group child named name.
func (n *Node) AddGroup(name string) (*Node, error) {
	return n.addChild("add_group", schema.Group, name)
}

// AddField constructs and appends a Field child named name.
func (n *Node) AddField(name string) (*Node, error) {
	return n.addChild("add_field", schema.Field, name)
}

// AddChild constructs and appends a child named name, inferring its
// Kind from the schema rather than requiring the caller to know
// whether it resolves to a Field, Component or SubComponent. Used by
// the parse package, which already knows a node's name (e.g. "XPN_1")
// but not, in general, whether that makes it a Component or a
// SubComponent (that depends on the parent's own kind; see
// schema.Registry.LookupStructure).
func (n *Node) AddChild(name string) (*Node, error) {
	defs, ok := n.childDefs()
	child := &Node{name: name}
	if ok {
		if def, found := findDef(defs, name); found {
			child.kind = effectiveKind(n, def)
			child.longName = def.LongName
			child.dataType = def.DataType
			if err := n.Add(child); err != nil {
				return nil, err
			}
			return child, nil
		}
	}
	if n.Level() == Strict {
		return nil, &OpError{Op: "add_child", Path: n.Path(), Name: name, Err: ErrChildNotValid}
	}
	child.kind = schema.Unknown
	child.anonymous = true
	Logger.WithFields(logrus.Fields{"op": "add_child", "parent": n.Path(), "name": name}).
		Debug("tree: lenient mode accepted unknown name as an anonymous node")
	if err := n.Add(child); err != nil {
		return nil, err
	}
	return child, nil
}

// findDef finds the schema child definition named name (case-sensitive
// canonical match) in defs.
func findDef(defs []schema.ChildDef, name string) (schema.ChildDef, bool) {
	for _, d := range defs {
		if d.Name == name {
			return d, true
		}
	}
	return schema.ChildDef{}, false
}
