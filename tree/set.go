package tree

import (
	"github.com/hl7bridge/hl7v2/delim"
	"github.com/hl7bridge/hl7v2/schema"
	"github.com/sirupsen/logrus"
)

// SubParser decodes text into target's children as a sub-parse
// (spec.md §3.3): parsing text as a Segment, Field or Component
// matching target's kind, using target's ambient delimiters and
// validation level. The parse package registers its implementation
// here at init time, letting Node.Set perform sub-parses without tree
// importing parse (which itself imports tree to build the result).
var SubParser func(kind schema.Kind, text string, target *Node) error

// Set assigns value to the child of n named nameOrLongName (schema
// name, long name, or repetition-0 implicit). The child is created
// lazily if it doesn't exist yet ("autovivify on assign", spec.md
// §4.C) — but only here, never on a bare Get.
//
// If value is a *Node, it replaces the current child by detach-and-
// reattach. If value is a string and the target is composite, the
// string is sub-parsed and replaces the target's children. If the
// target is scalar, the string is decoded (escapes resolved) and
// stored, subject to the data type's base constraints in Strict mode.
func (n *Node) Set(nameOrLongName string, value any) (*Node, error) {
	canonical, kind, dataType, card, legal := n.resolve(nameOrLongName)
	if !legal {
		if n.Level() == Strict {
			return nil, &OpError{Op: "set", Path: n.Path(), Name: nameOrLongName, Err: ErrChildNotValid}
		}
		canonical = nameOrLongName
		kind = schema.Field
		Logger.WithFields(logrus.Fields{"op": "set", "parent": n.Path(), "name": nameOrLongName}).
			Debug("tree: lenient mode accepted unknown name as an anonymous node")
	}
	existing := n.childrenNamed(canonical)

	if repl, ok := value.(*Node); ok {
		if len(existing) > 0 {
			n.replaceChild(existing[0], repl)
		} else {
			if legal && n.Level() == Strict && !card.Allows(0) {
				return nil, &OpError{Op: "set", Path: n.Path(), Name: canonical, Err: ErrMaxChildLimitReached}
			}
			repl.name = canonical
			n.attach(repl)
		}
		return repl, nil
	}

	str, ok := value.(string)
	if !ok {
		return nil, &OpError{Op: "set", Path: n.Path(), Name: canonical, Err: ErrOperationNotAllowed}
	}

	var target *Node
	if len(existing) > 0 {
		target = existing[0]
	} else {
		if legal && n.Level() == Strict && !card.Allows(0) {
			return nil, &OpError{Op: "set", Path: n.Path(), Name: canonical, Err: ErrMaxChildLimitReached}
		}
		target = &Node{name: canonical, kind: kind, dataType: dataType, anonymous: !legal}
		n.attach(target)
	}
	if err := target.assignString(str); err != nil {
		return nil, err
	}
	return target, nil
}

// replaceChild splices repl into n's children in place of old,
// preserving old's position, then detaches old. repl is detached from
// any prior parent first.
func (n *Node) replaceChild(old, repl *Node) {
	for i, c := range n.children {
		if c != old {
			continue
		}
		if repl.parent != nil {
			repl.parent.detach(repl)
		}
		repl.name = old.name
		repl.parent = n
		repl.root = n.root()
		n.children[i] = repl

		rep := 0
		for _, c2 := range n.children {
			if c2.name == repl.name {
				c2.index = rep
				rep++
			}
		}
		old.parent = nil
		old.root = nil
		return
	}
	n.attach(repl)
}

// assignString performs the scalar-store or sub-parse half of Set, on
// an already-attached target node.
func (t *Node) assignString(v string) error {
	if t.isComposite() {
		if SubParser == nil {
			return &OpError{Op: "set", Path: t.Path(), Err: ErrOperationNotAllowed}
		}
		t.children = nil
		return SubParser(t.kind, v, t)
	}
	return t.SetScalar(v)
}

// SetScalar decodes raw (resolving escape sequences with the tree's
// current delimiters) and stores it as t's value, checking the data
// type's base constraints in Strict mode. It's exported for the parse
// package, which builds leaf nodes directly rather than through Set's
// by-name resolution.
func (t *Node) SetScalar(raw string) error {
	decoded := delim.NewEscaper(t.Delimiters()).Unescape(raw)
	if t.Level() == Strict && t.dataType != "" {
		if bc, ok := t.Registry().BaseConstraints(t.dataType); ok {
			if bc.MaxLength > 0 && len([]rune(decoded)) > bc.MaxLength {
				return &OpError{Op: "set", Path: t.Path(), Err: ErrMaxLengthReached}
			}
			if bc.Regex != nil && decoded != "" && !bc.Regex.MatchString(decoded) {
				return &OpError{Op: "set", Path: t.Path(), Err: ErrInvalidValue}
			}
		}
	}
	t.value = decoded
	return nil
}

// isComposite reports whether t decomposes into schema children
// rather than holding a scalar value directly.
func (t *Node) isComposite() bool {
	if len(t.children) > 0 {
		return true
	}
	switch t.kind {
	case schema.Message, schema.Group, schema.Segment:
		return true
	case schema.SubComponent:
		return false
	}
	if t.dataType == "" {
		return false
	}
	return !t.Registry().IsBase(t.dataType)
}
