package parse

import (
	"github.com/hl7bridge/hl7v2/schema"
	"github.com/hl7bridge/hl7v2/tree"
)

// slot tracks the placement cursor within one container's (Message or
// Group) ordered schema children, per spec.md §4.D.4's left-to-right
// greedy walk.
type slot struct {
	container *tree.Node
	defs      []schema.ChildDef
	pos       int
}

// grouper holds the open slot stack for one message's segment
// assignment. The stack's base is always the Message root; pushing
// happens when a Group is entered, popping when a Group's own schema
// children are exhausted.
type grouper struct {
	reg   schema.Registry
	stack []*slot
}

func newGrouper(reg schema.Registry, root *tree.Node) *grouper {
	defs, _ := reg.ChildrenOf(root.Name())
	return &grouper{reg: reg, stack: []*slot{{container: root, defs: defs}}}
}

// place finds the schema-legal container for a segment named name and
// appends it there, opening and closing Group occurrences as the
// greedy walk requires. ok is false if name matches no remaining slot
// anywhere in the stack.
func (g *grouper) place(name string) (*tree.Node, bool) {
	for {
		top := g.stack[len(g.stack)-1]
		if top.pos >= len(top.defs) {
			if len(g.stack) == 1 {
				return nil, false
			}
			g.stack = g.stack[:len(g.stack)-1]
			continue
		}

		def := top.defs[top.pos]
		if def.Kind == schema.Segment {
			if def.Name == name {
				seg, _ := top.container.AddSegment(name)
				return seg, true
			}
			top.pos++
			continue
		}

		// def.Kind == schema.Group: only enter if name genuinely belongs
		// somewhere inside it (possibly behind further nested groups);
		// otherwise this Group's slot is exhausted for this segment and
		// the walk advances past it.
		subDefs, _ := g.reg.ChildrenOf(def.Name)
		if !headMatches(g.reg, subDefs, name) {
			top.pos++
			continue
		}
		groupNode, _ := top.container.AddGroup(def.Name)
		g.stack = append(g.stack, &slot{container: groupNode, defs: subDefs})
	}
}

// headMatches reports whether name could be the next segment consumed
// starting from the front of defs, looking through any number of
// leading nested Groups (a pure schema lookahead; it creates no nodes).
func headMatches(reg schema.Registry, defs []schema.ChildDef, name string) bool {
	if len(defs) == 0 {
		return false
	}
	head := defs[0]
	switch head.Kind {
	case schema.Segment:
		return head.Name == name
	case schema.Group:
		sub, _ := reg.ChildrenOf(head.Name)
		return headMatches(reg, sub, name)
	default:
		return false
	}
}
