package tree

import (
	"strings"

	"github.com/hl7bridge/hl7v2/delim"
	"github.com/hl7bridge/hl7v2/schema"
)

// ToER7 serialises n's subtree to ER7 wire text (spec.md §4.E). A nil
// override uses the tree's own delimiters; a non-nil override
// re-encodes using a different delimiter set, updating MSH fields 1-2
// to match.
func (n *Node) ToER7(override *delim.Set) (string, error) {
	delims := override
	if delims == nil {
		delims = n.Delimiters()
	}
	switch n.kind {
	case schema.Message, schema.Group:
		segs := n.collectSegments(delims)
		return strings.Join(segs, string(delim.SegmentTerminator)), nil
	case schema.Segment:
		return n.encodeSegment(delims), nil
	default:
		return n.encode(delims), nil
	}
}

// collectSegments flattens a Message or Group subtree into its
// encoded Segment lines, in wire order.
func (n *Node) collectSegments(delims *delim.Set) []string {
	var out []string
	for _, c := range n.children {
		switch c.kind {
		case schema.Segment:
			out = append(out, c.encodeSegment(delims))
		case schema.Group:
			out = append(out, c.collectSegments(delims)...)
		}
	}
	return out
}

// encodeSegment renders one Segment node as its ER7 line, including
// the MSH special case (spec.md §4.E): field 1 is the field separator
// literal and field 2 the encoding characters string, with no
// separator between the segment name and field 1.
func (n *Node) encodeSegment(delims *delim.Set) string {
	maxSeq := 0
	for _, c := range n.children {
		if seq, ok := fieldSeq(c.name); ok && seq > maxSeq {
			maxSeq = seq
		}
	}
	fields := make([]string, maxSeq)
	filled := make([]bool, maxSeq)
	for _, c := range n.children {
		seq, ok := fieldSeq(c.name)
		if !ok || filled[seq-1] {
			continue
		}
		reps := n.childrenNamed(c.name)
		parts := make([]string, len(reps))
		for j, r := range reps {
			parts[j] = r.encode(delims)
		}
		fields[seq-1] = strings.Join(parts, string(delims.Repetition))
		filled[seq-1] = true
	}

	if n.name == "MSH" {
		if len(fields) < 2 {
			fields = append(fields, make([]string, 2-len(fields))...)
		}
		fields[0] = delims.FieldSeparator()
		fields[1] = delims.EncodingCharacters()
		fields = trimTrailingEmpty(fields)
		if len(fields) <= 2 {
			return "MSH" + fields[0] + fields[1]
		}
		return "MSH" + fields[0] + fields[1] + string(delims.Field) + strings.Join(fields[2:], string(delims.Field))
	}

	fields = trimTrailingEmpty(fields)
	if len(fields) == 0 {
		return n.name
	}
	return n.name + string(delims.Field) + strings.Join(fields, string(delims.Field))
}

// encode renders a Field, Component or SubComponent node: its scalar
// value (escaped) if it has no children, or its children's encodings
// joined by the component or subcomponent separator and trimmed of
// trailing empties.
func (n *Node) encode(delims *delim.Set) string {
	if len(n.children) == 0 {
		return delim.NewEscaper(delims).Escape(n.value)
	}
	sep := delims.Component
	if n.kind == schema.Component {
		sep = delims.SubComponent
	}
	parts := make([]string, len(n.children))
	for i, c := range n.children {
		parts[i] = c.encode(delims)
	}
	parts = trimTrailingEmpty(parts)
	return strings.Join(parts, string(sep))
}

// trimTrailingEmpty drops trailing empty-string entries, preserving
// any empty entries that lie between non-empty ones (spec.md §4.D
// trailing-empty policy, applied symmetrically on encode).
func trimTrailingEmpty(parts []string) []string {
	end := len(parts)
	for end > 0 && parts[end-1] == "" {
		end--
	}
	return parts[:end]
}
