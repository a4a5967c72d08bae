package parse

import (
	"github.com/hl7bridge/hl7v2/delim"
	"github.com/hl7bridge/hl7v2/schema"
	"github.com/hl7bridge/hl7v2/tree"
)

func init() {
	tree.SubParser = subParse
}

// subParse implements tree.SubParser: decoding text into target's
// children using target's own ambient delimiters, registry and level
// (spec.md §3.3's "sub-parse" on string assignment to a non-scalar node).
func subParse(kind schema.Kind, text string, target *tree.Node) error {
	delims := target.Delimiters()
	reg := target.Registry()
	if kind == schema.Segment {
		return fillSegment(target, []byte(text), delims, reg)
	}
	return fillNode(target, text, delims, reg)
}

// ParseSegment decodes text as a single Segment named name, standalone
// (not attached to any Message or Group).
func ParseSegment(text, name string, reg schema.Registry, delims *delim.Set, level tree.Level) (*tree.Node, error) {
	seg, err := tree.NewDetached(schema.Segment, name, reg, delims, level)
	if err != nil {
		return nil, err
	}
	if err := fillSegment(seg, []byte(text), seg.Delimiters(), reg); err != nil {
		return nil, err
	}
	return seg, nil
}

// ParseField decodes text as a single Field named name, standalone.
func ParseField(text, name string, reg schema.Registry, delims *delim.Set, level tree.Level) (*tree.Node, error) {
	field, err := tree.NewDetached(schema.Field, name, reg, delims, level)
	if err != nil {
		return nil, err
	}
	if err := fillNode(field, text, field.Delimiters(), reg); err != nil {
		return nil, err
	}
	return field, nil
}

// ParseComponent decodes text as a single Component named name, standalone.
func ParseComponent(text, name string, reg schema.Registry, delims *delim.Set, level tree.Level) (*tree.Node, error) {
	comp, err := tree.NewDetached(schema.Component, name, reg, delims, level)
	if err != nil {
		return nil, err
	}
	if err := fillNode(comp, text, comp.Delimiters(), reg); err != nil {
		return nil, err
	}
	return comp, nil
}
