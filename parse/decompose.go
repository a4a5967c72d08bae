package parse

import (
	"fmt"
	"strings"

	"github.com/hl7bridge/hl7v2/delim"
	"github.com/hl7bridge/hl7v2/schema"
	"github.com/hl7bridge/hl7v2/tree"
)

// fillSegment decomposes one segment line's field text into Field,
// Component and SubComponent children under seg, which is already
// attached to its container.
func fillSegment(seg *tree.Node, line []byte, delims *delim.Set, reg schema.Registry) error {
	text := string(line)
	var rawFields []string

	if seg.Name() == "MSH" {
		// Field 1 is the separator character itself; field 2 is the
		// encoding characters string. Neither is delimited the normal
		// way (spec.md §4.D step 3).
		rest := text[len("MSH")+1:]
		msh2End := 0
		for msh2End < len(rest) && rune(rest[msh2End]) != delims.Field {
			msh2End++
		}
		rawFields = append(rawFields, delims.FieldSeparator(), rest[:msh2End])
		if msh2End < len(rest) {
			rawFields = append(rawFields, strings.Split(rest[msh2End+1:], string(delims.Field))...)
		}
	} else {
		body := strings.TrimPrefix(text[3:], string(delims.Field))
		rawFields = strings.Split(body, string(delims.Field))
	}

	for i, raw := range rawFields {
		seq := i + 1
		name := fmt.Sprintf("%s_%d", seg.Name(), seq)

		reps := []string{raw}
		if !(seg.Name() == "MSH" && seq <= 2) {
			// MSH-1 (the field separator) and MSH-2 (the encoding
			// characters) never repeat, and MSH-2 itself contains the
			// repetition character — splitting on it would tear the
			// encoding characters apart.
			reps = strings.Split(raw, string(delims.Repetition))
		}
		for _, rep := range reps {
			field, err := seg.AddChild(name)
			if err != nil {
				return err
			}
			if err := fillNode(field, rep, delims, reg); err != nil {
				return err
			}
		}
	}
	return nil
}

// fillNode decodes text into node: a scalar value (escapes resolved)
// if node is a SubComponent or its data type is base, or Component/
// SubComponent children split on the component/subcomponent separator
// otherwise.
func fillNode(node *tree.Node, text string, delims *delim.Set, reg schema.Registry) error {
	dataType := node.DataType()
	if dataType == "" || reg.IsBase(dataType) {
		return node.SetScalar(text)
	}

	sep := delims.Component
	if node.Kind() == schema.Component {
		sep = delims.SubComponent
	}
	for i, piece := range strings.Split(text, string(sep)) {
		childName := fmt.Sprintf("%s_%d", dataType, i+1)
		child, err := node.AddChild(childName)
		if err != nil {
			return err
		}
		if err := fillNode(child, piece, delims, reg); err != nil {
			return err
		}
	}
	return nil
}
