package validate

import (
	"fmt"

	"github.com/hl7bridge/hl7v2/schema"
	"github.com/hl7bridge/hl7v2/tree"
)

func init() {
	tree.Validator = structuralErrors
}

// structuralErrors implements tree.Validator: the five whole-tree
// checks spec.md §4.F names, run over n's subtree and reported
// together rather than stopping at the first violation.
func structuralErrors(n *tree.Node) []error {
	var errs []error
	walk(n, &errs)
	if n.Kind() == schema.Message {
		errs = append(errs, checkMSH(n)...)
	}
	return errs
}

// walk visits every node in the subtree rooted at n, checking known
// names, child legality, cardinality and data-type conformance at
// each level.
func walk(n *tree.Node, errs *[]error) {
	if !n.IsAnonymous() {
		if _, _, _, ok := n.Registry().LookupStructure(n.Name()); !ok {
			*errs = append(*errs, &ValidationError{
				Location: n.Path(),
				Rule:     "known_names",
				Message:  fmt.Sprintf("%q is not a known schema name", n.Name()),
			})
		}
	}

	checkChildren(n, errs)

	if n.IsScalar() {
		checkDataType(n, errs)
	}

	for _, c := range n.Children() {
		walk(c, errs)
	}
}

// checkChildren verifies every child of n is schema-legal for n (rule
// 2) and that each schema child's occurrence count satisfies its
// cardinality (rule 3).
func checkChildren(n *tree.Node, errs *[]error) {
	defs, ok := n.ChildDefs()
	if !ok {
		return
	}

	seen := map[string]int{}
	for _, c := range n.Children() {
		seen[c.Name()]++
		if !c.IsAnonymous() && !hasDef(defs, c.Name()) {
			*errs = append(*errs, &ValidationError{
				Location: c.Path(),
				Rule:     "child_legality",
				Message:  fmt.Sprintf("%q is not a schema-legal child of %q", c.Name(), n.Path()),
			})
		}
	}

	for _, def := range defs {
		count := seen[def.Name]
		if !def.Satisfied(count) {
			*errs = append(*errs, &ValidationError{
				Location: n.Path() + "." + def.Name,
				Rule:     "cardinality",
				Message:  fmt.Sprintf("%d occurrence(s), want [%d,%s]", count, def.Cardinality.Min, maxString(def.Cardinality.Max)),
			})
		}
	}
}

// checkDataType verifies a scalar node's value against its data
// type's base constraints (rule 4).
func checkDataType(n *tree.Node, errs *[]error) {
	if n.DataType() == "" || n.Value() == "" {
		return
	}
	bc, ok := n.Registry().BaseConstraints(n.DataType())
	if !ok {
		return
	}
	if bc.MaxLength > 0 && len([]rune(n.Value())) > bc.MaxLength {
		*errs = append(*errs, &ValidationError{
			Location: n.Path(),
			Rule:     "data_type",
			Message:  fmt.Sprintf("value exceeds max length %d for type %s", bc.MaxLength, n.DataType()),
			Actual:   n.Value(),
		})
	}
	if bc.Regex != nil && !bc.Regex.MatchString(n.Value()) {
		*errs = append(*errs, &ValidationError{
			Location: n.Path(),
			Rule:     "data_type",
			Message:  fmt.Sprintf("value does not match %s format", n.DataType()),
			Actual:   n.Value(),
		})
	}
}

// checkMSH implements rule 5: the MSH segment exists, its delimiters
// match the root's, and its version field matches the tree's version.
func checkMSH(root *tree.Node) []error {
	msh, err := root.Get("MSH")
	if err != nil || msh == nil {
		return []error{&ValidationError{
			Location: root.Path(),
			Rule:     "msh_integrity",
			Message:  "message has no MSH segment",
		}}
	}

	var errs []error
	if sep, serr := msh.Get("MSH_1"); serr == nil && sep != nil {
		if sep.Value() != root.Delimiters().FieldSeparator() {
			errs = append(errs, &ValidationError{
				Location: sep.Path(),
				Rule:     "msh_integrity",
				Message:  "MSH-1 does not match the tree's field separator",
			})
		}
	}
	if enc, eerr := msh.Get("MSH_2"); eerr == nil && enc != nil {
		if enc.Value() != root.Delimiters().EncodingCharacters() {
			errs = append(errs, &ValidationError{
				Location: enc.Path(),
				Rule:     "msh_integrity",
				Message:  "MSH-2 does not match the tree's encoding characters",
			})
		}
	}
	if ver, verr := msh.Get("MSH_12"); verr == nil && ver != nil && ver.Value() != "" {
		if ver.Value() != root.Version() {
			errs = append(errs, &ValidationError{
				Location: ver.Path(),
				Rule:     "msh_integrity",
				Message:  fmt.Sprintf("MSH-12 (%s) does not match tree version %s", ver.Value(), root.Version()),
			})
		}
	}
	return errs
}

func hasDef(defs []schema.ChildDef, name string) bool {
	for _, d := range defs {
		if d.Name == name {
			return true
		}
	}
	return false
}

func maxString(max int) string {
	if max < 0 {
		return "unbounded"
	}
	return fmt.Sprintf("%d", max)
}
