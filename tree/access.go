package tree

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hl7bridge/hl7v2/schema"
)

// resolve implements the attribute-style access contract (spec.md
// §4.C): nameOrLongName is matched case-insensitively against n's
// schema children's canonical names and long names (which also covers
// the data-type-aliased form, e.g. "cx_4" on a field of type CX,
// since that component's canonical name already is "CX_4"). A
// field-scoped name like "PID_5_1" that doesn't match directly is
// retried against the registry's alias table, which maps it to the
// data-type-scoped canonical name ("XPN_1") the child was actually
// instantiated under. ok is false if n is anonymous or nameOrLongName
// matches no schema child under either form.
func (n *Node) resolve(nameOrLongName string) (canonical string, kind schema.Kind, dataType string, card schema.Cardinality, ok bool) {
	defs, has := n.childDefs()
	if !has {
		return "", schema.Unknown, "", schema.Cardinality{}, false
	}
	if c, k, dt, cd, found := matchChildDef(n, defs, nameOrLongName); found {
		return c, k, dt, cd, true
	}
	if alias, found := n.Registry().ResolveAlias(nameOrLongName); found {
		if c, k, dt, cd, found := matchChildDef(n, defs, alias); found {
			return c, k, dt, cd, true
		}
	}
	return "", schema.Unknown, "", schema.Cardinality{}, false
}

func matchChildDef(n *Node, defs []schema.ChildDef, nameOrLongName string) (canonical string, kind schema.Kind, dataType string, card schema.Cardinality, ok bool) {
	lower := strings.ToLower(nameOrLongName)
	for _, d := range defs {
		if strings.EqualFold(d.Name, nameOrLongName) || (d.LongName != "" && strings.ToLower(d.LongName) == lower) {
			return d.Name, effectiveKind(n, d), d.DataType, d.Cardinality, true
		}
	}
	return "", schema.Unknown, "", schema.Cardinality{}, false
}

// Get retrieves the child named nameOrLongName (schema name, long
// name, or data-type-aliased form) at the given repetition index
// (default 0). If nameOrLongName is schema-legal for n but has no
// occurrences yet, Get returns (nil, nil): the "empty sequence"
// contract of spec.md §4.C, not an error. ErrChildNotFound is returned
// only when the name is not schema-legal at all.
func (n *Node) Get(nameOrLongName string, index ...int) (*Node, error) {
	idx := 0
	if len(index) > 0 {
		idx = index[0]
	}
	canonical, _, _, _, ok := n.resolve(nameOrLongName)
	if !ok {
		if existing := n.childrenNamed(nameOrLongName); idx >= 0 && idx < len(existing) {
			return existing[idx], nil
		}
		return nil, &OpError{Op: "get", Path: n.Path(), Name: nameOrLongName, Err: ErrChildNotFound}
	}
	existing := n.childrenNamed(canonical)
	if idx < 0 || idx >= len(existing) {
		return nil, nil
	}
	return existing[idx], nil
}

// GetAll retrieves every repetition of nameOrLongName, in order. A
// schema-legal name with zero occurrences returns (nil, nil).
func (n *Node) GetAll(nameOrLongName string) ([]*Node, error) {
	canonical, _, _, _, ok := n.resolve(nameOrLongName)
	if !ok {
		if existing := n.childrenNamed(nameOrLongName); len(existing) > 0 {
			return existing, nil
		}
		return nil, &OpError{Op: "get", Path: n.Path(), Name: nameOrLongName, Err: ErrChildNotFound}
	}
	return n.childrenNamed(canonical), nil
}

// GetPath walks a dotted location path (e.g. "PID.5.1" or "MSH.9")
// from n, descending one child per segment. A bare numeric segment is
// expanded to "<parent's name>_<n>" so positional HL7 paths resolve
// without the caller spelling out full canonical names. A trailing
// "[k]" on a segment selects repetition k (default 0). Returns (nil,
// nil) if every segment resolves but the final one has no occurrence
// yet (the Get "empty sequence" contract); an error if any segment is
// not schema-legal.
func (n *Node) GetPath(path string) (*Node, error) {
	cur := n
	for _, tok := range strings.Split(path, ".") {
		name, idx := parsePathToken(tok)
		childName := name
		if _, err := strconv.Atoi(name); err == nil {
			childName = fmt.Sprintf("%s_%s", cur.Name(), name)
		}
		next, err := cur.Get(childName, idx)
		if err != nil {
			return nil, err
		}
		if next == nil {
			return nil, nil
		}
		cur = next
	}
	return cur, nil
}

// SetPath walks a dotted path exactly like GetPath, but autovivifies
// every intermediate segment that doesn't exist yet instead of
// stopping at the first missing one — adding repetitions up to the
// requested index — then Sets the final segment to value. This closes
// the gap Set alone leaves (it only lazily creates its own direct
// child): building out a path like "PID.5.1" from a bare PID segment
// is one SetPath call instead of a chain of AddField/Set/Set calls.
func (n *Node) SetPath(path string, value any) (*Node, error) {
	toks := strings.Split(path, ".")
	cur := n
	for i, tok := range toks {
		name, idx := parsePathToken(tok)
		childName := name
		if _, err := strconv.Atoi(name); err == nil {
			childName = fmt.Sprintf("%s_%s", cur.Name(), name)
		}
		if i == len(toks)-1 {
			return cur.Set(childName, value)
		}
		next, err := cur.autovivify(childName, idx)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

// autovivify returns the idx'th repetition of childName under n,
// appending new children (via AddChild, which resolves the schema-
// legal kind and data type the same way the parser does) until enough
// repetitions exist.
func (n *Node) autovivify(childName string, idx int) (*Node, error) {
	name := childName
	if canonical, _, _, _, ok := n.resolve(childName); ok {
		name = canonical
	}
	existing := n.childrenNamed(name)
	for len(existing) <= idx {
		child, err := n.AddChild(name)
		if err != nil {
			return nil, err
		}
		existing = append(existing, child)
	}
	return existing[idx], nil
}

// parsePathToken splits a path segment like "5[1]" into its name and
// repetition index (0 if no "[k]" suffix is present).
func parsePathToken(tok string) (string, int) {
	open := strings.IndexByte(tok, '[')
	if open < 0 || !strings.HasSuffix(tok, "]") {
		return tok, 0
	}
	idx, err := strconv.Atoi(tok[open+1 : len(tok)-1])
	if err != nil {
		return tok, 0
	}
	return tok[:open], idx
}

// Path renders a human-readable location for n, e.g. "PID.PID_5[1].XPN_1".
func (n *Node) Path() string {
	seg := n.name
	if seg == "" {
		seg = "<anonymous>"
	}
	if n.index > 0 {
		seg = fmt.Sprintf("%s[%d]", seg, n.index)
	}
	if n.parent == nil {
		return seg
	}
	return n.parent.Path() + "." + seg
}
