package tree_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hl7bridge/hl7v2/parse"
	"github.com/hl7bridge/hl7v2/tree"
)

// snapshot is a cmp-friendly, exported projection of a *tree.Node
// subtree: every unexported field tree.Node carries (parent pointers,
// the shared registry/delimiter set) is deliberately left out, since
// equality here means "same shape and content," not "same Go value."
type snapshot struct {
	Kind     string
	Name     string
	Value    string
	Children []snapshot
}

func snapshotOf(n *tree.Node) snapshot {
	children := make([]snapshot, 0, len(n.Children()))
	for _, c := range n.Children() {
		children = append(children, snapshotOf(c))
	}
	return snapshot{
		Kind:     n.Kind().String(),
		Name:     n.Name(),
		Value:    n.Value(),
		Children: children,
	}
}

// TestNode_RoundTrip_StructuralEquality parses an ER7 message, prints
// it back out, reparses the printed text, and asserts the two parses
// produced the same tree shape — a stronger check than comparing the
// printed strings, since it catches a structural drift that happens to
// print identically.
func TestNode_RoundTrip_StructuralEquality(t *testing.T) {
	const msg = "MSH|^~\\&|APP|FAC|REC|RECFAC|20261215120000||ADT^A01|CTRL001|P|2.3\r" +
		"EVN|A01|20261215120000\r" +
		"PID|1||123456^^^HOSP^MR||DOE^JOHN^A||19800101|M\r" +
		"PV1|1|I|WARD^ROOM^BED\r"

	ctx := context.Background()
	first, err := parse.New(parse.WithVersion("2.3")).ParseMessage(ctx, []byte(msg))
	if err != nil {
		t.Fatalf("ParseMessage() error = %v", err)
	}
	printed, err := first.ToER7(nil)
	if err != nil {
		t.Fatalf("ToER7() error = %v", err)
	}

	reparsed, err := parse.New(parse.WithVersion("2.3")).ParseMessage(ctx, []byte(printed))
	if err != nil {
		t.Fatalf("re-ParseMessage() error = %v", err)
	}

	if diff := cmp.Diff(snapshotOf(first), snapshotOf(reparsed)); diff != "" {
		t.Errorf("round-trip structural mismatch (-first +reparsed):\n%s", diff)
	}
}
