package tree_test

import (
	"errors"
	"testing"

	"github.com/hl7bridge/hl7v2/delim"
	"github.com/hl7bridge/hl7v2/schema"
	"github.com/hl7bridge/hl7v2/tree"
)

func registry(t *testing.T) schema.Registry {
	t.Helper()
	reg, err := schema.Load("2.3")
	if err != nil {
		t.Fatalf("schema.Load() error = %v", err)
	}
	return reg
}

func TestNew(t *testing.T) {
	reg := registry(t)

	t.Run("known structure", func(t *testing.T) {
		root, err := tree.New("ADT_A01", reg, nil, tree.Strict)
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if root.Kind() != schema.Message {
			t.Errorf("Kind() = %v, want Message", root.Kind())
		}
		if root.IsAnonymous() {
			t.Error("IsAnonymous() = true, want false for a known structure")
		}
	})

	t.Run("unknown structure strict fails", func(t *testing.T) {
		_, err := tree.New("ZZZ_Z99", reg, nil, tree.Strict)
		if !errors.Is(err, tree.ErrChildNotValid) {
			t.Errorf("New() error = %v, want ErrChildNotValid", err)
		}
	})

	t.Run("unknown structure lenient is anonymous", func(t *testing.T) {
		root, err := tree.New("ZZZ_Z99", reg, nil, tree.Lenient)
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if !root.IsAnonymous() {
			t.Error("IsAnonymous() = false, want true")
		}
	})

	t.Run("nil registry fails", func(t *testing.T) {
		_, err := tree.New("ADT_A01", nil, nil, tree.Strict)
		if !errors.Is(err, tree.ErrUnknownVersion) {
			t.Errorf("New() error = %v, want ErrUnknownVersion", err)
		}
	})

	t.Run("nil delimiters default", func(t *testing.T) {
		root, err := tree.New("ADT_A01", reg, nil, tree.Strict)
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if root.Delimiters() == nil {
			t.Error("Delimiters() = nil, want default set")
		}
		if root.Delimiters().Field != delim.DefaultField {
			t.Errorf("Delimiters().Field = %q, want %q", root.Delimiters().Field, delim.DefaultField)
		}
	})
}

func TestNewDetached(t *testing.T) {
	reg := registry(t)

	t.Run("segment", func(t *testing.T) {
		seg, err := tree.NewDetached(schema.Segment, "PID", reg, nil, tree.Strict)
		if err != nil {
			t.Fatalf("NewDetached() error = %v", err)
		}
		if seg.Kind() != schema.Segment {
			t.Errorf("Kind() = %v, want Segment", seg.Kind())
		}
		if seg.Parent() != nil {
			t.Error("Parent() != nil, want nil for a detached root")
		}
	})

	t.Run("unknown name strict fails", func(t *testing.T) {
		_, err := tree.NewDetached(schema.Segment, "ZZZ", reg, nil, tree.Strict)
		if !errors.Is(err, tree.ErrChildNotValid) {
			t.Errorf("NewDetached() error = %v, want ErrChildNotValid", err)
		}
	})

	t.Run("kind mismatch strict fails", func(t *testing.T) {
		// "PID" resolves to Segment, not Field.
		_, err := tree.NewDetached(schema.Field, "PID", reg, nil, tree.Strict)
		if !errors.Is(err, tree.ErrChildNotValid) {
			t.Errorf("NewDetached() error = %v, want ErrChildNotValid", err)
		}
	})
}

func TestNode_AddSegment(t *testing.T) {
	reg := registry(t)
	root, err := tree.New("ADT_A01", reg, nil, tree.Strict)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	pid, err := root.AddSegment("PID")
	if err != nil {
		t.Fatalf("AddSegment() error = %v", err)
	}
	if pid.Kind() != schema.Segment {
		t.Errorf("Kind() = %v, want Segment", pid.Kind())
	}
	if pid.Parent() != root {
		t.Error("Parent() != root")
	}

	t.Run("illegal segment strict fails", func(t *testing.T) {
		_, err := root.AddSegment("ZZZ")
		if !errors.Is(err, tree.ErrChildNotValid) {
			t.Errorf("AddSegment() error = %v, want ErrChildNotValid", err)
		}
	})

	t.Run("cardinality max enforced", func(t *testing.T) {
		// MSH has max 1; a second add should fail in Strict mode.
		if _, err := root.AddSegment("MSH"); err != nil {
			t.Fatalf("first AddSegment(MSH) error = %v", err)
		}
		_, err := root.AddSegment("MSH")
		if !errors.Is(err, tree.ErrMaxChildLimitReached) {
			t.Errorf("second AddSegment(MSH) error = %v, want ErrMaxChildLimitReached", err)
		}
	})
}

func TestNode_AddChild_KindInference(t *testing.T) {
	reg := registry(t)
	root, err := tree.New("ADT_A01", reg, nil, tree.Strict)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	pid, err := root.AddSegment("PID")
	if err != nil {
		t.Fatalf("AddSegment() error = %v", err)
	}

	field, err := pid.AddChild("PID_5")
	if err != nil {
		t.Fatalf("AddChild() error = %v", err)
	}
	if field.Kind() != schema.Field {
		t.Errorf("Kind() = %v, want Field", field.Kind())
	}

	comp, err := field.AddChild("XPN_1")
	if err != nil {
		t.Fatalf("AddChild() error = %v", err)
	}
	if comp.Kind() != schema.Component {
		t.Errorf("Kind() = %v, want Component", comp.Kind())
	}
}

func TestNode_Get(t *testing.T) {
	reg := registry(t)
	root, err := tree.New("ADT_A01", reg, nil, tree.Strict)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	t.Run("legal name, no occurrence yet returns nil, nil", func(t *testing.T) {
		got, err := root.Get("PID")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got != nil {
			t.Errorf("Get() = %v, want nil", got)
		}
	})

	t.Run("illegal name returns ErrChildNotFound", func(t *testing.T) {
		_, err := root.Get("ZZZ")
		if !errors.Is(err, tree.ErrChildNotFound) {
			t.Errorf("Get() error = %v, want ErrChildNotFound", err)
		}
	})

	if _, err := root.AddSegment("PID"); err != nil {
		t.Fatalf("AddSegment() error = %v", err)
	}

	t.Run("existing occurrence found", func(t *testing.T) {
		got, err := root.Get("PID")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got == nil {
			t.Fatal("Get() = nil, want the PID segment")
		}
	})

	t.Run("long name resolves", func(t *testing.T) {
		pid, _ := root.Get("PID")
		got, err := pid.Get("patient_name")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got != nil {
			t.Errorf("Get() = %v, want nil (no occurrence yet)", got)
		}
	})
}

func TestNode_GetAll(t *testing.T) {
	reg := registry(t)
	root, err := tree.New("ADT_A01", reg, nil, tree.Strict)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := root.AddSegment("NK1"); err != nil {
		t.Fatalf("AddSegment() error = %v", err)
	}
	if _, err := root.AddSegment("NK1"); err != nil {
		t.Fatalf("AddSegment() error = %v", err)
	}

	all, err := root.GetAll("NK1")
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("len(GetAll()) = %d, want 2", len(all))
	}
	if all[0].Index() != 0 || all[1].Index() != 1 {
		t.Errorf("indices = %d,%d, want 0,1", all[0].Index(), all[1].Index())
	}
}

func TestNode_RemoveRenumbersSiblings(t *testing.T) {
	reg := registry(t)
	root, err := tree.New("ADT_A01", reg, nil, tree.Strict)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := root.AddSegment("NK1"); err != nil {
			t.Fatalf("AddSegment() error = %v", err)
		}
	}

	all, _ := root.GetAll("NK1")
	root.Remove(all[0])

	remaining, _ := root.GetAll("NK1")
	if len(remaining) != 2 {
		t.Fatalf("len(remaining) = %d, want 2", len(remaining))
	}
	for i, n := range remaining {
		if n.Index() != i {
			t.Errorf("remaining[%d].Index() = %d, want %d", i, n.Index(), i)
		}
	}
}

func TestNode_RemoveNamed(t *testing.T) {
	reg := registry(t)
	root, err := tree.New("ADT_A01", reg, nil, tree.Strict)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := root.AddSegment("NK1"); err != nil {
		t.Fatalf("AddSegment() error = %v", err)
	}

	if !root.RemoveNamed("NK1", 0) {
		t.Error("RemoveNamed() = false, want true")
	}
	if root.RemoveNamed("NK1", 0) {
		t.Error("second RemoveNamed() = true, want false")
	}
}

func TestNode_Set_Scalar(t *testing.T) {
	reg := registry(t)
	root, err := tree.New("ADT_A01", reg, nil, tree.Strict)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	pid, err := root.AddSegment("PID")
	if err != nil {
		t.Fatalf("AddSegment() error = %v", err)
	}

	t.Run("autovivify on assign", func(t *testing.T) {
		got, err := pid.Get("PID_1")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got != nil {
			t.Fatal("expected no PID_1 occurrence before Set")
		}

		field, err := pid.Set("PID_1", "1")
		if err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		if field.Value() != "1" {
			t.Errorf("Value() = %q, want %q", field.Value(), "1")
		}

		got, err = pid.Get("PID_1")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got == nil {
			t.Fatal("Get() = nil after Set")
		}
	})

	t.Run("set again reuses existing child", func(t *testing.T) {
		if _, err := pid.Set("PID_1", "2"); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		got, _ := pid.Get("PID_1")
		if got.Value() != "2" {
			t.Errorf("Value() = %q, want %q", got.Value(), "2")
		}
		all, _ := pid.GetAll("PID_1")
		if len(all) != 1 {
			t.Errorf("len(GetAll()) = %d, want 1 (no duplicate created)", len(all))
		}
	})

	t.Run("illegal field strict fails", func(t *testing.T) {
		_, err := pid.Set("ZZZ", "x")
		if !errors.Is(err, tree.ErrChildNotValid) {
			t.Errorf("Set() error = %v, want ErrChildNotValid", err)
		}
	})
}

func TestNode_Set_ReplacesWithNode(t *testing.T) {
	reg := registry(t)
	root, err := tree.New("ADT_A01", reg, nil, tree.Strict)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	pid, err := root.AddSegment("PID")
	if err != nil {
		t.Fatalf("AddSegment() error = %v", err)
	}
	if _, err := pid.Set("PID_1", "1"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	repl, err := tree.NewDetached(schema.Field, "PID_1", reg, nil, tree.Strict)
	if err != nil {
		t.Fatalf("NewDetached() error = %v", err)
	}
	if err := repl.SetScalar("99"); err != nil {
		t.Fatalf("SetScalar() error = %v", err)
	}

	if _, err := pid.Set("PID_1", repl); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, _ := pid.Get("PID_1")
	if got.Value() != "99" {
		t.Errorf("Value() = %q, want %q", got.Value(), "99")
	}
	if got != repl {
		t.Error("Get() did not return the replacement node")
	}
}

func TestNode_Path(t *testing.T) {
	reg := registry(t)
	root, err := tree.New("ADT_A01", reg, nil, tree.Strict)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := root.AddSegment("NK1"); err != nil {
		t.Fatalf("AddSegment() error = %v", err)
	}
	if _, err := root.AddSegment("NK1"); err != nil {
		t.Fatalf("AddSegment() error = %v", err)
	}

	all, _ := root.GetAll("NK1")
	if got, want := all[0].Path(), "ADT_A01.NK1"; got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
	if got, want := all[1].Path(), "ADT_A01.NK1[1]"; got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestNode_GetPath(t *testing.T) {
	reg := registry(t)
	root, err := tree.New("ADT_A01", reg, nil, tree.Strict)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	pid, err := root.AddSegment("PID")
	if err != nil {
		t.Fatalf("AddSegment() error = %v", err)
	}
	if _, err := pid.Set("PID_5", "DOE^JOHN^A"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	tests := []struct {
		name string
		path string
		want string
	}{
		{"numeric path expands to field name", "PID.5", "DOE^JOHN^A"},
		{"numeric path with component", "PID.5.1", "DOE"},
		{"numeric path with component 2", "PID.5.2", "JOHN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := root.GetPath(tt.path)
			if err != nil {
				t.Fatalf("GetPath(%q) error = %v", tt.path, err)
			}
			if n == nil {
				t.Fatalf("GetPath(%q) = nil", tt.path)
			}
			var got string
			if n.IsScalar() {
				got = n.Value()
			} else {
				got, err = n.ToER7(nil)
				if err != nil {
					t.Fatalf("ToER7() error = %v", err)
				}
			}
			if got != tt.want {
				t.Errorf("GetPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}

	t.Run("no occurrence yet returns nil, nil", func(t *testing.T) {
		n, err := root.GetPath("PID.19")
		if err != nil {
			t.Fatalf("GetPath() error = %v", err)
		}
		if n != nil {
			t.Errorf("GetPath() = %v, want nil", n)
		}
	})

	t.Run("unknown field errors", func(t *testing.T) {
		if _, err := root.GetPath("PID.999"); err == nil {
			t.Error("GetPath() error = nil, want non-nil")
		}
	})
}

func TestNode_LenientUnknownFieldsTolerated(t *testing.T) {
	reg := registry(t)
	root, err := tree.New("ADT_A01", reg, nil, tree.Lenient)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	pid, err := root.AddSegment("PID")
	if err != nil {
		t.Fatalf("AddSegment() error = %v", err)
	}

	field, err := pid.Set("ZZZ_1", "custom")
	if err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if !field.IsAnonymous() {
		t.Error("IsAnonymous() = false, want true for an unknown lenient field")
	}
	if field.Value() != "custom" {
		t.Errorf("Value() = %q, want %q", field.Value(), "custom")
	}
}

func TestNode_ChildDefs(t *testing.T) {
	reg := registry(t)
	root, err := tree.New("ADT_A01", reg, nil, tree.Strict)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	defs, ok := root.ChildDefs()
	if !ok {
		t.Fatal("ChildDefs() ok = false, want true")
	}
	found := false
	for _, d := range defs {
		if d.Name == "PID" {
			found = true
		}
	}
	if !found {
		t.Error("ChildDefs() missing PID")
	}
}
