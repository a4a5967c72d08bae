// Package schema is the per-version Schema Registry (spec.md §4.B):
// the tables of message structures, groups, segments, composite and
// base data types, and the cardinality and long-name metadata that
// govern every Element Tree operation.
//
// Registries are loaded once per version with [Load] and are
// immutable and safe for concurrent use by any number of trees and
// goroutines thereafter — they hold no per-tree state (spec.md §5).
package schema

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// BaseConstraints describes the value-level constraints on a base
// (scalar) data type: an optional maximum length, an optional regular
// expression the decoded value must match, and an optional named
// character class.
type BaseConstraints struct {
	MaxLength int            // 0 means unconstrained
	Regex     *regexp.Regexp // nil means unconstrained
	Charset   string         // informational; "" means unconstrained
}

// Registry is the read-only, per-version schema lookup surface
// spec.md §4.B defines. Implementations hold no mutable state and are
// safe to share across goroutines and across trees of any version.
type Registry interface {
	// Version returns the HL7 version this registry was loaded for.
	Version() string

	// LookupStructure resolves name (a message structure, group,
	// segment, field, component, or subcomponent name) to its Kind and
	// ordered schema children. ok is false if name is not known to
	// this version's schema.
	LookupStructure(name string) (kind Kind, children []ChildDef, dataType string, ok bool)

	// ChildrenOf returns the ordered schema children of parentName
	// (a Message/Group/Segment/Field/Component canonical name). ok is
	// false if parentName is unknown.
	ChildrenOf(parentName string) (children []ChildDef, ok bool)

	// DataTypeOf returns the data type code of a Field, Component or
	// SubComponent schema name. ok is false if name is unknown or is
	// not a scalar-or-composite-bearing kind.
	DataTypeOf(name string) (code string, ok bool)

	// IsBase reports whether code names a base (scalar) data type as
	// opposed to a composite one.
	IsBase(code string) bool

	// BaseConstraints returns the length/regex/charset constraints for
	// a base data type code. ok is false for an unknown or composite code.
	BaseConstraints(code string) (BaseConstraints, bool)

	// ResolveLongName resolves a case-insensitive long (attribute-style)
	// name against parentName's schema children, returning the child's
	// canonical short name. ok is false if no child matches.
	ResolveLongName(parentName, longName string) (childName string, ok bool)

	// ResolveAlias resolves a field-scoped component/subcomponent name
	// (e.g. "PID_5_1") to the data-type-scoped canonical name its
	// children are actually instantiated under (e.g. "XPN_1"). ok is
	// false if name is not a registered alias.
	ResolveAlias(name string) (canonical string, ok bool)
}

// dataTypeDef is the schema's entry for one data type code: either a
// base (scalar) type with value constraints, or a composite type with
// an ordered list of component slots.
type dataTypeDef struct {
	code        string
	isBase      bool
	constraints BaseConstraints
	// components is populated only for composite types: the ordered
	// list of (component index -> data type code) that instantiate as
	// Component children named "<code>_<n>" when a Field or Component
	// of this type is constructed.
	components []string
}

// registry is the concrete, immutable Registry implementation.
type registry struct {
	version string

	// structures holds Message, Group and Segment entries keyed by
	// their schema name (e.g. "ADT_A01", "PID").
	structures map[string]*structureDef

	// fields holds Field entries keyed by their schema name
	// (e.g. "PID_5"), independent of which segment they sit under
	// (field names already carry the segment prefix).
	fields map[string]*ChildDef

	// dataTypes holds every base and composite data type definition,
	// keyed by data type code (e.g. "ST", "XPN").
	dataTypes map[string]*dataTypeDef

	// aliases maps a field-scoped component/subcomponent name (e.g.
	// "PID_5_1") to its canonical data-type-scoped name (e.g. "XPN_1").
	aliases map[string]string
}

var _ Registry = (*registry)(nil)

// structureDef is a Message, Group or Segment schema entry.
type structureDef struct {
	name     string
	kind     Kind
	children []ChildDef
}

func (r *registry) Version() string { return r.version }

func (r *registry) LookupStructure(name string) (Kind, []ChildDef, string, bool) {
	if s, ok := r.structures[name]; ok {
		return s.kind, s.children, "", true
	}
	if f, ok := r.fields[name]; ok {
		children := r.compositeChildren(f.DataType)
		return Field, children, f.DataType, true
	}
	if canonical, ok := r.aliases[name]; ok {
		name = canonical
	}
	if code, n, ok := splitCompositeName(name); ok {
		if dt, ok := r.dataTypes[code]; ok && !dt.isBase && n >= 1 && n <= len(dt.components) {
			pieceCode := dt.components[n-1]
			kind := Component
			// A SubComponent has the same "<code>_<n>" shape as a
			// Component; it's distinguished by its parent's kind, which
			// LookupStructure alone cannot see. Callers that already
			// know the parent is a Component should treat the result's
			// Kind as SubComponent; see tree.Node for that distinction.
			children := r.compositeChildren(pieceCode)
			return kind, children, pieceCode, true
		}
	}
	return Unknown, nil, "", false
}

func (r *registry) ChildrenOf(parentName string) ([]ChildDef, bool) {
	_, children, _, ok := r.LookupStructure(parentName)
	return children, ok
}

func (r *registry) DataTypeOf(name string) (string, bool) {
	if f, ok := r.fields[name]; ok {
		return f.DataType, true
	}
	resolved := name
	if canonical, ok := r.aliases[name]; ok {
		resolved = canonical
	}
	if code, n, ok := splitCompositeName(resolved); ok {
		if dt, ok := r.dataTypes[code]; ok && !dt.isBase && n >= 1 && n <= len(dt.components) {
			return dt.components[n-1], true
		}
	}
	return "", false
}

func (r *registry) IsBase(code string) bool {
	dt, ok := r.dataTypes[code]
	return ok && dt.isBase
}

func (r *registry) BaseConstraints(code string) (BaseConstraints, bool) {
	dt, ok := r.dataTypes[code]
	if !ok || !dt.isBase {
		return BaseConstraints{}, false
	}
	return dt.constraints, true
}

func (r *registry) ResolveAlias(name string) (string, bool) {
	canonical, ok := r.aliases[name]
	return canonical, ok
}

func (r *registry) ResolveLongName(parentName, longName string) (string, bool) {
	children, ok := r.ChildrenOf(parentName)
	if !ok {
		return "", false
	}
	longName = strings.ToLower(longName)
	for _, c := range children {
		if strings.ToLower(c.LongName) == longName {
			return c.Name, true
		}
	}
	return "", false
}

// compositeChildren instantiates the component (or subcomponent)
// children of a data type code, naming each "<code>_<n>". Field-scoped
// aliases (e.g. "PID_5_1" -> "XPN_1") are registered separately at
// schema load time (spec.md §4.B) since they depend on the field's
// name, not just its data type.
func (r *registry) compositeChildren(code string) []ChildDef {
	dt, ok := r.dataTypes[code]
	if !ok || dt.isBase {
		return nil
	}
	children := make([]ChildDef, len(dt.components))
	for i, pieceCode := range dt.components {
		n := i + 1
		children[i] = ChildDef{
			Name:        fmt.Sprintf("%s_%d", code, n),
			Kind:        Component,
			DataType:    pieceCode,
			Cardinality: Cardinality{Min: 0, Max: 1},
		}
	}
	return children
}

// splitCompositeName splits a "<code>_<n>" schema name into its data
// type code and 1-based position, splitting once at the last "_" so
// codes that themselves contain "_" or digits still resolve.
func splitCompositeName(name string) (code string, n int, ok bool) {
	idx := strings.LastIndex(name, "_")
	if idx < 0 || idx == len(name)-1 {
		return "", 0, false
	}
	numPart := name[idx+1:]
	val, err := strconv.Atoi(numPart)
	if err != nil || val < 1 {
		return "", 0, false
	}
	return name[:idx], val, true
}

var (
	registryMu       sync.RWMutex
	registeredTables = map[string]*registry{}
)

// registerVersion installs the table set for one HL7 version. Called
// from each version's data file's init(); not part of the public API.
func registerVersion(r *registry) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registeredTables[r.version] = r
}

// Load returns the immutable Registry for version. It returns
// ErrUnsupportedVersion if no table set has been registered for that
// version (spec.md §4.B lists the seven versions the interface must
// accept; this module ships table data for one of them — see
// SPEC_FULL.md §3).
func Load(version string) (Registry, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	r, ok := registeredTables[version]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedVersion, version)
	}
	return r, nil
}

// SupportedVersions returns the versions with a registered table set,
// in no particular order.
func SupportedVersions() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registeredTables))
	for v := range registeredTables {
		out = append(out, v)
	}
	return out
}
