package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hl7bridge/hl7v2/tree"
)

// Rule defines a business-rule check that can be applied to an
// Element Tree, addressed by a dotted [tree.Node.GetPath] location.
type Rule interface {
	// Check applies this rule to root and returns any validation errors.
	Check(root *tree.Node) []*ValidationError
	// Location returns the path this rule applies to (e.g. "MSH.9").
	Location() string
	// Description returns a human-readable description of the rule.
	Description() string
}

// valueAt resolves location against root and returns its scalar
// value. found is false if the path isn't schema-legal or has no
// occurrence yet.
func valueAt(root *tree.Node, location string) (value string, found bool, err error) {
	n, err := root.GetPath(location)
	if err != nil {
		return "", false, err
	}
	if n == nil {
		return "", false, nil
	}
	if n.IsScalar() {
		return n.Value(), true, nil
	}
	text, err := n.ToER7(nil)
	return text, err == nil, err
}

// requiredRule validates that a field is present and non-empty.
type requiredRule struct {
	location    string
	description string
}

func (r *requiredRule) Check(root *tree.Node) []*ValidationError {
	value, found, err := valueAt(root, r.location)
	if err != nil || !found {
		return []*ValidationError{{Location: r.location, Rule: "required", Message: "field not found"}}
	}
	if strings.TrimSpace(value) == "" {
		return []*ValidationError{{Location: r.location, Rule: "required", Message: "field is required but empty"}}
	}
	return nil
}

func (r *requiredRule) Location() string { return r.location }
func (r *requiredRule) Description() string {
	if r.description != "" {
		return r.description
	}
	return fmt.Sprintf("%s is required", r.location)
}

// valueRule validates that a field has an exact expected value.
type valueRule struct {
	location    string
	expected    string
	description string
}

func (r *valueRule) Check(root *tree.Node) []*ValidationError {
	value, found, err := valueAt(root, r.location)
	if err != nil || !found {
		return nil
	}
	if value != r.expected {
		return []*ValidationError{{Location: r.location, Rule: "value", Message: "field value does not match expected", Expected: r.expected, Actual: value}}
	}
	return nil
}

func (r *valueRule) Location() string { return r.location }
func (r *valueRule) Description() string {
	if r.description != "" {
		return r.description
	}
	return fmt.Sprintf("%s must equal %q", r.location, r.expected)
}

// patternRule validates that a field matches a regular expression.
type patternRule struct {
	location    string
	pattern     *regexp.Regexp
	description string
}

func (r *patternRule) Check(root *tree.Node) []*ValidationError {
	value, found, err := valueAt(root, r.location)
	if err != nil || !found || value == "" {
		return nil
	}
	if !r.pattern.MatchString(value) {
		return []*ValidationError{{Location: r.location, Rule: "pattern", Message: "field value does not match pattern", Expected: r.pattern.String(), Actual: value}}
	}
	return nil
}

func (r *patternRule) Location() string { return r.location }
func (r *patternRule) Description() string {
	if r.description != "" {
		return r.description
	}
	return fmt.Sprintf("%s must match pattern %q", r.location, r.pattern.String())
}

// lengthRule validates that a field value length is within bounds.
type lengthRule struct {
	location    string
	min, max    int
	description string
}

func (r *lengthRule) Check(root *tree.Node) []*ValidationError {
	value, found, err := valueAt(root, r.location)
	if err != nil || !found {
		return nil
	}
	length := len(value)
	var errs []*ValidationError
	if r.min > 0 && length < r.min {
		errs = append(errs, &ValidationError{Location: r.location, Rule: "length", Message: fmt.Sprintf("length %d is less than minimum %d", length, r.min)})
	}
	if r.max > 0 && length > r.max {
		errs = append(errs, &ValidationError{Location: r.location, Rule: "length", Message: fmt.Sprintf("length %d exceeds maximum %d", length, r.max)})
	}
	return errs
}

func (r *lengthRule) Location() string { return r.location }
func (r *lengthRule) Description() string {
	if r.description != "" {
		return r.description
	}
	switch {
	case r.min > 0 && r.max > 0:
		return fmt.Sprintf("%s length must be between %d and %d", r.location, r.min, r.max)
	case r.min > 0:
		return fmt.Sprintf("%s length must be at least %d", r.location, r.min)
	default:
		return fmt.Sprintf("%s length must be at most %d", r.location, r.max)
	}
}

// oneOfRule validates that a field value is one of the allowed values.
type oneOfRule struct {
	location    string
	allowed     []string
	description string
}

func (r *oneOfRule) Check(root *tree.Node) []*ValidationError {
	value, found, err := valueAt(root, r.location)
	if err != nil || !found || value == "" {
		return nil
	}
	for _, a := range r.allowed {
		if value == a {
			return nil
		}
	}
	return []*ValidationError{{Location: r.location, Rule: "oneOf", Message: "value not in allowed list", Expected: fmt.Sprintf("one of [%s]", strings.Join(r.allowed, ", ")), Actual: value}}
}

func (r *oneOfRule) Location() string { return r.location }
func (r *oneOfRule) Description() string {
	if r.description != "" {
		return r.description
	}
	return fmt.Sprintf("%s must be one of [%s]", r.location, strings.Join(r.allowed, ", "))
}

// customRule validates a field using a caller-supplied function.
type customRule struct {
	location    string
	fn          func(string) error
	description string
}

func (r *customRule) Check(root *tree.Node) []*ValidationError {
	value, found, err := valueAt(root, r.location)
	if err != nil || !found {
		return nil
	}
	if err := r.fn(value); err != nil {
		return []*ValidationError{{Location: r.location, Rule: "custom", Message: err.Error(), Actual: value}}
	}
	return nil
}

func (r *customRule) Location() string { return r.location }
func (r *customRule) Description() string {
	if r.description != "" {
		return r.description
	}
	return fmt.Sprintf("%s custom validation", r.location)
}

// compositeRule combines multiple rules at the same location; every
// contained rule runs and all its errors are collected.
type compositeRule struct {
	location    string
	rules       []Rule
	description string
}

func (r *compositeRule) Check(root *tree.Node) []*ValidationError {
	var errs []*ValidationError
	for _, rule := range r.rules {
		errs = append(errs, rule.Check(root)...)
	}
	return errs
}

func (r *compositeRule) Location() string { return r.location }
func (r *compositeRule) Description() string {
	if r.description != "" {
		return r.description
	}
	descs := make([]string, len(r.rules))
	for i, rule := range r.rules {
		descs[i] = rule.Description()
	}
	return strings.Join(descs, "; ")
}
