package validate

import "github.com/hl7bridge/hl7v2/tree"

// ValidationResult is the outcome of running a rule set over a tree.
type ValidationResult interface {
	// Valid reports whether no validation errors occurred.
	Valid() bool
	// Errors returns every validation error encountered.
	Errors() []*ValidationError
}

// Validator applies a set of business rules to an Element Tree,
// alongside (not instead of) the five structural checks every
// [tree.Node.Validate] call already runs.
type Validator interface {
	// Check applies every rule to root and returns the combined result.
	Check(root *tree.Node) ValidationResult
}

type validationResult struct {
	errors []*ValidationError
}

func (r *validationResult) Valid() bool { return len(r.errors) == 0 }
func (r *validationResult) Errors() []*ValidationError {
	out := make([]*ValidationError, len(r.errors))
	copy(out, r.errors)
	return out
}

type validator struct {
	rules []Rule
}

// New creates a Validator that checks the given rules.
func New(rules ...Rule) Validator {
	return &validator{rules: rules}
}

// NewWithRuleSet creates a Validator from a RuleSet.
func NewWithRuleSet(rs RuleSet) Validator {
	return &validator{rules: rs.Rules()}
}

// Check applies every rule to root and returns the combined result.
func (v *validator) Check(root *tree.Node) ValidationResult {
	result := &validationResult{}
	if root == nil {
		result.errors = append(result.errors, &ValidationError{Rule: "validator", Message: "root is nil"})
		return result
	}
	for _, rule := range v.rules {
		result.errors = append(result.errors, rule.Check(root)...)
	}
	return result
}
