// Package validate implements the Validator (spec.md §4.F).
//
// Calling [tree.Node.Validate] on any node runs the five structural
// checks every tree must satisfy (known names, child legality,
// cardinality, data-type conformance, MSH integrity) — this package
// registers that implementation as a side effect of being imported.
//
// On top of the structural checks, validate offers an extensible
// business-rule layer for constraints the schema alone can't express:
//
//	v := validate.New(
//	    validate.At("MSH.9").Required().Build(),
//	    validate.At("MSH.9.1").Value("ADT").Build(),
//	    validate.At("PID.8").OneOf("M", "F", "O", "U").Build(),
//	)
//	result := v.Check(root)
//	if !result.Valid() {
//	    for _, err := range result.Errors() {
//	        log.Printf("validation error: %v", err)
//	    }
//	}
//
// [RuleSet] groups rules for reuse and combination:
//
//	adt := validate.MSHRules().Merge(validate.PIDRules())
//	v := validate.NewWithRuleSet(adt)
package validate
