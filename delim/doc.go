// Package delim defines the HL7 v2.x delimiter convention: the five
// separator roles (field, component, repetition, escape,
// subcomponent), the segment terminator, and the escape-sequence
// alphabet that lets a reserved character appear literally inside a
// scalar value.
//
// # Delimiters
//
// A [Set] is normally extracted from the first bytes of an MSH
// segment with [FromMSH]:
//
//	d, err := delim.FromMSH(mshBytes)
//
// [Default] returns the standard |^~\& set used when no MSH has been
// seen yet (building a message from scratch).
//
// # Escaping
//
// An [Escaper] is bound to one delimiter set and handles both
// directions:
//
//	e := delim.NewEscaper(d)
//	wire := e.Escape("Smith & Sons")   // "Smith \T\ Sons"
//	back := e.Unescape(wire)           // "Smith & Sons"
//
// Escaping is delimiter-set-relative: the same value escapes
// differently under a custom delimiter set, and decoding always uses
// the delimiter set in effect for the node being decoded.
package delim
