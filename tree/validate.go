package tree

// Validator runs the Validator (spec.md §4.F) over a subtree and
// returns every violation found; nil means the subtree is fully
// schema-legal. The validate package registers its implementation
// here at init time, the same registration pattern as [SubParser],
// so Node.Validate can run a whole-tree audit without tree importing
// validate (which imports tree to walk the result).
var Validator func(n *Node) []error

// Validate runs the registered Validator over n's subtree. It panics
// if no validate package has been imported to register one; callers
// that only build and encode trees (no import of package validate)
// never call this method.
func (n *Node) Validate() []error {
	return Validator(n)
}
