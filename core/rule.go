package core

// Rule describes the rewrite rule justifying an edge. The engine never
// interprets it beyond display and reporting; applicability and proof
// construction belong to the external rewrite capability.
type Rule struct {
	// Name identifies the rule (typically a lemma name).
	Name string

	// Reversed marks that the rule was applied right-to-left.
	Reversed bool
}

// String returns a string representation of the Rule.
func (r Rule) String() string {
	if r.Reversed {
		return "<-" + r.Name
	}
	return r.Name
}
