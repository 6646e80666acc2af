package generator

import (
	"fmt"

	"imaginarium/internal/ontology"
)

// ContradictionError reports a statically impossible requirement detected
// during constraint emission, before the solver ever runs.
type ContradictionError struct {
	Verb    *ontology.Verb
	Subject *ontology.CommonNoun
	Object  *ontology.CommonNoun
	Needed  int
	Have    int
}

func (e *ContradictionError) Error() string {
	return fmt.Sprintf("%q requires at least %d %s per %s but only %d exist",
		e.Verb.Base, e.Needed, e.Object.PluralOrSingular(), e.Subject.SingularForm, e.Have)
}

// Detail returns the rich diagnostic form of the error.
func (e *ContradictionError) Detail() string {
	return fmt.Sprintf("contradiction: verb %q needs %d individuals of kind %q for every %q, but the invention only contains %d",
		e.Verb.Base, e.Needed, e.Object.SingularForm, e.Subject.SingularForm, e.Have)
}
