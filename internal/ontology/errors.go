package ontology

import (
	"fmt"

	"imaginarium/internal/token"
)

// NameCollisionError reports an attempt to add a referent under a name
// already owned by a referent of a different type, under any inflection.
type NameCollisionError struct {
	Name          token.Tokens
	ExistingType  string
	AttemptedType string
}

func (e *NameCollisionError) Error() string {
	return fmt.Sprintf("%q is already a %s and cannot also be a %s",
		e.Name, e.ExistingType, e.AttemptedType)
}

// Detail returns the rich diagnostic form of the error.
func (e *NameCollisionError) Detail() string {
	return fmt.Sprintf("name collision: %q already names a %s; a %s may not reuse it under any inflection",
		e.Name, e.ExistingType, e.AttemptedType)
}

// UnknownReferentError reports that a locked ontology refused to introduce a
// new referent.
type UnknownReferentError struct {
	Name token.Tokens
	Type string
}

func (e *UnknownReferentError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Type, e.Name)
}

// Detail returns the rich diagnostic form of the error.
func (e *UnknownReferentError) Detail() string {
	return fmt.Sprintf("the ontology is locked: %q would introduce a new %s", e.Name, e.Type)
}

// CycleError reports a subkind declaration that would create a cycle in the
// kind lattice.
type CycleError struct {
	Sub, Super token.Tokens
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("declaring %q a kind of %q would create a cycle", e.Sub, e.Super)
}
