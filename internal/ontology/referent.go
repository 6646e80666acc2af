// Package ontology holds the typed representation of everything an author
// can talk about: kinds (common nouns), named things (proper nouns),
// attributes (adjectives), binary relations (verbs), parts, properties, and
// the constraints among them. The Ontology container owns the indexes and
// the two tries the parser resolves names through.
package ontology

import (
	"fmt"

	"imaginarium/internal/token"
)

// Referent is anything with a standard name in the ontology.
type Referent interface {
	// Name returns the standard name of the referent.
	Name() token.Tokens
	// IsNamed reports an exact match against any of the referent's names.
	IsNamed(t token.Tokens) bool
	// PartOfSpeech is the human-readable tag used in diagnostics.
	PartOfSpeech() string
}

// MonadicConcept is a unary predicate over individuals: a common noun or an
// adjective. Both live in the ontology's monadic trie.
type MonadicConcept interface {
	Referent
	monadicConcept()
}

// GrammaticalNumber is the number inferred for a noun phrase.
type GrammaticalNumber int

const (
	UnknownNumber GrammaticalNumber = iota
	Singular
	Plural
)

func (n GrammaticalNumber) String() string {
	switch n {
	case Singular:
		return "singular"
	case Plural:
		return "plural"
	}
	return "unknown"
}

// Literal is a signed monadic concept; the only thing constraints ever store
// for monadic facts.
type Literal struct {
	Concept MonadicConcept
	Truth   bool
}

// Pos returns the positive literal for c.
func Pos(c MonadicConcept) Literal { return Literal{Concept: c, Truth: true} }

// Neg returns the negated literal for c.
func Neg(c MonadicConcept) Literal { return Literal{Concept: c, Truth: false} }

// Negated returns the literal with flipped polarity.
func (l Literal) Negated() Literal { return Literal{Concept: l.Concept, Truth: !l.Truth} }

func (l Literal) String() string {
	if l.Truth {
		return l.Concept.Name().String()
	}
	return fmt.Sprintf("not %s", l.Concept.Name())
}

// SameAs reports whether two literals name the same concept with the same
// polarity.
func (l Literal) SameAs(o Literal) bool {
	return l.Concept == o.Concept && l.Truth == o.Truth
}

// ConditionalModifier states that when every condition holds of an
// individual of the attached kind, the modifier holds too.
type ConditionalModifier struct {
	Conditions []Literal
	Modifier   Literal
}

// AlternativeSet constrains individuals of a kind to have between Min and
// Max of the signed alternatives true.
type AlternativeSet struct {
	Alternatives []Literal
	Frequencies  []float64
	Min, Max     int
	// AllowPreInitialization permits the generator to bias one member true
	// per individual before solving.
	AllowPreInitialization bool
}

// Test is a registered existence check run against a finished invention.
type Test struct {
	Noun           *CommonNoun
	Modifiers      []Literal
	ShouldExist    bool
	EveryKind      bool
	SuccessMessage string
	FailureMessage string
}

// Button binds a REPL button name to the command text it stands for.
type Button struct {
	Name    string
	Command string
}
