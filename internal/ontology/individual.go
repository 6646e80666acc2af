package ontology

import (
	"imaginarium/internal/token"
)

// Individual is a runtime object participating in an invention. Permanent
// individuals come from proper nouns and are reused across generations;
// ephemeral ones live only within one generation pass.
type Individual struct {
	// ID is a monotonic per-ontology id giving individuals a total order.
	ID int

	NameTokens token.Tokens
	Kinds      []*CommonNoun
	Modifiers  []Literal

	// Container and ContainerPart link a part-individual back to its owner.
	Container     *Individual
	ContainerPart *Part

	// Parts maps each Part of the individual's kinds to the individuals
	// instantiated to satisfy it.
	Parts map[*Part][]*Individual

	EphemeralFlag bool
}

func (i *Individual) Name() token.Tokens          { return i.NameTokens }
func (i *Individual) IsNamed(t token.Tokens) bool { return i.NameTokens.Equal(t) }
func (i *Individual) PartOfSpeech() string        { return "individual" }

// AddKind adds k to the individual's kind list, maintaining the invariant
// that no listed kind is strictly dominated by another listed kind.
func (i *Individual) AddKind(k *CommonNoun) {
	kept := i.Kinds[:0]
	for _, existing := range i.Kinds {
		if existing == k {
			return
		}
		// k is redundant if an existing kind is already more specific.
		if k.Dominates(existing) {
			return
		}
		// Drop existing kinds that k refines.
		if !existing.Dominates(k) {
			kept = append(kept, existing)
		}
	}
	i.Kinds = append(kept, k)
}

// AddModifier appends a literal unless an identical one is present.
func (i *Individual) AddModifier(l Literal) {
	for _, m := range i.Modifiers {
		if m.SameAs(l) {
			return
		}
	}
	i.Modifiers = append(i.Modifiers, l)
}

// CanBeA reports whether k is consistent with the individual's declared
// kinds: either k dominates a declared kind, a declared kind dominates k,
// or the individual has no kinds at all.
func (i *Individual) CanBeA(k *CommonNoun) bool {
	if len(i.Kinds) == 0 {
		return true
	}
	for _, mine := range i.Kinds {
		if k.Dominates(mine) || mine.Dominates(k) {
			return true
		}
	}
	return false
}

// DeclaredA reports whether a declared kind is k or a subkind of k.
func (i *Individual) DeclaredA(k *CommonNoun) bool {
	for _, mine := range i.Kinds {
		if k.Dominates(mine) {
			return true
		}
	}
	return false
}
