// Package describe renders English descriptions of individuals from
// kind-selected templates. A template is an array of tokens; tokens of the
// form [directive] are interpreted against the invention at render time,
// with a small closed set of meta-directives and a property-or-part lookup
// fallthrough.
package describe

import (
	"strings"

	"imaginarium/internal/ontology"
)

// Model is the slice of an invention the renderer needs. The generator's
// Invention satisfies it.
type Model interface {
	// NameString returns the individual's display name (recursion-guarded
	// by the implementation).
	NameString(i *ontology.Individual) string
	// ProperName returns the individual's proper name, or "" when it has
	// none distinct from its generated name.
	ProperName(i *ontology.Individual) string
	// ModifierWords returns the visible adjectives true of the individual.
	ModifierWords(i *ontology.Individual) []string
	// NounWord returns the most specific kind word for the individual.
	NounWord(i *ontology.Individual) string
	// PropertyWord returns the rendered value of the named property.
	PropertyWord(i *ontology.Individual, name string) (string, bool)
	// PartChildren returns the individuals filling the named part.
	PartChildren(i *ontology.Individual, name string) []*ontology.Individual
	// AllPropertyWords renders every property value except the named ones.
	AllPropertyWords(i *ontology.Individual, exclude map[string]bool) []string
	// NamePropertyNames lists property names consumed by name generation,
	// which [AllProperties] must suppress.
	NamePropertyNames(i *ontology.Individual) map[string]bool
}

// DefaultTemplate is used when no kind on the individual's lattice chain
// carries a description template.
var DefaultTemplate = []string{"[NameString]", "is", "a", "[Modifiers]", "[Noun]", "[AllProperties]"}

// Render interprets tpl for the individual. Empty directive expansions
// vanish; space is elided around "-".
func Render(m Model, ind *ontology.Individual, tpl []string) string {
	var words []string
	for _, tok := range tpl {
		if strings.HasPrefix(tok, "[") && strings.HasSuffix(tok, "]") {
			words = append(words, expand(m, ind, tok[1:len(tok)-1])...)
			continue
		}
		words = append(words, tok)
	}
	return join(words)
}

func expand(m Model, ind *ontology.Individual, directive string) []string {
	switch strings.ToLower(directive) {
	case "container":
		if ind.Container == nil {
			return nil
		}
		return []string{m.NameString(ind.Container)}
	case "containerandpart":
		if ind.Container == nil || ind.ContainerPart == nil {
			return nil
		}
		return []string{m.NameString(ind.Container) + "'s " + ind.ContainerPart.NameTokens.String()}
	case "namestring":
		return []string{m.NameString(ind)}
	case "propernameifdefined":
		if name := m.ProperName(ind); name != "" {
			return []string{name}
		}
		return nil
	case "modifiers":
		return m.ModifierWords(ind)
	case "noun":
		return []string{m.NounWord(ind)}
	case "allproperties":
		return m.AllPropertyWords(ind, m.NamePropertyNames(ind))
	}
	// Fallthrough: a property or part of the individual's kind.
	if v, ok := m.PropertyWord(ind, directive); ok {
		return []string{v}
	}
	if children := m.PartChildren(ind, directive); len(children) > 0 {
		var names []string
		for _, child := range children {
			names = append(names, m.NameString(child))
		}
		return names
	}
	return nil
}

// join assembles words with single spaces, eliding the space around "-" so
// hyphenated templates read naturally.
func join(words []string) string {
	var b strings.Builder
	prevHyphen := false
	for _, w := range words {
		if w == "" {
			continue
		}
		if w == "-" {
			b.WriteString("-")
			prevHyphen = true
			continue
		}
		if b.Len() > 0 && !prevHyphen {
			b.WriteString(" ")
		}
		b.WriteString(w)
		prevHyphen = false
	}
	return b.String()
}
