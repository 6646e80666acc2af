package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imaginarium/internal/ontology"
	"imaginarium/internal/token"
)

func newTestParser(t *testing.T) (*ontology.Ontology, *Parser) {
	t.Helper()
	ont := ontology.New()
	return ont, New(ont)
}

func exec(t *testing.T, p *Parser, lines ...string) {
	t.Helper()
	for _, line := range lines {
		require.NoError(t, p.ParseAndExecute(line), "statement %q", line)
	}
}

func noun(t *testing.T, ont *ontology.Ontology, name string) *ontology.CommonNoun {
	t.Helper()
	n := ont.LookupNoun(token.Tokenize(name))
	require.NotNil(t, n, "noun %q should exist", name)
	return n
}

func TestKindDeclarationSingular(t *testing.T) {
	ont, p := newTestParser(t)
	exec(t, p,
		"a cat is a kind of person.",
		"a persian is a kind of cat.",
	)
	cat := noun(t, ont, "cat")
	person := noun(t, ont, "person")
	persian := noun(t, ont, "persian")

	assert.True(t, persian.IsImmediateSubkindOf(cat))
	assert.True(t, cat.IsImmediateSubkindOf(person))
	assert.True(t, person.Dominates(persian))
}

func TestKindDeclarationListWithFrequencies(t *testing.T) {
	ont, p := newTestParser(t)
	exec(t, p,
		"a cat is a kind of person.",
		"persian, tabby (10), and siamese are kinds of cat.",
	)
	cat := noun(t, ont, "cat")
	require.Len(t, cat.Subkinds, 3)
	assert.Equal(t, 10.0, cat.FrequencyOf(noun(t, ont, "tabby")))
	assert.Equal(t, 1.0, cat.FrequencyOf(noun(t, ont, "persian")))
}

func TestCommentAndPeriodStripping(t *testing.T) {
	ont, p := newTestParser(t)
	exec(t, p,
		"a cat is a kind of person.   # household deity",
		"// a full-line comment",
		"",
	)
	assert.NotNil(t, ont.LookupNoun(token.Tokenize("cat")))
}

func TestRequiredAlternatives(t *testing.T) {
	ont, p := newTestParser(t)
	exec(t, p,
		"a cat is a kind of person.",
		"cats are black, white, or orange.",
	)
	cat := noun(t, ont, "cat")
	require.Len(t, cat.AlternativeSets, 1)
	set := cat.AlternativeSets[0]
	assert.Equal(t, 1, set.Min)
	assert.Equal(t, 1, set.Max)
	assert.Len(t, set.Alternatives, 3)
	assert.True(t, set.AllowPreInitialization)
	assert.NotNil(t, ont.LookupAdjective(token.Tokenize("orange")))
}

func TestOptionalAlternatives(t *testing.T) {
	ont, p := newTestParser(t)
	exec(t, p,
		"a cat is a kind of person.",
		"cats can be fluffy, lazy, or grumpy.",
	)
	set := noun(t, ont, "cat").AlternativeSets[0]
	assert.Equal(t, 0, set.Min)
	assert.Equal(t, 1, set.Max)
}

func TestBoundedAlternatives(t *testing.T) {
	ont, p := newTestParser(t)
	exec(t, p,
		"a x is a kind of thing.",
		"a x is between 4 and 5 of b, c, d, e, f, or g.",
		"a y is a kind of thing.",
		"a y is any 3 of b, c, d, e, f, or g.",
		"a z is a kind of thing.",
		"z can be at most 2 of b, c, d, e, f, or g.",
	)
	x := noun(t, ont, "x").AlternativeSets[0]
	assert.Equal(t, 4, x.Min)
	assert.Equal(t, 5, x.Max)
	require.Len(t, x.Alternatives, 6)

	y := noun(t, ont, "y").AlternativeSets[0]
	assert.Equal(t, 3, y.Min)
	assert.Equal(t, 3, y.Max)

	z := noun(t, ont, "z").AlternativeSets[0]
	assert.Equal(t, 0, z.Min)
	assert.Equal(t, 2, z.Max)

	// All six adjectives are shared, so none is pre-initializable.
	b := ont.LookupAdjective(token.Tokenize("b"))
	require.NotNil(t, b)
	assert.Equal(t, 3, b.ReferenceCount)
}

func TestImpliedAdjective(t *testing.T) {
	ont, p := newTestParser(t)
	exec(t, p,
		"a cat is a kind of person.",
		"cats are furry.",
	)
	cat := noun(t, ont, "cat")
	require.Len(t, cat.ImpliedAdjectives, 1)
	assert.Empty(t, cat.ImpliedAdjectives[0].Conditions)
	assert.Equal(t, "furry", cat.ImpliedAdjectives[0].Modifier.Concept.Name().String())
	assert.True(t, cat.ImpliedAdjectives[0].Modifier.Truth)
}

func TestConditionalImpliedAdjective(t *testing.T) {
	ont, p := newTestParser(t)
	exec(t, p,
		"a cat is a kind of person.",
		"cats can be black, white, or orange.",
		"black cats are spooky.",
	)
	cat := noun(t, ont, "cat")
	var found *ontology.ConditionalModifier
	for i := range cat.ImpliedAdjectives {
		if cat.ImpliedAdjectives[i].Modifier.Concept.Name().String() == "spooky" {
			found = &cat.ImpliedAdjectives[i]
		}
	}
	require.NotNil(t, found)
	require.Len(t, found.Conditions, 1)
	assert.Equal(t, "black", found.Conditions[0].Concept.Name().String())
}

func TestNegatedAlternative(t *testing.T) {
	ont, p := newTestParser(t)
	exec(t, p,
		"a cat is a kind of person.",
		"cats are fluffy or not fluffy.",
	)
	set := noun(t, ont, "cat").AlternativeSets[0]
	require.Len(t, set.Alternatives, 2)
	assert.True(t, set.Alternatives[0].Truth)
	assert.False(t, set.Alternatives[1].Truth)
	assert.Same(t, set.Alternatives[0].Concept, set.Alternatives[1].Concept)
}

func TestPluralOverride(t *testing.T) {
	ont, p := newTestParser(t)
	exec(t, p,
		"the plural of octopus is octopodes.",
	)
	n := noun(t, ont, "octopus")
	assert.Equal(t, "octopodes", n.PluralForm.String())
	assert.Same(t, n, ont.LookupNoun(token.Tokenize("octopodes")))
}

func TestVerbReflexivity(t *testing.T) {
	ont, p := newTestParser(t)
	exec(t, p,
		"a person is a kind of thing.",
		"people must love themselves.",
	)
	love := ont.LookupVerb(token.Tokenize("love"))
	require.NotNil(t, love)
	assert.True(t, love.IsReflexive)
	require.Len(t, love.Shapes, 1)
	assert.Equal(t, "person", love.Shapes[0].SubjectKind.SingularForm.String())
}

func TestVerbAntiReflexiveViaOther(t *testing.T) {
	ont, p := newTestParser(t)
	exec(t, p,
		"a cat is a kind of thing.",
		"cats can love other cats.",
	)
	love := ont.LookupVerb(token.Tokenize("love"))
	require.NotNil(t, love)
	assert.True(t, love.IsAntiReflexive)
	assert.False(t, love.IsSymmetric)
}

func TestVerbManyDoesNotSetAntiReflexive(t *testing.T) {
	ont, p := newTestParser(t)
	exec(t, p,
		"a cat is a kind of thing.",
		"cats can love many cats.",
	)
	love := ont.LookupVerb(token.Tokenize("love"))
	require.NotNil(t, love)
	assert.False(t, love.IsAntiReflexive)
}

func TestVerbSymmetry(t *testing.T) {
	ont, p := newTestParser(t)
	exec(t, p,
		"a person is a kind of thing.",
		"people can marry each other.",
		"people cannot fight each other.",
	)
	marry := ont.LookupVerb(token.Tokenize("marry"))
	require.NotNil(t, marry)
	assert.True(t, marry.IsSymmetric)

	fight := ont.LookupVerb(token.Tokenize("fight"))
	require.NotNil(t, fight)
	assert.True(t, fight.IsAntiSymmetric)
}

func TestVerbCardinality(t *testing.T) {
	ont, p := newTestParser(t)
	exec(t, p,
		"a person is a kind of thing.",
		"employee and employer are kinds of person.",
		"an employee must work for one employer.",
		"an employer must be worked for by at least two employees.",
	)
	work := ont.LookupVerb(token.Tokenize("work for"))
	require.NotNil(t, work)
	assert.Equal(t, 1, work.ObjectLower)
	assert.Equal(t, 1, work.ObjectUpper)
	assert.Equal(t, 2, work.SubjectLower)
	assert.Equal(t, ontology.Unbounded, work.SubjectUpper)

	require.NotEmpty(t, work.Shapes)
	shape := work.Shapes[0]
	assert.Equal(t, "employee", shape.SubjectKind.SingularForm.String())
	assert.Equal(t, "employer", shape.ObjectKind.SingularForm.String())
}

func TestVerbBoundsVariants(t *testing.T) {
	ont, p := newTestParser(t)
	exec(t, p,
		"a cat is a kind of thing.",
		"a toy is a kind of thing.",
		"cats can own up to 3 toys.",
		"cats must own at least 1 toys.",
	)
	own := ont.LookupVerb(token.Tokenize("own"))
	require.NotNil(t, own)
	assert.Equal(t, 3, own.ObjectUpper)
	assert.Equal(t, 1, own.ObjectLower)
}

func TestPassiveUpperBound(t *testing.T) {
	ont, p := newTestParser(t)
	exec(t, p,
		"a cat is a kind of thing.",
		"a person is a kind of thing.",
		"cats can be owned by at most 3 people.",
	)
	own := ont.LookupVerb(token.Tokenize("own"))
	require.NotNil(t, own)
	assert.Equal(t, 3, own.SubjectUpper)
	assert.Equal(t, 0, own.SubjectLower)

	require.Len(t, own.Shapes, 1)
	assert.Equal(t, "person", own.Shapes[0].SubjectKind.SingularForm.String())
	assert.Equal(t, "cat", own.Shapes[0].ObjectKind.SingularForm.String())

	// The sentence must not have been read as an adjective list.
	assert.Nil(t, ont.LookupAdjective(token.Tokenize("owned by at most 3 people")))
}

func TestVerbAlgebra(t *testing.T) {
	ont, p := newTestParser(t)
	exec(t, p,
		"a person is a kind of thing.",
		"people can love many people.",
		"people can like many people.",
		"people can hate many people.",
		"love is rare.",
		"like is common.",
		"love implies like.",
		"love and hate are mutually exclusive.",
		"loving is a way of liking.",
	)
	love := ont.LookupVerb(token.Tokenize("love"))
	like := ont.LookupVerb(token.Tokenize("like"))
	hate := ont.LookupVerb(token.Tokenize("hate"))
	require.NotNil(t, love)
	require.NotNil(t, like)
	require.NotNil(t, hate)

	assert.Equal(t, 0.05, love.Density)
	assert.Equal(t, 0.95, like.Density)
	assert.Contains(t, love.Generalizations, like)
	assert.Contains(t, love.MutualExclusions, hate)
	assert.Contains(t, hate.MutualExclusions, love)
	assert.Contains(t, love.Superspecies, like)
	assert.Contains(t, like.Subspecies, love)
}

func TestParts(t *testing.T) {
	ont, p := newTestParser(t)
	exec(t, p,
		"a face is a kind of thing.",
		"a face has eyes.",
		"a face has a mouth.",
		"a face has 2 nostrils called their breathing holes.",
	)
	face := noun(t, ont, "face")
	require.Len(t, face.Parts, 3)

	assert.Equal(t, "eye", face.Parts[0].NameTokens.String())
	assert.Equal(t, 1, face.Parts[0].Count)
	assert.Equal(t, "mouth", face.Parts[1].NameTokens.String())
	assert.Equal(t, "breathing holes", face.Parts[2].NameTokens.String())
	assert.Equal(t, 2, face.Parts[2].Count)
	assert.Equal(t, "nostril", face.Parts[2].Kind.SingularForm.String())
}

func TestIntervalProperty(t *testing.T) {
	ont, p := newTestParser(t)
	exec(t, p,
		"a cat is a kind of thing.",
		"cats can be fat or thin.",
		"cats have weight between 5 and 20.",
		"fat cats have weight between 15 and 20.",
	)
	cat := noun(t, ont, "cat")
	require.Len(t, cat.Properties, 1)
	prop := cat.Properties[0]
	assert.Equal(t, ontology.IntervalProperty, prop.Type)
	assert.Equal(t, 5.0, prop.Interval.Lo)
	assert.Equal(t, 20.0, prop.Interval.Hi)
	require.Len(t, prop.IntervalRules, 1)
	assert.Equal(t, 15.0, prop.IntervalRules[0].Interval.Lo)
}

func TestMenuPropertyFromList(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "names.txt"),
		[]byte("Algernon\n\n  Bertha  \nClem\n"), 0o644))

	ont := ontology.New()
	ont.DefinitionsDir = dir
	p := New(ont)
	exec(t, p,
		"a cat is a kind of thing.",
		"cats have name from names.",
	)
	prop := noun(t, ont, "cat").Properties[0]
	assert.Equal(t, ontology.MenuProperty, prop.Type)
	assert.Equal(t, []string{"Algernon", "Bertha", "Clem"}, prop.Menu)
	assert.True(t, prop.IsNameProperty())
}

func TestTemplates(t *testing.T) {
	ont, p := newTestParser(t)
	exec(t, p,
		"a cat is a kind of thing.",
		`a cat is identified as "[name] the cat".`,
		`a cat is described as "[NameString] lounges here".`,
	)
	cat := noun(t, ont, "cat")
	assert.Equal(t, []string{"[name]", "the", "cat"}, cat.NameTemplate)
	assert.Equal(t, []string{"[namestring]", "lounges", "here"}, cat.DescriptionTemplate)
}

func TestSuppression(t *testing.T) {
	ont, p := newTestParser(t)
	exec(t, p,
		"a cat is a kind of thing.",
		"cats can be fat or thin.",
		"do not mention being fat.",
		"do not print cats.",
	)
	assert.True(t, ont.LookupAdjective(token.Tokenize("fat")).IsSilent)
	assert.True(t, noun(t, ont, "cat").SuppressDescription)
}

func TestTestRegistration(t *testing.T) {
	ont, p := newTestParser(t)
	exec(t, p,
		"a cat is a kind of thing.",
		"a persian is a kind of cat.",
		"a persian should exist.",
		"a dragon is a kind of thing.",
		"a dragon should not exist.",
		"every kind of cat should exist.",
	)
	tests := ont.Tests()
	require.Len(t, tests, 3)
	assert.True(t, tests[0].ShouldExist)
	assert.False(t, tests[1].ShouldExist)
	assert.True(t, tests[2].EveryKind)
	assert.Equal(t, "cat", tests[2].Noun.SingularForm.String())
}

func TestProperNounDeclaration(t *testing.T) {
	ont, p := newTestParser(t)
	exec(t, p,
		"a cat is a kind of thing.",
		"cats can be fat or thin.",
		"fluffy is a fat cat.",
		"fluffy is thin.",
	)
	pn := ont.LookupProperNoun(token.Tokenize("fluffy"))
	require.NotNil(t, pn)
	require.Len(t, pn.Individual.Kinds, 1)
	assert.Equal(t, "cat", pn.Individual.Kinds[0].SingularForm.String())
	require.Len(t, pn.Individual.Modifiers, 2)
	assert.Equal(t, "fat", pn.Individual.Modifiers[0].Concept.Name().String())
	assert.Equal(t, "thin", pn.Individual.Modifiers[1].Concept.Name().String())
}

func TestMetadataAndButtons(t *testing.T) {
	ont, p := newTestParser(t)
	exec(t, p,
		"author: ian",
		"description: a cat generator",
		"instructions: press the button",
		`pressing "reroll" means "generate a cat".`,
	)
	assert.Equal(t, "ian", ont.Author)
	assert.Equal(t, "a cat generator", ont.Description)
	assert.Equal(t, "press the button", ont.Instructions)
	require.Len(t, ont.Buttons(), 1)
	assert.Equal(t, "reroll", ont.Buttons()[0].Name)
	assert.Equal(t, "generate a cat", ont.Buttons()[0].Command)
}

func TestUnknownSentenceReportsGrammaticalError(t *testing.T) {
	ont, p := newTestParser(t)
	err := p.ParseAndExecute("colorless green ideas sleep furiously, allegedly.")
	var gram *GrammaticalError
	require.ErrorAs(t, err, &gram)
	// A failed sentence leaves no trace in the ontology.
	assert.Empty(t, ont.Nouns())
}

func TestCutProducesDiagnostic(t *testing.T) {
	_, p := newTestParser(t)
	err := p.ParseAndExecute("a cat is a kind of.")
	var gram *GrammaticalError
	require.ErrorAs(t, err, &gram)
	assert.Equal(t, "NP is a kind of NP", gram.Pattern)
	assert.NotEmpty(t, gram.Segment)
}

func TestLockedOntologyRejectsNewReferents(t *testing.T) {
	ont, p := newTestParser(t)
	exec(t, p,
		"a cat is a kind of thing.",
		"cats can be furry or sleek.",
	)
	ont.Lock()

	err := p.ParseAndExecute("a dog is a kind of thing.")
	var unknown *ontology.UnknownReferentError
	require.ErrorAs(t, err, &unknown)

	// A new adjective is a new referent too.
	err = p.ParseAndExecute("cats are iridescent.")
	require.ErrorAs(t, err, &unknown)

	// Attaching facts to existing referents still works.
	exec(t, p, "cats are furry.")
	assert.NotEmpty(t, noun(t, ont, "cat").ImpliedAdjectives)
}

func TestDeterminism(t *testing.T) {
	run := func() *ontology.Ontology {
		ont, p := newTestParser(t)
		exec(t, p,
			"a cat is a kind of person.",
			"persian, tabby, and siamese are kinds of cat.",
			"cats are black, white, or orange.",
		)
		return ont
	}
	a, b := run(), run()
	require.Len(t, a.Nouns(), len(b.Nouns()))
	for i, n := range a.Nouns() {
		assert.Equal(t, n.SingularForm, b.Nouns()[i].SingularForm)
	}
}

func TestLoadDefinitionsDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "01-kinds.gen"),
		[]byte("a cat is a kind of thing.\n# comment\na persian is a kind of cat.\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "02-attrs.gen"),
		[]byte("cats are black, white, or orange.\n"), 0o644))

	ont := ontology.New()
	ont.DefinitionsDir = dir
	p := New(ont)
	require.Empty(t, p.LoadDefinitions(true))
	assert.NotNil(t, ont.LookupNoun(token.Tokenize("persian")))
	assert.Len(t, ont.LookupNoun(token.Tokenize("cat")).AlternativeSets, 1)
}

func TestLoadCollectsErrors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.gen"),
		[]byte("a cat is a kind of thing.\nutter nonsense here.\na dog is a kind of thing.\n"), 0o644))

	ont := ontology.New()
	p := New(ont)
	errs := p.LoadFile(filepath.Join(dir, "bad.gen"), true)
	require.Len(t, errs, 1)
	var lerr *DefinitionLoadError
	require.ErrorAs(t, errs[0], &lerr)
	assert.Equal(t, 2, lerr.Line)
	// Loading continued past the bad line.
	assert.NotNil(t, ont.LookupNoun(token.Tokenize("dog")))
}

func TestPerReferentDefinitionFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cat.gen"),
		[]byte("cats are black, white, or orange.\n"), 0o644))

	ont := ontology.New()
	ont.DefinitionsDir = dir
	p := New(ont)
	exec(t, p, "a cat is a kind of thing.")
	// Introducing "cat" pulled in cat.gen.
	assert.Len(t, ont.LookupNoun(token.Tokenize("cat")).AlternativeSets, 1)
}
