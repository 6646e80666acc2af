package generator_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imaginarium/internal/generator"
	"imaginarium/internal/ontology"
	"imaginarium/internal/parser"
	"imaginarium/internal/token"
)

func load(t *testing.T, lines ...string) *ontology.Ontology {
	t.Helper()
	ont := ontology.New()
	p := parser.New(ont)
	for _, line := range lines {
		require.NoError(t, p.ParseAndExecute(line), "statement %q", line)
	}
	return ont
}

func invent(t *testing.T, ont *ontology.Ontology, kind string, count int, seed int64) *generator.Invention {
	t.Helper()
	root := ont.LookupNoun(token.Tokenize(kind))
	require.NotNil(t, root, "kind %q", kind)
	g := generator.New(ont, root, nil, count, generator.Options{
		Retries: 4,
		Timeout: 20 * time.Second,
		Seed:    seed,
	})
	inv, err := g.Generate(context.Background())
	require.NoError(t, err)
	require.NotNil(t, inv, "expected an invention")
	return inv
}

func kindNamed(t *testing.T, ont *ontology.Ontology, name string) *ontology.CommonNoun {
	t.Helper()
	n := ont.LookupNoun(token.Tokenize(name))
	require.NotNil(t, n)
	return n
}

func TestSubkindExclusivity(t *testing.T) {
	ont := load(t,
		"a cat is a kind of person.",
		"a persian is a kind of cat.",
		"a tabby is a kind of cat.",
		"a siamese is a kind of cat.",
	)
	inv := invent(t, ont, "cat", 1, 11)

	cat := kindNamed(t, ont, "cat")
	person := kindNamed(t, ont, "person")
	subs := []*ontology.CommonNoun{
		kindNamed(t, ont, "persian"),
		kindNamed(t, ont, "tabby"),
		kindNamed(t, ont, "siamese"),
	}

	root := inv.Individuals[0]
	assert.True(t, inv.IsA(root, cat))
	// Kind closure reaches the superkind.
	assert.True(t, inv.IsA(root, person))

	trueSubs := 0
	for _, sub := range subs {
		if inv.IsA(root, sub) {
			trueSubs++
		}
	}
	assert.Equal(t, 1, trueSubs, "exactly one immediate subkind must hold")
}

func TestSubkindFrequencies(t *testing.T) {
	ont := load(t,
		"a cat is a kind of person.",
		"persian, tabby (10), and siamese are kinds of cat.",
	)
	tabby := kindNamed(t, ont, "tabby")

	tabbies := 0
	const runs = 60
	for i := 0; i < runs; i++ {
		inv := invent(t, ont, "cat", 1, int64(1000+i))
		if inv.IsA(inv.Individuals[0], tabby) {
			tabbies++
		}
	}
	// Weight 10 against 1 and 1: tabbies should dominate clearly.
	assert.Greater(t, tabbies, runs/2, "tabby frequency should dominate (%d/%d)", tabbies, runs)
}

func TestReflexiveVerb(t *testing.T) {
	ont := load(t,
		"a person is a kind of thing.",
		"people must love themselves.",
	)
	inv := invent(t, ont, "person", 10, 3)

	love := ont.LookupVerb(token.Tokenize("love"))
	require.NotNil(t, love)
	for _, ind := range inv.Individuals {
		assert.True(t, inv.Holds(love, ind, ind), "%s must love itself", ind.NameTokens)
	}
}

func TestAntiReflexiveVerb(t *testing.T) {
	ont := load(t,
		"a cat is a kind of thing.",
		"cats can love other cats.",
	)
	inv := invent(t, ont, "cat", 5, 3)
	love := ont.LookupVerb(token.Tokenize("love"))
	require.NotNil(t, love)
	for _, ind := range inv.Individuals {
		assert.False(t, inv.Holds(love, ind, ind))
	}
}

func TestVerbCardinality(t *testing.T) {
	ont := load(t,
		"a person is a kind of thing.",
		"employee and employer are kinds of person.",
		"an employee must work for one employer.",
		"an employer must be worked for by at least two employees.",
	)
	inv := invent(t, ont, "person", 4, 7)

	work := ont.LookupVerb(token.Tokenize("work for"))
	require.NotNil(t, work)
	employee := kindNamed(t, ont, "employee")
	employer := kindNamed(t, ont, "employer")

	for _, ind := range inv.Individuals {
		if inv.IsA(ind, employee) {
			objects := 0
			for _, other := range inv.Individuals {
				if inv.Holds(work, ind, other) {
					assert.True(t, inv.IsA(other, employer))
					objects++
				}
			}
			assert.Equal(t, 1, objects, "every employee works for exactly one employer")
		}
		if inv.IsA(ind, employer) {
			subjects := 0
			for _, other := range inv.Individuals {
				if inv.Holds(work, other, ind) {
					subjects++
				}
			}
			assert.GreaterOrEqual(t, subjects, 2, "every employer has at least two employees")
		}
	}
}

func TestPartNaming(t *testing.T) {
	ont := load(t,
		"a face is a kind of thing.",
		"a face has eyes.",
		"a face has a mouth.",
		"a face has a nose.",
		"a face has hair.",
	)
	inv := invent(t, ont, "face", 1, 5)

	face := inv.Individuals[0]
	require.Len(t, inv.Individuals, 5, "face plus four part individuals")

	var names []string
	for _, ind := range inv.Individuals[1:] {
		require.Same(t, face, ind.Container)
		names = append(names, inv.NameString(ind))
	}
	assert.ElementsMatch(t, []string{
		"the face's eye", "the face's mouth", "the face's nose", "the face's hair",
	}, names)
}

func TestOverlappingAlternativeSets(t *testing.T) {
	ont := load(t,
		"x, y, and z are kinds of thing.",
		"a x is between 4 and 5 of b, c, d, e, f, or g.",
		"a y is between 1 and 2 of b, c, d, e, f, or g.",
		"a z is any 3 of b, c, d, e, f, or g.",
	)
	inv := invent(t, ont, "thing", 12, 13)

	adjs := make([]*ontology.Adjective, 0, 6)
	for _, name := range []string{"b", "c", "d", "e", "f", "g"} {
		a := ont.LookupAdjective(token.Tokenize(name))
		require.NotNil(t, a)
		adjs = append(adjs, a)
	}
	bounds := map[string][2]int{"x": {4, 5}, "y": {1, 2}, "z": {3, 3}}

	for _, ind := range inv.Individuals {
		for kindName, b := range bounds {
			if !inv.IsA(ind, kindNamed(t, ont, kindName)) {
				continue
			}
			count := 0
			for _, a := range adjs {
				if inv.AdjectiveTrue(ind, a) {
					count++
				}
			}
			assert.GreaterOrEqual(t, count, b[0], "individual %d of kind %s", ind.ID, kindName)
			assert.LessOrEqual(t, count, b[1], "individual %d of kind %s", ind.ID, kindName)
		}
	}
}

func TestRequiredAlternativesExactlyOne(t *testing.T) {
	ont := load(t,
		"a cat is a kind of thing.",
		"cats are black, white, or orange.",
	)
	inv := invent(t, ont, "cat", 6, 17)

	var colors []*ontology.Adjective
	for _, name := range []string{"black", "white", "orange"} {
		colors = append(colors, ont.LookupAdjective(token.Tokenize(name)))
	}
	for _, ind := range inv.Individuals {
		count := 0
		for _, a := range colors {
			if inv.AdjectiveTrue(ind, a) {
				count++
			}
		}
		assert.Equal(t, 1, count, "individual %d must have exactly one color", ind.ID)
	}
}

func TestImpliedAdjectiveHolds(t *testing.T) {
	ont := load(t,
		"a cat is a kind of thing.",
		"cats are furry.",
	)
	inv := invent(t, ont, "cat", 3, 19)
	furry := ont.LookupAdjective(token.Tokenize("furry"))
	require.NotNil(t, furry)
	for _, ind := range inv.Individuals {
		assert.True(t, inv.AdjectiveTrue(ind, furry))
	}
}

func TestSymmetricVerb(t *testing.T) {
	ont := load(t,
		"a person is a kind of thing.",
		"people can marry each other.",
		"people must marry exactly 1 people.",
	)
	inv := invent(t, ont, "person", 4, 23)
	marry := ont.LookupVerb(token.Tokenize("marry"))
	require.NotNil(t, marry)

	for _, a := range inv.Individuals {
		for _, b := range inv.Individuals {
			assert.Equal(t, inv.Holds(marry, a, b), inv.Holds(marry, b, a),
				"marriage must be symmetric")
		}
	}
}

func TestGeneralizationAndExclusion(t *testing.T) {
	ont := load(t,
		"a person is a kind of thing.",
		"people must love at least 1 people.",
		"people can like many people.",
		"people can hate many people.",
		"love implies like.",
		"love and hate are mutually exclusive.",
	)
	inv := invent(t, ont, "person", 3, 29)

	love := ont.LookupVerb(token.Tokenize("love"))
	like := ont.LookupVerb(token.Tokenize("like"))
	hate := ont.LookupVerb(token.Tokenize("hate"))

	loves := 0
	for _, a := range inv.Individuals {
		for _, b := range inv.Individuals {
			if inv.Holds(love, a, b) {
				loves++
				assert.True(t, inv.Holds(like, a, b), "love implies like")
				assert.False(t, inv.Holds(hate, a, b), "love excludes hate")
			}
		}
	}
	assert.Greater(t, loves, 0)
}

func TestContradictionDetected(t *testing.T) {
	ont := load(t,
		"a person is a kind of thing.",
		"employee and employer are kinds of person.",
		"an employee must work for at least 5 employer.",
	)
	root := ont.LookupNoun(token.Tokenize("employee"))
	require.NotNil(t, root)
	g := generator.New(ont, root, nil, 2, generator.Options{Retries: 2, Timeout: 5 * time.Second, Seed: 1})
	_, err := g.Generate(context.Background())
	var contradiction *generator.ContradictionError
	require.ErrorAs(t, err, &contradiction)
}

func TestIntervalPropertySampled(t *testing.T) {
	ont := load(t,
		"a cat is a kind of thing.",
		"cats have weight between 5 and 20.",
	)
	inv := invent(t, ont, "cat", 3, 31)
	cat := kindNamed(t, ont, "cat")
	require.Len(t, cat.Properties, 1)
	prop := cat.Properties[0]

	for _, ind := range inv.Individuals {
		pv, ok := inv.PropertyValueOf(ind, prop)
		require.True(t, ok, "weight must be bound for %s", ind.NameTokens)
		assert.True(t, pv.IsNum)
		assert.GreaterOrEqual(t, pv.Num, 5.0)
		assert.LessOrEqual(t, pv.Num, 20.0)
	}
}

func TestDescriptionDefaultTemplate(t *testing.T) {
	ont := load(t,
		"a cat is a kind of thing.",
		"cats are furry.",
	)
	inv := invent(t, ont, "cat", 1, 37)
	desc := inv.Description(inv.Individuals[0])
	assert.Contains(t, desc, "the cat is a")
	assert.Contains(t, desc, "furry")
	assert.Contains(t, desc, "cat")
}

func TestDescriptionSuppression(t *testing.T) {
	ont := load(t,
		"a cat is a kind of thing.",
		"do not print cats.",
	)
	inv := invent(t, ont, "cat", 1, 41)
	assert.Empty(t, inv.Description(inv.Individuals[0]))
}

func TestPermanentIndividualsIncluded(t *testing.T) {
	ont := load(t,
		"a cat is a kind of thing.",
		"cats are furry.",
		"fluffy is a cat.",
	)
	inv := invent(t, ont, "cat", 1, 43)

	var fluffy *ontology.Individual
	for _, ind := range inv.Individuals {
		if ind.NameTokens.String() == "fluffy" {
			fluffy = ind
		}
	}
	require.NotNil(t, fluffy, "permanent individual joins the invention")
	furry := ont.LookupAdjective(token.Tokenize("furry"))
	assert.True(t, inv.AdjectiveTrue(fluffy, furry))
}

func TestRelationshipsDedupeSymmetric(t *testing.T) {
	ont := load(t,
		"a person is a kind of thing.",
		"people can marry each other.",
		"people cannot marry themselves.",
		"people must marry exactly 1 people.",
	)
	inv := invent(t, ont, "person", 2, 47)
	marry := ont.LookupVerb(token.Tokenize("marry"))

	count := 0
	for _, rel := range inv.Relationships() {
		if rel.Verb == marry {
			count++
			assert.LessOrEqual(t, rel.Subject.ID, rel.Object.ID)
		}
	}
	assert.Equal(t, 1, count, "one marriage, reported once")
}
