package morph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imaginarium/internal/token"
)

func plural(t *testing.T, s string) string {
	t.Helper()
	out, err := PluralOfNoun(token.Tokenize(s))
	require.NoError(t, err)
	return out.String()
}

func singular(t *testing.T, s string) string {
	t.Helper()
	out, err := SingularOfNoun(token.Tokenize(s))
	require.NoError(t, err)
	return out.String()
}

func TestPluralOfNoun(t *testing.T) {
	assert.Equal(t, "cats", plural(t, "cat"))
	assert.Equal(t, "boxes", plural(t, "box"))
	assert.Equal(t, "churches", plural(t, "church"))
	assert.Equal(t, "cities", plural(t, "city"))
	assert.Equal(t, "days", plural(t, "day"))
	assert.Equal(t, "people", plural(t, "person"))
	assert.Equal(t, "wolves", plural(t, "wolf"))
	assert.Equal(t, "knives", plural(t, "knife"))
	assert.Equal(t, "sheep", plural(t, "sheep"))
	assert.Equal(t, "soccer balls", plural(t, "soccer ball"))
}

func TestSingularOfNoun(t *testing.T) {
	assert.Equal(t, "cat", singular(t, "cats"))
	assert.Equal(t, "box", singular(t, "boxes"))
	assert.Equal(t, "city", singular(t, "cities"))
	assert.Equal(t, "person", singular(t, "people"))
	assert.Equal(t, "wolf", singular(t, "wolves"))
	assert.Equal(t, "love", singular(t, "loves"))
}

func TestNounRoundTrip(t *testing.T) {
	for _, w := range []string{"cat", "box", "church", "city", "day", "wolf", "person", "employee", "employer", "face", "nose", "midwife"} {
		assert.Equal(t, w, singular(t, plural(t, w)), "round trip of %q", w)
	}
}

func TestNounAppearsPlural(t *testing.T) {
	assert.True(t, NounAppearsPlural(token.Tokenize("cats")))
	assert.True(t, NounAppearsPlural(token.Tokenize("people")))
	assert.False(t, NounAppearsPlural(token.Tokenize("cat")))
	assert.False(t, NounAppearsPlural(token.Tokenize("person")))
	assert.False(t, NounAppearsPlural(token.Tokenize("glass")))
	assert.False(t, NounAppearsPlural(token.Tokenize("cactus")))
}

func TestVerbNumber(t *testing.T) {
	sing, err := SingularOfVerb(token.Tokenize("work for"))
	require.NoError(t, err)
	assert.Equal(t, "works for", sing.String())

	plur, err := PluralOfVerb(token.Tokenize("works for"))
	require.NoError(t, err)
	assert.Equal(t, "work for", plur.String())

	sing, err = SingularOfVerb(token.Tokenize("are married to"))
	require.NoError(t, err)
	assert.Equal(t, "is married to", sing.String())

	plur, err = PluralOfVerb(token.Tokenize("is married to"))
	require.NoError(t, err)
	assert.Equal(t, "are married to", plur.String())

	sing, err = SingularOfVerb(token.Tokenize("have"))
	require.NoError(t, err)
	assert.Equal(t, "has", sing.String())
}

func gerundStrings(s string) []string {
	var out []string
	for _, g := range GerundsOfVerb(token.Tokenize(s)) {
		out = append(out, g.String())
	}
	return out
}

func TestGerundsOfVerb(t *testing.T) {
	assert.Contains(t, gerundStrings("love"), "loving")
	assert.Contains(t, gerundStrings("hop"), "hopping")
	assert.Contains(t, gerundStrings("work for"), "working for")
	assert.Contains(t, gerundStrings("see"), "seeing")
	assert.Equal(t, []string{"being married to"}, gerundStrings("be married to"))
}

func TestBaseFormCandidates(t *testing.T) {
	cands := BaseFormCandidates(token.Tokenize("getting married to"))
	require.NotEmpty(t, cands)
	assert.Equal(t, "get married to", cands[0].String())

	cands = BaseFormCandidates(token.Tokenize("loving"))
	require.NotEmpty(t, cands)
	assert.Equal(t, "love", cands[0].String())

	cands = BaseFormCandidates(token.Tokenize("calling"))
	require.NotEmpty(t, cands)
	assert.Equal(t, "call", cands[0].String())

	cands = BaseFormCandidates(token.Tokenize("hopping"))
	require.NotEmpty(t, cands)
	assert.Equal(t, "hop", cands[0].String())

	assert.Empty(t, BaseFormCandidates(token.Tokenize("cat")))
}

func TestPassiveParticiple(t *testing.T) {
	pp := func(s string) string {
		out, err := PassiveParticiple(token.Tokenize(s))
		require.NoError(t, err)
		return out.String()
	}
	assert.Equal(t, "loved", pp("love"))
	assert.Equal(t, "worked for", pp("work for"))
	assert.Equal(t, "taken", pp("take"))
	assert.Equal(t, "carried", pp("carry"))
	assert.Equal(t, "hopped", pp("hop"))
	assert.Equal(t, "married", pp("marry"))
}

func TestBaseFromParticiple(t *testing.T) {
	cands := BaseFromParticiple(token.Tokenize("worked for"))
	require.NotEmpty(t, cands)
	assert.Equal(t, "work for", cands[0].String())

	cands = BaseFromParticiple(token.Tokenize("taken"))
	require.NotEmpty(t, cands)
	assert.Equal(t, "take", cands[0].String())

	cands = BaseFromParticiple(token.Tokenize("married"))
	require.NotEmpty(t, cands)
	assert.Equal(t, "marry", cands[0].String())
}

func TestClosedClasses(t *testing.T) {
	assert.True(t, IsCopula("is"))
	assert.True(t, IsCopula("being"))
	assert.False(t, IsCopula("cat"))
	assert.True(t, IsPreposition("for"))

	n, ok := DigitWord("three")
	require.True(t, ok)
	assert.Equal(t, 3, n)
	_, ok = DigitWord("eleven")
	assert.False(t, ok)
}

func TestMorphologyError(t *testing.T) {
	_, err := SingularOfNoun(token.Tokens{"fish"})
	// "fish" is in the irregular table, so it round-trips.
	require.NoError(t, err)

	_, err = SingularOfNoun(token.Tokens{"sheepdog"})
	var merr *Error
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, "sheepdog", merr.Token)
}
