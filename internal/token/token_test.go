package token

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeLowercasesAndSplitsPunctuation(t *testing.T) {
	got := Tokenize(`A big, Red-ish ball (10) "hello there"`)
	want := Tokens{"a", "big", ",", "red", "-", "ish", "ball", "(", "10", ")", `"`, "hello", "there", `"`}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("tokenize mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeColon(t *testing.T) {
	got := Tokenize("author: Ian")
	assert.Equal(t, Tokens{"author", ":", "ian"}, got)
}

func TestTokensEqual(t *testing.T) {
	assert.True(t, Tokens{"a", "b"}.Equal(Tokens{"a", "b"}))
	assert.False(t, Tokens{"a"}.Equal(Tokens{"a", "b"}))
	assert.False(t, Tokens{"a", "b"}.Equal(Tokens{"a", "c"}))
}

func TestTrieExactLookup(t *testing.T) {
	tr := NewTrie[int]()
	tr.Insert(Tokens{"cat"}, 1)
	tr.Insert(Tokens{"persian", "cat"}, 2)

	v, ok := tr.Lookup(Tokens{"cat"})
	require.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = tr.Lookup(Tokens{"persian"})
	assert.False(t, ok)

	v, ok = tr.Lookup(Tokens{"persian", "cat"})
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestTrieLongestPrefix(t *testing.T) {
	tr := NewTrie[string]()
	tr.Insert(Tokens{"cat"}, "cat")
	tr.Insert(Tokens{"cat", "toy"}, "cat toy")

	input := Tokens{"a", "cat", "toy", "store"}
	m, ok := tr.LongestPrefix(input, 1)
	require.True(t, ok)
	assert.Equal(t, "cat toy", m.Value)
	assert.Equal(t, 2, m.Length)

	m, ok = tr.LongestPrefix(input, 0)
	assert.False(t, ok)
	_ = m
}

func TestTriePluralAnnotation(t *testing.T) {
	tr := NewTrie[string]()
	tr.Insert(Tokens{"cat"}, "cat")
	tr.InsertPlural(Tokens{"cats"}, "cat")

	m, ok := tr.LongestPrefix(Tokens{"cats"}, 0)
	require.True(t, ok)
	assert.True(t, m.Plural)

	m, ok = tr.LongestPrefix(Tokens{"cat"}, 0)
	require.True(t, ok)
	assert.False(t, m.Plural)
}

func TestTrieRemove(t *testing.T) {
	tr := NewTrie[int]()
	tr.Insert(Tokens{"cat"}, 1)
	require.Equal(t, 1, tr.Len())
	tr.Remove(Tokens{"cat"})
	assert.Equal(t, 0, tr.Len())
	_, ok := tr.Lookup(Tokens{"cat"})
	assert.False(t, ok)
}
