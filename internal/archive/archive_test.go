package archive_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imaginarium/internal/archive"
	"imaginarium/internal/generator"
	"imaginarium/internal/ontology"
	"imaginarium/internal/parser"
	"imaginarium/internal/token"
)

func makeInvention(t *testing.T) *generator.Invention {
	t.Helper()
	ont := ontology.New()
	p := parser.New(ont)
	for _, line := range []string{
		"a cat is a kind of thing.",
		"cats are fluffy.",
	} {
		require.NoError(t, p.ParseAndExecute(line))
	}
	root := ont.LookupNoun(token.Tokenize("cat"))
	g := generator.New(ont, root, nil, 2, generator.Options{
		Retries: 3, Timeout: 10 * time.Second, Seed: 21,
	})
	inv, err := g.Generate(context.Background())
	require.NoError(t, err)
	require.NotNil(t, inv)
	return inv
}

func TestSaveListShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventions.db")
	a, err := archive.Open(path)
	require.NoError(t, err)
	defer a.Close()

	inv := makeInvention(t)
	require.NoError(t, a.Save(inv, "cat"))

	records, err := a.List()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, inv.ID.String(), records[0].ID)
	assert.Equal(t, "cat", records[0].Root)
	assert.Equal(t, 2, records[0].Count)

	record, individuals, err := a.Show(inv.ID.String())
	require.NoError(t, err)
	assert.Equal(t, inv.ID.String(), record.ID)
	require.Len(t, individuals, 2)
	assert.NotEmpty(t, individuals[0].Name)
	assert.NotEmpty(t, individuals[0].Description)
}

func TestShowUnknownID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventions.db")
	a, err := archive.Open(path)
	require.NoError(t, err)
	defer a.Close()

	_, _, err = a.Show("no-such-id")
	assert.Error(t, err)
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventions.db")
	a, err := archive.Open(path)
	require.NoError(t, err)
	require.NoError(t, a.Save(makeInvention(t), "cat"))
	require.NoError(t, a.Close())

	b, err := archive.Open(path)
	require.NoError(t, err)
	defer b.Close()
	records, err := b.List()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
