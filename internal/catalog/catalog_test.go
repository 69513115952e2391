package catalog_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/theater-billing/internal/billing"
	"github.com/noah-isme/theater-billing/internal/catalog"
)

func TestLookup(t *testing.T) {
	c := catalog.New(map[string]catalog.Play{
		"hamlet":  {Name: "Hamlet", Genre: billing.GenreTragedy},
		"as-like": {Name: "As You Like It", Genre: billing.GenreComedy},
	})

	play, err := c.Lookup("hamlet")
	require.NoError(t, err)
	require.Equal(t, "Hamlet", play.Name)
	require.Equal(t, billing.GenreTragedy, play.Genre)

	_, err = c.Lookup("king-lear")
	require.ErrorIs(t, err, catalog.ErrUnknownPlay)
	require.Contains(t, err.Error(), "king-lear")
}

func TestNewCopiesInput(t *testing.T) {
	source := map[string]catalog.Play{
		"hamlet": {Name: "Hamlet", Genre: billing.GenreTragedy},
	}
	c := catalog.New(source)
	source["hamlet"] = catalog.Play{Name: "Not Hamlet", Genre: billing.GenreComedy}
	delete(source, "hamlet")

	play, err := c.Lookup("hamlet")
	require.NoError(t, err)
	require.Equal(t, "Hamlet", play.Name)
}

func TestPlaysSorted(t *testing.T) {
	c := catalog.New(map[string]catalog.Play{
		"othello": {Name: "Othello", Genre: billing.GenreTragedy},
		"as-like": {Name: "As You Like It", Genre: billing.GenreComedy},
		"hamlet":  {Name: "Hamlet", Genre: billing.GenreTragedy},
	})
	entries := c.Plays()
	require.Len(t, entries, 3)
	require.Equal(t, []string{"as-like", "hamlet", "othello"}, []string{entries[0].ID, entries[1].ID, entries[2].ID})
}

func TestReadPlays(t *testing.T) {
	doc := `{
		"hamlet": {"name": "Hamlet", "type": "tragedy"},
		"as-like": {"name": "As You Like It", "type": "comedy"}
	}`
	c, err := catalog.ReadPlays(strings.NewReader(doc))
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())

	play, err := c.Lookup("as-like")
	require.NoError(t, err)
	require.Equal(t, billing.GenreComedy, play.Genre)
}

func TestReadPlaysRejectsBadDocuments(t *testing.T) {
	_, err := catalog.ReadPlays(strings.NewReader(`[]`))
	require.Error(t, err)

	_, err = catalog.ReadPlays(strings.NewReader(`{"hamlet": {"type": "tragedy"}}`))
	require.Error(t, err)

	var unknown *catalog.Catalog
	_, err = unknown.Lookup("hamlet")
	require.True(t, errors.Is(err, catalog.ErrUnknownPlay))
}
