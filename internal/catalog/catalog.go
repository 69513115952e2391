// Package catalog holds the immutable play repertoire a billing run prices
// against. Entries are loaded once at startup and never mutated, so a single
// Catalog is safe to share across concurrent statement generations.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/noah-isme/theater-billing/internal/billing"
)

// ErrUnknownPlay is returned when a performance references a play identifier
// absent from the catalog.
var ErrUnknownPlay = errors.New("catalog: unknown play id")

// Play describes a single play in the repertoire.
type Play struct {
	Name  string        `json:"name"`
	Genre billing.Genre `json:"type"`
}

// Entry pairs a play with its identifier for listings.
type Entry struct {
	ID    string        `json:"id"`
	Name  string        `json:"name"`
	Genre billing.Genre `json:"type"`
}

// Catalog maps play identifiers to play metadata. The zero value is an empty
// catalog.
type Catalog struct {
	plays map[string]Play
}

// New builds a catalog from the provided mapping. The map is copied so later
// mutation by the caller cannot leak into the catalog.
func New(plays map[string]Play) *Catalog {
	copied := make(map[string]Play, len(plays))
	for id, play := range plays {
		copied[id] = play
	}
	return &Catalog{plays: copied}
}

// Lookup resolves a play identifier. A missing identifier is a defect in the
// caller-supplied data, reported as ErrUnknownPlay.
func (c *Catalog) Lookup(id string) (Play, error) {
	if c == nil {
		return Play{}, fmt.Errorf("%w: %q", ErrUnknownPlay, id)
	}
	play, ok := c.plays[id]
	if !ok {
		return Play{}, fmt.Errorf("%w: %q", ErrUnknownPlay, id)
	}
	return play, nil
}

// Len returns the number of plays in the catalog.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.plays)
}

// Plays lists the repertoire sorted by identifier.
func (c *Catalog) Plays() []Entry {
	if c == nil {
		return nil
	}
	entries := make([]Entry, 0, len(c.plays))
	for id, play := range c.plays {
		entries = append(entries, Entry{ID: id, Name: play.Name, Genre: play.Genre})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries
}

// ReadPlays decodes the repertoire from its JSON document, a mapping from
// play identifier to play metadata.
func ReadPlays(r io.Reader) (*Catalog, error) {
	var raw map[string]Play
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode plays: %w", err)
	}
	for id, play := range raw {
		if strings.TrimSpace(id) == "" {
			return nil, errors.New("decode plays: empty play id")
		}
		if strings.TrimSpace(play.Name) == "" {
			return nil, fmt.Errorf("decode plays: play %q has no name", id)
		}
	}
	return New(raw), nil
}

// LoadFile reads the repertoire from a JSON file on disk.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open plays file: %w", err)
	}
	defer f.Close()
	return ReadPlays(f)
}
