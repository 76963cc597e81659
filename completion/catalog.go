package completion

import (
	"github.com/teranos/qualify/am"
	"github.com/teranos/qualify/errors"
)

// Entry is one insertable candidate.
type Entry struct {
	Text        string `json:"text"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// Catalog is the fixed, ordered list of candidates. It is built once and
// never modified, so one Catalog is shared by every session.
type Catalog struct {
	entries []Entry
	byText  map[string]int
}

// NewCatalog validates entries and fills empty labels and descriptions
// with the entry text.
func NewCatalog(entries ...Entry) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, errors.NewInvalidRequestError("catalog has no entries")
	}

	c := &Catalog{
		entries: make([]Entry, 0, len(entries)),
		byText:  make(map[string]int, len(entries)),
	}
	for i, e := range entries {
		if e.Text == "" {
			return nil, errors.NewInvalidRequestError("catalog entry %d has no text", i)
		}
		if _, dup := c.byText[e.Text]; dup {
			return nil, errors.NewInvalidRequestError("catalog entry %d duplicates %q", i, e.Text)
		}
		if e.Label == "" {
			e.Label = e.Text
		}
		if e.Description == "" {
			e.Description = e.Text
		}
		c.byText[e.Text] = len(c.entries)
		c.entries = append(c.entries, e)
	}
	return c, nil
}

// DefaultCatalog holds System.IO.Directory, System.IO.File and System.IO.Path.
func DefaultCatalog() *Catalog {
	c, err := CatalogFromConfig(am.CatalogConfig{Entries: am.DefaultCatalogEntries()})
	if err != nil {
		panic(err)
	}
	return c
}

// CatalogFromConfig builds the catalog from the [catalog] configuration section.
func CatalogFromConfig(cfg am.CatalogConfig) (*Catalog, error) {
	entries := make([]Entry, 0, len(cfg.Entries))
	for _, e := range cfg.Entries {
		entries = append(entries, Entry{Text: e.Text, Label: e.Label, Description: e.Description})
	}
	c, err := NewCatalog(entries...)
	if err != nil {
		return nil, errors.Wrap(err, "catalog.entries")
	}
	return c, nil
}

// Entries returns a copy of the entries in catalog order.
func (c *Catalog) Entries() []Entry {
	return append([]Entry(nil), c.entries...)
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Lookup finds an entry by its insertion text.
func (c *Catalog) Lookup(text string) (Entry, bool) {
	i, ok := c.byText[text]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}
