package completion

import (
	"encoding/json"
	"strconv"

	"github.com/teranos/qualify/errors"
	"github.com/teranos/qualify/syntax"
)

// TextEdit replaces Length bytes at Start with NewText.
type TextEdit struct {
	Start   int    `json:"start"`
	Length  int    `json:"length"`
	NewText string `json:"newText"`
}

// End returns the offset just past the replaced range.
func (e TextEdit) End() int {
	return e.Start + e.Length
}

// Span returns the replaced range.
func (e TextEdit) Span() syntax.Span {
	return syntax.NewSpan(e.Start, e.Length)
}

// Validate checks the edit against a document of docLen bytes.
func (e TextEdit) Validate(docLen int) error {
	if e.Start < 0 || e.Length < 0 || e.End() > docLen {
		return errors.NewStalePositionError("edit %s outside document of %d bytes", e.Span(), docLen)
	}
	return nil
}

// Apply returns text with the edit applied. Nothing is applied when the
// edit does not fit the text.
func (e TextEdit) Apply(text string) (string, error) {
	if err := e.Validate(len(text)); err != nil {
		return "", err
	}
	return text[:e.Start] + e.NewText + text[e.End():], nil
}

// Candidate is one suggestion of a session. Candidates are never mutated.
type Candidate struct {
	DisplayText       string
	InlineDescription string
	FullDescription   string
	Replacement       TextEdit
	IsDefault         bool
}

// PendingItem is the payload a host keeps with a displayed item until the
// user commits it. It holds only values, never references to the document.
type PendingItem struct {
	Start        int    `json:"start"`
	Length       int    `json:"length"`
	NewText      string `json:"newText"`
	Description  string `json:"description"`
	ProviderName string `json:"providerName"`
}

// Edit returns the verbatim edit recorded in the item.
func (p PendingItem) Edit() TextEdit {
	return TextEdit{Start: p.Start, Length: p.Length, NewText: p.NewText}
}

// Validate reports ErrMalformedItem when a property cannot describe an edit.
func (p PendingItem) Validate() error {
	switch {
	case p.Start < 0:
		return errors.NewMalformedItemError("start %d is negative", p.Start)
	case p.Length < 0:
		return errors.NewMalformedItemError("length %d is negative", p.Length)
	case p.NewText == "":
		return errors.NewMalformedItemError("newText is empty")
	case p.ProviderName == "":
		return errors.NewMalformedItemError("providerName is empty")
	}
	return nil
}

// pendingItemWire detects absent properties, which json would otherwise
// decode as zero values.
type pendingItemWire struct {
	Start        *int    `json:"start"`
	Length       *int    `json:"length"`
	NewText      *string `json:"newText"`
	Description  *string `json:"description"`
	ProviderName *string `json:"providerName"`
}

// UnmarshalJSON requires every property to be present.
func (p *PendingItem) UnmarshalJSON(data []byte) error {
	var w pendingItemWire
	if err := json.Unmarshal(data, &w); err != nil {
		return errors.Wrap(errors.Mark(err, errors.ErrMalformedItem), "decode pending item")
	}

	missing := func(name string) error {
		return errors.NewMalformedItemError("missing %s", name)
	}
	switch {
	case w.Start == nil:
		return missing("start")
	case w.Length == nil:
		return missing("length")
	case w.NewText == nil:
		return missing("newText")
	case w.Description == nil:
		return missing("description")
	case w.ProviderName == nil:
		return missing("providerName")
	}

	*p = PendingItem{
		Start:        *w.Start,
		Length:       *w.Length,
		NewText:      *w.NewText,
		Description:  *w.Description,
		ProviderName: *w.ProviderName,
	}
	return nil
}

// Property keys for hosts that keep item data as a string map.
const (
	PropertyStart        = "Start"
	PropertyLength       = "Length"
	PropertyNewText      = "NewText"
	PropertyDescription  = "Description"
	PropertyProviderName = "Provider"
)

// Properties flattens the item into a string map.
func (p PendingItem) Properties() map[string]string {
	return map[string]string{
		PropertyStart:        strconv.Itoa(p.Start),
		PropertyLength:       strconv.Itoa(p.Length),
		PropertyNewText:      p.NewText,
		PropertyDescription:  p.Description,
		PropertyProviderName: p.ProviderName,
	}
}

// PendingItemFromProperties is the inverse of Properties. Missing or
// non-numeric properties are malformed.
func PendingItemFromProperties(props map[string]string) (PendingItem, error) {
	get := func(key string) (string, error) {
		v, ok := props[key]
		if !ok {
			return "", errors.NewMalformedItemError("missing %s", key)
		}
		return v, nil
	}
	getInt := func(key string) (int, error) {
		v, err := get(key)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, errors.NewMalformedItemError("%s %q is not an integer", key, v)
		}
		return n, nil
	}

	var p PendingItem
	var err error
	if p.Start, err = getInt(PropertyStart); err != nil {
		return PendingItem{}, err
	}
	if p.Length, err = getInt(PropertyLength); err != nil {
		return PendingItem{}, err
	}
	if p.NewText, err = get(PropertyNewText); err != nil {
		return PendingItem{}, err
	}
	if p.Description, err = get(PropertyDescription); err != nil {
		return PendingItem{}, err
	}
	if p.ProviderName, err = get(PropertyProviderName); err != nil {
		return PendingItem{}, err
	}
	return p, nil
}

// SelectionBehavior controls whether the host preselects an item hard
// (Enter commits) or soft (only an explicit commit character commits).
type SelectionBehavior int

const (
	SelectionSoft SelectionBehavior = iota
	SelectionHard
)

// FilterPolicy controls how typed characters interact with the list.
// Replace means the list contributes no extra filter or commit characters.
type FilterPolicy int

const (
	FilterReplace FilterPolicy = iota
	FilterExtend
)

// Rules are presentation flags of a completion list.
type Rules struct {
	Selection SelectionBehavior
	Filter    FilterPolicy
	// Exclusive asks the host to hide items from other providers.
	Exclusive bool
}

// DefaultRules are exclusive, soft-selected and filter-replacing.
func DefaultRules() Rules {
	return Rules{Selection: SelectionSoft, Filter: FilterReplace, Exclusive: true}
}

// MatchPriority orders items the host considers equally good matches.
type MatchPriority int

const (
	MatchPriorityDefault MatchPriority = iota
	MatchPriorityPreselect
)

// Item is what the host displays.
type Item struct {
	DisplayText       string        `json:"displayText"`
	InlineDescription string        `json:"inlineDescription"`
	FullDescription   string        `json:"fullDescription"`
	Priority          MatchPriority `json:"priority"`
	Pending           PendingItem   `json:"pending"`
}

// List is the answer to one completion request.
type List struct {
	Items []Item      `json:"items"`
	Span  syntax.Span `json:"span"`
	Rules Rules       `json:"-"`
}
