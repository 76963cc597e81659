package completion

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/teranos/qualify/errors"
)

// TriggerKind classifies why the host is asking for completions.
type TriggerKind int

const (
	// TriggerInvoke is an explicit user request (Ctrl+Space).
	TriggerInvoke TriggerKind = iota
	// TriggerInvokeAndCommitIfUnique is an explicit request that commits a lone result.
	TriggerInvokeAndCommitIfUnique
	// TriggerInsertion follows a typed character.
	TriggerInsertion
	// TriggerDeletion follows a backspace or delete.
	TriggerDeletion
	// TriggerOther covers everything else, such as re-filtering an open list.
	TriggerOther
)

var triggerKindNames = map[TriggerKind]string{
	TriggerInvoke:                  "invoke",
	TriggerInvokeAndCommitIfUnique: "invoke-and-commit-if-unique",
	TriggerInsertion:               "insertion",
	TriggerDeletion:                "deletion",
	TriggerOther:                   "other",
}

func (k TriggerKind) String() string {
	if name, ok := triggerKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseTriggerKind accepts the names printed by TriggerKind.String.
func ParseTriggerKind(s string) (TriggerKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range triggerKindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, errors.NewInvalidRequestError("unknown trigger kind %q", s)
}

// TriggerEvent is what the host observed. Character is 0 when no character
// is involved. Caret is a byte offset into the document text.
type TriggerEvent struct {
	Kind      TriggerKind
	Character rune
	Caret     int
}

// DefaultTriggerCharacters opens completion unconditionally when typed.
var DefaultTriggerCharacters = []rune{'<'}

// TriggerPolicy decides whether a trigger event should open completion.
// It holds no mutable state and is safe for concurrent use.
type TriggerPolicy struct {
	characters []rune
	set        map[rune]bool
}

// NewTriggerPolicy creates a policy with the given trigger characters.
// Duplicates are dropped, order is kept.
func NewTriggerPolicy(characters ...rune) *TriggerPolicy {
	p := &TriggerPolicy{set: make(map[rune]bool, len(characters))}
	for _, c := range characters {
		if !p.set[c] {
			p.set[c] = true
			p.characters = append(p.characters, c)
		}
	}
	return p
}

// DefaultTriggerPolicy triggers on '<'.
func DefaultTriggerPolicy() *TriggerPolicy {
	return NewTriggerPolicy(DefaultTriggerCharacters...)
}

// Characters returns the trigger characters in configuration order.
func (p *TriggerPolicy) Characters() []rune {
	return append([]rune(nil), p.characters...)
}

// IsTriggerCharacter reports whether c always triggers when typed.
func (p *TriggerPolicy) IsTriggerCharacter(c rune) bool {
	return p.set[c]
}

// ShouldTrigger applies, in order:
//
//  1. Invoke and InvokeAndCommitIfUnique always trigger.
//  2. Insertion of a trigger character triggers.
//  3. Insertion of a letter triggers when the character two positions
//     before the caret exists and is not a letter: the typed letter starts a
//     new word.
//  4. Nothing else triggers.
//
// The character just before the caret is the typed one and is not inspected.
func (p *TriggerPolicy) ShouldTrigger(text string, ev TriggerEvent) bool {
	switch ev.Kind {
	case TriggerInvoke, TriggerInvokeAndCommitIfUnique:
		return true
	case TriggerInsertion:
	default:
		return false
	}

	if p.IsTriggerCharacter(ev.Character) {
		return true
	}
	if !unicode.IsLetter(ev.Character) {
		return false
	}

	// caret < 2 never triggers; a caret past the end is stale.
	if ev.Caret < 2 || ev.Caret > len(text) {
		return false
	}
	_, typed := utf8.DecodeLastRuneInString(text[:ev.Caret])
	before, size := utf8.DecodeLastRuneInString(text[:ev.Caret-typed])
	if size == 0 {
		return false
	}
	return !unicode.IsLetter(before)
}
