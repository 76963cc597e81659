package completion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShouldTrigger(t *testing.T) {
	policy := DefaultTriggerPolicy()

	tests := []struct {
		name string
		text string
		ev   TriggerEvent
		want bool
	}{
		{"invoke always", "", TriggerEvent{Kind: TriggerInvoke}, true},
		{"invoke mid word", "Dir", TriggerEvent{Kind: TriggerInvoke, Caret: 2}, true},
		{"invoke and commit if unique", "abc", TriggerEvent{Kind: TriggerInvokeAndCommitIfUnique, Caret: 3}, true},
		{"trigger character", "List<", TriggerEvent{Kind: TriggerInsertion, Character: '<', Caret: 5}, true},
		{"trigger character at start", "<", TriggerEvent{Kind: TriggerInsertion, Character: '<', Caret: 1}, true},
		{"typing inside a word", "Dir", TriggerEvent{Kind: TriggerInsertion, Character: 'r', Caret: 3}, false},
		{"empty document", "", TriggerEvent{Kind: TriggerInsertion, Character: 'D', Caret: 0}, false},
		{"caret one", "D", TriggerEvent{Kind: TriggerInsertion, Character: 'D', Caret: 1}, false},
		{"word start after dot", "x.D", TriggerEvent{Kind: TriggerInsertion, Character: 'D', Caret: 3}, true},
		{"word start after space", "var D", TriggerEvent{Kind: TriggerInsertion, Character: 'D', Caret: 5}, true},
		{"second letter after dot", "x.Di", TriggerEvent{Kind: TriggerInsertion, Character: 'i', Caret: 4}, false},
		{"digit", "x.1", TriggerEvent{Kind: TriggerInsertion, Character: '1', Caret: 3}, false},
		{"other punctuation", "x.", TriggerEvent{Kind: TriggerInsertion, Character: '.', Caret: 2}, false},
		{"caret past end", "x.", TriggerEvent{Kind: TriggerInsertion, Character: 'D', Caret: 9}, false},
		{"non-ascii word start", "x.é", TriggerEvent{Kind: TriggerInsertion, Character: 'é', Caret: len("x.é")}, true},
		{"non-ascii inside word", "éé", TriggerEvent{Kind: TriggerInsertion, Character: 'é', Caret: len("éé")}, false},
		{"single wide letter", "é", TriggerEvent{Kind: TriggerInsertion, Character: 'é', Caret: len("é")}, false},
		{"deletion", "x.D", TriggerEvent{Kind: TriggerDeletion, Caret: 3}, false},
		{"other", "x.D", TriggerEvent{Kind: TriggerOther, Character: '<', Caret: 3}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.ShouldTrigger(tt.text, tt.ev))
		})
	}
}

func TestShouldTrigger_NeverInsideWord(t *testing.T) {
	policy := DefaultTriggerPolicy()
	text := "System.IO.Directory"

	for p := 2; p <= len(text); p++ {
		prev, typed := rune(text[p-2]), rune(text[p-1])
		if !isASCIILetter(prev) || !isASCIILetter(typed) {
			continue
		}
		assert.False(t, policy.ShouldTrigger(text[:p], TriggerEvent{Kind: TriggerInsertion, Character: typed, Caret: p}), "caret %d", p)
	}
}

func TestShouldTrigger_TriggerCharacterIgnoresContext(t *testing.T) {
	policy := NewTriggerPolicy('<', '@')
	for _, text := range []string{"", "a", "ab<", "x.y@"} {
		for _, c := range []rune{'<', '@'} {
			assert.True(t, policy.ShouldTrigger(text, TriggerEvent{Kind: TriggerInsertion, Character: c, Caret: len(text)}))
		}
	}
}

func TestTriggerPolicyCharacters(t *testing.T) {
	policy := NewTriggerPolicy('<', '@', '<')
	assert.Equal(t, []rune{'<', '@'}, policy.Characters())
	assert.True(t, policy.IsTriggerCharacter('@'))
	assert.False(t, policy.IsTriggerCharacter('.'))

	// Callers cannot mutate the policy through the returned slice.
	policy.Characters()[0] = 'x'
	assert.Equal(t, []rune{'<', '@'}, policy.Characters())
}

func TestParseTriggerKind(t *testing.T) {
	for k, name := range triggerKindNames {
		got, err := ParseTriggerKind(name)
		require.NoError(t, err)
		assert.Equal(t, k, got)
		assert.Equal(t, name, k.String())
	}

	got, err := ParseTriggerKind(" Insertion ")
	require.NoError(t, err)
	assert.Equal(t, TriggerInsertion, got)

	_, err = ParseTriggerKind("typing")
	assert.Error(t, err)
	assert.Equal(t, "unknown", TriggerKind(42).String())
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
