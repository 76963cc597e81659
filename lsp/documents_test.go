package lsp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/teranos/qualify/errors"
)

func TestDocumentStore_OpenGetClose(t *testing.T) {
	s, err := NewDocumentStore(4)
	require.NoError(t, err)

	s.Open("file:///a.cs", 1, "class A {}")
	snap, ok := s.Get("file:///a.cs")
	require.True(t, ok)
	assert.Equal(t, Snapshot{URI: "file:///a.cs", Version: 1, Content: "class A {}"}, snap)

	s.Close("file:///a.cs")
	_, ok = s.Get("file:///a.cs")
	assert.False(t, ok)
	assert.Zero(t, s.Len())
}

func TestDocumentStore_EvictsLeastRecentlyUsed(t *testing.T) {
	s, err := NewDocumentStore(2)
	require.NoError(t, err)

	s.Open("a", 1, "a")
	s.Open("b", 1, "b")
	_, _ = s.Get("a") // a is now more recent than b
	s.Open("c", 1, "c")

	assert.Equal(t, 2, s.Len())
	_, ok := s.Get("b")
	assert.False(t, ok, "b should be evicted")
	_, ok = s.Get("a")
	assert.True(t, ok)
}

func TestDocumentStore_Change(t *testing.T) {
	s, err := NewDocumentStore(4)
	require.NoError(t, err)
	s.Open("u", 1, "hello world")

	snap, err := s.Change("u", 2, []any{
		protocol.TextDocumentContentChangeEvent{
			Range: &protocol.Range{Start: pos(0, 6), End: pos(0, 11)},
			Text:  "there",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "hello there", snap.Content)
	assert.Equal(t, int32(2), snap.Version)

	snap, err = s.Change("u", 3, []any{
		protocol.TextDocumentContentChangeEventWhole{Text: "line one\n"},
		protocol.TextDocumentContentChangeEvent{
			Range: &protocol.Range{Start: pos(1, 0), End: pos(1, 0)},
			Text:  "line two",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two", snap.Content)

	got, _ := s.Get("u")
	assert.Equal(t, snap, got)
}

func TestDocumentStore_ChangeRejected(t *testing.T) {
	s, err := NewDocumentStore(4)
	require.NoError(t, err)
	s.Open("u", 1, "abc")

	_, err = s.Change("u", 2, []any{"not a change"})
	assert.True(t, errors.IsInvalidRequestError(err))

	_, err = s.Change("u", 2, []any{
		protocol.TextDocumentContentChangeEvent{Range: &protocol.Range{Start: pos(0, 2), End: pos(0, 1)}},
	})
	assert.True(t, errors.IsInvalidRequestError(err))

	// A rejected change leaves the snapshot alone.
	snap, _ := s.Get("u")
	assert.Equal(t, Snapshot{URI: "u", Version: 1, Content: "abc"}, snap)
}

func TestDocumentStore_InvalidSize(t *testing.T) {
	_, err := NewDocumentStore(0)
	assert.Error(t, err)
}

func TestSnapshotText(t *testing.T) {
	snap := Snapshot{Content: "abc"}
	text, err := snap.Text(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", text)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = snap.Text(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
