package lsp

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"go.uber.org/zap"

	"github.com/teranos/qualify/errors"
	"github.com/teranos/qualify/logger"
)

// Snapshot is one version of an open document.
type Snapshot struct {
	URI     string
	Version int32
	Content string
}

// Text implements completion.Document.
func (s Snapshot) Text(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.Content, nil
}

// DocumentStore keeps the most recently used open documents. When full,
// opening another document evicts the least recently used one.
type DocumentStore struct {
	mu     sync.Mutex // serializes read-modify-write of incremental changes
	cache  *lru.Cache[string, Snapshot]
	logger *zap.SugaredLogger
}

// NewDocumentStore creates a store holding at most size documents.
func NewDocumentStore(size int) (*DocumentStore, error) {
	s := &DocumentStore{logger: logger.ComponentLogger("lsp.documents")}
	cache, err := lru.NewWithEvict(size, func(uri string, _ Snapshot) {
		s.logger.Debugw("Document released", logger.FieldURI, uri)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "document store of size %d", size)
	}
	s.cache = cache
	return s, nil
}

// Open records a newly opened document, replacing any previous snapshot.
func (s *DocumentStore) Open(uri string, version int32, text string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{URI: uri, Version: version, Content: text}
	s.cache.Add(uri, snap)
	return snap
}

// Change applies content changes in order. Whole-document changes replace
// the text; ranged changes splice it.
func (s *DocumentStore) Change(uri string, version int32, changes []any) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, ok := s.cache.Get(uri)
	if !ok {
		snap = Snapshot{URI: uri}
	}

	text := snap.Content
	for i, change := range changes {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			text = c.Text
		case protocol.TextDocumentContentChangeEvent:
			if c.Range == nil {
				text = c.Text
				continue
			}
			start := OffsetAt(text, c.Range.Start)
			end := OffsetAt(text, c.Range.End)
			if end < start {
				return Snapshot{}, errors.NewInvalidRequestError("change %d of %s: range end before start", i, uri)
			}
			text = text[:start] + c.Text + text[end:]
		default:
			return Snapshot{}, errors.NewInvalidRequestError("change %d of %s: unsupported change %T", i, uri, change)
		}
	}

	snap = Snapshot{URI: uri, Version: version, Content: text}
	s.cache.Add(uri, snap)
	return snap, nil
}

// Get returns the current snapshot of uri.
func (s *DocumentStore) Get(uri string) (Snapshot, bool) {
	return s.cache.Get(uri)
}

// Close forgets uri.
func (s *DocumentStore) Close(uri string) {
	s.cache.Remove(uri)
}

// Len returns the number of documents held.
func (s *DocumentStore) Len() int {
	return s.cache.Len()
}
