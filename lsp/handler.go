// Package lsp hosts the completion provider behind the Language Server
// Protocol, over stdio or WebSocket.
package lsp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"go.uber.org/zap"

	"github.com/teranos/qualify/am"
	"github.com/teranos/qualify/completion"
	"github.com/teranos/qualify/errors"
	"github.com/teranos/qualify/internal/util"
	"github.com/teranos/qualify/logger"
	"github.com/teranos/qualify/version"
)

// DefaultRequestTimeout bounds a single completion or resolve request.
const DefaultRequestTimeout = 5 * time.Second

// Options configure the language server.
type Options struct {
	// TriggerOnLetters advertises ASCII letters as trigger characters so the
	// word-start rule can run on clients that only ask on trigger characters.
	TriggerOnLetters bool
	MaxDocuments     int
	AllowedOrigins   []string
	RequestTimeout   time.Duration
}

// OptionsFromConfig maps the [completion] and [server] sections.
func OptionsFromConfig(cfg *am.Config) Options {
	return Options{
		TriggerOnLetters: cfg.Completion.TriggerOnLetters,
		MaxDocuments:     cfg.Server.MaxDocuments,
		AllowedOrigins:   cfg.Server.AllowedOrigins,
	}
}

// itemData travels in CompletionItem.data from completion to resolve.
type itemData struct {
	URI     string                  `json:"uri"`
	Version int32                   `json:"version"`
	Item    *completion.PendingItem `json:"item"`
}

var errNoData = errors.New("completion item carries no data")

// Handler serves one client connection.
type Handler struct {
	ctx      context.Context
	provider *completion.Provider
	docs     *DocumentStore
	opts     Options
	logger   *zap.SugaredLogger
}

// NewHandler creates a handler with its own document store. ctx bounds every
// request the handler serves.
func NewHandler(ctx context.Context, provider *completion.Provider, opts Options) (*Handler, error) {
	if opts.MaxDocuments <= 0 {
		opts.MaxDocuments = am.DefaultMaxDocuments
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}
	docs, err := NewDocumentStore(opts.MaxDocuments)
	if err != nil {
		return nil, err
	}
	return &Handler{
		ctx:      ctx,
		provider: provider,
		docs:     docs,
		opts:     opts,
		logger:   logger.ComponentLogger("lsp.handler"),
	}, nil
}

// Documents exposes the handler's document store.
func (h *Handler) Documents() *DocumentStore { return h.docs }

// Protocol returns the glsp handler table.
func (h *Handler) Protocol() *protocol.Handler {
	return &protocol.Handler{
		Initialize:             h.Initialize,
		Initialized:            h.Initialized,
		Shutdown:               h.Shutdown,
		SetTrace:               h.SetTrace,
		TextDocumentDidOpen:    h.TextDocumentDidOpen,
		TextDocumentDidChange:  h.TextDocumentDidChange,
		TextDocumentDidClose:   h.TextDocumentDidClose,
		TextDocumentCompletion: h.TextDocumentCompletion,
		CompletionItemResolve:  h.CompletionItemResolve,
	}
}

// Initialize handles LSP initialize request
func (h *Handler) Initialize(_ *glsp.Context, params *protocol.InitializeParams) (any, error) {
	h.logger.Infow("LSP client initializing", "client", params.ClientInfo)
	if h.provider.Rules().Exclusive {
		// LSP has no way to silence other providers for a list.
		h.logger.Debugw("Exclusive list rule is not expressible over LSP")
	}

	syncKind := protocol.TextDocumentSyncKindFull
	capabilities := protocol.ServerCapabilities{
		CompletionProvider: &protocol.CompletionOptions{
			TriggerCharacters: h.triggerCharacters(),
			ResolveProvider:   util.Ptr(true),
		},
		TextDocumentSync: &protocol.TextDocumentSyncOptions{
			OpenClose: util.Ptr(true),
			Change:    &syncKind,
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    version.Name,
			Version: util.Ptr(version.Get().ServerVersion()),
		},
	}, nil
}

// Initialized is called after client receives InitializeResult
func (h *Handler) Initialized(_ *glsp.Context, _ *protocol.InitializedParams) error {
	h.logger.Infow("LSP client initialized")
	return nil
}

// Shutdown handles LSP shutdown request
func (h *Handler) Shutdown(_ *glsp.Context) error {
	h.logger.Infow("LSP client shutting down", logger.FieldCount, h.docs.Len())
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

// SetTrace handles $/setTrace
func (h *Handler) SetTrace(_ *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

// TextDocumentDidOpen handles document open notifications
func (h *Handler) TextDocumentDidOpen(_ *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	doc := params.TextDocument
	snap := h.docs.Open(string(doc.URI), int32(doc.Version), doc.Text)
	h.logger.Debugw("Document opened",
		logger.FieldURI, snap.URI,
		logger.FieldVersion, snap.Version,
		logger.FieldSize, len(snap.Content),
	)
	return nil
}

// TextDocumentDidChange handles document change notifications
func (h *Handler) TextDocumentDidChange(_ *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := string(params.TextDocument.URI)
	snap, err := h.docs.Change(uri, int32(params.TextDocument.Version), params.ContentChanges)
	if err != nil {
		h.logger.Warnw("Document change rejected", logger.FieldURI, uri, logger.FieldError, err)
		return err
	}
	h.logger.Debugw("Document changed",
		logger.FieldURI, uri,
		logger.FieldVersion, snap.Version,
		logger.FieldCount, len(params.ContentChanges),
	)
	return nil
}

// TextDocumentDidClose handles document close notifications
func (h *Handler) TextDocumentDidClose(_ *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := string(params.TextDocument.URI)
	h.docs.Close(uri)
	h.logger.Debugw("Document closed", logger.FieldURI, uri)
	return nil
}

// TextDocumentCompletion offers the catalog at the caret.
func (h *Handler) TextDocumentCompletion(_ *glsp.Context, params *protocol.CompletionParams) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Errorw("Panic in completion handler", "panic", r, logger.FieldURI, params.TextDocument.URI)
			result = emptyList()
			err = nil
		}
	}()

	uri := string(params.TextDocument.URI)
	snap, ok := h.docs.Get(uri)
	if !ok {
		h.logger.Debugw("Completion for unknown document", logger.FieldURI, uri)
		return emptyList(), nil
	}

	caret := OffsetAt(snap.Content, params.Position)
	ev := triggerEvent(params.Context, caret)
	if !h.provider.ShouldTrigger(snap.Content, ev) {
		return emptyList(), nil
	}

	ctx, cancel := context.WithTimeout(h.ctx, h.opts.RequestTimeout)
	defer cancel()

	list, err := h.provider.Provide(ctx, snap, ev)
	if err != nil {
		if errors.IsStalePosition(err) {
			h.logger.Debugw("Completion position outside document", logger.FieldURI, uri, logger.FieldError, err)
			return emptyList(), nil
		}
		h.logger.Errorw("Completion error", logger.FieldURI, uri, logger.FieldError, err)
		return nil, err
	}

	items := h.completionItems(snap, list)
	h.logger.Infow("Completion offered",
		logger.FieldURI, uri,
		logger.FieldOffset, caret,
		logger.FieldCount, len(items),
	)
	return &protocol.CompletionList{Items: items}, nil
}

// CompletionItemResolve is the commit callback: it swaps the verbatim edit
// for the resolved one. Items from other providers, or recorded against an
// older document version, come back untouched.
func (h *Handler) CompletionItemResolve(_ *glsp.Context, params *protocol.CompletionItem) (result *protocol.CompletionItem, err error) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Errorw("Panic in resolve handler", "panic", r, "label", params.Label)
			result = params
			err = nil
		}
	}()

	data, err := decodeItemData(params.Data)
	if err != nil {
		if errors.Is(err, errNoData) {
			return params, nil
		}
		h.logger.Errorw("Malformed completion item", "label", params.Label, logger.FieldError, err)
		return nil, err
	}
	if data.Item.ProviderName != h.provider.Name() {
		return params, nil
	}

	snap, ok := h.docs.Get(data.URI)
	if !ok || snap.Version != data.Version {
		h.logger.Debugw("Completion item is stale",
			logger.FieldURI, data.URI,
			logger.FieldVersion, data.Version,
			"open", ok,
		)
		return params, nil
	}

	ctx, cancel := context.WithTimeout(h.ctx, h.opts.RequestTimeout)
	defer cancel()

	edit, err := h.provider.Resolve(ctx, snap, *data.Item)
	if err != nil {
		if errors.IsStalePosition(err) {
			return params, nil
		}
		return nil, err
	}

	params.TextEdit = protocol.TextEdit{
		Range:   RangeOf(snap.Content, edit.Start, edit.End()),
		NewText: edit.NewText,
	}
	h.logger.Infow("Completion committed",
		logger.FieldURI, data.URI,
		logger.FieldCandidate, data.Item.NewText,
		logger.FieldReduced, edit.NewText,
	)
	return params, nil
}

func (h *Handler) completionItems(snap Snapshot, list completion.List) []protocol.CompletionItem {
	kind := protocol.CompletionItemKindClass
	preselectFirst := list.Rules.Selection == completion.SelectionHard

	items := make([]protocol.CompletionItem, 0, len(list.Items))
	for i, item := range list.Items {
		pending := item.Pending
		edit := pending.Edit()

		ci := protocol.CompletionItem{
			Label:  item.DisplayText,
			Kind:   &kind,
			Detail: util.Ptr(item.InlineDescription),
			Documentation: protocol.MarkupContent{
				Kind:  protocol.MarkupKindPlainText,
				Value: item.FullDescription,
			},
			SortText: util.Ptr(fmt.Sprintf("%04d", i)),
			TextEdit: protocol.TextEdit{
				Range:   RangeOf(snap.Content, edit.Start, edit.End()),
				NewText: edit.NewText,
			},
			Data: itemData{URI: snap.URI, Version: snap.Version, Item: &pending},
		}
		if item.Priority == completion.MatchPriorityPreselect || (preselectFirst && i == 0) {
			ci.Preselect = util.Ptr(true)
		}
		items = append(items, ci)
	}
	return items
}

func (h *Handler) triggerCharacters() []string {
	var chars []string
	for _, c := range h.provider.Policy().Characters() {
		chars = append(chars, string(c))
	}
	if h.opts.TriggerOnLetters {
		for c := 'a'; c <= 'z'; c++ {
			chars = append(chars, string(c), string(unicode.ToUpper(c)))
		}
	}
	return chars
}

// triggerEvent maps the LSP completion context. Clients that send no
// context asked explicitly.
func triggerEvent(ctx *protocol.CompletionContext, caret int) completion.TriggerEvent {
	ev := completion.TriggerEvent{Kind: completion.TriggerInvoke, Caret: caret}
	if ctx == nil {
		return ev
	}
	switch ctx.TriggerKind {
	case protocol.CompletionTriggerKindTriggerCharacter:
		ev.Kind = completion.TriggerInsertion
		if ctx.TriggerCharacter != nil && *ctx.TriggerCharacter != "" {
			ev.Character, _ = utf8.DecodeRuneInString(*ctx.TriggerCharacter)
		}
	case protocol.CompletionTriggerKindTriggerForIncompleteCompletions:
		ev.Kind = completion.TriggerOther
	}
	return ev
}

// decodeItemData recovers itemData from the client's echo of
// CompletionItem.data, which arrives as generic JSON.
func decodeItemData(raw any) (itemData, error) {
	if raw == nil {
		return itemData{}, errNoData
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return itemData{}, errors.Mark(errors.Wrap(err, "encode completion data"), errors.ErrMalformedItem)
	}

	var data itemData
	if err := json.Unmarshal(b, &data); err != nil {
		if errors.IsMalformedItem(err) {
			return itemData{}, err
		}
		return itemData{}, errors.Mark(errors.Wrap(err, "decode completion data"), errors.ErrMalformedItem)
	}
	if data.Item == nil {
		return itemData{}, errors.NewMalformedItemError("completion data has no item")
	}
	if data.URI == "" {
		return itemData{}, errors.NewMalformedItemError("completion data has no uri")
	}
	return data, nil
}

func emptyList() *protocol.CompletionList {
	return &protocol.CompletionList{Items: []protocol.CompletionItem{}}
}
