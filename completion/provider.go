// Package completion offers a fixed catalog of fully-qualified names at the
// caret and, on commit, optionally shortens the inserted name to what the
// surrounding scopes already make visible.
//
// A host drives it in three steps:
//
//	if p.ShouldTrigger(text, ev) {
//	    list, err := p.Provide(ctx, doc, ev)    // display list.Items
//	    ...
//	    edit, err := p.Resolve(ctx, doc, chosen.Pending) // apply edit
//	}
package completion

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/qualify/am"
	"github.com/teranos/qualify/errors"
	"github.com/teranos/qualify/logger"
	"github.com/teranos/qualify/syntax"
)

// Options configure a Provider. Zero values fall back to the defaults.
type Options struct {
	Name    string
	Catalog *Catalog
	Policy  *TriggerPolicy
	Rules   *Rules
	// Simplifier runs on commit when SimplifyOnCommit is set.
	Simplifier       *SimplifyProtocol
	SimplifyOnCommit bool
}

// Provider is the completion provider. It is safe for concurrent use.
type Provider struct {
	name     string
	catalog  *Catalog
	policy   *TriggerPolicy
	rules    Rules
	applier  *EditApplier
	simplify bool
	logger   *zap.SugaredLogger
}

// NewProvider creates a provider.
func NewProvider(opts Options) *Provider {
	p := &Provider{
		name:     opts.Name,
		catalog:  opts.Catalog,
		policy:   opts.Policy,
		rules:    DefaultRules(),
		applier:  NewEditApplier(opts.Simplifier),
		simplify: opts.SimplifyOnCommit && opts.Simplifier != nil,
		logger:   logger.ComponentLogger("completion.provider"),
	}
	if p.name == "" {
		p.name = am.DefaultProviderName
	}
	if p.catalog == nil {
		p.catalog = DefaultCatalog()
	}
	if p.policy == nil {
		p.policy = DefaultTriggerPolicy()
	}
	if opts.Rules != nil {
		p.rules = *opts.Rules
	}
	return p
}

// NewProviderFromConfig wires a provider from configuration. lang may be
// nil when simplification is disabled.
func NewProviderFromConfig(cfg *am.Config, lang syntax.Language) (*Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	catalog, err := CatalogFromConfig(cfg.Catalog)
	if err != nil {
		return nil, err
	}

	var chars []rune
	for _, s := range cfg.Completion.TriggerCharacters {
		chars = append(chars, []rune(s)[0])
	}

	rules := RulesFromConfig(cfg.Completion)

	var protocol *SimplifyProtocol
	if lang != nil {
		protocol = NewSimplifyProtocol(lang, lang, syntax.Options{UseAliases: cfg.Simplify.UseAliases})
	} else if cfg.Simplify.Enabled {
		return nil, errors.WithHint(
			errors.Newf("simplify.enabled is set but no %s syntax model is available", cfg.Simplify.Language),
			"set simplify.enabled = false")
	}

	return NewProvider(Options{
		Name:             cfg.Completion.ProviderName,
		Catalog:          catalog,
		Policy:           NewTriggerPolicy(chars...),
		Rules:            &rules,
		Simplifier:       protocol,
		SimplifyOnCommit: cfg.Simplify.Enabled,
	}), nil
}

// RulesFromConfig maps the [completion] section to list rules.
func RulesFromConfig(cfg am.CompletionConfig) Rules {
	r := Rules{Selection: SelectionSoft, Filter: FilterReplace, Exclusive: cfg.Exclusive}
	if cfg.Selection == am.SelectionHard {
		r.Selection = SelectionHard
	}
	if cfg.Filter == am.FilterExtend {
		r.Filter = FilterExtend
	}
	return r
}

// Name is stamped into every PendingItem the provider creates.
func (p *Provider) Name() string { return p.name }

// Catalog returns the candidates offered.
func (p *Provider) Catalog() *Catalog { return p.catalog }

// Policy returns the trigger policy.
func (p *Provider) Policy() *TriggerPolicy { return p.policy }

// Rules returns the list rules.
func (p *Provider) Rules() Rules { return p.rules }

// SimplifyOnCommit reports whether Resolve shortens names by default.
func (p *Provider) SimplifyOnCommit() bool { return p.simplify }

// CanSimplify reports whether a simplification engine is wired.
func (p *Provider) CanSimplify() bool { return p.applier.protocol != nil }

// ShouldTrigger reports whether ev should open the list.
func (p *Provider) ShouldTrigger(text string, ev TriggerEvent) bool {
	ok := p.policy.ShouldTrigger(text, ev)
	p.logger.Debugw("Trigger decision",
		logger.FieldTrigger, ev.Kind.String(),
		logger.FieldCharacter, string(ev.Character),
		logger.FieldOffset, ev.Caret,
		"open", ok,
	)
	return ok
}

// Provide builds the list for ev. Only Invoke, InvokeAndCommitIfUnique and
// Insertion produce items; other kinds yield an empty list. A caret outside
// the document is ErrStalePosition.
func (p *Provider) Provide(ctx context.Context, doc Document, ev TriggerEvent) (List, error) {
	switch ev.Kind {
	case TriggerInvoke, TriggerInvokeAndCommitIfUnique, TriggerInsertion:
	default:
		return List{Rules: p.rules}, nil
	}

	text, err := doc.Text(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return List{}, ctxErr
		}
		return List{}, errors.Wrap(err, "read document")
	}
	if ev.Caret < 0 || ev.Caret > len(text) {
		return List{}, errors.NewStalePositionError("caret %d outside document of %d bytes", ev.Caret, len(text))
	}

	span := ResolveReplacementSpan(text, ev.Caret)
	list := NewSession(p.catalog, span).List(p.name, p.rules)

	p.logger.Debugw("Completion offered",
		logger.FieldOffset, ev.Caret,
		logger.FieldSpan, span.String(),
		logger.FieldCount, len(list.Items),
	)
	return list, nil
}

// Resolve computes the edit for a committed item using the configured
// simplification setting.
func (p *Provider) Resolve(ctx context.Context, doc Document, item PendingItem) (TextEdit, error) {
	return p.ResolveWith(ctx, doc, item, p.simplify)
}

// ResolveWith computes the edit for a committed item, overriding the
// simplification setting.
func (p *Provider) ResolveWith(ctx context.Context, doc Document, item PendingItem, simplify bool) (TextEdit, error) {
	start := time.Now()
	edit, err := p.applier.ResolveEdit(ctx, doc, item, simplify)
	if err != nil {
		return TextEdit{}, err
	}

	p.logger.Debugw("Completion resolved",
		logger.FieldCandidate, item.NewText,
		logger.FieldReduced, edit.NewText,
		logger.FieldSimplify, simplify,
		logger.FieldDurationMS, time.Since(start).Milliseconds(),
	)
	return edit, nil
}
