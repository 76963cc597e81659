package syntax

import (
	"context"

	"github.com/teranos/qualify/errors"
)

// ErrNoReduction is returned by a Simplifier when no marked span could be shortened.
var ErrNoReduction = errors.New("no reduction possible")

// Node is one node of a parse tree.
type Node interface {
	Span() Span
	Kind() string
	Text() string
}

// Tree is a parsed document. Close releases parser resources.
type Tree interface {
	Source() string
	// NodeAt returns the innermost well-formed node whose span is exactly span.
	NodeAt(span Span) (Node, bool)
	Close()
}

// Parser builds trees from text.
type Parser interface {
	Parse(ctx context.Context, text string) (Tree, error)
}

// Options tune a Simplifier.
type Options struct {
	// UseAliases lets the engine substitute `using A = N.T;` style aliases.
	UseAliases bool
}

// Simplifier reduces every span carrying SimplifyMarker to the shortest
// form that still names the same thing at that position. The returned
// document keeps all other annotations, remapped to the new text.
type Simplifier interface {
	Reduce(ctx context.Context, doc *AnnotatedDocument, opts Options) (*AnnotatedDocument, error)
}

// Language bundles the syntax model and simplification engine of one language.
type Language interface {
	Name() string
	Parser
	Simplifier
}
