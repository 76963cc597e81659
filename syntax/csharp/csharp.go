// Package csharp is the C# syntax model and name simplifier, built on the
// tree-sitter C# grammar.
package csharp

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"
	tscsharp "github.com/smacker/go-tree-sitter/csharp"
	"go.uber.org/zap"

	"github.com/teranos/qualify/errors"
	"github.com/teranos/qualify/logger"
	"github.com/teranos/qualify/syntax"
)

// Name is the language identifier used in configuration.
const Name = "csharp"

// Language implements syntax.Language for C#.
type Language struct {
	logger *zap.SugaredLogger
}

var _ syntax.Language = (*Language)(nil)

// New creates the C# language.
func New() *Language {
	return &Language{logger: logger.ComponentLogger("syntax.csharp")}
}

// Name returns "csharp".
func (l *Language) Name() string {
	return Name
}

// Parse parses text. A fresh parser is used per call so Parse is safe for
// concurrent use.
func (l *Language) Parse(ctx context.Context, text string) (syntax.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(tscsharp.GetLanguage())

	src := []byte(text)
	t, err := parser.ParseCtx(ctx, nil, src)
	if ctxErr := ctx.Err(); ctxErr != nil {
		if t != nil {
			t.Close()
		}
		return nil, ctxErr
	}
	if err != nil {
		return nil, errors.Wrap(err, "parse c# source")
	}
	if t == nil {
		return nil, errors.New("parse c# source: no tree produced")
	}

	return &tree{src: src, text: text, t: t}, nil
}

// tree adapts a tree-sitter tree to syntax.Tree.
type tree struct {
	src  []byte
	text string
	t    *sitter.Tree
}

func (t *tree) Source() string {
	return t.text
}

func (t *tree) Close() {
	t.t.Close()
}

func (t *tree) root() *sitter.Node {
	return t.t.RootNode()
}

// NodeAt descends from the root through the named children containing span
// and keeps the deepest one whose range is exactly span. Error and missing
// nodes never match.
func (t *tree) NodeAt(span syntax.Span) (syntax.Node, bool) {
	if span.IsEmpty() || !span.Within(len(t.src)) {
		return nil, false
	}

	var found *sitter.Node
	for n := t.root(); n != nil; {
		if spanOf(n) == span && n.IsNamed() && !broken(n) {
			found = n
		}

		var next *sitter.Node
		for i := 0; i < int(n.NamedChildCount()); i++ {
			c := n.NamedChild(i)
			if spanOf(c).Contains(span) {
				next = c
				break
			}
		}
		n = next
	}

	if found == nil {
		return nil, false
	}
	return &node{n: found, src: t.src}, true
}

// node adapts a tree-sitter node to syntax.Node.
type node struct {
	n   *sitter.Node
	src []byte
}

func (n *node) Span() syntax.Span { return spanOf(n.n) }
func (n *node) Kind() string      { return n.n.Type() }
func (n *node) Text() string      { return n.n.Content(n.src) }

func spanOf(n *sitter.Node) syntax.Span {
	return syntax.Span{Start: int(n.StartByte()), End: int(n.EndByte())}
}

func broken(n *sitter.Node) bool {
	return n.Type() == "ERROR" || n.IsMissing()
}
