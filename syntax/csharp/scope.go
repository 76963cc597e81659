package csharp

import (
	"strings"
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/teranos/qualify/syntax"
)

// Node kinds of the tree-sitter C# grammar
const (
	kindUsing               = "using_directive"
	kindNameEquals          = "name_equals"
	kindNamespace           = "namespace_declaration"
	kindFileScopedNamespace = "file_scoped_namespace_declaration"
)

// usingDirective is `using N;` or `using A = N.T;` with the region it applies to.
type usingDirective struct {
	alias  string // empty for namespace imports
	target string
	scope  syntax.Span
}

// namespaceDecl is a namespace body and its fully-qualified name.
type namespaceDecl struct {
	name  string
	scope syntax.Span
}

// scopeIndex holds every directive and namespace of one parsed document.
type scopeIndex struct {
	usings     []usingDirective
	namespaces []namespaceDecl
}

// visible is what a name at one position can refer to without qualification.
type visible struct {
	imports   []string          // namespaces brought in by using directives
	enclosing []string          // enclosing namespaces and their parents, innermost first
	aliases   map[string]string // alias -> target
}

func indexScopes(t *tree) *scopeIndex {
	idx := &scopeIndex{}
	whole := syntax.Span{Start: 0, End: len(t.src)}
	idx.walk(t.root(), t.src, whole, "")
	return idx
}

// walk records directives and namespaces below n. scope is the region
// covered by the nearest namespace block, prefix its qualified name.
func (idx *scopeIndex) walk(n *sitter.Node, src []byte, scope syntax.Span, prefix string) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		switch c.Type() {
		case kindUsing:
			if u, ok := parseUsing(c, src); ok {
				u.scope = scope
				idx.usings = append(idx.usings, u)
			}

		case kindNamespace:
			name := qualify(prefix, namespaceName(c, src))
			body := spanOf(c)
			idx.namespaces = append(idx.namespaces, namespaceDecl{name: name, scope: body})
			idx.walk(c, src, body, name)

		case kindFileScopedNamespace:
			// Applies from the declaration to the end of the file. Newer
			// grammars nest the following members inside it.
			name := qualify(prefix, namespaceName(c, src))
			rest := syntax.Span{Start: int(c.StartByte()), End: scope.End}
			idx.namespaces = append(idx.namespaces, namespaceDecl{name: name, scope: rest})
			idx.walk(c, src, scope, name)

		default:
			idx.walk(c, src, scope, prefix)
		}
	}
}

// at returns what is visible at target.
func (idx *scopeIndex) at(target syntax.Span) visible {
	v := visible{aliases: map[string]string{}}

	var innermost string
	for _, ns := range idx.namespaces {
		if ns.scope.Contains(target) && len(ns.name) > len(innermost) {
			innermost = ns.name
		}
	}
	for name := innermost; name != ""; name = parent(name) {
		v.enclosing = append(v.enclosing, name)
	}

	for _, u := range idx.usings {
		if !u.scope.Contains(target) {
			continue
		}
		if u.alias != "" {
			v.aliases[u.alias] = u.target
			continue
		}
		v.imports = append(v.imports, u.target)
	}
	return v
}

// parseUsing reads a using directive. Static usings import members rather
// than types and are skipped.
func parseUsing(n *sitter.Node, src []byte) (usingDirective, bool) {
	var named []*sitter.Node
	var alias string
	hasEquals := false

	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		switch {
		case c.Type() == "static":
			return usingDirective{}, false
		case c.Type() == "=":
			hasEquals = true
		case c.Type() == kindNameEquals:
			alias = strings.TrimSuffix(normalize(c.Content(src)), "=")
		case c.IsNamed():
			named = append(named, c)
		}
	}

	if len(named) == 0 {
		return usingDirective{}, false
	}
	if hasEquals && alias == "" && len(named) >= 2 {
		alias = normalize(named[0].Content(src))
	}

	target := stripGlobal(normalize(named[len(named)-1].Content(src)))
	if target == "" || !isDottedName(target) {
		return usingDirective{}, false
	}
	return usingDirective{alias: alias, target: target}, true
}

func namespaceName(n *sitter.Node, src []byte) string {
	if name := n.ChildByFieldName("name"); name != nil {
		return normalize(name.Content(src))
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if t := c.Type(); t == "identifier" || t == "qualified_name" {
			return normalize(c.Content(src))
		}
	}
	return ""
}

func qualify(prefix, name string) string {
	if prefix == "" {
		return name
	}
	if name == "" {
		return prefix
	}
	return prefix + "." + name
}

func parent(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return ""
}

// normalize drops whitespace so `System . IO` reads as `System.IO`.
func normalize(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func stripGlobal(name string) string {
	return strings.TrimPrefix(name, "global::")
}

// isDottedName reports whether s is identifiers joined by dots.
func isDottedName(s string) bool {
	for _, seg := range strings.Split(s, ".") {
		if !isIdentifier(seg) {
			return false
		}
	}
	return true
}

func isIdentifier(s string) bool {
	s = strings.TrimPrefix(s, "@")
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && (unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Pc, r)) {
			continue
		}
		return false
	}
	return true
}
