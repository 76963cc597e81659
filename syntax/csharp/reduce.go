package csharp

import (
	"context"
	"sort"
	"strings"

	"github.com/teranos/qualify/errors"
	"github.com/teranos/qualify/syntax"
)

type replacement struct {
	span syntax.Span
	text string
}

// Reduce shortens every span marked with syntax.SimplifyMarker using the
// namespaces, using directives and aliases in scope at that span.
func (l *Language) Reduce(ctx context.Context, doc *syntax.AnnotatedDocument, opts syntax.Options) (*syntax.AnnotatedDocument, error) {
	targets := doc.Find(syntax.SimplifyMarker)
	if len(targets) == 0 {
		return nil, syntax.ErrNoReduction
	}

	parsed, err := l.Parse(ctx, doc.Text())
	if err != nil {
		return nil, err
	}
	defer parsed.Close()
	idx := indexScopes(parsed.(*tree))

	var edits []replacement
	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		original := target.Slice(doc.Text())
		reduced, ok := reduceName(original, idx.at(target), opts)
		if !ok {
			l.logger.Debugw("Name kept", "name", original)
			continue
		}
		l.logger.Debugw("Name reduced", "name", original, "reduced", reduced)
		edits = append(edits, replacement{span: target, text: reduced})
	}

	if len(edits) == 0 {
		return nil, syntax.ErrNoReduction
	}

	// Apply back to front so earlier spans keep their offsets.
	sort.Slice(edits, func(i, j int) bool { return edits[i].span.Start > edits[j].span.Start })
	out := doc
	for _, e := range edits {
		out, err = out.Replace(e.span, e.text)
		if err != nil {
			return nil, errors.Wrapf(err, "rewrite %s", e.span)
		}
	}
	return out, nil
}

// reduceName returns the shortest spelling of name valid under v, and
// whether it is shorter than name.
//
//   - an enclosing namespace N turns N.X.Y into X.Y
//   - an imported namespace N turns N.T into T when T is a single identifier
//   - an alias A = T turns T into A and T.X into A.X
func reduceName(name string, v visible, opts syntax.Options) (string, bool) {
	full := stripGlobal(normalize(name))
	if !isDottedName(full) {
		return "", false
	}

	best := ""
	consider := func(candidate string) {
		if candidate != "" && (best == "" || len(candidate) < len(best)) {
			best = candidate
		}
	}

	for _, ns := range v.enclosing {
		if rest, ok := strings.CutPrefix(full, ns+"."); ok {
			consider(rest)
		}
	}

	for _, ns := range v.imports {
		if rest, ok := strings.CutPrefix(full, ns+"."); ok && !strings.Contains(rest, ".") {
			consider(rest)
		}
	}

	if opts.UseAliases {
		aliases := make([]string, 0, len(v.aliases))
		for a := range v.aliases {
			aliases = append(aliases, a)
		}
		sort.Strings(aliases)
		for _, alias := range aliases {
			target := v.aliases[alias]
			switch {
			case full == target:
				consider(alias)
			case strings.HasPrefix(full, target+"."):
				consider(alias + full[len(target):])
			}
		}
	}

	if best == "" || len(best) >= len(name) {
		return "", false
	}
	return best, true
}
