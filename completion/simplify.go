package completion

import (
	"context"

	"go.uber.org/zap"

	"github.com/teranos/qualify/errors"
	"github.com/teranos/qualify/logger"
	"github.com/teranos/qualify/syntax"
)

// SimplifyRequest names the inserted fully-qualified text inside the scratch document.
type SimplifyRequest struct {
	Target         syntax.Span
	FullyQualified string
}

// SimplifyProtocol inserts a fully-qualified name into a scratch copy of the
// document, tags the syntax node covering it and lets the engine rewrite the
// scratch document. The tag is how the shortened text is found afterwards.
type SimplifyProtocol struct {
	parser syntax.Parser
	engine syntax.Simplifier
	opts   syntax.Options
	logger *zap.SugaredLogger
}

// NewSimplifyProtocol creates a protocol over a parser and engine, usually
// the same syntax.Language.
func NewSimplifyProtocol(parser syntax.Parser, engine syntax.Simplifier, opts syntax.Options) *SimplifyProtocol {
	return &SimplifyProtocol{
		parser: parser,
		engine: engine,
		opts:   opts,
		logger: logger.ComponentLogger("completion.simplify"),
	}
}

// Simplify returns the reduced replacement text for edit applied to text.
//
// Errors: ErrStalePosition when edit does not fit text, ErrUnresolvableSpan
// when no node covers the inserted text or the tag is lost,
// syntax.ErrNoReduction when the engine leaves the name alone, and context
// errors on cancellation. The live document is never touched.
func (p *SimplifyProtocol) Simplify(ctx context.Context, text string, edit TextEdit) (string, error) {
	scratch, err := edit.Apply(text)
	if err != nil {
		return "", err
	}
	req := SimplifyRequest{
		Target:         syntax.NewSpan(edit.Start, len(edit.NewText)),
		FullyQualified: edit.NewText,
	}

	doc, track, err := p.annotate(ctx, scratch, req)
	if err != nil {
		return "", err
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}
	reduced, err := p.engine.Reduce(ctx, doc, p.opts)
	if err != nil {
		if errors.Is(err, syntax.ErrNoReduction) {
			return "", err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", errors.Wrap(err, "simplification engine")
	}

	spans := reduced.Find(track)
	if len(spans) != 1 {
		return "", errors.NewUnresolvableSpanError("tracking marker found %d times after simplification", len(spans))
	}
	out := spans[0].Slice(reduced.Text())

	p.logger.Debugw("Simplified",
		logger.FieldCandidate, req.FullyQualified,
		logger.FieldReduced, out,
		logger.FieldSpan, req.Target.String(),
	)
	return out, nil
}

// annotate parses the scratch document and tags the node exactly covering
// the request target.
func (p *SimplifyProtocol) annotate(ctx context.Context, scratch string, req SimplifyRequest) (*syntax.AnnotatedDocument, syntax.Marker, error) {
	tree, err := p.parser.Parse(ctx, scratch)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, syntax.Marker{}, ctxErr
		}
		return nil, syntax.Marker{}, errors.Wrap(err, "parse scratch document")
	}
	defer tree.Close()

	node, ok := tree.NodeAt(req.Target)
	if !ok {
		return nil, syntax.Marker{}, errors.NewUnresolvableSpanError("no syntax node covers %s %q", req.Target, req.FullyQualified)
	}

	track := syntax.NewTrackingMarker()
	doc, err := syntax.NewAnnotatedDocument(scratch).WithAnnotation(node.Span(), track, syntax.SimplifyMarker)
	if err != nil {
		return nil, syntax.Marker{}, errors.Wrap(errors.Mark(err, errors.ErrUnresolvableSpan), "annotate")
	}
	return doc, track, nil
}
