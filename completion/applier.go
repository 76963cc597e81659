package completion

import (
	"context"

	"go.uber.org/zap"

	"github.com/teranos/qualify/errors"
	"github.com/teranos/qualify/logger"
	"github.com/teranos/qualify/syntax"
)

// Document is the host's view of the current buffer.
type Document interface {
	// Text returns the current contents. It may block and must honor ctx.
	Text(ctx context.Context) (string, error)
}

// StaticText is a Document over a fixed string.
type StaticText string

// Text returns the string.
func (s StaticText) Text(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return string(s), nil
}

// EditApplier turns a committed PendingItem into the edit the host applies.
type EditApplier struct {
	protocol *SimplifyProtocol
	logger   *zap.SugaredLogger
}

// NewEditApplier creates an applier. protocol may be nil, in which case
// every edit is verbatim.
func NewEditApplier(protocol *SimplifyProtocol) *EditApplier {
	return &EditApplier{
		protocol: protocol,
		logger:   logger.ComponentLogger("completion.applier"),
	}
}

// ResolveEdit computes the edit for item.
//
// Without simplification the recorded edit is returned as is and the
// document is not read. With simplification the reduced text replaces the
// recorded range; when the name cannot be reduced the verbatim edit is
// returned instead.
//
// Only ErrMalformedItem, ErrStalePosition and context errors are returned.
// In every error case the host must not apply anything.
func (a *EditApplier) ResolveEdit(ctx context.Context, doc Document, item PendingItem, simplify bool) (TextEdit, error) {
	if err := item.Validate(); err != nil {
		a.logger.Errorw("Malformed completion item", logger.FieldError, err, logger.FieldProvider, item.ProviderName)
		return TextEdit{}, err
	}

	edit := item.Edit()
	if !simplify || a.protocol == nil {
		return edit, nil
	}

	text, err := doc.Text(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return TextEdit{}, ctxErr
		}
		return TextEdit{}, errors.Wrap(err, "read document")
	}
	if err := edit.Validate(len(text)); err != nil {
		a.logger.Debugw("Edit abandoned", logger.FieldError, err)
		return TextEdit{}, err
	}

	reduced, err := a.protocol.Simplify(ctx, text, edit)
	switch {
	case err == nil:
		edit.NewText = reduced
		return edit, nil
	case ctx.Err() != nil:
		return TextEdit{}, ctx.Err()
	case errors.IsUnresolvableSpan(err), errors.Is(err, syntax.ErrNoReduction):
		a.logger.Debugw("Inserting verbatim", logger.FieldCandidate, edit.NewText, logger.FieldError, err)
	default:
		a.logger.Warnw("Simplification failed, inserting verbatim", logger.FieldCandidate, edit.NewText, logger.FieldError, err)
	}
	return edit, nil
}
