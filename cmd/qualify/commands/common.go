// Package commands implements the qualify CLI.
package commands

import (
	"context"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/teranos/qualify/am"
	"github.com/teranos/qualify/completion"
	"github.com/teranos/qualify/errors"
	"github.com/teranos/qualify/syntax"
	"github.com/teranos/qualify/syntax/csharp"
)

// LoadConfig reads --config when given, otherwise the merged configuration.
func LoadConfig(cmd *cobra.Command) (*am.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		return am.LoadFromFile(path)
	}
	return am.Load()
}

// languageFor returns the syntax model named by simplify.language, or nil.
func languageFor(cfg *am.Config) syntax.Language {
	switch cfg.Simplify.Language {
	case "csharp":
		return csharp.New()
	default:
		return nil
	}
}

// loadProvider builds the provider described by the configuration.
func loadProvider(cmd *cobra.Command) (*completion.Provider, *am.Config, error) {
	cfg, err := LoadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	p, err := completion.NewProviderFromConfig(cfg, languageFor(cfg))
	if err != nil {
		return nil, nil, err
	}
	return p, cfg, nil
}

// readSource reads FILE, or stdin when FILE is "-".
func readSource(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", errors.Wrapf(err, "read %s", path)
	}
	return string(data), nil
}

// offerAt runs the trigger policy and, if it opens, the session at offset.
func offerAt(ctx context.Context, p *completion.Provider, text string, ev completion.TriggerEvent) (completion.List, bool, error) {
	if ev.Caret < 0 || ev.Caret > len(text) {
		return completion.List{}, false, errors.WithHint(
			errors.NewStalePositionError("offset %d outside document of %d bytes", ev.Caret, len(text)),
			"offsets are byte offsets from the start of the file")
	}
	if !p.ShouldTrigger(text, ev) {
		return completion.List{}, false, nil
	}
	list, err := p.Provide(ctx, completion.StaticText(text), ev)
	if err != nil {
		return completion.List{}, false, err
	}
	return list, true, nil
}

// pickItem selects an item by zero-based index or by inserted text.
func pickItem(list completion.List, candidate string) (completion.Item, error) {
	if i, err := strconv.Atoi(candidate); err == nil {
		if i < 0 || i >= len(list.Items) {
			return completion.Item{}, errors.NewNotFoundError("candidate index %d out of range (%d offered)", i, len(list.Items))
		}
		return list.Items[i], nil
	}
	for _, item := range list.Items {
		if item.Pending.NewText == candidate || item.DisplayText == candidate {
			return item, nil
		}
	}
	return completion.Item{}, errors.WithHint(
		errors.NewNotFoundError("candidate %q not offered", candidate),
		"run `qualify complete` to list the candidates")
}
