package am

import (
	"unicode/utf8"

	"github.com/teranos/qualify/errors"
)

// SupportedLanguages lists the syntax models simplify.language may name.
var SupportedLanguages = []string{DefaultLanguage}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Completion.ProviderName == "" {
		return errors.New("completion.provider_name cannot be empty")
	}

	for _, ch := range c.Completion.TriggerCharacters {
		if utf8.RuneCountInString(ch) != 1 {
			return errors.Newf("completion.trigger_characters entries must be a single character, got %q", ch)
		}
	}

	switch c.Completion.Selection {
	case SelectionSoft, SelectionHard:
	default:
		return errors.Newf("completion.selection must be %q or %q, got %q", SelectionSoft, SelectionHard, c.Completion.Selection)
	}

	switch c.Completion.Filter {
	case FilterReplace, FilterExtend:
	default:
		return errors.Newf("completion.filter must be %q or %q, got %q", FilterReplace, FilterExtend, c.Completion.Filter)
	}

	if len(c.Catalog.Entries) == 0 {
		return errors.WithHint(
			errors.New("catalog.entries cannot be empty"),
			"remove the [[catalog.entries]] tables to use the defaults")
	}
	seen := make(map[string]bool, len(c.Catalog.Entries))
	for i, e := range c.Catalog.Entries {
		if e.Text == "" {
			return errors.Newf("catalog.entries[%d].text cannot be empty", i)
		}
		if seen[e.Text] {
			return errors.Newf("catalog.entries[%d]: duplicate text %q", i, e.Text)
		}
		seen[e.Text] = true
	}

	if c.Simplify.Enabled && !isSupportedLanguage(c.Simplify.Language) {
		return errors.Newf("simplify.language %q is not supported (supported: %v)", c.Simplify.Language, SupportedLanguages)
	}

	// Zero is not "unbounded": an LRU needs a positive size
	if c.Server.MaxDocuments <= 0 {
		return errors.Newf("server.max_documents must be > 0, got %d", c.Server.MaxDocuments)
	}

	return nil
}

func isSupportedLanguage(lang string) bool {
	for _, l := range SupportedLanguages {
		if l == lang {
			return true
		}
	}
	return false
}
