package am

import (
	"github.com/spf13/viper"
)

// DefaultCatalogEntries are the candidates offered when no catalog is configured.
func DefaultCatalogEntries() []CatalogEntry {
	return []CatalogEntry{
		{Text: "System.IO.Directory"},
		{Text: "System.IO.File"},
		{Text: "System.IO.Path"},
	}
}

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("completion.provider_name", DefaultProviderName)
	v.SetDefault("completion.trigger_characters", []string{"<"})
	v.SetDefault("completion.trigger_on_letters", true)
	v.SetDefault("completion.selection", SelectionSoft)
	v.SetDefault("completion.filter", FilterReplace)
	v.SetDefault("completion.exclusive", true)

	entries := make([]map[string]interface{}, 0, 3)
	for _, e := range DefaultCatalogEntries() {
		entries = append(entries, map[string]interface{}{"text": e.Text})
	}
	v.SetDefault("catalog.entries", entries)

	// Simplification is off unless asked for
	v.SetDefault("simplify.enabled", false)
	v.SetDefault("simplify.language", DefaultLanguage)
	v.SetDefault("simplify.use_aliases", true)

	v.SetDefault("server.max_documents", DefaultMaxDocuments)
	v.SetDefault("server.websocket_addr", "")
	v.SetDefault("server.allowed_origins", []string{"http://localhost", "https://localhost", "http://127.0.0.1"})
	v.SetDefault("server.log_theme", "everforest")
}

// Defaults returns the default configuration without reading any file or environment.
func Defaults() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := LoadWithViper(v)
	if err != nil {
		// Defaults are static; failing to decode them is a programming error.
		panic(err)
	}
	return cfg
}
