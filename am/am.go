// Package am loads qualify configuration.
//
// Sources are merged lowest to highest: /etc/qualify/am.toml,
// ~/.qualify/am.toml, the nearest qualify.toml above the working directory,
// then QUALIFY_* environment variables (QUALIFY_SIMPLIFY_ENABLED=true).
package am

// Config represents the qualify configuration
type Config struct {
	Completion CompletionConfig `mapstructure:"completion" toml:"completion"`
	Catalog    CatalogConfig    `mapstructure:"catalog" toml:"catalog"`
	Simplify   SimplifyConfig   `mapstructure:"simplify" toml:"simplify"`
	Server     ServerConfig     `mapstructure:"server" toml:"server"`
}

// CompletionConfig configures the trigger policy and list rules
type CompletionConfig struct {
	ProviderName      string   `mapstructure:"provider_name" toml:"provider_name"`           // stamped into every pending item
	TriggerCharacters []string `mapstructure:"trigger_characters" toml:"trigger_characters"` // single characters, e.g. ["<"]
	TriggerOnLetters  bool     `mapstructure:"trigger_on_letters" toml:"trigger_on_letters"` // advertise letters to LSP clients
	Selection         string   `mapstructure:"selection" toml:"selection"`                   // soft | hard
	Filter            string   `mapstructure:"filter" toml:"filter"`                         // replace | extend
	Exclusive         bool     `mapstructure:"exclusive" toml:"exclusive"`
}

// CatalogConfig holds the insertable candidates, in display order
type CatalogConfig struct {
	Entries []CatalogEntry `mapstructure:"entries" toml:"entries"`
}

// CatalogEntry is one configured candidate. Label and Description default to Text.
type CatalogEntry struct {
	Text        string `mapstructure:"text" toml:"text"`
	Label       string `mapstructure:"label" toml:"label,omitempty"`
	Description string `mapstructure:"description" toml:"description,omitempty"`
}

// SimplifyConfig configures the insert-then-reduce step on commit
type SimplifyConfig struct {
	Enabled    bool   `mapstructure:"enabled" toml:"enabled"`         // off: commit inserts the fully-qualified text
	Language   string `mapstructure:"language" toml:"language"`       // syntax model, currently "csharp"
	UseAliases bool   `mapstructure:"use_aliases" toml:"use_aliases"` // allow `using A = N.T;` aliases as reductions
}

// ServerConfig configures the language server host
type ServerConfig struct {
	MaxDocuments   int      `mapstructure:"max_documents" toml:"max_documents"`     // open documents kept in memory
	WebSocketAddr  string   `mapstructure:"websocket_addr" toml:"websocket_addr"`   // empty = stdio
	AllowedOrigins []string `mapstructure:"allowed_origins" toml:"allowed_origins"` // origin prefixes accepted by the WebSocket endpoint
	LogTheme       string   `mapstructure:"log_theme" toml:"log_theme"`             // everforest | gruvbox
}

// Selection and filter policy values
const (
	SelectionSoft = "soft"
	SelectionHard = "hard"
	FilterReplace = "replace"
	FilterExtend  = "extend"
)

const (
	DefaultProviderName   = "qualify.completion.Provider"
	DefaultMaxDocuments   = 100
	DefaultLanguage       = "csharp"
	DefaultDirPermissions = 0755
	ProjectConfigName     = "qualify.toml"
	UserConfigDir         = ".qualify"
	ConfigFileName        = "am.toml"
)
