package logger

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"
)

// palette is one console color scheme.
type palette struct {
	fg     string
	time   string
	names  []string // rotated per component for visual grouping
	id     string
	number string
	warn   string
	warnBg string
	err    string
	errBg  string
}

var themes = map[string]palette{
	// Everforest Dark: natural forest greens
	"everforest": {
		fg:     "\x1b[38;5;223m",
		time:   "\x1b[38;5;107m",
		names:  []string{"\x1b[38;5;108m", "\x1b[38;5;65m", "\x1b[38;5;208m"},
		id:     "\x1b[38;5;109m",
		number: "\x1b[38;5;108m",
		warn:   "\x1b[38;5;179m",
		warnBg: "\x1b[48;5;58m",
		err:    "\x1b[38;5;167m",
		errBg:  "\x1b[48;5;52m",
	},
	// Gruvbox Dark: warm, muted
	"gruvbox": {
		fg:     "\x1b[38;5;223m",
		time:   "\x1b[38;5;108m",
		names:  []string{"\x1b[38;5;208m", "\x1b[38;5;214m"},
		id:     "\x1b[38;5;109m",
		number: "\x1b[38;5;175m",
		warn:   "\x1b[38;5;214m",
		warnBg: "\x1b[48;5;58m",
		err:    "\x1b[38;5;167m",
		errBg:  "\x1b[48;5;88m",
	},
}

// Current active theme
var currentTheme = "everforest"

// SetTheme configures the color scheme for log output
func SetTheme(theme string) {
	if _, ok := themes[theme]; ok {
		currentTheme = theme
	}
}

func colors() palette {
	return themes[currentTheme]
}

func colorComponent(name string) string {
	hash := 0
	for _, c := range name {
		hash += int(c)
	}
	names := colors().names
	return names[hash%len(names)]
}

// minimalEncoder implements a calm, compact console encoder with theme support
// Format: "13:04:35  c.provider  Completion offered  Program.cs @42 3 items"
type minimalEncoder struct {
	zapcore.Encoder // base encoder accumulates With() context fields
	context         []zapcore.Field
}

func newMinimalEncoder() *minimalEncoder {
	return &minimalEncoder{
		Encoder: zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
	}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	ctx := make([]zapcore.Field, len(enc.context))
	copy(ctx, enc.context)
	return &minimalEncoder{
		Encoder: enc.Encoder.Clone(),
		context: ctx,
	}
}

// zap hands With() fields to the encoder through the Add* methods. The
// common kinds are kept so EncodeEntry can render them next to entry fields.
func (enc *minimalEncoder) AddString(key, value string) {
	enc.context = append(enc.context, zap.String(key, value))
	enc.Encoder.AddString(key, value)
}

func (enc *minimalEncoder) AddInt64(key string, value int64) {
	enc.context = append(enc.context, zap.Int64(key, value))
	enc.Encoder.AddInt64(key, value)
}

func (enc *minimalEncoder) AddBool(key string, value bool) {
	enc.context = append(enc.context, zap.Bool(key, value))
	enc.Encoder.AddBool(key, value)
}

func (enc *minimalEncoder) AddReflected(key string, value interface{}) error {
	enc.context = append(enc.context, zap.Any(key, value))
	return enc.Encoder.AddReflected(key, value)
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	c := colors()
	final := buffer.NewPool().Get()

	final.AppendString(c.time)
	final.AppendString(ent.Time.Format("15:04:05"))
	final.AppendString(colorReset)

	// Level: only show for WARN/ERROR/DEBUG
	if ent.Level != zapcore.InfoLevel {
		final.AppendString("  ")
		final.AppendString(levelColorString(ent.Level))
	}

	if ent.LoggerName != "" {
		final.AppendString("  ")
		final.AppendString(colorComponent(ent.LoggerName))
		final.AppendString(abbreviateName(ent.LoggerName))
		final.AppendString(colorReset)
	}

	final.AppendString("  ")
	final.AppendString(c.fg)
	final.AppendString(ent.Message)
	final.AppendString(colorReset)

	all := append(append([]zapcore.Field{}, enc.context...), fields...)
	if rendered := renderFields(all); rendered != "" {
		final.AppendString("  ")
		final.AppendString(rendered)
	}

	final.AppendString("\n")
	return final, nil
}

// levelColorString returns bold + colored + background for WARN/ERROR
func levelColorString(level zapcore.Level) string {
	c := colors()
	switch level {
	case zapcore.DebugLevel:
		return c.id + "DEBUG" + colorReset
	case zapcore.WarnLevel:
		return colorBold + c.warnBg + c.warn + "WARN" + colorReset
	default:
		return colorBold + c.errBg + c.err + level.CapitalString() + colorReset
	}
}

// abbreviateName shortens component names: lsp -> lsp, completion.provider -> c.provider
func abbreviateName(name string) string {
	parts := strings.Split(name, ".")
	if len(parts) > 1 {
		return string(parts[0][0]) + "." + strings.Join(parts[1:], ".")
	}
	return name
}

// renderFields prints the well-known completion keys compactly and every
// other field as key=value, sorted by key. Nothing is dropped.
func renderFields(fields []zapcore.Field) string {
	c := colors()
	m := zapcore.NewMapObjectEncoder()
	for _, f := range fields {
		f.AddTo(m)
	}

	var head, rest []string
	take := func(key string) (string, bool) {
		v, ok := m.Fields[key]
		if !ok {
			return "", false
		}
		delete(m.Fields, key)
		return fmt.Sprintf("%v", v), true
	}

	if v, ok := take(FieldURI); ok {
		head = append(head, c.id+path.Base(v)+colorReset)
	}
	if v, ok := take(FieldOffset); ok {
		head = append(head, c.number+"@"+v+colorReset)
	}
	if v, ok := take(FieldCount); ok {
		head = append(head, c.number+v+colorReset+" items")
	}
	if v, ok := take(FieldDurationMS); ok {
		head = append(head, c.number+v+colorReset+"ms")
	}

	keys := make([]string, 0, len(m.Fields))
	for k := range m.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		rest = append(rest, fmt.Sprintf("%s=%v", k, m.Fields[k]))
	}

	return strings.Join(append(head, rest...), " ")
}
