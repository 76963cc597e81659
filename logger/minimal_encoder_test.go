package logger

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// stripANSI removes ANSI color codes from a string for testing
func stripANSI(str string) string {
	return ansiRegex.ReplaceAllString(str, "")
}

func encode(t *testing.T, enc zapcore.Encoder, level zapcore.Level, name, msg string, fields ...zapcore.Field) string {
	t.Helper()
	buf, err := enc.EncodeEntry(zapcore.Entry{
		Level:      level,
		Time:       time.Date(2026, 1, 2, 13, 4, 35, 0, time.UTC),
		LoggerName: name,
		Message:    msg,
	}, fields)
	require.NoError(t, err)
	return stripANSI(buf.String())
}

func TestMinimalEncoderFormat(t *testing.T) {
	out := encode(t, newMinimalEncoder(), zapcore.InfoLevel, "completion.provider", "Completion offered",
		zap.String(FieldURI, "file:///src/Program.cs"),
		zap.Int(FieldOffset, 42),
		zap.Int(FieldCount, 3),
	)

	assert.Equal(t, "13:04:35  c.provider  Completion offered  Program.cs @42 3 items\n", out)
}

func TestMinimalEncoderNeverDiscardsFields(t *testing.T) {
	out := encode(t, newMinimalEncoder(), zapcore.InfoLevel, "lsp", "resolve",
		zap.String("candidate", "System.IO.Directory"),
		zap.Bool(FieldSimplify, true),
		zap.Int64(FieldDurationMS, 7),
		zap.String("zeta", "last"),
		zap.Error(nil),
	)

	assert.Contains(t, out, "candidate=System.IO.Directory")
	assert.Contains(t, out, "simplify=true")
	assert.Contains(t, out, "7ms")
	assert.Contains(t, out, "zeta=last")
}

func TestMinimalEncoderLevels(t *testing.T) {
	enc := newMinimalEncoder()

	assert.NotContains(t, encode(t, enc, zapcore.InfoLevel, "", "started"), "INFO")
	assert.Contains(t, encode(t, enc, zapcore.WarnLevel, "", "careful"), "WARN")
	assert.Contains(t, encode(t, enc, zapcore.ErrorLevel, "", "broken"), "ERROR")
	assert.Contains(t, encode(t, enc, zapcore.DebugLevel, "", "detail"), "DEBUG")
}

func TestMinimalEncoderKeepsWithFields(t *testing.T) {
	enc := newMinimalEncoder()
	clone := enc.Clone()
	clone.AddString(FieldURI, "file:///a/b.cs")
	clone.AddInt64(FieldVersion, 4)

	out := encode(t, clone, zapcore.InfoLevel, "lsp.handler", "didChange")
	assert.Contains(t, out, "b.cs")
	assert.Contains(t, out, "version=4")

	// The original encoder is unaffected by fields added to the clone.
	assert.NotContains(t, encode(t, enc, zapcore.InfoLevel, "lsp.handler", "didChange"), "b.cs")
}

func TestAbbreviateName(t *testing.T) {
	assert.Equal(t, "lsp", abbreviateName("lsp"))
	assert.Equal(t, "c.provider", abbreviateName("completion.provider"))
	assert.Equal(t, "s.csharp.reduce", abbreviateName("syntax.csharp.reduce"))
}

func TestSetThemeIgnoresUnknown(t *testing.T) {
	t.Cleanup(func() { SetTheme("everforest") })

	SetTheme("gruvbox")
	assert.Equal(t, "gruvbox", currentTheme)
	SetTheme("solarized")
	assert.Equal(t, "gruvbox", currentTheme)
}
