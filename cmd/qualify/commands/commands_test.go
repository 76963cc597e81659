package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/qualify/completion"
	"github.com/teranos/qualify/errors"
)

const withUsing = "using System.IO;\nclass C { void M() { var d = Dir; } }\n"
const withoutUsing = "class C { void M() { var d = Dir; } }\n"

func TestMain(m *testing.M) {
	pterm.DisableOutput()
	os.Exit(m.Run())
}

// newRoot mirrors the persistent flags the real root command defines.
func newRoot() *cobra.Command {
	root := &cobra.Command{Use: "qualify", SilenceUsage: true, SilenceErrors: true}
	root.PersistentFlags().CountP("verbose", "v", "")
	root.PersistentFlags().String("config", "", "")
	for _, c := range []*cobra.Command{CompleteCmd, ApplyCmd, PreviewCmd, CatalogCmd, AmCmd, VersionCmd} {
		resetFlags(c)
		root.AddCommand(c)
	}
	return root
}

// resetFlags undoes the previous run: commands are package globals.
func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRoot()
	defer func() {
		for _, c := range root.Commands() {
			root.RemoveCommand(c)
		}
	}()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// configFile writes a configuration with the default catalog.
func configFile(t *testing.T, simplify bool) string {
	return writeFile(t, "qualify.toml", "[simplify]\nenabled = "+strconv.FormatBool(simplify)+"\nlanguage = \"csharp\"\n")
}

func caretAfterDir(src string) string {
	return strconv.Itoa(strings.Index(src, "Dir;") + len("Dir"))
}

func TestCompleteJSON(t *testing.T) {
	src := writeFile(t, "Program.cs", withUsing)
	out, err := run(t, "complete", src, "--offset", caretAfterDir(withUsing), "--json", "--config", configFile(t, false))
	require.NoError(t, err)

	var items []completeOutput
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	require.Len(t, items, 3)

	start := strings.Index(withUsing, "Dir;")
	for i, want := range []string{"System.IO.Directory", "System.IO.File", "System.IO.Path"} {
		assert.Equal(t, i, items[i].Index)
		assert.Equal(t, want, items[i].Label)
		assert.Equal(t, want, items[i].Pending.NewText)
		assert.Equal(t, start, items[i].Pending.Start)
		assert.Equal(t, 3, items[i].Pending.Length)
	}
}

func TestCompleteTable(t *testing.T) {
	src := writeFile(t, "Program.cs", withUsing)
	out, err := run(t, "complete", src, "--offset", caretAfterDir(withUsing), "--config", configFile(t, false))
	require.NoError(t, err)
	assert.Contains(t, out, "System.IO.File")
	assert.Contains(t, out, `"Dir"`)
}

func TestCompleteNotOpened(t *testing.T) {
	src := writeFile(t, "Program.cs", withUsing)
	out, err := run(t, "complete", src, "--offset", caretAfterDir(withUsing), "--trigger", "deletion", "--json", "--config", configFile(t, false))
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)
}

func TestCompleteOffsetOutsideFile(t *testing.T) {
	src := writeFile(t, "Program.cs", withUsing)
	_, err := run(t, "complete", src, "--offset", "9999", "--config", configFile(t, false))
	require.Error(t, err)
	assert.True(t, errors.IsStalePosition(err))
}

func TestCompleteRequiresOffset(t *testing.T) {
	src := writeFile(t, "Program.cs", withUsing)
	_, err := run(t, "complete", src, "--config", configFile(t, false))
	require.Error(t, err)
}

func TestApply(t *testing.T) {
	caret := caretAfterDir(withUsing)

	tests := []struct {
		name string
		src  string
		args []string
		cfg  bool
		want string
	}{
		{"verbatim by default", withUsing, nil, false, "var d = System.IO.Directory;"},
		{"simplify flag", withUsing, []string{"--simplify"}, false, "var d = Directory;"},
		{"simplify from config", withUsing, nil, true, "var d = Directory;"},
		{"flag overrides config", withUsing, []string{"--simplify=false"}, true, "var d = System.IO.Directory;"},
		{"candidate by text", withUsing, []string{"--candidate", "System.IO.File", "--simplify"}, false, "var d = File;"},
		{"no using stays qualified", withoutUsing, []string{"--simplify"}, false, "var d = System.IO.Directory;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := writeFile(t, "Program.cs", tt.src)
			offset := caret
			if tt.src == withoutUsing {
				offset = caretAfterDir(withoutUsing)
			}
			args := append([]string{"apply", src, "--offset", offset, "--config", configFile(t, tt.cfg)}, tt.args...)

			out, err := run(t, args...)
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)

			onDisk, err := os.ReadFile(src)
			require.NoError(t, err)
			assert.Equal(t, tt.src, string(onDisk), "apply without --write must not touch the file")
		})
	}
}

func TestApplyWrite(t *testing.T) {
	src := writeFile(t, "Program.cs", withUsing)
	_, err := run(t, "apply", src, "--offset", caretAfterDir(withUsing), "--simplify", "--write", "--config", configFile(t, false))
	require.NoError(t, err)

	got, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Equal(t, "using System.IO;\nclass C { void M() { var d = Directory; } }\n", string(got))
}

func TestApplyUnknownCandidate(t *testing.T) {
	src := writeFile(t, "Program.cs", withUsing)
	for _, candidate := range []string{"7", "-1", "System.Text.StringBuilder"} {
		_, err := run(t, "apply", src, "--offset", caretAfterDir(withUsing), "--candidate", candidate, "--config", configFile(t, false))
		require.Error(t, err, candidate)
		assert.True(t, errors.IsNotFoundError(err), candidate)
	}
}

func TestPreview(t *testing.T) {
	src := writeFile(t, "Program.cs", withUsing)
	out, err := run(t, "preview", src, "--offset", caretAfterDir(withUsing), "--json", "--jobs", "2", "--config", configFile(t, false))
	require.NoError(t, err)

	var rows []previewRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	assert.Equal(t, []previewRow{
		{Candidate: "System.IO.Directory", Verbatim: "System.IO.Directory", Simplified: "Directory"},
		{Candidate: "System.IO.File", Verbatim: "System.IO.File", Simplified: "File"},
		{Candidate: "System.IO.Path", Verbatim: "System.IO.Path", Simplified: "Path"},
	}, rows)
}

func TestCatalog(t *testing.T) {
	cfg := writeFile(t, "qualify.toml", `
[[catalog.entries]]
text = "System.Text.StringBuilder"
label = "StringBuilder"
description = "Mutable string"
`)
	out, err := run(t, "catalog", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "System.Text.StringBuilder")
	assert.Contains(t, out, "Mutable string")
	assert.NotContains(t, out, "System.IO.Directory")
}

func TestAmInitThenShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "am.toml")

	_, err := run(t, "am", "init", path)
	require.NoError(t, err)
	require.FileExists(t, path)

	_, err = run(t, "am", "init", path)
	require.Error(t, err, "init must not overwrite without --force")

	_, err = run(t, "am", "init", path, "--force")
	require.NoError(t, err)

	out, err := run(t, "am", "show", "--format", "json", "--config", path)
	require.NoError(t, err)
	var shown map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &shown))
	assert.Contains(t, out, "System.IO.Directory")

	out, err = run(t, "am", "show", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "[simplify]")

	_, err = run(t, "am", "show", "--format", "yaml", "--config", path)
	require.Error(t, err)
}

func TestAmValidate(t *testing.T) {
	out, err := run(t, "am", "validate", "--config", configFile(t, true))
	require.NoError(t, err)
	assert.Contains(t, out, "valid")

	bad := writeFile(t, "qualify.toml", "[completion]\nselection = \"sticky\"\n")
	_, err = run(t, "am", "validate", "--config", bad)
	require.Error(t, err)
}

func TestAmWhere(t *testing.T) {
	out, err := run(t, "am", "where")
	require.NoError(t, err)
	assert.Contains(t, out, "Built-in defaults")
	assert.Contains(t, out, "QUALIFY_*")
}

func TestVersionJSON(t *testing.T) {
	out, err := run(t, "version", "--json")
	require.NoError(t, err)

	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "qualify", info["name"])
	assert.NotEmpty(t, info["go_version"])
}

func TestTriggerFromFlags(t *testing.T) {
	text := "x <D"

	tests := []struct {
		name    string
		flags   map[string]string
		want    completion.TriggerEvent
		wantErr bool
	}{
		{"default invoke", map[string]string{"offset": "4"}, completion.TriggerEvent{Kind: completion.TriggerInvoke, Caret: 4}, false},
		{"insertion reads typed char", map[string]string{"offset": "4", "trigger": "insertion"}, completion.TriggerEvent{Kind: completion.TriggerInsertion, Character: 'D', Caret: 4}, false},
		{"explicit char", map[string]string{"offset": "3", "trigger": "insertion", "char": "<"}, completion.TriggerEvent{Kind: completion.TriggerInsertion, Character: '<', Caret: 3}, false},
		{"two chars", map[string]string{"offset": "3", "char": "<<"}, completion.TriggerEvent{}, true},
		{"unknown kind", map[string]string{"offset": "3", "trigger": "hover"}, completion.TriggerEvent{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags(CompleteCmd)
			for k, v := range tt.flags {
				require.NoError(t, CompleteCmd.Flags().Set(k, v))
			}
			got, err := triggerFromFlags(CompleteCmd, text)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPickItem(t *testing.T) {
	p := completion.NewProvider(completion.Options{})
	list, err := p.Provide(context.Background(), completion.StaticText("Dir"), completion.TriggerEvent{Kind: completion.TriggerInvoke, Caret: 3})
	require.NoError(t, err)

	item, err := pickItem(list, "1")
	require.NoError(t, err)
	assert.Equal(t, "System.IO.File", item.Pending.NewText)

	item, err = pickItem(list, "System.IO.Path")
	require.NoError(t, err)
	assert.Equal(t, "System.IO.Path", item.Pending.NewText)

	_, err = pickItem(list, "3")
	assert.True(t, errors.IsNotFoundError(err))
}
