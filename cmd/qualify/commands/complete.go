package commands

import (
	"encoding/json"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/qualify/completion"
	"github.com/teranos/qualify/errors"
)

// CompleteCmd shows what the provider offers at an offset
var CompleteCmd = &cobra.Command{
	Use:   "complete FILE",
	Short: "List the completion items offered at a byte offset",
	Long: `Run the trigger policy and completion session against FILE ("-" for stdin)
as if an editor asked at --offset.

Examples:
  qualify complete Program.cs --offset 120
  qualify complete Program.cs --offset 120 --trigger insertion --char D
  qualify complete Program.cs --offset 120 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runComplete,
}

func init() {
	addPositionFlags(CompleteCmd)
	CompleteCmd.Flags().String("trigger", "invoke", "Trigger kind: invoke, invoke-and-commit-if-unique, insertion, deletion, other")
	CompleteCmd.Flags().String("char", "", "Character typed for --trigger insertion (defaults to the character before --offset)")
	CompleteCmd.Flags().BoolP("json", "j", false, "Output items as JSON")
}

func addPositionFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("offset", "o", -1, "Caret byte offset")
	_ = cmd.MarkFlagRequired("offset")
}

// completeOutput is the --json shape of one item.
type completeOutput struct {
	Index       int                    `json:"index"`
	Label       string                 `json:"label"`
	Detail      string                 `json:"detail"`
	Description string                 `json:"description"`
	Preselect   bool                   `json:"preselect"`
	Pending     completion.PendingItem `json:"pending"`
}

func runComplete(cmd *cobra.Command, args []string) error {
	provider, _, err := loadProvider(cmd)
	if err != nil {
		return err
	}
	text, err := readSource(args[0])
	if err != nil {
		return err
	}

	ev, err := triggerFromFlags(cmd, text)
	if err != nil {
		return err
	}

	list, opened, err := offerAt(cmd.Context(), provider, text, ev)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		out := make([]completeOutput, 0, len(list.Items))
		for i, item := range list.Items {
			out = append(out, completeOutput{
				Index:       i,
				Label:       item.DisplayText,
				Detail:      item.InlineDescription,
				Description: item.FullDescription,
				Preselect:   item.Priority == completion.MatchPriorityPreselect,
				Pending:     item.Pending,
			})
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal items")
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	if !opened {
		pterm.Info.Printfln("%s at offset %d does not open the list", ev.Kind, ev.Caret)
		return nil
	}

	rows := [][]string{{"#", "Label", "Replaces", "Inserts"}}
	for i, item := range list.Items {
		edit := item.Pending.Edit()
		rows = append(rows, []string{
			strconv.Itoa(i),
			item.DisplayText,
			fmt.Sprintf("%q %s", edit.Span().Slice(text), edit.Span()),
			edit.NewText,
		})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(rows).Srender()
	if err != nil {
		return errors.Wrap(err, "failed to render items")
	}
	fmt.Fprintln(cmd.OutOrStdout(), table)
	return nil
}

// triggerFromFlags builds the trigger event described by --offset, --trigger
// and --char.
func triggerFromFlags(cmd *cobra.Command, text string) (completion.TriggerEvent, error) {
	offset, _ := cmd.Flags().GetInt("offset")
	kindName, _ := cmd.Flags().GetString("trigger")
	char, _ := cmd.Flags().GetString("char")

	kind := completion.TriggerInvoke
	if kindName != "" {
		var err error
		if kind, err = completion.ParseTriggerKind(kindName); err != nil {
			return completion.TriggerEvent{}, errors.WithHint(err, "use invoke, insertion, deletion or other")
		}
	}

	ev := completion.TriggerEvent{Kind: kind, Caret: offset}
	switch {
	case char != "":
		if utf8.RuneCountInString(char) != 1 {
			return completion.TriggerEvent{}, errors.NewInvalidRequestError("--char must be a single character, got %q", char)
		}
		ev.Character, _ = utf8.DecodeRuneInString(char)
	case kind == completion.TriggerInsertion && offset > 0 && offset <= len(text):
		ev.Character, _ = utf8.DecodeLastRuneInString(text[:offset])
	}
	return ev, nil
}
