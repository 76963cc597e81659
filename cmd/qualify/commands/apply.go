package commands

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/qualify/completion"
	"github.com/teranos/qualify/errors"
)

// ApplyCmd commits one candidate and prints or writes the edited buffer
var ApplyCmd = &cobra.Command{
	Use:   "apply FILE",
	Short: "Commit a candidate at a byte offset",
	Long: `Offer completions at --offset, commit the candidate named by --candidate
(zero-based index or inserted text) and print the resulting buffer.

--simplify overrides simplify.enabled for this commit. --write edits FILE
in place instead of printing.

Examples:
  qualify apply Program.cs --offset 120 --candidate 0
  qualify apply Program.cs --offset 120 --candidate System.IO.File --simplify --write`,
	Args: cobra.ExactArgs(1),
	RunE: runApply,
}

func init() {
	addPositionFlags(ApplyCmd)
	ApplyCmd.Flags().StringP("candidate", "c", "0", "Candidate index or text")
	ApplyCmd.Flags().Bool("simplify", false, "Shorten the inserted name to what the file's scopes make visible")
	ApplyCmd.Flags().BoolP("write", "w", false, "Write the result back to FILE")
}

func runApply(cmd *cobra.Command, args []string) error {
	provider, _, err := loadProvider(cmd)
	if err != nil {
		return err
	}
	path := args[0]
	text, err := readSource(path)
	if err != nil {
		return err
	}

	offset, _ := cmd.Flags().GetInt("offset")
	list, _, err := offerAt(cmd.Context(), provider, text, completion.TriggerEvent{Kind: completion.TriggerInvoke, Caret: offset})
	if err != nil {
		return err
	}

	candidate, _ := cmd.Flags().GetString("candidate")
	item, err := pickItem(list, candidate)
	if err != nil {
		return err
	}

	simplify := provider.SimplifyOnCommit()
	if cmd.Flags().Changed("simplify") {
		simplify, _ = cmd.Flags().GetBool("simplify")
	}
	if simplify && !provider.CanSimplify() {
		return errors.WithHint(errors.New("no syntax model available for --simplify"), "set simplify.language = \"csharp\"")
	}

	edit, err := provider.ResolveWith(cmd.Context(), completion.StaticText(text), item.Pending, simplify)
	if err != nil {
		return err
	}
	out, err := edit.Apply(text)
	if err != nil {
		return err
	}

	write, _ := cmd.Flags().GetBool("write")
	if !write {
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	}
	if path == "-" {
		return errors.WithHint(errors.New("cannot --write to stdin"), "redirect the printed buffer instead")
	}

	info, err := os.Stat(path)
	if err != nil {
		return errors.Wrapf(err, "stat %s", path)
	}
	if err := os.WriteFile(path, []byte(out), info.Mode().Perm()); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	pterm.Success.Printfln("Inserted %s at %s in %s", edit.NewText, edit.Span(), path)
	return nil
}
