package commands

import (
	"encoding/json"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/teranos/qualify/completion"
	"github.com/teranos/qualify/errors"
)

// PreviewCmd resolves every candidate both ways
var PreviewCmd = &cobra.Command{
	Use:   "preview FILE",
	Short: "Show what each candidate would insert, verbatim and simplified",
	Long: `Offer completions at --offset and resolve every candidate twice, once
verbatim and once simplified, without touching FILE.

Examples:
  qualify preview Program.cs --offset 120`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func init() {
	addPositionFlags(PreviewCmd)
	PreviewCmd.Flags().BoolP("json", "j", false, "Output as JSON")
	PreviewCmd.Flags().Int("jobs", 4, "Candidates resolved concurrently")
}

type previewRow struct {
	Candidate  string `json:"candidate"`
	Verbatim   string `json:"verbatim"`
	Simplified string `json:"simplified"`
}

func runPreview(cmd *cobra.Command, args []string) error {
	provider, _, err := loadProvider(cmd)
	if err != nil {
		return err
	}
	if !provider.CanSimplify() {
		return errors.WithHint(errors.New("no syntax model available for preview"), "set simplify.language = \"csharp\"")
	}
	text, err := readSource(args[0])
	if err != nil {
		return err
	}

	offset, _ := cmd.Flags().GetInt("offset")
	list, _, err := offerAt(cmd.Context(), provider, text, completion.TriggerEvent{Kind: completion.TriggerInvoke, Caret: offset})
	if err != nil {
		return err
	}

	rows, err := previewItems(cmd, provider, text, list)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		data, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal preview")
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	data := [][]string{{"Candidate", "Verbatim", "Simplified"}}
	for _, r := range rows {
		data = append(data, []string{r.Candidate, r.Verbatim, r.Simplified})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, "failed to render preview")
	}
	fmt.Fprintln(cmd.OutOrStdout(), table)
	return nil
}

// previewItems resolves each item verbatim and simplified. Rows keep list order.
func previewItems(cmd *cobra.Command, provider *completion.Provider, text string, list completion.List) ([]previewRow, error) {
	jobs, _ := cmd.Flags().GetInt("jobs")
	if jobs < 1 {
		jobs = 1
	}

	rows := make([]previewRow, len(list.Items))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(jobs)

	doc := completion.StaticText(text)
	for i, item := range list.Items {
		g.Go(func() error {
			verbatim, err := provider.ResolveWith(ctx, doc, item.Pending, false)
			if err != nil {
				return errors.Wrapf(err, "resolve %s", item.Pending.NewText)
			}
			simplified, err := provider.ResolveWith(ctx, doc, item.Pending, true)
			if err != nil {
				return errors.Wrapf(err, "simplify %s", item.Pending.NewText)
			}
			rows[i] = previewRow{
				Candidate:  item.DisplayText,
				Verbatim:   verbatim.NewText,
				Simplified: simplified.NewText,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}
