package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizline/internal/llm"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect language model usage",
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage, latency and estimated cost by purpose and model",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		usage, err := st.EventRepo().LLMUsage(cmd.Context())
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(usage) == 0 {
			fmt.Fprintln(out, "No LLM usage recorded yet.")
			return nil
		}

		fmt.Fprintln(out, "Usage by Purpose and Model")
		fmt.Fprintln(out, strings.Repeat("─", 104))
		fmt.Fprintf(out, "%-14s  %-28s  %6s  %6s  %10s  %10s  %8s  %10s\n",
			"Purpose", "Model", "Calls", "OK", "Input", "Output", "Avg Ms", "Cost")
		fmt.Fprintln(out, strings.Repeat("─", 104))

		var (
			calls, ok, in, outTokens int
			total                    float64
			unpriced                 []string
		)
		for _, u := range usage {
			cost := "?"
			if p, found := llm.PriceFor(u.Model); found {
				c := p.Estimate(u.InputTokens, u.OutputTokens)
				total += c
				cost = formatCost(c)
			} else if !slices.Contains(unpriced, u.Model) {
				unpriced = append(unpriced, u.Model)
			}
			fmt.Fprintf(out, "%-14s  %-28s  %6d  %6d  %10d  %10d  %8d  %10s\n",
				truncate(u.Purpose, 14), truncate(u.Model, 28), u.Calls, u.Succeeded,
				u.InputTokens, u.OutputTokens, u.AvgLatencyMs, cost)
			calls += u.Calls
			ok += u.Succeeded
			in += u.InputTokens
			outTokens += u.OutputTokens
		}

		label := "TOTAL"
		if len(unpriced) > 0 {
			label = "TOTAL (partial)"
		}
		fmt.Fprintln(out, strings.Repeat("─", 104))
		fmt.Fprintf(out, "%-44s  %6d  %6d  %10d  %10d  %8s  %10s\n",
			label, calls, ok, in, outTokens, "", formatCost(total))
		if len(unpriced) > 0 {
			fmt.Fprintf(out, "\nNo price for: %s\n", strings.Join(unpriced, ", "))
		}
		return nil
	},
}

// formatCost shows sub-cent amounts with four decimals.
func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmCmd.AddCommand(llmStatsCmd)
}
