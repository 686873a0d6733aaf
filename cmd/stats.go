package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizline/internal/quiz"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show quiz history and accuracy",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := loadBank()
		if err != nil {
			return err
		}
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		repo := st.EventRepo()
		out := cmd.OutOrStdout()

		xp, err := repo.TotalXP(ctx)
		if err != nil {
			return fmt.Errorf("query xp: %w", err)
		}
		best, err := repo.BestScores(ctx)
		if err != nil {
			return fmt.Errorf("query best scores: %w", err)
		}
		kinds, err := repo.KindAccuracy(ctx)
		if err != nil {
			return fmt.Errorf("query accuracy: %w", err)
		}

		if len(best) == 0 {
			fmt.Fprintln(out, "No quizzes finished yet.")
			return nil
		}
		fmt.Fprintf(out, "Total XP: %d\n\n", xp)

		ids := make([]string, 0, len(best))
		for id := range best {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		fmt.Fprintln(out, "Best Scores")
		fmt.Fprintln(out, strings.Repeat("─", 60))
		fmt.Fprintf(out, "%-36s  %8s  %8s\n", "Quiz", "Best", "Attempts")
		fmt.Fprintln(out, strings.Repeat("─", 60))
		for _, id := range ids {
			qb := best[id]
			title := id
			if q, ok := b.Get(id); ok {
				title = q.Title
			}
			fmt.Fprintf(out, "%-36s  %8s  %8d\n",
				truncate(title, 36), fmt.Sprintf("%d/%d", qb.BestCorrect, qb.Questions), qb.Attempts)
		}

		if len(kinds) > 0 {
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Accuracy by Question Kind")
			fmt.Fprintln(out, strings.Repeat("─", 60))
			fmt.Fprintf(out, "%-20s  %8s  %8s  %8s  %8s\n", "Kind", "Answered", "Correct", "Timeouts", "Accuracy")
			fmt.Fprintln(out, strings.Repeat("─", 60))
			for _, k := range kinds {
				fmt.Fprintf(out, "%-20s  %8d  %8d  %8d  %7.0f%%\n",
					quiz.Kind(k.Kind), k.Answered, k.Correct, k.TimedOut, k.Accuracy()*100)
			}
		}
		return nil
	},
}
