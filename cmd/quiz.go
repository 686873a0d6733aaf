package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizline/internal/bank"
	"github.com/abhisek/quizline/internal/quiz"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Inspect and check quiz banks",
}

var quizListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every quiz in the bank",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := loadBank()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if b.Len() == 0 {
			fmt.Fprintln(out, "No quizzes found.")
			return nil
		}

		fmt.Fprintf(out, "%-24s  %-20s  %-12s  %9s  %s\n", "ID", "Course", "Difficulty", "Questions", "Source")
		fmt.Fprintln(out, strings.Repeat("─", 90))
		for _, q := range b.All() {
			fmt.Fprintf(out, "%-24s  %-20s  %-12s  %9d  %s\n",
				truncate(q.ID, 24), truncate(q.Course, 20), q.Difficulty, q.Len(), b.Source(q.ID))
		}
		return nil
	},
}

var quizShowCmd = &cobra.Command{
	Use:   "show <quiz-id>",
	Short: "Print one quiz as a bank document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := loadBank()
		if err != nil {
			return err
		}
		q, ok := b.Get(args[0])
		if !ok {
			return fmt.Errorf("no quiz %q", args[0])
		}
		data, err := bank.Encode(bank.Document{Course: q.Course, Quizzes: []quiz.Quiz{q}})
		if err != nil {
			return fmt.Errorf("encode quiz: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var quizValidateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Check bank files without loading them into the app",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		failed := 0
		for _, path := range args {
			doc, err := bank.ReadFile(path)
			if err != nil {
				failed++
				fmt.Fprintf(out, "✗ %s\n", path)
				for _, line := range problems(err) {
					fmt.Fprintf(out, "    %s\n", line)
				}
				continue
			}
			fmt.Fprintf(out, "✓ %s (%d quizzes)\n", path, len(doc.Quizzes))
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d files failed validation", failed, len(args))
		}
		return nil
	},
}

// problems splits a load error into trimmed lines.
func problems(err error) []string {
	var out []string
	for _, line := range strings.Split(err.Error(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func init() {
	quizCmd.AddCommand(quizListCmd)
	quizCmd.AddCommand(quizShowCmd)
	quizCmd.AddCommand(quizValidateCmd)
}
