package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizline/internal/author"
	"github.com/abhisek/quizline/internal/bank"
	"github.com/abhisek/quizline/internal/llm"
	"github.com/abhisek/quizline/internal/quiz"
)

var authorCmd = &cobra.Command{
	Use:   "author",
	Short: "Draft a new quiz with a language model",
	Long: "Draft a new quiz with a language model and write it as a bank file. " +
		"The draft passes the same checks as hand-written files before it is written.",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		topic, _ := flags.GetString("topic")
		course, _ := flags.GetString("course")
		difficulty, _ := flags.GetString("difficulty")
		questions, _ := flags.GetInt("questions")
		kindNames, _ := flags.GetStringSlice("kinds")
		id, _ := flags.GetString("id")
		timeLimit, _ := flags.GetInt("time-limit")
		out, _ := flags.GetString("out")
		force, _ := flags.GetBool("force")

		kinds, err := parseKinds(kindNames)
		if err != nil {
			return err
		}

		b, err := loadBank()
		if err != nil {
			return err
		}
		var avoid []string
		for _, q := range b.All() {
			avoid = append(avoid, q.Title)
		}

		llmCfg, err := llm.Resolve()
		if err != nil {
			return fmt.Errorf("LLM provider: %w", err)
		}
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		provider, err := llm.NewProvider(ctx, llmCfg, st.EventRepo(), log)
		if err != nil {
			return fmt.Errorf("LLM provider: %w", err)
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "Drafting a quiz on %q...\n", topic)
		q, err := author.New(provider, author.DefaultConfig(), log).Draft(ctx, author.Request{
			Topic:      topic,
			Course:     course,
			Difficulty: quiz.Difficulty(difficulty),
			Questions:  questions,
			Kinds:      kinds,
			ID:         id,
			TimeLimit:  timeLimit,
			Avoid:      avoid,
		})
		if err != nil {
			return err
		}
		q.ID = author.UniqueID(q.ID, func(id string) bool {
			_, taken := b.Get(id)
			return taken
		})

		data, err := bank.Encode(bank.Document{Course: q.Course, Quizzes: []quiz.Quiz{q}})
		if err != nil {
			return fmt.Errorf("encode quiz: %w", err)
		}
		if _, err := bank.Parse(q.ID+".yaml", data); err != nil {
			return fmt.Errorf("drafted quiz does not load: %w", err)
		}

		if out == "" && cfg.QuizDir != "" {
			out = filepath.Join(cfg.QuizDir, q.ID+".yaml")
		}
		if out == "" || out == "-" {
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		if err := writeBankFile(out, data, force); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s (%d questions) to %s\n", q.ID, q.Len(), out)
		return nil
	},
}

// parseKinds checks kind names against the supported question kinds.
func parseKinds(names []string) ([]quiz.Kind, error) {
	var kinds []quiz.Kind
	for _, n := range names {
		k := quiz.Kind(n)
		if !slices.Contains(quiz.Kinds, k) {
			return nil, fmt.Errorf("unknown question kind %q", n)
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

func writeBankFile(path string, data []byte, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists, pass --force to replace it", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create quiz dir: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func init() {
	f := authorCmd.Flags()
	f.StringP("topic", "t", "", "What the quiz is about")
	f.String("course", "", "Course label the quiz is grouped under")
	f.StringP("difficulty", "d", string(quiz.DifficultyBeginner), "beginner, intermediate or advanced")
	f.IntP("questions", "n", 4, fmt.Sprintf("Number of questions (1-%d)", author.MaxQuestions))
	f.StringSlice("kinds", nil, "Question kinds to use (default all)")
	f.String("id", "", "Quiz id (default derived from the title)")
	f.Int("time-limit", 0, "Seconds per question (default the app setting)")
	f.StringP("out", "o", "", `Bank file to write, "-" for stdout (default <quiz-dir>/<id>.yaml)`)
	f.Bool("force", false, "Replace an existing file")
	_ = authorCmd.MarkFlagRequired("topic")
}
