package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizline/internal/console"
	"github.com/abhisek/quizline/internal/logger"
	"github.com/abhisek/quizline/internal/progress"
)

var playCmd = &cobra.Command{
	Use:   "play <quiz-id>",
	Short: "Take one quiz",
	Long: "Take one quiz. With --plain the quiz runs as a line-by-line conversation " +
		"on stdin and stdout instead of the full-screen interface.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plain, _ := cmd.Flags().GetBool("plain")

		b, err := loadBank()
		if err != nil {
			return err
		}
		q, ok := b.Get(args[0])
		if !ok {
			return fmt.Errorf("no quiz %q, see quizline quiz list", args[0])
		}
		if !plain {
			return runApp(cmd, q.ID)
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		_, err = console.Play(cmd.Context(), q, os.Stdin, cmd.OutOrStdout(), console.Options{
			QuestionSeconds: cfg.QuestionSeconds,
			Tick:            cfg.Tick,
			Tracker:         progress.NewTracker(st.EventRepo(), log),
			Log:             logger.Component(log, "session"),
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	playCmd.Flags().Bool("plain", false, "Play line by line without the full-screen interface")
}
