package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/quizline/internal/app"
	"github.com/abhisek/quizline/internal/logger"
	"github.com/abhisek/quizline/internal/progress"
	"github.com/abhisek/quizline/internal/screens/play"
)

// runApp opens the store, loads the bank, and launches the TUI. When quizID
// is set that quiz opens straight away.
func runApp(cmd *cobra.Command, quizID string) error {
	b, err := loadBank()
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	return app.Run(app.Options{
		Bank:    b,
		Tracker: progress.NewTracker(st.EventRepo(), log),
		Play: play.Config{
			QuestionSeconds: cfg.QuestionSeconds,
			Tick:            cfg.Tick,
			Log:             logger.Component(log, "session"),
		},
		Log:       log,
		StartQuiz: quizID,
	})
}
