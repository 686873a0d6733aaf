// Package author drafts new quizzes with a language model. Drafts go
// through the same validation as hand-written bank files, and a draft that
// fails is sent back to the model with the problems listed.
package author

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/abhisek/quizline/internal/llm"
	"github.com/abhisek/quizline/internal/quiz"
)

// Config tunes drafting.
type Config struct {
	MaxTokens   int
	Temperature float64

	// MaxRepairs is how many times a draft that fails validation is sent
	// back for correction.
	MaxRepairs int

	// MaxAvoid caps how many existing quiz titles go into the prompt.
	MaxAvoid int
}

func DefaultConfig() Config {
	return Config{MaxTokens: 4096, Temperature: 0.7, MaxRepairs: 1, MaxAvoid: 20}
}

// MaxQuestions bounds Request.Questions.
const MaxQuestions = 12

// Request describes the quiz to draft.
type Request struct {
	Topic      string
	Course     string
	Difficulty quiz.Difficulty
	Questions  int
	Kinds      []quiz.Kind

	// ID is used as the quiz id when set; otherwise one is derived from
	// the drafted title.
	ID        string
	TimeLimit int

	// Avoid lists titles of quizzes that already exist.
	Avoid []string
}

func (r *Request) normalize() error {
	r.Topic = strings.TrimSpace(r.Topic)
	if r.Topic == "" {
		return errors.New("topic is required")
	}
	if r.Difficulty == "" {
		r.Difficulty = quiz.DifficultyBeginner
	}
	switch r.Difficulty {
	case quiz.DifficultyBeginner, quiz.DifficultyIntermediate, quiz.DifficultyAdvanced:
	default:
		return fmt.Errorf("unknown difficulty %q", r.Difficulty)
	}
	if r.Questions == 0 {
		r.Questions = 4
	}
	if r.Questions < 1 || r.Questions > MaxQuestions {
		return fmt.Errorf("questions must be between 1 and %d, got %d", MaxQuestions, r.Questions)
	}
	if len(r.Kinds) == 0 {
		r.Kinds = quiz.Kinds
	}
	if r.TimeLimit < 0 {
		return fmt.Errorf("time limit must not be negative, got %d", r.TimeLimit)
	}
	return nil
}

// draft is the model's reply, see QuizSchema.
type draft struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Questions   []draftQuestion `json:"questions"`
}

type draftQuestion struct {
	Kind        quiz.Kind `json:"kind"`
	Prompt      string    `json:"prompt"`
	Explanation string    `json:"explanation"`

	Items        []string `json:"items"`
	Descriptions []string `json:"descriptions"`
	CorrectPairs []int    `json:"correct_pairs"`

	Steps        []string `json:"steps"`
	CorrectOrder []int    `json:"correct_order"`

	Activities        []string `json:"activities"`
	Categories        []string `json:"categories"`
	CorrectCategories []int    `json:"correct_categories"`

	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
}

func (d draftQuestion) question() quiz.Question {
	q := quiz.Question{Kind: d.Kind, Prompt: d.Prompt, Explanation: d.Explanation}
	switch d.Kind {
	case quiz.KindMatching:
		q.Matching = &quiz.Matching{Items: d.Items, Descriptions: d.Descriptions, CorrectPairs: d.CorrectPairs}
	case quiz.KindSequencing:
		q.Sequencing = &quiz.Sequencing{Steps: d.Steps, CorrectOrder: d.CorrectOrder}
	case quiz.KindSorting:
		q.Sorting = &quiz.Sorting{Activities: d.Activities, Categories: d.Categories, CorrectCategories: d.CorrectCategories}
	case quiz.KindMultipleChoice:
		q.MultipleChoice = &quiz.MultipleChoice{Options: d.Options, CorrectAnswer: d.CorrectAnswer}
	}
	return q
}

// Author drafts quizzes.
type Author struct {
	provider llm.Provider
	cfg      Config
	log      zerolog.Logger
}

func New(provider llm.Provider, cfg Config, log zerolog.Logger) *Author {
	return &Author{provider: provider, cfg: cfg, log: log.With().Str("component", "author").Logger()}
}

// Draft asks the model for a quiz and returns it once it validates.
func (a *Author) Draft(ctx context.Context, req Request) (quiz.Quiz, error) {
	if err := req.normalize(); err != nil {
		return quiz.Quiz{}, err
	}
	ctx = llm.WithPurpose(ctx, "quiz-author")

	conv := llm.UserPrompt(systemPrompt, buildUserMessage(req, a.cfg))
	conv.Schema = QuizSchema
	conv.MaxTokens = a.cfg.MaxTokens
	conv.Temperature = a.cfg.Temperature

	for attempt := 0; ; attempt++ {
		resp, err := a.provider.Generate(ctx, conv)
		if err != nil {
			return quiz.Quiz{}, fmt.Errorf("draft quiz: %w", err)
		}
		var d draft
		if err := resp.Decode(&d); err != nil {
			return quiz.Quiz{}, fmt.Errorf("draft quiz: %w", err)
		}

		q := assemble(req, d)
		verr := q.Validate()
		if verr == nil {
			a.log.Info().Str("quiz", q.ID).Int("questions", q.Len()).Int("repairs", attempt).Msg("drafted quiz")
			return q, nil
		}
		if attempt >= a.cfg.MaxRepairs {
			return quiz.Quiz{}, fmt.Errorf("draft quiz: %w", verr)
		}

		a.log.Debug().Err(verr).Int("attempt", attempt+1).Msg("draft failed validation, asking for repair")
		conv.Messages = append(conv.Messages,
			llm.Message{Role: llm.RoleAssistant, Content: string(resp.Content)},
			llm.Message{Role: llm.RoleUser, Content: repairMessage(verr)},
		)
	}
}

func assemble(req Request, d draft) quiz.Quiz {
	q := quiz.Quiz{
		ID:          req.ID,
		Title:       strings.TrimSpace(d.Title),
		Description: strings.TrimSpace(d.Description),
		Course:      req.Course,
		Difficulty:  req.Difficulty,
		TimeLimit:   req.TimeLimit,
		Questions:   make([]quiz.Question, len(d.Questions)),
	}
	if q.ID == "" {
		q.ID = Slug(q.Title)
	}
	for i, dq := range d.Questions {
		q.Questions[i] = dq.question()
	}
	return q
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slug turns a title into a bank quiz id.
func Slug(title string) string {
	s := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if s == "" {
		return "quiz"
	}
	return s
}

// UniqueID appends -2, -3 and so on to id until taken reports false.
func UniqueID(id string, taken func(string) bool) string {
	if !taken(id) {
		return id
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d", id, n)
		if !taken(candidate) {
			return candidate
		}
	}
}
