package bank

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizline/internal/quiz"
)

const sampleYAML = `format_version: v1.0.0
course: Samples
quizzes:
  - id: sample
    title: Sample
    difficulty: beginner
    questions:
      - kind: multiple_choice
        prompt: Pick b
        multiple_choice:
          options: [a, b, c]
          correct_answer: 1
`

func TestDefaultBank(t *testing.T) {
	b, err := Default()
	require.NoError(t, err)
	require.Greater(t, b.Len(), 0)

	kinds := map[quiz.Kind]bool{}
	for _, q := range b.All() {
		require.NoError(t, q.Validate(), q.ID)
		assert.NotEmpty(t, q.Course, "%s inherits the document course", q.ID)
		for _, question := range q.Questions {
			kinds[question.Kind] = true
		}
	}
	for _, k := range quiz.Kinds {
		assert.True(t, kinds[k], "built-in bank exercises %s", k)
	}

	q, ok := b.Get("git-essentials")
	require.True(t, ok)
	assert.Equal(t, "Developer Foundations", q.Course)
	assert.Equal(t, "builtin:quizzes/git.yaml", b.Source("git-essentials"))

	_, ok = b.Get("missing")
	assert.False(t, ok)
}

func TestCourses(t *testing.T) {
	b, err := Default()
	require.NoError(t, err)

	courses := b.Courses()
	assert.Equal(t, []string{"Developer Foundations", "Go Programming", "Web Foundations"}, courses)

	web := b.ByCourse("Web Foundations")
	require.Len(t, web, 2)
	assert.Equal(t, "http-basics", web[0].ID)
}

func TestLoadExtraDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sample.yaml"), []byte(sampleYAML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	b, err := Load(dir)
	require.NoError(t, err)

	q, ok := b.Get("sample")
	require.True(t, ok)
	assert.Equal(t, "Samples", q.Course)
	assert.Equal(t, filepath.Join(dir, "sample.yaml"), b.Source("sample"))
}

func TestLoadRejectsDuplicateID(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte(sampleYAML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yml"), []byte(sampleYAML), 0o644))

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate quiz id "sample"`)

	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, filepath.Join(dir, "b.yml"), le.File)
}

func TestLoadRejectsDuplicateIDInOneFile(t *testing.T) {
	doc := sampleYAML + `  - id: sample
    title: Sample again
    difficulty: advanced
    questions:
      - kind: multiple_choice
        prompt: Pick a
        multiple_choice:
          options: [a, b]
          correct_answer: 0
`
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte(doc), 0o644))

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate quiz id "sample"`)

	parsed, err := Parse("inline.yaml", []byte(doc))
	require.NoError(t, err)
	b := New()
	require.Error(t, b.Add("inline.yaml", parsed))
	assert.Equal(t, 0, b.Len())
}

func TestLoadMissingDir(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestParseJSON(t *testing.T) {
	data := []byte(`{
  "format_version": "1.1.0",
  "quizzes": [{
    "id": "json-quiz",
    "title": "JSON",
    "difficulty": "advanced",
    "time_limit": 30,
    "questions": [{
      "kind": "sequencing",
      "prompt": "Count up",
      "sequencing": {"steps": ["two", "one"], "correct_order": [1, 0]}
    }]
  }]
}`)
	doc, err := Parse("bank.json", data)
	require.NoError(t, err)
	require.Len(t, doc.Quizzes, 1)
	assert.Equal(t, 30, doc.Quizzes[0].TimeLimit)
	assert.Equal(t, []int{1, 0}, doc.Quizzes[0].Questions[0].Sequencing.CorrectOrder)
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "unknown field",
			doc:  "format_version: v1.0.0\nquizzes:\n  - id: x\n    title: X\n    difficulty: beginner\n    colour: red\n    questions: []\n",
			want: "schema",
		},
		{
			name: "missing format version",
			doc:  "quizzes:\n  - id: x\n    title: X\n    difficulty: beginner\n    questions: []\n",
			want: "schema",
		},
		{
			name: "major version",
			doc:  replaceVersion("v2.0.0"),
			want: "not supported",
		},
		{
			name: "newer minor",
			doc:  replaceVersion("v1.2.0"),
			want: "newer than supported",
		},
		{
			name: "not semver",
			doc:  replaceVersion("latest"),
			want: "not a semantic version",
		},
		{
			name: "bad answer index",
			doc: `format_version: v1.0.0
quizzes:
  - id: x
    title: X
    difficulty: beginner
    questions:
      - kind: multiple_choice
        prompt: P
        multiple_choice:
          options: [a, b]
          correct_answer: 5
`,
			want: "quiz x is invalid",
		},
		{
			name: "bad id",
			doc:  "format_version: v1.0.0\nquizzes:\n  - id: Not Valid\n    title: X\n    difficulty: beginner\n    questions: []\n",
			want: "schema",
		},
		{
			name: "broken yaml",
			doc:  "format_version: [",
			want: "parse yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("doc.yaml", []byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseInvalidQuizIsValidationError(t *testing.T) {
	doc := `format_version: v1.0.0
quizzes:
  - id: x
    title: X
    difficulty: beginner
    questions:
      - kind: sequencing
        prompt: P
        sequencing:
          steps: [a, b, c]
          correct_order: [0, 0, 1]
`
	_, err := Parse("doc.yaml", []byte(doc))
	var ve *quiz.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "x", ve.QuizID)
}

func TestEncodeParses(t *testing.T) {
	b, err := Default()
	require.NoError(t, err)
	q, ok := b.Get("http-caching")
	require.True(t, ok)

	data, err := Encode(Document{Course: q.Course, Quizzes: []quiz.Quiz{q}})
	require.NoError(t, err)
	assert.Contains(t, string(data), "format_version: "+FormatVersion)

	doc, err := Parse("out.yaml", data)
	require.NoError(t, err)
	assert.Equal(t, q, doc.Quizzes[0])
}

func replaceVersion(v string) string {
	return "format_version: " + v + sampleYAML[len("format_version: v1.0.0"):]
}
