// Package bank loads quiz definitions from YAML or JSON documents, both the
// ones compiled into the binary and any found in a user directory.
package bank

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/quizline/internal/quiz"
)

// FormatVersion is the newest bank document format this build understands.
// Documents must share its major version and not be newer.
const FormatVersion = "v1.1.0"

//go:embed quizzes/*.yaml
var builtin embed.FS

// Document is one bank file.
type Document struct {
	FormatVersion string      `json:"format_version" yaml:"format_version"`
	Course        string      `json:"course,omitempty" yaml:"course,omitempty"`
	Quizzes       []quiz.Quiz `json:"quizzes" yaml:"quizzes"`
}

// LoadError reports which file failed to load.
type LoadError struct {
	File string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.File, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Bank is an ordered, id-indexed set of validated quizzes.
type Bank struct {
	quizzes []quiz.Quiz
	byID    map[string]int
	source  map[string]string
}

// New returns an empty bank.
func New() *Bank {
	return &Bank{byID: map[string]int{}, source: map[string]string{}}
}

// Default returns the bank compiled into the binary.
func Default() (*Bank, error) {
	return Load("")
}

// Load returns the built-in bank plus every *.yaml, *.yml and *.json
// document in dir. An empty dir loads only the built-in bank. Any invalid
// document fails the whole load.
func Load(dir string) (*Bank, error) {
	b := New()

	err := fs.WalkDir(builtin, "quizzes", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := builtin.ReadFile(path)
		if err != nil {
			return err
		}
		return b.addFile("builtin:"+path, data)
	})
	if err != nil {
		return nil, err
	}

	if dir == "" {
		return b, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read quiz dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !isBankFile(e.Name()) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &LoadError{File: path, Err: err}
		}
		if err := b.addFile(path, data); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func isBankFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

func (b *Bank) addFile(name string, data []byte) error {
	doc, err := Parse(name, data)
	if err != nil {
		return &LoadError{File: name, Err: err}
	}
	if err := b.Add(name, doc); err != nil {
		return &LoadError{File: name, Err: err}
	}
	return nil
}

// Add registers every quiz of doc. Quiz ids must be unique across the bank.
func (b *Bank) Add(source string, doc Document) error {
	seen := make(map[string]bool, len(doc.Quizzes))
	for _, q := range doc.Quizzes {
		if prev, dup := b.source[q.ID]; dup {
			return fmt.Errorf("duplicate quiz id %q (already defined in %s)", q.ID, prev)
		}
		if seen[q.ID] {
			return fmt.Errorf("duplicate quiz id %q in %s", q.ID, source)
		}
		seen[q.ID] = true
	}
	for _, q := range doc.Quizzes {
		b.byID[q.ID] = len(b.quizzes)
		b.source[q.ID] = source
		b.quizzes = append(b.quizzes, q)
	}
	return nil
}

// ReadFile parses and validates one document from disk.
func ReadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}
	doc, err := Parse(path, data)
	if err != nil {
		return Document{}, &LoadError{File: path, Err: err}
	}
	return doc, nil
}

// Parse decodes a document, choosing JSON for a .json name and YAML
// otherwise, and validates it: schema, format version, then every quiz.
func Parse(name string, data []byte) (Document, error) {
	isJSON := strings.EqualFold(filepath.Ext(name), ".json")

	generic, err := toJSONValue(data, isJSON)
	if err != nil {
		return Document{}, err
	}
	if err := validateDocument(generic); err != nil {
		return Document{}, fmt.Errorf("schema: %w", err)
	}

	var doc Document
	if isJSON {
		err = json.Unmarshal(data, &doc)
	} else {
		err = yaml.Unmarshal(data, &doc)
	}
	if err != nil {
		return Document{}, fmt.Errorf("decode: %w", err)
	}

	if err := checkFormatVersion(doc.FormatVersion); err != nil {
		return Document{}, err
	}

	var errs []error
	for i := range doc.Quizzes {
		if doc.Quizzes[i].Course == "" {
			doc.Quizzes[i].Course = doc.Course
		}
		if err := doc.Quizzes[i].Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return Document{}, errors.Join(errs...)
	}
	return doc, nil
}

// toJSONValue decodes data into the generic shape the schema validator
// expects (maps, slices, float64), converting YAML through JSON.
func toJSONValue(data []byte, isJSON bool) (any, error) {
	raw := data
	if !isJSON {
		var y any
		if err := yaml.Unmarshal(data, &y); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
		var err error
		if raw, err = json.Marshal(y); err != nil {
			return nil, fmt.Errorf("convert yaml: %w", err)
		}
	}
	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return v, nil
}

// checkFormatVersion accepts versions with or without the leading "v".
func checkFormatVersion(v string) error {
	if v != "" && !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return fmt.Errorf("format_version %q is not a semantic version", v)
	}
	if semver.Major(v) != semver.Major(FormatVersion) {
		return fmt.Errorf("format_version %s is not supported (want %s.x)", v, semver.Major(FormatVersion))
	}
	if semver.Compare(v, FormatVersion) > 0 {
		return fmt.Errorf("format_version %s is newer than supported %s", v, FormatVersion)
	}
	return nil
}

// Encode renders doc as YAML.
func Encode(doc Document) ([]byte, error) {
	if doc.FormatVersion == "" {
		doc.FormatVersion = FormatVersion
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// All returns every quiz in load order.
func (b *Bank) All() []quiz.Quiz {
	out := make([]quiz.Quiz, len(b.quizzes))
	copy(out, b.quizzes)
	return out
}

// Len returns the number of quizzes.
func (b *Bank) Len() int {
	return len(b.quizzes)
}

// Get returns the quiz with the given id.
func (b *Bank) Get(id string) (quiz.Quiz, bool) {
	i, ok := b.byID[id]
	if !ok {
		return quiz.Quiz{}, false
	}
	return b.quizzes[i], true
}

// Source returns where the quiz with the given id was loaded from.
func (b *Bank) Source(id string) string {
	return b.source[id]
}

// Courses returns the distinct course labels, sorted.
func (b *Bank) Courses() []string {
	seen := map[string]bool{}
	var out []string
	for _, q := range b.quizzes {
		if !seen[q.Course] {
			seen[q.Course] = true
			out = append(out, q.Course)
		}
	}
	sort.Strings(out)
	return out
}

// ByCourse returns the quizzes of one course in load order.
func (b *Bank) ByCourse(course string) []quiz.Quiz {
	var out []quiz.Quiz
	for _, q := range b.quizzes {
		if q.Course == course {
			out = append(out, q)
		}
	}
	return out
}
