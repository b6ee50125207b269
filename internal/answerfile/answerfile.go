// Package answerfile reads and writes interview answers as TOML so a
// finished interview can be replayed through the static planner.
//
// Format:
//
//	title = "Simulation des aides"
//	saved_at = 2025-07-14T10:00:00Z
//	skipped = ["job-seeker-since"]
//
//	[answers]
//	living-arrangement = "En couple"
//	adult2-intent = true
//	income-types = ["Salaire", "Prestations familiales"]
//	rent-amount = 650.5
//
// TOML has no null, so explicitly skipped questions are listed in skipped.
package answerfile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/pders01/interview/internal/models"
)

// File is the on-disk shape of an answer file.
type File struct {
	Title   string         `toml:"title,omitempty"`
	SavedAt time.Time      `toml:"saved_at,omitempty"`
	Skipped []string       `toml:"skipped,omitempty"`
	Answers map[string]any `toml:"answers"`
}

// Decode reads answers from r.
func Decode(r io.Reader) (models.Answers, File, error) {
	var f File
	if _, err := toml.NewDecoder(r).Decode(&f); err != nil {
		return nil, File{}, fmt.Errorf("failed to decode answer file: %w", err)
	}

	answers := make(models.Answers, len(f.Answers)+len(f.Skipped))
	for id, raw := range f.Answers {
		v, err := models.FromAny(raw)
		if err != nil {
			return nil, File{}, fmt.Errorf("invalid answer for %s: %w", id, err)
		}
		answers[id] = v
	}
	for _, id := range f.Skipped {
		if _, ok := answers[id]; ok {
			return nil, File{}, fmt.Errorf("question %s is both answered and skipped", id)
		}
		answers[id] = models.Null()
	}
	return answers, f, nil
}

// Load reads an answer file from path.
func Load(path string) (models.Answers, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open answer file: %w", err)
	}
	defer file.Close()

	answers, _, err := Decode(file)
	return answers, err
}

// Build converts answers to the on-disk shape.
func Build(title string, answers models.Answers, savedAt time.Time) File {
	f := File{Title: title, SavedAt: savedAt, Answers: map[string]any{}}
	for id, v := range answers {
		switch v.Kind() {
		case models.KindNull:
			f.Skipped = append(f.Skipped, id)
		case models.KindString:
			f.Answers[id] = v.Str()
		case models.KindNumber:
			f.Answers[id] = v.Num()
		case models.KindBool:
			f.Answers[id] = v.Truth()
		case models.KindList:
			f.Answers[id] = v.Items()
		}
	}
	sort.Strings(f.Skipped)
	return f
}

// Encode writes answers to w.
func Encode(w io.Writer, f File) error {
	if err := toml.NewEncoder(w).Encode(f); err != nil {
		return fmt.Errorf("failed to encode answer file: %w", err)
	}
	return nil
}

// Save writes answers to path, creating parent directories.
func Save(path string, f File) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create answers directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create answer file: %w", err)
	}
	return write(file, f)
}

// write encodes f and closes w. A close failure is reported when encoding
// succeeded.
func write(w io.WriteCloser, f File) (err error) {
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close answer file: %w", cerr)
		}
	}()
	return Encode(w, f)
}

// FileName returns the default file name for answers saved at t.
func FileName(t time.Time) string {
	return fmt.Sprintf("interview-%s.toml", t.Format("2006-01-02T150405"))
}
