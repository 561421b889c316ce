package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// ErrNotFound is returned when a document id or path has no backing file.
var ErrNotFound = errors.New("document not found")

// Category distinguishes the two independent document namespaces.
type Category string

const (
	CategoryCandidate Category = "candidate"
	CategoryJob       Category = "job"
)

// Info describes an available document for listing purposes.
type Info struct {
	ID    string
	Label string
}

// Library resolves document ids to files under a fixed directory layout:
// <dataDir>/candidates/<id>.txt and <dataDir>/jobs/<id>.txt.
type Library struct {
	dataDir string
}

// NewLibrary creates a library rooted at dataDir.
func NewLibrary(dataDir string) *Library {
	return &Library{dataDir: dataDir}
}

// CandidatesDir returns the candidates directory path.
func (l *Library) CandidatesDir() string {
	return filepath.Join(l.dataDir, "candidates")
}

// JobsDir returns the jobs directory path.
func (l *Library) JobsDir() string {
	return filepath.Join(l.dataDir, "jobs")
}

// CandidatePath resolves a candidate id to its file path.
func (l *Library) CandidatePath(id string) string {
	return filepath.Join(l.CandidatesDir(), id+".txt")
}

// JobPath resolves a job id to its file path.
func (l *Library) JobPath(id string) string {
	return filepath.Join(l.JobsDir(), id+".txt")
}

// Read returns the full content of the file at path. A missing file yields
// an error wrapping ErrNotFound; other read failures pass through unchanged.
func (l *Library) Read(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// ListCandidates lists the .txt files in the candidates directory with
// human-readable labels. A missing directory yields an empty list.
func (l *Library) ListCandidates() ([]Info, error) {
	return listDir(l.CandidatesDir(), CategoryCandidate)
}

// ListJobs lists the .txt files in the jobs directory with human-readable
// labels. A missing directory yields an empty list.
func (l *Library) ListJobs() ([]Info, error) {
	return listDir(l.JobsDir(), CategoryJob)
}

// AllPaths returns the paths of every .txt file in both directories,
// candidates first. Used for bulk ingestion at startup.
func (l *Library) AllPaths() ([]string, error) {
	var paths []string
	for _, dir := range []string{l.CandidatesDir(), l.JobsDir()} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("listing %s: %w", dir, err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
				continue
			}
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	return paths, nil
}

// CategoryOf reports the category of a path based on its parent directory.
// Paths outside the library default to the candidate namespace.
func (l *Library) CategoryOf(path string) Category {
	if filepath.Dir(path) == l.JobsDir() {
		return CategoryJob
	}
	return CategoryCandidate
}

func listDir(dir string, category Category) ([]Info, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}

	infos := make([]Info, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".txt") {
			continue
		}
		id := strings.TrimSuffix(name, ".txt")
		infos = append(infos, Info{ID: id, Label: DisplayLabel(id, category)})
	}
	return infos, nil
}

// DisplayLabel derives a human-readable label from a document id:
// the category prefix ("candidate_" or "job_") and the "_resume" suffix
// are stripped, underscores become spaces, and each word is title-cased.
// For example: "candidate_john_doe_resume" becomes "John Doe" and
// "job_senior_sw_engineer" becomes "Senior Sw Engineer".
func DisplayLabel(id string, category Category) string {
	label := id
	switch category {
	case CategoryCandidate:
		label = strings.TrimPrefix(label, "candidate_")
		label = strings.TrimSuffix(label, "_resume")
	case CategoryJob:
		label = strings.TrimPrefix(label, "job_")
	}
	label = strings.ReplaceAll(label, "_", " ")
	return titleCase(label)
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		runes := []rune(strings.ToLower(word))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
