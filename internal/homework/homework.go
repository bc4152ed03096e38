// Package homework defines the homework directory contract shared by the
// scaffolder and the grading driver.
//
// Every homework directory lives directly under the data root and is named
// by its lowercased assignment name:
//
//	<data root>/
//	|_ hw1/
//	   |_ rubric.json   structured grading rubric
//	   |_ grader.py     grading logic, keyed by "hw1"
//	   |_ setup         executable submission setup, possibly empty
//	   |_ deadline.txt  written by hand: MM/DD/YYYY HH:MM AM|PM
package homework

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// Files every homework directory exposes.
const (
	RubricFile   = "rubric.json"
	GraderFile   = "grader.py"
	SetupFile    = "setup"
	DeadlineFile = "deadline.txt"
)

var (
	// ErrEmptyName is returned when no assignment name was given.
	ErrEmptyName = errors.New("assignment name is required")

	// ErrInvalidName is returned for names that are not a single safe
	// directory component.
	ErrInvalidName = errors.New("invalid assignment name")

	// ErrNotFound is returned when no homework directory exists for a name.
	ErrNotFound = errors.New("homework directory not found")
)

// Directory is a homework directory under the data root.
type Directory struct {
	Name string // normalized assignment name
	Path string
}

// File returns the path of a file inside the directory.
func (d Directory) File(name string) string {
	return filepath.Join(d.Path, name)
}

// NormalizeName turns an assignment name into its homework directory key:
// surrounding whitespace is dropped and the result is lowercased.
//
// Names that could escape the data root or hide from the grading driver are
// rejected: path separators, "." and "..", a leading dot, and control
// characters.
func NormalizeName(name string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return "", ErrEmptyName
	}

	switch {
	case strings.ContainsAny(key, `/\`):
		return "", fmt.Errorf("%w: %q contains a path separator", ErrInvalidName, name)
	case key == "." || key == "..":
		return "", fmt.Errorf("%w: %q is not a directory name", ErrInvalidName, name)
	case strings.HasPrefix(key, "."):
		return "", fmt.Errorf("%w: %q starts with a dot and would be hidden from the grader", ErrInvalidName, name)
	case strings.IndexFunc(key, unicode.IsControl) >= 0:
		return "", fmt.Errorf("%w: %q contains control characters", ErrInvalidName, name)
	}

	return key, nil
}

// At returns the directory for name under root without touching the disk.
func At(root, name string) (Directory, error) {
	key, err := NormalizeName(name)
	if err != nil {
		return Directory{}, err
	}
	return Directory{Name: key, Path: filepath.Join(root, key)}, nil
}

// Lookup returns the existing homework directory for name.
func Lookup(root, name string) (Directory, error) {
	dir, err := At(root, name)
	if err != nil {
		return Directory{}, err
	}

	info, err := os.Stat(dir.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Directory{}, fmt.Errorf("%w: %s", ErrNotFound, dir.Name)
		}
		return Directory{}, fmt.Errorf("failed to stat %s: %w", dir.Path, err)
	}
	if !info.IsDir() {
		return Directory{}, fmt.Errorf("%w: %s is not a directory", ErrNotFound, dir.Path)
	}
	return dir, nil
}

// List returns the homework directories under root, sorted by name. Entries
// starting with a dot are skipped, as the grading driver does. A missing
// root holds no homework.
func List(root string) ([]Directory, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read data root %s: %w", root, err)
	}

	var dirs []Directory
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		dirs = append(dirs, Directory{
			Name: entry.Name(),
			Path: filepath.Join(root, entry.Name()),
		})
	}
	// os.ReadDir already sorts by filename
	return dirs, nil
}
