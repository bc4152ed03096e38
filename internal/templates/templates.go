// Package templates holds the Template Set that seeds every new homework
// directory. Template files are only ever read.
package templates

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
)

// Template file names inside a Template Set.
const (
	RubricTemplate     = "rubric.json"
	GraderTemplate     = "grader.py"
	CloneSetupTemplate = "clone_setup"
)

// Placeholder tokens replaced during instantiation.
const (
	// GraderPlaceholder is replaced by the lowercased assignment name.
	GraderPlaceholder = "ASSIGNMENT"
	// SetupPlaceholder is replaced by the org/repo reference.
	SetupPlaceholder = "ORG/REPO"
)

// Names lists every file a Template Set must provide.
var Names = []string{RubricTemplate, GraderTemplate, CloneSetupTemplate}

//go:embed files/*
var embedded embed.FS

// Default returns the Template Set compiled into the binary.
func Default() fs.FS {
	sub, err := fs.Sub(embedded, "files")
	if err != nil {
		// files/ is embedded at build time, so Sub cannot fail
		panic(err)
	}
	return sub
}

// Open returns the Template Set stored in dir. Every file in Names must
// exist and be a regular file.
func Open(dir string) (fs.FS, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open template directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("template path %s is not a directory", dir)
	}

	fsys := os.DirFS(dir)
	if err := Verify(fsys); err != nil {
		return nil, fmt.Errorf("template directory %s: %w", dir, err)
	}
	return fsys, nil
}

// Verify checks that fsys provides all template files.
func Verify(fsys fs.FS) error {
	for _, name := range Names {
		info, err := fs.Stat(fsys, name)
		if err != nil {
			return fmt.Errorf("missing template %s: %w", name, err)
		}
		if !info.Mode().IsRegular() {
			return fmt.Errorf("template %s is not a regular file", name)
		}
	}
	return nil
}

// Resolve picks the configured template directory, or the embedded set when
// dir is empty.
func Resolve(dir string) (fs.FS, error) {
	if dir == "" {
		return Default(), nil
	}
	return Open(dir)
}
