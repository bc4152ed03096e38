// Package scaffold creates homework directories from a Template Set.
package scaffold

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dyluth/pygrader/internal/homework"
	"github.com/dyluth/pygrader/internal/printer"
	"github.com/dyluth/pygrader/internal/prompt"
	"github.com/dyluth/pygrader/internal/templates"
)

const (
	dirPerm  os.FileMode = 0755
	filePerm os.FileMode = 0644
	execPerm os.FileMode = 0755
)

// FileInfo describes a file written into a new homework directory.
type FileInfo struct {
	Path         string
	Permissions  os.FileMode
	Replacements int // placeholder occurrences substituted
}

// Result describes a completed scaffold.
type Result struct {
	Dir      homework.Directory
	RepoRef  string
	Replaced bool // an existing directory was removed first
	Files    []FileInfo
}

// Scaffolder instantiates homework directories under Root.
type Scaffolder struct {
	Root      string
	Templates fs.FS
	Confirm   prompt.Confirmer
}

// New creates a Scaffolder. A nil confirmer declines every overwrite.
func New(root string, tmpl fs.FS, confirm prompt.Confirmer) *Scaffolder {
	if confirm == nil {
		confirm = prompt.Static(false)
	}
	return &Scaffolder{Root: root, Templates: tmpl, Confirm: confirm}
}

// Scaffold creates the homework directory for name. When repoRef is not
// empty the clone-setup template becomes the setup script with repoRef
// substituted; otherwise setup is an empty executable file.
//
// An existing directory is only replaced after the Confirmer agrees; a
// refusal returns ErrDeclined with nothing changed.
func (s *Scaffolder) Scaffold(ctx context.Context, name, repoRef string) (*Result, error) {
	dir, err := homework.At(s.Root, name)
	if err != nil {
		return nil, err
	}
	if s.Templates == nil {
		return nil, errors.New("no template set configured")
	}

	if err := os.MkdirAll(s.Root, dirPerm); err != nil {
		return nil, fsError("create data root", s.Root, err)
	}

	replaced, err := s.clearExisting(ctx, dir)
	if err != nil {
		return nil, err
	}

	// Mkdir, not MkdirAll: a directory that reappeared since the check is fatal.
	if err := os.Mkdir(dir.Path, dirPerm); err != nil {
		return nil, fsError("create homework directory", dir.Path, err)
	}

	result := &Result{Dir: dir, RepoRef: repoRef, Replaced: replaced}

	rubricPath := dir.File(homework.RubricFile)
	if err := copyTemplate(s.Templates, templates.RubricTemplate, rubricPath, filePerm); err != nil {
		return nil, err
	}
	result.Files = append(result.Files, FileInfo{Path: rubricPath, Permissions: filePerm})

	graderPath := dir.File(homework.GraderFile)
	if err := copyTemplate(s.Templates, templates.GraderTemplate, graderPath, filePerm); err != nil {
		return nil, err
	}
	n, err := Substitute(graderPath, templates.GraderPlaceholder, dir.Name)
	if err != nil {
		return nil, err
	}
	result.Files = append(result.Files, FileInfo{Path: graderPath, Permissions: filePerm, Replacements: n})

	setup, err := s.writeSetup(dir, repoRef)
	if err != nil {
		return nil, err
	}
	result.Files = append(result.Files, setup)

	return result, nil
}

// clearExisting asks before removing a directory already present for dir.
func (s *Scaffolder) clearExisting(ctx context.Context, dir homework.Directory) (bool, error) {
	if _, err := os.Lstat(dir.Path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fsError("stat", dir.Path, err)
	}

	ok, err := s.Confirm.Confirm(ctx, fmt.Sprintf("%s already exists. Overwrite?", dir.Path))
	if err != nil {
		return false, err
	}
	if !ok {
		return false, ErrDeclined
	}

	printer.Warning("Removing existing %s...\n", dir.Path)
	if err := os.RemoveAll(dir.Path); err != nil {
		return false, fsError("remove", dir.Path, err)
	}
	return true, nil
}

func (s *Scaffolder) writeSetup(dir homework.Directory, repoRef string) (FileInfo, error) {
	path := dir.File(homework.SetupFile)
	info := FileInfo{Path: path, Permissions: execPerm}

	if repoRef != "" {
		if err := copyTemplate(s.Templates, templates.CloneSetupTemplate, path, filePerm); err != nil {
			return info, err
		}
	} else if err := os.WriteFile(path, nil, filePerm); err != nil {
		return info, fsError("write", path, err)
	}

	// Chmod rather than create with 0755 so the umask cannot strip the bits.
	if err := os.Chmod(path, execPerm); err != nil {
		return info, fsError("chmod", path, err)
	}

	if repoRef != "" {
		n, err := Substitute(path, templates.SetupPlaceholder, repoRef)
		if err != nil {
			return info, err
		}
		info.Replacements = n
	}
	return info, nil
}

// copyTemplate copies a template file out of the read-only set.
func copyTemplate(tmpl fs.FS, name, dst string, perm os.FileMode) error {
	src, err := tmpl.Open(name)
	if err != nil {
		return fsError("open template", name, err)
	}
	defer src.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return fsError("create", dst, err)
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return fsError("write", dst, err)
	}
	if err := out.Close(); err != nil {
		return fsError("write", dst, err)
	}
	return nil
}

// PrintSuccess prints the created files and what is left for the TA to do.
func PrintSuccess(r *Result) {
	verb := "Created"
	if r.Replaced {
		verb = "Recreated"
	}
	printer.Success("%s homework directory %s\n", verb, r.Dir.Path)

	printer.Println("\nFiles:")
	for _, f := range r.Files {
		rel, err := filepath.Rel(r.Dir.Path, f.Path)
		if err != nil {
			rel = f.Path
		}
		printer.Printf("  ✓ %-12s %v\n", rel, f.Permissions)
	}

	printer.Println("\nNext steps:")
	printer.Printf("  1. Write the deadline to %s (MM/DD/YYYY HH:MM AM|PM)\n", r.Dir.File(homework.DeadlineFile))
	printer.Printf("  2. Adjust %s and fill in %s\n", homework.RubricFile, homework.GraderFile)
	if r.RepoRef == "" {
		printer.Printf("  3. Add submission setup commands to %s\n", r.Dir.File(homework.SetupFile))
	}
}
