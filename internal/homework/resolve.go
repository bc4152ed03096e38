package homework

import (
	"errors"
	"fmt"
	"strings"
)

// AmbiguousError indicates a prefix matched several homework directories.
type AmbiguousError struct {
	Prefix  string
	Matches []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("ambiguous assignment %q matches %d homework directories: %s",
		e.Prefix, len(e.Matches), strings.Join(e.Matches, ", "))
}

// Resolve finds the homework directory for query. An exact name wins;
// otherwise query must be the prefix of exactly one directory name, so
// "lab" finds "lab3" when it is the only lab.
func Resolve(root, query string) (Directory, error) {
	key, err := NormalizeName(query)
	if err != nil {
		return Directory{}, err
	}

	dir, err := Lookup(root, key)
	if err == nil || !errors.Is(err, ErrNotFound) {
		return dir, err
	}

	dirs, listErr := List(root)
	if listErr != nil {
		return Directory{}, listErr
	}

	var matches []Directory
	for _, d := range dirs {
		if strings.HasPrefix(d.Name, key) {
			matches = append(matches, d)
		}
	}

	switch len(matches) {
	case 0:
		return Directory{}, err
	case 1:
		return matches[0], nil
	default:
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.Name
		}
		return Directory{}, &AmbiguousError{Prefix: key, Matches: names}
	}
}
