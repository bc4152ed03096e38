package scaffold

import (
	"bytes"
	"os"
)

// Substitute replaces every literal occurrence of token with value in the
// file at path, rewriting it in place with its existing permissions. It
// returns the number of replacements made.
func Substitute(path, token, value string) (int, error) {
	if token == "" {
		return 0, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return 0, fsError("stat", path, err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return 0, fsError("read", path, err)
	}

	n := bytes.Count(content, []byte(token))
	if n == 0 {
		return 0, nil
	}

	updated := bytes.ReplaceAll(content, []byte(token), []byte(value))
	if err := os.WriteFile(path, updated, info.Mode().Perm()); err != nil {
		return 0, fsError("write", path, err)
	}
	return n, nil
}
