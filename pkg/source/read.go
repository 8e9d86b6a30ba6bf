package source

import (
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"
)

// ErrNotFound is returned by Read when a deck file does not exist.
var ErrNotFound = errors.New("deck file not found")

// Read returns the contents of path, or of stdin when path is Stdin.
//
// At most maxChars*utf8.UTFMax+1 bytes are read. Input that long always
// holds more than maxChars characters, so a truncated read still fails the
// sanitizer's size cap instead of parsing a prefix. maxChars <= 0 reads
// everything.
func Read(path string, stdin io.Reader, maxChars int) (string, error) {
	var r io.Reader
	if path == Stdin {
		if stdin == nil {
			stdin = os.Stdin
		}
		r = stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return "", fmt.Errorf("%w: %s", ErrNotFound, path)
			}
			return "", fmt.Errorf("opening %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}

	if maxChars > 0 {
		r = io.LimitReader(r, int64(maxChars)*utf8.UTFMax+1)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", DisplayName(path), err)
	}
	return string(data), nil
}

// DisplayName returns the name used for path in reports.
func DisplayName(path string) string {
	if path == Stdin {
		return "<stdin>"
	}
	return path
}
