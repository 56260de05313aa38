// Package xinput resolves input file arguments.
package xinput

import (
	"io"
	"os"
	"sort"
	"strings"

	"github.com/mattn/go-zglob"
	"github.com/pkg/errors"
)

// Stdin is the file argument that reads from standard input.
const Stdin = "-"

// Open opens name for reading. Stdin returns stdin wrapped so that closing
// it is a no-op.
func Open(name string, stdin io.Reader) (io.ReadCloser, error) {
	if name == Stdin {
		return io.NopCloser(stdin), nil
	}
	return os.Open(name)
}

// Expand expands glob patterns in args, "**" included. Arguments keep their
// order and the matches of one pattern are sorted. A pattern without matches
// is kept as is so that opening it reports the failure.
func Expand(args []string) ([]string, error) {
	if len(args) == 0 {
		return []string{Stdin}, nil
	}

	var names []string
	for _, arg := range args {
		if arg == Stdin || !isPattern(arg) {
			names = append(names, arg)
			continue
		}

		matches, err := zglob.Glob(arg)
		if err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "cannot expand %q", arg)
		}
		if len(matches) == 0 {
			names = append(names, arg)
			continue
		}
		sort.Strings(matches)
		names = append(names, matches...)
	}
	return names, nil
}

func isPattern(s string) bool {
	return strings.ContainsAny(s, "*?[")
}
