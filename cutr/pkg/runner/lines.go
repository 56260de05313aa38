package runner

import (
	"bufio"
	"io"
	"strings"
)

// lineReader splits input into lines of any length. The "\n" or "\r\n"
// terminator is stripped. A last line without terminator is kept as is.
type lineReader struct {
	r *bufio.Reader
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{r: bufio.NewReader(r)}
}

func (l *lineReader) next() (string, error) {
	line, err := l.r.ReadString('\n')
	if err == io.EOF {
		if line == "" {
			return "", io.EOF
		}
		return line, nil
	}
	if err != nil {
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}

// buffered reports whether input is already waiting to be read.
func (l *lineReader) buffered() bool {
	return l.r.Buffered() > 0
}
