// Package records reads and writes delimited records.
package records

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// DefaultDelimiter separates fields when no delimiter is configured.
const DefaultDelimiter byte = '\t'

// DelimiterError is returned for a delimiter that cannot separate fields.
type DelimiterError struct {
	// Flag names the option the value came from, "delim" when empty.
	Flag  string
	Value string
}

// Error implements the Error interface for DelimiterError.
func (e *DelimiterError) Error() string {
	flag := e.Flag
	if flag == "" {
		flag = "delim"
	}
	if len(e.Value) == 1 && e.Value[0] < utf8.RuneSelf {
		return fmt.Sprintf("--%s %q cannot separate fields", flag, e.Value)
	}
	return fmt.Sprintf("--%s %q must be single byte", flag, e.Value)
}

// ParseDelimiter validates a user supplied delimiter. It must be exactly one
// ASCII byte other than a quote or a line break.
func ParseDelimiter(s string) (byte, error) {
	if len(s) != 1 || s[0] >= utf8.RuneSelf {
		return 0, &DelimiterError{Value: s}
	}
	switch s[0] {
	case '"', '\r', '\n':
		return 0, &DelimiterError{Value: s}
	}
	return s[0], nil
}

// Reader splits input into records of fields.
type Reader struct {
	r   *csv.Reader
	buf *bufio.Reader
}

// NewReader creates a Reader splitting fields on delim. Records may have
// different numbers of fields and stray quotes are tolerated.
func NewReader(r io.Reader, delim byte) *Reader {
	// csv.NewReader keeps a *bufio.Reader of the default size as is, so buf
	// is the buffer the csv reader reads from.
	buf := bufio.NewReader(r)
	cr := csv.NewReader(buf)
	cr.Comma = rune(delim)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return &Reader{r: cr, buf: buf}
}

// Buffered reports whether input is already waiting to be read, i.e. whether
// the next Read can return without blocking on the underlying reader.
func (r *Reader) Buffered() bool {
	return r.buf.Buffered() > 0
}

// Read returns the next record or io.EOF.
func (r *Reader) Read() ([]string, error) {
	record, err := r.r.Read()
	if err == io.EOF {
		return nil, err
	}
	if err != nil {
		return nil, errors.Wrap(err, "cannot read record")
	}
	return record, nil
}

// Writer joins fields with a delimiter, one record per line. A field is
// quoted only when it contains the delimiter, a quote or a line break.
type Writer struct {
	w     *bufio.Writer
	delim byte
	quote string
}

// NewWriter creates a Writer joining fields with delim.
func NewWriter(w io.Writer, delim byte) *Writer {
	return &Writer{
		w:     bufio.NewWriter(w),
		delim: delim,
		quote: string([]byte{delim, '"', '\r', '\n'}),
	}
}

// Write writes one record.
func (w *Writer) Write(fields []string) error {
	// A lone empty field is quoted so that it reads back as one field.
	if len(fields) == 1 && fields[0] == "" {
		_, err := w.w.WriteString("\"\"\n")
		return errors.Wrap(err, "cannot write record")
	}

	for i, field := range fields {
		if i > 0 {
			if err := w.w.WriteByte(w.delim); err != nil {
				return errors.Wrap(err, "cannot write record")
			}
		}
		if strings.ContainsAny(field, w.quote) {
			field = `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
		}
		if _, err := w.w.WriteString(field); err != nil {
			return errors.Wrap(err, "cannot write record")
		}
	}
	return errors.Wrap(w.w.WriteByte('\n'), "cannot write record")
}

// Flush writes buffered records to the underlying writer.
func (w *Writer) Flush() error {
	return errors.Wrap(w.w.Flush(), "cannot write record")
}
