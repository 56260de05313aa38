// Package clipper selects positions out of lines and delimited records.
//
// A selection spec like "1,3-5" is parsed once into a SelectionList and then
// applied to every input line in one of three modes: bytes, chars (Unicode
// code points) or fields. Positions beyond the end of an item are skipped,
// never reported as errors, so the same selection can be used for lines of
// any length.
package clipper

import (
	"fmt"
	"strings"
)

// Mode is the addressing unit a selection applies to.
type Mode int

const (
	// ModeFields selects delimited fields of a record.
	ModeFields Mode = iota + 1
	// ModeBytes selects raw bytes of a line.
	ModeBytes
	// ModeChars selects Unicode code points of a line.
	ModeChars
)

// String returns the name of the flag that selects the mode.
func (m Mode) String() string {
	switch m {
	case ModeFields:
		return "fields"
	case ModeBytes:
		return "bytes"
	case ModeChars:
		return "chars"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Extraction binds a SelectionList to exactly one Mode.
type Extraction struct {
	mode      Mode
	selection SelectionList
}

// Fields creates a field extraction.
func Fields(selection SelectionList) Extraction {
	return Extraction{mode: ModeFields, selection: selection}
}

// Bytes creates a byte extraction.
func Bytes(selection SelectionList) Extraction {
	return Extraction{mode: ModeBytes, selection: selection}
}

// Chars creates a code point extraction.
func Chars(selection SelectionList) Extraction {
	return Extraction{mode: ModeChars, selection: selection}
}

// Mode returns the addressing mode.
func (e Extraction) Mode() Mode { return e.mode }

// Selection returns the ranges the extraction applies.
func (e Extraction) Selection() SelectionList { return e.selection }

// Line extracts from a single text line in byte or char mode.
// In field mode there is no line level result and Line returns "".
func (e Extraction) Line(line string) string {
	switch e.mode {
	case ModeBytes:
		return ExtractBytes(line, e.selection)
	case ModeChars:
		return ExtractChars(line, e.selection)
	}
	return ""
}

// Record extracts from an already split record in field mode.
// In byte and char modes Record returns nil.
func (e Extraction) Record(fields []string) []string {
	if e.mode != ModeFields {
		return nil
	}
	return ExtractFields(fields, e.selection)
}

// ExtractBytes concatenates the selected bytes of line. The result is decoded
// lossily: a range boundary that splits a multi-byte character leaves an
// invalid sequence, which is replaced by U+FFFD.
func ExtractBytes(line string, selection SelectionList) string {
	var b strings.Builder
	for _, r := range selection {
		start, end, ok := clamp(r, len(line))
		if !ok {
			continue
		}
		b.WriteString(line[start:end])
	}
	return toValidUTF8(b.String())
}

// ExtractChars concatenates the selected code points of line.
func ExtractChars(line string, selection SelectionList) string {
	runes := []rune(line)

	var b strings.Builder
	for _, r := range selection {
		start, end, ok := clamp(r, len(runes))
		if !ok {
			continue
		}
		for _, c := range runes[start:end] {
			b.WriteRune(c)
		}
	}
	return b.String()
}

// ExtractFields returns the selected fields of record in selection order.
// The returned strings share memory with record.
func ExtractFields(record []string, selection SelectionList) []string {
	selected := make([]string, 0, len(selection))
	for _, r := range selection {
		start, end, ok := clamp(r, len(record))
		if !ok {
			continue
		}
		selected = append(selected, record[start:end]...)
	}
	return selected
}

// clamp limits r to an item of n positions. ok is false when nothing of r
// falls inside the item.
func clamp(r IndexRange, n int) (start, end int, ok bool) {
	start, end = r.Start, r.End
	if end > n {
		end = n
	}
	if start < 0 {
		start = 0
	}
	return start, end, start < end
}
