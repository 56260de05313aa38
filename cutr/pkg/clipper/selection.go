package clipper

import (
	"regexp"
	"strconv"
	"strings"
)

// IndexRange is a half-open [Start, End) span of 0-based positions.
// A valid range always has Start < End.
type IndexRange struct {
	Start int
	End   int
}

// Len is the number of positions covered by the range.
func (r IndexRange) Len() int { return r.End - r.Start }

// String renders the range in the 1-based user syntax, e.g. "3" or "3-5".
func (r IndexRange) String() string {
	if r.Len() == 1 {
		return strconv.Itoa(r.End)
	}
	return strconv.Itoa(r.Start+1) + "-" + strconv.Itoa(r.End)
}

// SelectionList is an ordered list of ranges. The order is the output order.
// Ranges may overlap or repeat and are never merged, so a position covered
// twice is emitted twice. A SelectionList must not be modified once parsed;
// it is then safe for concurrent use.
type SelectionList []IndexRange

// String renders the list back into a selection spec.
func (l SelectionList) String() string {
	parts := make([]string, len(l))
	for i, r := range l {
		parts[i] = r.String()
	}
	return strings.Join(parts, ",")
}

var rangePattern = regexp.MustCompile(`^(\d+)-(\d+)$`)

// ParseSelection parses a comma separated selection spec such as "1,3-5,8".
// Each token is a 1-based index or an inclusive `a-b` range with a < b.
// The first bad token aborts the parse with a *SelectionError.
func ParseSelection(spec string) (SelectionList, error) {
	tokens := strings.Split(spec, ",")
	list := make(SelectionList, 0, len(tokens))

	for _, token := range tokens {
		r, err := parseToken(token)
		if err != nil {
			return nil, err
		}
		list = append(list, r)
	}

	return list, nil
}

func parseToken(token string) (IndexRange, error) {
	n, err := parseIndex(token)
	if err == nil {
		return IndexRange{Start: n, End: n + 1}, nil
	}

	m := rangePattern.FindStringSubmatch(token)
	if m == nil {
		return IndexRange{}, err
	}

	first, err := parseIndex(m[1])
	if err != nil {
		return IndexRange{}, err
	}
	last, err := parseIndex(m[2])
	if err != nil {
		return IndexRange{}, err
	}

	if first >= last {
		return IndexRange{}, &SelectionError{
			Kind:  InvertedRangeKind,
			Token: token,
			First: first + 1,
			Last:  last + 1,
		}
	}

	return IndexRange{Start: first, End: last + 1}, nil
}

// parseIndex turns a 1-based index into a 0-based one. A leading '+' is
// rejected even though strconv would accept it.
func parseIndex(s string) (int, error) {
	if strings.HasPrefix(s, "+") {
		return 0, &SelectionError{Kind: SyntaxKind, Token: s}
	}

	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, &SelectionError{Kind: SyntaxKind, Token: s}
	}

	return n - 1, nil
}
