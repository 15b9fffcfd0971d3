package collection

import (
	"sort"
	"strconv"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// ParseDirection normalizes a direction string, defaulting to ascending.
func ParseDirection(value string) Direction {
	if value == string(Descending) {
		return Descending
	}
	return Ascending
}

type valueKind int

const (
	kindMissing valueKind = iota
	kindNumber
	kindString
)

// SortValue is the comparable projection of one sortable field. Missing
// values sort after present ones regardless of direction.
type SortValue struct {
	kind valueKind
	str  string
	num  float64
}

func StringValue(value string) SortValue {
	return SortValue{kind: kindString, str: value}
}

func NumberValue(value float64) SortValue {
	return SortValue{kind: kindNumber, num: value}
}

func MissingValue() SortValue {
	return SortValue{kind: kindMissing}
}

// Sorter compares string values with locale-aware ordering. Safe for
// concurrent use; the underlying collator is not.
type Sorter struct {
	mu       sync.Mutex
	collator *collate.Collator
}

// NewSorter builds a sorter for the given locale.
func NewSorter(tag language.Tag) *Sorter {
	return &Sorter{collator: collate.New(tag, collate.IgnoreCase)}
}

// SortBy returns a stably sorted copy of items ordered by the projected
// value. Identifier-like strings that both parse as integers are compared
// numerically, so "10" sorts after "2".
func SortBy[T any](sorter *Sorter, items []T, key func(T) SortValue, dir Direction) []T {
	sorted := make([]T, len(items))
	copy(sorted, items)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := key(sorted[i]), key(sorted[j])

		// Missing values always go last, even descending.
		if a.kind == kindMissing || b.kind == kindMissing {
			return a.kind != kindMissing && b.kind == kindMissing
		}

		cmp := sorter.compare(a, b)
		if dir == Descending {
			return cmp > 0
		}
		return cmp < 0
	})
	return sorted
}

func (s *Sorter) compare(a, b SortValue) int {
	if a.kind == kindNumber && b.kind == kindNumber {
		return compareFloat(a.num, b.num)
	}
	if a.kind == kindString && b.kind == kindString {
		if an, aok := parseIntString(a.str); aok {
			if bn, bok := parseIntString(b.str); bok {
				return compareInt(an, bn)
			}
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.collator.CompareString(a.str, b.str)
	}
	// Mixed kinds: numbers order before strings.
	if a.kind == kindNumber {
		return -1
	}
	return 1
}

func parseIntString(value string) (int64, bool) {
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, false
	}
	return parsed, true
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
