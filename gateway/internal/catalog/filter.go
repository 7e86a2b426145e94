// Package catalog narrows, orders and pages the book collection the catalog API returns.
//
// Everything except Browser is pure: the same inputs always give the same view and the
// input slice is never modified.
package catalog

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Astemirdum/bookshelf/gateway/internal/model"
)

// ComputeView runs the filter stages in order (query, genre, rating, year) and sorts the
// survivors by key. Stages whose input is empty are skipped.
func ComputeView(books []model.Book, query string, filters model.SearchFilters, key model.SortKey) []model.Book {
	out := make([]model.Book, 0, len(books))
	for _, b := range books {
		if matchQuery(b, query) && matchGenre(b, filters.Genre) &&
			matchRating(b, filters.Rating) && matchYear(b, filters.Year) {
			out = append(out, b)
		}
	}
	Sort(out, key)
	return out
}

// The check uses the trimmed query but the match uses it as typed, so surrounding
// spaces take part in the substring test.
func matchQuery(b model.Book, query string) bool {
	if strings.TrimSpace(query) == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(b.Title), q) ||
		strings.Contains(strings.ToLower(b.Author), q) ||
		strings.Contains(strings.ToLower(b.Genre), q)
}

func matchGenre(b model.Book, genre string) bool {
	return genre == "" || b.Genre == genre
}

// decimal is a plain decimal literal. strconv.ParseFloat alone would also take "NaN",
// "inf", hex floats and digit separators.
var decimal = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)

func matchRating(b model.Book, raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" || !decimal.MatchString(raw) {
		return true
	}
	min, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return true
	}
	return b.Rating >= min
}

// matchYear treats input with a '-' as an inclusive range and anything else as a
// fragment of the year's digits, so "202" matches 2020 through 2029 and also 1202.
// TODO(catalog): product review of the fragment match, it is kept as shipped.
func matchYear(b model.Book, raw string) bool {
	if raw == "" {
		return true
	}
	if !strings.Contains(raw, "-") {
		return strings.Contains(strconv.Itoa(b.PublishedYear), raw)
	}
	parts := strings.Split(raw, "-")
	start, okStart := leadingInt(parts[0])
	end, okEnd := leadingInt(parts[1])
	if !okStart || !okEnd {
		return true
	}
	return b.PublishedYear >= start && b.PublishedYear <= end
}

// leadingInt reads an optionally signed run of digits after leading whitespace and
// ignores whatever follows: "2020abc" is 2020, "abc" is not a number.
func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}
