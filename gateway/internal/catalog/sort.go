package catalog

import (
	"slices"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/Astemirdum/bookshelf/gateway/internal/model"
)

const DefaultSort = model.SortByTitle

func ParseSortKey(s string) (model.SortKey, bool) {
	switch k := model.SortKey(s); k {
	case model.SortByTitle, model.SortByAuthor, model.SortByRating, model.SortByYear:
		return k, true
	default:
		return "", false
	}
}

// Sort orders books in place by a single key. Equal keys keep their relative order.
// Titles and authors compare by English collation, rating and year go highest first.
// An unknown key leaves the slice untouched.
func Sort(books []model.Book, key model.SortKey) {
	var compare func(a, b model.Book) int
	switch key {
	case model.SortByTitle, model.SortByAuthor:
		// collators carry buffers and are not safe to share.
		col := collate.New(language.English)
		if key == model.SortByTitle {
			compare = func(a, b model.Book) int { return col.CompareString(a.Title, b.Title) }
		} else {
			compare = func(a, b model.Book) int { return col.CompareString(a.Author, b.Author) }
		}
	case model.SortByRating:
		compare = func(a, b model.Book) int {
			switch {
			case a.Rating > b.Rating:
				return -1
			case a.Rating < b.Rating:
				return 1
			}
			return 0
		}
	case model.SortByYear:
		compare = func(a, b model.Book) int { return b.PublishedYear - a.PublishedYear }
	default:
		return
	}
	slices.SortStableFunc(books, compare)
}

// AvailableGenres lists each distinct genre once, sorted. A book without a genre
// contributes the empty string.
func AvailableGenres(books []model.Book) []string {
	seen := make(map[string]struct{}, len(books))
	genres := make([]string, 0)
	for _, b := range books {
		if _, ok := seen[b.Genre]; ok {
			continue
		}
		seen[b.Genre] = struct{}{}
		genres = append(genres, b.Genre)
	}
	sort.Strings(genres)
	return genres
}
