package catalog_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Astemirdum/bookshelf/gateway/internal/catalog"
	"github.com/Astemirdum/bookshelf/gateway/internal/model"
)

func fixture() []model.Book {
	return []model.Book{
		{ID: "1", Title: "Dune", Author: "Frank Herbert", Genre: "SciFi", Rating: 4.6, PublishedYear: 1965},
		{ID: "2", Title: "anathem", Author: "Neal Stephenson", Genre: "SciFi", Rating: 4.1, PublishedYear: 2008},
		{ID: "3", Title: "Beloved", Author: "Toni Morrison", Genre: "Drama", Rating: 4.1, PublishedYear: 1987},
		{ID: "4", Title: "Klara and the Sun", Author: "Kazuo Ishiguro", Genre: "Drama", Rating: 3.9, PublishedYear: 2021},
		{ID: "5", Title: "Project Hail Mary", Author: "Andy Weir", Genre: "SciFi", Rating: 4.5, PublishedYear: 2021},
		{ID: "6", Title: "Piranesi", Author: "Susanna Clarke", Genre: "Fantasy", Rating: 4.2, PublishedYear: 2020},
		{ID: "7", Title: "The Cathedral Chronicle", Author: "Anonymous", Genre: "History", Rating: 2.0, PublishedYear: 1202},
	}
}

func ids(books []model.Book) []string {
	out := make([]string, 0, len(books))
	for _, b := range books {
		out = append(out, b.ID)
	}
	return out
}

func TestComputeView_Filters(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		query   string
		filters model.SearchFilters
		want    []string
	}{
		{
			name: "no criteria keeps everything sorted by title",
			want: []string{"2", "3", "1", "4", "6", "5", "7"},
		},
		{
			name:  "query matches title case-insensitively",
			query: "DUNE",
			want:  []string{"1"},
		},
		{
			name:  "query matches author",
			query: "weir",
			want:  []string{"5"},
		},
		{
			name:  "query matches genre",
			query: "fantas",
			want:  []string{"6"},
		},
		{
			name:  "blank query is ignored",
			query: "   ",
			want:  []string{"2", "3", "1", "4", "6", "5", "7"},
		},
		{
			name:  "padding takes part in the match",
			query: " dune",
			want:  []string{},
		},
		{
			name:    "genre is exact",
			filters: model.SearchFilters{Genre: "Drama"},
			want:    []string{"3", "4"},
		},
		{
			name:    "genre is case sensitive",
			filters: model.SearchFilters{Genre: "drama"},
			want:    []string{},
		},
		{
			name:    "minimum rating is inclusive",
			filters: model.SearchFilters{Rating: "4.5"},
			want:    []string{"1", "5"},
		},
		{
			name:    "invalid rating disables the stage",
			filters: model.SearchFilters{Rating: "lots"},
			want:    []string{"2", "3", "1", "4", "6", "5", "7"},
		},
		{
			name:    "NaN rating disables the stage",
			filters: model.SearchFilters{Rating: "NaN"},
			want:    []string{"2", "3", "1", "4", "6", "5", "7"},
		},
		{
			name:    "infinite rating disables the stage",
			filters: model.SearchFilters{Rating: "inf"},
			want:    []string{"2", "3", "1", "4", "6", "5", "7"},
		},
		{
			name:    "Infinity rating disables the stage",
			filters: model.SearchFilters{Rating: "Infinity"},
			want:    []string{"2", "3", "1", "4", "6", "5", "7"},
		},
		{
			name:    "hex float rating disables the stage",
			filters: model.SearchFilters{Rating: "0x1p2"},
			want:    []string{"2", "3", "1", "4", "6", "5", "7"},
		},
		{
			name:    "digit separators disable the stage",
			filters: model.SearchFilters{Rating: "1_0"},
			want:    []string{"2", "3", "1", "4", "6", "5", "7"},
		},
		{
			name:    "exponent form disables the stage",
			filters: model.SearchFilters{Rating: " .45e0"},
			want:    []string{"2", "3", "1", "4", "6", "5", "7"},
		},
		{
			name:    "rating with surrounding spaces",
			filters: model.SearchFilters{Rating: " 4.5 "},
			want:    []string{"1", "5"},
		},
		{
			name:    "year range is inclusive",
			filters: model.SearchFilters{Year: "2020-2025"},
			want:    []string{"4", "6", "5"},
		},
		{
			name:    "year range tolerates spaces and trailing junk",
			filters: model.SearchFilters{Year: " 1960 - 1990yrs"},
			want:    []string{"3", "1"},
		},
		{
			name:    "year range with unparsable bound is skipped",
			filters: model.SearchFilters{Year: "2020-"},
			want:    []string{"2", "3", "1", "4", "6", "5", "7"},
		},
		{
			name:    "year fragment is a substring match",
			filters: model.SearchFilters{Year: "202"},
			want:    []string{"4", "6", "5", "7"},
		},
		{
			name:    "exact year",
			filters: model.SearchFilters{Year: "2021"},
			want:    []string{"4", "5"},
		},
		{
			name:    "stages combine",
			query:   "a",
			filters: model.SearchFilters{Genre: "SciFi", Rating: "4.2", Year: "1900-2100"},
			want:    []string{"1", "5"},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := catalog.ComputeView(fixture(), tt.query, tt.filters, model.SortByTitle)
			require.Equal(t, tt.want, ids(got))
		})
	}
}

func TestComputeView_YearFragmentMatchesAnyPosition(t *testing.T) {
	t.Parallel()
	books := []model.Book{
		{ID: "a", PublishedYear: 2020},
		{ID: "b", PublishedYear: 1202},
		{ID: "c", PublishedYear: 2019},
		{ID: "d", PublishedYear: 2029},
	}
	got := catalog.ComputeView(books, "", model.SearchFilters{Year: "202"}, model.SortKey("none"))
	require.Equal(t, []string{"a", "b", "d"}, ids(got))
}

func TestComputeView_DeterministicAndPure(t *testing.T) {
	t.Parallel()
	books := fixture()
	before := fixture()
	filters := model.SearchFilters{Rating: "4"}
	first := catalog.ComputeView(books, "e", filters, model.SortByRating)
	second := catalog.ComputeView(books, "e", filters, model.SortByRating)
	require.Equal(t, first, second)
	require.Equal(t, before, books)
}

func TestComputeView_Monotonic(t *testing.T) {
	t.Parallel()
	criteria := []model.SearchFilters{
		{},
		{Genre: "SciFi"},
		{Genre: "SciFi", Rating: "4.2"},
		{Genre: "SciFi", Rating: "4.2", Year: "2000-2030"},
	}
	prev := len(fixture()) + 1
	for _, f := range criteria {
		n := len(catalog.ComputeView(fixture(), "", f, model.SortByTitle))
		require.LessOrEqual(t, n, prev, fmt.Sprintf("%+v", f))
		prev = n
	}
}

func TestSort(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		key  model.SortKey
		want []string
	}{
		{name: "title by collation", key: model.SortByTitle, want: []string{"2", "3", "1", "4", "6", "5", "7"}},
		{name: "author", key: model.SortByAuthor, want: []string{"5", "7", "1", "4", "2", "6", "3"}},
		{name: "rating desc keeps ties in input order", key: model.SortByRating, want: []string{"1", "5", "6", "2", "3", "4", "7"}},
		{name: "year desc keeps ties in input order", key: model.SortByYear, want: []string{"4", "5", "6", "2", "3", "1", "7"}},
		{name: "unknown key keeps input order", key: model.SortKey("pages"), want: []string{"1", "2", "3", "4", "5", "6", "7"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			books := fixture()
			catalog.Sort(books, tt.key)
			require.Equal(t, tt.want, ids(books))
		})
	}
}

func TestSort_RatingNonIncreasing(t *testing.T) {
	t.Parallel()
	view := catalog.ComputeView(fixture(), "", model.SearchFilters{}, model.SortByRating)
	for i := 1; i < len(view); i++ {
		require.GreaterOrEqual(t, view[i-1].Rating, view[i].Rating)
	}
}

func TestParseSortKey(t *testing.T) {
	t.Parallel()
	k, ok := catalog.ParseSortKey("year")
	require.True(t, ok)
	require.Equal(t, model.SortByYear, k)
	_, ok = catalog.ParseSortKey("pages")
	require.False(t, ok)
}

func TestAvailableGenres(t *testing.T) {
	t.Parallel()
	books := []model.Book{{Genre: "SciFi"}, {Genre: "Drama"}, {Genre: "SciFi"}, {Genre: ""}}
	require.Equal(t, []string{"", "Drama", "SciFi"}, catalog.AvailableGenres(books))
	require.Equal(t, []string{}, catalog.AvailableGenres(nil))
}
