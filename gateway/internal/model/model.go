package model

import (
	"time"
)

type Book struct {
	ID            string  `json:"id"`
	Title         string  `json:"title" validate:"required"`
	Author        string  `json:"author" validate:"required"`
	Genre         string  `json:"genre"`
	Rating        float64 `json:"rating" validate:"gte=0,lte=5"`
	PublishedYear int     `json:"publishedYear"`
	Description   string  `json:"description"`
	CoverImage    string  `json:"coverImage"`
}

// BookPatch is a partial book update; nil fields are left as they are.
type BookPatch struct {
	Title         *string  `json:"title,omitempty"`
	Author        *string  `json:"author,omitempty"`
	Genre         *string  `json:"genre,omitempty"`
	Rating        *float64 `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	PublishedYear *int     `json:"publishedYear,omitempty"`
	Description   *string  `json:"description,omitempty"`
	CoverImage    *string  `json:"coverImage,omitempty"`
}

type SortKey string

const (
	SortByTitle  SortKey = "title"
	SortByAuthor SortKey = "author"
	SortByRating SortKey = "rating"
	SortByYear   SortKey = "year"
)

// SearchFilters holds the raw filter inputs. Empty means the stage is off.
type SearchFilters struct {
	Genre  string `json:"genre" query:"genre"`
	Rating string `json:"rating" query:"rating"`
	// Year is either "start-end" or a fragment matched against the year's digits.
	Year string `json:"year" query:"year"`
}

type Page struct {
	Items      []Book `json:"items"`
	Page       int    `json:"page"`
	PageSize   int    `json:"pageSize"`
	TotalPages int    `json:"totalPages"`
	Total      int    `json:"totalElements"`
}

type CatalogView struct {
	Page
	Genres []string `json:"genres"`
	Sort   SortKey  `json:"sort"`
}

type ReadingList struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	BookIDs     []string  `json:"bookIds"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (l ReadingList) Contains(bookID string) bool {
	for _, id := range l.BookIDs {
		if id == bookID {
			return true
		}
	}
	return false
}

func (l ReadingList) Clone() ReadingList {
	c := l
	if l.BookIDs != nil {
		c.BookIDs = append(make([]string, 0, len(l.BookIDs)), l.BookIDs...)
	}
	return c
}

type CreateReadingListRequest struct {
	UserID      string   `json:"userId"`
	Name        string   `json:"name" validate:"notblank"`
	Description string   `json:"description"`
	BookIDs     []string `json:"bookIds"`
}

// ReadingListPatch is sent as a partial update. BookIDs, when set, replaces the whole
// membership; a pointer so that an emptied list is still sent as [].
type ReadingListPatch struct {
	Name        *string   `json:"name,omitempty"`
	Description *string   `json:"description,omitempty"`
	BookIDs     *[]string `json:"bookIds,omitempty"`
}

type AddBookRequest struct {
	BookID string `json:"bookId" validate:"required"`
}

type ReadingListDetail struct {
	List  ReadingList `json:"list"`
	Books []Book      `json:"books"`
}

type Review struct {
	ID        string    `json:"id"`
	BookID    string    `json:"bookId"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

type CreateReviewRequest struct {
	BookID   string `json:"bookId" validate:"required"`
	UserID   string `json:"userId" validate:"required"`
	UserName string `json:"userName"`
	Rating   int    `json:"rating" validate:"min=1,max=5"`
	Comment  string `json:"comment" validate:"notblank"`
}

type Recommendation struct {
	BookID string  `json:"bookId,omitempty"`
	Title  string  `json:"title"`
	Author string  `json:"author,omitempty"`
	Reason string  `json:"reason,omitempty"`
	Score  float64 `json:"score,omitempty"`
}

type RecommendationRequest struct {
	Query string `json:"query" validate:"notblank"`
}

type Stats struct {
	TotalUsers int `json:"totalUsers"`
	TotalLists int `json:"totalLists"`
	// Degraded is set when the numbers are fallbacks rather than fetched values.
	Degraded bool `json:"degraded,omitempty"`
}

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	Groups    []string  `json:"groups,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type Tokens struct {
	AccessToken  string `json:"access_token"`
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int    `json:"expires_in"`
}
