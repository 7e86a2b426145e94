package catalog

import (
	"github.com/Astemirdum/bookshelf/gateway/internal/model"
)

const DefaultPageSize = 12

// Paginate cuts the 1-indexed page out of items. A page outside [1, totalPages] yields
// no items; the totals are reported either way.
func Paginate(items []model.Book, page, pageSize int) model.Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	total := len(items)
	p := model.Page{
		Items:      []model.Book{},
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
		Total:      total,
	}
	if page < 1 || page > p.TotalPages {
		return p
	}
	from := (page - 1) * pageSize
	to := from + pageSize
	if to > total {
		to = total
	}
	p.Items = append(p.Items, items[from:to]...)
	return p
}
