// Package orm provides small query helpers layered over gorm.
package orm

import (
	"gorm.io/gorm"
)

// Pagination describes one page of a result set.
// Page indices are zero-based; Total is the count across all pages.
type Pagination struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
	Pages   int   `json:"pages"`
}

const (
	// DefaultPerPage is applied when the caller passes a non-positive limit.
	DefaultPerPage = 20
	// MaxPerPage caps a single page so a client cannot dump whole tables.
	MaxPerPage = 100
)

// Clamp normalises page/perPage to safe values.
func Clamp(page, perPage int) (int, int) {
	if page < 0 {
		page = 0
	}
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return page, perPage
}

// Paginate runs the query twice — once for the total count, once for the
// page slice — and fills dest with the requested page. The caller's query
// (model, where clauses, ordering) is preserved for both.
func Paginate(q *gorm.DB, dest interface{}, page, perPage int) (Pagination, error) {
	page, perPage = Clamp(page, perPage)

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return Pagination{}, err
	}

	if err := q.Offset(page * perPage).Limit(perPage).Find(dest).Error; err != nil {
		return Pagination{}, err
	}

	pages := int(total) / perPage
	if int(total)%perPage != 0 {
		pages++
	}

	return Pagination{Page: page, PerPage: perPage, Total: total, Pages: pages}, nil
}
