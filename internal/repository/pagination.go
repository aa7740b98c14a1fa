package repository

import "gorm.io/gorm"

// Pagination defaults shared by every list query.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page is a 1-based page request.
type Page struct {
	Page  int
	Limit int
}

// Normalize clamps the page into valid bounds.
func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	return p
}

func (p Page) scope(db *gorm.DB) *gorm.DB {
	n := p.Normalize()
	return db.Offset((n.Page - 1) * n.Limit).Limit(n.Limit)
}
