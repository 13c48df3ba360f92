package handler

import "github.com/fuelsync/backend/internal/domain/shared"

// ListQuery holds the common paging and sorting query parameters
type ListQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"pageSize" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search" binding:"omitempty,max=100"`
	OrderBy  string `form:"orderBy" binding:"omitempty,oneof=name created_at updated_at email"`
	OrderDir string `form:"orderDir" binding:"omitempty,oneof=asc desc"`
}

// Filter converts the query to a repository filter
func (q ListQuery) Filter() shared.Filter {
	f := shared.DefaultFilter()
	if q.Page > 0 {
		f.Page = q.Page
	}
	if q.PageSize > 0 {
		f.PageSize = q.PageSize
	}
	if q.OrderBy != "" {
		f.OrderBy = q.OrderBy
	}
	if q.OrderDir != "" {
		f.OrderDir = q.OrderDir
	}
	f.Search = q.Search
	return f
}
