package domain

import (
	"strings"

	"usersadmin/internal/domain/models"
)

// Default paging values used when a request omits them.
const (
	DefaultPage     = 1
	DefaultPageSize = 20
)

// SortOrder is the direction of a SortSpec.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ParseSortOrder maps anything other than "asc" to descending.
func ParseSortOrder(s string) SortOrder {
	if strings.EqualFold(strings.TrimSpace(s), string(SortAsc)) {
		return SortAsc
	}
	return SortDesc
}

// SortSpec defines sorting preference. A nil *SortSpec means default order.
type SortSpec struct {
	Field string    `json:"field"`
	Order SortOrder `json:"order"` // asc / desc
}

// FilterSpec maps a field name to its match value. Nil or empty means no filtering.
type FilterSpec map[string]string

// PageRequest carries paging params.
type PageRequest struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// Validate rejects pages below 1 and non-positive page sizes.
func (p PageRequest) Validate() error {
	if p.Page < 1 {
		return ValidationError{Field: "page", Code: CodeInvalidPage, Msg: "page must be >= 1"}
	}
	if p.PageSize < 1 {
		return ValidationError{Field: "limit", Code: CodeInvalidPage, Msg: "limit must be > 0"}
	}
	return nil
}

// Skip is the number of records before the requested page.
func (p PageRequest) Skip() int {
	return (p.Page - 1) * p.PageSize
}

// TotalPages is ceil(totalCount/pageSize); zero iff totalCount is zero.
func TotalPages(totalCount, pageSize int) int {
	if totalCount <= 0 || pageSize <= 0 {
		return 0
	}
	return (totalCount + pageSize - 1) / pageSize
}

// PageResult is one page of users under a filter/sort at query time.
type PageResult struct {
	Items      []models.User `json:"items"`
	TotalCount int           `json:"totalCount"`
	TotalPages int           `json:"totalPages"`
	Page       int           `json:"page"`
	PageSize   int           `json:"pageSize"`
}

// ListRequest is the transport contract for list calls.
type ListRequest struct {
	Page   int        `json:"page"`
	Limit  int        `json:"limit"`
	Sort   *SortSpec  `json:"sort"`
	Filter FilterSpec `json:"filter"`
}

// PageRequest extracts paging params, applying defaults for zero values.
func (r ListRequest) PageRequest() PageRequest {
	p := PageRequest{Page: r.Page, PageSize: r.Limit}
	if p.Page == 0 {
		p.Page = DefaultPage
	}
	if p.PageSize == 0 {
		p.PageSize = DefaultPageSize
	}
	return p
}

// ListResponse is the transport contract for list results.
type ListResponse struct {
	Items      []models.User `json:"items"`
	TotalCount int           `json:"totalCount"`
	TotalPages int           `json:"totalPages"`
}

// ToListResponse drops the echoed paging fields.
func (r PageResult) ToListResponse() ListResponse {
	items := r.Items
	if items == nil {
		items = []models.User{}
	}
	return ListResponse{Items: items, TotalCount: r.TotalCount, TotalPages: r.TotalPages}
}

// RequestContext carries authenticated user info when available.
type RequestContext struct {
	Subject string `json:"sub"`
	Role    string `json:"role"`
}
