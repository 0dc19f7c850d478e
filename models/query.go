package models

type FilterOp string

const (
	OpEq  FilterOp = "eq"
	OpGt  FilterOp = "gt"
	OpGte FilterOp = "gte"
	OpLt  FilterOp = "lt"
	OpLte FilterOp = "lte"
	OpIn  FilterOp = "in"
)

func (o FilterOp) IsValid() bool {
	switch o {
	case OpEq, OpGt, OpGte, OpLt, OpLte, OpIn:
		return true
	}
	return false
}

type Filter struct {
	Field  string
	Op     FilterOp
	Values []string
}

type SortField struct {
	Field string
	Desc  bool
}

const (
	DefaultPage  = 1
	DefaultLimit = 25
	MaxLimit     = 100
	// MaxPage keeps (page-1)*limit well inside an int64 OFFSET.
	MaxPage      = 1_000_000_000
)

// ListQuery is a parsed listing request: filters, ordering, page window and
// projected fields.
type ListQuery struct {
	Filters []Filter
	Sort    []SortField
	Page    int
	Limit   int
	Select  []string
}

func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

type PageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

type Pagination struct {
	Next *PageRef `json:"next,omitempty"`
	Prev *PageRef `json:"prev,omitempty"`
}

// NewPagination returns hints for the neighbouring pages that exist given total records.
func NewPagination(page, limit, total int) Pagination {
	var p Pagination
	startIndex := (page - 1) * limit
	endIndex := page * limit
	if endIndex < total {
		p.Next = &PageRef{Page: page + 1, Limit: limit}
	}
	if startIndex > 0 {
		p.Prev = &PageRef{Page: page - 1, Limit: limit}
	}
	return p
}

type ListResult struct {
	Success    bool       `json:"success"`
	Count      int        `json:"count"`
	Total      int        `json:"total"`
	Pagination Pagination `json:"pagination"`
	Data       any        `json:"data"`
}
