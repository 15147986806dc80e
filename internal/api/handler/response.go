package handler

// Response envelopes. Every successful reply carries success=true; error
// replies are rendered centrally by the API error handler.

type dataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type pageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// pagination mirrors the next/prev cursor object on list responses: next is
// present when more items follow the current page, prev when pages precede it.
type pagination struct {
	Next *pageRef `json:"next,omitempty"`
	Prev *pageRef `json:"prev,omitempty"`
}

type listResponse struct {
	Success    bool        `json:"success"`
	Count      int         `json:"count"`
	Total      int64       `json:"total,omitempty"`
	Pagination *pagination `json:"pagination,omitempty"`
	Data       any         `json:"data"`
}

// paginate builds the next/prev links for a page of total items.
func paginate(page, limit int, total int64) *pagination {
	p := &pagination{}
	if int64(page*limit) < total {
		p.Next = &pageRef{Page: page + 1, Limit: limit}
	}
	if page > 1 {
		p.Prev = &pageRef{Page: page - 1, Limit: limit}
	}
	return p
}
