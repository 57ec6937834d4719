package models

// Pagination is the metadata block the backend attaches to every list
// response. Page is 1-indexed; Pages is ceil(Total/Limit).
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// List is the envelope every list endpoint returns.
type List[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Detail is the envelope detail endpoints return.
type Detail[T any] struct {
	Data T `json:"data"`
}
