package pagination

import (
	"math"
	"net/url"
	"strconv"
)

// Page is the stable pagination envelope. TotalCount is computed before
// offset/limit are applied; out-of-range pages yield an empty Data slice with
// correct totals, never a clamped page number.
type Page[T any] struct {
	Data         []T     `json:"data"`
	TotalCount   int64   `json:"total_count"`
	Page         int     `json:"page"`
	PageSize     int     `json:"page_size"`
	TotalPages   int     `json:"total_pages"`
	NextPage     *string `json:"next_page"`
	PreviousPage *string `json:"previous_page"`
}

// Offset returns the row offset for a 1-based page.
func Offset(page, pageSize int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * pageSize
}

// Build assembles the envelope for one materialized page of rows. The
// next/previous links copy the original query parameters and overwrite
// page/page_size, and are omitted when the target page falls outside
// [1, total_pages].
func Build[T any](data []T, totalCount int64, page, pageSize int, path string, params url.Values) Page[T] {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(math.Ceil(float64(totalCount) / float64(pageSize)))
	}
	if data == nil {
		data = []T{}
	}
	return Page[T]{
		Data:         data,
		TotalCount:   totalCount,
		Page:         page,
		PageSize:     pageSize,
		TotalPages:   totalPages,
		NextPage:     pageURL(path, params, page+1, pageSize, totalPages),
		PreviousPage: pageURL(path, params, page-1, pageSize, totalPages),
	}
}

func pageURL(path string, params url.Values, page, pageSize, totalPages int) *string {
	if page < 1 || page > totalPages {
		return nil
	}
	query := url.Values{}
	for key, values := range params {
		for _, value := range values {
			query.Add(key, value)
		}
	}
	query.Set("page", strconv.Itoa(page))
	query.Set("page_size", strconv.Itoa(pageSize))
	link := path + "?" + query.Encode()
	return &link
}
