package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/habitsync-api/internal/constants"
)

// PageParams is the validated paging window for history listings.
type PageParams struct {
	Page  int
	Limit int
}

// Offset converts the one-based page into a row offset.
func (p PageParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PageResponse is the paging metadata attached to list responses.
type PageResponse struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// PageFromQuery reads the page and limit query parameters. Out-of-range
// values are clamped rather than rejected, so a stale or hand-edited link
// still returns a sensible page.
func PageFromQuery(c *gin.Context) PageParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(constants.DefaultPageSize)))

	if page < 1 {
		page = 1
	}
	if limit < constants.MinPageSize {
		limit = constants.DefaultPageSize
	}
	if limit > constants.MaxPageSize {
		limit = constants.MaxPageSize
	}

	return PageParams{Page: page, Limit: limit}
}
