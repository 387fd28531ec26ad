package main

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/teamtrack/teamtrack/shared/utils"
)

const maxPageSize = 100

// parsePagination reads page/limit query params. Pages are 1-based and
// the limit is capped server-side regardless of the requested value.
func parsePagination(c *gin.Context, defaultLimit int) (page, limit, offset int) {
	page, _ = strconv.Atoi(c.Query("page"))
	if page < 1 {
		page = 1
	}

	limit, _ = strconv.Atoi(c.Query("limit"))
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	return page, limit, (page - 1) * limit
}

// paginationMeta builds the page window for a list response
func paginationMeta(total int64, page, limit int) utils.Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return utils.Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		Limit:       limit,
	}
}

// searchPattern builds a case-insensitive LIKE pattern
func searchPattern(term string) string {
	return "%" + strings.ToLower(term) + "%"
}
