package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/pm-assistant-api/internal/constants"
)

// PaginationParams holds the pagination parameters
type PaginationParams struct {
	Page  int
	Limit int
}

// GetPaginationParams extracts and clamps pagination parameters from the
// request. Both page_size and limit are accepted for the page length.
func GetPaginationParams(c *gin.Context) PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	limitParam := c.Query("limit")
	if limitParam == "" {
		limitParam = c.DefaultQuery("page_size", strconv.Itoa(constants.DefaultPageSize))
	}
	limit, _ := strconv.Atoi(limitParam)

	if page < 1 {
		page = 1
	}
	if limit < constants.MinPageSize {
		limit = constants.DefaultPageSize
	}
	if limit > constants.MaxPageSize {
		limit = constants.MaxPageSize
	}

	return PaginationParams{
		Page:  page,
		Limit: limit,
	}
}
