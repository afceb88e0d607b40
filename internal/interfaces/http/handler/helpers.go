package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// pagination parses page and page_size query parameters with defaults.
// Page size is capped so a single request cannot pull the whole table.
func pagination(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}
