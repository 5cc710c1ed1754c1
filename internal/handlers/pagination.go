package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const maxPageLimit = 200

var errInvalidPagination = errors.New("page and limit must be positive integers")

func parsePaginationParams(pageStr, limitStr string) (int64, int64, error) {
	page := int64(1)
	limit := int64(20)

	if pageStr != "" {
		p, err := strconv.ParseInt(pageStr, 10, 64)
		if err != nil || p < 1 {
			return 0, 0, errInvalidPagination
		}
		page = p
	}

	if limitStr != "" {
		l, err := strconv.ParseInt(limitStr, 10, 64)
		if err != nil || l < 1 {
			return 0, 0, errInvalidPagination
		}
		limit = min(l, maxPageLimit)
	}

	return page, limit, nil
}

// respondList writes items as a list view. Without page or limit query
// parameters the whole list is returned in one page.
func respondList[T any](c *gin.Context, route string, items []T) {
	pageStr, limitStr := c.Query("page"), c.Query("limit")
	if pageStr == "" && limitStr == "" {
		c.JSON(http.StatusOK, gin.H{
			"data":       items,
			"pagination": gin.H{"page": 1, "limit": len(items), "total": len(items), "totalPages": pagesFor(len(items), len(items))},
		})
		return
	}

	page, limit, err := parsePaginationParams(pageStr, limitStr)
	if err != nil {
		respondWithError(c, http.StatusBadRequest, route, err.Error())
		return
	}

	total := int64(len(items))
	start := total
	if page-1 <= total/limit {
		start = min((page-1)*limit, total)
	}
	end := min(start+limit, total)

	c.JSON(http.StatusOK, gin.H{
		"data": items[start:end],
		"pagination": gin.H{
			"page":       page,
			"limit":      limit,
			"total":      total,
			"totalPages": pagesFor(int(total), int(limit)),
		},
	})
}

func pagesFor(total, limit int) int {
	if total == 0 || limit == 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}
