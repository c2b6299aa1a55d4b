package utils

import "github.com/gin-gonic/gin"

// OK writes the standard success envelope.
func OK(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// Paginated wraps a page of results with its pagination block.
func Paginated(items interface{}, total int64, page, limit int) gin.H {
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return gin.H{
		"items": items,
		"pagination": gin.H{
			"total": total,
			"page":  page,
			"limit": limit,
			"pages": pages,
		},
	}
}
