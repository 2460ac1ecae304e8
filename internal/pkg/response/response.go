package response

import "github.com/gin-gonic/gin"

// Success and Error write the envelope every handler in the API speaks:
// {"success": bool, "data": ...} or {"success": false, "error": {...}}.

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
