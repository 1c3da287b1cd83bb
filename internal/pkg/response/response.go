package response

import "github.com/gin-gonic/gin"

// The envelope mirrors what the payment widget and the booking front-end
// expect: {success:true,data} on success, {success:false,error,details?}
// on failure. Error details never carry secrets or stack traces.

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error":   message,
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error":   message,
		"details": details,
	})
}
