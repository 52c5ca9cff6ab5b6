package controller

import "github.com/gin-gonic/gin"

func ErrorResponse(ctx *gin.Context, status int, code, message string) {
	ctx.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func SuccessResponse(ctx *gin.Context, key string, data interface{}) {
	ctx.JSON(200, gin.H{key: data})
}
