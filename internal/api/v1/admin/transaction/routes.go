package transaction

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup) {
	h := NewHandler()

	transactions := r.Group("/transactions")
	{
		transactions.GET("", h.List)
		transactions.GET("/export", h.Export)
		transactions.POST("/adjustment", h.Adjust)
	}
}
