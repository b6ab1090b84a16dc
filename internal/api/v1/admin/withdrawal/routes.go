package withdrawal

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup) {
	h := NewHandler()

	withdrawals := r.Group("/withdrawals")
	{
		withdrawals.GET("", h.List)
		withdrawals.POST("/:id/review", h.Review)
	}
}
