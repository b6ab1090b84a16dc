package debt

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup) {
	h := NewHandler()

	debts := r.Group("/debts")
	{
		debts.POST("/:id/waive", h.Waive)
		debts.GET("/user/:userId", h.ListUserDebts)
	}
}
