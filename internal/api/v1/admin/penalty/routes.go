package penalty

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup) {
	h := NewHandler()

	penalties := r.Group("/penalties")
	{
		penalties.POST("/gem", h.ApplyGemPenalty)
		penalties.GET("/recommended", h.RecommendedDeduction)
		penalties.POST("/sweep", h.Sweep)
	}

	r.POST("/licenses", h.RegisterLicense)
}
