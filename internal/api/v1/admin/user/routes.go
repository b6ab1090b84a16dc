package user

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup) {
	h := NewHandler()

	users := r.Group("/users")
	{
		users.GET("", h.List)
	}
}
