package payment

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires the public gateway callback endpoints. They are
// unauthenticated by design; the verify-sign check is the gate.
func RegisterRoutes(r *gin.RouterGroup) {
	h := NewHandler()

	callbacks := r.Group("/payment")
	{
		callbacks.Any("/success", h.Success)
		callbacks.Any("/fail", h.Fail)
		callbacks.Any("/cancel", h.Cancel)
		callbacks.POST("/ipn", h.IPN)
	}
}
