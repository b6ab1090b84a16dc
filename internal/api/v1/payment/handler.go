package payment

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/muddasirfaiyaj66/nirapoth-backend-sub000/internal/services"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// callbackParams flattens the gateway's form-encoded callback body.
func callbackParams(c *gin.Context) map[string]string {
	params := make(map[string]string)

	for k, v := range c.Request.URL.Query() {
		if len(v) > 0 {
			params[k] = v[0]
		}
	}

	if c.Request.Method == http.MethodPost {
		c.Request.ParseForm()
		for k, v := range c.Request.PostForm {
			if len(v) > 0 {
				params[k] = v[0]
			}
		}
	}

	return params
}

func writeCallbackResult(c *gin.Context, err error) {
	if err == nil {
		c.String(http.StatusOK, "success")
		return
	}
	switch {
	case errors.Is(err, services.ErrSignatureInvalid):
		c.String(http.StatusUnauthorized, "Fail: "+err.Error())
	case errors.Is(err, services.ErrSessionNotFound):
		c.String(http.StatusNotFound, "Fail: "+err.Error())
	case errors.Is(err, services.ErrAmountMismatch):
		c.String(http.StatusBadRequest, "Fail: "+err.Error())
	default:
		c.String(http.StatusInternalServerError, "Fail: "+err.Error())
	}
}

// Success handles the synchronous success redirect.
func (h *Handler) Success(c *gin.Context) {
	writeCallbackResult(c, services.HandleSuccessCallback(callbackParams(c)))
}

// Fail handles the synchronous failure redirect.
func (h *Handler) Fail(c *gin.Context) {
	writeCallbackResult(c, services.HandleFailureCallback(callbackParams(c)))
}

// Cancel handles the synchronous cancel redirect.
func (h *Handler) Cancel(c *gin.Context) {
	writeCallbackResult(c, services.HandleCancelCallback(callbackParams(c)))
}

// IPN handles the asynchronous, authoritative gateway notification.
func (h *Handler) IPN(c *gin.Context) {
	writeCallbackResult(c, services.HandleIPN(callbackParams(c)))
}
