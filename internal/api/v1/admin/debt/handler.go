package debt

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/muddasirfaiyaj66/nirapoth-backend-sub000/internal/models"
	"github.com/muddasirfaiyaj66/nirapoth-backend-sub000/internal/services"
	"github.com/muddasirfaiyaj66/nirapoth-backend-sub000/internal/utils"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// Waive forgives the remaining amount of a debt. The acting admin is
// recorded for audit; no compensating ledger entry is written.
func (h *Handler) Waive(c *gin.Context) {
	debtID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid debt id"))
		return
	}

	var body WaiveDebtRequest
	if !utils.BindAndValidate(c, &body) {
		return
	}

	var adminID uint
	if userRaw, exists := c.Get("user"); exists {
		if user, ok := userRaw.(models.User); ok {
			adminID = user.ID
		}
	}

	record, err := services.WaiveDebt(uint(debtID), adminID, body.Notes)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDebtNotFound):
			c.JSON(http.StatusNotFound, utils.NewErrorResponse(http.StatusNotFound, err.Error()))
		case errors.Is(err, services.ErrDebtSettled):
			c.JSON(http.StatusConflict, utils.NewErrorResponse(http.StatusConflict, err.Error()))
		case errors.Is(err, services.ErrConcurrentUpdate):
			c.JSON(http.StatusConflict, utils.NewErrorResponse(http.StatusConflict, err.Error()))
		default:
			c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, err.Error()))
		}
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Debt waived", record))
}

// ListUserDebts returns all debts of one citizen.
func (h *Handler) ListUserDebts(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid user id"))
		return
	}

	debts, err := services.GetUserDebts(uint(userID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("success", debts))
}
