package withdrawal

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

// List returns the withdrawal review queue, optionally by status.
func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var status *models.WithdrawalStatus
	if s := c.Query("status"); s != "" {
		st := models.WithdrawalStatus(s)
		status = &st
	}

	reqs, total, err := services.ListWithdrawals(status, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("success", gin.H{
		"withdrawals": reqs,
		"total":       total,
		"page":        page,
		"limit":       limit,
	}))
}

// Review approves or rejects a PENDING request. Approval is final;
// the citizen can no longer cancel through their own surface.
func (h *Handler) Review(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid withdrawal id"))
		return
	}

	var body ReviewWithdrawalRequest
	if !utils.BindAndValidate(c, &body) {
		return
	}

	var adminID uint
	if userRaw, exists := c.Get("user"); exists {
		if user, ok := userRaw.(models.User); ok {
			adminID = user.ID
		}
	}

	req, err := services.ReviewWithdrawal(uint(id), adminID, body.Approve, body.Notes)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrWithdrawalNotFound):
			c.JSON(http.StatusNotFound, utils.NewErrorResponse(http.StatusNotFound, err.Error()))
		case errors.Is(err, services.ErrWithdrawalNotPending):
			c.JSON(http.StatusConflict, utils.NewErrorResponse(http.StatusConflict, err.Error()))
		default:
			c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, err.Error()))
		}
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Withdrawal reviewed", req))
}
