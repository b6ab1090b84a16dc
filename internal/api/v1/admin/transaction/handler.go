package transaction

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/muddasirfaiyaj66/nirapoth-backend-sub000/internal/models"
	"github.com/muddasirfaiyaj66/nirapoth-backend-sub000/internal/services"
	"github.com/muddasirfaiyaj66/nirapoth-backend-sub000/internal/utils"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func filterFromQuery(c *gin.Context) services.TransactionFilter {
	filter := services.TransactionFilter{Page: 1, Limit: 20}

	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && page > 0 {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil && limit > 0 && limit <= 500 {
		filter.Limit = limit
	}
	if s := c.Query("user_id"); s != "" {
		if id, err := strconv.ParseUint(s, 10, 32); err == nil {
			uid := uint(id)
			filter.UserID = &uid
		}
	}
	if s := c.Query("type"); s != "" {
		t := models.TransactionType(s)
		filter.Type = &t
	}
	if s := c.Query("source"); s != "" {
		src := models.TransactionSource(s)
		filter.Source = &src
	}
	if s := c.Query("status"); s != "" {
		st := models.TransactionStatus(s)
		filter.Status = &st
	}
	if s := c.Query("start_time"); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			filter.StartTime = &t
		}
	}
	if s := c.Query("end_time"); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			filter.EndTime = &t
		}
	}

	return filter
}

// List returns filtered, paginated ledger rows.
func (h *Handler) List(c *gin.Context) {
	filter := filterFromQuery(c)

	transactions, total, err := services.FindTransactions(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("success", TransactionListResponse{
		Transactions: transactions,
		Total:        total,
		Page:         filter.Page,
		Limit:        filter.Limit,
	}))
}

// Export streams the filtered ledger rows as CSV.
func (h *Handler) Export(c *gin.Context) {
	filter := filterFromQuery(c)
	filter.Page = 1
	filter.Limit = 10000

	transactions, _, err := services.FindTransactions(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, err.Error()))
		return
	}

	data, err := services.GenerateTransactionCSV(transactions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, err.Error()))
		return
	}

	c.Header("Content-Disposition", "attachment; filename=transactions.csv")
	c.Data(http.StatusOK, "text/csv", data)
}

// Adjust writes an admin REWARD or PENALTY row.
func (h *Handler) Adjust(c *gin.Context) {
	var body ManualAdjustmentRequest
	if !utils.BindAndValidate(c, &body) {
		return
	}

	operator := "system"
	if userRaw, exists := c.Get("user"); exists {
		if user, ok := userRaw.(models.User); ok {
			operator = user.Username
		}
	}

	t, err := services.RecordManualAdjustment(body.UserID, body.Amount, body.Type, body.Notes, operator)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidAdjustmentType), errors.Is(err, services.ErrNegativeAmount):
			c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, err.Error()))
		default:
			c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, err.Error()))
		}
		return
	}

	c.JSON(http.StatusCreated, utils.NewResponse(http.StatusCreated, "Adjustment recorded", t))
}
