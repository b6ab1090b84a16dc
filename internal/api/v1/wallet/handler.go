package wallet

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

func currentUser(c *gin.Context) (models.User, bool) {
	userRaw, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return models.User{}, false
	}
	user, ok := userRaw.(models.User)
	if !ok {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return models.User{}, false
	}
	return user, true
}

// GetBalance returns the derived balance after converting any
// shortfall into debt and netting a positive balance against open
// debts.
func (h *Handler) GetBalance(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if _, err := services.EnsureDebtForNegativeBalance(user.ID); err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, err.Error()))
		return
	}
	if _, err := services.ReconcileBalance(user.ID); err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, err.Error()))
		return
	}

	summary, err := services.GetBalance(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, err.Error()))
		return
	}
	totalDebt, err := services.GetTotalDebtAmount(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, err.Error()))
		return
	}
	withdrawable, err := services.GetWithdrawableBalance(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("success", BalanceResponse{
		BalanceSummary:  *summary,
		OutstandingDebt: totalDebt,
		Withdrawable:    withdrawable,
	}))
}

// GetTransactions returns the citizen's recent ledger history.
func (h *Handler) GetTransactions(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 || limit > 200 {
		limit = 50
	}

	rows, err := services.GetUserPaymentHistory(user.ID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("success", rows))
}

// GetDebts lists the citizen's debts, earliest due first.
func (h *Handler) GetDebts(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	debts, err := services.GetUserDebts(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("success", DebtListResponse{Debts: debts}))
}

// GetTotalDebt returns the remaining amount over active debts.
func (h *Handler) GetTotalDebt(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	total, err := services.GetTotalDebtAmount(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("success", TotalDebtResponse{TotalDebt: total}))
}

// PayDebt opens a gateway session for the debt's remaining amount.
func (h *Handler) PayDebt(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	debtID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid debt id"))
		return
	}

	session, gatewayURL, err := services.InitiateDebtPayment(user.ID, uint(debtID))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDebtNotFound):
			c.JSON(http.StatusNotFound, utils.NewErrorResponse(http.StatusNotFound, err.Error()))
		case errors.Is(err, services.ErrDebtForbidden):
			c.JSON(http.StatusForbidden, utils.NewErrorResponse(http.StatusForbidden, err.Error()))
		case errors.Is(err, services.ErrDebtSettled):
			c.JSON(http.StatusConflict, utils.NewErrorResponse(http.StatusConflict, err.Error()))
		case errors.Is(err, services.ErrGatewayFailure):
			c.JSON(http.StatusBadGateway, utils.NewErrorResponse(http.StatusBadGateway, err.Error()))
		default:
			c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, err.Error()))
		}
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("success", PayDebtResponse{
		TranID:     session.TranID,
		Amount:     session.Amount,
		GatewayURL: gatewayURL,
	}))
}

// ReinstateLicense opens a gateway session for the fixed blacklist
// reinstatement fee.
func (h *Handler) ReinstateLicense(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	licenseID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid license id"))
		return
	}

	session, gatewayURL, err := services.InitiateLicenseReinstatement(user.ID, uint(licenseID))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrLicenseNotFound):
			c.JSON(http.StatusNotFound, utils.NewErrorResponse(http.StatusNotFound, err.Error()))
		case errors.Is(err, services.ErrDebtForbidden):
			c.JSON(http.StatusForbidden, utils.NewErrorResponse(http.StatusForbidden, err.Error()))
		case errors.Is(err, services.ErrLicenseNotBlacklisted):
			c.JSON(http.StatusConflict, utils.NewErrorResponse(http.StatusConflict, err.Error()))
		case errors.Is(err, services.ErrGatewayFailure):
			c.JSON(http.StatusBadGateway, utils.NewErrorResponse(http.StatusBadGateway, err.Error()))
		default:
			c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, err.Error()))
		}
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("success", PayDebtResponse{
		TranID:     session.TranID,
		Amount:     session.Amount,
		GatewayURL: gatewayURL,
	}))
}

// RequestWithdrawal reserves funds for a cash-out request.
func (h *Handler) RequestWithdrawal(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var body WithdrawalRequestBody
	if !utils.BindAndValidate(c, &body) {
		return
	}

	req, err := services.RequestWithdrawal(user.ID, body.Amount, body.Method, body.AccountDetails)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInsufficientBalance):
			c.JSON(http.StatusUnprocessableEntity, utils.NewErrorResponse(http.StatusUnprocessableEntity, err.Error()))
		case errors.Is(err, services.ErrInvalidWithdrawalAmount):
			c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, err.Error()))
		default:
			c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, err.Error()))
		}
		return
	}

	c.JSON(http.StatusCreated, utils.NewResponse(http.StatusCreated, "Withdrawal requested", req))
}

// ListWithdrawals returns the citizen's withdrawal requests.
func (h *Handler) ListWithdrawals(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	reqs, err := services.ListUserWithdrawals(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("success", reqs))
}

// CancelWithdrawal cancels a PENDING request owned by the caller.
func (h *Handler) CancelWithdrawal(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid withdrawal id"))
		return
	}

	if err := services.CancelWithdrawal(uint(id), user.ID); err != nil {
		switch {
		case errors.Is(err, services.ErrWithdrawalNotFound):
			c.JSON(http.StatusNotFound, utils.NewErrorResponse(http.StatusNotFound, err.Error()))
		case errors.Is(err, services.ErrWithdrawalForbidden):
			c.JSON(http.StatusForbidden, utils.NewErrorResponse(http.StatusForbidden, err.Error()))
		case errors.Is(err, services.ErrWithdrawalNotPending):
			c.JSON(http.StatusConflict, utils.NewErrorResponse(http.StatusConflict, err.Error()))
		default:
			c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, err.Error()))
		}
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Withdrawal cancelled", nil))
}

// GetGemAccount returns the citizen's gem balance and restriction flag.
func (h *Handler) GetGemAccount(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	acct, err := services.GetGemAccount(user.ID)
	if err != nil {
		if errors.Is(err, services.ErrGemAccountNotFound) {
			c.JSON(http.StatusNotFound, utils.NewErrorResponse(http.StatusNotFound, err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("success", acct))
}
