package penalty

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/muddasirfaiyaj66/nirapoth-backend-sub000/internal/models"
	"github.com/muddasirfaiyaj66/nirapoth-backend-sub000/internal/services"
	"github.com/muddasirfaiyaj66/nirapoth-backend-sub000/internal/utils"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func actingAdmin(c *gin.Context) string {
	if userRaw, exists := c.Get("user"); exists {
		if user, ok := userRaw.(models.User); ok {
			return user.Username
		}
	}
	return "system"
}

// ApplyGemPenalty deducts gems from a citizen and writes the matching
// PENALTY ledger row.
func (h *Handler) ApplyGemPenalty(c *gin.Context) {
	var body ApplyGemPenaltyRequest
	if !utils.BindAndValidate(c, &body) {
		return
	}

	acct, err := services.ApplyGemPenalty(body.CitizenID, body.Amount, body.Reason, body.Severity, actingAdmin(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrGemAccountNotFound):
			c.JSON(http.StatusNotFound, utils.NewErrorResponse(http.StatusNotFound, err.Error()))
		case errors.Is(err, services.ErrInvalidGemPenalty), errors.Is(err, services.ErrUnknownSeverity):
			c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, err.Error()))
		case errors.Is(err, services.ErrConcurrentUpdate):
			c.JSON(http.StatusConflict, utils.NewErrorResponse(http.StatusConflict, err.Error()))
		default:
			c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, err.Error()))
		}
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Penalty applied", acct))
}

// RecommendedDeduction returns the severity→amount lookup.
func (h *Handler) RecommendedDeduction(c *gin.Context) {
	severity := models.PenaltySeverity(c.Query("severity"))
	amount, err := services.RecommendedDeduction(severity)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("success", RecommendedDeductionResponse{
		Severity: severity,
		Amount:   amount,
	}))
}

// Sweep repairs gem accounts whose restriction flag lags behind a
// depleted amount.
func (h *Handler) Sweep(c *gin.Context) {
	fixed, err := services.SweepGemRestrictions()
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("success", SweepResponse{Fixed: fixed}))
}

// RegisterLicense binds a driving license to a citizen's gem account.
func (h *Handler) RegisterLicense(c *gin.Context) {
	var body RegisterLicenseRequest
	if !utils.BindAndValidate(c, &body) {
		return
	}

	license, err := services.RegisterLicense(body.UserID, body.LicenseNo)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, utils.NewResponse(http.StatusCreated, "License registered", license))
}
