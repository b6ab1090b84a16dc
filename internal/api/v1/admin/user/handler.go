package user

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/muddasirfaiyaj66/nirapoth-backend-sub000/internal/services"
	"github.com/muddasirfaiyaj66/nirapoth-backend-sub000/internal/utils"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// List returns a paginated user listing for the admin console.
func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	users, total, err := services.FindUsers(page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, err.Error()))
		return
	}

	list := make([]UserSummary, 0, len(users))
	for _, u := range users {
		list = append(list, UserSummary{
			ID:        u.ID,
			Username:  u.Username,
			FullName:  u.FullName,
			Role:      u.Role,
			CreatedAt: u.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("success", UserListResponse{
		Users: list,
		Total: total,
		Page:  page,
		Limit: limit,
	}))
}
