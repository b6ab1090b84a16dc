package debt

type WaiveDebtRequest struct {
	Notes string `json:"notes" binding:"required"`
}
