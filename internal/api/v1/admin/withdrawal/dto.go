package withdrawal

type ReviewWithdrawalRequest struct {
	Approve bool   `json:"approve"`
	Notes   string `json:"notes"`
}
