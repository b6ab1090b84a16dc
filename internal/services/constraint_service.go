package services

import (
	"go.uber.org/zap"

	"github.com/muddasirfaiyaj66/nirapoth-backend-sub000/internal/database"
	"github.com/muddasirfaiyaj66/nirapoth-backend-sub000/internal/models"
	"github.com/muddasirfaiyaj66/nirapoth-backend-sub000/pkg/logger"
)

// SweepGemRestrictions repairs any gem account left with a depleted
// amount but no restriction flag, the one invariant violation the
// system patches rather than alerts on. Returns the number of accounts
// fixed; a second run with the invariant holding fixes zero.
func SweepGemRestrictions() (int64, error) {
	res := database.DB.Model(&models.GemAccount{}).
		Where("amount <= ? AND is_restricted = ?", GemFloor, false).
		Update("is_restricted", true)
	if res.Error != nil {
		return 0, res.Error
	}

	if res.RowsAffected > 0 && logger.Log != nil {
		logger.Log.Warn("gem restriction invariant repaired",
			zap.Int64("accounts", res.RowsAffected))
	}
	return res.RowsAffected, nil
}
