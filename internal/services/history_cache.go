package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/muddasirfaiyaj66/nirapoth-backend-sub000/internal/database"
	"github.com/muddasirfaiyaj66/nirapoth-backend-sub000/internal/models"
)

// Short-TTL cache of a citizen's payment history. Display endpoints may
// read it; balance, debt and withdrawal code never does and always goes
// to the ledger. Every ledger write for a user pushes an invalidation
// here.
const paymentHistoryTTL = 2 * time.Minute

func paymentHistoryKey(userID uint) string {
	return fmt.Sprintf("payments:user:%d", userID)
}

// CachedPaymentHistory returns the cached history if present.
func CachedPaymentHistory(userID uint) ([]models.Transaction, bool) {
	if database.RedisClient == nil {
		return nil, false
	}
	val, err := database.RedisClient.Get(database.Ctx, paymentHistoryKey(userID)).Result()
	if err != nil {
		return nil, false
	}
	var rows []models.Transaction
	if err := json.Unmarshal([]byte(val), &rows); err != nil {
		return nil, false
	}
	return rows, true
}

// StorePaymentHistory caches a user's history for the short TTL.
func StorePaymentHistory(userID uint, rows []models.Transaction) {
	if database.RedisClient == nil {
		return
	}
	if data, err := json.Marshal(rows); err == nil {
		database.RedisClient.Set(database.Ctx, paymentHistoryKey(userID), data, paymentHistoryTTL)
	}
}

// InvalidatePaymentHistory drops the cached history for a user. Called
// after every committed ledger write touching that user.
func InvalidatePaymentHistory(userID uint) {
	if database.RedisClient == nil {
		return
	}
	database.RedisClient.Del(database.Ctx, paymentHistoryKey(userID))
}

// GetUserPaymentHistory is the read-through used by the citizen
// transaction-history endpoint only.
func GetUserPaymentHistory(userID uint, limit int) ([]models.Transaction, error) {
	if rows, ok := CachedPaymentHistory(userID); ok {
		return rows, nil
	}

	var rows []models.Transaction
	if err := database.DB.Where("user_id = ?", userID).
		Order("created_at desc").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}

	StorePaymentHistory(userID, rows)
	return rows, nil
}
