package services

import (
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/muddasirfaiyaj66/nirapoth-backend-sub000/internal/database"
	"github.com/muddasirfaiyaj66/nirapoth-backend-sub000/internal/models"
)

func setupTestDB() {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}

	db.Migrator().DropTable(
		&models.User{},
		&models.Transaction{},
		&models.DebtRecord{},
		&models.WithdrawalRequest{},
		&models.GemAccount{},
		&models.DrivingLicense{},
		&models.PaymentSession{},
	)
	db.AutoMigrate(
		&models.User{},
		&models.Transaction{},
		&models.DebtRecord{},
		&models.WithdrawalRequest{},
		&models.GemAccount{},
		&models.DrivingLicense{},
		&models.PaymentSession{},
	)

	database.DB = db
	database.RedisClient = nil
}

func setupTestRedis() *miniredis.Miniredis {
	mr, err := miniredis.Run()
	if err != nil {
		panic(err)
	}

	database.RedisClient = redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	return mr
}

func seedUser(username string) models.User {
	user := models.User{
		Username: username,
		Password: "hashed",
		FullName: "Test User",
		Role:     models.RoleCitizen,
		Version:  1,
	}
	database.DB.Create(&user)
	return user
}

func seedTransaction(userID uint, amount float64, txType models.TransactionType, source models.TransactionSource, status models.TransactionStatus) models.Transaction {
	t := models.Transaction{
		UserID: userID,
		Amount: amount,
		Type:   txType,
		Source: source,
		Status: status,
	}
	database.DB.Create(&t)
	return t
}
