package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/muddasirfaiyaj66/nirapoth-backend-sub000/config"
	adminDebt "github.com/muddasirfaiyaj66/nirapoth-backend-sub000/internal/api/v1/admin/debt"
	adminPenalty "github.com/muddasirfaiyaj66/nirapoth-backend-sub000/internal/api/v1/admin/penalty"
	adminTransaction "github.com/muddasirfaiyaj66/nirapoth-backend-sub000/internal/api/v1/admin/transaction"
	adminUser "github.com/muddasirfaiyaj66/nirapoth-backend-sub000/internal/api/v1/admin/user"
	adminWithdrawal "github.com/muddasirfaiyaj66/nirapoth-backend-sub000/internal/api/v1/admin/withdrawal"
	"github.com/muddasirfaiyaj66/nirapoth-backend-sub000/internal/api/v1/auth"
	"github.com/muddasirfaiyaj66/nirapoth-backend-sub000/internal/api/v1/payment"
	"github.com/muddasirfaiyaj66/nirapoth-backend-sub000/internal/api/v1/wallet"
	"github.com/muddasirfaiyaj66/nirapoth-backend-sub000/internal/database"
	"github.com/muddasirfaiyaj66/nirapoth-backend-sub000/internal/middleware"
)

func NewRouter() (*gin.Engine, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	_, err = database.Connect(cfg.DSN())
	if err != nil {
		return nil, err
	}

	err = database.ConnectRedis(cfg)
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(middleware.Logger(), gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:8080"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	v1 := router.Group("/api/v1")
	{
		auth.RegisterRoutes(v1)

		// Gateway callbacks are public; the verify-sign check is the gate.
		payment.RegisterRoutes(v1)

		authorized := v1.Group("/")
		authorized.Use(middleware.AuthMiddleware())
		{
			wallet.RegisterRoutes(authorized)
		}

		admin := v1.Group("/admin")
		admin.Use(middleware.AdminAuthMiddleware())
		{
			adminUser.RegisterRoutes(admin)
			adminDebt.RegisterRoutes(admin)
			adminPenalty.RegisterRoutes(admin)
			adminWithdrawal.RegisterRoutes(admin)
			adminTransaction.RegisterRoutes(admin)
		}
	}

	return router, nil
}
