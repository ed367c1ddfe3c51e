// server/internal/api/routes/routes.go
package routes

import (
	"time"

	"fieldops-inventory-api-server/config"
	"fieldops-inventory-api-server/internal/api/handlers"
	"fieldops-inventory-api-server/internal/api/middleware"
	"fieldops-inventory-api-server/internal/cache"
	"fieldops-inventory-api-server/internal/models"
	"fieldops-inventory-api-server/internal/s3"
	"fieldops-inventory-api-server/internal/socket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

// SetupRouter wires every handler into the role-scoped route tree.
func SetupRouter(
	cfg config.Config,
	db *mongo.Database,
	alertCache cache.Cache,
	s3Uploader *s3.Uploader,
	wsHub *socket.Hub,
	jwtExpiration time.Duration,
) *gin.Engine {
	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(cors.Default())

	userHandler := &handlers.UserHandler{DB: db, JWTExpiration: jwtExpiration}
	assetHandler := &handlers.AssetHandler{DB: db, Hub: wsHub, Cache: alertCache}
	requestHandler := &handlers.RequestHandler{DB: db}
	loanHandler := &handlers.LoanHandler{DB: db, Cache: alertCache}
	installationHandler := &handlers.InstallationHandler{DB: db, Hub: wsHub, Cache: alertCache}
	dismantleHandler := &handlers.DismantleHandler{DB: db}
	handoverHandler := &handlers.HandoverHandler{DB: db, Hub: wsHub, Cache: alertCache, S3Uploader: s3Uploader}
	dashboardHandler := &handlers.DashboardHandler{
		DB:               db,
		Cache:            alertCache,
		DefaultThreshold: cfg.Stock.DefaultThreshold,
		AlertCacheTTL:    time.Duration(cfg.Stock.AlertCacheTTLSec) * time.Second,
	}
	webSocketHandler := &handlers.WebSocketHandler{Hub: wsHub}

	apiV1 := router.Group("/api/v1")
	{
		apiV1.GET("/ws", webSocketHandler.ServeWs)

		auth := apiV1.Group("/auth")
		{
			auth.POST("/login", userHandler.Login)
		}

		// Administration, superadmin only.
		admin := apiV1.Group("/admin")
		admin.Use(middleware.Authenticate())
		admin.Use(middleware.Authorize(models.RoleSuperadmin))
		{
			admin.POST("/users", userHandler.CreateUser)
		}

		// Main business routes; any authenticated staff role.
		businessRoutes := apiV1.Group("/")
		businessRoutes.Use(middleware.Authenticate())
		businessRoutes.Use(middleware.Authorize(models.RoleSuperadmin, models.RoleAdmin, models.RoleWarehouse, models.RoleTechnician))
		{
			assets := businessRoutes.Group("/assets")
			{
				assets.GET("/", assetHandler.GetAllAssets)
				assets.GET("/allocation", assetHandler.GetAllocation)
				assets.GET("/:id", assetHandler.GetAssetByID)
				assets.GET("/:id/handover-draft", handoverHandler.DraftFromAsset)

				warehouseAssetRoutes := assets.Group("/")
				warehouseAssetRoutes.Use(middleware.Authorize(models.RoleSuperadmin, models.RoleAdmin, models.RoleWarehouse))
				{
					warehouseAssetRoutes.POST("/", assetHandler.RegisterAsset)
					warehouseAssetRoutes.PUT("/:id/status", assetHandler.UpdateAssetStatus)
					warehouseAssetRoutes.POST("/:id/split", assetHandler.SplitAsset)
				}

				consumeRoutes := assets.Group("/")
				consumeRoutes.Use(middleware.Authorize(models.RoleSuperadmin, models.RoleAdmin, models.RoleWarehouse, models.RoleTechnician))
				{
					consumeRoutes.POST("/:id/consume", assetHandler.ConsumeAsset)
				}
			}

			requests := businessRoutes.Group("/requests")
			{
				requests.POST("/", requestHandler.CreateRequest)
				requests.GET("/my", requestHandler.GetMyRequests)
				requests.GET("/:id", requestHandler.GetRequestByID)
				requests.GET("/:id/handover-draft", requestHandler.GetHandoverDraft)

				adminRequestRoutes := requests.Group("/")
				adminRequestRoutes.Use(middleware.Authorize(models.RoleSuperadmin, models.RoleAdmin))
				{
					adminRequestRoutes.GET("/", requestHandler.GetAllRequests)
					adminRequestRoutes.PUT("/:id/review", requestHandler.ReviewRequest)
				}
			}

			loans := businessRoutes.Group("/loan-requests")
			{
				loans.POST("/", loanHandler.CreateLoan)
				loans.GET("/", loanHandler.GetAllLoans)
				loans.GET("/:id", loanHandler.GetLoanByID)
				loans.GET("/:id/handover-draft", loanHandler.GetHandoverDraft)

				adminLoanRoutes := loans.Group("/")
				adminLoanRoutes.Use(middleware.Authorize(models.RoleSuperadmin, models.RoleAdmin, models.RoleWarehouse))
				{
					adminLoanRoutes.PUT("/:id/approve", loanHandler.ApproveLoan)
					adminLoanRoutes.POST("/:id/return", loanHandler.ReturnLoan)
				}
			}

			installations := businessRoutes.Group("/installations")
			{
				installations.POST("/", installationHandler.CreateInstallation)
				installations.GET("/", installationHandler.GetAllInstallations)
				installations.GET("/:id", installationHandler.GetInstallationByID)
				installations.GET("/:id/handover-draft", installationHandler.GetHandoverDraft)
			}

			dismantles := businessRoutes.Group("/dismantles")
			{
				dismantles.POST("/", dismantleHandler.CreateDismantle)
				dismantles.GET("/", dismantleHandler.GetAllDismantles)
				dismantles.GET("/:id", dismantleHandler.GetDismantleByID)
				dismantles.GET("/:id/handover-draft", dismantleHandler.GetHandoverDraft)
			}

			handovers := businessRoutes.Group("/handovers")
			{
				handovers.GET("/", handoverHandler.GetAllHandovers)
				handovers.GET("/:id", handoverHandler.GetHandoverByID)

				createHandoverRoutes := handovers.Group("/")
				createHandoverRoutes.Use(middleware.Authorize(models.RoleSuperadmin, models.RoleAdmin, models.RoleWarehouse))
				{
					createHandoverRoutes.POST("/", handoverHandler.CreateHandover)
					createHandoverRoutes.POST("/:id/proof-photo", handoverHandler.UploadProofPhoto)
				}
			}

			dashboard := businessRoutes.Group("/dashboard")
			{
				dashboard.GET("/stock-alerts", dashboardHandler.GetStockAlerts)
				dashboard.GET("/thresholds", dashboardHandler.GetThresholds)

				adminDashboardRoutes := dashboard.Group("/")
				adminDashboardRoutes.Use(middleware.Authorize(models.RoleSuperadmin, models.RoleAdmin))
				{
					adminDashboardRoutes.PUT("/thresholds", dashboardHandler.UpdateThresholds)
					adminDashboardRoutes.POST("/restock-request", dashboardHandler.CreateRestockRequest)
				}
			}
		}
	}

	return router
}
