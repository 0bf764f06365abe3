package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-bevdistro/internal/handler"
	"go-bevdistro/internal/middleware"
	"go-bevdistro/internal/model"
	"go-bevdistro/internal/repository"
	"go-bevdistro/internal/service"
	"go-bevdistro/internal/ws"
	"go-bevdistro/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	if err := db.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.Mess{},
		&model.Attendant{},
		&model.StockReceipt{},
		&model.Distribution{},
		&model.Payment{},
	); err != nil {
		log.Fatal("Failed to migrate schema: ", err)
	}
	if err := database.EnsureNameIndexes(db); err != nil {
		log.Fatal("Failed to create name indexes: ", err)
	}
	if err := database.CreateReportViews(db); err != nil {
		log.Fatal("Failed to create report views: ", err)
	}

	// 3. Seed default admin user
	seedAdmin(db)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	userRepo := repository.NewUserRepo(db)
	productRepo := repository.NewProductRepo(db)
	messRepo := repository.NewMessRepo(db)
	attendantRepo := repository.NewAttendantRepo(db)
	ledgerRepo := repository.NewLedgerRepo(db)
	paymentRepo := repository.NewPaymentRepo(db)
	reportRepo := repository.NewReportRepo(db)

	authService := service.NewAuthService(userRepo)
	catalogService := service.NewCatalogService(productRepo, messRepo, attendantRepo)
	ledgerService := service.NewLedgerService(ledgerRepo, messRepo, wsHub)
	paymentService := service.NewPaymentService(paymentRepo, messRepo, wsHub)
	reportService := service.NewReportService(reportRepo)

	authHandler := handler.NewAuthHandler(authService)
	productHandler := handler.NewProductHandler(catalogService)
	messHandler := handler.NewMessHandler(catalogService)
	attendantHandler := handler.NewAttendantHandler(catalogService)
	stockHandler := handler.NewStockHandler(ledgerService)
	distHandler := handler.NewDistributionHandler(ledgerService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	dashHandler := handler.NewDashboardHandler(reportService)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Beverage Distribution API v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/validate-token", authHandler.ValidateToken)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Auth (session-bound)
	protected.Get("/auth/verify", authHandler.Verify)
	protected.Get("/auth/profile", authHandler.GetProfile)
	protected.Post("/auth/change-password", authHandler.ChangePassword)

	// Products
	protected.Get("/products", productHandler.GetProducts)
	protected.Get("/products/:id", productHandler.GetProduct)
	protected.Post("/products", productHandler.CreateProduct)
	protected.Put("/products/:id", productHandler.UpdateProduct)
	protected.Delete("/products/:id", middleware.RequireAdmin(), productHandler.DeleteProduct)

	// Messes
	protected.Get("/messes", messHandler.GetMesses)
	protected.Get("/messes/:id", messHandler.GetMess)
	protected.Get("/messes/:id/attendants", messHandler.GetMessAttendants)
	protected.Post("/messes", messHandler.CreateMess)
	protected.Put("/messes/:id", messHandler.UpdateMess)
	protected.Delete("/messes/:id", middleware.RequireAdmin(), messHandler.DeleteMess)

	// Attendants
	protected.Get("/attendants", attendantHandler.GetAttendants)
	protected.Get("/attendants/:id", attendantHandler.GetAttendant)
	protected.Post("/attendants", attendantHandler.CreateAttendant)
	protected.Put("/attendants/:id", attendantHandler.UpdateAttendant)
	protected.Delete("/attendants/:id", middleware.RequireAdmin(), attendantHandler.DeleteAttendant)

	// Inventory (stock receipts)
	protected.Get("/inventory", stockHandler.GetReceipts)
	protected.Get("/inventory/recent", stockHandler.GetRecentReceipts)
	protected.Get("/inventory/product/:productId", stockHandler.GetReceiptsByProduct)
	protected.Get("/inventory/stock/:productId", stockHandler.GetAvailableStock)
	protected.Get("/inventory/:id", stockHandler.GetReceipt)
	protected.Post("/inventory", stockHandler.AddStock)
	protected.Put("/inventory/:id", middleware.RequireAdmin(), stockHandler.UpdateReceipt)
	protected.Delete("/inventory/:id", middleware.RequireAdmin(), stockHandler.DeleteReceipt)

	// Distributions
	protected.Get("/distributions", distHandler.GetDistributions)
	protected.Get("/distributions/recent", distHandler.GetRecentDistributions)
	protected.Get("/distributions/mess/:messId", distHandler.GetDistributionsByMess)
	protected.Get("/distributions/product/:productId", distHandler.GetDistributionsByProduct)
	protected.Get("/distributions/:id", distHandler.GetDistribution)
	protected.Post("/distributions", distHandler.CreateDistribution)
	protected.Put("/distributions/:id", middleware.RequireAdmin(), distHandler.UpdateDistribution)
	protected.Delete("/distributions/:id", middleware.RequireAdmin(), distHandler.DeleteDistribution)

	// Payments
	protected.Get("/payments", paymentHandler.GetPayments)
	protected.Get("/payments/mess/:messId", paymentHandler.GetPaymentsByMess)
	protected.Get("/payments/balance/:messId", paymentHandler.GetMessBalance)
	protected.Get("/payments/balances", paymentHandler.GetAllBalances)
	protected.Get("/payments/:id", paymentHandler.GetPayment)
	protected.Post("/payments", paymentHandler.CreatePayment)
	protected.Put("/payments/:id", middleware.RequireAdmin(), paymentHandler.UpdatePayment)
	protected.Delete("/payments/:id", middleware.RequireAdmin(), paymentHandler.DeletePayment)

	// Dashboard & Reports
	protected.Get("/dashboard/metrics", dashHandler.GetMetrics)
	protected.Get("/dashboard/stock", dashHandler.GetCurrentStock)
	protected.Get("/dashboard/low-stock", dashHandler.GetLowStockAlerts)
	protected.Get("/dashboard/activity", dashHandler.GetActivityTimeline)
	protected.Get("/reports/revenue/daily", dashHandler.GetRevenueByDateRange)
	protected.Get("/reports/revenue/mess", dashHandler.GetRevenueByMess)
	protected.Get("/reports/revenue/product", dashHandler.GetRevenueByProduct)
	protected.Get("/reports/profit", middleware.RequireAdmin(), dashHandler.GetProfitAnalysis)
	protected.Get("/reports/profit/summary", middleware.RequireAdmin(), dashHandler.GetProfitSummary)
	protected.Get("/reports/export", dashHandler.ExportReport)

	// User Management (admin only)
	protected.Get("/users", middleware.RequireAdmin(), authHandler.GetUsers)
	protected.Post("/users", middleware.RequireAdmin(), authHandler.CreateUser)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedAdmin creates the default admin account on first boot.
func seedAdmin(db *gorm.DB) {
	userRepo := repository.NewUserRepo(db)

	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}
	if _, err := userRepo.FindByUsername(username); err == nil {
		return
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}

	admin := &model.User{
		Username: username,
		Email:    os.Getenv("ADMIN_EMAIL"),
		FullName: "Administrator",
		Role:     model.RoleAdmin,
		IsActive: true,
	}
	if err := admin.SetPassword(password); err != nil {
		log.Printf("Warning: Failed to hash admin password: %v", err)
		return
	}
	if err := userRepo.Create(admin); err != nil {
		log.Printf("Warning: Failed to create admin user: %v", err)
		return
	}
	log.Printf("✅ Admin user created: %s", username)
}
