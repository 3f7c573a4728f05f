package main

import (
	"os"
	"os/signal"
	"syscall"

	"go-pos-backend/internal/handler"
	"go-pos-backend/internal/middleware"
	"go-pos-backend/internal/model"
	"go-pos-backend/internal/repository"
	"go-pos-backend/internal/service"
	"go-pos-backend/internal/ws"
	"go-pos-backend/pkg/database"
	appLogger "go-pos-backend/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberLogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

func main() {
	// 1. Load env and logging
	if err := godotenv.Load(); err != nil {
		// .env is optional outside local development
	}
	appLogger.Init("pos-backend", getEnv("ENVIRONMENT", "development") == "development")
	appLogger.SetLevel(getEnv("LOG_LEVEL", "info"))

	// 2. Database
	db := database.ConnectDB()
	if err := migrate(db); err != nil {
		appLogger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// 3. WebSocket hub for live stock updates
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 4. Dependency wiring
	txm := repository.NewTxManager(db)
	outletRepo := repository.NewOutletRepo(db)
	productRepo := repository.NewProductRepo(db)
	stockLogRepo := repository.NewStockLogRepo(db)
	shiftRepo := repository.NewShiftRepo(db)
	transactionRepo := repository.NewTransactionRepo(db)

	ledger := service.NewInventoryLedger(txm, productRepo, stockLogRepo)
	checkoutService := service.NewCheckoutService(txm, outletRepo, productRepo, transactionRepo, ledger, wsHub)
	stockService := service.NewStockService(ledger, productRepo, stockLogRepo, wsHub)
	shiftService := service.NewShiftService(txm, shiftRepo, outletRepo)

	transactionHandler := handler.NewTransactionHandler(checkoutService)
	stockHandler := handler.NewStockHandler(stockService)
	shiftHandler := handler.NewShiftHandler(shiftService)

	// 5. Fiber app
	app := fiber.New(fiber.Config{
		AppName: "POS Backend v1.0",
	})

	app.Use(fiberLogger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// 6. Routes — auth and permission checks happen upstream of the core;
	// here only the token claims are consumed.
	api := app.Group("/api/v1", middleware.RequireAuth())

	api.Post("/transactions", middleware.RequirePermission("transaction.create"), transactionHandler.CreateTransaction)
	api.Get("/transactions", middleware.RequirePermission("transaction.view"), transactionHandler.GetTransactions)
	api.Get("/transactions/:id", middleware.RequirePermission("transaction.view"), transactionHandler.GetTransaction)

	api.Post("/stock/adjustments", middleware.RequirePermission("stock.adjust"), stockHandler.CreateAdjustment)
	api.Get("/stock/logs", middleware.RequirePermission("stock.view"), stockHandler.GetLogs)

	api.Post("/shifts", middleware.RequirePermission("shift.create"), shiftHandler.OpenShift)
	api.Post("/shifts/:id/close", middleware.RequirePermission("shift.update"), shiftHandler.CloseShift)
	api.Get("/shifts", middleware.RequirePermission("shift.view"), shiftHandler.GetShifts)
	api.Get("/shifts/:id", middleware.RequirePermission("shift.view"), shiftHandler.GetShift)

	// WebSocket route for live stock updates
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

	// 7. Graceful shutdown
	go func() {
		port := getEnv("PORT", "3000")
		if err := app.Listen(":" + port); err != nil {
			appLogger.Logger.Fatal().Err(err).Msg("Server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Logger.Info().Msg("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		appLogger.Logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	appLogger.Logger.Info().Msg("Server exited")
}

// migrate creates the schema plus the partial unique index that backs the
// at-most-one-open-shift invariant, which AutoMigrate cannot express.
func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Merchant{},
		&model.Outlet{},
		&model.User{},
		&model.Product{},
		&model.StockLog{},
		&model.Shift{},
		&model.Transaction{},
		&model.TransactionItem{},
	); err != nil {
		return err
	}

	return db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_shifts_open_per_user_outlet
		 ON shifts (outlet_id, user_id)
		 WHERE status = 'open' AND deleted_at IS NULL`,
	).Error
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
