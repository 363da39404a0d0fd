package main

import (
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"go-consign-pos/internal/audit"
	"go-consign-pos/internal/cache"
	"go-consign-pos/internal/handler"
	"go-consign-pos/internal/middleware"
	"go-consign-pos/internal/model"
	"go-consign-pos/internal/repository"
	"go-consign-pos/internal/service"
	"go-consign-pos/internal/ws"
	"go-consign-pos/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	// Auto Migrate (Hati-hati di production, sebaiknya pakai tools migrasi terpisah)
	db.AutoMigrate(
		&model.User{}, &model.Privilege{}, &model.Role{},
		&model.Partner{}, &model.ShopSession{}, &model.ConsignmentItem{},
		&model.BoxOrder{}, &model.BoxOrderItem{}, &model.ActivityLog{},
	)

	// 3. Seed default privileges, roles, and admin user
	seedPrivilegesRolesAndAdmin(db)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Setup dashboard cache (optional, falls back to no-op)
	var dashCache cache.Cache = cache.Noop{}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
		dashCache = cache.NewRedisCache(addr, os.Getenv("REDIS_PASSWORD"), redisDB)
		log.Println("Dashboard cache: redis @", addr)
	}

	storageDir := os.Getenv("STORAGE_DIR")
	if storageDir == "" {
		storageDir = "./storage"
	}

	// 6. Dependency Injection (Wiring Layers)
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	partnerRepo := repository.NewPartnerRepo(db)
	sessionRepo := repository.NewSessionRepo(db)
	itemRepo := repository.NewConsignmentRepo(db)
	orderRepo := repository.NewBoxOrderRepo(db)
	logRepo := repository.NewActivityLogRepo(db)

	recorder := audit.NewRecorder(logRepo, wsHub)

	shopService := service.NewShopService(sessionRepo, itemRepo, partnerRepo, db, recorder)
	orderService := service.NewBoxOrderService(orderRepo, recorder, storageDir)
	partnerService := service.NewPartnerService(partnerRepo)
	dashService := service.NewDashboardService(sessionRepo, orderRepo, logRepo, dashCache)
	authService := service.NewAuthService(userRepo, wsHub)
	userService := service.NewUserService(userRepo, privilegeRepo, roleRepo)

	shopHandler := handler.NewShopHandler(shopService)
	orderHandler := handler.NewBoxOrderHandler(orderService, storageDir)
	partnerHandler := handler.NewPartnerHandler(partnerService)
	dashHandler := handler.NewDashboardHandler(dashService, logRepo)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleRepo)

	// 7. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Consign POS v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 8. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)
	auth.Post("/heartbeat", middleware.RequireAuth(userRepo), authHandler.Heartbeat)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Shop session routes
	protected.Get("/sessions", middleware.RequirePrivilege("session:view"), shopHandler.ListSessions)
	protected.Get("/sessions/active", middleware.RequirePrivilege("session:view"), shopHandler.GetActiveSession)
	protected.Post("/sessions/open", middleware.RequirePrivilege("session:open"), shopHandler.OpenSession)
	protected.Get("/sessions/:id", middleware.RequirePrivilege("session:view"), shopHandler.GetSession)
	protected.Post("/sessions/:id/close", middleware.RequirePrivilege("session:close"), shopHandler.CloseSession)
	protected.Get("/sessions/:id/items", middleware.RequirePrivilege("consignment:view"), shopHandler.GetSessionItems)
	protected.Post("/sessions/:id/items", middleware.RequirePrivilege("consignment:create"), shopHandler.AddItem)
	protected.Get("/consignments", middleware.RequirePrivilege("consignment:view"), shopHandler.ListConsignments)

	// Partner routes
	protected.Get("/partners", middleware.RequirePrivilege("partner:view"), partnerHandler.ListPartners)
	protected.Get("/partners/:id", middleware.RequirePrivilege("partner:view"), partnerHandler.GetPartner)
	protected.Post("/partners", middleware.RequirePrivilege("partner:create"), partnerHandler.CreatePartner)
	protected.Put("/partners/:id", middleware.RequirePrivilege("partner:update"), partnerHandler.UpdatePartner)
	protected.Delete("/partners/:id", middleware.RequirePrivilege("partner:delete"), partnerHandler.DeletePartner)

	// Box order routes
	protected.Get("/box-orders/today", middleware.RequirePrivilege("box_order:view"), orderHandler.TodayOrders)
	protected.Get("/box-orders/upcoming", middleware.RequirePrivilege("box_order:view"), orderHandler.UpcomingOrders)
	protected.Get("/box-orders/:id", middleware.RequirePrivilege("box_order:view"), orderHandler.GetOrder)
	protected.Get("/box-orders/:id/receipt", middleware.RequirePrivilege("box_order:view"), orderHandler.DownloadReceipt)
	protected.Post("/box-orders", middleware.RequirePrivilege("box_order:create"), orderHandler.CreateOrder)
	protected.Patch("/box-orders/:id/status", middleware.RequirePrivilege("box_order:update"), orderHandler.UpdateStatus)
	protected.Post("/box-orders/:id/cancel", middleware.RequirePrivilege("box_order:cancel"), orderHandler.CancelOrder)
	protected.Post("/box-orders/:id/payment-proof", middleware.RequirePrivilege("box_order:update"), orderHandler.UploadPaymentProof)

	// Dashboard routes
	protected.Get("/dashboard/stats", middleware.RequirePrivilege("dashboard:view"), dashHandler.GetStats)
	protected.Get("/dashboard/trend", middleware.RequirePrivilege("dashboard:view"), dashHandler.GetSalesTrend)
	protected.Get("/dashboard/activity", middleware.RequirePrivilege("audit:view"), dashHandler.GetActivityLog)

	// User Management Routes
	protected.Get("/users", userHandler.GetUsers)
	protected.Get("/users/:id", userHandler.GetUser)
	protected.Post("/users", middleware.RequirePrivilege("user:create"), userHandler.CreateUser)
	protected.Put("/users/:id", middleware.RequirePrivilege("user:update"), userHandler.UpdateUser)
	protected.Delete("/users/:id", middleware.RequirePrivilege("user:delete"), userHandler.DeleteUser)
	protected.Put("/users/:id/privileges", middleware.RequirePrivilege("user:update_privilege"), userHandler.UpdateUserPrivileges)

	// Role Routes
	protected.Get("/roles", roleHandler.GetRoles)

	// Privileges Route (list all available privileges)
	protected.Get("/privileges", func(c *fiber.Ctx) error {
		privileges, err := privilegeRepo.FindAll()
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch privileges"})
		}
		return c.JSON(privileges)
	})

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

	// 9. Graceful Shutdown
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

// seedPrivilegesRolesAndAdmin creates default privileges, roles, and admin user if they don't exist
func seedPrivilegesRolesAndAdmin(db *gorm.DB) {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	// 1. Seed privileges first
	if err := privilegeRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed privileges: %v", err)
	}

	// 2. Seed roles
	if err := roleRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed roles: %v", err)
	}

	// 3. Assign privileges to roles
	allPrivileges, _ := privilegeRepo.FindAll()

	// MASTER_ADMIN gets ALL privileges
	masterRole, err := roleRepo.FindByCode(model.RoleMasterAdmin)
	if err == nil && len(masterRole.Privileges) == 0 {
		db.Model(&masterRole).Association("Privileges").Replace(allPrivileges)
		log.Println("MASTER_ADMIN role assigned all privileges")
	}

	// CASHIER runs the daily flow but cannot manage users or partners
	cashierRole, err := roleRepo.FindByCode(model.RoleCashier)
	if err == nil && len(cashierRole.Privileges) == 0 {
		cashierPrivileges := []model.Privilege{}
		for _, p := range allPrivileges {
			switch p.Code {
			case "session:view", "session:open", "session:close",
				"consignment:view", "consignment:create",
				"partner:view",
				"box_order:view", "box_order:create", "box_order:update",
				"dashboard:view":
				cashierPrivileges = append(cashierPrivileges, p)
			}
		}
		db.Model(&cashierRole).Association("Privileges").Replace(cashierPrivileges)
		log.Println("CASHIER role assigned daily-flow privileges")
	}

	// 4. Create default admin user with MASTER_ADMIN role
	_, err = userRepo.FindByEmail("admin@example.com")
	if err != nil {
		masterRole, _ := roleRepo.FindByCode(model.RoleMasterAdmin)

		admin := &model.User{
			Email:       "admin@example.com",
			FullName:    "Master Administrator",
			PhoneNumber: "",
			RoleID:      &masterRole.ID,
			IsActive:    true,
			Privileges:  masterRole.Privileges,
		}
		admin.CreatedBy = "system"
		admin.UpdatedBy = "system"

		if err := admin.SetPassword("admin123"); err != nil {
			log.Printf("Warning: Failed to hash admin password: %v", err)
			return
		}

		if err := userRepo.Create(admin); err != nil {
			log.Printf("Warning: Failed to create admin user: %v", err)
		} else {
			log.Println("Admin user created: admin@example.com / admin123 (MASTER_ADMIN)")
		}
	}
}
