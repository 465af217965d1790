package app

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"

	"github.com/patlouis/e-commerce-bookstore/internal/config"
	"github.com/patlouis/e-commerce-bookstore/internal/handlers"
	"github.com/patlouis/e-commerce-bookstore/internal/metrics"
	"github.com/patlouis/e-commerce-bookstore/internal/repositories"
	"github.com/patlouis/e-commerce-bookstore/internal/services"
)

// App is the wired HTTP application.
type App struct {
	Fiber   *fiber.App
	Auth    *services.AuthService
	Books   *services.BookService
	Store   *repositories.GormStore
	Metrics *metrics.Metrics
}

// New wires repositories, services and handlers over db.
func New(cfg config.Config, db *gorm.DB) *App {
	m := metrics.New("api")
	store := repositories.NewGormStore(db)

	authService := services.NewAuthService(store.Users(), cfg.JWTSecret, cfg.TokenTTL)
	bookService := services.NewBookService(store)
	cartService := services.NewCartService(store)
	checkoutService := services.NewCheckoutService(store, m)
	orderService := services.NewOrderService(store.Orders())

	f := fiber.New(fiber.Config{
		AppName: "bookstore",
	})
	f.Use(recover.New())
	f.Use(logger.New())
	f.Use(m.Middleware())

	handlers.NewAuthHandler(authService).RegisterRoutes(f)
	handlers.NewBookHandler(bookService, authService).RegisterRoutes(f)
	handlers.NewCartHandler(cartService, authService).RegisterRoutes(f)
	handlers.NewOrderHandler(orderService, checkoutService, authService).RegisterRoutes(f)

	f.Get("/health", func(c *fiber.Ctx) error {
		status, code := "healthy", fiber.StatusOK
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.UserContext()) != nil {
			status, code = "unhealthy", fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	f.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	return &App{
		Fiber:   f,
		Auth:    authService,
		Books:   bookService,
		Store:   store,
		Metrics: m,
	}
}
